package bootstrap

import (
	"context"
	"testing"

	"go-attendance/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audit := NewStdoutAuditLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "req-1")
	audit.Log(ctx, AuditLog{Action: "SERVER_SHUTDOWN", Message: "bye", Meta: map[string]any{"signal": "terminated"}})

	entries := logs.FilterMessage("audit event").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "SERVER_SHUTDOWN", fields["action"])
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "audit", entries[0].LoggerName)
	}
}
