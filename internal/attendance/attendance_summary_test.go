package attendance_test

import (
	"context"
	"testing"
	"time"

	"go-attendance/internal/attendance"
	"go-attendance/internal/events"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestSummaryStore_Apply(t *testing.T) {
	ctx := context.Background()
	key := attendance.SummaryKey("2026-03-02")

	t.Run("late time-in", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := attendance.NewSummaryStore(db)

		mock.ExpectSetNX("attendance:summary:seen:ev-1", 1, 48*time.Hour).SetVal(true)
		mock.ExpectTxPipeline()
		mock.ExpectHIncrBy(key, "time_in", 1).SetVal(1)
		mock.ExpectHIncrBy(key, "late", 1).SetVal(1)
		mock.ExpectExpire(key, 35*24*time.Hour).SetVal(true)
		mock.ExpectTxPipelineExec()

		applied, err := store.Apply(ctx, events.AttendanceRecordedEvent{
			EventID:        "ev-1",
			AttendanceDate: "2026-03-02",
			Outcome:        "TIME_IN",
			Late:           true,
		})
		assert.NoError(t, err)
		assert.True(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redelivered event", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := attendance.NewSummaryStore(db)

		mock.ExpectSetNX("attendance:summary:seen:ev-1", 1, 48*time.Hour).SetVal(false)

		applied, err := store.Apply(ctx, events.AttendanceRecordedEvent{
			EventID:        "ev-1",
			AttendanceDate: "2026-03-02",
			Outcome:        "TIME_IN",
		})
		assert.NoError(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSummaryStore_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := attendance.NewSummaryStore(db)

	mock.ExpectHGetAll(attendance.SummaryKey("2026-03-02")).SetVal(map[string]string{
		"time_in":  "12",
		"time_out": "9",
		"late":     "3",
	})

	resp, err := store.Get(context.Background(), "2026-03-02")
	assert.NoError(t, err)
	assert.Equal(t, attendance.SummaryResponse{Date: "2026-03-02", TimeIn: 12, TimeOut: 9, Late: 3}, resp)
}
