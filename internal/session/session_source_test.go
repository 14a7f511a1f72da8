package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-attendance/internal/clock"

	"github.com/stretchr/testify/assert"
)

func TestFileSource_ListSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.yaml")
	content := `
sessions:
  - name: Morning
    time_in: "06:00-12:00"
    time_out: "12:00-13:00"
    late_cutoff: "08:00"
    break_minutes: 60
  - name: Night
    time_in: "22:00-02:00"
  - name: Broken
    time_in: "0600"
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rows, err := NewFileSource(path).ListSessions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, 2, rows[2].Position)

	c := BuildCatalog(rows)
	assert.Len(t, c.Sessions(), 2)
	assert.Len(t, c.Invalid(), 1)

	morning, err := c.SessionByName("Morning")
	assert.NoError(t, err)
	assert.NotNil(t, morning.TimeOut)
	assert.Equal(t, clock.MustParse("08:00"), *morning.LateCutoff)
	assert.Equal(t, 60, *morning.BreakMinutes)

	night, err := c.SessionByName("Night")
	assert.NoError(t, err)
	assert.True(t, night.TimeIn.Overnight())
	assert.Nil(t, night.TimeOut)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml")).ListSessions(context.Background())
	assert.Error(t, err)
}
