package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ATTENDANCE_TZ", "Asia/Jakarta")
	t.Setenv("ATTENDANCE_TIMEOUT", "2s")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "Asia/Jakarta", cfg.Location.String())
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("ATTENDANCE_TZ", "Mars/Olympus")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("ATTENDANCE_TZ", "UTC")
	t.Setenv("ATTENDANCE_TIMEOUT", "soon")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("ATTENDANCE_TIMEOUT", "")
	t.Setenv("JWT_SECRET", "")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadKioskConfig(t *testing.T) {
	t.Setenv("KIOSK_API_KEY", "k")
	t.Setenv("KIOSK_DEVICE_ID", "")
	_, err := LoadKioskConfig()
	assert.Error(t, err)

	t.Setenv("KIOSK_DEVICE_ID", "kiosk-1")
	t.Setenv("KIOSK_POLL_INTERVAL", "500ms")
	cfg, err := LoadKioskConfig()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.PollEvery)
	assert.Equal(t, 3*time.Second, cfg.RefreshEvery)
}
