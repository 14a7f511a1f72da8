package kiosk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SubmitFingerprint(t *testing.T) {
	var gotKey, gotIdem string
	var gotBody map[string]string

	status := http.StatusCreated
	reply := `{"ok":true,"data":{"outcome":"TIME_IN","message":"Time in recorded for Morning session"}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/attendances/fingerprint", r.URL.Path)
		gotKey = r.Header.Get("X-Kiosk-Key")
		gotIdem = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "secret", time.Second)
	capture := Capture{ID: 7, DeviceID: "kiosk-1", EmployeeID: "E1", CapturedAt: time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)}

	d, err := client.SubmitFingerprint(context.Background(), capture)
	require.NoError(t, err)
	assert.Equal(t, "TIME_IN", d.Outcome)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "capture-7", gotIdem)
	assert.Equal(t, "2026-03-02T07:30:00Z", gotBody["captured_at"])

	status = http.StatusConflict
	reply = `{"ok":false,"error":{"code":"ALREADY_TIMED_IN","message":"already timed in today"}}`
	d, err = client.SubmitFingerprint(context.Background(), capture)
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", d.Outcome)
	assert.Equal(t, "ALREADY_TIMED_IN", d.Code)

	status = http.StatusServiceUnavailable
	reply = `{"ok":false,"error":{"code":"SERVICE_UNAVAILABLE","message":"retry"}}`
	_, err = client.SubmitFingerprint(context.Background(), capture)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_ActiveSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sessions/active", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true,"data":{"allowed":true,"session":"afternoon","window_kind":"FALLBACK","degraded":true}}`))
	}))
	defer srv.Close()

	active, err := NewClient(srv.URL, "secret", time.Second).ActiveSession(context.Background())
	require.NoError(t, err)
	assert.True(t, active.Degraded)
	assert.Equal(t, "afternoon", active.Session)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "secret", time.Second).ActiveSession(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
