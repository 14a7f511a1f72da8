package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const kioskKeyHeader = "X-Kiosk-Key"

// ErrUnavailable marks answers the kiosk should retry later.
var ErrUnavailable = errors.New("attendance api unavailable")

type ActiveSession struct {
	Allowed    bool   `json:"allowed"`
	Session    string `json:"session"`
	WindowKind string `json:"window_kind"`
	Degraded   bool   `json:"degraded"`
	ClockTime  string `json:"clock_time"`
	Message    string `json:"message"`
}

// Decision is the gate's answer to one capture.
type Decision struct {
	Outcome string
	Code    string
	Message string
}

type API interface {
	ActiveSession(ctx context.Context) (ActiveSession, error)
	SubmitFingerprint(ctx context.Context, c Capture) (Decision, error)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) ActiveSession(ctx context.Context) (ActiveSession, error) {
	var out ActiveSession
	env, status, err := c.do(ctx, http.MethodGet, "/api/v1/sessions/active", nil, "")
	if err != nil {
		return out, err
	}
	if !env.Ok {
		return out, apiError(status, env)
	}
	err = json.Unmarshal(env.Data, &out)
	return out, err
}

func (c *Client) SubmitFingerprint(ctx context.Context, capture Capture) (Decision, error) {
	body := map[string]any{
		"employee_id": capture.EmployeeID,
		"device_id":   capture.DeviceID,
		"captured_at": capture.CapturedAt.UTC().Format(time.RFC3339),
	}
	idempotencyKey := "capture-" + strconv.FormatInt(capture.ID, 10)

	env, status, err := c.do(ctx, http.MethodPost, "/api/v1/attendances/fingerprint", body, idempotencyKey)
	if err != nil {
		return Decision{}, err
	}

	if env.Ok {
		var result struct {
			Outcome string `json:"outcome"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return Decision{}, err
		}
		return Decision{Outcome: result.Outcome, Message: result.Message}, nil
	}

	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests || env.Error == nil {
		return Decision{}, apiError(status, env)
	}
	return Decision{Outcome: "REJECTED", Code: env.Error.Code, Message: env.Error.Message}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string) (envelope, int, error) {
	var env envelope

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return env, 0, err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return env, 0, err
	}
	req.Header.Set(kioskKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return env, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return env, resp.StatusCode, fmt.Errorf("%w: status %d: %v", ErrUnavailable, resp.StatusCode, err)
	}
	return env, resp.StatusCode, nil
}

func apiError(status int, env envelope) error {
	if env.Error == nil {
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
	return fmt.Errorf("%w: status %d: %s: %s", ErrUnavailable, status, env.Error.Code, env.Error.Message)
}
