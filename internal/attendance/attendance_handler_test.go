package attendance_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-attendance/internal/attendance"
	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/attendance/mock"
	"go-attendance/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func postJSON(h gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

func TestHandler_Fingerprint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock.NewMockService(ctrl)
	h := attendance.NewHandler(svc)

	t.Run("time-in created", func(t *testing.T) {
		captured := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
		svc.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ev attendance.Event) (attendance.Result, error) {
				assert.Equal(t, "E1", ev.EmployeeID)
				assert.Equal(t, attendance.SourceFingerprint, ev.Source)
				assert.Equal(t, "kiosk-1", ev.DeviceID)
				assert.True(t, ev.Timestamp.Equal(captured))
				return attendance.Result{
					Outcome: attendance.OutcomeTimeIn,
					Session: "Morning",
					Message: "Time in recorded for Morning session",
				}, nil
			},
		)

		w := postJSON(h.Fingerprint, "/attendances/fingerprint",
			`{"employee_id":"E1","device_id":"kiosk-1","captured_at":"2026-03-02T07:30:00Z"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"TIME_IN"`)
	})

	t.Run("rejection keeps reason code", func(t *testing.T) {
		svc.EXPECT().Record(gomock.Any(), gomock.Any()).Return(attendance.Result{
			Outcome:    attendance.OutcomeRejected,
			ReasonCode: attendanceerrors.CodeAlreadyTimedIn,
			Reason:     attendanceerrors.ErrAlreadyTimedIn,
			Message:    attendanceerrors.ErrAlreadyTimedIn.Message,
		}, nil)

		w := postJSON(h.Fingerprint, "/attendances/fingerprint", `{"employee_id":"E1","device_id":"kiosk-1"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"ALREADY_TIMED_IN"`)
	})

	t.Run("transient failure", func(t *testing.T) {
		svc.EXPECT().Record(gomock.Any(), gomock.Any()).Return(attendance.Result{}, apperror.Transient(errors.New("db down")))

		w := postJSON(h.Fingerprint, "/attendances/fingerprint", `{"employee_id":"E1","device_id":"kiosk-1"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("missing device id", func(t *testing.T) {
		w := postJSON(h.Fingerprint, "/attendances/fingerprint", `{"employee_id":"E1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Manual(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock.NewMockService(ctrl)
	h := attendance.NewHandler(svc)

	svc.EXPECT().Record(gomock.Any(), attendance.Event{EmployeeID: "E2", Source: attendance.SourceManual}).
		Return(attendance.Result{
			Outcome:    attendance.OutcomeRejected,
			ReasonCode: attendanceerrors.CodeOutOfSession,
			Reason:     attendanceerrors.ErrOutOfSession,
			Message:    "Attendance is not open at 18:00:00. Configured sessions: no sessions configured",
		}, nil)

	w := postJSON(h.Manual, "/attendances/manual", `{"employee_id":"E2"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Attendance is not open at 18:00:00")
}

func TestHandler_Summary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock.NewMockService(ctrl)
	h := attendance.NewHandler(svc)

	svc.EXPECT().Summary(gomock.Any(), "2026-03-02").Return(attendance.SummaryResponse{Date: "2026-03-02", TimeIn: 4, Late: 1}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances/summary?date=2026-03-02", nil)
	h.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"time_in":4`)
}

func TestHandler_GetAll_Paginates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock.NewMockService(ctrl)
	h := attendance.NewHandler(svc)

	rows := []attendance.AttendanceResponse{{EmployeeID: "E1"}, {EmployeeID: "E2"}, {EmployeeID: "E3"}}
	svc.EXPECT().GetAll(gomock.Any(), attendance.ListFilter{Date: "2026-03-02"}).Return(rows, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances?date=2026-03-02&page=2&page_size=2", nil)
	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"employee_id":"E3"`)
	assert.NotContains(t, body, `"employee_id":"E1"`)
	assert.Contains(t, body, `"total_pages":2`)
}
