package attendanceerrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
)

const (
	CodeOutOfSession         = "OUT_OF_SESSION"
	CodeNoTimeInYet          = "NO_TIME_IN_YET"
	CodeAlreadyTimedIn       = "ALREADY_TIMED_IN"
	CodeAlreadyCompleted     = "ALREADY_COMPLETED"
	CodeTimeOutNotConfigured = "TIME_OUT_NOT_CONFIGURED"
)

// Business rejections. They are reported inside a Result, not returned as errors.
var (
	ErrOutOfSession = apperror.New(
		CodeOutOfSession,
		"attendance is not open right now",
		http.StatusUnprocessableEntity,
	)
	ErrNoTimeInYet = apperror.New(
		CodeNoTimeInYet,
		"cannot time out before timing in today",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyTimedIn = apperror.New(
		CodeAlreadyTimedIn,
		"already timed in today",
		http.StatusConflict,
	)
	ErrAlreadyCompleted = apperror.New(
		CodeAlreadyCompleted,
		"attendance for today is already complete",
		http.StatusConflict,
	)
	ErrTimeOutNotConfigured = apperror.New(
		CodeTimeOutNotConfigured,
		"time-out is not configured for this session",
		http.StatusUnprocessableEntity,
	)
)

// Input errors.
var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrTimestampInFuture = apperror.New(
		apperror.CodeInvalidInput,
		"event timestamp is in the future",
		http.StatusBadRequest,
	)
	ErrTimeOutBeforeTimeIn = apperror.New(
		apperror.CodeInvalidInput,
		"time-out must be after time-in",
		http.StatusBadRequest,
	)
)
