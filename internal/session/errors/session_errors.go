package sessionerrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
)

const CodeInvalidConfiguration = "INVALID_CONFIGURATION"

var (
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"session not found",
		http.StatusNotFound,
	)
	ErrSessionNameTaken = apperror.New(
		apperror.CodeConflict,
		"a session with the same name already exists",
		http.StatusConflict,
	)
	ErrInvalidSessionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid session id",
		http.StatusBadRequest,
	)
	ErrInvalidTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timestamp, expected RFC3339",
		http.StatusBadRequest,
	)
)

func InvalidConfiguration(err error) *apperror.AppError {
	return apperror.Wrap(
		err,
		CodeInvalidConfiguration,
		"invalid session configuration: "+err.Error(),
		http.StatusBadRequest,
	)
}
