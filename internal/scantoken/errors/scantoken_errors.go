package scantokenerrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
)

const (
	CodeTokenNotFound    = "TOKEN_NOT_FOUND"
	CodeTokenExpired     = "TOKEN_EXPIRED"
	CodeTokenAlreadyUsed = "TOKEN_ALREADY_USED"
)

var (
	ErrTokenNotFound = apperror.New(
		CodeTokenNotFound,
		"scan token not found",
		http.StatusNotFound,
	)
	ErrTokenExpired = apperror.New(
		CodeTokenExpired,
		"scan token has expired, generate a new one",
		http.StatusGone,
	)
	ErrTokenAlreadyUsed = apperror.New(
		CodeTokenAlreadyUsed,
		"scan token has already been used",
		http.StatusGone,
	)
	ErrInvalidTTL = apperror.New(
		apperror.CodeInvalidInput,
		"ttl_seconds must be between 1 and 300",
		http.StatusBadRequest,
	)
	ErrEmployeeRequired = apperror.New(
		apperror.CodeUnauthorized,
		"token does not identify an employee",
		http.StatusUnauthorized,
	)
)
