package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotLoggedIn    = http.StatusUnauthorized
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
)

var (
	ErrInternalServer = errors.New("Internal server error")
	ErrClient         = errors.New("Bad request")
	ErrNotLoggedIn    = errors.New("Unauthorized access")
	ErrNotFound       = errors.New("Resource not found")
	ErrConflict       = errors.New("Conflicting record found")
)

var errorMap = map[error]int{
	ErrInternalServer: ErrStatusInternalServer,
	ErrClient:         ErrStatusClient,
	ErrNotLoggedIn:    ErrStatusNotLoggedIn,
	ErrNotFound:       ErrStatusNotFound,
	ErrConflict:       ErrStatusConflict,
}

func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
