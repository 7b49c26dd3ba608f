package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-church-admin/internal/errors"
)

var (
	// ErrSessionExpired is returned when a 401 could not be recovered by a
	// refresh. The session has been cleared and the user must log in again.
	ErrSessionExpired = errors.ErrSessionExpired

	ErrInvalidCredentials = errors.ErrInvalidCredentials
	ErrMissingRole        = errors.ErrMissingRole
	ErrUnexpectedShape    = errors.ErrUnexpectedShape
)

// StatusError is a response with a non-2xx status, returned to the caller unchanged.
type StatusError struct {
	Method   string
	Path     string
	Response *Response
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(string(e.Response.Body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		msg = http.StatusText(e.Response.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Response.StatusCode, msg)
}

func (e *StatusError) StatusCode() int {
	return e.Response.StatusCode
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode() == code
}
