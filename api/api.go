// Package api is the authenticated request layer for the church API. It
// attaches the persisted bearer token to outbound calls and recovers from an
// expired access token with exactly one refresh-and-retry per request.
package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-church-admin/internal/errors"
)

const (
	LoginPath   = "/auth/login"
	RefreshPath = "/auth/refresh"

	HeaderRequestID = "X-Request-ID"
)

// Request is one logical call against the API. Path is relative to the
// configured base URL and carries no query string; use Query for that.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// Body is JSON encoded when non-nil
	Body any
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// DecodeJSON unmarshals the body into v. Any mismatch is reported as
// ErrUnexpectedShape.
func (r *Response) DecodeJSON(v any) error {
	if len(r.Body) == 0 {
		return errors.Wrapf(errors.ErrUnexpectedShape, "[api DecodeJSON] empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrapf(errors.ErrUnexpectedShape, "[api DecodeJSON] %v", err)
	}
	return nil
}

// isAuthEndpoint matches the login and refresh endpoints, which never carry a
// bearer token and never trigger a refresh.
func isAuthEndpoint(path string) bool {
	return strings.Contains(path, LoginPath) || strings.Contains(path, RefreshPath)
}
