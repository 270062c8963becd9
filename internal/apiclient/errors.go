package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the API.
type Error struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func newError(status int, raw []byte) *Error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	e := &Error{StatusCode: status}
	if json.Unmarshal(raw, &body) == nil {
		e.Code = body.Code
		e.Message = body.Message
		if e.Message == "" {
			e.Message = body.Error
		}
	}
	e.Message = strings.TrimSpace(e.Message)
	return e
}

// MessageOr returns the server-provided message carried by err, or fallback
// when there is none (transport failures, undecodable bodies).
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
