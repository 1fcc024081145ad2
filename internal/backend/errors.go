package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Error is the normalized failure of a backend call. Error() returns text
// suitable for showing to the user.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Code implements the coder interface used by handler summaries.
func (e *Error) Code() string {
	switch {
	case e.Status == 0:
		return "backend_transport"
	case e.Status >= 500:
		return "backend_5xx"
	default:
		return "backend_4xx"
	}
}

// IsNotFound reports whether err is a backend rejection meaning the caller
// or the addressed entity does not exist.
func IsNotFound(err error) bool {
	var be *Error
	if !errors.As(err, &be) {
		return false
	}
	return be.Status == http.StatusUnauthorized || be.Status == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}

func statusError(op string, status int, body []byte) *Error {
	return &Error{Op: op, Status: status, Message: rejectionMessage(status, body)}
}

func transportError(op string, err error) *Error {
	return &Error{Op: op, Message: err.Error(), Err: err}
}

func decodeError(op string, status int, err error) *Error {
	return &Error{Op: op, Status: status, Message: err.Error(), Err: err}
}

// rejectionMessage extracts the error text from a non-2xx body. The backend
// uses "error" for most rejections and "message" for a few conflicts.
func rejectionMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"error", "message"} {
			v := gjson.GetBytes(body, field)
			if v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	return fmt.Sprintf("status %d", status)
}
