package netutil

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	retry := []error{
		timeoutErr{},
		&net.OpError{Op: "dial", Err: errors.New("no route to host")},
		&url.Error{Op: "Post", URL: "https://api.telegram.org", Err: io.EOF},
		fmt.Errorf("read: %w", syscall.ECONNRESET),
		io.ErrUnexpectedEOF,
	}
	for _, err := range retry {
		if !ShouldRetry(err) {
			t.Errorf("ShouldRetry(%v) = false, want true", err)
		}
	}

	keep := []error{
		nil,
		errors.New("telegram: bad request: chat not found (400)"),
		&net.OpError{Op: "write", Err: errors.New("broken pipe")},
	}
	for _, err := range keep {
		if ShouldRetry(err) {
			t.Errorf("ShouldRetry(%v) = true, want false", err)
		}
	}
}
