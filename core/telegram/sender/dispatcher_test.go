package sender

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestDispatcherKeepsOrderWithOneWorker(t *testing.T) {
	d := NewDispatcher(Options{RetryBackoff: time.Millisecond})
	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 20; i++ {
		i := i
		if err := d.Enqueue(context.Background(), "send", "sendMessage", func() error {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	d.Close()

	for i, v := range got {
		if v != i {
			t.Fatalf("delivery order = %v", got)
		}
	}
	if len(got) != 20 {
		t.Fatalf("delivered %d jobs, want 20", len(got))
	}
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{MaxRetries: 2, RetryBackoff: time.Millisecond})
	calls := 0
	_ = d.Enqueue(context.Background(), "send", "sendMessage", func() error {
		calls++
		if calls < 3 {
			return timeoutErr{}
		}
		return nil
	})
	d.Close()

	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if d.ErrorCount() != 0 {
		t.Fatalf("error count = %d, want 0", d.ErrorCount())
	}
}

func TestDispatcherDoesNotRetryPermanentErrors(t *testing.T) {
	d := NewDispatcher(Options{MaxRetries: 3, RetryBackoff: time.Millisecond})
	calls := 0
	_ = d.Enqueue(context.Background(), "send", "sendMessage", func() error {
		calls++
		return errors.New("telegram: bad request: chat not found (400)")
	})
	d.Close()

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if d.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", d.ErrorCount())
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(Options{})
	d.Close()
	d.Close()
	if err := d.Enqueue(context.Background(), "send", "", func() error { return nil }); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestDispatcherRunsAfterCallerContextEnds(t *testing.T) {
	d := NewDispatcher(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	_ = d.Enqueue(ctx, "send", "", func() error {
		ran = true
		return nil
	})
	cancel()
	d.Close()
	if !ran {
		t.Fatal("queued job was dropped when the update context ended")
	}
}

func TestClassifyError(t *testing.T) {
	cases := map[string]error{
		"timeout":  timeoutErr{},
		"http_4xx": errors.New("telegram: message is not modified (400)"),
		"http_5xx": errors.New("telegram: internal error (502)"),
		"unknown":  errors.New("boom"),
	}
	for want, err := range cases {
		if got := classifyError(err); got != want {
			t.Errorf("classifyError(%v) = %s, want %s", err, got, want)
		}
	}
}
