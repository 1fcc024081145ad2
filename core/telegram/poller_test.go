package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

type scriptedFetch struct {
	mu      sync.Mutex
	offsets []int
	steps   []func() ([]tele.Update, error)
}

func (s *scriptedFetch) fetch(ctx context.Context, offset int, _ time.Duration) ([]tele.Update, error) {
	s.mu.Lock()
	s.offsets = append(s.offsets, offset)
	var step func() ([]tele.Update, error)
	if len(s.steps) > 0 {
		step, s.steps = s.steps[0], s.steps[1:]
	}
	s.mu.Unlock()
	if step == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return step()
}

func (s *scriptedFetch) seen() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.offsets...)
}

func receive(t *testing.T, ch chan tele.Update) tele.Update {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return tele.Update{}
	}
}

func TestLongPollerAdvancesCursorAndRetries(t *testing.T) {
	script := &scriptedFetch{steps: []func() ([]tele.Update, error){
		func() ([]tele.Update, error) { return nil, errors.New("connection reset") },
		func() ([]tele.Update, error) { return []tele.Update{{ID: 5}, {ID: 6}}, nil },
		func() ([]tele.Update, error) { return nil, errors.New("bad gateway") },
		func() ([]tele.Update, error) { return []tele.Update{{ID: 9}}, nil },
	}}
	p := &LongPoller{Backoff: time.Millisecond, Fetch: script.fetch}

	dest := make(chan tele.Update)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		p.Poll(nil, dest, stop)
		close(done)
	}()

	for _, want := range []int{5, 6, 9} {
		if got := receive(t, dest).ID; got != want {
			t.Fatalf("update id = %d, want %d", got, want)
		}
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(script.seen()) < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}

	want := []int{0, 0, 7, 7, 10}
	got := script.seen()
	if len(got) != len(want) {
		t.Fatalf("offsets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("offsets = %v, want %v", got, want)
		}
	}
	if p.Offset() != 10 {
		t.Fatalf("final offset = %d, want 10", p.Offset())
	}
}

func TestLongPollerStopsWhileBlockedOnDelivery(t *testing.T) {
	script := &scriptedFetch{steps: []func() ([]tele.Update, error){
		func() ([]tele.Update, error) { return []tele.Update{{ID: 1}, {ID: 2}}, nil },
	}}
	p := &LongPoller{Backoff: time.Millisecond, Fetch: script.fetch}

	dest := make(chan tele.Update)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		p.Poll(nil, dest, stop)
		close(done)
	}()

	receive(t, dest)
	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
	if p.Offset() != 3 {
		t.Fatalf("offset = %d, want 3 (cursor moves before hand-off)", p.Offset())
	}
}

func TestBuildPollerSelectsMode(t *testing.T) {
	if _, ok := BuildPoller(PollerOptions{RunMode: "longpoll"}).(*LongPoller); !ok {
		t.Fatal("longpoll mode should build a LongPoller")
	}
	wh, ok := BuildPoller(PollerOptions{
		RunMode: "webhook",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://example.org/hook"},
	}).(*tele.Webhook)
	if !ok {
		t.Fatal("webhook mode should build a tele.Webhook")
	}
	if wh.Listen != "0.0.0.0:8443" {
		t.Fatalf("listen = %q", wh.Listen)
	}
}
