package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T, format logFormat, stacks bool, outputs ...output) (*slog.Logger, *asyncWriter) {
	t.Helper()
	aw := newAsyncWriter(outputs, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
		stacks:   stacks,
	})
	return slog.New(handler), aw
}

func drain(t *testing.T, aw *asyncWriter) {
	t.Helper()
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	log, aw := newTestLogger(t, formatKV, false, allLevels(buf)...)
	ctx := WithRID(context.Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	LogEvent(ctx, log.With("component", "flow"), slog.LevelInfo, "flow.transition",
		slog.String("status", "ok"),
		slog.String("to", "awaiting_task_title"),
		slog.String("from", "authorized"),
	)
	drain(t, aw)

	tokens := strings.Split(strings.TrimSpace(buf.String()), " ")
	expected := []string{"ts=", "level=INFO", "component=flow", "event=flow.transition", "status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9", "from=authorized", "to=awaiting_task_title"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%v)", len(tokens), tokens)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	log, aw := newTestLogger(t, formatJSON, false, allLevels(buf)...)
	ctx := WithUpdateMeta(WithRID(context.Background(), "rid-json"), 11, 22, 33)

	LogEvent(ctx, log.With("component", "backend"), slog.LevelError, "backend.call",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.String("err_code", "HTTP_500"),
	)
	drain(t, aw)

	line := strings.TrimSpace(buf.String())
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"backend"`, `"event":"backend.call"`, `"status":"fail"`, `"rid":"rid-json"`, `"err":"boom"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	buf := &bytes.Buffer{}
	log, aw := newTestLogger(t, formatKV, false, allLevels(buf)...)
	rawRID := "123:456:789"
	LogEvent(WithRID(context.Background(), rawRID), log, slog.LevelInfo, "rid.test")
	drain(t, aw)

	line := buf.String()
	if !strings.Contains(line, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", line)
	}
	if strings.Contains(line, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", line)
	}
}

func TestStructuredHandlerCompactRIDJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log, aw := newTestLogger(t, formatJSON, false, allLevels(buf)...)
	rawRID := "12:34:56"
	LogEvent(WithRID(context.Background(), rawRID), log, slog.LevelInfo, "rid.test")
	drain(t, aw)

	line := buf.String()
	if !strings.Contains(line, `"rid":"c.y.1k"`) {
		t.Fatalf("expected compact rid in JSON, got %s", line)
	}
	if !strings.Contains(line, `"rid_full":"`+rawRID+`"`) {
		t.Fatalf("expected rid_full in JSON output, got %s", line)
	}
	if !strings.Contains(line, `"ts_unix_nano"`) {
		t.Fatalf("expected ts_unix_nano in JSON output, got %s", line)
	}
}

func TestStructuredHandlerRedactsBotToken(t *testing.T) {
	buf := &bytes.Buffer{}
	log, aw := newTestLogger(t, formatKV, false, allLevels(buf)...)
	err := errors.New(`Post "https://api.telegram.org/bot123456:AAH-secret_x/getUpdates": timeout`)
	LogEvent(context.Background(), log, slog.LevelWarn, "poll.retry", slog.Any("err", err))
	drain(t, aw)

	line := buf.String()
	if strings.Contains(line, "AAH-secret_x") {
		t.Fatalf("token leaked: %s", line)
	}
	if !strings.Contains(line, "bot<redacted>") {
		t.Fatalf("expected redaction marker, got %s", line)
	}
}

func TestStructuredHandlerDurationKeys(t *testing.T) {
	buf := &bytes.Buffer{}
	log, aw := newTestLogger(t, formatKV, false, allLevels(buf)...)
	LogEvent(context.Background(), log, slog.LevelInfo, "timing",
		slog.Duration("duration", 1500*time.Microsecond),
		slog.Duration("idle", 3*time.Second),
		slog.Duration("backoff_ms", 5*time.Second),
	)
	drain(t, aw)

	line := buf.String()
	for _, want := range []string{"duration_ms=2", "idle_ms=3000", "backoff_ms=5000"} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %s in %s", want, line)
		}
	}
}

func TestStructuredHandlerDropsStacksUnlessEnabled(t *testing.T) {
	for _, stacks := range []bool{false, true} {
		buf := &bytes.Buffer{}
		log, aw := newTestLogger(t, formatKV, stacks, allLevels(buf)...)
		LogEvent(context.Background(), log, slog.LevelError, "panic", slog.String("stack", "goroutine 1"))
		drain(t, aw)
		if got := strings.Contains(buf.String(), "stack="); got != stacks {
			t.Fatalf("stacks=%v: stack present=%v in %s", stacks, got, buf.String())
		}
	}
}

func TestErrorSinkReceivesOnlyWarnings(t *testing.T) {
	all, errs := &bytes.Buffer{}, &bytes.Buffer{}
	log, aw := newTestLogger(t, formatKV, false,
		output{w: all, minLevel: slog.LevelDebug},
		output{w: errs, minLevel: slog.LevelWarn},
	)
	LogEvent(context.Background(), log, slog.LevelInfo, "quiet")
	LogEvent(context.Background(), log, slog.LevelError, "loud")
	drain(t, aw)

	if !strings.Contains(all.String(), "event=quiet") || !strings.Contains(all.String(), "event=loud") {
		t.Fatalf("main sink missing lines: %s", all.String())
	}
	if strings.Contains(errs.String(), "event=quiet") || !strings.Contains(errs.String(), "event=loud") {
		t.Fatalf("error sink got %s", errs.String())
	}
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 3)
	var got []bool
	for i := 0; i < 6; i++ {
		got = append(got, s.Allow())
	}
	want := []bool{true, false, false, true, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("allow sequence = %v, want %v", got, want)
		}
	}

	if n, d := parseRatioSpec("10"); n != 1 || d != 10 {
		t.Fatalf("parseRatioSpec(10) = %d/%d", n, d)
	}
	if n, d := parseRatioSpec("2/5"); n != 2 || d != 5 {
		t.Fatalf("parseRatioSpec(2/5) = %d/%d", n, d)
	}
}

func TestSummarizeStrings(t *testing.T) {
	if got, cut := SummarizeStrings([]string{"a", "b"}, 3); got != "a, b" || cut {
		t.Fatalf("short = %q, %v", got, cut)
	}
	if got, cut := SummarizeStrings([]string{"a", "b", "c", "d"}, 2); got != "a, b, +2" || !cut {
		t.Fatalf("long = %q, %v", got, cut)
	}
	if got, cut := SummarizeStrings([]string{"a"}, 0); got != "+1" || !cut {
		t.Fatalf("zero limit = %q, %v", got, cut)
	}
}
