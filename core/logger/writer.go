package logger

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"sync"
)

// sink is one output of the async writer. Lines below minLevel are skipped.
type sink struct {
	w        *bufio.Writer
	minLevel slog.Level
}

type line struct {
	data  []byte
	level slog.Level
}

// asyncWriter fans formatted lines out to its sinks from a single goroutine.
type asyncWriter struct {
	queue    chan line
	flushReq chan chan error
	done     chan struct{}
	once     sync.Once

	mu       sync.Mutex
	sinks    []sink
	writeErr error
}

// output pairs a destination with the lowest level it should receive.
type output struct {
	w        io.Writer
	minLevel slog.Level
}

func newAsyncWriter(outputs []output, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	sinks := make([]sink, 0, len(outputs))
	for _, o := range outputs {
		if o.w == nil {
			continue
		}
		sinks = append(sinks, sink{w: bufio.NewWriterSize(o.w, bufSize), minLevel: o.minLevel})
	}
	aw := &asyncWriter{
		queue:    make(chan line, 256),
		flushReq: make(chan chan error),
		done:     make(chan struct{}),
		sinks:    sinks,
	}
	go aw.loop()
	return aw
}

// allLevels wraps writers that should receive every line.
func allLevels(ws ...io.Writer) []output {
	out := make([]output, 0, len(ws))
	for _, w := range ws {
		out = append(out, output{w: w, minLevel: slog.LevelDebug})
	}
	return out
}

func (w *asyncWriter) loop() {
	for {
		select {
		case l, ok := <-w.queue:
			if !ok {
				_ = w.flushAll()
				close(w.done)
				return
			}
			if len(l.data) == 0 {
				continue
			}
			if err := w.writeAll(l); err != nil {
				w.setErr(err)
			}
		case ack := <-w.flushReq:
			ack <- w.flushAll()
		}
	}
}

// Write copies p and queues it. A full queue blocks rather than drop lines.
func (w *asyncWriter) Write(p []byte, level slog.Level) error {
	if err := w.getErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	data := make([]byte, len(p))
	copy(data, p)
	w.queue <- line{data: data, level: level}
	return nil
}

// Flush waits until everything queued so far reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.getErr(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.flushReq <- ack
	return <-ack
}

// Close drains the queue and reports the first write error.
func (w *asyncWriter) Close() error {
	w.once.Do(func() {
		close(w.queue)
	})
	<-w.done
	return w.getErr()
}

func (w *asyncWriter) writeAll(l line) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.sinks {
		if l.level < s.minLevel {
			continue
		}
		if _, err := s.w.Write(l.data); err != nil {
			return err
		}
		if err := s.w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, s := range w.sinks {
		if err := s.w.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) getErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeErr
}

func (w *asyncWriter) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writeErr == nil {
		w.writeErr = err
	}
}
