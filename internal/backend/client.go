// Package backend is the HTTP client of the team/task/meeting service.
//
// Every call is issued exactly once. Failures are returned as *Error with a
// message that can be shown to the user as is.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/teamboard/core/logger"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "teamboard/1.0"
	maxBodyBytes     = 1 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the backend REST API.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend: unsupported url scheme %q", base.Scheme)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{base: base, http: hc, userAgent: ua}, nil
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// do performs one request and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	start := time.Now()
	status, err := c.roundTrip(ctx, req, out)

	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.String("op", req.op),
		slog.Int("http_code", status),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
		logger.Warn(ctx, "backend", "backend.call", attrs...)
		return err
	}
	logger.Debug(ctx, "backend", "backend.call", attrs...)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req request, out any) (int, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + req.path
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return 0, transportError(req.op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return 0, transportError(req.op, err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID(ctx))
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, transportError(req.op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, transportError(req.op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, statusError(req.op, resp.StatusCode, data)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, decodeError(req.op, resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

func caller(tgID int64) url.Values {
	return url.Values{"telegram_id": {formatID(tgID)}}
}

// requestID ties backend logs to the update being handled. Calls made
// outside an update get a fresh id.
func requestID(ctx context.Context) string {
	if rid := logger.RIDFrom(ctx); rid != "" {
		return rid
	}
	return uuid.NewString()
}
