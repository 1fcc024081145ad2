package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/teamboard/core/logger"
)

const (
	RunModeWebhook  = "webhook"
	RunModeLongpoll = "longpoll"

	defaultPollTimeout = 10 * time.Second
	defaultPollBackoff = 5 * time.Second
)

// DefaultAllowedUpdates limits getUpdates to what the bot handles.
var DefaultAllowedUpdates = []string{"message", "callback_query"}

// WebhookOptions declares webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	PollBackoffSeconds     int
	Webhook                WebhookOptions
}

// BuildPoller returns a webhook listener or a LongPoller.
func BuildPoller(opts PollerOptions) tele.Poller {
	if strings.ToLower(strings.TrimSpace(opts.RunMode)) == RunModeWebhook {
		return &tele.Webhook{
			Listen:         fmt.Sprintf("%s:%d", opts.Webhook.Listen, opts.Webhook.Port),
			AllowedUpdates: DefaultAllowedUpdates,
			Endpoint:       &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}
	return &LongPoller{
		Timeout: time.Duration(opts.LongPollTimeoutSeconds) * time.Second,
		Backoff: time.Duration(opts.PollBackoffSeconds) * time.Second,
	}
}

// FetchFunc asks the gateway for updates starting at offset.
type FetchFunc func(ctx context.Context, offset int, timeout time.Duration) ([]tele.Update, error)

// LongPoller is a getUpdates loop with a cursor and a fixed pause after
// failures. The cursor moves past an update before the update is handed on,
// so an update is never requested twice. Failed fetches are retried until
// telebot closes the stop channel.
type LongPoller struct {
	Timeout        time.Duration
	Backoff        time.Duration
	AllowedUpdates []string
	// Fetch replaces the getUpdates call made through the bot.
	Fetch FetchFunc

	offset int
}

// Offset is the next update id the poller will ask for.
func (p *LongPoller) Offset() int { return p.offset }

// Poll implements tele.Poller.
func (p *LongPoller) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	pause := p.Backoff
	if pause <= 0 {
		pause = defaultPollBackoff
	}
	fetch := p.Fetch
	if fetch == nil {
		fetch = rawFetch(b, p.allowed())
	}

	for {
		updates, err := backoff.Retry(ctx,
			func() ([]tele.Update, error) {
				return fetch(ctx, p.offset, timeout)
			},
			backoff.WithBackOff(backoff.NewConstantBackOff(pause)),
			backoff.WithMaxElapsedTime(0),
			backoff.WithNotify(func(err error, next time.Duration) {
				logger.Warn(ctx, "tg.poll", "poll.retry",
					slog.String("status", "retry"),
					slog.Int("offset", p.offset),
					slog.Duration("backoff_ms", next),
					slog.String("err", err.Error()),
				)
			}),
		)
		if err != nil {
			return
		}
		if len(updates) > 0 {
			logger.Debug(ctx, "tg.poll", "poll.batch",
				slog.Int("count", len(updates)),
				slog.Int("offset", p.offset),
			)
		}
		for _, u := range updates {
			if u.ID >= p.offset {
				p.offset = u.ID + 1
			}
			select {
			case dest <- u:
			case <-stop:
				return
			}
		}
	}
}

func (p *LongPoller) allowed() []string {
	if len(p.AllowedUpdates) > 0 {
		return p.AllowedUpdates
	}
	return DefaultAllowedUpdates
}

// rawFetch calls getUpdates through the bot's HTTP client.
func rawFetch(b *tele.Bot, allowed []string) FetchFunc {
	return func(_ context.Context, offset int, timeout time.Duration) ([]tele.Update, error) {
		data, err := b.Raw("getUpdates", map[string]any{
			"offset":          offset,
			"timeout":         int(timeout / time.Second),
			"allowed_updates": allowed,
		})
		if err != nil {
			return nil, err
		}
		var resp struct {
			Result []tele.Update `json:"result"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("getUpdates: decode: %w", err)
		}
		return resp.Result, nil
	}
}
