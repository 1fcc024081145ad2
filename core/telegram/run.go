package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/teamboard/core/config"
	"github.com/m3rciful/teamboard/core/logger"
	tghelpers "github.com/m3rciful/teamboard/core/telegram/helpers"
	tgsender "github.com/m3rciful/teamboard/core/telegram/sender"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	// DispatcherOptions is used when Dispatcher is nil. Zero values are
	// filled from Config.Sender.
	DispatcherOptions tgsender.Options
	Dispatcher        *tgsender.Dispatcher

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup   bool
	DisableHelperDispatcher bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram composes and runs a Telegram bot until ctx is done. Updates are
// handled one at a time in arrival order.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}

	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		PollBackoffSeconds:     cfg.Telegram.PollBackoffSeconds,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	pollTimeout := defaultPollTimeout
	if cfg.Telegram.LongPollTimeoutSeconds > 0 {
		pollTimeout = time.Duration(cfg.Telegram.LongPollTimeoutSeconds) * time.Second
	}

	settings := tele.Settings{
		Token:       cfg.Telegram.Token,
		Poller:      poller,
		Client:      BuildHTTPClient(pollTimeout),
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			hctx := ctx
			if c != nil {
				hctx = tghelpers.BuildContext(c)
			}
			logger.Error(hctx, "tg", "handler.error",
				slog.String("status", "fail"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		},
	}

	buildStart := time.Now()
	bot, err := tele.NewBot(settings)
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %s", logger.Redact(err.Error()))
	}
	buildTook := logger.Took(buildStart)

	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = tgsender.NewDispatcher(dispatcherOptions(opts.DispatcherOptions, cfg.Sender))
	}
	useHelperDispatcher := !opts.DisableHelperDispatcher
	if useHelperDispatcher {
		tghelpers.SetDispatcher(dispatcher)
	}
	closeDispatcher := func() {
		dispatcher.Close()
		if useHelperDispatcher {
			tghelpers.SetDispatcher(nil)
		}
	}

	rt := Runtime{
		Bot:        bot,
		Dispatcher: dispatcher,
		Registry:   reg,
	}

	switch p := poller.(type) {
	case *tele.Webhook:
		logger.Info(ctx, "tg", "bot.mode",
			slog.String("mode", RunModeWebhook),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.String("username", bot.Me.Username),
			slog.Duration("duration_ms", buildTook),
		)
	default:
		logger.Info(ctx, "tg", "bot.mode",
			slog.String("mode", RunModeLongpoll),
			slog.Duration("timeout_ms", pollTimeout),
			slog.String("username", bot.Me.Username),
			slog.Duration("duration_ms", buildTook),
		)
		// getUpdates fails while a webhook is set.
		if !opts.DisableWebhookCleanup {
			if err := bot.RemoveWebhook(false); err != nil {
				logger.Warn(ctx, "tg", "webhook.delete",
					slog.String("status", "fail"),
					slog.String("err", logger.Redact(err.Error())),
				)
			} else {
				logger.Debug(ctx, "tg", "webhook.delete", slog.String("status", "ok"))
			}
		}
	}

	for _, mw := range opts.Middlewares {
		if mw.Use == nil {
			continue
		}
		bot.Use(mw.Use)
	}
	for _, route := range opts.Routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}

	InitBotCommands(ctx, bot, reg)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			closeDispatcher()
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	// Replies queued by the last updates still go out.
	closeDispatcher()

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.WithoutCancel(ctx), rt)
	}

	if stopErr != nil {
		return stopErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func dispatcherOptions(opts tgsender.Options, cfg coreconfig.SenderConfig) tgsender.Options {
	if opts.QueueSize <= 0 {
		opts.QueueSize = cfg.QueueSize
	}
	if opts.Workers <= 0 {
		opts.Workers = cfg.Workers
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = cfg.MaxRetries
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Duration(cfg.RetryBackoffMS) * time.Millisecond
	}
	return opts
}
