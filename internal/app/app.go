// Package app wires the teamboard bot: configuration, infrastructure, the
// conversation machine and its Telegram routes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/teamboard/core/bootstrap"
	"github.com/m3rciful/teamboard/core/logger"
	tg "github.com/m3rciful/teamboard/core/telegram"
	"github.com/m3rciful/teamboard/core/telegram/router"
	"github.com/m3rciful/teamboard/internal/backend"
	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/flow"
	"github.com/m3rciful/teamboard/internal/gateway"
	"github.com/m3rciful/teamboard/internal/journal"
	"github.com/m3rciful/teamboard/migrations"
)

// Machine is what the Telegram handlers drive. *flow.Machine implements it.
type Machine interface {
	HandleText(ctx context.Context, chatID int64, text string) error
	HandleCallback(ctx context.Context, cb flow.Callback) error
}

// App holds the running bot's components.
type App struct {
	cfg     *Config
	infra   *bootstrap.Result
	store   *conversation.MemoryStore
	journal journal.Journal
	gateway *gateway.Telegram
	flow    *flow.Machine
	machine Machine
	now     func() time.Time

	stopMu      sync.Mutex
	stopJanitor context.CancelFunc
}

// New initializes logging and storage and builds the conversation machine.
func New(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	infra, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:     cfg.CoreConfig(),
		Database:   cfg.Database,
		Migrations: migrations.FS,
	})
	if err != nil {
		return nil, err
	}

	client, err := backend.New(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	var j journal.Journal = journal.NewMemory(0)
	if infra.DB != nil {
		j = journal.NewSQL(infra.DB)
	}

	a := &App{
		cfg:     cfg,
		infra:   infra,
		store:   conversation.NewMemoryStore(),
		journal: j,
		gateway: gateway.New(),
		now:     time.Now,
	}
	a.flow = flow.New(flow.Options{
		Backend:       client,
		Messenger:     a.gateway,
		Store:         a.store,
		Journal:       a.journal,
		Rooms:         cfg.Meetings.Rooms,
		OnlineSlots:   cfg.Meetings.Slots,
		DialogTimeout: cfg.Conversation.DialogTimeout,
	})
	a.machine = a.flow

	logger.Info(ctx, "app", "app.wired",
		slog.String("driver", cfg.Database.Driver),
		slog.String("host", cfg.Backend.BaseURL),
		slog.Int("count", len(cfg.Meetings.Rooms)),
	)
	return a, nil
}

// TelegramRunOptions assembles the registry, routes and lifecycle hooks.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	reg := a.Registry()

	var routes []tg.Route
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       core.Telegram.AdminID,
		OnAdminReject: a.handleText,
	})...)
	routes = append(routes, router.CallbackRoute(reg))
	routes = append(routes, router.TextRoutes(reg)...)

	return tg.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(core, a.handleLimited),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt tg.Runtime) error {
	if rt.Bot != nil {
		a.gateway.Attach(rt.Bot, rt.Dispatcher)
		a.flow.SetBotUsername(rt.Bot.Me.Username)
	}

	jctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.stopMu.Lock()
	a.stopJanitor = cancel
	a.stopMu.Unlock()
	go a.store.Janitor(jctx, a.cfg.Conversation.SweepInterval, a.cfg.Conversation.EvictAfter)
	return nil
}

func (a *App) onStop(ctx context.Context, _ tg.Runtime) error {
	a.stopMu.Lock()
	if a.stopJanitor != nil {
		a.stopJanitor()
		a.stopJanitor = nil
	}
	a.stopMu.Unlock()

	logger.Info(ctx, "app", "store.close", slog.Int("count", a.store.Len()))
	if err := a.infra.Close(); err != nil {
		return fmt.Errorf("app: close database: %w", err)
	}
	return nil
}

// chatOf returns the chat an update belongs to.
func chatOf(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if user := c.Sender(); user != nil {
		return user.ID
	}
	return 0
}
