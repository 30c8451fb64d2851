package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v4"

	corebootstrap "github.com/techadmin009/resumegenie/core/bootstrap"
	"github.com/techadmin009/resumegenie/core/logger"
	coretelegram "github.com/techadmin009/resumegenie/core/telegram"
	tgrouter "github.com/techadmin009/resumegenie/core/telegram/router"
	tgsender "github.com/techadmin009/resumegenie/core/telegram/sender"
	"github.com/techadmin009/resumegenie/core/telegram/state"
	appconfig "github.com/techadmin009/resumegenie/internal/config"
	"github.com/techadmin009/resumegenie/internal/health"
	"github.com/techadmin009/resumegenie/internal/pdf"
	premiumsvc "github.com/techadmin009/resumegenie/internal/service/premium"
	resumesvc "github.com/techadmin009/resumegenie/internal/service/resume"
	"github.com/techadmin009/resumegenie/internal/storage"
	"github.com/techadmin009/resumegenie/internal/watch"
)

// App owns the wired application: services, handlers and background workers.
type App struct {
	cfg      *appconfig.Config
	db       *sqlx.DB
	sessions state.Manager
	handlers *Bot
	premium  *premiumsvc.Service
	events   *storage.EventRepo
	health   *health.Server

	notifier atomic.Pointer[watch.TelegramNotifier]
	group    *errgroup.Group
	stop     context.CancelFunc
}

// Bootstrap initializes infrastructure and wires the application services.
func Bootstrap(cfg *appconfig.Config) (*App, error) {
	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Seeders: []corebootstrap.Seeder{
			corebootstrap.SeederFunc(storage.SeedPlans),
		},
	})
	if err != nil {
		return nil, err
	}

	sessions := state.NewMemoryManager()
	drafts := resumesvc.New(sessions)

	events := storage.NewEventRepo(res.DB)
	prem := premiumsvc.New(premiumsvc.Config{
		Secret:         cfg.Premium.Secret,
		DefaultKeyDays: cfg.Premium.DefaultKeyDays,
		MaxKeyDays:     cfg.Premium.MaxKeyDays,
		MaxAttempts:    cfg.Premium.MaxRedeemAttempts,
		Cooldown:       time.Duration(cfg.Premium.RedeemCooldownSeconds) * time.Second,
	},
		storage.NewKeyRepo(res.DB),
		storage.NewSubscriptionRepo(res.DB),
		events,
	)

	renderer := pdf.New(pdf.Config{
		FontDir:     cfg.PDF.FontDir,
		FontRegular: cfg.PDF.FontRegular,
		FontBold:    cfg.PDF.FontBold,
	})

	handlers := NewBot(cfg, sessions, drafts, prem, storage.NewPlanRepo(res.DB), renderer)

	return &App{
		cfg:      cfg,
		db:       res.DB,
		sessions: sessions,
		handlers: handlers,
		premium:  prem,
		events:   events,
		health:   health.New(cfg.Health.Listen, cfg.Health.Port),
	}, nil
}

// TelegramRunOptions assembles routes, middleware and lifecycle hooks for the runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()

	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)
	reg.SetCallbackNotFound(a.handlers.UnknownCallback())

	routes := tgrouter.CommandRoutes(reg, tgrouter.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})
	routes = append(routes, tgrouter.TextRoutes(a.sessions, reg, tgrouter.TextOptions{
		UnknownText:     a.handlers.UnknownText(),
		UnknownDocument: a.handlers.UnknownDocument(),
	})...)
	routes = append(routes, tgrouter.CallbackRoute(reg, tgrouter.CallbackOptions{
		NotFound: a.handlers.UnknownCallback(),
	}))

	opts := coretelegram.RunOptions{
		Config:   core,
		Registry: reg,
		DispatcherOptions: tgsender.Options{
			QueueSize:    a.cfg.Sender.QueueSize,
			Workers:      a.cfg.Sender.Workers,
			MaxRetries:   a.cfg.Sender.MaxRetries,
			RetryBackoff: time.Duration(a.cfg.Sender.RetryBackoffMS) * time.Millisecond,
		},
		Middlewares: append(
			coretelegram.DefaultMiddlewares(core, nil),
			coretelegram.Middleware{Name: "session", Use: state.WithSession(a.sessions)},
		),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
		OnError:     a.onError,
	}
	return opts, nil
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	a.notifier.Store(watch.NewTelegramNotifier(rt.Bot, a.cfg.Core.Telegram.AdminID))

	monitor := watch.NewMonitor(a.premium, a.events, a.notifier.Load(),
		time.Duration(a.cfg.Monitor.IntervalSeconds)*time.Second)

	runCtx, cancel := context.WithCancel(ctx)
	a.stop = cancel

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return a.health.Run(gctx) })
	g.Go(func() error {
		monitor.Run(gctx)
		return nil
	})
	a.group = g
	return nil
}

func (a *App) onStop(ctx context.Context, rt coretelegram.Runtime) error {
	var errs []error
	if a.stop != nil {
		a.stop()
	}
	if a.group != nil {
		if err := a.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) onError(err error, c tele.Context) {
	attrs := []slog.Attr{
		slog.String("event", "handler.error"),
		slog.String("err", err.Error()),
	}
	if c != nil && c.Sender() != nil {
		attrs = append(attrs, slog.Int64("user_id", c.Sender().ID))
	}
	logger.TG.LogAttrs(context.Background(), slog.LevelError, "unhandled error", attrs...)

	if c != nil {
		_ = c.Send(textGenericError)
	}
	if n := a.notifier.Load(); n != nil {
		_ = n.Notify(fmt.Sprintf("⚠️ *Bot error*\n\n`%s`", err.Error()))
	}
}
