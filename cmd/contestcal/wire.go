package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/contest-reminder/internal/adapters/driven/config/file"
	"github.com/custodia-labs/contest-reminder/internal/adapters/driven/crypto"
	drivenoauth "github.com/custodia-labs/contest-reminder/internal/adapters/driven/oauth"
	"github.com/custodia-labs/contest-reminder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/contest-reminder/internal/adapters/driven/storage/sqlstore"
	"github.com/custodia-labs/contest-reminder/internal/adapters/driving/cli"
	drivingoauth "github.com/custodia-labs/contest-reminder/internal/adapters/driving/oauth"
	"github.com/custodia-labs/contest-reminder/internal/adapters/driving/web"
	"github.com/custodia-labs/contest-reminder/internal/config"
	"github.com/custodia-labs/contest-reminder/internal/connectors/contests"
	"github.com/custodia-labs/contest-reminder/internal/connectors/contests/registry"
	"github.com/custodia-labs/contest-reminder/internal/connectors/google"
	"github.com/custodia-labs/contest-reminder/internal/connectors/google/calendar"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
	"github.com/custodia-labs/contest-reminder/internal/core/services"
	"github.com/custodia-labs/contest-reminder/internal/logger"
)

// memoryDSN selects the in-memory stores. Data is lost on exit.
const memoryDSN = "memory"

// app holds the wired components for one process.
type app struct {
	cfg *config.Config

	users     driven.UserStore
	scheduler driven.SchedulerStore
	ping      func(ctx context.Context) error
	close     func() error

	httpClient   *http.Client
	aggregator   *services.Aggregator
	orchestrator *services.SyncOrchestrator
	fleet        *services.FleetSync
	userService  *services.UserService
}

// bootstrap implements cli.Bootstrap.
func bootstrap(_ context.Context, configDir string) (*cli.Services, func(), error) {
	if err := config.LoadDotEnv(""); err != nil {
		return nil, nil, err
	}

	fileStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	logger.Debug("Config file: %s", fileStore.Path())

	cfg, err := config.Load(fileStore)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return nil, nil, err
	}

	release := func() {
		if err := a.close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}
	return a.services(), release, nil
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}

	if err := a.openStores(); err != nil {
		return nil, err
	}

	client := contests.NewClientWithTimeout(cfg.HTTPTimeout)
	sources := registry.All(client)
	if len(cfg.Platforms) > 0 {
		selected, err := registry.Select(client, cfg.Platforms)
		if err != nil {
			_ = a.close()
			return nil, err
		}
		sources = selected
	}
	a.aggregator = services.NewAggregator(sources...)

	oauthCfg := google.OAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	opener := calendar.NewOpener(oauthCfg, calendar.ParseConfig(cfg.CalendarID, 0), a.httpClient)

	a.orchestrator = services.NewSyncOrchestrator(a.users, opener, a.aggregator, services.NewReminderWriter())
	a.fleet = services.NewFleetSync(a.users, a.orchestrator, cfg.Scheduler.Concurrency)
	a.userService = services.NewUserService(a.users)
	return a, nil
}

func (a *app) openStores() error {
	dsn := strings.TrimSpace(a.cfg.Store.DSN)
	if dsn == memoryDSN {
		logger.Warn("Using in-memory storage; credentials are lost on exit")
		a.users = memory.NewUserStore()
		a.scheduler = memory.NewSchedulerStore()
		a.ping = func(context.Context) error { return nil }
		a.close = func() error { return nil }
		return nil
	}

	var opts []sqlstore.Option
	if a.cfg.Store.TokenKey != "" {
		sealer, err := crypto.NewSealer(a.cfg.Store.TokenKey)
		if err != nil {
			return fmt.Errorf("token encryption key: %w", err)
		}
		opts = append(opts, sqlstore.WithTokenSealer(sealer))
	} else {
		logger.Debug("TOKEN_ENCRYPTION_KEY not set; refresh tokens are stored unencrypted")
	}

	store, err := sqlstore.Open(dsn, opts...)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("Store: %s %s", store.Dialect(), store.Path())

	a.users = store.UserStore()
	a.scheduler = store.SchedulerStore()
	a.ping = store.Ping
	a.close = store.Close
	return nil
}

func (a *app) services() *cli.Services {
	syncErr := a.cfg.ValidateSync()
	return &cli.Services{
		UserSyncer:    guardedUserSyncer{err: syncErr, next: a.orchestrator},
		FleetSyncer:   guardedFleetSyncer{err: syncErr, next: a.fleet},
		ContestLister: a.aggregator,
		UserDirectory: a.userService,
		Serve:         a.serve,
		Enroll:        a.enroll,
	}
}

func (a *app) enroll(ctx context.Context, opts cli.EnrollOptions) (domain.UserProfile, error) {
	if err := a.cfg.ValidateSync(); err != nil {
		return domain.UserProfile{}, fmt.Errorf("invalid configuration: %w", err)
	}

	enroller := drivingoauth.NewEnroller(func(redirectURL string) driven.ConsentProvider {
		oauthCfg := google.OAuthConfig(a.cfg.Google.ClientID, a.cfg.Google.ClientSecret, redirectURL)
		return drivenoauth.NewGoogleConsent(oauthCfg, a.httpClient)
	}, a.userService)

	return enroller.Enroll(ctx, drivingoauth.EnrollOptions{
		Port:        opts.Port,
		OpenBrowser: opts.OpenBrowser,
		Out:         opts.Out,
	})
}

func (a *app) serve(ctx context.Context, opts cli.ServeOptions) error {
	if err := a.cfg.ValidateServe(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.SetTimestamps(true)

	oauthCfg := google.OAuthConfig(a.cfg.Google.ClientID, a.cfg.Google.ClientSecret, a.cfg.Google.RedirectURL)
	server, err := web.NewServer(web.Options{
		FrontendURL:    a.cfg.Server.FrontendURL,
		SessionSecret:  a.cfg.Server.SessionSecret,
		SecureCookies:  strings.HasPrefix(a.cfg.Server.BaseURL, "https://"),
		MetricsEnabled: a.cfg.Server.MetricsEnabled,
	}, web.Dependencies{
		Syncer:  a.orchestrator,
		Users:   a.userService,
		Consent: drivenoauth.NewGoogleConsent(oauthCfg, a.httpClient),
		Ready:   a.ping,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, a.cfg.Server.ListenAddr)
	})

	if opts.Scheduler && a.cfg.Scheduler.Enabled {
		scheduler := services.NewScheduler(a.schedulerConfig(), a.scheduler, a.fleet)
		g.Go(func() error {
			err := scheduler.Start(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			<-gctx.Done()
			return scheduler.Stop()
		})
		logger.Info("Scheduler enabled: fleet sync every %s", a.cfg.Scheduler.Interval)
	} else {
		logger.Info("Scheduler disabled")
	}

	return g.Wait()
}

func (a *app) schedulerConfig() domain.SchedulerConfig {
	return domain.SchedulerConfig{
		Enabled: a.cfg.Scheduler.Enabled,
		TaskConfigs: map[string]domain.TaskConfig{
			domain.TaskIDContestSync: {Enabled: true, Interval: a.cfg.Scheduler.Interval},
		},
	}
}

// guardedUserSyncer refuses to sync when OAuth client settings are missing.
type guardedUserSyncer struct {
	err  error
	next driving.UserSyncer
}

func (g guardedUserSyncer) SyncUser(ctx context.Context, userID string) (domain.SyncOutcome, error) {
	if g.err != nil {
		return domain.SyncOutcome{}, fmt.Errorf("invalid configuration: %w", g.err)
	}
	return g.next.SyncUser(ctx, userID)
}

// guardedFleetSyncer refuses to sync when OAuth client settings are missing.
type guardedFleetSyncer struct {
	err  error
	next driving.FleetSyncer
}

func (g guardedFleetSyncer) SyncAll(ctx context.Context) (domain.FleetSummary, error) {
	if g.err != nil {
		return domain.FleetSummary{}, fmt.Errorf("invalid configuration: %w", g.err)
	}
	return g.next.SyncAll(ctx)
}
