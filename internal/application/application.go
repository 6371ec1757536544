package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"at_deals/internal/config"
	"at_deals/internal/domain/service/category"
	"at_deals/internal/domain/service/dedup"
	"at_deals/internal/domain/service/ingest"
	"at_deals/internal/domain/service/merchant"
	"at_deals/internal/domain/service/normalize"
	"at_deals/internal/infrastructure/notifier"
	"at_deals/internal/infrastructure/persistence"
	"at_deals/internal/infrastructure/source"
	"at_deals/internal/metrics"
	"at_deals/internal/server"
	"at_deals/internal/worker"
	"at_deals/migrations"
	"at_deals/pkg/application/connectors"
	"at_deals/pkg/application/modules"
	"at_deals/pkg/contextx"
	"at_deals/pkg/httpx"
	"at_deals/pkg/logx"
)

const (
	logFieldMaxLen  = 2048
	connectAttempts = 10
)

// Run wires the pipeline and blocks until ctx is cancelled or a module fails.
func Run(ctx context.Context, cfg config.Config) error {
	log := logx.NewLogger(
		logWriter, cfg.Log.Level, cfg.Log.Format,
	).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	ctx = contextx.WithLogger(ctx, log)

	// Database
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnectAttempts: connectAttempts,
	}
	defer pg.Close(ctx)

	db, err := pg.Connect(ctx)
	if err != nil {
		return fmt.Errorf("pg.Connect: %w", err)
	}

	if cfg.Postgres.Migrate {
		if err := migrations.Up(ctx, db); err != nil {
			return fmt.Errorf("migrations.Up: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rc := &connectors.Redis{
			Address:            cfg.Redis.Address,
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
			ConnectAttempts:    connectAttempts,
		}
		defer rc.Close(ctx)

		if rdb, err = rc.Connect(ctx); err != nil {
			return fmt.Errorf("redis.Connect: %w", err)
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipeline := metrics.NewPipeline(registry)

	logging := func(next http.RoundTripper) http.RoundTripper {
		return httpx.NewLoggingRoundTripper(next,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(logFieldMaxLen),
			httpx.WithObserver(pipeline.ObserveUpstream),
		)
	}

	// Pipeline
	repo := persistence.NewDealRepository(db)
	classifier := category.NewClassifier()

	resolver, err := newResolver(cfg.Merchant)
	if err != nil {
		return err
	}

	src := source.NewClient(source.Config{
		URL:              cfg.Source.URL,
		Site:             cfg.Source.SourceSite(),
		Format:           cfg.Source.Format,
		Timeout:          cfg.Source.Timeout,
		UserAgent:        cfg.Source.UserAgent,
		AuthToken:        cfg.Source.AuthToken,
		AuthHeader:       cfg.Source.AuthHeader,
		AuthHeaderFormat: cfg.Source.AuthHeaderFormat,
		AuthQueryParam:   cfg.Source.AuthQueryParam,
	}, logging)

	opts := []ingest.Option{
		ingest.WithObserver(pipeline),
		ingest.WithConfig(ingest.Config{
			BatchLimit:         cfg.Ingest.BatchLimit,
			Workers:            cfg.Ingest.Workers,
			TranslationWorkers: cfg.Ingest.TranslationWorkers,
			WriteTimeout:       cfg.Ingest.WriteTimeout,
			CycleBudget:        cfg.Ingest.CycleBudget,
		}),
	}

	if chain := newTranslationChain(ctx, cfg.Translation, rdb, pipeline, logging); chain != nil {
		opts = append(opts, ingest.WithTranslator(chain))
	} else {
		log.Warn("no translation provider configured, deals are stored untranslated")
	}

	var bot *notifier.TelegramBot
	if cfg.Bot.Enabled() {
		bot, err = notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID, cfg.Bot.MinDiscount)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}
		opts = append(opts, ingest.WithNotifier(bot))
	}

	svc := ingest.NewService(
		src,
		normalize.NewNormalizer(normalizerBase(cfg.Source)),
		resolver,
		classifier,
		dedup.NewPlanner(),
		repo,
		opts...,
	)

	scheduler := worker.NewScheduler(svc).
		WithInterval(cfg.Scheduler.IntervalMin, cfg.Scheduler.IntervalMax).
		WithStartDelay(cfg.Scheduler.StartDelayMin, cfg.Scheduler.StartDelayMax)

	// Modules
	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ListenAddress:     cfg.Server.ListenAddress,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}.Run(ctx, g, server.NewRouter(
		log,
		server.NewServer(server.NewDealServer(repo)),
		cfg.Server.RequestTimeout,
	))
	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Server.ProbeListenAddress,
		Ready:         db.PingContext,
	}.Run(ctx, g)
	modules.MetricServer{ListenAddress: cfg.Server.MetricsListenAddress, Gatherer: registry}.Run(ctx, g)

	if rdb != nil {
		reclassifier := worker.NewReclassifier(repo, classifier).WithObserver(pipeline.Reclassified)

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DatabaseNumber,
			Concurrency:   1,
		}.Run(ctx, g, modules.AsynqQueues{worker.QueueDefault: 1}, modules.AsynqHandler{
			Pattern: worker.TaskReclassify,
			Handle:  reclassifier.HandleTask,
		})
	}

	if bot != nil {
		g.Go(func() error {
			return bot.Run(ctx)
		})
	}

	g.Go(func() error {
		return scheduler.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	log.Info("application stopped")

	return nil
}

func newResolver(cfg config.Merchant) (*merchant.Resolver, error) {
	var extra []merchant.Override

	if cfg.OverridesFile != "" {
		loaded, err := merchant.LoadOverrides(cfg.OverridesFile)
		if err != nil {
			return nil, fmt.Errorf("merchant.LoadOverrides: %w", err)
		}
		extra = loaded
	}

	r := merchant.NewResolver(cfg.LogoBaseURL, extra...)
	if cfg.FaviconURL != "" {
		r = r.WithFaviconURL(cfg.FaviconURL)
	}

	return r, nil
}

// normalizerBase resolves relative links against SOURCE_BASE_URL, falling
// back to the origin of SOURCE_URL.
func normalizerBase(cfg config.Source) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host + "/"
}
