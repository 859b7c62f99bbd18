package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/cache"
	"github.com/dropDatabas3/clientdesk/internal/config"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/email"
	httpserver "github.com/dropDatabas3/clientdesk/internal/http"
	"github.com/dropDatabas3/clientdesk/internal/observability/logger"
	"github.com/dropDatabas3/clientdesk/internal/security/secretbox"
	"github.com/dropDatabas3/clientdesk/internal/store"
	"github.com/dropDatabas3/clientdesk/internal/store/memory"
	"github.com/dropDatabas3/clientdesk/internal/store/pg"
	migrations "github.com/dropDatabas3/clientdesk/migrations/postgres"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "ruta del config YAML")
	flag.Parse()

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		logger.L().Fatal("config_load_failed", logger.Err(err))
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "clientdesk",
	})
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.L().Fatal("config_invalid", logger.Err(err))
	}

	// La clave se resuelve en el primer uso: sin clave el proceso arranca
	// igual y sólo los caminos que cifran fallan (readyz lo reporta).
	if _, err := secretbox.Default(); err != nil {
		logger.L().Warn("encryption_key_unavailable", logger.Err(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st      repository.Store
		pgPool  func() *pgxpool.Pool
		pgStore *pg.Store
	)
	switch cfg.Storage.Driver {
	case "memory":
		logger.L().Warn("storage_memory_mode")
		st = memory.New()
	default:
		pgStore, err = pg.New(ctx, cfg.Storage.DSN, pg.Tuning{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			logger.L().Fatal("pg_connect_failed", logger.Err(err))
		}
		st = pgStore
		pgPool = pgStore.Pool
	}
	defer st.Close()

	if cfg.Flags.Migrate && pgStore != nil {
		m := store.NewMigrator(migrations.FS, migrations.Dir)
		res, err := m.Run(ctx, pgStore.Pool())
		if err != nil {
			logger.L().Fatal("migrate_failed", logger.Err(err))
		}
		logger.L().Info("migrate_done",
			logger.Count(len(res.Applied)),
			logger.Duration(res.Duration),
		)
	}

	cacheClient, err := cache.New(cache.Config{
		Driver:     cfg.Cache.Kind,
		Host:       cfg.Cache.Redis.Host,
		Port:       cfg.Cache.Redis.Port,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: cfg.PrincipalCacheTTLDuration(),
	})
	if err != nil {
		logger.L().Fatal("cache_init_failed", logger.Err(err))
	}
	defer func() { _ = cacheClient.Close() }()

	var sender email.Sender = email.NopSender{}
	if cfg.SMTP.Host != "" {
		s := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.User, cfg.SMTP.Pass)
		s.TLSMode = cfg.SMTP.TLSMode
		sender = s
	}

	container := app.New(cfg, st, secretbox.Default, cacheClient, sender)

	metricsHandler, err := httpserver.RegisterMetrics(httpserver.MetricsConfig{Pool: pgPool})
	if err != nil {
		logger.L().Fatal("metrics_init_failed", logger.Err(err))
	}

	router := httpserver.NewRouter(container, metricsHandler)
	srv := httpserver.NewServer(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		logger.L().Fatal("http_serve_failed", logger.Err(err))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("http_shutdown_failed", logger.Err(err))
	}
}
