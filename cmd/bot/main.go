package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"prostavabot/internal/adapters/discord"
	"prostavabot/internal/adapters/httpapi"
	"prostavabot/internal/application"
	"prostavabot/internal/config"
	"prostavabot/internal/infrastructure/database"
	"prostavabot/internal/infrastructure/i18n"
	"prostavabot/internal/infrastructure/memory"
	"prostavabot/internal/infrastructure/mongostore"
	"prostavabot/internal/infrastructure/redis"
	"prostavabot/internal/pkg/logger"
	"prostavabot/internal/pkg/metrics"
	"prostavabot/internal/ports/output"
	"prostavabot/internal/worker"
)

type stores struct {
	records output.RecordRepository
	groups  output.GroupRepository
	health  httpapi.HealthCheck
	close   func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("❌ configuration", zap.Error(err))
	}
	logger.Set(logger.NewLoggerWithLevel(cfg.AppEnv, cfg.LogLevel))
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("❌ store initialisation", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer st.close()

	var locker output.Locker
	checks := map[string]httpapi.HealthCheck{"store": st.health}
	if cfg.RedisAddr != "" {
		client, err := redis.NewClient(ctx, redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			logger.Fatal("❌ redis", zap.Error(err))
		}
		defer client.Close()
		locker = redis.NewLockManager(client, "prostava:")
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		logger.Info("✅ Redis connected, sweeps are coordinated across instances")
	}

	m := metrics.New()
	clock := output.SystemClock{}
	translator := i18n.NewTranslator(cfg.DefaultLocale)

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		logger.Fatal("❌ discord session", zap.Error(err))
	}
	dispatcher := discord.NewDispatcher(session, st.groups, translator, cfg.DefaultLocale)

	recordUC := application.NewRecordService(st.records, st.groups, clock, m)
	groupUC := application.NewGroupService(st.groups)
	bot := discord.NewBot(session, cfg.GuildID, discord.NewHandler(recordUC, groupUC, translator))

	sweepOpts := []application.SweepOption{
		application.WithConcurrency(cfg.SweepConcurrency),
		application.WithMetrics(m),
	}
	sweepers := []*worker.Sweeper{
		worker.NewSweeper(application.NewCompletionSweep(st.records, dispatcher, clock, sweepOpts...), cfg.CompletionInterval, locker),
		worker.NewSweeper(application.NewReminderSweep(st.records, dispatcher, clock, sweepOpts...), cfg.ReminderInterval, locker),
	}
	var wg sync.WaitGroup
	for _, s := range sweepers {
		wg.Add(1)
		go func(s *worker.Sweeper) {
			defer wg.Done()
			s.Start(ctx)
		}(s)
	}

	ops := httpapi.NewServer(cfg.MetricsAddr, prometheus.DefaultGatherer, checks)
	go ops.Start()

	if err := bot.Start(ctx); err != nil {
		logger.Error("❌ bot", zap.Error(err))
		stop()
	}

	logger.Info("shutting down")
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ops.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops server shutdown", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &stores{
			records: mongostore.NewRecordRepository(db),
			groups:  mongostore.NewGroupRepository(db),
			health:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:   func() { _ = client.Disconnect(context.Background()) },
		}, nil
	case config.StoreMemory:
		logger.Warn("⚠️ in-memory store: records are lost on restart")
		return &stores{
			records: memory.NewRecordRepository(),
			groups:  memory.NewGroupRepository(),
			health:  func(context.Context) error { return nil },
			close:   func() {},
		}, nil
	default:
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &stores{
			records: database.NewRecordRepository(pool),
			groups:  database.NewGroupRepository(pool),
			health:  pool.Ping,
			close:   pool.Close,
		}, nil
	}
}

