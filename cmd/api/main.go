package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/cryptobooking/booking-client/api/routes"
	"github.com/cryptobooking/booking-client/internal/actions"
	"github.com/cryptobooking/booking-client/internal/cron"
	"github.com/cryptobooking/booking-client/internal/session"
	"github.com/cryptobooking/booking-client/internal/views"
	"github.com/cryptobooking/booking-client/pkg/chain"
	"github.com/cryptobooking/booking-client/pkg/config"
	"github.com/cryptobooking/booking-client/pkg/instance"
	"github.com/cryptobooking/booking-client/pkg/logger"
	"github.com/cryptobooking/booking-client/pkg/metrics"
	"github.com/cryptobooking/booking-client/pkg/redis"
	"github.com/cryptobooking/booking-client/pkg/wallet"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	contractMetrics := metrics.NewContractCallMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	var (
		redisClient *redis.Client
		inFlight    actions.InFlight = actions.NewMemoryInFlight()
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		inFlight, err = actions.NewRedisInFlight(redisClient, cfg.Redis.InFlightTTL, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create in-flight registry", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, using in-memory in-flight tokens without idempotency replay")
	}

	if !cfg.Wallet.Configured() || cfg.Chain.RPCURL == "" {
		logg.Warn(context.Background(), "no wallet provider configured, connect requests will fail")
	}

	gateway, err := session.NewGateway(session.GatewayParams{
		Detector: wallet.NewDetector(cfg.Chain, cfg.Wallet),
		Binder: session.ChainBinder(cfg.Chain.Address(), chain.Options{
			ReadTimeout:    cfg.Chain.ReadTimeout,
			ReceiptTimeout: cfg.Chain.ReceiptTimeout,
			GasLimit:       cfg.Chain.GasLimit,
			Metrics:        contractMetrics,
		}),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet gateway", err)
		os.Exit(1)
	}

	viewService, err := views.NewService(views.ServiceParams{
		Logger:             logg,
		BookingConcurrency: cfg.Chain.BookingFetchConcurrency,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create views service", err)
		os.Exit(1)
	}

	actionService, err := actions.NewService(actions.ServiceParams{
		Views:    viewService,
		InFlight: inFlight,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create actions service", err)
		os.Exit(1)
	}

	sessions := session.NewManager(time.Now)

	reaper, err := cron.NewSessionReaperJob(cron.SessionReaperJobParams{
		Logger:   logg,
		Sessions: sessions,
		IdleTTL:  cfg.Session.IdleTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session reaper", err)
		os.Exit(1)
	}
	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(reaper),
		Metrics:  jobMetrics,
		Interval: cfg.Session.ReapInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"contract": cfg.Chain.Address().Hex(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			Sessions: sessions,
			Gateway:  gateway,
			Views:    viewService,
			Actions:  actionService,
			Redis:    redisClient,
			Gatherer: registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := cronService.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
