package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/agexport-console/config"
	"github.com/d60-Lab/agexport-console/internal/api"
	"github.com/d60-Lab/agexport-console/internal/api/handler"
	"github.com/d60-Lab/agexport-console/internal/exchange"
	"github.com/d60-Lab/agexport-console/internal/repository"
	"github.com/d60-Lab/agexport-console/internal/service"
	"github.com/d60-Lab/agexport-console/pkg/database"
	"github.com/d60-Lab/agexport-console/pkg/logger"
	"github.com/d60-Lab/agexport-console/pkg/tracing"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()
	shutdownTrace := must(tracing.Init(ctx, "agexport-console", cfg.Trace.OTLPEndpoint))
	defer func() { _ = shutdownTrace(ctx) }()

	db := must(database.InitDB(cfg))

	// repositories
	orderRepo := repository.NewOrderRepository(db)
	adminRepo := repository.NewAdminOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	eventRepo := repository.NewOrderEventRepository(db)

	// 汇率缓存：配置了 redis 则多副本共享快照
	fetcher := exchange.NewERAPIFetcher(cfg.Exchange.ProviderURL, cfg.Exchange.BaseCurrency, cfg.Exchange.FetchTimeout)
	rateOpts := []exchange.Option{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rateOpts = append(rateOpts, exchange.WithRedis(rdb))
	}
	rates := exchange.NewRateCache(fetcher, cfg.Exchange.TTL, cfg.Exchange.FallbackRate, rateOpts...)

	// services
	auditor := service.NewStatusAuditor(eventRepo, cfg.Order.AuditQueueSize)
	stopAuditor := auditor.Start(cfg.Order.AuditWorkers)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, eventRepo, auditor, cfg.Order.StrictProgression)
	adminSvc := service.NewAdminOrderService(adminRepo, customerRepo, auditor, cfg.Order.StrictProgression)
	revenueSvc := service.NewRevenueService(orderRepo, adminRepo)

	h := handler.New(orderSvc, adminSvc, revenueSvc, rates)
	r := api.NewRouter(cfg, h)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	_ = stopAuditor(shutdownCtx)
}
