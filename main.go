package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/freshmart/pos-core/internal/application/session"
	"github.com/freshmart/pos-core/internal/config"
	"github.com/freshmart/pos-core/internal/infrastructure/bus"
	"github.com/freshmart/pos-core/internal/infrastructure/memory"
	"github.com/freshmart/pos-core/internal/infrastructure/observability/oteltrace"
	"github.com/freshmart/pos-core/internal/infrastructure/observability/prometrics"
	"github.com/freshmart/pos-core/internal/infrastructure/observability/telemetry"
	"github.com/freshmart/pos-core/internal/infrastructure/observability/zaplogger"
	"github.com/freshmart/pos-core/internal/infrastructure/receipt"
	"github.com/freshmart/pos-core/internal/infrastructure/simulated"
	"github.com/freshmart/pos-core/internal/observability"
	httppresentation "github.com/freshmart/pos-core/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	logger := zaplogger.New(
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)
	if syncer, ok := logger.(interface{ Sync() error }); ok {
		defer func() { _ = syncer.Sync() }()
	}

	registry := prometrics.New("freshmart", "pos")
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: registry.Counter(
			string(observability.MUsecaseRequests),
			"Total number of use case invocations.",
			"use_case", "outcome",
		),
		observability.MExternalRequests: registry.Counter(
			string(observability.MExternalRequests),
			"Total number of calls to external collaborators.",
			"peer", "endpoint", "outcome",
		),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: registry.Histogram(
			string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.",
			nil,
			"use_case",
		),
		observability.MExternalRequestDuration: registry.Histogram(
			string(observability.MExternalRequestDuration),
			"Duration of external collaborator calls in seconds.",
			nil,
			"peer", "endpoint",
		),
	}

	tracer := oteltrace.New(cfg.ServiceName)
	tel := telemetry.New(tracer, logger, counters, histograms)

	// In-memory event bus carries change notifications to observers
	eventBus := bus.New(logger)
	eventBus.Start(context.Background())
	defer eventBus.Stop(context.Background())

	archive := memory.NewOrderArchive()
	receiptWorker := receipt.New(eventBus, archive, tel)
	receiptWorker.Start()

	catalogSvc := simulated.NewCatalogService(
		simulated.WithProductDelay(cfg.ProductFetchDelay),
		simulated.WithCategoryDelay(cfg.CategoryFetchDelay),
	)
	orderOpts := []simulated.OrderOption{
		simulated.WithOrderDelay(cfg.OrderSubmitDelay),
		simulated.WithAcceptRate(cfg.OrderAcceptRate),
	}
	if cfg.RandomSeed != 0 {
		orderOpts = append(orderOpts, simulated.WithRand(rand.New(rand.NewSource(cfg.RandomSeed))))
	}
	orderSvc := simulated.NewOrderService(orderOpts...)

	sess := session.New(catalogSvc, orderSvc, eventBus, tel)

	handler := httppresentation.NewHandler(sess, logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http_server_start",
			observability.F("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error",
				observability.F("error", err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error",
			observability.F("error", err),
		)
	} else {
		logger.Info("http_server_stopped")
	}
}
