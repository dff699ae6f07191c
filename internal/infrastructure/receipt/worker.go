package receipt

import (
	"context"
	"fmt"
	"time"

	dombus "github.com/freshmart/pos-core/internal/domain/bus"
	"github.com/freshmart/pos-core/internal/domain/checkout"
	"github.com/freshmart/pos-core/internal/infrastructure/memory"
	"github.com/freshmart/pos-core/internal/observability"
	"github.com/freshmart/pos-core/internal/observability/logctx"
	"github.com/shopspring/decimal"
)

const (
	workerService  = "receipt-worker"
	useCaseArchive = "receipt.archive"
)

// Worker records a receipt for every accepted order it sees on the bus.
type Worker struct {
	subscriber dombus.Subscriber
	archive    *memory.OrderArchive

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func New(subscriber dombus.Subscriber, archive *memory.OrderArchive, tel observability.Observability) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()
	return &Worker{
		subscriber:   subscriber,
		archive:      archive,
		log:          tel.Logger().With(observability.F("service", workerService)),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil || w.archive == nil {
		return
	}
	w.subscriber.Subscribe(checkout.OrderPlacedEvent{}.EventName(), w.handleOrderPlaced)
}

func (w *Worker) handleOrderPlaced(ctx context.Context, e dombus.Event) error {
	evt, ok := e.(checkout.OrderPlacedEvent)
	if !ok {
		w.observe(useCaseArchive, "ignored", 0)
		return nil
	}

	start := time.Now()
	outcome, status := "success", "OK"

	logger := logctx.FromOr(ctx, w.log).With(
		observability.F("use_case", useCaseArchive),
		observability.F("order_id", evt.OrderID),
	)

	defer func() {
		lat := time.Since(start).Seconds()
		w.observe(useCaseArchive, outcome, lat)
		logger.Info("use_case_done",
			observability.F("outcome", outcome),
			observability.F("status", status),
			observability.F("latency_seconds", lat),
		)
	}()

	total, err := decimal.NewFromString(evt.Total)
	if err != nil {
		outcome, status = "error", "TOTAL_PARSE_FAILED"
		return fmt.Errorf("receipt: parse total: %w", err)
	}

	record := &memory.ArchivedOrder{
		ID:        evt.OrderID,
		Total:     total,
		ItemCount: evt.ItemCount,
		PlacedAt:  evt.OccurredAt,
	}
	if err := w.archive.Record(ctx, record); err != nil {
		outcome, status = "error", "ARCHIVE_RECORD_FAILED"
		return fmt.Errorf("receipt: record order: %w", err)
	}
	return nil
}

func (w *Worker) observe(useCase, outcome string, latencySeconds float64) {
	if w.reqCounter != nil {
		w.reqCounter.Add(1,
			observability.L("use_case", useCase),
			observability.L("outcome", outcome),
		)
	}
	if w.durHistogram != nil && latencySeconds > 0 {
		w.durHistogram.Observe(latencySeconds,
			observability.L("use_case", useCase),
		)
	}
}
