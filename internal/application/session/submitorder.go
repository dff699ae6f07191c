package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshmart/pos-core/internal/domain/checkout"
	"github.com/freshmart/pos-core/internal/observability"
	"github.com/freshmart/pos-core/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SubmitOrder sends a value snapshot of the cart to the order backend. An
// empty cart is a no-op. Acceptance clears the cart; rejection or failure
// keeps it so the user can retry. Every outcome becomes a status message; the
// loading flag is cleared on every exit path.
func (s *Session) SubmitOrder(ctx context.Context) (err error) {
	s.mu.Lock()
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return nil
	}
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true
	// Snapshot under the lock so an in-flight submit can never observe a
	// concurrent cart mutation.
	items := s.cart.Items()
	s.mu.Unlock()
	defer s.endAsync()

	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCaseOrderSubmit))

	ctx, span := s.tracer.Start(ctx, spanPrefix+"OrderSubmit",
		attribute.String("use_case", useCaseOrderSubmit),
		attribute.Int("order.lines", len(items)),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var orderID string

	defer func() {
		lat := time.Since(start).Seconds()

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		if s.reqCounter != nil {
			s.reqCounter.Add(1,
				observability.L("use_case", useCaseOrderSubmit),
				observability.L("outcome", outcome),
			)
		}
		if s.durHistogram != nil {
			s.durHistogram.Observe(lat,
				observability.L("use_case", useCaseOrderSubmit),
			)
		}

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
			observability.F("lines", len(items)),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if orderID != "" {
			fields = append(fields, observability.F("order_id", orderID))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	placeStart := time.Now()
	receipt, placeErr := s.placer.PlaceOrder(ctx, items)
	s.observeExternal(peerOrders, "place_order", placeStart, placeErr)

	switch {
	case placeErr == nil:
		s.mu.Lock()
		s.cart.Clear()
		s.status = StatusOrderPlaced
		s.mu.Unlock()
		orderID = receipt.OrderID
		span.AddEvent("order.placed",
			trace.WithAttributes(attribute.String("order.id", orderID)),
		)
		s.publishEvent(checkout.NewOrderPlacedEvent(receipt), "order.placed")
		return nil

	case errors.Is(placeErr, checkout.ErrRejected):
		s.mu.Lock()
		s.status = StatusOrderRejected
		s.mu.Unlock()
		outcome, statusText = "error", "ORDER_REJECTED"
		s.publishEvent(checkout.NewOrderRejectedEvent(len(items)), "order.rejected")
		return placeErr

	default:
		detail := placeErr.Error()
		if detail == "" {
			detail = "unknown error"
		}
		s.mu.Lock()
		s.status = "Error submitting order: " + detail
		s.mu.Unlock()
		outcome, statusText = "error", "ORDER_SUBMIT_FAILED"
		return fmt.Errorf("session: submit order: %w", placeErr)
	}
}
