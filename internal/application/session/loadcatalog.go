package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/freshmart/pos-core/internal/domain/catalog"
	"github.com/freshmart/pos-core/internal/observability"
	"github.com/freshmart/pos-core/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LoadCatalog fetches products and categories from the catalog service and
// merges them into the session in one update. The two fetches run
// concurrently. Any failure becomes the load-error status message; the
// previous catalog is left as-is and the user retries by calling again. The
// loading flag is cleared on every exit path.
func (s *Session) LoadCatalog(ctx context.Context) (err error) {
	if err := s.beginAsync(); err != nil {
		return err
	}
	defer s.endAsync()

	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCaseCatalogLoad))

	ctx, span := s.tracer.Start(ctx, spanPrefix+"CatalogLoad",
		attribute.String("use_case", useCaseCatalogLoad),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var productCount, categoryCount int

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
				observability.L("use_case", useCaseCatalogLoad),
				observability.L("outcome", outcome),
			)
		}
		if s.durHistogram != nil {
			s.durHistogram.Observe(lat,
				observability.L("use_case", useCaseCatalogLoad),
			)
		}

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if productCount > 0 {
			fields = append(fields,
				observability.F("products", productCount),
				observability.F("categories", categoryCount),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	var (
		wg         sync.WaitGroup
		products   []catalog.Product
		categories []string
		perr, cerr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		products, perr = s.fetchProducts(ctx)
	}()
	go func() {
		defer wg.Done()
		categories, cerr = s.fetchCategories(ctx)
	}()
	wg.Wait()

	if perr != nil || cerr != nil {
		s.mu.Lock()
		s.status = StatusLoadFailed
		s.mu.Unlock()
		outcome, statusText = "error", "CATALOG_FETCH_FAILED"
		return fmt.Errorf("session: load catalog: %w", errors.Join(perr, cerr))
	}

	s.mu.Lock()
	s.products = products
	s.categories = append([]string{catalog.AllCategories}, categories...)
	if !s.selectedKnownLocked() {
		s.selected = catalog.AllCategories
	}
	s.mu.Unlock()

	productCount, categoryCount = len(products), len(categories)
	span.AddEvent("catalog.loaded",
		trace.WithAttributes(
			attribute.Int("catalog.products", productCount),
			attribute.Int("catalog.categories", categoryCount),
		),
	)

	s.publishEvent(catalog.NewLoadedEvent(productCount, categoryCount), "catalog.loaded")
	return nil
}

// selectedKnownLocked reports whether the selected category survives a reload.
// Callers must hold s.mu.
func (s *Session) selectedKnownLocked() bool {
	for _, c := range s.categories {
		if c == s.selected {
			return true
		}
	}
	return false
}

func (s *Session) fetchProducts(ctx context.Context) ([]catalog.Product, error) {
	start := time.Now()
	products, err := s.catalogSvc.FetchProducts(ctx)
	s.observeExternal(peerCatalog, "products", start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

func (s *Session) fetchCategories(ctx context.Context) ([]string, error) {
	start := time.Now()
	categories, err := s.catalogSvc.FetchCategories(ctx)
	s.observeExternal(peerCatalog, "categories", start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return categories, nil
}

func (s *Session) observeExternal(peer, endpoint string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if s.extCounter != nil {
		s.extCounter.Add(1,
			observability.L("peer", peer),
			observability.L("endpoint", endpoint),
			observability.L("outcome", outcome),
		)
	}
	if s.extHistogram != nil {
		s.extHistogram.Observe(time.Since(start).Seconds(),
			observability.L("peer", peer),
			observability.L("endpoint", endpoint),
		)
	}
}
