package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rl1809/batch-allocation/internal/core/domain"
	"github.com/rl1809/batch-allocation/internal/port"
	"github.com/rl1809/batch-allocation/pkg/metrics"
)

var ErrInvalidBatch = errors.New("invalid batch")

// AllocationService loads batches for a SKU, runs domain.Allocate on them and
// stores the result. Calls are serialised; Batch itself has no locking.
type AllocationService struct {
	mu      sync.Mutex
	batches port.BatchRepository
	cache   port.AllocationCache
	metrics *metrics.AllocationMetrics
	log     zerolog.Logger
}

func NewAllocationService(batches port.BatchRepository, cache port.AllocationCache, m *metrics.AllocationMetrics, log zerolog.Logger) *AllocationService {
	return &AllocationService{
		batches: batches,
		cache:   cache,
		metrics: m,
		log:     log.With().Str("component", "allocation_service").Logger(),
	}
}

func (s *AllocationService) AddBatch(ctx context.Context, reference, sku string, qty int, eta *time.Time) error {
	if strings.TrimSpace(reference) == "" || strings.TrimSpace(sku) == "" {
		return fmt.Errorf("%w: reference and sku are required", ErrInvalidBatch)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidBatch, qty)
	}

	if err := s.batches.AddBatch(ctx, domain.NewBatch(reference, sku, qty, eta)); err != nil {
		return fmt.Errorf("add batch: %w", err)
	}

	s.log.Info().Str("batch_ref", reference).Str("sku", sku).Int("qty", qty).Msg("batch added")
	return nil
}

// Allocate places line on the preferred batch for its SKU and returns the
// batch reference. A line that is already placed returns its existing batch.
func (s *AllocationService) Allocate(ctx context.Context, line domain.OrderLine) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.With().
		Str("order_id", line.OrderID).
		Str("sku", line.SKU).
		Int("qty", line.Qty).
		Logger()

	// The cached reference is only a hint; the repository decides.
	cachedRef, cached, err := s.cache.GetAllocation(ctx, line)
	if err != nil {
		log.Warn().Err(err).Msg("allocation lookup failed")
	}

	batches, err := s.batches.ListBySKU(ctx, line.SKU)
	if err != nil {
		s.metrics.IncAllocation(metrics.ResultError)
		return "", fmt.Errorf("list batches: %w", err)
	}

	if ref, ok := findAllocated(line, batches); ok {
		if !cached || cachedRef != ref {
			if cached {
				s.forget(ctx, log, line)
			}
			s.remember(ctx, log, line, ref)
		}
		s.metrics.IncAllocation(metrics.ResultCached)
		log.Debug().Str("batch_ref", ref).Msg("line already allocated")
		return ref, nil
	}

	if cached {
		log.Warn().Str("batch_ref", cachedRef).Msg("stale allocation lookup")
		s.forget(ctx, log, line)
	}

	ref, err := domain.Allocate(line, batches)
	if err != nil {
		if errors.Is(err, domain.ErrOutOfStock) {
			s.metrics.IncAllocation(metrics.ResultOutOfStock)
			log.Info().Int("candidates", len(batches)).Msg("out of stock")
		} else {
			s.metrics.IncAllocation(metrics.ResultError)
		}
		return "", err
	}

	if err := s.batches.SaveAllocation(ctx, ref, line); err != nil {
		s.metrics.IncAllocation(metrics.ResultError)
		return "", fmt.Errorf("save allocation: %w", err)
	}

	s.remember(ctx, log, line, ref)
	s.metrics.IncAllocation(metrics.ResultAllocated)
	log.Info().Str("batch_ref", ref).Msg("line allocated")

	return ref, nil
}

// Deallocate removes line from whichever batch holds it. Unknown lines are a
// no-op and return "".
func (s *AllocationService) Deallocate(ctx context.Context, line domain.OrderLine) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.batches.DeleteAllocation(ctx, line)
	if err != nil {
		return "", fmt.Errorf("delete allocation: %w", err)
	}

	s.forget(ctx, s.log.With().Str("order_id", line.OrderID).Logger(), line)

	if ref != "" {
		s.metrics.IncDeallocation()
		s.log.Info().
			Str("order_id", line.OrderID).
			Str("sku", line.SKU).
			Str("batch_ref", ref).
			Msg("line deallocated")
	}

	return ref, nil
}

func (s *AllocationService) remember(ctx context.Context, log zerolog.Logger, line domain.OrderLine, ref string) {
	if err := s.cache.SetAllocation(ctx, line, ref); err != nil {
		log.Warn().Err(err).Msg("allocation lookup write failed")
	}
}

func (s *AllocationService) forget(ctx context.Context, log zerolog.Logger, line domain.OrderLine) {
	if err := s.cache.ClearAllocation(ctx, line); err != nil {
		log.Warn().Err(err).Msg("allocation lookup clear failed")
	}
}

func findAllocated(line domain.OrderLine, batches []*domain.Batch) (string, bool) {
	for _, b := range batches {
		for _, l := range b.Allocations() {
			if l == line {
				return b.Reference, true
			}
		}
	}
	return "", false
}
