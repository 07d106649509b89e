package port

import (
	"context"

	"github.com/rl1809/batch-allocation/internal/core/domain"
)

type BatchRepository interface {
	// AddBatch stores a new batch with no allocations
	AddBatch(ctx context.Context, batch *domain.Batch) error

	// ListBySKU returns every batch for the SKU with its allocated lines loaded
	ListBySKU(ctx context.Context, sku string) ([]*domain.Batch, error)

	// SaveAllocation records line against the batch, guarded by remaining quantity
	SaveAllocation(ctx context.Context, batchRef string, line domain.OrderLine) error

	// DeleteAllocation removes line and returns the batch it was on, "" if none
	DeleteAllocation(ctx context.Context, line domain.OrderLine) (string, error)
}
