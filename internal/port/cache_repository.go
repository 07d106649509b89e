package port

import (
	"context"

	"github.com/rl1809/batch-allocation/internal/core/domain"
)

type AllocationCache interface {
	// GetAllocation returns the batch reference a line was placed on
	GetAllocation(ctx context.Context, line domain.OrderLine) (string, bool, error)

	// SetAllocation remembers the batch for line, keeping an existing entry
	SetAllocation(ctx context.Context, line domain.OrderLine, batchRef string) error

	// ClearAllocation forgets line (after deallocation)
	ClearAllocation(ctx context.Context, line domain.OrderLine) error
}
