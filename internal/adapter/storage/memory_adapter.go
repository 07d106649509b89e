package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/batch-allocation/internal/core/domain"
	"github.com/rl1809/batch-allocation/internal/port"
)

var (
	_ port.BatchRepository = (*MemoryBatchStore)(nil)
	_ port.AllocationCache = (*MemoryAllocationCache)(nil)
)

type memoryBatch struct {
	reference string
	sku       string
	qty       int
	eta       *time.Time
	lines     []domain.OrderLine
}

// MemoryBatchStore keeps batches in process. Reads return fresh Batch values
// so callers never share state with the store.
type MemoryBatchStore struct {
	mu      sync.Mutex
	batches []*memoryBatch
}

func NewMemoryBatchStore() *MemoryBatchStore {
	return &MemoryBatchStore{}
}

func (m *MemoryBatchStore) AddBatch(ctx context.Context, batch *domain.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.find(batch.Reference) != nil {
		return port.ErrBatchExists
	}
	m.batches = append(m.batches, &memoryBatch{
		reference: batch.Reference,
		sku:       batch.SKU,
		qty:       batch.PurchasedQuantity(),
		eta:       copyTime(batch.ETA),
		lines:     batch.Allocations(),
	})
	return nil
}

func (m *MemoryBatchStore) ListBySKU(ctx context.Context, sku string) ([]*domain.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Batch
	for _, mb := range m.batches {
		if mb.sku == sku {
			out = append(out, mb.build())
		}
	}
	return out, nil
}

func (m *MemoryBatchStore) SaveAllocation(ctx context.Context, batchRef string, line domain.OrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, mb := range m.batches {
		for _, l := range mb.lines {
			if l == line {
				return port.ErrAllocationConflict
			}
		}
	}

	mb := m.find(batchRef)
	if mb == nil || !mb.build().CanAllocate(line) {
		return port.ErrAllocationConflict
	}
	mb.lines = append(mb.lines, line)
	return nil
}

func (m *MemoryBatchStore) DeleteAllocation(ctx context.Context, line domain.OrderLine) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, mb := range m.batches {
		for i, l := range mb.lines {
			if l == line {
				mb.lines = append(mb.lines[:i], mb.lines[i+1:]...)
				return mb.reference, nil
			}
		}
	}
	return "", nil
}

func (m *MemoryBatchStore) find(ref string) *memoryBatch {
	for _, mb := range m.batches {
		if mb.reference == ref {
			return mb
		}
	}
	return nil
}

func (mb *memoryBatch) build() *domain.Batch {
	b := domain.NewBatch(mb.reference, mb.sku, mb.qty, copyTime(mb.eta))
	for _, line := range mb.lines {
		b.Allocate(line)
	}
	return b
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// MemoryAllocationCache is the in-process counterpart of RedisAdapter. Entries
// do not expire.
type MemoryAllocationCache struct {
	mu      sync.Mutex
	entries map[domain.OrderLine]string
}

func NewMemoryAllocationCache() *MemoryAllocationCache {
	return &MemoryAllocationCache{entries: make(map[domain.OrderLine]string)}
}

func (c *MemoryAllocationCache) GetAllocation(ctx context.Context, line domain.OrderLine) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ref, ok := c.entries[line]
	return ref, ok, nil
}

func (c *MemoryAllocationCache) SetAllocation(ctx context.Context, line domain.OrderLine, batchRef string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[line]; !ok {
		c.entries[line] = batchRef
	}
	return nil
}

func (c *MemoryAllocationCache) ClearAllocation(ctx context.Context, line domain.OrderLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, line)
	return nil
}
