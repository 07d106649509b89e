package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func makeBatchAndLine(sku string, batchQty, lineQty int) (*Batch, OrderLine) {
	today := time.Now().Truncate(24 * time.Hour)
	return NewBatch("batch-001", sku, batchQty, &today),
		OrderLine{OrderID: "order-123", SKU: sku, Qty: lineQty}
}

func TestAllocatingToBatchReducesAvailableQuantity(t *testing.T) {
	batch, line := makeBatchAndLine("SMALL-TABLE", 20, 2)

	batch.Allocate(line)

	assert.Equal(t, 18, batch.AvailableQuantity())
	assert.Equal(t, 2, batch.AllocatedQuantity())
}

func TestCanAllocate(t *testing.T) {
	tests := []struct {
		name     string
		batchQty int
		lineQty  int
		want     bool
	}{
		{name: "available greater than required", batchQty: 20, lineQty: 2, want: true},
		{name: "available equal to required", batchQty: 2, lineQty: 2, want: true},
		{name: "available smaller than required", batchQty: 2, lineQty: 20, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, line := makeBatchAndLine("ELEGANT-LAMP", tt.batchQty, tt.lineQty)
			assert.Equal(t, tt.want, batch.CanAllocate(line))
		})
	}
}

func TestCannotAllocateIfSKUsDoNotMatch(t *testing.T) {
	batch := NewBatch("batch-001", "UNCOMFORTABLE-CHAIR", 100, nil)
	line := OrderLine{OrderID: "order-123", SKU: "EXPENSIVE-TOASTER", Qty: 10}

	assert.False(t, batch.CanAllocate(line))

	batch.Allocate(line)
	assert.Equal(t, 100, batch.AvailableQuantity())
	assert.Empty(t, batch.Allocations())
}

func TestAllocateIgnoresLineThatDoesNotFit(t *testing.T) {
	batch, line := makeBatchAndLine("BLUE-VASE", 5, 10)

	batch.Allocate(line)

	assert.Equal(t, 5, batch.AvailableQuantity())
	assert.Equal(t, 0, batch.AllocatedQuantity())
}

func TestCanOnlyDeallocateAllocatedLines(t *testing.T) {
	batch, unallocated := makeBatchAndLine("DECORATIVE-TRINKET", 20, 2)

	assert.NotPanics(t, func() { batch.Deallocate(unallocated) })
	assert.Equal(t, 20, batch.AvailableQuantity())
}

func TestDeallocateRestoresQuantity(t *testing.T) {
	batch, line := makeBatchAndLine("DECORATIVE-TRINKET", 20, 2)

	batch.Allocate(line)
	batch.Deallocate(line)

	assert.Equal(t, 20, batch.AvailableQuantity())
	assert.Empty(t, batch.Allocations())
}

func TestAllocationIsIdempotent(t *testing.T) {
	batch, line := makeBatchAndLine("ANGULAR-DESK", 20, 2)

	batch.Allocate(line)
	batch.Allocate(line)

	assert.Equal(t, 18, batch.AvailableQuantity())
	assert.Equal(t, 2, batch.AllocatedQuantity())
	assert.Len(t, batch.Allocations(), 1)
}

func TestAllocateOnZeroValueBatch(t *testing.T) {
	batch := &Batch{Reference: "b", SKU: "MUG"}
	line := OrderLine{OrderID: "o1", SKU: "MUG", Qty: 0}

	batch.Allocate(line)

	assert.Len(t, batch.Allocations(), 1)
	assert.Equal(t, 0, batch.AvailableQuantity())
}

func TestAllocationsAreSorted(t *testing.T) {
	batch := NewBatch("batch-001", "RED-CHAIR", 100, nil)
	batch.Allocate(OrderLine{OrderID: "order-2", SKU: "RED-CHAIR", Qty: 1})
	batch.Allocate(OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 5})
	batch.Allocate(OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 3})

	assert.Equal(t, []OrderLine{
		{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 3},
		{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 5},
		{OrderID: "order-2", SKU: "RED-CHAIR", Qty: 1},
	}, batch.Allocations())
}

func TestBatchEqualityIsByReference(t *testing.T) {
	tomorrow := time.Now().Add(24 * time.Hour)
	a := NewBatch("batch-001", "LAMP", 10, nil)
	b := NewBatch("batch-001", "TABLE", 99, &tomorrow)
	c := NewBatch("batch-002", "LAMP", 10, nil)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestBatchAfter(t *testing.T) {
	today := time.Now().Truncate(24 * time.Hour)
	tomorrow := today.Add(24 * time.Hour)

	inStock := NewBatch("in-stock", "LAMP", 10, nil)
	otherInStock := NewBatch("in-stock-2", "LAMP", 10, nil)
	early := NewBatch("early", "LAMP", 10, &today)
	late := NewBatch("late", "LAMP", 10, &tomorrow)

	assert.False(t, inStock.After(early))
	assert.False(t, inStock.After(otherInStock))
	assert.True(t, early.After(inStock))
	assert.True(t, late.After(early))
	assert.False(t, early.After(late))
	assert.False(t, early.After(early))
}
