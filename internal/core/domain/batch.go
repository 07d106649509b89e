package domain

import (
	"sort"
	"time"
)

// Batch is a lot of stock for one SKU. A nil ETA means the stock is already
// on hand; otherwise the batch is a shipment due on that date.
type Batch struct {
	Reference string
	SKU       string
	ETA       *time.Time

	purchasedQuantity int
	allocations       map[OrderLine]struct{}
}

func NewBatch(reference, sku string, qty int, eta *time.Time) *Batch {
	return &Batch{
		Reference:         reference,
		SKU:               sku,
		ETA:               eta,
		purchasedQuantity: qty,
		allocations:       make(map[OrderLine]struct{}),
	}
}

// Allocate adds line to the batch if it fits. Lines that don't fit are ignored.
func (b *Batch) Allocate(line OrderLine) {
	if !b.CanAllocate(line) {
		return
	}
	if b.allocations == nil {
		b.allocations = make(map[OrderLine]struct{})
	}
	b.allocations[line] = struct{}{}
}

func (b *Batch) Deallocate(line OrderLine) {
	delete(b.allocations, line)
}

func (b *Batch) CanAllocate(line OrderLine) bool {
	return b.SKU == line.SKU && b.AvailableQuantity() >= line.Qty
}

func (b *Batch) AllocatedQuantity() int {
	total := 0
	for line := range b.allocations {
		total += line.Qty
	}
	return total
}

func (b *Batch) AvailableQuantity() int {
	return b.purchasedQuantity - b.AllocatedQuantity()
}

func (b *Batch) PurchasedQuantity() int {
	return b.purchasedQuantity
}

// Allocations returns a copy of the allocated lines ordered by order id, SKU
// and quantity.
func (b *Batch) Allocations() []OrderLine {
	lines := make([]OrderLine, 0, len(b.allocations))
	for line := range b.allocations {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].OrderID != lines[j].OrderID {
			return lines[i].OrderID < lines[j].OrderID
		}
		if lines[i].SKU != lines[j].SKU {
			return lines[i].SKU < lines[j].SKU
		}
		return lines[i].Qty < lines[j].Qty
	})
	return lines
}

// Equal reports whether both batches carry the same reference.
func (b *Batch) Equal(other *Batch) bool {
	if other == nil {
		return false
	}
	return b.Reference == other.Reference
}

// After reports whether b sorts after other: in-stock batches come first,
// then shipments by ETA.
func (b *Batch) After(other *Batch) bool {
	if b.ETA == nil {
		return false
	}
	if other.ETA == nil {
		return true
	}
	return b.ETA.After(*other.ETA)
}
