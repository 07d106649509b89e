package domain

import "sort"

// Allocate assigns line to the preferred batch that can take it and returns
// that batch's reference. The batches are mutated in place; their order in the
// slice is left untouched.
func Allocate(line OrderLine, batches []*Batch) (string, error) {
	sorted := make([]*Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].After(sorted[i])
	})

	for _, batch := range sorted {
		if batch.CanAllocate(line) {
			batch.Allocate(line)
			return batch.Reference, nil
		}
	}

	return "", &OutOfStockError{SKU: line.SKU}
}
