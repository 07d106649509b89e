package domain

import (
	"errors"
	"fmt"
)

var ErrOutOfStock = errors.New("out of stock")

// OutOfStockError is returned by Allocate when no batch can take the line.
type OutOfStockError struct {
	SKU string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("Out of stock for sku %s", e.SKU)
}

func (e *OutOfStockError) Is(target error) bool {
	return target == ErrOutOfStock
}
