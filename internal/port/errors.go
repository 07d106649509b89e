package port

import "errors"

var (
	ErrAllocationConflict = errors.New("allocation conflict")
	ErrBatchExists        = errors.New("batch already exists")
)
