package handler

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rl1809/batch-allocation/internal/adapter/storage"
	"github.com/rl1809/batch-allocation/internal/core/service"
	"github.com/rl1809/batch-allocation/pkg/metrics"
)

func newTestService(t *testing.T) *service.AllocationService {
	t.Helper()
	return service.NewAllocationService(
		storage.NewMemoryBatchStore(),
		storage.NewMemoryAllocationCache(),
		metrics.NewAllocationMetrics(prometheus.NewRegistry()),
		zerolog.New(io.Discard),
	)
}
