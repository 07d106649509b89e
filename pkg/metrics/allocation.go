package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultAllocated  = "allocated"
	ResultCached     = "cached"
	ResultOutOfStock = "out_of_stock"
	ResultError      = "error"
)

// AllocationMetrics counts allocation attempts by outcome.
type AllocationMetrics struct {
	attempts     *prometheus.CounterVec
	deallocation prometheus.Counter
}

// NewAllocationMetrics registers the counters on reg. A nil registerer yields
// a no-op recorder.
func NewAllocationMetrics(reg prometheus.Registerer) *AllocationMetrics {
	if reg == nil {
		return &AllocationMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocations_total",
		Help: "Allocation attempts by result.",
	}, []string{"result"})
	deallocation := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deallocations_total",
		Help: "Order lines removed from a batch.",
	})
	reg.MustRegister(attempts, deallocation)
	return &AllocationMetrics{attempts: attempts, deallocation: deallocation}
}

func (m *AllocationMetrics) IncAllocation(result string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(result).Inc()
}

func (m *AllocationMetrics) IncDeallocation() {
	if m == nil || m.deallocation == nil {
		return
	}
	m.deallocation.Inc()
}
