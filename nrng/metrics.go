package nrng

import (
	"fmt"

	vm "github.com/VictoriaMetrics/metrics"
)

// sourceMetrics holds the per-source counters exported for monitoring.
type sourceMetrics struct {
	draws     *vm.Counter
	rawBits   *vm.Counter
	retries   *vm.Counter
	exhausted *vm.Counter
}

func newSourceMetrics(sourceName string) *sourceMetrics {
	return &sourceMetrics{
		draws:     vm.GetOrCreateCounter(fmt.Sprintf(`nrng_source_draws_total{source=%q}`, sourceName)),
		rawBits:   vm.GetOrCreateCounter(fmt.Sprintf(`nrng_source_raw_bits_total{source=%q}`, sourceName)),
		retries:   vm.GetOrCreateCounter(fmt.Sprintf(`nrng_source_health_retries_total{source=%q}`, sourceName)),
		exhausted: vm.GetOrCreateCounter(fmt.Sprintf(`nrng_source_exhausted_total{source=%q}`, sourceName)),
	}
}
