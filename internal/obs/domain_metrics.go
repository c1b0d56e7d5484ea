package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteComputedTotal counts quote calculation outcomes.
	QuoteComputedTotal *prometheus.CounterVec
	// QuoteTotalCents records the distribution of computed quote totals.
	QuoteTotalCents prometheus.Histogram
	// RateLookupMissTotal counts lookups of rate codes absent from the active table.
	RateLookupMissTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_computed_total",
			Help:      "Count of quote calculations by outcome.",
		}, []string{"result"})
		QuoteTotalCents = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_total_cents",
			Help:      "Distribution of computed quote totals in minor currency units.",
			Buckets:   []float64{10_000, 50_000, 100_000, 250_000, 500_000, 1_000_000, 2_500_000, 5_000_000},
		})
		RateLookupMissTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_lookup_miss_total",
			Help:      "Count of rate code lookups that fell back to zero.",
		}, []string{"code"})

		mustRegisterCollector(reg, QuoteComputedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteComputedTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteTotalCents, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				QuoteTotalCents = v
			}
		})
		mustRegisterCollector(reg, RateLookupMissTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				RateLookupMissTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
