package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Calculation outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid_input"
	OutcomeConfig      = "configuration_error"
	OutcomeUnavailable = "catalog_unavailable"
)

// PricingMetrics records pricing engine activity.
type PricingMetrics struct {
	duration    *prometheus.HistogramVec
	applied     *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	cacheLookup *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "offer_calculation_duration_seconds",
		Help:    "Duration of offer calculations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_applied_total",
		Help: "Offers applied to calculated carts, by offer type.",
	}, []string{"offer_type"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_coupon_rejections_total",
		Help: "Coupons rejected during calculation, by reason.",
	}, []string{"reason"})
	cacheLookup := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_catalog_cache_lookups_total",
		Help: "Offer catalog cache lookups, by result.",
	}, []string{"result"})
	reg.MustRegister(duration, applied, rejections, cacheLookup)
	return &PricingMetrics{
		duration:    duration,
		applied:     applied,
		rejections:  rejections,
		cacheLookup: cacheLookup,
	}
}

// ObserveCalculation records one calculation with its outcome.
func (p *PricingMetrics) ObserveCalculation(outcome string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncOfferApplied counts an applied offer.
func (p *PricingMetrics) IncOfferApplied(offerType string) {
	if p == nil || p.applied == nil {
		return
	}
	p.applied.WithLabelValues(normalizeLabel(offerType)).Inc()
}

// IncCouponRejected counts a rejected coupon.
func (p *PricingMetrics) IncCouponRejected(reason string) {
	if p == nil || p.rejections == nil {
		return
	}
	p.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCacheHit counts a catalog cache hit.
func (p *PricingMetrics) IncCacheHit() {
	p.incCache("hit")
}

// IncCacheMiss counts a catalog cache miss.
func (p *PricingMetrics) IncCacheMiss() {
	p.incCache("miss")
}

// IncCacheError counts a failed cache lookup.
func (p *PricingMetrics) IncCacheError() {
	p.incCache("error")
}

func (p *PricingMetrics) incCache(result string) {
	if p == nil || p.cacheLookup == nil {
		return
	}
	p.cacheLookup.WithLabelValues(result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
