// Package metrics exposes pipeline counters to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"at_deals/internal/domain/service/ingest"
	"at_deals/internal/infrastructure/translation"
)

const namespace = "deals"

type Pipeline struct {
	cycles          *prometheus.CounterVec
	records         *prometheus.CounterVec
	cycleDuration   *prometheus.HistogramVec
	lastSuccess     *prometheus.GaugeVec
	translations    *prometheus.CounterVec
	providerFails   *prometheus.CounterVec
	providerState   *prometheus.GaugeVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	reclassified    prometheus.Counter
}

// NewPipeline registers all collectors on reg.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "cycles_total",
			Help: "Ingest cycles by result.",
		}, []string{"site", "result"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "records_total",
			Help: "Fetched records by outcome.",
		}, []string{"site", "outcome"}),
		cycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "cycle_duration_seconds",
			Help:    "Wall time of one ingest cycle.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"site"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "last_success_timestamp_seconds",
			Help: "Unix time of the last completed cycle.",
		}, []string{"site"}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "translation", Name: "served_total",
			Help: "Translations served by provider and cache hit.",
		}, []string{"provider", "cache_hit"}),
		providerFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "translation", Name: "provider_failures_total",
			Help: "Failed translate calls per provider.",
		}, []string{"provider"}),
		providerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "translation", Name: "provider_state",
			Help: "Provider health: 0 unknown, 1 healthy, 2 degraded, 3 unhealthy.",
		}, []string{"provider"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "upstream", Name: "requests_total",
			Help: "Outgoing HTTP requests by host and status (0 for transport errors).",
		}, []string{"host", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "upstream", Name: "request_duration_seconds",
			Help:    "Outgoing HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		reclassified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "reclassify", Name: "updated_total",
			Help: "Stored deals whose categories changed on reclassification.",
		}),
	}

	reg.MustRegister(
		p.cycles, p.records, p.cycleDuration, p.lastSuccess,
		p.translations, p.providerFails, p.providerState,
		p.upstreamCalls, p.upstreamLatency, p.reclassified,
	)

	return p
}

// CycleCompleted implements ingest.Observer.
func (p *Pipeline) CycleCompleted(r ingest.Report, err error) {
	site := r.Site.String()

	result := "ok"
	if err != nil {
		result = "error"
	}
	p.cycles.WithLabelValues(site, result).Inc()
	p.cycleDuration.WithLabelValues(site).Observe(r.Duration.Seconds())

	for outcome, n := range map[string]int{
		"inserted": r.Inserted,
		"updated":  r.Updated,
		"touched":  r.Touched,
		"skipped":  r.Skipped,
		"deferred": r.Deferred,
		"failed":   r.Failed,
	} {
		p.records.WithLabelValues(site, outcome).Add(float64(n))
	}

	if err == nil {
		p.lastSuccess.WithLabelValues(site).Set(float64(r.Started.Add(r.Duration).Unix()))
	}
}

// TranslationServed implements translation.Observer.
func (p *Pipeline) TranslationServed(provider string, cacheHit bool) {
	p.translations.WithLabelValues(provider, strconv.FormatBool(cacheHit)).Inc()
}

func (p *Pipeline) ProviderFailed(provider string) {
	p.providerFails.WithLabelValues(provider).Inc()
}

func (p *Pipeline) ProviderStateChanged(provider string, state translation.State) {
	p.providerState.WithLabelValues(provider).Set(float64(state))
}

// ObserveUpstream matches the httpx logging round tripper observer.
func (p *Pipeline) ObserveUpstream(host string, status int, elapsed time.Duration) {
	p.upstreamCalls.WithLabelValues(host, strconv.Itoa(status)).Inc()
	p.upstreamLatency.WithLabelValues(host).Observe(elapsed.Seconds())
}

func (p *Pipeline) Reclassified(n int) {
	p.reclassified.Add(float64(n))
}
