package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Invocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dexsentry",
		Name:      "invocations_total",
		Help:      "Analyze invocations by outcome.",
	}, []string{"outcome"}) // ok|no_data

	ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dexsentry",
		Name:      "provider_failures_total",
		Help:      "Degraded price-feed fetches by reason.",
	}, []string{"reason"})

	AlertsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dexsentry",
		Name:      "alerts_emitted_total",
		Help:      "Delta alerts emitted by category.",
	}, []string{"category"})

	TrackedTokens = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dexsentry",
		Name:      "tracked_tokens",
		Help:      "Tokens with in-memory baseline state.",
	})

	RiskScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dexsentry",
		Name:      "risk_score",
		Help:      "Distribution of computed risk scores.",
		Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70},
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
