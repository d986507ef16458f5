// Package metrics records pipeline metrics with Prometheus.
package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the recipecards collectors.
type Recorder struct {
	fetches        *prom.CounterVec
	recipesParsed  prom.Counter
	emptyDocuments prom.Counter
	renderDuration *prom.HistogramVec
}

// NewRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewRecorder(reg prom.Registerer) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		fetches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "recipecards",
			Name:      "fetch_total",
			Help:      "Source fetches by result",
		}, []string{"result"}),
		recipesParsed: prom.NewCounter(prom.CounterOpts{
			Namespace: "recipecards",
			Name:      "recipes_parsed_total",
			Help:      "Recipes emitted by the parser",
		}),
		emptyDocuments: prom.NewCounter(prom.CounterOpts{
			Namespace: "recipecards",
			Name:      "empty_documents_total",
			Help:      "Documents that parsed to zero recipes",
		}),
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "recipecards",
			Name:      "render_duration_seconds",
			Help:      "Render duration by output format",
			Buckets:   prom.DefBuckets,
		}, []string{"format"}),
	}
	reg.MustRegister(r.fetches, r.recipesParsed, r.emptyDocuments, r.renderDuration)
	return r
}

// ObserveFetch counts a fetch as "ok" or "error".
func (r *Recorder) ObserveFetch(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.fetches.WithLabelValues(result).Inc()
}

// ObserveParse records the number of recipes parsed from one document.
func (r *Recorder) ObserveParse(count int) {
	if r == nil {
		return
	}
	r.recipesParsed.Add(float64(count))
	if count == 0 {
		r.emptyDocuments.Inc()
	}
}

// ObserveRender records how long rendering one format took.
func (r *Recorder) ObserveRender(format string, d time.Duration) {
	if r == nil {
		return
	}
	r.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}
