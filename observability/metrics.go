package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics receives counters and timings from table drawing and importing.
type Metrics interface {
	// PageUsed counts a page drawn on. reused is true when the page
	// already existed in the document.
	PageUsed(reused bool)
	RowsDrawn(n int)
	DrawFinished(d time.Duration, err error)
	ImportFinished(format string, d time.Duration, err error)
}

type NopMetrics struct{}

func (NopMetrics) PageUsed(bool)                               {}
func (NopMetrics) RowsDrawn(int)                               {}
func (NopMetrics) DrawFinished(time.Duration, error)           {}
func (NopMetrics) ImportFinished(string, time.Duration, error) {}

// Prometheus implements Metrics with Prometheus collectors.
type Prometheus struct {
	pages   *prometheus.CounterVec
	rows    prometheus.Counter
	draw    *prometheus.HistogramVec
	imports *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		pages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricPages,
				Help: "Pages tables were drawn on.",
			},
			[]string{"page"},
		),
		rows: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricRows,
				Help: "Table rows drawn.",
			},
		),
		draw: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricDrawDuration,
				Help:    "Duration of drawing one table.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"outcome"},
		),
		imports: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricImportTime,
				Help:    "Duration of importing one table definition.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"format", "outcome"},
		),
	}
	for _, c := range []prometheus.Collector{p.pages, p.rows, p.draw, p.imports} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) PageUsed(reused bool) {
	label := "new"
	if reused {
		label = "reused"
	}
	p.pages.WithLabelValues(label).Inc()
}

func (p *Prometheus) RowsDrawn(n int) { p.rows.Add(float64(n)) }

func (p *Prometheus) DrawFinished(d time.Duration, err error) {
	p.draw.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

func (p *Prometheus) ImportFinished(format string, d time.Duration, err error) {
	p.imports.WithLabelValues(format, outcome(err)).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
