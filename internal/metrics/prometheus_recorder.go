package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "readmegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	assembleDuration prom.Histogram
	fragments        prom.Counter
	directives       *prom.CounterVec
	outputBytes      prom.Gauge
	buildOutcome     *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		assembleDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "assemble_duration_seconds",
			Help:      "Duration of document assembly",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}),
		fragments: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_processed_total",
			Help:      "Fragments read and processed",
		}),
		directives: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "directives_resolved_total",
			Help:      "Directives replaced by inlined content, by rule",
		}, []string{"rule"}),
		outputBytes: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "output_bytes",
			Help:      "Size of the assembled document",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.assembleDuration, pr.fragments, pr.directives, pr.outputBytes, pr.buildOutcome)
	return pr
}

func (p *PrometheusRecorder) ObserveAssembleDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.assembleDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFragment() {
	if p == nil {
		return
	}
	p.fragments.Inc()
}

func (p *PrometheusRecorder) IncDirective(rule string) {
	if p == nil {
		return
	}
	p.directives.WithLabelValues(rule).Inc()
}

func (p *PrometheusRecorder) SetOutputBytes(n int) {
	if p == nil {
		return
	}
	p.outputBytes.Set(float64(n))
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

// WriteTextfile writes every metric in reg to path in the text exposition format.
// The file is written to a temporary sibling and renamed into place; missing
// parent directories are created first.
func WriteTextfile(reg *prom.Registry, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
