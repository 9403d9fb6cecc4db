// file: phfwd/pkg/x_metrics/metrics.go
package x_metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const (
	opLabel     = "op"
	resultLabel = "result"
	treeLabel   = "tree"

	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultNoSpace = "no_space"
	ResultNoop    = "noop"
)

// Metrics holds the collectors of one engine. Each instance owns its
// registry so independent engines never collide. A nil *Metrics is a
// valid, disabled recorder.
type Metrics struct {
	reg         *prometheus.Registry
	ops         *prometheus.CounterVec
	nodes       *prometheus.GaugeVec
	forwardings prometheus.Gauge
	rollbacks   prometheus.Counter
}

// New creates the collectors; constLabels are attached to every series.
func New(constLabels prometheus.Labels) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	m := &Metrics{reg: reg}

	m.ops = f.NewCounterVec(prometheus.CounterOpts{
		Name:        "phfwd_operations_total",
		Help:        "The total number of engine operations per kind and outcome.",
		ConstLabels: constLabels,
	}, []string{opLabel, resultLabel})

	m.nodes = f.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "phfwd_trie_nodes",
		Help:        "The number of live trie nodes per tree.",
		ConstLabels: constLabels,
	}, []string{treeLabel})

	m.forwardings = f.NewGauge(prometheus.GaugeOpts{
		Name:        "phfwd_forwardings",
		Help:        "The number of active forwardings.",
		ConstLabels: constLabels,
	})

	m.rollbacks = f.NewCounter(prometheus.CounterOpts{
		Name:        "phfwd_rollbacks_total",
		Help:        "The total number of mutations rolled back after an allocation failure.",
		ConstLabels: constLabels,
	})

	return m
}

//---------------------
// Recording
//---------------------

func (m *Metrics) Op(op, result string) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Nodes(tree string, n int) {
	if m == nil {
		return
	}
	m.nodes.WithLabelValues(tree).Set(float64(n))
}

func (m *Metrics) Forwardings(n int) {
	if m == nil {
		return
	}
	m.forwardings.Set(float64(n))
}

func (m *Metrics) Rollback() {
	if m == nil {
		return
	}
	m.rollbacks.Inc()
}

//---------------------
// Export
//---------------------

// Registry exposes the underlying registry, e.g. for a custom gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Write renders all series in the Prometheus text format.
func (m *Metrics) Write(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
