package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zeusync/simplebt/internal/core/bt"
	"github.com/zeusync/simplebt/internal/core/events/bus"
)

const DefaultNamespace = "simplebt"

// Metrics holds the arena collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Ticks           *prometheus.CounterVec // root result per tree tick
	NodeActivations *prometheus.CounterVec // SetNodeState calls per tree
	BehaviorChanges *prometheus.CounterVec
	UnitsAlive      *prometheus.GaugeVec
	StepDuration    prometheus.Histogram
	BusEvents       *prometheus.CounterVec
}

// New creates and registers every collector under namespace.
func New(namespace string) (*Metrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticks_total",
				Help:      "Tree updates by resulting root state.",
			},
			[]string{"tree", "state"},
		),
		NodeActivations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_activations_total",
				Help:      "Node state stores observed per tree.",
			},
			[]string{"tree"},
		),
		BehaviorChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "behavior_changes_total",
				Help:      "Steering behavior selections by behavior.",
			},
			[]string{"behavior"},
		),
		UnitsAlive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "units_alive",
				Help:      "Units still standing per team.",
			},
			[]string{"team"},
		),
		StepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Wall time of one arena step.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
			},
		),
		BusEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bus_events_total",
				Help:      "Events published on the arena bus by type.",
			},
			[]string{"type"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.Ticks, m.NodeActivations, m.BehaviorChanges, m.UnitsAlive, m.StepDuration, m.BusEvents,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveTick(tree string, state bt.NodeState) {
	m.Ticks.WithLabelValues(tree, state.String()).Inc()
}

func (m *Metrics) ObserveBehavior(behavior string) {
	m.BehaviorChanges.WithLabelValues(behavior).Inc()
}

func (m *Metrics) SetUnitsAlive(team string, n int) {
	m.UnitsAlive.WithLabelValues(team).Set(float64(n))
}

func (m *Metrics) ObserveStep(d time.Duration) {
	m.StepDuration.Observe(d.Seconds())
}

// NodeObserver counts node activations for one tree.
func (m *Metrics) NodeObserver(tree string) bt.Observer {
	c := m.NodeActivations.WithLabelValues(tree)
	return bt.ObserverFunc(func(bt.Node) {
		c.Inc()
	})
}

// BusObserver counts every event published on a bus.
func (m *Metrics) BusObserver() bus.Observer {
	return busObserver{events: m.BusEvents}
}

type busObserver struct {
	events *prometheus.CounterVec
}

func (o busObserver) OnPublish(event bus.Event) {
	o.events.WithLabelValues(event.Type).Inc()
}

func (busObserver) OnDelivered(bus.Event, int, error, time.Duration) {}
