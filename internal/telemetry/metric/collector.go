package metric

import "github.com/prometheus/client_golang/prometheus"

// StateFunc reports the current session state name.
type StateFunc func() string

// StateCollector exposes pocket_session_state{state} as a one-hot gauge.
type StateCollector struct {
	desc   *prometheus.Desc
	states []string
	fn     StateFunc
}

// NewStateCollector creates a collector over the given state names.
func NewStateCollector(states []string, fn StateFunc) *StateCollector {
	return &StateCollector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "state"),
			"Current session state (1 for the active state).",
			[]string{"state"}, nil,
		),
		states: states,
		fn:     fn,
	}
}

// Describe implements prometheus.Collector.
func (c *StateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *StateCollector) Collect(ch chan<- prometheus.Metric) {
	current := c.fn()
	for _, s := range c.states {
		v := 0.0
		if s == current {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, v, s)
	}
}
