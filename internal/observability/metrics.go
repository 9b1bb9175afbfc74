package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/saturn-connectors/connector"
)

// BusCollector bundles Prometheus metrics for connector traffic. It
// implements connector.Observer so it can be attached to a registry.
type BusCollector struct {
	gatherer prometheus.Gatherer

	Messages   *prometheus.CounterVec
	RoundTrips *prometheus.HistogramVec
	Topology   *prometheus.CounterVec

	ChannelsConnected prometheus.Gauge
}

// NewBusCollector registers bus Prometheus metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewBusCollector(reg prometheus.Registerer) (*BusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "connector_messages_total",
		Help: "Total number of routed connector messages, labeled by channel, message name, and outcome.",
	}, []string{"channel", "message", "outcome"})
	messages, err := registerCounterVec(reg, messages, "connector_messages_total")
	if err != nil {
		return nil, err
	}

	roundTrips := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "connector_round_trip_seconds",
		Help:    "Connector round trip latency in seconds.",
		Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 0.01},
	}, []string{"channel"})
	roundTrips, err = registerHistogramVec(reg, roundTrips, "connector_round_trip_seconds")
	if err != nil {
		return nil, err
	}

	topology := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "connector_topology_events_total",
		Help: "Channel topology changes, labeled by channel and event.",
	}, []string{"channel", "event"})
	topology, err = registerCounterVec(reg, topology, "connector_topology_events_total")
	if err != nil {
		return nil, err
	}

	connected, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "connector_channels_connected",
		Help: "Current number of paired connector channels.",
	}), "connector_channels_connected")
	if err != nil {
		return nil, err
	}

	return &BusCollector{
		gatherer:          gatherer,
		Messages:          messages,
		RoundTrips:        roundTrips,
		Topology:          topology,
		ChannelsConnected: connected,
	}, nil
}

// Observe records one round trip.
func (c *BusCollector) Observe(ev connector.Event) {
	if c == nil {
		return
	}
	channel := ev.Channel.String()
	if c.Messages != nil {
		c.Messages.WithLabelValues(channel, ev.Name, ev.Outcome.String()).Inc()
	}
	if c.RoundTrips != nil {
		c.RoundTrips.WithLabelValues(channel).Observe(ev.Duration.Seconds())
	}
}

// RecordTopology counts a topology change and updates the connected gauge.
func (c *BusCollector) RecordTopology(channel, event string, connected int) {
	if c == nil {
		return
	}
	if c.Topology != nil {
		c.Topology.WithLabelValues(channel, event).Inc()
	}
	if c.ChannelsConnected != nil {
		c.ChannelsConnected.Set(float64(connected))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *BusCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
