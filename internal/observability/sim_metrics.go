package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SimCollector exposes frame-loop metrics for the simulator.
type SimCollector struct {
	Frames        prometheus.Counter
	FrameDuration prometheus.Histogram
	Stage         prometheus.Gauge
	Separations   prometheus.Counter
}

// NewSimCollector registers simulator metrics against the provided registerer.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	frames, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_frames_total",
		Help: "Number of simulation frames stepped.",
	}), "sim_frames_total")
	if err != nil {
		return nil, err
	}

	frameDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_frame_duration_seconds",
		Help:    "Wall-clock time spent stepping one simulation frame.",
		Buckets: []float64{1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 0.01, 0.05, 0.1},
	}), "sim_frame_duration_seconds")
	if err != nil {
		return nil, err
	}

	stage, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_vehicle_stage",
		Help: "Current launch vehicle stage index.",
	}), "sim_vehicle_stage")
	if err != nil {
		return nil, err
	}

	separations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_separations_total",
		Help: "Number of staging separations performed.",
	}), "sim_separations_total")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		Frames:        frames,
		FrameDuration: frameDuration,
		Stage:         stage,
		Separations:   separations,
	}, nil
}

// ObserveFrame records one stepped frame and the vehicle stage after it.
func (c *SimCollector) ObserveFrame(d time.Duration, stage int) {
	if c == nil {
		return
	}
	if c.Frames != nil {
		c.Frames.Inc()
	}
	if c.FrameDuration != nil {
		c.FrameDuration.Observe(d.Seconds())
	}
	if c.Stage != nil {
		c.Stage.Set(float64(stage))
	}
}

// IncSeparations counts a staging separation.
func (c *SimCollector) IncSeparations() {
	if c == nil || c.Separations == nil {
		return
	}
	c.Separations.Inc()
}
