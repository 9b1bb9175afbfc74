// Package config loads the simulator configuration from a TOML file with
// environment overrides, and validates it by replacing bad values with
// defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/signalsfoundry/saturn-connectors/internal/observability"
	"github.com/signalsfoundry/saturn-connectors/sim"
	"github.com/signalsfoundry/saturn-connectors/timectrl"
)

// Duration is a time.Duration written as a string ("1s", "5m50s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the whole simulator configuration.
type Config struct {
	Simulation Simulation `toml:"simulation"`
	Vehicle    Vehicle    `toml:"vehicle"`
	Logging    Logging    `toml:"logging"`
	Metrics    Metrics    `toml:"metrics"`
	Tracing    Tracing    `toml:"tracing"`
	Replay     Replay     `toml:"replay"`
}

// Simulation is the [simulation] section.
type Simulation struct {
	Start    time.Time `toml:"start"`
	Duration Duration  `toml:"duration"`
	Tick     Duration  `toml:"tick"`
	Mode     string    `toml:"mode"` // realtime | accelerated
	// TLIEnableAt moves the TLI enable switch up this long after start.
	// Zero leaves it down.
	TLIEnableAt Duration `toml:"tli_enable_at"`
	// SeparateAt stages the CSM off this long after start. Zero never
	// separates.
	SeparateAt Duration `toml:"separate_at"`
	// TLIInhibitAt has the AGC raise the TLI inhibit bit on channel 012
	// this long after start. Zero never inhibits.
	TLIInhibitAt Duration `toml:"tli_inhibit_at"`
}

// Vehicle is the [vehicle] section.
type Vehicle struct {
	TLELine1        string   `toml:"tle_line1"`
	TLELine2        string   `toml:"tle_line2"`
	DryMass         float64  `toml:"dry_mass"`
	PropellantMass  float64  `toml:"propellant_mass"`
	J2Thrust        float64  `toml:"j2_thrust"`
	J2Isp           float64  `toml:"j2_isp"`
	VirtualAGC      bool     `toml:"virtual_agc"`
	AutoVent        bool     `toml:"auto_vent"`
	IgnitionDelay   Duration `toml:"ignition_delay"`
	BurnDuration    Duration `toml:"burn_duration"`
	VentRate        float64  `toml:"vent_rate"`
	BatteryCapacity float64  `toml:"battery_capacity"`
	BatteryDrain    float64  `toml:"battery_drain"`
}

// Logging is the [logging] section.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text | json | console
	// Bus logs every delivered round trip at debug level, not only
	// failures.
	Bus bool `toml:"bus"`
}

// Metrics is the [metrics] section. An empty Addr disables the endpoint.
type Metrics struct {
	Addr string `toml:"addr"`
}

// Tracing is the [tracing] section.
type Tracing struct {
	Enabled     bool    `toml:"enabled"`
	Exporter    string  `toml:"exporter"` // stdout | otlp
	Endpoint    string  `toml:"endpoint"`
	ServiceName string  `toml:"service_name"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// Replay is the [replay] section. An empty Path disables the journal.
type Replay struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	stack := sim.DefaultStackConfig()
	return &Config{
		Simulation: Simulation{
			Start:       time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC),
			Duration:    Duration{10 * time.Minute},
			Tick:        Duration{time.Second},
			Mode:        timectrl.Accelerated.String(),
			TLIEnableAt: Duration{30 * time.Second},
			SeparateAt:  Duration{8 * time.Minute},
		},
		Vehicle: Vehicle{
			TLELine1:        stack.Saturn.TLELine1,
			TLELine2:        stack.Saturn.TLELine2,
			DryMass:         stack.Saturn.DryMass,
			PropellantMass:  stack.PropellantMass,
			J2Thrust:        stack.Saturn.J2Thrust,
			J2Isp:           stack.Saturn.J2Isp,
			VirtualAGC:      stack.VirtualAGC,
			AutoVent:        stack.AutoVent,
			IgnitionDelay:   Duration{stack.IU.IgnitionDelay},
			BurnDuration:    Duration{stack.IU.BurnDuration},
			VentRate:        stack.SIVB.VentRate,
			BatteryCapacity: stack.SIVB.BatteryCapacity,
			BatteryDrain:    stack.SIVB.BatteryDrain,
		},
		Logging: Logging{Level: "info", Format: "text"},
		Tracing: tracingSection(observability.DefaultTracingConfig()),
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Keys the file does not know are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: %w: %s", path, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ErrUnknownKeys is returned for configuration keys Load does not know.
var ErrUnknownKeys = errors.New("unknown configuration keys")

// ApplyEnv overrides the configuration with the variables lookup reports
// set. Pass os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("SIM_METRICS_ADDR", &c.Metrics.Addr)
	str("SIM_REPLAY_PATH", &c.Replay.Path)
	c.Tracing = tracingSection(c.TracingConfig().WithEnv(lookup))
}

// TimeMode returns the configured time controller mode.
func (s Simulation) TimeMode() timectrl.Mode {
	if strings.EqualFold(s.Mode, timectrl.RealTime.String()) {
		return timectrl.RealTime
	}
	return timectrl.Accelerated
}

// StackConfig sizes the reference stack from the [vehicle] section.
func (c *Config) StackConfig() sim.StackConfig {
	stack := sim.DefaultStackConfig()
	v := c.Vehicle

	stack.Saturn.TLELine1 = v.TLELine1
	stack.Saturn.TLELine2 = v.TLELine2
	stack.Saturn.DryMass = v.DryMass
	stack.Saturn.J2Thrust = v.J2Thrust
	stack.Saturn.J2Isp = v.J2Isp
	stack.IU.J2Isp = v.J2Isp
	stack.IU.IgnitionDelay = v.IgnitionDelay.Duration
	stack.IU.BurnDuration = v.BurnDuration.Duration
	stack.SIVB.VentRate = v.VentRate
	stack.SIVB.BatteryCapacity = v.BatteryCapacity
	stack.SIVB.BatteryDrain = v.BatteryDrain
	stack.PropellantMass = v.PropellantMass
	stack.VirtualAGC = v.VirtualAGC
	stack.AutoVent = v.AutoVent
	return stack
}

// TracingConfig returns the [tracing] section as an observability config.
func (c *Config) TracingConfig() observability.TracingConfig {
	return observability.TracingConfig{
		Enabled:     c.Tracing.Enabled,
		ServiceName: c.Tracing.ServiceName,
		Exporter:    c.Tracing.Exporter,
		Endpoint:    c.Tracing.Endpoint,
		SampleRatio: c.Tracing.SampleRatio,
	}
}

func tracingSection(tc observability.TracingConfig) Tracing {
	return Tracing{
		Enabled:     tc.Enabled,
		Exporter:    tc.Exporter,
		Endpoint:    tc.Endpoint,
		ServiceName: tc.ServiceName,
		SampleRatio: tc.SampleRatio,
	}
}
