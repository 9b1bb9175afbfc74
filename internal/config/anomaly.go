package config

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/signalsfoundry/saturn-connectors/internal/logging"
)

// Anomaly is a configuration value that was replaced by a fallback.
type Anomaly struct {
	Field    string
	Reason   string
	Actual   any
	Fallback any
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s %s: got %v, using %v", a.Field, a.Reason, a.Actual, a.Fallback)
}

// AnomalyCollector collects the anomalies found while validating.
type AnomalyCollector struct {
	anomalies []Anomaly
}

func (ac *AnomalyCollector) add(field, reason string, actual, fallback any) {
	ac.anomalies = append(ac.anomalies, Anomaly{
		Field:    field,
		Reason:   reason,
		Actual:   actual,
		Fallback: fallback,
	})
}

// All iterates over the collected anomalies.
func (ac *AnomalyCollector) All() iter.Seq[Anomaly] {
	return slices.Values(ac.anomalies)
}

// Len returns the number of anomalies.
func (ac *AnomalyCollector) Len() int { return len(ac.anomalies) }

type ordered interface {
	~int | ~int64 | ~float64
}

// checkPositive replaces values <= 0 with fallback.
func checkPositive[T ordered](ac *AnomalyCollector, field string, actual *T, fallback T) {
	if val := *actual; val <= 0 {
		ac.add(field, "must be positive", val, fallback)
		*actual = fallback
	}
}

// checkNotNegative replaces negative values with fallback.
func checkNotNegative[T ordered](ac *AnomalyCollector, field string, actual *T, fallback T) {
	if val := *actual; val < 0 {
		ac.add(field, "cannot be negative", val, fallback)
		*actual = fallback
	}
}

// checkRange replaces values outside [lo, hi] with fallback.
func checkRange[T ordered](ac *AnomalyCollector, field string, actual *T, lo, hi, fallback T) {
	if val := *actual; val < lo || val > hi {
		ac.add(field, fmt.Sprintf("must be within [%v, %v]", lo, hi), val, fallback)
		*actual = fallback
	}
}

// checkOneOf replaces values not in allowed with fallback.
func checkOneOf(ac *AnomalyCollector, field string, actual *string, allowed []string, fallback string) {
	if !slices.Contains(allowed, *actual) {
		ac.add(field, fmt.Sprintf("must be one of %v", allowed), *actual, fallback)
		*actual = fallback
	}
}

// checkNotEmpty replaces an empty string with fallback.
func checkNotEmpty(ac *AnomalyCollector, field string, actual *string, fallback string) {
	if *actual == "" {
		ac.add(field, "cannot be empty", *actual, fallback)
		*actual = fallback
	}
}

// Validate checks every section, replacing bad values by their defaults.
func (c *Config) Validate(ac *AnomalyCollector) {
	def := Default()

	s := &c.Simulation
	if s.Start.IsZero() {
		ac.add("simulation.start", "cannot be empty", s.Start, def.Simulation.Start)
		s.Start = def.Simulation.Start
	}
	checkNotNegative(ac, "simulation.duration", &s.Duration.Duration, def.Simulation.Duration.Duration)
	checkPositive(ac, "simulation.tick", &s.Tick.Duration, def.Simulation.Tick.Duration)
	checkOneOf(ac, "simulation.mode", &s.Mode, []string{"realtime", "accelerated"}, def.Simulation.Mode)
	checkNotNegative(ac, "simulation.tli_enable_at", &s.TLIEnableAt.Duration, 0)
	checkNotNegative(ac, "simulation.separate_at", &s.SeparateAt.Duration, 0)
	checkNotNegative(ac, "simulation.tli_inhibit_at", &s.TLIInhibitAt.Duration, 0)

	v := &c.Vehicle
	checkNotEmpty(ac, "vehicle.tle_line1", &v.TLELine1, def.Vehicle.TLELine1)
	checkNotEmpty(ac, "vehicle.tle_line2", &v.TLELine2, def.Vehicle.TLELine2)
	checkPositive(ac, "vehicle.dry_mass", &v.DryMass, def.Vehicle.DryMass)
	checkNotNegative(ac, "vehicle.propellant_mass", &v.PropellantMass, def.Vehicle.PropellantMass)
	checkPositive(ac, "vehicle.j2_thrust", &v.J2Thrust, def.Vehicle.J2Thrust)
	checkPositive(ac, "vehicle.j2_isp", &v.J2Isp, def.Vehicle.J2Isp)
	checkNotNegative(ac, "vehicle.ignition_delay", &v.IgnitionDelay.Duration, def.Vehicle.IgnitionDelay.Duration)
	checkPositive(ac, "vehicle.burn_duration", &v.BurnDuration.Duration, def.Vehicle.BurnDuration.Duration)
	checkNotNegative(ac, "vehicle.vent_rate", &v.VentRate, def.Vehicle.VentRate)
	checkNotNegative(ac, "vehicle.battery_capacity", &v.BatteryCapacity, def.Vehicle.BatteryCapacity)
	checkNotNegative(ac, "vehicle.battery_drain", &v.BatteryDrain, def.Vehicle.BatteryDrain)

	checkOneOf(ac, "logging.level", &c.Logging.Level, []string{"debug", "info", "warn", "warning", "error"}, def.Logging.Level)
	checkOneOf(ac, "logging.format", &c.Logging.Format, []string{"text", "json", "console"}, def.Logging.Format)

	checkOneOf(ac, "tracing.exporter", &c.Tracing.Exporter, []string{"stdout", "otlp"}, def.Tracing.Exporter)
	checkNotEmpty(ac, "tracing.service_name", &c.Tracing.ServiceName, def.Tracing.ServiceName)
	checkRange(ac, "tracing.sample_ratio", &c.Tracing.SampleRatio, 0, 1, def.Tracing.SampleRatio)
}

// Validator validates configurations and logs what it had to replace.
type Validator struct {
	log logging.Logger
}

// NewValidator returns a validator logging to log. A nil log uses the
// logger carried by the context passed to Validate.
func NewValidator(log logging.Logger) *Validator {
	return &Validator{log: log}
}

// Validate fixes cfg in place and returns the anomalies found.
func (v *Validator) Validate(ctx context.Context, cfg *Config) []Anomaly {
	ac := &AnomalyCollector{}
	cfg.Validate(ac)

	log := v.log
	if log == nil {
		log = logging.FromContext(ctx)
	}
	for an := range ac.All() {
		log.Warn(ctx, "config anomaly",
			logging.String("field", an.Field),
			logging.String("reason", an.Reason),
			logging.Any("actual", an.Actual),
			logging.Any("fallback", an.Fallback),
		)
	}
	return slices.Collect(ac.All())
}
