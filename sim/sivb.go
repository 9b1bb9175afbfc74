package sim

import "time"

// SIVBConfig sizes the stage's venting and main battery.
type SIVBConfig struct {
	VentRate        float64 // kg/s
	BatteryCapacity float64 // J
	BatteryDrain    float64 // W
	BatteryVoltage  float64 // V, fully charged
}

// DefaultSIVBConfig returns S-IVB figures rounded from the flight vehicle.
func DefaultSIVBConfig() SIVBConfig {
	return SIVBConfig{
		VentRate:        150,
		BatteryCapacity: 1.2e8,
		BatteryDrain:    2500,
		BatteryVoltage:  28,
	}
}

// SIVB is the S-IVB stage. It implements sivb.Stage.
type SIVB struct {
	cfg     SIVBConfig
	tank    *Tank
	venting bool
	charge  float64
}

// NewSIVB returns a stage drawing propellant from tank.
func NewSIVB(cfg SIVBConfig, tank *Tank) *SIVB {
	return &SIVB{cfg: cfg, tank: tank, charge: cfg.BatteryCapacity}
}

// Update applies dt of venting and battery drain.
func (s *SIVB) Update(dt time.Duration) {
	sec := dt.Seconds()
	if s.venting {
		s.tank.draw(s.cfg.VentRate * sec)
		if s.tank.Mass <= 0 {
			s.venting = false
		}
	}
	s.charge = max(0, s.charge-s.cfg.BatteryDrain*sec)
}

func (s *SIVB) IsVentable() bool  { return s.tank.Mass > 0 }
func (s *SIVB) IsVenting() bool   { return s.venting }
func (s *SIVB) FuelMass() float64 { return s.tank.Mass }

// MainBatteryPower returns the remaining capacity (J) and drain (W).
func (s *SIVB) MainBatteryPower() (capacity, drain float64) {
	if s.charge <= 0 {
		return 0, 0
	}
	return s.charge, s.cfg.BatteryDrain
}

// MainBatteryElectrics returns bus voltage and current. The voltage sags
// linearly to 90% as the battery discharges.
func (s *SIVB) MainBatteryElectrics() (volts, current float64) {
	if s.charge <= 0 || s.cfg.BatteryCapacity <= 0 {
		return 0, 0
	}
	volts = s.cfg.BatteryVoltage * (0.9 + 0.1*s.charge/s.cfg.BatteryCapacity)
	return volts, s.cfg.BatteryDrain / volts
}

func (s *SIVB) StartVenting() {
	if s.IsVentable() {
		s.venting = true
	}
}

func (s *SIVB) StopVenting() { s.venting = false }
