package sim

import (
	"testing"
	"time"

	"github.com/signalsfoundry/saturn-connectors/model"
)

func newTestSaturn(t *testing.T) (*Saturn, *Tank) {
	t.Helper()
	tank := &Tank{Mass: 1000, Max: 1000}
	s, err := NewSaturn(DefaultSaturnConfig(), tank)
	if err != nil {
		t.Fatalf("NewSaturn: %v", err)
	}
	return s, tank
}

func TestSaturnMassTracksTank(t *testing.T) {
	s, tank := newTestSaturn(t)
	if got := s.Mass(); got != 46000 {
		t.Fatalf("Mass = %v, want 46000", got)
	}
	tank.Mass = 0
	if got := s.Mass(); got != 45000 {
		t.Fatalf("Mass with empty tank = %v, want 45000", got)
	}
	if s.MaxFuelMass() != 1000 || s.SIVBPropellantMass() != 0 {
		t.Fatalf("MaxFuelMass = %v SIVBPropellantMass = %v", s.MaxFuelMass(), s.SIVBPropellantMass())
	}
}

func TestSaturnAltitudeBeforeFirstUpdate(t *testing.T) {
	s, _ := newTestSaturn(t)
	if got := s.Altitude(); got != 0 {
		t.Fatalf("Altitude before Update = %v, want 0", got)
	}
}

func TestSaturnBurnConsumesPropellant(t *testing.T) {
	s, tank := newTestSaturn(t)
	s.Update(epoch, 0)
	ap0 := s.ApDist()

	s.EnableDisableJ2(true)
	s.SetJ2ThrustLevel(2)
	if got := s.J2ThrustLevel(); got != 1 {
		t.Fatalf("J2ThrustLevel = %v, want clamped to 1", got)
	}
	if got := s.Status().EngMain; got != 1 {
		t.Fatalf("Status EngMain = %v, want 1", got)
	}

	s.Update(epoch.Add(time.Second), time.Second)
	if tank.Mass >= 1000 {
		t.Fatalf("tank mass = %v, want propellant drawn", tank.Mass)
	}
	if s.DeltaV() <= 0 {
		t.Fatalf("DeltaV = %v, want > 0", s.DeltaV())
	}
	if s.ApDist() <= ap0 {
		t.Fatalf("ApDist = %v, want above %v after a prograde burn", s.ApDist(), ap0)
	}

	for i := 2; tank.Mass > 0 && i < 100; i++ {
		s.Update(epoch.Add(time.Duration(i)*time.Second), time.Second)
	}
	if tank.Mass != 0 {
		t.Fatalf("tank mass = %v, want burned dry", tank.Mass)
	}
	f, _ := s.ForceVector()
	w, _ := s.WeightVector()
	if f != w {
		t.Fatalf("ForceVector = %v, want weight %v with a dry tank", f, w)
	}
}

func TestSaturnDisabledJ2ProducesNoThrust(t *testing.T) {
	s, tank := newTestSaturn(t)
	s.SetJ2ThrustLevel(1)
	s.Update(epoch, time.Second)
	if tank.Mass != 1000 || s.DeltaV() != 0 {
		t.Fatalf("tank = %v deltaV = %v, want untouched with J2 disabled", tank.Mass, s.DeltaV())
	}
}

func TestSaturnFrames(t *testing.T) {
	s, _ := newTestSaturn(t)
	s.Update(epoch, 0)

	if got := s.Local2Global(model.Vector3{}); got != s.RelativePos(EarthHandle) {
		t.Fatalf("Local2Global(0) = %v, want position %v", got, s.RelativePos(EarthHandle))
	}
	if s.GlobalVel() != s.RelativeVel(EarthHandle) {
		t.Fatalf("GlobalVel != RelativeVel(Earth)")
	}

	w, ok := s.WeightVector()
	if !ok {
		t.Fatalf("WeightVector reported no gravity")
	}
	r := s.RelativePos(EarthHandle).Norm()
	if want := EarthMu * s.Mass() / (r * r); !approx(w.Norm(), want, want*1e-9) {
		t.Fatalf("|weight| = %v, want %v", w.Norm(), want)
	}

	el, ref := s.Elements(MJD(epoch))
	if ref != EarthHandle || el.SemiMajorAxis <= EarthRadius {
		t.Fatalf("Elements = %+v ref %v", el, ref)
	}
}

func TestSaturnAttitudeRotation(t *testing.T) {
	s, _ := newTestSaturn(t)
	s.SetAttitudeRotLevel(model.V(0, 0, 1))
	s.Update(epoch, 10*time.Second)

	if got := s.Status().ARot.Z; !approx(got, 0.1, 1e-12) {
		t.Fatalf("yaw = %v, want 0.1 rad", got)
	}
	if want := model.RotationZ(s.Status().ARot.Z); s.RotationMatrix() != want {
		t.Fatalf("RotationMatrix = %v, want %v", s.RotationMatrix(), want)
	}

	// The weight vector keeps its magnitude in the rotated frame.
	w, _ := s.WeightVector()
	r := s.RelativePos(EarthHandle).Norm()
	if want := EarthMu * s.Mass() / (r * r); !approx(w.Norm(), want, want*1e-9) {
		t.Fatalf("|weight| rotated = %v, want %v", w.Norm(), want)
	}
}

func TestSaturnThrustersAndNavigation(t *testing.T) {
	s, _ := newTestSaturn(t)

	if s.MaxThrust(model.EngineMain) != 1.0e6 || s.MaxThrust(model.EngineAttitude) != 3200 || s.MaxThrust(model.EngineHover) != 0 {
		t.Fatalf("MaxThrust main/attitude/hover = %v/%v/%v",
			s.MaxThrust(model.EngineMain), s.MaxThrust(model.EngineAttitude), s.MaxThrust(model.EngineHover))
	}

	s.SetAPSThrustLevel(-1)
	if s.APSThrustLevel() != 0 {
		t.Fatalf("APSThrustLevel = %v, want clamped to 0", s.APSThrustLevel())
	}

	s.SetAttitudeLinLevel(2, -1)
	s.SetAttitudeLinLevel(7, 1)
	if s.AttitudeLinLevel(2) != -1 || s.AttitudeLinLevel(7) != 0 {
		t.Fatalf("AttitudeLinLevel(2) = %d (7) = %d", s.AttitudeLinLevel(2), s.AttitudeLinLevel(7))
	}

	s.ActivateNavmode(NavmodePrograde)
	s.ActivateS4RCS()
	if !s.Navmode(NavmodePrograde) || !s.S4RCS() {
		t.Fatalf("navmode/S4RCS not active")
	}
	s.DeactivateNavmode(NavmodePrograde)
	s.DeactivateS4RCS()
	if s.Navmode(NavmodePrograde) || s.S4RCS() {
		t.Fatalf("navmode/S4RCS still active")
	}
}

func TestSaturnPanelCues(t *testing.T) {
	s, _ := newTestSaturn(t)

	s.LoadTLISounds()
	s.PlayCountSound(true)
	s.PlayCountSound(false)
	s.PlayCountSound(true)
	if !s.SoundsLoaded() || s.SoundStarts(SoundCount) != 2 || !s.SoundPlaying(SoundCount) {
		t.Fatalf("count cue loaded=%v starts=%d playing=%v", s.SoundsLoaded(), s.SoundStarts(SoundCount), s.SoundPlaying(SoundCount))
	}
	s.ClearTLISounds()
	if s.SoundsLoaded() || s.SoundPlaying(SoundCount) {
		t.Fatalf("ClearTLISounds left cues active")
	}
	if s.SoundStarts(SoundCount) != 2 {
		t.Fatalf("ClearTLISounds reset the start counter")
	}

	s.SetEngineIndicator(3)
	s.SetSIISep()
	if !s.EngineIndicator(3) || !s.SIISepLight() {
		t.Fatalf("indicator lights not set")
	}
	s.ClearEngineIndicator(3)
	s.ClearSIISep()
	if s.EngineIndicator(3) || s.SIISepLight() {
		t.Fatalf("indicator lights not cleared")
	}

	s.SetTLIEnableSwitch(SwitchUp)
	s.SetSIISIVBSepSwitch(SwitchUp)
	if s.TLIEnableSwitchState() != SwitchUp || s.SIISIVBSepSwitchState() != SwitchUp {
		t.Fatalf("switch states not reported")
	}
}

func TestSIVBVentingAndBattery(t *testing.T) {
	tank := &Tank{Mass: 300, Max: 300}
	cfg := DefaultSIVBConfig()
	cfg.BatteryCapacity = 5000
	cfg.BatteryDrain = 1000
	s := NewSIVB(cfg, tank)

	if v, _ := s.MainBatteryElectrics(); v != 28 {
		t.Fatalf("volts = %v, want 28 when charged", v)
	}

	s.StartVenting()
	s.Update(time.Second)
	if !s.IsVenting() || s.FuelMass() != 150 {
		t.Fatalf("venting = %v fuel = %v, want venting at 150", s.IsVenting(), s.FuelMass())
	}
	if capacity, drain := s.MainBatteryPower(); capacity != 4000 || drain != 1000 {
		t.Fatalf("MainBatteryPower = %v, %v", capacity, drain)
	}
	volts, current := s.MainBatteryElectrics()
	if !approx(volts, 28*0.98, 1e-9) || !approx(current, 1000/volts, 1e-9) {
		t.Fatalf("MainBatteryElectrics = %v V %v A", volts, current)
	}

	s.Update(2 * time.Second)
	if s.IsVenting() || s.IsVentable() || s.FuelMass() != 0 {
		t.Fatalf("venting = %v ventable = %v fuel = %v, want stopped empty", s.IsVenting(), s.IsVentable(), s.FuelMass())
	}
	s.StartVenting()
	if s.IsVenting() {
		t.Fatalf("empty stage started venting")
	}

	s.Update(10 * time.Second)
	if c, d := s.MainBatteryPower(); c != 0 || d != 0 {
		t.Fatalf("flat battery power = %v, %v, want 0, 0", c, d)
	}
	if v, a := s.MainBatteryElectrics(); v != 0 || a != 0 {
		t.Fatalf("flat battery electrics = %v, %v, want 0, 0", v, a)
	}
}

func TestAGCChannels(t *testing.T) {
	a := NewAGC(true)
	if !a.IsVirtualAGC() {
		t.Fatalf("IsVirtualAGC = false")
	}
	if a.WriteChannel(ChannelIU, 1) {
		t.Fatalf("WriteChannel without an IU reported delivery")
	}
	a.SetOutputChannel(ChannelTLIMode, 2)
	if v, ok := a.Channel(ChannelTLIMode); !ok || v != 2 {
		t.Fatalf("Channel = %v, %v, want 2", v, ok)
	}
	if _, ok := a.Channel(077); ok {
		t.Fatalf("unwritten channel reported")
	}
}

func TestTLIPhaseString(t *testing.T) {
	for phase, want := range map[TLIPhase]string{
		TLIIdle: "idle", TLIIgnition: "ignition", TLIBurn: "burn", TLICutoff: "cutoff", TLIPhase(9): "unknown",
	} {
		if got := phase.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", int(phase), got, want)
		}
	}
}
