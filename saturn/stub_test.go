package saturn

import (
	"fmt"

	"github.com/signalsfoundry/saturn-connectors/model"
)

// stubLV returns fixed values and records every call.
type stubLV struct {
	calls []string

	stage   model.Stage
	status  model.VesselStatus
	rot     model.Matrix3
	weight  bool
	lastRot model.Vector3
}

func newStubLV() *stubLV {
	return &stubLV{
		stage:  model.LaunchStageSIVB,
		status: model.VesselStatus{RPos: model.V(1, 2, 3), Fuel: 0.5, Status: 1},
		rot:    model.RotationZ(0.5),
		weight: true,
	}
}

func (s *stubLV) record(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *stubLV) Stage() model.Stage          { return s.stage }
func (s *stubLV) Altitude() float64           { return 185000 }
func (s *stubLV) Mass() float64               { return 140000 }
func (s *stubLV) MaxFuelMass() float64        { return 107000 }
func (s *stubLV) SIVBPropellantMass() float64 { return 72000 }
func (s *stubLV) GravityRef() model.Handle    { return 3 }
func (s *stubLV) ApDist() float64             { return 6.56e6 }
func (s *stubLV) Size() float64               { return 40 }
func (s *stubLV) Status() model.VesselStatus  { return s.status }

func (s *stubLV) RelativePos(ref model.Handle) model.Vector3 {
	return model.V(float64(ref), 0, 1)
}

func (s *stubLV) RelativeVel(ref model.Handle) model.Vector3 {
	return model.V(0, float64(ref), 2)
}

func (s *stubLV) GlobalVel() model.Vector3 { return model.V(7800, 0, 0) }

func (s *stubLV) Elements(mjd float64) (model.Elements, model.Handle) {
	return model.Elements{SemiMajorAxis: 6.56e6, MeanLongitude: mjd}, 3
}

func (s *stubLV) PMI() model.Vector3 { return model.V(10, 20, 30) }

func (s *stubLV) Local2Global(local model.Vector3) model.Vector3 {
	return local.Add(model.V(100, 100, 100))
}

func (s *stubLV) WeightVector() (model.Vector3, bool) { return model.V(0, -9.8, 0), s.weight }
func (s *stubLV) ForceVector() (model.Vector3, bool)  { return model.V(1, 1, 1), false }
func (s *stubLV) RotationMatrix() model.Matrix3       { return s.rot }

func (s *stubLV) J2ThrustLevel() float64                    { return 0.75 }
func (s *stubLV) SetJ2ThrustLevel(level float64)            { s.record("SetJ2ThrustLevel(%g)", level) }
func (s *stubLV) SetAPSThrustLevel(level float64)           { s.record("SetAPSThrustLevel(%g)", level) }
func (s *stubLV) MaxThrust(engine model.EngineType) float64 { return 1000 * float64(engine+1) }
func (s *stubLV) EnableDisableJ2(enable bool)               { s.record("EnableDisableJ2(%t)", enable) }

func (s *stubLV) ActivateNavmode(mode int)            { s.record("ActivateNavmode(%d)", mode) }
func (s *stubLV) DeactivateNavmode(mode int)          { s.record("DeactivateNavmode(%d)", mode) }
func (s *stubLV) SetAttitudeLinLevel(axis, level int) { s.record("SetAttitudeLinLevel(%d,%d)", axis, level) }
func (s *stubLV) ActivateS4RCS()                      { s.record("ActivateS4RCS") }
func (s *stubLV) DeactivateS4RCS()                    { s.record("DeactivateS4RCS") }

func (s *stubLV) SetAttitudeRotLevel(level model.Vector3) {
	s.lastRot = level
	s.record("SetAttitudeRotLevel")
}

// stubCSM records panel and sound calls.
type stubCSM struct {
	calls []string

	sepSwitch int
	tliSwitch int
}

func (s *stubCSM) record(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *stubCSM) SIISIVBSepSwitchState() int { return s.sepSwitch }
func (s *stubCSM) TLIEnableSwitchState() int  { return s.tliSwitch }

func (s *stubCSM) SetSIISep()                      { s.record("SetSIISep") }
func (s *stubCSM) ClearSIISep()                    { s.record("ClearSIISep") }
func (s *stubCSM) SetEngineIndicator(engine int)   { s.record("SetEngineIndicator(%d)", engine) }
func (s *stubCSM) ClearEngineIndicator(engine int) { s.record("ClearEngineIndicator(%d)", engine) }
func (s *stubCSM) SlowIfDesired()                  { s.record("SlowIfDesired") }
func (s *stubCSM) LoadTLISounds()                  { s.record("LoadTLISounds") }
func (s *stubCSM) PlayCountSound(start bool)       { s.record("PlayCountSound(%t)", start) }
func (s *stubCSM) PlaySecoSound(start bool)        { s.record("PlaySecoSound(%t)", start) }
func (s *stubCSM) PlaySepsSound(start bool)        { s.record("PlaySepsSound(%t)", start) }
func (s *stubCSM) PlayTLISound(start bool)         { s.record("PlayTLISound(%t)", start) }
func (s *stubCSM) PlayTLIStartSound(start bool)    { s.record("PlayTLIStartSound(%t)", start) }
func (s *stubCSM) ClearTLISounds()                 { s.record("ClearTLISounds") }

type stubAGC struct {
	virtual bool
	outputs map[int]int
}

func (a *stubAGC) IsVirtualAGC() bool { return a.virtual }

func (a *stubAGC) SetOutputChannel(channel, value int) {
	if a.outputs == nil {
		a.outputs = make(map[int]int)
	}
	a.outputs[channel] = value
}
