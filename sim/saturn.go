package sim

import (
	"math"
	"time"

	"github.com/signalsfoundry/saturn-connectors/model"
)

// Handles of the bodies known to the reference vehicles.
const (
	EarthHandle model.Handle = 1
)

// Orbiter navmode numbers used by the IU.
const (
	NavmodeKillRot  = 1
	NavmodePrograde = 3
)

const g0 = 9.80665

// Tank is the S-IVB propellant tank. The Saturn stack and the detached
// S-IVB share one tank.
type Tank struct {
	Mass float64
	Max  float64
}

func (t *Tank) draw(kg float64) float64 {
	if kg > t.Mass {
		kg = t.Mass
	}
	t.Mass -= kg
	return kg
}

// SaturnConfig sizes the reference vehicle.
type SaturnConfig struct {
	Stage       model.Stage
	DryMass     float64 // kg, without S-IVB propellant
	J2Thrust    float64 // N
	J2Isp       float64 // s
	APSThrust   float64 // N
	Size        float64 // m
	TLELine1    string
	TLELine2    string
	AttitudeMax float64 // rad/s at full rotation level
}

// DefaultSaturnConfig is a Saturn V S-IVB/CSM stack in a low parking orbit.
func DefaultSaturnConfig() SaturnConfig {
	return SaturnConfig{
		Stage:       model.StageOrbitSIVB,
		DryMass:     45000,
		J2Thrust:    1.0e6,
		J2Isp:       421,
		APSThrust:   3200,
		Size:        40,
		TLELine1:    "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9993",
		TLELine2:    "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257767",
		AttitudeMax: 0.01,
	}
}

// Saturn is the host launch vehicle and command module. It implements
// saturn.LaunchVehicle and saturn.CommandModule.
type Saturn struct {
	cfg   SaturnConfig
	orbit *Orbit
	tank  *Tank

	now      time.Time
	pos, vel model.Vector3
	deltaV   model.Vector3
	attitude float64 // yaw about the local Z axis

	stage     model.Stage
	j2Level   float64
	apsLevel  float64
	j2Enabled bool

	navmodes map[int]bool
	linLevel [3]int
	rotLevel model.Vector3
	s4rcs    bool

	sepSwitch int
	tliSwitch int
	sepLight  bool
	engines   map[int]bool

	slowRequests int
	soundsLoaded bool
	sounds       map[string]int
	playing      map[string]bool
}

// NewSaturn builds a vehicle whose orbit is propagated from the TLE in cfg.
func NewSaturn(cfg SaturnConfig, tank *Tank) (*Saturn, error) {
	orbit, err := NewOrbitFromTLE(cfg.TLELine1, cfg.TLELine2)
	if err != nil {
		return nil, err
	}
	return &Saturn{
		cfg:      cfg,
		orbit:    orbit,
		tank:     tank,
		stage:    cfg.Stage,
		navmodes: make(map[int]bool),
		engines:  make(map[int]bool),
		sounds:   make(map[string]int),
		playing:  make(map[string]bool),
	}, nil
}

// Update propagates the state vector to simTime and applies dt of engine
// and attitude activity.
func (s *Saturn) Update(simTime time.Time, dt time.Duration) {
	s.now = simTime
	sec := dt.Seconds()

	if thrust := s.thrust(); thrust > 0 && sec > 0 {
		m0 := s.Mass()
		burned := s.tank.draw(thrust / (s.cfg.J2Isp * g0) * sec)
		if burned > 0 {
			dv := s.cfg.J2Isp * g0 * math.Log(m0/(m0-burned))
			dir := s.vel.Add(s.deltaV)
			if n := dir.Norm(); n > 0 {
				s.deltaV = s.deltaV.Add(dir.Scale(dv / n))
			}
		}
	}
	s.attitude = wrap(s.attitude + s.rotLevel.Z*s.cfg.AttitudeMax*sec)

	pos, vel := s.orbit.State(simTime)
	s.pos, s.vel = pos, vel.Add(s.deltaV)
}

func (s *Saturn) thrust() float64 {
	if !s.j2Enabled || s.tank.Mass <= 0 {
		return 0
	}
	return s.j2Level * s.cfg.J2Thrust
}

// SetStage changes the stage reported to the IU.
func (s *Saturn) SetStage(stage model.Stage) { s.stage = stage }

// DeltaV returns the magnitude of the velocity added by the J2.
func (s *Saturn) DeltaV() float64 { return s.deltaV.Norm() }

func (s *Saturn) Stage() model.Stage          { return s.stage }
func (s *Saturn) Mass() float64               { return s.cfg.DryMass + s.tank.Mass }
func (s *Saturn) MaxFuelMass() float64        { return s.tank.Max }
func (s *Saturn) SIVBPropellantMass() float64 { return s.tank.Mass }
func (s *Saturn) GravityRef() model.Handle    { return EarthHandle }
func (s *Saturn) Size() float64               { return s.cfg.Size }

func (s *Saturn) Altitude() float64 {
	if s.now.IsZero() {
		return 0
	}
	return Altitude(s.pos, s.now)
}

func (s *Saturn) ApDist() float64 {
	return ApoapsisDistance(ElementsFromState(s.pos, s.vel))
}

func (s *Saturn) Status() model.VesselStatus {
	fuel := 0.0
	if s.tank.Max > 0 {
		fuel = s.tank.Mass / s.tank.Max
	}
	return model.VesselStatus{
		RPos:    s.pos,
		RVel:    s.vel,
		VRot:    model.V(0, 0, s.rotLevel.Z*s.cfg.AttitudeMax),
		ARot:    model.V(0, 0, s.attitude),
		Fuel:    fuel,
		EngMain: s.thrust() / s.cfg.J2Thrust,
		RBody:   EarthHandle,
	}
}

// RelativePos returns the position relative to ref. Only Earth is modelled;
// any other body sits at the origin.
func (s *Saturn) RelativePos(model.Handle) model.Vector3 { return s.pos }

// RelativeVel returns the velocity relative to ref.
func (s *Saturn) RelativeVel(model.Handle) model.Vector3 { return s.vel }

func (s *Saturn) GlobalVel() model.Vector3 { return s.vel }

// Elements returns osculating elements about Earth. The epoch is ignored.
func (s *Saturn) Elements(float64) (model.Elements, model.Handle) {
	return ElementsFromState(s.pos, s.vel), EarthHandle
}

// PMI returns principal moments of inertia per unit mass for a cylinder of
// the vehicle's size.
func (s *Saturn) PMI() model.Vector3 {
	r := 3.3
	l := s.cfg.Size
	lat := (3*r*r + l*l) / 12
	return model.V(lat, lat, r*r/2)
}

func (s *Saturn) RotationMatrix() model.Matrix3 { return model.RotationZ(s.attitude) }

func (s *Saturn) Local2Global(local model.Vector3) model.Vector3 {
	return s.RotationMatrix().MulVec(local).Add(s.pos)
}

// WeightVector returns the gravity force in vehicle coordinates.
func (s *Saturn) WeightVector() (model.Vector3, bool) {
	r := s.pos.Norm()
	if r == 0 {
		return model.Vector3{}, false
	}
	global := s.pos.Scale(-EarthMu * s.Mass() / (r * r * r))
	return s.toLocal(global), true
}

// ForceVector returns the total force (gravity plus J2) in vehicle
// coordinates.
func (s *Saturn) ForceVector() (model.Vector3, bool) {
	w, ok := s.WeightVector()
	if !ok {
		return model.Vector3{}, false
	}
	return w.Add(model.V(0, 0, s.thrust())), true
}

func (s *Saturn) toLocal(v model.Vector3) model.Vector3 {
	m := s.RotationMatrix()
	return model.Vector3{
		X: m[0][0]*v.X + m[1][0]*v.Y + m[2][0]*v.Z,
		Y: m[0][1]*v.X + m[1][1]*v.Y + m[2][1]*v.Z,
		Z: m[0][2]*v.X + m[1][2]*v.Y + m[2][2]*v.Z,
	}
}

func (s *Saturn) J2ThrustLevel() float64 { return s.j2Level }

func (s *Saturn) SetJ2ThrustLevel(level float64) { s.j2Level = clamp(level, 0, 1) }

func (s *Saturn) SetAPSThrustLevel(level float64) { s.apsLevel = clamp(level, 0, 1) }

// APSThrustLevel returns the S-IVB auxiliary propulsion level.
func (s *Saturn) APSThrustLevel() float64 { return s.apsLevel }

func (s *Saturn) MaxThrust(engine model.EngineType) float64 {
	switch engine {
	case model.EngineMain:
		return s.cfg.J2Thrust
	case model.EngineAttitude:
		return s.cfg.APSThrust
	default:
		return 0
	}
}

func (s *Saturn) EnableDisableJ2(enable bool) { s.j2Enabled = enable }

// J2Enabled reports whether the J2 may produce thrust.
func (s *Saturn) J2Enabled() bool { return s.j2Enabled }

func (s *Saturn) ActivateNavmode(mode int)   { s.navmodes[mode] = true }
func (s *Saturn) DeactivateNavmode(mode int) { delete(s.navmodes, mode) }

// Navmode reports whether mode is active.
func (s *Saturn) Navmode(mode int) bool { return s.navmodes[mode] }

// SetAttitudeLinLevel sets the linear thruster level of axis 0..2. Other
// axes are ignored.
func (s *Saturn) SetAttitudeLinLevel(axis, level int) {
	if axis >= 0 && axis < len(s.linLevel) {
		s.linLevel[axis] = level
	}
}

// AttitudeLinLevel returns the linear thruster level of axis.
func (s *Saturn) AttitudeLinLevel(axis int) int {
	if axis >= 0 && axis < len(s.linLevel) {
		return s.linLevel[axis]
	}
	return 0
}

func (s *Saturn) SetAttitudeRotLevel(level model.Vector3) { s.rotLevel = level }

func (s *Saturn) ActivateS4RCS()   { s.s4rcs = true }
func (s *Saturn) DeactivateS4RCS() { s.s4rcs = false }

// S4RCS reports whether the S-IVB RCS is active.
func (s *Saturn) S4RCS() bool { return s.s4rcs }

// Panel switches and cues.

func (s *Saturn) SIISIVBSepSwitchState() int { return s.sepSwitch }
func (s *Saturn) TLIEnableSwitchState() int  { return s.tliSwitch }

// SetSIISIVBSepSwitch moves the SII/SIVB separation switch.
func (s *Saturn) SetSIISIVBSepSwitch(state int) { s.sepSwitch = state }

// SetTLIEnableSwitch moves the TLI enable switch.
func (s *Saturn) SetTLIEnableSwitch(state int) { s.tliSwitch = state }

func (s *Saturn) SetSIISep()   { s.sepLight = true }
func (s *Saturn) ClearSIISep() { s.sepLight = false }

// SIISepLight reports the SII sep light.
func (s *Saturn) SIISepLight() bool { return s.sepLight }

func (s *Saturn) SetEngineIndicator(engine int)   { s.engines[engine] = true }
func (s *Saturn) ClearEngineIndicator(engine int) { delete(s.engines, engine) }

// EngineIndicator reports the light of engine.
func (s *Saturn) EngineIndicator(engine int) bool { return s.engines[engine] }

func (s *Saturn) SlowIfDesired() { s.slowRequests++ }

// SlowRequests counts time-acceleration drop requests.
func (s *Saturn) SlowRequests() int { return s.slowRequests }

// Sound cue names.
const (
	SoundCount    = "count"
	SoundSeco     = "seco"
	SoundSeps     = "seps"
	SoundTLI      = "tli"
	SoundTLIStart = "tli_start"
)

func (s *Saturn) LoadTLISounds() { s.soundsLoaded = true }

func (s *Saturn) PlayCountSound(start bool)    { s.cue(SoundCount, start) }
func (s *Saturn) PlaySecoSound(start bool)     { s.cue(SoundSeco, start) }
func (s *Saturn) PlaySepsSound(start bool)     { s.cue(SoundSeps, start) }
func (s *Saturn) PlayTLISound(start bool)      { s.cue(SoundTLI, start) }
func (s *Saturn) PlayTLIStartSound(start bool) { s.cue(SoundTLIStart, start) }

func (s *Saturn) ClearTLISounds() {
	s.soundsLoaded = false
	clear(s.playing)
}

func (s *Saturn) cue(name string, start bool) {
	if start {
		s.sounds[name]++
	}
	s.playing[name] = start
}

// SoundsLoaded reports whether the TLI sounds are loaded.
func (s *Saturn) SoundsLoaded() bool { return s.soundsLoaded }

// SoundStarts counts the times cue name was started.
func (s *Saturn) SoundStarts(name string) int { return s.sounds[name] }

// SoundPlaying reports whether cue name is playing.
func (s *Saturn) SoundPlaying(name string) bool { return s.playing[name] }
