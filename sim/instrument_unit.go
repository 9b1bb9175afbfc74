package sim

import (
	"context"
	"time"

	"github.com/signalsfoundry/saturn-connectors/internal/logging"
	"github.com/signalsfoundry/saturn-connectors/iu"
	"github.com/signalsfoundry/saturn-connectors/model"
)

// Switch positions read from the CSM panel.
const (
	SwitchDown = 0
	SwitchUp   = 1
)

// AGC output channel used to talk to the IU, and the bit that inhibits TLI.
const (
	ChannelIU      = 012
	TLIInhibitBit  = 1 << 13
	ChannelTLIMode = 033
)

// EngineJ2 is the engine indicator lit while the J2 burns.
const EngineJ2 = 1

// TLIPhase is a state of the IU's TLI sequencer.
type TLIPhase int

const (
	TLIIdle TLIPhase = iota
	TLIIgnition
	TLIBurn
	TLICutoff
)

func (p TLIPhase) String() string {
	switch p {
	case TLIIdle:
		return "idle"
	case TLIIgnition:
		return "ignition"
	case TLIBurn:
		return "burn"
	case TLICutoff:
		return "cutoff"
	default:
		return "unknown"
	}
}

// IUConfig times the TLI sequence.
type IUConfig struct {
	IgnitionDelay time.Duration
	BurnDuration  time.Duration
	J2Isp         float64 // s
}

// DefaultIUConfig returns a 10 s countdown and a 5m50s burn.
func DefaultIUConfig() IUConfig {
	return IUConfig{
		IgnitionDelay: 10 * time.Second,
		BurnDuration:  5*time.Minute + 50*time.Second,
		J2Isp:         421,
	}
}

// Telemetry is the IU's last view of the launch vehicle.
type Telemetry struct {
	Stage    model.Stage
	Altitude float64
	ApDist   float64
	Mass     float64
	Status   model.VesselStatus
	Elements model.Elements
	Ref      model.Handle
}

// InstrumentUnit guides the launch vehicle over LV_IU_COMMAND and drives the
// CSM panel over CSM_IU_COMMAND. It implements iu.InstrumentUnit.
type InstrumentUnit struct {
	cfg IUConfig
	lv  *iu.IUToLVCommandConnector
	csm *iu.IUToCSMCommandConnector
	log logging.Logger

	phase      TLIPhase
	remaining  time.Duration
	outputs    map[int]int
	agcChecked bool
	virtualAGC bool
	telemetry  Telemetry
}

// NewInstrumentUnit returns an IU talking through lv and csm.
func NewInstrumentUnit(cfg IUConfig, lv *iu.IUToLVCommandConnector, csm *iu.IUToCSMCommandConnector, log logging.Logger) *InstrumentUnit {
	if log == nil {
		log = logging.Noop()
	}
	return &InstrumentUnit{
		cfg:     cfg,
		lv:      lv,
		csm:     csm,
		log:     log,
		outputs: make(map[int]int),
	}
}

// Phase returns the TLI sequencer state.
func (u *InstrumentUnit) Phase() TLIPhase { return u.phase }

// Telemetry returns the vehicle state read on the last frame.
func (u *InstrumentUnit) Telemetry() Telemetry { return u.telemetry }

// IsTLICapable reports whether a TLI can still be started.
func (u *InstrumentUnit) IsTLICapable() bool {
	if u.phase != TLIIdle || u.inhibited() {
		return false
	}
	switch u.lv.Stage() {
	case model.LaunchStageSIVB, model.StageOrbitSIVB:
		return true
	default:
		return false
	}
}

// VesselStats returns the J2's exhaust velocity (m/s) and thrust (N).
func (u *InstrumentUnit) VesselStats() (isp, thrust float64) {
	return u.cfg.J2Isp * g0, u.lv.MaxThrust(model.EngineMain)
}

func (u *InstrumentUnit) VesselMass() float64 { return u.lv.Mass() }
func (u *InstrumentUnit) VesselFuel() float64 { return u.lv.PropellantMass() }

// ChannelOutput records an AGC output channel write.
func (u *InstrumentUnit) ChannelOutput(channel, value int) { u.outputs[channel] = value }

func (u *InstrumentUnit) inhibited() bool {
	return u.outputs[ChannelIU]&TLIInhibitBit != 0
}

// Step reads the vehicle and advances the TLI sequencer by dt.
func (u *InstrumentUnit) Step(simTime time.Time, dt time.Duration) {
	prev := u.telemetry.Stage
	u.readTelemetry(simTime)
	if !u.agcChecked {
		u.virtualAGC = u.csm.IsVirtualAGC()
		u.agcChecked = true
	}
	u.staging(prev)

	switch u.phase {
	case TLIIdle:
		if u.csm.TLIEnableSwitchState() == SwitchUp && u.IsTLICapable() {
			u.csm.LoadTLISounds()
			u.csm.PlayCountSound(true)
			u.csm.SlowIfDesired()
			u.lv.ActivateNavmode(NavmodePrograde)
			u.lv.ActivateS4RCS()
			u.remaining = u.cfg.IgnitionDelay
			u.enter(TLIIgnition)
		}
	case TLIIgnition:
		if u.csm.TLIEnableSwitchState() != SwitchUp || u.inhibited() {
			u.csm.PlayCountSound(false)
			u.csm.ClearTLISounds()
			u.lv.DeactivateNavmode(NavmodePrograde)
			u.lv.DeactivateS4RCS()
			u.enter(TLIIdle)
			return
		}
		u.remaining -= dt
		if u.remaining <= 0 {
			u.csm.PlayCountSound(false)
			u.csm.PlayTLIStartSound(true)
			u.lv.EnableDisableJ2(true)
			u.lv.SetJ2ThrustLevel(1)
			u.csm.SetEngineIndicator(EngineJ2, true)
			u.csm.PlayTLISound(true)
			u.remaining = u.cfg.BurnDuration
			u.enter(TLIBurn)
		}
	case TLIBurn:
		u.remaining -= dt
		if u.remaining <= 0 || u.lv.PropellantMass() <= 0 {
			u.lv.SetJ2ThrustLevel(0)
			u.lv.EnableDisableJ2(false)
			u.lv.J2Done()
			u.csm.SetEngineIndicator(EngineJ2, false)
			u.csm.PlayTLIStartSound(false)
			u.csm.PlayTLISound(false)
			u.csm.PlaySecoSound(true)
			u.lv.DeactivateNavmode(NavmodePrograde)
			u.lv.ActivateNavmode(NavmodeKillRot)
			u.lv.DeactivateS4RCS()
			u.enter(TLICutoff)
		}
	}
}

func (u *InstrumentUnit) readTelemetry(simTime time.Time) {
	t := Telemetry{
		Stage:    u.lv.Stage(),
		Altitude: u.lv.Altitude(),
		ApDist:   u.lv.ApDist(),
		Mass:     u.lv.Mass(),
	}
	u.lv.Status(&t.Status)
	t.Ref, _ = u.lv.Elements(&t.Elements, MJD(simTime))
	u.telemetry = t
}

// staging lights the SII sep light while the S-II is armed for separation
// and clears it once the S-IVB flies alone.
func (u *InstrumentUnit) staging(prev model.Stage) {
	stage := u.telemetry.Stage
	switch {
	case stage == model.LaunchStageTwo && u.csm.SIISIVBSepSwitchState() == SwitchUp:
		u.csm.SetSIISepLight(true)
	case prev == model.LaunchStageTwo && stage == model.LaunchStageSIVB:
		u.csm.SetSIISepLight(false)
		u.csm.PlaySepsSound(true)
	}
}

func (u *InstrumentUnit) enter(phase TLIPhase) {
	u.log.Info(context.Background(), "tli sequencer",
		logging.String("from", u.phase.String()),
		logging.String("to", phase.String()),
		logging.Float("apoapsis_m", u.telemetry.ApDist),
		logging.Bool("virtual_agc", u.virtualAGC),
	)
	u.phase = phase
	if u.virtualAGC {
		u.csm.SetOutputChannel(ChannelTLIMode, int(phase))
	}
}

// MJD converts t to a modified Julian date.
func MJD(t time.Time) float64 {
	const unixEpochMJD = 40587.0
	return unixEpochMJD + float64(t.UnixNano())/float64(24*time.Hour)
}
