package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/internal/logging"
	"github.com/signalsfoundry/saturn-connectors/iu"
	"github.com/signalsfoundry/saturn-connectors/registry"
	"github.com/signalsfoundry/saturn-connectors/saturn"
	"github.com/signalsfoundry/saturn-connectors/sivb"
)

// StackConfig sizes every vehicle of the stack.
type StackConfig struct {
	Saturn         SaturnConfig
	IU             IUConfig
	SIVB           SIVBConfig
	PropellantMass float64 // kg loaded in the S-IVB
	VirtualAGC     bool
	// AutoVent starts S-IVB venting once the TLI burn has cut off.
	AutoVent bool
}

// DefaultStackConfig returns a stack in parking orbit with a full S-IVB.
func DefaultStackConfig() StackConfig {
	return StackConfig{
		Saturn:         DefaultSaturnConfig(),
		IU:             DefaultIUConfig(),
		SIVB:           DefaultSIVBConfig(),
		PropellantMass: 100000,
		VirtualAGC:     true,
		AutoVent:       true,
	}
}

// Panel is the CSM's view of the IU and S-IVB, refreshed every frame over
// the bus.
type Panel struct {
	TLICapable   bool
	IUIsp        float64
	IUThrust     float64
	IUStatsValid bool
	IUMass       float64
	IUFuel       float64

	SIVBFuel     float64
	SIVBVentable bool
	SIVBVenting  bool
	SIVBCapacity float64
	SIVBDrain    float64
	SIVBVolts    float64
	SIVBCurrent  float64
}

// StackOption customizes a Stack.
type StackOption func(*Stack)

// WithRegistry routes the stack's connectors through r.
func WithRegistry(r *registry.Registry) StackOption {
	return func(s *Stack) { s.registry = r }
}

// WithLogger sets the stack logger.
func WithLogger(l logging.Logger) StackOption {
	return func(s *Stack) { s.log = l }
}

// Stack is a Saturn V S-IVB/IU/CSM stack with every connector registered
// and its three channels connected.
type Stack struct {
	cfg      StackConfig
	registry *registry.Registry
	log      logging.Logger

	tank   *Tank
	saturn *Saturn
	agc    *AGC
	iu     *InstrumentUnit
	sivb   *SIVB

	lvIU    *saturn.SaturnToIUCommandConnector
	csmIU   *saturn.CSMToIUConnector
	csmSIVB *saturn.CSMToSIVBControlConnector
	iuLV    *iu.IUToLVCommandConnector
	iuCSM   *iu.IUToCSMCommandConnector
	sivbCSM *sivb.SIVBToCSMControlConnector

	panel     Panel
	separated bool
}

// NewStack builds the vehicles and connectors and connects the channels.
func NewStack(cfg StackConfig, opts ...StackOption) (*Stack, error) {
	s := &Stack{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
	if s.log == nil {
		s.log = logging.Noop()
	}

	s.tank = &Tank{Mass: cfg.PropellantMass, Max: cfg.PropellantMass}
	sat, err := NewSaturn(cfg.Saturn, s.tank)
	if err != nil {
		return nil, fmt.Errorf("build saturn: %w", err)
	}
	s.saturn = sat
	s.agc = NewAGC(cfg.VirtualAGC)
	s.sivb = NewSIVB(cfg.SIVB, s.tank)

	s.lvIU = saturn.NewSaturnToIUCommandConnector()
	s.csmIU = saturn.NewCSMToIUConnector(s.agc)
	s.csmSIVB = saturn.NewCSMToSIVBControlConnector()
	s.iuLV = iu.NewIUToLVCommandConnector()
	s.iuCSM = iu.NewIUToCSMCommandConnector()
	s.sivbCSM = sivb.NewSIVBToCSMControlConnector()

	s.iu = NewInstrumentUnit(cfg.IU, s.iuLV, s.iuCSM, s.log)
	s.agc.forward = s.csmIU.ChannelOutput

	s.lvIU.SetVessel(s.saturn)
	s.csmIU.SetVessel(s.saturn)
	s.csmSIVB.SetVessel(s.saturn)
	s.iuCSM.SetVessel(s.iu)
	s.sivbCSM.SetVessel(s.sivb)

	for _, pair := range [][2]connector.Bindable{
		{s.lvIU, s.iuLV},
		{s.csmIU, s.iuCSM},
		{s.csmSIVB, s.sivbCSM},
	} {
		if err := s.connect(pair[0], pair[1]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Stack) connect(a, b connector.Bindable) error {
	idA, err := s.registry.Register(a)
	if err != nil {
		return fmt.Errorf("register %s: %w", a.Type(), err)
	}
	idB, err := s.registry.Register(b)
	if err != nil {
		return fmt.Errorf("register %s: %w", b.Type(), err)
	}
	if err := s.registry.Connect(idA, idB); err != nil {
		return fmt.Errorf("connect %s: %w", a.Type(), err)
	}
	return nil
}

func (s *Stack) Registry() *registry.Registry { return s.registry }
func (s *Stack) Saturn() *Saturn              { return s.saturn }
func (s *Stack) AGC() *AGC                    { return s.agc }
func (s *Stack) IU() *InstrumentUnit          { return s.iu }
func (s *Stack) SIVB() *SIVB                  { return s.sivb }
func (s *Stack) Panel() Panel                 { return s.panel }
func (s *Stack) Separated() bool              { return s.separated }

// Step advances every vehicle by one frame ending at simTime.
func (s *Stack) Step(simTime time.Time, dt time.Duration) {
	s.saturn.Update(simTime, dt)
	s.sivb.Update(dt)
	s.iu.Step(simTime, dt)
	s.refreshPanel()

	if s.cfg.AutoVent && s.iu.Phase() == TLICutoff && s.panel.SIVBVentable && !s.panel.SIVBVenting {
		if s.csmSIVB.StartVenting() {
			s.log.Info(context.Background(), "sivb venting started",
				logging.Float("propellant_kg", s.panel.SIVBFuel))
		}
	}
}

func (s *Stack) refreshPanel() {
	p := Panel{
		TLICapable:   s.csmIU.IsTLICapable(),
		IUMass:       s.csmIU.Mass(),
		IUFuel:       s.csmIU.FuelMass(),
		SIVBFuel:     s.csmSIVB.FuelMass(),
		SIVBVentable: s.csmSIVB.IsVentable(),
		SIVBVenting:  s.csmSIVB.IsVenting(),
	}
	p.IUIsp, p.IUThrust, p.IUStatsValid = s.csmIU.VesselStats()
	p.SIVBCapacity, p.SIVBDrain = s.csmSIVB.MainBatteryPower()
	p.SIVBVolts, p.SIVBCurrent = s.csmSIVB.MainBatteryElectrics()
	s.panel = p
}

// SeparateCSM stages the CSM off the launch vehicle: both CSM channels are
// disconnected and the CSM-side connectors lose their vessel. Separating
// twice is a no-op.
func (s *Stack) SeparateCSM() error {
	if s.separated {
		return nil
	}
	for _, c := range []connector.Bindable{s.csmIU, s.csmSIVB} {
		if err := s.registry.Disconnect(c.ID()); err != nil {
			return fmt.Errorf("separate %s: %w", c.Type(), err)
		}
	}
	s.csmIU.ClearVessel()
	s.csmSIVB.ClearVessel()
	s.separated = true
	s.log.Info(context.Background(), "csm separated", logging.String("stage", s.saturn.Stage().String()))
	return nil
}
