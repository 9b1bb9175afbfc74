// Package sivb implements the S-IVB stage's end of CSM_SIVB_COMMAND.
package sivb

import (
	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// Stage is the S-IVB as seen by the CSM.
type Stage interface {
	IsVentable() bool
	IsVenting() bool
	FuelMass() float64
	MainBatteryPower() (capacity, drain float64)
	MainBatteryElectrics() (volts, current float64)
	StartVenting()
	StopVenting()
}

// SIVBToCSMControlConnector answers CSMSIVB queries and commands against
// the attached Stage.
type SIVBToCSMControlConnector struct {
	*connector.Base

	vessel connector.VesselRef[Stage]
	table  *connector.Dispatcher
}

// NewSIVBToCSMControlConnector returns an unattached connector.
func NewSIVBToCSMControlConnector() *SIVBToCSMControlConnector {
	c := &SIVBToCSMControlConnector{
		Base:  connector.NewBase(protocol.CSMSIVBCommand),
		table: connector.NewDispatcher(protocol.CSMSIVBCommand),
	}
	c.register()
	return c
}

// SetVessel attaches the owning stage.
func (c *SIVBToCSMControlConnector) SetVessel(s Stage) { c.vessel.Set(s) }

// ClearVessel detaches the owning stage.
func (c *SIVBToCSMControlConnector) ClearVessel() { c.vessel.Clear() }

// ReceiveOutcome implements connector.OutcomeReceiver.
func (c *SIVBToCSMControlConnector) ReceiveOutcome(_ connector.Connector, m *connector.Message) connector.Outcome {
	return c.table.Dispatch(m)
}

// ReceiveMessage implements connector.Connector.
func (c *SIVBToCSMControlConnector) ReceiveMessage(from connector.Connector, m *connector.Message) bool {
	return c.ReceiveOutcome(from, m).OK()
}

func (c *SIVBToCSMControlConnector) on(t protocol.CSMSIVBMessage, h func(Stage, *connector.Message) connector.Outcome) {
	connector.On(c.table, t, connector.Owned(&c.vessel, h))
}

func flag(read func(Stage) bool) func(Stage, *connector.Message) connector.Outcome {
	return func(s Stage, m *connector.Message) connector.Outcome {
		m.Val1 = connector.Bool(read(s))
		return connector.OutcomeDelivered
	}
}

func pair(read func(Stage) (float64, float64)) func(Stage, *connector.Message) connector.Outcome {
	return func(s Stage, m *connector.Message) connector.Outcome {
		a, b := read(s)
		m.Val1 = connector.Float(a)
		m.Val2 = connector.Float(b)
		return connector.OutcomeDelivered
	}
}

func (c *SIVBToCSMControlConnector) register() {
	c.on(protocol.CSMSIVBIsVentable, flag(Stage.IsVentable))
	c.on(protocol.CSMSIVBIsVenting, flag(Stage.IsVenting))
	c.on(protocol.CSMSIVBGetVesselFuel, func(s Stage, m *connector.Message) connector.Outcome {
		m.Val1 = connector.Float(s.FuelMass())
		return connector.OutcomeDelivered
	})
	c.on(protocol.CSMSIVBGetMainBatteryPower, pair(Stage.MainBatteryPower))
	c.on(protocol.CSMSIVBGetMainBatteryElectrics, pair(Stage.MainBatteryElectrics))
	c.on(protocol.CSMSIVBStartVenting, func(s Stage, _ *connector.Message) connector.Outcome {
		return connector.Do(s.StartVenting)
	})
	c.on(protocol.CSMSIVBStopVenting, func(s Stage, _ *connector.Message) connector.Outcome {
		return connector.Do(s.StopVenting)
	})
}
