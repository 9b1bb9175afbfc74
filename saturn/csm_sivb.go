package saturn

import (
	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// DefaultSIVBFuelMass is returned by FuelMass when the S-IVB cannot answer.
// It is non-zero so callers can divide by it.
const DefaultSIVBFuelMass = 0.01

// CSMToSIVBControlConnector is the CSM's end of CSM_SIVB_COMMAND. Traffic
// is one way: the CSM queries and commands the S-IVB and accepts nothing
// in return.
type CSMToSIVBControlConnector struct {
	*connector.Base

	vessel connector.VesselRef[CommandModule]
}

// NewCSMToSIVBControlConnector returns an unattached connector.
func NewCSMToSIVBControlConnector() *CSMToSIVBControlConnector {
	return &CSMToSIVBControlConnector{
		Base: connector.NewBase(protocol.CSMSIVBCommand),
	}
}

// SetVessel attaches the owning CSM.
func (c *CSMToSIVBControlConnector) SetVessel(v CommandModule) { c.vessel.Set(v) }

// ClearVessel detaches the owning CSM.
func (c *CSMToSIVBControlConnector) ClearVessel() { c.vessel.Clear() }

// Vessel returns the owning CSM, if attached.
func (c *CSMToSIVBControlConnector) Vessel() (CommandModule, bool) { return c.vessel.Get() }

// ReceiveOutcome implements connector.OutcomeReceiver. No S-IVB message is
// handled on this side.
func (c *CSMToSIVBControlConnector) ReceiveOutcome(_ connector.Connector, m *connector.Message) connector.Outcome {
	if m == nil {
		return connector.OutcomeBadPayload
	}
	if m.Destination != c.Type() {
		return connector.OutcomeDestinationMismatch
	}
	return connector.OutcomeUnsupported
}

// ReceiveMessage implements connector.Connector. It always returns false.
func (c *CSMToSIVBControlConnector) ReceiveMessage(from connector.Connector, m *connector.Message) bool {
	return c.ReceiveOutcome(from, m).OK()
}

func (c *CSMToSIVBControlConnector) query(t protocol.CSMSIVBMessage) (*connector.Message, bool) {
	m := connector.NewMessage(c.Type(), t)
	return m, c.SendMessage(m)
}

func (c *CSMToSIVBControlConnector) flag(t protocol.CSMSIVBMessage) bool {
	if m, ok := c.query(t); ok {
		if b, ok := m.Val1.Bool(); ok {
			return b
		}
	}
	return false
}

func (c *CSMToSIVBControlConnector) pair(t protocol.CSMSIVBMessage) (float64, float64) {
	m, ok := c.query(t)
	if !ok {
		return 0, 0
	}
	a, ok1 := m.Val1.Float()
	b, ok2 := m.Val2.Float()
	if !ok1 || !ok2 {
		return 0, 0
	}
	return a, b
}

// IsVentable reports whether the S-IVB can vent propellant.
func (c *CSMToSIVBControlConnector) IsVentable() bool {
	return c.flag(protocol.CSMSIVBIsVentable)
}

// IsVenting reports whether the S-IVB is venting.
func (c *CSMToSIVBControlConnector) IsVenting() bool {
	return c.flag(protocol.CSMSIVBIsVenting)
}

// FuelMass returns the S-IVB fuel mass, or DefaultSIVBFuelMass.
func (c *CSMToSIVBControlConnector) FuelMass() float64 {
	if m, ok := c.query(protocol.CSMSIVBGetVesselFuel); ok {
		if f, ok := m.Val1.Float(); ok {
			return f
		}
	}
	return DefaultSIVBFuelMass
}

// MainBatteryPower returns the S-IVB main battery capacity and drain, or
// zeros when the stage does not answer.
func (c *CSMToSIVBControlConnector) MainBatteryPower() (capacity, drain float64) {
	return c.pair(protocol.CSMSIVBGetMainBatteryPower)
}

// MainBatteryElectrics returns the S-IVB main bus voltage and current, or
// zeros when the stage does not answer.
func (c *CSMToSIVBControlConnector) MainBatteryElectrics() (volts, current float64) {
	return c.pair(protocol.CSMSIVBGetMainBatteryElectrics)
}

// StartVenting commands the S-IVB to start venting and reports delivery.
func (c *CSMToSIVBControlConnector) StartVenting() bool {
	_, ok := c.query(protocol.CSMSIVBStartVenting)
	return ok
}

// StopVenting commands the S-IVB to stop venting and reports delivery.
func (c *CSMToSIVBControlConnector) StopVenting() bool {
	_, ok := c.query(protocol.CSMSIVBStopVenting)
	return ok
}
