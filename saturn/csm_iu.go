package saturn

import (
	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// Fallbacks returned by the CSMToIUConnector queries when the IU cannot
// answer. Masses are non-zero so callers can divide by them.
const (
	DefaultIUMass     = 1.0
	DefaultIUFuelMass = 1.0
)

// CSMToIUConnector is the CSM's end of CSM_IU_COMMAND. It receives the IU's
// IUCSM requests and sends CSMIU queries back.
//
// IS_VIRTUAL_AGC and SET_OUTPUT_CHANNEL act on the guidance computer given
// at construction; every other message acts on the attached CommandModule.
type CSMToIUConnector struct {
	*connector.Base

	vessel connector.VesselRef[CommandModule]
	agc    connector.VesselRef[GuidanceComputer]
	table  *connector.Dispatcher
}

// NewCSMToIUConnector returns a connector bound to agc. A nil agc leaves
// the computer messages unanswered.
func NewCSMToIUConnector(agc GuidanceComputer) *CSMToIUConnector {
	c := &CSMToIUConnector{
		Base:  connector.NewBase(protocol.CSMIUCommand),
		table: connector.NewDispatcher(protocol.CSMIUCommand),
	}
	c.agc.Set(agc)
	c.register()
	return c
}

// SetVessel attaches the owning CSM.
func (c *CSMToIUConnector) SetVessel(v CommandModule) { c.vessel.Set(v) }

// ClearVessel detaches the owning CSM.
func (c *CSMToIUConnector) ClearVessel() { c.vessel.Clear() }

// ReceiveOutcome implements connector.OutcomeReceiver.
func (c *CSMToIUConnector) ReceiveOutcome(_ connector.Connector, m *connector.Message) connector.Outcome {
	return c.table.Dispatch(m)
}

// ReceiveMessage implements connector.Connector.
func (c *CSMToIUConnector) ReceiveMessage(from connector.Connector, m *connector.Message) bool {
	return c.ReceiveOutcome(from, m).OK()
}

type cmHandler func(v CommandModule, m *connector.Message) connector.Outcome

func (c *CSMToIUConnector) on(t protocol.IUCSMMessage, h cmHandler) {
	connector.On(c.table, t, connector.Owned(&c.vessel, h))
}

func sound(play func(CommandModule, bool)) cmHandler {
	return func(v CommandModule, m *connector.Message) connector.Outcome {
		return connector.WithBool(m.Val1, func(start bool) { play(v, start) })
	}
}

func cmCommand(cmd func(CommandModule)) cmHandler {
	return func(v CommandModule, _ *connector.Message) connector.Outcome {
		return connector.Do(func() { cmd(v) })
	}
}

func switchRead(read func(CommandModule) int) cmHandler {
	return func(v CommandModule, m *connector.Message) connector.Outcome {
		m.Val1 = connector.Int(read(v))
		return connector.OutcomeDelivered
	}
}

func (c *CSMToIUConnector) register() {
	connector.On(c.table, protocol.IUCSMIsVirtualAGC, connector.Owned(&c.agc,
		func(agc GuidanceComputer, m *connector.Message) connector.Outcome {
			m.Val1 = connector.Bool(agc.IsVirtualAGC())
			return connector.OutcomeDelivered
		}))
	connector.On(c.table, protocol.IUCSMSetOutputChannel, connector.Owned(&c.agc,
		func(agc GuidanceComputer, m *connector.Message) connector.Outcome {
			channel, ok := m.Val1.Int()
			if !ok {
				return connector.OutcomeBadPayload
			}
			return connector.WithInt(m.Val2, func(value int) { agc.SetOutputChannel(channel, value) })
		}))

	c.on(protocol.IUCSMGetSIISIVBSepSwitchState, switchRead(CommandModule.SIISIVBSepSwitchState))
	c.on(protocol.IUCSMGetTLIEnableSwitchState, switchRead(CommandModule.TLIEnableSwitchState))
	c.on(protocol.IUCSMSetSIISepLight, func(v CommandModule, m *connector.Message) connector.Outcome {
		return connector.WithBool(m.Val1, func(on bool) {
			if on {
				v.SetSIISep()
			} else {
				v.ClearSIISep()
			}
		})
	})
	c.on(protocol.IUCSMSetEngineIndicator, func(v CommandModule, m *connector.Message) connector.Outcome {
		engine, ok := m.Val1.Int()
		if !ok {
			return connector.OutcomeBadPayload
		}
		return connector.WithBool(m.Val2, func(on bool) {
			if on {
				v.SetEngineIndicator(engine)
			} else {
				v.ClearEngineIndicator(engine)
			}
		})
	})
	c.on(protocol.IUCSMSlowIfDesired, cmCommand(CommandModule.SlowIfDesired))
	c.on(protocol.IUCSMLoadTLISounds, cmCommand(CommandModule.LoadTLISounds))
	c.on(protocol.IUCSMPlayCountSound, sound(CommandModule.PlayCountSound))
	c.on(protocol.IUCSMPlaySecoSound, sound(CommandModule.PlaySecoSound))
	c.on(protocol.IUCSMPlaySepsSound, sound(CommandModule.PlaySepsSound))
	c.on(protocol.IUCSMPlayTLISound, sound(CommandModule.PlayTLISound))
	c.on(protocol.IUCSMPlayTLIStartSound, sound(CommandModule.PlayTLIStartSound))
	c.on(protocol.IUCSMClearTLISounds, cmCommand(CommandModule.ClearTLISounds))
}

func (c *CSMToIUConnector) query(t protocol.CSMIUMessage) (*connector.Message, bool) {
	m := connector.NewMessage(protocol.CSMIUCommand, t)
	return m, c.SendMessage(m)
}

// IsTLICapable asks the IU whether it can perform a TLI burn. It returns
// false when the IU does not answer.
func (c *CSMToIUConnector) IsTLICapable() bool {
	if m, ok := c.query(protocol.CSMIUIsTLICapable); ok {
		if b, ok := m.Val1.Bool(); ok {
			return b
		}
	}
	return false
}

// VesselStats returns the stack's specific impulse and thrust. ok is false
// when the IU does not answer, in which case both values are zero.
func (c *CSMToIUConnector) VesselStats() (isp, thrust float64, ok bool) {
	m, sent := c.query(protocol.CSMIUGetVesselStats)
	if !sent {
		return 0, 0, false
	}
	isp, ok1 := m.Val1.Float()
	thrust, ok2 := m.Val2.Float()
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return isp, thrust, true
}

// Mass returns the IU-side vehicle mass, or DefaultIUMass.
func (c *CSMToIUConnector) Mass() float64 {
	if m, ok := c.query(protocol.CSMIUGetVesselMass); ok {
		if f, ok := m.Val1.Float(); ok {
			return f
		}
	}
	return DefaultIUMass
}

// FuelMass returns the IU-side vehicle fuel mass, or DefaultIUFuelMass.
func (c *CSMToIUConnector) FuelMass() float64 {
	if m, ok := c.query(protocol.CSMIUGetVesselFuel); ok {
		if f, ok := m.Val1.Float(); ok {
			return f
		}
	}
	return DefaultIUFuelMass
}

// ChannelOutput forwards an AGC output channel write to the IU and reports
// whether it was delivered.
func (c *CSMToIUConnector) ChannelOutput(channel, value int) bool {
	m := connector.NewMessage(protocol.CSMIUCommand, protocol.CSMIUChannelOutput)
	m.Val1 = connector.Int(channel)
	m.Val2 = connector.Int(value)
	return c.SendMessage(m)
}
