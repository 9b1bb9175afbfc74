package iu

import (
	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// IUToCSMCommandConnector is the IU's end of CSM_IU_COMMAND. It answers
// CSMIU queries against the attached InstrumentUnit and sends IUCSM
// requests to the CSM.
type IUToCSMCommandConnector struct {
	*connector.Base

	vessel connector.VesselRef[InstrumentUnit]
	table  *connector.Dispatcher
}

// NewIUToCSMCommandConnector returns an unattached connector.
func NewIUToCSMCommandConnector() *IUToCSMCommandConnector {
	c := &IUToCSMCommandConnector{
		Base:  connector.NewBase(protocol.CSMIUCommand),
		table: connector.NewDispatcher(protocol.CSMIUCommand),
	}
	c.register()
	return c
}

// SetVessel attaches the owning IU.
func (c *IUToCSMCommandConnector) SetVessel(v InstrumentUnit) { c.vessel.Set(v) }

// ClearVessel detaches the owning IU.
func (c *IUToCSMCommandConnector) ClearVessel() { c.vessel.Clear() }

// ReceiveOutcome implements connector.OutcomeReceiver.
func (c *IUToCSMCommandConnector) ReceiveOutcome(_ connector.Connector, m *connector.Message) connector.Outcome {
	return c.table.Dispatch(m)
}

// ReceiveMessage implements connector.Connector.
func (c *IUToCSMCommandConnector) ReceiveMessage(from connector.Connector, m *connector.Message) bool {
	return c.ReceiveOutcome(from, m).OK()
}

func (c *IUToCSMCommandConnector) on(t protocol.CSMIUMessage, h func(InstrumentUnit, *connector.Message) connector.Outcome) {
	connector.On(c.table, t, connector.Owned(&c.vessel, h))
}

func (c *IUToCSMCommandConnector) register() {
	c.on(protocol.CSMIUIsTLICapable, func(iu InstrumentUnit, m *connector.Message) connector.Outcome {
		m.Val1 = connector.Bool(iu.IsTLICapable())
		return connector.OutcomeDelivered
	})
	c.on(protocol.CSMIUGetVesselStats, func(iu InstrumentUnit, m *connector.Message) connector.Outcome {
		isp, thrust := iu.VesselStats()
		m.Val1 = connector.Float(isp)
		m.Val2 = connector.Float(thrust)
		return connector.OutcomeDelivered
	})
	c.on(protocol.CSMIUGetVesselMass, func(iu InstrumentUnit, m *connector.Message) connector.Outcome {
		m.Val1 = connector.Float(iu.VesselMass())
		return connector.OutcomeDelivered
	})
	c.on(protocol.CSMIUGetVesselFuel, func(iu InstrumentUnit, m *connector.Message) connector.Outcome {
		m.Val1 = connector.Float(iu.VesselFuel())
		return connector.OutcomeDelivered
	})
	c.on(protocol.CSMIUChannelOutput, func(iu InstrumentUnit, m *connector.Message) connector.Outcome {
		channel, ok := m.Val1.Int()
		if !ok {
			return connector.OutcomeBadPayload
		}
		return connector.WithInt(m.Val2, func(value int) { iu.ChannelOutput(channel, value) })
	})
}

func (c *IUToCSMCommandConnector) send(t protocol.IUCSMMessage, vals ...connector.Value) (*connector.Message, bool) {
	m := connector.NewMessage(protocol.CSMIUCommand, t)
	slots := [...]*connector.Value{&m.Val1, &m.Val2, &m.Val3}
	for i, v := range vals {
		*slots[i] = v
	}
	return m, c.SendMessage(m)
}

func (c *IUToCSMCommandConnector) switchState(t protocol.IUCSMMessage) int {
	if m, ok := c.send(t); ok {
		if i, ok := m.Val1.Int(); ok {
			return i
		}
	}
	return 0
}

// IsVirtualAGC reports whether the CSM runs a virtual AGC. It returns
// false when the CSM does not answer.
func (c *IUToCSMCommandConnector) IsVirtualAGC() bool {
	if m, ok := c.send(protocol.IUCSMIsVirtualAGC); ok {
		if b, ok := m.Val1.Bool(); ok {
			return b
		}
	}
	return false
}

// SetOutputChannel writes an AGC output channel.
func (c *IUToCSMCommandConnector) SetOutputChannel(channel, value int) bool {
	_, ok := c.send(protocol.IUCSMSetOutputChannel, connector.Int(channel), connector.Int(value))
	return ok
}

// SIISIVBSepSwitchState returns the SII/SIVB separation switch, or 0
// (down) when the CSM does not answer.
func (c *IUToCSMCommandConnector) SIISIVBSepSwitchState() int {
	return c.switchState(protocol.IUCSMGetSIISIVBSepSwitchState)
}

// TLIEnableSwitchState returns the TLI enable switch, or 0 (down) when the
// CSM does not answer.
func (c *IUToCSMCommandConnector) TLIEnableSwitchState() int {
	return c.switchState(protocol.IUCSMGetTLIEnableSwitchState)
}

// SetSIISepLight lights or clears the SII separation light.
func (c *IUToCSMCommandConnector) SetSIISepLight(on bool) bool {
	_, ok := c.send(protocol.IUCSMSetSIISepLight, connector.Bool(on))
	return ok
}

// SetEngineIndicator lights or clears one engine indicator.
func (c *IUToCSMCommandConnector) SetEngineIndicator(engine int, on bool) bool {
	_, ok := c.send(protocol.IUCSMSetEngineIndicator, connector.Int(engine), connector.Bool(on))
	return ok
}

// SlowIfDesired asks the CSM to drop time acceleration if configured to.
func (c *IUToCSMCommandConnector) SlowIfDesired() bool {
	_, ok := c.send(protocol.IUCSMSlowIfDesired)
	return ok
}

// LoadTLISounds asks the CSM to load the TLI sound cues.
func (c *IUToCSMCommandConnector) LoadTLISounds() bool {
	_, ok := c.send(protocol.IUCSMLoadTLISounds)
	return ok
}

func (c *IUToCSMCommandConnector) sound(t protocol.IUCSMMessage, start bool) bool {
	_, ok := c.send(t, connector.Bool(start))
	return ok
}

// PlayCountSound starts or stops the countdown cue.
func (c *IUToCSMCommandConnector) PlayCountSound(start bool) bool {
	return c.sound(protocol.IUCSMPlayCountSound, start)
}

// PlaySecoSound starts or stops the SECO cue.
func (c *IUToCSMCommandConnector) PlaySecoSound(start bool) bool {
	return c.sound(protocol.IUCSMPlaySecoSound, start)
}

// PlaySepsSound starts or stops the separation cue.
func (c *IUToCSMCommandConnector) PlaySepsSound(start bool) bool {
	return c.sound(protocol.IUCSMPlaySepsSound, start)
}

// PlayTLISound starts or stops the TLI cue.
func (c *IUToCSMCommandConnector) PlayTLISound(start bool) bool {
	return c.sound(protocol.IUCSMPlayTLISound, start)
}

// PlayTLIStartSound starts or stops the TLI ignition cue.
func (c *IUToCSMCommandConnector) PlayTLIStartSound(start bool) bool {
	return c.sound(protocol.IUCSMPlayTLIStartSound, start)
}

// ClearTLISounds asks the CSM to unload the TLI sound cues.
func (c *IUToCSMCommandConnector) ClearTLISounds() bool {
	_, ok := c.send(protocol.IUCSMClearTLISounds)
	return ok
}
