package saturn

import (
	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/model"
	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// SaturnToIUCommandConnector is the launch vehicle's end of LV_IU_COMMAND.
// It answers the Instrument Unit's IULV queries and commands against the
// attached LaunchVehicle.
type SaturnToIUCommandConnector struct {
	*connector.Base

	vessel connector.VesselRef[LaunchVehicle]
	table  *connector.Dispatcher
}

// NewSaturnToIUCommandConnector returns an unattached connector.
func NewSaturnToIUCommandConnector() *SaturnToIUCommandConnector {
	c := &SaturnToIUCommandConnector{
		Base:  connector.NewBase(protocol.LVIUCommand),
		table: connector.NewDispatcher(protocol.LVIUCommand),
	}
	c.register()
	return c
}

// SetVessel attaches the owning vehicle.
func (c *SaturnToIUCommandConnector) SetVessel(v LaunchVehicle) { c.vessel.Set(v) }

// ClearVessel detaches the owning vehicle.
func (c *SaturnToIUCommandConnector) ClearVessel() { c.vessel.Clear() }

// ReceiveOutcome implements connector.OutcomeReceiver.
func (c *SaturnToIUCommandConnector) ReceiveOutcome(_ connector.Connector, m *connector.Message) connector.Outcome {
	return c.table.Dispatch(m)
}

// ReceiveMessage implements connector.Connector.
func (c *SaturnToIUCommandConnector) ReceiveMessage(from connector.Connector, m *connector.Message) bool {
	return c.ReceiveOutcome(from, m).OK()
}

type lvHandler func(v LaunchVehicle, m *connector.Message) connector.Outcome

func (c *SaturnToIUCommandConnector) on(t protocol.IULVMessage, h lvHandler) {
	connector.On(c.table, t, connector.Owned(&c.vessel, h))
}

// floatRead answers a query with a float in Val1.
func floatRead(read func(LaunchVehicle) float64) lvHandler {
	return func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		m.Val1 = connector.Float(read(v))
		return connector.OutcomeDelivered
	}
}

func vectorRead(read func(LaunchVehicle) model.Vector3) lvHandler {
	return func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		return connector.Fill(m.Val1, func() model.Vector3 { return read(v) })
	}
}

func relativeRead(read func(LaunchVehicle, model.Handle) model.Vector3) lvHandler {
	return func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		ref, ok := m.Val1.Handle()
		if !ok {
			return connector.OutcomeBadPayload
		}
		return connector.Fill(m.Val2, func() model.Vector3 { return read(v, ref) })
	}
}

func flaggedVectorRead(read func(LaunchVehicle) (model.Vector3, bool)) lvHandler {
	return func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		buf, ok := connector.Buffer[model.Vector3](m.Val1)
		if !ok {
			return connector.OutcomeBadPayload
		}
		vec, res := read(v)
		*buf = vec
		m.Val2 = connector.Bool(res)
		return connector.OutcomeDelivered
	}
}

func intCommand(cmd func(LaunchVehicle, int)) lvHandler {
	return func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		return connector.WithInt(m.Val1, func(i int) { cmd(v, i) })
	}
}

func floatCommand(cmd func(LaunchVehicle, float64)) lvHandler {
	return func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		return connector.WithFloat(m.Val1, func(f float64) { cmd(v, f) })
	}
}

func command(cmd func(LaunchVehicle)) lvHandler {
	return func(v LaunchVehicle, _ *connector.Message) connector.Outcome {
		return connector.Do(func() { cmd(v) })
	}
}

func (c *SaturnToIUCommandConnector) register() {
	c.on(protocol.IULVGetJ2ThrustLevel, floatRead(LaunchVehicle.J2ThrustLevel))
	c.on(protocol.IULVGetStage, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		m.Val1 = connector.Int(int(v.Stage()))
		return connector.OutcomeDelivered
	})
	c.on(protocol.IULVGetAltitude, floatRead(LaunchVehicle.Altitude))
	c.on(protocol.IULVGetPropellantMass, floatRead(LaunchVehicle.SIVBPropellantMass))
	c.on(protocol.IULVGetStatus, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		return connector.Fill(m.Val1, v.Status)
	})
	c.on(protocol.IULVGetMass, floatRead(LaunchVehicle.Mass))
	c.on(protocol.IULVGetGravityRef, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		m.Val1 = connector.Handle(v.GravityRef())
		return connector.OutcomeDelivered
	})
	c.on(protocol.IULVGetApDist, floatRead(LaunchVehicle.ApDist))
	c.on(protocol.IULVGetMaxFuelMass, floatRead(LaunchVehicle.MaxFuelMass))
	c.on(protocol.IULVGetRelativePos, relativeRead(LaunchVehicle.RelativePos))
	c.on(protocol.IULVGetRelativeVel, relativeRead(LaunchVehicle.RelativeVel))
	c.on(protocol.IULVGetGlobalVel, vectorRead(LaunchVehicle.GlobalVel))
	c.on(protocol.IULVGetElements, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		buf, ok := connector.Buffer[model.Elements](m.Val1)
		if !ok {
			return connector.OutcomeBadPayload
		}
		mjd, ok := m.Val2.Float()
		if !ok {
			return connector.OutcomeBadPayload
		}
		el, ref := v.Elements(mjd)
		*buf = el
		m.Val3 = connector.Handle(ref)
		return connector.OutcomeDelivered
	})
	c.on(protocol.IULVGetPMI, vectorRead(LaunchVehicle.PMI))
	c.on(protocol.IULVGetSize, floatRead(LaunchVehicle.Size))
	c.on(protocol.IULVGetMaxThrust, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		engine, ok := m.Val1.Int()
		if !ok {
			return connector.OutcomeBadPayload
		}
		m.Val2 = connector.Float(v.MaxThrust(model.EngineType(engine)))
		return connector.OutcomeDelivered
	})
	c.on(protocol.IULVLocal2Global, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		local, ok := connector.Buffer[model.Vector3](m.Val1)
		if !ok {
			return connector.OutcomeBadPayload
		}
		return connector.Fill(m.Val2, func() model.Vector3 { return v.Local2Global(*local) })
	})
	c.on(protocol.IULVGetWeightVector, flaggedVectorRead(LaunchVehicle.WeightVector))
	c.on(protocol.IULVGetForceVector, flaggedVectorRead(LaunchVehicle.ForceVector))
	c.on(protocol.IULVGetRotationMatrix, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		return connector.Fill(m.Val1, v.RotationMatrix)
	})
	c.on(protocol.IULVActivateNavmode, intCommand(LaunchVehicle.ActivateNavmode))
	c.on(protocol.IULVDeactivateNavmode, intCommand(LaunchVehicle.DeactivateNavmode))

	// Shutting the J2 down for good has no vehicle-side effect yet.
	connector.On(c.table, protocol.IULVJ2Done, connector.Accept)

	c.on(protocol.IULVSetJ2ThrustLevel, floatCommand(LaunchVehicle.SetJ2ThrustLevel))
	c.on(protocol.IULVSetAPSThrustLevel, floatCommand(LaunchVehicle.SetAPSThrustLevel))
	c.on(protocol.IULVSetAttitudeLinLevel, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		axis, ok := m.Val1.Int()
		if !ok {
			return connector.OutcomeBadPayload
		}
		return connector.WithInt(m.Val2, func(level int) { v.SetAttitudeLinLevel(axis, level) })
	})
	c.on(protocol.IULVSetAttitudeRotLevel, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		level, ok := m.Val1.Vector()
		if !ok {
			return connector.OutcomeBadPayload
		}
		v.SetAttitudeRotLevel(level)
		return connector.OutcomeDelivered
	})
	c.on(protocol.IULVActivateS4RCS, command(LaunchVehicle.ActivateS4RCS))
	c.on(protocol.IULVDeactivateS4RCS, command(LaunchVehicle.DeactivateS4RCS))
	c.on(protocol.IULVEnableJ2, func(v LaunchVehicle, m *connector.Message) connector.Outcome {
		return connector.WithBool(m.Val1, v.EnableDisableJ2)
	})
}
