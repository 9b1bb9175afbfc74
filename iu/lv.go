package iu

import (
	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/model"
	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// Fallbacks for mass reads the launch vehicle cannot answer. They are
// non-zero so guidance code can divide by them.
const (
	DefaultLVMass        = 1.0
	DefaultLVMaxFuelMass = 1.0
)

// IUToLVCommandConnector is the IU's end of LV_IU_COMMAND. It only sends;
// every incoming message is rejected.
//
// Scalar reads return a documented default when the vehicle does not
// answer. Buffer reads fill the caller's buffer in place and report
// whether they did.
type IUToLVCommandConnector struct {
	*connector.Base
}

// NewIUToLVCommandConnector returns an unbound connector.
func NewIUToLVCommandConnector() *IUToLVCommandConnector {
	return &IUToLVCommandConnector{Base: connector.NewBase(protocol.LVIUCommand)}
}

// ReceiveOutcome implements connector.OutcomeReceiver.
func (c *IUToLVCommandConnector) ReceiveOutcome(_ connector.Connector, m *connector.Message) connector.Outcome {
	if m == nil {
		return connector.OutcomeBadPayload
	}
	if m.Destination != c.Type() {
		return connector.OutcomeDestinationMismatch
	}
	return connector.OutcomeUnsupported
}

// ReceiveMessage implements connector.Connector. It always returns false.
func (c *IUToLVCommandConnector) ReceiveMessage(from connector.Connector, m *connector.Message) bool {
	return c.ReceiveOutcome(from, m).OK()
}

func (c *IUToLVCommandConnector) send(t protocol.IULVMessage, vals ...connector.Value) (*connector.Message, bool) {
	m := connector.NewMessage(protocol.LVIUCommand, t)
	slots := [...]*connector.Value{&m.Val1, &m.Val2, &m.Val3}
	for i, v := range vals {
		*slots[i] = v
	}
	return m, c.SendMessage(m)
}

func (c *IUToLVCommandConnector) float(t protocol.IULVMessage, def float64) float64 {
	if m, ok := c.send(t); ok {
		if f, ok := m.Val1.Float(); ok {
			return f
		}
	}
	return def
}

// J2ThrustLevel returns the J2 thrust level, or 0.
func (c *IUToLVCommandConnector) J2ThrustLevel() float64 {
	return c.float(protocol.IULVGetJ2ThrustLevel, 0)
}

// Stage returns the vehicle stage, or model.NullStage.
func (c *IUToLVCommandConnector) Stage() model.Stage {
	if m, ok := c.send(protocol.IULVGetStage); ok {
		if i, ok := m.Val1.Int(); ok {
			return model.Stage(i)
		}
	}
	return model.NullStage
}

// Altitude returns the altitude, or 0.
func (c *IUToLVCommandConnector) Altitude() float64 {
	return c.float(protocol.IULVGetAltitude, 0)
}

// PropellantMass returns the S-IVB propellant mass, or 0.
func (c *IUToLVCommandConnector) PropellantMass() float64 {
	return c.float(protocol.IULVGetPropellantMass, 0)
}

// Status fills status with the vehicle status.
func (c *IUToLVCommandConnector) Status(status *model.VesselStatus) bool {
	_, ok := c.send(protocol.IULVGetStatus, connector.Pointer(status))
	return ok
}

// Mass returns the vehicle mass, or DefaultLVMass.
func (c *IUToLVCommandConnector) Mass() float64 {
	return c.float(protocol.IULVGetMass, DefaultLVMass)
}

// GravityRef returns the dominant gravity body, or model.NoHandle.
func (c *IUToLVCommandConnector) GravityRef() model.Handle {
	if m, ok := c.send(protocol.IULVGetGravityRef); ok {
		if h, ok := m.Val1.Handle(); ok {
			return h
		}
	}
	return model.NoHandle
}

// ApDist returns the apoapsis distance, or 0.
func (c *IUToLVCommandConnector) ApDist() float64 {
	return c.float(protocol.IULVGetApDist, 0)
}

// MaxFuelMass returns the maximum fuel mass, or DefaultLVMaxFuelMass.
func (c *IUToLVCommandConnector) MaxFuelMass() float64 {
	return c.float(protocol.IULVGetMaxFuelMass, DefaultLVMaxFuelMass)
}

// RelativePos fills pos with the position relative to ref.
func (c *IUToLVCommandConnector) RelativePos(ref model.Handle, pos *model.Vector3) bool {
	_, ok := c.send(protocol.IULVGetRelativePos, connector.Handle(ref), connector.Pointer(pos))
	return ok
}

// RelativeVel fills vel with the velocity relative to ref.
func (c *IUToLVCommandConnector) RelativeVel(ref model.Handle, vel *model.Vector3) bool {
	_, ok := c.send(protocol.IULVGetRelativeVel, connector.Handle(ref), connector.Pointer(vel))
	return ok
}

// GlobalVel fills vel with the global-frame velocity.
func (c *IUToLVCommandConnector) GlobalVel(vel *model.Vector3) bool {
	_, ok := c.send(protocol.IULVGetGlobalVel, connector.Pointer(vel))
	return ok
}

// Elements fills el with the osculating elements at mjd and returns the
// reference body.
func (c *IUToLVCommandConnector) Elements(el *model.Elements, mjd float64) (model.Handle, bool) {
	m, ok := c.send(protocol.IULVGetElements, connector.Pointer(el), connector.Float(mjd))
	if !ok {
		return model.NoHandle, false
	}
	ref, _ := m.Val3.Handle()
	return ref, true
}

// PMI fills pmi with the principal moments of inertia.
func (c *IUToLVCommandConnector) PMI(pmi *model.Vector3) bool {
	_, ok := c.send(protocol.IULVGetPMI, connector.Pointer(pmi))
	return ok
}

// Size returns the vehicle's mean radius, or 0.
func (c *IUToLVCommandConnector) Size() float64 {
	return c.float(protocol.IULVGetSize, 0)
}

// MaxThrust returns the maximum thrust of an engine group, or 0.
func (c *IUToLVCommandConnector) MaxThrust(engine model.EngineType) float64 {
	if m, ok := c.send(protocol.IULVGetMaxThrust, connector.Int(int(engine))); ok {
		if f, ok := m.Val2.Float(); ok {
			return f
		}
	}
	return 0
}

// Local2Global converts local into the global frame, writing into global.
func (c *IUToLVCommandConnector) Local2Global(local model.Vector3, global *model.Vector3) bool {
	_, ok := c.send(protocol.IULVLocal2Global, connector.Pointer(&local), connector.Pointer(global))
	return ok
}

func (c *IUToLVCommandConnector) flaggedVector(t protocol.IULVMessage, v *model.Vector3) bool {
	m, ok := c.send(t, connector.Pointer(v))
	if !ok {
		return false
	}
	res, _ := m.Val2.Bool()
	return res
}

// WeightVector fills w with the weight vector. It returns the vehicle's
// own result, or false when the vehicle did not answer.
func (c *IUToLVCommandConnector) WeightVector(w *model.Vector3) bool {
	return c.flaggedVector(protocol.IULVGetWeightVector, w)
}

// ForceVector fills f with the total force vector. It returns the
// vehicle's own result, or false when the vehicle did not answer.
func (c *IUToLVCommandConnector) ForceVector(f *model.Vector3) bool {
	return c.flaggedVector(protocol.IULVGetForceVector, f)
}

// RotationMatrix fills rot with the local-to-global rotation.
func (c *IUToLVCommandConnector) RotationMatrix(rot *model.Matrix3) bool {
	_, ok := c.send(protocol.IULVGetRotationMatrix, connector.Pointer(rot))
	return ok
}

// ActivateNavmode turns an autopilot mode on.
func (c *IUToLVCommandConnector) ActivateNavmode(mode int) bool {
	_, ok := c.send(protocol.IULVActivateNavmode, connector.Int(mode))
	return ok
}

// DeactivateNavmode turns an autopilot mode off.
func (c *IUToLVCommandConnector) DeactivateNavmode(mode int) bool {
	_, ok := c.send(protocol.IULVDeactivateNavmode, connector.Int(mode))
	return ok
}

// J2Done reports that the J2 is shut down for good.
func (c *IUToLVCommandConnector) J2Done() bool {
	_, ok := c.send(protocol.IULVJ2Done)
	return ok
}

// SetJ2ThrustLevel sets the J2 throttle.
func (c *IUToLVCommandConnector) SetJ2ThrustLevel(level float64) bool {
	_, ok := c.send(protocol.IULVSetJ2ThrustLevel, connector.Float(level))
	return ok
}

// SetAPSThrustLevel sets the auxiliary propulsion throttle.
func (c *IUToLVCommandConnector) SetAPSThrustLevel(level float64) bool {
	_, ok := c.send(protocol.IULVSetAPSThrustLevel, connector.Float(level))
	return ok
}

// SetAttitudeLinLevel sets linear attitude thrust on one axis.
func (c *IUToLVCommandConnector) SetAttitudeLinLevel(axis, level int) bool {
	_, ok := c.send(protocol.IULVSetAttitudeLinLevel, connector.Int(axis), connector.Int(level))
	return ok
}

// SetAttitudeRotLevel sets rotational attitude thrust on all axes.
func (c *IUToLVCommandConnector) SetAttitudeRotLevel(level model.Vector3) bool {
	_, ok := c.send(protocol.IULVSetAttitudeRotLevel, connector.Vector(level))
	return ok
}

// ActivateS4RCS enables the S-IVB reaction control system.
func (c *IUToLVCommandConnector) ActivateS4RCS() bool {
	_, ok := c.send(protocol.IULVActivateS4RCS)
	return ok
}

// DeactivateS4RCS disables the S-IVB reaction control system.
func (c *IUToLVCommandConnector) DeactivateS4RCS() bool {
	_, ok := c.send(protocol.IULVDeactivateS4RCS)
	return ok
}

// EnableDisableJ2 arms or safes the J2.
func (c *IUToLVCommandConnector) EnableDisableJ2(enable bool) bool {
	_, ok := c.send(protocol.IULVEnableJ2, connector.Bool(enable))
	return ok
}
