// Package saturn implements the Saturn-side endpoints of the connector bus:
// the launch vehicle's Instrument Unit command receiver and the CSM's
// channels to the IU and the S-IVB.
//
// The host vehicle is reached only through the narrow role interfaces in
// this file. Physics, panels and sound stay on the other side of them.
package saturn

import "github.com/signalsfoundry/saturn-connectors/model"

// VehicleState exposes scalar and status reads.
type VehicleState interface {
	Stage() model.Stage
	Altitude() float64
	Mass() float64
	MaxFuelMass() float64
	SIVBPropellantMass() float64
	GravityRef() model.Handle
	ApDist() float64
	Size() float64
	Status() model.VesselStatus
}

// VehicleFrames exposes vector, matrix and orbital reads in the vehicle's
// reference frames.
type VehicleFrames interface {
	RelativePos(ref model.Handle) model.Vector3
	RelativeVel(ref model.Handle) model.Vector3
	GlobalVel() model.Vector3
	// Elements returns osculating elements at mjd and the body they are
	// referenced to.
	Elements(mjd float64) (model.Elements, model.Handle)
	PMI() model.Vector3
	Local2Global(local model.Vector3) model.Vector3
	WeightVector() (model.Vector3, bool)
	ForceVector() (model.Vector3, bool)
	RotationMatrix() model.Matrix3
}

// Propulsion covers engine reads and commands.
type Propulsion interface {
	J2ThrustLevel() float64
	SetJ2ThrustLevel(level float64)
	SetAPSThrustLevel(level float64)
	MaxThrust(engine model.EngineType) float64
	EnableDisableJ2(enable bool)
}

// Navigation covers autopilot and attitude-control commands.
type Navigation interface {
	ActivateNavmode(mode int)
	DeactivateNavmode(mode int)
	SetAttitudeLinLevel(axis, level int)
	SetAttitudeRotLevel(level model.Vector3)
	ActivateS4RCS()
	DeactivateS4RCS()
}

// LaunchVehicle is the vehicle the IU commands over LV_IU_COMMAND.
type LaunchVehicle interface {
	VehicleState
	VehicleFrames
	Propulsion
	Navigation
}

// CommandModule is the CSM as seen by the IU: panel switches, lights and
// the TLI sound cues.
type CommandModule interface {
	SIISIVBSepSwitchState() int
	TLIEnableSwitchState() int

	SetSIISep()
	ClearSIISep()
	SetEngineIndicator(engine int)
	ClearEngineIndicator(engine int)

	SlowIfDesired()

	LoadTLISounds()
	PlayCountSound(start bool)
	PlaySecoSound(start bool)
	PlaySepsSound(start bool)
	PlayTLISound(start bool)
	PlayTLIStartSound(start bool)
	ClearTLISounds()
}

// GuidanceComputer is the CSM's AGC.
type GuidanceComputer interface {
	IsVirtualAGC() bool
	SetOutputChannel(channel, value int)
}
