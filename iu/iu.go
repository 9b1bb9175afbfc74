// Package iu implements the Instrument Unit's endpoints: the LV_IU_COMMAND
// client that reads and steers the launch vehicle, and the CSM_IU_COMMAND
// endpoint that answers the CSM and drives its panel.
package iu

// InstrumentUnit is the IU as seen by the CSM.
type InstrumentUnit interface {
	IsTLICapable() bool
	VesselStats() (isp, thrust float64)
	VesselMass() float64
	VesselFuel() float64
	ChannelOutput(channel, value int)
}
