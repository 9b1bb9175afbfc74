package protocol

// IULVMessage is the catalog of the LV_IU_COMMAND channel: commands and
// queries the Instrument Unit sends to the launch vehicle.
type IULVMessage int32

const (
	IULVGetJ2ThrustLevel IULVMessage = iota
	IULVGetStage
	IULVGetAltitude
	IULVGetPropellantMass
	IULVGetStatus
	IULVGetMass
	IULVGetGravityRef
	IULVGetApDist
	IULVGetMaxFuelMass
	IULVGetRelativePos
	IULVGetRelativeVel
	IULVGetGlobalVel
	IULVGetElements
	IULVGetPMI
	IULVGetSize
	IULVGetMaxThrust
	IULVLocal2Global
	IULVGetWeightVector
	IULVGetForceVector
	IULVGetRotationMatrix
	IULVActivateNavmode
	IULVDeactivateNavmode
	IULVJ2Done
	IULVSetJ2ThrustLevel
	IULVSetAPSThrustLevel
	IULVSetAttitudeLinLevel
	IULVSetAttitudeRotLevel
	IULVActivateS4RCS
	IULVDeactivateS4RCS
	IULVEnableJ2
)

var iulvNames = []string{
	"IULV_GET_J2_THRUST_LEVEL",
	"IULV_GET_STAGE",
	"IULV_GET_ALTITUDE",
	"IULV_GET_PROPELLANT_MASS",
	"IULV_GET_STATUS",
	"IULV_GET_MASS",
	"IULV_GET_GRAVITY_REF",
	"IULV_GET_AP_DIST",
	"IULV_GET_MAX_FUEL_MASS",
	"IULV_GET_RELATIVE_POS",
	"IULV_GET_RELATIVE_VEL",
	"IULV_GET_GLOBAL_VEL",
	"IULV_GET_ELEMENTS",
	"IULV_GET_PMI",
	"IULV_GET_SIZE",
	"IULV_GET_MAXTHRUST",
	"IULV_LOCAL2GLOBAL",
	"IULV_GET_WEIGHTVECTOR",
	"IULV_GET_FORCEVECTOR",
	"IULV_GET_ROTATIONMATRIX",
	"IULV_ACTIVATE_NAVMODE",
	"IULV_DEACTIVATE_NAVMODE",
	"IULV_J2_DONE",
	"IULV_SET_J2_THRUST_LEVEL",
	"IULV_SET_APS_THRUST_LEVEL",
	"IULV_SET_ATTITUDE_LIN_LEVEL",
	"IULV_SET_ATTITUDE_ROT_LEVEL",
	"IULV_ACTIVATE_S4RCS",
	"IULV_DEACTIVATE_S4RCS",
	"IULV_ENABLE_J2",
}

func (m IULVMessage) String() string {
	return catalogName(iulvNames, "IULV", int32(m))
}

// ParseIULVMessage maps a catalog name back to its value.
func ParseIULVMessage(name string) (IULVMessage, error) {
	code, err := parseCatalog(iulvNames, "IULV", name)
	return IULVMessage(code), err
}

// IULVMessages lists the whole catalog in wire order.
func IULVMessages() []IULVMessage {
	out := make([]IULVMessage, len(iulvNames))
	for i := range out {
		out[i] = IULVMessage(i)
	}
	return out
}
