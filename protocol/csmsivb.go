package protocol

// CSMSIVBMessage is the catalog of the CSM_SIVB_COMMAND channel: queries and
// commands the CSM sends to the S-IVB stage.
type CSMSIVBMessage int32

const (
	CSMSIVBIsVentable CSMSIVBMessage = iota
	CSMSIVBIsVenting
	CSMSIVBGetVesselFuel
	CSMSIVBGetMainBatteryPower
	CSMSIVBGetMainBatteryElectrics
	CSMSIVBStartVenting
	CSMSIVBStopVenting
)

var csmsivbNames = []string{
	"CSMSIVB_IS_VENTABLE",
	"CSMSIVB_IS_VENTING",
	"CSMSIVB_GET_VESSEL_FUEL",
	"CSMSIVB_GET_MAIN_BATTERY_POWER",
	"CSMSIVB_GET_MAIN_BATTERY_ELECTRICS",
	"CSMSIVB_START_VENTING",
	"CSMSIVB_STOP_VENTING",
}

func (m CSMSIVBMessage) String() string {
	return catalogName(csmsivbNames, "CSMSIVB", int32(m))
}

// ParseCSMSIVBMessage maps a catalog name back to its value.
func ParseCSMSIVBMessage(name string) (CSMSIVBMessage, error) {
	code, err := parseCatalog(csmsivbNames, "CSMSIVB", name)
	return CSMSIVBMessage(code), err
}

// CSMSIVBMessages lists the whole catalog in wire order.
func CSMSIVBMessages() []CSMSIVBMessage {
	out := make([]CSMSIVBMessage, len(csmsivbNames))
	for i := range out {
		out[i] = CSMSIVBMessage(i)
	}
	return out
}
