package protocol

// IUCSMMessage is the catalog of messages the Instrument Unit sends to the
// CSM over the CSM_IU_COMMAND channel.
type IUCSMMessage int32

const (
	IUCSMIsVirtualAGC IUCSMMessage = iota
	IUCSMSetOutputChannel
	IUCSMGetSIISIVBSepSwitchState
	IUCSMGetTLIEnableSwitchState
	IUCSMSetSIISepLight
	IUCSMSetEngineIndicator
	IUCSMSlowIfDesired
	IUCSMLoadTLISounds
	IUCSMPlayCountSound
	IUCSMPlaySecoSound
	IUCSMPlaySepsSound
	IUCSMPlayTLISound
	IUCSMPlayTLIStartSound
	IUCSMClearTLISounds
)

var iucsmNames = []string{
	"IUCSM_IS_VIRTUAL_AGC",
	"IUCSM_SET_OUTPUT_CHANNEL",
	"IUCSM_GET_SIISIVBSEP_SWITCH_STATE",
	"IUCSM_GET_TLI_ENABLE_SWITCH_STATE",
	"IUCSM_SET_SII_SEP_LIGHT",
	"IUCSM_SET_ENGINE_INDICATOR",
	"IUCSM_SLOW_IF_DESIRED",
	"IUCSM_LOAD_TLI_SOUNDS",
	"IUCSM_PLAY_COUNT_SOUND",
	"IUCSM_PLAY_SECO_SOUND",
	"IUCSM_PLAY_SEPS_SOUND",
	"IUCSM_PLAY_TLI_SOUND",
	"IUCSM_PLAY_TLISTART_SOUND",
	"IUCSM_CLEAR_TLI_SOUNDS",
}

func (m IUCSMMessage) String() string {
	return catalogName(iucsmNames, "IUCSM", int32(m))
}

// ParseIUCSMMessage maps a catalog name back to its value.
func ParseIUCSMMessage(name string) (IUCSMMessage, error) {
	code, err := parseCatalog(iucsmNames, "IUCSM", name)
	return IUCSMMessage(code), err
}

// IUCSMMessages lists the whole catalog in wire order.
func IUCSMMessages() []IUCSMMessage {
	out := make([]IUCSMMessage, len(iucsmNames))
	for i := range out {
		out[i] = IUCSMMessage(i)
	}
	return out
}

// CSMIUMessage is the catalog of messages the CSM sends to the Instrument
// Unit over the CSM_IU_COMMAND channel.
type CSMIUMessage int32

const (
	CSMIUIsTLICapable CSMIUMessage = iota
	CSMIUGetVesselStats
	CSMIUGetVesselMass
	CSMIUGetVesselFuel
	CSMIUChannelOutput
)

var csmiuNames = []string{
	"CSMIU_IS_TLI_CAPABLE",
	"CSMIU_GET_VESSEL_STATS",
	"CSMIU_GET_VESSEL_MASS",
	"CSMIU_GET_VESSEL_FUEL",
	"CSMIU_CHANNEL_OUTPUT",
}

func (m CSMIUMessage) String() string {
	return catalogName(csmiuNames, "CSMIU", int32(m))
}

// ParseCSMIUMessage maps a catalog name back to its value.
func ParseCSMIUMessage(name string) (CSMIUMessage, error) {
	code, err := parseCatalog(csmiuNames, "CSMIU", name)
	return CSMIUMessage(code), err
}

// CSMIUMessages lists the whole catalog in wire order.
func CSMIUMessages() []CSMIUMessage {
	out := make([]CSMIUMessage, len(csmiuNames))
	for i := range out {
		out[i] = CSMIUMessage(i)
	}
	return out
}
