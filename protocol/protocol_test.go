package protocol

import "testing"

// The numeric tags are a persisted contract; these pin a few of them.
func TestCatalogValuesAreStable(t *testing.T) {
	cases := []struct {
		name string
		got  int32
		want int32
	}{
		{"NO_CONNECTOR", int32(NoConnector), 0},
		{"CSM_IU_COMMAND", int32(CSMIUCommand), 2},
		{"LV_IU_COMMAND", int32(LVIUCommand), 3},
		{"CSM_SIVB_COMMAND", int32(CSMSIVBCommand), 4},
		{"IULV_GET_J2_THRUST_LEVEL", int32(IULVGetJ2ThrustLevel), 0},
		{"IULV_GET_STAGE", int32(IULVGetStage), 1},
		{"IULV_J2_DONE", int32(IULVJ2Done), 22},
		{"IULV_ENABLE_J2", int32(IULVEnableJ2), 29},
		{"IUCSM_SET_ENGINE_INDICATOR", int32(IUCSMSetEngineIndicator), 5},
		{"IUCSM_CLEAR_TLI_SOUNDS", int32(IUCSMClearTLISounds), 13},
		{"CSMIU_CHANNEL_OUTPUT", int32(CSMIUChannelOutput), 4},
		{"CSMSIVB_STOP_VENTING", int32(CSMSIVBStopVenting), 6},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

func TestCatalogNamesCoverEveryValue(t *testing.T) {
	if got := len(IULVMessages()); got != int(IULVEnableJ2)+1 {
		t.Fatalf("IULV catalog has %d names, want %d", got, int(IULVEnableJ2)+1)
	}
	if got := len(IUCSMMessages()); got != int(IUCSMClearTLISounds)+1 {
		t.Fatalf("IUCSM catalog has %d names, want %d", got, int(IUCSMClearTLISounds)+1)
	}
	if got := len(CSMIUMessages()); got != int(CSMIUChannelOutput)+1 {
		t.Fatalf("CSMIU catalog has %d names, want %d", got, int(CSMIUChannelOutput)+1)
	}
	if got := len(CSMSIVBMessages()); got != int(CSMSIVBStopVenting)+1 {
		t.Fatalf("CSMSIVB catalog has %d names, want %d", got, int(CSMSIVBStopVenting)+1)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, m := range IULVMessages() {
		got, err := ParseIULVMessage(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseIULVMessage(%q) = %v, %v; want %v", m.String(), got, err, m)
		}
	}
	if got, err := ParseCSMSIVBMessage("csmsivb_is_venting"); err != nil || got != CSMSIVBIsVenting {
		t.Fatalf("ParseCSMSIVBMessage lower-case = %v, %v", got, err)
	}
	if _, err := ParseIUCSMMessage("IUCSM_NOPE"); err == nil {
		t.Fatalf("expected error for unknown IUCSM name")
	}
	if got, err := ParseConnectorType("lv_iu_command"); err != nil || got != LVIUCommand {
		t.Fatalf("ParseConnectorType = %v, %v", got, err)
	}
}

func TestUnknownValuesFormatNumerically(t *testing.T) {
	if got := IULVMessage(99).String(); got != "IULV_99" {
		t.Fatalf("IULVMessage(99) = %q, want IULV_99", got)
	}
	if got := ConnectorType(42).String(); got != "CONNECTOR_42" {
		t.Fatalf("ConnectorType(42) = %q, want CONNECTOR_42", got)
	}
	if got := MessageName(DirectionCSMToIU, MessageType(CSMIUGetVesselMass)); got != "CSMIU_GET_VESSEL_MASS" {
		t.Fatalf("MessageName = %q", got)
	}
	if got := MessageName(DirectionUnknown, 7); got != "MESSAGE_7" {
		t.Fatalf("MessageName unknown = %q", got)
	}
}

func TestDirectionOf(t *testing.T) {
	if got := DirectionOf(IULVGetStage); got != DirectionIUToLV {
		t.Fatalf("DirectionOf(IULV) = %v", got)
	}
	if got := DirectionOf(IUCSMSlowIfDesired); got != DirectionIUToCSM {
		t.Fatalf("DirectionOf(IUCSM) = %v", got)
	}
	if got := DirectionOf(CSMIUIsTLICapable); got != DirectionCSMToIU {
		t.Fatalf("DirectionOf(CSMIU) = %v", got)
	}
	if got := DirectionOf(CSMSIVBIsVentable); got != DirectionCSMToSIVB {
		t.Fatalf("DirectionOf(CSMSIVB) = %v", got)
	}
}
