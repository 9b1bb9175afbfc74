package model

// Handle identifies an entity owned by the host simulator (a vessel or a
// celestial body). The zero value means "no entity".
type Handle uint64

// NoHandle is the zero handle.
const NoHandle Handle = 0

// EngineType selects a thruster group when querying maximum thrust.
type EngineType int

const (
	EngineMain EngineType = iota
	EngineRetro
	EngineHover
	EngineAttitude
)

func (e EngineType) String() string {
	switch e {
	case EngineMain:
		return "main"
	case EngineRetro:
		return "retro"
	case EngineHover:
		return "hover"
	case EngineAttitude:
		return "attitude"
	default:
		return "unknown"
	}
}

// Stage is the vehicle's stage index as reported over the IU/LV channel.
type Stage int

const (
	NullStage Stage = iota
	PrelaunchStage
	LaunchStageOne
	LaunchStageTwo
	LaunchStageTwoISTGJet
	LaunchStageTwoTWRJet
	LaunchStageSIVB
	StageOrbitSIVB
	CSMLEMStage
)

func (s Stage) String() string {
	switch s {
	case NullStage:
		return "NULL_STAGE"
	case PrelaunchStage:
		return "PRELAUNCH_STAGE"
	case LaunchStageOne:
		return "LAUNCH_STAGE_ONE"
	case LaunchStageTwo:
		return "LAUNCH_STAGE_TWO"
	case LaunchStageTwoISTGJet:
		return "LAUNCH_STAGE_TWO_ISTG_JET"
	case LaunchStageTwoTWRJet:
		return "LAUNCH_STAGE_TWO_TWR_JET"
	case LaunchStageSIVB:
		return "LAUNCH_STAGE_SIVB"
	case StageOrbitSIVB:
		return "STAGE_ORBIT_SIVB"
	case CSMLEMStage:
		return "CSM_LEM_STAGE"
	default:
		return "UNKNOWN_STAGE"
	}
}

// VesselStatus is the host's snapshot of a vessel's state vector and
// engine settings.
type VesselStatus struct {
	RPos Vector3 // position relative to RBody (m)
	RVel Vector3 // velocity relative to RBody (m/s)
	VRot Vector3 // angular velocity (rad/s)
	ARot Vector3 // orientation, Euler angles (rad)

	Fuel     float64 // propellant level of the current tank, 0..1
	EngMain  float64 // main engine thrust level, 0..1
	EngHover float64 // hover engine thrust level, 0..1

	RBody Handle // reference body
	Base  Handle // landing base, when landed
	Port  int

	// Status is 0 when freeflight, 1 when landed.
	Status int
}

// Elements are classical osculating orbital elements relative to a
// reference body.
type Elements struct {
	SemiMajorAxis      float64 // a (m)
	Eccentricity       float64 // e
	Inclination        float64 // i (rad)
	AscendingNode      float64 // longitude of ascending node (rad)
	LongitudePeriapsis float64 // longitude of periapsis (rad)
	MeanLongitude      float64 // mean longitude at epoch (rad)
}
