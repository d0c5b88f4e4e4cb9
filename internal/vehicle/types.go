package vehicle

import "fmt"

// Range is a closed numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within [Min, Max]. NaN is never contained.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("between %g and %g", r.Min, r.Max)
}

var (
	CoordRange        = Range{Min: -1000, Max: 1000}
	DepthRange        = Range{Min: 0, Max: 200}
	ToleranceRange    = Range{Min: 0.1, Max: 10}
	TransitSpeedRange = Range{Min: 0.1, Max: 5.0}
	MainLightRange    = Range{Min: 0, Max: 100}
)

type Action string

const (
	ActionNone       Action = "none"
	ActionInspect    Action = "inspect"
	ActionSample     Action = "sample"
	ActionPhotograph Action = "photograph"
	ActionSearch     Action = "search"
)

var Actions = []Action{ActionNone, ActionInspect, ActionSample, ActionPhotograph, ActionSearch}

type CameraMode string

const (
	CameraOff   CameraMode = "off"
	CameraPhoto CameraMode = "photo"
	CameraVideo CameraMode = "video"
	CameraScan  CameraMode = "scan"
)

var CameraModes = []CameraMode{CameraOff, CameraPhoto, CameraVideo, CameraScan}

type SensorPackage string

const (
	SensorsBasic       SensorPackage = "basic"
	SensorsFull        SensorPackage = "full"
	SensorsEnvironment SensorPackage = "environment"
)

var SensorPackages = []SensorPackage{SensorsBasic, SensorsFull, SensorsEnvironment}

type OperationMode string

const (
	ModeTransit      OperationMode = "transit"
	ModeSearch       OperationMode = "search"
	ModeInspection   OperationMode = "inspection"
	ModeManipulation OperationMode = "manipulation"
)

var OperationModes = []OperationMode{ModeTransit, ModeSearch, ModeInspection, ModeManipulation}

// ReplanObstacleDetected is always present in the default replan conditions.
const ReplanObstacleDetected = "obstacle_detected"

// NavigationTarget is one waypoint, relative to the mission start.
type NavigationTarget struct {
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Depth     float64 `json:"depth" yaml:"depth"`
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
	Action    Action  `json:"action" yaml:"action"`
}

// ElectricalConfig holds subsystem toggles.
type ElectricalConfig struct {
	MainLight     int           `json:"main_light" yaml:"main_light"`
	UVLight       bool          `json:"uv_light" yaml:"uv_light"`
	CameraMode    CameraMode    `json:"camera_mode" yaml:"camera_mode"`
	SonarActive   bool          `json:"sonar_active" yaml:"sonar_active"`
	SensorPackage SensorPackage `json:"sensor_package" yaml:"sensor_package"`
}

// Config is the root mission document handed to the vehicle.
// Target order is execution order.
type Config struct {
	TargetSequence   []NavigationTarget `json:"target_sequence" yaml:"target_sequence"`
	Electrical       ElectricalConfig   `json:"electrical" yaml:"electrical"`
	TransitSpeed     float64            `json:"transit_speed" yaml:"transit_speed"`
	OperationMode    OperationMode      `json:"operation_mode" yaml:"operation_mode"`
	ReplanConditions []string           `json:"replan_conditions" yaml:"replan_conditions"`
}

func DefaultNavigationTarget() NavigationTarget {
	return NavigationTarget{
		X:         0,
		Y:         0,
		Depth:     10,
		Tolerance: 1,
		Action:    ActionNone,
	}
}

func DefaultElectricalConfig() ElectricalConfig {
	return ElectricalConfig{
		MainLight:     70,
		UVLight:       false,
		CameraMode:    CameraVideo,
		SonarActive:   true,
		SensorPackage: SensorsBasic,
	}
}

// Default returns the all-defaults document. It satisfies every constraint.
func Default() Config {
	return Config{
		TargetSequence:   []NavigationTarget{},
		Electrical:       DefaultElectricalConfig(),
		TransitSpeed:     1.5,
		OperationMode:    ModeTransit,
		ReplanConditions: []string{ReplanObstacleDetected},
	}
}

// Clone returns a deep copy so that callers never share slices with a held document.
func (c Config) Clone() Config {
	out := c
	out.TargetSequence = make([]NavigationTarget, len(c.TargetSequence))
	copy(out.TargetSequence, c.TargetSequence)
	out.ReplanConditions = make([]string, len(c.ReplanConditions))
	copy(out.ReplanConditions, c.ReplanConditions)
	return out
}

func oneOf[T ~string](v T, set []T) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

func names[T ~string](set []T) []string {
	out := make([]string, len(set))
	for i, s := range set {
		out[i] = string(s)
	}
	return out
}
