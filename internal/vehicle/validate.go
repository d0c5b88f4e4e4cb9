package vehicle

import (
	"fmt"
	"strings"
)

// Validate checks an already typed document against the same constraints
// ParseConfig enforces. Used for documents that did not come from raw data,
// such as operator overrides built in code.
func Validate(cfg Config) error {
	for i, t := range cfg.TargetSequence {
		path := fmt.Sprintf("target_sequence[%d]", i)
		if err := checkRange(fieldPath(path, "x"), t.X, CoordRange); err != nil {
			return err
		}
		if err := checkRange(fieldPath(path, "y"), t.Y, CoordRange); err != nil {
			return err
		}
		if err := checkRange(fieldPath(path, "depth"), t.Depth, DepthRange); err != nil {
			return err
		}
		if err := checkRange(fieldPath(path, "tolerance"), t.Tolerance, ToleranceRange); err != nil {
			return err
		}
		if err := checkEnum(fieldPath(path, "action"), t.Action, Actions); err != nil {
			return err
		}
	}

	e := cfg.Electrical
	if err := checkRange("electrical.main_light", float64(e.MainLight), MainLightRange); err != nil {
		return err
	}
	if err := checkEnum("electrical.camera_mode", e.CameraMode, CameraModes); err != nil {
		return err
	}
	if err := checkEnum("electrical.sensor_package", e.SensorPackage, SensorPackages); err != nil {
		return err
	}

	if err := checkRange("transit_speed", cfg.TransitSpeed, TransitSpeedRange); err != nil {
		return err
	}
	if err := checkEnum("operation_mode", cfg.OperationMode, OperationModes); err != nil {
		return err
	}
	if cfg.TargetSequence == nil {
		return violation("target_sequence", nil, "array")
	}
	if cfg.ReplanConditions == nil {
		return violation("replan_conditions", nil, "array")
	}
	return nil
}

func checkRange(field string, v float64, r Range) error {
	if !r.Contains(v) {
		return violation(field, v, r.String())
	}
	return nil
}

func checkEnum[T ~string](field string, v T, set []T) error {
	if !oneOf(v, set) {
		return violation(field, string(v), "one of "+strings.Join(names(set), ", "))
	}
	return nil
}
