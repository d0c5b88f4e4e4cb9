package vehicle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Describe returns a JSON-Schema style description of the Config shape with
// bounds, enumerations and defaults. Maps marshal with sorted keys, so the
// rendered form is stable.
func Describe() map[string]any {
	def := Default()
	target := DefaultNavigationTarget()
	electrical := DefaultElectricalConfig()

	return map[string]any{
		"title": "VehicleConfig",
		"type":  "object",
		"properties": map[string]any{
			"target_sequence": map[string]any{
				"type":        "array",
				"description": "Ordered list of navigation targets",
				"items":       map[string]any{"$ref": "#/$defs/NavigationTarget"},
				"default":     []any{},
			},
			"electrical": map[string]any{
				"$ref":        "#/$defs/ElectricalConfig",
				"description": "Electrical system configuration",
			},
			"transit_speed":  numberProp(TransitSpeedRange, def.TransitSpeed, "m/s"),
			"operation_mode": enumProp(names(OperationModes), string(def.OperationMode)),
			"replan_conditions": map[string]any{
				"type":        "array",
				"description": "Events triggering replanning",
				"items":       map[string]any{"type": "string"},
				"default":     def.ReplanConditions,
			},
		},
		"$defs": map[string]any{
			"NavigationTarget": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"x":         numberProp(CoordRange, target.X, "meters relative to start"),
					"y":         numberProp(CoordRange, target.Y, "meters relative to start"),
					"depth":     numberProp(DepthRange, target.Depth, "meters"),
					"tolerance": numberProp(ToleranceRange, target.Tolerance, "arrival radius in meters"),
					"action":    enumProp(names(Actions), string(target.Action)),
				},
			},
			"ElectricalConfig": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"main_light": map[string]any{
						"type":        "integer",
						"minimum":     MainLightRange.Min,
						"maximum":     MainLightRange.Max,
						"default":     electrical.MainLight,
						"description": "intensity percent",
					},
					"uv_light":       map[string]any{"type": "boolean", "default": electrical.UVLight},
					"camera_mode":    enumProp(names(CameraModes), string(electrical.CameraMode)),
					"sonar_active":   map[string]any{"type": "boolean", "default": electrical.SonarActive},
					"sensor_package": enumProp(names(SensorPackages), string(electrical.SensorPackage)),
				},
			},
		},
	}
}

// DescribeJSON renders Describe as indented JSON.
func DescribeJSON() string {
	b, _ := json.MarshalIndent(Describe(), "", "  ")
	return string(b)
}

// SafetyBounds lists the hard limits in plain language, one per line item.
func SafetyBounds() []string {
	return []string{
		fmt.Sprintf("x and y must be %s meters", CoordRange),
		fmt.Sprintf("depth must be %s meters", DepthRange),
		fmt.Sprintf("tolerance must be %s meters", ToleranceRange),
		fmt.Sprintf("transit_speed must be %s m/s", TransitSpeedRange),
		fmt.Sprintf("electrical.main_light must be an integer %s", MainLightRange),
		"action must be one of: " + strings.Join(names(Actions), ", "),
		"electrical.camera_mode must be one of: " + strings.Join(names(CameraModes), ", "),
		"electrical.sensor_package must be one of: " + strings.Join(names(SensorPackages), ", "),
		"operation_mode must be one of: " + strings.Join(names(OperationModes), ", "),
	}
}

// Example is a complete valid document used to show the expected output form.
func Example() Config {
	return Config{
		TargetSequence: []NavigationTarget{
			{X: 50, Y: -30, Depth: 25, Tolerance: 2, Action: ActionInspect},
			{X: 100, Y: 80, Depth: 150, Tolerance: 5, Action: ActionSample},
		},
		Electrical: ElectricalConfig{
			MainLight:     100,
			UVLight:       true,
			CameraMode:    CameraVideo,
			SonarActive:   true,
			SensorPackage: SensorsFull,
		},
		TransitSpeed:     2.5,
		OperationMode:    ModeSearch,
		ReplanConditions: []string{ReplanObstacleDetected, "current_change"},
	}
}

func numberProp(r Range, def float64, desc string) map[string]any {
	return map[string]any{
		"type":        "number",
		"minimum":     r.Min,
		"maximum":     r.Max,
		"default":     def,
		"description": desc,
	}
}

func enumProp(values []string, def string) map[string]any {
	return map[string]any{
		"type":    "string",
		"enum":    values,
		"default": def,
	}
}
