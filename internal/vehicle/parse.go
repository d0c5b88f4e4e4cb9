package vehicle

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ParseConfig builds a Config from untyped decoded data (JSON or YAML).
// Absent or null fields resolve to their defaults, nested objects recursively.
// Unknown keys are ignored. The first violated constraint is returned as a
// *SchemaViolation and no partial document is produced.
func ParseConfig(raw map[string]any) (Config, error) {
	cfg := Default()

	items, err := list(raw, "target_sequence", "")
	if err != nil {
		return Config{}, err
	}
	if items != nil {
		cfg.TargetSequence = make([]NavigationTarget, 0, len(items))
		for i, item := range items {
			path := fmt.Sprintf("target_sequence[%d]", i)
			obj, ok := item.(map[string]any)
			if !ok {
				return Config{}, violation(path, item, "object")
			}
			t, err := ParseNavigationTarget(obj, path)
			if err != nil {
				return Config{}, err
			}
			cfg.TargetSequence = append(cfg.TargetSequence, t)
		}
	}

	electrical, err := object(raw, "electrical", "")
	if err != nil {
		return Config{}, err
	}
	if cfg.Electrical, err = ParseElectricalConfig(electrical, "electrical"); err != nil {
		return Config{}, err
	}

	if cfg.TransitSpeed, err = number(raw, "transit_speed", "", cfg.TransitSpeed, TransitSpeedRange); err != nil {
		return Config{}, err
	}
	if cfg.OperationMode, err = enum(raw, "operation_mode", "", cfg.OperationMode, OperationModes); err != nil {
		return Config{}, err
	}

	conditions, err := list(raw, "replan_conditions", "")
	if err != nil {
		return Config{}, err
	}
	if conditions != nil {
		cfg.ReplanConditions = make([]string, 0, len(conditions))
		for i, c := range conditions {
			s, ok := c.(string)
			if !ok {
				return Config{}, violation(fmt.Sprintf("replan_conditions[%d]", i), c, "string")
			}
			cfg.ReplanConditions = append(cfg.ReplanConditions, s)
		}
	}

	return cfg, nil
}

// ParseNavigationTarget validates a single waypoint. path prefixes field names
// in violations. A nil map yields the default target.
func ParseNavigationTarget(raw map[string]any, path string) (NavigationTarget, error) {
	t := DefaultNavigationTarget()
	var err error

	if t.X, err = number(raw, "x", path, t.X, CoordRange); err != nil {
		return NavigationTarget{}, err
	}
	if t.Y, err = number(raw, "y", path, t.Y, CoordRange); err != nil {
		return NavigationTarget{}, err
	}
	if t.Depth, err = number(raw, "depth", path, t.Depth, DepthRange); err != nil {
		return NavigationTarget{}, err
	}
	if t.Tolerance, err = number(raw, "tolerance", path, t.Tolerance, ToleranceRange); err != nil {
		return NavigationTarget{}, err
	}
	if t.Action, err = enum(raw, "action", path, t.Action, Actions); err != nil {
		return NavigationTarget{}, err
	}
	return t, nil
}

// ParseElectricalConfig validates the electrical block. A nil map yields defaults.
func ParseElectricalConfig(raw map[string]any, path string) (ElectricalConfig, error) {
	e := DefaultElectricalConfig()
	var err error

	if e.MainLight, err = integer(raw, "main_light", path, e.MainLight, MainLightRange); err != nil {
		return ElectricalConfig{}, err
	}
	if e.UVLight, err = boolean(raw, "uv_light", path, e.UVLight); err != nil {
		return ElectricalConfig{}, err
	}
	if e.CameraMode, err = enum(raw, "camera_mode", path, e.CameraMode, CameraModes); err != nil {
		return ElectricalConfig{}, err
	}
	if e.SonarActive, err = boolean(raw, "sonar_active", path, e.SonarActive); err != nil {
		return ElectricalConfig{}, err
	}
	if e.SensorPackage, err = enum(raw, "sensor_package", path, e.SensorPackage, SensorPackages); err != nil {
		return ElectricalConfig{}, err
	}
	return e, nil
}

func fieldPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// lookup returns the value and whether it is present and non-null.
func lookup(raw map[string]any, key string) (any, bool) {
	if raw == nil {
		return nil, false
	}
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func number(raw map[string]any, key, path string, def float64, r Range) (float64, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, violation(fieldPath(path, key), v, "number "+r.String())
	}
	if !r.Contains(f) {
		return 0, violation(fieldPath(path, key), v, r.String())
	}
	return f, nil
}

func integer(raw map[string]any, key, path string, def int, r Range) (int, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, violation(fieldPath(path, key), v, "integer "+r.String())
	}
	if !r.Contains(f) {
		return 0, violation(fieldPath(path, key), v, r.String())
	}
	return int(f), nil
}

func boolean(raw map[string]any, key, path string, def bool) (bool, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, violation(fieldPath(path, key), v, "boolean")
	}
	return b, nil
}

func enum[T ~string](raw map[string]any, key, path string, def T, set []T) (T, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok || !oneOf(T(s), set) {
		return "", violation(fieldPath(path, key), v, "one of "+strings.Join(names(set), ", "))
	}
	return T(s), nil
}

func object(raw map[string]any, key, path string) (map[string]any, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, violation(fieldPath(path, key), v, "object")
	}
	return m, nil
}

func list(raw map[string]any, key, path string) ([]any, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, violation(fieldPath(path, key), v, "array")
	}
	return l, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
