// Package prompt renders sensor state and an operator command into the single
// instruction payload sent to the inference backend.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

// Build is a pure function of its inputs: identical sensors and command
// always produce a byte-identical payload. It fails only when the sensor
// document cannot be serialized as JSON.
func Build(sensors map[string]any, command string) (string, error) {
	sensorJSON, err := marshal(sensors)
	if err != nil {
		return "", fmt.Errorf("serialize sensor data: %w", err)
	}
	example, err := marshal(vehicle.Example())
	if err != nil {
		return "", fmt.Errorf("serialize example: %w", err)
	}

	bounds := make([]string, 0, len(vehicle.SafetyBounds()))
	for _, b := range vehicle.SafetyBounds() {
		bounds = append(bounds, "   - "+b)
	}

	var sb strings.Builder
	sb.WriteString(preamble)
	sb.WriteString("\n\n### SENSOR DATA:\n")
	sb.WriteString(sensorJSON)
	sb.WriteString("\n\n### USER COMMAND:\n")
	sb.WriteString(command)
	sb.WriteString("\n\n### OUTPUT REQUIREMENTS:\n")
	sb.WriteString(fmt.Sprintf(outputRules, vehicle.DescribeJSON(), strings.Join(bounds, "\n")))
	sb.WriteString("\n\n### EXAMPLE OUTPUT:\n")
	sb.WriteString(example)
	sb.WriteString("\n\n### YOUR RESPONSE (JSON ONLY):\n")
	return sb.String(), nil
}

func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
