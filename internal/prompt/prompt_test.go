package prompt

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

func sampleSensors() map[string]any {
	return map[string]any{
		"position":    map[string]any{"x": 0, "y": 0, "depth": 5},
		"battery":     95,
		"obstacles":   []any{},
		"temperature": 12.5,
	}
}

func section(t *testing.T, payload, header, next string) string {
	t.Helper()
	start := strings.Index(payload, header)
	require.NotEqual(t, -1, start, "missing %q", header)
	rest := payload[start+len(header):]
	end := strings.Index(rest, next)
	require.NotEqual(t, -1, end, "missing %q", next)
	return strings.TrimSpace(rest[:end])
}

func TestBuild_Deterministic(t *testing.T) {
	a, err := Build(sampleSensors(), "Inspect wreck at (50,-30)")
	require.NoError(t, err)

	// same content, different map construction order
	reordered := map[string]any{}
	reordered["temperature"] = 12.5
	reordered["obstacles"] = []any{}
	reordered["battery"] = 95
	reordered["position"] = map[string]any{"depth": 5, "y": 0, "x": 0}

	b, err := Build(reordered, "Inspect wreck at (50,-30)")
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("prompts differ (-first +second):\n%s", diff)
	}
}

func TestBuild_Sections(t *testing.T) {
	cmd := `Take photos of coral <near> "the ridge" & return`
	p, err := Build(sampleSensors(), cmd)
	require.NoError(t, err)

	sensors := section(t, p, "### SENSOR DATA:\n", "### USER COMMAND:")
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(sensors), &decoded))
	assert.Equal(t, 12.5, decoded["temperature"])
	assert.Equal(t, 95.0, decoded["battery"])

	assert.Equal(t, cmd, section(t, p, "### USER COMMAND:\n", "### OUTPUT REQUIREMENTS:"))

	assert.Contains(t, p, vehicle.DescribeJSON())
	assert.Contains(t, p, "Output MUST be raw JSON only")
	for _, b := range vehicle.SafetyBounds() {
		assert.Contains(t, p, b)
	}
	assert.True(t, strings.HasSuffix(p, "### YOUR RESPONSE (JSON ONLY):\n"))
}

func TestBuild_ExampleIsValid(t *testing.T) {
	p, err := Build(sampleSensors(), "anything")
	require.NoError(t, err)

	example := section(t, p, "### EXAMPLE OUTPUT:\n", "### YOUR RESPONSE")
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(example), &raw))

	cfg, err := vehicle.ParseConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, vehicle.Example(), cfg)
}

func TestBuild_UnserializableSensors(t *testing.T) {
	_, err := Build(map[string]any{"depth": math.Inf(1)}, "go")
	assert.Error(t, err)

	_, err = Build(map[string]any{"feed": make(chan int)}, "go")
	assert.Error(t, err)
}

func TestBuild_NilSensors(t *testing.T) {
	p, err := Build(nil, "hold position")
	require.NoError(t, err)
	assert.Equal(t, "null", section(t, p, "### SENSOR DATA:\n", "### USER COMMAND:"))
}
