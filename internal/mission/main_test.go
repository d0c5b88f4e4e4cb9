package mission

import (
	"context"
	"strings"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// TEST DOUBLES
// =============================================================================

// fakeAI returns canned completions, keyed by command when byCommand is set.
type fakeAI struct {
	mu        sync.Mutex
	raw       string
	err       error
	block     bool
	byCommand map[string]string
	prompts   []string
}

func (f *fakeAI) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	for cmd, raw := range f.byCommand {
		if containsLine(prompt, cmd) {
			return raw, nil
		}
	}
	return f.raw, nil
}

func (f *fakeAI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func containsLine(s, line string) bool {
	for _, l := range strings.Split(s, "\n") {
		if l == line {
			return true
		}
	}
	return false
}

// memDefaults is an in-memory DefaultsWriter.
type memDefaults struct {
	mu      sync.Mutex
	cfg     vehicle.Config
	failErr error
}

func newMemDefaults(cfg vehicle.Config) *memDefaults {
	return &memDefaults{cfg: cfg}
}

func (m *memDefaults) Current() vehicle.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Clone()
}

func (m *memDefaults) Replace(cfg vehicle.Config) error {
	if m.failErr != nil {
		return m.failErr
	}
	if err := vehicle.Validate(cfg); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg.Clone()
	return nil
}

// customDefault differs from vehicle.Default in every top-level field.
func customDefault() vehicle.Config {
	return vehicle.Config{
		TargetSequence: []vehicle.NavigationTarget{
			{X: 0, Y: 0, Depth: 2, Tolerance: 0.5, Action: vehicle.ActionNone},
		},
		Electrical: vehicle.ElectricalConfig{
			MainLight:     20,
			UVLight:       false,
			CameraMode:    vehicle.CameraOff,
			SonarActive:   true,
			SensorPackage: vehicle.SensorsEnvironment,
		},
		TransitSpeed:     0.5,
		OperationMode:    vehicle.ModeTransit,
		ReplanConditions: []string{"obstacle_detected", "low_battery"},
	}
}
