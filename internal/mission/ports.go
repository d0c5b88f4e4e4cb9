package mission

import (
	"context"

	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

// Generator turns a command and sensor snapshot into a mission document.
// It always returns a valid document.
type Generator interface {
	Generate(ctx context.Context, sensors map[string]any, command string) vehicle.Config
}

// Defaults exposes the active fallback document. Current must return a copy.
type Defaults interface {
	Current() vehicle.Config
}

// DefaultsWriter lets operators replace the fallback document.
type DefaultsWriter interface {
	Defaults
	Replace(cfg vehicle.Config) error
}

// Outbound delivers an accepted document to a vehicle gateway.
type Outbound interface {
	Send(ctx context.Context, vehicleID string, cfg vehicle.Config) error
}
