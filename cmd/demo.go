package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/auv-mission-bridge/internal/mission"
	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the sample mission sequence",
	Long: `Demo feeds three canned operator commands through the pipeline. After
each one the simulated vehicle position moves to the last target of the
returned configuration.`,
	RunE: runDemo,
}

var demoCommands = []string{
	"Inspect wreck at (50,-30) then sample sediment at (100,-50)",
	"Search for marine life in 100m radius",
	"Take photos of coral at current position",
}

func demoSensors() map[string]any {
	return map[string]any{
		"position":    map[string]any{"x": 0.0, "y": 0.0, "depth": 5.0},
		"battery":     95,
		"obstacles":   []any{},
		"temperature": 12.5,
	}
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}
	return runMissions(cmd.Context(), p.service, demoCommands, demoSensors(), cmd.OutOrStdout())
}

func runMissions(ctx context.Context, gen mission.Generator, commands []string, sensors map[string]any, out io.Writer) error {
	for i, command := range commands {
		fmt.Fprintf(out, "\n=== Mission %d: %s ===\n", i+1, command)

		cfg := gen.Generate(ctx, sensors, command)

		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))

		advance(sensors, cfg)
	}
	return nil
}

// advance moves the simulated position to the last target, if any.
func advance(sensors map[string]any, cfg vehicle.Config) {
	if len(cfg.TargetSequence) == 0 {
		return
	}
	last := cfg.TargetSequence[len(cfg.TargetSequence)-1]
	sensors["position"] = map[string]any{
		"x":     last.X,
		"y":     last.Y,
		"depth": last.Depth,
	}
}
