package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	generateCommand string
	generateSensors string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Produce one configuration from a command and a sensor snapshot",
	Long: `Generate sends a single operator command to the model and prints the
resulting configuration as JSON. The configuration printed is either the
validated model output or the current default.

--sensors accepts inline JSON or a path to a JSON file.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateCommand, "command", "c", "", "Operator command (required)")
	generateCmd.Flags().StringVarP(&generateSensors, "sensors", "s", "{}", "Sensor snapshot as JSON or @file / file path")
	_ = generateCmd.MarkFlagRequired("command")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	sensors, err := readSensors(generateSensors)
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}

	out := p.service.Generate(cmd.Context(), sensors, generateCommand)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// readSensors accepts inline JSON, "@path" or a bare file path.
func readSensors(arg string) (map[string]any, error) {
	arg = strings.TrimSpace(arg)
	data := []byte(arg)
	if !strings.HasPrefix(arg, "{") {
		path := strings.TrimPrefix(arg, "@")
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read sensors: %w", err)
		}
		data = b
	}

	var sensors map[string]any
	if err := json.Unmarshal(data, &sensors); err != nil {
		return nil, fmt.Errorf("parse sensors: %w", err)
	}
	return sensors, nil
}
