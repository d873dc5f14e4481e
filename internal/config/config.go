// Package config loads the optional YAML run configuration. Command-line
// flags override anything set here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Network holds the bind settings for the snapshot and control servers.
type Network struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"` // control API; websocket uses port+1, UDP port+2, SSE port+3
}

// RunConfig is the full configuration for a simulation run.
type RunConfig struct {
	Schedule     string  `yaml:"schedule"`      // path to the CSV schedule file
	Platforms    int     `yaml:"platforms"`     // platform count, clamped to [2,20] by the CLI
	Speed        int     `yaml:"speed"`         // one of 30, 60, 180
	StartTime    string  `yaml:"start_time"`    // "HH:MM"; empty means wall clock
	DwellTicks   int     `yaml:"dwell_ticks"`   // arrival/departure dwell in ticks
	Record       string  `yaml:"record"`        // NDJSON snapshot recording path
	Report       string  `yaml:"report"`        // report output file
	ReportFormat string  `yaml:"report_format"` // json, ndjson, or csv
	Network      Network `yaml:"network"`
}

// Default returns the configuration used when no file and no flags are given.
func Default() RunConfig {
	return RunConfig{
		Platforms:    2,
		Speed:        60,
		DwellTicks:   2,
		ReportFormat: "json",
		Network: Network{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8787,
		},
	}
}

// Load reads a YAML run configuration, layered over the defaults: fields the
// file omits keep their default values.
func Load(path string) (RunConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return cfg, nil
}
