// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so intervals can be written as "500ms" or "2s" in YAML.
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Engine describes how the simulation engine subprocess is launched and stopped.
type Engine struct {
	Command      string   `yaml:"command"`
	Args         []string `yaml:"args"`
	StartTimeout Duration `yaml:"start_timeout"`
	StopTimeout  Duration `yaml:"stop_timeout"`
}

// PanelConfig is the root configuration for the operator panel.
type PanelConfig struct {
	Endpoint     string   `yaml:"endpoint"`
	PollInterval Duration `yaml:"poll_interval"`
	ProjectRoot  string   `yaml:"project_root"`
	ScenarioDir  string   `yaml:"scenario_dir"`
	Engine       Engine   `yaml:"engine"`
}

// Default returns the configuration used when no config file is present.
func Default() *PanelConfig {
	return &PanelConfig{
		Endpoint:     "http://127.0.0.1:9000",
		PollInterval: Duration(time.Second),
		ProjectRoot:  ".",
		ScenarioDir:  "simulator/configs",
		Engine: Engine{
			Command:      "cargo",
			Args:         []string{"run", "--bin", "simulator", "--", "--serve"},
			StartTimeout: Duration(3 * time.Second),
			StopTimeout:  Duration(2 * time.Second),
		},
	}
}

// Load loads YAML config and validates it against a CUE schema.
// A missing config file yields the defaults.
func Load(configPath, cueSchemaPath string) (*PanelConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
