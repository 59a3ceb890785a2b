// Package config loads the YAML engine configuration: the simulation
// window, trial size, seed, and ELCC solver knobs, with a
// Load/LoadUnchecked/Validate split so partial configs can still be parsed
// for inspection.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brianmickel/adequacy/internal/elcc"
	"github.com/brianmickel/adequacy/internal/metrics"
	"github.com/brianmickel/adequacy/internal/simulator"
)

// EngineConfig is the on-disk configuration shape (YAML).
type EngineConfig struct {
	Window    WindowConfig `yaml:"window"`
	TrialSize int          `yaml:"trial_size"`
	Seed      int64        `yaml:"seed"`
	ELCC      ELCCConfig   `yaml:"elcc"`
}

type WindowConfig struct {
	StartHour time.Time `yaml:"start_hour"`
	EndHour   time.Time `yaml:"end_hour"`
}

type ELCCConfig struct {
	Metric    string  `yaml:"metric"`
	Precision float64 `yaml:"precision"`
	MaxIters  int     `yaml:"max_iters"`
	Tolerance float64 `yaml:"tolerance"`
}

// Load reads path and validates the result.
func Load(path string) (*EngineConfig, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads and parses path without validating it, useful for
// debugging or printing partial configs.
func LoadUnchecked(path string) (*EngineConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c EngineConfig
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if c.ELCC.Precision == 0 {
		c.ELCC.Precision = 0.01
	}
	if c.ELCC.MaxIters == 0 {
		c.ELCC.MaxIters = 20
	}
	if c.ELCC.Metric == "" {
		c.ELCC.Metric = "eue"
	}
	return &c, nil
}

func (c *EngineConfig) Validate() error {
	if c == nil {
		return errors.New("config: nil")
	}
	if err := c.SimulatorConfig().Validate(); err != nil {
		return fmt.Errorf("config: window/trial_size invalid: %w", err)
	}
	if _, err := c.MetricKind(); err != nil {
		return err
	}
	return nil
}

// MetricKind parses the configured metric name into a metrics.Kind.
func (c EngineConfig) MetricKind() (metrics.Kind, error) {
	switch c.ELCC.Metric {
	case "eue":
		return metrics.EUE, nil
	case "lolh":
		return metrics.LOLH, nil
	case "lold":
		return metrics.LOLD, nil
	case "lolf":
		return metrics.LOLF, nil
	default:
		return 0, fmt.Errorf("config: unknown elcc.metric %q", c.ELCC.Metric)
	}
}

// SimulatorConfig converts the loaded window/trial/seed into a
// simulator.Config template.
func (c EngineConfig) SimulatorConfig() simulator.Config {
	return simulator.Config{
		StartHour: c.Window.StartHour,
		EndHour:   c.Window.EndHour,
		TrialSize: c.TrialSize,
		Seed:      c.Seed,
	}
}

// SolverOptions converts the loaded ELCC knobs into elcc.Options.
func (c EngineConfig) SolverOptions() elcc.Options {
	return elcc.Options{
		Precision: c.ELCC.Precision,
		MaxIters:  c.ELCC.MaxIters,
		Tolerance: c.ELCC.Tolerance,
	}
}
