package sched

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// NotifyConfig selects how completion notices are delivered.
type NotifyConfig struct {
	Mode   string `yaml:"mode"`   // "sync" (by default) or "async"
	Buffer int    `yaml:"buffer"` // async backlog size, 64 (by default)
}

// LogConfig mirrors the log section.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Config mirrors config.yml
type Config struct {
	TickMS    int          `yaml:"tick_ms"`        // 100 (by default)
	Policy    string       `yaml:"policy"`         // rr, sjf or mlfq
	QuantumMS int          `yaml:"rr_quantum_ms"`  // 500 (by default)
	SlicesMS  []int        `yaml:"mlfq_slices_ms"` // [500, 1000, 2000] (by default)
	Notify    NotifyConfig `yaml:"notify"`
	Log       LogConfig    `yaml:"log"`
	CSVPath   string       `yaml:"csv_path"`  // empty disables the CSV event log
	Realtime  bool         `yaml:"realtime"`  // pace ticks with the wall clock
	MaxTicks  int          `yaml:"max_ticks"` // 0 means unlimited
}

const (
	NotifySync  = "sync"
	NotifyAsync = "async"
)

// DefaultConfig is used when no config file is found.
func DefaultConfig() Config {
	return Config{
		TickMS:    100,
		Policy:    PolicyRR,
		QuantumMS: DefaultQuantumMS,
		SlicesMS:  []int{500, 1000, 2000},
		Notify:    NotifyConfig{Mode: NotifySync, Buffer: 64},
		Log:       LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads YAML and overrides defaults; empty path or missing file = defaults only.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse applies YAML data on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}
	cfg.clamp()
	return cfg, cfg.Validate()
}

// sanity clamps
func (c *Config) clamp() {
	def := DefaultConfig()
	if c.TickMS <= 0 {
		c.TickMS = def.TickMS
	}
	if c.QuantumMS <= 0 {
		c.QuantumMS = def.QuantumMS
	}
	if len(c.SlicesMS) == 0 {
		c.SlicesMS = def.SlicesMS
	}
	if c.Notify.Buffer <= 0 {
		c.Notify.Buffer = def.Notify.Buffer
	}
	if c.Notify.Mode == "" {
		c.Notify.Mode = def.Notify.Mode
	}
	if c.Policy == "" {
		c.Policy = def.Policy
	}
	if c.MaxTicks < 0 {
		c.MaxTicks = 0
	}
	c.Policy = strings.ToLower(c.Policy)
	c.Notify.Mode = strings.ToLower(c.Notify.Mode)
}

// Validate reports settings that cannot be clamped into something sensible.
func (c Config) Validate() error {
	switch c.Policy {
	case PolicyRR, PolicySJF, PolicyMLFQ:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, c.Policy)
	}
	switch c.Notify.Mode {
	case NotifySync, NotifyAsync:
	default:
		return fmt.Errorf("unknown notify mode %q", c.Notify.Mode)
	}
	for i, s := range c.SlicesMS {
		if s <= 0 {
			return fmt.Errorf("mlfq_slices_ms[%d] must be positive, got %d", i, s)
		}
	}
	return nil
}
