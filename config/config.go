package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wuzhjian/compass/model"
	"github.com/wuzhjian/compass/util"
)

// Config holds user-configurable thresholds and defaults.
type Config struct {
	Thresholds model.DetectorConfig `yaml:"thresholds"`
	Language   string               `yaml:"language"`
	Parallel   bool                 `yaml:"parallel"`
	Source     SourceConfig         `yaml:"source"`
}

// SourceConfig says where detector results are read from.
type SourceConfig struct {
	Input  string `yaml:"input,omitempty"`
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
	Table  string `yaml:"table,omitempty"`
}

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DefaultTable is the detector results table read by the SQL source.
const DefaultTable = "detector_results"

// Default returns a config with sensible defaults.
func Default() Config {
	return Config{
		Thresholds: model.DefaultDetectorConfig(),
		Language:   "en",
		Source: SourceConfig{
			Driver: DriverSQLite,
			Table:  DefaultTable,
		},
	}
}

// Path returns ~/.config/compass/config.yaml (or under XDG_CONFIG_HOME).
// Returns empty string if home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "compass", "config.yaml")
}

// Load reads the config at path, or at Path() when path is empty. A missing
// file yields the defaults. Keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
		if path == "" {
			return cfg, nil
		}
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, or to Path() when path is empty.
func Save(path string, cfg Config) error {
	if path == "" {
		path = Path()
	}
	if path == "" {
		return errors.New("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks thresholds, language and source settings.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	switch c.Source.Driver {
	case "", DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("source.driver %q: want %s or %s", c.Source.Driver, DriverSQLite, DriverPostgres)
	}
	if c.Source.Table != "" && !validIdent(c.Source.Table) {
		return fmt.Errorf("source.table %q: not a plain identifier", c.Source.Table)
	}
	return nil
}

// thresholdKeys maps dotted override keys to the field they set.
func thresholdKeys(t *model.DetectorConfig) map[string]*float64 {
	return map[string]*float64{
		"mr_memory_waste.map_threshold":    &t.MRMemWaste.MapThreshold,
		"mr_memory_waste.reduce_threshold": &t.MRMemWaste.ReduceThreshold,
		"memory_waste.threshold":           &t.MemWaste.Threshold,
		"cpu_waste.executor_threshold":     &t.CPUWaste.ExecutorThreshold,
		"cpu_waste.driver_threshold":       &t.CPUWaste.DriverThreshold,
	}
}

// ThresholdKeys lists the keys accepted by ApplyOverrides.
func ThresholdKeys() []string {
	var t model.DetectorConfig
	keys := make([]string, 0, 5)
	for k := range thresholdKeys(&t) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplyOverrides sets thresholds from "key=value" lines such as
// "mr_memory_waste.map_threshold=40" or "cpu_waste.driver_threshold: 90%".
func (c *Config) ApplyOverrides(lines []string) error {
	fields := thresholdKeys(&c.Thresholds)
	for key, raw := range util.ParseKeyValueLines(lines) {
		dst, ok := fields[key]
		if !ok {
			return fmt.Errorf("unknown threshold %q (known: %s)", key, strings.Join(ThresholdKeys(), ", "))
		}
		v, err := util.ParseFloat64(raw)
		if err != nil {
			return fmt.Errorf("threshold %s: %w", key, err)
		}
		*dst = v
	}
	return c.Thresholds.Validate()
}

func validIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		case r == '.' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
