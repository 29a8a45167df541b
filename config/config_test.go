package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuzhjian/compass/model"
)

func TestPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "compass", "config.yaml"), Path())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
thresholds:
  mr_memory_waste:
    map_threshold: 20
language: zh
source:
  driver: pgx
  dsn: postgres://localhost/compass
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Thresholds.MRMemWaste.MapThreshold)
	assert.Equal(t, 50.0, cfg.Thresholds.MRMemWaste.ReduceThreshold, "unset keys keep defaults")
	assert.Equal(t, 95.0, cfg.Thresholds.CPUWaste.DriverThreshold)
	assert.Equal(t, "zh", cfg.Language)
	assert.Equal(t, DriverPostgres, cfg.Source.Driver)
	assert.Equal(t, DefaultTable, cfg.Source.Table)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"bad yaml", "thresholds: [", nil},
		{"threshold out of range", "thresholds:\n  memory_waste:\n    threshold: 150\n", model.ErrInvalidThreshold},
		{"unknown driver", "source:\n  driver: oracle\n", nil},
		{"table injection", "source:\n  table: \"x; drop table y\"\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0600))

			_, err := Load(path)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Parallel = true
	cfg.Thresholds.CPUWaste.ExecutorThreshold = 33

	require.NoError(t, Save(path, cfg))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyOverrides([]string{
		"mr_memory_waste.map_threshold=40",
		"cpu_waste.driver_threshold: 90%",
		"# comment",
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.Thresholds.MRMemWaste.MapThreshold)
	assert.Equal(t, 90.0, cfg.Thresholds.CPUWaste.DriverThreshold)

	tests := []struct {
		name string
		line string
	}{
		{"unknown key", "gc.threshold=1"},
		{"not a number", "memory_waste.threshold=lots"},
		{"out of range", "memory_waste.threshold=101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, cfg.ApplyOverrides([]string{tt.line}))
		})
	}
}

func TestThresholdKeys(t *testing.T) {
	assert.Equal(t, []string{
		"cpu_waste.driver_threshold",
		"cpu_waste.executor_threshold",
		"memory_waste.threshold",
		"mr_memory_waste.map_threshold",
		"mr_memory_waste.reduce_threshold",
	}, ThresholdKeys())
}
