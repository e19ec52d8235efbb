package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squad-formation-sim/internal/simulation"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3600, cfg.Steps)
	assert.InDelta(t, 1.0/60, cfg.Dt, 1e-12)
	assert.Equal(t, "showcase.yaml", cfg.Scenario)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, 60, cfg.Window.TPS)
	assert.Equal(t, simulation.DefaultTuning(), cfg.Tuning)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	file := filepath.Join(dir, "squads.yaml")
	cfg := `
log_level: debug
steps: 120
scenario: scenarios/custom.yaml
window: {width: 1024}
tuning:
  max_speed: 120
  fast_check_intersection: true
  seed: 99
`
	require.NoError(t, os.WriteFile(file, []byte(cfg), 0644))

	got, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, 120, got.Steps)
	assert.Equal(t, "scenarios/custom.yaml", got.Scenario)
	assert.Equal(t, 1024, got.Window.Width)
	assert.Equal(t, 800, got.Window.Height)
	assert.Equal(t, 120.0, got.Tuning.MaxSpeed)
	assert.True(t, got.Tuning.FastCheckIntersection)
	assert.Equal(t, int64(99), got.Tuning.Seed)
	assert.Equal(t, simulation.DefaultTuning().Mass, got.Tuning.Mass)
}

func TestLoad_JSONConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	file := filepath.Join(dir, "squads.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"dt": 0.1, "tuning": {"wander_radius": 40}}`), 0644))

	got, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 0.1, got.Dt)
	assert.Equal(t, 40.0, got.Tuning.WanderRadius)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("SIMSQUAD_STEPS", "7")
	t.Setenv("SIMSQUAD_TUNING_MASS", "4")

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Steps)
	assert.Equal(t, 4.0, got.Tuning.Mass)
}

func TestLoad_Scale(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("scale", 2.0)

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, simulation.DefaultTuning().Scaled(2), got.Tuning)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load("/nonexistent/path/squads.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"dt", "dt", 0.0},
		{"steps", "steps", -1},
		{"scale", "scale", -2.0},
		{"mass", "tuning.mass", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			viper.Set(tt.key, tt.val)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)
	logger.Info().Msg("dropped")
	logger.Warn().Str("squad", "alpha").Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "squad=alpha")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
