package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-skylens/internal/astro"
	"github.com/litescript/ls-skylens/internal/fusion"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skylens.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.CatalogPath)
	assert.InDelta(t, astro.DefaultLatDeg, cfg.Observer.LatDeg, 1e-9)
	assert.InDelta(t, astro.DefaultLonDeg, cfg.Observer.LonDeg, 1e-9)
	assert.Equal(t, fusion.StrategyComplementary, cfg.Filter.Strategy)
	assert.InDelta(t, 0.85, cfg.Filter.Alpha, 1e-9)
	assert.True(t, cfg.Caps.Magnetometer)
	assert.True(t, cfg.Caps.Accelerometer)
	assert.True(t, cfg.Caps.Gyroscope)
	assert.False(t, cfg.Caps.Orientation)
	assert.Equal(t, 390.0, cfg.Viewport.Width)
	assert.Equal(t, 844.0, cfg.Viewport.Height)
	assert.Equal(t, 60.0, cfg.Viewport.FOVDeg)
	assert.Equal(t, 60.0, cfg.Matcher.MaxSeparationDeg)
	assert.Equal(t, 50*time.Millisecond, cfg.SensorInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 3*time.Second, cfg.LocationTimeout)
	assert.Empty(t, cfg.ListenAddr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"logLevel": "debug",
		"observer": {"lat": 51.5, "lon": -0.12, "name": "london"},
		"filter": {"strategy": "adaptive", "alpha": 0.7},
		"view": {"fovDeg": 45},
		"serve": {"addr": ":8787"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 51.5, cfg.Observer.LatDeg, 1e-9)
	assert.Equal(t, "london", cfg.Observer.Name)
	assert.Equal(t, fusion.StrategyAdaptive, cfg.Filter.Strategy)
	assert.InDelta(t, 0.7, cfg.Filter.Alpha, 1e-9)
	assert.Equal(t, 45.0, cfg.Viewport.FOVDeg)
	assert.Equal(t, ":8787", cfg.ListenAddr)

	// Untouched keys keep their defaults.
	assert.Equal(t, 390.0, cfg.Viewport.Width)
	assert.InDelta(t, 0.35, cfg.Filter.MotionThresholdRad, 1e-9)
}

func TestLoad_UnknownStrategyFallsBack(t *testing.T) {
	path := writeConfig(t, `{"filter": {"strategy": "kalman"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, fusion.StrategyComplementary, cfg.Filter.Strategy)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"alpha above one", `{"filter": {"alpha": 1.5}}`},
		{"negative width", `{"view": {"width": -1}}`},
		{"fov too wide", `{"view": {"fovDeg": 180}}`},
		{"latitude out of range", `{"observer": {"lat": 91}}`},
		{"longitude out of range", `{"observer": {"lon": -181}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load(writeConfig(t, `{"logLevel": `))
	assert.Error(t, err)
}
