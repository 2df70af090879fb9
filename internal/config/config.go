// Package config loads tunables from an optional JSON file via viper, with
// defaults that make the binary useful with no file at all.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-skylens/internal/astro"
	"github.com/litescript/ls-skylens/internal/fusion"
	"github.com/litescript/ls-skylens/internal/match"
	"github.com/litescript/ls-skylens/internal/projection"
)

// Config is the resolved application configuration.
type Config struct {
	LogLevel    string
	CatalogPath string

	Observer astro.Observer

	Filter fusion.FilterConfig
	Caps   fusion.Capabilities

	Viewport projection.Viewport

	Matcher match.Config

	SensorInterval  time.Duration
	FrameInterval   time.Duration
	LocationTimeout time.Duration

	// ListenAddr serves the debug HTTP surface when non-empty.
	ListenAddr string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("catalogPath", "")

	v.SetDefault("observer.lat", astro.DefaultLatDeg)
	v.SetDefault("observer.lon", astro.DefaultLonDeg)
	v.SetDefault("observer.name", "default site")

	v.SetDefault("filter.strategy", "complementary")
	v.SetDefault("filter.alpha", 0.85)
	v.SetDefault("filter.motionThresholdRad", 0.35)

	v.SetDefault("sensors.magnetometer", true)
	v.SetDefault("sensors.accelerometer", true)
	v.SetDefault("sensors.gyroscope", true)
	v.SetDefault("sensors.orientation", false)
	v.SetDefault("sensors.intervalMs", 50)

	v.SetDefault("view.width", 390)
	v.SetDefault("view.height", 844)
	v.SetDefault("view.fovDeg", 60)

	v.SetDefault("match.maxSeparationDeg", 60)
	v.SetDefault("match.minConfidence", 0.3)

	v.SetDefault("frameIntervalMs", 100)
	v.SetDefault("locationTimeoutMs", 3000)

	v.SetDefault("serve.addr", "")
}

// Load reads the config file at path, or only defaults when path is empty.
// A missing file at an explicit path is an error; any other viper failure is
// reported as-is.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		LogLevel:    v.GetString("logLevel"),
		CatalogPath: v.GetString("catalogPath"),
		Observer: astro.Observer{
			LatDeg: v.GetFloat64("observer.lat"),
			LonDeg: v.GetFloat64("observer.lon"),
			Name:   v.GetString("observer.name"),
		},
		Filter: fusion.FilterConfig{
			Strategy:           fusion.ParseStrategy(v.GetString("filter.strategy")),
			Alpha:              v.GetFloat64("filter.alpha"),
			MotionThresholdRad: v.GetFloat64("filter.motionThresholdRad"),
		},
		Caps: fusion.Capabilities{
			Magnetometer:  v.GetBool("sensors.magnetometer"),
			Accelerometer: v.GetBool("sensors.accelerometer"),
			Gyroscope:     v.GetBool("sensors.gyroscope"),
			Orientation:   v.GetBool("sensors.orientation"),
		},
		Viewport: projection.Viewport{
			Width:  v.GetFloat64("view.width"),
			Height: v.GetFloat64("view.height"),
			FOVDeg: v.GetFloat64("view.fovDeg"),
		},
		Matcher: match.Config{
			MaxSeparationDeg: v.GetFloat64("match.maxSeparationDeg"),
			MinConfidence:    v.GetFloat64("match.minConfidence"),
		},
		SensorInterval:  time.Duration(v.GetInt("sensors.intervalMs")) * time.Millisecond,
		FrameInterval:   time.Duration(v.GetInt("frameIntervalMs")) * time.Millisecond,
		LocationTimeout: time.Duration(v.GetInt("locationTimeoutMs")) * time.Millisecond,
		ListenAddr:      v.GetString("serve.addr"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Filter.Alpha < 0 || c.Filter.Alpha > 1 {
		return errors.New("config: filter.alpha must be in [0,1]")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return errors.New("config: view.width and view.height must be positive")
	}
	if c.Viewport.FOVDeg <= 0 || c.Viewport.FOVDeg >= 180 {
		return errors.New("config: view.fovDeg must be in (0,180)")
	}
	if c.Observer.LatDeg < -90 || c.Observer.LatDeg > 90 {
		return errors.New("config: observer.lat out of range")
	}
	if c.Observer.LonDeg < -180 || c.Observer.LonDeg > 180 {
		return errors.New("config: observer.lon out of range")
	}
	return nil
}
