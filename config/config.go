// Package config loads the engine and camera settings from YAML with environment overrides,
// and can watch the file for changes.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. OXY_CAMERA_IMPULSE_SPEED.
const EnvPrefix = "OXY_"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full runtime configuration.
type Config struct {
	Engine Engine `yaml:"engine" envPrefix:"ENGINE_"`
	Camera Camera `yaml:"camera" envPrefix:"CAMERA_"`
}

// Engine configures the tick and render loops.
type Engine struct {
	TickRate         float64 `yaml:"tick_rate" env:"TICK_RATE"`
	RenderFrameLimit float64 `yaml:"render_frame_limit" env:"RENDER_FRAME_LIMIT"`
	Profiling        bool    `yaml:"profiling" env:"PROFILING"`
}

// Camera configures the camera stack service.
type Camera struct {
	// RenderPriorityOffset is added to render_step.PriorityCamera for the stack's per-frame update.
	RenderPriorityOffset  int           `yaml:"render_priority_offset" env:"RENDER_PRIORITY_OFFSET"`
	DoNotUseDefaultCamera bool          `yaml:"do_not_use_default_camera" env:"DO_NOT_USE_DEFAULT_CAMERA"`
	Impulse               Impulse       `yaml:"impulse" envPrefix:"IMPULSE_"`
	Default               DefaultCamera `yaml:"default" envPrefix:"DEFAULT_"`
}

// Impulse holds the shake spring constants.
type Impulse struct {
	Speed  float32 `yaml:"speed" env:"SPEED"`
	Damper float32 `yaml:"damper" env:"DAMPER"`
}

// DefaultCamera describes the live camera lens and the default orbit rig. Angles are degrees.
type DefaultCamera struct {
	Fov       float32 `yaml:"fov" env:"FOV"`
	Near      float32 `yaml:"near" env:"NEAR"`
	Far       float32 `yaml:"far" env:"FAR"`
	Radius    float32 `yaml:"radius" env:"RADIUS"`
	Azimuth   float32 `yaml:"azimuth" env:"AZIMUTH"`
	Elevation float32 `yaml:"elevation" env:"ELEVATION"`
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Engine: Engine{
			TickRate: 60,
		},
		Camera: Camera{
			RenderPriorityOffset: 75,
			Impulse: Impulse{
				Speed:  20,
				Damper: 0.5,
			},
			Default: DefaultCamera{
				Fov:       70,
				Near:      0.1,
				Far:       1000,
				Radius:    15,
				Elevation: 22.5,
			},
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - Config: the loaded configuration
//   - error: error if reading, parsing or validation fails
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv applies OXY_-prefixed environment variables to target. Unset variables leave
// fields untouched.
//
// Parameters:
//   - target: pointer to the struct to fill
//
// Returns:
//   - error: error if a variable cannot be parsed
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Validate checks every field and returns all failures joined.
//
// Returns:
//   - error: nil if valid
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, field string, value any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s = %v", ErrInvalid, field, value))
		}
	}

	check(c.Engine.TickRate > 0, "engine.tick_rate", c.Engine.TickRate)
	check(c.Engine.RenderFrameLimit >= 0, "engine.render_frame_limit", c.Engine.RenderFrameLimit)

	check(c.Camera.RenderPriorityOffset > 0, "camera.render_priority_offset", c.Camera.RenderPriorityOffset)
	check(c.Camera.Impulse.Speed > 0, "camera.impulse.speed", c.Camera.Impulse.Speed)
	check(c.Camera.Impulse.Damper > 0, "camera.impulse.damper", c.Camera.Impulse.Damper)

	d := c.Camera.Default
	check(d.Fov > 0 && d.Fov < 180, "camera.default.fov", d.Fov)
	check(d.Near > 0, "camera.default.near", d.Near)
	check(d.Far > d.Near, "camera.default.far", d.Far)
	check(d.Radius > 0, "camera.default.radius", d.Radius)
	check(d.Elevation > -90 && d.Elevation < 90, "camera.default.elevation", d.Elevation)

	return errors.Join(errs...)
}
