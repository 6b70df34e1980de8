package engine

import (
	"github.com/Carmen-Shannon/oxy-camera/config"
	"github.com/Carmen-Shannon/oxy-camera/engine/camera"
	"github.com/Carmen-Shannon/oxy-camera/engine/profiler"
	"github.com/Carmen-Shannon/oxy-camera/engine/render_step"
	"github.com/Carmen-Shannon/oxy-camera/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithProfiler replaces the default profiler, e.g. one with camera counters registered.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(fps)
	}
}

// WithWindow hosts the engine in a window. Run then blocks in the window's message loop.
//
// Parameters:
//   - w: a created Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithCamera keeps the camera's aspect ratio in sync with the window's framebuffer.
//
// Parameters:
//   - cam: the live camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(cam camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = cam
	}
}

// WithRenderStepper sets the render-tick provider stepped each render frame.
//
// Parameters:
//   - stepper: the render stepper shared with the camera stack service
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderStepper(stepper render_step.RenderStepper) EngineBuilderOption {
	return func(e *engine) {
		e.stepper = stepper
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit.Store(int64(frameInterval(fps)))
	}
}

// WithConfig applies the loaded engine settings: tick rate, render frame cap and profiling.
//
// Parameters:
//   - cfg: the engine section of the configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Engine) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(cfg.TickRate)
		e.renderFrameLimit.Store(int64(frameInterval(cfg.RenderFrameLimit)))
		e.profilingEnabled.Store(cfg.Profiling)
	}
}
