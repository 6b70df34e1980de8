package camera_service

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-camera/config"
	"github.com/Carmen-Shannon/oxy-camera/engine/camera"
	"github.com/Carmen-Shannon/oxy-camera/engine/camera_effect"
	"github.com/Carmen-Shannon/oxy-camera/engine/render_step"
)

// CameraStackServiceOption is a functional option for configuring a CameraStackService.
type CameraStackServiceOption func(*CameraStackService)

// WithCamera sets the live camera the service writes to.
//
// Parameters:
//   - cam: the live camera
//
// Returns:
//   - CameraStackServiceOption: option function to apply
func WithCamera(cam camera.Camera) CameraStackServiceOption {
	return func(s *CameraStackService) {
		s.cam = cam
	}
}

// WithController sets the orbit rig simulated by the raw default camera.
//
// Parameters:
//   - controller: the orbit rig
//
// Returns:
//   - CameraStackServiceOption: option function to apply
func WithController(controller camera.CameraController) CameraStackServiceOption {
	return func(s *CameraStackService) {
		s.controller = controller
	}
}

// WithRenderStepper sets the render-tick provider, typically the one the engine steps.
//
// Parameters:
//   - stepper: the render-tick provider
//
// Returns:
//   - CameraStackServiceOption: option function to apply
func WithRenderStepper(stepper render_step.RenderStepper) CameraStackServiceOption {
	return func(s *CameraStackService) {
		s.stepper = stepper
	}
}

// WithConfig sets the camera configuration used for defaults, springs and update priority.
//
// Parameters:
//   - cfg: the camera configuration
//
// Returns:
//   - CameraStackServiceOption: option function to apply
func WithConfig(cfg config.Camera) CameraStackServiceOption {
	return func(s *CameraStackService) {
		s.cfg = cfg
	}
}

// WithImpulseClock sets the clock that advances the impulse springs.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - CameraStackServiceOption: option function to apply
func WithImpulseClock(now func() time.Time) CameraStackServiceOption {
	return func(s *CameraStackService) {
		s.impulseOptions = append(s.impulseOptions, camera_effect.WithImpulseClock(now))
	}
}

// WithLogger sets the logger for the service and its stack.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - CameraStackServiceOption: option function to apply
func WithLogger(logger *log.Logger) CameraStackServiceOption {
	return func(s *CameraStackService) {
		if logger != nil {
			s.logger = logger
		}
	}
}
