package camera_effect

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-camera/engine/camera"
	"github.com/Carmen-Shannon/oxy-camera/engine/render_step"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// DefaultEffect is the raw default camera: an orbit rig whose physical simulation can
// drive the live camera directly while the camera is in physical mode.
// Its Resolve always reports the rig's current pose, whether or not it is bound.
type DefaultEffect struct {
	mu *sync.Mutex

	cam        camera.Camera
	controller camera.CameraController
	fov        float32

	stepper  render_step.RenderStepper
	stepName string
}

var _ Effect = &DefaultEffect{}

// NewDefaultEffect creates the raw default camera for a live camera. Panics if cam is nil.
// A nil controller is replaced with camera.NewCameraController(). The effect's lens starts
// at the camera's FOV at construction; later writes to the camera do not change it.
//
// Parameters:
//   - cam: the live camera the effect drives when bound
//   - controller: the orbit rig simulated each frame
//
// Returns:
//   - *DefaultEffect: the new effect
func NewDefaultEffect(cam camera.Camera, controller camera.CameraController) *DefaultEffect {
	if cam == nil {
		panic("camera_effect: NewDefaultEffect requires a non-nil Camera")
	}
	if controller == nil {
		controller = camera.NewCameraController()
	}
	return &DefaultEffect{
		mu:         &sync.Mutex{},
		cam:        cam,
		controller: controller,
		fov:        mgl32.RadToDeg(cam.Fov()),
		stepName:   "RawDefaultCameraStep" + uuid.NewString(),
	}
}

// Controller returns the orbit rig behind the effect.
//
// Returns:
//   - camera.CameraController: the rig
func (d *DefaultEffect) Controller() camera.CameraController {
	return d.controller
}

// Fov returns the default camera's own field of view in degrees.
//
// Returns:
//   - float32: the FOV in degrees
func (d *DefaultEffect) Fov() float32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fov
}

// SetFov sets the default camera's field of view. Non-positive values are ignored.
//
// Parameters:
//   - degrees: the FOV in degrees
func (d *DefaultEffect) SetFov(degrees float32) {
	if degrees <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fov = degrees
}

// Resolve reports the rig's pose looking at its pivot with the effect's own FOV.
func (d *DefaultEffect) Resolve() (State, bool) {
	return LookAtState(d.controller.Position(), d.controller.Target(), d.Fov()), true
}

// BindToRenderStep registers the physical step at render_step.PriorityCamera.
// Each frame the rig is integrated and, while the live camera is physical, its pose is
// written to the camera. Binding an already bound effect is a no-op.
//
// Parameters:
//   - stepper: the render-tick provider
//
// Returns:
//   - error: error if the binding is rejected
func (d *DefaultEffect) BindToRenderStep(stepper render_step.RenderStepper) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stepper != nil {
		return nil
	}
	if err := stepper.BindToRenderStep(d.stepName, render_step.PriorityCamera, d.step); err != nil {
		return err
	}
	d.stepper = stepper
	return nil
}

// Unbind removes the physical step. Safe to call when not bound.
func (d *DefaultEffect) Unbind() {
	d.mu.Lock()
	stepper := d.stepper
	d.stepper = nil
	d.mu.Unlock()

	if stepper != nil {
		stepper.UnbindFromRenderStep(d.stepName)
	}
}

// Bound reports whether the physical step is currently registered.
//
// Returns:
//   - bool: true if bound
func (d *DefaultEffect) Bound() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stepper != nil
}

// step is the per-frame physical simulation.
func (d *DefaultEffect) step(deltaTime float32) {
	d.controller.Step(deltaTime)
	if d.cam.Type() != camera.CameraTypePhysical {
		return
	}
	state, _ := d.Resolve()
	d.cam.SetPose(state.Position, state.Rotation(), mgl32.DegToRad(state.FieldOfView))
}
