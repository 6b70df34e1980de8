// Package camera_service hosts the camera stack for a game session.
//
// CameraStackService owns the stack, the shared impulse (shake) effect and the raw default
// camera, seeds the stack with the default composite Sum(rawDefault, impulse, Relative), and
// writes the resolved top state into the live camera once per render frame.
package camera_service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-camera/config"
	"github.com/Carmen-Shannon/oxy-camera/engine/camera"
	"github.com/Carmen-Shannon/oxy-camera/engine/camera_effect"
	"github.com/Carmen-Shannon/oxy-camera/engine/camera_stack"
	"github.com/Carmen-Shannon/oxy-camera/engine/render_step"
	"github.com/Carmen-Shannon/oxy-camera/engine/service_bag"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var (
	// ErrNotInitialized is returned by every operation that needs Init to have run.
	ErrNotInitialized = errors.New("camera_service: not initialized")
	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("camera_service: already initialized")
	// ErrAlreadyStarted is returned by a second Start, and by mode changes after Start.
	ErrAlreadyStarted = errors.New("camera_service: already started")
	// ErrInvalidServiceBag is returned by Init when the bag is nil or destroyed.
	ErrInvalidServiceBag = errors.New("camera_service: invalid service bag")
	// ErrDestroyed is returned by Init and Start after Destroy.
	ErrDestroyed = errors.New("camera_service: destroyed")
	// ErrInvalidPriorityOffset is returned by Init and ApplyConfig when the update step would
	// not run strictly after render_step.PriorityCamera.
	ErrInvalidPriorityOffset = errors.New("camera_service: render priority offset must be positive")
)

// UpdateStepPrefix prefixes the unique render-step name of the per-frame stack update.
const UpdateStepPrefix = "CameraStackUpdateInternal"

type lifecycle int

const (
	lifecycleUninitialized lifecycle = iota
	lifecycleInitialized
	lifecycleStarted
	lifecycleDestroyed
)

func (l lifecycle) String() string {
	switch l {
	case lifecycleUninitialized:
		return "Uninitialized"
	case lifecycleInitialized:
		return "Initialized"
	case lifecycleStarted:
		return "Started"
	case lifecycleDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Stats counts render frames handled by the per-frame update.
type Stats struct {
	// FramesWritten is the number of frames whose resolved state was written to the camera.
	FramesWritten uint64
	// FramesSkipped is the number of frames where the stack resolved to nothing.
	FramesSkipped uint64
}

// CameraStackService is the explicit camera context for one game session.
type CameraStackService struct {
	mu *sync.Mutex

	logger         *log.Logger
	cam            camera.Camera
	controller     camera.CameraController
	stepper        render_step.RenderStepper
	cfg            config.Camera
	impulseOptions []camera_effect.ImpulseEffectOption

	state           lifecycle
	doNotUseDefault bool

	stack      *camera_stack.CameraStack
	impulse    *camera_effect.ImpulseEffect
	rawDefault *camera_effect.DefaultEffect
	composite  *camera_effect.SummedEffect
	stepName   string
	cleanup    *service_bag.Cleanup

	framesWritten atomic.Uint64
	framesSkipped atomic.Uint64
}

// NewCameraStackService creates an uninitialized service. Without WithCamera a live camera is
// built from the configured lens, and without WithRenderStepper a private stepper is created.
//
// Parameters:
//   - options: functional options to configure the service
//
// Returns:
//   - *CameraStackService: the new service
func NewCameraStackService(options ...CameraStackServiceOption) *CameraStackService {
	s := &CameraStackService{
		mu:     &sync.Mutex{},
		logger: log.Default(),
		cfg:    config.Default().Camera,
	}
	for _, option := range options {
		option(s)
	}

	d := s.cfg.Default
	if s.cam == nil {
		s.cam = camera.NewCamera(
			camera.WithFov(mgl32.DegToRad(d.Fov)),
			camera.WithNear(d.Near),
			camera.WithFar(d.Far),
		)
	}
	if s.controller == nil {
		s.controller = camera.NewCameraController(
			camera.WithRadius(d.Radius),
			camera.WithAzimuth(mgl32.DegToRad(d.Azimuth)),
			camera.WithElevation(mgl32.DegToRad(d.Elevation)),
		)
	}
	if s.stepper == nil {
		s.stepper = render_step.NewRenderStepper()
	}
	s.doNotUseDefault = s.cfg.DoNotUseDefaultCamera
	return s
}

func (s *CameraStackService) logf(format string, args ...any) {
	s.logger.Printf("[CameraStackService] "+format, args...)
}

// Init allocates the stack and its default composite, binds the per-frame update and
// registers the service's teardown with bag.
//
// Parameters:
//   - bag: the live service bag hosting this service
//
// Returns:
//   - error: ErrInvalidServiceBag, ErrAlreadyInitialized, ErrDestroyed,
//     ErrInvalidPriorityOffset, or a binding failure
func (s *CameraStackService) Init(bag *service_bag.ServiceBag) error {
	if !bag.Valid() {
		return ErrInvalidServiceBag
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case lifecycleInitialized, lifecycleStarted:
		return ErrAlreadyInitialized
	case lifecycleDestroyed:
		return ErrDestroyed
	}
	if s.cfg.RenderPriorityOffset <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPriorityOffset, s.cfg.RenderPriorityOffset)
	}

	cleanup := service_bag.NewCleanup()

	impulseOptions := append([]camera_effect.ImpulseEffectOption{
		camera_effect.WithSpring(s.cfg.Impulse.Speed, s.cfg.Impulse.Damper),
	}, s.impulseOptions...)
	impulse := camera_effect.NewImpulseEffect(impulseOptions...)

	rawDefault := camera_effect.NewDefaultEffect(s.cam, s.controller)
	rawDefault.SetFov(s.cfg.Default.Fov)
	_ = cleanup.Add("raw default camera", func() error {
		rawDefault.Unbind()
		return nil
	})

	composite := camera_effect.Sum(rawDefault, impulse, camera_effect.SumModeRelative)
	stack := camera_stack.NewCameraStack(composite, camera_stack.WithLogger(s.logger))

	stepName := UpdateStepPrefix + uuid.NewString()
	priority := render_step.PriorityCamera + s.cfg.RenderPriorityOffset
	cam := s.cam
	if err := s.stepper.BindToRenderStep(stepName, priority, func(float32) {
		s.update(stack, cam)
	}); err != nil {
		_ = cleanup.Close()
		return fmt.Errorf("camera_service: bind update step: %w", err)
	}
	stepper := s.stepper
	_ = cleanup.Add("update step", func() error {
		stepper.UnbindFromRenderStep(stepName)
		return nil
	})

	if err := bag.Register("CameraStackService", s.Destroy); err != nil {
		_ = cleanup.Close()
		return fmt.Errorf("camera_service: %w: %w", ErrInvalidServiceBag, err)
	}

	s.stack = stack
	s.impulse = impulse
	s.rawDefault = rawDefault
	s.composite = composite
	s.stepName = stepName
	s.cleanup = cleanup
	s.state = lifecycleInitialized
	return nil
}

// SetDoNotUseDefaultCamera chooses, before Start, whether the raw default camera may drive
// the live camera. When true, Start forces the camera to scriptable and keeps it there.
//
// Parameters:
//   - doNotUse: true to keep the default camera's physical simulation off
//
// Returns:
//   - error: ErrNotInitialized before Init, ErrAlreadyStarted after Start
func (s *CameraStackService) SetDoNotUseDefaultCamera(doNotUse bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case lifecycleUninitialized, lifecycleDestroyed:
		return ErrNotInitialized
	case lifecycleStarted:
		return ErrAlreadyStarted
	}
	s.doNotUseDefault = doNotUse
	return nil
}

// DoNotUseDefaultCamera reports the configured mode.
//
// Returns:
//   - bool: true if the default camera is kept off
func (s *CameraStackService) DoNotUseDefaultCamera() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doNotUseDefault
}

// Start commits the camera mode. With the default camera in use its physical step is bound
// at render_step.PriorityCamera; otherwise the live camera is forced to scriptable and a
// watcher re-asserts scriptable whenever something else changes it.
//
// Returns:
//   - error: ErrNotInitialized before Init, ErrAlreadyStarted on repeat, ErrDestroyed after Destroy
func (s *CameraStackService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case lifecycleUninitialized:
		return ErrNotInitialized
	case lifecycleStarted:
		return ErrAlreadyStarted
	case lifecycleDestroyed:
		return ErrDestroyed
	}

	if s.doNotUseDefault {
		cam := s.cam
		cam.SetType(camera.CameraTypeScriptable)
		unwatch := cam.WatchType(func(t camera.CameraType) {
			if t == camera.CameraTypeScriptable {
				return
			}
			s.logf("camera type changed to %s while the default camera is off, restoring %s",
				t, camera.CameraTypeScriptable)
			cam.SetType(camera.CameraTypeScriptable)
		})
		_ = s.cleanup.Add("scriptable watch", func() error {
			unwatch()
			return nil
		})
	} else if err := s.rawDefault.BindToRenderStep(s.stepper); err != nil {
		return fmt.Errorf("camera_service: bind default camera: %w", err)
	}

	s.state = lifecycleStarted
	return nil
}

// Destroy releases every resource acquired by Init and Start in reverse order. Only the first
// call does any work; the service cannot be reused afterwards.
//
// Returns:
//   - error: the joined release failures
func (s *CameraStackService) Destroy() error {
	s.mu.Lock()
	if s.state == lifecycleDestroyed {
		s.mu.Unlock()
		return nil
	}
	s.state = lifecycleDestroyed
	cleanup := s.cleanup
	s.stack = nil
	s.impulse = nil
	s.rawDefault = nil
	s.composite = nil
	s.cleanup = nil
	s.mu.Unlock()

	if cleanup == nil {
		return nil
	}
	err := cleanup.Close()
	if err != nil {
		s.logf("destroy finished with errors: %v", err)
	}
	return err
}

// update is the per-frame stack resolution bound to the render stepper.
func (s *CameraStackService) update(stack *camera_stack.CameraStack, cam camera.Camera) {
	state, ok := stack.GetTopState()
	if !ok {
		s.framesSkipped.Add(1)
		return
	}
	cam.SetPose(state.Position, state.Rotation(), mgl32.DegToRad(state.FieldOfView))
	s.framesWritten.Add(1)
}

// Stats returns the per-frame update counters.
//
// Returns:
//   - Stats: frames written and skipped
func (s *CameraStackService) Stats() Stats {
	return Stats{
		FramesWritten: s.framesWritten.Load(),
		FramesSkipped: s.framesSkipped.Load(),
	}
}

// Camera returns the live camera the service writes to.
//
// Returns:
//   - camera.Camera: the live camera
func (s *CameraStackService) Camera() camera.Camera {
	return s.cam
}

// RenderStepper returns the render-tick provider the service is bound to.
//
// Returns:
//   - render_step.RenderStepper: the stepper
func (s *CameraStackService) RenderStepper() render_step.RenderStepper {
	return s.stepper
}

// ApplyConfig applies a reloaded camera configuration. Spring constants and the default
// camera's FOV take effect immediately and a changed priority offset rebinds the per-frame
// update. The camera mode can only change before Start. A non-positive priority offset
// rejects the whole configuration.
//
// Parameters:
//   - cfg: the new camera configuration
//
// Returns:
//   - error: ErrNotInitialized before Init, ErrInvalidPriorityOffset, or a binding failure
func (s *CameraStackService) ApplyConfig(cfg config.Camera) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stack == nil {
		return ErrNotInitialized
	}
	if cfg.RenderPriorityOffset <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPriorityOffset, cfg.RenderPriorityOffset)
	}

	s.impulse.SetSpring(cfg.Impulse.Speed, cfg.Impulse.Damper)
	s.rawDefault.SetFov(cfg.Default.Fov)

	if cfg.RenderPriorityOffset != s.cfg.RenderPriorityOffset {
		stack, cam := s.stack, s.cam
		priority := render_step.PriorityCamera + cfg.RenderPriorityOffset
		if err := s.stepper.BindToRenderStep(s.stepName, priority, func(float32) {
			s.update(stack, cam)
		}); err != nil {
			return fmt.Errorf("camera_service: rebind update step: %w", err)
		}
	}

	if s.state == lifecycleInitialized {
		s.doNotUseDefault = cfg.DoNotUseDefaultCamera
	} else if cfg.DoNotUseDefaultCamera != s.doNotUseDefault {
		s.logf("ignoring do_not_use_default_camera change after start")
	}
	s.cfg = cfg
	return nil
}

func (s *CameraStackService) getStack() (*camera_stack.CameraStack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stack == nil {
		return nil, ErrNotInitialized
	}
	return s.stack, nil
}

// Add pushes effect onto the stack as the new top.
//
// Parameters:
//   - effect: the effect to push
//
// Returns:
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) Add(effect camera_effect.Effect) error {
	stack, err := s.getStack()
	if err != nil {
		return err
	}
	stack.Add(effect)
	return nil
}

// Remove removes the most recent occurrence of effect. The base composite is never removed.
//
// Parameters:
//   - effect: the effect to remove
//
// Returns:
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) Remove(effect camera_effect.Effect) error {
	stack, err := s.getStack()
	if err != nil {
		return err
	}
	stack.Remove(effect)
	return nil
}

// PushDisable suspends camera control until the returned token is cancelled.
//
// Returns:
//   - camera_stack.DisableToken: the handle for CancelDisable
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) PushDisable() (camera_stack.DisableToken, error) {
	stack, err := s.getStack()
	if err != nil {
		return camera_stack.DisableToken{}, err
	}
	return stack.PushDisable(), nil
}

// CancelDisable removes the disable marker for token.
//
// Parameters:
//   - token: the handle returned by PushDisable
//
// Returns:
//   - bool: true if a marker was removed by this call
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) CancelDisable(token camera_stack.DisableToken) (bool, error) {
	stack, err := s.getStack()
	if err != nil {
		return false, err
	}
	return stack.CancelDisable(token), nil
}

// GetTopCamera returns the effect currently driving the camera.
//
// Returns:
//   - camera_effect.Effect: the top effect
//   - bool: false if camera control is suspended
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) GetTopCamera() (camera_effect.Effect, bool, error) {
	stack, err := s.getStack()
	if err != nil {
		return nil, false, err
	}
	effect, ok := stack.GetTopCamera()
	return effect, ok, nil
}

// GetTopState resolves the stack without writing to the camera.
//
// Returns:
//   - camera_effect.State: the resolved state
//   - bool: false if suspended or the top effect has nothing this frame
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) GetTopState() (camera_effect.State, bool, error) {
	stack, err := s.getStack()
	if err != nil {
		return camera_effect.State{}, false, err
	}
	state, ok := stack.GetTopState()
	return state, ok, nil
}

// GetNewStateBelow creates an adapter resolving whatever lies below its anchor on the stack.
//
// Returns:
//   - *camera_stack.BelowEffect: the adapter
//   - func(camera_effect.Effect): sets the adapter's anchor
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) GetNewStateBelow() (*camera_stack.BelowEffect, func(camera_effect.Effect), error) {
	stack, err := s.getStack()
	if err != nil {
		return nil, nil, err
	}
	below, setAnchor := stack.GetNewStateBelow()
	return below, setAnchor, nil
}

// GetIndex returns the stack position of the most recent occurrence of effect.
//
// Parameters:
//   - effect: the effect to find
//
// Returns:
//   - int: the index
//   - bool: false if absent
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) GetIndex(effect camera_effect.Effect) (int, bool, error) {
	stack, err := s.getStack()
	if err != nil {
		return 0, false, err
	}
	i, ok := stack.GetIndex(effect)
	return i, ok, nil
}

// GetRawStack returns a copy of the stack entries, bottom first.
//
// Returns:
//   - []camera_stack.Entry: the entries
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) GetRawStack() ([]camera_stack.Entry, error) {
	stack, err := s.getStack()
	if err != nil {
		return nil, err
	}
	return stack.GetRawStack(), nil
}

// PrintCameraStack logs the stack, top first.
//
// Returns:
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) PrintCameraStack() error {
	stack, err := s.getStack()
	if err != nil {
		return err
	}
	stack.PrintCameraStack()
	return nil
}

// IsDisabled reports whether a disable marker is the topmost entry.
//
// Returns:
//   - bool: true if camera control is suspended
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) IsDisabled() (bool, error) {
	stack, err := s.getStack()
	if err != nil {
		return false, err
	}
	return stack.IsDisabled(), nil
}

// GetCameraStack returns the underlying stack.
//
// Returns:
//   - *camera_stack.CameraStack: the stack
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) GetCameraStack() (*camera_stack.CameraStack, error) {
	return s.getStack()
}

// GetDefaultCamera returns the shared default composite seeded at the bottom of the stack.
//
// Returns:
//   - *camera_effect.SummedEffect: Sum(raw default, impulse, Relative)
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) GetDefaultCamera() (*camera_effect.SummedEffect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.composite == nil {
		return nil, ErrNotInitialized
	}
	return s.composite, nil
}

// GetImpulseCamera returns the shared impulse effect.
//
// Returns:
//   - *camera_effect.ImpulseEffect: the impulse effect
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) GetImpulseCamera() (*camera_effect.ImpulseEffect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.impulse == nil {
		return nil, ErrNotInitialized
	}
	return s.impulse, nil
}

// GetRawDefaultCamera returns the raw default camera without the impulse layer.
//
// Returns:
//   - *camera_effect.DefaultEffect: the raw default camera
//   - error: ErrNotInitialized before Init or after Destroy
func (s *CameraStackService) GetRawDefaultCamera() (*camera_effect.DefaultEffect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rawDefault == nil {
		return nil, ErrNotInitialized
	}
	return s.rawDefault, nil
}

// Impulse kicks the shared impulse effect.
//
// Parameters:
//   - velocity: angular velocity in radians per second (pitch, yaw, roll)
//
// Returns:
//   - error: ErrNotInitialized before Init
func (s *CameraStackService) Impulse(velocity mgl32.Vec3) error {
	impulse, err := s.GetImpulseCamera()
	if err != nil {
		return err
	}
	impulse.Impulse(velocity)
	return nil
}
