package camera_service

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-camera/config"
	"github.com/Carmen-Shannon/oxy-camera/engine/camera"
	"github.com/Carmen-Shannon/oxy-camera/engine/camera_effect"
	"github.com/Carmen-Shannon/oxy-camera/engine/render_step"
	"github.com/Carmen-Shannon/oxy-camera/engine/service_bag"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *CameraStackService
	bag     *service_bag.ServiceBag
	cam     camera.Camera
	stepper render_step.RenderStepper
	logs    *bytes.Buffer
	now     time.Time
}

func newFixture(t *testing.T, options ...CameraStackServiceOption) *fixture {
	t.Helper()
	f := &fixture{
		bag:     service_bag.NewServiceBag(),
		cam:     camera.NewCamera(),
		stepper: render_step.NewRenderStepper(),
		logs:    &bytes.Buffer{},
		now:     time.Unix(1_700_000_000, 0),
	}
	options = append([]CameraStackServiceOption{
		WithCamera(f.cam),
		WithRenderStepper(f.stepper),
		WithLogger(log.New(f.logs, "", 0)),
		WithImpulseClock(func() time.Time { return f.now }),
	}, options...)
	f.svc = NewCameraStackService(options...)
	return f
}

func (f *fixture) init(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.Init(f.bag))
}

func (f *fixture) updateBinding(t *testing.T) render_step.Binding {
	t.Helper()
	for _, b := range f.stepper.Bindings() {
		if strings.HasPrefix(b.Name, UpdateStepPrefix) {
			return b
		}
	}
	require.FailNow(t, "update step is not bound")
	return render_step.Binding{}
}

func fixedAt(pos mgl32.Vec3) *camera_effect.FixedEffect {
	return camera_effect.NewFixedEffect(camera_effect.NewState(pos, mgl32.QuatIdent(), 50))
}

func TestCameraStackService_OperationsBeforeInit(t *testing.T) {
	f := newFixture(t)
	s := f.svc

	assert.ErrorIs(t, s.Add(fixedAt(mgl32.Vec3{})), ErrNotInitialized)
	assert.ErrorIs(t, s.Remove(fixedAt(mgl32.Vec3{})), ErrNotInitialized)
	_, err := s.PushDisable()
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, _, err = s.GetTopState()
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, _, err = s.GetNewStateBelow()
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = s.GetDefaultCamera()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, s.Impulse(mgl32.Vec3{1, 0, 0}), ErrNotInitialized)
	assert.ErrorIs(t, s.PrintCameraStack(), ErrNotInitialized)
	assert.ErrorIs(t, s.Start(), ErrNotInitialized)
	assert.ErrorIs(t, s.SetDoNotUseDefaultCamera(true), ErrNotInitialized)
	assert.ErrorIs(t, s.ApplyConfig(config.Default().Camera), ErrNotInitialized)
}

func TestCameraStackService_InitRejectsInvalidBag(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.Init(nil), ErrInvalidServiceBag)

	require.NoError(t, f.bag.Destroy())
	assert.ErrorIs(t, f.svc.Init(f.bag), ErrInvalidServiceBag)
	assert.Empty(t, f.stepper.Bindings())
}

func TestCameraStackService_InitSeedsDefaultComposite(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	composite, err := f.svc.GetDefaultCamera()
	require.NoError(t, err)
	raw, err := f.svc.GetRawStack()
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Same(t, composite, raw[0].Effect())

	rawDefault, err := f.svc.GetRawDefaultCamera()
	require.NoError(t, err)
	impulse, err := f.svc.GetImpulseCamera()
	require.NoError(t, err)
	a, b := composite.Operands()
	assert.Same(t, rawDefault, a)
	assert.Same(t, impulse, b)
	assert.Equal(t, camera_effect.SumModeRelative, composite.Mode())

	assert.Equal(t, render_step.PriorityCamera+75, f.updateBinding(t).Priority)
	assert.ErrorIs(t, f.svc.Init(f.bag), ErrAlreadyInitialized)
}

func TestCameraStackService_TopStateDrivesCamera(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	shot := fixedAt(mgl32.Vec3{1, 2, 3})
	require.NoError(t, f.svc.Add(shot))
	f.stepper.Step(1.0 / 60)

	assert.True(t, f.cam.Position().ApproxEqual(mgl32.Vec3{1, 2, 3}))
	assert.True(t, f.cam.Orientation().ApproxEqual(mgl32.QuatIdent()))
	assert.InDelta(t, mgl32.DegToRad(50), f.cam.Fov(), 1e-5)
	assert.Equal(t, Stats{FramesWritten: 1}, f.svc.Stats())

	top, ok, err := f.svc.GetTopCamera()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, shot, top)
}

func TestCameraStackService_DisabledFrameLeavesCameraAlone(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	require.NoError(t, f.svc.Add(fixedAt(mgl32.Vec3{1, 0, 0})))
	f.stepper.Step(1.0 / 60)
	writes := f.cam.Writes()

	token, err := f.svc.PushDisable()
	require.NoError(t, err)
	disabled, err := f.svc.IsDisabled()
	require.NoError(t, err)
	assert.True(t, disabled)

	f.stepper.Step(1.0 / 60)
	assert.Equal(t, writes, f.cam.Writes())
	assert.Equal(t, uint64(1), f.svc.Stats().FramesSkipped)

	cancelled, err := f.svc.CancelDisable(token)
	require.NoError(t, err)
	assert.True(t, cancelled)
	f.stepper.Step(1.0 / 60)
	assert.Equal(t, writes+1, f.cam.Writes())
}

func TestCameraStackService_StartBindsDefaultCamera(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	require.NoError(t, f.svc.Start())

	rawDefault, err := f.svc.GetRawDefaultCamera()
	require.NoError(t, err)
	assert.True(t, rawDefault.Bound())
	assert.Len(t, f.stepper.Bindings(), 2)
	assert.Equal(t, camera.CameraTypePhysical, f.cam.Type())

	assert.ErrorIs(t, f.svc.Start(), ErrAlreadyStarted)
}

func TestCameraStackService_ModeLockedAfterStart(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	require.NoError(t, f.svc.Start())

	assert.ErrorIs(t, f.svc.SetDoNotUseDefaultCamera(true), ErrAlreadyStarted)
	assert.False(t, f.svc.DoNotUseDefaultCamera())
	assert.Equal(t, camera.CameraTypePhysical, f.cam.Type())
}

func TestCameraStackService_ScriptableWatchdog(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	require.NoError(t, f.svc.SetDoNotUseDefaultCamera(true))
	require.NoError(t, f.svc.Start())

	rawDefault, err := f.svc.GetRawDefaultCamera()
	require.NoError(t, err)
	assert.False(t, rawDefault.Bound())
	assert.Equal(t, camera.CameraTypeScriptable, f.cam.Type())

	f.cam.SetType(camera.CameraTypePhysical)
	assert.Equal(t, camera.CameraTypeScriptable, f.cam.Type())
	assert.Contains(t, f.logs.String(), "restoring Scriptable")
}

func TestCameraStackService_ConfiguredScriptableMode(t *testing.T) {
	cfg := config.Default().Camera
	cfg.DoNotUseDefaultCamera = true
	f := newFixture(t, WithConfig(cfg))
	f.init(t)
	require.NoError(t, f.svc.Start())
	assert.Equal(t, camera.CameraTypeScriptable, f.cam.Type())
}

func TestCameraStackService_BagDestroyTearsDown(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	require.NoError(t, f.svc.SetDoNotUseDefaultCamera(true))
	require.NoError(t, f.svc.Start())
	require.NotEmpty(t, f.stepper.Bindings())

	require.NoError(t, f.bag.Destroy())
	assert.Empty(t, f.stepper.Bindings())

	// The watchdog is gone, so the camera may leave scriptable mode.
	f.cam.SetType(camera.CameraTypePhysical)
	assert.Equal(t, camera.CameraTypePhysical, f.cam.Type())

	assert.ErrorIs(t, f.svc.Add(fixedAt(mgl32.Vec3{})), ErrNotInitialized)
	assert.ErrorIs(t, f.svc.Init(service_bag.NewServiceBag()), ErrDestroyed)
	assert.ErrorIs(t, f.svc.Start(), ErrDestroyed)
	assert.NoError(t, f.svc.Destroy())
}

func TestCameraStackService_DestroyBeforeBag(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	require.NoError(t, f.svc.Start())

	require.NoError(t, f.svc.Destroy())
	assert.Empty(t, f.stepper.Bindings())
	assert.NoError(t, f.bag.Destroy())
}

func TestCameraStackService_ApplyConfig(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	name := f.updateBinding(t).Name

	cfg := config.Default().Camera
	cfg.RenderPriorityOffset = 10
	cfg.Impulse.Speed = 40
	cfg.Impulse.Damper = 0.8
	cfg.DoNotUseDefaultCamera = true
	require.NoError(t, f.svc.ApplyConfig(cfg))

	b := f.updateBinding(t)
	assert.Equal(t, name, b.Name)
	assert.Equal(t, render_step.PriorityCamera+10, b.Priority)
	assert.True(t, f.svc.DoNotUseDefaultCamera())

	impulse, err := f.svc.GetImpulseCamera()
	require.NoError(t, err)
	speed, damper := impulse.Spring()
	assert.Equal(t, float32(40), speed)
	assert.Equal(t, float32(0.8), damper)
}

func TestCameraStackService_ApplyConfigIgnoresModeAfterStart(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	require.NoError(t, f.svc.Start())

	cfg := config.Default().Camera
	cfg.DoNotUseDefaultCamera = true
	require.NoError(t, f.svc.ApplyConfig(cfg))
	assert.False(t, f.svc.DoNotUseDefaultCamera())
	assert.Contains(t, f.logs.String(), "ignoring do_not_use_default_camera")
}

func TestCameraStackService_ImpulseShakesDefaultCamera(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	before, ok, err := f.svc.GetTopState()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.svc.Impulse(mgl32.Vec3{0, 2, 0}))
	f.now = f.now.Add(50 * time.Millisecond)

	after, ok, err := f.svc.GetTopState()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, before.Position.ApproxEqual(after.Position))
	assert.False(t, before.Rotation().ApproxEqual(after.Rotation()))
}

func TestCameraStackService_StateBelowWrapsDefault(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	below, setAnchor, err := f.svc.GetNewStateBelow()
	require.NoError(t, err)
	lift := camera_effect.NewFixedEffect(camera_effect.NewState(mgl32.Vec3{0, 0, 5}, mgl32.QuatIdent(), 0))
	wrapper := camera_effect.Sum(below, lift, camera_effect.SumModeAbsolute)
	setAnchor(wrapper)
	require.NoError(t, f.svc.Add(wrapper))

	i, ok, err := f.svc.GetIndex(wrapper)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	base, ok := f.svc.composite.Resolve()
	require.True(t, ok)
	top, ok, err := f.svc.GetTopState()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, top.Position.ApproxEqual(base.Position.Add(mgl32.Vec3{0, 0, 5})))
}

func TestNewCameraStackService_BuildsCameraFromConfig(t *testing.T) {
	cfg := config.Default().Camera
	cfg.Default.Fov = 90
	cfg.Default.Radius = 8
	s := NewCameraStackService(WithConfig(cfg))

	assert.InDelta(t, mgl32.DegToRad(90), s.Camera().Fov(), 1e-5)
	assert.NotNil(t, s.RenderStepper())
	assert.InDelta(t, 8, s.controller.Radius(), 1e-5)
}

func TestCameraStackService_FovDeltaOnDefaultDoesNotCompound(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	def, err := f.svc.GetDefaultCamera()
	require.NoError(t, err)
	zoom := camera_effect.NewFixedEffect(camera_effect.NewState(mgl32.Vec3{}, mgl32.QuatIdent(), 5))
	zoomed := camera_effect.Sum(def, zoom, camera_effect.SumModeRelative)
	require.NoError(t, f.svc.Add(zoomed))

	for range 5 {
		f.stepper.Step(1.0 / 60)
		assert.InDelta(t, mgl32.DegToRad(75), f.cam.Fov(), 1e-5)
	}

	require.NoError(t, f.svc.Remove(zoomed))
	state, ok := def.Resolve()
	require.True(t, ok)
	assert.InDelta(t, 70, state.FieldOfView, 1e-3)
}

func TestCameraStackService_DefaultFovRestoredAfterPop(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	narrow := camera_effect.NewFixedEffect(camera_effect.NewState(mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), 30))
	require.NoError(t, f.svc.Add(narrow))
	f.stepper.Step(1.0 / 60)
	assert.InDelta(t, mgl32.DegToRad(30), f.cam.Fov(), 1e-5)

	require.NoError(t, f.svc.Remove(narrow))
	f.stepper.Step(1.0 / 60)
	assert.InDelta(t, mgl32.DegToRad(70), f.cam.Fov(), 1e-5)

	raw, err := f.svc.GetRawDefaultCamera()
	require.NoError(t, err)
	assert.InDelta(t, 70, raw.Fov(), 1e-5)
}

func TestCameraStackService_ApplyConfigUpdatesDefaultFov(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	cfg := config.Default().Camera
	cfg.Default.Fov = 90
	require.NoError(t, f.svc.ApplyConfig(cfg))

	state, ok, err := f.svc.GetTopState()
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 90, state.FieldOfView, 1e-3)
}

func TestCameraStackService_InitRejectsNonPositiveOffset(t *testing.T) {
	for _, offset := range []int{0, -25} {
		cfg := config.Default().Camera
		cfg.RenderPriorityOffset = offset
		f := newFixture(t, WithConfig(cfg))

		err := f.svc.Init(f.bag)
		assert.ErrorIs(t, err, ErrInvalidPriorityOffset)
		assert.Empty(t, f.stepper.Bindings())
		_, err = f.svc.GetCameraStack()
		assert.ErrorIs(t, err, ErrNotInitialized)
	}
}

func TestCameraStackService_ApplyConfigRejectsNonPositiveOffset(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	before := f.updateBinding(t)

	cfg := config.Default().Camera
	cfg.RenderPriorityOffset = 0
	cfg.Impulse.Speed = 40
	assert.ErrorIs(t, f.svc.ApplyConfig(cfg), ErrInvalidPriorityOffset)

	assert.Equal(t, before, f.updateBinding(t))
	impulse, err := f.svc.GetImpulseCamera()
	require.NoError(t, err)
	speed, _ := impulse.Spring()
	assert.NotEqual(t, float32(40), speed)
}

func TestCameraStackService_UpdateRunsAfterDefaultCamera(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	require.NoError(t, f.svc.Start())

	bindings := f.stepper.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, render_step.PriorityCamera, bindings[0].Priority)
	assert.True(t, strings.HasPrefix(bindings[1].Name, UpdateStepPrefix))
	assert.Greater(t, bindings[1].Priority, bindings[0].Priority)

	require.NoError(t, f.svc.Add(fixedAt(mgl32.Vec3{42, 0, 0})))
	f.stepper.Step(1.0 / 60)
	assert.True(t, f.cam.Position().ApproxEqual(mgl32.Vec3{42, 0, 0}))
}
