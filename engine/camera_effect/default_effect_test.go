package camera_effect

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-camera/engine/camera"
	"github.com/Carmen-Shannon/oxy-camera/engine/render_step"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEffect_ResolveLooksAtPivot(t *testing.T) {
	cam := camera.NewCamera(camera.WithFov(mgl32.DegToRad(55)))
	rig := camera.NewCameraController(
		camera.WithTarget(mgl32.Vec3{1, 0, 1}),
		camera.WithRadius(10),
	)
	d := NewDefaultEffect(cam, rig)

	got, ok := d.Resolve()
	require.True(t, ok)
	assert.Equal(t, rig.Position(), got.Position)
	assert.InDelta(t, 55, got.FieldOfView, 1e-3)
	want := rig.Target().Sub(rig.Position()).Normalize()
	assert.True(t, got.Forward().ApproxEqualThreshold(want, 1e-4))
}

func TestDefaultEffect_NilControllerGetsDefault(t *testing.T) {
	d := NewDefaultEffect(camera.NewCamera(), nil)
	assert.NotNil(t, d.Controller())
	assert.Panics(t, func() { NewDefaultEffect(nil, nil) })
}

func TestDefaultEffect_PhysicalStepDrivesCamera(t *testing.T) {
	cam := camera.NewCamera()
	d := NewDefaultEffect(cam, nil)
	stepper := render_step.NewRenderStepper()

	require.NoError(t, d.BindToRenderStep(stepper))
	require.NoError(t, d.BindToRenderStep(stepper))
	assert.True(t, d.Bound())

	bindings := stepper.Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, render_step.PriorityCamera, bindings[0].Priority)

	stepper.Step(1.0 / 60)
	assert.Equal(t, uint64(1), cam.Writes())
	assert.Equal(t, d.Controller().Position(), cam.Position())

	cam.SetType(camera.CameraTypeScriptable)
	stepper.Step(1.0 / 60)
	assert.Equal(t, uint64(1), cam.Writes())

	d.Unbind()
	d.Unbind()
	assert.False(t, d.Bound())
	assert.Empty(t, stepper.Bindings())
}

func TestDefaultEffect_StepIntegratesOrbit(t *testing.T) {
	cam := camera.NewCamera()
	d := NewDefaultEffect(cam, nil)
	stepper := render_step.NewRenderStepper()
	require.NoError(t, d.BindToRenderStep(stepper))

	before := d.Controller().Azimuth()
	d.Controller().Orbit(1, 0)
	stepper.Step(0.1)
	assert.Greater(t, d.Controller().Azimuth(), before)
}

func TestDefaultEffect_FovIgnoresLaterCameraWrites(t *testing.T) {
	cam := camera.NewCamera(camera.WithFov(mgl32.DegToRad(70)))
	d := NewDefaultEffect(cam, nil)

	cam.SetPose(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.DegToRad(30))
	got, ok := d.Resolve()
	require.True(t, ok)
	assert.InDelta(t, 70, got.FieldOfView, 1e-3)

	d.SetFov(45)
	d.SetFov(0)
	d.SetFov(-10)
	assert.InDelta(t, 45, d.Fov(), 1e-5)
}

func TestDefaultEffect_PhysicalStepWritesOwnFov(t *testing.T) {
	cam := camera.NewCamera(camera.WithFov(mgl32.DegToRad(70)))
	d := NewDefaultEffect(cam, nil)
	stepper := render_step.NewRenderStepper()
	require.NoError(t, d.BindToRenderStep(stepper))

	cam.SetFov(mgl32.DegToRad(30))
	stepper.Step(1.0 / 60)
	assert.InDelta(t, mgl32.DegToRad(70), cam.Fov(), 1e-5)
}
