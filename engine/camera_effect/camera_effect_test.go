package camera_effect

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock for time-driven effects.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func yaw(deg float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(deg), mgl32.Vec3{0, 1, 0})
}

func pitch(deg float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(deg), mgl32.Vec3{1, 0, 0})
}

func assertStateEqual(t *testing.T, expected, actual State) {
	t.Helper()
	assert.Truef(t, expected.ApproxEqual(actual), "expected %s, got %s", expected, actual)
}

func TestState_ZeroOrientationIsIdentity(t *testing.T) {
	var s State
	assert.Equal(t, mgl32.QuatIdent(), s.Rotation())
	assert.True(t, s.Forward().ApproxEqual(mgl32.Vec3{0, 0, -1}))
	assertStateEqual(t, IdentityState(), s)
}

func TestLookAtState_FacesTarget(t *testing.T) {
	tests := []struct {
		name   string
		eye    mgl32.Vec3
		target mgl32.Vec3
	}{
		{"down -Z", mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}},
		{"down -X", mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}},
		{"diagonal", mgl32.Vec3{3, 4, 5}, mgl32.Vec3{-1, 0, 2}},
		{"straight down", mgl32.Vec3{0, 10, 0}, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := LookAtState(tt.eye, tt.target, 60)
			want := tt.target.Sub(tt.eye).Normalize()
			assert.Truef(t, s.Forward().ApproxEqualThreshold(want, 1e-4), "forward %v, want %v", s.Forward(), want)
			assert.Equal(t, tt.eye, s.Position)
			assert.Equal(t, float32(60), s.FieldOfView)
		})
	}
}

func TestLookAtState_KeepsHorizonLevel(t *testing.T) {
	s := LookAtState(mgl32.Vec3{5, 3, 5}, mgl32.Vec3{}, 60)
	right := s.Rotation().Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, right.Y(), 1e-5)
}

func TestLookAtState_EyeOnTarget(t *testing.T) {
	s := LookAtState(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 3}, 45)
	assert.Equal(t, mgl32.QuatIdent(), s.Orientation)
}

func TestState_Lerp(t *testing.T) {
	a := NewState(mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent(), 60)
	b := NewState(mgl32.Vec3{10, 0, 0}, yaw(90), 80)

	assertStateEqual(t, a, a.Lerp(b, 0))
	assertStateEqual(t, b, a.Lerp(b, 1))

	mid := a.Lerp(b, 0.5)
	assert.True(t, mid.Position.ApproxEqual(mgl32.Vec3{5, 0, 0}))
	assert.InDelta(t, 70, mid.FieldOfView, 1e-4)
	assertStateEqual(t, NewState(mid.Position, yaw(45), 70), mid)
}

func TestState_ApproxEqualTreatsNegatedQuatAsSame(t *testing.T) {
	q := yaw(30)
	a := NewState(mgl32.Vec3{1, 2, 3}, q, 60)
	b := NewState(mgl32.Vec3{1, 2, 3}, q.Scale(-1), 60)
	assert.True(t, a.ApproxEqual(b))
	assert.False(t, a.ApproxEqual(NewState(mgl32.Vec3{1, 2, 3}, yaw(31), 60)))
}

func TestCustomEffect(t *testing.T) {
	want := NewState(mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), 50)
	e := NewCustomEffect(func() (State, bool) { return want, true })
	got, ok := e.Resolve()
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = NewCustomEffect(nil).Resolve()
	assert.False(t, ok)
}

func TestFixedEffect_Set(t *testing.T) {
	f := NewFixedEffect(IdentityState())
	next := NewState(mgl32.Vec3{0, 5, 0}, pitch(-90), 30)
	f.Set(next)
	got, ok := f.Resolve()
	require.True(t, ok)
	assert.Equal(t, next, got)
}

func TestCombine_Relative(t *testing.T) {
	a := NewState(mgl32.Vec3{1, 0, 0}, yaw(90), 60)
	b := NewState(mgl32.Vec3{0, 0, -1}, pitch(10), 5)

	got := Combine(a, b, SumModeRelative)

	// B's offset is expressed in A's frame: one unit forward of a camera yawed 90° is -X.
	assert.True(t, got.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, 0}, 1e-5), got.Position)
	assertStateEqual(t, NewState(mgl32.Vec3{}, yaw(90).Mul(pitch(10)), 65), got)
}

func TestCombine_Absolute(t *testing.T) {
	a := NewState(mgl32.Vec3{1, 0, 0}, yaw(90), 60)
	b := NewState(mgl32.Vec3{0, 0, -1}, pitch(10), 5)

	got := Combine(a, b, SumModeAbsolute)

	assertStateEqual(t, NewState(mgl32.Vec3{1, 0, -1}, pitch(10).Mul(yaw(90)), 65), got)
}

func TestCombine_IdentityIsNeutral(t *testing.T) {
	a := NewState(mgl32.Vec3{4, 5, 6}, yaw(33).Mul(pitch(12)), 72)
	for _, mode := range []SumMode{SumModeRelative, SumModeAbsolute} {
		t.Run(mode.String(), func(t *testing.T) {
			assertStateEqual(t, a, Combine(a, IdentityState(), mode))
			assertStateEqual(t, a, Combine(a, State{}, mode))
		})
	}
}

func TestSummedEffect_SetModeSwitchesRule(t *testing.T) {
	a := NewFixedEffect(NewState(mgl32.Vec3{1, 0, 0}, yaw(90), 60))
	b := NewFixedEffect(NewState(mgl32.Vec3{0, 0, -1}, mgl32.QuatIdent(), 0))

	sum := Sum(a, b, SumModeRelative)
	rel, ok := sum.Resolve()
	require.True(t, ok)
	assert.True(t, rel.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, 0}, 1e-5))

	sum.SetMode(SumModeAbsolute)
	assert.Equal(t, SumModeAbsolute, sum.Mode())
	abs, ok := sum.Resolve()
	require.True(t, ok)
	assert.True(t, abs.Position.ApproxEqual(mgl32.Vec3{1, 0, -1}))
}

func TestSummedEffect_DoesNotMutateOperands(t *testing.T) {
	sa := NewState(mgl32.Vec3{1, 2, 3}, yaw(10), 60)
	sb := NewState(mgl32.Vec3{0, 1, 0}, pitch(5), 2)
	a, b := NewFixedEffect(sa), NewFixedEffect(sb)

	sum := Sum(a, b, SumModeRelative)
	_, _ = sum.Resolve()

	gotA, gotB := sum.Operands()
	assert.Same(t, a, gotA)
	assert.Same(t, b, gotB)
	ra, _ := a.Resolve()
	rb, _ := b.Resolve()
	assert.Equal(t, sa, ra)
	assert.Equal(t, sb, rb)
}

func TestSummedEffect_MissingOperandResolvesToNothing(t *testing.T) {
	present := NewFixedEffect(IdentityState())
	absent := NewCustomEffect(func() (State, bool) { return State{}, false })

	_, ok := Sum(present, absent, SumModeRelative).Resolve()
	assert.False(t, ok)
	_, ok = Sum(absent, present, SumModeAbsolute).Resolve()
	assert.False(t, ok)
}

func TestSum_PanicsOnNilOperand(t *testing.T) {
	assert.Panics(t, func() { Sum(nil, NewFixedEffect(State{}), SumModeRelative) })
	assert.Panics(t, func() { Sum(NewFixedEffect(State{}), nil, SumModeRelative) })
}

func TestImpulseEffect_RestIsIdentity(t *testing.T) {
	clock := newFakeClock()
	ie := NewImpulseEffect(WithImpulseClock(clock.Now))

	got, ok := ie.Resolve()
	require.True(t, ok)
	assertStateEqual(t, IdentityState(), got)
	assert.True(t, ie.AtRest())
}

func TestImpulseEffect_ImpulseRotatesThenDecays(t *testing.T) {
	clock := newFakeClock()
	ie := NewImpulseEffect(WithImpulseClock(clock.Now))

	ie.Impulse(mgl32.Vec3{1, 0, 0})
	clock.Advance(50 * time.Millisecond)

	kicked, ok := ie.Resolve()
	require.True(t, ok)
	assert.False(t, kicked.ApproxEqual(IdentityState()))
	axis := kicked.Rotation().V
	assert.Greater(t, float64(axis.X()), 0.0)
	assert.InDelta(t, 0, axis.Y(), 1e-6)
	assert.False(t, ie.AtRest())

	for range 5 {
		clock.Advance(time.Second)
		_, _ = ie.Resolve()
	}
	assert.True(t, ie.AtRest())
	settled, _ := ie.Resolve()
	assertStateEqual(t, IdentityState(), settled)
}

func TestImpulseEffect_ImpulsesAreCommutative(t *testing.T) {
	kicks := []mgl32.Vec3{{0.5, 0, 0}, {0, -0.25, 0.1}, {0.2, 0.2, 0.2}}

	run := func(order []int) State {
		clock := newFakeClock()
		ie := NewImpulseEffect(WithImpulseClock(clock.Now))
		for _, i := range order {
			ie.Impulse(kicks[i])
		}
		clock.Advance(80 * time.Millisecond)
		s, _ := ie.Resolve()
		return s
	}

	assertStateEqual(t, run([]int{0, 1, 2}), run([]int{2, 0, 1}))
}

func TestImpulseEffect_PositionalImpulse(t *testing.T) {
	clock := newFakeClock()
	ie := NewImpulseEffect(WithImpulseClock(clock.Now))
	ie.ImpulsePosition(mgl32.Vec3{0, 2, 0})
	clock.Advance(30 * time.Millisecond)

	got, _ := ie.Resolve()
	assert.Greater(t, float64(got.Position.Y()), 0.0)
	assert.Equal(t, mgl32.QuatIdent(), got.Rotation())
}

func TestImpulseEffect_Spring(t *testing.T) {
	ie := NewImpulseEffect(WithSpring(12, 0.8))
	speed, damper := ie.Spring()
	assert.Equal(t, float32(12), speed)
	assert.Equal(t, float32(0.8), damper)

	ie.SetSpring(0, -1)
	speed, damper = ie.Spring()
	assert.Equal(t, float32(12), speed)
	assert.Equal(t, float32(0.8), damper)

	ie.SetSpring(30, 1)
	speed, damper = ie.Spring()
	assert.Equal(t, float32(30), speed)
	assert.Equal(t, float32(1), damper)

	speed, damper = NewImpulseEffect().Spring()
	assert.Equal(t, DefaultImpulseSpeed, speed)
	assert.Equal(t, DefaultImpulseDamper, damper)
}

func TestSpring_HigherDamperSettlesFaster(t *testing.T) {
	loose := spring{velocity: mgl32.Vec3{1, 0, 0}, speed: 20, damper: 0.2}
	tight := spring{velocity: mgl32.Vec3{1, 0, 0}, speed: 20, damper: 1}
	for range 30 {
		loose.advance(1.0 / 60)
		tight.advance(1.0 / 60)
	}
	assert.Less(t, math.Abs(float64(tight.position.X())), math.Abs(float64(loose.position.X()))+1e-6)
	assert.Less(t, tight.velocity.Len(), loose.velocity.Len())
}

func TestTweenEffect_InterpolatesOverDuration(t *testing.T) {
	clock := newFakeClock()
	from := NewFixedEffect(NewState(mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent(), 60))
	to := NewFixedEffect(NewState(mgl32.Vec3{10, 0, 0}, yaw(90), 40))

	te := NewTweenEffect(from, to, 2*time.Second,
		WithEasing(easeLinear), WithTweenClock(clock.Now))

	start, ok := te.Resolve()
	require.True(t, ok)
	assert.True(t, start.Position.ApproxEqual(mgl32.Vec3{}))

	clock.Advance(time.Second)
	mid, _ := te.Resolve()
	assert.InDelta(t, 5, mid.Position.X(), 1e-4)
	assert.InDelta(t, 50, mid.FieldOfView, 1e-4)
	assert.InDelta(t, 0.5, te.Progress(), 1e-4)
	assert.False(t, te.Done())

	clock.Advance(1500 * time.Millisecond)
	end, _ := te.Resolve()
	assertStateEqual(t, NewState(mgl32.Vec3{10, 0, 0}, yaw(90), 40), end)
	assert.True(t, te.Done())
	assert.Equal(t, float32(1), te.Progress())

	te.Restart()
	assert.False(t, te.Done())
	restarted, _ := te.Resolve()
	assert.True(t, restarted.Position.ApproxEqual(mgl32.Vec3{}))
}

func TestTweenEffect_FollowsMovingDestination(t *testing.T) {
	clock := newFakeClock()
	from := NewFixedEffect(NewState(mgl32.Vec3{}, mgl32.QuatIdent(), 60))
	to := NewFixedEffect(NewState(mgl32.Vec3{10, 0, 0}, mgl32.QuatIdent(), 60))
	te := NewTweenEffect(from, to, time.Second, WithEasing(easeLinear), WithTweenClock(clock.Now))

	clock.Advance(500 * time.Millisecond)
	to.Set(NewState(mgl32.Vec3{20, 0, 0}, mgl32.QuatIdent(), 60))
	got, _ := te.Resolve()
	assert.InDelta(t, 10, got.Position.X(), 1e-4)
}

func TestTweenEffect_ZeroDurationFinishesImmediately(t *testing.T) {
	to := NewFixedEffect(NewState(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent(), 50))
	te := NewTweenEffect(NewFixedEffect(IdentityState()), to, 0)
	assert.True(t, te.Done())
	got, ok := te.Resolve()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, got.Position)
}

func TestTweenEffect_MissingEndpoints(t *testing.T) {
	clock := newFakeClock()
	absent := NewCustomEffect(func() (State, bool) { return State{}, false })
	present := NewFixedEffect(NewState(mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), 60))

	_, ok := NewTweenEffect(present, absent, time.Second, WithTweenClock(clock.Now)).Resolve()
	assert.False(t, ok)

	got, ok := NewTweenEffect(absent, present, time.Second, WithTweenClock(clock.Now)).Resolve()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, got.Position)

	assert.Panics(t, func() { NewTweenEffect(nil, present, time.Second) })
}

func easeLinear(t, b, c, d float32) float32 {
	return c*t/d + b
}
