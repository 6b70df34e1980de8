package camera_effect

import (
	"github.com/go-gl/mathgl/mgl32"
)

// springStep is the fixed integration step used when advancing a spring.
const springStep = float32(1.0 / 240.0)

// maxSpringAdvance caps how far a spring is advanced in one call so a long stall
// (debugger pause, window drag) does not spin the integrator.
const maxSpringAdvance = float32(1.0)

// restEpsilon is the magnitude below which position and velocity snap to zero.
const restEpsilon = float32(1e-5)

// spring is a damped harmonic oscillator on three axes with a rest target of zero.
// Caller must hold the owning effect's mutex.
type spring struct {
	position mgl32.Vec3
	velocity mgl32.Vec3
	speed    float32 // angular frequency
	damper   float32 // damping ratio, 1 = critical
}

// advance integrates the spring forward by dt seconds using semi-implicit Euler in fixed steps.
func (s *spring) advance(dt float32) {
	if dt <= 0 || s.atRest() {
		return
	}
	if dt > maxSpringAdvance {
		dt = maxSpringAdvance
	}

	k := s.speed * s.speed
	c := 2 * s.damper * s.speed
	for dt > 0 {
		h := min(dt, springStep)
		accel := s.position.Mul(-k).Sub(s.velocity.Mul(c))
		s.velocity = s.velocity.Add(accel.Mul(h))
		s.position = s.position.Add(s.velocity.Mul(h))
		dt -= h
	}

	if s.position.Len() < restEpsilon && s.velocity.Len() < restEpsilon {
		s.position = mgl32.Vec3{}
		s.velocity = mgl32.Vec3{}
	}
}

// atRest reports whether the spring has settled at its target.
func (s *spring) atRest() bool {
	return s.position == (mgl32.Vec3{}) && s.velocity == (mgl32.Vec3{})
}
