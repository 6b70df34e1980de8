package camera_effect

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultImpulseSpeed is the default spring angular frequency of the impulse camera.
	DefaultImpulseSpeed float32 = 20
	// DefaultImpulseDamper is the default spring damping ratio of the impulse camera.
	DefaultImpulseDamper float32 = 0.5
)

// ImpulseEffect is a shared, additive, decaying offset used for transient perturbations such as shake.
// Impulses add velocity to damped springs; the offset decays back to identity on its own.
// The effect always resolves, producing the identity state while at rest, so it can be
// summed onto any other effect permanently.
type ImpulseEffect struct {
	mu *sync.Mutex

	angular    spring // pitch, yaw, roll in radians
	positional spring // local-space translation

	now  func() time.Time
	last time.Time
}

var _ Effect = &ImpulseEffect{}

// NewImpulseEffect creates an impulse effect at rest.
//
// Parameters:
//   - options: functional options to configure the effect
//
// Returns:
//   - *ImpulseEffect: the new effect
func NewImpulseEffect(options ...ImpulseEffectOption) *ImpulseEffect {
	ie := &ImpulseEffect{
		mu:         &sync.Mutex{},
		angular:    spring{speed: DefaultImpulseSpeed, damper: DefaultImpulseDamper},
		positional: spring{speed: DefaultImpulseSpeed, damper: DefaultImpulseDamper},
		now:        time.Now,
	}
	for _, option := range options {
		option(ie)
	}
	ie.last = ie.now()
	return ie
}

// Impulse perturbs the angular spring. Impulses are additive and commutative;
// any number of callers may kick the same effect within a frame.
//
// Parameters:
//   - velocity: angular velocity in radians per second around the X (pitch), Y (yaw) and Z (roll) axes
func (ie *ImpulseEffect) Impulse(velocity mgl32.Vec3) {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	ie.advance()
	ie.angular.velocity = ie.angular.velocity.Add(velocity)
}

// ImpulsePosition perturbs the positional spring.
//
// Parameters:
//   - velocity: linear velocity in the camera's local frame, units per second
func (ie *ImpulseEffect) ImpulsePosition(velocity mgl32.Vec3) {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	ie.advance()
	ie.positional.velocity = ie.positional.velocity.Add(velocity)
}

// SetSpring updates the spring constants used by both axes groups.
// Non-positive values are ignored.
//
// Parameters:
//   - speed: angular frequency
//   - damper: damping ratio
func (ie *ImpulseEffect) SetSpring(speed, damper float32) {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	ie.advance()
	if speed > 0 {
		ie.angular.speed = speed
		ie.positional.speed = speed
	}
	if damper > 0 {
		ie.angular.damper = damper
		ie.positional.damper = damper
	}
}

// Spring returns the current spring constants.
//
// Returns:
//   - speed: angular frequency
//   - damper: damping ratio
func (ie *ImpulseEffect) Spring() (speed, damper float32) {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	return ie.angular.speed, ie.angular.damper
}

// AtRest reports whether both springs have settled.
//
// Returns:
//   - bool: true if the effect currently contributes nothing
func (ie *ImpulseEffect) AtRest() bool {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	ie.advance()
	return ie.angular.atRest() && ie.positional.atRest()
}

// Resolve advances the springs to now and returns the current offset.
func (ie *ImpulseEffect) Resolve() (State, bool) {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	ie.advance()

	a := ie.angular.position
	return State{
		Position:    ie.positional.position,
		Orientation: mgl32.AnglesToQuat(a[0], a[1], a[2], mgl32.XYZ),
	}, true
}

// advance moves both springs forward to the current clock time.
// Caller must hold the mutex.
func (ie *ImpulseEffect) advance() {
	now := ie.now()
	dt := float32(now.Sub(ie.last).Seconds())
	ie.last = now
	ie.angular.advance(dt)
	ie.positional.advance(dt)
}
