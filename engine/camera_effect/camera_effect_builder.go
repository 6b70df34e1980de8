package camera_effect

import (
	"time"

	"github.com/tanema/gween/ease"
)

// ImpulseEffectOption is a functional option for configuring an ImpulseEffect.
type ImpulseEffectOption func(*ImpulseEffect)

// WithSpring sets the spring constants of the impulse effect.
//
// Parameters:
//   - speed: angular frequency of the springs
//   - damper: damping ratio, 1 is critically damped
//
// Returns:
//   - ImpulseEffectOption: option function to apply
func WithSpring(speed, damper float32) ImpulseEffectOption {
	return func(ie *ImpulseEffect) {
		if speed > 0 {
			ie.angular.speed = speed
			ie.positional.speed = speed
		}
		if damper > 0 {
			ie.angular.damper = damper
			ie.positional.damper = damper
		}
	}
}

// WithImpulseClock replaces the wall clock used to advance the springs.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - ImpulseEffectOption: option function to apply
func WithImpulseClock(now func() time.Time) ImpulseEffectOption {
	return func(ie *ImpulseEffect) {
		if now != nil {
			ie.now = now
		}
	}
}

// TweenEffectOption is a functional option for configuring a TweenEffect.
type TweenEffectOption func(*TweenEffect)

// WithEasing sets the easing function. Defaults to ease.InOutQuad.
//
// Parameters:
//   - easing: a gween easing function
//
// Returns:
//   - TweenEffectOption: option function to apply
func WithEasing(easing ease.TweenFunc) TweenEffectOption {
	return func(te *TweenEffect) {
		if easing != nil {
			te.easing = easing
		}
	}
}

// WithTweenClock replaces the wall clock used to advance the tween.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - TweenEffectOption: option function to apply
func WithTweenClock(now func() time.Time) TweenEffectOption {
	return func(te *TweenEffect) {
		if now != nil {
			te.now = now
		}
	}
}
