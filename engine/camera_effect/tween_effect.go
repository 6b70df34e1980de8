package camera_effect

import (
	"sync"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenEffect eases from one effect's state to another's over a fixed duration.
// Both endpoints are resolved every frame, so moving sources and destinations are followed.
// Once finished it resolves to the destination.
type TweenEffect struct {
	mu *sync.Mutex

	from Effect
	to   Effect

	duration float32
	easing   ease.TweenFunc
	tween    *gween.Tween
	progress float32
	finished bool

	now  func() time.Time
	last time.Time
}

var _ Effect = &TweenEffect{}

// NewTweenEffect creates a tween between two effects. Panics if either endpoint is nil.
// A non-positive duration finishes immediately.
//
// Parameters:
//   - from: the effect the tween starts at
//   - to: the effect the tween ends at
//   - duration: tween length
//   - options: functional options to configure the tween
//
// Returns:
//   - *TweenEffect: the new effect
func NewTweenEffect(from, to Effect, duration time.Duration, options ...TweenEffectOption) *TweenEffect {
	if from == nil || to == nil {
		panic("camera_effect: NewTweenEffect requires non-nil endpoints")
	}
	te := &TweenEffect{
		mu:       &sync.Mutex{},
		from:     from,
		to:       to,
		duration: float32(duration.Seconds()),
		easing:   ease.InOutQuad,
		now:      time.Now,
	}
	for _, option := range options {
		option(te)
	}
	te.restart()
	return te
}

// Restart rewinds the tween to its start.
func (te *TweenEffect) Restart() {
	te.mu.Lock()
	defer te.mu.Unlock()
	te.restart()
}

// Done reports whether the tween has reached its destination.
//
// Returns:
//   - bool: true once the duration has elapsed
func (te *TweenEffect) Done() bool {
	te.mu.Lock()
	defer te.mu.Unlock()
	te.advance()
	return te.finished
}

// Progress returns the eased interpolation factor in [0, 1].
//
// Returns:
//   - float32: the current factor
func (te *TweenEffect) Progress() float32 {
	te.mu.Lock()
	defer te.mu.Unlock()
	te.advance()
	return te.progress
}

// Resolve advances the tween and interpolates between the endpoint states.
// If the destination has no state the tween has none; if only the source is missing
// the destination is used directly.
func (te *TweenEffect) Resolve() (State, bool) {
	te.mu.Lock()
	te.advance()
	t := te.progress
	te.mu.Unlock()

	dst, ok := te.to.Resolve()
	if !ok {
		return State{}, false
	}
	if t >= 1 {
		return dst, true
	}
	src, ok := te.from.Resolve()
	if !ok {
		return dst, true
	}
	return src.Lerp(dst, t), true
}

// restart rebuilds the underlying tween. Caller must hold the mutex.
func (te *TweenEffect) restart() {
	te.last = te.now()
	te.progress = 0
	te.finished = false
	if te.duration <= 0 {
		te.tween = nil
		te.progress = 1
		te.finished = true
		return
	}
	te.tween = gween.New(0, 1, te.duration, te.easing)
}

// advance moves the tween forward to the current clock time. Caller must hold the mutex.
func (te *TweenEffect) advance() {
	now := te.now()
	dt := float32(now.Sub(te.last).Seconds())
	te.last = now
	if te.finished || te.tween == nil || dt <= 0 {
		return
	}
	current, finished := te.tween.Update(dt)
	te.progress = current
	if finished {
		te.progress = 1
		te.finished = true
	}
}
