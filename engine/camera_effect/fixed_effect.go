package camera_effect

import (
	"sync"
)

// FixedEffect always resolves to a state set by its owner, e.g. a cinematic shot or a debug pin.
type FixedEffect struct {
	mu    *sync.Mutex
	state State
}

var _ Effect = &FixedEffect{}

// NewFixedEffect creates an effect pinned to state.
//
// Parameters:
//   - state: the state to resolve to
//
// Returns:
//   - *FixedEffect: the new effect
func NewFixedEffect(state State) *FixedEffect {
	return &FixedEffect{mu: &sync.Mutex{}, state: state}
}

// Set replaces the pinned state.
//
// Parameters:
//   - state: the new state
func (f *FixedEffect) Set(state State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
}

func (f *FixedEffect) Resolve() (State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, true
}
