// Package camera_effect contains the camera pose type and the composable effects that produce it.
//
// An Effect produces a State for the current frame. Effects are stacked and resolved by
// camera_stack; this package only defines how individual effects and their sums behave.
package camera_effect

// Effect defines the single capability every camera effect provides.
// Implementations must be pointer types: stacks compare effects by identity.
type Effect interface {
	// Resolve produces the camera state for the current frame.
	//
	// Returns:
	//   - State: the resolved state
	//   - bool: false if the effect has nothing to contribute this frame
	Resolve() (State, bool)
}

// CustomEffect adapts a plain function into an Effect.
type CustomEffect struct {
	resolve func() (State, bool)
}

var _ Effect = &CustomEffect{}

// NewCustomEffect creates an Effect whose state is produced by fn.
// A nil fn yields an effect that never resolves.
//
// Parameters:
//   - fn: the function called on every Resolve
//
// Returns:
//   - *CustomEffect: the new effect
func NewCustomEffect(fn func() (State, bool)) *CustomEffect {
	return &CustomEffect{resolve: fn}
}

func (c *CustomEffect) Resolve() (State, bool) {
	if c.resolve == nil {
		return State{}, false
	}
	return c.resolve()
}
