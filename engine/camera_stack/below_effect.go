package camera_stack

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-camera/engine/camera_effect"
)

// BelowEffect resolves to the stack entry immediately below its anchor, letting an effect
// wrap whatever would be visible without it instead of replacing it.
type BelowEffect struct {
	mu     *sync.Mutex
	stack  *CameraStack
	anchor camera_effect.Effect
}

var _ camera_effect.Effect = &BelowEffect{}

func newBelowEffect(stack *CameraStack) *BelowEffect {
	return &BelowEffect{mu: &sync.Mutex{}, stack: stack}
}

// SetAnchor sets the stack entry the adapter looks below. Nil restores the default,
// which is the adapter itself.
//
// Parameters:
//   - anchor: the effect whose position is used
func (b *BelowEffect) SetAnchor(anchor camera_effect.Effect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.anchor = anchor
}

// Anchor returns the effect whose stack position is used.
//
// Returns:
//   - camera_effect.Effect: the anchor
func (b *BelowEffect) Anchor() camera_effect.Effect {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.anchor == nil {
		return b
	}
	return b.anchor
}

func (b *BelowEffect) Resolve() (camera_effect.State, bool) {
	return b.stack.stateBelow(b.Anchor())
}
