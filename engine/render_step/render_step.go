// Package render_step provides the per-frame callback registry that orders work within a render frame.
//
// Callbacks are bound under a unique name with a numeric priority and run in ascending
// priority order every Step. Ties run in bind order.
package render_step

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
)

// Well-known priorities. Work that must observe the built-in camera update binds
// relative to PriorityCamera.
const (
	PriorityFirst     = 0
	PriorityInput     = 100
	PriorityCamera    = 200
	PriorityCharacter = 300
	PriorityLast      = 2000
)

var (
	ErrEmptyName   = errors.New("render_step: binding name is empty")
	ErrNilCallback = errors.New("render_step: callback is nil")
)

// Binding describes a registered callback.
type Binding struct {
	// Name is the unique key the callback was bound under.
	Name string
	// Priority orders the callback within a frame; lower runs first.
	Priority int
}

type binding struct {
	Binding
	seq    uint64
	fn     func(deltaTime float32)
	active atomic.Bool
}

type renderStepper struct {
	mu       *sync.Mutex
	bindings []*binding
	byName   map[string]*binding
	nextSeq  uint64
	frame    uint64
}

// RenderStepper defines the render-tick provider.
type RenderStepper interface {
	// BindToRenderStep registers fn to run every Step at the given priority.
	// Binding an existing name replaces the previous callback.
	//
	// Parameters:
	//   - name: unique key for the binding
	//   - priority: ordering within a frame, lower runs first
	//   - fn: the callback, receiving the frame delta time in seconds
	//
	// Returns:
	//   - error: ErrEmptyName or ErrNilCallback on invalid input
	BindToRenderStep(name string, priority int, fn func(deltaTime float32)) error

	// UnbindFromRenderStep removes the binding with the given name.
	// A callback unbound during a Step does not run later in that Step.
	//
	// Parameters:
	//   - name: the binding key
	//
	// Returns:
	//   - bool: true if a binding was removed
	UnbindFromRenderStep(name string) bool

	// IsBound reports whether a binding with the given name exists.
	//
	// Parameters:
	//   - name: the binding key
	//
	// Returns:
	//   - bool: true if bound
	IsBound(name string) bool

	// Bindings returns the current bindings in execution order.
	//
	// Returns:
	//   - []Binding: a copy of the bindings
	Bindings() []Binding

	// Step runs every bound callback once, in priority order.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	Step(deltaTime float32)

	// Frame returns the number of completed Steps.
	//
	// Returns:
	//   - uint64: the frame counter
	Frame() uint64
}

var _ RenderStepper = &renderStepper{}

// NewRenderStepper creates an empty RenderStepper.
//
// Returns:
//   - RenderStepper: the new stepper
func NewRenderStepper() RenderStepper {
	return &renderStepper{
		mu:     &sync.Mutex{},
		byName: make(map[string]*binding),
	}
}

func (r *renderStepper) BindToRenderStep(name string, priority int, fn func(deltaTime float32)) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilCallback
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byName[name]; ok {
		r.removeLocked(old)
	}

	b := &binding{
		Binding: Binding{Name: name, Priority: priority},
		seq:     r.nextSeq,
		fn:      fn,
	}
	b.active.Store(true)
	r.nextSeq++

	r.bindings = append(r.bindings, b)
	r.byName[name] = b
	sort.SliceStable(r.bindings, func(i, j int) bool {
		if r.bindings[i].Priority != r.bindings[j].Priority {
			return r.bindings[i].Priority < r.bindings[j].Priority
		}
		return r.bindings[i].seq < r.bindings[j].seq
	})
	return nil
}

func (r *renderStepper) UnbindFromRenderStep(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byName[name]
	if !ok {
		return false
	}
	r.removeLocked(b)
	return true
}

func (r *renderStepper) IsBound(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byName[name]
	return ok
}

func (r *renderStepper) Bindings() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b.Binding)
	}
	return out
}

func (r *renderStepper) Step(deltaTime float32) {
	// Snapshot so callbacks may bind and unbind freely while the frame runs.
	r.mu.Lock()
	snapshot := make([]*binding, len(r.bindings))
	copy(snapshot, r.bindings)
	r.mu.Unlock()

	for _, b := range snapshot {
		if !b.active.Load() {
			continue
		}
		b.fn(deltaTime)
	}

	r.mu.Lock()
	r.frame++
	r.mu.Unlock()
}

func (r *renderStepper) Frame() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// removeLocked deactivates and removes b. Caller must hold the mutex.
func (r *renderStepper) removeLocked(b *binding) {
	b.active.Store(false)
	delete(r.byName, b.Name)
	for i, other := range r.bindings {
		if other == b {
			r.bindings = append(r.bindings[:i], r.bindings[i+1:]...)
			break
		}
	}
}
