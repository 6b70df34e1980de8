// Package camera_stack resolves an ordered stack of camera effects to the single state that
// drives the camera this frame.
//
// Entries are camera effects or disable markers. Insertion order is priority order and the
// topmost entry decides: an effect drives the camera, a disable marker suspends camera control.
// The entry at index 0 is the base effect and cannot be removed.
package camera_stack

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-camera/engine/camera_effect"
)

// ErrStackNotInitialized is the panic value for operations on a nil *CameraStack.
var ErrStackNotInitialized = errors.New("camera_stack: stack is not initialized")

// DisableToken identifies one disable marker pushed with PushDisable.
// The zero token is invalid and cancelling it is a no-op.
type DisableToken struct {
	id uint64
}

// Valid reports whether the token was issued by PushDisable.
//
// Returns:
//   - bool: true for issued tokens
func (t DisableToken) Valid() bool {
	return t.id != 0
}

func (t DisableToken) String() string {
	return fmt.Sprintf("disable#%d", t.id)
}

// Entry is one position in the stack: either an effect or a disable marker.
type Entry struct {
	effect camera_effect.Effect
	token  DisableToken
}

// Effect returns the entry's effect, or nil for a disable marker.
//
// Returns:
//   - camera_effect.Effect: the effect or nil
func (e Entry) Effect() camera_effect.Effect {
	return e.effect
}

// IsDisable reports whether the entry is a disable marker.
//
// Returns:
//   - bool: true for markers
func (e Entry) IsDisable() bool {
	return e.token.Valid()
}

// Token returns the marker's token; the zero token for effects.
//
// Returns:
//   - DisableToken: the token
func (e Entry) Token() DisableToken {
	return e.token
}

func (e Entry) String() string {
	if e.IsDisable() {
		return "<" + e.token.String() + ">"
	}
	return fmt.Sprintf("%T(%p)", e.effect, e.effect)
}

// CameraStack is the ordered collection of camera effects and disable markers.
// Effects are compared by identity, so the same effect may be pushed several times and
// each push is a distinct entry.
type CameraStack struct {
	mu *sync.Mutex

	name      string
	logger    *log.Logger
	entries   []Entry
	nextToken uint64
}

// NewCameraStack creates a stack seeded with base at index 0. Panics if base is nil.
//
// Parameters:
//   - base: the protected bottom effect
//   - options: functional options to configure the stack
//
// Returns:
//   - *CameraStack: the new stack
func NewCameraStack(base camera_effect.Effect, options ...CameraStackOption) *CameraStack {
	if base == nil {
		panic("camera_stack: NewCameraStack requires a non-nil base effect")
	}
	cs := &CameraStack{
		mu:      &sync.Mutex{},
		name:    "CameraStack",
		logger:  log.Default(),
		entries: make([]Entry, 0, 8),
	}
	for _, option := range options {
		option(cs)
	}
	cs.entries = append(cs.entries, Entry{effect: base})
	return cs
}

// mustExist panics with ErrStackNotInitialized on a nil stack.
func (cs *CameraStack) mustExist() {
	if cs == nil {
		panic(ErrStackNotInitialized)
	}
}

func (cs *CameraStack) logf(format string, args ...any) {
	cs.logger.Printf("[%s] "+format, append([]any{cs.name}, args...)...)
}

// Add pushes effect as the new top. Nil effects are ignored.
//
// Parameters:
//   - effect: the effect to push
func (cs *CameraStack) Add(effect camera_effect.Effect) {
	cs.mustExist()
	if effect == nil {
		cs.logf("ignoring Add of nil effect")
		return
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.entries = append(cs.entries, Entry{effect: effect})
}

// Remove removes the most recently added occurrence of effect, preserving the order of the
// remaining entries. Absent effects are a no-op, and the base entry is never removed.
//
// Parameters:
//   - effect: the effect to remove
func (cs *CameraStack) Remove(effect camera_effect.Effect) {
	cs.mustExist()
	if effect == nil {
		return
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	i := cs.lastIndexLocked(effect)
	switch {
	case i < 0:
		return
	case i == 0:
		cs.logf("refusing to remove base effect %s", cs.entries[0])
		return
	}
	cs.entries = append(cs.entries[:i], cs.entries[i+1:]...)
}

// PushDisable pushes a disable marker as the new top. While the marker is the topmost
// entry, camera control is suspended: GetTopState resolves to nothing.
//
// Returns:
//   - DisableToken: the handle for CancelDisable
func (cs *CameraStack) PushDisable() DisableToken {
	cs.mustExist()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.nextToken++
	token := DisableToken{id: cs.nextToken}
	cs.entries = append(cs.entries, Entry{token: token})
	return token
}

// CancelDisable removes the marker identified by token. Cancelling is one-shot:
// later calls, zero tokens and tokens whose marker is already gone are no-ops.
// Any caller may cancel any token.
//
// Parameters:
//   - token: the handle returned by PushDisable
//
// Returns:
//   - bool: true if a marker was removed by this call
func (cs *CameraStack) CancelDisable(token DisableToken) bool {
	cs.mustExist()
	if !token.Valid() {
		return false
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for i := len(cs.entries) - 1; i >= 0; i-- {
		if cs.entries[i].token == token {
			cs.entries = append(cs.entries[:i], cs.entries[i+1:]...)
			return true
		}
	}
	return false
}

// IsDisabled reports whether the topmost entry is a disable marker.
//
// Returns:
//   - bool: true if camera control is suspended
func (cs *CameraStack) IsDisabled() bool {
	cs.mustExist()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	n := len(cs.entries)
	return n > 0 && cs.entries[n-1].IsDisable()
}

// GetTopCamera returns the effect that owns the current top state.
//
// Returns:
//   - camera_effect.Effect: the top effect
//   - bool: false if the stack is disabled or empty
func (cs *CameraStack) GetTopCamera() (camera_effect.Effect, bool) {
	cs.mustExist()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.topLocked()
}

// GetTopState resolves the top effect. This is the per-frame read path; only the topmost
// entry is inspected. The effect is resolved outside the stack's lock so effects may query
// the stack themselves.
//
// Returns:
//   - camera_effect.State: the resolved state
//   - bool: false if disabled, empty, or the top effect has nothing this frame
func (cs *CameraStack) GetTopState() (camera_effect.State, bool) {
	top, ok := cs.GetTopCamera()
	if !ok {
		return camera_effect.State{}, false
	}
	return top.Resolve()
}

// GetIndex returns the position of the most recent occurrence of effect.
// Indices are snapshots and are invalidated by the next mutation.
//
// Parameters:
//   - effect: the effect to find
//
// Returns:
//   - int: the index
//   - bool: false if absent
func (cs *CameraStack) GetIndex(effect camera_effect.Effect) (int, bool) {
	cs.mustExist()
	if effect == nil {
		return 0, false
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	i := cs.lastIndexLocked(effect)
	return i, i >= 0
}

// GetNewStateBelow creates an adapter that resolves to whatever lies immediately below its
// anchor in the stack at query time. The anchor defaults to the adapter itself; callers that
// wrap the adapter inside their own effect set the anchor to that effect with the returned
// function (equivalent to BelowEffect.SetAnchor) before pushing it.
//
// Returns:
//   - *BelowEffect: the adapter
//   - func(camera_effect.Effect): sets the adapter's anchor
func (cs *CameraStack) GetNewStateBelow() (*BelowEffect, func(camera_effect.Effect)) {
	cs.mustExist()
	below := newBelowEffect(cs)
	return below, below.SetAnchor
}

// GetRawStack returns a copy of every entry, bottom first.
//
// Returns:
//   - []Entry: the entries
func (cs *CameraStack) GetRawStack() []Entry {
	cs.mustExist()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]Entry, len(cs.entries))
	copy(out, cs.entries)
	return out
}

// Len returns the number of entries including the base and any markers.
//
// Returns:
//   - int: the entry count
func (cs *CameraStack) Len() int {
	cs.mustExist()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.entries)
}

// Base returns the protected effect at index 0.
//
// Returns:
//   - camera_effect.Effect: the base effect
func (cs *CameraStack) Base() camera_effect.Effect {
	cs.mustExist()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.entries[0].effect
}

// PrintCameraStack logs the stack, top first.
func (cs *CameraStack) PrintCameraStack() {
	var sb strings.Builder
	cs.Dump(&sb)
	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		cs.logf("%s", line)
	}
}

// Dump writes the stack to w, top first, one entry per line with its index and identity.
//
// Parameters:
//   - w: the destination writer
func (cs *CameraStack) Dump(w io.Writer) {
	entries := cs.GetRawStack()
	top := len(entries) - 1
	fmt.Fprintf(w, "stack depth=%d disabled=%t\n", len(entries), top >= 0 && entries[top].IsDisable())
	for i := top; i >= 0; i-- {
		marker := "  "
		switch {
		case i == top:
			marker = "> "
		case i == 0:
			marker = "_ "
		}
		fmt.Fprintf(w, "%s[%d] %s\n", marker, i, entries[i])
	}
}

// topLocked returns the topmost entry's effect. Caller must hold the mutex.
func (cs *CameraStack) topLocked() (camera_effect.Effect, bool) {
	n := len(cs.entries)
	if n == 0 {
		return nil, false
	}
	top := cs.entries[n-1]
	if top.IsDisable() {
		return nil, false
	}
	return top.effect, true
}

// lastIndexLocked returns the index of the most recent occurrence of effect, or -1.
// Caller must hold the mutex.
func (cs *CameraStack) lastIndexLocked(effect camera_effect.Effect) int {
	for i := len(cs.entries) - 1; i >= 0; i-- {
		if !cs.entries[i].IsDisable() && cs.entries[i].effect == effect {
			return i
		}
	}
	return -1
}

// stateBelow resolves the entry immediately below anchor. A missing anchor, or an anchor at
// the bottom, falls back to the base effect. A disable marker directly below resolves to nothing.
func (cs *CameraStack) stateBelow(anchor camera_effect.Effect) (camera_effect.State, bool) {
	cs.mu.Lock()
	i := cs.lastIndexLocked(anchor)
	var target Entry
	switch {
	case i < 0:
		cs.logf("could not find %T(%p) in stack, returning base state", anchor, anchor)
		target = cs.entries[0]
	case i == 0:
		cs.logf("nothing below %T(%p), returning base state", anchor, anchor)
		target = cs.entries[0]
	default:
		target = cs.entries[i-1]
	}
	cs.mu.Unlock()

	if target.IsDisable() {
		return camera_effect.State{}, false
	}
	return target.effect.Resolve()
}
