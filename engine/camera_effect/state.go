package camera_effect

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// forwardAxis is the local axis a camera looks down (right-handed, +Y up).
var forwardAxis = mgl32.Vec3{0, 0, -1}

// State is a concrete, settable camera pose for a single frame.
// A zero Orientation is treated as the identity rotation so that partially filled
// offset states (position-only, FOV-only) compose without special casing.
type State struct {
	// Position is the world-space (or, for offsets, local-space) camera position.
	Position mgl32.Vec3

	// Orientation is the camera rotation.
	Orientation mgl32.Quat

	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float32
}

// NewState creates a State from its components.
//
// Parameters:
//   - position: camera position
//   - orientation: camera rotation
//   - fov: vertical field of view in degrees
//
// Returns:
//   - State: the new state
func NewState(position mgl32.Vec3, orientation mgl32.Quat, fov float32) State {
	return State{Position: position, Orientation: orientation, FieldOfView: fov}
}

// IdentityState returns a state with no translation, no rotation and no FOV.
// It is the neutral element for Relative summation.
//
// Returns:
//   - State: the identity state
func IdentityState() State {
	return State{Orientation: mgl32.QuatIdent()}
}

// LookAtState creates a State positioned at eye and rotated to face target.
// World up is +Y; when looking straight up or down, +Z stands in for it.
//
// Parameters:
//   - eye: camera position
//   - target: point the camera looks at
//   - fov: vertical field of view in degrees
//
// Returns:
//   - State: the new state
func LookAtState(eye, target mgl32.Vec3, fov float32) State {
	state := State{Position: eye, Orientation: mgl32.QuatIdent(), FieldOfView: fov}
	dir := target.Sub(eye)
	if dir.Len() < 1e-6 {
		return state
	}
	forward := dir.Normalize()

	right := forward.Cross(mgl32.Vec3{0, 1, 0})
	if right.Len() < 1e-6 {
		right = forward.Cross(mgl32.Vec3{0, 0, 1})
	}
	right = right.Normalize()
	up := right.Cross(forward)

	// Columns are the camera's local X, Y and Z axes in world space; the camera looks down -Z.
	basis := mgl32.Mat3FromCols(right, up, forward.Mul(-1))
	state.Orientation = mgl32.Mat4ToQuat(basis.Mat4()).Normalize()
	return state
}

// Rotation returns the normalized orientation, substituting identity for the zero quaternion.
//
// Returns:
//   - mgl32.Quat: a unit quaternion
func (s State) Rotation() mgl32.Quat {
	if s.Orientation.W == 0 && s.Orientation.V.ApproxEqual(mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return s.Orientation.Normalize()
}

// Forward returns the direction the camera is facing in world space.
//
// Returns:
//   - mgl32.Vec3: unit forward vector
func (s State) Forward() mgl32.Vec3 {
	return s.Rotation().Rotate(forwardAxis)
}

// Lerp interpolates between s and other. Position and FOV are linear, orientation is slerped.
//
// Parameters:
//   - other: the destination state
//   - t: interpolation factor, 0 returns s and 1 returns other
//
// Returns:
//   - State: the interpolated state
func (s State) Lerp(other State, t float32) State {
	return State{
		Position:    s.Position.Add(other.Position.Sub(s.Position).Mul(t)),
		Orientation: mgl32.QuatSlerp(s.Rotation(), other.Rotation(), t),
		FieldOfView: s.FieldOfView + (other.FieldOfView-s.FieldOfView)*t,
	}
}

// ApproxEqual reports whether two states are equal within float tolerance.
// Orientations q and -q describe the same rotation and compare equal.
//
// Parameters:
//   - other: the state to compare against
//
// Returns:
//   - bool: true if position, rotation and FOV match
func (s State) ApproxEqual(other State) bool {
	if !s.Position.ApproxEqualThreshold(other.Position, 1e-4) {
		return false
	}
	if !mgl32.FloatEqualThreshold(s.FieldOfView, other.FieldOfView, 1e-4) {
		return false
	}
	dot := s.Rotation().Dot(other.Rotation())
	return mgl32.FloatEqualThreshold(dot*dot, 1, 1e-4)
}

func (s State) String() string {
	q := s.Rotation()
	return fmt.Sprintf("State{pos=(%.3f, %.3f, %.3f) rot=(w=%.3f, %.3f, %.3f, %.3f) fov=%.2f}",
		s.Position[0], s.Position[1], s.Position[2],
		q.W, q.V[0], q.V[1], q.V[2],
		s.FieldOfView,
	)
}
