package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController defines the physically simulated orbit rig behind the default camera.
// The controller owns positional state (target plus spherical offset) and angular velocity;
// Step integrates that velocity with damping once per frame.
type CameraController interface {
	// Position returns the rig's world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the look-at/pivot point.
	//
	// Returns:
	//   - mgl32.Vec3: the pivot
	Target() mgl32.Vec3

	// SetTarget moves the pivot and recomputes the eye position.
	//
	// Parameters:
	//   - target: world-space pivot
	SetTarget(target mgl32.Vec3)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis in radians.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle and recomputes the eye position.
	//
	// Parameters:
	//   - azimuth: horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane in radians.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle, clamped to min/max bounds.
	//
	// Parameters:
	//   - elevation: vertical angle in radians
	SetElevation(elevation float32)

	// Zoom adjusts the orbit radius. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Orbit adds angular velocity to the rig. The velocity decays under damping in Step.
	//
	// Parameters:
	//   - azimuth: horizontal input, scaled by the orbit speed
	//   - elevation: vertical input, scaled by the orbit speed
	Orbit(azimuth, elevation float32)

	// Pan translates pivot and eye together along the rig's local axes.
	//
	// Parameters:
	//   - right, up, forward: pan amounts scaled by the pan speed
	Pan(right, up, forward float32)

	// AngularVelocity returns the current orbit velocity in radians per second.
	//
	// Returns:
	//   - azimuth, elevation: angular velocity components
	AngularVelocity() (azimuth, elevation float32)

	// Step integrates angular velocity over dt seconds and applies damping.
	//
	// Parameters:
	//   - dt: seconds since the previous step
	Step(dt float32)
}
