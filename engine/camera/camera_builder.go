package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option for configuring a Camera.
// Lens options ignore non-positive values so a zero config field keeps the default.
type CameraBuilderOption func(*cameraImpl)

// WithUp sets the camera's world up vector. The vector is normalized; a zero vector is ignored.
//
// Parameters:
//   - up: the up direction
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		if up.Len() > 0 {
			c.up = up.Normalize()
		}
	}
}

// WithFov sets the vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if fov > 0 {
			c.fov = fov
		}
	}
}

// WithAspect sets the aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithNear sets the near clipping plane distance.
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if near > 0 {
			c.near = near
		}
	}
}

// WithFar sets the far clipping plane distance.
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if far > 0 {
			c.far = far
		}
	}
}

// WithType sets the initial camera type. Watchers are not notified for the initial value.
//
// Parameters:
//   - t: the camera type
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithType(t CameraType) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.cameraType = t
	}
}

// WithPose sets the initial position and orientation without counting as a pose write.
//
// Parameters:
//   - position: world-space position
//   - orientation: rotation
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithPose(position mgl32.Vec3, orientation mgl32.Quat) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
		c.orientation = orientation
	}
}
