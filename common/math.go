package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Perspective creates a right-handed perspective projection matrix that maps view-space depth
// to the WebGPU clip range [0, 1]. mgl32.Perspective targets the OpenGL range [-1, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// ViewFromPose builds the view matrix of a camera at position with the given rotation.
// A zero quaternion is treated as identity.
//
// Parameters:
//   - position: world-space eye position
//   - orientation: camera rotation
//
// Returns:
//   - mgl32.Mat4: the world-to-view matrix
func ViewFromPose(position mgl32.Vec3, orientation mgl32.Quat) mgl32.Mat4 {
	if orientation.Len() == 0 {
		orientation = mgl32.QuatIdent()
	}
	world := mgl32.Translate3D(position[0], position[1], position[2]).Mul4(orientation.Normalize().Mat4())
	return world.Inv()
}
