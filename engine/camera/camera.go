package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-camera/common"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraType selects who drives the live camera.
type CameraType int

const (
	// CameraTypePhysical lets the default camera's physical simulation move the camera each frame.
	CameraTypePhysical CameraType = iota
	// CameraTypeScriptable disables the physical simulation; only explicit pose writes move the camera.
	CameraTypeScriptable
)

func (t CameraType) String() string {
	switch t {
	case CameraTypePhysical:
		return "Physical"
	case CameraTypeScriptable:
		return "Scriptable"
	default:
		return "Unknown"
	}
}

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	position    mgl32.Vec3
	orientation mgl32.Quat

	fov    float32
	aspect float32
	near   float32
	far    float32

	cameraType  CameraType
	typeWatches map[uint64]func(CameraType)
	nextWatchID uint64
	writes      uint64

	viewMatrix              mgl32.Mat4
	projectionMatrix        mgl32.Mat4
	viewProjectionMatrix    mgl32.Mat4
	inverseProjectionMatrix mgl32.Mat4
}

// Camera defines the live camera object that the rest of the engine renders from.
// Its pose is written once per frame by whoever currently owns camera control, and its
// type decides whether the default camera's physical simulation may move it.
type Camera interface {
	// Up returns the camera's world up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the unit up vector
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Orientation returns the camera's rotation.
	//
	// Returns:
	//   - mgl32.Quat: the rotation
	Orientation() mgl32.Quat

	// Type returns the current camera type.
	//
	// Returns:
	//   - CameraType: the camera type
	Type() CameraType

	// SetType changes the camera type and notifies every type watcher if it changed.
	// Watchers run after the camera's lock is released and may call SetType themselves.
	//
	// Parameters:
	//   - t: the new camera type
	SetType(t CameraType)

	// WatchType registers fn to be called with the new type whenever the type changes.
	//
	// Parameters:
	//   - fn: the watcher
	//
	// Returns:
	//   - func(): removes the watcher; safe to call more than once
	WatchType(fn func(CameraType)) func()

	// SetPose writes a full pose into the camera and recomputes its matrices.
	//
	// Parameters:
	//   - position: world-space position
	//   - orientation: rotation
	//   - fov: vertical field of view in radians; values <= 0 keep the current FOV
	SetPose(position mgl32.Vec3, orientation mgl32.Quat, fov float32)

	// Writes returns how many times SetPose has been called.
	//
	// Returns:
	//   - uint64: the pose write counter
	Writes() uint64

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseProjectionMatrix returns the inverse of the current projection matrix.
	//
	// Returns:
	//   - [16]float32: the inverse projection matrix
	InverseProjectionMatrix() [16]float32

	// Frustum returns the view frustum of the current pose.
	//
	// Returns:
	//   - common.Frustum: the frustum planes
	Frustum() common.Frustum

	// Uniform returns the GPU-aligned camera uniform for the current pose.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform
	Uniform() GPUCameraUniform

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a physical camera at the origin looking down -Z.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		up:          mgl32.Vec3{0, 1, 0},
		orientation: mgl32.QuatIdent(),
		fov:         70.0 * (math.Pi / 180.0),
		aspect:      16.0 / 9.0,
		near:        0.1,
		far:         1000.0,
		cameraType:  CameraTypePhysical,
		typeWatches: make(map[uint64]func(CameraType)),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Orientation() mgl32.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

func (c *cameraImpl) Type() CameraType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cameraType
}

func (c *cameraImpl) SetType(t CameraType) {
	c.mu.Lock()
	if c.cameraType == t {
		c.mu.Unlock()
		return
	}
	c.cameraType = t
	watchers := make([]func(CameraType), 0, len(c.typeWatches))
	for _, fn := range c.typeWatches {
		watchers = append(watchers, fn)
	}
	c.mu.Unlock()

	for _, fn := range watchers {
		fn(t)
	}
}

func (c *cameraImpl) WatchType(fn func(CameraType)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextWatchID
	c.nextWatchID++
	c.typeWatches[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.typeWatches, id)
		})
	}
}

func (c *cameraImpl) SetPose(position mgl32.Vec3, orientation mgl32.Quat, fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.orientation = orientation
	if fov > 0 {
		c.fov = fov
	}
	c.writes++
	c.updateMatrices()
}

func (c *cameraImpl) Writes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [16]float32(c.viewMatrix)
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [16]float32(c.projectionMatrix)
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [16]float32(c.viewProjectionMatrix)
}

func (c *cameraImpl) InverseProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [16]float32(c.inverseProjectionMatrix)
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustum(c.viewProjectionMatrix)
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       [16]float32(c.viewProjectionMatrix),
		CameraPosition: [3]float32{c.position[0], c.position[1], c.position[2]},
		Fov:            c.fov,
	}
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection, view-projection, and inverse projection matrices
// from the current pose. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	view := common.ViewFromPose(c.position, c.orientation)
	proj := common.Perspective(c.fov, c.aspect, c.near, c.far)

	c.viewMatrix = view
	c.projectionMatrix = proj
	c.viewProjectionMatrix = proj.Mul4(view)
	c.inverseProjectionMatrix = proj.Inv()
}
