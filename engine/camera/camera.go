// Package camera produces the CameraData and TemporalData uniform blocks from a
// perspective camera, keeping the previous frame's matrices for reprojection.
package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/buffer"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraCount is an atomic counter used to generate unique buffer provider names for each camera instance.
var cameraCount atomic.Uint64

const (
	// DefaultCameraBinding is the binding CameraData is bound at unless overridden.
	DefaultCameraBinding = 4
	// DefaultTemporalBinding is the binding TemporalData is bound at unless overridden.
	DefaultTemporalBinding = 5
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	brightness mgl32.Vec2
	fluid      uniform.Fluid

	// current and previous are the blocks bound in provider; Update rewrites them in place.
	current  *uniform.CameraData
	previous *uniform.TemporalData

	group           int
	cameraBinding   int
	temporalBinding int
	provider        buffer.UniformBufferProvider
}

// Camera defines the interface for the camera system.
// The camera holds its placement and perspective settings and derives the
// CameraData block from them each frame via Update(). The block from the frame
// before is kept as TemporalData.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at target
	Target() mgl32.Vec3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
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

	// ViewProjectionMatrix returns projection * view for the current frame.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// CameraData returns a copy of the current frame's block.
	//
	// Returns:
	//   - uniform.CameraData: the current block
	CameraData() uniform.CameraData

	// TemporalData returns a copy of the previous frame's block.
	//
	// Returns:
	//   - uniform.TemporalData: the previous block
	TemporalData() uniform.TemporalData

	// Provider returns the buffer provider holding the camera's two blocks.
	// Staging the provider must not overlap a call to Update.
	//
	// Returns:
	//   - buffer.UniformBufferProvider: the provider
	Provider() buffer.UniformBufferProvider

	// Update rolls the current frame into TemporalData, then recomputes the view
	// and projection matrices and their inverses from the current settings.
	// If the position equals the target, or the view direction is parallel to
	// up, the view matrix from the frame before is kept.
	// Should be called once per frame, before staging the provider.
	Update()

	// SetPosition sets the camera's world-space position.
	//
	// Parameters:
	//   - p: the eye position
	SetPosition(p mgl32.Vec3)

	// SetTarget sets the point the camera looks at.
	//
	// Parameters:
	//   - t: the look-at target
	SetTarget(t mgl32.Vec3)

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - up: the up vector
	SetUp(up mgl32.Vec3)

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetBrightness sets the brightness pair written to CameraData.
	//
	// Parameters:
	//   - b: the brightness values
	SetBrightness(b mgl32.Vec2)

	// SetFluid sets the fluid the camera is submerged in.
	//
	// Parameters:
	//   - f: the fluid kind
	SetFluid(f uniform.Fluid)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings, looking
// from (0, 0, 1) at the origin. The matrices are computed once before returning,
// and the previous frame starts out equal to the current one.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:              &sync.Mutex{},
		position:        mgl32.Vec3{0, 0, 1},
		up:              mgl32.Vec3{0, 1, 0},
		fov:             mgl32.DegToRad(45),
		aspect:          1.0,
		near:            0.1,
		far:             100.0,
		brightness:      mgl32.Vec2{1, 1},
		fluid:           uniform.FluidNone,
		current:         &uniform.CameraData{},
		previous:        &uniform.TemporalData{},
		cameraBinding:   DefaultCameraBinding,
		temporalBinding: DefaultTemporalBinding,
	}
	for _, option := range options {
		option(c)
	}

	c.updateMatrices()
	c.previous.FromCamera(*c.current)
	id := cameraCount.Add(1) - 1
	c.provider = buffer.NewUniformBufferProvider(
		"camera_"+strconv.FormatUint(id, 10),
		buffer.WithGroup(c.group),
		buffer.WithBlock(c.cameraBinding, c.current),
		buffer.WithBlock(c.temporalBinding, c.previous),
	)
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
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

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Projection.Mul4(c.current.View)
}

func (c *cameraImpl) CameraData() uniform.CameraData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.current
}

func (c *cameraImpl) TemporalData() uniform.TemporalData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.previous
}

func (c *cameraImpl) Provider() buffer.UniformBufferProvider {
	return c.provider
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previous.FromCamera(*c.current)
	c.updateMatrices()
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

func (c *cameraImpl) SetTarget(t mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
}

func (c *cameraImpl) SetBrightness(b mgl32.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brightness = b
}

func (c *cameraImpl) SetFluid(f uniform.Fluid) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fluid = f
}

// updateMatrices rewrites the current CameraData block from the camera settings.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.current.Pos = c.position
	c.current.Near = c.near
	c.current.Far = c.far
	c.current.Brightness = c.brightness
	c.current.Fluid = c.fluid
	c.current.SetMatrices(
		c.viewMatrix(),
		mgl32.Perspective(c.fov, c.aspect, c.near, c.far),
	)
}

// viewMatrix returns the look-at matrix for the camera settings. When the view
// direction is zero or parallel to up there is no valid look-at matrix, so the
// current view is kept, or the identity before any view was computed.
// Caller must hold the mutex.
func (c *cameraImpl) viewMatrix() mgl32.Mat4 {
	if c.target.Sub(c.position).Cross(c.up).Len() == 0 {
		if c.current.View == (mgl32.Mat4{}) {
			return mgl32.Ident4()
		}
		return c.current.View
	}
	return mgl32.LookAtV(c.position, c.target, c.up)
}
