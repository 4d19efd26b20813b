package uniform

import (
	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
	"github.com/go-gl/mathgl/mgl32"
)

// Fluid identifies the fluid the camera is submerged in.
type Fluid int32

const (
	FluidNone Fluid = iota
	FluidWater
	FluidLava
	FluidPowderSnow
)

var cameraDataLayout = layout.Compute("CameraData",
	layout.Decl{Name: "pos", Type: layout.Vec3},
	layout.Decl{Name: "near", Type: layout.Float},
	layout.Decl{Name: "far", Type: layout.Float},
	layout.Decl{Name: "brightness", Type: layout.Vec2},
	layout.Decl{Name: "fluid", Type: layout.Int},
	layout.Decl{Name: "view", Type: layout.Mat4},
	layout.Decl{Name: "viewInv", Type: layout.Mat4},
	layout.Decl{Name: "projection", Type: layout.Mat4},
	layout.Decl{Name: "projectionInv", Type: layout.Mat4},
)

// CameraData is the per-frame camera state.
// Size: 304 bytes (std140).
//
// Layout:
//
//	vec3  pos            (12 bytes, offset   0)
//	float near           ( 4 bytes, offset  12)
//	float far            ( 4 bytes, offset  16)
//	                     ( 4 bytes padding)
//	vec2  brightness     ( 8 bytes, offset  24)
//	int   fluid          ( 4 bytes, offset  32)
//	                     (12 bytes padding)
//	mat4  view           (64 bytes, offset  48)
//	mat4  viewInv        (64 bytes, offset 112)
//	mat4  projection     (64 bytes, offset 176)
//	mat4  projectionInv  (64 bytes, offset 240)
type CameraData struct {
	Pos  mgl32.Vec3
	Near float32
	Far  float32
	// Brightness holds the block light and sky light levels at the eye, each in [0, 1].
	Brightness    mgl32.Vec2
	Fluid         Fluid
	View          mgl32.Mat4
	ViewInv       mgl32.Mat4
	Projection    mgl32.Mat4
	ProjectionInv mgl32.Mat4
}

// SetMatrices stores view and projection along with their inverses.
//
// Parameters:
//   - view: the world-to-view matrix
//   - projection: the view-to-clip matrix
func (c *CameraData) SetMatrices(view, projection mgl32.Mat4) {
	c.View = view
	c.ViewInv = view.Inv()
	c.Projection = projection
	c.ProjectionInv = projection.Inv()
}

func (c *CameraData) Name() string {
	return cameraDataLayout.Name
}

func (c *CameraData) Size() int {
	return cameraDataLayout.Size
}

func (c *CameraData) Layout() layout.Struct {
	return cameraDataLayout
}

func (c *CameraData) Marshal() []byte {
	return marshal(c)
}

func (c *CameraData) MarshalTo(buf []byte) error {
	w, err := prepare(buf, c.Size())
	if err != nil {
		return err
	}
	w.PutVec3(0, c.Pos)
	w.PutFloat(12, c.Near)
	w.PutFloat(16, c.Far)
	w.PutVec2(24, c.Brightness)
	w.PutInt(32, int32(c.Fluid))
	w.PutMat4(48, c.View)
	w.PutMat4(112, c.ViewInv)
	w.PutMat4(176, c.Projection)
	w.PutMat4(240, c.ProjectionInv)
	return nil
}

func (c *CameraData) Unmarshal(buf []byte) error {
	if err := layout.CheckBuffer(buf, c.Size()); err != nil {
		return err
	}
	r := layout.NewReader(buf)
	c.Pos = r.Vec3(0)
	c.Near = r.Float(12)
	c.Far = r.Float(16)
	c.Brightness = r.Vec2(24)
	c.Fluid = Fluid(r.Int(32))
	c.View = r.Mat4(48)
	c.ViewInv = r.Mat4(112)
	c.Projection = r.Mat4(176)
	c.ProjectionInv = r.Mat4(240)
	return nil
}
