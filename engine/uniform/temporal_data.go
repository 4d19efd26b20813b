package uniform

import (
	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
	"github.com/go-gl/mathgl/mgl32"
)

var temporalDataLayout = layout.Compute("TemporalData",
	layout.Decl{Name: "pos", Type: layout.Vec3},
	layout.Decl{Name: "view", Type: layout.Mat4},
	layout.Decl{Name: "viewInv", Type: layout.Mat4},
	layout.Decl{Name: "projection", Type: layout.Mat4},
	layout.Decl{Name: "projectionInv", Type: layout.Mat4},
)

// TemporalData is the camera state of the previous frame, used for reprojection.
// Size: 272 bytes (std140).
//
// Layout:
//
//	vec3 pos            (12 bytes, offset   0)
//	                    ( 4 bytes padding)
//	mat4 view           (64 bytes, offset  16)
//	mat4 viewInv        (64 bytes, offset  80)
//	mat4 projection     (64 bytes, offset 144)
//	mat4 projectionInv  (64 bytes, offset 208)
type TemporalData struct {
	Pos           mgl32.Vec3
	View          mgl32.Mat4
	ViewInv       mgl32.Mat4
	Projection    mgl32.Mat4
	ProjectionInv mgl32.Mat4
}

// FromCamera captures the position and matrices of a frame's camera so they can
// be uploaded as the previous frame on the next one.
//
// Parameters:
//   - c: the camera data of the frame being retired
func (t *TemporalData) FromCamera(c CameraData) {
	t.Pos = c.Pos
	t.View = c.View
	t.ViewInv = c.ViewInv
	t.Projection = c.Projection
	t.ProjectionInv = c.ProjectionInv
}

func (t *TemporalData) Name() string {
	return temporalDataLayout.Name
}

func (t *TemporalData) Size() int {
	return temporalDataLayout.Size
}

func (t *TemporalData) Layout() layout.Struct {
	return temporalDataLayout
}

func (t *TemporalData) Marshal() []byte {
	return marshal(t)
}

func (t *TemporalData) MarshalTo(buf []byte) error {
	w, err := prepare(buf, t.Size())
	if err != nil {
		return err
	}
	w.PutVec3(0, t.Pos)
	w.PutMat4(16, t.View)
	w.PutMat4(80, t.ViewInv)
	w.PutMat4(144, t.Projection)
	w.PutMat4(208, t.ProjectionInv)
	return nil
}

func (t *TemporalData) Unmarshal(buf []byte) error {
	if err := layout.CheckBuffer(buf, t.Size()); err != nil {
		return err
	}
	r := layout.NewReader(buf)
	t.Pos = r.Vec3(0)
	t.View = r.Mat4(16)
	t.ViewInv = r.Mat4(80)
	t.Projection = r.Mat4(144)
	t.ProjectionInv = r.Mat4(208)
	return nil
}
