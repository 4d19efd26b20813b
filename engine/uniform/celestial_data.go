package uniform

import (
	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CascadeCount is the number of shadow projections carried by CelestialData.
const CascadeCount = 4

var celestialDataLayout = layout.Compute("CelestialData",
	layout.Decl{Name: "pos", Type: layout.Vec3},
	layout.Decl{Name: "angle", Type: layout.Float},
	layout.Decl{Name: "sunPos", Type: layout.Vec3},
	layout.Decl{Name: "moonPos", Type: layout.Vec3},
	layout.Decl{Name: "view", Type: layout.Mat4},
	layout.Decl{Name: "projection", Type: layout.ArrayOf(layout.Mat4, CascadeCount)},
)

// celestialUp is perpendicular to the plane the sun and moon travel in, so it is
// never parallel to the view direction.
var celestialUp = mgl32.Vec3{0, 0, 1}

// CelestialData describes the sun, the moon and the shadow view cast by whichever
// of the two is above the horizon.
// Size: 368 bytes (std140).
//
// Layout:
//
//	vec3    pos         (12 bytes, offset   0)
//	float   angle       ( 4 bytes, offset  12)
//	vec3    sunPos      (12 bytes, offset  16)
//	                    ( 4 bytes padding)
//	vec3    moonPos     (12 bytes, offset  32)
//	                    ( 4 bytes padding)
//	mat4    view        (64 bytes, offset  48)
//	mat4[4] projection  (256 bytes, offset 112)
type CelestialData struct {
	// Pos is the position of the light-casting body.
	Pos mgl32.Vec3
	// Angle is the time of day as a fraction in [0, 1): 0 is sunrise, 0.25 noon,
	// 0.5 sunset and 0.75 midnight.
	Angle      float32
	SunPos     mgl32.Vec3
	MoonPos    mgl32.Vec3
	View       mgl32.Mat4
	Projection [CascadeCount]mgl32.Mat4
}

// SetAngle places the sun and moon for the given time of day. Both travel a
// circle of the given radius around the origin in the XY plane, on opposite
// sides. Pos is set to the sun while it is at or above the horizon and to the
// moon otherwise, and View looks from Pos toward the origin. A zero distance
// puts both bodies at the origin, where View is the identity.
//
// Parameters:
//   - angle: time of day as a fraction in [0, 1); values outside wrap
//   - distance: radius of the celestial circle
func (c *CelestialData) SetAngle(angle, distance float32) {
	angle -= math32.Floor(angle)
	c.Angle = angle

	theta := angle * 2 * math32.Pi
	c.SunPos = mgl32.Vec3{math32.Cos(theta), math32.Sin(theta), 0}.Mul(distance)
	c.MoonPos = c.SunPos.Mul(-1)

	c.Pos = c.MoonPos
	if c.SunPos.Y() >= 0 {
		c.Pos = c.SunPos
	}
	if distance == 0 {
		c.View = mgl32.Ident4()
		return
	}
	c.View = mgl32.LookAtV(c.Pos, mgl32.Vec3{}, celestialUp)
}

// SetCascades fills the shadow projections with orthographic volumes of the
// given half extents, nearest cascade first.
//
// Parameters:
//   - halfExtents: half-size of each cascade's square volume in world units
//   - near: near plane distance along the view direction
//   - far: far plane distance along the view direction
func (c *CelestialData) SetCascades(halfExtents [CascadeCount]float32, near, far float32) {
	for i, e := range halfExtents {
		c.Projection[i] = mgl32.Ortho(-e, e, -e, e, near, far)
	}
}

func (c *CelestialData) Name() string {
	return celestialDataLayout.Name
}

func (c *CelestialData) Size() int {
	return celestialDataLayout.Size
}

func (c *CelestialData) Layout() layout.Struct {
	return celestialDataLayout
}

func (c *CelestialData) Marshal() []byte {
	return marshal(c)
}

func (c *CelestialData) MarshalTo(buf []byte) error {
	w, err := prepare(buf, c.Size())
	if err != nil {
		return err
	}
	w.PutVec3(0, c.Pos)
	w.PutFloat(12, c.Angle)
	w.PutVec3(16, c.SunPos)
	w.PutVec3(32, c.MoonPos)
	w.PutMat4(48, c.View)
	w.PutMat4Array(112, c.Projection[:])
	return nil
}

func (c *CelestialData) Unmarshal(buf []byte) error {
	if err := layout.CheckBuffer(buf, c.Size()); err != nil {
		return err
	}
	r := layout.NewReader(buf)
	c.Pos = r.Vec3(0)
	c.Angle = r.Float(12)
	c.SunPos = r.Vec3(16)
	c.MoonPos = r.Vec3(32)
	c.View = r.Mat4(48)
	copy(c.Projection[:], r.Mat4Array(112, CascadeCount))
	return nil
}
