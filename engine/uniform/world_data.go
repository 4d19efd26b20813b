package uniform

import (
	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
	"github.com/go-gl/mathgl/mgl32"
)

var worldDataLayout = layout.Compute("WorldData",
	layout.Decl{Name: "skyColor", Type: layout.Vec3},
	layout.Decl{Name: "rainStrength", Type: layout.Float},
	layout.Decl{Name: "fogStart", Type: layout.Float},
	layout.Decl{Name: "fogEnd", Type: layout.Float},
	layout.Decl{Name: "fogColor", Type: layout.Vec4},
	layout.Decl{Name: "time", Type: layout.Int},
)

// WorldData holds sky, weather and fog state of the current world.
// Size: 64 bytes (std140).
//
// Layout:
//
//	vec3  skyColor      (12 bytes, offset  0)
//	float rainStrength  ( 4 bytes, offset 12)
//	float fogStart      ( 4 bytes, offset 16)
//	float fogEnd        ( 4 bytes, offset 20)
//	                    ( 8 bytes padding)
//	vec4  fogColor      (16 bytes, offset 32)
//	int   time          ( 4 bytes, offset 48)
//	                    (12 bytes padding)
type WorldData struct {
	SkyColor     mgl32.Vec3
	RainStrength float32
	FogStart     float32
	FogEnd       float32
	FogColor     mgl32.Vec4
	// Time is the world clock in ticks.
	Time int32
}

func (d *WorldData) Name() string {
	return worldDataLayout.Name
}

func (d *WorldData) Size() int {
	return worldDataLayout.Size
}

func (d *WorldData) Layout() layout.Struct {
	return worldDataLayout
}

func (d *WorldData) Marshal() []byte {
	return marshal(d)
}

func (d *WorldData) MarshalTo(buf []byte) error {
	w, err := prepare(buf, d.Size())
	if err != nil {
		return err
	}
	w.PutVec3(0, d.SkyColor)
	w.PutFloat(12, d.RainStrength)
	w.PutFloat(16, d.FogStart)
	w.PutFloat(20, d.FogEnd)
	w.PutVec4(32, d.FogColor)
	w.PutInt(48, d.Time)
	return nil
}

func (d *WorldData) Unmarshal(buf []byte) error {
	if err := layout.CheckBuffer(buf, d.Size()); err != nil {
		return err
	}
	r := layout.NewReader(buf)
	d.SkyColor = r.Vec3(0)
	d.RainStrength = r.Float(12)
	d.FogStart = r.Float(16)
	d.FogEnd = r.Float(20)
	d.FogColor = r.Vec4(32)
	d.Time = r.Int(48)
	return nil
}
