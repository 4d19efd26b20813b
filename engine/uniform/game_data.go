package uniform

import (
	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
	"github.com/go-gl/mathgl/mgl32"
)

var gameDataLayout = layout.Compute("GameData",
	layout.Decl{Name: "screenSize", Type: layout.Vec2},
	layout.Decl{Name: "guiHidden", Type: layout.Bool},
)

// GameData holds state that changes only when the window or HUD does.
// Size: 16 bytes (std140).
type GameData struct {
	ScreenSize mgl32.Vec2 // offset 0: framebuffer width and height in pixels (vec2)
	GUIHidden  bool       // offset 8: true while the HUD is hidden (bool, 4 bytes)
}

func (g *GameData) Name() string {
	return gameDataLayout.Name
}

func (g *GameData) Size() int {
	return gameDataLayout.Size
}

func (g *GameData) Layout() layout.Struct {
	return gameDataLayout
}

func (g *GameData) Marshal() []byte {
	return marshal(g)
}

func (g *GameData) MarshalTo(buf []byte) error {
	w, err := prepare(buf, g.Size())
	if err != nil {
		return err
	}
	w.PutVec2(0, g.ScreenSize)
	w.PutBool(8, g.GUIHidden)
	return nil
}

func (g *GameData) Unmarshal(buf []byte) error {
	if err := layout.CheckBuffer(buf, g.Size()); err != nil {
		return err
	}
	r := layout.NewReader(buf)
	g.ScreenSize = r.Vec2(0)
	g.GUIHidden = r.Bool(8)
	return nil
}
