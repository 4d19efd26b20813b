// Package uniform defines the host-side uniform blocks shared with the shader
// pipeline. Every block marshals to, and unmarshals from, the exact std140
// layout the shaders declare in GLSLSource.
package uniform

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
)

// GLSLSource is the canonical GLSL declaration of every uniform block, with the
// byte offset of each member noted in a trailing comment.
//
//go:embed assets/uniforms.glsl
var GLSLSource string

// Block is a uniform block that can be serialized into a GPU-visible buffer.
type Block interface {
	// Name returns the struct name the shaders declare the block under.
	//
	// Returns:
	//   - string: the struct name
	Name() string

	// Size returns the std140 size of the block in bytes.
	//
	// Returns:
	//   - int: the block size
	Size() int

	// Layout returns the std140 layout of the block.
	//
	// Returns:
	//   - layout.Struct: the block layout
	Layout() layout.Struct

	// Marshal serializes the block into a new buffer of Size bytes.
	//
	// Returns:
	//   - []byte: the serialized block
	Marshal() []byte

	// MarshalTo serializes the block into the start of buf. Padding bytes are zeroed.
	//
	// Parameters:
	//   - buf: the destination, at least Size bytes long
	//
	// Returns:
	//   - error: layout.ErrBufferTooSmall if buf is too short
	MarshalTo(buf []byte) error

	// Unmarshal reads the block back from the start of buf.
	//
	// Parameters:
	//   - buf: the source, at least Size bytes long
	//
	// Returns:
	//   - error: layout.ErrBufferTooSmall if buf is too short
	Unmarshal(buf []byte) error
}

var (
	_ Block = &GameData{}
	_ Block = &FrameData{}
	_ Block = &WorldData{}
	_ Block = &CelestialData{}
	_ Block = &CameraData{}
	_ Block = &TemporalData{}
)

// Blocks returns a zero value of every block in declaration order.
//
// Returns:
//   - []Block: GameData, FrameData, WorldData, CelestialData, CameraData, TemporalData
func Blocks() []Block {
	return []Block{
		&GameData{},
		&FrameData{},
		&WorldData{},
		&CelestialData{},
		&CameraData{},
		&TemporalData{},
	}
}

// Layouts returns the layout of every block in declaration order.
//
// Returns:
//   - []layout.Struct: the block layouts
func Layouts() []layout.Struct {
	return []layout.Struct{
		gameDataLayout,
		frameDataLayout,
		worldDataLayout,
		celestialDataLayout,
		cameraDataLayout,
		temporalDataLayout,
	}
}

// LayoutByName returns the layout of the named block.
//
// Parameters:
//   - name: the struct name, e.g. "CameraData"
//
// Returns:
//   - layout.Struct: the block layout
//   - bool: false if no block has that name
func LayoutByName(name string) (layout.Struct, bool) {
	for _, l := range Layouts() {
		if l.Name == name {
			return l, true
		}
	}
	return layout.Struct{}, false
}

// NewBlock returns a zero value of the named block.
//
// Parameters:
//   - name: the struct name, e.g. "CameraData"
//
// Returns:
//   - Block: the new block
//   - bool: false if no block has that name
func NewBlock(name string) (Block, bool) {
	for _, b := range Blocks() {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// marshal is the shared Marshal body: allocate Size bytes and fill them.
func marshal(b Block) []byte {
	buf := make([]byte, b.Size())
	_ = b.MarshalTo(buf)
	return buf
}

// prepare checks buf against size and returns a writer over the block's bytes
// with padding cleared.
func prepare(buf []byte, size int) (layout.Writer, error) {
	if err := layout.CheckBuffer(buf, size); err != nil {
		return layout.Writer{}, err
	}
	w := layout.NewWriter(buf[:size])
	w.Zero()
	return w, nil
}
