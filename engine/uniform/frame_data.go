package uniform

import (
	"time"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
)

var frameDataLayout = layout.Compute("FrameData",
	layout.Decl{Name: "millis", Type: layout.Float},
	layout.Decl{Name: "time", Type: layout.Float},
	layout.Decl{Name: "counter", Type: layout.Int},
)

// FrameData holds per-frame timing.
// Size: 16 bytes (std140; 12 bytes of data plus tail padding).
type FrameData struct {
	Millis  float32 // offset 0: duration of the previous frame in milliseconds
	Time    float32 // offset 4: seconds elapsed since the first frame
	Counter int32   // offset 8: number of frames rendered so far
}

// Advance records a frame that took dt: Millis becomes dt in milliseconds, Time
// accumulates dt in seconds and Counter increments. Counter wraps to zero rather
// than going negative.
//
// Parameters:
//   - dt: the duration of the frame just finished
func (f *FrameData) Advance(dt time.Duration) {
	f.Millis = float32(dt.Seconds() * 1000)
	f.Time += float32(dt.Seconds())
	f.Counter++
	if f.Counter < 0 {
		f.Counter = 0
	}
}

func (f *FrameData) Name() string {
	return frameDataLayout.Name
}

func (f *FrameData) Size() int {
	return frameDataLayout.Size
}

func (f *FrameData) Layout() layout.Struct {
	return frameDataLayout
}

func (f *FrameData) Marshal() []byte {
	return marshal(f)
}

func (f *FrameData) MarshalTo(buf []byte) error {
	w, err := prepare(buf, f.Size())
	if err != nil {
		return err
	}
	w.PutFloat(0, f.Millis)
	w.PutFloat(4, f.Time)
	w.PutInt(8, f.Counter)
	return nil
}

func (f *FrameData) Unmarshal(buf []byte) error {
	if err := layout.CheckBuffer(buf, f.Size()); err != nil {
		return err
	}
	r := layout.NewReader(buf)
	f.Millis = r.Float(0)
	f.Time = r.Float(4)
	f.Counter = r.Int(8)
	return nil
}
