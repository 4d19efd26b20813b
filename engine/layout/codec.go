package layout

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ByteOrder is the order every word is written in. Uniform buffers are consumed
// by the GPU of the machine that fills them, so the host's native order is used.
var ByteOrder binary.ByteOrder = binary.NativeEndian

// columnStride is the distance between mat4 columns.
const columnStride = 16

// CheckBuffer returns ErrBufferTooSmall if buf cannot hold a block of the given size.
//
// Parameters:
//   - buf: the destination or source buffer
//   - size: the block size in bytes
//
// Returns:
//   - error: nil if buf is large enough
func CheckBuffer(buf []byte, size int) error {
	if len(buf) < size {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrBufferTooSmall, len(buf), size)
	}
	return nil
}

// Writer places values at byte offsets within a buffer.
// Callers check the buffer length with CheckBuffer before writing.
type Writer struct {
	buf []byte
}

// NewWriter wraps buf for offset-addressed writes.
func NewWriter(buf []byte) Writer {
	return Writer{buf: buf}
}

// Bytes returns the underlying buffer.
func (w Writer) Bytes() []byte {
	return w.buf
}

// Zero clears every byte of the buffer, so padding is deterministic.
func (w Writer) Zero() {
	clear(w.buf)
}

func (w Writer) PutWord(off int, v uint32) {
	ByteOrder.PutUint32(w.buf[off:off+4], v)
}

func (w Writer) PutFloat(off int, v float32) {
	w.PutWord(off, math.Float32bits(v))
}

func (w Writer) PutInt(off int, v int32) {
	w.PutWord(off, uint32(v))
}

func (w Writer) PutUint(off int, v uint32) {
	w.PutWord(off, v)
}

// PutBool writes a bool as a full 4-byte word: 1 for true, 0 for false.
func (w Writer) PutBool(off int, v bool) {
	var word uint32
	if v {
		word = 1
	}
	w.PutWord(off, word)
}

func (w Writer) PutVec2(off int, v mgl32.Vec2) {
	for i := range 2 {
		w.PutFloat(off+i*4, v[i])
	}
}

func (w Writer) PutVec3(off int, v mgl32.Vec3) {
	for i := range 3 {
		w.PutFloat(off+i*4, v[i])
	}
}

func (w Writer) PutVec4(off int, v mgl32.Vec4) {
	for i := range 4 {
		w.PutFloat(off+i*4, v[i])
	}
}

// PutMat4 writes a column-major 4x4 matrix as four 16-byte columns.
func (w Writer) PutMat4(off int, m mgl32.Mat4) {
	for col := range 4 {
		for row := range 4 {
			w.PutFloat(off+col*columnStride+row*4, m[col*4+row])
		}
	}
}

// PutMat4Array writes consecutive matrices using the std140 mat4 array stride.
func (w Writer) PutMat4Array(off int, ms []mgl32.Mat4) {
	stride := ArrayOf(Mat4, 1).Stride()
	for i, m := range ms {
		w.PutMat4(off+i*stride, m)
	}
}

// Reader reads values at byte offsets within a buffer.
// Callers check the buffer length with CheckBuffer before reading.
type Reader struct {
	buf []byte
}

// NewReader wraps buf for offset-addressed reads.
func NewReader(buf []byte) Reader {
	return Reader{buf: buf}
}

func (r Reader) Word(off int) uint32 {
	return ByteOrder.Uint32(r.buf[off : off+4])
}

func (r Reader) Float(off int) float32 {
	return math.Float32frombits(r.Word(off))
}

func (r Reader) Int(off int) int32 {
	return int32(r.Word(off))
}

func (r Reader) Uint(off int) uint32 {
	return r.Word(off)
}

// Bool reads a 4-byte bool word; any nonzero word is true.
func (r Reader) Bool(off int) bool {
	return r.Word(off) != 0
}

func (r Reader) Vec2(off int) mgl32.Vec2 {
	return mgl32.Vec2{r.Float(off), r.Float(off + 4)}
}

func (r Reader) Vec3(off int) mgl32.Vec3 {
	return mgl32.Vec3{r.Float(off), r.Float(off + 4), r.Float(off + 8)}
}

func (r Reader) Vec4(off int) mgl32.Vec4 {
	return mgl32.Vec4{r.Float(off), r.Float(off + 4), r.Float(off + 8), r.Float(off + 12)}
}

func (r Reader) Mat4(off int) mgl32.Mat4 {
	var m mgl32.Mat4
	for col := range 4 {
		for row := range 4 {
			m[col*4+row] = r.Float(off + col*columnStride + row*4)
		}
	}
	return m
}

// Mat4Array reads n consecutive matrices using the std140 mat4 array stride.
func (r Reader) Mat4Array(off, n int) []mgl32.Mat4 {
	stride := ArrayOf(Mat4, 1).Stride()
	ms := make([]mgl32.Mat4, n)
	for i := range ms {
		ms[i] = r.Mat4(off + i*stride)
	}
	return ms
}
