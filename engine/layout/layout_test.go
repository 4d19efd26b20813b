package layout

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeSizeAndAlign(t *testing.T) {
	cases := []struct {
		typ    Type
		size   int
		align  int
		stride int
	}{
		{Float, 4, 4, 4},
		{Int, 4, 4, 4},
		{Bool, 4, 4, 4},
		{Vec2, 8, 8, 8},
		{Vec3, 12, 16, 12},
		{Vec4, 16, 16, 16},
		{Mat4, 64, 16, 64},
		{ArrayOf(Mat4, 4), 256, 16, 64},
		{ArrayOf(Float, 3), 48, 16, 16},
		{ArrayOf(Vec3, 2), 32, 16, 16},
	}
	for _, c := range cases {
		t.Run(c.typ.GLSL(), func(t *testing.T) {
			assert.Equal(t, c.size, c.typ.Size())
			assert.Equal(t, c.align, c.typ.Align())
			assert.Equal(t, c.stride, c.typ.Stride())
		})
	}
}

func TestComputePacksScalarAfterVec3(t *testing.T) {
	s := Compute("WorldData",
		Decl{Name: "skyColor", Type: Vec3},
		Decl{Name: "rainStrength", Type: Float},
		Decl{Name: "fogStart", Type: Float},
		Decl{Name: "fogEnd", Type: Float},
		Decl{Name: "fogColor", Type: Vec4},
		Decl{Name: "time", Type: Int},
	)

	assert.Equal(t, 0, s.Offset("skyColor"))
	assert.Equal(t, 12, s.Offset("rainStrength"))
	assert.Equal(t, 16, s.Offset("fogStart"))
	assert.Equal(t, 20, s.Offset("fogEnd"))
	assert.Equal(t, 32, s.Offset("fogColor"))
	assert.Equal(t, 48, s.Offset("time"))
	assert.Equal(t, 64, s.Size)
	assert.NoError(t, s.Validate())
}

func TestComputeLeavesGapBeforeAlignedMember(t *testing.T) {
	s := Compute("TemporalData",
		Decl{Name: "pos", Type: Vec3},
		Decl{Name: "view", Type: Mat4},
	)

	assert.Equal(t, 16, s.Offset("view"))
	assert.Equal(t, 80, s.Size)
	assert.Equal(t, []Gap{{After: "pos", Offset: 12, Size: 4}}, s.Padding())
}

func TestComputeRoundsSizeToSixteen(t *testing.T) {
	s := Compute("FrameData",
		Decl{Name: "millis", Type: Float},
		Decl{Name: "time", Type: Float},
		Decl{Name: "counter", Type: Int},
	)

	assert.Equal(t, 8, s.Offset("counter"))
	assert.Equal(t, 16, s.Size)
	require.Len(t, s.Padding(), 1)
	assert.Equal(t, Gap{After: "counter", Offset: 12, Size: 4}, s.Padding()[0])
}

func TestOffsetMissingField(t *testing.T) {
	s := Compute("GameData", Decl{Name: "screenSize", Type: Vec2})
	assert.Equal(t, -1, s.Offset("nope"))
	_, ok := s.Field("nope")
	assert.False(t, ok)
}

func TestValidateRejectsBrokenLayouts(t *testing.T) {
	cases := map[string]struct {
		s    Struct
		want error
	}{
		"misaligned": {
			Struct{Name: "S", Size: 32, Fields: []Field{{Name: "a", Type: Float, Offset: 0}, {Name: "b", Type: Vec4, Offset: 4}}},
			ErrMisaligned,
		},
		"order": {
			Struct{Name: "S", Size: 16, Fields: []Field{{Name: "a", Type: Float, Offset: 4}, {Name: "b", Type: Float, Offset: 4}}},
			ErrOffsetOrder,
		},
		"overlap": {
			Struct{Name: "S", Size: 32, Fields: []Field{{Name: "a", Type: Vec3, Offset: 0}, {Name: "b", Type: Float, Offset: 8}}},
			ErrOverlap,
		},
		"size": {
			Struct{Name: "S", Size: 8, Fields: []Field{{Name: "a", Type: Vec3, Offset: 0}}},
			ErrSizeTooSmall,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, c.s.Validate(), c.want)
		})
	}
}

func TestParseGLSLType(t *testing.T) {
	typ, err := ParseGLSLType("mat4[4]")
	require.NoError(t, err)
	assert.Equal(t, ArrayOf(Mat4, 4), typ)

	typ, err = ParseGLSLType("vec3")
	require.NoError(t, err)
	assert.Equal(t, Vec3, typ)

	_, err = ParseGLSLType("sampler2D")
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = ParseGLSLType("mat4[0]")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestParseWGSLType(t *testing.T) {
	cases := map[string]Type{
		"vec3<f32>":             Vec3,
		"vec3f":                 Vec3,
		"i32":                   Int,
		"mat4x4<f32>":           Mat4,
		"array<mat4x4<f32>, 4>": ArrayOf(Mat4, 4),
		"array<mat4x4f,4>":      ArrayOf(Mat4, 4),
	}
	for in, want := range cases {
		got, err := ParseWGSLType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWGSLType("array<f32>")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTypeSpellings(t *testing.T) {
	assert.Equal(t, "mat4[4]", ArrayOf(Mat4, 4).GLSL())
	assert.Equal(t, "array<mat4x4<f32>, 4>", ArrayOf(Mat4, 4).WGSL())
	assert.Equal(t, "u32", Bool.WGSL())
}

func TestWriterReaderAtOffsets(t *testing.T) {
	buf := make([]byte, 144)
	w := NewWriter(buf)
	m := mgl32.Translate3D(1, 2, 3)

	w.PutVec3(0, mgl32.Vec3{1, 2, 3})
	w.PutFloat(12, 4.5)
	w.PutInt(16, -7)
	w.PutBool(20, true)
	w.PutVec2(24, mgl32.Vec2{8, 9})
	w.PutVec4(32, mgl32.Vec4{1, 0, 0, 1})
	w.PutMat4(48, m)

	r := NewReader(buf)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, r.Vec3(0))
	assert.Equal(t, float32(4.5), r.Float(12))
	assert.Equal(t, int32(-7), r.Int(16))
	assert.True(t, r.Bool(20))
	assert.Equal(t, mgl32.Vec2{8, 9}, r.Vec2(24))
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, r.Vec4(32))
	assert.Equal(t, m, r.Mat4(48))

	// translation lives in the fourth column
	assert.Equal(t, float32(1), r.Float(48+3*16))
	assert.Equal(t, float32(3), r.Float(48+3*16+8))
}

func TestMat4ArrayStride(t *testing.T) {
	ms := []mgl32.Mat4{mgl32.Ident4(), mgl32.Scale3D(2, 2, 2)}
	buf := make([]byte, 128)
	NewWriter(buf).PutMat4Array(0, ms)

	r := NewReader(buf)
	assert.Equal(t, float32(2), r.Float(64))
	assert.Equal(t, ms, r.Mat4Array(0, 2))
}

func TestCheckBuffer(t *testing.T) {
	assert.NoError(t, CheckBuffer(make([]byte, 16), 16))
	assert.ErrorIs(t, CheckBuffer(make([]byte, 15), 16), ErrBufferTooSmall)
}

func TestStructString(t *testing.T) {
	s := Compute("GameData", Decl{Name: "screenSize", Type: Vec2}, Decl{Name: "guiHidden", Type: Bool})
	assert.Equal(t, "GameData (16): screenSize vec2 @0; guiHidden bool @8", s.String())
}

func TestComputeHonorsAlignAndSizeOverrides(t *testing.T) {
	s := Compute("TemporalData",
		Decl{Name: "pos", Type: Vec3, Size: 16},
		Decl{Name: "view", Type: Mat4, Align: 32},
		Decl{Name: "viewInv", Type: Mat4},
	)
	assert.Equal(t, 32, s.Offset("view"))
	assert.Equal(t, 96, s.Offset("viewInv"))
	assert.Equal(t, 160, s.Size)

	s = Compute("S",
		Decl{Name: "a", Type: Float, Size: 20},
		Decl{Name: "b", Type: Float},
	)
	assert.Equal(t, 20, s.Offset("b"))
	assert.Equal(t, 32, s.Size)

	// the alignment override raises the struct alignment
	s = Compute("S", Decl{Name: "a", Type: Float, Align: 64})
	assert.Equal(t, 64, s.Size)
}
