package shader

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReferenceHeader(t *testing.T) {
	decls, err := Parse(uniform.GLSLSource, LanguageGLSL)
	require.NoError(t, err)

	host := uniform.Layouts()
	require.Len(t, decls, len(host))
	for i, d := range decls {
		assert.True(t, host[i].Equal(d.Layout), "%s\nwant %s\ngot  %s", host[i].Name, host[i], d.Layout)
		for _, f := range host[i].Fields {
			assert.Equal(t, f.Offset, d.Declared[f.Name], "%s.%s", host[i].Name, f.Name)
		}
	}
}

func TestVerifyReferenceHeaderIsClean(t *testing.T) {
	assert.Empty(t, Verify(uniform.GLSLSource, LanguageGLSL, uniform.Layouts()...))
	assert.NoError(t, Check(uniform.GLSLSource, LanguageGLSL, uniform.Layouts()...))
}

func TestVerifyReportsTypeChange(t *testing.T) {
	src := strings.Replace(uniform.GLSLSource, "float fogEnd; // 20", "vec2 fogEnd; // 20", 1)
	world, _ := uniform.LayoutByName("WorldData")

	mismatches := Verify(src, LanguageGLSL, world)
	// the offset comment still says 20, so only the compiler-placed offset disagrees
	require.Len(t, mismatches, 2)
	assert.Equal(t, Mismatch{Kind: MismatchType, Struct: "WorldData", Field: "fogEnd", Want: "float", Got: "vec2"}, mismatches[0])
	assert.Equal(t, Mismatch{Kind: MismatchOffset, Struct: "WorldData", Field: "fogEnd", Want: "20", Got: "24"}, mismatches[1])
}

func TestVerifyReportsWrongOffsetComment(t *testing.T) {
	src := strings.Replace(uniform.GLSLSource, "int counter; // 8", "int counter; // 12", 1)

	mismatches := Verify(src, LanguageGLSL, uniform.Layouts()...)
	require.Len(t, mismatches, 1)
	assert.Equal(t, MismatchDeclaredOffset, mismatches[0].Kind)
	assert.Equal(t, "FrameData.counter: declared offset: want 8, got 12", mismatches[0].String())

	err := Check(src, LanguageGLSL, uniform.Layouts()...)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestVerifyMissingAndExtra(t *testing.T) {
	mismatches := Verify("", LanguageGLSL, uniform.Layouts()...)
	require.Len(t, mismatches, 6)
	for _, m := range mismatches {
		assert.Equal(t, MismatchMissingStruct, m.Kind)
	}

	short := "struct GameData {\n    vec2 screenSize;\n};\n"
	game, _ := uniform.LayoutByName("GameData")
	mismatches = Verify(short, LanguageGLSL, game)
	require.Len(t, mismatches, 1)
	assert.Equal(t, MismatchMissingField, mismatches[0].Kind)
	assert.Equal(t, "guiHidden", mismatches[0].Field)

	long := "struct GameData {\n    vec2 screenSize;\n    bool guiHidden;\n    float scale;\n    float extra;\n};\n"
	mismatches = Verify(long, LanguageGLSL, game)
	kinds := make([]MismatchKind, len(mismatches))
	for i, m := range mismatches {
		kinds[i] = m.Kind
	}
	assert.Equal(t, []MismatchKind{MismatchExtraField, MismatchExtraField, MismatchSize}, kinds)
}

func TestVerifyUnresolvedType(t *testing.T) {
	src := "struct GameData {\n    sampler2D screenSize;\n    bool guiHidden;\n};\n"
	game, _ := uniform.LayoutByName("GameData")

	mismatches := Verify(src, LanguageGLSL, game)
	require.Len(t, mismatches, 1)
	assert.Equal(t, MismatchUnresolved, mismatches[0].Kind)

	_, err := Parse(src, LanguageGLSL)
	assert.ErrorIs(t, err, layout.ErrUnknownType)
}

func TestParseGLSLVariants(t *testing.T) {
	src := `
/* block comment with struct Fake { float x; } inside */
struct Cascades {
    highp vec3 pos; float angle; // 12
    mat4 projection[4]; // offset 16: one per cascade
};
`
	decls, err := Parse(src, LanguageGLSL)
	require.NoError(t, err)
	require.Len(t, decls, 1)

	l := decls[0].Layout
	assert.Equal(t, "Cascades", l.Name)
	assert.Equal(t, layout.ArrayOf(layout.Mat4, 4), l.Fields[2].Type)
	assert.Equal(t, 16, l.Offset("projection"))
	assert.Equal(t, 272, l.Size)
	assert.Equal(t, map[string]int{"angle": 12, "projection": 16}, decls[0].Declared)
}

func TestParseWGSL(t *testing.T) {
	src := `
struct CelestialData {
    pos: vec3f,
    angle: f32, // 12
    sunPos: vec3<f32>,
    moonPos: vec3<f32>,
    view: mat4x4f,
    projection: array<mat4x4<f32>, 4>, // 112
}

@group(1) @binding(3) var<uniform> celestial: CelestialData;
`
	decls, err := Parse(src, LanguageWGSL)
	require.NoError(t, err)
	require.Len(t, decls, 1)

	want, _ := uniform.LayoutByName("CelestialData")
	assert.True(t, want.Equal(decls[0].Layout))
	assert.Equal(t, 112, decls[0].Declared["projection"])

	bindings := ParseUniformBindings(src)
	assert.Equal(t, []Binding{{Group: 1, Binding: 3, Var: "celestial", Struct: "CelestialData"}}, bindings)
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("WGSL")
	require.NoError(t, err)
	assert.Equal(t, LanguageWGSL, lang)

	lang, err = ParseLanguage(" glsl ")
	require.NoError(t, err)
	assert.Equal(t, LanguageGLSL, lang)

	_, err = ParseLanguage("hlsl")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

const temporalWGSLTemplate = `
struct TemporalData {
    %spos: vec3<f32>,
    %sview: mat4x4<f32>,
    viewInv: mat4x4<f32>,
    projection: mat4x4<f32>,
    projectionInv: mat4x4<f32>,
}
`

func TestVerifyWGSLAlignAttributeMovesMember(t *testing.T) {
	temporal, _ := uniform.LayoutByName("TemporalData")
	src := fmt.Sprintf(temporalWGSLTemplate, "", "@align(32) ")

	decls, err := Parse(src, LanguageWGSL)
	require.NoError(t, err)
	assert.Equal(t, 32, decls[0].Layout.Offset("view"))
	assert.Equal(t, 224, decls[0].Layout.Offset("projectionInv"))

	mismatches := Verify(src, LanguageWGSL, temporal)
	assert.Contains(t, mismatches, Mismatch{Kind: MismatchOffset, Struct: "TemporalData", Field: "view", Want: "16", Got: "32"})
	assert.ErrorIs(t, Check(src, LanguageWGSL, temporal), ErrLayoutMismatch)
}

func TestVerifyWGSLSizeAttribute(t *testing.T) {
	temporal, _ := uniform.LayoutByName("TemporalData")

	// padding pos out to 16 bytes matches the std140 placement
	assert.Empty(t, Verify(fmt.Sprintf(temporalWGSLTemplate, "@size(16) ", ""), LanguageWGSL, temporal))

	mismatches := Verify(fmt.Sprintf(temporalWGSLTemplate, "@size(32) ", ""), LanguageWGSL, temporal)
	assert.Contains(t, mismatches, Mismatch{Kind: MismatchOffset, Struct: "TemporalData", Field: "view", Want: "16", Got: "32"})
}

func TestParseWGSLRejectsBadAttributes(t *testing.T) {
	for name, attrs := range map[string][2]string{
		"align not power of two": {"", "@align(24) "},
		"align not a literal":    {"", "@align(N) "},
		"size below type size":   {"@size(8) ", ""},
	} {
		t.Run(name, func(t *testing.T) {
			src := fmt.Sprintf(temporalWGSLTemplate, attrs[0], attrs[1])
			_, err := Parse(src, LanguageWGSL)
			assert.ErrorIs(t, err, ErrInvalidAttribute)

			temporal, _ := uniform.LayoutByName("TemporalData")
			mismatches := Verify(src, LanguageWGSL, temporal)
			require.Len(t, mismatches, 1)
			assert.Equal(t, MismatchUnresolved, mismatches[0].Kind)
		})
	}
}

func TestParseWGSLIgnoresOtherAttributes(t *testing.T) {
	src := "struct S {\n    @location(0) @interpolate(flat) a: u32,\n    @align(16u) b: f32,\n}\n"
	decls, err := Parse(src, LanguageWGSL)
	require.NoError(t, err)
	assert.Equal(t, 0, decls[0].Layout.Offset("a"))
	assert.Equal(t, 16, decls[0].Layout.Offset("b"))
}

func TestParseReportsStd140SizeForWGSL(t *testing.T) {
	src := "struct FrameData {\n    millis: f32,\n    time: f32,\n    counter: i32,\n}\n"
	decls, err := Parse(src, LanguageWGSL)
	require.NoError(t, err)
	assert.Equal(t, 16, decls[0].Layout.Size)

	frame, _ := uniform.LayoutByName("FrameData")
	assert.Empty(t, Verify(src, LanguageWGSL, frame))
}
