package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitGLSLMatchesReferenceHeader(t *testing.T) {
	for _, l := range uniform.Layouts() {
		assert.Contains(t, uniform.GLSLSource, EmitGLSL(l), l.Name)
	}
}

func TestEmitGLSLVerifiesClean(t *testing.T) {
	src := EmitGLSL(uniform.Layouts()...)
	assert.Empty(t, Verify(src, LanguageGLSL, uniform.Layouts()...))
}

func TestEmitWGSLVerifiesClean(t *testing.T) {
	src, err := EmitWGSL(uniform.Layouts()...)
	require.NoError(t, err)

	assert.Contains(t, src, "    guiHidden: u32, // 8\n")
	assert.Contains(t, src, "    projection: array<mat4x4<f32>, 4>, // 112\n")
	assert.Empty(t, Verify(src, LanguageWGSL, uniform.Layouts()...))
}

func TestEmitWGSLRejectsScalarArrays(t *testing.T) {
	l := layout.Compute("Weights", layout.Decl{Name: "w", Type: layout.ArrayOf(layout.Float, 4)})
	_, err := EmitWGSL(l)
	assert.ErrorIs(t, err, ErrUnsupportedWGSL)

	l = layout.Compute("Points", layout.Decl{Name: "p", Type: layout.ArrayOf(layout.Vec3, 4)})
	_, err = EmitWGSL(l)
	assert.NoError(t, err)
}

func TestEmitWGSLModule(t *testing.T) {
	bindings := []Binding{
		{Group: 0, Binding: 0, Struct: "GameData"},
		{Group: 0, Binding: 1, Var: "frame", Struct: "FrameData"},
	}
	src, err := EmitWGSLModule(bindings, uniform.Layouts()...)
	require.NoError(t, err)

	assert.Contains(t, src, "@group(0) @binding(0) var<uniform> gameData: GameData;\n")
	assert.Contains(t, src, "    let v1 = frame.millis;\n")
	assert.Equal(t, []Binding{
		{Group: 0, Binding: 0, Var: "gameData", Struct: "GameData"},
		{Group: 0, Binding: 1, Var: "frame", Struct: "FrameData"},
	}, ParseUniformBindings(src))

	_, err = EmitWGSLModule([]Binding{{Struct: "Nope"}}, uniform.Layouts()...)
	assert.Error(t, err)
}

func TestCompileEmittedModule(t *testing.T) {
	var bindings []Binding
	for i, l := range uniform.Layouts() {
		bindings = append(bindings, Binding{Group: 0, Binding: i, Struct: l.Name})
	}
	src, err := EmitWGSLModule(bindings, uniform.Layouts()...)
	require.NoError(t, err)

	words, err := CompileWGSL(src)
	require.NoError(t, err, src)
	require.NotEmpty(t, words)
	assert.Equal(t, uint32(0x07230203), words[0], "SPIR-V magic number")
}

func TestBindingVarName(t *testing.T) {
	assert.Equal(t, "cameraData", Binding{Struct: "CameraData"}.VarName())
	assert.Equal(t, "cam", Binding{Var: "cam", Struct: "CameraData"}.VarName())
	assert.True(t, strings.HasPrefix(Binding{Struct: "TemporalData"}.VarName(), "temporal"))
}
