package shader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessorWGSL(t *testing.T) {
	src := "//@oxy:include CameraData\n//@oxy:group 0 4 camera CameraData\nfn f() {}"

	pp := NewPreProcessor(LanguageWGSL, uniform.Layouts()...)
	out, err := pp.Process(src)
	require.NoError(t, err)

	assert.Contains(t, out, "struct CameraData {\n    pos: vec3<f32>, // 0\n")
	assert.Contains(t, out, "@group(0) @binding(4) var<uniform> camera: CameraData;\n")
	assert.Contains(t, out, "fn f() {}")
	assert.Equal(t, []Binding{{Group: 0, Binding: 4, Var: "camera", Struct: "CameraData"}}, pp.Declarations())

	camera, _ := uniform.LayoutByName("CameraData")
	assert.Empty(t, Verify(out, LanguageWGSL, camera))
}

func TestPreProcessorGLSL(t *testing.T) {
	src := "#version 450\n// @oxy:include FrameData\n// @oxy:group 1 0 frame FrameData\n"

	pp := NewPreProcessor(LanguageGLSL, uniform.Layouts()...)
	out, err := pp.Process(src)
	require.NoError(t, err)

	assert.Contains(t, out, "struct FrameData {\n    float millis; // 0\n")
	assert.Contains(t, out, "layout(std140, set = 1, binding = 0) uniform FrameDataBlock { FrameData frame; };")

	frame, _ := uniform.LayoutByName("FrameData")
	assert.Empty(t, Verify(out, LanguageGLSL, frame))
}

func TestPreProcessorResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor(LanguageWGSL, uniform.Layouts()...)
	_, err := pp.Process("//@oxy:group 0 0 game GameData")
	require.NoError(t, err)
	_, err = pp.Process("fn f() {}")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestPreProcessorErrors(t *testing.T) {
	pp := NewPreProcessor(LanguageWGSL, uniform.Layouts()...)

	cases := []string{
		"//@oxy:include ShadowData",
		"//@oxy:include",
		"//@oxy:group 0 x game GameData",
		"//@oxy:group 0 0 GameData",
		"//@oxy:bind 0 0 game GameData",
		"//@oxy:",
	}
	for _, src := range cases {
		_, err := pp.Process(src)
		assert.Error(t, err, src)
	}
}
