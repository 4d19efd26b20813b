package config

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/buffer"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, buffer.DefaultOffsetAlignment, c.OffsetAlignment)
	assert.Equal(t, shader.LanguageGLSL, c.Lang())
	require.Len(t, c.Blocks, 6)
	assert.Equal(t, BlockBinding{Name: "TemporalData", Group: 0, Binding: 5}, c.Blocks[5])

	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	vis, err := c.Visibility()
	require.NoError(t, err)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment|wgpu.ShaderStageCompute, vis)
}

func TestLoad(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "split_groups.toml"))
	require.NoError(t, err)

	assert.Equal(t, 64, c.OffsetAlignment)
	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, shader.LanguageWGSL, c.Lang())

	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	vis, err := c.Visibility()
	require.NoError(t, err)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, vis)

	bindings := c.Bindings()
	require.Len(t, bindings, 4)
	assert.Equal(t, shader.Binding{Group: 1, Binding: 0, Var: "camera", Struct: "CameraData"}, bindings[2])
	assert.Equal(t, "camera", bindings[2].VarName())
	assert.Equal(t, "temporalData", bindings[3].VarName())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.toml"))
	assert.Error(t, err)
}

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(`language = "wgsl"`))
	require.NoError(t, err)
	assert.Equal(t, 256, c.OffsetAlignment)
	assert.Equal(t, "info", c.LogLevel)
	assert.Len(t, c.Blocks, 6)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"alignment": {`offset_alignment = 100`, ErrInvalid},
		"workers":   {`workers = -1`, ErrInvalid},
		"language":  {`language = "hlsl"`, shader.ErrUnknownLanguage},
		"log level": {`log_level = "loud"`, ErrInvalid},
		"stage":     {`stages = ["geometry"]`, ErrInvalid},
		"block":     {"[[blocks]]\nname = \"ShadowData\"", ErrUnknownBlock},
		"negative":  {"[[blocks]]\nname = \"GameData\"\nbinding = -1", ErrInvalid},
		"duplicate": {"[[blocks]]\nname = \"GameData\"\n[[blocks]]\nname = \"FrameData\"", ErrDuplicateBinding},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := Parse([]byte(`offset_alignment = "wide"`))
	assert.Error(t, err)
}

func TestProvidersPerGroup(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "split_groups.toml"))
	require.NoError(t, err)

	providers := c.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, 0, providers[0].Group())
	assert.Equal(t, []int{0, 1}, providers[0].Bindings())
	assert.Equal(t, "FrameData", providers[0].Block(1).Name())
	assert.Equal(t, 1, providers[1].Group())
	assert.Equal(t, "CameraData", providers[1].Block(0).Name())
}

func TestPackerOptions(t *testing.T) {
	c, err := Parse([]byte(`offset_alignment = 32`))
	require.NoError(t, err)

	p, err := buffer.NewPacker(c.PackerOptions()...)
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, 32, p.Alignment())
}

func TestDefaultWorkersLeaveOneCPU(t *testing.T) {
	c := Default()
	assert.Zero(t, c.Workers)

	p, err := buffer.NewPacker(c.PackerOptions()...)
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, max(runtime.NumCPU()-1, 1), p.Workers())

	c.Workers = 3
	q, err := buffer.NewPacker(c.PackerOptions()...)
	require.NoError(t, err)
	defer q.Close()
	assert.Equal(t, 3, q.Workers())
}

func TestMarshalRoundTrip(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "split_groups.toml"))
	require.NoError(t, err)

	data, err := c.Marshal()
	require.NoError(t, err)
	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}
