// Command uniformgen emits, verifies and exercises the std140 uniform block
// declarations shared by the host and the shaders.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-uniforms/common"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/buffer"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/camera"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/config"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/profiler"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/shader"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/uniform"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// options holds the parsed command line.
type options struct {
	emit    string
	verify  string
	compile bool
	config  string
	out     string
	frames  int
	verbose bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("uniformgen: %v", err)
	}
}

// run parses args and performs every requested action, writing generated text
// to stdout (or -out) and logs to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("uniformgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.emit, "emit", "", "output to generate: glsl, wgsl, module or table (default: config language)")
	fs.StringVar(&opts.verify, "verify", "", "check a shader source file against the host layouts")
	fs.BoolVar(&opts.compile, "compile", false, "compile the generated WGSL module with naga")
	fs.StringVar(&opts.config, "config", "", "TOML configuration file")
	fs.StringVar(&opts.out, "out", "", "write generated output to this file instead of stdout")
	fs.IntVar(&opts.frames, "frames", 0, "pack this many simulated frames and report upload statistics")
	fs.BoolVar(&opts.verbose, "v", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if opts.config != "" {
		var err error
		if cfg, err = config.Load(opts.config); err != nil {
			return err
		}
	}

	level, _ := cfg.Level()
	if opts.verbose {
		level = slog.LevelDebug
	}
	common.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer common.SetLogger(nil)

	if opts.verify != "" {
		if err := verifyFile(opts.verify, cfg); err != nil {
			return err
		}
	}

	if opts.compile {
		words, err := compileModule(cfg)
		if err != nil {
			return err
		}
		common.Logger().Info("compiled module", "spirvWords", words)
	}

	if opts.frames > 0 {
		if err := simulate(cfg, opts.frames); err != nil {
			return err
		}
	}

	if opts.emit == "" && (opts.verify != "" || opts.compile || opts.frames > 0) {
		return nil
	}
	text, err := emit(common.Coalesce(opts.emit, cfg.Lang().String()), cfg)
	if err != nil {
		return err
	}
	if opts.out == "" {
		_, err = io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(opts.out, []byte(text), 0o644); err != nil {
		return err
	}
	common.Logger().Info("wrote output", "file", opts.out, "bytes", len(text))
	return nil
}

// boundLayouts returns the layouts of the configured blocks.
func boundLayouts(cfg config.Config) []layout.Struct {
	var layouts []layout.Struct
	seen := make(map[string]bool)
	for _, b := range cfg.Bindings() {
		if seen[b.Struct] {
			continue
		}
		if l, ok := uniform.LayoutByName(b.Struct); ok {
			layouts = append(layouts, l)
			seen[b.Struct] = true
		}
	}
	return layouts
}

func emit(kind string, cfg config.Config) (string, error) {
	switch strings.ToLower(kind) {
	case "glsl":
		return shader.EmitGLSL(uniform.Layouts()...), nil
	case "wgsl":
		return shader.EmitWGSL(uniform.Layouts()...)
	case "module":
		return shader.EmitWGSLModule(cfg.Bindings(), boundLayouts(cfg)...)
	case "table":
		var sb strings.Builder
		for _, l := range uniform.Layouts() {
			sb.WriteString(l.String())
			sb.WriteByte('\n')
		}
		for _, b := range cfg.Bindings() {
			fmt.Fprintf(&sb, "@group(%d) @binding(%d) %s: %s\n", b.Group, b.Binding, b.VarName(), b.Struct)
		}
		return sb.String(), nil
	default:
		return "", fmt.Errorf("unknown -emit %q", kind)
	}
}

// verifyFile checks a shader file against the configured blocks. Without a
// configuration file every block is bound, so every block is checked.
func verifyFile(path string, cfg config.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lang := cfg.Lang()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wgsl":
		lang = shader.LanguageWGSL
	case ".glsl", ".h", ".vert", ".frag", ".comp":
		lang = shader.LanguageGLSL
	}

	mismatches := shader.Verify(string(data), lang, boundLayouts(cfg)...)
	for _, m := range mismatches {
		common.Logger().Warn("layout mismatch", "file", path, "detail", m.String())
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%s: %d mismatches: %w", path, len(mismatches), shader.ErrLayoutMismatch)
	}
	common.Logger().Info("verified", "file", path, "language", lang)
	return nil
}

func compileModule(cfg config.Config) (int, error) {
	src, err := shader.EmitWGSLModule(cfg.Bindings(), boundLayouts(cfg)...)
	if err != nil {
		return 0, err
	}
	spirv, err := shader.CompileWGSL(src)
	if err != nil {
		return 0, err
	}
	return len(spirv), nil
}

// simulate drives the blocks through a number of 60 Hz frames, packing the
// configured blocks each frame.
func simulate(cfg config.Config, frames int) error {
	prof := profiler.NewProfiler()
	packer, err := buffer.NewPacker(append(cfg.PackerOptions(), buffer.WithProfiler(prof))...)
	if err != nil {
		return err
	}
	defer packer.Close()

	cam := camera.NewCamera(
		camera.WithPosition(mgl32.Vec3{0, 2, 10}),
		camera.WithAspect(16.0/9.0),
		camera.WithNear(0.05),
		camera.WithFar(512),
	)
	game := &uniform.GameData{ScreenSize: mgl32.Vec2{1920, 1080}}
	frame := &uniform.FrameData{}
	world := &uniform.WorldData{SkyColor: mgl32.Vec3{0.5, 0.7, 1}, FogStart: 64, FogEnd: 256, FogColor: mgl32.Vec4{0.8, 0.85, 0.9, 1}}
	celestial := &uniform.CelestialData{}
	celestial.SetCascades([uniform.CascadeCount]float32{16, 48, 128, 384}, 0.1, 1024)

	const dt = time.Second / 60
	bytes := 0
	for i := range frames {
		frame.Advance(dt)
		world.Time = int32(i) % 24000
		celestial.SetAngle(float32(world.Time)/24000, 100)

		angle := frame.Time * 0.5
		cam.SetPosition(mgl32.Vec3{10 * math32.Sin(angle), 2, 10 * math32.Cos(angle)})
		cam.Update()
		camData, temporal := cam.CameraData(), cam.TemporalData()

		blocks := map[string]uniform.Block{
			"GameData":      game,
			"FrameData":     frame,
			"WorldData":     world,
			"CelestialData": celestial,
			"CameraData":    &camData,
			"TemporalData":  &temporal,
		}
		ordered := make([]uniform.Block, 0, len(blocks))
		for _, l := range boundLayouts(cfg) {
			ordered = append(ordered, blocks[l.Name])
		}

		packed, err := packer.Pack(ordered...)
		if err != nil {
			return err
		}
		bytes += len(packed.Data)
	}
	common.Logger().Info("simulated", "frames", frames, "bytes", bytes, "alignment", packer.Alignment())
	return nil
}
