// Package config loads the TOML file that places uniform blocks into bind
// groups and tunes how they are packed and emitted.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-uniforms/common"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/buffer"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/shader"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrUnknownBlock is returned for a block name no uniform block declares.
	ErrUnknownBlock = errors.New("config: unknown block")
	// ErrDuplicateBinding is returned when two blocks share a group and binding.
	ErrDuplicateBinding = errors.New("config: duplicate binding")
	// ErrInvalid is returned for out-of-range values.
	ErrInvalid = errors.New("config: invalid value")
)

const (
	defaultLanguage = "glsl"
	defaultLogLevel = "info"
)

var defaultStages = []string{"vertex", "fragment", "compute"}

// BlockBinding places one uniform block at a bind group slot.
type BlockBinding struct {
	Name    string `toml:"name"`
	Group   int    `toml:"group"`
	Binding int    `toml:"binding"`
	// Var overrides the shader variable name.
	Var string `toml:"var,omitempty"`
}

// Config is the TOML configuration. Omitted values take their defaults.
type Config struct {
	// OffsetAlignment is the device's minUniformBufferOffsetAlignment.
	OffsetAlignment int `toml:"offset_alignment"`
	// Workers is the packer pool size; 0 picks one less than the number of
	// CPUs, at least one.
	Workers int `toml:"workers,omitempty"`
	// Language is the output language, "glsl" or "wgsl".
	Language string `toml:"language"`
	// LogLevel is a slog level name: debug, info, warn or error.
	LogLevel string `toml:"log_level"`
	// Stages lists the shader stages the blocks are visible to.
	Stages []string `toml:"stages"`
	// Blocks places each block. An empty list binds every block in
	// declaration order at group 0.
	Blocks []BlockBinding `toml:"blocks"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: every block at group 0, bindings in declaration order
func Default() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

// Load reads and validates a TOML configuration file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the parsed configuration with defaults applied
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML document.
//
// Parameters:
//   - data: the TOML text
//
// Returns:
//   - Config: the parsed configuration with defaults applied
//   - error: a decode or validation error
func Parse(data []byte) (Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Marshal encodes the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func (c *Config) applyDefaults() {
	c.OffsetAlignment = common.Coalesce(c.OffsetAlignment, buffer.DefaultOffsetAlignment)
	c.Language = common.Coalesce(c.Language, defaultLanguage)
	c.LogLevel = common.Coalesce(c.LogLevel, defaultLogLevel)
	if len(c.Stages) == 0 {
		c.Stages = slices.Clone(defaultStages)
	}
	if len(c.Blocks) == 0 {
		for i, l := range uniform.Layouts() {
			c.Blocks = append(c.Blocks, BlockBinding{Name: l.Name, Group: 0, Binding: i})
		}
	}
}

// Validate checks every value.
//
// Returns:
//   - error: the first problem found
func (c Config) Validate() error {
	if c.OffsetAlignment <= 0 || c.OffsetAlignment&(c.OffsetAlignment-1) != 0 {
		return fmt.Errorf("%w: offset_alignment %d is not a power of two", ErrInvalid, c.OffsetAlignment)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers)
	}
	if _, err := shader.ParseLanguage(c.Language); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Visibility(); err != nil {
		return err
	}

	seen := make(map[[2]int]string, len(c.Blocks))
	for _, b := range c.Blocks {
		if _, ok := uniform.LayoutByName(b.Name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownBlock, b.Name)
		}
		if b.Group < 0 || b.Binding < 0 {
			return fmt.Errorf("%w: %s at group %d binding %d", ErrInvalid, b.Name, b.Group, b.Binding)
		}
		key := [2]int{b.Group, b.Binding}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s and %s at group %d binding %d", ErrDuplicateBinding, other, b.Name, b.Group, b.Binding)
		}
		seen[key] = b.Name
	}
	return nil
}

// Lang returns the output language. Call after Validate.
func (c Config) Lang() shader.Language {
	lang, _ := shader.ParseLanguage(c.Language)
	return lang
}

// Level parses LogLevel.
//
// Returns:
//   - slog.Level: the parsed level
//   - error: ErrInvalid for an unknown level name
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}

// Visibility combines Stages into a wgpu shader stage mask.
//
// Returns:
//   - wgpu.ShaderStage: the stage mask
//   - error: ErrInvalid for an unknown stage name
func (c Config) Visibility() (wgpu.ShaderStage, error) {
	var vis wgpu.ShaderStage
	for _, s := range c.Stages {
		switch strings.ToLower(s) {
		case "vertex":
			vis |= wgpu.ShaderStageVertex
		case "fragment":
			vis |= wgpu.ShaderStageFragment
		case "compute":
			vis |= wgpu.ShaderStageCompute
		default:
			return 0, fmt.Errorf("%w: stage %q", ErrInvalid, s)
		}
	}
	return vis, nil
}

// Bindings converts the block placements for shader emission, ordered by
// group then binding.
//
// Returns:
//   - []shader.Binding: one binding per block
func (c Config) Bindings() []shader.Binding {
	bindings := make([]shader.Binding, len(c.Blocks))
	for i, b := range c.Blocks {
		bindings[i] = shader.Binding{Group: b.Group, Binding: b.Binding, Var: b.Var, Struct: b.Name}
	}
	slices.SortFunc(bindings, func(a, b shader.Binding) int {
		if a.Group != b.Group {
			return a.Group - b.Group
		}
		return a.Binding - b.Binding
	})
	return bindings
}

// Providers creates one buffer provider per bind group, each holding a zero
// block at every configured binding.
//
// Returns:
//   - []buffer.UniformBufferProvider: the providers in ascending group order
func (c Config) Providers() []buffer.UniformBufferProvider {
	byGroup := make(map[int][]buffer.UniformBufferProviderOption)
	var groups []int
	for _, b := range c.Blocks {
		block, ok := uniform.NewBlock(b.Name)
		if !ok {
			continue
		}
		if _, ok := byGroup[b.Group]; !ok {
			groups = append(groups, b.Group)
			byGroup[b.Group] = []buffer.UniformBufferProviderOption{buffer.WithGroup(b.Group)}
		}
		byGroup[b.Group] = append(byGroup[b.Group], buffer.WithBlock(b.Binding, block))
	}
	slices.Sort(groups)

	providers := make([]buffer.UniformBufferProvider, 0, len(groups))
	for _, g := range groups {
		providers = append(providers, buffer.NewUniformBufferProvider(fmt.Sprintf("group_%d", g), byGroup[g]...))
	}
	return providers
}

// PackerOptions returns the packer options the configuration selects.
func (c Config) PackerOptions() []buffer.PackerOption {
	return []buffer.PackerOption{
		buffer.WithAlignment(c.OffsetAlignment),
		buffer.WithWorkers(c.Workers),
	}
}
