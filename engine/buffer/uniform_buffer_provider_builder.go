package buffer

import (
	"github.com/Carmen-Shannon/oxy-uniforms/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformBufferProviderOption is a functional option used to configure a UniformBufferProvider during construction.
type UniformBufferProviderOption func(*uniformBufferProvider)

// WithGroup sets the bind group index for this provider.
//
// Parameters:
//   - group: the bind group index
//
// Returns:
//   - UniformBufferProviderOption: a function that sets the bind group index
func WithGroup(group int) UniformBufferProviderOption {
	return func(p *uniformBufferProvider) {
		p.group = group
	}
}

// WithBlock binds a uniform block at a binding index.
//
// Parameters:
//   - binding: the binding index
//   - b: the block to bind
//
// Returns:
//   - UniformBufferProviderOption: a function that binds the block
func WithBlock(binding int, b uniform.Block) UniformBufferProviderOption {
	return func(p *uniformBufferProvider) {
		p.blocks[binding] = b
	}
}

// WithBuffer sets a buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index
//   - buf: the buffer to use for this binding
//
// Returns:
//   - UniformBufferProviderOption: a function that sets the buffer
func WithBuffer(binding int, buf *wgpu.Buffer) UniformBufferProviderOption {
	return func(p *uniformBufferProvider) {
		p.buffers[binding] = buf
	}
}
