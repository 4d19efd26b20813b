// Package buffer moves marshaled uniform blocks into GPU buffers. It stages
// block bytes per binding, creates the uniform buffers on a wgpu device and
// packs many blocks into one aligned staging buffer.
package buffer

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

// uniformBufferProvider is the unexported implementation of UniformBufferProvider.
type uniformBufferProvider struct {
	mu sync.Mutex

	// label is a debug label, also used as the prefix of created buffer labels.
	label string
	// group is the bind group index the bindings belong to.
	group int
	// blocks holds the uniform block bound at each binding index.
	blocks map[int]uniform.Block

	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	// They are populated by Init or SetBuffer and must be released when no longer needed.
	buffers map[int]*wgpu.Buffer
}

// UniformBufferProvider owns the uniform blocks of one bind group and the GPU
// buffers they are written to.
//
// Usage pattern:
//  1. Create a provider with one block per binding
//  2. Call Init(device) to create a Uniform|CopyDst buffer per binding
//  3. Mutate the blocks each frame, then Stage or StageAll them
//  4. Pass the staged writes to Flush with a QueueWriter
type UniformBufferProvider interface {
	// Release releases any GPU buffers held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Group returns the bind group index of this provider.
	//
	// Returns:
	//   - int: the bind group index
	Group() int

	// Block returns the block bound at a binding, or nil if there is none.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uniform.Block: the bound block or nil
	Block(binding int) uniform.Block

	// Bindings returns every binding index with a block, in ascending order.
	//
	// Returns:
	//   - []int: the sorted binding indices
	Bindings() []int

	// SetBlock binds a block at a binding index, replacing any previous block.
	//
	// Parameters:
	//   - binding: the binding index
	//   - b: the block to bind
	SetBlock(binding int, b uniform.Block)

	// Buffer returns the GPU buffer for a binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// SetBuffer stores the GPU buffer for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// Stage marshals the block at a binding into a write covering the whole block.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - BufferWrite: the staged write
	//   - error: ErrUnknownBinding if nothing is bound there
	Stage(binding int) (BufferWrite, error)

	// StageAll stages every bound block in binding order.
	//
	// Returns:
	//   - []BufferWrite: one write per binding
	StageAll() []BufferWrite

	// Init creates a uniform buffer sized to each bound block for every binding
	// that does not have one yet.
	//
	// Parameters:
	//   - device: the device to allocate on
	//
	// Returns:
	//   - error: ErrNoDevice, or the first buffer creation error
	Init(device *wgpu.Device) error
}

// Compile-time check that uniformBufferProvider implements UniformBufferProvider
var _ UniformBufferProvider = &uniformBufferProvider{}

// NewUniformBufferProvider creates a new UniformBufferProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - UniformBufferProvider: a new provider configured with the provided options
func NewUniformBufferProvider(label string, options ...UniformBufferProviderOption) UniformBufferProvider {
	p := &uniformBufferProvider{
		label:   label,
		blocks:  make(map[int]uniform.Block),
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *uniformBufferProvider) Label() string {
	return p.label
}

func (p *uniformBufferProvider) Group() int {
	return p.group
}

func (p *uniformBufferProvider) Block(binding int) uniform.Block {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocks[binding]
}

func (p *uniformBufferProvider) Bindings() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	bindings := make([]int, 0, len(p.blocks))
	for b := range p.blocks {
		bindings = append(bindings, b)
	}
	slices.Sort(bindings)
	return bindings
}

func (p *uniformBufferProvider) SetBlock(binding int, b uniform.Block) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocks[binding] = b
}

func (p *uniformBufferProvider) Buffer(binding int) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffers[binding]
}

func (p *uniformBufferProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffers[binding] = buf
}

func (p *uniformBufferProvider) Stage(binding int) (BufferWrite, error) {
	b := p.Block(binding)
	if b == nil {
		return BufferWrite{}, fmt.Errorf("%s binding %d: %w", p.label, binding, ErrUnknownBinding)
	}
	return BufferWrite{
		Provider: p,
		Binding:  binding,
		Data:     b.Marshal(),
	}, nil
}

func (p *uniformBufferProvider) StageAll() []BufferWrite {
	bindings := p.Bindings()
	writes := make([]BufferWrite, 0, len(bindings))
	for _, binding := range bindings {
		w, err := p.Stage(binding)
		if err != nil {
			continue
		}
		writes = append(writes, w)
	}
	return writes
}

func (p *uniformBufferProvider) Init(device *wgpu.Device) error {
	if device == nil {
		return ErrNoDevice
	}
	for _, binding := range p.Bindings() {
		if p.Buffer(binding) != nil {
			continue
		}
		b := p.Block(binding)
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            fmt.Sprintf("%s %s Buffer", p.label, b.Name()),
			Size:             uint64(b.Size()),
			Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return fmt.Errorf("%s binding %d: %w", p.label, binding, err)
		}
		p.SetBuffer(binding, buf)
	}
	return nil
}

func (p *uniformBufferProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
}
