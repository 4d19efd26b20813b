package buffer

import "github.com/Carmen-Shannon/oxy-uniforms/engine/profiler"

// PackerOption is a functional option used to configure a Packer during construction.
type PackerOption func(*Packer)

// WithAlignment sets the offset alignment between packed blocks. It should match
// the device's minUniformBufferOffsetAlignment limit.
//
// Parameters:
//   - alignment: a positive power of two
//
// Returns:
//   - PackerOption: a function that sets the alignment
func WithAlignment(alignment int) PackerOption {
	return func(p *Packer) {
		p.alignment = alignment
	}
}

// WithWorkers sets the number of pool workers. Values below one are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - PackerOption: a function that sets the worker count
func WithWorkers(n int) PackerOption {
	return func(p *Packer) {
		if n >= 1 {
			p.workers = n
		}
	}
}

// WithProfiler reports every packed frame to a profiler.
//
// Parameters:
//   - prof: the profiler to tick after each Pack
//
// Returns:
//   - PackerOption: a function that sets the profiler
func WithProfiler(prof *profiler.Profiler) PackerOption {
	return func(p *Packer) {
		p.profiler = prof
	}
}
