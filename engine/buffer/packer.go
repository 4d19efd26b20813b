package buffer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-uniforms/common"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/profiler"
	"github.com/Carmen-Shannon/oxy-uniforms/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultOffsetAlignment is the minUniformBufferOffsetAlignment guaranteed by
// every WebGPU device.
const DefaultOffsetAlignment = 256

// PackedBlock locates one block inside a packed staging buffer.
type PackedBlock struct {
	Name   string
	Offset int
	Size   int
}

// Packed is a staging buffer holding several blocks at aligned offsets, ready
// to be bound with dynamic offsets.
type Packed struct {
	Data   []byte
	Blocks []PackedBlock
}

// Offset returns the offset of the first block with the given name, or -1.
func (p Packed) Offset(name string) int {
	for _, b := range p.Blocks {
		if b.Name == name {
			return b.Offset
		}
	}
	return -1
}

// Upload writes the whole staging buffer into buf at offset 0.
//
// Parameters:
//   - w: the queue to write through
//   - buf: a buffer at least len(p.Data) bytes long
//
// Returns:
//   - int: the number of bytes written
func (p Packed) Upload(w QueueWriter, buf *wgpu.Buffer) int {
	if buf == nil || len(p.Data) == 0 {
		return 0
	}
	w.WriteBuffer(buf, 0, p.Data)
	return len(p.Data)
}

// Packer marshals many blocks concurrently into one staging buffer.
// A Packer is safe for concurrent use. Its workers run until Close.
type Packer struct {
	alignment int
	workers   int
	profiler  *profiler.Profiler

	// pool holds one long-lived goroutine per worker from NewPacker until Close.
	pool      worker.DynamicWorkerPool
	taskID    atomic.Int64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewPacker creates a Packer with the provided options and starts its workers.
// The offset alignment defaults to DefaultOffsetAlignment and the worker count
// to one less than the number of CPUs, at least one. Call Close to stop the workers.
//
// Parameters:
//   - options: a variadic list of options to configure the packer
//
// Returns:
//   - *Packer: the new packer
//   - error: ErrAlignment if the configured alignment is invalid
func NewPacker(options ...PackerOption) (*Packer, error) {
	p := &Packer{
		alignment: DefaultOffsetAlignment,
		workers:   max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.alignment <= 0 || p.alignment&(p.alignment-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrAlignment, p.alignment)
	}

	// Initialize the pool after options so WithWorkers can override the default.
	p.pool = worker.NewDynamicWorkerPool(p.workers, 256, 1*time.Second)
	return p, nil
}

// Alignment returns the offset alignment between packed blocks.
func (p *Packer) Alignment() int {
	return p.alignment
}

// Workers returns the number of pool workers.
func (p *Packer) Workers() int {
	return p.workers
}

// Close stops the worker goroutines and blocks until each has retired. Pack
// returns ErrPackerClosed afterwards. Close is idempotent and must not overlap
// a call to Pack.
//
// A pool worker only returns on a stop signal carrying its own id, and any
// worker may consume another's signal, so pool.Stop alone can strand workers.
// Each worker is retired by a task that ends its goroutine instead; a retired
// worker takes no further tasks, so exactly one retire task reaches each.
func (p *Packer) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)

		var wg sync.WaitGroup
		wg.Add(p.workers)
		for range p.workers {
			p.pool.SubmitTask(worker.Task{
				ID: int(p.taskID.Add(1)),
				Do: func() (any, error) {
					defer wg.Done()
					runtime.Goexit()
					return nil, nil
				},
			})
		}
		wg.Wait()
		p.pool.Stop()
		common.Logger().Debug("buffer: packer closed", "workers", p.workers)
	})
}

// Layout places the blocks one after another, each at the next aligned offset.
//
// Parameters:
//   - blocks: the blocks in packing order
//
// Returns:
//   - []PackedBlock: the placement of each block
//   - int: the total staging size
func (p *Packer) Layout(blocks ...uniform.Block) ([]PackedBlock, int) {
	placed := make([]PackedBlock, len(blocks))
	end := 0
	for i, b := range blocks {
		off := common.AlignUp(p.alignment, end)
		placed[i] = PackedBlock{Name: b.Name(), Offset: off, Size: b.Size()}
		end = off + b.Size()
	}
	return placed, end
}

// Pack marshals every block into a fresh staging buffer. Each block is marshaled
// on the worker pool into its own disjoint region; bytes between blocks stay zero.
//
// Parameters:
//   - blocks: the blocks in packing order
//
// Returns:
//   - Packed: the staging buffer and block placements
//   - error: ErrPackerClosed after Close, otherwise the joined marshal errors, if any
func (p *Packer) Pack(blocks ...uniform.Block) (Packed, error) {
	if p.closed.Load() {
		return Packed{}, ErrPackerClosed
	}
	placed, size := p.Layout(blocks...)
	packed := Packed{
		Data:   make([]byte, size),
		Blocks: placed,
	}

	// A WaitGroup is the per-call barrier. pool.Wait() only returns once every
	// worker has exited, which happens at Close.
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, b := range blocks {
		region := packed.Data[placed[i].Offset : placed[i].Offset+placed[i].Size]
		block := b

		wg.Add(1)
		p.pool.SubmitTask(worker.Task{
			ID: int(p.taskID.Add(1)),
			Do: func() (any, error) {
				defer wg.Done()
				if err := block.MarshalTo(region); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("%s: %w", block.Name(), err))
					mu.Unlock()
					return nil, err
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return Packed{}, err
	}

	common.Logger().Debug("buffer: packed", "blocks", len(blocks), "bytes", size)
	if p.profiler != nil {
		p.profiler.Tick(size)
	}
	return packed, nil
}
