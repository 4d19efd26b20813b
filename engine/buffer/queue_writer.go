package buffer

import (
	"github.com/Carmen-Shannon/oxy-uniforms/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// QueueWriter is the part of a GPU queue that Flush needs.
type QueueWriter interface {
	// WriteBuffer copies data into buf at offset.
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)
}

// wgpuQueueWriter adapts a *wgpu.Queue to QueueWriter.
type wgpuQueueWriter struct {
	queue *wgpu.Queue
}

// NewQueueWriter wraps a wgpu queue.
//
// Parameters:
//   - queue: the device queue
//
// Returns:
//   - QueueWriter: a writer submitting to the queue
func NewQueueWriter(queue *wgpu.Queue) QueueWriter {
	return &wgpuQueueWriter{queue: queue}
}

func (w *wgpuQueueWriter) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	w.queue.WriteBuffer(buf, offset, data)
}

// Flush performs each write against its provider's buffer. Writes whose
// binding has no buffer yet are skipped.
//
// Parameters:
//   - w: the queue to write through
//   - writes: the staged writes
//
// Returns:
//   - int: the number of bytes written
func Flush(w QueueWriter, writes []BufferWrite) int {
	total := 0
	for _, bw := range writes {
		if bw.Provider == nil {
			continue
		}
		buf := bw.Provider.Buffer(bw.Binding)
		if buf == nil {
			common.Logger().Warn("buffer: skipping write without buffer",
				"provider", bw.Provider.Label(), "binding", bw.Binding)
			continue
		}
		w.WriteBuffer(buf, bw.Offset, bw.Data)
		total += len(bw.Data)
	}
	common.Logger().Debug("buffer: flushed", "writes", len(writes), "bytes", total)
	return total
}
