package profiler

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-uniforms/common"
)

// Stats summarizes one profiling interval.
type Stats struct {
	// Frames is the number of frames packed during the interval.
	Frames int
	// Bytes is the number of uniform bytes packed during the interval.
	Bytes int
	// Elapsed is the length of the interval.
	Elapsed time.Duration
	// HeapMB is the live heap at the end of the interval.
	HeapMB float64
	// AllocRateMB is the heap allocation rate over the interval, in MB/s.
	AllocRateMB float64
}

// FPS returns the packed frames per second.
func (s Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

// BytesPerSecond returns the uniform upload rate.
func (s Stats) BytesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Bytes) / s.Elapsed.Seconds()
}

// Profiler tracks how many frames and uniform bytes are packed and outputs the
// rates to the shared logger at a configurable interval.
// A Profiler is safe for concurrent use.
type Profiler struct {
	mu             sync.Mutex
	frameCount     int
	byteCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	last           Stats
	now            func() time.Time
}

// NewProfiler creates a new Profiler with the provided options.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: a variadic list of options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per packed frame.
// Logs upload statistics when the update interval has elapsed.
//
// Parameters:
//   - bytes: the number of uniform bytes packed this frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(bytes int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	p.byteCount += bytes
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	p.last = Stats{
		Frames:      p.frameCount,
		Bytes:       p.byteCount,
		Elapsed:     elapsed,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
	}

	common.Logger().Info("profiler",
		"fps", p.last.FPS(),
		"bytesPerSec", p.last.BytesPerSecond(),
		"heapMB", p.last.HeapMB,
		"allocRateMB", p.last.AllocRateMB,
	)

	p.frameCount = 0
	p.byteCount = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics of the most recently completed interval.
//
// Returns:
//   - Stats: the last interval, or the zero value before the first one completes
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
