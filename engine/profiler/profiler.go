package profiler

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"time"
)

// counter is a monotonically increasing value sampled once per interval.
type counter struct {
	name string
	read func() uint64
	last uint64
}

// Profiler tracks frame rate, memory and registered counters, logging a summary line at a
// configurable interval. Tick must be called from a single goroutine.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64

	counters []*counter
	now      func() time.Time
	logger   *log.Logger
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         log.Default(),
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	for _, c := range p.counters {
		c.last = c.read()
	}
	return p
}

// Tick should be called once per frame. When the update interval has elapsed it logs FPS,
// heap usage, allocation rate and the per-second rate of every registered counter.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}
	seconds := elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds

	var sb strings.Builder
	fmt.Fprintf(&sb, "FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s",
		float64(p.frameCount)/seconds, heapMB, allocRateMB)
	for _, c := range p.counters {
		value := c.read()
		fmt.Fprintf(&sb, " | %s: %.1f/s", c.name, float64(value-c.last)/seconds)
		c.last = value
	}
	p.logger.Printf("[Profiler] %s", sb.String())

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
