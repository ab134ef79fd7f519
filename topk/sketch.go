// Package topk finds the clients sending a disproportionate share of credential
// submissions over a sliding window of ticks.
package topk

import (
	"sync"
	"time"

	"github.com/keilerkonzept/topk/sliding"
)

type SketchParams struct {
	K          int // heavy hitters tracked
	WindowSize int // ticks in the sliding window
	Width      int
	Depth      int
	// TickSize is the number of submissions that make one tick.
	TickSize uint64
	// MaxSharePercent of the window a single client may send.
	MaxSharePercent int
	// ActivationRPS is the submission rate under which nobody is blocked.
	ActivationRPS int
}

type TopKSketch struct {
	mu              sync.Mutex
	sketch          *sliding.Sketch
	now             func() time.Time
	tickSize        uint64
	tickReq         uint64
	tickCount       uint64
	lastTick        time.Time
	maxSharePercent int
	activationRPS   int
	threshold       uint32
}

func New(params SketchParams) *TopKSketch {
	if params.TickSize == 0 {
		params.TickSize = 1000
	}
	instance := sliding.New(params.K, params.WindowSize,
		sliding.WithWidth(params.Width), sliding.WithDepth(params.Depth))

	windowCapacity := uint64(params.WindowSize) * params.TickSize
	return &TopKSketch{
		sketch:          instance,
		now:             time.Now,
		tickSize:        params.TickSize,
		maxSharePercent: params.MaxSharePercent,
		activationRPS:   params.ActivationRPS,
		threshold:       uint32(windowCapacity * uint64(params.MaxSharePercent) / 100),
		lastTick:        time.Now(),
	}
}

// ProcessTick counts one submission from client. Every TickSize submissions it
// advances the window and, when the rate of the last tick reached
// ActivationRPS, returns the clients above their share.
func (cs *TopKSketch) ProcessTick(client string) []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.sketch.Incr(client)
	cs.tickReq++
	if cs.tickReq < cs.tickSize {
		return nil
	}

	now := cs.now()
	elapsed := now.Sub(cs.lastTick)
	cs.lastTick = now
	cs.sketch.Tick()
	cs.tickCount++
	cs.tickReq = 0

	if elapsed > 0 && float64(cs.tickSize)/elapsed.Seconds() < float64(cs.activationRPS) {
		return nil
	}

	var blocked []string
	for _, item := range cs.sketch.SortedSlice() {
		if item.Count <= cs.threshold {
			break
		}
		blocked = append(blocked, item.Item)
	}
	return blocked
}

// Ticks is the number of completed ticks.
func (cs *TopKSketch) Ticks() uint64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.tickCount
}
