package model

import (
	"sync"

	"github.com/sheikhrachel/go-gol3d/rules"
)

// Frame is an owned copy of a snapshot. Unlike a View it stays valid
// across later ticks.
type Frame struct {
	Tick  uint64            `json:"tick"`
	Dims  Dims              `json:"dims"`
	Cells []rules.CellState `json:"cells"`
}

// View returns a read-only view over the frame's cells with the given
// boundary policy.
func (f *Frame) View(boundary Boundary) View {
	return View{dims: f.Dims, boundary: boundary, cells: f.Cells}
}

// FrameToPool returns a frame to the pool for reuse
func FrameToPool(frame *Frame, pool *FramePool) {
	if pool == nil || frame == nil {
		return
	}

	pool.Put(frame)
}

// FramePool recycles frame buffers between snapshot copies
type FramePool struct {
	pool sync.Pool
}

func NewFramePool() *FramePool {
	return &FramePool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Frame{}
			},
		},
	}
}

// Get retrieves a frame from the pool sized for dims
func (p *FramePool) Get(dims Dims) *Frame {
	f := p.pool.Get().(*Frame)
	n := dims.Cells()
	if cap(f.Cells) < n {
		f.Cells = make([]rules.CellState, n)
	}
	f.Cells = f.Cells[:n]
	f.Dims = dims
	f.Tick = 0
	return f
}

// Put returns a frame to the pool, clearing its state
func (p *FramePool) Put(f *Frame) {
	clear(f.Cells)
	f.Tick = 0
	p.pool.Put(f)
}
