package sim

import "sync"

// SnapshotPool recycles flattened scene buffers for callers that keep a
// rolling history of frames.
type SnapshotPool struct {
	pool sync.Pool
	size int
}

func NewSnapshotPool(size int) *SnapshotPool {
	p := &SnapshotPool{size: size}
	p.pool.New = func() any {
		return make(State, 0, size)
	}
	return p
}

// Capture flattens sc into a pooled buffer.
func (p *SnapshotPool) Capture(sc *Scene) State {
	buf := p.pool.Get().(State)
	return sc.Flatten(buf)
}

// Release returns a buffer taken from Capture. Buffers of the wrong capacity
// are dropped.
func (p *SnapshotPool) Release(s State) {
	if cap(s) != p.size {
		return
	}
	p.pool.Put(s[:0])
}
