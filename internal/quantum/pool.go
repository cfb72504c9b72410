package quantum

import "sync"

// bufferPool recycles amplitude scratch buffers across simulations so each
// RX application doesn't allocate a fresh 2^n slice. Buffers of the wrong
// size are never handed out; concurrent trials share one pool safely.
type bufferPool struct {
	mu   sync.Mutex
	free [][]complex128
}

// get returns a buffer of exactly n amplitudes, reusing a pooled one when a
// size match is available.
func (p *bufferPool) get(n int) []complex128 {
	p.mu.Lock()
	for i := len(p.free) - 1; i >= 0; i-- {
		if len(p.free[i]) == n {
			buf := p.free[i]
			p.free = append(p.free[:i], p.free[i+1:]...)
			p.mu.Unlock()
			return buf
		}
	}
	p.mu.Unlock()
	return make([]complex128, n)
}

// put returns a buffer to the pool. The pool is bounded to keep a burst of
// concurrent trials from pinning memory.
func (p *bufferPool) put(buf []complex128) {
	const maxPooled = 64
	p.mu.Lock()
	if len(p.free) < maxPooled {
		p.free = append(p.free, buf)
	}
	p.mu.Unlock()
}
