// Package sample provides fixed-capacity sample buffers and a pool to
// recycle them across pipeline iterations.
package sample

import (
	"sync"
	"sync/atomic"
)

// BlockSize is the number of samples in a single pipeline block. It is
// shared by the buffer pool, the resampler output window and the
// endpoints.
const BlockSize = 1024

// Format is the sample encoding tag of a buffer.
type Format int

const (
	// Int16 is a single-channel fixed-point scalar stream.
	Int16 Format = iota
	// ComplexInt16 is an interleaved fixed-point I/Q pair stream.
	ComplexInt16
)

// Buffer is a reference-counted block of fixed-point samples. A buffer is
// acquired from a Pool with a single reference held by the caller. Once
// the last reference is released the buffer returns to its pool and must
// not be touched again.
type Buffer struct {
	data    []int16
	samples int
	format  Format
	refs    int32
	release func(*Buffer)
}

// Capacity returns the number of samples the buffer can hold.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Format returns the buffer's sample encoding tag.
func (b *Buffer) Format() Format {
	return b.format
}

// Data returns the full data region of the buffer.
func (b *Buffer) Data() []int16 {
	return b.data
}

// Samples returns the valid region of the buffer.
func (b *Buffer) Samples() []int16 {
	return b.data[:b.samples]
}

// SetSamples marks the first n samples of the data region as valid.
// It panics if n exceeds the buffer capacity.
func (b *Buffer) SetSamples(n int) {
	if n < 0 || n > len(b.data) {
		panic("sample: valid samples exceed buffer capacity")
	}
	b.samples = n
}

// Retain adds a reference to the buffer.
func (b *Buffer) Retain() {
	atomic.AddInt32(&b.refs, 1)
}

// Release drops a reference to the buffer. The last release returns the
// buffer to its pool. Releasing an already released buffer panics.
func (b *Buffer) Release() {
	refs := atomic.AddInt32(&b.refs, -1)
	if refs < 0 {
		panic("sample: buffer released twice")
	}
	if refs == 0 {
		b.release(b)
	}
}

// Pool hands out buffers of a fixed capacity and recycles released ones.
type Pool struct {
	size int

	m        sync.Mutex
	free     []*Buffer
	released int
}

// NewPool returns a pool of buffers with capacity of size samples.
func NewPool(size int) *Pool {
	return &Pool{size: size}
}

// Acquire returns a zero-valid-samples buffer with a single reference
// held by the caller. Released buffers are reused before new ones are
// allocated.
func (p *Pool) Acquire() *Buffer {
	p.m.Lock()
	defer p.m.Unlock()
	if n := len(p.free); n > 0 {
		b := p.free[n-1]
		p.free = p.free[:n-1]
		b.samples = 0
		b.refs = 1
		return b
	}
	return &Buffer{
		data:    make([]int16, p.size),
		format:  Int16,
		refs:    1,
		release: p.recycle,
	}
}

// Released returns the number of buffers returned to the pool so far.
func (p *Pool) Released() int {
	p.m.Lock()
	defer p.m.Unlock()
	return p.released
}

func (p *Pool) recycle(b *Buffer) {
	p.m.Lock()
	defer p.m.Unlock()
	p.free = append(p.free, b)
	p.released++
}
