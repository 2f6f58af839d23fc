package kuzu

import (
	"sync"
	"sync/atomic"
)

// BufferPool hands out byte buffers for decoded BLOB payloads. Buffers are
// kept in fixed capacity tiers so a returned buffer is reused by the next
// payload of a similar size.
type BufferPool struct {
	small  sync.Pool // <= 256 bytes
	medium sync.Pool // <= 4KB
	large  sync.Pool // <= 64KB
	huge   sync.Pool // > 64KB, up to 1MB capacity

	gets   atomic.Uint64
	hits   atomic.Uint64
	puts   atomic.Uint64
	misses atomic.Uint64
}

const (
	smallBlobCap  = 256
	mediumBlobCap = 4 * 1024
	largeBlobCap  = 64 * 1024
	maxPooledCap  = 1024 * 1024
)

var globalBufferPool = &BufferPool{}

// Get returns a buffer of length n. The contents are unspecified.
func (p *BufferPool) Get(n int) []byte {
	p.gets.Add(1)
	var (
		pool     *sync.Pool
		capacity int
	)
	switch {
	case n <= smallBlobCap:
		pool, capacity = &p.small, smallBlobCap
	case n <= mediumBlobCap:
		pool, capacity = &p.medium, mediumBlobCap
	case n <= largeBlobCap:
		pool, capacity = &p.large, largeBlobCap
	default:
		pool = &p.huge
		capacity = 128 * 1024
		for capacity < n {
			capacity *= 2
		}
	}
	if buf, ok := pool.Get().([]byte); ok {
		if cap(buf) >= n {
			p.hits.Add(1)
			return buf[:n]
		}
	}
	p.misses.Add(1)
	return make([]byte, n, capacity)
}

// Put returns buf to its tier. Buffers with a capacity no tier accepts are
// left to the garbage collector.
func (p *BufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	switch c := cap(buf); {
	case c == smallBlobCap:
		p.small.Put(buf[:0])
	case c == mediumBlobCap:
		p.medium.Put(buf[:0])
	case c == largeBlobCap:
		p.large.Put(buf[:0])
	case c > largeBlobCap && c <= maxPooledCap:
		p.huge.Put(buf[:0])
	default:
		return
	}
	p.puts.Add(1)
}

// Stats returns pool counters.
func (p *BufferPool) Stats() map[string]uint64 {
	return map[string]uint64{
		"gets":   p.gets.Load(),
		"hits":   p.hits.Load(),
		"misses": p.misses.Load(),
		"puts":   p.puts.Load(),
	}
}

// BufferPoolStats returns the counters of the pool used for BLOB decoding.
func BufferPoolStats() map[string]uint64 {
	return globalBufferPool.Stats()
}
