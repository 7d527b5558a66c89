package pool

import "sync"

// DefaultTokenCapacity covers the usual width of a CRA record line.
const DefaultTokenCapacity = 32

// TokenBufferPool implements a pool of string slices used as scratch space
// while tokenizing lines
type TokenBufferPool struct {
	pool sync.Pool
	size int
}

// NewTokenBufferPool creates a new pool of token slices with the given capacity
func NewTokenBufferPool(size int) *TokenBufferPool {
	if size <= 0 {
		size = DefaultTokenCapacity
	}
	return &TokenBufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				buffer := make([]string, 0, size)
				return &buffer
			},
		},
		size: size,
	}
}

// Get retrieves a token buffer from the pool or creates a new one if none are available
func (tp *TokenBufferPool) Get() *[]string {
	return tp.pool.Get().(*[]string)
}

// Put returns a token buffer to the pool for reuse
func (tp *TokenBufferPool) Put(buffer *[]string) {
	// Drop references to the tokens so the pooled slice does not pin line memory
	clear(*buffer)
	*buffer = (*buffer)[:0]
	tp.pool.Put(buffer)
}

// DefaultChunkSize is the read size used when streaming input.
const DefaultChunkSize = 64 * 1024 // 64KB

// ChunkBuffer represents a reusable read buffer
type ChunkBuffer struct {
	Bytes []byte
}

// ChunkBufferPool implements a pool of fixed-size read buffers
type ChunkBufferPool struct {
	pool      sync.Pool
	chunkSize int
}

// NewChunkBufferPool creates a new chunk buffer pool
func NewChunkBufferPool(chunkSize int) *ChunkBufferPool {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ChunkBufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &ChunkBuffer{Bytes: make([]byte, chunkSize)}
			},
		},
		chunkSize: chunkSize,
	}
}

// Get retrieves a chunk buffer from the pool
func (cp *ChunkBufferPool) Get() *ChunkBuffer {
	return cp.pool.Get().(*ChunkBuffer)
}

// Put returns a chunk buffer to the pool
func (cp *ChunkBufferPool) Put(cb *ChunkBuffer) {
	// Buffers resized by a caller are dropped
	if len(cb.Bytes) != cp.chunkSize {
		return
	}
	cp.pool.Put(cb)
}
