package codec

import "sync"

const (
	arenaChunkSize  = 64 << 10
	arenaLargeBlob  = arenaChunkSize / 4 // larger blobs get a dedicated chunk
	maxPooledChunks = 16
)

// Arena owns the storage of a detached value. Byte payloads (bytecode,
// blobs, strings) are carved from pooled chunks; typed slices and pointed-to
// structs copied with CloneSlice and ClonePtr live on the GC heap and are
// only counted. Release drops the chunks at once, so a detached value can
// never be half freed.
//
// A nil *Arena is valid: copies are made on the heap without accounting.
type Arena struct {
	chunks [][]byte
	cur    []byte
	allocs int
	bytes  int
}

var arenaPool = sync.Pool{
	New: func() any {
		return &Arena{chunks: make([][]byte, 0, 4)}
	},
}

// NewArena returns an empty arena from the pool.
func NewArena() *Arena {
	return arenaPool.Get().(*Arena)
}

// Bytes copies src into owned storage. A nil src stays nil and an empty
// src stays empty, preserving the null/zero-length distinction.
func (a *Arena) Bytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	n := len(src)
	if n == 0 {
		return []byte{}
	}
	if a == nil {
		out := make([]byte, n)
		copy(out, src)
		return out
	}
	a.allocs++
	a.bytes += n
	if n > arenaLargeBlob {
		out := make([]byte, n)
		copy(out, src)
		a.chunks = append(a.chunks, out)
		return out
	}
	if len(a.cur) < n {
		chunk := make([]byte, arenaChunkSize)
		a.chunks = append(a.chunks, chunk)
		a.cur = chunk
	}
	out := a.cur[:n:n]
	a.cur = a.cur[n:]
	copy(out, src)
	return out
}

// Allocs returns the number of allocations made since the arena was taken
// from the pool.
func (a *Arena) Allocs() int {
	if a == nil {
		return 0
	}
	return a.allocs
}

// Size returns the number of payload bytes copied into the arena's chunks.
func (a *Arena) Size() int {
	if a == nil {
		return 0
	}
	return a.bytes
}

// Release drops every allocation and returns the arena to the pool. Values
// cloned into the arena must not be used afterwards.
func (a *Arena) Release() {
	if a == nil {
		return
	}
	clear(a.chunks)
	a.chunks = a.chunks[:0]
	a.cur = nil
	a.allocs = 0
	a.bytes = 0
	if cap(a.chunks) > maxPooledChunks {
		return
	}
	arenaPool.Put(a)
}

// CloneSlice copies a slice of values into a new heap slice and counts it
// against a. Elements are copied shallowly; callers deep-copy nested parts.
func CloneSlice[T any](a *Arena, s []T) []T {
	if s == nil {
		return nil
	}
	if a != nil {
		a.allocs++
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// ClonePtr copies a pointed-to value onto the heap, or returns nil.
func ClonePtr[T any](a *Arena, p *T) *T {
	if p == nil {
		return nil
	}
	if a != nil {
		a.allocs++
	}
	v := *p
	return &v
}

// Clone copies the array storage. Elements are copied shallowly.
func (arr Array[T]) Clone(a *Arena) Array[T] {
	return Array[T]{Items: CloneSlice(a, arr.Items), Addr: arr.Addr}
}

// Clone copies the key storage.
func (k Keys) Clone(a *Arena) Keys {
	return Keys{Items: CloneSlice(a, k.Items), Addr: k.Addr}
}
