package d3d12capture

// Resolver maps live capture-time values to symbolic keys. It is consulted
// during encode only and must treat its own state as read-only while a
// command is being encoded. A zero key means the value is not tracked.
type Resolver interface {
	// ResolveAddress maps a GPU virtual address to the key of the resource
	// that contains it and the byte offset from that resource's base.
	ResolveAddress(va uint64) (key uint32, offset uint32, ok bool)

	// ResolveCPUDescriptor maps a CPU descriptor handle to its heap key and
	// slot index.
	ResolveCPUDescriptor(ptr uint64) (heap uint32, index uint32, ok bool)

	// ResolveGPUDescriptor maps a GPU descriptor handle to its heap key and
	// slot index.
	ResolveGPUDescriptor(ptr uint64) (heap uint32, index uint32, ok bool)
}

// Replayer maps symbolic keys back to live replay-time values. Decoded
// commands carry keys only; resolving them is the replay consumer's job.
type Replayer interface {
	Address(key uint32, offset uint32) (uint64, bool)
	CPUDescriptor(heap uint32, index uint32) (uint64, bool)
	GPUDescriptor(heap uint32, index uint32) (uint64, bool)
}
