package codec

// Buffer is an optional raw byte range whose size is recorded explicitly,
// such as shader bytecode, opaque user data or a mapped-memory snapshot.
// A nil Data slice is the null state.
type Buffer struct {
	Data []byte
	Addr uint64
}

// BufferOf returns a present Buffer over data.
func BufferOf(data []byte) Buffer {
	return Buffer{Data: nonNil(data)}
}

func (b Buffer) IsNull() bool { return b.Data == nil }

func (b *Buffer) Encode(w *Writer) {
	if !w.Sentinel(b.Data != nil, b.Addr) {
		return
	}
	w.Count(len(b.Data))
	w.Bytes(b.Data)
}

func (b *Buffer) Decode(r *Reader) {
	addr, ok := r.Sentinel()
	if !ok {
		*b = Buffer{}
		return
	}
	b.Addr = addr
	b.Data = nonNil(r.Bytes(r.Length()))
}

// Clone returns a copy whose bytes live in a.
func (b Buffer) Clone(a *Arena) Buffer {
	return Buffer{Data: a.Bytes(b.Data), Addr: b.Addr}
}

// Output is a location the API writes to during the call. Only the
// capture-time address is recorded; decoding provides fresh local storage in
// Value for the replayed call to write into.
type Output[T any] struct {
	Value T
	Addr  uint64
}

// Wanted reports whether the caller supplied a destination, i.e. whether
// the replayed call should be given somewhere to write.
func (o Output[T]) Wanted() bool { return o.Addr != 0 }

func (o *Output[T]) Encode(w *Writer) {
	w.Sentinel(o.Addr != 0, o.Addr)
}

func (o *Output[T]) Decode(r *Reader) {
	addr, _ := r.Sentinel()
	var zero T
	o.Addr = addr
	o.Value = zero
}
