package codec

// Key is a symbolic identifier standing in for a live interface, resource
// or descriptor heap. Zero is the null key.
type Key uint32

func (k *Key) Encode(w *Writer) { w.U32(uint32(*k)) }
func (k *Key) Decode(r *Reader) { *k = Key(r.U32()) }

// ObjectOut is an output interface pointer (an IID-qualified "pp" argument).
// The key names the object the call created.
type ObjectOut struct {
	Addr uint64
	Key  Key
}

func (o ObjectOut) IsNull() bool { return o.Addr == 0 && o.Key == 0 }

func (o *ObjectOut) Encode(w *Writer) {
	if w.Sentinel(!o.IsNull(), o.Addr) {
		w.U32(uint32(o.Key))
	}
}

func (o *ObjectOut) Decode(r *Reader) {
	addr, ok := r.Sentinel()
	*o = ObjectOut{Addr: addr}
	if ok {
		o.Key = Key(r.U32())
	}
}

// Keys is an optional array of interface references.
type Keys struct {
	Items []Key
	Addr  uint64
}

// KeysOf returns a present key array.
func KeysOf(keys ...Key) Keys {
	if keys == nil {
		keys = []Key{}
	}
	return Keys{Items: keys}
}

func (k Keys) IsNull() bool { return k.Items == nil }

func (k *Keys) Encode(w *Writer) {
	if !w.Sentinel(k.Items != nil, k.Addr) {
		return
	}
	w.Count(len(k.Items))
	PutPOD(w, k.Items)
}

func (k *Keys) Decode(r *Reader) {
	addr, ok := r.Sentinel()
	if !ok {
		*k = Keys{}
		return
	}
	items := make([]Key, r.Count(4))
	GetPOD(r, items)
	*k = Keys{Items: items, Addr: addr}
}

// GPUAddress replaces a raw GPU virtual address with the key of the
// resource that contains it and the byte offset into that resource. Value
// keeps the capture-time address for diagnostics.
type GPUAddress struct {
	Value  uint64
	Key    Key
	Offset uint32
}

// IsNull reports whether the address is zero.
func (a GPUAddress) IsNull() bool { return a.Value == 0 && a.Key == 0 }

func (a *GPUAddress) Encode(w *Writer) {
	v := w.ResolveAddress(*a)
	w.U64(v.Value)
	w.U32(uint32(v.Key))
	w.U32(v.Offset)
}

func (a *GPUAddress) Decode(r *Reader) {
	a.Value = r.U64()
	a.Key = Key(r.U32())
	a.Offset = r.U32()
}

// ResolveAddress fills in the key and offset of a when they are missing and
// a resolver is attached.
func (w *Writer) ResolveAddress(a GPUAddress) GPUAddress {
	if a.Key != 0 || a.Value == 0 || w.resolver == nil {
		return a
	}
	if key, off, ok := w.resolver.ResolveAddress(a.Value); ok {
		a.Key, a.Offset = Key(key), off
	}
	return a
}

// PutAddressTable writes the key/offset pairs of addrs as a count followed
// by the parallel key array and the parallel offset array.
func PutAddressTable(w *Writer, addrs ...GPUAddress) {
	w.Count(len(addrs))
	resolved := make([]GPUAddress, len(addrs))
	for i, a := range addrs {
		resolved[i] = w.ResolveAddress(a)
	}
	for _, a := range resolved {
		w.U32(uint32(a.Key))
	}
	for _, a := range resolved {
		w.U32(a.Offset)
	}
}

// GetAddressTable reads a table written by PutAddressTable into addrs,
// whose Value fields were already decoded from the owning header. The
// recorded count must match len(addrs).
func GetAddressTable(r *Reader, addrs ...*GPUAddress) {
	n := r.Count(8)
	if r.Err() != nil {
		return
	}
	if n != len(addrs) {
		r.Failf("address table has %d entries, header implies %d", n, len(addrs))
		return
	}
	for _, a := range addrs {
		a.Key = Key(r.U32())
	}
	for _, a := range addrs {
		a.Offset = r.U32()
	}
}

// CPUHandle replaces a raw CPU descriptor handle with its heap key and slot
// index; the raw value is only meaningful against the capture-time heap.
type CPUHandle struct {
	Ptr   uint64
	Heap  Key
	Index uint32
}

func (h *CPUHandle) Encode(w *Writer) {
	v := w.ResolveCPUHandle(*h)
	w.U64(v.Ptr)
	w.U32(uint32(v.Heap))
	w.U32(v.Index)
}

func (h *CPUHandle) Decode(r *Reader) {
	h.Ptr = r.U64()
	h.Heap = Key(r.U32())
	h.Index = r.U32()
}

// ResolveCPUHandle fills in the heap and index of h when they are missing.
func (w *Writer) ResolveCPUHandle(h CPUHandle) CPUHandle {
	if h.Heap != 0 || h.Ptr == 0 || w.resolver == nil {
		return h
	}
	if heap, idx, ok := w.resolver.ResolveCPUDescriptor(h.Ptr); ok {
		h.Heap, h.Index = Key(heap), idx
	}
	return h
}

// GPUHandle replaces a raw GPU descriptor handle with its heap key and slot
// index.
type GPUHandle struct {
	Ptr   uint64
	Heap  Key
	Index uint32
}

func (h *GPUHandle) Encode(w *Writer) {
	v := w.ResolveGPUHandle(*h)
	w.U64(v.Ptr)
	w.U32(uint32(v.Heap))
	w.U32(v.Index)
}

func (h *GPUHandle) Decode(r *Reader) {
	h.Ptr = r.U64()
	h.Heap = Key(r.U32())
	h.Index = r.U32()
}

// ResolveGPUHandle fills in the heap and index of h when they are missing.
func (w *Writer) ResolveGPUHandle(h GPUHandle) GPUHandle {
	if h.Heap != 0 || h.Ptr == 0 || w.resolver == nil {
		return h
	}
	if heap, idx, ok := w.resolver.ResolveGPUDescriptor(h.Ptr); ok {
		h.Heap, h.Index = Key(heap), idx
	}
	return h
}

// PutHandlePair writes the trailing heap/index pair of an embedded CPU
// descriptor handle whose raw value sits in the owning header.
func PutHandlePair(w *Writer, h CPUHandle) {
	v := w.ResolveCPUHandle(h)
	w.U32(uint32(v.Heap))
	w.U32(v.Index)
}

// GetHandlePair reads the pair written by PutHandlePair into h.
func GetHandlePair(r *Reader, h *CPUHandle) {
	h.Heap = Key(r.U32())
	h.Index = r.U32()
}

// CPUHandles is an optional array of CPU descriptor handles, encoded as the
// raw handle values followed by the parallel heap key and index arrays.
type CPUHandles struct {
	Items []CPUHandle
	Addr  uint64
}

// CPUHandlesOf returns a present handle array.
func CPUHandlesOf(handles ...CPUHandle) CPUHandles {
	if handles == nil {
		handles = []CPUHandle{}
	}
	return CPUHandles{Items: handles}
}

func (h CPUHandles) IsNull() bool { return h.Items == nil }

func (h *CPUHandles) Encode(w *Writer) {
	if !w.Sentinel(h.Items != nil, h.Addr) {
		return
	}
	w.Count(len(h.Items))
	resolved := make([]CPUHandle, len(h.Items))
	for i, v := range h.Items {
		resolved[i] = w.ResolveCPUHandle(v)
		w.U64(v.Ptr)
	}
	for _, v := range resolved {
		w.U32(uint32(v.Heap))
	}
	for _, v := range resolved {
		w.U32(v.Index)
	}
}

func (h *CPUHandles) Decode(r *Reader) {
	addr, ok := r.Sentinel()
	if !ok {
		*h = CPUHandles{}
		return
	}
	items := make([]CPUHandle, r.Count(16))
	for i := range items {
		items[i].Ptr = r.U64()
	}
	for i := range items {
		items[i].Heap = Key(r.U32())
	}
	for i := range items {
		items[i].Index = r.U32()
	}
	*h = CPUHandles{Items: items, Addr: addr}
}

// Clone copies the handle storage.
func (h CPUHandles) Clone(a *Arena) CPUHandles {
	return CPUHandles{Items: CloneSlice(a, h.Items), Addr: h.Addr}
}
