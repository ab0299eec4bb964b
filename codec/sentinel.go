package codec

// Codec is implemented by the pointer receiver of every structured value.
type Codec interface {
	Encode(w *Writer)
	Decode(r *Reader)
}

type codecPtr[T any] interface {
	*T
	Codec
}

// Ptr is an optional pointer argument. A nil Value is the null state.
type Ptr[T any] struct {
	Value *T
	Addr  uint64 // capture-time address, informational
}

// PtrTo returns a present Ptr holding v.
func PtrTo[T any](v T) Ptr[T] {
	return Ptr[T]{Value: &v}
}

// IsNull reports whether the pointer is absent.
func (p Ptr[T]) IsNull() bool { return p.Value == nil }

// PutPtr encodes a structured value behind a sentinel.
func PutPtr[T any, P codecPtr[T]](w *Writer, p Ptr[T]) {
	if w.Sentinel(p.Value != nil, p.Addr) {
		P(p.Value).Encode(w)
	}
}

// GetPtr decodes a structured value behind a sentinel.
func GetPtr[T any, P codecPtr[T]](r *Reader) Ptr[T] {
	addr, ok := r.Sentinel()
	if !ok {
		return Ptr[T]{}
	}
	v := new(T)
	P(v).Decode(r)
	return Ptr[T]{Addr: addr, Value: v}
}

// PutPODPtr encodes a flat value behind a sentinel.
func PutPODPtr[T any](w *Writer, p Ptr[T]) {
	if w.Sentinel(p.Value != nil, p.Addr) {
		PutPOD(w, p.Value)
	}
}

// GetPODPtr decodes a flat value behind a sentinel.
func GetPODPtr[T any](r *Reader) Ptr[T] {
	addr, ok := r.Sentinel()
	if !ok {
		return Ptr[T]{}
	}
	v := new(T)
	GetPOD(r, v)
	return Ptr[T]{Addr: addr, Value: v}
}

// Array is an optional counted array argument. A nil Items slice is the
// null state; an empty non-nil slice is a present, zero-length array.
type Array[T any] struct {
	Items []T
	Addr  uint64
}

// ArrayOf returns a present Array holding items.
func ArrayOf[T any](items ...T) Array[T] {
	if items == nil {
		items = []T{}
	}
	return Array[T]{Items: items}
}

// IsNull reports whether the array is absent.
func (a Array[T]) IsNull() bool { return a.Items == nil }

// Len returns the element count.
func (a Array[T]) Len() int { return len(a.Items) }

// PutArray encodes structured elements one after another.
func PutArray[T any, P codecPtr[T]](w *Writer, a Array[T]) {
	if !w.Sentinel(a.Items != nil, a.Addr) {
		return
	}
	w.Count(len(a.Items))
	for i := range a.Items {
		P(&a.Items[i]).Encode(w)
	}
}

// GetArray decodes structured elements one after another.
func GetArray[T any, P codecPtr[T]](r *Reader) Array[T] {
	addr, ok := r.Sentinel()
	if !ok {
		return Array[T]{}
	}
	n := r.Count(1)
	items := make([]T, n)
	for i := range items {
		P(&items[i]).Decode(r)
	}
	return Array[T]{Addr: addr, Items: items}
}

// PutPODArray encodes flat elements as a single block.
func PutPODArray[T any](w *Writer, a Array[T]) {
	if !w.Sentinel(a.Items != nil, a.Addr) {
		return
	}
	w.Count(len(a.Items))
	PutPOD(w, a.Items)
}

// GetPODArray decodes flat elements as a single block.
func GetPODArray[T any](r *Reader) Array[T] {
	addr, ok := r.Sentinel()
	if !ok {
		return Array[T]{}
	}
	items := make([]T, r.Count(PODSize[T]()))
	GetPOD(r, items)
	return Array[T]{Addr: addr, Items: items}
}

// Cloner is implemented by values that can deep-copy themselves into an
// arena.
type Cloner[T any] interface {
	Clone(a *Arena) T
}

// Clone copies the pointed-to value shallowly. Use ClonePtrDeep for values
// with nested slices.
func (p Ptr[T]) Clone(a *Arena) Ptr[T] {
	return Ptr[T]{Value: ClonePtr(a, p.Value), Addr: p.Addr}
}

// ClonePtrDeep deep-copies the pointed-to value with its own Clone method.
func ClonePtrDeep[T Cloner[T]](a *Arena, p Ptr[T]) Ptr[T] {
	if p.Value == nil {
		return p
	}
	v := (*p.Value).Clone(a)
	return Ptr[T]{Value: ClonePtr(a, &v), Addr: p.Addr}
}

// CloneItemsDeep deep-copies every element of s.
func CloneItemsDeep[T Cloner[T]](a *Arena, s []T) []T {
	out := CloneSlice(a, s)
	for i := range out {
		out[i] = out[i].Clone(a)
	}
	return out
}
