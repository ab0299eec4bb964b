package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
)

// element is a descriptor that is laid out as a fixed header, optionally
// followed by a trailing part and a table of GPU addresses. Arrays of
// elements write every header first, then every trailing part, then one
// address table covering all elements.
type element interface {
	putHeader(w *codec.Writer)
	getHeader(r *codec.Reader)
}

type trailer interface {
	putTrailing(w *codec.Writer)
	getTrailing(r *codec.Reader)
}

type addressed interface {
	addresses() []*codec.GPUAddress
}

type elementPtr[T any] interface {
	*T
	element
}

func encodeElement(w *codec.Writer, e element) {
	e.putHeader(w)
	if t, ok := e.(trailer); ok {
		t.putTrailing(w)
	}
	if a, ok := e.(addressed); ok {
		putAddresses(w, a.addresses())
	}
}

func decodeElement(r *codec.Reader, e element) {
	e.getHeader(r)
	if t, ok := e.(trailer); ok {
		t.getTrailing(r)
	}
	if a, ok := e.(addressed); ok {
		codec.GetAddressTable(r, a.addresses()...)
	}
}

func putAddresses(w *codec.Writer, ptrs []*codec.GPUAddress) {
	vals := make([]codec.GPUAddress, len(ptrs))
	for i, p := range ptrs {
		vals[i] = *p
	}
	codec.PutAddressTable(w, vals...)
}

// DescArray is an optional counted array of descriptors. A nil Items slice
// is the null state.
type DescArray[T any, P elementPtr[T]] struct {
	Items []T
	Addr  uint64
}

func (a DescArray[T, P]) IsNull() bool { return a.Items == nil }

func (a *DescArray[T, P]) Encode(w *codec.Writer) {
	if !w.Sentinel(a.Items != nil, a.Addr) {
		return
	}
	w.Count(len(a.Items))
	for i := range a.Items {
		P(&a.Items[i]).putHeader(w)
	}
	if _, ok := any(P(nil)).(trailer); ok {
		for i := range a.Items {
			any(P(&a.Items[i])).(trailer).putTrailing(w)
		}
	}
	if _, ok := any(P(nil)).(addressed); ok {
		var all []*codec.GPUAddress
		for i := range a.Items {
			all = append(all, any(P(&a.Items[i])).(addressed).addresses()...)
		}
		putAddresses(w, all)
	}
}

func (a *DescArray[T, P]) Decode(r *codec.Reader) {
	addr, ok := r.Sentinel()
	if !ok {
		*a = DescArray[T, P]{}
		return
	}
	items := make([]T, r.Count(8))
	for i := range items {
		P(&items[i]).getHeader(r)
	}
	if _, ok := any(P(nil)).(trailer); ok {
		for i := range items {
			any(P(&items[i])).(trailer).getTrailing(r)
		}
	}
	if _, ok := any(P(nil)).(addressed); ok {
		var all []*codec.GPUAddress
		for i := range items {
			all = append(all, any(P(&items[i])).(addressed).addresses()...)
		}
		codec.GetAddressTable(r, all...)
	}
	*a = DescArray[T, P]{Items: items, Addr: addr}
}

// Clone deep-copies the array. Elements with nested storage copy it too.
func (a DescArray[T, P]) Clone(ar *codec.Arena) DescArray[T, P] {
	items := codec.CloneSlice(ar, a.Items)
	for i := range items {
		if c, ok := any(P(&items[i])).(interface{ cloneNested(*codec.Arena) }); ok {
			c.cloneNested(ar)
		}
	}
	return DescArray[T, P]{Items: items, Addr: a.Addr}
}

// blobHeader is the decoded header slot of a pointer/size pair.
type blobHeader struct {
	present bool
	size    int
}

func putBlobHeader(w *codec.Writer, b []byte) {
	w.Sentinel(b != nil, 0)
	w.U64(uint64(len(b)))
}

func getBlobHeader(r *codec.Reader) blobHeader {
	_, ok := r.Sentinel()
	n := r.U64()
	if n > codec.MaxBlobSize {
		r.Failf("blob size %d exceeds limit %d", n, codec.MaxBlobSize)
		return blobHeader{}
	}
	return blobHeader{present: ok, size: int(n)}
}

func getBlob(r *codec.Reader, h blobHeader) []byte {
	if !h.present {
		return nil
	}
	b := r.Bytes(h.size)
	if b == nil && r.Err() == nil {
		b = []byte{}
	}
	return b
}

// alignUp rounds n up to a multiple of a, which must be a power of two.
func alignUp(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}
