package codec

import (
	"math"

	d3d12capture "github.com/wippyai/d3d12-capture"
	"github.com/wippyai/d3d12-capture/errors"
)

type Resolver = d3d12capture.Resolver

// Writer is an encode cursor over a fixed-size buffer. A Writer created by
// newSizer writes nothing and only counts bytes.
type Writer struct {
	err      error
	resolver Resolver
	buf      []byte
	off      int
	measure  bool
}

// NewWriter returns a Writer that encodes into buf starting at offset 0.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

func newSizer() *Writer {
	return &Writer{measure: true}
}

// WithResolver sets the registry consulted for unresolved addresses and
// descriptor handles.
func (w *Writer) WithResolver(r Resolver) *Writer {
	w.resolver = r
	return w
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.off }

// Err returns the first error recorded by the writer.
func (w *Writer) Err() error { return w.err }

// Fail records err unless an error is already recorded.
func (w *Writer) Fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *Writer) reserve(n int) []byte {
	if w.err != nil {
		return nil
	}
	if w.measure {
		w.off += n
		return nil
	}
	if n < 0 || n > len(w.buf)-w.off {
		w.err = errors.OutOfBounds(errors.PhaseEncode, w.off, n, len(w.buf))
		return nil
	}
	p := w.buf[w.off : w.off+n]
	w.off += n
	return p
}

func (w *Writer) U8(v uint8) {
	if p := w.reserve(1); p != nil {
		p[0] = v
	}
}

func (w *Writer) U16(v uint16) {
	if p := w.reserve(2); p != nil {
		le.PutUint16(p, v)
	}
}

func (w *Writer) U32(v uint32) {
	if p := w.reserve(4); p != nil {
		le.PutUint32(p, v)
	}
}

func (w *Writer) U64(v uint64) {
	if p := w.reserve(8); p != nil {
		le.PutUint64(p, v)
	}
}

func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }

// Bytes writes p verbatim.
func (w *Writer) Bytes(p []byte) {
	copy(w.reserve(len(p)), p)
}

// Zero writes n zero bytes of structure padding.
func (w *Writer) Zero(n int) {
	clear(w.reserve(n))
}

// Count writes a u32 element count or byte length.
func (w *Writer) Count(n int) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		w.Fail(errors.Overflow(errors.PhaseEncode, nil, n, uint32(math.MaxUint32)))
		return
	}
	w.U32(uint32(n))
}

// Sentinel writes a pointer-width presence flag and reports whether the
// value is present. Present values write addr, or a non-null placeholder
// when no capture-time address was recorded.
func (w *Writer) Sentinel(present bool, addr uint64) bool {
	if !present {
		w.U64(0)
		return false
	}
	if addr == 0 {
		addr = placeholderAddr
	}
	w.U64(addr)
	return true
}
