package codec

import (
	"fmt"

	"github.com/wippyai/d3d12-capture/errors"
)

// Encoder is implemented by values that can write themselves to a Writer.
type Encoder interface {
	Encode(w *Writer)
}

// Decoder is implemented by values that can read themselves from a Reader.
type Decoder interface {
	Decode(r *Reader)
}

// Size returns the exact number of bytes Encode writes for v.
func Size(v Encoder) int {
	w := newSizer()
	v.Encode(w)
	return w.off
}

// Marshal encodes v into a new buffer of exactly Size(v) bytes.
func Marshal(v Encoder) ([]byte, error) {
	return MarshalWith(v, nil)
}

// MarshalWith encodes v, resolving missing keys through res.
func MarshalWith(v Encoder, res Resolver) ([]byte, error) {
	n := Size(v)
	buf := make([]byte, n)
	w := NewWriter(buf).WithResolver(res)
	v.Encode(w)
	if w.err != nil {
		return nil, w.err
	}
	if w.off != n {
		return nil, errors.SizeMismatch(fmt.Sprintf("%T", v), n, w.off)
	}
	return buf, nil
}

// Unmarshal decodes v from buf, which must be consumed exactly. The decoded
// value may alias buf.
func Unmarshal(buf []byte, v Decoder) error {
	r := NewReader(buf)
	v.Decode(r)
	if r.err != nil {
		return r.err
	}
	if r.Remaining() != 0 {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Type(fmt.Sprintf("%T", v)).
			Offset(r.Offset()).
			Detail("%d trailing bytes", r.Remaining()).
			Build()
	}
	return nil
}
