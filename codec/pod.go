package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/wippyai/d3d12-capture/errors"
)

// PutPOD copies a fixed-size value, or a slice of fixed-size values,
// verbatim. v must be a pointer or slice; struct padding is expressed with
// blank fields, which are written as zeros.
func PutPOD(w *Writer, v any) {
	n := binary.Size(v)
	if n < 0 {
		w.Fail(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("%T is not fixed-size", v)))
		return
	}
	p := w.reserve(n)
	if p == nil {
		return
	}
	if _, err := binary.Encode(p, le, v); err != nil {
		w.Fail(errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, fmt.Sprintf("encode %T", v)))
	}
}

// GetPOD is the inverse of PutPOD. v must be a pointer, or a slice whose
// length is already the element count.
func GetPOD(r *Reader, v any) {
	n := binary.Size(v)
	if n < 0 {
		r.Fail(errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("%T is not fixed-size", v)))
		return
	}
	p := r.take(n)
	if p == nil {
		return
	}
	if _, err := binary.Decode(p, le, v); err != nil {
		r.Fail(errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, fmt.Sprintf("decode %T", v)))
	}
}

// PODSize returns the encoded size of a fixed-size type.
func PODSize[T any]() int {
	var v T
	return binary.Size(&v)
}
