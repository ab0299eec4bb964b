package codec

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/d3d12-capture/errors"
)

var le = binary.LittleEndian

// Reader is a decode cursor. Byte slices returned by Bytes are views into
// the underlying buffer and are capacity-limited so appends never clobber
// adjacent data.
type Reader struct {
	err  error
	buf  []byte
	off  int
	base int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the absolute position of the cursor.
func (r *Reader) Offset() int { return r.base + r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Err returns the first error recorded by the reader.
func (r *Reader) Err() error { return r.err }

// Fail records err unless an error is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Failf records an invalid data error at the current offset.
func (r *Reader) Failf(format string, args ...any) {
	r.Fail(errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Offset(r.Offset()).
		Detail(format, args...).
		Build())
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.buf)-r.off {
		r.err = errors.OutOfBounds(errors.PhaseDecode, r.Offset(), n, r.base+len(r.buf))
		return nil
	}
	p := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return p
}

func (r *Reader) U8() uint8 {
	if p := r.take(1); p != nil {
		return p[0]
	}
	return 0
}

func (r *Reader) U16() uint16 {
	if p := r.take(2); p != nil {
		return le.Uint16(p)
	}
	return 0
}

func (r *Reader) U32() uint32 {
	if p := r.take(4); p != nil {
		return le.Uint32(p)
	}
	return 0
}

func (r *Reader) U64() uint64 {
	if p := r.take(8); p != nil {
		return le.Uint64(p)
	}
	return 0
}

func (r *Reader) I32() int32 { return int32(r.U32()) }

func (r *Reader) F32() float32 { return math.Float32frombits(r.U32()) }

// Bytes returns a view of the next n bytes.
func (r *Reader) Bytes(n int) []byte {
	return r.take(n)
}

// Skip advances past n bytes of padding or ignored payload.
func (r *Reader) Skip(n int) {
	r.take(n)
}

// Count reads a u32 element count and checks that count elements of
// elemSize bytes can still be present in the buffer.
func (r *Reader) Count(elemSize int) int {
	return r.CheckCount(r.U32(), elemSize)
}

// CheckCount validates a count that was read as part of a fixed header.
func (r *Reader) CheckCount(n uint32, elemSize int) int {
	if r.err != nil {
		return 0
	}
	if n > MaxArrayLength {
		r.Fail(errors.New(errors.PhaseDecode, errors.KindOverflow).
			Offset(r.Offset()).
			Value(n).
			Detail("count %d exceeds limit %d", n, MaxArrayLength).
			Build())
		return 0
	}
	if elemSize > 0 && int(n)*elemSize > r.Remaining() {
		r.Fail(errors.OutOfBounds(errors.PhaseDecode, r.Offset(), int(n)*elemSize, r.base+len(r.buf)))
		return 0
	}
	return int(n)
}

// Length reads a u32 byte length of a blob or string that follows.
func (r *Reader) Length() int {
	n := r.U32()
	if r.err != nil {
		return 0
	}
	if n > MaxBlobSize {
		r.Fail(errors.New(errors.PhaseDecode, errors.KindOverflow).
			Offset(r.Offset()).
			Value(n).
			Detail("length %d exceeds limit %d", n, MaxBlobSize).
			Build())
		return 0
	}
	return int(n)
}

// Sentinel reads a pointer-width presence flag. It returns the recorded
// capture-time address and whether the value is present.
func (r *Reader) Sentinel() (uint64, bool) {
	v := r.U64()
	return v, v != 0 && r.err == nil
}

// Sub returns a reader over the next n bytes and advances r past them.
// Errors of the sub reader must be handed back with Fail.
func (r *Reader) Sub(n int) *Reader {
	start := r.Offset()
	p := r.take(n)
	if p == nil && r.err != nil {
		return &Reader{err: r.err}
	}
	return &Reader{buf: p, base: start}
}
