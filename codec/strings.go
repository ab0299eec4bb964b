package codec

import (
	"bytes"
	stdunicode "unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// AString is an optional narrow string argument. The raw bytes include the
// NUL terminator; a nil raw slice is the null state.
type AString struct {
	raw  []byte
	Addr uint64
}

// NewAString returns a present narrow string.
func NewAString(s string) AString {
	raw := make([]byte, len(s)+1)
	copy(raw, s)
	return AString{raw: raw}
}

func (s AString) IsNull() bool { return s.raw == nil }

// Raw returns the encoded bytes including the terminator.
func (s AString) Raw() []byte { return s.raw }

// String returns the text up to the first NUL.
func (s AString) String() string {
	if i := bytes.IndexByte(s.raw, 0); i >= 0 {
		return string(s.raw[:i])
	}
	return string(s.raw)
}

func (s *AString) Encode(w *Writer) {
	if w.Sentinel(s.raw != nil, s.Addr) {
		s.EncodeTail(w)
	}
}

func (s *AString) Decode(r *Reader) {
	addr, ok := r.Sentinel()
	s.DecodeTail(r, ok)
	s.Addr = addr
}

// EncodeTail writes the [u32 length][bytes] payload of a string embedded
// in a struct whose pointer slot was written earlier. A null string writes
// nothing.
func (s *AString) EncodeTail(w *Writer) {
	if s.raw != nil {
		w.Count(len(s.raw))
		w.Bytes(s.raw)
	}
}

// DecodeTail reads the payload written by EncodeTail. present is the
// state of the string's pointer slot.
func (s *AString) DecodeTail(r *Reader, present bool) {
	*s = AString{}
	if present {
		s.raw = nonNil(r.Bytes(r.Length()))
	}
}

// Clone returns a copy whose bytes live in a.
func (s AString) Clone(a *Arena) AString {
	return AString{raw: a.Bytes(s.raw), Addr: s.Addr}
}

// WString is an optional wide (UTF-16LE) string argument. The raw bytes
// include the two-byte terminator; a nil raw slice is the null state.
type WString struct {
	raw  []byte
	Addr uint64
}

// NewWString returns a present wide string.
func NewWString(s string) WString {
	return WString{raw: EncodeWide(s)}
}

func (s WString) IsNull() bool { return s.raw == nil }

// Raw returns the encoded bytes including the terminator.
func (s WString) Raw() []byte { return s.raw }

// ByteLen returns the encoded length in bytes, terminator included.
func (s WString) ByteLen() int { return len(s.raw) }

// Units returns the UTF-16 code units, terminator included.
func (s WString) Units() []uint16 {
	units := make([]uint16, len(s.raw)/2)
	for i := range units {
		units[i] = le.Uint16(s.raw[2*i:])
	}
	return units
}

// String returns the text up to the first NUL code unit. Unpaired
// surrogates come back as U+FFFD; Raw and Units keep the exact code units.
func (s WString) String() string {
	return DecodeWide(s.raw)
}

func (s *WString) Encode(w *Writer) {
	if w.Sentinel(s.raw != nil, s.Addr) {
		s.EncodeTail(w)
	}
}

func (s *WString) Decode(r *Reader) {
	addr, ok := r.Sentinel()
	s.DecodeTail(r, ok)
	s.Addr = addr
}

// EncodeTail writes the [u32 byte length][UTF-16LE] payload of an embedded
// wide string. A null string writes nothing.
func (s *WString) EncodeTail(w *Writer) {
	if s.raw != nil {
		w.Count(len(s.raw))
		w.Bytes(s.raw)
	}
}

// DecodeTail reads the payload written by EncodeTail.
func (s *WString) DecodeTail(r *Reader, present bool) {
	*s = WString{}
	if !present {
		return
	}
	n := r.Length()
	if n%2 != 0 {
		r.Failf("wide string length %d is odd", n)
		return
	}
	s.raw = nonNil(r.Bytes(n))
}

// Clone returns a copy whose bytes live in a.
func (s WString) Clone(a *Arena) WString {
	return WString{raw: a.Bytes(s.raw), Addr: s.Addr}
}

// EncodeWide converts s to NUL-terminated UTF-16LE.
func EncodeWide(s string) []byte {
	b, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// The encoder only fails on invalid UTF-8; fall back to a
		// rune-by-rune conversion that substitutes U+FFFD.
		units := stdunicode.Encode([]rune(s))
		b = make([]byte, 2*len(units))
		for i, u := range units {
			le.PutUint16(b[2*i:], u)
		}
	}
	return append(b, 0, 0)
}

// DecodeWide converts UTF-16LE bytes to a Go string, stopping at the first
// NUL code unit. The conversion is lossy for unpaired surrogates, which
// decode as U+FFFD.
func DecodeWide(raw []byte) string {
	end := len(raw) &^ 1
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			end = i
			break
		}
	}
	out, err := utf16le.NewDecoder().Bytes(raw[:end])
	if err != nil {
		return ""
	}
	return string(out)
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
