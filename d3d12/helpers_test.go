package d3d12

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

type codecPtr[T any] interface {
	*T
	codec.Codec
}

func roundTrip[T any, P codecPtr[T]](t *testing.T, in *T) *T {
	t.Helper()
	return roundTripWith[T, P](t, in, nil)
}

func roundTripWith[T any, P codecPtr[T]](t *testing.T, in *T, res codec.Resolver) *T {
	t.Helper()
	buf, err := codec.MarshalWith(P(in), res)
	if err != nil {
		t.Fatalf("Marshal %T: %v", in, err)
	}
	out := new(T)
	if err := codec.Unmarshal(buf, P(out)); err != nil {
		t.Fatalf("Unmarshal %T: %v", in, err)
	}
	return out
}

func assertEqual(t *testing.T, got, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mismatch\n got: %#v\nwant: %#v", got, want)
	}
}

func isKind(err error, kind errors.Kind) bool {
	var e *errors.Error
	return stderrors.As(err, &e) && e.Kind == kind
}

// testResolver maps address 0xKKKK_OOOO to key K and offset O, and every
// descriptor handle to heap 9 with 32-byte slots.
type testResolver struct{}

func (testResolver) ResolveAddress(va uint64) (uint32, uint32, bool) {
	if va < 0x10000 {
		return 0, 0, false
	}
	return uint32(va >> 16), uint32(va & 0xffff), true
}

func (testResolver) ResolveCPUDescriptor(ptr uint64) (uint32, uint32, bool) {
	return 9, uint32(ptr&0xfff) / 32, true
}

func (testResolver) ResolveGPUDescriptor(ptr uint64) (uint32, uint32, bool) {
	return 10, uint32(ptr&0xfff) / 32, true
}

func addr(va uint64) codec.GPUAddress {
	return codec.GPUAddress{Value: va}
}

func wide(names ...string) []codec.WString {
	out := make([]codec.WString, len(names))
	for i, n := range names {
		out[i] = codec.NewWString(n)
	}
	return out
}

func resolved(va uint64) codec.GPUAddress {
	return codec.GPUAddress{Value: va, Key: codec.Key(va >> 16), Offset: uint32(va & 0xffff)}
}

// truncations decodes every strict prefix of buf and requires a bounds
// violation for each.
func truncations[T any, P codecPtr[T]](t *testing.T, buf []byte) {
	t.Helper()
	for cut := 0; cut < len(buf); cut++ {
		err := codec.Unmarshal(buf[:cut], P(new(T)))
		if !isKind(err, errors.KindOutOfBounds) {
			t.Fatalf("cut at %d of %d: got %v, want out_of_bounds", cut, len(buf), err)
		}
	}
}
