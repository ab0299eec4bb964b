package codec

// PointerSize is the width of a pointer sentinel. Only 64-bit captures are
// produced and accepted.
const PointerSize = 8

// Safety limits applied while decoding untrusted counts.
const (
	MaxArrayLength = 1 << 24 // maximum element count of a counted array
	MaxBlobSize    = 1 << 30 // maximum byte length of a blob or string
)

// placeholderAddr is written as the sentinel for a present value whose
// capture-time address was not recorded.
const placeholderAddr uint64 = 1
