// Package codec implements the primitive layers of the capture wire format.
//
// # Wire Format
//
// All integers are little-endian. Pointer presence is a pointer-width (8 byte)
// sentinel; counts, byte lengths and keys are 4 byte unsigned integers:
//
//	Type            Layout
//	──────────────────────────────────────────────────────────
//	Ptr[T]          [sentinel][T]
//	Array[T]        [sentinel][u32 count][count × T]
//	Buffer          [sentinel][u32 size][size bytes]
//	AString         [sentinel][u32 byte length incl. NUL][bytes]
//	WString         [sentinel][u32 byte length incl. 2-byte NUL][UTF-16LE]
//	Output[T]       [sentinel]
//	ObjectOut       [sentinel][u32 key]
//	Keys            [sentinel][u32 count][count × u32]
//	GPUAddress      [u64 value][u32 key][u32 offset]
//	CPU/GPUHandle   [u64 raw][u32 heap key][u32 index]
//
// A null sentinel ends the argument: nothing else is written or read for it.
//
// # Cursors
//
// Writer and Reader are cursors over a caller supplied byte slice. Both carry
// a sticky error: the first bounds violation or malformed value is recorded,
// every later operation becomes a no-op returning zero values, and the error
// is reported by Err. Encoding runs twice, first in measuring mode to compute
// Size, then into an exactly sized buffer, and Marshal fails if the two
// disagree.
//
// # Ownership
//
// Byte payloads produced by decoding (blobs, strings) are views into the
// decode buffer. They must not outlive it. Arena provides the owned storage
// used by Clone methods to detach a decoded value from its buffer.
package codec
