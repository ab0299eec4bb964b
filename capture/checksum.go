package capture

import "github.com/zeebo/blake3"

// blockKey is the BLAKE3 key for block checksums: the ASCII domain name,
// zero-padded to 32 bytes.
var blockKey = [32]byte{
	'd', '3', 'd', '1', '2', 'c', 'a', 'p', 't', 'u', 'r', 'e', '.',
	'b', 'l', 'o', 'c', 'k',
}

// checksummer computes keyed block checksums over the block header and
// the stored payload. It is not safe for concurrent use.
type checksummer struct {
	h *blake3.Hasher
}

func newChecksummer() checksummer {
	h, err := blake3.NewKeyed(blockKey[:])
	if err != nil {
		panic("capture: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return checksummer{h: h}
}

func (c checksummer) sum(dst *[checksumSize]byte, header, payload []byte) {
	c.h.Reset()
	_, _ = c.h.Write(header)
	_, _ = c.h.Write(payload)
	c.h.Sum(dst[:0])
}
