package capture

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/command"
	"github.com/wippyai/d3d12-capture/errors"
)

// Magic opens every capture file.
const Magic = "D3DC"

// Version is the container format version written by Recorder. Readers
// reject any other version.
const Version uint32 = 1

// API is the value of Header.API for Direct3D 12 captures.
const API = "d3d12"

// prologueSize covers the magic, version and header length.
const prologueSize = 12

// Header is the file-level metadata stored after the prologue as
// deterministic CBOR.
type Header struct {
	PointerSize int    `cbor:"pointer_size"`
	Compression string `cbor:"compression"`
	Checksum    bool   `cbor:"checksum"`
	Application string `cbor:"application,omitempty"`
	API         string `cbor:"api"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("capture: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		MaxMapPairs: 64,
	}.DecMode()
	if err != nil {
		panic("capture: CBOR decoder initialization failed: " + err.Error())
	}
}

func (h *Header) validate() error {
	if h.PointerSize != codec.PointerSize {
		return errors.New(errors.PhaseReplay, errors.KindUnsupported).
			Path("pointer_size").
			Value(h.PointerSize).
			Detail("only %d-byte pointers are supported", codec.PointerSize).
			Build()
	}
	if h.API != API {
		return errors.New(errors.PhaseReplay, errors.KindUnsupported).
			Path("api").
			Value(h.API).
			Detail("capture api %q", h.API).
			Build()
	}
	if _, err := ParseCompression(h.Compression); err != nil {
		return err
	}
	return nil
}

// Compression identifies how a block payload is stored. Tags are part of
// the file format.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name as written in the file
// header and in configuration.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("compression").
			Value(name).
			Detail("unknown compression %q", name).
			Build()
	}
}

// BlockKind identifies what a block carries.
type BlockKind uint32

const (
	// BlockCommand holds one encoded command record. The block's call id
	// selects the decoder.
	BlockCommand BlockKind = 1
	// BlockFrame marks the end of a presented frame. Its payload is the
	// u64 frame number.
	BlockFrame BlockKind = 2
)

func (k BlockKind) String() string {
	switch k {
	case BlockCommand:
		return "command"
	case BlockFrame:
		return "frame"
	default:
		return fmt.Sprintf("BlockKind(%d)", uint32(k))
	}
}

const (
	blockHeaderSize = 20
	checksumSize    = 32
)

// blockHeader precedes every block:
//
//	[u32 kind][u32 call][u8 compression][3 pad][u32 raw size][u32 stored size]
type blockHeader struct {
	Kind        BlockKind
	Call        command.CallID
	Compression Compression
	Raw         uint32
	Stored      uint32
}

func (h *blockHeader) Encode(w *codec.Writer) {
	w.U32(uint32(h.Kind))
	w.U32(uint32(h.Call))
	w.U8(uint8(h.Compression))
	w.Zero(3)
	w.U32(h.Raw)
	w.U32(h.Stored)
}

func (h *blockHeader) Decode(r *codec.Reader) {
	h.Kind = BlockKind(r.U32())
	h.Call = command.CallID(r.U32())
	h.Compression = Compression(r.U8())
	r.Skip(3)
	h.Raw = r.U32()
	h.Stored = r.U32()
}
