package capture

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/command"
	"github.com/wippyai/d3d12-capture/errors"
)

// DefaultMaxBlockSize bounds the raw and stored size of a block when
// ReaderOptions leaves it unset.
const DefaultMaxBlockSize = 256 << 20

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	MaxBlockSize int
}

// Block is one block read from a capture. Payload is the uncompressed
// block body; it is only valid until the next call to Next.
type Block struct {
	Payload     []byte
	Index       int64
	Kind        BlockKind
	Call        command.CallID
	Compression Compression
}

// Frame returns the frame number carried by a BlockFrame block.
func (b *Block) Frame() (uint64, error) {
	if b.Kind != BlockFrame {
		return 0, errors.InvalidInput(errors.PhaseReplay, "not a frame block")
	}
	r := codec.NewReader(b.Payload)
	n := r.U64()
	return n, r.Err()
}

// Reader reads blocks sequentially from a capture file. It reuses its
// buffers between blocks; commands decoded from a block alias them. Use
// command.Detach to keep a command past the next call to Next.
type Reader struct {
	r      *bufio.Reader
	header Header
	opts   ReaderOptions
	sums   checksummer
	block  Block
	head   [blockHeaderSize]byte
	sum    [checksumSize]byte
	want   [checksumSize]byte
	stored []byte
	raw    []byte
	next   int64
}

// NewReader reads and validates the file prologue and header.
func NewReader(r io.Reader, opts ReaderOptions) (*Reader, error) {
	if opts.MaxBlockSize <= 0 {
		opts.MaxBlockSize = DefaultMaxBlockSize
	}
	br := bufio.NewReaderSize(r, 64<<10)

	var prologue [prologueSize]byte
	if _, err := io.ReadFull(br, prologue[:]); err != nil {
		return nil, truncated(err, "file prologue")
	}
	pr := codec.NewReader(prologue[:])
	magic := pr.Bytes(len(Magic))
	version := pr.U32()
	n := pr.U32()
	if !bytes.Equal(magic, []byte(Magic)) {
		return nil, errors.New(errors.PhaseReplay, errors.KindInvalidData).
			Value(magic).
			Detail("not a capture file").
			Build()
	}
	if version != Version {
		return nil, errors.New(errors.PhaseReplay, errors.KindUnsupported).
			Value(version).
			Detail("capture format version %d, want %d", version, Version).
			Build()
	}
	if n > 1<<16 {
		return nil, errors.Overflow(errors.PhaseReplay, []string{"header"}, n, 1<<16)
	}

	meta := make([]byte, n)
	if _, err := io.ReadFull(br, meta); err != nil {
		return nil, truncated(err, "file header")
	}
	rd := &Reader{r: br, opts: opts}
	if err := decMode.Unmarshal(meta, &rd.header); err != nil {
		return nil, errors.Wrap(errors.PhaseReplay, errors.KindInvalidData, err, "decode file header")
	}
	if err := rd.header.validate(); err != nil {
		return nil, err
	}
	if rd.header.Checksum {
		rd.sums = newChecksummer()
	}
	return rd, nil
}

// Header returns the file header.
func (r *Reader) Header() Header { return r.header }

// Next reads the next block. It returns io.EOF at a clean end of file.
// The returned Block and its payload are reused by the following call.
func (r *Reader) Next() (*Block, error) {
	idx := r.next
	if _, err := io.ReadFull(r.r, r.head[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, truncated(err, "block header")
	}
	var bh blockHeader
	if err := codec.Unmarshal(r.head[:], &bh); err != nil {
		return nil, err
	}
	if err := r.check(&bh); err != nil {
		return nil, err
	}

	if r.header.Checksum {
		if _, err := io.ReadFull(r.r, r.want[:]); err != nil {
			return nil, truncated(err, "block checksum")
		}
	}
	r.stored = grow(r.stored, int(bh.Stored))
	if _, err := io.ReadFull(r.r, r.stored); err != nil {
		return nil, truncated(err, "block payload")
	}
	if r.header.Checksum {
		r.sums.sum(&r.sum, r.head[:], r.stored)
		if r.sum != r.want {
			Logger().Warn("block checksum mismatch",
				zap.Int64("block", idx), zap.Stringer("call", bh.Call))
			return nil, errors.Checksum(errors.PhaseReplay, idx)
		}
	}

	payload, err := decompressBlock(r.raw, r.stored, bh.Compression, int(bh.Raw))
	if err != nil {
		Logger().Warn("block decompression failed", zap.Int64("block", idx), zap.Error(err))
		return nil, err
	}
	if bh.Compression != CompressionNone {
		r.raw = payload
	}

	r.next++
	r.block = Block{
		Payload:     payload,
		Index:       idx,
		Kind:        bh.Kind,
		Call:        bh.Call,
		Compression: bh.Compression,
	}
	Logger().Debug("block read",
		zap.Int64("block", idx),
		zap.Stringer("kind", bh.Kind),
		zap.Stringer("call", bh.Call),
		zap.Uint32("raw", bh.Raw),
		zap.Uint32("stored", bh.Stored))
	return &r.block, nil
}

func (r *Reader) check(bh *blockHeader) error {
	switch bh.Kind {
	case BlockCommand, BlockFrame:
	default:
		return errors.InvalidVariant(errors.PhaseReplay, "block kind", uint32(bh.Kind))
	}
	if bh.Compression > CompressionZstd {
		return errors.InvalidVariant(errors.PhaseReplay, "compression", uint32(bh.Compression))
	}
	limit := r.opts.MaxBlockSize
	if int64(bh.Raw) > int64(limit) {
		return errors.Overflow(errors.PhaseReplay, []string{"raw"}, bh.Raw, limit)
	}
	if int64(bh.Stored) > int64(limit) {
		return errors.Overflow(errors.PhaseReplay, []string{"stored"}, bh.Stored, limit)
	}
	return nil
}

// NextCommand reads blocks until the next command block and decodes it.
// Frame markers are skipped. The command aliases the reader's buffers.
func (r *Reader) NextCommand() (command.Command, error) {
	for {
		b, err := r.Next()
		if err != nil {
			return nil, err
		}
		if b.Kind != BlockCommand {
			continue
		}
		return command.Decode(b.Call, b.Payload)
	}
}

func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

func truncated(err error, what string) error {
	if stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, io.EOF) {
		return errors.Wrap(errors.PhaseReplay, errors.KindOutOfBounds, err, "truncated "+what)
	}
	return errors.Wrap(errors.PhaseReplay, errors.KindInvalidData, err, "read "+what)
}
