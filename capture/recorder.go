package capture

import (
	"bufio"
	stderrors "errors"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	d3d12capture "github.com/wippyai/d3d12-capture"
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/command"
	"github.com/wippyai/d3d12-capture/errors"
)

// Options configures a Recorder.
type Options struct {
	// Resolver rewrites addresses and descriptor handles to keys while
	// commands are encoded. Nil records values that are already resolved.
	Resolver    d3d12capture.Resolver
	Application string
	Compression Compression
	Checksum    bool
}

// Recorder writes a capture file. Record may be called from any number of
// goroutines.
type Recorder struct {
	opts Options
	seq  atomic.Uint64

	mu      sync.Mutex
	w       *bufio.Writer
	sums    checksummer
	head    [blockHeaderSize]byte
	sum     [checksumSize]byte
	scratch []byte
	blocks  int64
	err     error
	closed  bool
}

// NewRecorder writes the file prologue and header to w.
func NewRecorder(w io.Writer, opts Options) (*Recorder, error) {
	if opts.Compression > CompressionZstd {
		return nil, errors.InvalidVariant(errors.PhaseCapture, "compression", uint32(opts.Compression))
	}
	hdr := Header{
		PointerSize: codec.PointerSize,
		Compression: opts.Compression.String(),
		Checksum:    opts.Checksum,
		Application: opts.Application,
		API:         API,
	}
	meta, err := encMode.Marshal(&hdr)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCapture, errors.KindInvalidData, err, "encode file header")
	}

	prologue := make([]byte, prologueSize+len(meta))
	cw := codec.NewWriter(prologue)
	cw.Bytes([]byte(Magic))
	cw.U32(Version)
	cw.Count(len(meta))
	cw.Bytes(meta)
	if err := cw.Err(); err != nil {
		return nil, err
	}

	r := &Recorder{
		opts: opts,
		w:    bufio.NewWriterSize(w, 64<<10),
	}
	if opts.Checksum {
		r.sums = newChecksummer()
	}
	if _, err := r.w.Write(prologue); err != nil {
		return nil, errors.Wrap(errors.PhaseCapture, errors.KindInvalidData, err, "write file header")
	}
	return r, nil
}

// Record stamps cmd with the next sequence number and thread, encodes it
// and appends it as one block. It returns the assigned sequence number.
// Encoding runs outside the recorder lock, so blocks from concurrent
// callers may land slightly out of sequence order.
func (r *Recorder) Record(thread uint64, cmd command.Command) (uint64, error) {
	seq := r.seq.Add(1)
	h := cmd.Header()
	h.Seq, h.Thread = seq, thread

	payload, err := command.Encode(cmd, r.opts.Resolver)
	if err != nil {
		Logger().Warn("command encode failed",
			zap.Stringer("call", cmd.Call()), zap.Uint64("seq", seq), zap.Error(err))
		return seq, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return seq, r.writeBlock(BlockCommand, cmd.Call(), payload)
}

// Frame appends a frame boundary marker.
func (r *Recorder) Frame(frame uint64) error {
	var payload [8]byte
	w := codec.NewWriter(payload[:])
	w.U64(frame)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeBlock(BlockFrame, command.CallInvalid, payload[:])
}

// Seq returns the last sequence number handed out.
func (r *Recorder) Seq() uint64 { return r.seq.Load() }

// Blocks returns the number of blocks written.
func (r *Recorder) Blocks() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blocks
}

// writeBlock compresses and writes one block. Caller holds mu.
func (r *Recorder) writeBlock(kind BlockKind, call command.CallID, payload []byte) error {
	if r.closed {
		return errors.InvalidInput(errors.PhaseCapture, "recorder closed")
	}
	if r.err != nil {
		return r.err
	}
	if len(payload) > codec.MaxBlobSize {
		return errors.Overflow(errors.PhaseCapture, []string{call.String()}, len(payload), codec.MaxBlobSize)
	}

	comp := r.opts.Compression
	stored, err := compressBlock(r.scratch, payload, comp)
	switch {
	case stderrors.Is(err, errIncompressible):
		comp, stored = CompressionNone, payload
	case err != nil:
		return err
	}
	if comp != CompressionNone {
		r.scratch = stored[:0]
	}

	bh := blockHeader{
		Kind:        kind,
		Call:        call,
		Compression: comp,
		Raw:         uint32(len(payload)),
		Stored:      uint32(len(stored)),
	}
	hw := codec.NewWriter(r.head[:])
	bh.Encode(hw)
	if err := hw.Err(); err != nil {
		return err
	}

	if _, err := r.w.Write(r.head[:]); err != nil {
		return r.fail(err)
	}
	if r.opts.Checksum {
		r.sums.sum(&r.sum, r.head[:], stored)
		if _, err := r.w.Write(r.sum[:]); err != nil {
			return r.fail(err)
		}
	}
	if _, err := r.w.Write(stored); err != nil {
		return r.fail(err)
	}

	Logger().Debug("block written",
		zap.Int64("block", r.blocks),
		zap.Stringer("kind", kind),
		zap.Stringer("call", call),
		zap.Stringer("compression", comp),
		zap.Int("raw", len(payload)),
		zap.Int("stored", len(stored)))
	r.blocks++
	return nil
}

// fail records a write error. Later writes return it unchanged, since the
// stream is no longer block aligned.
func (r *Recorder) fail(err error) error {
	r.err = errors.Wrap(errors.PhaseCapture, errors.KindInvalidData, err, "write block")
	Logger().Warn("capture write failed", zap.Error(err))
	return r.err
}

// Flush writes buffered blocks to the underlying writer.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if err := r.w.Flush(); err != nil {
		return r.fail(err)
	}
	return nil
}

// Close flushes and stops accepting blocks. It does not close the
// underlying writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.err != nil {
		return r.err
	}
	if err := r.w.Flush(); err != nil {
		return r.fail(err)
	}
	return nil
}
