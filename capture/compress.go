package capture

import (
	stderrors "errors"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/d3d12-capture/errors"
)

// errIncompressible reports that compression would not shrink a payload.
// The block is then stored uncompressed.
var errIncompressible = stderrors.New("capture: payload is incompressible")

// zstd encoders and decoders are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic("capture: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(math.MaxUint32),
		zstd.WithDecodeAllCapLimit(true),
	)
	if err != nil {
		panic("capture: zstd decoder initialization failed: " + err.Error())
	}
}

// compressBlock compresses data into dst, reusing its capacity.
func compressBlock(dst, data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		if cap(dst) < bound {
			dst = make([]byte, bound)
		}
		dst = dst[:bound]
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(data) {
			return nil, errIncompressible
		}
		return dst[:n], nil
	case CompressionZstd:
		out := zstdEncoder.EncodeAll(data, dst[:0])
		if len(out) >= len(data) {
			return nil, errIncompressible
		}
		return out, nil
	default:
		return nil, errors.InvalidVariant(errors.PhaseCapture, "compression", uint32(c))
	}
}

// decompressBlock expands stored into dst. The result must be exactly raw
// bytes long; decoders never write past raw bytes, so a block header that
// understates its payload fails without the payload being inflated.
func decompressBlock(dst, stored []byte, c Compression, raw int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(stored) != raw {
			return nil, sizeError(c, len(stored), raw)
		}
		return stored, nil
	case CompressionLZ4:
		if cap(dst) < raw {
			dst = make([]byte, raw)
		}
		dst = dst[:raw]
		n, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseReplay, errors.KindInvalidData, err, "lz4 decompress")
		}
		if n != raw {
			return nil, sizeError(c, n, raw)
		}
		return dst, nil
	case CompressionZstd:
		var fh zstd.Header
		if err := fh.Decode(stored); err != nil {
			return nil, errors.Wrap(errors.PhaseReplay, errors.KindInvalidData, err, "zstd frame header")
		}
		if fh.HasFCS && fh.FrameContentSize != uint64(raw) {
			return nil, sizeError(c, int(min(fh.FrameContentSize, math.MaxInt32)), raw)
		}
		if cap(dst) < raw {
			dst = make([]byte, 0, raw)
		}
		out, err := zstdDecoder.DecodeAll(stored, dst[:0:raw])
		if stderrors.Is(err, zstd.ErrDecoderSizeExceeded) {
			return nil, errors.New(errors.PhaseReplay, errors.KindSizeMismatch).
				Type(c.String()).
				Value(raw).
				Detail("decompressed payload exceeds the %d bytes the block header says", raw).
				Build()
		}
		if err != nil {
			return nil, errors.Wrap(errors.PhaseReplay, errors.KindInvalidData, err, "zstd decompress")
		}
		if len(out) != raw {
			return nil, sizeError(c, len(out), raw)
		}
		return out, nil
	default:
		return nil, errors.InvalidVariant(errors.PhaseReplay, "compression", uint32(c))
	}
}

func sizeError(c Compression, got, want int) error {
	return errors.New(errors.PhaseReplay, errors.KindSizeMismatch).
		Type(c.String()).
		Value(got).
		Detail("decompressed %d bytes, block header says %d", got, want).
		Build()
}
