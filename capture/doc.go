// Package capture reads and writes capture files: a stream of
// independently compressed, optionally checksummed blocks, each holding
// one encoded command record or a frame marker.
//
// # File Layout
//
//	"D3DC" [u32 version] [u32 header length] [CBOR header]
//	block*
//
// The header is deterministic CBOR with the pointer size, the default
// compression, whether blocks carry checksums, the recording application
// and the API name. Each block is
//
//	[u32 kind][u32 call][u8 compression][3 pad][u32 raw size][u32 stored size]
//	[32-byte BLAKE3 keyed checksum, when enabled]
//	[stored payload]
//
// The checksum covers the block header and the stored payload, so
// corruption is caught before decompression. A block whose payload does
// not shrink under the configured compression is stored uncompressed.
//
// # Recording
//
//	rec, err := capture.NewRecorder(f, capture.Options{
//	    Resolver:    reg,
//	    Compression: capture.CompressionLZ4,
//	    Checksum:    true,
//	})
//	seq, err := rec.Record(threadID, cmd)
//	...
//	err = rec.Close()
//
// # Reading
//
// Reader.Next returns blocks one at a time and reuses its buffers.
// DecodeAll reads the rest of a file and decodes it in parallel.
package capture
