// Package d3d12capture records Direct3D 12 API calls into a positional,
// length-prefixed binary format and reconstructs the exact arguments needed
// to reissue them later.
//
// # Architecture Overview
//
// The module is organized into layers, each built only from the ones before it:
//
//	d3d12capture/        Root package with the Resolver and Replayer interfaces
//	├── codec/           Cursor, POD copy, null sentinels, strings, blobs, keys, arena
//	├── d3d12/           Structured descriptor codecs (pipeline state, root
//	│                    signatures, state objects, acceleration structures, views)
//	├── command/         Per-call command envelopes and the owning-copy layer
//	├── registry/        Reference key/address/descriptor-heap registry
//	├── capture/         Capture file container (compression, checksums)
//	├── config/          YAML configuration
//	├── errors/          Structured error types
//	└── cmd/capdump/     Capture inspector CLI
//
// # Quick Start
//
// Encode a call captured by an interception layer and decode it back:
//
//	cmd := &command.CreateConstantBufferView{
//	    Device: 3,
//	    Desc:   codec.PtrTo(d3d12.ConstantBufferViewDesc{...}),
//	    DestDescriptor: codec.CPUHandle{Ptr: 0x1000},
//	}
//	buf, err := command.Encode(cmd, reg)
//	...
//	decoded, err := command.Decode(command.CallCreateConstantBufferView, buf)
//
// Decoded commands alias the buffer they were decoded from. Use
// command.Detach to obtain an independent copy before the buffer is reused.
//
// # Thread Safety
//
// Encoding and decoding are pure functions over a caller-supplied buffer and
// are safe to run concurrently on distinct buffers. The registry and the
// capture Recorder are safe for concurrent use.
package d3d12capture
