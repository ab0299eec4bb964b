// Package d3d12 encodes the structured Direct3D 12 descriptors that cross
// the API boundary.
//
// Every descriptor is written in two parts. The header is the x64 C layout
// of the structure with every pointer replaced by a presence sentinel and
// padding zeroed. The trailing part follows the header and carries, in
// declaration order, whatever the pointers referenced: shader bytecode,
// nested arrays, strings, and the key/offset pairs that stand in for GPU
// virtual addresses and descriptor handles. Decoding reads the header
// first and then uses the already decoded counts, tags and presence flags
// to walk the trailing part.
//
// Byte blobs (shader bytecode, cached pipeline state) decode as views into
// the input buffer. Call Clone with a codec.Arena to obtain a value that
// owns all of its storage.
//
// Tagged unions (pipeline subobjects, state subobjects, root parameters,
// barriers, geometry descriptions, render pass accesses) are decoded into
// Go sum types or tagged structs. An unknown tag fails the whole decode
// with an invalid_variant error.
package d3d12
