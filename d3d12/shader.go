package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
)

// ShaderBytecode is D3D12_SHADER_BYTECODE. A nil Code means no shader.
type ShaderBytecode struct {
	Code []byte
}

func (s *ShaderBytecode) putHeader(w *codec.Writer) { putBlobHeader(w, s.Code) }
func (s *ShaderBytecode) putTrailing(w *codec.Writer) {
	w.Bytes(s.Code)
}

func (s *ShaderBytecode) Encode(w *codec.Writer) {
	s.putHeader(w)
	s.putTrailing(w)
}

func (s *ShaderBytecode) Decode(r *codec.Reader) {
	s.Code = getBlob(r, getBlobHeader(r))
}

func (s ShaderBytecode) Clone(a *codec.Arena) ShaderBytecode {
	return ShaderBytecode{Code: a.Bytes(s.Code)}
}

// CachedPipelineState is D3D12_CACHED_PIPELINE_STATE. Cached blobs are
// driver specific and never replayed: decoding consumes the blob and
// leaves Blob nil, keeping only the recorded size.
type CachedPipelineState struct {
	Blob         []byte
	RecordedSize int
}

func (c *CachedPipelineState) putHeader(w *codec.Writer) { putBlobHeader(w, c.Blob) }
func (c *CachedPipelineState) putTrailing(w *codec.Writer) {
	w.Bytes(c.Blob)
}

type cachedHeader blobHeader

func (c *CachedPipelineState) getHeader(r *codec.Reader) cachedHeader {
	return cachedHeader(getBlobHeader(r))
}

func (c *CachedPipelineState) getTrailing(r *codec.Reader, h cachedHeader) {
	c.Blob = nil
	c.RecordedSize = 0
	if h.present {
		r.Skip(h.size)
		c.RecordedSize = h.size
	}
}

func (c CachedPipelineState) Clone(a *codec.Arena) CachedPipelineState {
	return CachedPipelineState{Blob: a.Bytes(c.Blob), RecordedSize: c.RecordedSize}
}

// SODeclarationEntry is D3D12_SO_DECLARATION_ENTRY. A null SemanticName
// marks an output gap.
type SODeclarationEntry struct {
	Stream         uint32
	SemanticName   codec.AString
	SemanticIndex  uint32
	StartComponent uint8
	ComponentCount uint8
	OutputSlot     uint8
}

// StreamOutputDesc is D3D12_STREAM_OUTPUT_DESC.
type StreamOutputDesc struct {
	Entries          []SODeclarationEntry
	BufferStrides    []uint32
	RasterizedStream uint32
}

const soEntrySize = 24

type streamOutputHeader struct {
	entries, strides   bool
	nEntries, nStrides uint32
}

func (d *StreamOutputDesc) putHeader(w *codec.Writer) {
	w.Sentinel(d.Entries != nil, 0)
	w.Count(len(d.Entries))
	w.Zero(4)
	w.Sentinel(d.BufferStrides != nil, 0)
	w.Count(len(d.BufferStrides))
	w.U32(d.RasterizedStream)
}

func (d *StreamOutputDesc) getHeader(r *codec.Reader) streamOutputHeader {
	var h streamOutputHeader
	_, h.entries = r.Sentinel()
	h.nEntries = r.U32()
	r.Skip(4)
	_, h.strides = r.Sentinel()
	h.nStrides = r.U32()
	d.RasterizedStream = r.U32()
	return h
}

func (d *StreamOutputDesc) putTrailing(w *codec.Writer) {
	if d.Entries != nil {
		for i := range d.Entries {
			e := &d.Entries[i]
			w.U32(e.Stream)
			w.Zero(4)
			w.Sentinel(!e.SemanticName.IsNull(), 0)
			w.U32(e.SemanticIndex)
			w.U8(e.StartComponent)
			w.U8(e.ComponentCount)
			w.U8(e.OutputSlot)
			w.Zero(1)
		}
		for i := range d.Entries {
			d.Entries[i].SemanticName.EncodeTail(w)
		}
	}
	if d.BufferStrides != nil {
		codec.PutPOD(w, d.BufferStrides)
	}
}

func (d *StreamOutputDesc) getTrailing(r *codec.Reader, h streamOutputHeader) {
	d.Entries, d.BufferStrides = nil, nil
	if h.entries {
		d.Entries = make([]SODeclarationEntry, r.CheckCount(h.nEntries, soEntrySize))
		named := make([]bool, len(d.Entries))
		for i := range d.Entries {
			e := &d.Entries[i]
			e.Stream = r.U32()
			r.Skip(4)
			_, named[i] = r.Sentinel()
			e.SemanticIndex = r.U32()
			e.StartComponent = r.U8()
			e.ComponentCount = r.U8()
			e.OutputSlot = r.U8()
			r.Skip(1)
		}
		for i := range d.Entries {
			d.Entries[i].SemanticName.DecodeTail(r, named[i])
		}
	}
	if h.strides {
		d.BufferStrides = make([]uint32, r.CheckCount(h.nStrides, 4))
		codec.GetPOD(r, d.BufferStrides)
	}
}

func (d StreamOutputDesc) Clone(a *codec.Arena) StreamOutputDesc {
	d.Entries = codec.CloneSlice(a, d.Entries)
	for i := range d.Entries {
		d.Entries[i].SemanticName = d.Entries[i].SemanticName.Clone(a)
	}
	d.BufferStrides = codec.CloneSlice(a, d.BufferStrides)
	return d
}

// InputElementDesc is D3D12_INPUT_ELEMENT_DESC.
type InputElementDesc struct {
	SemanticName         codec.AString
	SemanticIndex        uint32
	Format               Format
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       uint32
	InstanceDataStepRate uint32
}

// InputLayoutDesc is D3D12_INPUT_LAYOUT_DESC. A nil Elements slice is the
// null pointer.
type InputLayoutDesc struct {
	Elements []InputElementDesc
}

const inputElementSize = 32

type inputLayoutHeader struct {
	present bool
	n       uint32
}

func (d *InputLayoutDesc) putHeader(w *codec.Writer) {
	w.Sentinel(d.Elements != nil, 0)
	w.Count(len(d.Elements))
	w.Zero(4)
}

func (d *InputLayoutDesc) getHeader(r *codec.Reader) inputLayoutHeader {
	var h inputLayoutHeader
	_, h.present = r.Sentinel()
	h.n = r.U32()
	r.Skip(4)
	return h
}

func (d *InputLayoutDesc) putTrailing(w *codec.Writer) {
	if d.Elements == nil {
		return
	}
	for i := range d.Elements {
		e := &d.Elements[i]
		w.Sentinel(!e.SemanticName.IsNull(), 0)
		w.U32(e.SemanticIndex)
		w.U32(uint32(e.Format))
		w.U32(e.InputSlot)
		w.U32(e.AlignedByteOffset)
		w.U32(e.InputSlotClass)
		w.U32(e.InstanceDataStepRate)
	}
	for i := range d.Elements {
		d.Elements[i].SemanticName.EncodeTail(w)
	}
}

func (d *InputLayoutDesc) getTrailing(r *codec.Reader, h inputLayoutHeader) {
	d.Elements = nil
	if !h.present {
		return
	}
	d.Elements = make([]InputElementDesc, r.CheckCount(h.n, inputElementSize))
	named := make([]bool, len(d.Elements))
	for i := range d.Elements {
		e := &d.Elements[i]
		_, named[i] = r.Sentinel()
		e.SemanticIndex = r.U32()
		e.Format = Format(r.U32())
		e.InputSlot = r.U32()
		e.AlignedByteOffset = r.U32()
		e.InputSlotClass = r.U32()
		e.InstanceDataStepRate = r.U32()
	}
	for i := range d.Elements {
		d.Elements[i].SemanticName.DecodeTail(r, named[i])
	}
}

func (d InputLayoutDesc) Clone(a *codec.Arena) InputLayoutDesc {
	elems := codec.CloneSlice(a, d.Elements)
	for i := range elems {
		elems[i].SemanticName = elems[i].SemanticName.Clone(a)
	}
	return InputLayoutDesc{Elements: elems}
}
