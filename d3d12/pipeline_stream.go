package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

// PipelineSubobjectType is D3D12_PIPELINE_STATE_SUBOBJECT_TYPE.
type PipelineSubobjectType uint32

const (
	PipelineSubobjectRootSignature PipelineSubobjectType = iota
	PipelineSubobjectVS
	PipelineSubobjectPS
	PipelineSubobjectDS
	PipelineSubobjectHS
	PipelineSubobjectGS
	PipelineSubobjectCS
	PipelineSubobjectStreamOutput
	PipelineSubobjectBlend
	PipelineSubobjectSampleMask
	PipelineSubobjectRasterizer
	PipelineSubobjectDepthStencil
	PipelineSubobjectInputLayout
	PipelineSubobjectIBStripCutValue
	PipelineSubobjectPrimitiveTopology
	PipelineSubobjectRenderTargetFormats
	PipelineSubobjectDepthStencilFormat
	PipelineSubobjectSampleDesc
	PipelineSubobjectNodeMask
	PipelineSubobjectCachedPSO
	PipelineSubobjectFlags
	PipelineSubobjectDepthStencil1
	PipelineSubobjectViewInstancing
	_
	PipelineSubobjectAS
	PipelineSubobjectMS
)

// PipelineSubobject is one entry of a pipeline state stream. The set of
// implementations is closed.
type PipelineSubobject interface {
	SubobjectType() PipelineSubobjectType
	putInner(w *codec.Writer)
	getInner(r *codec.Reader)
	putTrailing(w *codec.Writer)
	getTrailing(r *codec.Reader)
	clone(a *codec.Arena) PipelineSubobject
}

// pipelineSubobjectLayout describes the inner value of a stream subobject.
// Each subobject is the tag followed by the inner value at its natural
// alignment, and the whole entry is padded to pointer alignment.
type pipelineSubobjectLayout struct {
	align, size int
	make        func(PipelineSubobjectType) PipelineSubobject
}

func (l pipelineSubobjectLayout) innerOffset() int { return alignUp(4, l.align) }
func (l pipelineSubobjectLayout) stride() int {
	return alignUp(l.innerOffset()+l.size, codec.PointerSize)
}

var pipelineSubobjectLayouts = map[PipelineSubobjectType]pipelineSubobjectLayout{
	PipelineSubobjectRootSignature:       {8, 8, func(PipelineSubobjectType) PipelineSubobject { return new(RootSignatureSubobject) }},
	PipelineSubobjectVS:                  {8, 16, newShaderSubobject},
	PipelineSubobjectPS:                  {8, 16, newShaderSubobject},
	PipelineSubobjectDS:                  {8, 16, newShaderSubobject},
	PipelineSubobjectHS:                  {8, 16, newShaderSubobject},
	PipelineSubobjectGS:                  {8, 16, newShaderSubobject},
	PipelineSubobjectCS:                  {8, 16, newShaderSubobject},
	PipelineSubobjectAS:                  {8, 16, newShaderSubobject},
	PipelineSubobjectMS:                  {8, 16, newShaderSubobject},
	PipelineSubobjectStreamOutput:        {8, 32, func(PipelineSubobjectType) PipelineSubobject { return new(StreamOutputSubobject) }},
	PipelineSubobjectBlend:               {4, 328, func(PipelineSubobjectType) PipelineSubobject { return new(BlendSubobject) }},
	PipelineSubobjectSampleMask:          {4, 4, newScalarSubobject},
	PipelineSubobjectRasterizer:          {4, 44, func(PipelineSubobjectType) PipelineSubobject { return new(RasterizerSubobject) }},
	PipelineSubobjectDepthStencil:        {4, 52, func(PipelineSubobjectType) PipelineSubobject { return new(DepthStencilSubobject) }},
	PipelineSubobjectInputLayout:         {8, 16, func(PipelineSubobjectType) PipelineSubobject { return new(InputLayoutSubobject) }},
	PipelineSubobjectIBStripCutValue:     {4, 4, newScalarSubobject},
	PipelineSubobjectPrimitiveTopology:   {4, 4, newScalarSubobject},
	PipelineSubobjectRenderTargetFormats: {4, 36, func(PipelineSubobjectType) PipelineSubobject { return new(RenderTargetFormatsSubobject) }},
	PipelineSubobjectDepthStencilFormat:  {4, 4, newScalarSubobject},
	PipelineSubobjectSampleDesc:          {4, 8, func(PipelineSubobjectType) PipelineSubobject { return new(SampleDescSubobject) }},
	PipelineSubobjectNodeMask:            {4, 4, newScalarSubobject},
	PipelineSubobjectCachedPSO:           {8, 16, func(PipelineSubobjectType) PipelineSubobject { return new(CachedPSOSubobject) }},
	PipelineSubobjectFlags:               {4, 4, newScalarSubobject},
	PipelineSubobjectDepthStencil1:       {4, 56, func(PipelineSubobjectType) PipelineSubobject { return new(DepthStencil1Subobject) }},
	PipelineSubobjectViewInstancing:      {8, 24, func(PipelineSubobjectType) PipelineSubobject { return new(ViewInstancingSubobject) }},
}

func newShaderSubobject(t PipelineSubobjectType) PipelineSubobject {
	return &ShaderSubobject{Type: t}
}

func newScalarSubobject(t PipelineSubobjectType) PipelineSubobject {
	return &ScalarSubobject{Type: t}
}

// PipelineSubobjectStride returns the number of bytes a subobject of type
// t occupies in a stream, or 0 for an unknown type.
func PipelineSubobjectStride(t PipelineSubobjectType) int {
	l, ok := pipelineSubobjectLayouts[t]
	if !ok {
		return 0
	}
	return l.stride()
}

// PipelineStateStreamDesc is D3D12_PIPELINE_STATE_STREAM_DESC.
type PipelineStateStreamDesc struct {
	Subobjects []PipelineSubobject
}

func (d *PipelineStateStreamDesc) streamSize() (int, error) {
	n := 0
	for _, s := range d.Subobjects {
		l, ok := pipelineSubobjectLayouts[s.SubobjectType()]
		if !ok {
			return 0, errors.InvalidVariant(errors.PhaseEncode, "PipelineSubobject", uint32(s.SubobjectType()))
		}
		n += l.stride()
	}
	return n, nil
}

func (d *PipelineStateStreamDesc) Encode(w *codec.Writer) {
	size, err := d.streamSize()
	if err != nil {
		w.Fail(err)
		return
	}
	w.U64(uint64(size))
	if !w.Sentinel(d.Subobjects != nil, 0) {
		return
	}
	for _, s := range d.Subobjects {
		l := pipelineSubobjectLayouts[s.SubobjectType()]
		start := w.Len()
		w.U32(uint32(s.SubobjectType()))
		w.Zero(l.innerOffset() - 4)
		s.putInner(w)
		w.Zero(l.stride() - (w.Len() - start))
	}
	for _, s := range d.Subobjects {
		s.putTrailing(w)
	}
}

func (d *PipelineStateStreamDesc) Decode(r *codec.Reader) {
	size := r.U64()
	_, present := r.Sentinel()
	d.Subobjects = nil
	if !present {
		return
	}
	if size > codec.MaxBlobSize {
		r.Failf("pipeline state stream size %d exceeds limit", size)
		return
	}
	sub := r.Sub(int(size))
	d.Subobjects = []PipelineSubobject{}
	for sub.Err() == nil && sub.Remaining() > 0 {
		start := sub.Offset()
		tag := PipelineSubobjectType(sub.U32())
		l, ok := pipelineSubobjectLayouts[tag]
		if !ok {
			sub.Fail(errors.New(errors.PhaseDecode, errors.KindInvalidVariant).
				Type("PipelineSubobject").
				Offset(start).
				Value(uint32(tag)).
				Detail("unrecognized tag %d", uint32(tag)).
				Build())
			break
		}
		s := l.make(tag)
		sub.Skip(l.innerOffset() - 4)
		s.getInner(sub)
		sub.Skip(l.stride() - (sub.Offset() - start))
		d.Subobjects = append(d.Subobjects, s)
	}
	if err := sub.Err(); err != nil {
		r.Fail(err)
		return
	}
	for _, s := range d.Subobjects {
		s.getTrailing(r)
	}
}

func (d PipelineStateStreamDesc) Clone(a *codec.Arena) PipelineStateStreamDesc {
	if d.Subobjects == nil {
		return d
	}
	out := codec.CloneSlice(a, d.Subobjects)
	for i, s := range out {
		out[i] = s.clone(a)
	}
	return PipelineStateStreamDesc{Subobjects: out}
}

// Find returns the first subobject of type t.
func (d *PipelineStateStreamDesc) Find(t PipelineSubobjectType) (PipelineSubobject, bool) {
	for _, s := range d.Subobjects {
		if s.SubobjectType() == t {
			return s, true
		}
	}
	return nil, false
}

type RootSignatureSubobject struct {
	RootSignature codec.Key
}

func (s *RootSignatureSubobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectRootSignature
}
func (s *RootSignatureSubobject) putInner(w *codec.Writer) { w.Sentinel(s.RootSignature != 0, 0) }
func (s *RootSignatureSubobject) getInner(r *codec.Reader) { r.Sentinel() }
func (s *RootSignatureSubobject) putTrailing(w *codec.Writer) {
	w.U32(uint32(s.RootSignature))
}
func (s *RootSignatureSubobject) getTrailing(r *codec.Reader) {
	s.RootSignature = codec.Key(r.U32())
}
func (s *RootSignatureSubobject) clone(*codec.Arena) PipelineSubobject {
	c := *s
	return &c
}

// ShaderSubobject carries any of the shader stages.
type ShaderSubobject struct {
	Type     PipelineSubobjectType
	Bytecode ShaderBytecode
	header   blobHeader
}

func (s *ShaderSubobject) SubobjectType() PipelineSubobjectType { return s.Type }
func (s *ShaderSubobject) putInner(w *codec.Writer) { s.Bytecode.putHeader(w) }
func (s *ShaderSubobject) getInner(r *codec.Reader) { s.header = getBlobHeader(r) }
func (s *ShaderSubobject) putTrailing(w *codec.Writer) { s.Bytecode.putTrailing(w) }
func (s *ShaderSubobject) getTrailing(r *codec.Reader) {
	s.Bytecode.Code = getBlob(r, s.header)
	s.header = blobHeader{}
}
func (s *ShaderSubobject) clone(a *codec.Arena) PipelineSubobject {
	return &ShaderSubobject{Type: s.Type, Bytecode: s.Bytecode.Clone(a)}
}

type StreamOutputSubobject struct {
	Desc   StreamOutputDesc
	header streamOutputHeader
}

func (s *StreamOutputSubobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectStreamOutput
}
func (s *StreamOutputSubobject) putInner(w *codec.Writer) { s.Desc.putHeader(w) }
func (s *StreamOutputSubobject) getInner(r *codec.Reader) { s.header = s.Desc.getHeader(r) }
func (s *StreamOutputSubobject) putTrailing(w *codec.Writer) { s.Desc.putTrailing(w) }
func (s *StreamOutputSubobject) getTrailing(r *codec.Reader) {
	s.Desc.getTrailing(r, s.header)
	s.header = streamOutputHeader{}
}
func (s *StreamOutputSubobject) clone(a *codec.Arena) PipelineSubobject {
	return &StreamOutputSubobject{Desc: s.Desc.Clone(a)}
}

type InputLayoutSubobject struct {
	Desc   InputLayoutDesc
	header inputLayoutHeader
}

func (s *InputLayoutSubobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectInputLayout
}
func (s *InputLayoutSubobject) putInner(w *codec.Writer) { s.Desc.putHeader(w) }
func (s *InputLayoutSubobject) getInner(r *codec.Reader) { s.header = s.Desc.getHeader(r) }
func (s *InputLayoutSubobject) putTrailing(w *codec.Writer) { s.Desc.putTrailing(w) }
func (s *InputLayoutSubobject) getTrailing(r *codec.Reader) {
	s.Desc.getTrailing(r, s.header)
	s.header = inputLayoutHeader{}
}
func (s *InputLayoutSubobject) clone(a *codec.Arena) PipelineSubobject {
	return &InputLayoutSubobject{Desc: s.Desc.Clone(a)}
}

// CachedPSOSubobject decodes with an absent blob, like every cached
// pipeline state.
type CachedPSOSubobject struct {
	Desc   CachedPipelineState
	header cachedHeader
}

func (s *CachedPSOSubobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectCachedPSO
}
func (s *CachedPSOSubobject) putInner(w *codec.Writer) { s.Desc.putHeader(w) }
func (s *CachedPSOSubobject) getInner(r *codec.Reader) { s.header = s.Desc.getHeader(r) }
func (s *CachedPSOSubobject) putTrailing(w *codec.Writer) { s.Desc.putTrailing(w) }
func (s *CachedPSOSubobject) getTrailing(r *codec.Reader) {
	s.Desc.getTrailing(r, s.header)
	s.header = cachedHeader{}
}
func (s *CachedPSOSubobject) clone(a *codec.Arena) PipelineSubobject {
	return &CachedPSOSubobject{Desc: s.Desc.Clone(a)}
}

// ViewInstanceLocation is D3D12_VIEW_INSTANCE_LOCATION.
type ViewInstanceLocation struct {
	ViewportArrayIndex     uint32
	RenderTargetArrayIndex uint32
}

// ViewInstancingDesc is D3D12_VIEW_INSTANCING_DESC.
type ViewInstancingDesc struct {
	Locations []ViewInstanceLocation
	Flags     uint32
}

type ViewInstancingSubobject struct {
	Desc    ViewInstancingDesc
	present bool
	count   uint32
}

func (s *ViewInstancingSubobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectViewInstancing
}
func (s *ViewInstancingSubobject) putInner(w *codec.Writer) {
	w.Count(len(s.Desc.Locations))
	w.Zero(4)
	w.Sentinel(s.Desc.Locations != nil, 0)
	w.U32(s.Desc.Flags)
	w.Zero(4)
}
func (s *ViewInstancingSubobject) getInner(r *codec.Reader) {
	s.count = r.U32()
	r.Skip(4)
	_, s.present = r.Sentinel()
	s.Desc.Flags = r.U32()
	r.Skip(4)
}
func (s *ViewInstancingSubobject) putTrailing(w *codec.Writer) {
	if s.Desc.Locations != nil {
		codec.PutPOD(w, s.Desc.Locations)
	}
}
func (s *ViewInstancingSubobject) getTrailing(r *codec.Reader) {
	s.Desc.Locations = nil
	if s.present {
		s.Desc.Locations = make([]ViewInstanceLocation, r.CheckCount(s.count, 8))
		codec.GetPOD(r, s.Desc.Locations)
	}
	s.present, s.count = false, 0
}
func (s *ViewInstancingSubobject) clone(a *codec.Arena) PipelineSubobject {
	return &ViewInstancingSubobject{Desc: ViewInstancingDesc{
		Locations: codec.CloneSlice(a, s.Desc.Locations),
		Flags:     s.Desc.Flags,
	}}
}

// podSubobject is embedded by subobjects whose inner value is flat.
type podSubobject struct{}

func (podSubobject) putTrailing(*codec.Writer) {}
func (podSubobject) getTrailing(*codec.Reader) {}

type BlendSubobject struct {
	podSubobject
	Desc BlendDesc
}

func (s *BlendSubobject) SubobjectType() PipelineSubobjectType { return PipelineSubobjectBlend }
func (s *BlendSubobject) putInner(w *codec.Writer) { codec.PutPOD(w, &s.Desc) }
func (s *BlendSubobject) getInner(r *codec.Reader) { codec.GetPOD(r, &s.Desc) }
func (s *BlendSubobject) clone(*codec.Arena) PipelineSubobject { c := *s; return &c }

type RasterizerSubobject struct {
	podSubobject
	Desc RasterizerDesc
}

func (s *RasterizerSubobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectRasterizer
}
func (s *RasterizerSubobject) putInner(w *codec.Writer) { codec.PutPOD(w, &s.Desc) }
func (s *RasterizerSubobject) getInner(r *codec.Reader) { codec.GetPOD(r, &s.Desc) }
func (s *RasterizerSubobject) clone(*codec.Arena) PipelineSubobject { c := *s; return &c }

type DepthStencilSubobject struct {
	podSubobject
	Desc DepthStencilDesc
}

func (s *DepthStencilSubobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectDepthStencil
}
func (s *DepthStencilSubobject) putInner(w *codec.Writer) { codec.PutPOD(w, &s.Desc) }
func (s *DepthStencilSubobject) getInner(r *codec.Reader) { codec.GetPOD(r, &s.Desc) }
func (s *DepthStencilSubobject) clone(*codec.Arena) PipelineSubobject { c := *s; return &c }

type DepthStencil1Subobject struct {
	podSubobject
	Desc DepthStencilDesc1
}

func (s *DepthStencil1Subobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectDepthStencil1
}
func (s *DepthStencil1Subobject) putInner(w *codec.Writer) { codec.PutPOD(w, &s.Desc) }
func (s *DepthStencil1Subobject) getInner(r *codec.Reader) { codec.GetPOD(r, &s.Desc) }
func (s *DepthStencil1Subobject) clone(*codec.Arena) PipelineSubobject { c := *s; return &c }

type RenderTargetFormatsSubobject struct {
	podSubobject
	Formats RTFormatArray
}

func (s *RenderTargetFormatsSubobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectRenderTargetFormats
}
func (s *RenderTargetFormatsSubobject) putInner(w *codec.Writer) { codec.PutPOD(w, &s.Formats) }
func (s *RenderTargetFormatsSubobject) getInner(r *codec.Reader) { codec.GetPOD(r, &s.Formats) }
func (s *RenderTargetFormatsSubobject) clone(*codec.Arena) PipelineSubobject { c := *s; return &c }

type SampleDescSubobject struct {
	podSubobject
	Desc SampleDesc
}

func (s *SampleDescSubobject) SubobjectType() PipelineSubobjectType {
	return PipelineSubobjectSampleDesc
}
func (s *SampleDescSubobject) putInner(w *codec.Writer) { codec.PutPOD(w, &s.Desc) }
func (s *SampleDescSubobject) getInner(r *codec.Reader) { codec.GetPOD(r, &s.Desc) }
func (s *SampleDescSubobject) clone(*codec.Arena) PipelineSubobject { c := *s; return &c }

// ScalarSubobject carries the single 32-bit value of the sample mask,
// strip cut value, primitive topology, depth stencil format, node mask and
// flags subobjects.
type ScalarSubobject struct {
	podSubobject
	Type  PipelineSubobjectType
	Value uint32
}

func (s *ScalarSubobject) SubobjectType() PipelineSubobjectType { return s.Type }
func (s *ScalarSubobject) putInner(w *codec.Writer) { w.U32(s.Value) }
func (s *ScalarSubobject) getInner(r *codec.Reader) { s.Value = r.U32() }
func (s *ScalarSubobject) clone(*codec.Arena) PipelineSubobject { c := *s; return &c }
