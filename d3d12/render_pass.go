package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

// RenderPassBeginningAccessType is D3D12_RENDER_PASS_BEGINNING_ACCESS_TYPE.
type RenderPassBeginningAccessType uint32

const (
	BeginningAccessDiscard RenderPassBeginningAccessType = iota
	BeginningAccessPreserve
	BeginningAccessClear
	BeginningAccessNoAccess
)

// RenderPassEndingAccessType is D3D12_RENDER_PASS_ENDING_ACCESS_TYPE.
type RenderPassEndingAccessType uint32

const (
	EndingAccessDiscard RenderPassEndingAccessType = iota
	EndingAccessPreserve
	EndingAccessResolve
	EndingAccessNoAccess
)

// RenderPassBeginningAccess is D3D12_RENDER_PASS_BEGINNING_ACCESS. Clear
// is encoded only for the clear type.
type RenderPassBeginningAccess struct {
	Type  RenderPassBeginningAccessType
	Clear ClearValue
}

func (b *RenderPassBeginningAccess) put(w *codec.Writer) {
	w.U32(uint32(b.Type))
	switch b.Type {
	case BeginningAccessClear:
		codec.PutPOD(w, &b.Clear)
	case BeginningAccessDiscard, BeginningAccessPreserve, BeginningAccessNoAccess:
		w.Zero(20)
	default:
		w.Fail(errors.InvalidVariant(errors.PhaseEncode, "RenderPassBeginningAccess", uint32(b.Type)))
	}
}

func (b *RenderPassBeginningAccess) get(r *codec.Reader) {
	b.Type = RenderPassBeginningAccessType(r.U32())
	switch b.Type {
	case BeginningAccessClear:
		codec.GetPOD(r, &b.Clear)
	case BeginningAccessDiscard, BeginningAccessPreserve, BeginningAccessNoAccess:
		r.Skip(20)
	default:
		if r.Err() == nil {
			r.Fail(errors.InvalidVariant(errors.PhaseDecode, "RenderPassBeginningAccess", uint32(b.Type)))
		}
	}
}

// SubresourceParameters is
// D3D12_RENDER_PASS_ENDING_ACCESS_RESOLVE_SUBRESOURCE_PARAMETERS.
type SubresourceParameters struct {
	SrcSubresource uint32
	DstSubresource uint32
	DstX           uint32
	DstY           uint32
	SrcRect        Rect
}

const subresourceParametersSize = 32

// ResolveParameters is D3D12_RENDER_PASS_ENDING_ACCESS_RESOLVE_PARAMETERS.
type ResolveParameters struct {
	SrcResource           codec.Key
	DstResource           codec.Key
	SubresourceParameters []SubresourceParameters
	Format                Format
	ResolveMode           uint32
	PreserveResolveSource Bool
}

// RenderPassEndingAccess is D3D12_RENDER_PASS_ENDING_ACCESS. Resolve is
// encoded only for the resolve type.
type RenderPassEndingAccess struct {
	Type    RenderPassEndingAccessType
	Resolve ResolveParameters

	params struct {
		present bool
		n       uint32
	}
}

func (e *RenderPassEndingAccess) put(w *codec.Writer) {
	w.U32(uint32(e.Type))
	w.Zero(4)
	switch e.Type {
	case EndingAccessResolve:
		p := &e.Resolve
		w.Sentinel(p.SrcResource != 0, 0)
		w.Sentinel(p.DstResource != 0, 0)
		w.Count(len(p.SubresourceParameters))
		w.Zero(4)
		w.Sentinel(p.SubresourceParameters != nil, 0)
		w.U32(uint32(p.Format))
		w.U32(p.ResolveMode)
		w.U32(uint32(p.PreserveResolveSource))
		w.Zero(4)
	case EndingAccessDiscard, EndingAccessPreserve, EndingAccessNoAccess:
		w.Zero(48)
	default:
		w.Fail(errors.InvalidVariant(errors.PhaseEncode, "RenderPassEndingAccess", uint32(e.Type)))
	}
}

func (e *RenderPassEndingAccess) get(r *codec.Reader) {
	e.Type = RenderPassEndingAccessType(r.U32())
	r.Skip(4)
	switch e.Type {
	case EndingAccessResolve:
		p := &e.Resolve
		r.Sentinel()
		r.Sentinel()
		e.params.n = r.U32()
		r.Skip(4)
		_, e.params.present = r.Sentinel()
		p.Format = Format(r.U32())
		p.ResolveMode = r.U32()
		p.PreserveResolveSource = Bool(r.U32())
		r.Skip(4)
	case EndingAccessDiscard, EndingAccessPreserve, EndingAccessNoAccess:
		r.Skip(48)
	default:
		if r.Err() == nil {
			r.Fail(errors.InvalidVariant(errors.PhaseDecode, "RenderPassEndingAccess", uint32(e.Type)))
		}
	}
}

func (e *RenderPassEndingAccess) putTrailing(w *codec.Writer) {
	if e.Type != EndingAccessResolve {
		return
	}
	p := &e.Resolve
	w.U32(uint32(p.SrcResource))
	w.U32(uint32(p.DstResource))
	if p.SubresourceParameters != nil {
		codec.PutPOD(w, p.SubresourceParameters)
	}
}

func (e *RenderPassEndingAccess) getTrailing(r *codec.Reader) {
	if e.Type != EndingAccessResolve {
		return
	}
	p := &e.Resolve
	p.SrcResource = codec.Key(r.U32())
	p.DstResource = codec.Key(r.U32())
	p.SubresourceParameters = nil
	if e.params.present {
		p.SubresourceParameters = make([]SubresourceParameters, r.CheckCount(e.params.n, subresourceParametersSize))
		codec.GetPOD(r, p.SubresourceParameters)
	}
	e.params.present, e.params.n = false, 0
}

func (e *RenderPassEndingAccess) cloneNested(a *codec.Arena) {
	e.Resolve.SubresourceParameters = codec.CloneSlice(a, e.Resolve.SubresourceParameters)
}

// RenderPassRenderTargetDesc is D3D12_RENDER_PASS_RENDER_TARGET_DESC.
type RenderPassRenderTargetDesc struct {
	CPUDescriptor   codec.CPUHandle
	BeginningAccess RenderPassBeginningAccess
	EndingAccess    RenderPassEndingAccess
}

func (d *RenderPassRenderTargetDesc) putHeader(w *codec.Writer) {
	w.U64(d.CPUDescriptor.Ptr)
	d.BeginningAccess.put(w)
	d.EndingAccess.put(w)
}

func (d *RenderPassRenderTargetDesc) getHeader(r *codec.Reader) {
	d.CPUDescriptor.Ptr = r.U64()
	d.BeginningAccess.get(r)
	d.EndingAccess.get(r)
}

func (d *RenderPassRenderTargetDesc) putTrailing(w *codec.Writer) {
	codec.PutHandlePair(w, d.CPUDescriptor)
	d.EndingAccess.putTrailing(w)
}

func (d *RenderPassRenderTargetDesc) getTrailing(r *codec.Reader) {
	codec.GetHandlePair(r, &d.CPUDescriptor)
	d.EndingAccess.getTrailing(r)
}

func (d *RenderPassRenderTargetDesc) cloneNested(a *codec.Arena) {
	d.EndingAccess.cloneNested(a)
}

type RenderPassRenderTargets = DescArray[RenderPassRenderTargetDesc, *RenderPassRenderTargetDesc]

// RenderPassDepthStencilDesc is D3D12_RENDER_PASS_DEPTH_STENCIL_DESC.
type RenderPassDepthStencilDesc struct {
	CPUDescriptor          codec.CPUHandle
	DepthBeginningAccess   RenderPassBeginningAccess
	StencilBeginningAccess RenderPassBeginningAccess
	DepthEndingAccess      RenderPassEndingAccess
	StencilEndingAccess    RenderPassEndingAccess
}

func (d *RenderPassDepthStencilDesc) putHeader(w *codec.Writer) {
	w.U64(d.CPUDescriptor.Ptr)
	d.DepthBeginningAccess.put(w)
	d.StencilBeginningAccess.put(w)
	d.DepthEndingAccess.put(w)
	d.StencilEndingAccess.put(w)
}

func (d *RenderPassDepthStencilDesc) getHeader(r *codec.Reader) {
	d.CPUDescriptor.Ptr = r.U64()
	d.DepthBeginningAccess.get(r)
	d.StencilBeginningAccess.get(r)
	d.DepthEndingAccess.get(r)
	d.StencilEndingAccess.get(r)
}

func (d *RenderPassDepthStencilDesc) putTrailing(w *codec.Writer) {
	codec.PutHandlePair(w, d.CPUDescriptor)
	d.DepthEndingAccess.putTrailing(w)
	d.StencilEndingAccess.putTrailing(w)
}

func (d *RenderPassDepthStencilDesc) getTrailing(r *codec.Reader) {
	codec.GetHandlePair(r, &d.CPUDescriptor)
	d.DepthEndingAccess.getTrailing(r)
	d.StencilEndingAccess.getTrailing(r)
}

func (d *RenderPassDepthStencilDesc) Encode(w *codec.Writer) { encodeElement(w, d) }
func (d *RenderPassDepthStencilDesc) Decode(r *codec.Reader) { decodeElement(r, d) }

func (d RenderPassDepthStencilDesc) Clone(a *codec.Arena) RenderPassDepthStencilDesc {
	d.DepthEndingAccess.cloneNested(a)
	d.StencilEndingAccess.cloneNested(a)
	return d
}
