package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
)

// GraphicsPipelineStateDesc is D3D12_GRAPHICS_PIPELINE_STATE_DESC. The
// root signature is referenced by key; zero is the null pointer.
type GraphicsPipelineStateDesc struct {
	RootSignature         codec.Key
	VS, PS, DS, HS, GS    ShaderBytecode
	StreamOutput          StreamOutputDesc
	BlendState            BlendDesc
	SampleMask            uint32
	RasterizerState       RasterizerDesc
	DepthStencilState     DepthStencilDesc
	InputLayout           InputLayoutDesc
	IBStripCutValue       uint32
	PrimitiveTopologyType uint32
	NumRenderTargets      uint32
	RTVFormats            [8]Format
	DSVFormat             Format
	SampleDesc            SampleDesc
	NodeMask              uint32
	CachedPSO             CachedPipelineState
	Flags                 uint32
}

func (d *GraphicsPipelineStateDesc) shaders() [5]*ShaderBytecode {
	return [5]*ShaderBytecode{&d.VS, &d.PS, &d.DS, &d.HS, &d.GS}
}

func (d *GraphicsPipelineStateDesc) Encode(w *codec.Writer) {
	w.Sentinel(d.RootSignature != 0, 0)
	for _, s := range d.shaders() {
		s.putHeader(w)
	}
	d.StreamOutput.putHeader(w)
	codec.PutPOD(w, &d.BlendState)
	w.U32(d.SampleMask)
	codec.PutPOD(w, &d.RasterizerState)
	codec.PutPOD(w, &d.DepthStencilState)
	w.Zero(4)
	d.InputLayout.putHeader(w)
	w.U32(d.IBStripCutValue)
	w.U32(d.PrimitiveTopologyType)
	w.U32(d.NumRenderTargets)
	codec.PutPOD(w, &d.RTVFormats)
	w.U32(uint32(d.DSVFormat))
	codec.PutPOD(w, &d.SampleDesc)
	w.U32(d.NodeMask)
	w.Zero(4)
	d.CachedPSO.putHeader(w)
	w.U32(d.Flags)
	w.Zero(4)

	for _, s := range d.shaders() {
		s.putTrailing(w)
	}
	d.StreamOutput.putTrailing(w)
	d.InputLayout.putTrailing(w)
	d.CachedPSO.putTrailing(w)
	w.U32(uint32(d.RootSignature))
}

func (d *GraphicsPipelineStateDesc) Decode(r *codec.Reader) {
	r.Sentinel()
	var shaders [5]blobHeader
	for i := range shaders {
		shaders[i] = getBlobHeader(r)
	}
	so := d.StreamOutput.getHeader(r)
	codec.GetPOD(r, &d.BlendState)
	d.SampleMask = r.U32()
	codec.GetPOD(r, &d.RasterizerState)
	codec.GetPOD(r, &d.DepthStencilState)
	r.Skip(4)
	il := d.InputLayout.getHeader(r)
	d.IBStripCutValue = r.U32()
	d.PrimitiveTopologyType = r.U32()
	d.NumRenderTargets = r.U32()
	codec.GetPOD(r, &d.RTVFormats)
	d.DSVFormat = Format(r.U32())
	codec.GetPOD(r, &d.SampleDesc)
	d.NodeMask = r.U32()
	r.Skip(4)
	cached := d.CachedPSO.getHeader(r)
	d.Flags = r.U32()
	r.Skip(4)

	for i, s := range d.shaders() {
		s.Code = getBlob(r, shaders[i])
	}
	d.StreamOutput.getTrailing(r, so)
	d.InputLayout.getTrailing(r, il)
	d.CachedPSO.getTrailing(r, cached)
	d.RootSignature = codec.Key(r.U32())
}

func (d GraphicsPipelineStateDesc) Clone(a *codec.Arena) GraphicsPipelineStateDesc {
	for _, s := range d.shaders() {
		*s = s.Clone(a)
	}
	d.StreamOutput = d.StreamOutput.Clone(a)
	d.InputLayout = d.InputLayout.Clone(a)
	d.CachedPSO = d.CachedPSO.Clone(a)
	return d
}

// ComputePipelineStateDesc is D3D12_COMPUTE_PIPELINE_STATE_DESC.
type ComputePipelineStateDesc struct {
	RootSignature codec.Key
	CS            ShaderBytecode
	NodeMask      uint32
	CachedPSO     CachedPipelineState
	Flags         uint32
}

func (d *ComputePipelineStateDesc) Encode(w *codec.Writer) {
	w.Sentinel(d.RootSignature != 0, 0)
	d.CS.putHeader(w)
	w.U32(d.NodeMask)
	w.Zero(4)
	d.CachedPSO.putHeader(w)
	w.U32(d.Flags)
	w.Zero(4)

	d.CS.putTrailing(w)
	d.CachedPSO.putTrailing(w)
	w.U32(uint32(d.RootSignature))
}

func (d *ComputePipelineStateDesc) Decode(r *codec.Reader) {
	r.Sentinel()
	cs := getBlobHeader(r)
	d.NodeMask = r.U32()
	r.Skip(4)
	cached := d.CachedPSO.getHeader(r)
	d.Flags = r.U32()
	r.Skip(4)

	d.CS.Code = getBlob(r, cs)
	d.CachedPSO.getTrailing(r, cached)
	d.RootSignature = codec.Key(r.U32())
}

func (d ComputePipelineStateDesc) Clone(a *codec.Arena) ComputePipelineStateDesc {
	d.CS = d.CS.Clone(a)
	d.CachedPSO = d.CachedPSO.Clone(a)
	return d
}
