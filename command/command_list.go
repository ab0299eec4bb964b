package command

import (
	"fmt"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/d3d12"
	"github.com/wippyai/d3d12-capture/errors"
)

// ResourceBarrier records ID3D12GraphicsCommandList::ResourceBarrier. The
// barrier count is the array length.
type ResourceBarrier struct {
	base
	CommandList codec.Key
	Barriers    d3d12.ResourceBarriers
}

func (*ResourceBarrier) Call() CallID { return CallResourceBarrier }

func (c *ResourceBarrier) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	c.Barriers.Encode(w)
}

func (c *ResourceBarrier) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.Barriers.Decode(r)
}

func (c *ResourceBarrier) clone(a *codec.Arena) Command {
	out := *c
	out.Barriers = c.Barriers.Clone(a)
	return &out
}

// IASetVertexBuffers records ID3D12GraphicsCommandList::IASetVertexBuffers.
// A null Views array unbinds the slots.
type IASetVertexBuffers struct {
	base
	CommandList codec.Key
	StartSlot   uint32
	Views       d3d12.VertexBufferViews
}

func (*IASetVertexBuffers) Call() CallID { return CallIASetVertexBuffers }

func (c *IASetVertexBuffers) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	w.U32(c.StartSlot)
	c.Views.Encode(w)
}

func (c *IASetVertexBuffers) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.StartSlot = r.U32()
	c.Views.Decode(r)
}

func (c *IASetVertexBuffers) clone(a *codec.Arena) Command {
	out := *c
	out.Views = c.Views.Clone(a)
	return &out
}

// IASetIndexBuffer records ID3D12GraphicsCommandList::IASetIndexBuffer.
type IASetIndexBuffer struct {
	base
	CommandList codec.Key
	View        codec.Ptr[d3d12.IndexBufferView]
}

func (*IASetIndexBuffer) Call() CallID { return CallIASetIndexBuffer }

func (c *IASetIndexBuffer) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	codec.PutPtr(w, c.View)
}

func (c *IASetIndexBuffer) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.View = codec.GetPtr[d3d12.IndexBufferView](r)
}

func (c *IASetIndexBuffer) clone(a *codec.Arena) Command {
	out := *c
	out.View = c.View.Clone(a)
	return &out
}

// SOSetTargets records ID3D12GraphicsCommandList::SOSetTargets.
type SOSetTargets struct {
	base
	CommandList codec.Key
	StartSlot   uint32
	Views       d3d12.StreamOutputBufferViews
}

func (*SOSetTargets) Call() CallID { return CallSOSetTargets }

func (c *SOSetTargets) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	w.U32(c.StartSlot)
	c.Views.Encode(w)
}

func (c *SOSetTargets) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.StartSlot = r.U32()
	c.Views.Decode(r)
}

func (c *SOSetTargets) clone(a *codec.Arena) Command {
	out := *c
	out.Views = c.Views.Clone(a)
	return &out
}

// OMSetRenderTargets records ID3D12GraphicsCommandList::OMSetRenderTargets.
// When SingleHandleToDescriptorRange is set the array holds one handle
// that starts a contiguous range of NumRenderTargetDescriptors slots, so
// the count is recorded separately from the array.
type OMSetRenderTargets struct {
	base
	CommandList                   codec.Key
	NumRenderTargetDescriptors    uint32
	RenderTargetDescriptors       codec.CPUHandles
	SingleHandleToDescriptorRange d3d12.Bool
	DepthStencilDescriptor        codec.Ptr[codec.CPUHandle]
}

func (*OMSetRenderTargets) Call() CallID { return CallOMSetRenderTargets }

// expectedHandles returns how many handles the array must carry.
func (c *OMSetRenderTargets) expectedHandles() int {
	if c.NumRenderTargetDescriptors == 0 {
		return 0
	}
	if c.SingleHandleToDescriptorRange != 0 {
		return 1
	}
	return int(c.NumRenderTargetDescriptors)
}

func (c *OMSetRenderTargets) encodeArgs(w *codec.Writer) {
	if !c.RenderTargetDescriptors.IsNull() && len(c.RenderTargetDescriptors.Items) != c.expectedHandles() {
		w.Fail(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf(
			"%d render target handles for %d descriptors", len(c.RenderTargetDescriptors.Items), c.NumRenderTargetDescriptors)))
		return
	}
	c.CommandList.Encode(w)
	w.U32(c.NumRenderTargetDescriptors)
	c.RenderTargetDescriptors.Encode(w)
	w.I32(int32(c.SingleHandleToDescriptorRange))
	codec.PutPtr(w, c.DepthStencilDescriptor)
}

func (c *OMSetRenderTargets) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.NumRenderTargetDescriptors = r.U32()
	c.RenderTargetDescriptors.Decode(r)
	c.SingleHandleToDescriptorRange = d3d12.Bool(r.I32())
	c.DepthStencilDescriptor = codec.GetPtr[codec.CPUHandle](r)
	if r.Err() == nil && !c.RenderTargetDescriptors.IsNull() && len(c.RenderTargetDescriptors.Items) != c.expectedHandles() {
		r.Failf("%d render target handles for %d descriptors", len(c.RenderTargetDescriptors.Items), c.NumRenderTargetDescriptors)
	}
}

func (c *OMSetRenderTargets) clone(a *codec.Arena) Command {
	out := *c
	out.RenderTargetDescriptors = c.RenderTargetDescriptors.Clone(a)
	out.DepthStencilDescriptor = c.DepthStencilDescriptor.Clone(a)
	return &out
}

// CopyTextureRegion records ID3D12GraphicsCommandList::CopyTextureRegion.
type CopyTextureRegion struct {
	base
	CommandList codec.Key
	Dst         codec.Ptr[d3d12.TextureCopyLocation]
	DstX        uint32
	DstY        uint32
	DstZ        uint32
	Src         codec.Ptr[d3d12.TextureCopyLocation]
	SrcBox      codec.Ptr[d3d12.Box]
}

func (*CopyTextureRegion) Call() CallID { return CallCopyTextureRegion }

func (c *CopyTextureRegion) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	codec.PutPtr(w, c.Dst)
	w.U32(c.DstX)
	w.U32(c.DstY)
	w.U32(c.DstZ)
	codec.PutPtr(w, c.Src)
	codec.PutPODPtr(w, c.SrcBox)
}

func (c *CopyTextureRegion) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.Dst = codec.GetPtr[d3d12.TextureCopyLocation](r)
	c.DstX = r.U32()
	c.DstY = r.U32()
	c.DstZ = r.U32()
	c.Src = codec.GetPtr[d3d12.TextureCopyLocation](r)
	c.SrcBox = codec.GetPODPtr[d3d12.Box](r)
}

func (c *CopyTextureRegion) clone(a *codec.Arena) Command {
	out := *c
	out.Dst = c.Dst.Clone(a)
	out.Src = c.Src.Clone(a)
	out.SrcBox = c.SrcBox.Clone(a)
	return &out
}

// SetPipelineState records ID3D12GraphicsCommandList::SetPipelineState.
type SetPipelineState struct {
	base
	CommandList   codec.Key
	PipelineState codec.Key
}

func (*SetPipelineState) Call() CallID { return CallSetPipelineState }

func (c *SetPipelineState) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	c.PipelineState.Encode(w)
}

func (c *SetPipelineState) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.PipelineState.Decode(r)
}

func (c *SetPipelineState) clone(*codec.Arena) Command {
	out := *c
	return &out
}

// SetGraphicsRootDescriptorTable records the command list call of the same
// name. The base descriptor is stored as heap key and slot index.
type SetGraphicsRootDescriptorTable struct {
	base
	CommandList        codec.Key
	RootParameterIndex uint32
	BaseDescriptor     codec.GPUHandle
}

func (*SetGraphicsRootDescriptorTable) Call() CallID { return CallSetGraphicsRootDescriptorTable }

func (c *SetGraphicsRootDescriptorTable) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	w.U32(c.RootParameterIndex)
	c.BaseDescriptor.Encode(w)
}

func (c *SetGraphicsRootDescriptorTable) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.RootParameterIndex = r.U32()
	c.BaseDescriptor.Decode(r)
}

func (c *SetGraphicsRootDescriptorTable) clone(*codec.Arena) Command {
	out := *c
	return &out
}

// SetGraphicsRootConstantBufferView records the command list call of the
// same name.
type SetGraphicsRootConstantBufferView struct {
	base
	CommandList        codec.Key
	RootParameterIndex uint32
	BufferLocation     codec.GPUAddress
}

func (*SetGraphicsRootConstantBufferView) Call() CallID { return CallSetGraphicsRootConstantBufferView }

func (c *SetGraphicsRootConstantBufferView) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	w.U32(c.RootParameterIndex)
	c.BufferLocation.Encode(w)
}

func (c *SetGraphicsRootConstantBufferView) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.RootParameterIndex = r.U32()
	c.BufferLocation.Decode(r)
}

func (c *SetGraphicsRootConstantBufferView) clone(*codec.Arena) Command {
	out := *c
	return &out
}

// BuildRaytracingAccelerationStructure records
// ID3D12GraphicsCommandList4::BuildRaytracingAccelerationStructure.
type BuildRaytracingAccelerationStructure struct {
	base
	CommandList codec.Key
	Desc        codec.Ptr[d3d12.BuildRaytracingAccelerationStructureDesc]
	Postbuild   d3d12.PostbuildInfoDescs
}

func (*BuildRaytracingAccelerationStructure) Call() CallID {
	return CallBuildRaytracingAccelerationStructure
}

func (c *BuildRaytracingAccelerationStructure) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	codec.PutPtr(w, c.Desc)
	c.Postbuild.Encode(w)
}

func (c *BuildRaytracingAccelerationStructure) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.Desc = codec.GetPtr[d3d12.BuildRaytracingAccelerationStructureDesc](r)
	c.Postbuild.Decode(r)
}

func (c *BuildRaytracingAccelerationStructure) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = codec.ClonePtrDeep(a, c.Desc)
	out.Postbuild = c.Postbuild.Clone(a)
	return &out
}

// DispatchRays records ID3D12GraphicsCommandList4::DispatchRays.
type DispatchRays struct {
	base
	CommandList codec.Key
	Desc        codec.Ptr[d3d12.DispatchRaysDesc]
}

func (*DispatchRays) Call() CallID { return CallDispatchRays }

func (c *DispatchRays) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	codec.PutPtr(w, c.Desc)
}

func (c *DispatchRays) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.Desc = codec.GetPtr[d3d12.DispatchRaysDesc](r)
}

func (c *DispatchRays) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = c.Desc.Clone(a)
	return &out
}

// WriteBufferImmediate records ID3D12GraphicsCommandList2::WriteBufferImmediate.
// Modes is optional; when present it has one entry per parameter.
type WriteBufferImmediate struct {
	base
	CommandList codec.Key
	Params      d3d12.WriteBufferImmediateParameters
	Modes       codec.Array[uint32]
}

func (*WriteBufferImmediate) Call() CallID { return CallWriteBufferImmediate }

func (c *WriteBufferImmediate) encodeArgs(w *codec.Writer) {
	if !c.Modes.IsNull() && c.Modes.Len() != len(c.Params.Items) {
		w.Fail(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf(
			"%d modes for %d parameters", c.Modes.Len(), len(c.Params.Items))))
		return
	}
	c.CommandList.Encode(w)
	c.Params.Encode(w)
	codec.PutPODArray(w, c.Modes)
}

func (c *WriteBufferImmediate) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.Params.Decode(r)
	c.Modes = codec.GetPODArray[uint32](r)
	if r.Err() == nil && !c.Modes.IsNull() && c.Modes.Len() != len(c.Params.Items) {
		r.Failf("%d modes for %d parameters", c.Modes.Len(), len(c.Params.Items))
	}
}

func (c *WriteBufferImmediate) clone(a *codec.Arena) Command {
	out := *c
	out.Params = c.Params.Clone(a)
	out.Modes = c.Modes.Clone(a)
	return &out
}

// BeginRenderPass records ID3D12GraphicsCommandList4::BeginRenderPass.
type BeginRenderPass struct {
	base
	CommandList   codec.Key
	RenderTargets d3d12.RenderPassRenderTargets
	DepthStencil  codec.Ptr[d3d12.RenderPassDepthStencilDesc]
	Flags         uint32
}

func (*BeginRenderPass) Call() CallID { return CallBeginRenderPass }

func (c *BeginRenderPass) encodeArgs(w *codec.Writer) {
	c.CommandList.Encode(w)
	c.RenderTargets.Encode(w)
	codec.PutPtr(w, c.DepthStencil)
	w.U32(c.Flags)
}

func (c *BeginRenderPass) decodeArgs(r *codec.Reader) {
	c.CommandList.Decode(r)
	c.RenderTargets.Decode(r)
	c.DepthStencil = codec.GetPtr[d3d12.RenderPassDepthStencilDesc](r)
	c.Flags = r.U32()
}

func (c *BeginRenderPass) clone(a *codec.Arena) Command {
	out := *c
	out.RenderTargets = c.RenderTargets.Clone(a)
	out.DepthStencil = codec.ClonePtrDeep(a, c.DepthStencil)
	return &out
}
