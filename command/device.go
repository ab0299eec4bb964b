package command

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/d3d12"
)

// CreateGraphicsPipelineState records ID3D12Device::CreateGraphicsPipelineState.
type CreateGraphicsPipelineState struct {
	base
	Device        codec.Key
	Desc          codec.Ptr[d3d12.GraphicsPipelineStateDesc]
	RIID          d3d12.GUID
	PipelineState codec.ObjectOut
	Result        HRESULT
}

func (*CreateGraphicsPipelineState) Call() CallID { return CallCreateGraphicsPipelineState }

func (c *CreateGraphicsPipelineState) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPtr(w, c.Desc)
	codec.PutPOD(w, &c.RIID)
	c.PipelineState.Encode(w)
	putResult(w, c.Result)
}

func (c *CreateGraphicsPipelineState) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Desc = codec.GetPtr[d3d12.GraphicsPipelineStateDesc](r)
	codec.GetPOD(r, &c.RIID)
	c.PipelineState.Decode(r)
	c.Result = getResult(r)
}

func (c *CreateGraphicsPipelineState) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = codec.ClonePtrDeep(a, c.Desc)
	return &out
}

// CreateComputePipelineState records ID3D12Device::CreateComputePipelineState.
type CreateComputePipelineState struct {
	base
	Device        codec.Key
	Desc          codec.Ptr[d3d12.ComputePipelineStateDesc]
	RIID          d3d12.GUID
	PipelineState codec.ObjectOut
	Result        HRESULT
}

func (*CreateComputePipelineState) Call() CallID { return CallCreateComputePipelineState }

func (c *CreateComputePipelineState) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPtr(w, c.Desc)
	codec.PutPOD(w, &c.RIID)
	c.PipelineState.Encode(w)
	putResult(w, c.Result)
}

func (c *CreateComputePipelineState) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Desc = codec.GetPtr[d3d12.ComputePipelineStateDesc](r)
	codec.GetPOD(r, &c.RIID)
	c.PipelineState.Decode(r)
	c.Result = getResult(r)
}

func (c *CreateComputePipelineState) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = codec.ClonePtrDeep(a, c.Desc)
	return &out
}

// CreatePipelineState records ID3D12Device2::CreatePipelineState, which
// takes a pipeline state subobject stream.
type CreatePipelineState struct {
	base
	Device        codec.Key
	Desc          codec.Ptr[d3d12.PipelineStateStreamDesc]
	RIID          d3d12.GUID
	PipelineState codec.ObjectOut
	Result        HRESULT
}

func (*CreatePipelineState) Call() CallID { return CallCreatePipelineState }

func (c *CreatePipelineState) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPtr(w, c.Desc)
	codec.PutPOD(w, &c.RIID)
	c.PipelineState.Encode(w)
	putResult(w, c.Result)
}

func (c *CreatePipelineState) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Desc = codec.GetPtr[d3d12.PipelineStateStreamDesc](r)
	codec.GetPOD(r, &c.RIID)
	c.PipelineState.Decode(r)
	c.Result = getResult(r)
}

func (c *CreatePipelineState) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = codec.ClonePtrDeep(a, c.Desc)
	return &out
}

// CreateRootSignature records ID3D12Device::CreateRootSignature. The
// serialized blob and its length travel together as one buffer.
type CreateRootSignature struct {
	base
	Device        codec.Key
	NodeMask      uint32
	Blob          codec.Buffer
	RIID          d3d12.GUID
	RootSignature codec.ObjectOut
	Result        HRESULT
}

func (*CreateRootSignature) Call() CallID { return CallCreateRootSignature }

func (c *CreateRootSignature) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	w.U32(c.NodeMask)
	c.Blob.Encode(w)
	codec.PutPOD(w, &c.RIID)
	c.RootSignature.Encode(w)
	putResult(w, c.Result)
}

func (c *CreateRootSignature) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.NodeMask = r.U32()
	c.Blob.Decode(r)
	codec.GetPOD(r, &c.RIID)
	c.RootSignature.Decode(r)
	c.Result = getResult(r)
}

func (c *CreateRootSignature) clone(a *codec.Arena) Command {
	out := *c
	out.Blob = c.Blob.Clone(a)
	return &out
}

// CreateStateObject records ID3D12Device5::CreateStateObject.
type CreateStateObject struct {
	base
	Device      codec.Key
	Desc        codec.Ptr[d3d12.StateObjectDesc]
	RIID        d3d12.GUID
	StateObject codec.ObjectOut
	Result      HRESULT
}

func (*CreateStateObject) Call() CallID { return CallCreateStateObject }

func (c *CreateStateObject) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPtr(w, c.Desc)
	codec.PutPOD(w, &c.RIID)
	c.StateObject.Encode(w)
	putResult(w, c.Result)
}

func (c *CreateStateObject) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Desc = codec.GetPtr[d3d12.StateObjectDesc](r)
	codec.GetPOD(r, &c.RIID)
	c.StateObject.Decode(r)
	c.Result = getResult(r)
}

func (c *CreateStateObject) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = codec.ClonePtrDeep(a, c.Desc)
	return &out
}

// CreateCommandSignature records ID3D12Device::CreateCommandSignature.
type CreateCommandSignature struct {
	base
	Device           codec.Key
	Desc             codec.Ptr[d3d12.CommandSignatureDesc]
	RootSignature    codec.Key
	RIID             d3d12.GUID
	CommandSignature codec.ObjectOut
	Result           HRESULT
}

func (*CreateCommandSignature) Call() CallID { return CallCreateCommandSignature }

func (c *CreateCommandSignature) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPtr(w, c.Desc)
	c.RootSignature.Encode(w)
	codec.PutPOD(w, &c.RIID)
	c.CommandSignature.Encode(w)
	putResult(w, c.Result)
}

func (c *CreateCommandSignature) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Desc = codec.GetPtr[d3d12.CommandSignatureDesc](r)
	c.RootSignature.Decode(r)
	codec.GetPOD(r, &c.RIID)
	c.CommandSignature.Decode(r)
	c.Result = getResult(r)
}

func (c *CreateCommandSignature) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = codec.ClonePtrDeep(a, c.Desc)
	return &out
}

// CreateCommittedResource records ID3D12Device::CreateCommittedResource.
type CreateCommittedResource struct {
	base
	Device               codec.Key
	HeapProperties       codec.Ptr[d3d12.HeapProperties]
	HeapFlags            uint32
	Desc                 codec.Ptr[d3d12.ResourceDesc]
	InitialResourceState uint32
	OptimizedClearValue  codec.Ptr[d3d12.ClearValue]
	RIID                 d3d12.GUID
	Resource             codec.ObjectOut
	Result               HRESULT
}

func (*CreateCommittedResource) Call() CallID { return CallCreateCommittedResource }

func (c *CreateCommittedResource) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPODPtr(w, c.HeapProperties)
	w.U32(c.HeapFlags)
	codec.PutPODPtr(w, c.Desc)
	w.U32(c.InitialResourceState)
	codec.PutPODPtr(w, c.OptimizedClearValue)
	codec.PutPOD(w, &c.RIID)
	c.Resource.Encode(w)
	putResult(w, c.Result)
}

func (c *CreateCommittedResource) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.HeapProperties = codec.GetPODPtr[d3d12.HeapProperties](r)
	c.HeapFlags = r.U32()
	c.Desc = codec.GetPODPtr[d3d12.ResourceDesc](r)
	c.InitialResourceState = r.U32()
	c.OptimizedClearValue = codec.GetPODPtr[d3d12.ClearValue](r)
	codec.GetPOD(r, &c.RIID)
	c.Resource.Decode(r)
	c.Result = getResult(r)
}

func (c *CreateCommittedResource) clone(a *codec.Arena) Command {
	out := *c
	out.HeapProperties = c.HeapProperties.Clone(a)
	out.Desc = c.Desc.Clone(a)
	out.OptimizedClearValue = c.OptimizedClearValue.Clone(a)
	return &out
}

// CreateDescriptorHeap records ID3D12Device::CreateDescriptorHeap.
type CreateDescriptorHeap struct {
	base
	Device codec.Key
	Desc   codec.Ptr[d3d12.DescriptorHeapDesc]
	RIID   d3d12.GUID
	Heap   codec.ObjectOut
	Result HRESULT
}

func (*CreateDescriptorHeap) Call() CallID { return CallCreateDescriptorHeap }

func (c *CreateDescriptorHeap) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPODPtr(w, c.Desc)
	codec.PutPOD(w, &c.RIID)
	c.Heap.Encode(w)
	putResult(w, c.Result)
}

func (c *CreateDescriptorHeap) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Desc = codec.GetPODPtr[d3d12.DescriptorHeapDesc](r)
	codec.GetPOD(r, &c.RIID)
	c.Heap.Decode(r)
	c.Result = getResult(r)
}

func (c *CreateDescriptorHeap) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = c.Desc.Clone(a)
	return &out
}

// GetRaytracingAccelerationStructurePrebuildInfo records the
// ID3D12Device5 query of the same name. Info is an output; the replayed
// call writes into the decoded Value.
type GetRaytracingAccelerationStructurePrebuildInfo struct {
	base
	Device codec.Key
	Desc   codec.Ptr[d3d12.BuildRaytracingAccelerationStructureInputs]
	Info   codec.Output[d3d12.RaytracingAccelerationStructurePrebuildInfo]
}

func (*GetRaytracingAccelerationStructurePrebuildInfo) Call() CallID {
	return CallGetRaytracingAccelerationStructurePrebuildInfo
}

func (c *GetRaytracingAccelerationStructurePrebuildInfo) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPtr(w, c.Desc)
	c.Info.Encode(w)
}

func (c *GetRaytracingAccelerationStructurePrebuildInfo) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Desc = codec.GetPtr[d3d12.BuildRaytracingAccelerationStructureInputs](r)
	c.Info.Decode(r)
}

func (c *GetRaytracingAccelerationStructurePrebuildInfo) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = codec.ClonePtrDeep(a, c.Desc)
	return &out
}
