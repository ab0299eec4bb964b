package command

import (
	"fmt"
	"maps"
	"slices"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

// CallID identifies an API entry point. Values are recorded in capture
// files; new calls are appended, existing values never change.
type CallID uint32

const (
	CallInvalid CallID = iota
	CallCreateGraphicsPipelineState
	CallCreateComputePipelineState
	CallCreatePipelineState
	CallCreateRootSignature
	CallCreateStateObject
	CallCreateShaderResourceView
	CallCreateConstantBufferView
	CallCreateUnorderedAccessView
	CallCreateRenderTargetView
	CallCreateDepthStencilView
	CallCreateSampler
	CallCreateCommandSignature
	CallCreateCommittedResource
	CallCreateDescriptorHeap
	CallGetRaytracingAccelerationStructurePrebuildInfo
	CallSerializeRootSignature
	CallSerializeVersionedRootSignature
	CallResourceBarrier
	CallIASetVertexBuffers
	CallIASetIndexBuffer
	CallSOSetTargets
	CallOMSetRenderTargets
	CallCopyTextureRegion
	CallSetPipelineState
	CallSetGraphicsRootDescriptorTable
	CallSetGraphicsRootConstantBufferView
	CallBuildRaytracingAccelerationStructure
	CallDispatchRays
	CallWriteBufferImmediate
	CallBeginRenderPass
	CallMap
	CallUnmap
	CallSetName
	CallAGSCreateDevice
)

type callInfo struct {
	name string
	make func() Command
}

// calls is the process-wide call table. It is never written after package
// initialization.
var calls = map[CallID]callInfo{
	CallCreateGraphicsPipelineState:                    {"ID3D12Device::CreateGraphicsPipelineState", func() Command { return new(CreateGraphicsPipelineState) }},
	CallCreateComputePipelineState:                     {"ID3D12Device::CreateComputePipelineState", func() Command { return new(CreateComputePipelineState) }},
	CallCreatePipelineState:                            {"ID3D12Device2::CreatePipelineState", func() Command { return new(CreatePipelineState) }},
	CallCreateRootSignature:                            {"ID3D12Device::CreateRootSignature", func() Command { return new(CreateRootSignature) }},
	CallCreateStateObject:                              {"ID3D12Device5::CreateStateObject", func() Command { return new(CreateStateObject) }},
	CallCreateShaderResourceView:                       {"ID3D12Device::CreateShaderResourceView", func() Command { return new(CreateShaderResourceView) }},
	CallCreateConstantBufferView:                       {"ID3D12Device::CreateConstantBufferView", func() Command { return new(CreateConstantBufferView) }},
	CallCreateUnorderedAccessView:                      {"ID3D12Device::CreateUnorderedAccessView", func() Command { return new(CreateUnorderedAccessView) }},
	CallCreateRenderTargetView:                         {"ID3D12Device::CreateRenderTargetView", func() Command { return new(CreateRenderTargetView) }},
	CallCreateDepthStencilView:                         {"ID3D12Device::CreateDepthStencilView", func() Command { return new(CreateDepthStencilView) }},
	CallCreateSampler:                                  {"ID3D12Device::CreateSampler", func() Command { return new(CreateSampler) }},
	CallCreateCommandSignature:                         {"ID3D12Device::CreateCommandSignature", func() Command { return new(CreateCommandSignature) }},
	CallCreateCommittedResource:                        {"ID3D12Device::CreateCommittedResource", func() Command { return new(CreateCommittedResource) }},
	CallCreateDescriptorHeap:                           {"ID3D12Device::CreateDescriptorHeap", func() Command { return new(CreateDescriptorHeap) }},
	CallGetRaytracingAccelerationStructurePrebuildInfo: {"ID3D12Device5::GetRaytracingAccelerationStructurePrebuildInfo", func() Command { return new(GetRaytracingAccelerationStructurePrebuildInfo) }},
	CallSerializeRootSignature:                         {"D3D12SerializeRootSignature", func() Command { return new(SerializeRootSignature) }},
	CallSerializeVersionedRootSignature:                {"D3D12SerializeVersionedRootSignature", func() Command { return new(SerializeVersionedRootSignature) }},
	CallResourceBarrier:                                {"ID3D12GraphicsCommandList::ResourceBarrier", func() Command { return new(ResourceBarrier) }},
	CallIASetVertexBuffers:                             {"ID3D12GraphicsCommandList::IASetVertexBuffers", func() Command { return new(IASetVertexBuffers) }},
	CallIASetIndexBuffer:                               {"ID3D12GraphicsCommandList::IASetIndexBuffer", func() Command { return new(IASetIndexBuffer) }},
	CallSOSetTargets:                                   {"ID3D12GraphicsCommandList::SOSetTargets", func() Command { return new(SOSetTargets) }},
	CallOMSetRenderTargets:                             {"ID3D12GraphicsCommandList::OMSetRenderTargets", func() Command { return new(OMSetRenderTargets) }},
	CallCopyTextureRegion:                              {"ID3D12GraphicsCommandList::CopyTextureRegion", func() Command { return new(CopyTextureRegion) }},
	CallSetPipelineState:                               {"ID3D12GraphicsCommandList::SetPipelineState", func() Command { return new(SetPipelineState) }},
	CallSetGraphicsRootDescriptorTable:                 {"ID3D12GraphicsCommandList::SetGraphicsRootDescriptorTable", func() Command { return new(SetGraphicsRootDescriptorTable) }},
	CallSetGraphicsRootConstantBufferView:              {"ID3D12GraphicsCommandList::SetGraphicsRootConstantBufferView", func() Command { return new(SetGraphicsRootConstantBufferView) }},
	CallBuildRaytracingAccelerationStructure:           {"ID3D12GraphicsCommandList4::BuildRaytracingAccelerationStructure", func() Command { return new(BuildRaytracingAccelerationStructure) }},
	CallDispatchRays:                                   {"ID3D12GraphicsCommandList4::DispatchRays", func() Command { return new(DispatchRays) }},
	CallWriteBufferImmediate:                           {"ID3D12GraphicsCommandList2::WriteBufferImmediate", func() Command { return new(WriteBufferImmediate) }},
	CallBeginRenderPass:                                {"ID3D12GraphicsCommandList4::BeginRenderPass", func() Command { return new(BeginRenderPass) }},
	CallMap:                                            {"ID3D12Resource::Map", func() Command { return new(Map) }},
	CallUnmap:                                          {"ID3D12Resource::Unmap", func() Command { return new(Unmap) }},
	CallSetName:                                        {"ID3D12Object::SetName", func() Command { return new(SetName) }},
	CallAGSCreateDevice:                                {"agsDriverExtensionsDX12_CreateDevice", func() Command { return new(AGSCreateDevice) }},
}

var callsByName map[string]CallID

func init() {
	callsByName = make(map[string]CallID, len(calls))
	for id, info := range calls {
		callsByName[info.name] = id
	}
}

// String returns the API name of the call.
func (id CallID) String() string {
	if info, ok := calls[id]; ok {
		return info.name
	}
	return fmt.Sprintf("CallID(%d)", uint32(id))
}

// Lookup finds a call by its API name.
func Lookup(name string) (CallID, bool) {
	id, ok := callsByName[name]
	return id, ok
}

// Calls returns every supported call id in ascending order.
func Calls() []CallID {
	return slices.Sorted(maps.Keys(calls))
}

// HRESULT is the COM status code returned by most calls.
type HRESULT int32

const (
	S_OK          HRESULT = 0
	E_INVALIDARG  HRESULT = -2147024809 // 0x80070057
	E_OUTOFMEMORY HRESULT = -2147024882 // 0x8007000E
)

// Failed reports whether hr is an error code.
func (hr HRESULT) Failed() bool { return hr < 0 }

func (hr HRESULT) String() string {
	return fmt.Sprintf("0x%08X", uint32(hr))
}

func putResult(w *codec.Writer, hr HRESULT) { w.I32(int32(hr)) }
func getResult(r *codec.Reader) HRESULT { return HRESULT(r.I32()) }

// Header is the per-record envelope every command carries.
type Header struct {
	Seq    uint64 // capture-wide sequence number
	Thread uint64 // id of the thread that issued the call
}

// Command is one captured API call: the envelope plus the call's arguments
// in declaration order and its return value, if any.
type Command interface {
	Call() CallID
	Header() *Header

	encodeArgs(w *codec.Writer)
	decodeArgs(r *codec.Reader)
	clone(a *codec.Arena) Command
}

// base carries the envelope of a concrete command.
type base struct {
	hdr Header
}

// Header returns the mutable envelope.
func (b *base) Header() *Header { return &b.hdr }

// record adapts a command to the codec entry points.
type record struct {
	cmd Command
}

func (rec record) Encode(w *codec.Writer) {
	h := rec.cmd.Header()
	w.U64(h.Seq)
	w.U64(h.Thread)
	rec.cmd.encodeArgs(w)
}

func (rec record) Decode(r *codec.Reader) {
	h := rec.cmd.Header()
	h.Seq = r.U64()
	h.Thread = r.U64()
	rec.cmd.decodeArgs(r)
}

// New returns an empty command for id.
func New(id CallID) (Command, error) {
	info, ok := calls[id]
	if !ok {
		return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Value(uint32(id)).
			Detail("unknown call id %d", uint32(id)).
			Build()
	}
	return info.make(), nil
}

// Size returns the number of bytes Encode produces for cmd.
func Size(cmd Command) int {
	return codec.Size(record{cmd})
}

// Encode serializes cmd. Missing keys behind GPU addresses and descriptor
// handles are filled in through res, which may be nil.
func Encode(cmd Command, res codec.Resolver) ([]byte, error) {
	buf, err := codec.MarshalWith(record{cmd}, res)
	if err != nil {
		return nil, errors.WithPath(err, cmd.Call().String())
	}
	return buf, nil
}

// Decode reconstructs the command recorded as id from buf. The whole buffer
// must be consumed. The result aliases buf; see Detach.
func Decode(id CallID, buf []byte) (Command, error) {
	cmd, err := New(id)
	if err != nil {
		return nil, err
	}
	if err := codec.Unmarshal(buf, record{cmd}); err != nil {
		return nil, errors.WithPath(err, id.String())
	}
	return cmd, nil
}
