package command

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/d3d12"
)

// CreateShaderResourceView records ID3D12Device::CreateShaderResourceView.
type CreateShaderResourceView struct {
	base
	Device         codec.Key
	Resource       codec.Key
	Desc           codec.Ptr[d3d12.ShaderResourceViewDesc]
	DestDescriptor codec.CPUHandle
}

func (*CreateShaderResourceView) Call() CallID { return CallCreateShaderResourceView }

func (c *CreateShaderResourceView) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	c.Resource.Encode(w)
	codec.PutPtr(w, c.Desc)
	c.DestDescriptor.Encode(w)
}

func (c *CreateShaderResourceView) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Resource.Decode(r)
	c.Desc = codec.GetPtr[d3d12.ShaderResourceViewDesc](r)
	c.DestDescriptor.Decode(r)
}

func (c *CreateShaderResourceView) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = c.Desc.Clone(a)
	return &out
}

// CreateConstantBufferView records ID3D12Device::CreateConstantBufferView.
type CreateConstantBufferView struct {
	base
	Device         codec.Key
	Desc           codec.Ptr[d3d12.ConstantBufferViewDesc]
	DestDescriptor codec.CPUHandle
}

func (*CreateConstantBufferView) Call() CallID { return CallCreateConstantBufferView }

func (c *CreateConstantBufferView) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPtr(w, c.Desc)
	c.DestDescriptor.Encode(w)
}

func (c *CreateConstantBufferView) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Desc = codec.GetPtr[d3d12.ConstantBufferViewDesc](r)
	c.DestDescriptor.Decode(r)
}

func (c *CreateConstantBufferView) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = c.Desc.Clone(a)
	return &out
}

// CreateUnorderedAccessView records ID3D12Device::CreateUnorderedAccessView.
type CreateUnorderedAccessView struct {
	base
	Device          codec.Key
	Resource        codec.Key
	CounterResource codec.Key
	Desc            codec.Ptr[d3d12.UnorderedAccessViewDesc]
	DestDescriptor  codec.CPUHandle
}

func (*CreateUnorderedAccessView) Call() CallID { return CallCreateUnorderedAccessView }

func (c *CreateUnorderedAccessView) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	c.Resource.Encode(w)
	c.CounterResource.Encode(w)
	codec.PutPODPtr(w, c.Desc)
	c.DestDescriptor.Encode(w)
}

func (c *CreateUnorderedAccessView) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Resource.Decode(r)
	c.CounterResource.Decode(r)
	c.Desc = codec.GetPODPtr[d3d12.UnorderedAccessViewDesc](r)
	c.DestDescriptor.Decode(r)
}

func (c *CreateUnorderedAccessView) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = c.Desc.Clone(a)
	return &out
}

// CreateRenderTargetView records ID3D12Device::CreateRenderTargetView.
type CreateRenderTargetView struct {
	base
	Device         codec.Key
	Resource       codec.Key
	Desc           codec.Ptr[d3d12.RenderTargetViewDesc]
	DestDescriptor codec.CPUHandle
}

func (*CreateRenderTargetView) Call() CallID { return CallCreateRenderTargetView }

func (c *CreateRenderTargetView) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	c.Resource.Encode(w)
	codec.PutPODPtr(w, c.Desc)
	c.DestDescriptor.Encode(w)
}

func (c *CreateRenderTargetView) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Resource.Decode(r)
	c.Desc = codec.GetPODPtr[d3d12.RenderTargetViewDesc](r)
	c.DestDescriptor.Decode(r)
}

func (c *CreateRenderTargetView) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = c.Desc.Clone(a)
	return &out
}

// CreateDepthStencilView records ID3D12Device::CreateDepthStencilView.
type CreateDepthStencilView struct {
	base
	Device         codec.Key
	Resource       codec.Key
	Desc           codec.Ptr[d3d12.DepthStencilViewDesc]
	DestDescriptor codec.CPUHandle
}

func (*CreateDepthStencilView) Call() CallID { return CallCreateDepthStencilView }

func (c *CreateDepthStencilView) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	c.Resource.Encode(w)
	codec.PutPODPtr(w, c.Desc)
	c.DestDescriptor.Encode(w)
}

func (c *CreateDepthStencilView) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Resource.Decode(r)
	c.Desc = codec.GetPODPtr[d3d12.DepthStencilViewDesc](r)
	c.DestDescriptor.Decode(r)
}

func (c *CreateDepthStencilView) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = c.Desc.Clone(a)
	return &out
}

// CreateSampler records ID3D12Device::CreateSampler.
type CreateSampler struct {
	base
	Device         codec.Key
	Desc           codec.Ptr[d3d12.SamplerDesc]
	DestDescriptor codec.CPUHandle
}

func (*CreateSampler) Call() CallID { return CallCreateSampler }

func (c *CreateSampler) encodeArgs(w *codec.Writer) {
	c.Device.Encode(w)
	codec.PutPODPtr(w, c.Desc)
	c.DestDescriptor.Encode(w)
}

func (c *CreateSampler) decodeArgs(r *codec.Reader) {
	c.Device.Decode(r)
	c.Desc = codec.GetPODPtr[d3d12.SamplerDesc](r)
	c.DestDescriptor.Decode(r)
}

func (c *CreateSampler) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = c.Desc.Clone(a)
	return &out
}
