package command

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/d3d12"
)

// Map records ID3D12Resource::Map. Data is an output: only whether the
// caller asked for the mapped pointer is recorded.
type Map struct {
	base
	Resource    codec.Key
	Subresource uint32
	ReadRange   codec.Ptr[d3d12.Range]
	Data        codec.Output[uint64]
	Result      HRESULT
}

func (*Map) Call() CallID { return CallMap }

func (c *Map) encodeArgs(w *codec.Writer) {
	c.Resource.Encode(w)
	w.U32(c.Subresource)
	codec.PutPODPtr(w, c.ReadRange)
	c.Data.Encode(w)
	putResult(w, c.Result)
}

func (c *Map) decodeArgs(r *codec.Reader) {
	c.Resource.Decode(r)
	c.Subresource = r.U32()
	c.ReadRange = codec.GetPODPtr[d3d12.Range](r)
	c.Data.Decode(r)
	c.Result = getResult(r)
}

func (c *Map) clone(a *codec.Arena) Command {
	out := *c
	out.ReadRange = c.ReadRange.Clone(a)
	return &out
}

// Unmap records ID3D12Resource::Unmap.
type Unmap struct {
	base
	Resource     codec.Key
	Subresource  uint32
	WrittenRange codec.Ptr[d3d12.Range]
}

func (*Unmap) Call() CallID { return CallUnmap }

func (c *Unmap) encodeArgs(w *codec.Writer) {
	c.Resource.Encode(w)
	w.U32(c.Subresource)
	codec.PutPODPtr(w, c.WrittenRange)
}

func (c *Unmap) decodeArgs(r *codec.Reader) {
	c.Resource.Decode(r)
	c.Subresource = r.U32()
	c.WrittenRange = codec.GetPODPtr[d3d12.Range](r)
}

func (c *Unmap) clone(a *codec.Arena) Command {
	out := *c
	out.WrittenRange = c.WrittenRange.Clone(a)
	return &out
}

// SetName records ID3D12Object::SetName on any object.
type SetName struct {
	base
	Object codec.Key
	Name   codec.WString
	Result HRESULT
}

func (*SetName) Call() CallID { return CallSetName }

func (c *SetName) encodeArgs(w *codec.Writer) {
	c.Object.Encode(w)
	c.Name.Encode(w)
	putResult(w, c.Result)
}

func (c *SetName) decodeArgs(r *codec.Reader) {
	c.Object.Decode(r)
	c.Name.Decode(r)
	c.Result = getResult(r)
}

func (c *SetName) clone(a *codec.Arena) Command {
	out := *c
	out.Name = c.Name.Clone(a)
	return &out
}

// AGSCreateDevice records agsDriverExtensionsDX12_CreateDevice from the AMD
// GPU Services library. The device creation parameters are flattened into
// Adapter, RIID and FeatureLevel; Result is the AGS return code.
type AGSCreateDevice struct {
	base
	Context             codec.Key
	Adapter             codec.Key
	RIID                d3d12.GUID
	FeatureLevel        uint32
	ExtensionParams     codec.Ptr[d3d12.AGSDX12ExtensionParams]
	Device              codec.ObjectOut
	ExtensionsSupported uint32
	Result              int32
}

func (*AGSCreateDevice) Call() CallID { return CallAGSCreateDevice }

func (c *AGSCreateDevice) encodeArgs(w *codec.Writer) {
	c.Context.Encode(w)
	c.Adapter.Encode(w)
	codec.PutPOD(w, &c.RIID)
	w.U32(c.FeatureLevel)
	codec.PutPtr(w, c.ExtensionParams)
	c.Device.Encode(w)
	w.U32(c.ExtensionsSupported)
	w.I32(c.Result)
}

func (c *AGSCreateDevice) decodeArgs(r *codec.Reader) {
	c.Context.Decode(r)
	c.Adapter.Decode(r)
	codec.GetPOD(r, &c.RIID)
	c.FeatureLevel = r.U32()
	c.ExtensionParams = codec.GetPtr[d3d12.AGSDX12ExtensionParams](r)
	c.Device.Decode(r)
	c.ExtensionsSupported = r.U32()
	c.Result = r.I32()
}

func (c *AGSCreateDevice) clone(a *codec.Arena) Command {
	out := *c
	out.ExtensionParams = codec.ClonePtrDeep(a, c.ExtensionParams)
	return &out
}
