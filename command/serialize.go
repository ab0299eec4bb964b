package command

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/d3d12"
)

// SerializeRootSignature records D3D12SerializeRootSignature. The output
// blobs are objects; their keys let later CreateRootSignature calls refer
// to the serialized bytes.
type SerializeRootSignature struct {
	base
	Desc      codec.Ptr[d3d12.RootSignatureDesc]
	Version   d3d12.RootSignatureVersion
	Blob      codec.ObjectOut
	ErrorBlob codec.ObjectOut
	Result    HRESULT
}

func (*SerializeRootSignature) Call() CallID { return CallSerializeRootSignature }

func (c *SerializeRootSignature) encodeArgs(w *codec.Writer) {
	codec.PutPtr(w, c.Desc)
	w.U32(uint32(c.Version))
	c.Blob.Encode(w)
	c.ErrorBlob.Encode(w)
	putResult(w, c.Result)
}

func (c *SerializeRootSignature) decodeArgs(r *codec.Reader) {
	c.Desc = codec.GetPtr[d3d12.RootSignatureDesc](r)
	c.Version = d3d12.RootSignatureVersion(r.U32())
	c.Blob.Decode(r)
	c.ErrorBlob.Decode(r)
	c.Result = getResult(r)
}

func (c *SerializeRootSignature) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = codec.ClonePtrDeep(a, c.Desc)
	return &out
}

// SerializeVersionedRootSignature records
// D3D12SerializeVersionedRootSignature.
type SerializeVersionedRootSignature struct {
	base
	Desc      codec.Ptr[d3d12.VersionedRootSignatureDesc]
	Blob      codec.ObjectOut
	ErrorBlob codec.ObjectOut
	Result    HRESULT
}

func (*SerializeVersionedRootSignature) Call() CallID { return CallSerializeVersionedRootSignature }

func (c *SerializeVersionedRootSignature) encodeArgs(w *codec.Writer) {
	codec.PutPtr(w, c.Desc)
	c.Blob.Encode(w)
	c.ErrorBlob.Encode(w)
	putResult(w, c.Result)
}

func (c *SerializeVersionedRootSignature) decodeArgs(r *codec.Reader) {
	c.Desc = codec.GetPtr[d3d12.VersionedRootSignatureDesc](r)
	c.Blob.Decode(r)
	c.ErrorBlob.Decode(r)
	c.Result = getResult(r)
}

func (c *SerializeVersionedRootSignature) clone(a *codec.Arena) Command {
	out := *c
	out.Desc = codec.ClonePtrDeep(a, c.Desc)
	return &out
}
