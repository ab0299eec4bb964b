package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
)

// IndirectArgumentType is D3D12_INDIRECT_ARGUMENT_TYPE.
type IndirectArgumentType uint32

const (
	IndirectArgumentDraw IndirectArgumentType = iota
	IndirectArgumentDrawIndexed
	IndirectArgumentDispatch
	IndirectArgumentVertexBufferView
	IndirectArgumentIndexBufferView
	IndirectArgumentConstant
	IndirectArgumentConstantBufferView
	IndirectArgumentShaderResourceView
	IndirectArgumentUnorderedAccessView
	IndirectArgumentDispatchRays
	IndirectArgumentDispatchMesh
)

// IndirectArgumentDesc is D3D12_INDIRECT_ARGUMENT_DESC. Data holds the
// type-specific union: a slot, a root parameter index, or the root
// parameter index, destination offset and value count of a constant.
type IndirectArgumentDesc struct {
	Type IndirectArgumentType
	Data [3]uint32
}

// CommandSignatureDesc is D3D12_COMMAND_SIGNATURE_DESC.
type CommandSignatureDesc struct {
	ByteStride    uint32
	ArgumentDescs []IndirectArgumentDesc
	NodeMask      uint32
}

const indirectArgumentSize = 16

func (d *CommandSignatureDesc) Encode(w *codec.Writer) {
	w.U32(d.ByteStride)
	w.Count(len(d.ArgumentDescs))
	w.Sentinel(d.ArgumentDescs != nil, 0)
	w.U32(d.NodeMask)
	w.Zero(4)
	if d.ArgumentDescs != nil {
		codec.PutPOD(w, d.ArgumentDescs)
	}
}

func (d *CommandSignatureDesc) Decode(r *codec.Reader) {
	d.ByteStride = r.U32()
	n := r.U32()
	_, present := r.Sentinel()
	d.NodeMask = r.U32()
	r.Skip(4)
	d.ArgumentDescs = nil
	if present {
		d.ArgumentDescs = make([]IndirectArgumentDesc, r.CheckCount(n, indirectArgumentSize))
		codec.GetPOD(r, d.ArgumentDescs)
	}
}

func (d CommandSignatureDesc) Clone(a *codec.Arena) CommandSignatureDesc {
	d.ArgumentDescs = codec.CloneSlice(a, d.ArgumentDescs)
	return d
}
