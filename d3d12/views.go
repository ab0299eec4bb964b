package d3d12

import (
	"encoding/binary"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

// SRVDimension values used by the codec.
const (
	SRVDimensionBuffer                          uint32 = 1
	SRVDimensionTexture2D                       uint32 = 4
	SRVDimensionRaytracingAccelerationStructure uint32 = 11
)

// DefaultShader4ComponentMapping is D3D12_DEFAULT_SHADER_4_COMPONENT_MAPPING.
const DefaultShader4ComponentMapping uint32 = 0x1688

// ConstantBufferViewDesc is D3D12_CONSTANT_BUFFER_VIEW_DESC.
type ConstantBufferViewDesc struct {
	BufferLocation codec.GPUAddress
	SizeInBytes    uint32
}

func (d *ConstantBufferViewDesc) putHeader(w *codec.Writer) {
	w.U64(d.BufferLocation.Value)
	w.U32(d.SizeInBytes)
	w.Zero(4)
}

func (d *ConstantBufferViewDesc) getHeader(r *codec.Reader) {
	d.BufferLocation.Value = r.U64()
	d.SizeInBytes = r.U32()
	r.Skip(4)
}

func (d *ConstantBufferViewDesc) addresses() []*codec.GPUAddress {
	return []*codec.GPUAddress{&d.BufferLocation}
}

func (d *ConstantBufferViewDesc) Encode(w *codec.Writer) { encodeElement(w, d) }
func (d *ConstantBufferViewDesc) Decode(r *codec.Reader) { decodeElement(r, d) }
func (d ConstantBufferViewDesc) Clone(*codec.Arena) ConstantBufferViewDesc { return d }

// BufferSRV is D3D12_BUFFER_SRV.
type BufferSRV struct {
	FirstElement        uint64
	NumElements         uint32
	StructureByteStride uint32
	Flags               uint32
	_                   [4]byte
}

// Tex2DSRV is D3D12_TEX2D_SRV.
type Tex2DSRV struct {
	MostDetailedMip     uint32
	MipLevels           uint32
	PlaneSlice          uint32
	ResourceMinLODClamp float32
}

// ShaderResourceViewDesc is D3D12_SHADER_RESOURCE_VIEW_DESC. Union holds
// the dimension-specific member verbatim, except for acceleration
// structure views, whose GPU address is carried by Location.
type ShaderResourceViewDesc struct {
	Format                  Format
	ViewDimension           uint32
	Shader4ComponentMapping uint32
	Union                   [24]byte
	Location                codec.GPUAddress
}

// SetUnion stores a dimension-specific member, such as BufferSRV or
// Tex2DSRV, in the union.
func (d *ShaderResourceViewDesc) SetUnion(v any) error {
	clear(d.Union[:])
	if _, err := binary.Encode(d.Union[:], binary.LittleEndian, v); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "SRV union member")
	}
	return nil
}

// GetUnion reads the union as a dimension-specific member.
func (d *ShaderResourceViewDesc) GetUnion(v any) error {
	if _, err := binary.Decode(d.Union[:], binary.LittleEndian, v); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "SRV union member")
	}
	return nil
}

func (d *ShaderResourceViewDesc) isAccelerationStructure() bool {
	return d.ViewDimension == SRVDimensionRaytracingAccelerationStructure
}

func (d *ShaderResourceViewDesc) putHeader(w *codec.Writer) {
	w.U32(uint32(d.Format))
	w.U32(d.ViewDimension)
	w.U32(d.Shader4ComponentMapping)
	w.Zero(4)
	if d.isAccelerationStructure() {
		w.U64(d.Location.Value)
		w.Zero(16)
		return
	}
	w.Bytes(d.Union[:])
}

func (d *ShaderResourceViewDesc) getHeader(r *codec.Reader) {
	d.Format = Format(r.U32())
	d.ViewDimension = r.U32()
	d.Shader4ComponentMapping = r.U32()
	r.Skip(4)
	if d.isAccelerationStructure() {
		d.Location.Value = r.U64()
		r.Skip(16)
		return
	}
	copy(d.Union[:], r.Bytes(len(d.Union)))
}

func (d *ShaderResourceViewDesc) putTrailing(w *codec.Writer) {
	if d.isAccelerationStructure() {
		codec.PutAddressTable(w, d.Location)
	}
}

func (d *ShaderResourceViewDesc) getTrailing(r *codec.Reader) {
	if d.isAccelerationStructure() {
		codec.GetAddressTable(r, &d.Location)
	}
}

func (d *ShaderResourceViewDesc) Encode(w *codec.Writer) { encodeElement(w, d) }
func (d *ShaderResourceViewDesc) Decode(r *codec.Reader) { decodeElement(r, d) }
func (d ShaderResourceViewDesc) Clone(*codec.Arena) ShaderResourceViewDesc { return d }

// VertexBufferView is D3D12_VERTEX_BUFFER_VIEW.
type VertexBufferView struct {
	BufferLocation codec.GPUAddress
	SizeInBytes    uint32
	StrideInBytes  uint32
}

func (v *VertexBufferView) putHeader(w *codec.Writer) {
	w.U64(v.BufferLocation.Value)
	w.U32(v.SizeInBytes)
	w.U32(v.StrideInBytes)
}

func (v *VertexBufferView) getHeader(r *codec.Reader) {
	v.BufferLocation.Value = r.U64()
	v.SizeInBytes = r.U32()
	v.StrideInBytes = r.U32()
}

func (v *VertexBufferView) addresses() []*codec.GPUAddress {
	return []*codec.GPUAddress{&v.BufferLocation}
}

type VertexBufferViews = DescArray[VertexBufferView, *VertexBufferView]

// IndexBufferView is D3D12_INDEX_BUFFER_VIEW.
type IndexBufferView struct {
	BufferLocation codec.GPUAddress
	SizeInBytes    uint32
	Format         Format
}

func (v *IndexBufferView) putHeader(w *codec.Writer) {
	w.U64(v.BufferLocation.Value)
	w.U32(v.SizeInBytes)
	w.U32(uint32(v.Format))
}

func (v *IndexBufferView) getHeader(r *codec.Reader) {
	v.BufferLocation.Value = r.U64()
	v.SizeInBytes = r.U32()
	v.Format = Format(r.U32())
}

func (v *IndexBufferView) addresses() []*codec.GPUAddress {
	return []*codec.GPUAddress{&v.BufferLocation}
}

func (v *IndexBufferView) Encode(w *codec.Writer) { encodeElement(w, v) }
func (v *IndexBufferView) Decode(r *codec.Reader) { decodeElement(r, v) }
func (v IndexBufferView) Clone(*codec.Arena) IndexBufferView { return v }

// StreamOutputBufferView is D3D12_STREAM_OUTPUT_BUFFER_VIEW.
type StreamOutputBufferView struct {
	BufferLocation           codec.GPUAddress
	SizeInBytes              uint64
	BufferFilledSizeLocation codec.GPUAddress
}

func (v *StreamOutputBufferView) putHeader(w *codec.Writer) {
	w.U64(v.BufferLocation.Value)
	w.U64(v.SizeInBytes)
	w.U64(v.BufferFilledSizeLocation.Value)
}

func (v *StreamOutputBufferView) getHeader(r *codec.Reader) {
	v.BufferLocation.Value = r.U64()
	v.SizeInBytes = r.U64()
	v.BufferFilledSizeLocation.Value = r.U64()
}

func (v *StreamOutputBufferView) addresses() []*codec.GPUAddress {
	return []*codec.GPUAddress{&v.BufferLocation, &v.BufferFilledSizeLocation}
}

type StreamOutputBufferViews = DescArray[StreamOutputBufferView, *StreamOutputBufferView]

// WriteBufferImmediateParameter is D3D12_WRITEBUFFERIMMEDIATE_PARAMETER.
type WriteBufferImmediateParameter struct {
	Dest  codec.GPUAddress
	Value uint32
}

func (p *WriteBufferImmediateParameter) putHeader(w *codec.Writer) {
	w.U64(p.Dest.Value)
	w.U32(p.Value)
	w.Zero(4)
}

func (p *WriteBufferImmediateParameter) getHeader(r *codec.Reader) {
	p.Dest.Value = r.U64()
	p.Value = r.U32()
	r.Skip(4)
}

func (p *WriteBufferImmediateParameter) addresses() []*codec.GPUAddress {
	return []*codec.GPUAddress{&p.Dest}
}

type WriteBufferImmediateParameters = DescArray[WriteBufferImmediateParameter, *WriteBufferImmediateParameter]

// TextureCopyType is D3D12_TEXTURE_COPY_TYPE.
type TextureCopyType uint32

const (
	TextureCopySubresourceIndex TextureCopyType = iota
	TextureCopyPlacedFootprint
)

// SubresourceFootprint is D3D12_SUBRESOURCE_FOOTPRINT.
type SubresourceFootprint struct {
	Format   Format
	Width    uint32
	Height   uint32
	Depth    uint32
	RowPitch uint32
}

// PlacedSubresourceFootprint is D3D12_PLACED_SUBRESOURCE_FOOTPRINT.
type PlacedSubresourceFootprint struct {
	Offset    uint64
	Footprint SubresourceFootprint
	_         [4]byte
}

// TextureCopyLocation is D3D12_TEXTURE_COPY_LOCATION, a tagged union on
// Type. The resource is referenced by key.
type TextureCopyLocation struct {
	Resource         codec.Key
	Type             TextureCopyType
	SubresourceIndex uint32
	PlacedFootprint  PlacedSubresourceFootprint
}

func (l *TextureCopyLocation) putHeader(w *codec.Writer) {
	w.Sentinel(l.Resource != 0, 0)
	w.U32(uint32(l.Type))
	w.Zero(4)
	switch l.Type {
	case TextureCopySubresourceIndex:
		w.U32(l.SubresourceIndex)
		w.Zero(28)
	case TextureCopyPlacedFootprint:
		codec.PutPOD(w, &l.PlacedFootprint)
	default:
		w.Fail(errors.InvalidVariant(errors.PhaseEncode, "TextureCopyLocation", uint32(l.Type)))
	}
}

func (l *TextureCopyLocation) getHeader(r *codec.Reader) {
	r.Sentinel()
	l.Type = TextureCopyType(r.U32())
	r.Skip(4)
	switch l.Type {
	case TextureCopySubresourceIndex:
		l.SubresourceIndex = r.U32()
		r.Skip(28)
	case TextureCopyPlacedFootprint:
		codec.GetPOD(r, &l.PlacedFootprint)
	default:
		if r.Err() == nil {
			r.Fail(errors.InvalidVariant(errors.PhaseDecode, "TextureCopyLocation", uint32(l.Type)))
		}
	}
}

func (l *TextureCopyLocation) putTrailing(w *codec.Writer) { w.U32(uint32(l.Resource)) }
func (l *TextureCopyLocation) getTrailing(r *codec.Reader) { l.Resource = codec.Key(r.U32()) }

func (l *TextureCopyLocation) Encode(w *codec.Writer) { encodeElement(w, l) }
func (l *TextureCopyLocation) Decode(r *codec.Reader) { decodeElement(r, l) }
func (l TextureCopyLocation) Clone(*codec.Arena) TextureCopyLocation { return l }
