package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

// AccelerationStructureType is D3D12_RAYTRACING_ACCELERATION_STRUCTURE_TYPE.
type AccelerationStructureType uint32

const (
	AccelerationStructureTopLevel AccelerationStructureType = iota
	AccelerationStructureBottomLevel
)

// ElementsLayout is D3D12_ELEMENTS_LAYOUT.
type ElementsLayout uint32

const (
	ElementsLayoutArray ElementsLayout = iota
	ElementsLayoutArrayOfPointers
)

// GeometryType is D3D12_RAYTRACING_GEOMETRY_TYPE.
type GeometryType uint32

const (
	GeometryTriangles GeometryType = iota
	GeometryProceduralAABBs
)

// GPUAddressAndStride is D3D12_GPU_VIRTUAL_ADDRESS_AND_STRIDE.
type GPUAddressAndStride struct {
	StartAddress  codec.GPUAddress
	StrideInBytes uint64
}

type GeometryTrianglesDesc struct {
	Transform3x4 codec.GPUAddress
	IndexFormat  Format
	VertexFormat Format
	IndexCount   uint32
	VertexCount  uint32
	IndexBuffer  codec.GPUAddress
	VertexBuffer GPUAddressAndStride
}

type GeometryAABBsDesc struct {
	AABBCount uint64
	AABBs     GPUAddressAndStride
}

// GeometryDesc is D3D12_RAYTRACING_GEOMETRY_DESC, a tagged union on Type.
type GeometryDesc struct {
	Type      GeometryType
	Flags     uint32
	Triangles GeometryTrianglesDesc
	AABBs     GeometryAABBsDesc
}

const geometryDescSize = 56

func (g *GeometryDesc) put(w *codec.Writer) {
	w.U32(uint32(g.Type))
	w.U32(g.Flags)
	switch g.Type {
	case GeometryTriangles:
		t := &g.Triangles
		w.U64(t.Transform3x4.Value)
		w.U32(uint32(t.IndexFormat))
		w.U32(uint32(t.VertexFormat))
		w.U32(t.IndexCount)
		w.U32(t.VertexCount)
		w.U64(t.IndexBuffer.Value)
		w.U64(t.VertexBuffer.StartAddress.Value)
		w.U64(t.VertexBuffer.StrideInBytes)
	case GeometryProceduralAABBs:
		w.U64(g.AABBs.AABBCount)
		w.U64(g.AABBs.AABBs.StartAddress.Value)
		w.U64(g.AABBs.AABBs.StrideInBytes)
		w.Zero(24)
	default:
		w.Fail(errors.InvalidVariant(errors.PhaseEncode, "GeometryDesc", uint32(g.Type)))
	}
}

func (g *GeometryDesc) get(r *codec.Reader) {
	g.Type = GeometryType(r.U32())
	g.Flags = r.U32()
	switch g.Type {
	case GeometryTriangles:
		t := &g.Triangles
		t.Transform3x4.Value = r.U64()
		t.IndexFormat = Format(r.U32())
		t.VertexFormat = Format(r.U32())
		t.IndexCount = r.U32()
		t.VertexCount = r.U32()
		t.IndexBuffer.Value = r.U64()
		t.VertexBuffer.StartAddress.Value = r.U64()
		t.VertexBuffer.StrideInBytes = r.U64()
	case GeometryProceduralAABBs:
		g.AABBs.AABBCount = r.U64()
		g.AABBs.AABBs.StartAddress.Value = r.U64()
		g.AABBs.AABBs.StrideInBytes = r.U64()
		r.Skip(24)
	default:
		if r.Err() == nil {
			r.Fail(errors.InvalidVariant(errors.PhaseDecode, "GeometryDesc", uint32(g.Type)))
		}
	}
}

func (g *GeometryDesc) addresses() []*codec.GPUAddress {
	switch g.Type {
	case GeometryTriangles:
		t := &g.Triangles
		return []*codec.GPUAddress{&t.Transform3x4, &t.IndexBuffer, &t.VertexBuffer.StartAddress}
	case GeometryProceduralAABBs:
		return []*codec.GPUAddress{&g.AABBs.AABBs.StartAddress}
	}
	return nil
}

// BuildRaytracingAccelerationStructureInputs is
// D3D12_BUILD_RAYTRACING_ACCELERATION_STRUCTURE_INPUTS. Top-level inputs
// use InstanceDescs; bottom-level inputs use Geometries, whose null state
// is a nil slice.
type BuildRaytracingAccelerationStructureInputs struct {
	Type          AccelerationStructureType
	Flags         uint32
	NumDescs      uint32
	DescsLayout   ElementsLayout
	InstanceDescs codec.GPUAddress
	Geometries    []GeometryDesc
}

type inputsHeader struct {
	geometries bool
}

func (in *BuildRaytracingAccelerationStructureInputs) putHeader(w *codec.Writer) {
	w.U32(uint32(in.Type))
	w.U32(in.Flags)
	w.U32(in.NumDescs)
	w.U32(uint32(in.DescsLayout))
	switch in.Type {
	case AccelerationStructureTopLevel:
		w.U64(in.InstanceDescs.Value)
	case AccelerationStructureBottomLevel:
		w.Sentinel(in.Geometries != nil, 0)
	default:
		w.Fail(errors.InvalidVariant(errors.PhaseEncode, "AccelerationStructureType", uint32(in.Type)))
	}
}

func (in *BuildRaytracingAccelerationStructureInputs) getHeader(r *codec.Reader) inputsHeader {
	var h inputsHeader
	in.Type = AccelerationStructureType(r.U32())
	in.Flags = r.U32()
	in.NumDescs = r.U32()
	in.DescsLayout = ElementsLayout(r.U32())
	switch in.Type {
	case AccelerationStructureTopLevel:
		in.InstanceDescs.Value = r.U64()
	case AccelerationStructureBottomLevel:
		_, h.geometries = r.Sentinel()
	default:
		if r.Err() == nil {
			r.Fail(errors.InvalidVariant(errors.PhaseDecode, "AccelerationStructureType", uint32(in.Type)))
		}
	}
	return h
}

func (in *BuildRaytracingAccelerationStructureInputs) putTrailing(w *codec.Writer) {
	if in.Type == AccelerationStructureTopLevel {
		codec.PutAddressTable(w, in.InstanceDescs)
		return
	}
	if in.Geometries == nil {
		return
	}
	if int(in.NumDescs) != len(in.Geometries) {
		w.Fail(errors.InvalidInput(errors.PhaseEncode, "NumDescs does not match the geometry count"))
		return
	}
	switch in.DescsLayout {
	case ElementsLayoutArray:
	case ElementsLayoutArrayOfPointers:
		for range in.Geometries {
			w.Sentinel(true, 0)
		}
	default:
		w.Fail(errors.InvalidVariant(errors.PhaseEncode, "ElementsLayout", uint32(in.DescsLayout)))
		return
	}
	var addrs []*codec.GPUAddress
	for i := range in.Geometries {
		in.Geometries[i].put(w)
		addrs = append(addrs, in.Geometries[i].addresses()...)
	}
	putAddresses(w, addrs)
}

func (in *BuildRaytracingAccelerationStructureInputs) getTrailing(r *codec.Reader, h inputsHeader) {
	in.Geometries = nil
	if in.Type == AccelerationStructureTopLevel {
		codec.GetAddressTable(r, &in.InstanceDescs)
		return
	}
	if !h.geometries || r.Err() != nil {
		return
	}
	switch in.DescsLayout {
	case ElementsLayoutArray:
		in.Geometries = make([]GeometryDesc, r.CheckCount(in.NumDescs, geometryDescSize))
	case ElementsLayoutArrayOfPointers:
		in.Geometries = make([]GeometryDesc, r.CheckCount(in.NumDescs, codec.PointerSize+geometryDescSize))
		for i := range in.Geometries {
			if _, ok := r.Sentinel(); !ok && r.Err() == nil {
				r.Failf("geometry pointer %d is null", i)
			}
		}
	default:
		r.Fail(errors.InvalidVariant(errors.PhaseDecode, "ElementsLayout", uint32(in.DescsLayout)))
		return
	}
	var addrs []*codec.GPUAddress
	for i := range in.Geometries {
		in.Geometries[i].get(r)
		addrs = append(addrs, in.Geometries[i].addresses()...)
	}
	codec.GetAddressTable(r, addrs...)
}

func (in *BuildRaytracingAccelerationStructureInputs) Encode(w *codec.Writer) {
	in.putHeader(w)
	in.putTrailing(w)
}

func (in *BuildRaytracingAccelerationStructureInputs) Decode(r *codec.Reader) {
	in.getTrailing(r, in.getHeader(r))
}

func (in BuildRaytracingAccelerationStructureInputs) Clone(a *codec.Arena) BuildRaytracingAccelerationStructureInputs {
	in.Geometries = codec.CloneSlice(a, in.Geometries)
	return in
}

// BuildRaytracingAccelerationStructureDesc is
// D3D12_BUILD_RAYTRACING_ACCELERATION_STRUCTURE_DESC.
type BuildRaytracingAccelerationStructureDesc struct {
	DestAccelerationStructureData    codec.GPUAddress
	Inputs                           BuildRaytracingAccelerationStructureInputs
	SourceAccelerationStructureData  codec.GPUAddress
	ScratchAccelerationStructureData codec.GPUAddress
}

func (d *BuildRaytracingAccelerationStructureDesc) addresses() []*codec.GPUAddress {
	return []*codec.GPUAddress{
		&d.DestAccelerationStructureData,
		&d.SourceAccelerationStructureData,
		&d.ScratchAccelerationStructureData,
	}
}

func (d *BuildRaytracingAccelerationStructureDesc) Encode(w *codec.Writer) {
	w.U64(d.DestAccelerationStructureData.Value)
	d.Inputs.putHeader(w)
	w.U64(d.SourceAccelerationStructureData.Value)
	w.U64(d.ScratchAccelerationStructureData.Value)
	d.Inputs.putTrailing(w)
	putAddresses(w, d.addresses())
}

func (d *BuildRaytracingAccelerationStructureDesc) Decode(r *codec.Reader) {
	d.DestAccelerationStructureData.Value = r.U64()
	h := d.Inputs.getHeader(r)
	d.SourceAccelerationStructureData.Value = r.U64()
	d.ScratchAccelerationStructureData.Value = r.U64()
	d.Inputs.getTrailing(r, h)
	codec.GetAddressTable(r, d.addresses()...)
}

func (d BuildRaytracingAccelerationStructureDesc) Clone(a *codec.Arena) BuildRaytracingAccelerationStructureDesc {
	d.Inputs = d.Inputs.Clone(a)
	return d
}

// PostbuildInfoDesc is
// D3D12_RAYTRACING_ACCELERATION_STRUCTURE_POSTBUILD_INFO_DESC.
type PostbuildInfoDesc struct {
	DestBuffer codec.GPUAddress
	InfoType   uint32
}

func (d *PostbuildInfoDesc) putHeader(w *codec.Writer) {
	w.U64(d.DestBuffer.Value)
	w.U32(d.InfoType)
	w.Zero(4)
}

func (d *PostbuildInfoDesc) getHeader(r *codec.Reader) {
	d.DestBuffer.Value = r.U64()
	d.InfoType = r.U32()
	r.Skip(4)
}

func (d *PostbuildInfoDesc) addresses() []*codec.GPUAddress {
	return []*codec.GPUAddress{&d.DestBuffer}
}

type PostbuildInfoDescs = DescArray[PostbuildInfoDesc, *PostbuildInfoDesc]

// GPUAddressRange is D3D12_GPU_VIRTUAL_ADDRESS_RANGE.
type GPUAddressRange struct {
	StartAddress codec.GPUAddress
	SizeInBytes  uint64
}

// GPUAddressRangeAndStride is D3D12_GPU_VIRTUAL_ADDRESS_RANGE_AND_STRIDE.
type GPUAddressRangeAndStride struct {
	StartAddress  codec.GPUAddress
	SizeInBytes   uint64
	StrideInBytes uint64
}

// DispatchRaysDesc is D3D12_DISPATCH_RAYS_DESC.
type DispatchRaysDesc struct {
	RayGenerationShaderRecord GPUAddressRange
	MissShaderTable           GPUAddressRangeAndStride
	HitGroupTable             GPUAddressRangeAndStride
	CallableShaderTable       GPUAddressRangeAndStride
	Width                     uint32
	Height                    uint32
	Depth                     uint32
}

func (d *DispatchRaysDesc) putHeader(w *codec.Writer) {
	w.U64(d.RayGenerationShaderRecord.StartAddress.Value)
	w.U64(d.RayGenerationShaderRecord.SizeInBytes)
	for _, t := range d.tables() {
		w.U64(t.StartAddress.Value)
		w.U64(t.SizeInBytes)
		w.U64(t.StrideInBytes)
	}
	w.U32(d.Width)
	w.U32(d.Height)
	w.U32(d.Depth)
	w.Zero(4)
}

func (d *DispatchRaysDesc) getHeader(r *codec.Reader) {
	d.RayGenerationShaderRecord.StartAddress.Value = r.U64()
	d.RayGenerationShaderRecord.SizeInBytes = r.U64()
	for _, t := range d.tables() {
		t.StartAddress.Value = r.U64()
		t.SizeInBytes = r.U64()
		t.StrideInBytes = r.U64()
	}
	d.Width = r.U32()
	d.Height = r.U32()
	d.Depth = r.U32()
	r.Skip(4)
}

func (d *DispatchRaysDesc) tables() [3]*GPUAddressRangeAndStride {
	return [3]*GPUAddressRangeAndStride{&d.MissShaderTable, &d.HitGroupTable, &d.CallableShaderTable}
}

func (d *DispatchRaysDesc) addresses() []*codec.GPUAddress {
	return []*codec.GPUAddress{
		&d.RayGenerationShaderRecord.StartAddress,
		&d.MissShaderTable.StartAddress,
		&d.HitGroupTable.StartAddress,
		&d.CallableShaderTable.StartAddress,
	}
}

func (d *DispatchRaysDesc) Encode(w *codec.Writer) { encodeElement(w, d) }
func (d *DispatchRaysDesc) Decode(r *codec.Reader) { decodeElement(r, d) }
func (d DispatchRaysDesc) Clone(*codec.Arena) DispatchRaysDesc { return d }
