package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

// RootSignatureVersion is D3D_ROOT_SIGNATURE_VERSION.
type RootSignatureVersion uint32

const (
	RootSignatureVersion1_0 RootSignatureVersion = 0x1
	RootSignatureVersion1_1 RootSignatureVersion = 0x2
	RootSignatureVersion1_2 RootSignatureVersion = 0x3
)

// RootParameterType is D3D12_ROOT_PARAMETER_TYPE.
type RootParameterType uint32

const (
	RootParameterDescriptorTable RootParameterType = iota
	RootParameter32BitConstants
	RootParameterCBV
	RootParameterSRV
	RootParameterUAV
)

// DescriptorRange covers both D3D12_DESCRIPTOR_RANGE and
// D3D12_DESCRIPTOR_RANGE1. Flags is not encoded for version 1.0.
type DescriptorRange struct {
	RangeType                         uint32
	NumDescriptors                    uint32
	BaseShaderRegister                uint32
	RegisterSpace                     uint32
	Flags                             uint32
	OffsetInDescriptorsFromTableStart uint32
}

type RootConstants struct {
	ShaderRegister uint32
	RegisterSpace  uint32
	Num32BitValues uint32
}

// RootDescriptor covers D3D12_ROOT_DESCRIPTOR and D3D12_ROOT_DESCRIPTOR1.
type RootDescriptor struct {
	ShaderRegister uint32
	RegisterSpace  uint32
	Flags          uint32
}

// RootParameter is a tagged union on ParameterType. Ranges is used by
// descriptor tables (nil is the null pointer), Constants by 32-bit
// constants, Descriptor by the CBV, SRV and UAV types.
type RootParameter struct {
	ParameterType    RootParameterType
	Ranges           []DescriptorRange
	Constants        RootConstants
	Descriptor       RootDescriptor
	ShaderVisibility uint32
}

// StaticSamplerDesc covers D3D12_STATIC_SAMPLER_DESC and
// D3D12_STATIC_SAMPLER_DESC1. Flags is encoded for version 1.2 only.
type StaticSamplerDesc struct {
	Filter           uint32
	AddressU         uint32
	AddressV         uint32
	AddressW         uint32
	MipLODBias       float32
	MaxAnisotropy    uint32
	ComparisonFunc   uint32
	BorderColor      uint32
	MinLOD           float32
	MaxLOD           float32
	ShaderRegister   uint32
	RegisterSpace    uint32
	ShaderVisibility uint32
	Flags            uint32
}

// RootSignatureDesc is D3D12_ROOT_SIGNATURE_DESC and the body of every
// versioned root signature.
type RootSignatureDesc struct {
	Parameters     []RootParameter
	StaticSamplers []StaticSamplerDesc
	Flags          uint32
}

// rootSignatureLayout holds the element layout of one root signature
// version.
type rootSignatureLayout struct {
	rangeFlags      bool
	descriptorFlags bool
	samplerFlags    bool
}

func (l rootSignatureLayout) rangeSize() int {
	if l.rangeFlags {
		return 24
	}
	return 20
}

func (l rootSignatureLayout) samplerSize() int {
	if l.samplerFlags {
		return 56
	}
	return 52
}

var rootSignatureLayouts = map[RootSignatureVersion]rootSignatureLayout{
	RootSignatureVersion1_0: {},
	RootSignatureVersion1_1: {rangeFlags: true, descriptorFlags: true},
	RootSignatureVersion1_2: {rangeFlags: true, descriptorFlags: true, samplerFlags: true},
}

const rootParameterSize = 32

type rootSignatureHeader struct {
	params, samplers   bool
	nParams, nSamplers uint32
}

func (d *RootSignatureDesc) putHeader(w *codec.Writer) {
	w.Count(len(d.Parameters))
	w.Zero(4)
	w.Sentinel(d.Parameters != nil, 0)
	w.Count(len(d.StaticSamplers))
	w.Zero(4)
	w.Sentinel(d.StaticSamplers != nil, 0)
	w.U32(d.Flags)
	w.Zero(4)
}

func (d *RootSignatureDesc) getHeader(r *codec.Reader) rootSignatureHeader {
	var h rootSignatureHeader
	h.nParams = r.U32()
	r.Skip(4)
	_, h.params = r.Sentinel()
	h.nSamplers = r.U32()
	r.Skip(4)
	_, h.samplers = r.Sentinel()
	d.Flags = r.U32()
	r.Skip(4)
	return h
}

func (d *RootSignatureDesc) putTrailing(w *codec.Writer, l rootSignatureLayout) {
	for i := range d.Parameters {
		p := &d.Parameters[i]
		w.U32(uint32(p.ParameterType))
		w.Zero(4)
		switch p.ParameterType {
		case RootParameterDescriptorTable:
			w.Count(len(p.Ranges))
			w.Zero(4)
			w.Sentinel(p.Ranges != nil, 0)
		case RootParameter32BitConstants:
			w.U32(p.Constants.ShaderRegister)
			w.U32(p.Constants.RegisterSpace)
			w.U32(p.Constants.Num32BitValues)
			w.Zero(4)
		case RootParameterCBV, RootParameterSRV, RootParameterUAV:
			w.U32(p.Descriptor.ShaderRegister)
			w.U32(p.Descriptor.RegisterSpace)
			if l.descriptorFlags {
				w.U32(p.Descriptor.Flags)
			} else {
				w.Zero(4)
			}
			w.Zero(4)
		default:
			w.Fail(errors.InvalidVariant(errors.PhaseEncode, "RootParameter", uint32(p.ParameterType)))
			return
		}
		w.U32(p.ShaderVisibility)
		w.Zero(4)
	}
	for i := range d.Parameters {
		p := &d.Parameters[i]
		if p.ParameterType != RootParameterDescriptorTable {
			continue
		}
		for _, rg := range p.Ranges {
			w.U32(rg.RangeType)
			w.U32(rg.NumDescriptors)
			w.U32(rg.BaseShaderRegister)
			w.U32(rg.RegisterSpace)
			if l.rangeFlags {
				w.U32(rg.Flags)
			}
			w.U32(rg.OffsetInDescriptorsFromTableStart)
		}
	}
	for _, s := range d.StaticSamplers {
		w.U32(s.Filter)
		w.U32(s.AddressU)
		w.U32(s.AddressV)
		w.U32(s.AddressW)
		w.F32(s.MipLODBias)
		w.U32(s.MaxAnisotropy)
		w.U32(s.ComparisonFunc)
		w.U32(s.BorderColor)
		w.F32(s.MinLOD)
		w.F32(s.MaxLOD)
		w.U32(s.ShaderRegister)
		w.U32(s.RegisterSpace)
		w.U32(s.ShaderVisibility)
		if l.samplerFlags {
			w.U32(s.Flags)
		}
	}
}

func (d *RootSignatureDesc) getTrailing(r *codec.Reader, h rootSignatureHeader, l rootSignatureLayout) {
	d.Parameters, d.StaticSamplers = nil, nil
	var tables []tableHeader
	if h.params {
		d.Parameters = make([]RootParameter, r.CheckCount(h.nParams, rootParameterSize))
		tables = make([]tableHeader, len(d.Parameters))
		for i := range d.Parameters {
			p := &d.Parameters[i]
			p.ParameterType = RootParameterType(r.U32())
			r.Skip(4)
			switch p.ParameterType {
			case RootParameterDescriptorTable:
				tables[i].n = r.U32()
				r.Skip(4)
				_, tables[i].present = r.Sentinel()
			case RootParameter32BitConstants:
				p.Constants.ShaderRegister = r.U32()
				p.Constants.RegisterSpace = r.U32()
				p.Constants.Num32BitValues = r.U32()
				r.Skip(4)
			case RootParameterCBV, RootParameterSRV, RootParameterUAV:
				p.Descriptor.ShaderRegister = r.U32()
				p.Descriptor.RegisterSpace = r.U32()
				if l.descriptorFlags {
					p.Descriptor.Flags = r.U32()
				} else {
					r.Skip(4)
				}
				r.Skip(4)
			default:
				r.Fail(errors.InvalidVariant(errors.PhaseDecode, "RootParameter", uint32(p.ParameterType)))
				return
			}
			p.ShaderVisibility = r.U32()
			r.Skip(4)
		}
	}
	for i := range d.Parameters {
		t := tables[i]
		if d.Parameters[i].ParameterType != RootParameterDescriptorTable || !t.present {
			continue
		}
		ranges := make([]DescriptorRange, r.CheckCount(t.n, l.rangeSize()))
		for j := range ranges {
			rg := &ranges[j]
			rg.RangeType = r.U32()
			rg.NumDescriptors = r.U32()
			rg.BaseShaderRegister = r.U32()
			rg.RegisterSpace = r.U32()
			if l.rangeFlags {
				rg.Flags = r.U32()
			}
			rg.OffsetInDescriptorsFromTableStart = r.U32()
		}
		d.Parameters[i].Ranges = ranges
	}
	if h.samplers {
		d.StaticSamplers = make([]StaticSamplerDesc, r.CheckCount(h.nSamplers, l.samplerSize()))
		for i := range d.StaticSamplers {
			s := &d.StaticSamplers[i]
			s.Filter = r.U32()
			s.AddressU = r.U32()
			s.AddressV = r.U32()
			s.AddressW = r.U32()
			s.MipLODBias = r.F32()
			s.MaxAnisotropy = r.U32()
			s.ComparisonFunc = r.U32()
			s.BorderColor = r.U32()
			s.MinLOD = r.F32()
			s.MaxLOD = r.F32()
			s.ShaderRegister = r.U32()
			s.RegisterSpace = r.U32()
			s.ShaderVisibility = r.U32()
			if l.samplerFlags {
				s.Flags = r.U32()
			}
		}
	}
}

type tableHeader struct {
	present bool
	n       uint32
}

// Encode writes the version 1.0 layout.
func (d *RootSignatureDesc) Encode(w *codec.Writer) {
	l := rootSignatureLayouts[RootSignatureVersion1_0]
	d.putHeader(w)
	d.putTrailing(w, l)
}

func (d *RootSignatureDesc) Decode(r *codec.Reader) {
	h := d.getHeader(r)
	d.getTrailing(r, h, rootSignatureLayouts[RootSignatureVersion1_0])
}

func (d RootSignatureDesc) Clone(a *codec.Arena) RootSignatureDesc {
	d.Parameters = codec.CloneSlice(a, d.Parameters)
	for i := range d.Parameters {
		d.Parameters[i].Ranges = codec.CloneSlice(a, d.Parameters[i].Ranges)
	}
	d.StaticSamplers = codec.CloneSlice(a, d.StaticSamplers)
	return d
}

// VersionedRootSignatureDesc is D3D12_VERSIONED_ROOT_SIGNATURE_DESC. The
// version selects the element layout of ranges, root descriptors and
// static samplers.
type VersionedRootSignatureDesc struct {
	Version RootSignatureVersion
	Desc    RootSignatureDesc
}

func (d *VersionedRootSignatureDesc) Encode(w *codec.Writer) {
	l, ok := rootSignatureLayouts[d.Version]
	if !ok {
		w.Fail(errors.InvalidVariant(errors.PhaseEncode, "RootSignatureVersion", uint32(d.Version)))
		return
	}
	w.U32(uint32(d.Version))
	w.Zero(4)
	d.Desc.putHeader(w)
	d.Desc.putTrailing(w, l)
}

func (d *VersionedRootSignatureDesc) Decode(r *codec.Reader) {
	d.Version = RootSignatureVersion(r.U32())
	r.Skip(4)
	if r.Err() != nil {
		return
	}
	l, ok := rootSignatureLayouts[d.Version]
	if !ok {
		r.Fail(errors.InvalidVariant(errors.PhaseDecode, "RootSignatureVersion", uint32(d.Version)))
		return
	}
	h := d.Desc.getHeader(r)
	d.Desc.getTrailing(r, h, l)
}

func (d VersionedRootSignatureDesc) Clone(a *codec.Arena) VersionedRootSignatureDesc {
	return VersionedRootSignatureDesc{Version: d.Version, Desc: d.Desc.Clone(a)}
}
