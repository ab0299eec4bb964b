package d3d12

import (
	"math"

	"github.com/wippyai/d3d12-capture/codec"
)

// Bool is the Win32 BOOL, a 32-bit integer.
type Bool int32

// Format is a DXGI_FORMAT value.
type Format uint32

// GUID is a COM interface or class identifier.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// SampleDesc is DXGI_SAMPLE_DESC.
type SampleDesc struct {
	Count   uint32
	Quality uint32
}

type RenderTargetBlendDesc struct {
	BlendEnable           Bool
	LogicOpEnable         Bool
	SrcBlend              uint32
	DestBlend             uint32
	BlendOp               uint32
	SrcBlendAlpha         uint32
	DestBlendAlpha        uint32
	BlendOpAlpha          uint32
	LogicOp               uint32
	RenderTargetWriteMask uint8
	_                     [3]byte
}

type BlendDesc struct {
	AlphaToCoverageEnable  Bool
	IndependentBlendEnable Bool
	RenderTarget           [8]RenderTargetBlendDesc
}

type RasterizerDesc struct {
	FillMode              uint32
	CullMode              uint32
	FrontCounterClockwise Bool
	DepthBias             int32
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       Bool
	MultisampleEnable     Bool
	AntialiasedLineEnable Bool
	ForcedSampleCount     uint32
	ConservativeRaster    uint32
}

type DepthStencilOpDesc struct {
	StencilFailOp      uint32
	StencilDepthFailOp uint32
	StencilPassOp      uint32
	StencilFunc        uint32
}

type DepthStencilDesc struct {
	DepthEnable      Bool
	DepthWriteMask   uint32
	DepthFunc        uint32
	StencilEnable    Bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	_                [2]byte
	FrontFace        DepthStencilOpDesc
	BackFace         DepthStencilOpDesc
}

type DepthStencilDesc1 struct {
	DepthStencilDesc
	DepthBoundsTestEnable Bool
}

// RTFormatArray is D3D12_RT_FORMAT_ARRAY.
type RTFormatArray struct {
	RTFormats        [8]Format
	NumRenderTargets uint32
}

type HeapProperties struct {
	Type                 uint32
	CPUPageProperty      uint32
	MemoryPoolPreference uint32
	CreationNodeMask     uint32
	VisibleNodeMask      uint32
}

type ResourceDesc struct {
	Dimension        uint32
	_                [4]byte
	Alignment        uint64
	Width            uint64
	Height           uint32
	DepthOrArraySize uint16
	MipLevels        uint16
	Format           Format
	SampleDesc       SampleDesc
	Layout           uint32
	Flags            uint32
	_                [4]byte
}

// ClearValue is D3D12_CLEAR_VALUE. The union holds either a color or a
// depth/stencil pair; see DepthStencil.
type ClearValue struct {
	Format Format
	Color  [4]float32
}

// DepthStencil returns the union interpreted as D3D12_DEPTH_STENCIL_VALUE.
func (c ClearValue) DepthStencil() (depth float32, stencil uint8) {
	return c.Color[0], uint8(math.Float32bits(c.Color[1]))
}

// SetDepthStencil stores a depth/stencil clear value in the union.
func (c *ClearValue) SetDepthStencil(depth float32, stencil uint8) {
	c.Color = [4]float32{depth, math.Float32frombits(uint32(stencil)), 0, 0}
}

type DescriptorHeapDesc struct {
	Type           uint32
	NumDescriptors uint32
	Flags          uint32
	NodeMask       uint32
}

type Box struct {
	Left   uint32
	Top    uint32
	Front  uint32
	Right  uint32
	Bottom uint32
	Back   uint32
}

type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// Range is D3D12_RANGE; both ends are SIZE_T.
type Range struct {
	Begin uint64
	End   uint64
}

type SamplerDesc struct {
	Filter         uint32
	AddressU       uint32
	AddressV       uint32
	AddressW       uint32
	MipLODBias     float32
	MaxAnisotropy  uint32
	ComparisonFunc uint32
	BorderColor    [4]float32
	MinLOD         float32
	MaxLOD         float32
}

type UnorderedAccessViewDesc struct {
	Format        Format
	ViewDimension uint32
	Union         [32]byte
}

type RenderTargetViewDesc struct {
	Format        Format
	ViewDimension uint32
	Union         [16]byte
}

type DepthStencilViewDesc struct {
	Format        Format
	ViewDimension uint32
	Flags         uint32
	Union         [12]byte
}

// RaytracingAccelerationStructurePrebuildInfo is filled in by the runtime.
type RaytracingAccelerationStructurePrebuildInfo struct {
	ResultDataMaxSizeInBytes     uint64
	ScratchDataSizeInBytes       uint64
	UpdateScratchDataSizeInBytes uint64
}

// Clone methods of flat types return the value itself; they exist so flat
// and nested descriptors share one copy interface.

func (d SamplerDesc) Clone(*codec.Arena) SamplerDesc                         { return d }
func (d UnorderedAccessViewDesc) Clone(*codec.Arena) UnorderedAccessViewDesc { return d }
func (d RenderTargetViewDesc) Clone(*codec.Arena) RenderTargetViewDesc       { return d }
func (d DepthStencilViewDesc) Clone(*codec.Arena) DepthStencilViewDesc       { return d }
