package d3d12

import (
	"testing"

	"github.com/wippyai/d3d12-capture/codec"
)

func TestFlatLayoutSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"BlendDesc", codec.PODSize[BlendDesc](), 328},
		{"RasterizerDesc", codec.PODSize[RasterizerDesc](), 44},
		{"DepthStencilDesc", codec.PODSize[DepthStencilDesc](), 52},
		{"DepthStencilDesc1", codec.PODSize[DepthStencilDesc1](), 56},
		{"RTFormatArray", codec.PODSize[RTFormatArray](), 36},
		{"HeapProperties", codec.PODSize[HeapProperties](), 20},
		{"ResourceDesc", codec.PODSize[ResourceDesc](), 56},
		{"ClearValue", codec.PODSize[ClearValue](), 20},
		{"DescriptorHeapDesc", codec.PODSize[DescriptorHeapDesc](), 16},
		{"SamplerDesc", codec.PODSize[SamplerDesc](), 52},
		{"UnorderedAccessViewDesc", codec.PODSize[UnorderedAccessViewDesc](), 40},
		{"RenderTargetViewDesc", codec.PODSize[RenderTargetViewDesc](), 24},
		{"DepthStencilViewDesc", codec.PODSize[DepthStencilViewDesc](), 24},
		{"PlacedSubresourceFootprint", codec.PODSize[PlacedSubresourceFootprint](), 32},
		{"IndirectArgumentDesc", codec.PODSize[IndirectArgumentDesc](), 16},
		{"SubresourceParameters", codec.PODSize[SubresourceParameters](), 32},
		{"BufferSRV", codec.PODSize[BufferSRV](), 24},
		{"GUID", codec.PODSize[GUID](), 16},
		{"Box", codec.PODSize[Box](), 24},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: size %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestEmptyDescriptorSizes(t *testing.T) {
	rtas := ShaderResourceViewDesc{ViewDimension: SRVDimensionRaytracingAccelerationStructure}
	tests := []struct {
		name string
		v    codec.Encoder
		want int
	}{
		// header plus root signature key
		{"GraphicsPipelineStateDesc", &GraphicsPipelineStateDesc{}, 656 + 4},
		{"ComputePipelineStateDesc", &ComputePipelineStateDesc{}, 56 + 4},
		{"PipelineStateStreamDesc", &PipelineStateStreamDesc{}, 16},
		{"RootSignatureDesc", &RootSignatureDesc{}, 40},
		{"VersionedRootSignatureDesc", &VersionedRootSignatureDesc{Version: RootSignatureVersion1_0}, 48},
		// header plus empty associations table
		{"StateObjectDesc", &StateObjectDesc{}, 16 + 4},
		// header plus one-entry address table
		{"ConstantBufferViewDesc", &ConstantBufferViewDesc{}, 16 + 12},
		{"ShaderResourceViewDesc", &ShaderResourceViewDesc{}, 40},
		{"ShaderResourceViewDesc/RTAS", &rtas, 40 + 12},
		{"IndexBufferView", &IndexBufferView{}, 16 + 12},
		{"TextureCopyLocation", &TextureCopyLocation{}, 48 + 4},
		{"DispatchRaysDesc", &DispatchRaysDesc{}, 104 + 4 + 16 + 16},
		{"CommandSignatureDesc", &CommandSignatureDesc{}, 24},
		{"RenderPassDepthStencilDesc", &RenderPassDepthStencilDesc{}, 168 + 8},
		{"AGSDX12ExtensionParams", &AGSDX12ExtensionParams{}, 32},
		// header, instance table, dest/source/scratch table
		{"BuildRaytracingAccelerationStructureDesc", &BuildRaytracingAccelerationStructureDesc{}, 48 + 12 + 28},
	}
	for _, tt := range tests {
		if got := codec.Size(tt.v); got != tt.want {
			t.Errorf("%s: size %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPipelineSubobjectStrides(t *testing.T) {
	tests := []struct {
		typ  PipelineSubobjectType
		want int
	}{
		{PipelineSubobjectRootSignature, 16},
		{PipelineSubobjectVS, 24},
		{PipelineSubobjectMS, 24},
		{PipelineSubobjectStreamOutput, 40},
		{PipelineSubobjectBlend, 336},
		{PipelineSubobjectSampleMask, 8},
		{PipelineSubobjectRasterizer, 48},
		{PipelineSubobjectDepthStencil, 56},
		{PipelineSubobjectInputLayout, 24},
		{PipelineSubobjectRenderTargetFormats, 40},
		{PipelineSubobjectSampleDesc, 16},
		{PipelineSubobjectCachedPSO, 24},
		{PipelineSubobjectDepthStencil1, 64},
		{PipelineSubobjectViewInstancing, 32},
		{PipelineSubobjectType(23), 0},
	}
	for _, tt := range tests {
		if got := PipelineSubobjectStride(tt.typ); got != tt.want {
			t.Errorf("stride of %d = %d, want %d", tt.typ, got, tt.want)
		}
	}
}
