package d3d12

import (
	"encoding/binary"
	"testing"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

func sampleGraphicsDesc() GraphicsPipelineStateDesc {
	d := GraphicsPipelineStateDesc{
		RootSignature: 7,
		VS:            ShaderBytecode{Code: []byte{0x44, 0x58, 0x42, 0x43, 1, 2}},
		PS:            ShaderBytecode{Code: []byte{0x44, 0x58, 0x42, 0x43}},
		StreamOutput: StreamOutputDesc{
			Entries: []SODeclarationEntry{
				{Stream: 0, SemanticName: codec.NewAString("POSITION"), ComponentCount: 4},
				{Stream: 0, ComponentCount: 2, OutputSlot: 1},
			},
			BufferStrides:    []uint32{16, 8},
			RasterizedStream: 0,
		},
		SampleMask: 0xffffffff,
		InputLayout: InputLayoutDesc{Elements: []InputElementDesc{
			{SemanticName: codec.NewAString("POSITION"), Format: 6},
			{SemanticName: codec.NewAString("TEXCOORD"), SemanticIndex: 1, Format: 16, AlignedByteOffset: 12},
		}},
		PrimitiveTopologyType: 3,
		NumRenderTargets:      1,
		DSVFormat:             40,
		SampleDesc:            SampleDesc{Count: 1},
		CachedPSO:             CachedPipelineState{Blob: make([]byte, 16)},
		Flags:                 0,
	}
	d.BlendState.RenderTarget[0].RenderTargetWriteMask = 0xf
	d.BlendState.RenderTarget[0].SrcBlend = 2
	d.RasterizerState = RasterizerDesc{FillMode: 3, CullMode: 3, DepthClipEnable: 1, DepthBias: -4, SlopeScaledDepthBias: 1.5}
	d.DepthStencilState = DepthStencilDesc{DepthEnable: 1, DepthWriteMask: 1, DepthFunc: 2, StencilReadMask: 0xff, StencilWriteMask: 0xff}
	d.RTVFormats[0] = 28
	return d
}

func TestGraphicsPipelineRoundTrip(t *testing.T) {
	in := sampleGraphicsDesc()
	got := roundTrip(t, &in)

	want := sampleGraphicsDesc()
	want.CachedPSO = CachedPipelineState{RecordedSize: 16}
	assertEqual(t, *got, want)

	if got.DS.Code != nil || got.HS.Code != nil || got.GS.Code != nil {
		t.Error("absent shaders must decode as nil")
	}
}

func TestGraphicsPipelineLayout(t *testing.T) {
	in := GraphicsPipelineStateDesc{
		RootSignature: 3,
		VS:            ShaderBytecode{Code: []byte{9, 9, 9}},
	}
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 656+3+4 {
		t.Fatalf("len = %d", len(buf))
	}
	if binary.LittleEndian.Uint64(buf[0:]) == 0 {
		t.Error("root signature sentinel should be present")
	}
	if n := binary.LittleEndian.Uint64(buf[16:]); n != 3 {
		t.Errorf("VS size slot = %d, want 3", n)
	}
	if buf[656] != 9 {
		t.Error("VS bytecode should immediately follow the header")
	}
	if k := binary.LittleEndian.Uint32(buf[659:]); k != 3 {
		t.Errorf("trailing root signature key = %d", k)
	}
}

func TestComputePipelineRoundTrip(t *testing.T) {
	in := ComputePipelineStateDesc{
		RootSignature: 2,
		CS:            ShaderBytecode{Code: []byte{1, 2, 3, 4, 5}},
		NodeMask:      1,
		CachedPSO:     CachedPipelineState{Blob: []byte{7, 7}},
	}
	got := roundTrip(t, &in)
	want := in
	want.CachedPSO = CachedPipelineState{RecordedSize: 2}
	assertEqual(t, *got, want)

	empty := ComputePipelineStateDesc{CS: ShaderBytecode{Code: []byte{}}}
	got = roundTrip(t, &empty)
	if got.CS.Code == nil || len(got.CS.Code) != 0 {
		t.Errorf("zero-length bytecode decoded as %#v", got.CS.Code)
	}
}

func TestPipelineStreamCachedBlobIsDropped(t *testing.T) {
	in := PipelineStateStreamDesc{Subobjects: []PipelineSubobject{
		&RootSignatureSubobject{RootSignature: 3},
		&ShaderSubobject{Type: PipelineSubobjectVS, Bytecode: ShaderBytecode{Code: []byte{1, 2, 3, 4}}},
		&CachedPSOSubobject{Desc: CachedPipelineState{Blob: make([]byte, 128)}},
		&ScalarSubobject{Type: PipelineSubobjectFlags, Value: 0},
		&BlendSubobject{},
	}}
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	stream := 16 + 24 + 24 + 8 + 336
	if got := binary.LittleEndian.Uint64(buf); got != uint64(stream) {
		t.Fatalf("SizeInBytes = %d, want %d", got, stream)
	}
	if len(buf) != 16+stream+4+4+128 {
		t.Fatalf("len = %d", len(buf))
	}

	var got PipelineStateStreamDesc
	if err := codec.Unmarshal(buf, &got); err != nil {
		t.Fatal(err)
	}
	s, ok := got.Find(PipelineSubobjectCachedPSO)
	if !ok {
		t.Fatal("cached PSO subobject missing")
	}
	cached := s.(*CachedPSOSubobject)
	if cached.Desc.Blob != nil || cached.Desc.RecordedSize != 128 {
		t.Errorf("cached PSO = %+v, want absent with recorded size 128", cached.Desc)
	}
	rs, _ := got.Find(PipelineSubobjectRootSignature)
	if rs.(*RootSignatureSubobject).RootSignature != 3 {
		t.Error("root signature key lost")
	}
}

func TestPipelineStreamEverySubobject(t *testing.T) {
	in := PipelineStateStreamDesc{Subobjects: []PipelineSubobject{
		&RootSignatureSubobject{RootSignature: 1},
		&ShaderSubobject{Type: PipelineSubobjectAS, Bytecode: ShaderBytecode{Code: []byte{1}}},
		&ShaderSubobject{Type: PipelineSubobjectMS, Bytecode: ShaderBytecode{Code: []byte{2, 2}}},
		&ShaderSubobject{Type: PipelineSubobjectPS},
		&StreamOutputSubobject{Desc: StreamOutputDesc{
			Entries:       []SODeclarationEntry{{SemanticName: codec.NewAString("SV_Position"), ComponentCount: 4}},
			BufferStrides: []uint32{16},
		}},
		&BlendSubobject{Desc: BlendDesc{AlphaToCoverageEnable: 1}},
		&ScalarSubobject{Type: PipelineSubobjectSampleMask, Value: 0xffffffff},
		&RasterizerSubobject{Desc: RasterizerDesc{FillMode: 2, CullMode: 1}},
		&DepthStencilSubobject{Desc: DepthStencilDesc{DepthEnable: 1}},
		&InputLayoutSubobject{Desc: InputLayoutDesc{Elements: []InputElementDesc{{SemanticName: codec.NewAString("NORMAL"), Format: 6}}}},
		&ScalarSubobject{Type: PipelineSubobjectIBStripCutValue, Value: 1},
		&ScalarSubobject{Type: PipelineSubobjectPrimitiveTopology, Value: 3},
		&RenderTargetFormatsSubobject{Formats: RTFormatArray{RTFormats: [8]Format{28}, NumRenderTargets: 1}},
		&ScalarSubobject{Type: PipelineSubobjectDepthStencilFormat, Value: 40},
		&SampleDescSubobject{Desc: SampleDesc{Count: 4}},
		&ScalarSubobject{Type: PipelineSubobjectNodeMask, Value: 1},
		&CachedPSOSubobject{},
		&DepthStencil1Subobject{Desc: DepthStencilDesc1{DepthBoundsTestEnable: 1}},
		&ViewInstancingSubobject{Desc: ViewInstancingDesc{Locations: []ViewInstanceLocation{{0, 1}, {1, 0}}}},
		&InputLayoutSubobject{},
	}}
	got := roundTrip(t, &in)
	assertEqual(t, got, &in)
}

func TestPipelineStreamUnknownTag(t *testing.T) {
	buf := make([]byte, 16+8)
	binary.LittleEndian.PutUint64(buf[0:], 8)
	binary.LittleEndian.PutUint64(buf[8:], 1)
	binary.LittleEndian.PutUint32(buf[16:], 23)
	var got PipelineStateStreamDesc
	err := codec.Unmarshal(buf, &got)
	if !isKind(err, errors.KindInvalidVariant) {
		t.Fatalf("got %v, want invalid_variant", err)
	}
}

func TestPipelineStreamNullAndEmpty(t *testing.T) {
	var null PipelineStateStreamDesc
	if got := roundTrip(t, &null); got.Subobjects != nil {
		t.Error("null stream should stay null")
	}
	empty := PipelineStateStreamDesc{Subobjects: []PipelineSubobject{}}
	if got := roundTrip(t, &empty); got.Subobjects == nil || len(got.Subobjects) != 0 {
		t.Error("empty stream should stay present")
	}
}

func TestPipelineTruncation(t *testing.T) {
	in := sampleGraphicsDesc()
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	truncations[GraphicsPipelineStateDesc](t, buf)

	stream := PipelineStateStreamDesc{Subobjects: []PipelineSubobject{
		&ShaderSubobject{Type: PipelineSubobjectCS, Bytecode: ShaderBytecode{Code: []byte{1, 2, 3}}},
		&CachedPSOSubobject{Desc: CachedPipelineState{Blob: []byte{1}}},
	}}
	buf, err = codec.Marshal(&stream)
	if err != nil {
		t.Fatal(err)
	}
	truncations[PipelineStateStreamDesc](t, buf)
}

func TestGraphicsPipelineClone(t *testing.T) {
	in := sampleGraphicsDesc()
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	var decoded GraphicsPipelineStateDesc
	if err := codec.Unmarshal(buf, &decoded); err != nil {
		t.Fatal(err)
	}
	arena := codec.NewArena()
	defer arena.Release()
	owned := decoded.Clone(arena)
	if arena.Allocs() == 0 {
		t.Error("clone should allocate from the arena")
	}
	clear(buf)
	if decoded.VS.Code[0] != 0 {
		t.Error("decoded bytecode should alias the buffer")
	}
	if owned.VS.Code[0] != 0x44 {
		t.Error("cloned bytecode must not alias the buffer")
	}
	owned.InputLayout.Elements[0].Format = 99
	if decoded.InputLayout.Elements[0].Format == 99 {
		t.Error("cloned input layout shares storage")
	}
}
