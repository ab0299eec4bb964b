package d3d12

import (
	"encoding/binary"
	"testing"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

func TestVersionedRootSignatureLayout(t *testing.T) {
	in := VersionedRootSignatureDesc{
		Version: RootSignatureVersion1_1,
		Desc: RootSignatureDesc{Parameters: []RootParameter{
			{
				ParameterType: RootParameterDescriptorTable,
				Ranges: []DescriptorRange{
					{RangeType: 0, NumDescriptors: 4},
					{RangeType: 1, NumDescriptors: 2, BaseShaderRegister: 1, Flags: 8},
					{RangeType: 2, NumDescriptors: 1, OffsetInDescriptorsFromTableStart: 6},
				},
			},
			{
				ParameterType: RootParameter32BitConstants,
				Constants:     RootConstants{ShaderRegister: 0, RegisterSpace: 1, Num32BitValues: 4},
			},
		}},
	}
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	le := binary.LittleEndian
	if len(buf) != 48+2*32+3*24 {
		t.Fatalf("len = %d, want %d", len(buf), 48+2*32+3*24)
	}
	if le.Uint32(buf[8:]) != 2 || le.Uint64(buf[16:]) == 0 {
		t.Error("header should describe two present parameters")
	}
	if le.Uint64(buf[32:]) != 0 {
		t.Error("static samplers should be null")
	}
	// parameter block
	if le.Uint32(buf[48:]) != uint32(RootParameterDescriptorTable) || le.Uint32(buf[56:]) != 3 {
		t.Error("parameter 0 should be a three-range table")
	}
	if le.Uint32(buf[80:]) != uint32(RootParameter32BitConstants) || le.Uint32(buf[96:]) != 4 {
		t.Error("parameter 1 should be four root constants")
	}
	// ranges follow the parameter block directly
	if le.Uint32(buf[136:]) != 1 || le.Uint32(buf[140:]) != 2 || le.Uint32(buf[152:]) != 8 {
		t.Error("range 1 is not at offset 136")
	}
	if le.Uint32(buf[180:]) != 6 {
		t.Error("range 2 offset field is not the last word")
	}

	var got VersionedRootSignatureDesc
	if err := codec.Unmarshal(buf, &got); err != nil {
		t.Fatal(err)
	}
	if n := len(got.Desc.Parameters[0].Ranges); n != 3 {
		t.Errorf("parameter 0 has %d ranges", n)
	}
	if got.Desc.Parameters[1].Ranges != nil {
		t.Error("parameter 1 must have no trailing ranges")
	}
	assertEqual(t, got, in)
}

func rootSignatureForVersion(v RootSignatureVersion) VersionedRootSignatureDesc {
	l := rootSignatureLayouts[v]
	flag := func(on bool, f uint32) uint32 {
		if on {
			return f
		}
		return 0
	}
	return VersionedRootSignatureDesc{
		Version: v,
		Desc: RootSignatureDesc{
			Parameters: []RootParameter{
				{ParameterType: RootParameterDescriptorTable, Ranges: []DescriptorRange{
					{NumDescriptors: 1, Flags: flag(l.rangeFlags, 4)},
				}, ShaderVisibility: 5},
				{ParameterType: RootParameterDescriptorTable},
				{ParameterType: RootParameterDescriptorTable, Ranges: []DescriptorRange{}},
				{ParameterType: RootParameterCBV, Descriptor: RootDescriptor{ShaderRegister: 2, Flags: flag(l.descriptorFlags, 2)}},
				{ParameterType: RootParameterSRV, Descriptor: RootDescriptor{RegisterSpace: 3}},
				{ParameterType: RootParameterUAV},
				{ParameterType: RootParameter32BitConstants, Constants: RootConstants{Num32BitValues: 1}},
			},
			StaticSamplers: []StaticSamplerDesc{
				{Filter: 0x15, AddressU: 1, MaxLOD: 3.5, ShaderRegister: 1, Flags: flag(l.samplerFlags, 1)},
			},
			Flags: 1,
		},
	}
}

func TestVersionedRootSignatureEveryVersion(t *testing.T) {
	tests := []struct {
		version RootSignatureVersion
		size    int
	}{
		{RootSignatureVersion1_0, 48 + 7*32 + 20 + 52},
		{RootSignatureVersion1_1, 48 + 7*32 + 24 + 52},
		{RootSignatureVersion1_2, 48 + 7*32 + 24 + 56},
	}
	for _, tt := range tests {
		in := rootSignatureForVersion(tt.version)
		if got := codec.Size(&in); got != tt.size {
			t.Errorf("version %d: size %d, want %d", tt.version, got, tt.size)
		}
		got := roundTrip(t, &in)
		assertEqual(t, *got, in)
	}
}

func TestRootSignatureDescIsVersion10(t *testing.T) {
	in := rootSignatureForVersion(RootSignatureVersion1_0).Desc
	got := roundTrip(t, &in)
	assertEqual(t, *got, in)
	if codec.Size(&in) != 40+7*32+20+52 {
		t.Errorf("size = %d", codec.Size(&in))
	}
}

func TestRootSignatureUnknownTags(t *testing.T) {
	bad := VersionedRootSignatureDesc{Version: 4}
	if _, err := codec.Marshal(&bad); !isKind(err, errors.KindInvalidVariant) {
		t.Errorf("encode unknown version: %v", err)
	}

	buf := make([]byte, 48)
	binary.LittleEndian.PutUint32(buf, 7)
	var got VersionedRootSignatureDesc
	if err := codec.Unmarshal(buf, &got); !isKind(err, errors.KindInvalidVariant) {
		t.Errorf("decode unknown version: %v", err)
	}

	in := RootSignatureDesc{Parameters: []RootParameter{{ParameterType: RootParameterCBV}}}
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	binary.LittleEndian.PutUint32(buf[40:], 9)
	var desc RootSignatureDesc
	if err := codec.Unmarshal(buf, &desc); !isKind(err, errors.KindInvalidVariant) {
		t.Errorf("decode unknown parameter type: %v", err)
	}

	in.Parameters[0].ParameterType = 9
	if _, err := codec.Marshal(&in); !isKind(err, errors.KindInvalidVariant) {
		t.Errorf("encode unknown parameter type: %v", err)
	}
}

func TestRootSignatureTruncation(t *testing.T) {
	in := rootSignatureForVersion(RootSignatureVersion1_2)
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	truncations[VersionedRootSignatureDesc](t, buf)
}

func TestRootSignatureClone(t *testing.T) {
	in := rootSignatureForVersion(RootSignatureVersion1_1)
	arena := codec.NewArena()
	defer arena.Release()
	c := in.Clone(arena)
	assertEqual(t, c, in)
	c.Desc.Parameters[0].Ranges[0].NumDescriptors = 100
	if in.Desc.Parameters[0].Ranges[0].NumDescriptors == 100 {
		t.Error("clone shares range storage")
	}
	if c.Desc.Parameters[1].Ranges != nil || c.Desc.Parameters[2].Ranges == nil {
		t.Error("clone must keep null and empty range arrays apart")
	}
}
