package d3d12

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

func TestStateObjectAssociationTable(t *testing.T) {
	in := StateObjectDesc{
		Type: StateObjectRaytracingPipeline,
		Subobjects: []StateSubobject{
			&GlobalRootSignature{RootSignature: 5},
			&SubobjectToExportsAssociation{Target: 0, Exports: wide("RayGen", "Miss")},
		},
	}
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	// header, subobject array, global root signature, association with two
	// names, associations table
	want := 16 + 2*16 + 12 + (24 + 2*8 + (4 + 14) + (4 + 10)) + (4 + 8)
	if len(buf) != want {
		t.Fatalf("len = %d, want %d", len(buf), want)
	}
	tail := buf[len(buf)-12:]
	le := binary.LittleEndian
	if le.Uint32(tail) != 1 || le.Uint32(tail[4:]) != 1 || le.Uint32(tail[8:]) != 0 {
		t.Errorf("associations table = %v, want one (1, 0) pair", tail)
	}

	var got StateObjectDesc
	if err := codec.Unmarshal(buf, &got); err != nil {
		t.Fatal(err)
	}
	if got.Associated(1) != got.Subobjects[0] {
		t.Error("association should resolve to subobject 0")
	}
	assertEqual(t, got.Associated(1), &GlobalRootSignature{RootSignature: 5})
	assertEqual(t, got, in)
}

func TestStateObjectEverySubobject(t *testing.T) {
	in := StateObjectDesc{
		Type: StateObjectCollection,
		Subobjects: []StateSubobject{
			&SubobjectToExportsAssociation{Target: 2, Exports: wide("Hit")},
			&HitGroup{HitGroupExport: codec.NewWString("Hit"), ClosestHitShaderImport: codec.NewWString("Closest"), Type: 0},
			&LocalRootSignature{RootSignature: 9},
			&SubobjectToExportsAssociation{Target: 1, Exports: wide()},
			&SubobjectToExportsAssociation{Target: NoSubobject},
			&StateObjectConfig{Flags: 1},
			&NodeMask{NodeMask: 1},
			&DXILLibrary{
				Library: ShaderBytecode{Code: []byte{0x44, 0x58, 0x49, 0x4c}},
				Exports: []ExportDesc{
					{Name: codec.NewWString("RayGen")},
					{Name: codec.NewWString("Miss2"), ExportToRename: codec.NewWString("Miss"), Flags: 0},
				},
			},
			&DXILLibrary{},
			&ExistingCollection{Collection: 4, Exports: []ExportDesc{{Name: codec.NewWString("Shadow")}}},
			&DXILSubobjectToExportsAssociation{Subobject: codec.NewWString("Config"), Exports: wide("Hit", "Miss2")},
			&RaytracingShaderConfig{MaxPayloadSizeInBytes: 16, MaxAttributeSizeInBytes: 8},
			&RaytracingPipelineConfig{MaxTraceRecursionDepth: 2},
			&RaytracingPipelineConfig1{MaxTraceRecursionDepth: 1, Flags: 0x100},
			&GlobalRootSignature{},
		},
	}
	got := roundTrip(t, &in)
	assertEqual(t, got, &in)

	if got.Associated(0) != got.Subobjects[2] || got.Associated(3) != got.Subobjects[1] {
		t.Error("associations point at the wrong siblings")
	}
	if got.Associated(4) != nil || got.Associated(5) != nil || got.Associated(99) != nil {
		t.Error("unassociated subobjects must resolve to nil")
	}
	if lib := got.Subobjects[8].(*DXILLibrary); lib.Library.Code != nil || lib.Exports != nil {
		t.Error("empty library should keep null pointers")
	}
}

func TestEmbeddedNamesKeepEmptyAndNull(t *testing.T) {
	// a one-unit wide string holding an unpaired high surrogate
	var lone codec.WString
	src := []byte{1, 0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0, 0x00, 0xd8, 0, 0}
	if err := codec.Unmarshal(src, &lone); err != nil {
		t.Fatal(err)
	}

	in := StateObjectDesc{Subobjects: []StateSubobject{
		&HitGroup{HitGroupExport: codec.NewWString(""), AnyHitShaderImport: lone},
		&DXILLibrary{Exports: []ExportDesc{{Name: codec.NewWString("E"), ExportToRename: codec.NewWString("")}}},
	}}
	got := roundTrip(t, &in)

	hg := got.Subobjects[0].(*HitGroup)
	if hg.HitGroupExport.IsNull() || hg.HitGroupExport.String() != "" {
		t.Errorf("empty export = %#v, want present and empty", hg.HitGroupExport)
	}
	if !hg.ClosestHitShaderImport.IsNull() || !hg.IntersectionShaderImport.IsNull() {
		t.Error("null imports came back present")
	}
	if !bytes.Equal(hg.AnyHitShaderImport.Raw(), lone.Raw()) {
		t.Errorf("surrogate import = %x, want %x", hg.AnyHitShaderImport.Raw(), lone.Raw())
	}
	if e := got.Subobjects[1].(*DXILLibrary).Exports[0]; e.ExportToRename.IsNull() {
		t.Error("empty rename came back null")
	}

	layout := PipelineStateStreamDesc{Subobjects: []PipelineSubobject{
		&InputLayoutSubobject{Desc: InputLayoutDesc{Elements: []InputElementDesc{
			{SemanticName: codec.NewAString("")},
			{},
		}}},
	}}
	elems := roundTrip(t, &layout).Subobjects[0].(*InputLayoutSubobject).Desc.Elements
	if elems[0].SemanticName.IsNull() || !elems[1].SemanticName.IsNull() {
		t.Errorf("semantic names = %#v, %#v", elems[0].SemanticName, elems[1].SemanticName)
	}
}

func TestStateObjectUnknownSubobject(t *testing.T) {
	in := StateObjectDesc{Subobjects: []StateSubobject{&NodeMask{NodeMask: 1}}}
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	binary.LittleEndian.PutUint32(buf[16:], 4)
	var got StateObjectDesc
	if err := codec.Unmarshal(buf, &got); !isKind(err, errors.KindInvalidVariant) {
		t.Fatalf("got %v, want invalid_variant", err)
	}
}

func TestStateObjectBadAssociations(t *testing.T) {
	out := StateObjectDesc{Subobjects: []StateSubobject{
		&SubobjectToExportsAssociation{Target: 3},
	}}
	if _, err := codec.Marshal(&out); !isKind(err, errors.KindInvalidInput) {
		t.Errorf("out of range target: %v", err)
	}

	in := StateObjectDesc{Subobjects: []StateSubobject{
		&NodeMask{},
		&SubobjectToExportsAssociation{Target: 0},
	}}
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	le := binary.LittleEndian

	dangling := append([]byte(nil), buf...)
	le.PutUint32(dangling[len(dangling)-12:], 0)
	dangling = dangling[:len(dangling)-8]
	var got StateObjectDesc
	if err := codec.Unmarshal(dangling, &got); !isKind(err, errors.KindInvalidData) {
		t.Errorf("missing table entry: %v", err)
	}

	wrongSource := append([]byte(nil), buf...)
	le.PutUint32(wrongSource[len(wrongSource)-8:], 0)
	if err := codec.Unmarshal(wrongSource, &got); !isKind(err, errors.KindInvalidData) {
		t.Errorf("table entry from a non-association: %v", err)
	}
}

func TestStateObjectTruncation(t *testing.T) {
	in := StateObjectDesc{Subobjects: []StateSubobject{
		&GlobalRootSignature{RootSignature: 1},
		&HitGroup{HitGroupExport: codec.NewWString("H"), AnyHitShaderImport: codec.NewWString("A")},
		&SubobjectToExportsAssociation{Target: 1, Exports: wide("X")},
		&DXILLibrary{Library: ShaderBytecode{Code: []byte{1, 2}}, Exports: []ExportDesc{{Name: codec.NewWString("E")}}},
	}}
	buf, err := codec.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	truncations[StateObjectDesc](t, buf)
}

func TestStateObjectClone(t *testing.T) {
	in := StateObjectDesc{Subobjects: []StateSubobject{
		&LocalRootSignature{RootSignature: 2},
		&SubobjectToExportsAssociation{Target: 0, Exports: wide("A", "B")},
		&DXILLibrary{Library: ShaderBytecode{Code: []byte{1}}, Exports: []ExportDesc{{Name: codec.NewWString("A")}}},
	}}
	arena := codec.NewArena()
	defer arena.Release()
	c := in.Clone(arena)
	assertEqual(t, c, in)
	if c.Subobjects[0] == in.Subobjects[0] {
		t.Error("clone must copy subobjects")
	}
	c.Subobjects[1].(*SubobjectToExportsAssociation).Exports[0].Raw()[0] = 'Z'
	if in.Subobjects[1].(*SubobjectToExportsAssociation).Exports[0].String() != "A" {
		t.Error("clone shares export storage")
	}
	if c.Associated(1) != c.Subobjects[0] {
		t.Error("clone association should resolve within the clone")
	}
}
