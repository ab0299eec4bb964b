package command

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/wippyai/d3d12-capture/codec"
)

func TestDetachSurvivesBufferReuse(t *testing.T) {
	for _, cmd := range fixtures() {
		cmd = normalize(cmd)
		t.Run(cmd.Call().String(), func(t *testing.T) {
			buf, err := Encode(cmd, nil)
			if err != nil {
				t.Fatal(err)
			}
			decoded, err := Decode(cmd.Call(), buf)
			if err != nil {
				t.Fatal(err)
			}
			d := Detach(decoded)
			defer d.Release()

			for i := range buf {
				buf[i] = 0xee
			}
			if !reflect.DeepEqual(d.Command, cmd) {
				t.Fatalf("detached copy changed with its source buffer\n got: %#v\nwant: %#v", d.Command, cmd)
			}
		})
	}
}

func TestDecodedCommandAliasesBuffer(t *testing.T) {
	cmd := &SetName{Object: 3, Name: codec.NewWString("heap")}
	buf, err := Encode(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(CallSetName, buf)
	if err != nil {
		t.Fatal(err)
	}
	d := Detach(decoded)
	if d.Allocs() == 0 || d.Size() != len("heap\x00")*2 {
		t.Errorf("allocs %d, size %d", d.Allocs(), d.Size())
	}

	clear(buf)
	if got := decoded.(*SetName).Name.String(); got != "" {
		t.Errorf("decoded view should alias the cleared buffer, got %q", got)
	}
	if got := d.Command.(*SetName).Name.String(); got != "heap" {
		t.Errorf("detached name = %q", got)
	}

	d.Release()
	if d.Command != nil {
		t.Error("Release must clear the command")
	}
	d.Release()
}

func TestDetachDeepCopiesNestedArrays(t *testing.T) {
	cmd := &CreateGraphicsPipelineState{Desc: ptr(graphicsDesc())}
	d := Detach(cmd)
	defer d.Release()

	c := d.Command.(*CreateGraphicsPipelineState)
	if c.Desc.Value == cmd.Desc.Value {
		t.Fatal("descriptor pointer was shared")
	}
	cmd.Desc.Value.VS.Code[0] = 0
	cmd.Desc.Value.InputLayout.Elements[0].SemanticName.Raw()[0] = 'N'
	if !bytes.Equal(c.Desc.Value.VS.Code, graphicsDesc().VS.Code) {
		t.Error("shader bytecode was shared")
	}
	if c.Desc.Value.InputLayout.Elements[0].SemanticName.String() != "POSITION" {
		t.Error("input elements were shared")
	}
}
