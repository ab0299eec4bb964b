package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidVariant,
				Path:   []string{"pDesc", "subobjects[2]"},
				Type:   "D3D12_STATE_SUBOBJECT_TYPE",
				Detail: "unrecognized tag 99",
				Offset: 120,
			},
			contains: []string{"[decode]", "invalid_variant", "pDesc.subobjects[2]", "offset 120", "D3D12_STATE_SUBOBJECT_TYPE", "unrecognized tag 99"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseReplay,
				Kind:   KindInvalidData,
				Detail: "short block",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[replay]", "invalid_data", "short block", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindOutOfBounds,
		Path:  []string{"foo"},
	}

	if !errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindOutOfBounds}) {
		t.Error("errors.Is should match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseEncode, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindInvalidVariant}) {
		t.Error("Is should not match different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindInvalidVariant).
		Path("pDesc", "NumParameters").
		Type("D3D12_ROOT_PARAMETER_TYPE").
		Offset(48).
		Value(uint32(7)).
		Cause(cause).
		Detail("tag %d", 7).
		Build()

	if err.Phase != PhaseDecode || err.Kind != KindInvalidVariant {
		t.Fatalf("phase/kind = %v/%v", err.Phase, err.Kind)
	}
	if strings.Join(err.Path, ".") != "pDesc.NumParameters" {
		t.Errorf("Path = %v", err.Path)
	}
	if err.Offset != 48 {
		t.Errorf("Offset = %d, want 48", err.Offset)
	}
	if err.Value != uint32(7) {
		t.Errorf("Value = %v", err.Value)
	}
	if err.Detail != "tag 7" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if e := OutOfBounds(PhaseDecode, 10, 8, 12); e.Kind != KindOutOfBounds || e.Offset != 10 {
		t.Errorf("OutOfBounds = %+v", e)
	}
	if e := InvalidVariant(PhaseDecode, "X", 9); e.Kind != KindInvalidVariant || e.Value != uint32(9) {
		t.Errorf("InvalidVariant = %+v", e)
	}
	if e := SizeMismatch("T", 16, 12); e.Phase != PhaseEncode || e.Kind != KindSizeMismatch {
		t.Errorf("SizeMismatch = %+v", e)
	}
	if e := Checksum(PhaseReplay, 3); e.Kind != KindChecksum {
		t.Errorf("Checksum = %+v", e)
	}
}

func TestWithPath(t *testing.T) {
	base := OutOfBounds(PhaseDecode, 4, 4, 6)
	wrapped := WithPath(base, "pViews")
	e, ok := wrapped.(*Error)
	if !ok {
		t.Fatalf("WithPath returned %T", wrapped)
	}
	if len(e.Path) != 1 || e.Path[0] != "pViews" {
		t.Errorf("Path = %v", e.Path)
	}
	if len(base.Path) != 0 {
		t.Error("WithPath mutated the original error")
	}

	plain := errors.New("plain")
	if WithPath(plain, "x") != plain {
		t.Error("non-structured errors must pass through")
	}
}
