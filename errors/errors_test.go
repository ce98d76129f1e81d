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
				Phase:  PhaseParse,
				Kind:   KindMalformed,
				Path:   []string{"fixed_args", "2"},
				Detail: "array length -2 is invalid",
			},
			contains: []string{"[parse]", "malformed", "fixed_args.2", "array length -2 is invalid"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseHeap,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[heap]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindInvalidData,
				Detail: "string payload",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[parse]", "invalid_data", "string payload", "caused by", "underlying error"},
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
		Phase: PhaseParse,
		Kind:  KindMalformed,
		Cause: cause,
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestError_Is(t *testing.T) {
	err := Malformed("bad prolog 0x%04X", 0x0100)

	if !errors.Is(err, &Error{Phase: PhaseParse, Kind: KindMalformed}) {
		t.Error("expected match on same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseHeap, Kind: KindMalformed}) {
		t.Error("expected no match on different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseParse, Kind: KindUnsupported}) {
		t.Error("expected no match on different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("short read")
	err := New(PhaseParse, KindMalformed).
		Path("named_args", "0").
		Detail("name length %d exceeds remaining %d", 12, 3).
		Value(12).
		Cause(cause).
		Build()

	if err.Phase != PhaseParse || err.Kind != KindMalformed {
		t.Errorf("phase/kind: got %s/%s", err.Phase, err.Kind)
	}
	if err.Detail != "name length 12 exceeds remaining 3" {
		t.Errorf("detail: got %q", err.Detail)
	}
	if err.Value != 12 {
		t.Errorf("value: got %v", err.Value)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not wired")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if e := OutOfBounds(9, 4); e.Kind != KindOutOfBounds || e.Phase != PhaseHeap {
		t.Errorf("OutOfBounds: got %s/%s", e.Phase, e.Kind)
	}
	if e := RecursionLimitExceeded(50); e.Kind != KindRecursionLimit || e.Value != 50 {
		t.Errorf("RecursionLimitExceeded: got %s value %v", e.Kind, e.Value)
	}
	if e := Unsupported("serialization type tag 0x%02X", 0x60); !strings.Contains(e.Detail, "0x60") {
		t.Errorf("Unsupported detail: got %q", e.Detail)
	}
}
