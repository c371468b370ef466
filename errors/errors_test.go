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
				Phase:  PhaseRegister,
				Kind:   KindAlreadyRegistered,
				GoType: "*webview.WebView",
				Detail: "instance has already been added",
			},
			contains: []string{"[register]", "already_registered", "*webview.WebView", "instance has already been added"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLookup,
				Kind:  KindNotFound,
			},
			contains: []string{"[lookup]", "not_found"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDispatch,
				Kind:   KindRegistration,
				Detail: "register webview#load-url",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[dispatch]", "registration", "load-url", "caused by", "underlying error"},
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
		Phase: PhaseDispatch,
		Kind:  KindRegistration,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := DuplicateIdentifier(PhaseRegister, 5)

	if !errors.Is(err, &Error{Phase: PhaseRegister, Kind: KindDuplicateIdentifier}) {
		t.Error("expected match on same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseLookup, Kind: KindDuplicateIdentifier}) {
		t.Error("expected no match on different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseRegister, Kind: KindNegativeIdentifier}) {
		t.Error("expected no match on different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("reflect: bad call")
	err := New(PhaseDispatch, KindTypeMismatch).
		GoType("func(int) string").
		Value(42).
		Detail("argument %d cannot be converted", 1).
		Cause(cause).
		Build()

	if err.Phase != PhaseDispatch || err.Kind != KindTypeMismatch {
		t.Fatalf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if err.GoType != "func(int) string" {
		t.Errorf("unexpected GoType: %s", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("unexpected Value: %v", err.Value)
	}
	if err.Detail != "argument 1 cannot be converted" {
		t.Errorf("unexpected Detail: %s", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable via errors.Is")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		kind     Kind
		contains string
	}{
		{"duplicate", DuplicateIdentifier(PhaseRegister, 5), KindDuplicateIdentifier, "5"},
		{"negative", NegativeIdentifier(PhaseRegister, -7), KindNegativeIdentifier, "-7"},
		{"already registered", AlreadyRegistered("*bridge.Cookie"), KindAlreadyRegistered, "*bridge.Cookie"},
		{"out of range", OutOfRange(70000, "guest"), KindOutOfRange, "guest-created range"},
		{"not found", NotFound(PhaseDispatch, "instance", 65536), KindNotFound, "65536"},
		{"invalid input", InvalidInput(PhaseDispatch, "namespace cannot be empty"), KindInvalidInput, "namespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Fatalf("expected kind %s, got %s", tt.kind, tt.err.Kind)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}
