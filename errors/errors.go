package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in bridge processing the error occurred
type Phase string

const (
	PhaseRegister  Phase = "register"  // instance registration
	PhaseLookup    Phase = "lookup"    // instance or identifier lookup
	PhaseFinalize  Phase = "finalize"  // finalization sweep
	PhaseLifecycle Phase = "lifecycle" // registry open/close
	PhaseDispatch  Phase = "dispatch"  // cross-runtime method dispatch
	PhaseProtocol  Phase = "protocol"  // identifier range contract
)

// Kind categorizes the error
type Kind string

const (
	KindDuplicateIdentifier Kind = "duplicate_identifier"
	KindNegativeIdentifier  Kind = "negative_identifier"
	KindAlreadyRegistered   Kind = "already_registered"
	KindOutOfRange          Kind = "out_of_range"
	KindNotFound            Kind = "not_found"
	KindTypeMismatch        Kind = "type_mismatch"
	KindInvalidInput        Kind = "invalid_input"
	KindRegistration        Kind = "registration"
)

// Error is the structured error type used throughout the bridge.
// Contract violations in the registry (duplicate identifiers, negative
// identifiers, re-registered instances) are reported with this type so the
// offending identifier or Go type is always part of the failure.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// DuplicateIdentifier reports an identifier that has already been added.
func DuplicateIdentifier(phase Phase, id int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateIdentifier,
		Detail: fmt.Sprintf("identifier has already been added: %d", id),
		Value:  id,
	}
}

// NegativeIdentifier reports an identifier below the valid range.
func NegativeIdentifier(phase Phase, id int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNegativeIdentifier,
		Detail: fmt.Sprintf("identifier must be >= 0: %d", id),
		Value:  id,
	}
}

// AlreadyRegistered reports an instance that is already present in the
// registry under another identifier.
func AlreadyRegistered(goType string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindAlreadyRegistered,
		GoType: goType,
		Detail: "instance has already been added",
	}
}

// OutOfRange reports an identifier outside the range reserved for its origin.
func OutOfRange(id int64, origin string) *Error {
	return &Error{
		Phase:  PhaseProtocol,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("identifier %d outside the %s-created range", id, origin),
		Value:  id,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, id int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %d not found", what, id),
		Value:  id,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a delegate registration error
func Registration(namespace, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		GoType: goType,
		Detail: detail,
	}
}
