package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseHandshake Phase = "handshake" // table import / version exchange
	PhaseBind      Phase = "bind"      // capability table construction
	PhaseRegister  Phase = "register"  // dtype registration
	PhasePromote   Phase = "promote"   // common-type resolution
	PhaseResolve   Phase = "resolve"   // dtype lookup
	PhaseManifest  Phase = "manifest"  // extension manifest handling
	PhaseLoad      Phase = "load"      // wasm extension loading
)

// Kind categorizes the error
type Kind string

const (
	KindVersionMismatch Kind = "version_mismatch"
	KindNotInitialized  Kind = "not_initialized"
	KindSlotMismatch    Kind = "slot_mismatch"
	KindSlotUnbound     Kind = "slot_unbound"
	KindRegistration    Kind = "registration"
	KindNotFound        Kind = "not_found"
	KindUnsupported     Kind = "unsupported"
	KindInvalidData     Kind = "invalid_data"
	KindInvalidInput    Kind = "invalid_input"
	KindMissingExport   Kind = "missing_export"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Slot   string
	DType  string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Slot != "" {
		b.WriteString(" slot ")
		b.WriteString(e.Slot)
	}

	if e.DType != "" {
		b.WriteString(" dtype ")
		b.WriteString(e.DType)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Slot sets the capability slot name
func (b *Builder) Slot(s string) *Builder {
	b.err.Slot = s
	return b
}

// DType sets the dtype name
func (b *Builder) DType(name string) *Builder {
	b.err.DType = name
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

// VersionMismatch creates a version mismatch error.
// Both the requested and the provided version appear in the message.
func VersionMismatch(requested, provided uint32) *Error {
	return &Error{
		Phase:  PhaseHandshake,
		Kind:   KindVersionMismatch,
		Detail: fmt.Sprintf("requested ABI version %d, provider supports version %d", requested, provided),
		Value:  requested,
	}
}

// NotInitialized creates a not-initialized error for use before a
// successful handshake.
func NotInitialized(what string) *Error {
	return &Error{
		Phase:  PhaseHandshake,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s called before a successful import", what),
	}
}

// SlotMismatch creates an error for binding an entry of the wrong type
// to a capability slot.
func SlotMismatch(slot, want, got string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindSlotMismatch,
		Slot:   slot,
		Detail: fmt.Sprintf("expected entry type %s, got %s", want, got),
	}
}

// SlotUnbound creates an error for invoking a slot the provider never bound.
func SlotUnbound(slot string) *Error {
	return &Error{
		Phase: PhaseHandshake,
		Kind:  KindSlotUnbound,
		Slot:  slot,
	}
}

// Registration creates a dtype registration error
func Registration(name string, cause error) *Error {
	return &Error{
		Phase: PhaseRegister,
		Kind:  KindRegistration,
		DType: name,
		Cause: cause,
	}
}

// Duplicate creates an error for registering a dtype name twice
func Duplicate(name string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		DType:  name,
		Detail: "already registered",
	}
}

// NotFound creates a not-found error
func NotFound(what, name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NoCommonDType creates an error for a promotion with no defined result
func NoCommonDType(a, b string) *Error {
	return &Error{
		Phase:  PhasePromote,
		Kind:   KindUnsupported,
		Detail: fmt.Sprintf("no common dtype for %s and %s", a, b),
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

// Load creates an extension loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExport represents a single export a wasm extension failed to provide
type MissingExport struct {
	Name      string // e.g., "common_kind"
	Signature string // e.g., "(i32, i32) -> i32"
}

// MissingExportsError is returned when a wasm extension module does not
// expose the full extension ABI
type MissingExportsError struct {
	Exports []MissingExport
}

// NewMissingExportsError creates an error from a list of "name:signature" strings
func NewMissingExportsError(exports []string) *MissingExportsError {
	result := &MissingExportsError{
		Exports: make([]MissingExport, 0, len(exports)),
	}
	for _, exp := range exports {
		name, sig, _ := strings.Cut(exp, ":")
		result.Exports = append(result.Exports, MissingExport{
			Name:      name,
			Signature: sig,
		})
	}
	return result
}

func (e *MissingExportsError) Error() string {
	if len(e.Exports) == 0 {
		return "[load] missing_export: no exports specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("extension is missing %d export(s):\n", len(e.Exports)))
	for _, exp := range e.Exports {
		b.WriteString("  - ")
		b.WriteString(exp.Name)
		if exp.Signature != "" {
			b.WriteString(" ")
			b.WriteString(exp.Signature)
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *MissingExportsError) Is(target error) bool {
	_, ok := target.(*MissingExportsError)
	return ok
}
