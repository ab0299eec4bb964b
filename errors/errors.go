package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // live arguments to wire bytes
	PhaseDecode   Phase = "decode"   // wire bytes to argument views
	PhaseCapture  Phase = "capture"  // capture stream writing
	PhaseReplay   Phase = "replay"   // capture stream reading
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseRegistry Phase = "registry" // key/address resolution
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds    Kind = "out_of_bounds"
	KindInvalidVariant Kind = "invalid_variant"
	KindSizeMismatch   Kind = "size_mismatch"
	KindInvalidData    Kind = "invalid_data"
	KindOverflow       Kind = "overflow"
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
	KindChecksum       Kind = "checksum"
	KindInvalidInput   Kind = "invalid_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset > 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Type != "" {
		b.WriteString(": ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the wire type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Offset sets the buffer offset where the error was detected
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
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

// OutOfBounds creates a bounds violation error for a read or write of n
// bytes at offset off in a buffer of the given length
func OutOfBounds(phase Phase, off, n, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: off,
		Detail: fmt.Sprintf("access of %d bytes at offset %d exceeds buffer length %d", n, off, length),
		Value:  n,
	}
}

// InvalidVariant creates an unrecognized tag error for a tagged union
func InvalidVariant(phase Phase, union string, tag uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Type:   union,
		Detail: fmt.Sprintf("unrecognized tag %d", tag),
		Value:  tag,
	}
}

// SizeMismatch creates an error for an encode that did not produce exactly
// the computed size
func SizeMismatch(typeName string, want, got int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindSizeMismatch,
		Type:   typeName,
		Detail: fmt.Sprintf("wrote %d bytes, size computed %d", got, want),
		Value:  got,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, limit any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v exceeds limit %v", value, limit),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
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

// NotFound creates a not-found error
func NotFound(phase Phase, what string, key any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %v not found", what, key),
		Value:  key,
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

// Checksum creates a block integrity error
func Checksum(phase Phase, block int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindChecksum,
		Detail: fmt.Sprintf("block %d checksum mismatch", block),
		Value:  block,
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

// WithPath returns err with name prepended to its path when err is an
// *Error; other errors are returned unchanged
func WithPath(err error, name string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	c := *e
	c.Path = append([]string{name}, e.Path...)
	return &c
}
