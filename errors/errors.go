package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad       Phase = "load"       // graph and config loading
	PhaseScan       Phase = "scan"       // class enumeration
	PhaseExtract    Phase = "extract"    // struct flattening
	PhaseSynthesize Phase = "synthesize" // dispatcher synthesis
	PhaseEncode     Phase = "encode"     // value to wire bytes
	PhaseDecode     Phase = "decode"     // wire bytes to value
)

// Kind categorizes the error
type Kind string

const (
	KindDecoratorArity    Kind = "decorator_arity"
	KindUnsupportedReturn Kind = "unsupported_return"
	KindAliasCycle        Kind = "alias_cycle"
	KindDepthExceeded     Kind = "depth_exceeded"
	KindInvalidInput      Kind = "invalid_input"
	KindNotFound          Kind = "not_found"
	KindTypeMismatch      Kind = "type_mismatch"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindUnsupported       Kind = "unsupported"
)

// Error is the structured error type used by every phase of ABI assembly
// and by the wire codec.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
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

	if e.Type != "" {
		b.WriteString(": type ")
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

// Path sets the declaration or field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the offending type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
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

// DecoratorArity reports a decorator used with the wrong number of arguments.
func DecoratorArity(path []string, decorator string, want, got int) *Error {
	return &Error{
		Phase:  PhaseScan,
		Kind:   KindDecoratorArity,
		Path:   path,
		Detail: fmt.Sprintf("@%s decorator takes exactly %d argument(s), got %d", decorator, want, got),
		Value:  got,
	}
}

// UnsupportedReturn reports an entry method whose return type has no wire encoding.
func UnsupportedReturn(path []string, typeName string) *Error {
	return &Error{
		Phase:  PhaseSynthesize,
		Kind:   KindUnsupportedReturn,
		Path:   path,
		Type:   typeName,
		Detail: "entry methods may only return a builtin wire type",
	}
}

// AliasCycle reports an alias chain that did not bottom out within the depth bound.
func AliasCycle(typeName string, depth int) *Error {
	return &Error{
		Phase:  PhaseExtract,
		Kind:   KindAliasCycle,
		Type:   typeName,
		Detail: fmt.Sprintf("alias chain longer than %d; cyclic type alias?", depth),
		Value:  depth,
	}
}

// DepthExceeded reports a traversal that nested deeper than the configured bound.
func DepthExceeded(phase Phase, path []string, depth int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Path:   path,
		Detail: fmt.Sprintf("nesting deeper than %d", depth),
		Value:  depth,
	}
}

// NotFound reports a missing named entity.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Type:   name,
		Detail: what + " not found",
	}
}

// InvalidInput reports malformed input.
func InvalidInput(phase Phase, path []string, format string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: fmt.Sprintf(format, args...),
	}
}

// TypeMismatch reports a value that does not fit its declared type.
func TypeMismatch(phase Phase, path []string, typeName string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Type:   typeName,
		Detail: fmt.Sprintf("cannot use %T value", value),
		Value:  value,
	}
}

// OutOfBounds reports a read past the end of a stream.
func OutOfBounds(phase Phase, offset, want, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("need %d bytes at offset %d (length %d)", want, offset, length),
		Value:  offset,
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
