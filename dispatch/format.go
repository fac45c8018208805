package dispatch

import (
	"fmt"
	"io"
	"strings"
)

// listWriter manages indented listing output.
type listWriter struct {
	sb     strings.Builder
	indent int
	color  bool
}

// Linef writes an indented, formatted line with a trailing newline appended.
func (w *listWriter) Linef(format string, args ...any) {
	w.sb.WriteString(strings.Repeat("  ", w.indent))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// Indent increases the indentation level.
func (w *listWriter) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *listWriter) Dedent() { w.indent-- }

// String returns the accumulated output.
func (w *listWriter) String() string { return w.sb.String() }

func (w *listWriter) mnemonic(op Op) string {
	name := fmt.Sprintf("%-19s", op.Name())
	if !w.color {
		return name
	}
	return "\033[36m" + name + "\033[0m"
}

// Format writes a human-readable listing of routines to out. color adds
// ANSI highlighting to the op names.
func Format(out io.Writer, routines []*Routine, color bool) error {
	w := &listWriter{color: color}
	for i, r := range routines {
		if i > 0 {
			w.Linef("")
		}
		w.Linef("routine %s", r.Contract)
		w.Indent()
		for _, op := range r.Body {
			w.op(op)
		}
		w.Dedent()
		w.Linef("end")
	}
	_, err := io.WriteString(out, w.String())
	return err
}

func (w *listWriter) op(op Op) {
	m := w.mnemonic(op)
	switch o := op.(type) {
	case *NewInstance:
		w.Linef("%s %s = %s", m, o.Bind, o.Class)
	case *OpenStream:
		w.Linef("%s %s = %s", m, o.Bind, o.Instance)
	case *Guard:
		w.Linef("%s %q", m, o.Action)
		w.Indent()
		for _, inner := range o.Body {
			w.op(inner)
		}
		w.Dedent()
		w.Linef("end")
	case *ReadString:
		w.Linef("%s %s", m, o.Bind)
	case *ReadScalar:
		if o.ABIType != "" && o.ABIType != o.Type {
			w.Linef("%s %s: %s (%s)", m, o.Bind, o.Type, o.ABIType)
		} else {
			w.Linef("%s %s: %s", m, o.Bind, o.Type)
		}
	case *ReadScalarVector:
		w.Linef("%s %s: %s[]", m, o.Bind, o.Elem)
	case *ReadStringVector:
		w.Linef("%s %s: string[]", m, o.Bind)
	case *ReadRecordVector:
		w.Linef("%s %s: %s[]", m, o.Bind, o.Elem)
	case *ReadRecord:
		w.Linef("%s %s: %s", m, o.Bind, o.Type)
	case *Invoke:
		call := fmt.Sprintf("%s.%s(%s)", o.Instance, o.Method, strings.Join(o.Args, ", "))
		if o.Result != "" {
			w.Linef("%s %s = %s", m, o.Result, call)
		} else {
			w.Linef("%s %s", m, call)
		}
	case *ReplyU64:
		w.Linef("%s %s", m, o.Value)
	case *ReplyString:
		w.Linef("%s %s", m, o.Value)
	case *ReplyBytes:
		w.Linef("%s %s", m, o.Value)
	}
}
