package typeinfo

import (
	abierr "github.com/rubiojr/abigen/errors"
	"github.com/rubiojr/abigen/graph"
)

// ReturnKind selects how an entry method's result is replied.
type ReturnKind int

const (
	ReturnVoid ReturnKind = iota
	ReturnNumber
	ReturnString
	ReturnBytes
)

func (r ReturnKind) String() string {
	switch r {
	case ReturnVoid:
		return "void"
	case ReturnNumber:
		return "number"
	case ReturnString:
		return "string"
	case ReturnBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// ClassifyReturn classifies an entry method's declared return type. A nil
// ref or `void` is ReturnVoid. Otherwise the type, after alias resolution,
// must be a builtin primitive; any other type yields an
// errors.KindUnsupportedReturn error because there is no reply encoding for it.
func ClassifyReturn(scope graph.Lookuper, ref *graph.TypeRef, maxDepth int, path ...string) (ReturnKind, error) {
	if ref == nil || (ref.Name == VoidName && len(ref.Args) == 0) {
		return ReturnVoid, nil
	}
	if len(ref.Args) > 0 {
		return ReturnVoid, abierr.UnsupportedReturn(path, ref.Text())
	}
	p, ok, err := NewWithDepth(scope, *ref, maxDepth).SourcePrimitive(ref.Name)
	if err != nil {
		return ReturnVoid, err
	}
	if !ok {
		return ReturnVoid, abierr.UnsupportedReturn(path, ref.Text())
	}
	switch {
	case p.Opaque:
		return ReturnBytes, nil
	case p.ABIName == "string":
		return ReturnString, nil
	default:
		return ReturnNumber, nil
	}
}
