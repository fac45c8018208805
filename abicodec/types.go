package abicodec

import (
	"strings"

	"github.com/rubiojr/abigen/abi"
	abierr "github.com/rubiojr/abigen/errors"
	"github.com/rubiojr/abigen/graph"
	"github.com/rubiojr/abigen/typeinfo"
)

type kind int

const (
	kindScalar kind = iota
	kindString
	kindOpaque
	kindVector
	kindMap
	kindStruct
)

// typeSpec is a resolved ABI type expression. Struct fields are resolved
// lazily so self-referencing structs do not recurse here.
type typeSpec struct {
	kind   kind
	name   string // scalar or opaque ABI name, struct name
	elem   *typeSpec
	key    *typeSpec
	value  *typeSpec
	record *abi.Struct
}

// scalarWidths lists the fixed-width ABI scalars and their sizes in bytes.
var scalarWidths = map[string]int{
	"int8":    1,
	"int16":   2,
	"int32":   4,
	"int64":   8,
	"isize":   4,
	"uint8":   1,
	"uint16":  2,
	"uint32":  4,
	"uint64":  8,
	"usize":   4,
	"float32": 4,
	"float64": 8,
	"bool":    1,
}

func (c *Codec) resolve(typ string, phase abierr.Phase, depth int) (*typeSpec, error) {
	if depth > c.maxDepth {
		return nil, abierr.AliasCycle(typ, c.maxDepth)
	}
	t := strings.TrimSpace(typ)
	switch {
	case strings.HasSuffix(t, "{}"):
		// K,V[]{} reads as a map whose values are V[]. A Map<K, V[]> and an
		// ArrayMap<K, V> share that spelling and that wire form.
		return c.resolveMap(t[:len(t)-2], false, phase, depth)
	case strings.HasSuffix(t, "[]"):
		return c.resolveVector(t[:len(t)-2], phase, depth)
	case strings.HasSuffix(t, ">"):
		open := strings.IndexByte(t, '<')
		if open < 0 {
			break
		}
		name, inner := graph.Ident(t[:open]), t[open+1:len(t)-1]
		switch {
		case typeinfo.IsArray(name):
			return c.resolveVector(inner, phase, depth)
		case typeinfo.IsMap(name):
			return c.resolveMap(inner, typeinfo.IsArrayMap(name), phase, depth)
		}
	}

	if td, ok := c.doc.LookupType(t); ok && td.Type != t {
		return c.resolve(td.Type, phase, depth+1)
	}
	name := t
	if p, ok := typeinfo.Primitive(graph.Ident(t)); ok {
		name = p.ABIName
	}
	if _, ok := scalarWidths[name]; ok {
		return &typeSpec{kind: kindScalar, name: name}, nil
	}
	if name == "string" {
		return &typeSpec{kind: kindString, name: name}, nil
	}
	if opaqueNames[name] {
		return &typeSpec{kind: kindOpaque, name: name}, nil
	}
	if st, ok := c.doc.LookupStruct(t); ok {
		return &typeSpec{kind: kindStruct, name: t, record: st}, nil
	}
	return nil, abierr.NotFound(phase, "type", t)
}

// opaqueNames lists the byte-sequence ABI types. They travel as
// length-prefixed bytes and appear in JSON as 0x-prefixed hex.
var opaqueNames = map[string]bool{
	"bytes":     true,
	"hash160":   true,
	"hash256":   true,
	"hash512":   true,
	"publicKey": true,
	"signature": true,
}

func (c *Codec) resolveVector(elem string, phase abierr.Phase, depth int) (*typeSpec, error) {
	e, err := c.resolve(elem, phase, depth+1)
	if err != nil {
		return nil, err
	}
	return &typeSpec{kind: kindVector, elem: e}, nil
}

// resolveMap resolves the "K,V" arguments of a map. arrayValue makes the
// value type V[].
func (c *Codec) resolveMap(args string, arrayValue bool, phase abierr.Phase, depth int) (*typeSpec, error) {
	k, v, ok := splitPair(args)
	if !ok {
		return nil, abierr.InvalidInput(phase, nil, "map type %q needs a key and a value type", args)
	}
	if arrayValue {
		v += "[]"
	}
	key, err := c.resolve(k, phase, depth+1)
	if err != nil {
		return nil, err
	}
	value, err := c.resolve(v, phase, depth+1)
	if err != nil {
		return nil, err
	}
	return &typeSpec{kind: kindMap, key: key, value: value}, nil
}

// splitPair splits "K,V" at the first comma outside angle brackets.
func splitPair(s string) (string, string, bool) {
	nest := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			nest++
		case '>':
			nest--
		case ',':
			if nest == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}
