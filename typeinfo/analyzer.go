package typeinfo

import (
	"strings"

	abierr "github.com/rubiojr/abigen/errors"
	"github.com/rubiojr/abigen/graph"
)

// DefaultMaxAliasDepth bounds alias chain resolution.
const DefaultMaxAliasDepth = 64

// Category is the wire category a type reference classifies into.
type Category int

const (
	Number Category = iota // scalar numerics and every unrecognized name
	String
	Array
	Map
	Class
)

func (c Category) String() string {
	switch c {
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Map:
		return "map"
	case Class:
		return "class"
	default:
		return "unknown"
	}
}

// Analyzer classifies one type reference as seen from a scope.
type Analyzer struct {
	Ref      graph.TypeRef
	Name     graph.Ident
	Category Category

	scope    graph.Lookuper
	maxDepth int
}

// New classifies ref within scope using the default alias depth bound.
func New(scope graph.Lookuper, ref graph.TypeRef) *Analyzer {
	return NewWithDepth(scope, ref, DefaultMaxAliasDepth)
}

// NewWithDepth classifies ref within scope, resolving alias chains at most
// maxDepth links deep.
func NewWithDepth(scope graph.Lookuper, ref graph.TypeRef, maxDepth int) *Analyzer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxAliasDepth
	}
	a := &Analyzer{Ref: ref, Name: ref.Name, scope: scope, maxDepth: maxDepth}
	a.Category = a.classify()
	return a
}

func (a *Analyzer) classify() Category {
	switch {
	case IsString(a.Name):
		return String
	case IsArray(a.Name):
		return Array
	case IsMap(a.Name):
		return Map
	case a.LookupClass(a.Name) != nil:
		return Class
	default:
		return Number
	}
}

// Lookup resolves name from the analyzer's scope.
func (a *Analyzer) Lookup(name graph.Ident) graph.Decl {
	if a.scope == nil {
		return nil
	}
	return a.scope.Lookup(name)
}

// LookupClass returns the class declaration name resolves to, or nil.
func (a *Analyzer) LookupClass(name graph.Ident) *graph.ClassDecl {
	if c, ok := a.Lookup(name).(*graph.ClassDecl); ok {
		return c
	}
	return nil
}

// Args returns the literal text of each generic argument.
func (a *Analyzer) Args() []string {
	out := make([]string, len(a.Ref.Args))
	for i, arg := range a.Ref.Args {
		out[i] = arg.Text()
	}
	return out
}

// DeclaredType returns the canonical type text recorded in the ABI document.
func (a *Analyzer) DeclaredType() string {
	switch a.Category {
	case String:
		return "string"
	case Array:
		return a.ArrayElemType() + "[]"
	case Map:
		args := strings.Join(a.Args(), ",")
		if IsArrayMap(a.Name) {
			return args + "[]{}"
		}
		return args + "{}"
	default:
		return string(a.Name)
	}
}

// AsTypes returns the generic argument names, or the type's own name when it
// has none. These are the names whose aliases and classes must be registered.
func (a *Analyzer) AsTypes() []graph.Ident {
	if len(a.Ref.Args) == 0 {
		return []graph.Ident{a.Name}
	}
	out := make([]graph.Ident, len(a.Ref.Args))
	for i, arg := range a.Ref.Args {
		out[i] = graph.Ident(arg.Text())
	}
	return out
}

// SourceABIType resolves name to its canonical ABI spelling: builtin
// primitives map through the primitive table, aliases are followed to their
// target, anything else comes back unchanged.
func (a *Analyzer) SourceABIType(name graph.Ident) (string, error) {
	cur := name
	for depth := 0; depth <= a.maxDepth; depth++ {
		if p, ok := Primitive(cur); ok {
			return p.ABIName, nil
		}
		alias, ok := a.Lookup(cur).(*graph.TypeAliasDecl)
		if !ok {
			return string(cur), nil
		}
		cur = graph.Ident(alias.Type.Text())
	}
	return "", abierr.AliasCycle(string(name), a.maxDepth)
}

// SourceType follows alias declarations from name without consulting the
// primitive table.
func (a *Analyzer) SourceType(name graph.Ident) (graph.Ident, error) {
	cur := name
	for depth := 0; depth <= a.maxDepth; depth++ {
		alias, ok := a.Lookup(cur).(*graph.TypeAliasDecl)
		if !ok {
			return cur, nil
		}
		cur = graph.Ident(alias.Type.Text())
	}
	return "", abierr.AliasCycle(string(name), a.maxDepth)
}

// SourcePrimitive follows aliases from name until a builtin primitive is
// reached. ok is false when the chain ends at a non-primitive name.
func (a *Analyzer) SourcePrimitive(name graph.Ident) (PrimitiveInfo, bool, error) {
	cur := name
	for depth := 0; depth <= a.maxDepth; depth++ {
		if p, ok := Primitive(cur); ok {
			return p, true, nil
		}
		alias, ok := a.Lookup(cur).(*graph.TypeAliasDecl)
		if !ok {
			return PrimitiveInfo{}, false, nil
		}
		cur = graph.Ident(alias.Type.Text())
	}
	return PrimitiveInfo{}, false, abierr.AliasCycle(string(name), a.maxDepth)
}

// ArrayElemType returns the literal text of the first generic argument.
func (a *Analyzer) ArrayElemType() string {
	if len(a.Ref.Args) == 0 {
		return ""
	}
	return a.Ref.Args[0].Text()
}

// ArrayElemCategory classifies the first generic argument. Only String,
// Class and Number are produced: nested arrays and maps fall into Number.
func (a *Analyzer) ArrayElemCategory() (Category, error) {
	elem := graph.Ident(a.ArrayElemType())
	if IsString(elem) {
		return String, nil
	}
	src, err := a.SourceType(elem)
	if err != nil {
		return Number, err
	}
	if a.LookupClass(src) != nil {
		return Class, nil
	}
	return Number, nil
}
