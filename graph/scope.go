package graph

import (
	"fmt"

	abierr "github.com/rubiojr/abigen/errors"
)

// Lookuper resolves a name to a declaration visible from some scope.
// Lookup returns nil when the name is not declared.
type Lookuper interface {
	Lookup(name Ident) Decl
}

// Scope is a lexical scope. Lookups fall through to the parent scope.
type Scope struct {
	parent *Scope
	decls  map[Ident]Decl
}

// NewScope creates a scope nested in parent (nil for a root scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, decls: make(map[Ident]Decl)}
}

// Parent returns the enclosing scope, nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Lookup implements Lookuper.
func (s *Scope) Lookup(name Ident) Decl {
	for sc := s; sc != nil; sc = sc.parent {
		if d, ok := sc.decls[name]; ok {
			return d
		}
	}
	return nil
}

// Declare adds d to this scope. Redeclaring a name in the same scope is an error.
func (s *Scope) Declare(d Decl) error {
	name := d.DeclName()
	if prev, ok := s.decls[name]; ok {
		return abierr.InvalidInput(abierr.PhaseLoad, []string{string(name)},
			"%s redeclared (previous %s)", name, prev.Kind())
	}
	s.decls[name] = d
	return nil
}

// Graph is a resolved semantic declaration graph: a root scope plus every
// class declaration in registration order.
type Graph struct {
	root    *Scope
	classes []*ClassDecl
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{root: NewScope(nil)}
}

// Root returns the global scope.
func (g *Graph) Root() *Scope { return g.root }

// File opens a new file-level scope under the global scope.
func (g *Graph) File() *Scope { return NewScope(g.root) }

// AddClass declares c in scope and registers it for enumeration. Method
// scopes default to the class scope.
func (g *Graph) AddClass(scope *Scope, c *ClassDecl) error {
	if err := scope.Declare(c); err != nil {
		return err
	}
	c.Scope = scope
	for _, m := range c.Members {
		if fn, ok := m.(*MethodDecl); ok && fn.Scope == nil {
			fn.Scope = scope
		}
	}
	g.classes = append(g.classes, c)
	return nil
}

// AddAlias declares a type alias in scope.
func (g *Graph) AddAlias(scope *Scope, a *TypeAliasDecl) error {
	return scope.Declare(a)
}

// Classes returns the class declarations in registration order.
func (g *Graph) Classes() []*ClassDecl {
	return g.classes
}

// Link resolves every class's Extends name to its declaration. Ancestors
// that are not declared in the graph (a library base class, say) stay nil.
func (g *Graph) Link() error {
	for _, c := range g.classes {
		c.Base = nil
		if c.Extends == "" {
			continue
		}
		switch d := c.Scope.Lookup(c.Extends).(type) {
		case *ClassDecl:
			if d == c {
				return abierr.InvalidInput(abierr.PhaseLoad, []string{string(c.Name)}, "class extends itself")
			}
			c.Base = d
		case nil:
		default:
			return abierr.InvalidInput(abierr.PhaseLoad, []string{string(c.Name)},
				"extends %s, which is a %s", c.Extends, d.Kind())
		}
	}
	return nil
}

// Class returns the first registered class named name.
func (g *Graph) Class(name Ident) (*ClassDecl, error) {
	for _, c := range g.classes {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("class %s: %w", name, abierr.NotFound(abierr.PhaseLoad, "class", string(name)))
}
