package graph

import "strings"

// Ident is a case-sensitive declaration name. It is kept distinct from plain
// strings so type names are not confused with literal or display text.
type Ident string

func (i Ident) String() string { return string(i) }

// Kind tags the concrete declaration variant.
type Kind int

const (
	KindClass Kind = iota
	KindMethod
	KindField
	KindTypeAlias
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindTypeAlias:
		return "type alias"
	default:
		return "unknown"
	}
}

// Decl is a declaration node. The set of implementations is closed:
// *ClassDecl, *MethodDecl, *FieldDecl and *TypeAliasDecl.
type Decl interface {
	Kind() Kind
	DeclName() Ident
	decl()
}

// TypeRef is a named type reference with optional generic arguments,
// e.g. Array<u64> or Map<string, Account>.
type TypeRef struct {
	Name Ident
	Args []TypeRef
	// Literal is the source spelling, set by the parser. `u64[]` keeps that
	// spelling even though it is stored as Array<u64>.
	Literal string
}

// Ref builds a TypeRef.
func Ref(name Ident, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

// Text returns the literal text of the reference. References built in
// code have no source spelling and are rendered as Name<A,B>.
func (t TypeRef) Text() string {
	if t.Literal != "" {
		return t.Literal
	}
	if len(t.Args) == 0 {
		return string(t.Name)
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.Text()
	}
	return string(t.Name) + "<" + strings.Join(parts, ",") + ">"
}

// Expr is a decorator argument expression. Implementations: StringLit, RawExpr.
type Expr interface {
	expr()
}

// StringLit is a simple quoted string literal.
type StringLit struct {
	Value string
}

func (StringLit) expr() {}

// RawExpr is any other expression, kept as source text.
type RawExpr struct {
	Text string
}

func (RawExpr) expr() {}

// DecoratorKind identifies the decorators the ABI generator understands.
type DecoratorKind int

const (
	DecoratorOther DecoratorKind = iota
	DecoratorAction
	DecoratorDatabase
)

// DecoratorKindOf maps a decorator name to its kind.
func DecoratorKindOf(name string) DecoratorKind {
	switch name {
	case "action":
		return DecoratorAction
	case "database":
		return DecoratorDatabase
	default:
		return DecoratorOther
	}
}

// Decorator is an annotation on a class or method.
type Decorator struct {
	Kind DecoratorKind
	Name string
	Args []Expr
}

type decorated []Decorator

func (d decorated) has(kind DecoratorKind) bool {
	for _, dec := range d {
		if dec.Kind == kind {
			return true
		}
	}
	return false
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	Name       Ident
	Extends    Ident      // ancestor name, empty if none
	Base       *ClassDecl // resolved ancestor, nil if none or undeclared
	Implements []Ident
	Decorators []Decorator
	Members    []Decl
	Scope      *Scope
}

func (c *ClassDecl) Kind() Kind      { return KindClass }
func (c *ClassDecl) DeclName() Ident { return c.Name }
func (c *ClassDecl) decl()           {}

// HasDecorator reports whether the class carries a decorator of the given kind.
func (c *ClassDecl) HasDecorator(kind DecoratorKind) bool {
	return decorated(c.Decorators).has(kind)
}

// ImplementsDirectly reports whether the class itself lists name among its
// implemented interfaces (ancestors are not consulted).
func (c *ClassDecl) ImplementsDirectly(name Ident) bool {
	for _, n := range c.Implements {
		if n == name {
			return true
		}
	}
	return false
}

// Fields returns the field members in declaration order.
func (c *ClassDecl) Fields() []*FieldDecl {
	var out []*FieldDecl
	for _, m := range c.Members {
		if f, ok := m.(*FieldDecl); ok {
			out = append(out, f)
		}
	}
	return out
}

// InstanceMethods returns the non-static methods in declaration order.
func (c *ClassDecl) InstanceMethods() []*MethodDecl {
	var out []*MethodDecl
	for _, m := range c.Members {
		if fn, ok := m.(*MethodDecl); ok && !fn.Static {
			out = append(out, fn)
		}
	}
	return out
}

// Param is a method parameter.
type Param struct {
	Name Ident
	Type TypeRef
}

// MethodDecl is a method declaration inside a class.
type MethodDecl struct {
	Name       Ident
	Params     []Param
	Returns    *TypeRef // nil means no declared return (void)
	Decorators []Decorator
	Static     bool
	Scope      *Scope
}

func (m *MethodDecl) Kind() Kind      { return KindMethod }
func (m *MethodDecl) DeclName() Ident { return m.Name }
func (m *MethodDecl) decl()           {}

// HasDecorator reports whether the method carries a decorator of the given kind.
func (m *MethodDecl) HasDecorator(kind DecoratorKind) bool {
	return decorated(m.Decorators).has(kind)
}

// FieldDecl is a field declaration inside a class.
type FieldDecl struct {
	Name Ident
	Type *TypeRef // nil when the field has no type annotation
}

func (f *FieldDecl) Kind() Kind      { return KindField }
func (f *FieldDecl) DeclName() Ident { return f.Name }
func (f *FieldDecl) decl()           {}

// TypeAliasDecl is `type Name = Type`.
type TypeAliasDecl struct {
	Name Ident
	Type TypeRef
}

func (a *TypeAliasDecl) Kind() Kind      { return KindTypeAlias }
func (a *TypeAliasDecl) DeclName() Ident { return a.Name }
func (a *TypeAliasDecl) decl()           {}
