package compiler

import (
	"go.uber.org/zap"

	"github.com/rubiojr/abigen/abi"
	abierr "github.com/rubiojr/abigen/errors"
	"github.com/rubiojr/abigen/graph"
	"github.com/rubiojr/abigen/typeinfo"
)

// classToStruct extracts c into a struct named after it. The slot is
// reserved before any field type is visited, so a class reached again
// through its own fields (directly or via other classes) is a no-op and
// field nesting needs no depth bound.
func (s *session) classToStruct(c *graph.ClassDecl) error {
	st, ok := s.asm.ReserveStruct(string(c.Name))
	if !ok {
		return nil
	}
	s.log.Debug("struct", zap.String("class", string(c.Name)))

	chain, err := s.serializableAncestors(c)
	if err != nil {
		return err
	}
	for _, decl := range append(chain, c) {
		if err := s.addFields(decl, st); err != nil {
			return err
		}
	}
	return nil
}

// addFields appends decl's own typed fields to st and registers every type
// they mention. Untyped fields are skipped.
func (s *session) addFields(decl *graph.ClassDecl, st *abi.Struct) error {
	for _, f := range decl.Fields() {
		if f.Type == nil {
			continue
		}
		a := s.analyze(decl.Scope, *f.Type)
		st.Fields = append(st.Fields, abi.Field{Name: string(f.Name), Type: a.DeclaredType()})
		if err := s.registerTypeArgs(a); err != nil {
			return err
		}
	}
	return nil
}

// serializableAncestors returns c's ancestors whose fields belong in c's
// struct, oldest first. Walking up stops at the first ancestor that is not
// serializable; nothing above it can be.
func (s *session) serializableAncestors(c *graph.ClassDecl) ([]*graph.ClassDecl, error) {
	var chain []*graph.ClassDecl
	seen := map[*graph.ClassDecl]bool{c: true}
	for cur := c.Base; cur != nil; cur = cur.Base {
		if seen[cur] {
			return nil, abierr.InvalidInput(abierr.PhaseExtract, []string{string(c.Name)},
				"inheritance cycle through %s", cur.Name)
		}
		seen[cur] = true
		if len(chain) >= s.opts.MaxDepth {
			return nil, abierr.DepthExceeded(abierr.PhaseExtract, []string{string(c.Name)}, s.opts.MaxDepth)
		}
		ok, err := s.isSerializable(cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// isSerializable reports whether c or any of its ancestors lists the
// serializable interface among its implements.
func (s *session) isSerializable(c *graph.ClassDecl) (bool, error) {
	name := graph.Ident(s.opts.SerializableName)
	seen := make(map[*graph.ClassDecl]bool)
	for cur := c; cur != nil; cur = cur.Base {
		if seen[cur] {
			return false, abierr.InvalidInput(abierr.PhaseExtract, []string{string(c.Name)},
				"inheritance cycle through %s", cur.Name)
		}
		seen[cur] = true
		if cur.ImplementsDirectly(name) {
			return true, nil
		}
	}
	return false, nil
}

// registerTypeArgs records an alias for every type name a reference
// mentions whose ABI spelling differs from its own, and extracts the struct
// of every class those names resolve to.
func (s *session) registerTypeArgs(a *typeinfo.Analyzer) error {
	for _, name := range a.AsTypes() {
		if s.aliases[name] {
			continue
		}
		s.aliases[name] = true

		abiType, err := a.SourceABIType(name)
		if err != nil {
			return err
		}
		if abiType != string(name) {
			if s.asm.AddType(string(name), abiType) {
				s.log.Debug("type", zap.String("name", string(name)), zap.String("abi_type", abiType))
			}
		}

		src, err := a.SourceType(name)
		if err != nil {
			return err
		}
		if cls := a.LookupClass(src); cls != nil {
			if err := s.classToStruct(cls); err != nil {
				return err
			}
		}
	}
	return nil
}

// actionStruct records the synthetic struct describing m's parameters and
// the action entry that names it.
func (s *session) actionStruct(m *graph.MethodDecl) error {
	st, reserved := s.asm.ReserveStruct(string(m.Name))
	for _, p := range m.Params {
		a := s.analyze(m.Scope, p.Type)
		if reserved {
			st.Fields = append(st.Fields, abi.Field{Name: string(p.Name), Type: a.DeclaredType()})
		}
		if err := s.registerTypeArgs(a); err != nil {
			return err
		}
	}
	s.asm.AddAction(abi.Action{Name: string(m.Name), Type: string(m.Name)})
	return nil
}
