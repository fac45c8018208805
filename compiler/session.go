package compiler

import (
	"go.uber.org/zap"

	"github.com/rubiojr/abigen/abi"
	"github.com/rubiojr/abigen/dispatch"
	"github.com/rubiojr/abigen/graph"
	"github.com/rubiojr/abigen/typeinfo"
)

// Result is everything one assembly session produces.
type Result struct {
	ABI      *abi.Document
	Routines []*dispatch.Routine
}

// session carries the state of one Compile call. Nothing in it outlives
// the call, so concurrent sessions over distinct graphs are independent.
type session struct {
	opts      Options
	asm       *abi.Assembler
	processed map[*graph.ClassDecl]bool
	aliases   map[graph.Ident]bool
	log       *zap.Logger
}

// Compile walks every class in g and returns the ABI document together with
// one dispatch routine per contract class that declares at least one action.
// Any fatal condition aborts the session; no partial document is returned.
func Compile(g *graph.Graph, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	s := &session{
		opts:      opts,
		asm:       abi.NewAssembler(opts.Version),
		processed: make(map[*graph.ClassDecl]bool),
		aliases:   make(map[graph.Ident]bool),
		log:       Logger(),
	}

	var routines []*dispatch.Routine
	for _, c := range g.Classes() {
		if s.processed[c] {
			continue
		}
		s.processed[c] = true
		r, err := s.resolveClass(c)
		if err != nil {
			return nil, err
		}
		if r != nil {
			routines = append(routines, r)
		}
	}

	doc := s.asm.Document()
	s.log.Debug("assembly complete",
		zap.Int("types", len(doc.Types)),
		zap.Int("structs", len(doc.Structs)),
		zap.Int("actions", len(doc.Actions)),
		zap.Int("tables", len(doc.Tables)),
		zap.Int("routines", len(routines)))
	return &Result{ABI: doc, Routines: routines}, nil
}

// resolveClass registers the class's tables and, for contracts, synthesizes
// its dispatch routine.
func (s *session) resolveClass(c *graph.ClassDecl) (*dispatch.Routine, error) {
	if err := s.scanTables(c); err != nil {
		return nil, err
	}
	if !s.isContract(c) {
		return nil, nil
	}
	return s.synthesize(c)
}

func (s *session) analyze(scope *graph.Scope, ref graph.TypeRef) *typeinfo.Analyzer {
	return typeinfo.NewWithDepth(scope, ref, s.opts.MaxDepth)
}
