package compiler

import (
	"go.uber.org/zap"

	"github.com/rubiojr/abigen/abi"
	abierr "github.com/rubiojr/abigen/errors"
	"github.com/rubiojr/abigen/graph"
)

// scanTables records a table for every database decorator on c and
// extracts c's struct as the table's row type.
func (s *session) scanTables(c *graph.ClassDecl) error {
	for _, d := range c.Decorators {
		if d.Kind != graph.DecoratorDatabase {
			continue
		}
		if len(d.Args) != 1 {
			return abierr.DecoratorArity([]string{string(c.Name)}, d.Name, 1, len(d.Args))
		}
		name := literalString(d.Args[0])
		s.asm.AddTable(abi.Table{
			Name:      name,
			Type:      string(c.Name),
			IndexType: s.opts.Table.IndexType,
			KeyNames:  append([]string(nil), s.opts.Table.KeyNames...),
			KeyTypes:  append([]string(nil), s.opts.Table.KeyTypes...),
		})
		s.log.Debug("table", zap.String("name", name), zap.String("class", string(c.Name)))
		if err := s.classToStruct(c); err != nil {
			return err
		}
	}
	return nil
}

// literalString returns the text of a string literal argument and the
// empty string for anything else.
func literalString(e graph.Expr) string {
	if lit, ok := e.(graph.StringLit); ok {
		return lit.Value
	}
	return ""
}

// isContract reports whether c directly extends the configured contract base.
func (s *session) isContract(c *graph.ClassDecl) bool {
	return string(c.Extends) == s.opts.ContractBase
}
