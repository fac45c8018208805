package compiler

import (
	"go.uber.org/zap"

	"github.com/rubiojr/abigen/dispatch"
	"github.com/rubiojr/abigen/graph"
	"github.com/rubiojr/abigen/typeinfo"
)

// streamBind is the binding the input stream is opened under.
const streamBind = "ds"

// resultBind is the binding an entry method's result is stored under.
const resultBind = "result"

// synthesize builds the dispatch routine for contract c. It returns nil
// when c declares no action methods.
func (s *session) synthesize(c *graph.ClassDecl) (*dispatch.Routine, error) {
	instance := "_" + string(c.Name)
	body := []dispatch.Op{
		&dispatch.NewInstance{Class: string(c.Name), Bind: instance},
		&dispatch.OpenStream{Instance: instance, Bind: streamBind},
	}

	actions := 0
	for _, m := range c.InstanceMethods() {
		if !m.HasDecorator(graph.DecoratorAction) {
			continue
		}
		actions++
		if err := s.actionStruct(m); err != nil {
			return nil, err
		}
		g, err := s.guard(c, instance, m)
		if err != nil {
			return nil, err
		}
		body = append(body, g)
	}
	if actions == 0 {
		s.log.Debug("contract without actions", zap.String("class", string(c.Name)))
		return nil, nil
	}
	s.log.Debug("routine", zap.String("contract", string(c.Name)), zap.Int("actions", actions))
	return &dispatch.Routine{Contract: string(c.Name), Body: body}, nil
}

// guard builds the block taken when the dispatched action is m: decode each
// parameter in order, invoke m, then reply with its result.
func (s *session) guard(c *graph.ClassDecl, instance string, m *graph.MethodDecl) (*dispatch.Guard, error) {
	var ops []dispatch.Op
	args := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		op, err := s.decodeParam(m, p)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		args = append(args, string(p.Name))
	}

	kind, err := typeinfo.ClassifyReturn(m.Scope, m.Returns, s.opts.MaxDepth, string(c.Name), string(m.Name))
	if err != nil {
		return nil, err
	}
	invoke := &dispatch.Invoke{Instance: instance, Method: string(m.Name), Args: args}
	if kind != typeinfo.ReturnVoid {
		invoke.Result = resultBind
	}
	ops = append(ops, invoke)
	switch kind {
	case typeinfo.ReturnNumber:
		ops = append(ops, &dispatch.ReplyU64{Instance: instance, Value: resultBind})
	case typeinfo.ReturnString:
		ops = append(ops, &dispatch.ReplyString{Instance: instance, Value: resultBind})
	case typeinfo.ReturnBytes:
		ops = append(ops, &dispatch.ReplyBytes{Instance: instance, Value: resultBind})
	}
	return &dispatch.Guard{Action: string(m.Name), Body: ops}, nil
}

// decodeParam selects the decode op for one parameter from its category.
func (s *session) decodeParam(m *graph.MethodDecl, p graph.Param) (dispatch.Op, error) {
	a := s.analyze(m.Scope, p.Type)
	bind := string(p.Name)
	switch a.Category {
	case typeinfo.String:
		return &dispatch.ReadString{Bind: bind}, nil
	case typeinfo.Number:
		abiType, err := a.SourceABIType(a.Name)
		if err != nil {
			return nil, err
		}
		return &dispatch.ReadScalar{Bind: bind, Type: string(a.Name), ABIType: abiType}, nil
	case typeinfo.Array:
		elemCat, err := a.ArrayElemCategory()
		if err != nil {
			return nil, err
		}
		elem := a.ArrayElemType()
		switch elemCat {
		case typeinfo.String:
			return &dispatch.ReadStringVector{Bind: bind}, nil
		case typeinfo.Class:
			return &dispatch.ReadRecordVector{Bind: bind, Elem: elem}, nil
		default:
			return &dispatch.ReadScalarVector{Bind: bind, Elem: elem}, nil
		}
	default:
		if cls := a.LookupClass(a.Name); cls != nil {
			if err := s.classToStruct(cls); err != nil {
				return nil, err
			}
		}
		return &dispatch.ReadRecord{Bind: bind, Type: p.Type.Text()}, nil
	}
}
