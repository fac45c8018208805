package dispatch

import (
	"encoding/json"
	"fmt"
)

type routineJSON struct {
	Contract string            `json:"contract"`
	Body     []json.RawMessage `json:"body"`
}

// MarshalJSON encodes the routine with every op tagged by an "op" field.
func (r *Routine) MarshalJSON() ([]byte, error) {
	body, err := marshalOps(r.Body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(routineJSON{Contract: r.Contract, Body: body})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (r *Routine) UnmarshalJSON(data []byte) error {
	var raw routineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	body, err := unmarshalOps(raw.Body)
	if err != nil {
		return fmt.Errorf("routine %s: %w", raw.Contract, err)
	}
	r.Contract = raw.Contract
	r.Body = body
	return nil
}

func marshalOps(ops []Op) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(ops))
	for _, op := range ops {
		b, err := marshalOp(op)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func marshalOp(op Op) (json.RawMessage, error) {
	fields, err := json.Marshal(op)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(fields, &m); err != nil {
		return nil, err
	}
	name, _ := json.Marshal(op.Name())
	m["op"] = name
	if g, ok := op.(*Guard); ok {
		body, err := marshalOps(g.Body)
		if err != nil {
			return nil, err
		}
		if m["body"], err = json.Marshal(body); err != nil {
			return nil, err
		}
	}
	return json.Marshal(m)
}

func newOp(name string) (Op, error) {
	switch name {
	case "new_instance":
		return &NewInstance{}, nil
	case "open_stream":
		return &OpenStream{}, nil
	case "guard":
		return &Guard{}, nil
	case "read_string":
		return &ReadString{}, nil
	case "read_scalar":
		return &ReadScalar{}, nil
	case "read_scalar_vector":
		return &ReadScalarVector{}, nil
	case "read_string_vector":
		return &ReadStringVector{}, nil
	case "read_record_vector":
		return &ReadRecordVector{}, nil
	case "read_record":
		return &ReadRecord{}, nil
	case "invoke":
		return &Invoke{}, nil
	case "reply_u64":
		return &ReplyU64{}, nil
	case "reply_string":
		return &ReplyString{}, nil
	case "reply_bytes":
		return &ReplyBytes{}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", name)
	}
}

func unmarshalOps(raw []json.RawMessage) ([]Op, error) {
	out := make([]Op, 0, len(raw))
	for _, r := range raw {
		var head struct {
			Op   string            `json:"op"`
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(r, &head); err != nil {
			return nil, err
		}
		op, err := newOp(head.Op)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(r, op); err != nil {
			return nil, fmt.Errorf("%s: %w", head.Op, err)
		}
		if g, ok := op.(*Guard); ok {
			if g.Body, err = unmarshalOps(head.Body); err != nil {
				return nil, fmt.Errorf("guard %s: %w", g.Action, err)
			}
		}
		out = append(out, op)
	}
	return out, nil
}
