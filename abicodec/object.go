package abicodec

import (
	"bytes"
	"encoding/json"
)

// Object is a decoded struct value. Fields keep their declaration order.
type Object struct {
	Names  []string
	Values []any
}

// Get returns the value of the named field.
func (o *Object) Get(name string) (any, bool) {
	for i, n := range o.Names {
		if n == name {
			return o.Values[i], true
		}
	}
	return nil, false
}

func (o *Object) set(name string, v any) {
	o.Names = append(o.Names, name)
	o.Values = append(o.Values, v)
}

// MarshalJSON writes the fields as a JSON object in declaration order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range o.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Entry is one decoded map entry.
type Entry struct {
	Key   any `json:"key"`
	Value any `json:"value"`
}
