package abicodec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/rubiojr/abigen/abi"
	"github.com/rubiojr/abigen/datastream"
	abierr "github.com/rubiojr/abigen/errors"
	"github.com/rubiojr/abigen/typeinfo"
)

// Codec converts between JSON action arguments and their wire encoding,
// driven by an assembled ABI document.
type Codec struct {
	doc      *abi.Document
	maxDepth int
}

// New creates a codec for doc.
func New(doc *abi.Document) *Codec {
	return &Codec{doc: doc, maxDepth: typeinfo.DefaultMaxAliasDepth}
}

// EncodeAction encodes the JSON arguments of action. args is either an
// object keyed by parameter name or an array of parameters in order.
func (c *Codec) EncodeAction(action string, args []byte) ([]byte, error) {
	act, ok := c.doc.LookupAction(action)
	if !ok {
		return nil, abierr.NotFound(abierr.PhaseEncode, "action", action)
	}
	value, err := parseJSON(args)
	if err != nil {
		return nil, err
	}
	w := datastream.NewWriter()
	if err := c.Encode(act.Type, value, w); err != nil {
		return nil, fmt.Errorf("action %s: %w", action, err)
	}
	return w.Bytes(), nil
}

// DecodeAction decodes the wire-encoded arguments of action. Every byte of
// data must be consumed.
func (c *Codec) DecodeAction(action string, data []byte) (any, error) {
	act, ok := c.doc.LookupAction(action)
	if !ok {
		return nil, abierr.NotFound(abierr.PhaseDecode, "action", action)
	}
	r := datastream.NewReader(data)
	v, err := c.Decode(act.Type, r)
	if err != nil {
		return nil, fmt.Errorf("action %s: %w", action, err)
	}
	if n := r.Remaining(); n != 0 {
		return nil, abierr.InvalidInput(abierr.PhaseDecode, []string{action},
			"%d trailing bytes at offset %d", n, r.Position())
	}
	return v, nil
}

// Encode writes value as type typ. Values are what encoding/json produces
// with UseNumber: json.Number, string, bool, []any and map[string]any.
// Plain Go numbers and *Object are accepted as well.
func (c *Codec) Encode(typ string, value any, w *datastream.Writer) error {
	spec, err := c.resolve(typ, abierr.PhaseEncode, 0)
	if err != nil {
		return err
	}
	return c.encode(spec, value, w, nil, 0)
}

// Decode reads one value of type typ. Signed integers decode to int64,
// unsigned to uint64, floats to float64, opaque bytes to 0x-prefixed hex,
// vectors to []any, maps to []Entry and structs to *Object.
func (c *Codec) Decode(typ string, r *datastream.Reader) (any, error) {
	spec, err := c.resolve(typ, abierr.PhaseDecode, 0)
	if err != nil {
		return nil, err
	}
	return c.decode(spec, r, nil, 0)
}

func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, abierr.New(abierr.PhaseEncode, abierr.KindInvalidInput).
			Detail("malformed JSON arguments").
			Cause(err).
			Build()
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, abierr.InvalidInput(abierr.PhaseEncode, nil, "trailing data after JSON arguments")
	}
	return v, nil
}

// withPath attaches path to a structured error that has none yet.
func withPath(err error, path []string) error {
	var e *abierr.Error
	if errors.As(err, &e) && len(e.Path) == 0 && len(path) > 0 {
		e.Path = append([]string(nil), path...)
	}
	return err
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

// fields returns st's fields preceded by those of its base structs, oldest
// first.
func (c *Codec) fields(st *abi.Struct, phase abierr.Phase) ([]abi.Field, error) {
	chain := []*abi.Struct{st}
	for cur := st; cur.Base != ""; {
		if len(chain) > c.maxDepth {
			return nil, abierr.DepthExceeded(phase, []string{st.Name}, c.maxDepth)
		}
		base, ok := c.doc.LookupStruct(cur.Base)
		if !ok {
			return nil, abierr.NotFound(phase, "struct", cur.Base)
		}
		chain = append(chain, base)
		cur = base
	}
	var out []abi.Field
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].Fields...)
	}
	return out, nil
}

func (c *Codec) encode(spec *typeSpec, v any, w *datastream.Writer, path []string, depth int) error {
	if depth > c.maxDepth {
		return abierr.DepthExceeded(abierr.PhaseEncode, path, c.maxDepth)
	}
	switch spec.kind {
	case kindScalar:
		return withPath(encodeScalar(spec.name, v, w), path)
	case kindString:
		s, ok := v.(string)
		if !ok {
			return abierr.TypeMismatch(abierr.PhaseEncode, path, "string", v)
		}
		w.WriteString(s)
		return nil
	case kindOpaque:
		return c.encodeOpaque(spec, v, w, path)
	case kindVector:
		items, ok := v.([]any)
		if !ok && v != nil {
			return abierr.TypeMismatch(abierr.PhaseEncode, path, "array", v)
		}
		w.WriteVarUint32(uint32(len(items)))
		for i, item := range items {
			if err := c.encode(spec.elem, item, w, appendPath(path, strconv.Itoa(i)), depth+1); err != nil {
				return err
			}
		}
		return nil
	case kindMap:
		return c.encodeMap(spec, v, w, path, depth)
	default:
		return c.encodeStruct(spec, v, w, path, depth)
	}
}

func (c *Codec) encodeOpaque(spec *typeSpec, v any, w *datastream.Writer, path []string) error {
	switch x := v.(type) {
	case string:
		b, err := datastream.FromHex(x)
		if err != nil {
			return withPath(err, path)
		}
		w.WriteBytes(b)
	case []byte:
		w.WriteBytes(x)
	case datastream.Bytes:
		x.Serialize(w)
	default:
		return abierr.TypeMismatch(abierr.PhaseEncode, path, spec.name, v)
	}
	return nil
}

// encodeMap accepts a list of {"key": k, "value": v} objects or [k, v]
// pairs, or a JSON object when the key type is string.
func (c *Codec) encodeMap(spec *typeSpec, v any, w *datastream.Writer, path []string, depth int) error {
	var keys, values []any
	switch x := v.(type) {
	case nil:
	case []Entry:
		for _, e := range x {
			keys = append(keys, e.Key)
			values = append(values, e.Value)
		}
	case []any:
		for i, item := range x {
			k, val, ok := entryOf(item)
			if !ok {
				return abierr.TypeMismatch(abierr.PhaseEncode, appendPath(path, strconv.Itoa(i)), "map entry", item)
			}
			keys = append(keys, k)
			values = append(values, val)
		}
	case map[string]any:
		if spec.key.kind != kindString {
			return abierr.TypeMismatch(abierr.PhaseEncode, path, "map entry list", v)
		}
		names := make([]string, 0, len(x))
		for k := range x {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			keys = append(keys, k)
			values = append(values, x[k])
		}
	default:
		return abierr.TypeMismatch(abierr.PhaseEncode, path, "map", v)
	}

	w.WriteVarUint32(uint32(len(keys)))
	for i := range keys {
		p := appendPath(path, strconv.Itoa(i))
		if err := c.encode(spec.key, keys[i], w, appendPath(p, "key"), depth+1); err != nil {
			return err
		}
		if err := c.encode(spec.value, values[i], w, appendPath(p, "value"), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func entryOf(item any) (key, value any, ok bool) {
	switch e := item.(type) {
	case map[string]any:
		key, kok := e["key"]
		value, vok := e["value"]
		return key, value, kok && vok && len(e) == 2
	case []any:
		if len(e) == 2 {
			return e[0], e[1], true
		}
	}
	return nil, nil, false
}

func (c *Codec) encodeStruct(spec *typeSpec, v any, w *datastream.Writer, path []string, depth int) error {
	fields, err := c.fields(spec.record, abierr.PhaseEncode)
	if err != nil {
		return err
	}

	var lookup func(i int, name string) (any, bool)
	switch x := v.(type) {
	case map[string]any:
		known := make(map[string]bool, len(fields))
		for _, f := range fields {
			known[f.Name] = true
		}
		var unknown []string
		for k := range x {
			if !known[k] {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return abierr.InvalidInput(abierr.PhaseEncode, path, "unknown field %s in %s", unknown[0], spec.name)
		}
		lookup = func(_ int, name string) (any, bool) {
			fv, ok := x[name]
			return fv, ok
		}
	case []any:
		if len(x) != len(fields) {
			return abierr.InvalidInput(abierr.PhaseEncode, path, "%s takes %d values, got %d", spec.name, len(fields), len(x))
		}
		lookup = func(i int, _ string) (any, bool) { return x[i], true }
	case *Object:
		lookup = func(_ int, name string) (any, bool) { return x.Get(name) }
	default:
		return abierr.TypeMismatch(abierr.PhaseEncode, path, spec.name, v)
	}

	for i, f := range fields {
		p := appendPath(path, f.Name)
		fv, ok := lookup(i, f.Name)
		if !ok {
			return abierr.InvalidInput(abierr.PhaseEncode, p, "missing field")
		}
		fs, err := c.resolve(f.Type, abierr.PhaseEncode, 0)
		if err != nil {
			return withPath(err, p)
		}
		if err := c.encode(fs, fv, w, p, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) decode(spec *typeSpec, r *datastream.Reader, path []string, depth int) (any, error) {
	if depth > c.maxDepth {
		return nil, abierr.DepthExceeded(abierr.PhaseDecode, path, c.maxDepth)
	}
	switch spec.kind {
	case kindScalar:
		v, err := decodeScalar(spec.name, r)
		return v, withPath(err, path)
	case kindString:
		s, err := r.ReadString()
		return s, withPath(err, path)
	case kindOpaque:
		b, err := r.ReadBytes()
		if err != nil {
			return nil, withPath(err, path)
		}
		return datastream.Bytes(b).Hex(), nil
	case kindVector:
		n, err := c.count(c.minSize(spec.elem, map[string]int{}), r, path)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, min(n, r.Remaining()))
		for i := 0; i < n; i++ {
			item, err := c.decode(spec.elem, r, appendPath(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case kindMap:
		memo := map[string]int{}
		n, err := c.count(c.minSize(spec.key, memo)+c.minSize(spec.value, memo), r, path)
		if err != nil {
			return nil, err
		}
		out := make([]Entry, 0, min(n, r.Remaining()))
		for i := 0; i < n; i++ {
			p := appendPath(path, strconv.Itoa(i))
			k, err := c.decode(spec.key, r, appendPath(p, "key"), depth+1)
			if err != nil {
				return nil, err
			}
			v, err := c.decode(spec.value, r, appendPath(p, "value"), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry{Key: k, Value: v})
		}
		return out, nil
	default:
		fields, err := c.fields(spec.record, abierr.PhaseDecode)
		if err != nil {
			return nil, err
		}
		obj := &Object{}
		for _, f := range fields {
			p := appendPath(path, f.Name)
			fs, err := c.resolve(f.Type, abierr.PhaseDecode, 0)
			if err != nil {
				return nil, withPath(err, p)
			}
			v, err := c.decode(fs, r, p, depth+1)
			if err != nil {
				return nil, err
			}
			obj.set(f.Name, v)
		}
		return obj, nil
	}
}

// count reads an element count and checks it against the remaining input.
// size is the fewest bytes one element encodes to. Elements of at least one
// byte bound the count by the input length; zero-width elements are capped
// at datastream.MaxEmptyElements.
func (c *Codec) count(size int, r *datastream.Reader, path []string) (int, error) {
	start := r.Position()
	n, err := r.ReadVarUint32()
	if err != nil {
		return 0, withPath(err, path)
	}
	switch {
	case size > 0 && int(n) > r.Remaining()/size:
		return 0, abierr.New(abierr.PhaseDecode, abierr.KindOutOfBounds).
			Path(path...).
			Value(n).
			Detail("count %d at offset %d exceeds the %d remaining bytes", n, start, r.Remaining()).
			Build()
	case size == 0 && n > datastream.MaxEmptyElements:
		return 0, abierr.InvalidInput(abierr.PhaseDecode, path,
			"count %d of zero-width elements exceeds %d", n, datastream.MaxEmptyElements)
	}
	return int(n), nil
}

// minSize returns the fewest bytes one value of spec encodes to. A struct
// reached again while its own size is being computed counts as zero.
func (c *Codec) minSize(spec *typeSpec, memo map[string]int) int {
	switch spec.kind {
	case kindScalar:
		return scalarWidths[spec.name]
	case kindStruct:
		if n, ok := memo[spec.name]; ok {
			return n
		}
		memo[spec.name] = 0
		fields, err := c.fields(spec.record, abierr.PhaseDecode)
		if err != nil {
			return 0
		}
		total := 0
		for _, f := range fields {
			fs, err := c.resolve(f.Type, abierr.PhaseDecode, 0)
			if err != nil {
				continue
			}
			total += c.minSize(fs, memo)
		}
		memo[spec.name] = total
		return total
	default:
		// Strings, byte strings, vectors and maps start with a varuint32.
		return 1
	}
}
