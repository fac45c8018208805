package abi

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	abierr "github.com/rubiojr/abigen/errors"
)

// DefaultVersion is the version tag stamped on assembled documents.
const DefaultVersion = "Damoclis VM:1.0"

// TypeDef records a named alias and the ABI type it resolves to.
type TypeDef struct {
	NewTypeName string `json:"new_type_name" yaml:"new_type_name"`
	Type        string `json:"type" yaml:"type"`
}

// Field is one member of a struct.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Struct is a flattened record type. Inherited fields come first.
type Struct struct {
	Name   string  `json:"name" yaml:"name"`
	Base   string  `json:"base" yaml:"base"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Action is an externally invocable entry point. Type names the struct that
// describes its parameters, which by convention shares the action's name.
type Action struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Table is a persistent storage declaration.
type Table struct {
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	IndexType string   `json:"index_type" yaml:"index_type"`
	KeyNames  []string `json:"key_names" yaml:"key_names"`
	KeyTypes  []string `json:"key_types" yaml:"key_types"`
}

// Document is the assembled ABI.
type Document struct {
	Version string    `json:"version" yaml:"version"`
	Types   []TypeDef `json:"types" yaml:"types"`
	Structs []Struct  `json:"structs" yaml:"structs"`
	Actions []Action  `json:"actions" yaml:"actions"`
	Tables  []Table   `json:"tables" yaml:"tables"`
}

// Format selects the serialization used by Encode.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// Encode writes the document to w.
func (d *Document) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encoding ABI as yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encoding ABI as json: %w", err)
		}
		return nil
	}
}

// Decode reads a JSON or YAML ABI document.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading ABI: %w", err)
	}
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, abierr.New(abierr.PhaseLoad, abierr.KindInvalidInput).
			Detail("malformed ABI document").
			Cause(err).
			Build()
	}
	return &d, nil
}

// LookupType returns the alias entry named name.
func (d *Document) LookupType(name string) (TypeDef, bool) {
	for _, t := range d.Types {
		if t.NewTypeName == name {
			return t, true
		}
	}
	return TypeDef{}, false
}

// LookupStruct returns the struct named name.
func (d *Document) LookupStruct(name string) (*Struct, bool) {
	for i := range d.Structs {
		if d.Structs[i].Name == name {
			return &d.Structs[i], true
		}
	}
	return nil, false
}

// LookupAction returns the action named name.
func (d *Document) LookupAction(name string) (Action, bool) {
	for _, a := range d.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Version: d.Version,
		Types:   append([]TypeDef{}, d.Types...),
		Actions: append([]Action{}, d.Actions...),
		Structs: make([]Struct, len(d.Structs)),
		Tables:  make([]Table, len(d.Tables)),
	}
	for i, s := range d.Structs {
		s.Fields = append([]Field{}, s.Fields...)
		out.Structs[i] = s
	}
	for i, t := range d.Tables {
		t.KeyNames = append([]string{}, t.KeyNames...)
		t.KeyTypes = append([]string{}, t.KeyTypes...)
		out.Tables[i] = t
	}
	return out
}
