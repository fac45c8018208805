package abi

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembler_FirstWriterWins(t *testing.T) {
	a := NewAssembler("")

	assert.True(t, a.AddType("u64", "uint64"))
	assert.False(t, a.AddType("u64", "int64"))

	s, ok := a.ReserveStruct("Account")
	require.True(t, ok)
	s.Fields = append(s.Fields, Field{Name: "owner", Type: "string"})

	assert.False(t, a.AddStruct(Struct{Name: "Account", Fields: []Field{{Name: "other", Type: "u8"}}}))
	_, ok = a.ReserveStruct("Account")
	assert.False(t, ok)
	assert.True(t, a.HasStruct("Account"))
	assert.True(t, a.AddStruct(Struct{Name: "Order"}))

	a.AddAction(Action{Name: "transfer", Type: "transfer"})
	a.AddTable(Table{Name: "accounts", Type: "Account"})

	d := a.Document()
	assert.Equal(t, DefaultVersion, d.Version)
	assert.Equal(t, []TypeDef{{NewTypeName: "u64", Type: "uint64"}}, d.Types)
	require.Len(t, d.Structs, 2)
	assert.Equal(t, "Account", d.Structs[0].Name)
	assert.Equal(t, []Field{{Name: "owner", Type: "string"}}, d.Structs[0].Fields)
	assert.Equal(t, []Field{}, d.Structs[1].Fields)
}

func TestAssembler_FrozenAfterDocument(t *testing.T) {
	a := NewAssembler("v2")
	s, _ := a.ReserveStruct("A")
	d := a.Document()
	assert.Equal(t, "v2", d.Version)

	// The document does not alias the assembler's storage.
	s.Fields = append(s.Fields, Field{Name: "late", Type: "u8"})
	assert.Empty(t, d.Structs[0].Fields)

	assert.Panics(t, func() { a.AddType("x", "y") })
	assert.Panics(t, func() { a.AddAction(Action{Name: "x"}) })
}

func TestDocument_EncodeJSON(t *testing.T) {
	a := NewAssembler("")
	a.AddType("Balance", "uint64")
	a.AddStruct(Struct{Name: "transfer", Fields: []Field{{Name: "to", Type: "string"}, {Name: "amount", Type: "Balance"}}})
	a.AddAction(Action{Name: "transfer", Type: "transfer"})
	a.AddTable(Table{Name: "accounts", Type: "Account", IndexType: "i64", KeyNames: []string{"currency"}, KeyTypes: []string{"uint64"}})
	d := a.Document()

	var buf bytes.Buffer
	require.NoError(t, d.Encode(&buf, FormatJSON))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "Damoclis VM:1.0", raw["version"])
	types := raw["types"].([]any)
	assert.Equal(t, "Balance", types[0].(map[string]any)["new_type_name"])
	tables := raw["tables"].([]any)
	table := tables[0].(map[string]any)
	assert.Equal(t, "i64", table["index_type"])
	assert.Equal(t, []any{"currency"}, table["key_names"])
	structs := raw["structs"].([]any)
	assert.Equal(t, "", structs[0].(map[string]any)["base"])

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestDocument_EncodeYAML(t *testing.T) {
	a := NewAssembler("")
	a.AddType("Balance", "uint64")
	d := a.Document()

	var buf bytes.Buffer
	require.NoError(t, d.Encode(&buf, FormatYAML))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "version: "), out)
	assert.Contains(t, out, "new_type_name: Balance")

	back, err := Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, d.Version, back.Version)
	assert.Equal(t, d.Types, back.Types)
}

func TestDocument_Lookup(t *testing.T) {
	d := &Document{
		Types:   []TypeDef{{NewTypeName: "u64", Type: "uint64"}},
		Structs: []Struct{{Name: "A"}},
		Actions: []Action{{Name: "go", Type: "go"}},
	}
	_, ok := d.LookupType("u64")
	assert.True(t, ok)
	_, ok = d.LookupType("u8")
	assert.False(t, ok)
	s, ok := d.LookupStruct("A")
	require.True(t, ok)
	assert.Equal(t, "A", s.Name)
	_, ok = d.LookupAction("stop")
	assert.False(t, ok)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	f, err = ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)
}
