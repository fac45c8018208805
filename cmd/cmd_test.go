package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/abigen/abi"
)

const graphYAML = `
aliases:
  - {name: Balance, type: u64}
classes:
  - name: Account
    decorators: [{name: database, args: ['"accounts"']}]
    fields:
      - {name: owner, type: string}
      - {name: balance, type: Balance}
  - name: Token
    extends: Contract
    methods:
      - name: transfer
        decorators: [{name: action}]
        params:
          - {name: to, type: string}
          - {name: amount, type: Balance}
      - name: supply
        decorators: [{name: action}]
        returns: u64
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := newCommand("test")
	c.Writer = &out
	c.ErrWriter = &errOut
	err := c.Run(context.Background(), append([]string{"abigen"}, args...))
	return out.String(), err
}

func TestGen(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.yaml", graphYAML)

	out, err := run(t, "gen", graphPath)
	require.NoError(t, err)
	doc, err := abi.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, abi.DefaultVersion, doc.Version)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "accounts", doc.Tables[0].Name)
	require.Len(t, doc.Actions, 2)

	abiPath := filepath.Join(dir, "abi.yaml")
	_, err = run(t, "--abi-version", "custom:1", "gen", "-f", "yaml", "-o", abiPath, graphPath)
	require.NoError(t, err)
	data, err := os.ReadFile(abiPath)
	require.NoError(t, err)
	doc, err = abi.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "custom:1", doc.Version)
}

func TestGen_OutputErrors(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.yaml", graphYAML)

	_, err := run(t, "gen", "-o", filepath.Join(dir, "missing", "abi.json"), graphPath)
	assert.ErrorContains(t, err, "creating")

	_, err = run(t, "gen", "-f", "xml", "-o", filepath.Join(dir, "abi.xml"), graphPath)
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "abi.xml"))
	assert.True(t, os.IsNotExist(statErr), "an unknown format is rejected before the file is created")
}

func TestGen_ConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.yaml", graphYAML)
	cfg := writeFile(t, dir, "abigen.yaml", "version: env:2\ntable:\n  index_type: u64\n")
	t.Setenv("ABIGEN_CONFIG", cfg)

	out, err := run(t, "gen", graphPath)
	require.NoError(t, err)
	doc, err := abi.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "env:2", doc.Version)
	assert.Equal(t, "u64", doc.Tables[0].IndexType)
}

func TestGen_Errors(t *testing.T) {
	_, err := run(t, "gen")
	assert.ErrorContains(t, err, "usage:")

	_, err = run(t, "gen", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", `
classes:
  - name: T
    extends: Contract
    methods:
      - name: get
        decorators: [{name: action}]
        returns: T
`)
	_, err = run(t, "gen", bad)
	assert.ErrorContains(t, err, "unsupported_return")
}

func TestDispatch(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.yaml", graphYAML)

	out, err := run(t, "dispatch", graphPath)
	require.NoError(t, err)
	assert.Contains(t, out, "routine Token\n")
	assert.Contains(t, out, "guard")
	assert.Contains(t, out, "result = _Token.supply()")
	assert.NotContains(t, out, "\033[")

	out, err = run(t, "dispatch", "--json", graphPath)
	require.NoError(t, err)
	var routines []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &routines))
	require.Len(t, routines, 1)
	assert.Equal(t, "Token", routines[0]["contract"])
}

func TestEncodeDecode(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.yaml", graphYAML)
	abiPath := filepath.Join(dir, "abi.json")
	_, err := run(t, "gen", "-o", abiPath, graphPath)
	require.NoError(t, err)

	out, err := run(t, "encode", "--abi", abiPath, "transfer", `{"to": "bob", "amount": 5}`)
	require.NoError(t, err)
	assert.Equal(t, "0x03626f620500000000000000\n", out)

	out, err = run(t, "decode", "--abi", abiPath, "transfer", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.JSONEq(t, `{"to": "bob", "amount": 5}`, out)

	_, err = run(t, "decode", "--abi", abiPath, "transfer", "0xzz")
	assert.ErrorContains(t, err, "invalid hex")

	_, err = run(t, "encode", "transfer", "{}")
	assert.Error(t, err, "--abi is required")
}
