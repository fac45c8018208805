package typeinfo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	abierr "github.com/rubiojr/abigen/errors"
	"github.com/rubiojr/abigen/graph"
)

func testScope(t *testing.T) *graph.Scope {
	t.Helper()
	g := graph.New()
	root := g.Root()
	require.NoError(t, g.AddClass(root, &graph.ClassDecl{Name: "Account"}))
	require.NoError(t, g.AddAlias(root, &graph.TypeAliasDecl{Name: "Balance", Type: graph.Ref("u64")}))
	require.NoError(t, g.AddAlias(root, &graph.TypeAliasDecl{Name: "Amount", Type: graph.Ref("Balance")}))
	require.NoError(t, g.AddAlias(root, &graph.TypeAliasDecl{Name: "Quantity", Type: graph.Ref("Amount")}))
	require.NoError(t, g.AddAlias(root, &graph.TypeAliasDecl{Name: "Holder", Type: graph.Ref("Account")}))
	require.NoError(t, g.AddAlias(root, &graph.TypeAliasDecl{Name: "Name", Type: graph.Ref("string")}))
	require.NoError(t, g.AddAlias(root, &graph.TypeAliasDecl{Name: "Digest", Type: graph.Ref("hash256")}))
	require.NoError(t, g.AddAlias(root, &graph.TypeAliasDecl{Name: "Ping", Type: graph.Ref("Pong")}))
	require.NoError(t, g.AddAlias(root, &graph.TypeAliasDecl{Name: "Pong", Type: graph.Ref("Ping")}))
	return root
}

func TestClassify(t *testing.T) {
	scope := testScope(t)
	tests := []struct {
		typ      string
		category Category
		declared string
	}{
		{"string", String, "string"},
		{"String", String, "string"},
		{"u64", Number, "u64"},
		{"Balance", Number, "Balance"},
		{"Unknown", Number, "Unknown"},
		{"Account", Class, "Account"},
		{"Array<i64>", Array, "i64[]"},
		{"Account[]", Array, "Account[]"},
		{"Map<string,u64>", Map, "string,u64{}"},
		{"ArrayMap<u32,Account>", Map, "u32,Account[]{}"},
		{"Array<Array<u8>>", Array, "Array<u8>[]"},
		{"u8[][]", Array, "u8[][]"},
		{"Map<string, u64[]>", Map, "string,u64[]{}"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			a := New(scope, graph.MustParseTypeRef(tt.typ))
			assert.Equal(t, tt.category, a.Category, "category")
			assert.Equal(t, tt.declared, a.DeclaredType(), "declared type")
		})
	}
}

func TestAsTypes(t *testing.T) {
	scope := testScope(t)
	assert.Equal(t, []graph.Ident{"u64"}, New(scope, graph.MustParseTypeRef("u64")).AsTypes())
	assert.Equal(t, []graph.Ident{"string", "Account"},
		New(scope, graph.MustParseTypeRef("Map<string, Account>")).AsTypes())
}

func TestSourceABIType_AliasChain(t *testing.T) {
	scope := testScope(t)
	a := New(scope, graph.Ref("u64"))

	// Resolution is the same wherever the chain is entered.
	for _, name := range []graph.Ident{"u64", "Balance", "Amount", "Quantity"} {
		got, err := a.SourceABIType(name)
		require.NoError(t, err)
		assert.Equal(t, "uint64", got, name)
	}

	got, err := a.SourceABIType("Holder")
	require.NoError(t, err)
	assert.Equal(t, "Account", got)

	got, err = a.SourceABIType("Unknown")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", got)

	src, err := a.SourceType("Holder")
	require.NoError(t, err)
	assert.Equal(t, graph.Ident("Account"), src)
}

func TestSourceABIType_Cycle(t *testing.T) {
	scope := testScope(t)
	a := NewWithDepth(scope, graph.Ref("Ping"), 8)

	_, err := a.SourceABIType("Ping")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &abierr.Error{Phase: abierr.PhaseExtract, Kind: abierr.KindAliasCycle}))

	_, err = a.SourceType("Pong")
	assert.Error(t, err)
}

func TestArrayElemCategory(t *testing.T) {
	scope := testScope(t)
	tests := []struct {
		typ  string
		want Category
		elem string
	}{
		{"Array<u64>", Number, "u64"},
		{"Array<string>", String, "string"},
		{"Array<Account>", Class, "Account"},
		{"Array<Holder>", Class, "Holder"},
		{"Array<Array<u8>>", Number, "Array<u8>"},
		{"Array<Map<u8,u8>>", Number, "Map<u8,u8>"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			a := New(scope, graph.MustParseTypeRef(tt.typ))
			got, err := a.ArrayElemCategory()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.elem, a.ArrayElemType())
		})
	}
}

func TestClassifyReturn(t *testing.T) {
	scope := testScope(t)
	tests := []struct {
		typ  string
		want ReturnKind
		err  bool
	}{
		{"", ReturnVoid, false},
		{"void", ReturnVoid, false},
		{"i32", ReturnNumber, false},
		{"bool", ReturnNumber, false},
		{"Quantity", ReturnNumber, false},
		{"string", ReturnString, false},
		{"Name", ReturnString, false},
		{"bytes", ReturnBytes, false},
		{"Digest", ReturnBytes, false},
		{"Account", ReturnVoid, true},
		{"Unknown", ReturnVoid, true},
		{"Array<u8>", ReturnVoid, true},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			var ref *graph.TypeRef
			if tt.typ != "" {
				r := graph.MustParseTypeRef(tt.typ)
				ref = &r
			}
			got, err := ClassifyReturn(scope, ref, 0, "Token", "m")
			if tt.err {
				require.Error(t, err)
				assert.True(t, errors.Is(err, &abierr.Error{Phase: abierr.PhaseSynthesize, Kind: abierr.KindUnsupportedReturn}))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "number", Number.String())
	assert.Equal(t, "class", Class.String())
	assert.Equal(t, "unknown", Category(42).String())
	assert.Equal(t, "bytes", ReturnBytes.String())
}
