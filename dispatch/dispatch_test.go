package dispatch

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoutine() *Routine {
	return &Routine{
		Contract: "Token",
		Body: []Op{
			&NewInstance{Class: "Token", Bind: "_Token"},
			&OpenStream{Instance: "_Token", Bind: "ds"},
			&Guard{Action: "transfer", Body: []Op{
				&ReadString{Bind: "to"},
				&ReadScalar{Bind: "amount", Type: "Balance", ABIType: "uint64"},
				&ReadScalarVector{Bind: "memo", Elem: "u8"},
				&ReadStringVector{Bind: "tags"},
				&ReadRecordVector{Bind: "orders", Elem: "Order"},
				&ReadRecord{Bind: "acct", Type: "Account"},
				&Invoke{Instance: "_Token", Method: "transfer", Args: []string{"to", "amount", "memo", "tags", "orders", "acct"}},
			}},
			&Guard{Action: "balance", Body: []Op{
				&ReadString{Bind: "owner"},
				&Invoke{Instance: "_Token", Method: "balance", Args: []string{"owner"}, Result: "result"},
				&ReplyU64{Instance: "_Token", Value: "result"},
			}},
		},
	}
}

func TestRoutine_JSONRoundTrip(t *testing.T) {
	r := sampleRoutine()
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw struct {
		Contract string           `json:"contract"`
		Body     []map[string]any `json:"body"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Token", raw.Contract)
	require.Len(t, raw.Body, 4)
	assert.Equal(t, "new_instance", raw.Body[0]["op"])
	assert.Equal(t, "guard", raw.Body[2]["op"])
	inner := raw.Body[2]["body"].([]any)
	assert.Equal(t, "read_scalar", inner[1].(map[string]any)["op"])
	assert.Equal(t, "uint64", inner[1].(map[string]any)["abi_type"])
	_, hasResult := inner[6].(map[string]any)["result"]
	assert.False(t, hasResult, "discarded result is omitted")

	var back Routine
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, &back)
}

func TestRoutine_UnmarshalUnknownOp(t *testing.T) {
	var r Routine
	err := json.Unmarshal([]byte(`{"contract":"X","body":[{"op":"jump"}]}`), &r)
	assert.ErrorContains(t, err, "unknown op")
}

func TestRoutine_Guards(t *testing.T) {
	guards := sampleRoutine().Guards()
	require.Len(t, guards, 2)
	assert.Equal(t, "transfer", guards[0].Action)
	assert.Equal(t, "balance", guards[1].Action)
}

func TestBound(t *testing.T) {
	assert.Equal(t, "x", Bound(&ReadRecord{Bind: "x", Type: "A"}))
	assert.Equal(t, "", Bound(&Invoke{Method: "m"}))
}

func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Format(&buf, []*Routine{sampleRoutine()}, false))
	out := buf.String()

	assert.Contains(t, out, "routine Token\n")
	assert.Contains(t, out, "  guard               \"transfer\"\n")
	assert.Contains(t, out, "    read_scalar         amount: Balance (uint64)\n")
	assert.Contains(t, out, "    invoke              _Token.transfer(to, amount, memo, tags, orders, acct)\n")
	assert.Contains(t, out, "    invoke              result = _Token.balance(owner)\n")
	assert.NotContains(t, out, "\033[")

	buf.Reset()
	require.NoError(t, Format(&buf, []*Routine{sampleRoutine()}, true))
	assert.Contains(t, buf.String(), "\033[36mguard")
}
