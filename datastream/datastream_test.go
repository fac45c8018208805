package datastream

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	abierr "github.com/rubiojr/abigen/errors"
)

var errOutOfBounds = &abierr.Error{Phase: abierr.PhaseDecode, Kind: abierr.KindOutOfBounds}

func TestWriter_Scalars(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(0xab)
	w.WriteUint16(0x0102)
	w.WriteUint32(0x01020304)
	w.WriteUint64(1)
	w.WriteInt8(-1)
	w.WriteBool(true)
	w.WriteBool(false)

	assert.Equal(t, []byte{
		0xab,
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x01, 0, 0, 0, 0, 0, 0, 0,
		0xff,
		0x01,
		0x00,
	}, w.Bytes())
	assert.Equal(t, 18, w.Len())
}

func TestScalars_RoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteInt16(-300)
	w.WriteInt32(math.MinInt32)
	w.WriteInt64(math.MaxInt64)
	w.WriteFloat32(1.5)
	w.WriteFloat64(-2.25)

	r := NewReader(w.Bytes())
	i16, err := r.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(-300), i16)
	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), i32)
	i64, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), i64)
	f32, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)
	f64, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)
	assert.Equal(t, 0, r.Remaining())
}

func TestVarUint32(t *testing.T) {
	tests := []struct {
		value   uint32
		encoded []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{math.MaxUint32, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, tt := range tests {
		w := NewWriter()
		w.WriteVarUint32(tt.value)
		assert.Equal(t, tt.encoded, w.Bytes(), "encode %d", tt.value)

		got, err := NewReader(tt.encoded).ReadVarUint32()
		require.NoError(t, err)
		assert.Equal(t, tt.value, got)
	}
}

func TestVarUint32_Errors(t *testing.T) {
	r := NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01})
	_, err := r.ReadVarUint32()
	assert.True(t, errors.Is(err, &abierr.Error{Phase: abierr.PhaseDecode, Kind: abierr.KindInvalidInput}))
	assert.Equal(t, 0, r.Position())

	r = NewReader([]byte{0x80})
	_, err = r.ReadVarUint32()
	assert.True(t, errors.Is(err, errOutOfBounds))
	assert.Equal(t, 0, r.Position())
}

func TestStringAndBytes(t *testing.T) {
	w := NewWriter()
	w.WriteString("hi")
	w.WriteBytes([]byte{0xde, 0xad})
	w.WriteString("")
	assert.Equal(t, []byte{0x02, 'h', 'i', 0x02, 0xde, 0xad, 0x00}, w.Bytes())

	r := NewReader(w.Bytes())
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	b, err := r.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, b)
	s, err = r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestReader_OutOfBounds(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.ReadUint32()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errOutOfBounds))
	assert.Contains(t, err.Error(), "need 4 bytes at offset 0 (length 1)")
	assert.Equal(t, 0, r.Position(), "failed reads do not advance")

	r = NewReader([]byte{0x05, 'a', 'b'})
	_, err = r.ReadBytes()
	assert.True(t, errors.Is(err, errOutOfBounds))
	assert.Equal(t, 0, r.Position())
}

func TestReader_InvalidUTF8(t *testing.T) {
	r := NewReader([]byte{0x01, 0xff})
	_, err := r.ReadString()
	assert.True(t, errors.Is(err, &abierr.Error{Phase: abierr.PhaseDecode, Kind: abierr.KindInvalidInput}))
	assert.Equal(t, 0, r.Position())
}

func TestVectors(t *testing.T) {
	w := NewWriter()
	WriteVector(w, []uint16{1, 2})
	WriteVector(w, []bool{true})
	WriteStringVector(w, []string{"a", "bc"})
	assert.Equal(t, []byte{
		0x02, 0x01, 0x00, 0x02, 0x00,
		0x01, 0x01,
		0x02, 0x01, 'a', 0x02, 'b', 'c',
	}, w.Bytes())

	r := NewReader(w.Bytes())
	u16s, err := ReadVector[uint16](r)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2}, u16s)
	bools, err := ReadVector[bool](r)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, bools)
	strs, err := ReadStringVector(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bc"}, strs)
}

func TestReadVector_CountTooLarge(t *testing.T) {
	_, err := ReadVector[uint64](NewReader([]byte{0x03, 0x00}))
	assert.True(t, errors.Is(err, errOutOfBounds))

	_, err = ReadStringVector(NewReader([]byte{0x7f}))
	assert.True(t, errors.Is(err, errOutOfBounds))
}

type point struct {
	X, Y int32
}

func (p *point) Serialize(w *Writer) {
	w.WriteInt32(p.X)
	w.WriteInt32(p.Y)
}

func (p *point) Deserialize(r *Reader) error {
	var err error
	if p.X, err = r.ReadInt32(); err != nil {
		return err
	}
	p.Y, err = r.ReadInt32()
	return err
}

func (p *point) Key() string { return "" }

func TestComplexVector(t *testing.T) {
	in := []*point{{X: 1, Y: -1}, {X: 2, Y: 3}}
	w := NewWriter()
	WriteComplexVector(w, in)
	assert.Equal(t, 1+2*8, w.Len())

	out, err := ReadComplexVector[point](NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = ReadComplexVector[point](NewReader([]byte{0x02, 0x01, 0, 0, 0}))
	assert.True(t, errors.Is(err, errOutOfBounds))
}

type marker struct{}

func (*marker) Serialize(*Writer)         {}
func (*marker) Deserialize(*Reader) error { return nil }
func (*marker) Key() string               { return "" }

func TestComplexVector_EmptyRecords(t *testing.T) {
	out, err := ReadComplexVector[marker](NewReader([]byte{0x03}))
	require.NoError(t, err)
	assert.Len(t, out, 3)

	w := NewWriter()
	w.WriteVarUint32(MaxEmptyElements + 1)
	_, err = ReadComplexVector[marker](NewReader(w.Bytes()))
	assert.True(t, errors.Is(err, &abierr.Error{Phase: abierr.PhaseDecode, Kind: abierr.KindInvalidInput}))

	_, err = ReadComplexVector[marker](NewReader([]byte{0xff, 0xff, 0xff, 0x0f}))
	assert.Error(t, err)
}

func TestBytes(t *testing.T) {
	b, err := FromHex("0xabc")
	require.NoError(t, err)
	assert.Equal(t, Bytes{0x0a, 0xbc}, b)
	assert.Equal(t, "0x0abc", b.Hex())
	assert.Equal(t, Bytes{0xbc, 0x0a}, b.SwapEndian())
	assert.Equal(t, Bytes{0x0a, 0xbc}, b, "SwapEndian does not modify the receiver")

	c := b.Clone()
	c[0] = 0xff
	assert.Equal(t, byte(0x0a), b[0])

	assert.Equal(t, Bytes{0x0a, 0xbc, 0x01}, b.Concat(Bytes{0x01}))
	assert.Equal(t, "héllo", FromString("héllo").String())
	assert.Equal(t, "", b.Key())

	_, err = FromHex("0xzz")
	assert.True(t, errors.Is(err, &abierr.Error{Phase: abierr.PhaseDecode, Kind: abierr.KindInvalidInput}))

	empty, err := FromHex("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBytes_LittleEndianHex(t *testing.T) {
	tests := []struct {
		in   string
		want Bytes
	}{
		{"0x0102", Bytes{0x02, 0x01}},
		{"0x123", Bytes{0x23, 0x01}},
		{"abcdef", Bytes{0xef, 0xcd, 0xab}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b, err := FromHexLE(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b)
		})
	}

	assert.Equal(t, "0x0201", Bytes{0x01, 0x02}.HexLE())
	b, err := FromHexLE(Bytes{0x01, 0x02, 0x03}.HexLE())
	require.NoError(t, err)
	assert.Equal(t, Bytes{0x01, 0x02, 0x03}, b)

	_, err = FromHexLE("0xzz")
	assert.True(t, errors.Is(err, &abierr.Error{Phase: abierr.PhaseDecode, Kind: abierr.KindInvalidInput}))
}

func TestBytes_Serializable(t *testing.T) {
	w := NewWriter()
	Bytes{1, 2, 3}.Serialize(w)
	assert.Equal(t, []byte{0x03, 1, 2, 3}, w.Bytes())

	var b Bytes
	require.NoError(t, b.Deserialize(NewReader(w.Bytes())))
	assert.Equal(t, Bytes{1, 2, 3}, b)
}
