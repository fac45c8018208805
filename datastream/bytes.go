package datastream

import (
	"encoding/hex"
	"strings"

	abierr "github.com/rubiojr/abigen/errors"
)

// Bytes is an opaque byte sequence: raw bytes, hashes, keys and signatures.
// On the wire it is a varuint32 length followed by the bytes.
type Bytes []byte

var _ Serializable = (*Bytes)(nil)

// FromHex parses a hex string with an optional 0x prefix, first digit pair
// first. An odd number of digits is read as if a leading zero were present.
func FromHex(s string) (Bytes, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, abierr.New(abierr.PhaseDecode, abierr.KindInvalidInput).
			Value(s).
			Detail("invalid hex").
			Cause(err).
			Build()
	}
	return Bytes(b), nil
}

// FromHexLE parses a hex string whose last digit pair is the first byte,
// the little-endian spelling used for hashes and addresses. An odd number
// of digits leaves the leading digit as the last byte.
func FromHexLE(s string) (Bytes, error) {
	b, err := FromHex(s)
	if err != nil {
		return nil, err
	}
	return b.SwapEndian(), nil
}

// FromString returns the UTF-8 bytes of s.
func FromString(s string) Bytes {
	return Bytes(s)
}

// Hex returns the 0x-prefixed lowercase hex form.
func (b Bytes) Hex() string {
	return "0x" + hex.EncodeToString(b)
}

// HexLE returns the 0x-prefixed hex form with the last byte first. It is
// the inverse of FromHexLE.
func (b Bytes) HexLE() string {
	return b.SwapEndian().Hex()
}

// String decodes b as UTF-8.
func (b Bytes) String() string {
	return string(b)
}

// Clone returns a copy of b.
func (b Bytes) Clone() Bytes {
	return append(Bytes(nil), b...)
}

// SwapEndian returns a reversed copy of b.
func (b Bytes) SwapEndian() Bytes {
	out := b.Clone()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Concat returns a new sequence holding b followed by other.
func (b Bytes) Concat(other Bytes) Bytes {
	out := make(Bytes, 0, len(b)+len(other))
	out = append(out, b...)
	return append(out, other...)
}

func (b Bytes) Serialize(w *Writer) {
	w.WriteBytes(b)
}

func (b *Bytes) Deserialize(r *Reader) error {
	data, err := r.ReadBytes()
	if err != nil {
		return err
	}
	*b = data
	return nil
}

func (b Bytes) Key() string {
	return ""
}
