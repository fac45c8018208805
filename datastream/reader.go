package datastream

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	abierr "github.com/rubiojr/abigen/errors"
)

// Reader decodes a contract wire encoding from a byte slice. Reads past the
// end fail with an errors.KindOutOfBounds error and leave the position
// unchanged.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func outOfBounds(r *Reader, want int) error {
	return abierr.OutOfBounds(abierr.PhaseDecode, r.pos, want, len(r.data))
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || n > len(r.data)-r.pos {
		return nil, outOfBounds(r, n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadRaw reads exactly n bytes. The returned slice is a copy.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	b, err := r.next(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBool reads one byte; any non-zero value is true.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}

// ReadVarUint32 reads an unsigned LEB128 encoded uint32.
func (r *Reader) ReadVarUint32() (uint32, error) {
	start := r.pos
	var result uint32
	var shift uint
	for {
		b, err := r.ReadUint8()
		if err != nil {
			r.pos = start
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			r.pos = start
			return 0, abierr.New(abierr.PhaseDecode, abierr.KindInvalidInput).
				Value(start).
				Detail("varuint32 overflow at offset %d", start).
				Build()
		}
	}
}

// ReadBytes reads a varuint32 length followed by that many bytes.
func (r *Reader) ReadBytes() ([]byte, error) {
	start := r.pos
	n, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	b, err := r.ReadRaw(int(n))
	if err != nil {
		r.pos = start
		return nil, err
	}
	return b, nil
}

// ReadString reads length-prefixed UTF-8.
func (r *Reader) ReadString() (string, error) {
	start := r.pos
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		r.pos = start
		return "", abierr.New(abierr.PhaseDecode, abierr.KindInvalidInput).
			Value(start).
			Detail("invalid UTF-8 in string at offset %d", start).
			Build()
	}
	return string(b), nil
}
