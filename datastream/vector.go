package datastream

import (
	"fmt"

	abierr "github.com/rubiojr/abigen/errors"
)

// MaxEmptyElements caps the count of a vector whose elements encode to zero
// bytes. The count of such a vector is not bounded by the input length.
const MaxEmptyElements = 1 << 16

// Scalar is the set of fixed-width values the stream reads and writes.
type Scalar interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64 | bool
}

// Serializable is implemented by records that encode themselves.
type Serializable interface {
	Serialize(w *Writer)
	Deserialize(r *Reader) error
	Key() string
}

// Write writes one scalar.
func Write[T Scalar](w *Writer, v T) {
	switch x := any(v).(type) {
	case int8:
		w.WriteInt8(x)
	case int16:
		w.WriteInt16(x)
	case int32:
		w.WriteInt32(x)
	case int64:
		w.WriteInt64(x)
	case uint8:
		w.WriteUint8(x)
	case uint16:
		w.WriteUint16(x)
	case uint32:
		w.WriteUint32(x)
	case uint64:
		w.WriteUint64(x)
	case float32:
		w.WriteFloat32(x)
	case float64:
		w.WriteFloat64(x)
	case bool:
		w.WriteBool(x)
	}
}

// Read reads one scalar.
func Read[T Scalar](r *Reader) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *int8:
		*p, err = r.ReadInt8()
	case *int16:
		*p, err = r.ReadInt16()
	case *int32:
		*p, err = r.ReadInt32()
	case *int64:
		*p, err = r.ReadInt64()
	case *uint8:
		*p, err = r.ReadUint8()
	case *uint16:
		*p, err = r.ReadUint16()
	case *uint32:
		*p, err = r.ReadUint32()
	case *uint64:
		*p, err = r.ReadUint64()
	case *float32:
		*p, err = r.ReadFloat32()
	case *float64:
		*p, err = r.ReadFloat64()
	case *bool:
		*p, err = r.ReadBool()
	}
	return out, err
}

// WriteVector writes a varuint32 count followed by each scalar.
func WriteVector[T Scalar](w *Writer, v []T) {
	w.WriteVarUint32(uint32(len(v)))
	for _, x := range v {
		Write(w, x)
	}
}

// ReadVector reads a vector written by WriteVector.
func ReadVector[T Scalar](r *Reader) ([]T, error) {
	n, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	if int(n) > r.Remaining() {
		return nil, fmt.Errorf("vector of %d elements: %w", n, outOfBounds(r, int(n)))
	}
	out := make([]T, n)
	for i := range out {
		if out[i], err = Read[T](r); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

// WriteStringVector writes a varuint32 count followed by each string.
func WriteStringVector(w *Writer, v []string) {
	w.WriteVarUint32(uint32(len(v)))
	for _, s := range v {
		w.WriteString(s)
	}
}

// ReadStringVector reads a vector written by WriteStringVector.
func ReadStringVector(r *Reader) ([]string, error) {
	n, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	if int(n) > r.Remaining() {
		return nil, fmt.Errorf("vector of %d strings: %w", n, outOfBounds(r, int(n)))
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = r.ReadString(); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

// WriteComplexVector writes a varuint32 count followed by each record's
// own encoding.
func WriteComplexVector[T Serializable](w *Writer, v []T) {
	w.WriteVarUint32(uint32(len(v)))
	for _, x := range v {
		x.Serialize(w)
	}
}

// ReadComplexVector reads a vector written by WriteComplexVector,
// allocating a zero T for each element before decoding into it.
func ReadComplexVector[T any, P interface {
	*T
	Serializable
}](r *Reader) ([]P, error) {
	n, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	// Empty records encode to zero bytes, so the count cannot be checked
	// against the remaining input up front.
	out := make([]P, 0, min(int(n), r.Remaining()))
	for i := 0; i < int(n); i++ {
		start := r.Position()
		p := P(new(T))
		if err := p.Deserialize(r); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if r.Position() == start && n > MaxEmptyElements {
			return nil, abierr.InvalidInput(abierr.PhaseDecode, nil,
				"count %d of zero-width records exceeds %d", n, MaxEmptyElements)
		}
		out = append(out, p)
	}
	return out, nil
}
