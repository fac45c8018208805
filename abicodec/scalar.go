package abicodec

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rubiojr/abigen/datastream"
	abierr "github.com/rubiojr/abigen/errors"
)

// numberText returns the textual form of a numeric argument. Numbers may be
// given as strings so 64-bit values survive JSON tooling that parses them
// as doubles.
func numberText(v any) (string, bool) {
	switch x := v.(type) {
	case json.Number:
		return string(x), true
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	default:
		return "", false
	}
}

func mismatch(name string, v any, cause error) error {
	e := abierr.TypeMismatch(abierr.PhaseEncode, nil, name, v)
	e.Cause = cause
	return e
}

func encodeScalar(name string, v any, w *datastream.Writer) error {
	if name == "bool" {
		b, ok := v.(bool)
		if !ok {
			return mismatch(name, v, nil)
		}
		w.WriteBool(b)
		return nil
	}

	text, ok := numberText(v)
	if !ok {
		return mismatch(name, v, nil)
	}
	bits := scalarWidths[name] * 8
	switch name {
	case "float32", "float64":
		f, err := strconv.ParseFloat(text, bits)
		if err != nil {
			return mismatch(name, v, err)
		}
		if bits == 32 {
			w.WriteFloat32(float32(f))
		} else {
			w.WriteFloat64(f)
		}
	case "int8", "int16", "int32", "int64", "isize":
		n, err := strconv.ParseInt(text, 0, bits)
		if err != nil {
			return mismatch(name, v, err)
		}
		writeUint(w, uint64(n), bits)
	default:
		n, err := strconv.ParseUint(text, 0, bits)
		if err != nil {
			return mismatch(name, v, err)
		}
		writeUint(w, n, bits)
	}
	return nil
}

func writeUint(w *datastream.Writer, n uint64, bits int) {
	switch bits {
	case 8:
		w.WriteUint8(uint8(n))
	case 16:
		w.WriteUint16(uint16(n))
	case 32:
		w.WriteUint32(uint32(n))
	default:
		w.WriteUint64(n)
	}
}

func decodeScalar(name string, r *datastream.Reader) (any, error) {
	switch name {
	case "bool":
		return r.ReadBool()
	case "int8":
		v, err := r.ReadInt8()
		return int64(v), err
	case "int16":
		v, err := r.ReadInt16()
		return int64(v), err
	case "int32", "isize":
		v, err := r.ReadInt32()
		return int64(v), err
	case "int64":
		return r.ReadInt64()
	case "uint8":
		v, err := r.ReadUint8()
		return uint64(v), err
	case "uint16":
		v, err := r.ReadUint16()
		return uint64(v), err
	case "uint32", "usize":
		v, err := r.ReadUint32()
		return uint64(v), err
	case "uint64":
		return r.ReadUint64()
	case "float32":
		v, err := r.ReadFloat32()
		return float64(v), err
	case "float64":
		return r.ReadFloat64()
	default:
		return nil, abierr.Unsupported(abierr.PhaseDecode, "scalar "+name)
	}
}
