package typeinfo

import "github.com/rubiojr/abigen/graph"

// PrimitiveInfo describes a builtin wire type.
type PrimitiveInfo struct {
	// ABIName is the canonical spelling recorded in the ABI document.
	ABIName string
	// Opaque marks byte-sequence types (bytes, hashes, keys, signatures)
	// that are replied to as raw bytes.
	Opaque bool
}

var primitives = map[graph.Ident]PrimitiveInfo{
	"i8":        {ABIName: "int8"},
	"i16":       {ABIName: "int16"},
	"i32":       {ABIName: "int32"},
	"i64":       {ABIName: "int64"},
	"isize":     {ABIName: "isize"},
	"u8":        {ABIName: "uint8"},
	"u16":       {ABIName: "uint16"},
	"u32":       {ABIName: "uint32"},
	"u64":       {ABIName: "uint64"},
	"usize":     {ABIName: "usize"},
	"f32":       {ABIName: "float32"},
	"f64":       {ABIName: "float64"},
	"bool":      {ABIName: "bool"},
	"boolean":   {ABIName: "bool"},
	"string":    {ABIName: "string"},
	"String":    {ABIName: "string"},
	"bytes":     {ABIName: "bytes", Opaque: true},
	"hash160":   {ABIName: "hash160", Opaque: true},
	"hash256":   {ABIName: "hash256", Opaque: true},
	"hash512":   {ABIName: "hash512", Opaque: true},
	"publicKey": {ABIName: "publicKey", Opaque: true},
	"signature": {ABIName: "signature", Opaque: true},
}

// Primitive looks up a builtin primitive spelling.
func Primitive(name graph.Ident) (PrimitiveInfo, bool) {
	p, ok := primitives[name]
	return p, ok
}

// IsString reports whether name spells the builtin string type.
func IsString(name graph.Ident) bool {
	return name == "string" || name == "String"
}

// IsArray reports whether name spells a homogeneous sequence.
func IsArray(name graph.Ident) bool {
	return name == "Array" || name == "[]"
}

// IsMap reports whether name spells an associative collection.
func IsMap(name graph.Ident) bool {
	return name == "Map" || name == "ArrayMap"
}

// IsArrayMap reports whether name spells the order-preserving map.
func IsArrayMap(name graph.Ident) bool {
	return name == "ArrayMap"
}

// VoidName is the return type spelling of a method with no result.
const VoidName graph.Ident = "void"
