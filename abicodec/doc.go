// Package abicodec encodes and decodes action arguments using an assembled
// ABI document as the schema.
//
// Type expressions are resolved through the document's type aliases down to
// a builtin scalar, string, opaque byte type, vector (T[] or Array<T>), map
// (K,V{} or K,V[]{}) or struct. Structs encode their fields in order, base
// struct fields first; maps encode an entry count followed by key/value
// pairs. The wire format itself is implemented by package datastream.
package abicodec
