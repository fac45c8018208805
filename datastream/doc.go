// Package datastream implements the contract wire encoding that dispatch
// routines read arguments from and write replies to.
//
// Fixed-width scalars are little-endian. Lengths and element counts are
// unsigned LEB128 varuint32 values. Strings and byte sequences are a length
// followed by the raw bytes; vectors are a count followed by the elements.
// Records implement Serializable and encode their own fields in order.
package datastream
