// Package typeinfo classifies type references into wire categories and
// produces their canonical ABI spelling.
//
// Classification order is fixed: the builtin string spellings are String,
// Array and [] are Array, Map and ArrayMap are Map, a name that resolves to a
// declared class is Class, and everything else (numeric primitives, unknown
// names) falls into Number.
//
// Array elements are classified one level deep only. An array of arrays or
// of maps is reported as an array of Number.
package typeinfo
