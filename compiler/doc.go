// Package compiler assembles an ABI document and per-contract dispatch
// routines from a semantic declaration graph.
//
// Compile enumerates the graph's classes once, in registration order. A
// class annotated as persistent storage yields a table and its flattened
// struct. A class whose immediate ancestor is the contract base has each
// action method turned into a synthetic parameter struct, an action entry
// and a guarded decode/invoke/reply block.
//
// Every cache lives in a session value created per call, so the traversal
// terminates on mutually referencing classes: a struct's slot is reserved
// before any of its field types is visited.
package compiler
