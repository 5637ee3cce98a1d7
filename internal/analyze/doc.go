// Package analyze provides package loading and record discovery.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build an in-memory model of every named type declared in the
// loaded packages, and selects the records persistent-gen derives
// methods for.
//
// Key types:
//   - TypeID: package import path + type name
//   - Record: a named type with its kind, type parameters, fields and methods
//   - Field: field name, rendered type, tag, visibility and embedding
package analyze
