// Package gen provides deterministic Go code generation for record methods.
//
// Generation uses text/template + go/format (or golang.org/x/tools/imports
// when goimports-style output is requested). Every record gets its own file,
// written next to the record's declaration.
//
// Codegen patterns:
//   - with-method: assign the argument into the receiver copy and return it
//   - update-method: assign fn applied to the current value and return the copy
package gen
