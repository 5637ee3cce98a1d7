// Package diagnostic provides structured warnings, errors and notes
// produced while records are discovered and planned.
//
// Key capabilities:
//   - Build-time rejections (not a struct, alias, no named fields, conflicts)
//   - "Did you mean" suggestions for unknown type names
//   - Notes about skipped and embedded fields
package diagnostic
