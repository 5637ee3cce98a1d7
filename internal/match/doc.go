// Package match provides identifier normalization, edit distance and
// "did you mean" ranking of type names.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks the known names closest to an unknown one
//   - SnakeCase: derives file names from type names
package match
