// Package plan turns selected records into method plans consumed by code
// generation.
//
// For every eligible field two methods are planned:
//  1. with<Field>(v T) R      replaces the field's value
//  2. update<Field>(fn func(T) T) R replaces it with fn applied to the current value
//
// Method visibility follows the field: exported fields get exported methods.
// Planned names that clash with a field, a hand-written method or another
// planned method are reported as conflicts.
package plan
