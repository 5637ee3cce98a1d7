package analyze

import (
	"fmt"
	"sort"

	"persistent-generator/internal/diagnostic"
	"persistent-generator/internal/match"
)

// maxSuggestions bounds the "did you mean" list of a not-found diagnostic.
const maxSuggestions = 3

// Select picks the records to generate methods for.
//
// With explicit names each name must resolve to a type in one of the
// packages. Without names every type carrying the derive directive is
// selected. Selected records are validated; rejected records are reported as
// error diagnostics and left out of the result. Records are returned grouped
// by package, in declaration order.
func Select(pkgs []*Package, names []string) ([]*Record, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	picked := make(map[*Record]bool)

	if len(names) == 0 {
		for _, pkg := range pkgs {
			for _, rec := range pkg.Records {
				if rec.Derive {
					picked[rec] = true
				}
			}
		}
	}

	for _, name := range names {
		found := false

		for _, pkg := range pkgs {
			if rec := pkg.Lookup(name); rec != nil {
				picked[rec] = true
				found = true
			}
		}

		if !found {
			diags.AddError(ErrNotFound, diagnostic.CodeNotFound,
				fmt.Sprintf("type %s not found", name), name, "",
				match.Suggest(name, allNames(pkgs), maxSuggestions)...)
		}
	}

	var out []*Record

	for _, pkg := range pkgs {
		for _, rec := range pkg.Records {
			if !picked[rec] {
				continue
			}

			if Validate(rec, &diags) {
				out = append(out, rec)
			}
		}
	}

	return out, diags
}

// Validate reports whether methods can be generated for rec. Problems are
// added to diags: errors for rejections, infos for fields left out.
func Validate(rec *Record, diags *diagnostic.Diagnostics) bool {
	id := rec.ID.String()

	switch {
	case rec.Kind == TypeKindAlias:
		diags.AddError(ErrAlias, diagnostic.CodeAlias,
			fmt.Sprintf("%s is an alias; methods can only be declared on defined struct types", rec.ID.Name), id, "")

		return false

	case rec.Kind != TypeKindStruct:
		diags.AddError(ErrNotStruct, diagnostic.CodeNotStruct,
			fmt.Sprintf("persistent-gen may only be used with structs, %s is a %s type", rec.ID.Name, rec.Kind), id, "")

		return false
	}

	for _, f := range rec.Fields {
		switch {
		case f.Skipped:
			diags.AddInfo(diagnostic.CodeSkippedField, "field excluded by struct tag", id, f.Name)
		case f.Embedded && f.Eligible():
			diags.AddInfo(diagnostic.CodeEmbeddedField,
				fmt.Sprintf("embedded field uses its type name %s", f.Name), id, f.Name)
		}
	}

	if len(rec.Eligible()) == 0 {
		diags.AddError(ErrNoNamedFields, diagnostic.CodeNoNamedFields,
			fmt.Sprintf("persistent-gen may only be used on structs with named fields, %s has none", rec.ID.Name), id, "")

		return false
	}

	return true
}

func allNames(pkgs []*Package) []string {
	seen := make(map[string]bool)

	var names []string

	for _, pkg := range pkgs {
		for _, n := range pkg.Names() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}

	sort.Strings(names)

	return names
}
