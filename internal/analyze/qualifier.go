package analyze

import (
	"go/types"
	"sort"
	"strconv"
)

// importSet renders package qualifiers for one record and remembers every
// package it qualified. Two packages sharing a name get distinct identifiers.
type importSet struct {
	self   *types.Package
	byPath map[string]string
	taken  map[string]bool
}

func newImportSet(self *types.Package) *importSet {
	return &importSet{
		self:   self,
		byPath: make(map[string]string),
		taken:  make(map[string]bool),
	}
}

// qualify is a types.Qualifier.
func (s *importSet) qualify(p *types.Package) string {
	if p == nil || (s.self != nil && p.Path() == s.self.Path()) {
		return ""
	}

	if name, ok := s.byPath[p.Path()]; ok {
		return name
	}

	name := p.Name()
	for i := 2; s.unavailable(name); i++ {
		name = p.Name() + strconv.Itoa(i)
	}

	s.byPath[p.Path()] = name
	s.taken[name] = true

	return name
}

// unavailable reports whether name is used by another import or declared at
// package level in the record's own package.
func (s *importSet) unavailable(name string) bool {
	if s.taken[name] {
		return true
	}

	return s.self != nil && s.self.Scope().Lookup(name) != nil
}

// list returns the imports sorted by path.
func (s *importSet) list() []Import {
	out := make([]Import, 0, len(s.byPath))
	for path, name := range s.byPath {
		out = append(out, Import{Name: name, Path: path})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}
