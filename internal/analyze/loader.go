package analyze

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Options configures an Analyzer.
type Options struct {
	// Dir is the working directory patterns are resolved against.
	Dir string
	// BuildTags are passed to the build system as -tags.
	BuildTags []string
	// Tag is the struct tag key; `tag:"-"` excludes a field.
	Tag string
	// Directive marks records in their doc comment, without the leading "//".
	Directive string
	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the default analyzer options.
func DefaultOptions() Options {
	return Options{
		Tag:       "persistent",
		Directive: "persistent:derive",
	}
}

// Analyzer loads Go packages and discovers records.
type Analyzer struct {
	opts Options
	log  *zap.Logger
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts Options) *Analyzer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Analyzer{opts: opts, log: log}
}

// LoadPackages loads the specified packages and returns their records.
// Patterns are standard Go package patterns (e.g., ".", "persistent-generator/examples/basic").
//
// Methods declared in files previously written by persistent-gen are not
// reported. When the packages fail to type-check and such files exist, they
// are replaced by a bare package clause and the load is retried, so a stale
// generated file never blocks regeneration.
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	pkgs, err := a.load(ctx, patterns, nil)
	if err != nil {
		return nil, err
	}

	overlay, err := a.findGenerated(pkgs)
	if err != nil {
		return nil, err
	}

	if errs := a.packageErrors(pkgs, false); len(errs) > 0 {
		if len(overlay) == 0 {
			return nil, fmt.Errorf("package errors: %v", errs)
		}

		a.log.Debug("package errors, retrying with generated files masked", zap.Int("errors", len(errs)))

		pkgs, err = a.load(ctx, patterns, overlay)
		if err != nil {
			return nil, err
		}

		if errs := a.packageErrors(pkgs, true); len(errs) > 0 {
			return nil, fmt.Errorf("package errors: %v", errs)
		}
	}

	out := make([]*Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		p := a.processPackage(pkg, overlay)
		for file := range overlay {
			if filepath.Dir(file) == p.Dir {
				p.Generated = append(p.Generated, filepath.Base(file))
			}
		}
		sort.Strings(p.Generated)
		out = append(out, p)

		a.log.Debug("loaded package",
			zap.String("path", p.Path),
			zap.Int("types", len(p.Records)),
			zap.Strings("generated", p.Generated))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out, nil
}

func (a *Analyzer) load(ctx context.Context, patterns []string, overlay map[string][]byte) ([]*packages.Package, error) {
	cfg := a.config(ctx, LoadMode)
	cfg.Overlay = overlay

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	return pkgs, nil
}

// packageErrors collects load errors. With tolerateTypes, type-checking
// errors are logged and dropped; go/types still records every declaration.
func (a *Analyzer) packageErrors(pkgs []*packages.Package, tolerateTypes bool) []error {
	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if tolerateTypes && e.Kind == packages.TypeError {
				a.log.Warn("ignoring type error", zap.String("package", pkg.PkgPath), zap.String("error", e.Error()))
				continue
			}

			errs = append(errs, e)
		}
	}

	return errs
}

func (a *Analyzer) config(ctx context.Context, mode packages.LoadMode) *packages.Config {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    mode,
		Dir:     a.opts.Dir,
	}

	if len(a.opts.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(a.opts.BuildTags, ",")}
	}

	return cfg
}

// processPackage extracts records from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package, generated map[string][]byte) *Package {
	p := &Package{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		p.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	derived := a.derivedTypes(pkg.Syntax)

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}

		rec := a.analyzeTypeName(pkg, typeName, generated)
		rec.Dir = p.Dir
		rec.Derive = derived[name]
		p.Records = append(p.Records, rec)
	}

	sort.SliceStable(p.Records, func(i, j int) bool {
		pi, pj := p.Records[i].Pos, p.Records[j].Pos
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}

		return pi.Offset < pj.Offset
	})

	return p
}

// analyzeTypeName builds the record for a package-level type declaration.
func (a *Analyzer) analyzeTypeName(pkg *packages.Package, tn *types.TypeName, generated map[string][]byte) *Record {
	rec := &Record{
		ID:      TypeID{PkgPath: pkg.PkgPath, Name: tn.Name()},
		PkgName: pkg.Name,
		Pos:     pkg.Fset.Position(tn.Pos()),
	}

	if tn.IsAlias() {
		rec.Kind = TypeKindAlias
		return rec
	}

	named, ok := tn.Type().(*types.Named)
	if !ok {
		rec.Kind = TypeKindUnknown
		return rec
	}

	rec.Kind = kindOf(named.Underlying())

	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if _, ok := generated[pkg.Fset.Position(m.Pos()).Filename]; ok {
			continue
		}

		rec.Methods = append(rec.Methods, m.Name())
	}
	sort.Strings(rec.Methods)

	tparams := named.TypeParams()
	for i := 0; i < tparams.Len(); i++ {
		rec.TypeParams = append(rec.TypeParams, tparams.At(i).Obj().Name())
	}

	if st, ok := named.Underlying().(*types.Struct); ok {
		imports := newImportSet(pkg.Types)
		a.analyzeStructFields(st, rec, imports)
		rec.Imports = imports.list()
	}

	return rec
}

// analyzeStructFields extracts fields from a struct type.
func (a *Analyzer) analyzeStructFields(st *types.Struct, rec *Record, imports *importSet) {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		f := Field{
			Name:     field.Name(),
			Exported: field.Exported(),
			GoType:   field.Type(),
			Tag:      tag,
			Embedded: field.Embedded(),
			Index:    i,
			Skipped:  a.opts.Tag != "" && tag.Get(a.opts.Tag) == "-",
		}

		// Only eligible fields contribute imports to the generated file.
		if f.Eligible() {
			f.Type = types.TypeString(field.Type(), imports.qualify)
		} else {
			f.Type = types.TypeString(field.Type(), nil)
		}

		rec.Fields = append(rec.Fields, f)
	}
}

// derivedTypes returns the names of type specs whose doc comment carries the
// derive directive.
func (a *Analyzer) derivedTypes(files []*ast.File) map[string]bool {
	out := make(map[string]bool)
	if a.opts.Directive == "" {
		return out
	}

	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				if hasDirective(doc, a.opts.Directive) {
					out[ts.Name.Name] = true
				}
			}
		}
	}

	return out
}

// hasDirective reports whether cg contains a "//directive" line.
func hasDirective(cg *ast.CommentGroup, directive string) bool {
	if cg == nil {
		return false
	}

	want := "//" + directive
	for _, c := range cg.List {
		if c.Text == want || strings.HasPrefix(c.Text, want+" ") {
			return true
		}
	}

	return false
}
