package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persistent-generator/internal/analyze"
	"persistent-generator/internal/plan"
)

func planFor(t *testing.T, rec *analyze.Record) plan.RecordPlan {
	t.Helper()

	plans, diags := plan.NewPlanner(plan.DefaultConfig()).Plan([]*analyze.Record{rec})
	require.NoError(t, diags.Error())
	require.Len(t, plans, 1)

	return plans[0]
}

func fooRecord(dir string) *analyze.Record {
	return &analyze.Record{
		ID:      analyze.TypeID{PkgPath: "example.com/basic", Name: "Foo"},
		PkgName: "basic",
		Dir:     dir,
		Kind:    analyze.TypeKindStruct,
		Fields:  []analyze.Field{{Name: "Foo", Exported: true, Type: "uint8"}},
	}
}

func TestGenerator_Generate_Basic(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())

	files, err := g.Generate([]plan.RecordPlan{planFor(t, fooRecord("/src/basic"))})
	require.NoError(t, err)
	require.Len(t, files, 1)

	want := `// Code generated by persistent-gen. DO NOT EDIT.

package basic

// WithFoo returns a copy of f with Foo set to v.
func (f Foo) WithFoo(v uint8) Foo {
	f.Foo = v
	return f
}

// UpdateFoo returns a copy of f with Foo replaced by fn applied to its current value.
func (f Foo) UpdateFoo(fn func(uint8) uint8) Foo {
	f.Foo = fn(f.Foo)
	return f
}
`

	assert.Equal(t, want, string(files[0].Content))
	assert.Equal(t, "foo_persistent.go", files[0].Filename)
	assert.Equal(t, filepath.Join("/src/basic", "foo_persistent.go"), files[0].Path())
	assert.Equal(t, analyze.TypeID{PkgPath: "example.com/basic", Name: "Foo"}, files[0].Record)
}

func TestGenerator_Generate_Generic(t *testing.T) {
	rec := &analyze.Record{
		ID:         analyze.TypeID{PkgPath: "example.com/generic", Name: "GStruct"},
		PkgName:    "generic",
		Kind:       analyze.TypeKindStruct,
		TypeParams: []string{"T"},
		Fields:     []analyze.Field{{Name: "foo", Type: "T"}},
	}

	g := NewGenerator(GeneratorConfig{OutputSuffix: "_persistent.go"})

	files, err := g.Generate([]plan.RecordPlan{planFor(t, rec)})
	require.NoError(t, err)
	require.Len(t, files, 1)

	want := `// Code generated by persistent-gen. DO NOT EDIT.

package generic

func (g GStruct[T]) withFoo(v T) GStruct[T] {
	g.foo = v
	return g
}

func (g GStruct[T]) updateFoo(fn func(T) T) GStruct[T] {
	g.foo = fn(g.foo)
	return g
}
`

	assert.Equal(t, want, string(files[0].Content))
	assert.Equal(t, "g_struct_persistent.go", files[0].Filename)
}

func TestGenerator_Generate_ImportsAndBuildTags(t *testing.T) {
	rec := &analyze.Record{
		ID:      analyze.TypeID{PkgPath: "example.com/mixed", Name: "Event"},
		PkgName: "mixed",
		Kind:    analyze.TypeKindStruct,
		Fields: []analyze.Field{
			{Name: "At", Exported: true, Type: "time.Time"},
			{Name: "Doc", Exported: true, Type: "*yaml2.Node"},
		},
		Imports: []analyze.Import{
			{Name: "yaml2", Path: "gopkg.in/yaml.v3"},
			{Name: "time", Path: "time"},
		},
	}

	cfg := DefaultGeneratorConfig()
	cfg.BuildTags = []string{"linux", "integration"}
	cfg.GenerateComments = false

	files, err := NewGenerator(cfg).Generate([]plan.RecordPlan{planFor(t, rec)})
	require.NoError(t, err)
	require.Len(t, files, 1)

	content := string(files[0].Content)
	assert.Contains(t, content, "//go:build linux && integration\n\npackage mixed\n")
	assert.Contains(t, content, "import (\n\tyaml2 \"gopkg.in/yaml.v3\"\n\t\"time\"\n)\n")
	assert.Contains(t, content, "func (e Event) WithDoc(v *yaml2.Node) Event {")
	assert.Contains(t, content, "func (e Event) UpdateAt(fn func(time.Time) time.Time) Event {")
	assert.NotContains(t, content, "// WithAt")
}

func TestGenerator_Generate_Goimports(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Goimports = true

	files, err := NewGenerator(cfg).Generate([]plan.RecordPlan{planFor(t, fooRecord(""))})
	require.NoError(t, err)

	plain, err := NewGenerator(DefaultGeneratorConfig()).Generate([]plan.RecordPlan{planFor(t, fooRecord(""))})
	require.NoError(t, err)

	assert.Equal(t, string(plain[0].Content), string(files[0].Content))
}

func TestGenerator_Generate_Deterministic(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	plans := []plan.RecordPlan{planFor(t, fooRecord(""))}

	first, err := g.Generate(plans)
	require.NoError(t, err)

	second, err := g.Generate(plans)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerator_Generate_Output(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Output = "methods.go"
	g := NewGenerator(cfg)

	files, err := g.Generate([]plan.RecordPlan{planFor(t, fooRecord(""))})
	require.NoError(t, err)
	assert.Equal(t, "methods.go", files[0].Filename)

	other := fooRecord("")
	other.ID.Name = "Bar"

	_, err = g.Generate([]plan.RecordPlan{planFor(t, fooRecord("")), planFor(t, other)})
	require.ErrorIs(t, err, ErrAmbiguousOutput)
}

func TestGenerator_Generate_FilenameCollision(t *testing.T) {
	a := fooRecord("/src")
	a.ID.Name = "HTTPServer"
	b := fooRecord("/src")
	b.ID.Name = "HttpServer"

	_, err := NewGenerator(DefaultGeneratorConfig()).Generate([]plan.RecordPlan{planFor(t, a), planFor(t, b)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_server_persistent.go")
}

func TestGenerator_Generate_FormatFailureWritesSidecar(t *testing.T) {
	dir := t.TempDir()

	rec := fooRecord(dir)
	rec.Fields[0].Type = "func("

	_, err := NewGenerator(DefaultGeneratorConfig()).Generate([]plan.RecordPlan{planFor(t, rec)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatting code")

	raw, err := os.ReadFile(filepath.Join(dir, "_foo_persistent.unformatted.go"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "func (f Foo) WithFoo(v func() Foo {")
}
