package plan

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persistent-generator/internal/analyze"
	"persistent-generator/internal/diagnostic"
)

func fooRecord() *analyze.Record {
	return &analyze.Record{
		ID:      analyze.TypeID{PkgPath: "example/basic", Name: "Foo"},
		PkgName: "basic",
		Kind:    analyze.TypeKindStruct,
		Fields: []analyze.Field{
			{Name: "Foo", Exported: true, Type: "uint8"},
			{Name: "bar", Type: "string", Index: 1},
		},
	}
}

func TestPlanner_Plan_Basic(t *testing.T) {
	plans, diags := NewPlanner(DefaultConfig()).Plan([]*analyze.Record{fooRecord()})
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, plans, 1)

	rp := plans[0]
	assert.Equal(t, "f", rp.Receiver)
	assert.Equal(t, "v", rp.ValueParam)
	assert.Equal(t, "fn", rp.FuncParam)

	want := []Method{
		{Kind: MethodWith, Name: "WithFoo", Field: "Foo", FieldType: "uint8", Exported: true},
		{Kind: MethodUpdate, Name: "UpdateFoo", Field: "Foo", FieldType: "uint8", Exported: true},
		{Kind: MethodWith, Name: "withBar", Field: "bar", FieldType: "string"},
		{Kind: MethodUpdate, Name: "updateBar", Field: "bar", FieldType: "string"},
	}
	if diff := cmp.Diff(want, rp.Methods); diff != "" {
		t.Errorf("methods mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(rp))
	}
}

func TestPlanner_Plan_SkipsIneligibleFields(t *testing.T) {
	rec := fooRecord()
	rec.Fields = append(rec.Fields,
		analyze.Field{Name: "_", Type: "int", Index: 2},
		analyze.Field{Name: "cache", Type: "string", Index: 3, Skipped: true},
	)

	plans, diags := NewPlanner(DefaultConfig()).Plan([]*analyze.Record{rec})
	require.False(t, diags.HasErrors())
	require.Len(t, plans, 1)
	assert.Len(t, plans[0].Methods, 4)

	for _, m := range plans[0].Methods {
		assert.NotEqual(t, "cache", m.Field)
		assert.NotEqual(t, "_", m.Field)
	}
}

func TestPlanner_Plan_Generic(t *testing.T) {
	rec := &analyze.Record{
		ID:         analyze.TypeID{PkgPath: "example/generic", Name: "GStruct"},
		Kind:       analyze.TypeKindStruct,
		TypeParams: []string{"T"},
		Fields:     []analyze.Field{{Name: "foo", Type: "T"}},
	}

	plans, diags := NewPlanner(DefaultConfig()).Plan([]*analyze.Record{rec})
	require.False(t, diags.HasErrors())
	require.Len(t, plans, 1)

	assert.Equal(t, "GStruct[T]", plans[0].TypeName())
	assert.Equal(t, "g", plans[0].Receiver)
	assert.Equal(t, "withFoo", plans[0].Methods[0].Name)
	assert.Equal(t, "updateFoo", plans[0].Methods[1].Name)
}

func TestPlanner_Plan_ConflictWithHandWrittenMethod(t *testing.T) {
	rec := fooRecord()
	rec.Methods = []string{"WithFoo"}

	plans, diags := NewPlanner(DefaultConfig()).Plan([]*analyze.Record{rec})
	assert.Empty(t, plans)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostic.CodeConflict, diags.Errors[0].Code)
	assert.Equal(t, "Foo", diags.Errors[0].Field)
	assert.ErrorIs(t, diags.Error(), ErrConflict)
	assert.Contains(t, diags.Error().Error(), "method WithFoo already declared on Foo")
}

func TestPlanner_Plan_ConflictWithField(t *testing.T) {
	rec := fooRecord()
	rec.Fields = append(rec.Fields, analyze.Field{Name: "WithFoo", Exported: true, Type: "bool", Index: 2})

	_, diags := NewPlanner(DefaultConfig()).Plan([]*analyze.Record{rec})
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.Errors[0].Message, "field WithFoo already declared")
}

func TestPlanner_Plan_ConflictBetweenPlannedMethods(t *testing.T) {
	rec := &analyze.Record{
		ID:   analyze.TypeID{PkgPath: "example", Name: "Clash"},
		Kind: analyze.TypeKindStruct,
		Fields: []analyze.Field{
			{Name: "Foo", Exported: true, Type: "int"},
			{Name: "XFoo", Exported: true, Type: "int", Index: 1},
		},
	}

	cfg := Config{WithPrefix: "Set", UpdatePrefix: "SetX"}

	plans, diags := NewPlanner(cfg).Plan([]*analyze.Record{rec})
	assert.Empty(t, plans)
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, "XFoo", diags.Errors[0].Field)
	assert.Contains(t, diags.Errors[0].Message, "method SetXFoo would be generated for both Foo and XFoo")
}

func TestPlanner_Plan_UnexportedAndExportedDoNotClash(t *testing.T) {
	rec := &analyze.Record{
		ID:   analyze.TypeID{PkgPath: "example", Name: "Pair"},
		Kind: analyze.TypeKindStruct,
		Fields: []analyze.Field{
			{Name: "foo", Type: "int"},
			{Name: "Foo", Exported: true, Type: "int", Index: 1},
		},
	}

	plans, diags := NewPlanner(DefaultConfig()).Plan([]*analyze.Record{rec})
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, plans, 1)
	assert.Equal(t, "withFoo", plans[0].Methods[0].Name)
	assert.Equal(t, "WithFoo", plans[0].Methods[2].Name)
}

func TestPlanner_Plan_CustomConfig(t *testing.T) {
	cfg := Config{WithPrefix: "Set", UpdatePrefix: "Map", Receiver: "self"}

	plans, diags := NewPlanner(cfg).Plan([]*analyze.Record{fooRecord()})
	require.False(t, diags.HasErrors())
	require.Len(t, plans, 1)

	assert.Equal(t, "self", plans[0].Receiver)
	assert.Equal(t, "SetFoo", plans[0].Methods[0].Name)
	assert.Equal(t, "MapFoo", plans[0].Methods[1].Name)
	assert.Equal(t, "setBar", plans[0].Methods[2].Name)
	assert.Equal(t, "mapBar", plans[0].Methods[3].Name)
}

func TestMethodKind_String(t *testing.T) {
	assert.Equal(t, "with", MethodWith.String())
	assert.Equal(t, "update", MethodUpdate.String())
	assert.Equal(t, "MethodKind(9)", MethodKind(9).String())
}

func TestPlanner_Plan_ReceiverAvoidsImports(t *testing.T) {
	rec := &analyze.Record{
		ID:      analyze.TypeID{PkgPath: "example", Name: "Window"},
		Kind:    analyze.TypeKindStruct,
		Fields:  []analyze.Field{{Name: "Frame", Exported: true, Type: "*w.Frame"}},
		Imports: []analyze.Import{{Name: "w", Path: "example/w"}},
	}

	plans, diags := NewPlanner(DefaultConfig()).Plan([]*analyze.Record{rec})
	require.False(t, diags.HasErrors())
	require.Len(t, plans, 1)
	assert.Equal(t, "r", plans[0].Receiver)
}

func TestPlanner_Plan_ReceiverRenamedWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Receiver = "v"

	plans, diags := NewPlanner(cfg).Plan([]*analyze.Record{fooRecord()})
	require.False(t, diags.HasErrors())
	require.Len(t, plans, 1)
	assert.Equal(t, "r", plans[0].Receiver)

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeReceiver, diags.Warnings[0].Code)
	assert.Equal(t, "example/basic.Foo", diags.Warnings[0].Type)
	assert.Contains(t, diags.Warnings[0].Message, "using r")

	cfg.Receiver = "self"
	plans, diags = NewPlanner(cfg).Plan([]*analyze.Record{fooRecord()})
	require.Len(t, plans, 1)
	assert.Equal(t, "self", plans[0].Receiver)
	assert.Empty(t, diags.Warnings)
}
