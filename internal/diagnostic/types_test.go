package diagnostic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Code: CodeConflict, Message: "method WithFoo already declared", Type: "pkg.Foo", Field: "Foo"}
	assert.Equal(t, "[pkg.Foo] Foo: [conflict] method WithFoo already declared", d.String())

	d = Diagnostic{Code: CodeNotFound, Message: "type Bar not found", Suggestions: []string{"Baz", "Bat"}}
	assert.Equal(t, "[not-found] type Bar not found (did you mean Baz, Bat?)", d.String())

	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
}

func TestDiagnostics_Error(t *testing.T) {
	var d Diagnostics
	assert.NoError(t, d.Error())

	d.AddInfo(CodeSkippedField, "skipped", "pkg.Foo", "bar")
	d.AddWarning(CodeReceiver, "receiver renamed", "pkg.Foo", "")
	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Error())

	d.AddError(errSentinel, CodeNotStruct, "type Foo is not a struct", "pkg.Foo", "")
	require.True(t, d.HasErrors())

	err := d.Error()
	require.Error(t, err)
	assert.ErrorIs(t, err, errSentinel)
	assert.Contains(t, err.Error(), "not a struct")
	assert.Len(t, d.All(), 3)
	assert.Equal(t, SeverityError, d.All()[0].Severity)
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddInfo(CodeSkippedField, "a", "", "")
	b.AddError(errSentinel, CodeAlias, "b", "", "")
	b.AddWarning(CodeOrphanedFile, "c", "", "")

	a.Merge(b)
	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Infos, 1)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
