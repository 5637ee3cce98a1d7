package gen

import (
	"text/template"
)

// templateData holds all data needed for the record template.
type templateData struct {
	Header           string
	BuildConstraint  string
	PackageName      string
	Imports          []importSpec
	TypeName         string
	Receiver         string
	ValueParam       string
	FuncParam        string
	GenerateComments bool
	Methods          []methodData
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// methodData represents one generated method.
type methodData struct {
	Name      string
	Field     string
	FieldType string
	IsUpdate  bool
}

var recordTemplate = template.Must(template.New("record").Parse(`{{.Header}}
{{if .BuildConstraint}}
//go:build {{.BuildConstraint}}
{{end}}
package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{range .Methods}}{{if .IsUpdate}}
{{if $.GenerateComments}}// {{.Name}} returns a copy of {{$.Receiver}} with {{.Field}} replaced by {{$.FuncParam}} applied to its current value.
{{end}}func ({{$.Receiver}} {{$.TypeName}}) {{.Name}}({{$.FuncParam}} func({{.FieldType}}) {{.FieldType}}) {{$.TypeName}} {
	{{$.Receiver}}.{{.Field}} = {{$.FuncParam}}({{$.Receiver}}.{{.Field}})
	return {{$.Receiver}}
}
{{else}}
{{if $.GenerateComments}}// {{.Name}} returns a copy of {{$.Receiver}} with {{.Field}} set to {{$.ValueParam}}.
{{end}}func ({{$.Receiver}} {{$.TypeName}}) {{.Name}}({{$.ValueParam}} {{.FieldType}}) {{$.TypeName}} {
	{{$.Receiver}}.{{.Field}} = {{$.ValueParam}}
	return {{$.Receiver}}
}
{{end}}{{end}}`))
