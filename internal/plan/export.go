package plan

import (
	"gopkg.in/yaml.v3"
)

// ExportedPlan is the YAML view of a RecordPlan printed by `inspect`.
type ExportedPlan struct {
	Type       string           `yaml:"type"`
	Package    string           `yaml:"package"`
	Receiver   string           `yaml:"receiver"`
	TypeParams []string         `yaml:"type_params,omitempty"`
	Imports    []string         `yaml:"imports,omitempty"`
	Methods    []ExportedMethod `yaml:"methods"`
	Skipped    []string         `yaml:"skipped,omitempty"`
}

// ExportedMethod is the YAML view of a Method.
type ExportedMethod struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Field string `yaml:"field"`
	Type  string `yaml:"type"`
}

// Export converts plans to their YAML view.
func Export(plans []RecordPlan) []ExportedPlan {
	out := make([]ExportedPlan, 0, len(plans))

	for _, rp := range plans {
		ep := ExportedPlan{
			Type:       rp.TypeName(),
			Package:    rp.Record.ID.PkgPath,
			Receiver:   rp.Receiver,
			TypeParams: rp.Record.TypeParams,
			Methods:    make([]ExportedMethod, 0, len(rp.Methods)),
		}

		for _, imp := range rp.Record.Imports {
			ep.Imports = append(ep.Imports, imp.Path)
		}

		for _, m := range rp.Methods {
			ep.Methods = append(ep.Methods, ExportedMethod{
				Name:  m.Name,
				Kind:  m.Kind.String(),
				Field: m.Field,
				Type:  m.FieldType,
			})
		}

		for _, f := range rp.Record.Fields {
			if f.Skipped {
				ep.Skipped = append(ep.Skipped, f.Name)
			}
		}

		out = append(out, ep)
	}

	return out
}

// ExportYAML serializes plans as a YAML sequence.
func ExportYAML(plans []RecordPlan) ([]byte, error) {
	return yaml.Marshal(Export(plans))
}
