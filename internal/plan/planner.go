package plan

import (
	"fmt"

	"persistent-generator/internal/analyze"
	"persistent-generator/internal/diagnostic"
)

// Planner builds RecordPlans.
type Planner struct {
	cfg Config
}

// NewPlanner creates a Planner with the given naming configuration.
func NewPlanner(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// Plan plans every record. Records with conflicts are reported and left out.
func (p *Planner) Plan(records []*analyze.Record) ([]RecordPlan, diagnostic.Diagnostics) {
	var (
		plans []RecordPlan
		diags diagnostic.Diagnostics
	)

	for _, rec := range records {
		rp, ok := p.planRecord(rec, &diags)
		if ok {
			plans = append(plans, rp)
		}
	}

	return plans, diags
}

func (p *Planner) planRecord(rec *analyze.Record, diags *diagnostic.Diagnostics) (RecordPlan, bool) {
	reserved := append([]string(nil), rec.TypeParams...)
	for _, imp := range rec.Imports {
		reserved = append(reserved, imp.Name)
	}

	recv, value, fn := parameterNames(rec.ID.Name, reserved, p.cfg.Receiver)
	if p.cfg.Receiver != "" && recv != p.cfg.Receiver {
		diags.AddWarning(diagnostic.CodeReceiver,
			fmt.Sprintf("receiver %s clashes with a parameter or package name, using %s", p.cfg.Receiver, recv), rec.ID.String(), "")
	}

	rp := RecordPlan{
		Record:     rec,
		Receiver:   recv,
		ValueParam: value,
		FuncParam:  fn,
	}

	// Field and method names share the type's selector namespace.
	declared := make(map[string]string)
	for _, f := range rec.Fields {
		if !f.Blank() {
			declared[f.Name] = "field"
		}
	}
	for _, m := range rec.Methods {
		declared[m] = "method"
	}

	planned := make(map[string]string)
	ok := true

	for _, f := range rec.Eligible() {
		for _, kind := range []MethodKind{MethodWith, MethodUpdate} {
			prefix := p.cfg.WithPrefix
			if kind == MethodUpdate {
				prefix = p.cfg.UpdatePrefix
			}

			m := Method{
				Kind:      kind,
				Name:      MethodName(prefix, f.Name, f.Exported),
				Field:     f.Name,
				FieldType: f.Type,
				Exported:  f.Exported,
			}

			if what, exists := declared[m.Name]; exists {
				diags.AddError(ErrConflict, diagnostic.CodeConflict,
					fmt.Sprintf("%s %s already declared on %s", what, m.Name, rec.ID.Name), rec.ID.String(), f.Name)

				ok = false

				continue
			}

			if other, exists := planned[m.Name]; exists {
				diags.AddError(ErrConflict, diagnostic.CodeConflict,
					fmt.Sprintf("method %s would be generated for both %s and %s", m.Name, other, f.Name), rec.ID.String(), f.Name)

				ok = false

				continue
			}

			planned[m.Name] = f.Name
			rp.Methods = append(rp.Methods, m)
		}
	}

	return rp, ok
}
