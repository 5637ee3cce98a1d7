package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persistent-generator/internal/analyze"
	"persistent-generator/internal/config"
	"persistent-generator/internal/diagnostic"
	"persistent-generator/internal/gen"
	"persistent-generator/internal/plan"
)

// ErrNothingSelected is returned when no type was requested or marked.
var ErrNothingSelected = errors.New("no types selected: pass --type or mark types with the derive directive")

// result is the outcome of loading, selecting, planning and generating.
type result struct {
	pkgs  []*analyze.Package
	plans []plan.RecordPlan
	files []gen.GeneratedFile
}

// pipeline runs every stage up to in-memory generation.
func (a *app) pipeline(ctx context.Context, cfg *config.Config, patterns []string, output string) (*result, error) {
	analyzer := analyze.NewAnalyzer(cfg.AnalyzeOptions(a.flags.Dir, a.log))

	pkgs, err := analyzer.LoadPackages(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	records, diags := analyze.Select(pkgs, a.flags.Types)

	plans, planDiags := plan.NewPlanner(cfg.PlanConfig()).Plan(records)
	diags.Merge(planDiags)

	a.logDiagnostics(diags)

	if err := diags.Error(); err != nil {
		return nil, err
	}

	if len(plans) == 0 {
		return nil, ErrNothingSelected
	}

	files, err := gen.NewGenerator(cfg.GeneratorConfig(output, a.log)).Generate(plans)
	if err != nil {
		return nil, err
	}

	res := &result{pkgs: pkgs, plans: plans, files: files}
	a.logDiagnostics(orphans(res))

	return res, nil
}

func (a *app) logDiagnostics(diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		fields := []zap.Field{zap.String("code", d.Code)}
		if d.Type != "" {
			fields = append(fields, zap.String("type", d.Type))
		}
		if d.Field != "" {
			fields = append(fields, zap.String("field", d.Field))
		}

		// Errors are returned to the caller and printed there.
		if d.Severity == diagnostic.SeverityWarning {
			a.log.Warn(d.Message, fields...)
		} else {
			a.log.Debug(d.Message, fields...)
		}
	}
}

// orphans reports previously generated files that no selected record
// produces anymore.
func orphans(res *result) diagnostic.Diagnostics {
	produced := make(map[string]bool, len(res.files))
	for _, f := range res.files {
		produced[f.Path()] = true
	}

	var diags diagnostic.Diagnostics

	for _, pkg := range res.pkgs {
		for _, name := range pkg.Generated {
			path := filepath.Join(pkg.Dir, name)
			if !produced[path] {
				diags.AddWarning(diagnostic.CodeOrphanedFile,
					fmt.Sprintf("generated file %s is not produced by any selected type", path), "", "")
			}
		}
	}

	return diags
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)

	res, err := a.pipeline(cmd.Context(), cfg, args, a.flags.Output)
	if err != nil {
		return err
	}

	if a.flags.DryRun {
		out := cmd.OutOrStdout()
		for i, f := range res.files {
			if len(res.files) > 1 {
				if i > 0 {
					fmt.Fprintln(out)
				}

				fmt.Fprintf(out, "// ==> %s <==\n", f.Path())
			}

			if _, err := out.Write(f.Content); err != nil {
				return err
			}
		}

		return nil
	}

	if err := a.write(res); err != nil {
		return err
	}

	if a.flags.Verbose {
		color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "generated %d file(s)\n", len(res.files))
	}

	return nil
}

// write writes the generated files and logs the ones that changed.
func (a *app) write(res *result) error {
	written, err := gen.WriteFiles(res.files)
	for _, f := range written {
		a.log.Info("wrote file", zap.String("file", f.Path()), zap.Stringer("type", f.Record))
	}

	return err
}
