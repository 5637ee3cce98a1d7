package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"persistent-generator/internal/analyze"
	"persistent-generator/internal/common"
	"persistent-generator/internal/match"
	"persistent-generator/internal/plan"
)

// ErrAmbiguousOutput is returned when an explicit output file name is given
// for more than one record.
var ErrAmbiguousOutput = errors.New("output file name given for more than one record")

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OutputSuffix is appended to the snake_case type name to form file names.
	OutputSuffix string
	// Output overrides the file name when exactly one record is generated.
	Output string
	// GenerateComments enables doc comments on generated methods.
	GenerateComments bool
	// BuildTags become a //go:build constraint on every generated file.
	BuildTags []string
	// Goimports formats with golang.org/x/tools/imports instead of go/format.
	Goimports bool
	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		OutputSuffix:     "_persistent.go",
		GenerateComments: true,
	}
}

// Generator generates Go code from record plans.
type Generator struct {
	config GeneratorConfig
	log    *zap.Logger
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{config: config, log: log}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the directory of the record's package.
	Dir string
	// Filename is the name of the file (e.g., "foo_persistent.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
	// Record is the type the file declares methods for.
	Record analyze.TypeID
}

// Path returns the file's full path.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate renders one file per plan.
func (g *Generator) Generate(plans []plan.RecordPlan) ([]GeneratedFile, error) {
	if g.config.Output != "" && len(plans) > 1 {
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousOutput, g.config.Output)
	}

	files := make([]GeneratedFile, 0, len(plans))
	owners := make(map[string]analyze.TypeID)

	for i := range plans {
		rp := &plans[i]

		file, err := g.generateRecord(rp)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", rp.Record.ID, err)
		}

		if owner, ok := owners[file.Path()]; ok {
			return nil, fmt.Errorf("%s and %s both generate %s", owner, rp.Record.ID, file.Path())
		}
		owners[file.Path()] = rp.Record.ID

		g.log.Debug("generated record",
			zap.Stringer("type", rp.Record.ID),
			zap.String("file", file.Path()),
			zap.Int("methods", len(rp.Methods)))

		files = append(files, *file)
	}

	return files, nil
}

// Filename returns the file name generated for a record.
func (g *Generator) Filename(rec *analyze.Record) string {
	if g.config.Output != "" {
		return g.config.Output
	}

	return match.SnakeCase(rec.ID.Name) + g.config.OutputSuffix
}

// generateRecord renders and formats the file for a single record.
func (g *Generator) generateRecord(rp *plan.RecordPlan) (*GeneratedFile, error) {
	rec := rp.Record
	data := g.buildTemplateData(rp)
	filename := g.Filename(rec)

	var buf bytes.Buffer
	if err := recordTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := g.format(filename, buf.Bytes())
	if err != nil {
		// Best-effort: write unformatted code to a sidecar file to aid debugging.
		if rec.Dir != "" {
			_ = writeDebugUnformatted(rec.Dir, filename, buf.Bytes())
		}

		return nil, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Dir:      rec.Dir,
		Filename: filename,
		Content:  formatted,
		Record:   rec.ID,
	}, nil
}

func (g *Generator) format(filename string, src []byte) ([]byte, error) {
	if g.config.Goimports {
		return imports.Process(filename, src, &imports.Options{
			Comments:   true,
			TabIndent:  true,
			TabWidth:   8,
			FormatOnly: true,
		})
	}

	return format.Source(src)
}

// buildTemplateData constructs the template data from a record plan.
func (g *Generator) buildTemplateData(rp *plan.RecordPlan) *templateData {
	rec := rp.Record

	data := &templateData{
		Header:           common.GeneratedHeader,
		BuildConstraint:  strings.Join(g.config.BuildTags, " && "),
		PackageName:      rec.PkgName,
		TypeName:         rp.TypeName(),
		Receiver:         rp.Receiver,
		ValueParam:       rp.ValueParam,
		FuncParam:        rp.FuncParam,
		GenerateComments: g.config.GenerateComments,
	}

	for _, imp := range rec.Imports {
		spec := importSpec{Path: imp.Path}
		if imp.NeedsAlias() {
			spec.Alias = imp.Name
		}

		data.Imports = append(data.Imports, spec)
	}

	for _, m := range rp.Methods {
		data.Methods = append(data.Methods, methodData{
			Name:      m.Name,
			Field:     m.Field,
			FieldType: m.FieldType,
			IsUpdate:  m.Kind == plan.MethodUpdate,
		})
	}

	return data
}
