package plan

import (
	"errors"

	"persistent-generator/internal/analyze"
)

// ErrConflict is the cause of conflict diagnostics.
var ErrConflict = errors.New("method name conflict")

//go:generate go tool stringer -type=MethodKind -linecomment -output=method_kind_string.go

// MethodKind distinguishes the two generated operations.
type MethodKind int

const (
	// MethodWith replaces a field's value outright.
	MethodWith MethodKind = iota // with
	// MethodUpdate replaces a field's value with a function of its current value.
	MethodUpdate // update
)

// Method is a single generated method.
type Method struct {
	Kind      MethodKind
	Name      string
	Field     string
	FieldType string
	Exported  bool
}

// RecordPlan holds everything needed to generate one record's methods.
type RecordPlan struct {
	Record *analyze.Record
	// Receiver is the receiver identifier.
	Receiver string
	// ValueParam names the parameter of with-methods.
	ValueParam string
	// FuncParam names the parameter of update-methods.
	FuncParam string
	// Methods in field order, with before update for each field.
	Methods []Method
}

// TypeName returns the receiver type expression, e.g. "GStruct[T]".
func (p *RecordPlan) TypeName() string {
	return p.Record.TypeName()
}

// Config controls method naming.
type Config struct {
	// WithPrefix prefixes with-methods, e.g. "With".
	WithPrefix string
	// UpdatePrefix prefixes update-methods, e.g. "Update".
	UpdatePrefix string
	// Receiver overrides the receiver name. Empty derives it from the type name.
	Receiver string
}

// DefaultConfig returns the default naming configuration.
func DefaultConfig() Config {
	return Config{
		WithPrefix:   "With",
		UpdatePrefix: "Update",
	}
}
