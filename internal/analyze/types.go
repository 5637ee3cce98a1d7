package analyze

import (
	"errors"
	"go/token"
	"go/types"
	"reflect"
	"strings"

	"persistent-generator/internal/common"
)

// Rejection causes, matched with errors.Is.
var (
	ErrNotFound      = errors.New("type not found")
	ErrNotStruct     = errors.New("type is not a struct")
	ErrAlias         = errors.New("type is an alias")
	ErrNoNamedFields = errors.New("struct has no named fields")
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "persistent-generator/examples/basic"
	Name    string // e.g., "Foo"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind classifies the underlying type of a declaration.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindStruct             // struct type
	TypeKindBasic              // int, string, bool, etc.
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice or array
	TypeKindMap                // map type
	TypeKindInterface          // interface type
	TypeKindFunc               // function type
	TypeKindChan               // channel type
	TypeKindAlias              // alias declaration (type A = B)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindStruct:
		return "struct"
	case TypeKindBasic:
		return "basic"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindFunc:
		return "func"
	case TypeKindChan:
		return "chan"
	case TypeKindAlias:
		return "alias"
	default:
		return common.UnknownStr
	}
}

func kindOf(t types.Type) TypeKind {
	switch t.(type) {
	case *types.Struct:
		return TypeKindStruct
	case *types.Basic:
		return TypeKindBasic
	case *types.Pointer:
		return TypeKindPointer
	case *types.Slice, *types.Array:
		return TypeKindSlice
	case *types.Map:
		return TypeKindMap
	case *types.Interface:
		return TypeKindInterface
	case *types.Signature:
		return TypeKindFunc
	case *types.Chan:
		return TypeKindChan
	default:
		return TypeKindUnknown
	}
}

// Import is a package referenced by field types of a record.
type Import struct {
	Name string // identifier used in rendered type strings
	Path string
}

// NeedsAlias reports whether the import spec must spell out Name.
func (i Import) NeedsAlias() bool {
	return i.Name != common.PkgAlias(i.Path)
}

// Record is a named type declared in a loaded package.
type Record struct {
	ID         TypeID
	PkgName    string
	Dir        string
	Kind       TypeKind
	TypeParams []string // type parameter names, in declaration order
	Fields     []Field  // for structs, every field in declaration order
	Methods    []string // names of methods declared outside generated files
	Imports    []Import // packages referenced by Field.Type, sorted by path
	Derive     bool     // doc comment carries the derive directive
	Pos        token.Position
}

// TypeName returns the receiver type expression, e.g. "GStruct[T]".
func (r *Record) TypeName() string {
	if len(r.TypeParams) == 0 {
		return r.ID.Name
	}

	return r.ID.Name + "[" + strings.Join(r.TypeParams, ", ") + "]"
}

// Eligible returns the fields methods are generated for.
func (r *Record) Eligible() []Field {
	var out []Field

	for _, f := range r.Fields {
		if f.Eligible() {
			out = append(out, f)
		}
	}

	return out
}

// Field describes a struct field.
type Field struct {
	Name     string            // Go field name; embedded fields use the type name
	Exported bool              // Whether the field is exported
	Type     string            // Type rendered relative to the record's package
	GoType   types.Type        // The original go/types.Type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
	Skipped  bool              // Excluded through the struct tag
}

// Blank reports whether the field is the blank identifier.
func (f *Field) Blank() bool {
	return f.Name == "_"
}

// Eligible reports whether methods are generated for the field.
func (f *Field) Eligible() bool {
	return !f.Blank() && !f.Skipped
}

// Package holds the records discovered in one loaded package.
type Package struct {
	Path      string
	Name      string
	Dir       string
	Records   []*Record // in declaration order
	Generated []string  // previously generated files masked during load
}

// Lookup returns the record with the given name, or nil.
func (p *Package) Lookup(name string) *Record {
	for _, r := range p.Records {
		if r.ID.Name == name {
			return r
		}
	}

	return nil
}

// Names returns the names of all records in declaration order.
func (p *Package) Names() []string {
	names := make([]string, 0, len(p.Records))
	for _, r := range p.Records {
		names = append(names, r.ID.Name)
	}

	return names
}
