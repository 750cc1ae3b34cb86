package jtdgen

// LayoutKind separates record-like types from tagged unions.
type LayoutKind int

const (
	LayoutStruct LayoutKind = iota
	LayoutUnion
)

// FieldsStyle is how a struct or a variant declares its members.
type FieldsStyle int

const (
	FieldsNamed   FieldsStyle = iota // {a: A, b: B}
	FieldsUnnamed                    // (A, B)
	FieldsUnit                       // no member list at all
)

// Field is one member of a struct or variant. Name is empty for unnamed
// members.
type Field struct {
	Name string
	Type Typedef
	// Optional marks a member that may be absent on the wire, such as a Go
	// field tagged omitempty.
	Optional bool
}

// Fields is a member list together with its declaration style.
type Fields struct {
	Style FieldsStyle
	List  []Field
}

// Variant is one case of a union.
type Variant struct {
	Name   string
	Fields Fields
}

// Layout is the declared, unclassified shape of a type as a front-end sees
// it. Classify turns it into a TypeShape.
type Layout struct {
	Kind     LayoutKind
	Fields   Fields    // LayoutStruct
	Variants []Variant // LayoutUnion
}

// NamedFields builds a named member list.
func NamedFields(fs ...Field) Fields { return Fields{Style: FieldsNamed, List: fs} }

// UnnamedFields builds a positional member list.
func UnnamedFields(types ...Typedef) Fields {
	list := make([]Field, len(types))
	for i, t := range types {
		list[i] = Field{Type: t}
	}
	return Fields{Style: FieldsUnnamed, List: list}
}

// UnitFields is the member list of a unit struct or unit variant.
func UnitFields() Fields { return Fields{Style: FieldsUnit} }

// StructLayout describes a record-like type.
func StructLayout(f Fields) Layout { return Layout{Kind: LayoutStruct, Fields: f} }

// UnionLayout describes a tagged union.
func UnionLayout(vs ...Variant) Layout { return Layout{Kind: LayoutUnion, Variants: vs} }

// TypeShape is the classified shape that selects a schema construct.
type TypeShape interface {
	shape()
}

// Record has at least one named field and becomes a properties schema.
type Record struct {
	Fields []Field
}

// NewtypeWrapper has exactly one unnamed member and is encoded exactly like it.
type NewtypeWrapper struct {
	Inner Typedef
}

// UnitVariantUnion is a union whose cases carry no data.
type UnitVariantUnion struct {
	Variants []string
}

// StructVariantUnion is a union whose cases all carry named fields.
type StructVariantUnion struct {
	Variants []StructVariant
}

// StructVariant is one case of a StructVariantUnion.
type StructVariant struct {
	Name   string
	Fields []Field
}

func (Record) shape()             {}
func (NewtypeWrapper) shape()     {}
func (UnitVariantUnion) shape()   {}
func (StructVariantUnion) shape() {}
