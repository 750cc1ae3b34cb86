package jtd

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schema is a JSON Typedef (RFC 8927) schema.
// Exactly one Form is active; a nil Form is the empty form.
type Schema struct {
	// Form
	Form Form

	// Shared
	Nullable bool
	Metadata map[string]any

	// Root only
	Definitions *Members
}

// Members is an insertion-ordered map of names to schemas. It backs
// properties, optionalProperties, discriminator mappings and definitions.
type Members = orderedmap.OrderedMap[string, *Schema]

// NewMembers returns an empty ordered member map.
func NewMembers() *Members { return orderedmap.New[string, *Schema]() }

// Form is one of the eight schema forms defined by RFC 8927.
type Form interface {
	form() string
}

// TypeName names a JTD primitive for the type form.
type TypeName string

const (
	Boolean   TypeName = "boolean"
	String    TypeName = "string"
	Timestamp TypeName = "timestamp"
	Float32   TypeName = "float32"
	Float64   TypeName = "float64"
	Int8      TypeName = "int8"
	Uint8     TypeName = "uint8"
	Int16     TypeName = "int16"
	Uint16    TypeName = "uint16"
	Int32     TypeName = "int32"
	Uint32    TypeName = "uint32"
)

// Empty accepts any JSON value.
type Empty struct{}

// Ref points at an entry of the root definitions.
type Ref struct {
	Definition string
}

// Type constrains a value to a JTD primitive.
type Type struct {
	Name TypeName
}

// Enum accepts one of a fixed set of strings.
type Enum struct {
	Values []string
}

// Elements describes a JSON array whose items share one schema.
type Elements struct {
	Schema *Schema
}

// Properties describes a JSON object with known members.
type Properties struct {
	Required   *Members
	Optional   *Members
	Additional bool
}

// Values describes a JSON object used as a map.
type Values struct {
	Schema *Schema
}

// Discriminator describes a tagged union of properties schemas.
type Discriminator struct {
	Tag     string
	Mapping *Members
}

func (Empty) form() string         { return "empty" }
func (Ref) form() string           { return "ref" }
func (Type) form() string          { return "type" }
func (Enum) form() string          { return "enum" }
func (Elements) form() string      { return "elements" }
func (Properties) form() string    { return "properties" }
func (Values) form() string        { return "values" }
func (Discriminator) form() string { return "discriminator" }

// New returns a schema with the given form and default shared fields.
func New(f Form) *Schema { return &Schema{Form: f} }

// FormName reports the RFC 8927 form name of s ("empty" for a nil form).
func (s *Schema) FormName() string {
	if s == nil || s.Form == nil {
		return "empty"
	}
	return s.Form.form()
}

// NewProperties returns a properties form with empty member maps.
func NewProperties(additional bool) Properties {
	return Properties{Required: NewMembers(), Optional: NewMembers(), Additional: additional}
}
