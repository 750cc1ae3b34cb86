package jtdgen

import (
	"github.com/reoring/jtdgen/jtd"
)

// Typedef is implemented by everything that can describe itself as a JTD
// schema. Member schemas must be obtained through the Registry, never built
// inline, so that references and cycles are handled in one place.
type Typedef interface {
	// Schema builds the schema of the type.
	Schema(r Registry) (*jtd.Schema, error)
	// Referenceable reports whether the schema may be registered as a
	// definition and referenced by name instead of inlined.
	Referenceable() bool
	// Names returns the identity of the type.
	Names() Names
}

// Registry hands out member schemas. Generator is the implementation used
// by this package.
type Registry interface {
	SubSchema(t Typedef) (*jtd.Schema, error)
}

type basic struct {
	names Names
	typ   jtd.TypeName
}

// Basic describes a predeclared type encoded as the given JTD primitive.
func Basic(goName string, t jtd.TypeName) Typedef {
	return basic{names: BasicNames(goName), typ: t}
}

func (b basic) Schema(Registry) (*jtd.Schema, error) { return jtd.New(jtd.Type{Name: b.typ}), nil }
func (basic) Referenceable() bool                     { return false }
func (b basic) Names() Names                          { return b.names }

// Timestamp describes time.Time, which encoding/json writes as RFC 3339.
func Timestamp() Typedef {
	return basic{names: Names{Short: "Time", Long: "time.Time"}, typ: jtd.Timestamp}
}

type empty struct{}

// Empty describes a type that accepts any JSON value, such as any.
func Empty() Typedef { return empty{} }

func (empty) Schema(Registry) (*jtd.Schema, error) { return jtd.New(jtd.Empty{}), nil }
func (empty) Referenceable() bool                   { return false }
func (empty) Names() Names                          { return BasicNames("any") }

type elements struct{ of Typedef }

// Elements describes a list of of.
func Elements(of Typedef) Typedef { return elements{of: of} }

func (e elements) Schema(r Registry) (*jtd.Schema, error) {
	sub, err := r.SubSchema(e.of)
	if err != nil {
		return nil, err
	}
	return jtd.New(jtd.Elements{Schema: sub}), nil
}
func (elements) Referenceable() bool { return false }
func (e elements) Names() Names      { return wrapNames("[]", e.of.Names()) }

type values struct{ of Typedef }

// Values describes a string-keyed map of of.
func Values(of Typedef) Typedef { return values{of: of} }

func (v values) Schema(r Registry) (*jtd.Schema, error) {
	sub, err := r.SubSchema(v.of)
	if err != nil {
		return nil, err
	}
	return jtd.New(jtd.Values{Schema: sub}), nil
}
func (values) Referenceable() bool { return false }
func (v values) Names() Names      { return wrapNames("map[string]", v.of.Names()) }

type nullable struct{ of Typedef }

// Nullable describes of or null, e.g. a Go pointer.
func Nullable(of Typedef) Typedef {
	if n, ok := of.(nullable); ok {
		return n
	}
	return nullable{of: of}
}

func (n nullable) Schema(r Registry) (*jtd.Schema, error) {
	sub, err := r.SubSchema(n.of)
	if err != nil {
		return nil, err
	}
	if sub.Nullable {
		return sub, nil
	}
	cp := *sub
	cp.Nullable = true
	return &cp, nil
}
func (nullable) Referenceable() bool { return false }
func (n nullable) Names() Names      { return wrapNames("*", n.of.Names()) }

func wrapNames(prefix string, inner Names) Names {
	return Names{Short: prefix + inner.Render(NamingShort), Long: prefix + inner.Render(NamingLong)}
}

// Derived is a user-declared type described by a Layout. It is always
// referenceable.
type Derived struct {
	ID     Names
	Layout Layout
	Config TypeConfig
	// Description, when set, is emitted as metadata.description. Newtype
	// wrappers ignore it so their schema stays identical to the inner one.
	Description string
}

func (d *Derived) Schema(r Registry) (*jtd.Schema, error) {
	return DeriveDescribed(r, d.ID, d.Layout, d.Config, d.Description)
}
func (d *Derived) Referenceable() bool { return true }
func (d *Derived) Names() Names        { return d.ID }
