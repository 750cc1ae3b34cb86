package jtdgen

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every *Error unwraps to exactly one of them, so callers
// can branch with errors.Is without inspecting the Kind.
var (
	// ErrUnsupportedShape: the structure of the type cannot be expressed,
	// regardless of configuration.
	ErrUnsupportedShape = errors.New("unsupported shape")
	// ErrMissingDiscriminator: a union with struct variants has no internal tag.
	ErrMissingDiscriminator = errors.New("missing discriminator")
	// ErrConfig: the per-type configuration is malformed or conflicts with the type.
	ErrConfig = errors.New("invalid configuration")
	// ErrNameCollision: two distinct types render to the same definition name.
	ErrNameCollision = errors.New("definition name collision")
)

// Kind identifies a specific derivation failure.
type Kind string

const (
	KindEmptyNamedRecord     Kind = "empty_named_record"
	KindUnitRecord           Kind = "unit_record"
	KindMultiFieldTuple      Kind = "multi_field_tuple"
	KindTupleVariant         Kind = "tuple_variant"
	KindMixedVariants        Kind = "mixed_variants"
	KindEmptyUnion           Kind = "empty_union"
	KindUnsupportedType      Kind = "unsupported_type"
	KindMissingDiscriminator Kind = "missing_discriminator"
	KindConfig               Kind = "config"
	KindTagConflict          Kind = "tag_conflict"
	KindNameCollision        Kind = "name_collision"
)

// Category returns the sentinel error the kind belongs to.
func (k Kind) Category() error {
	switch k {
	case KindEmptyNamedRecord, KindUnitRecord, KindMultiFieldTuple,
		KindTupleVariant, KindMixedVariants, KindEmptyUnion, KindUnsupportedType:
		return ErrUnsupportedShape
	case KindMissingDiscriminator:
		return ErrMissingDiscriminator
	case KindConfig, KindTagConflict:
		return ErrConfig
	case KindNameCollision:
		return ErrNameCollision
	}
	return nil
}

// Citation points at a variant (or field) that contributed to an Error.
type Citation struct {
	Variant string
	Note    string
}

// Error is a derivation diagnostic localized to one type, and optionally to
// one of its variants.
type Error struct {
	Kind    Kind
	Type    string // name of the type being derived
	Variant string // offending variant, when there is exactly one
	Message string
	// Related lists further locations that explain the failure, e.g. the
	// unit and the struct variant of a mixed union.
	Related []Citation
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	if e.Type != "" {
		b.WriteString(e.Type)
		if e.Variant != "" {
			b.WriteString("::")
			b.WriteString(e.Variant)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	for _, c := range e.Related {
		fmt.Fprintf(b, "; %s (%s)", c.Note, c.Variant)
	}
	return b.String()
}

// Unwrap exposes the category sentinel.
func (e *Error) Unwrap() error { return e.Kind.Category() }

func newError(kind Kind, typ, format string, a ...any) *Error {
	return &Error{Kind: kind, Type: typ, Message: fmt.Sprintf(format, a...)}
}

// UnsupportedType reports a member type with no JSON encoding JTD can
// describe, such as a channel or a map with non-string keys.
func UnsupportedType(typ, why string) error {
	return newError(KindUnsupportedType, typ, "%s", why)
}

// AsError extracts an *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Errors collects failures from independent derivations, e.g. one per root
// type in a batch. It implements error.
type Errors []error

// Error summarizes the first few failures.
func (errs Errors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(errs), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(errs[i].Error())
	}
	if len(errs) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(errs))
	}
	return b.String()
}

// Unwrap allows errors.Is and errors.As to see every collected failure.
func (errs Errors) Unwrap() []error { return errs }
