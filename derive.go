package jtdgen

import (
	"fmt"

	"github.com/reoring/jtdgen/jtd"
)

// Derive runs the whole pipeline for one type: the tag strategy is resolved
// from cfg, the layout is classified, and the schema is synthesized with
// member schemas drawn from r.
func Derive(r Registry, id Names, l Layout, cfg TypeConfig) (*jtd.Schema, error) {
	return DeriveDescribed(r, id, l, cfg, "")
}

// DeriveDescribed is Derive plus a metadata.description on the result.
// Newtype wrappers never get one.
func DeriveDescribed(r Registry, id Names, l Layout, cfg TypeConfig, description string) (*jtd.Schema, error) {
	name := id.Key()
	strategy := ResolveTagStrategy(cfg)
	shape, err := Classify(name, l)
	if err != nil {
		return nil, err
	}
	s, err := Synthesize(r, name, shape, strategy)
	if err != nil {
		return nil, err
	}
	if _, wrapper := shape.(NewtypeWrapper); description != "" && !wrapper {
		s.Metadata = map[string]any{"description": description}
	}
	return s, nil
}

// Synthesize builds the schema for a classified shape.
//
//	Record                      -> properties, every field required, additional properties allowed
//	NewtypeWrapper              -> the inner schema, unchanged
//	UnitVariantUnion, External  -> enum
//	UnitVariantUnion, Internal  -> properties {tag: enum}
//	StructVariantUnion, Internal-> discriminator
//	StructVariantUnion, External-> KindMissingDiscriminator
func Synthesize(r Registry, typeName string, shape TypeShape, strategy TagStrategy) (*jtd.Schema, error) {
	switch s := shape.(type) {
	case Record:
		p, err := properties(r, typeName, s.Fields)
		if err != nil {
			return nil, err
		}
		return jtd.New(p), nil

	case NewtypeWrapper:
		return r.SubSchema(s.Inner)

	case UnitVariantUnion:
		enum := jtd.New(jtd.Enum{Values: append([]string(nil), s.Variants...)})
		if !strategy.IsInternal() {
			return enum, nil
		}
		p := jtd.NewProperties(true)
		p.Required.Set(strategy.Tag(), enum)
		return jtd.New(p), nil

	case StructVariantUnion:
		if !strategy.IsInternal() {
			return nil, newError(KindMissingDiscriminator, typeName,
				"unions with struct variants need an internal tag (e.g. tag=type)")
		}
		tag := strategy.Tag()
		mapping := jtd.NewMembers()
		for _, v := range s.Variants {
			for _, f := range v.Fields {
				if f.Name == tag {
					e := newError(KindTagConflict, typeName, "field %q collides with the tag", f.Name)
					e.Variant = v.Name
					return nil, e
				}
			}
			p, err := properties(r, typeName+"::"+v.Name, v.Fields)
			if err != nil {
				return nil, err
			}
			mapping.Set(v.Name, jtd.New(p))
		}
		return jtd.New(jtd.Discriminator{Tag: tag, Mapping: mapping}), nil
	}
	return nil, fmt.Errorf("jtdgen: unknown shape %T", shape)
}

func properties(r Registry, owner string, fields []Field) (jtd.Properties, error) {
	p := jtd.NewProperties(true)
	for _, f := range fields {
		sub, err := r.SubSchema(f.Type)
		if err != nil {
			return jtd.Properties{}, fmt.Errorf("%s.%s: %w", owner, f.Name, err)
		}
		if f.Optional {
			p.Optional.Set(f.Name, sub)
		} else {
			p.Required.Set(f.Name, sub)
		}
	}
	return p, nil
}
