package jtdgen

// Classify decides which schema construct applies to a layout. typeName is
// only used to label diagnostics.
func Classify(typeName string, l Layout) (TypeShape, error) {
	if l.Kind == LayoutUnion {
		return classifyUnion(typeName, l.Variants)
	}
	return classifyStruct(typeName, l.Fields)
}

func classifyStruct(typeName string, f Fields) (TypeShape, error) {
	switch f.Style {
	case FieldsNamed:
		if len(f.List) == 0 {
			return nil, newError(KindEmptyNamedRecord, typeName, "empty structs with named fields are not supported")
		}
		return Record{Fields: f.List}, nil
	case FieldsUnnamed:
		if len(f.List) != 1 {
			return nil, newError(KindMultiFieldTuple, typeName,
				"tuple structs are only supported with exactly one field, got %d", len(f.List))
		}
		return NewtypeWrapper{Inner: f.List[0].Type}, nil
	default:
		return nil, newError(KindUnitRecord, typeName, "unit structs are not supported")
	}
}

func classifyUnion(typeName string, variants []Variant) (TypeShape, error) {
	var unit, named *Variant
	for i := range variants {
		v := &variants[i]
		switch v.Fields.Style {
		case FieldsUnnamed:
			e := newError(KindTupleVariant, typeName, "tuple variants are not supported")
			e.Variant = v.Name
			return nil, e
		case FieldsUnit:
			if unit == nil {
				unit = v
			}
		case FieldsNamed:
			if named == nil {
				named = v
			}
		}
	}

	switch {
	case unit == nil && named == nil:
		return nil, newError(KindEmptyUnion, typeName, "unions without variants are not supported")
	case named == nil:
		names := make([]string, 0, len(variants))
		seen := make(map[string]bool, len(variants))
		for _, v := range variants {
			if seen[v.Name] {
				continue
			}
			seen[v.Name] = true
			names = append(names, v.Name)
		}
		return UnitVariantUnion{Variants: names}, nil
	case unit == nil:
		out := make([]StructVariant, len(variants))
		for i, v := range variants {
			out[i] = StructVariant{Name: v.Name, Fields: v.Fields.List}
		}
		return StructVariantUnion{Variants: out}, nil
	default:
		e := newError(KindMixedVariants, typeName, "unions mixing unit and struct variants are not supported")
		e.Related = []Citation{
			{Variant: unit.Name, Note: "unit variant"},
			{Variant: named.Name, Note: "struct variant"},
		}
		return nil, e
	}
}
