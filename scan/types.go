package scan

import (
	"go/constant"
	"go/types"
	"reflect"

	jtdgen "github.com/reoring/jtdgen"
	"github.com/reoring/jtdgen/jtd"
)

// TypeOf maps a go/types type onto a Typedef. Members are resolved when
// the schema is built, so recursive types are fine.
func (u *Universe) TypeOf(t types.Type) jtdgen.Typedef {
	t = types.Unalias(t)
	switch t := t.(type) {
	case *types.Pointer:
		return jtdgen.Nullable(u.TypeOf(t.Elem()))
	case *types.Named:
		return u.named(t)
	case *types.Basic:
		return basicOf(t)
	case *types.Struct:
		return &anonStruct{u: u, st: t}
	case *types.Interface:
		return jtdgen.Empty()
	case *types.Slice:
		if isByte(t.Elem()) {
			return jtdgen.Basic("[]byte", jtd.String)
		}
		return jtdgen.Nullable(jtdgen.Elements(u.TypeOf(t.Elem())))
	case *types.Array:
		return jtdgen.Elements(u.TypeOf(t.Elem()))
	case *types.Map:
		if !stringKeyed(t.Key()) {
			return unsupported{t: t, why: "map keys must encode as strings"}
		}
		return jtdgen.Nullable(jtdgen.Values(u.TypeOf(t.Elem())))
	case *types.TypeParam:
		return unsupported{t: t, why: "uninstantiated type parameter"}
	}
	return unsupported{t: t, why: "no JSON encoding"}
}

func (u *Universe) named(t *types.Named) jtdgen.Typedef {
	obj := t.Obj()
	if obj.Pkg() != nil && obj.Pkg().Path() == "time" && obj.Name() == "Time" {
		return jtdgen.Timestamp()
	}
	if hasMethod(t, "MarshalJSON") {
		return jtdgen.Empty()
	}
	if hasMethod(t, "MarshalText") {
		return jtdgen.Basic(types.TypeString(t, shortQualifier), jtd.String)
	}

	dc := u.decls[t.Origin().Obj()]
	switch under := t.Underlying().(type) {
	case *types.Struct:
		return &namedStruct{u: u, t: t, st: under, dc: dc}
	case *types.Interface:
		if vs, ok := u.variants[t.Origin().Obj()]; ok {
			return &union{u: u, t: t, dc: dc, variants: vs}
		}
		return jtdgen.Empty()
	case *types.Basic:
		if under.Info()&types.IsString != 0 {
			if values := u.enumValues(t.Origin().Obj()); len(values) > 0 {
				return &enum{t: t, dc: dc, values: values}
			}
		}
	}
	return &newtype{u: u, t: t, dc: dc}
}

func basicOf(t *types.Basic) jtdgen.Typedef {
	name := t.Name()
	switch t.Kind() {
	case types.Bool:
		return jtdgen.Basic(name, jtd.Boolean)
	case types.String:
		return jtdgen.Basic(name, jtd.String)
	case types.Int8:
		return jtdgen.Basic(name, jtd.Int8)
	case types.Uint8:
		return jtdgen.Basic(name, jtd.Uint8)
	case types.Int16:
		return jtdgen.Basic(name, jtd.Int16)
	case types.Uint16:
		return jtdgen.Basic(name, jtd.Uint16)
	case types.Int32:
		return jtdgen.Basic(name, jtd.Int32)
	case types.Uint32:
		return jtdgen.Basic(name, jtd.Uint32)
	case types.Float32:
		return jtdgen.Basic(name, jtd.Float32)
	case types.Int, types.Int64, types.Uint, types.Uint64, types.Uintptr, types.Float64:
		// JTD has no 64-bit integers; float64 accepts every JSON number.
		return jtdgen.Basic(name, jtd.Float64)
	}
	return unsupported{t: t, why: "no JSON encoding"}
}

func isByte(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Uint8
}

func stringKeyed(k types.Type) bool {
	if hasMethod(k, "MarshalText") {
		return true
	}
	b, ok := k.Underlying().(*types.Basic)
	return ok && b.Info()&(types.IsString|types.IsInteger) != 0
}

// hasMethod reports whether t or *t has a method called name.
func hasMethod(t types.Type, name string) bool {
	for _, typ := range []types.Type{t, types.NewPointer(t)} {
		ms := types.NewMethodSet(typ)
		for i := 0; i < ms.Len(); i++ {
			if ms.At(i).Obj().Name() == name {
				return true
			}
		}
	}
	return false
}

func constantString(c *types.Const) string {
	if c.Val().Kind() == constant.String {
		return constant.StringVal(c.Val())
	}
	return c.Val().ExactString()
}

// fields lists the members of st following encoding/json. Embedded
// structs are walked one depth at a time; one reached twice at the same
// depth contributes its fields twice so that they annihilate.
func (u *Universe) fields(st *types.Struct) []jtdgen.Field {
	type embed struct {
		st    *types.Struct
		index []int
	}
	var cands []jtdgen.FieldCandidate
	visited := map[*types.Struct]bool{}
	next := []embed{{st: st}}
	nextCount := map[*types.Struct]int{st: 1}

	for depth := 0; len(next) > 0; depth++ {
		current, count := next, nextCount
		next, nextCount = nil, map[*types.Struct]int{}

		for _, e := range current {
			if visited[e.st] {
				continue
			}
			visited[e.st] = true
			for i := 0; i < e.st.NumFields(); i++ {
				f := e.st.Field(i)
				ft := f.Type()
				et := ft
				if p, ok := types.Unalias(et).(*types.Pointer); ok {
					et = p.Elem()
				}
				embedded, isStruct := et.Underlying().(*types.Struct)
				if !f.Exported() && !(f.Embedded() && isStruct) {
					continue
				}

				tag := jtdgen.ParseJSONTag(reflect.StructTag(e.st.Tag(i)))
				if tag.Skip {
					continue
				}
				index := append(append([]int(nil), e.index...), i)
				if f.Embedded() && tag.Name == "" && isStruct {
					nextCount[embedded]++
					if nextCount[embedded] == 1 {
						next = append(next, embed{st: embedded, index: index})
					}
					continue
				}
				if !f.Exported() {
					continue
				}

				name := tag.Name
				if name == "" {
					name = f.Name()
				}
				typ := u.TypeOf(ft)
				if tag.Quoted && quotable(ft) {
					typ = jtdgen.Basic(types.TypeString(ft, shortQualifier), jtd.String)
				}
				c := jtdgen.FieldCandidate{
					Field:  jtdgen.Field{Name: name, Type: typ, Optional: tag.OmitEmpty},
					Depth:  depth,
					Tagged: tag.Name != "",
					Index:  index,
				}
				cands = append(cands, c)
				if count[e.st] > 1 {
					cands = append(cands, c)
				}
			}
		}
	}
	return jtdgen.ResolveFields(cands)
}

func quotable(t types.Type) bool {
	if p, ok := types.Unalias(t).(*types.Pointer); ok {
		t = p.Elem()
	}
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&(types.IsBoolean|types.IsNumeric|types.IsString) != 0 && b.Info()&types.IsComplex == 0
}

// config parses the directive markers of a declaration. Types without a
// declaration in the loaded packages have none.
func config(dc *decl, names jtdgen.Names) (jtdgen.TypeConfig, error) {
	if dc == nil {
		return jtdgen.TypeConfig{}, nil
	}
	cfg, err := jtdgen.ParseDirective(dc.markers.directiveString())
	if err != nil {
		if e, ok := jtdgen.AsError(err); ok && e.Type == "" {
			cp := *e
			cp.Type = names.Key()
			return cfg, &cp
		}
		return cfg, err
	}
	return cfg, nil
}

func description(dc *decl) string {
	if dc == nil {
		return ""
	}
	return dc.doc
}

type namedStruct struct {
	u  *Universe
	t  *types.Named
	st *types.Struct
	dc *decl
}

func (s *namedStruct) Schema(r jtdgen.Registry) (*jtd.Schema, error) {
	names := s.Names()
	cfg, err := config(s.dc, names)
	if err != nil {
		return nil, err
	}
	l := jtdgen.StructLayout(jtdgen.NamedFields(s.u.fields(s.st)...))
	return jtdgen.DeriveDescribed(r, names, l, cfg, description(s.dc))
}
func (s *namedStruct) Referenceable() bool  { return true }
func (s *namedStruct) Names() jtdgen.Names { return namesOf(s.t) }

type anonStruct struct {
	u  *Universe
	st *types.Struct
}

func (s *anonStruct) Schema(r jtdgen.Registry) (*jtd.Schema, error) {
	l := jtdgen.StructLayout(jtdgen.NamedFields(s.u.fields(s.st)...))
	return jtdgen.Derive(r, s.Names(), l, jtdgen.TypeConfig{})
}
func (s *anonStruct) Referenceable() bool  { return false }
func (s *anonStruct) Names() jtdgen.Names { return namesOf(s.st) }

// newtype resolves its underlying type lazily so that self-referencing
// declarations such as `type List []List` terminate.
type newtype struct {
	u  *Universe
	t  *types.Named
	dc *decl
}

func (n *newtype) Schema(r jtdgen.Registry) (*jtd.Schema, error) {
	names := n.Names()
	cfg, err := config(n.dc, names)
	if err != nil {
		return nil, err
	}
	inner := n.u.TypeOf(n.t.Underlying())
	return jtdgen.Derive(r, names, jtdgen.StructLayout(jtdgen.UnnamedFields(inner)), cfg)
}
func (n *newtype) Referenceable() bool  { return true }
func (n *newtype) Names() jtdgen.Names { return namesOf(n.t) }

type enum struct {
	t      *types.Named
	dc     *decl
	values []string
}

func (e *enum) Schema(r jtdgen.Registry) (*jtd.Schema, error) {
	names := e.Names()
	cfg, err := config(e.dc, names)
	if err != nil {
		return nil, err
	}
	variants := make([]jtdgen.Variant, len(e.values))
	for i, v := range e.values {
		variants[i] = jtdgen.Variant{Name: v, Fields: jtdgen.UnitFields()}
	}
	return jtdgen.DeriveDescribed(r, names, jtdgen.UnionLayout(variants...), cfg, description(e.dc))
}
func (e *enum) Referenceable() bool  { return true }
func (e *enum) Names() jtdgen.Names { return namesOf(e.t) }

type union struct {
	u        *Universe
	t        *types.Named
	dc       *decl
	variants []*types.TypeName
}

func (un *union) Schema(r jtdgen.Registry) (*jtd.Schema, error) {
	names := un.Names()
	cfg, err := config(un.dc, names)
	if err != nil {
		return nil, err
	}
	variants := make([]jtdgen.Variant, len(un.variants))
	for i, obj := range un.variants {
		variants[i] = jtdgen.Variant{Name: un.u.variantName(obj), Fields: un.u.variantFields(obj.Type())}
	}
	return jtdgen.DeriveDescribed(r, names, jtdgen.UnionLayout(variants...), cfg, description(un.dc))
}
func (un *union) Referenceable() bool  { return true }
func (un *union) Names() jtdgen.Names { return namesOf(un.t) }

func (u *Universe) variantName(obj *types.TypeName) string {
	if dc := u.decls[obj]; dc != nil && dc.markers.variant != "" {
		return dc.markers.variant
	}
	return obj.Name()
}

// variantFields classifies a variant type: a struct with encoded fields is
// a struct variant, a struct without any a unit variant, anything else a
// tuple variant.
func (u *Universe) variantFields(t types.Type) jtdgen.Fields {
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return jtdgen.UnnamedFields(u.TypeOf(t))
	}
	fields := u.fields(st)
	if len(fields) == 0 {
		return jtdgen.UnitFields()
	}
	return jtdgen.NamedFields(fields...)
}

type unsupported struct {
	t   types.Type
	why string
}

func (x unsupported) Schema(jtdgen.Registry) (*jtd.Schema, error) {
	return nil, jtdgen.UnsupportedType(types.TypeString(x.t, nil), x.why)
}
func (unsupported) Referenceable() bool    { return false }
func (x unsupported) Names() jtdgen.Names { return namesOf(x.t) }
