package jtdgen

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/reoring/jtdgen/jtd"
)

// Enumer is implemented by Go enums: a defined string type with a fixed set
// of values. The method is called on the zero value.
type Enumer interface {
	JTDValues() []string
}

// Directiver lets a type carry its configuration directive (see
// ParseDirective). The method is called on the zero value.
type Directiver interface {
	JTDDirective() string
}

// Case is one variant of a union registered with a Reflector. A nil Type,
// or a struct type without encoded fields, is a unit case.
type Case struct {
	Name string
	Type reflect.Type
}

// CaseOf declares a variant whose payload is T.
func CaseOf[T any](name string) Case { return Case{Name: name, Type: reflect.TypeFor[T]()} }

// UnitCase declares a variant without payload.
func UnitCase(name string) Case { return Case{Name: name} }

type unionDecl struct {
	cfg   TypeConfig
	cases []Case
}

type enumDecl struct {
	cfg    TypeConfig
	values []string
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	enumerType        = reflect.TypeFor[Enumer]()
	directiverType    = reflect.TypeFor[Directiver]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Reflector maps Go types onto Typedefs following the encoding rules of
// encoding/json. Unions have no Go spelling, so they are declared with
// RegisterUnion; enums either implement Enumer or are declared with
// RegisterEnum. A Reflector is safe for concurrent use.
type Reflector struct {
	mu     sync.RWMutex
	unions map[reflect.Type]unionDecl
	enums  map[reflect.Type]enumDecl
}

// NewReflector returns a Reflector without registrations.
func NewReflector() *Reflector {
	return &Reflector{
		unions: map[reflect.Type]unionDecl{},
		enums:  map[reflect.Type]enumDecl{},
	}
}

// RegisterUnion declares t (usually an interface type) as a tagged union
// with the given cases. directive is parsed with ParseDirective.
func (r *Reflector) RegisterUnion(t reflect.Type, directive string, cases ...Case) error {
	cfg, err := ParseDirective(directive)
	if err != nil {
		return withType(err, reflectNames(t).Key())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unions[t] = unionDecl{cfg: cfg, cases: append([]Case(nil), cases...)}
	return nil
}

// RegisterEnum declares t as an enum with the given values.
func (r *Reflector) RegisterEnum(t reflect.Type, directive string, values ...string) error {
	cfg, err := ParseDirective(directive)
	if err != nil {
		return withType(err, reflectNames(t).Key())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enums[t] = enumDecl{cfg: cfg, values: append([]string(nil), values...)}
	return nil
}

// For returns the Typedef of T.
func For[T any](r *Reflector) Typedef { return r.TypeOf(reflect.TypeFor[T]()) }

// Reflect returns the Typedef of the dynamic type of v.
func (r *Reflector) Reflect(v any) Typedef { return r.TypeOf(reflect.TypeOf(v)) }

// TypeOf returns the Typedef of t. Struct and union members are resolved
// lazily, when the schema is built, so recursive types are fine.
func (r *Reflector) TypeOf(t reflect.Type) Typedef {
	if t == nil {
		return Empty()
	}
	if t.Kind() == reflect.Pointer {
		return Nullable(r.TypeOf(t.Elem()))
	}
	r.mu.RLock()
	u, isUnion := r.unions[t]
	e, isEnum := r.enums[t]
	r.mu.RUnlock()
	switch {
	case isUnion:
		return &reflectUnion{r: r, t: t, decl: u}
	case isEnum:
		return &reflectEnum{t: t, decl: e}
	case t.Implements(enumerType) && t.Kind() != reflect.Interface:
		values := reflect.Zero(t).Interface().(Enumer).JTDValues()
		return &reflectEnum{t: t, decl: enumDecl{values: values}, directive: true}
	case t == timeType:
		return Timestamp()
	}

	if t.Implements(jsonMarshalerType) {
		return Empty()
	}
	if t.Implements(textMarshalerType) {
		return Basic(t.String(), jtd.String)
	}

	switch t.Kind() {
	case reflect.Struct:
		return &reflectStruct{r: r, t: t}
	case reflect.Interface:
		return Empty()
	}
	if t.Name() != "" && t.PkgPath() != "" {
		// A defined type over an unnamed one (type IDs []string) wraps its
		// underlying form. The inner Typedef is built lazily so that
		// self-referencing declarations terminate.
		return &reflectNewtype{r: r, t: t}
	}
	return r.underlying(t)
}

// underlying maps the structure of a non-struct type, ignoring its name.
func (r *Reflector) underlying(t reflect.Type) Typedef {
	switch t.Kind() {
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			// encoding/json writes []byte as a base64 string
			return Basic("[]byte", jtd.String)
		}
		return Nullable(Elements(r.TypeOf(t.Elem())))
	case reflect.Array:
		return Elements(r.TypeOf(t.Elem()))
	case reflect.Map:
		if !stringKeyed(t.Key()) {
			return unsupported{t: t, why: "map keys must encode as strings"}
		}
		return Nullable(Values(r.TypeOf(t.Elem())))
	}
	if name, ok := basicJTDType(t.Kind()); ok {
		return Basic(t.Kind().String(), name)
	}
	return unsupported{t: t, why: "kind " + t.Kind().String() + " has no JSON encoding"}
}

func basicJTDType(k reflect.Kind) (jtd.TypeName, bool) {
	switch k {
	case reflect.Bool:
		return jtd.Boolean, true
	case reflect.String:
		return jtd.String, true
	case reflect.Int8:
		return jtd.Int8, true
	case reflect.Uint8:
		return jtd.Uint8, true
	case reflect.Int16:
		return jtd.Int16, true
	case reflect.Uint16:
		return jtd.Uint16, true
	case reflect.Int32:
		return jtd.Int32, true
	case reflect.Uint32:
		return jtd.Uint32, true
	case reflect.Float32:
		return jtd.Float32, true
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64, reflect.Uintptr, reflect.Float64:
		// JTD has no 64-bit integers; float64 accepts every JSON number.
		return jtd.Float64, true
	}
	return "", false
}

func stringKeyed(k reflect.Type) bool {
	if k.Kind() == reflect.String || k.Implements(textMarshalerType) {
		return true
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

type reflectStruct struct {
	r *Reflector
	t reflect.Type
}

func (s *reflectStruct) Schema(reg Registry) (*jtd.Schema, error) {
	cfg, err := directiveOf(s.t)
	if err != nil {
		return nil, err
	}
	return Derive(reg, s.Names(), StructLayout(NamedFields(s.r.fields(s.t)...)), cfg)
}
func (s *reflectStruct) Referenceable() bool { return s.t.Name() != "" }
func (s *reflectStruct) Names() Names        { return reflectNames(s.t) }

type reflectNewtype struct {
	r *Reflector
	t reflect.Type
}

func (n *reflectNewtype) Schema(reg Registry) (*jtd.Schema, error) {
	cfg, err := directiveOf(n.t)
	if err != nil {
		return nil, err
	}
	inner := n.r.underlying(n.t)
	return Derive(reg, n.Names(), StructLayout(UnnamedFields(inner)), cfg)
}
func (n *reflectNewtype) Referenceable() bool { return true }
func (n *reflectNewtype) Names() Names        { return reflectNames(n.t) }

type reflectEnum struct {
	t         reflect.Type
	decl      enumDecl
	directive bool // read TypeConfig from Directiver
}

func (e *reflectEnum) Schema(reg Registry) (*jtd.Schema, error) {
	variants := make([]Variant, len(e.decl.values))
	for i, v := range e.decl.values {
		variants[i] = Variant{Name: v, Fields: UnitFields()}
	}
	cfg := e.decl.cfg
	if e.directive {
		var err error
		if cfg, err = directiveOf(e.t); err != nil {
			return nil, err
		}
	}
	return Derive(reg, e.Names(), UnionLayout(variants...), cfg)
}
func (e *reflectEnum) Referenceable() bool { return true }
func (e *reflectEnum) Names() Names        { return reflectNames(e.t) }

type reflectUnion struct {
	r    *Reflector
	t    reflect.Type
	decl unionDecl
}

func (u *reflectUnion) Schema(reg Registry) (*jtd.Schema, error) {
	variants := make([]Variant, len(u.decl.cases))
	for i, c := range u.decl.cases {
		variants[i] = Variant{Name: c.Name, Fields: u.r.caseFields(c.Type)}
	}
	return Derive(reg, u.Names(), UnionLayout(variants...), u.decl.cfg)
}
func (u *reflectUnion) Referenceable() bool { return true }
func (u *reflectUnion) Names() Names        { return reflectNames(u.t) }

// caseFields classifies a case payload: nothing or an empty struct is a
// unit variant, a struct is a struct variant, anything else is positional.
func (r *Reflector) caseFields(t reflect.Type) Fields {
	if t == nil {
		return UnitFields()
	}
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct || st == timeType {
		return UnnamedFields(r.TypeOf(t))
	}
	fields := r.fields(st)
	if len(fields) == 0 {
		return UnitFields()
	}
	return NamedFields(fields...)
}

type unsupported struct {
	t   reflect.Type
	why string
}

func (u unsupported) Schema(Registry) (*jtd.Schema, error) {
	return nil, UnsupportedType(u.t.String(), u.why)
}
func (unsupported) Referenceable() bool { return false }
func (u unsupported) Names() Names      { return BasicNames(u.t.String()) }

// directiveOf parses the directive of t when t implements Directiver.
func directiveOf(t reflect.Type) (TypeConfig, error) {
	if !t.Implements(directiverType) {
		return TypeConfig{}, nil
	}
	cfg, err := ParseDirective(reflect.Zero(t).Interface().(Directiver).JTDDirective())
	if err != nil {
		return TypeConfig{}, withType(err, reflectNames(t).Key())
	}
	return cfg, nil
}

func withType(err error, typ string) error {
	if e, ok := AsError(err); ok && e.Type == "" {
		cp := *e
		cp.Type = typ
		return &cp
	}
	return err
}

// reflectNames computes Names from a reflect.Type. Instantiated generic
// types carry their arguments in the name, e.g. Pair[int,example.com/x.ID].
func reflectNames(t reflect.Type) Names {
	if t.Name() == "" {
		return Names{Short: t.String(), Long: t.String()}
	}
	base, args := splitTypeArgs(t.Name())
	n := Names{Short: base, Long: base}
	if t.PkgPath() != "" {
		n.Long = t.PkgPath() + "." + base
	}
	for _, a := range args {
		n.TypeParams = append(n.TypeParams, namesFromString(a))
	}
	return n
}

// namesFromString parses a type argument rendered by the runtime.
func namesFromString(s string) Names {
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "*") || strings.HasPrefix(s, "map[") ||
		strings.HasPrefix(s, "func(") || strings.HasPrefix(s, "chan ") || strings.HasPrefix(s, "struct {") {
		return Names{Short: shortTypeString(s), Long: s}
	}
	base, args := splitTypeArgs(s)
	n := Names{Short: shortTypeString(base), Long: base}
	for _, a := range args {
		n.TypeParams = append(n.TypeParams, namesFromString(a))
	}
	return n
}

// splitTypeArgs splits "Pair[a,b[c,d]]" into "Pair" and ["a", "b[c,d]"].
func splitTypeArgs(name string) (string, []string) {
	i := strings.IndexByte(name, '[')
	if i <= 0 || !strings.HasSuffix(name, "]") {
		return name, nil
	}
	inner := name[i+1 : len(name)-1]
	var args []string
	depth, start := 0, 0
	for j := 0; j < len(inner); j++ {
		switch inner[j] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:j]))
				start = j + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(inner[start:]))
	return name[:i], args
}

// shortTypeString drops package qualifiers: example.com/x.ID -> ID.
func shortTypeString(s string) string {
	var b strings.Builder
	tok := strings.Builder{}
	flush := func() {
		t := tok.String()
		if i := strings.LastIndexByte(t, '.'); i >= 0 {
			t = t[i+1:]
		}
		b.WriteString(t)
		tok.Reset()
	}
	for _, c := range s {
		switch c {
		case '[', ']', '*', ',', '(', ')', '{', '}', ' ':
			flush()
			b.WriteRune(c)
		default:
			tok.WriteRune(c)
		}
	}
	flush()
	return b.String()
}
