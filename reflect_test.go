package jtdgen_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jtdgen "github.com/reoring/jtdgen"
	"github.com/reoring/jtdgen/jtd"
)

type Shape interface{ isShape() }

type Circle struct {
	Radius float64 `json:"radius"`
}

type Square struct {
	Side float64 `json:"side"`
}

func (Circle) isShape() {}
func (Square) isShape() {}

type Color string

func (Color) JTDValues() []string { return []string{"red", "green", "blue"} }

type Status string

func (Status) JTDValues() []string   { return []string{"active", "disabled"} }
func (Status) JTDDirective() string { return "tag=status" }

type Level int

type Drawing struct {
	Title  string  `json:"title"`
	Shapes []Shape `json:"shapes"`
	Note   *string `json:"note,omitempty"`
	Color  Color   `json:"color"`
}

type UserID string

type Base struct {
	ID UserID `json:"id"`
}

type Account struct {
	Base
	Name    string `json:"name"`
	Skipped string `json:"-"`
	secret  string
}

type Tree struct {
	Label    string `json:"label"`
	Children []Tree `json:"children"`
}

type Pair[A, B any] struct {
	First  A `json:"first"`
	Second B `json:"second"`
}

type Scalars struct {
	Flag    bool              `json:"flag"`
	Small   int8              `json:"small"`
	Big     int64             `json:"big"`
	Count   int               `json:"count,string"`
	Ratio   float32           `json:"ratio"`
	Blob    []byte            `json:"blob"`
	At      time.Time         `json:"at"`
	Any     any               `json:"any"`
	Raw     json.RawMessage   `json:"raw"`
	Labels  map[string]string `json:"labels"`
	Fixed   [2]uint16         `json:"fixed"`
	Plain   string
}

func TestReflector_Drawing(t *testing.T) {
	r := jtdgen.NewReflector()
	require.NoError(t, r.RegisterUnion(reflect.TypeFor[Shape](), "tag=kind",
		jtdgen.CaseOf[Circle]("Circle"),
		jtdgen.CaseOf[Square]("Square"),
	))

	s, err := jtdgen.Generate(jtdgen.For[Drawing](r))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"definitions": {
			"Shape": {
				"discriminator": "kind",
				"mapping": {
					"Circle": {"properties": {"radius": {"type": "float64"}}, "additionalProperties": true},
					"Square": {"properties": {"side": {"type": "float64"}}, "additionalProperties": true}
				}
			},
			"Color": {"enum": ["red", "green", "blue"]}
		},
		"properties": {
			"title": {"type": "string"},
			"shapes": {"elements": {"ref": "Shape"}, "nullable": true},
			"color": {"ref": "Color"}
		},
		"optionalProperties": {"note": {"type": "string", "nullable": true}},
		"additionalProperties": true
	}`, mustJSON(t, s))
	assert.Equal(t, []string{"Shape", "Color"}, keys(s.Definitions))
	require.NoError(t, jtd.Verify(s))
}

func TestReflector_Scalars(t *testing.T) {
	s, err := jtdgen.Generate(jtdgen.For[Scalars](jtdgen.NewReflector()))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"properties": {
			"flag": {"type": "boolean"},
			"small": {"type": "int8"},
			"big": {"type": "float64"},
			"count": {"type": "string"},
			"ratio": {"type": "float32"},
			"blob": {"type": "string"},
			"at": {"type": "timestamp"},
			"any": {},
			"raw": {},
			"labels": {"values": {"type": "string"}, "nullable": true},
			"fixed": {"elements": {"type": "uint16"}},
			"Plain": {"type": "string"}
		},
		"additionalProperties": true
	}`, mustJSON(t, s))
}

func TestReflector_EmbeddedAndNewtype(t *testing.T) {
	s, err := jtdgen.Generate(jtdgen.For[Account](jtdgen.NewReflector()))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"definitions": {"UserID": {"type": "string"}},
		"properties": {"id": {"ref": "UserID"}, "name": {"type": "string"}},
		"additionalProperties": true
	}`, mustJSON(t, s))
}

func TestReflector_NewtypeRootIsTransparent(t *testing.T) {
	s, err := jtdgen.Generate(jtdgen.For[UserID](jtdgen.NewReflector()))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"string"}`, mustJSON(t, s))
}

func TestReflector_RecursiveStruct(t *testing.T) {
	s, err := jtdgen.Generate(jtdgen.For[Tree](jtdgen.NewReflector()))
	require.NoError(t, err)
	require.Equal(t, []string{"Tree"}, keys(s.Definitions))
	p := s.Form.(jtd.Properties)
	children, _ := p.Required.Get("children")
	assert.Equal(t, `{"elements":{"ref":"Tree"},"nullable":true}`, mustJSON(t, children))
	require.NoError(t, jtd.Verify(s))
}

func TestReflector_GenericNames(t *testing.T) {
	r := jtdgen.NewReflector()
	names := jtdgen.For[Pair[UserID, int]](r).Names()
	assert.Equal(t, "Pair", names.Short)
	assert.Equal(t, "github.com/reoring/jtdgen_test.Pair", names.Long)
	require.Len(t, names.TypeParams, 2)
	assert.Equal(t, "UserID", names.TypeParams[0].Short)
	assert.Equal(t, "github.com/reoring/jtdgen_test.UserID", names.TypeParams[0].Long)
	assert.Equal(t, "Pair[UserID,int]", names.Render(jtdgen.NamingShort))

	type holder struct {
		A Pair[int, string] `json:"a"`
		B Pair[string, int] `json:"b"`
	}
	s, err := jtdgen.Generate(jtdgen.For[holder](r))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pair[int,string]", "Pair[string,int]"}, keys(s.Definitions))
}

func TestReflector_Enums(t *testing.T) {
	r := jtdgen.NewReflector()
	require.NoError(t, r.RegisterEnum(reflect.TypeFor[Level](), "", "debug", "info", "debug"))

	s, err := jtdgen.Generate(jtdgen.For[Level](r))
	require.NoError(t, err)
	assert.Equal(t, `{"enum":["debug","info"]}`, mustJSON(t, s))

	s, err = jtdgen.Generate(jtdgen.For[Status](r))
	require.NoError(t, err)
	assert.Equal(t, `{"properties":{"status":{"enum":["active","disabled"]}},"additionalProperties":true}`, mustJSON(t, s))

	s, err = jtdgen.Generate(jtdgen.For[*Color](r))
	require.NoError(t, err)
	assert.Equal(t, `{"definitions":{"Color":{"enum":["red","green","blue"]}},"ref":"Color","nullable":true}`, mustJSON(t, s))
}

type Signal interface{ isSignal() }

func TestReflector_Unions(t *testing.T) {
	signal := reflect.TypeFor[Signal]()

	t.Run("unit cases make an enum", func(t *testing.T) {
		r := jtdgen.NewReflector()
		require.NoError(t, r.RegisterUnion(signal, "", jtdgen.UnitCase("Start"), jtdgen.CaseOf[struct{}]("Stop")))
		s, err := jtdgen.Generate(r.TypeOf(signal))
		require.NoError(t, err)
		assert.Equal(t, `{"enum":["Start","Stop"]}`, mustJSON(t, s))
	})

	t.Run("mixed cases", func(t *testing.T) {
		r := jtdgen.NewReflector()
		require.NoError(t, r.RegisterUnion(signal, "tag=t", jtdgen.UnitCase("Stop"), jtdgen.CaseOf[Circle]("Circle")))
		_, err := jtdgen.Generate(r.TypeOf(signal))
		e := requireKind(t, err, jtdgen.KindMixedVariants)
		assert.Equal(t, "Stop", e.Related[0].Variant)
		assert.Equal(t, "Circle", e.Related[1].Variant)
	})

	t.Run("positional case", func(t *testing.T) {
		r := jtdgen.NewReflector()
		require.NoError(t, r.RegisterUnion(signal, "tag=t", jtdgen.CaseOf[float64]("Num")))
		_, err := jtdgen.Generate(r.TypeOf(signal))
		e := requireKind(t, err, jtdgen.KindTupleVariant)
		assert.Equal(t, "Num", e.Variant)
	})

	t.Run("struct cases need a tag", func(t *testing.T) {
		r := jtdgen.NewReflector()
		require.NoError(t, r.RegisterUnion(signal, "", jtdgen.CaseOf[Circle]("Circle")))
		_, err := jtdgen.Generate(r.TypeOf(signal))
		assert.True(t, errors.Is(err, jtdgen.ErrMissingDiscriminator))
	})

	t.Run("bad directive", func(t *testing.T) {
		r := jtdgen.NewReflector()
		err := r.RegisterUnion(signal, "tag")
		e := requireKind(t, err, jtdgen.KindConfig)
		assert.Equal(t, "github.com/reoring/jtdgen_test.Signal", e.Type)
	})

	t.Run("unregistered interface accepts anything", func(t *testing.T) {
		s, err := jtdgen.Generate(jtdgen.NewReflector().TypeOf(signal))
		require.NoError(t, err)
		assert.Equal(t, `{}`, mustJSON(t, s))
	})
}

func TestReflector_Unsupported(t *testing.T) {
	type keyed struct {
		M map[Circle]string `json:"m"`
	}
	type piped struct {
		C chan int `json:"c"`
	}
	r := jtdgen.NewReflector()
	for _, typ := range []jtdgen.Typedef{jtdgen.For[keyed](r), jtdgen.For[piped](r)} {
		_, err := jtdgen.Generate(typ)
		require.Error(t, err)
		assert.True(t, errors.Is(err, jtdgen.ErrUnsupportedShape), "%v", err)
		e, ok := jtdgen.AsError(err)
		require.True(t, ok)
		assert.Equal(t, jtdgen.KindUnsupportedType, e.Kind)
	}

	_, err := jtdgen.Generate(jtdgen.For[keyed](r))
	assert.Contains(t, err.Error(), "map keys must encode as strings")
}

type Malformed string

func (Malformed) JTDValues() []string   { return []string{"a", "b"} }
func (Malformed) JTDDirective() string { return "tag" }

type MalformedRecord struct {
	A string `json:"a"`
}

func (MalformedRecord) JTDDirective() string { return "tag=a,tag=b" }

type MalformedID int

func (MalformedID) JTDDirective() string { return "color=red" }

func TestReflector_MalformedDirective(t *testing.T) {
	r := jtdgen.NewReflector()
	for _, tc := range []struct {
		name string
		typ  jtdgen.Typedef
	}{
		{"Malformed", jtdgen.For[Malformed](r)},
		{"MalformedRecord", jtdgen.For[MalformedRecord](r)},
		{"MalformedID", jtdgen.For[MalformedID](r)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := jtdgen.Generate(tc.typ)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, jtdgen.ErrConfig), "%v", err)
			e, ok := jtdgen.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tc.typ.Names().Key(), e.Type)
		})
	}
}

type Audit struct {
	By string `json:"by"`
}

type Created struct{ Audit }

type Updated struct{ Audit }

type Revision struct {
	Created
	Updated
	Number int32 `json:"number"`
}

type Stamped struct {
	Audit
	Note string `json:"note"`
}

func TestReflector_EmbeddedAnnihilation(t *testing.T) {
	r := jtdgen.NewReflector()

	// Audit is reached through Created and Updated at the same depth, so
	// encoding/json drops its "by" field.
	s, err := jtdgen.Generate(jtdgen.For[Revision](r))
	require.NoError(t, err)
	assert.Equal(t, `{"properties":{"number":{"type":"int32"}},"additionalProperties":true}`, mustJSON(t, s))

	raw, err := json.Marshal(Revision{Number: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"number":1}`, string(raw))

	// embedded fields keep their declaration position
	s, err = jtdgen.Generate(jtdgen.For[Stamped](r))
	require.NoError(t, err)
	assert.Equal(t, `{"properties":{"by":{"type":"string"},"note":{"type":"string"}},"additionalProperties":true}`, mustJSON(t, s))
}

func TestReflector_Reflect(t *testing.T) {
	r := jtdgen.NewReflector()
	assert.Equal(t, jtdgen.For[Circle](r).Names(), r.Reflect(Circle{}).Names())
	assert.Equal(t, jtdgen.Empty(), r.Reflect(nil))
}

type List []List

func TestReflector_SelfReferencingNewtype(t *testing.T) {
	s, err := jtdgen.Generate(jtdgen.For[List](jtdgen.NewReflector()))
	require.NoError(t, err)
	assert.Equal(t,
		`{"definitions":{"List":{"elements":{"ref":"List"},"nullable":true}},"elements":{"ref":"List"},"nullable":true}`,
		mustJSON(t, s))
	require.NoError(t, jtd.Verify(s))
}
