package scan_test

import (
	"context"
	"errors"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jtdgen "github.com/reoring/jtdgen"
	"github.com/reoring/jtdgen/jtd"
	"github.com/reoring/jtdgen/scan"
)

const shapesPkg = "github.com/reoring/jtdgen/scan/testdata/shapes"

func loadShapes(t *testing.T) (*scan.Universe, scan.Diag) {
	t.Helper()
	u, d, err := scan.Load(context.Background(), scan.Config{Dir: "./testdata/shapes"}, ".")
	require.NoError(t, err)
	return u, d
}

func generate(t *testing.T, u *scan.Universe, name string) (*jtd.Schema, error) {
	t.Helper()
	root, ok := u.Lookup(name)
	require.True(t, ok, "root %s not found", name)
	return jtdgen.Generate(root.Typedef)
}

func marshal(t *testing.T, s *jtd.Schema) string {
	t.Helper()
	raw, err := s.MarshalJSON()
	require.NoError(t, err)
	return string(raw)
}

func TestLoad_Roots(t *testing.T) {
	u, _ := loadShapes(t)

	var names []string
	for _, r := range u.Roots() {
		names = append(names, r.Names.Short)
		assert.True(t, strings.HasSuffix(r.Pos.Filename, "shapes.go"))
	}
	assert.Equal(t, []string{"Shape", "Color", "UserID", "Drawing", "Node", "Event", "Status", "Bad", "Revision"}, names)
	assert.Equal(t, []string{shapesPkg}, u.Packages())

	r, ok := u.Lookup(shapesPkg + ".Drawing")
	require.True(t, ok)
	assert.Equal(t, "Drawing", r.Names.Short)
	_, ok = u.Lookup("Pair")
	assert.False(t, ok)
}

func TestLoad_Diagnostics(t *testing.T) {
	_, d := loadShapes(t)
	require.True(t, d.HasWarnings())
	all := strings.Join(d.Warnings(), "\n")
	assert.Contains(t, all, "generic type Box")
	assert.Contains(t, all, "Unmarked has +jtd: markers but no +jtd:derive")
	assert.Contains(t, all, "Orphan has a variant marker")
	assert.NotContains(t, all, "Square")
}

func TestGenerate_Drawing(t *testing.T) {
	u, _ := loadShapes(t)
	s, err := generate(t, u, "Drawing")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"definitions": {
			"UserID": {"type": "string"},
			"Shape": {
				"discriminator": "kind",
				"mapping": {
					"Circle": {"properties": {"radius": {"type": "float64"}}, "additionalProperties": true},
					"square": {"properties": {"side": {"type": "float64"}}, "additionalProperties": true}
				},
				"metadata": {"description": "Shape is a drawable figure."}
			},
			"Color": {"enum": ["red", "green", "blue"], "metadata": {"description": "Color is a paint color."}},
			"Pair[int,Color]": {
				"properties": {"first": {"type": "float64"}, "second": {"ref": "Color"}},
				"additionalProperties": true
			}
		},
		"properties": {
			"title": {"type": "string"},
			"owner": {"ref": "UserID"},
			"shapes": {"elements": {"ref": "Shape"}, "nullable": true},
			"created": {"type": "timestamp"},
			"layers": {"ref": "Pair[int,Color]"}
		},
		"optionalProperties": {
			"fill": {"ref": "Color", "nullable": true},
			"labels": {"values": {"type": "string"}, "nullable": true}
		},
		"additionalProperties": true,
		"metadata": {"description": "Drawing is a titled collection of shapes."}
	}`, marshal(t, s))
	require.NoError(t, jtd.Verify(s))
}

func TestGenerate_LongNaming(t *testing.T) {
	u, _ := loadShapes(t)
	root, _ := u.Lookup("Drawing")
	s, err := jtdgen.Generate(root.Typedef, jtdgen.WithNaming(jtdgen.NamingLong))
	require.NoError(t, err)
	_, ok := s.Definitions.Get(shapesPkg + ".Pair[int," + shapesPkg + ".Color]")
	assert.True(t, ok)
}

func TestGenerate_Enums(t *testing.T) {
	u, _ := loadShapes(t)

	s, err := generate(t, u, "Status")
	require.NoError(t, err)
	assert.Equal(t,
		`{"properties":{"state":{"enum":["active","disabled"]}},"additionalProperties":true,"metadata":{"description":"Status is encoded under a tag."}}`,
		marshal(t, s))

	s, err = generate(t, u, "UserID")
	require.NoError(t, err)
	assert.Equal(t, `{"type":"string"}`, marshal(t, s))
}

func TestGenerate_Recursive(t *testing.T) {
	u, _ := loadShapes(t)
	s, err := generate(t, u, "Node")
	require.NoError(t, err)
	_, ok := s.Definitions.Get("Node")
	assert.True(t, ok)
	require.NoError(t, jtd.Verify(s))
}

func TestGenerate_Errors(t *testing.T) {
	u, _ := loadShapes(t)

	_, err := generate(t, u, "Event")
	e, ok := jtdgen.AsError(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, jtdgen.KindMixedVariants, e.Kind)
	assert.Equal(t, shapesPkg+".Event", e.Type)
	assert.Equal(t, []jtdgen.Citation{
		{Variant: "Close", Note: "unit variant"},
		{Variant: "Click", Note: "struct variant"},
	}, e.Related)

	_, err = generate(t, u, "Bad")
	assert.True(t, errors.Is(err, jtdgen.ErrConfig))
	e, _ = jtdgen.AsError(err)
	assert.Equal(t, shapesPkg+".Bad", e.Type)
}

func TestGenerate_UnsupportedTypes(t *testing.T) {
	u, _ := loadShapes(t)

	for _, typ := range []types.Type{
		types.NewChan(types.SendRecv, types.Typ[types.Int]),
		types.NewMap(types.Typ[types.Bool], types.Typ[types.String]),
		types.Typ[types.Complex128],
	} {
		_, err := jtdgen.Generate(u.TypeOf(typ))
		require.Error(t, err, typ.String())
		assert.True(t, errors.Is(err, jtdgen.ErrUnsupportedShape), "%v", err)
		e, ok := jtdgen.AsError(err)
		require.True(t, ok)
		assert.Equal(t, jtdgen.KindUnsupportedType, e.Kind)
	}
}

func TestGenerate_EmbeddedAnnihilation(t *testing.T) {
	u, _ := loadShapes(t)

	s, err := generate(t, u, "Revision")
	require.NoError(t, err)
	assert.Equal(t,
		`{"properties":{"number":{"type":"int32"}},"additionalProperties":true,"metadata":{"description":"Revision embeds Audit twice at the same depth."}}`,
		marshal(t, s))
}

func TestLoad_PackageErrors(t *testing.T) {
	_, _, err := scan.Load(context.Background(), scan.Config{Dir: "./testdata/invalid"}, ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}
