package jtdgen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	jtdgen "github.com/reoring/jtdgen"
	"github.com/reoring/jtdgen/jtd"
)

var (
	f64 = jtdgen.Basic("float64", jtd.Float64)
	str = jtdgen.Basic("string", jtd.String)
)

func geo(name string) jtdgen.Names {
	return jtdgen.Names{Short: name, Long: "example.com/geo." + name}
}

func named(name string, ty jtdgen.Typedef) jtdgen.Field {
	return jtdgen.Field{Name: name, Type: ty}
}

func record(name string, fields ...jtdgen.Field) *jtdgen.Derived {
	return &jtdgen.Derived{ID: geo(name), Layout: jtdgen.StructLayout(jtdgen.NamedFields(fields...))}
}

func union(name, directive string, variants ...jtdgen.Variant) *jtdgen.Derived {
	cfg, err := jtdgen.ParseDirective(directive)
	if err != nil {
		panic(err)
	}
	return &jtdgen.Derived{ID: geo(name), Layout: jtdgen.UnionLayout(variants...), Config: cfg}
}

func unitVariant(name string) jtdgen.Variant {
	return jtdgen.Variant{Name: name, Fields: jtdgen.UnitFields()}
}

func structVariant(name string, fields ...jtdgen.Field) jtdgen.Variant {
	return jtdgen.Variant{Name: name, Fields: jtdgen.NamedFields(fields...)}
}

func mustJSON(t *testing.T, s *jtd.Schema) string {
	t.Helper()
	raw, err := s.MarshalJSON()
	require.NoError(t, err)
	return string(raw)
}

func requireKind(t *testing.T, err error, kind jtdgen.Kind) *jtdgen.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := jtdgen.AsError(err)
	require.True(t, ok, "expected *jtdgen.Error, got %T: %v", err, err)
	require.Equal(t, kind, e.Kind, "error: %v", err)
	return e
}

// recordingRegistry returns a placeholder for every member and remembers
// what was requested.
type recordingRegistry struct {
	requested []jtdgen.Names
}

func (r *recordingRegistry) SubSchema(t jtdgen.Typedef) (*jtd.Schema, error) {
	r.requested = append(r.requested, t.Names())
	return jtd.New(jtd.Ref{Definition: t.Names().Short}), nil
}
