package jtdgen

import "strings"

// Names is the identity of a type. It is a plain value computed from the
// declaration and its generic arguments, never from an instance.
type Names struct {
	Short       string   // bare declared name: Pair
	Long        string   // qualified name, unique in the program: example.com/geo.Pair
	TypeParams  []Names  // generic type arguments, in declaration order
	ConstParams []string // renderings of generic constant arguments
}

// BasicNames returns the identity of a predeclared type, whose short and
// long names coincide.
func BasicNames(name string) Names { return Names{Short: name, Long: name} }

// IsZero reports whether n carries no identity at all.
func (n Names) IsZero() bool {
	return n.Long == "" && n.Short == "" && len(n.TypeParams) == 0 && len(n.ConstParams) == 0
}

// Key renders the identity used for deduplication: the long name plus the
// long renderings of every parameter. Two types share a definition iff their
// keys are equal.
func (n Names) Key() string { return n.Render(NamingLong) }

// Render renders n with the given naming, using Go's instantiation syntax
// for parameters: Pair[int,example.com/geo.Point].
func (n Names) Render(naming Naming) string {
	base := n.Short
	if naming == NamingLong && n.Long != "" {
		base = n.Long
	}
	if len(n.TypeParams) == 0 && len(n.ConstParams) == 0 {
		return base
	}
	params := make([]string, 0, len(n.TypeParams)+len(n.ConstParams))
	for _, tp := range n.TypeParams {
		params = append(params, tp.Render(naming))
	}
	params = append(params, n.ConstParams...)
	return base + "[" + strings.Join(params, ",") + "]"
}

func (n Names) String() string { return n.Key() }
