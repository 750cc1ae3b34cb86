package jtdgen

// TagStrategy says how the active variant of a union shows up on the wire.
// The zero value is External.
type TagStrategy struct {
	tag string
}

// External leaves the variant implicit in the encoding. Only unions whose
// variants carry no data can be described this way.
func External() TagStrategy { return TagStrategy{} }

// Internal embeds the variant name under the given property.
func Internal(tag string) TagStrategy { return TagStrategy{tag: tag} }

// IsInternal reports whether the strategy carries a tag.
func (s TagStrategy) IsInternal() bool { return s.tag != "" }

// Tag returns the discriminator property name, or "" for External.
func (s TagStrategy) Tag() string { return s.tag }

func (s TagStrategy) String() string {
	if s.tag == "" {
		return "external"
	}
	return "internal(" + s.tag + ")"
}

// Naming selects how definition names are rendered from Names.
type Naming int

const (
	NamingShort Naming = iota // Bare type names: Pair[int,string].
	NamingLong                // Fully qualified: example.com/pkg.Pair[int,string].
)

func (n Naming) String() string {
	if n == NamingLong {
		return "long"
	}
	return "short"
}
