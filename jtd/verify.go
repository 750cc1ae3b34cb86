package jtd

import (
	"fmt"
	"strings"
)

// VerifyError describes one structural rule of RFC 8927 that a schema breaks.
type VerifyError struct {
	Path    string // JSON Pointer into the schema document
	Message string
}

func (e *VerifyError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// VerifyErrors is a collection of VerifyError values.
type VerifyErrors []*VerifyError

func (e VerifyErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("invalid schema:\n")
	for i, err := range e {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Verify checks that root is a correct JTD schema: definitions only at the
// root, every ref resolves, enums are non-empty and unique, property names
// are not both required and optional, and discriminator mappings hold
// non-nullable properties schemas that do not redeclare the tag.
func Verify(root *Schema) error {
	v := &verifier{defs: root.Definitions}
	if root.Definitions != nil {
		for p := root.Definitions.Oldest(); p != nil; p = p.Next() {
			v.walk("/definitions/"+escape(p.Key), p.Value, false)
		}
	}
	v.walk("", root, true)
	if len(v.errs) > 0 {
		return v.errs
	}
	return nil
}

type verifier struct {
	defs *Members
	errs VerifyErrors
}

func (v *verifier) fail(path, format string, a ...any) {
	v.errs = append(v.errs, &VerifyError{Path: path, Message: fmt.Sprintf(format, a...)})
}

func (v *verifier) walk(path string, s *Schema, root bool) {
	if s == nil {
		v.fail(path, "schema is null")
		return
	}
	if !root && s.Definitions != nil && s.Definitions.Len() > 0 {
		v.fail(path, "definitions are only allowed on the root schema")
	}
	switch f := s.Form.(type) {
	case Ref:
		if v.defs == nil {
			v.fail(path, "ref %q without definitions", f.Definition)
		} else if _, ok := v.defs.Get(f.Definition); !ok {
			v.fail(path, "ref %q does not name a definition", f.Definition)
		}
	case Enum:
		if len(f.Values) == 0 {
			v.fail(path, "enum must not be empty")
		}
		seen := map[string]bool{}
		for _, val := range f.Values {
			if seen[val] {
				v.fail(path, "enum value %q is repeated", val)
			}
			seen[val] = true
		}
	case Elements:
		v.walk(path+"/elements", f.Schema, false)
	case Values:
		v.walk(path+"/values", f.Schema, false)
	case Properties:
		v.properties(path, f)
	case Discriminator:
		if f.Mapping == nil {
			return
		}
		for p := f.Mapping.Oldest(); p != nil; p = p.Next() {
			at := path + "/mapping/" + escape(p.Key)
			if p.Value == nil {
				v.fail(at, "schema is null")
				continue
			}
			props, ok := p.Value.Form.(Properties)
			if !ok {
				v.fail(at, "mapping value must be a properties schema, got %s", p.Value.FormName())
				continue
			}
			if p.Value.Nullable {
				v.fail(at, "mapping value must not be nullable")
			}
			if has(props.Required, f.Tag) || has(props.Optional, f.Tag) {
				v.fail(at, "mapping value redeclares discriminator %q", f.Tag)
			}
			v.walk(at, p.Value, false)
		}
	}
}

func (v *verifier) properties(path string, f Properties) {
	if f.Required != nil {
		for p := f.Required.Oldest(); p != nil; p = p.Next() {
			v.walk(path+"/properties/"+escape(p.Key), p.Value, false)
		}
	}
	if f.Optional != nil {
		for p := f.Optional.Oldest(); p != nil; p = p.Next() {
			if has(f.Required, p.Key) {
				v.fail(path, "property %q is both required and optional", p.Key)
			}
			v.walk(path+"/optionalProperties/"+escape(p.Key), p.Value, false)
		}
	}
}

func has(m *Members, key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Get(key)
	return ok
}

// escape applies RFC 6901 escaping to a pointer segment.
func escape(seg string) string {
	return strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1")
}
