package jtd

import (
	"bytes"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// MarshalJSON renders s with a stable keyword order: definitions, the form
// keywords, nullable, metadata. Member maps keep insertion order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.document())
}

// MarshalYAML renders s as a block-style YAML mapping in the same key order
// as MarshalJSON.
func (s *Schema) MarshalYAML() (any, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return &doc, nil
	}
	root := doc.Content[0]
	blockStyle(root)
	return root, nil
}

// Equal reports whether a and b encode to the same JSON document.
func Equal(a, b *Schema) bool {
	ja, errA := a.MarshalJSON()
	jb, errB := b.MarshalJSON()
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

type document = orderedmap.OrderedMap[string, any]

func (s *Schema) document() *document {
	doc := orderedmap.New[string, any]()
	if s.Definitions != nil && s.Definitions.Len() > 0 {
		doc.Set("definitions", s.Definitions)
	}
	switch f := s.Form.(type) {
	case nil, Empty, *Empty:
	case Ref:
		doc.Set("ref", f.Definition)
	case Type:
		doc.Set("type", string(f.Name))
	case Enum:
		values := f.Values
		if values == nil {
			values = []string{}
		}
		doc.Set("enum", values)
	case Elements:
		doc.Set("elements", orEmpty(f.Schema))
	case Properties:
		hasRequired := f.Required != nil && f.Required.Len() > 0
		hasOptional := f.Optional != nil && f.Optional.Len() > 0
		if hasRequired || !hasOptional {
			doc.Set("properties", orNoMembers(f.Required))
		}
		if hasOptional {
			doc.Set("optionalProperties", f.Optional)
		}
		if f.Additional {
			doc.Set("additionalProperties", true)
		}
	case Values:
		doc.Set("values", orEmpty(f.Schema))
	case Discriminator:
		doc.Set("discriminator", f.Tag)
		doc.Set("mapping", orNoMembers(f.Mapping))
	}
	if s.Nullable {
		doc.Set("nullable", true)
	}
	if len(s.Metadata) > 0 {
		doc.Set("metadata", s.Metadata)
	}
	return doc
}

func orEmpty(s *Schema) *Schema {
	if s == nil {
		return New(Empty{})
	}
	return s
}

func orNoMembers(m *Members) *Members {
	if m == nil {
		return NewMembers()
	}
	return m
}

// blockStyle drops the flow and quoting styles inherited from JSON input so
// the encoder picks plain YAML; strings that need quoting are still quoted.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
