package jtdgen

import (
	"reflect"
	"slices"
	"strings"
)

// JSONTag is a parsed `json:"..."` struct tag.
type JSONTag struct {
	Name      string // wire name; empty means the Go field name
	Skip      bool   // json:"-"
	OmitEmpty bool   // omitempty or omitzero: the member may be absent
	Quoted    bool   // the ",string" option
}

// ParseJSONTag reads the json key of a struct tag.
func ParseJSONTag(tag reflect.StructTag) JSONTag {
	raw := tag.Get("json")
	if raw == "-" {
		return JSONTag{Skip: true}
	}
	name, rest, _ := strings.Cut(raw, ",")
	t := JSONTag{Name: name}
	for _, opt := range strings.Split(rest, ",") {
		switch strings.TrimSpace(opt) {
		case "omitempty", "omitzero":
			t.OmitEmpty = true
		case "string":
			t.Quoted = true
		}
	}
	return t
}

// FieldCandidate is a struct member found while flattening embedded
// structs, before name conflicts are settled.
type FieldCandidate struct {
	Field  Field
	Depth  int  // embedding depth, 0 for direct fields
	Tagged bool // the name came from a json tag
	// Index is the field index sequence through embedded structs. Candidates
	// are put in Index order before conflicts are settled.
	Index []int
}

// ResolveFields settles name conflicts the way encoding/json does: the
// shallowest candidate wins, then the only tagged one among the shallowest;
// remaining ties drop the name. The result follows Index order, then the
// order of cands.
func ResolveFields(cands []FieldCandidate) []Field {
	cands = slices.Clone(cands)
	slices.SortStableFunc(cands, func(a, b FieldCandidate) int {
		return slices.Compare(a.Index, b.Index)
	})
	byName := map[string][]int{}
	for i, c := range cands {
		byName[c.Field.Name] = append(byName[c.Field.Name], i)
	}
	var out []Field
	for i, c := range cands {
		if dominant(cands, byName[c.Field.Name]) == i {
			out = append(out, c.Field)
		}
	}
	return out
}

// dominant returns the index of the candidate that wins a name, or -1.
func dominant(cands []FieldCandidate, idx []int) int {
	if len(idx) == 1 {
		return idx[0]
	}
	minDepth := cands[idx[0]].Depth
	for _, i := range idx[1:] {
		minDepth = min(minDepth, cands[i].Depth)
	}
	var shallow, tagged []int
	for _, i := range idx {
		if cands[i].Depth != minDepth {
			continue
		}
		shallow = append(shallow, i)
		if cands[i].Tagged {
			tagged = append(tagged, i)
		}
	}
	switch {
	case len(shallow) == 1:
		return shallow[0]
	case len(tagged) == 1:
		return tagged[0]
	}
	return -1
}
