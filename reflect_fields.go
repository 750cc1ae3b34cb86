package jtdgen

import (
	"reflect"

	"github.com/reoring/jtdgen/jtd"
)

// fields lists the members of struct t the way encoding/json encodes them:
// exported fields under their json names, untagged embedded structs
// flattened, conflicts settled by ResolveFields.
//
// Embedded structs are walked one depth at a time. A struct reached more
// than once at the same depth contributes each field twice, so the copies
// annihilate and the field is dropped, as encoding/json does.
func (r *Reflector) fields(t reflect.Type) []Field {
	type embed struct {
		t     reflect.Type
		index []int
	}
	var cands []FieldCandidate
	visited := map[reflect.Type]bool{}
	next := []embed{{t: t}}
	nextCount := map[reflect.Type]int{t: 1}

	for depth := 0; len(next) > 0; depth++ {
		current, count := next, nextCount
		next, nextCount = nil, map[reflect.Type]int{}

		for _, e := range current {
			if visited[e.t] {
				continue
			}
			visited[e.t] = true
			for i := 0; i < e.t.NumField(); i++ {
				sf := e.t.Field(i)
				ft := sf.Type
				et := ft
				if et.Kind() == reflect.Pointer {
					et = et.Elem()
				}
				if !sf.IsExported() && !(sf.Anonymous && et.Kind() == reflect.Struct) {
					continue
				}

				tag := ParseJSONTag(sf.Tag)
				if tag.Skip {
					continue
				}
				index := append(append([]int(nil), e.index...), i)
				if sf.Anonymous && tag.Name == "" && et.Kind() == reflect.Struct {
					nextCount[et]++
					if nextCount[et] == 1 {
						next = append(next, embed{t: et, index: index})
					}
					continue
				}
				if !sf.IsExported() {
					continue
				}

				name := tag.Name
				if name == "" {
					name = sf.Name
				}
				typ := r.TypeOf(ft)
				if tag.Quoted && quotable(ft) {
					typ = Basic(ft.String(), jtd.String)
				}
				c := FieldCandidate{
					Field:  Field{Name: name, Type: typ, Optional: tag.OmitEmpty},
					Depth:  depth,
					Tagged: tag.Name != "",
					Index:  index,
				}
				cands = append(cands, c)
				if count[e.t] > 1 {
					cands = append(cands, c)
				}
			}
		}
	}
	return ResolveFields(cands)
}

// quotable reports whether the json ",string" option applies to t.
func quotable(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
