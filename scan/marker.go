package scan

import (
	"go/ast"
	"strings"
)

// Marker prefixes recognized in doc comments.
const (
	MarkerPrefix  = "+jtd:"
	MarkerDerive  = MarkerPrefix + "derive"
	MarkerVariant = MarkerPrefix + "variant="
)

type markers struct {
	derive  bool
	variant string
	// directive holds every other +jtd:key=value line, in order, for
	// jtdgen.ParseDirective.
	directive []string
}

func (m markers) directiveString() string { return strings.Join(m.directive, ",") }

// docOf returns the doc comment that belongs to a type spec. A lone spec
// in a declaration may carry its doc on the GenDecl instead.
func docOf(ts *ast.TypeSpec, gd *ast.GenDecl) *ast.CommentGroup {
	if ts.Doc != nil {
		return ts.Doc
	}
	if len(gd.Specs) == 1 {
		return gd.Doc
	}
	return nil
}

// readDoc splits a doc comment into its markers and its prose. Text drops
// comment syntax and //directive lines such as //nolint.
func readDoc(cg *ast.CommentGroup) (markers, string) {
	var m markers
	if cg == nil {
		return m, ""
	}
	var prose []string
	for _, line := range strings.Split(cg.Text(), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == MarkerDerive:
			m.derive = true
		case strings.HasPrefix(line, MarkerVariant):
			m.variant = strings.TrimSpace(strings.TrimPrefix(line, MarkerVariant))
		case strings.HasPrefix(line, MarkerPrefix):
			m.directive = append(m.directive, strings.TrimPrefix(line, MarkerPrefix))
		case strings.HasPrefix(line, "+"):
			// markers of other generators
		default:
			prose = append(prose, line)
		}
	}
	return m, strings.TrimSpace(strings.Join(prose, "\n"))
}
