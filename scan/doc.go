// Package scan is the static front-end of jtdgen. It loads Go packages with
// golang.org/x/tools/go/packages and maps their declarations onto jtdgen
// Typedefs without running any user code.
//
// Types are selected and configured with comment markers:
//
//	// Shape is a drawable figure.
//	// +jtd:derive
//	// +jtd:tag=kind
//	type Shape interface{ isShape() }
//
//	// +jtd:variant=circle
//	type Circle struct {
//		Radius float64 `json:"radius"`
//	}
//
// Mapping rules:
//
//   - a struct type is a record; its fields follow encoding/json
//   - a defined type over a non-struct type is a newtype wrapper
//   - a defined string type with typed constants is an enum of their values
//   - an interface marked +jtd:derive is a union whose variants are the
//     package's types implementing it, in declaration order; a variant type
//     with struct fields is a struct variant, an empty struct a unit variant,
//     anything else a tuple variant
//   - other interfaces accept any value
//
// Every type reachable from a root is derived, marked or not; markers only
// choose the roots and carry configuration. The doc comment of a type,
// without marker lines, becomes its metadata.description.
package scan
