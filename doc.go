// Package jtdgen derives JSON Typedef (RFC 8927) schemas from the shape of
// Go types.
//
// The package provides:
//
//   - A derivation core: Classify turns a Layout into a TypeShape, Synthesize
//     turns a TypeShape plus a TagStrategy into a schema. Derive runs both.
//   - A registry (Generator) that deduplicates referenceable types by Names,
//     emits refs at use sites and terminates on recursive type graphs.
//   - A reflection front-end (Reflector) for runtime types.
//
// The go/types front-end lives in the scan package, the schema model in jtd,
// and the CLI in cmd/jtdderive.
//
// Construct selection:
//
//	struct with named fields     -> properties (additionalProperties: true)
//	struct with one unnamed field -> the schema of that field
//	union of unit variants        -> enum, or properties{tag: enum} with a tag
//	union of struct variants      -> discriminator (requires a tag)
//
// Typical usage:
//
//	r := jtdgen.NewReflector()
//	_ = r.RegisterUnion(reflect.TypeFor[Shape](), "tag=kind",
//		jtdgen.CaseOf[Circle]("Circle"),
//		jtdgen.CaseOf[Square]("Square"))
//	schema, err := jtdgen.Generate(jtdgen.For[Drawing](r))
//
// Failures are *Error values that unwrap to ErrUnsupportedShape,
// ErrMissingDiscriminator, ErrConfig or ErrNameCollision.
package jtdgen
