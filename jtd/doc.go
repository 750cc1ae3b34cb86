// Package jtd models JSON Typedef schemas (RFC 8927).
//
// A Schema holds exactly one of the eight forms (Empty, Ref, Type, Enum,
// Elements, Properties, Values, Discriminator) plus the shared nullable and
// metadata keywords. Definitions are only meaningful on the root schema.
//
// Member maps are insertion-ordered so encoding is deterministic:
//
//	s := jtd.New(jtd.Enum{Values: []string{"red", "green"}})
//	raw, _ := s.MarshalJSON() // {"enum":["red","green"]}
//
// Verify checks the structural rules that a conforming validator would
// reject a schema for.
package jtd
