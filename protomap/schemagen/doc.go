// Package schemagen emits proto3 schema documents for Go struct types.
//
// [GenerateSchema] walks every struct and enum type reachable from a set of
// root types and writes one message or enum block per distinct type name.
// Field numbers follow field iteration order starting at 1. Fields that
// classify as unsupported are left out of the document but still consume
// their number, so adding support for a kind later does not renumber the
// fields after it.
//
// Reordering struct fields renumbers the schema. [Drift] compares two
// documents and reports the changes that break wire compatibility.
//
// # Related Packages
//
//   - github.com/signadot/protomap/hosttype - Type classification
//   - github.com/signadot/protomap/protomap - Encoding/decoding
//   - github.com/signadot/protomap/protoc - Compiling documents
package schemagen
