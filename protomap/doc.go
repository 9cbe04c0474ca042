// Package protomap moves values between Go structs and protobuf messages
// using reflection on one side and protoreflect on the other.
//
// A [Mapper] resolves the message descriptor for a struct type by the
// struct's name, optionally qualified by a package, in a [Registry]. The
// registry is usually built from a schema emitted by the schemagen
// subpackage and compiled with the protoc package:
//
//	text, _ := schemagen.GenerateSchema([]reflect.Type{reflect.TypeFor[Player]()})
//	reg, _ := protoc.Compile(ctx, "game.proto", text)
//	m := protomap.NewMapper(reg)
//	b, err := m.Marshal(&player)
//	...
//	var got Player
//	err = m.Unmarshal(b, &got)
//
// # Field matching
//
// Host fields are matched to wire fields by normalized name (see
// hosttype.NormalizeName). A host field with no wire field is skipped, and
// so is a wire field with no host field, so a struct and a schema may
// drift apart without failing.
//
// # Conversions
//
// Singular scalars, enums and map entries are converted through their text
// form, so a host value can populate any wire field whose text syntax
// accepts it. Enums are matched by enumerator name first and fall back to
// the number. Repeated scalars are converted directly and only widen.
//
// Decoding maps each wire kind to the host kinds it may populate. A uint32
// wire value may populate an int32 field by reinterpretation; enum values
// populate any integer field by number.
//
// Enum numbers are authoritative when decoding. If a host enum and the
// wire enum assign different numbers to the same name, values decode to
// the wrong enumerator. schemagen.Drift reports such renumbering.
//
// # Errors
//
// Only invalid arguments, a type missing from the registry, malformed
// input, and unset required fields in strict mode fail a call. Field level
// failures are reported as *MarshalError, *UnmarshalError, *TypeError or
// *IndexError through the mapper's logger and its field error handler.
package protomap
