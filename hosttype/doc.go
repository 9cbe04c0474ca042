// Package hosttype describes Go types in the terms the protobuf wire schema
// needs: which fields a struct exposes, in what order, with what container
// shape, and what wire kind each element classifies to.
//
// # Field tags
//
// Struct fields may carry a protomap tag:
//
//	type Player struct {
//		DisplayName string `protomap:"name=displayName,label='Display Name'"`
//		Secret      string `protomap:"-"`
//	}
//
// The name key overrides the wire name (spaces are always stripped, see
// [NormalizeName]). The label key is informational only and never becomes
// a wire identifier. The "-" flag removes the field from the type entirely;
// such a field does not consume a field number.
//
// # Classification
//
// [Classify] maps one Go type to a [Class]. Fields whose element type
// classifies as [KindUnsupported] are kept in [Struct.Fields] so that they
// still consume a field number, but they are never emitted or transferred.
//
// # Enums
//
// A named integer type is an enum when its value implements [Enum].
// Enumerators whose name ends in [SentinelSuffix] are host artifacts and
// are excluded by [EnumDef.Logical].
package hosttype
