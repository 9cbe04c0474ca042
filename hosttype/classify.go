package hosttype

import (
	"encoding"
	"reflect"
)

// Kind is the wire classification of a Go type.
type Kind int

const (
	KindUnsupported Kind = iota
	KindDouble
	KindFloat
	KindInt32
	KindInt64
	KindUint32
	KindUint64
	KindBool
	KindString
	KindBytes
	KindMessage
	KindEnum
)

var kindNames = [...]string{
	KindUnsupported: "unsupported",
	KindDouble:      "double",
	KindFloat:       "float",
	KindInt32:       "int32",
	KindInt64:       "int64",
	KindUint32:      "uint32",
	KindUint64:      "uint64",
	KindBool:        "bool",
	KindString:      "string",
	KindBytes:       "bytes",
	KindMessage:     "message",
	KindEnum:        "enum",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unsupported"
	}
	return kindNames[k]
}

// Scalar reports whether k is a scalar wire kind.
func (k Kind) Scalar() bool {
	return k >= KindDouble && k <= KindBytes
}

// Shape is the container shape of a struct field.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeArray
	ShapeSet
	ShapeMap
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeSet:
		return "set"
	case ShapeMap:
		return "map"
	default:
		return "scalar"
	}
}

// Repeated reports whether the shape is written with the repeated modifier.
func (s Shape) Repeated() bool {
	return s == ShapeArray || s == ShapeSet
}

// Class is the result of classifying one Go type.
type Class struct {
	Kind Kind
	Type reflect.Type

	// Name is the schema name for KindMessage and KindEnum.
	Name string
}

// Supported reports whether the class can be emitted and transferred.
func (c Class) Supported() bool {
	return c.Kind != KindUnsupported
}

// ProtoType returns the type token used in a schema field line.
func (c Class) ProtoType() string {
	switch c.Kind {
	case KindMessage, KindEnum:
		return c.Name
	}
	return c.Kind.String()
}

// MapKey reports whether the class may be used as a map key on the wire.
func (c Class) MapKey() bool {
	switch c.Kind {
	case KindInt32, KindInt64, KindUint32, KindUint64, KindBool, KindString:
		return true
	}
	return false
}

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	enumType            = reflect.TypeFor[Enum]()
)

// Classify maps a Go type to its wire classification. It has no side
// effects.
func Classify(t reflect.Type) Class {
	if t == nil {
		return Class{}
	}
	c := Class{Type: t}

	// Handle enums before integers: a named integer implementing Enum
	if isEnumType(t) {
		name := NormalizeName(t.Name())
		if IsIdent(name) {
			c.Kind = KindEnum
			c.Name = name
		}
		return c
	}

	// Handle text-like types (time.Time, netip.Addr, ...)
	if IsText(t) && t.Kind() != reflect.String {
		c.Kind = KindString
		return c
	}

	switch t.Kind() {
	case reflect.Float64:
		c.Kind = KindDouble
	case reflect.Float32:
		c.Kind = KindFloat
	case reflect.Int32:
		c.Kind = KindInt32
	case reflect.Int64, reflect.Int:
		c.Kind = KindInt64
	case reflect.Uint32:
		c.Kind = KindUint32
	case reflect.Uint64, reflect.Uint:
		c.Kind = KindUint64
	case reflect.Bool:
		c.Kind = KindBool
	case reflect.String:
		c.Kind = KindString
	case reflect.Uint8:
		// a single byte
		c.Kind = KindBytes
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			c.Kind = KindBytes
		}
	case reflect.Struct:
		name := NormalizeName(t.Name())
		if IsIdent(name) {
			c.Kind = KindMessage
			c.Name = name
		}
	}
	return c
}

// IsText reports whether values of t round trip through text marshaling.
func IsText(t reflect.Type) bool {
	return t.Implements(textMarshalerType) && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func isEnumType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return false
	}
	return t.Name() != "" && t.Implements(enumType)
}

// ShapeOf returns the container shape of a field type together with the
// element classification and, for maps, the key classification.
func ShapeOf(t reflect.Type) (shape Shape, elem, key Class) {
	switch t.Kind() {
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && !isEnumType(t.Elem()) {
			return ShapeScalar, Classify(t), Class{}
		}
		return ShapeArray, classifyElem(t.Elem()), Class{}
	case reflect.Array:
		return ShapeArray, classifyElem(t.Elem()), Class{}
	case reflect.Map:
		if isEmptyStruct(t.Elem()) {
			return ShapeSet, classifyElem(t.Key()), Class{}
		}
		return ShapeMap, classifyElem(t.Elem()), classifyElem(t.Key())
	}
	return ShapeScalar, Classify(t), Class{}
}

// classifyElem classifies a container element. Nested containers other
// than []byte are unsupported.
func classifyElem(t reflect.Type) Class {
	switch t.Kind() {
	case reflect.Array, reflect.Map:
		return Class{Type: t}
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			return Class{Type: t}
		}
	}
	return Classify(t)
}

func isEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}
