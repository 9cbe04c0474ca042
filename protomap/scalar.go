package protomap

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/signadot/protomap/hosttype"
)

// exportText renders a scalar host value as text. Enums render as their
// enumerator name when one exists.
func exportText(c hosttype.Class, v reflect.Value) (string, error) {
	switch c.Kind {
	case hosttype.KindEnum:
		n := intOf(v)
		if def, err := hosttype.EnumOf(c.Type); err == nil {
			if name, ok := def.NameOf(n); ok {
				return name, nil
			}
		}
		return strconv.FormatInt(n, 10), nil
	case hosttype.KindString:
		if v.Kind() == reflect.String {
			return v.String(), nil
		}
		tm, ok := v.Interface().(encoding.TextMarshaler)
		if !ok {
			return "", fmt.Errorf("%s is not a text marshaler", v.Type())
		}
		b, err := tm.MarshalText()
		if err != nil {
			return "", err
		}
		return string(b), nil
	case hosttype.KindBytes:
		if v.Kind() == reflect.Uint8 {
			return string([]byte{byte(v.Uint())}), nil
		}
		return string(v.Bytes()), nil
	case hosttype.KindInt32, hosttype.KindInt64:
		return strconv.FormatInt(v.Int(), 10), nil
	case hosttype.KindUint32, hosttype.KindUint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case hosttype.KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), nil
	case hosttype.KindDouble:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
	case hosttype.KindBool:
		return strconv.FormatBool(v.Bool()), nil
	}
	return "", fmt.Errorf("no text form for %s", c.Kind)
}

// parseText parses text into the native value of a wire field. Enum text
// resolves by enumerator name first, then by number.
func parseText(text string, fd protoreflect.FieldDescriptor) (protoreflect.Value, error) {
	switch fd.Kind() {
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfInt32(int32(n)), nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfInt64(n), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		n, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfUint32(uint32(n)), nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfUint64(n), nil
	case protoreflect.FloatKind:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfFloat32(float32(f)), nil
	case protoreflect.DoubleKind:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfFloat64(f), nil
	case protoreflect.BoolKind:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfBool(b), nil
	case protoreflect.StringKind:
		return protoreflect.ValueOfString(text), nil
	case protoreflect.BytesKind:
		return protoreflect.ValueOfBytes([]byte(text)), nil
	case protoreflect.EnumKind:
		if ev := fd.Enum().Values().ByName(protoreflect.Name(text)); ev != nil {
			return protoreflect.ValueOfEnum(ev.Number()), nil
		}
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return protoreflect.Value{}, fmt.Errorf("no enumerator %q in %s", text, fd.Enum().FullName())
		}
		return protoreflect.ValueOfEnum(protoreflect.EnumNumber(n)), nil
	}
	return protoreflect.Value{}, fmt.Errorf("unsupported wire kind %s", fd.Kind())
}

// textValue converts a scalar host value through its text form. Host enums
// written to a non-enum wire field travel by number.
func textValue(c hosttype.Class, v reflect.Value, fd protoreflect.FieldDescriptor) (protoreflect.Value, error) {
	if c.Kind == hosttype.KindEnum && fd.Kind() != protoreflect.EnumKind && fd.Kind() != protoreflect.StringKind {
		return parseText(strconv.FormatInt(intOf(v), 10), fd)
	}
	text, err := exportText(c, v)
	if err != nil {
		return protoreflect.Value{}, err
	}
	if c.Kind == hosttype.KindEnum && fd.Kind() == protoreflect.EnumKind {
		if ev := fd.Enum().Values().ByName(protoreflect.Name(text)); ev != nil {
			return protoreflect.ValueOfEnum(ev.Number()), nil
		}
		// names diverge, fall back to the host number
		return enumNumber(intOf(v))
	}
	return parseText(text, fd)
}

func enumNumber(n int64) (protoreflect.Value, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return protoreflect.Value{}, fmt.Errorf("enum value %d overflows int32", n)
	}
	return protoreflect.ValueOfEnum(protoreflect.EnumNumber(n)), nil
}

// intOf returns the value of any integer kind as int64.
func intOf(v reflect.Value) int64 {
	if v.CanUint() {
		return int64(v.Uint())
	}
	return v.Int()
}

// appender converts one repeated element directly, without a text round
// trip. It reports false if the host value cannot be widened to the wire
// kind.
type appender func(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool)

var appenders = map[protoreflect.Kind]appender{
	protoreflect.Int32Kind:    appendInt32,
	protoreflect.Sint32Kind:   appendInt32,
	protoreflect.Sfixed32Kind: appendInt32,
	protoreflect.Int64Kind:    appendInt64,
	protoreflect.Sint64Kind:   appendInt64,
	protoreflect.Sfixed64Kind: appendInt64,
	protoreflect.Uint32Kind:   appendUint32,
	protoreflect.Fixed32Kind:  appendUint32,
	protoreflect.Uint64Kind:   appendUint64,
	protoreflect.Fixed64Kind:  appendUint64,
	protoreflect.FloatKind:    appendFloat,
	protoreflect.DoubleKind:   appendDouble,
	protoreflect.BoolKind:     appendBool,
	protoreflect.StringKind:   appendString,
	protoreflect.BytesKind:    appendBytes,
	protoreflect.EnumKind:     appendEnum,
}

func appendInt32(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	switch c.Kind {
	case hosttype.KindInt32:
		return protoreflect.ValueOfInt32(int32(v.Int())), true
	case hosttype.KindEnum:
		n := intOf(v)
		if n < math.MinInt32 || n > math.MaxInt32 {
			return protoreflect.Value{}, false
		}
		return protoreflect.ValueOfInt32(int32(n)), true
	}
	return protoreflect.Value{}, false
}

func appendInt64(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	switch c.Kind {
	case hosttype.KindInt32, hosttype.KindInt64:
		return protoreflect.ValueOfInt64(v.Int()), true
	case hosttype.KindUint32, hosttype.KindEnum:
		return protoreflect.ValueOfInt64(intOf(v)), true
	}
	return protoreflect.Value{}, false
}

func appendUint32(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	switch c.Kind {
	case hosttype.KindUint32:
		return protoreflect.ValueOfUint32(uint32(v.Uint())), true
	case hosttype.KindInt32:
		// reinterpret
		return protoreflect.ValueOfUint32(uint32(int32(v.Int()))), true
	}
	return protoreflect.Value{}, false
}

func appendUint64(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	switch c.Kind {
	case hosttype.KindUint32, hosttype.KindUint64:
		return protoreflect.ValueOfUint64(v.Uint()), true
	}
	return protoreflect.Value{}, false
}

func appendFloat(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	if c.Kind == hosttype.KindFloat {
		return protoreflect.ValueOfFloat32(float32(v.Float())), true
	}
	return protoreflect.Value{}, false
}

func appendDouble(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	switch c.Kind {
	case hosttype.KindFloat, hosttype.KindDouble:
		return protoreflect.ValueOfFloat64(v.Float()), true
	}
	return protoreflect.Value{}, false
}

func appendBool(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	if c.Kind == hosttype.KindBool {
		return protoreflect.ValueOfBool(v.Bool()), true
	}
	return protoreflect.Value{}, false
}

func appendString(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	if c.Kind != hosttype.KindString {
		return protoreflect.Value{}, false
	}
	s, err := exportText(c, v)
	if err != nil {
		return protoreflect.Value{}, false
	}
	return protoreflect.ValueOfString(s), true
}

func appendBytes(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	if c.Kind != hosttype.KindBytes {
		return protoreflect.Value{}, false
	}
	if v.Kind() == reflect.Uint8 {
		return protoreflect.ValueOfBytes([]byte{byte(v.Uint())}), true
	}
	return protoreflect.ValueOfBytes(append([]byte(nil), v.Bytes()...)), true
}

func appendEnum(c hosttype.Class, v reflect.Value) (protoreflect.Value, bool) {
	switch c.Kind {
	case hosttype.KindEnum, hosttype.KindInt32:
		ev, err := enumNumber(intOf(v))
		return ev, err == nil
	}
	return protoreflect.Value{}, false
}

// setter writes a wire value into a host value of a compatible kind.
type setter func(wv protoreflect.Value, hv reflect.Value) error

var setters = map[protoreflect.Kind]setter{
	protoreflect.Int32Kind:    setFromInt,
	protoreflect.Sint32Kind:   setFromInt,
	protoreflect.Sfixed32Kind: setFromInt,
	protoreflect.Int64Kind:    setFromInt,
	protoreflect.Sint64Kind:   setFromInt,
	protoreflect.Sfixed64Kind: setFromInt,
	protoreflect.Uint32Kind:   setFromUint32,
	protoreflect.Fixed32Kind:  setFromUint32,
	protoreflect.Uint64Kind:   setFromUint64,
	protoreflect.Fixed64Kind:  setFromUint64,
	protoreflect.FloatKind:    setFromFloat,
	protoreflect.DoubleKind:   setFromFloat,
	protoreflect.BoolKind:     setFromBool,
	protoreflect.StringKind:   setFromString,
	protoreflect.BytesKind:    setFromBytes,
	protoreflect.EnumKind:     setFromEnum,
}

var errMismatch = errors.New("incompatible host kind")

func setInt(hv reflect.Value, n int64) error {
	switch hv.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Int8, reflect.Int16:
		if hv.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, hv.Type())
		}
		hv.SetInt(n)
		return nil
	}
	return errMismatch
}

func setUint(hv reflect.Value, n uint64) error {
	switch hv.Kind() {
	case reflect.Uint, reflect.Uint32, reflect.Uint64, reflect.Uint8, reflect.Uint16:
		if hv.OverflowUint(n) {
			return fmt.Errorf("value %d overflows %s", n, hv.Type())
		}
		hv.SetUint(n)
		return nil
	}
	return errMismatch
}

func setFromInt(wv protoreflect.Value, hv reflect.Value) error {
	return setInt(hv, wv.Int())
}

func setFromUint32(wv protoreflect.Value, hv reflect.Value) error {
	u := wv.Uint()
	switch hv.Kind() {
	case reflect.Int32:
		// reinterpret
		hv.SetInt(int64(int32(uint32(u))))
		return nil
	case reflect.Int, reflect.Int64:
		hv.SetInt(int64(u))
		return nil
	case reflect.Uint8:
		return errMismatch
	}
	return setUint(hv, u)
}

func setFromUint64(wv protoreflect.Value, hv reflect.Value) error {
	u := wv.Uint()
	switch hv.Kind() {
	case reflect.Int, reflect.Int64:
		// reinterpret
		hv.SetInt(int64(u))
		return nil
	case reflect.Uint8:
		return errMismatch
	}
	return setUint(hv, u)
}

func setFromFloat(wv protoreflect.Value, hv reflect.Value) error {
	switch hv.Kind() {
	case reflect.Float32, reflect.Float64:
		hv.SetFloat(wv.Float())
		return nil
	}
	return errMismatch
}

func setFromBool(wv protoreflect.Value, hv reflect.Value) error {
	if hv.Kind() != reflect.Bool {
		return errMismatch
	}
	hv.SetBool(wv.Bool())
	return nil
}

func setFromString(wv protoreflect.Value, hv reflect.Value) error {
	if hv.Kind() == reflect.String {
		hv.SetString(wv.String())
		return nil
	}
	if hv.CanAddr() {
		if tu, ok := hv.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return tu.UnmarshalText([]byte(wv.String()))
		}
	}
	return errMismatch
}

func setFromBytes(wv protoreflect.Value, hv reflect.Value) error {
	b := wv.Bytes()
	switch {
	case hv.Kind() == reflect.Uint8:
		if len(b) == 0 {
			hv.SetUint(0)
			return nil
		}
		hv.SetUint(uint64(b[0]))
		return nil
	case hv.Kind() == reflect.Slice && hv.Type().Elem().Kind() == reflect.Uint8:
		hv.SetBytes(append([]byte(nil), b...))
		return nil
	}
	return errMismatch
}

func setFromEnum(wv protoreflect.Value, hv reflect.Value) error {
	n := int64(wv.Enum())
	if hv.CanUint() {
		if n < 0 {
			return fmt.Errorf("enum value %d overflows %s", n, hv.Type())
		}
		return setUint(hv, uint64(n))
	}
	return setInt(hv, n)
}
