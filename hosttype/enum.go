package hosttype

import (
	"fmt"
	"reflect"
	"strings"
)

// SentinelSuffix marks enumerators that only bound the host enum.
const SentinelSuffix = "_MAX"

// Enumerator is one named value of an enum.
type Enumerator struct {
	Name  string
	Value int64
}

// Enum is implemented by named integer types that should map to schema
// enums. Enumerators must be returned in declaration order.
type Enum interface {
	Enumerators() []Enumerator
}

// EnumDef describes a reflected enum type.
type EnumDef struct {
	Name   string
	Type   reflect.Type
	Values []Enumerator
}

// EnumOf reflects an enum type.
func EnumOf(t reflect.Type) (*EnumDef, error) {
	if t == nil || !isEnumType(t) {
		return nil, fmt.Errorf("%v is not an enum type", t)
	}
	e, ok := reflect.Zero(t).Interface().(Enum)
	if !ok {
		return nil, fmt.Errorf("%v does not implement Enum", t)
	}
	return &EnumDef{
		Name:   NormalizeName(t.Name()),
		Type:   t,
		Values: e.Enumerators(),
	}, nil
}

// Logical returns the enumerators without sentinels.
func (d *EnumDef) Logical() []Enumerator {
	res := make([]Enumerator, 0, len(d.Values))
	for _, v := range d.Values {
		if strings.HasSuffix(v.Name, SentinelSuffix) {
			continue
		}
		res = append(res, v)
	}
	return res
}

// NameOf returns the name of the first logical enumerator with value v.
func (d *EnumDef) NameOf(v int64) (string, bool) {
	for _, e := range d.Logical() {
		if e.Value == v {
			return e.Name, true
		}
	}
	return "", false
}

// ValueOf returns the value of the logical enumerator called name.
func (d *EnumDef) ValueOf(name string) (int64, bool) {
	for _, e := range d.Logical() {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}
