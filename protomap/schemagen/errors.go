package schemagen

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoRoots is returned when there is nothing to emit.
var ErrNoRoots = errors.New("no root types")

// NameCollisionError reports two different types that map to the same
// schema name but disagree on structure.
type NameCollisionError struct {
	Name   string
	First  reflect.Type
	Second reflect.Type
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("name collision for %q: %s and %s differ in structure", e.Name, typeString(e.First), typeString(e.Second))
}

func typeString(t reflect.Type) string {
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// EnumValueCollisionError reports an enumerator name declared twice in
// the document's scope, either by two enums or by an enum and a type.
type EnumValueCollisionError struct {
	Value  string
	First  reflect.Type
	Second reflect.Type
}

func (e *EnumValueCollisionError) Error() string {
	return fmt.Sprintf("enumerator %q of %s is already declared by %s", e.Value, typeString(e.Second), typeString(e.First))
}
