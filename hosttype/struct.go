package hosttype

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Field describes one reflected struct field.
type Field struct {
	// Name is the normalized wire name.
	Name string

	// Label is the display label from the tag, if any.
	Label string

	// GoName is the Go field name.
	GoName string

	// Number is the field number, 1-based in iteration order.
	Number int

	// Index is the index sequence for reflect.Value.FieldByIndex.
	Index []int

	Type  reflect.Type
	Shape Shape

	// Elem classifies scalar fields, array and set elements, and map values.
	Elem Class

	// Key classifies map keys.
	Key Class
}

// Supported reports whether the field can be emitted and transferred.
func (f *Field) Supported() bool {
	if !f.Elem.Supported() {
		return false
	}
	if f.Shape == ShapeMap {
		return f.Key.MapKey()
	}
	return true
}

// Struct describes a reflected struct type.
type Struct struct {
	Name string
	Type reflect.Type

	// Fields are in iteration order, including unsupported fields.
	Fields []*Field
}

// Field returns the field with the given wire name, or nil.
func (s *Struct) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

var structCache sync.Map // reflect.Type -> *Struct

// StructOf reflects a struct type. Results are cached per type.
func StructOf(t reflect.Type) (*Struct, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct type, got %v", t)
	}
	if s, ok := structCache.Load(t); ok {
		return s.(*Struct), nil
	}
	s := &Struct{
		Name: NormalizeName(t.Name()),
		Type: t,
	}
	seen := map[string]*Field{}
	if err := collectFields(s, t, nil, seen); err != nil {
		return nil, fmt.Errorf("struct %s: %w", t, err)
	}
	for i, f := range s.Fields {
		f.Number = i + 1
	}
	actual, _ := structCache.LoadOrStore(t, s)
	return actual.(*Struct), nil
}

func collectFields(s *Struct, t reflect.Type, index []int, seen map[string]*Field) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		ft, err := ParseFieldTag(sf.Tag.Get(TagKey))
		if err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
		if ft.Omit {
			continue
		}
		fieldIndex := append(append([]int(nil), index...), i)

		// Handle embedded structs by flattening their fields
		if sf.Anonymous && ft.Name == "" && sf.Type.Kind() == reflect.Struct {
			if err := collectFields(s, sf.Type, fieldIndex, seen); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}

		name := sf.Name
		if ft.Name != "" {
			name = ft.Name
		}
		name = NormalizeName(name)
		if existing, ok := seen[name]; ok {
			return fmt.Errorf("field name conflict: field %q (wire name %q) conflicts with field %q", sf.Name, name, existing.GoName)
		}
		shape, elem, key := ShapeOf(sf.Type)
		f := &Field{
			Name:   name,
			Label:  ft.Label,
			GoName: sf.Name,
			Index:  fieldIndex,
			Type:   sf.Type,
			Shape:  shape,
			Elem:   elem,
			Key:    key,
		}
		if !IsIdent(name) {
			f.Elem = Class{Type: f.Elem.Type}
		}
		seen[name] = f
		s.Fields = append(s.Fields, f)
	}
	return nil
}

// Signature returns a structural fingerprint of a struct or enum type. Two
// types that share a name but not a signature cannot share a schema
// definition.
func Signature(t reflect.Type) string {
	c := Classify(t)
	switch c.Kind {
	case KindEnum:
		def, err := EnumOf(t)
		if err != nil {
			return "enum " + c.Name + " ?"
		}
		vals := def.Logical()
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = fmt.Sprintf("%s=%d", v.Name, v.Value)
		}
		return "enum " + c.Name + "{" + strings.Join(parts, ";") + "}"
	case KindMessage:
		s, err := StructOf(t)
		if err != nil {
			return "message " + c.Name + " ?"
		}
		var sb strings.Builder
		sb.WriteString("message " + c.Name + "{")
		for _, f := range s.Fields {
			fmt.Fprintf(&sb, "%d:%s:%s:", f.Number, f.Name, f.Shape)
			if f.Shape == ShapeMap {
				sb.WriteString(f.Key.ProtoType() + ",")
			}
			sb.WriteString(f.Elem.ProtoType() + ";")
		}
		sb.WriteString("}")
		return sb.String()
	}
	return c.ProtoType()
}

// Referenced returns the message and enum types a struct refers to
// directly, in field order and deduplicated.
func (s *Struct) Referenced() []reflect.Type {
	var res []reflect.Type
	seen := map[reflect.Type]bool{}
	add := func(c Class) {
		if c.Kind != KindMessage && c.Kind != KindEnum {
			return
		}
		if seen[c.Type] {
			return
		}
		seen[c.Type] = true
		res = append(res, c.Type)
	}
	for _, f := range s.Fields {
		if !f.Supported() {
			continue
		}
		if f.Shape == ShapeMap {
			add(f.Key)
		}
		add(f.Elem)
	}
	return res
}
