package hosttype

import (
	"reflect"
	"testing"
	"time"
	"unsafe"
)

type Color int32

const (
	ColorRed Color = iota
	ColorGreen
	ColorMax
)

func (Color) Enumerators() []Enumerator {
	return []Enumerator{
		{Name: "COLOR_RED", Value: int64(ColorRed)},
		{Name: "COLOR_GREEN", Value: int64(ColorGreen)},
		{Name: "COLOR_MAX", Value: int64(ColorMax)},
	}
}

type Small uint8

func (Small) Enumerators() []Enumerator {
	return []Enumerator{{Name: "SMALL_ZERO", Value: 0}}
}

type Count int32

type Vec struct {
	X, Y float32
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		kind Kind
		tok  string
	}{
		{"float64", reflect.TypeFor[float64](), KindDouble, "double"},
		{"float32", reflect.TypeFor[float32](), KindFloat, "float"},
		{"int32", reflect.TypeFor[int32](), KindInt32, "int32"},
		{"named int32", reflect.TypeFor[Count](), KindInt32, "int32"},
		{"int64", reflect.TypeFor[int64](), KindInt64, "int64"},
		{"int", reflect.TypeFor[int](), KindInt64, "int64"},
		{"uint32", reflect.TypeFor[uint32](), KindUint32, "uint32"},
		{"uint64", reflect.TypeFor[uint64](), KindUint64, "uint64"},
		{"uint", reflect.TypeFor[uint](), KindUint64, "uint64"},
		{"bool", reflect.TypeFor[bool](), KindBool, "bool"},
		{"string", reflect.TypeFor[string](), KindString, "string"},
		{"time", reflect.TypeFor[time.Time](), KindString, "string"},
		{"byte", reflect.TypeFor[byte](), KindBytes, "bytes"},
		{"byte slice", reflect.TypeFor[[]byte](), KindBytes, "bytes"},
		{"struct", reflect.TypeFor[Vec](), KindMessage, "Vec"},
		{"enum", reflect.TypeFor[Color](), KindEnum, "Color"},
		{"byte enum", reflect.TypeFor[Small](), KindEnum, "Small"},
		{"int8", reflect.TypeFor[int8](), KindUnsupported, "unsupported"},
		{"int16", reflect.TypeFor[int16](), KindUnsupported, "unsupported"},
		{"uint16", reflect.TypeFor[uint16](), KindUnsupported, "unsupported"},
		{"pointer", reflect.TypeFor[*Vec](), KindUnsupported, "unsupported"},
		{"func", reflect.TypeFor[func()](), KindUnsupported, "unsupported"},
		{"chan", reflect.TypeFor[chan int](), KindUnsupported, "unsupported"},
		{"any", reflect.TypeFor[any](), KindUnsupported, "unsupported"},
		{"unsafe pointer", reflect.TypeFor[unsafe.Pointer](), KindUnsupported, "unsupported"},
		{"anonymous struct", reflect.TypeFor[struct{ A int }](), KindUnsupported, "unsupported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.typ)
			if c.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, c.Kind)
			}
			if got := c.ProtoType(); got != tt.tok {
				t.Errorf("expected type token %q, got %q", tt.tok, got)
			}
		})
	}
}

func TestShapeOf(t *testing.T) {
	tests := []struct {
		name  string
		typ   reflect.Type
		shape Shape
		elem  Kind
		key   Kind
	}{
		{"scalar", reflect.TypeFor[int32](), ShapeScalar, KindInt32, KindUnsupported},
		{"bytes", reflect.TypeFor[[]byte](), ShapeScalar, KindBytes, KindUnsupported},
		{"slice", reflect.TypeFor[[]string](), ShapeArray, KindString, KindUnsupported},
		{"fixed array", reflect.TypeFor[[3]float64](), ShapeArray, KindDouble, KindUnsupported},
		{"byte array", reflect.TypeFor[[4]byte](), ShapeArray, KindBytes, KindUnsupported},
		{"slice of bytes", reflect.TypeFor[[][]byte](), ShapeArray, KindBytes, KindUnsupported},
		{"enum slice", reflect.TypeFor[[]Small](), ShapeArray, KindEnum, KindUnsupported},
		{"nested slice", reflect.TypeFor[[][]int32](), ShapeArray, KindUnsupported, KindUnsupported},
		{"set", reflect.TypeFor[map[string]struct{}](), ShapeSet, KindString, KindUnsupported},
		{"map", reflect.TypeFor[map[string]Vec](), ShapeMap, KindMessage, KindString},
		{"map of slices", reflect.TypeFor[map[int32][]int32](), ShapeMap, KindUnsupported, KindInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, elem, key := ShapeOf(tt.typ)
			if shape != tt.shape {
				t.Errorf("expected shape %v, got %v", tt.shape, shape)
			}
			if elem.Kind != tt.elem {
				t.Errorf("expected elem %v, got %v", tt.elem, elem.Kind)
			}
			if key.Kind != tt.key {
				t.Errorf("expected key %v, got %v", tt.key, key.Kind)
			}
		})
	}
}

func TestEnumOf(t *testing.T) {
	def, err := EnumOf(reflect.TypeFor[Color]())
	if err != nil {
		t.Fatal(err)
	}
	if def.Name != "Color" {
		t.Errorf("expected name Color, got %q", def.Name)
	}
	logical := def.Logical()
	if len(logical) != 2 {
		t.Fatalf("expected 2 logical enumerators, got %d", len(logical))
	}
	if name, ok := def.NameOf(1); !ok || name != "COLOR_GREEN" {
		t.Errorf("expected COLOR_GREEN, got %q", name)
	}
	if _, ok := def.NameOf(2); ok {
		t.Error("sentinel value should not resolve to a name")
	}
	if v, ok := def.ValueOf("COLOR_RED"); !ok || v != 0 {
		t.Errorf("expected 0, got %d", v)
	}
	if _, err := EnumOf(reflect.TypeFor[Count]()); err == nil {
		t.Error("expected error for non-enum type")
	}
}
