package hosttype

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type Base struct {
	ID   int64
	Kind string
}

type Unit struct {
	Base
	Name    string `protomap:"name='Unit Name',label='Display Name'"`
	Ratio   int16
	Hidden  string `protomap:"-"`
	private int
	Tags    []string
	Seen    map[string]struct{}
	Attrs   map[string]Vec
	Color   Color
}

type Clash struct {
	Base
	ID int32
}

func TestStructOf(t *testing.T) {
	s, err := StructOf(reflect.TypeFor[Unit]())
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "Unit" {
		t.Errorf("expected name Unit, got %q", s.Name)
	}

	type fieldSummary struct {
		Name      string
		Number    int
		Shape     Shape
		Elem      Kind
		Supported bool
	}
	var got []fieldSummary
	for _, f := range s.Fields {
		got = append(got, fieldSummary{f.Name, f.Number, f.Shape, f.Elem.Kind, f.Supported()})
	}
	want := []fieldSummary{
		{"ID", 1, ShapeScalar, KindInt64, true},
		{"Kind", 2, ShapeScalar, KindString, true},
		{"UnitName", 3, ShapeScalar, KindString, true},
		{"Ratio", 4, ShapeScalar, KindUnsupported, false},
		{"Tags", 5, ShapeArray, KindString, true},
		{"Seen", 6, ShapeSet, KindString, true},
		{"Attrs", 7, ShapeMap, KindMessage, true},
		{"Color", 8, ShapeScalar, KindEnum, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	f := s.Field("UnitName")
	if f == nil {
		t.Fatal("expected field UnitName")
	}
	if f.Label != "Display Name" {
		t.Errorf("expected label %q, got %q", "Display Name", f.Label)
	}
	if f.GoName != "Name" {
		t.Errorf("expected Go name Name, got %q", f.GoName)
	}
	if diff := cmp.Diff([]int{0, 0}, s.Field("ID").Index); diff != "" {
		t.Errorf("embedded index mismatch:\n%s", diff)
	}

	again, err := StructOf(reflect.TypeFor[Unit]())
	if err != nil {
		t.Fatal(err)
	}
	if again != s {
		t.Error("expected cached struct")
	}
}

func TestStructOfSetOfStructs(t *testing.T) {
	type Grid struct {
		Cells map[Base]struct{}
	}
	s, err := StructOf(reflect.TypeFor[Grid]())
	if err != nil {
		t.Fatal(err)
	}
	f := s.Field("Cells")
	if f.Shape != ShapeSet || f.Elem.Kind != KindMessage {
		t.Fatalf("expected set of messages, got %s of %s", f.Shape, f.Elem.Kind)
	}
	if !f.Supported() {
		t.Error("expected set of structs to be supported")
	}
	if refs := s.Referenced(); len(refs) != 1 || refs[0] != reflect.TypeFor[Base]() {
		t.Errorf("expected Base to be referenced, got %v", refs)
	}
}

func TestStructOfConflict(t *testing.T) {
	_, err := StructOf(reflect.TypeFor[Clash]())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !strings.Contains(err.Error(), "conflict") {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestStructOfNonStruct(t *testing.T) {
	if _, err := StructOf(reflect.TypeFor[int]()); err == nil {
		t.Error("expected error for non-struct")
	}
}

func TestSignature(t *testing.T) {
	type Vec struct {
		X, Y, Z float32
	}
	local := Signature(reflect.TypeFor[Vec]())
	if local != Signature(reflect.TypeFor[Vec]()) {
		t.Fatalf("same type should have same signature")
	}
	pkgVec := Signature(reflect.TypeOf(Unit{}.Attrs).Elem())
	if pkgVec == local {
		t.Errorf("expected different signatures, both %q", local)
	}
	if got := Signature(reflect.TypeFor[Color]()); !strings.Contains(got, "COLOR_GREEN=1") || strings.Contains(got, "COLOR_MAX") {
		t.Errorf("unexpected enum signature %q", got)
	}
}

func TestReferenced(t *testing.T) {
	s, err := StructOf(reflect.TypeFor[Unit]())
	if err != nil {
		t.Fatal(err)
	}
	refs := s.Referenced()
	want := []reflect.Type{reflect.TypeFor[Vec](), reflect.TypeFor[Color]()}
	if len(refs) != len(want) {
		t.Fatalf("expected %d referenced types, got %v", len(want), refs)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("expected %v at %d, got %v", want[i], i, refs[i])
		}
	}
}
