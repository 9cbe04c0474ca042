package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/protomap/protoc"
	"github.com/signadot/protomap/protomap"
)

type Crate struct {
	Label string
	Slots []uint32
}

func TestGenerateAndMap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GenPath = filepath.Join(t.TempDir(), "gen")
	cfg.Package = "store.v1"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := cfg.GenerateSchema([]reflect.Type{reflect.TypeFor[Crate]()}, log); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(cfg.ProtoFilePath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "package store.v1;") {
		t.Errorf("expected package line, got:\n%s", data)
	}
	reg, err := protoc.Compile(context.Background(), cfg.ProtoFileName, string(data))
	if err != nil {
		t.Fatal(err)
	}

	m := cfg.Mapper(reg, protomap.WithLogger(log))
	in := Crate{Label: "north", Slots: []uint32{4, 9}}
	b, err := m.Marshal(in, cfg.MarshalOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	var got Crate
	if err := m.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalOptions(t *testing.T) {
	cfg := DefaultConfig()
	if n := len(cfg.MarshalOptions()); n != 0 {
		t.Errorf("expected no options, got %d", n)
	}
	cfg.AllowPartial = true
	if n := len(cfg.MarshalOptions()); n != 1 {
		t.Errorf("expected 1 option, got %d", n)
	}
}
