package protomap

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/signadot/protomap/hosttype"
	"github.com/signadot/protomap/protoc"
	"github.com/signadot/protomap/protomap/schemagen"
)

type Rank int32

const (
	RankNone Rank = iota
	RankSilver
	RankGold
	RankMax
)

func (Rank) Enumerators() []hosttype.Enumerator {
	return []hosttype.Enumerator{
		{Name: "RANK_NONE", Value: int64(RankNone)},
		{Name: "RANK_SILVER", Value: int64(RankSilver)},
		{Name: "RANK_GOLD", Value: int64(RankGold)},
		{Name: "RANK_MAX", Value: int64(RankMax)},
	}
}

type Vec3 struct {
	X, Y, Z float32
}

type Item struct {
	Name   string
	Count  uint32
	Weight float64
}

type Hero struct {
	Name    string
	Level   int32
	XP      int64
	Gold    uint64
	Alive   bool
	Tier    Rank
	Pos     Vec3
	Bag     []Item
	Scores  []int32
	Badges  map[string]struct{}
	Stats   map[string]int32
	Friends map[int64]Item
	Avatar  []byte
	Initial byte
	Born    time.Time
	Ranks   []Rank
	Coords  [3]float64
	Wide    int
	Flags   [2]bool
	Ignored int16
	Title   string `protomap:"name='Display Title'"`
}

func sampleHero() Hero {
	return Hero{
		Name:   "Ayla",
		Level:  42,
		XP:     1 << 40,
		Gold:   1<<63 + 7,
		Alive:  true,
		Tier:   RankGold,
		Pos:    Vec3{X: 1.5, Y: -2, Z: 0.25},
		Bag:    []Item{{Name: "rope", Count: 2, Weight: 1.25}, {Name: "lamp", Count: 1}},
		Scores: []int32{3, -1, 7},
		Badges: map[string]struct{}{"brave": {}, "swift": {}},
		Stats:  map[string]int32{"str": 18, "dex": 14, "int": 9},
		Friends: map[int64]Item{
			7:  {Name: "pip", Count: 1},
			-3: {Name: "moss", Weight: 0.5},
		},
		Avatar:  []byte{0, 1, 2, 0xff},
		Initial: 'A',
		Born:    time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		Ranks:   []Rank{RankSilver, RankNone, RankGold},
		Coords:  [3]float64{1, 2.5, -3},
		Wide:    -12345678901,
		Flags:   [2]bool{false, true},
		Title:   "Wanderer",
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fieldErrors collects errors passed to the field error handler.
type fieldErrors struct {
	mu   sync.Mutex
	errs []error
}

func (f *fieldErrors) add(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

func newTestMapper(reg Registry, errs *fieldErrors, opts ...MapperOption) *Mapper {
	opts = append([]MapperOption{WithLogger(quietLogger())}, opts...)
	if errs != nil {
		opts = append(opts, WithFieldErrorHandler(errs.add))
	}
	return NewMapper(reg, opts...)
}

func compileTypes(t *testing.T, pkg string, roots ...reflect.Type) *protoregistry.Files {
	t.Helper()
	var opts []schemagen.Option
	if pkg != "" {
		opts = append(opts, schemagen.WithPackage(pkg))
	}
	text, err := schemagen.GenerateSchema(roots, opts...)
	if err != nil {
		t.Fatalf("generating schema: %v", err)
	}
	return compileText(t, text)
}

func compileText(t *testing.T, text string) *protoregistry.Files {
	t.Helper()
	reg, err := protoc.Compile(context.Background(), "test.proto", text)
	if err != nil {
		t.Fatalf("compiling schema: %v\n%s", err, text)
	}
	return reg
}
