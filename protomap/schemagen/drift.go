package schemagen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/signadot/protomap/protoc"
)

// ChangeKind classifies one schema change.
type ChangeKind int

const (
	MessageAdded ChangeKind = iota
	MessageRemoved
	FieldAdded
	FieldRemoved
	FieldRenumbered
	FieldRetyped
	EnumValueAdded
	EnumValueRemoved
	EnumValueRenumbered
)

func (k ChangeKind) String() string {
	switch k {
	case MessageAdded:
		return "message added"
	case MessageRemoved:
		return "message removed"
	case FieldAdded:
		return "field added"
	case FieldRemoved:
		return "field removed"
	case FieldRenumbered:
		return "field renumbered"
	case FieldRetyped:
		return "field retyped"
	case EnumValueAdded:
		return "enum value added"
	case EnumValueRemoved:
		return "enum value removed"
	case EnumValueRenumbered:
		return "enum value renumbered"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Breaking reports whether data written with the old schema may be
// misread with the new one.
func (k ChangeKind) Breaking() bool {
	switch k {
	case FieldRenumbered, FieldRetyped, EnumValueRenumbered:
		return true
	}
	return false
}

// Change is one difference between two schema documents.
type Change struct {
	Kind ChangeKind

	// Type is the full name of the message or enum.
	Type string

	// Member is the field or enum value name, empty for type changes.
	Member string

	Old, New string
}

func (c Change) String() string {
	name := c.Type
	if c.Member != "" {
		name += "." + c.Member
	}
	switch {
	case c.Old != "" && c.New != "":
		return fmt.Sprintf("%s: %s (%s -> %s)", c.Kind, name, c.Old, c.New)
	case c.Old != "":
		return fmt.Sprintf("%s: %s (%s)", c.Kind, name, c.Old)
	case c.New != "":
		return fmt.Sprintf("%s: %s (%s)", c.Kind, name, c.New)
	}
	return fmt.Sprintf("%s: %s", c.Kind, name)
}

// DriftReport lists the changes between two schema documents, sorted by
// type and member name.
type DriftReport struct {
	Changes []Change
}

// Breaking returns the changes that break wire compatibility.
func (r *DriftReport) Breaking() []Change {
	var res []Change
	for _, c := range r.Changes {
		if c.Kind.Breaking() {
			res = append(res, c)
		}
	}
	return res
}

// Drift compiles both documents and compares their messages and enums by
// full name.
func Drift(ctx context.Context, oldSchema, newSchema string) (*DriftReport, error) {
	oldReg, err := protoc.Compile(ctx, "old.proto", oldSchema)
	if err != nil {
		return nil, fmt.Errorf("old schema: %w", err)
	}
	newReg, err := protoc.Compile(ctx, "new.proto", newSchema)
	if err != nil {
		return nil, fmt.Errorf("new schema: %w", err)
	}
	return compareRegistries(oldReg, newReg), nil
}

func compareRegistries(oldReg, newReg *protoregistry.Files) *DriftReport {
	oldMsgs, oldEnums := collect(oldReg)
	newMsgs, newEnums := collect(newReg)
	r := &DriftReport{}

	for name, om := range oldMsgs {
		nm, ok := newMsgs[name]
		if !ok {
			r.Changes = append(r.Changes, Change{Kind: MessageRemoved, Type: name})
			continue
		}
		r.compareFields(name, om, nm)
	}
	for name := range newMsgs {
		if _, ok := oldMsgs[name]; !ok {
			r.Changes = append(r.Changes, Change{Kind: MessageAdded, Type: name})
		}
	}
	for name, oe := range oldEnums {
		if ne, ok := newEnums[name]; ok {
			r.compareEnums(name, oe, ne)
		}
	}

	sort.Slice(r.Changes, func(i, j int) bool {
		a, b := r.Changes[i], r.Changes[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Member != b.Member {
			return a.Member < b.Member
		}
		return a.Kind < b.Kind
	})
	return r
}

func (r *DriftReport) compareFields(name string, om, nm protoreflect.MessageDescriptor) {
	ofs, nfs := om.Fields(), nm.Fields()
	for i := 0; i < ofs.Len(); i++ {
		of := ofs.Get(i)
		fname := string(of.Name())
		nf := nfs.ByName(of.Name())
		if nf == nil {
			r.Changes = append(r.Changes, Change{Kind: FieldRemoved, Type: name, Member: fname, Old: fieldSignature(of)})
			continue
		}
		if of.Number() != nf.Number() {
			r.Changes = append(r.Changes, Change{
				Kind: FieldRenumbered, Type: name, Member: fname,
				Old: fmt.Sprint(of.Number()), New: fmt.Sprint(nf.Number()),
			})
		}
		if oldSig, newSig := fieldSignature(of), fieldSignature(nf); oldSig != newSig {
			r.Changes = append(r.Changes, Change{Kind: FieldRetyped, Type: name, Member: fname, Old: oldSig, New: newSig})
		}
	}
	for i := 0; i < nfs.Len(); i++ {
		nf := nfs.Get(i)
		if ofs.ByName(nf.Name()) == nil {
			r.Changes = append(r.Changes, Change{Kind: FieldAdded, Type: name, Member: string(nf.Name()), New: fieldSignature(nf)})
		}
	}
}

func (r *DriftReport) compareEnums(name string, oe, ne protoreflect.EnumDescriptor) {
	ovs, nvs := oe.Values(), ne.Values()
	for i := 0; i < ovs.Len(); i++ {
		ov := ovs.Get(i)
		nv := nvs.ByName(ov.Name())
		switch {
		case nv == nil:
			r.Changes = append(r.Changes, Change{Kind: EnumValueRemoved, Type: name, Member: string(ov.Name()), Old: fmt.Sprint(ov.Number())})
		case nv.Number() != ov.Number():
			r.Changes = append(r.Changes, Change{
				Kind: EnumValueRenumbered, Type: name, Member: string(ov.Name()),
				Old: fmt.Sprint(ov.Number()), New: fmt.Sprint(nv.Number()),
			})
		}
	}
	for i := 0; i < nvs.Len(); i++ {
		nv := nvs.Get(i)
		if ovs.ByName(nv.Name()) == nil {
			r.Changes = append(r.Changes, Change{Kind: EnumValueAdded, Type: name, Member: string(nv.Name()), New: fmt.Sprint(nv.Number())})
		}
	}
}

func collect(reg *protoregistry.Files) (map[string]protoreflect.MessageDescriptor, map[string]protoreflect.EnumDescriptor) {
	msgs := map[string]protoreflect.MessageDescriptor{}
	enums := map[string]protoreflect.EnumDescriptor{}
	var walk func(ms protoreflect.MessageDescriptors, es protoreflect.EnumDescriptors)
	walk = func(ms protoreflect.MessageDescriptors, es protoreflect.EnumDescriptors) {
		for i := 0; i < es.Len(); i++ {
			enums[string(es.Get(i).FullName())] = es.Get(i)
		}
		for i := 0; i < ms.Len(); i++ {
			md := ms.Get(i)
			if md.IsMapEntry() {
				continue
			}
			msgs[string(md.FullName())] = md
			walk(md.Messages(), md.Enums())
		}
	}
	reg.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		walk(fd.Messages(), fd.Enums())
		return true
	})
	return msgs, enums
}

// fieldSignature renders the declared type of a field the way it appears
// in a schema document.
func fieldSignature(fd protoreflect.FieldDescriptor) string {
	switch {
	case fd.IsMap():
		return "map<" + fieldType(fd.MapKey()) + "," + fieldType(fd.MapValue()) + ">"
	case fd.IsList():
		return "repeated " + fieldType(fd)
	}
	return fieldType(fd)
}

func fieldType(fd protoreflect.FieldDescriptor) string {
	switch fd.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return string(fd.Message().FullName())
	case protoreflect.EnumKind:
		return string(fd.Enum().FullName())
	}
	return fd.Kind().String()
}

// DiffOp marks a line of a text diff.
type DiffOp byte

const (
	DiffEqual  DiffOp = ' '
	DiffDelete DiffOp = '-'
	DiffInsert DiffOp = '+'
)

// DiffLine is one line of a text diff.
type DiffLine struct {
	Op   DiffOp
	Text string
}

func (l DiffLine) String() string {
	return string(l.Op) + " " + l.Text
}

// TextDiff returns a line diff between two schema documents.
func TextDiff(oldSchema, newSchema string) []DiffLine {
	lineMap := map[string]rune{}
	runeMap := map[rune]string{}
	oldRunes := linesToRunes(lineMap, runeMap, oldSchema)
	newRunes := linesToRunes(lineMap, runeMap, newSchema)

	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(oldRunes, newRunes, false)
	var res []DiffLine
	for i := range diffs {
		diff := &diffs[i]
		var op DiffOp
		switch diff.Type {
		case diffpatch.DiffDelete:
			op = DiffDelete
		case diffpatch.DiffEqual:
			op = DiffEqual
		case diffpatch.DiffInsert:
			op = DiffInsert
		}
		for _, r := range diff.Text {
			res = append(res, DiffLine{Op: op, Text: runeMap[r]})
		}
	}
	return res
}

// linesToRunes assigns each distinct line a rune so that the diff runs
// over lines rather than characters.
func linesToRunes(lineMap map[string]rune, runeMap map[rune]string, text string) []rune {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	res := make([]rune, len(lines))
	for i, line := range lines {
		r, ok := lineMap[line]
		if !ok {
			// skip the surrogate range
			r = rune(0xE000 + len(lineMap))
			lineMap[line] = r
			runeMap[r] = line
		}
		res[i] = r
	}
	return res
}
