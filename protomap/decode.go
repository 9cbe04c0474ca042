package protomap

import (
	"errors"
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/signadot/protomap/hosttype"
)

// Decode fills the struct v points to from msg.
//
// Fields that are absent from msg, or from its schema, are left as they
// are. Slices are appended to and maps and sets gain entries, so decoding
// into a populated value merges. Failures of individual fields are logged
// and passed to the field error handler and never stop the walk.
func (m *Mapper) Decode(msg proto.Message, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &UnmarshalError{Message: fmt.Sprintf("expected non-nil pointer to struct, got %T", v)}
	}
	pm := msg.ProtoReflect()
	m.decodeStruct(string(pm.Descriptor().Name()), pm, rv.Elem())
	return nil
}

// decodeStruct reads the fields of msg into rv. It reports whether every
// field was read.
func (m *Mapper) decodeStruct(path string, msg protoreflect.Message, rv reflect.Value) bool {
	s, err := hosttype.StructOf(rv.Type())
	if err != nil {
		m.reportField(&UnmarshalError{FieldPath: path, Message: "cannot reflect struct", Err: err})
		return false
	}
	fields := msg.Descriptor().Fields()
	ok := true
	for _, f := range s.Fields {
		if !f.Supported() {
			continue
		}
		fpath := joinPath(path, f.Name)
		fd := fields.ByName(protoreflect.Name(f.Name))
		if fd == nil {
			// Handle schema drift: host field without a wire field
			m.log.Debug("no wire field", "path", fpath)
			continue
		}
		if !msg.Has(fd) {
			continue
		}
		if err := checkShape(fpath, f, fd); err != nil {
			m.reportField(err)
			ok = false
			continue
		}
		fv := rv.FieldByIndex(f.Index)
		var fok bool
		switch {
		case fd.IsMap():
			fok = m.decodeMap(fpath, fv, fd, msg.Get(fd).Map())
		case fd.IsList():
			fok = m.decodeList(fpath, f, fv, fd, msg.Get(fd).List())
		case fd.Message() != nil:
			fok = m.decodeStruct(fpath, msg.Get(fd).Message(), fv)
		default:
			if err := setScalar(fpath, msg.Get(fd), fd, fv); err != nil {
				m.reportField(err)
				fok = false
			} else {
				fok = true
			}
		}
		ok = fok && ok
	}
	return ok
}

func (m *Mapper) decodeList(path string, f *hosttype.Field, fv reflect.Value, fd protoreflect.FieldDescriptor, l protoreflect.List) bool {
	n := l.Len()
	ok := true

	// decodeInto reads element i of l into slot
	decodeInto := func(i int, slot reflect.Value) bool {
		epath := indexPath(path, i)
		wv, err := readWire(epath, l, i)
		if err != nil {
			m.reportField(err)
			return false
		}
		if fd.Message() != nil {
			return m.decodeStruct(epath, wv.Message(), slot)
		}
		if err := setScalar(epath, wv, fd, slot); err != nil {
			m.reportField(err)
			return false
		}
		return true
	}

	switch {
	case f.Shape == hosttype.ShapeSet:
		if fv.IsNil() {
			fv.Set(reflect.MakeMapWithSize(fv.Type(), n))
		}
		member := reflect.New(fv.Type().Elem()).Elem()
		for i := 0; i < n; i++ {
			key := reflect.New(fv.Type().Key()).Elem()
			if !decodeInto(i, key) {
				ok = false
				continue
			}
			fv.SetMapIndex(key, member)
		}
	case fv.Kind() == reflect.Array:
		for i := 0; i < n; i++ {
			if i >= fv.Len() {
				m.reportField(&IndexError{FieldPath: indexPath(path, i), Index: i, Len: fv.Len()})
				return false
			}
			if !decodeInto(i, fv.Index(i)) {
				ok = false
			}
		}
	default:
		start := fv.Len()
		fv.Grow(n)
		fv.SetLen(start + n)
		for i := 0; i < n; i++ {
			slot := fv.Index(start + i)
			slot.SetZero()
			if !decodeInto(i, slot) {
				ok = false
			}
		}
	}
	return ok
}

func (m *Mapper) decodeMap(path string, fv reflect.Value, fd protoreflect.FieldDescriptor, mp protoreflect.Map) bool {
	if fv.IsNil() {
		fv.Set(reflect.MakeMapWithSize(fv.Type(), mp.Len()))
	}
	kt, vt := fv.Type().Key(), fv.Type().Elem()
	kfd, vfd := fd.MapKey(), fd.MapValue()
	ok := true
	mp.Range(func(mk protoreflect.MapKey, wv protoreflect.Value) bool {
		epath := fmt.Sprintf("%s[%v]", path, mk.Interface())
		hk := reflect.New(kt).Elem()
		if err := setScalar(epath, mk.Value(), kfd, hk); err != nil {
			m.reportField(err)
			ok = false
			return true
		}
		hv := reflect.New(vt).Elem()
		if vfd.Message() != nil {
			if existing := fv.MapIndex(hk); existing.IsValid() {
				hv.Set(existing)
			}
			if !m.decodeStruct(epath, wv.Message(), hv) {
				ok = false
			}
		} else if err := setScalar(epath, wv, vfd, hv); err != nil {
			m.reportField(err)
			ok = false
			return true
		}
		fv.SetMapIndex(hk, hv)
		return true
	})
	return ok
}

// readWire returns element i of a repeated field, checking bounds.
func readWire(path string, l protoreflect.List, i int) (protoreflect.Value, error) {
	if i < 0 || i >= l.Len() {
		return protoreflect.Value{}, &IndexError{FieldPath: path, Index: i, Len: l.Len()}
	}
	return l.Get(i), nil
}

// setScalar converts a wire scalar or enum into hv.
func setScalar(path string, wv protoreflect.Value, fd protoreflect.FieldDescriptor, hv reflect.Value) error {
	set, ok := setters[fd.Kind()]
	if !ok {
		return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported wire kind %s", fd.Kind())}
	}
	if err := set(wv, hv); err != nil {
		if errors.Is(err, errMismatch) {
			return &TypeError{FieldPath: path, Expected: "host value for " + wireKindName(fd), Actual: hv.Type().String()}
		}
		return &UnmarshalError{FieldPath: path, Message: "cannot convert value", Err: err}
	}
	return nil
}
