package protomap

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/signadot/protomap/hosttype"
)

// Encode creates a message for the struct type of v and fills it from v.
// v must be a struct or a non-nil pointer to one.
//
// The only errors returned are for invalid input and for a struct type
// with no message in the registry. Failures of individual fields are
// logged and passed to the field error handler, and the rest of the
// message is still filled.
func (m *Mapper) Encode(v any) (*dynamicpb.Message, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, &MarshalError{Message: "invalid value", Err: err}
	}
	md, err := m.Descriptor(rv.Type())
	if err != nil {
		return nil, err
	}
	msg := dynamicpb.NewMessage(md)
	m.encodeStruct(string(md.Name()), rv, msg)
	return msg, nil
}

// EncodeInto fills a caller owned message from v. Host fields are matched
// to msg's fields by name; the registry is not consulted.
func (m *Mapper) EncodeInto(v any, msg proto.Message) error {
	rv, err := structValue(v)
	if err != nil {
		return &MarshalError{Message: "invalid value", Err: err}
	}
	pm := msg.ProtoReflect()
	m.encodeStruct(string(pm.Descriptor().Name()), rv, pm)
	return nil
}

// encodeStruct writes the fields of rv into msg. It reports whether every
// field was written.
func (m *Mapper) encodeStruct(path string, rv reflect.Value, msg protoreflect.Message) bool {
	s, err := hosttype.StructOf(rv.Type())
	if err != nil {
		m.reportField(&MarshalError{FieldPath: path, Message: "cannot reflect struct", Err: err})
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
		if err := checkShape(fpath, f, fd); err != nil {
			m.reportField(err)
			ok = false
			continue
		}
		fv := rv.FieldByIndex(f.Index)
		var fok bool
		switch {
		case fd.IsMap():
			fok = m.encodeMap(fpath, f, fv, fd, msg)
		case fd.IsList():
			fok = m.encodeList(fpath, f, fv, fd, msg)
		case fd.Message() != nil:
			fok = m.encodeNested(fpath, fv, fd, msg)
		default:
			fok = m.encodeScalar(fpath, f, fv, fd, msg)
		}
		ok = fok && ok
	}
	return ok
}

func (m *Mapper) encodeNested(path string, fv reflect.Value, fd protoreflect.FieldDescriptor, msg protoreflect.Message) bool {
	sub := msg.Mutable(fd).Message()
	if m.encodeStruct(path, fv, sub) {
		return true
	}
	msg.Clear(fd)
	m.reportField(&MarshalError{FieldPath: path, Message: "nested message failed", Err: ErrNestedCleared})
	return false
}

func (m *Mapper) encodeScalar(path string, f *hosttype.Field, fv reflect.Value, fd protoreflect.FieldDescriptor, msg protoreflect.Message) bool {
	val, err := textValue(f.Elem, fv, fd)
	if err != nil {
		m.reportField(&MarshalError{FieldPath: path, Message: "cannot convert value", Err: err})
		return false
	}
	msg.Set(fd, val)
	return true
}

func (m *Mapper) encodeList(path string, f *hosttype.Field, fv reflect.Value, fd protoreflect.FieldDescriptor, msg protoreflect.Message) bool {
	if fv.Len() == 0 {
		return true
	}
	l := msg.Mutable(fd).List()
	ok := true
	each := func(epath string, ev reflect.Value) {
		// Handle message elements
		if fd.Message() != nil {
			sub := l.AppendMutable().Message()
			if !m.encodeStruct(epath, ev, sub) {
				clearMessage(sub)
				m.reportField(&MarshalError{FieldPath: epath, Message: "nested message failed", Err: ErrNestedCleared})
				ok = false
			}
			return
		}
		// Handle scalar elements
		val, err := appendValue(epath, f.Elem, ev, fd)
		if err != nil {
			m.reportField(err)
			ok = false
			return
		}
		l.Append(val)
	}
	if f.Shape == hosttype.ShapeSet {
		for iter := fv.MapRange(); iter.Next(); {
			each(keyPath(path, iter.Key()), iter.Key())
		}
		return ok
	}
	for i := 0; i < fv.Len(); i++ {
		each(indexPath(path, i), fv.Index(i))
	}
	return ok
}

func (m *Mapper) encodeMap(path string, f *hosttype.Field, fv reflect.Value, fd protoreflect.FieldDescriptor, msg protoreflect.Message) bool {
	if fv.Len() == 0 {
		return true
	}
	mp := msg.Mutable(fd).Map()
	kfd, vfd := fd.MapKey(), fd.MapValue()
	ok := true
	for iter := fv.MapRange(); iter.Next(); {
		epath := keyPath(path, iter.Key())
		kv, err := textValue(f.Key, iter.Key(), kfd)
		if err != nil {
			m.reportField(&MarshalError{FieldPath: epath, Message: "cannot convert map key", Err: err})
			ok = false
			continue
		}
		mk := kv.MapKey()

		// Handle message values
		if vfd.Message() != nil {
			sub := mp.Mutable(mk).Message()
			if !m.encodeStruct(epath, iter.Value(), sub) {
				mp.Clear(mk)
				m.reportField(&MarshalError{FieldPath: epath, Message: "map value failed", Err: ErrNestedCleared})
				ok = false
			}
			continue
		}

		// Handle scalar values
		vv, err := textValue(f.Elem, iter.Value(), vfd)
		if err != nil {
			m.reportField(&MarshalError{FieldPath: epath, Message: "cannot convert map value", Err: err})
			ok = false
			continue
		}
		mp.Set(mk, vv)
	}
	return ok
}

// appendValue converts one repeated scalar element.
func appendValue(path string, c hosttype.Class, v reflect.Value, fd protoreflect.FieldDescriptor) (protoreflect.Value, error) {
	app, ok := appenders[fd.Kind()]
	if !ok {
		return protoreflect.Value{}, &MarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported wire kind %s", fd.Kind())}
	}
	val, ok := app(c, v)
	if !ok {
		return protoreflect.Value{}, &TypeError{FieldPath: path, Expected: fd.Kind().String() + " compatible value", Actual: v.Type().String()}
	}
	return val, nil
}

// checkShape verifies that a host field and a wire field agree on
// cardinality and on whether elements are messages.
func checkShape(path string, f *hosttype.Field, fd protoreflect.FieldDescriptor) error {
	wire := "singular"
	switch {
	case fd.IsMap():
		wire = "map"
	case fd.IsList():
		wire = "repeated"
	}
	host := "singular"
	switch f.Shape {
	case hosttype.ShapeMap:
		host = "map"
	case hosttype.ShapeArray, hosttype.ShapeSet:
		host = "repeated"
	}
	if wire != host {
		return &TypeError{FieldPath: path, Expected: wire + " field", Actual: host + " " + f.Type.String()}
	}
	elem := fd
	if fd.IsMap() {
		elem = fd.MapValue()
	}
	wireMsg := elem.Message() != nil
	hostMsg := f.Elem.Kind == hosttype.KindMessage
	if wireMsg != hostMsg {
		return &TypeError{FieldPath: path, Expected: wireKindName(elem), Actual: f.Elem.Type.String()}
	}
	return nil
}

func wireKindName(fd protoreflect.FieldDescriptor) string {
	switch {
	case fd.Message() != nil:
		return "message " + string(fd.Message().FullName())
	case fd.Enum() != nil:
		return "enum " + string(fd.Enum().FullName())
	}
	return fd.Kind().String()
}

// clearMessage clears every populated field of msg.
func clearMessage(msg protoreflect.Message) {
	var fds []protoreflect.FieldDescriptor
	msg.Range(func(fd protoreflect.FieldDescriptor, _ protoreflect.Value) bool {
		fds = append(fds, fd)
		return true
	})
	for _, fd := range fds {
		msg.Clear(fd)
	}
}
