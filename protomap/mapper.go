package protomap

import (
	"fmt"
	"log/slog"
	"reflect"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/signadot/protomap/hosttype"
)

// Registry resolves schema names to descriptors. *protoregistry.Files
// satisfies it.
type Registry interface {
	FindDescriptorByName(protoreflect.FullName) (protoreflect.Descriptor, error)
}

// defaultRegistry is used when nil is passed to NewMapper
var defaultRegistry Registry = protoregistry.GlobalFiles

// SetDefaultRegistry sets the registry used when nil is passed to
// NewMapper. It is not safe to call concurrently with NewMapper.
func SetDefaultRegistry(reg Registry) {
	if reg == nil {
		reg = protoregistry.GlobalFiles
	}
	defaultRegistry = reg
}

// DefaultRegistry returns the current default registry.
func DefaultRegistry() Registry {
	return defaultRegistry
}

// Mapper moves values between Go structs and protobuf messages whose
// descriptors it finds by struct name in its registry.
// A Mapper is immutable and safe for concurrent use.
type Mapper struct {
	registry     Registry
	pkg          string
	log          *slog.Logger
	onFieldError func(error)
}

// NewMapper creates a new Mapper with the given registry.
// If reg is nil, the default registry is used.
func NewMapper(reg Registry, opts ...MapperOption) *Mapper {
	m := &Mapper{registry: reg}
	if m.registry == nil {
		m.registry = defaultRegistry
	}
	for _, opt := range opts {
		opt.applyMapper(m)
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	return m
}

// DefaultMapper returns a Mapper using the default registry.
// This is a convenience function equivalent to NewMapper(nil).
func DefaultMapper() *Mapper {
	return NewMapper(nil)
}

// Registry returns the registry being used by this mapper.
func (m *Mapper) Registry() Registry {
	return m.registry
}

// FullName returns the schema name a struct type is looked up under.
func (m *Mapper) FullName(t reflect.Type) protoreflect.FullName {
	name := hosttype.Classify(t).Name
	if m.pkg == "" {
		return protoreflect.FullName(name)
	}
	return protoreflect.FullName(m.pkg + "." + name)
}

// Descriptor resolves the message descriptor for a struct type.
func (m *Mapper) Descriptor(t reflect.Type) (protoreflect.MessageDescriptor, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &SchemaError{Message: fmt.Sprintf("expected struct type, got %v", t)}
	}
	c := hosttype.Classify(t)
	if c.Kind != hosttype.KindMessage {
		return nil, &SchemaError{Message: fmt.Sprintf("type %v has no usable schema name", t)}
	}
	name := m.FullName(t)
	d, err := m.registry.FindDescriptorByName(name)
	if err != nil {
		return nil, &SchemaError{
			SchemaName: string(name),
			Message:    "message not found in registry",
			Err:        fmt.Errorf("%w: %w", ErrTypeNotFound, err),
		}
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, &SchemaError{
			SchemaName: string(name),
			Message:    fmt.Sprintf("expected message, found %T", d),
			Err:        ErrTypeNotFound,
		}
	}
	return md, nil
}

// reportField logs a field failure and passes it to the handler.
func (m *Mapper) reportField(err error) {
	m.log.Warn("field transfer failed", "error", err)
	if m.onFieldError != nil {
		m.onFieldError(err)
	}
}

// structValue returns the struct value behind v, which must be a struct
// or a non-nil pointer to one.
func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil pointer to %s", rv.Type().Elem())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("expected struct, got %T", v)
	}
	return rv, nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return fmt.Sprintf("%s.%s", parent, name)
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

func keyPath(parent string, key reflect.Value) string {
	return fmt.Sprintf("%s[%v]", parent, key.Interface())
}
