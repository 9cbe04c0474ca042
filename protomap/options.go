package protomap

import "log/slog"

// MapperOption configures a Mapper.
type MapperOption interface {
	applyMapper(*Mapper)
}

// MarshalOption controls encoding to wire bytes.
type MarshalOption interface {
	applyMarshal(*marshalConfig)
}

// UnmarshalOption controls decoding from wire bytes.
type UnmarshalOption interface {
	applyUnmarshal(*unmarshalConfig)
}

type marshalConfig struct {
	// AllowPartial emits bytes even if required fields are unset.
	AllowPartial bool
}

type unmarshalConfig struct {
	// AllowIncomplete accepts messages with unset required fields.
	AllowIncomplete bool
}

func newMarshalConfig(opts []MarshalOption) *marshalConfig {
	cfg := &marshalConfig{}
	for _, opt := range opts {
		opt.applyMarshal(cfg)
	}
	return cfg
}

func newUnmarshalConfig(opts []UnmarshalOption) *unmarshalConfig {
	cfg := &unmarshalConfig{}
	for _, opt := range opts {
		opt.applyUnmarshal(cfg)
	}
	return cfg
}

type mapperOptionFunc func(*Mapper)

func (f mapperOptionFunc) applyMapper(m *Mapper) { f(m) }

// WithPackage sets the schema package prepended to host type names when
// looking up descriptors.
func WithPackage(pkg string) MapperOption {
	return mapperOptionFunc(func(m *Mapper) { m.pkg = pkg })
}

// WithLogger sets the logger that receives field diagnostics.
func WithLogger(log *slog.Logger) MapperOption {
	return mapperOptionFunc(func(m *Mapper) { m.log = log })
}

// WithFieldErrorHandler registers fn to receive every field level failure.
// Field failures never fail the whole call.
func WithFieldErrorHandler(fn func(error)) MapperOption {
	return mapperOptionFunc(func(m *Mapper) { m.onFieldError = fn })
}

type allowPartial struct{}

func (allowPartial) applyMarshal(c *marshalConfig) { c.AllowPartial = true }

// AllowPartial makes Marshal emit best-effort bytes when required fields
// are unset.
func AllowPartial() MarshalOption {
	return allowPartial{}
}

type allowIncomplete bool

func (a allowIncomplete) applyUnmarshal(c *unmarshalConfig) { c.AllowIncomplete = bool(a) }

// AllowIncomplete makes Unmarshal accept messages with unset required
// fields when allow is true.
func AllowIncomplete(allow bool) UnmarshalOption {
	return allowIncomplete(allow)
}
