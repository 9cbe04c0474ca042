package config

import (
	"log/slog"
	"reflect"

	"github.com/signadot/protomap/protomap"
	"github.com/signadot/protomap/protomap/schemagen"
)

// GenerateSchema writes the schema for roots to ProtoFilePath.
func (c *Config) GenerateSchema(roots []reflect.Type, log *slog.Logger) error {
	opts := []schemagen.Option{schemagen.WithPackage(c.Package)}
	if log != nil {
		opts = append(opts, schemagen.WithLogger(log))
	}
	return schemagen.GenerateFile(c.ProtoFilePath(), roots, opts...)
}

// Mapper returns a Mapper over reg that looks types up in the configured
// package. opts are applied after the package option.
func (c *Config) Mapper(reg protomap.Registry, opts ...protomap.MapperOption) *protomap.Mapper {
	opts = append([]protomap.MapperOption{protomap.WithPackage(c.Package)}, opts...)
	return protomap.NewMapper(reg, opts...)
}

// MarshalOptions returns the marshal options implied by the settings.
func (c *Config) MarshalOptions() []protomap.MarshalOption {
	if c.AllowPartial {
		return []protomap.MarshalOption{protomap.AllowPartial()}
	}
	return nil
}
