// Package protoc turns schema documents into descriptors.
//
// [Compile] and [CompileFiles] parse and link schema text in process and
// return a registry suitable for a protomap.Mapper. [Runner] drives an
// external protoc executable asynchronously, for generating code from the
// same documents.
package protoc

import (
	"context"
	"errors"
	"fmt"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/reporter"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// ErrCompile is returned when a schema document fails to compile.
var ErrCompile = errors.New("schema compile failed")

// Compile compiles a single schema document named filename.
func Compile(ctx context.Context, filename, source string) (*protoregistry.Files, error) {
	return CompileFiles(ctx, map[string]string{filename: source}, filename)
}

// CompileFiles compiles the named documents from sources. Documents may
// import each other and the well-known types. The returned registry holds
// every named document.
func CompileFiles(ctx context.Context, sources map[string]string, names ...string) (*protoregistry.Files, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no files named", ErrCompile)
	}
	var errs []error
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(sources),
		}),
		Reporter: reporter.NewReporter(func(err reporter.ErrorWithPos) error {
			// keep going to collect all errors
			errs = append(errs, err)
			return nil
		}, nil),
	}
	files, err := compiler.Compile(ctx, names...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrCompile, errors.Join(errs...))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	reg := new(protoregistry.Files)
	for _, f := range files {
		if err := register(reg, f); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// register adds fd and its imports to reg, dependencies first.
func register(reg *protoregistry.Files, fd protoreflect.FileDescriptor) error {
	if _, err := reg.FindFileByPath(fd.Path()); err == nil {
		return nil
	}
	imports := fd.Imports()
	for i := 0; i < imports.Len(); i++ {
		if err := register(reg, imports.Get(i).FileDescriptor); err != nil {
			return err
		}
	}
	if err := reg.RegisterFile(fd); err != nil {
		return fmt.Errorf("registering %s: %w", fd.Path(), err)
	}
	return nil
}
