package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/signadot/protomap/protoc"
)

func readInput(in io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(in)
	}
	return os.ReadFile(file)
}

// loadSchema compiles one schema file. The file is registered under its
// base name.
func loadSchema(ctx context.Context, file string) (*protoregistry.Files, protoreflect.FileDescriptor, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}
	name := filepath.Base(file)
	reg, err := protoc.Compile(ctx, name, string(data))
	if err != nil {
		return nil, nil, err
	}
	fd, err := reg.FindFileByPath(name)
	if err != nil {
		return nil, nil, err
	}
	return reg, fd, nil
}

// findMessage resolves name in reg, qualifying it with the schema package
// when it has no dots.
func findMessage(reg *protoregistry.Files, fd protoreflect.FileDescriptor, name string) (protoreflect.MessageDescriptor, error) {
	if name == "" {
		return nil, fmt.Errorf("no message type given")
	}
	full := protoreflect.FullName(name)
	if !strings.Contains(name, ".") && fd.Package() != "" {
		full = fd.Package().Append(protoreflect.Name(name))
	}
	d, err := reg.FindDescriptorByName(full)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", full, err)
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%s is not a message", full)
	}
	return md, nil
}

// describeFile lists the top level messages and enums of fd.
func describeFile(w io.Writer, p *palette, fd protoreflect.FileDescriptor) {
	msgs := fd.Messages()
	for i := 0; i < msgs.Len(); i++ {
		md := msgs.Get(i)
		fields := md.Fields()
		fmt.Fprintf(w, "%s %s (%d fields)\n", p.Kind("message"), p.Name("%s", md.Name()), fields.Len())
		for j := 0; j < fields.Len(); j++ {
			f := fields.Get(j)
			fmt.Fprintf(w, "  %s %s %s\n", p.Number("%4d", f.Number()), f.Name(), fieldType(f))
		}
	}
	enums := fd.Enums()
	for i := 0; i < enums.Len(); i++ {
		ed := enums.Get(i)
		values := ed.Values()
		fmt.Fprintf(w, "%s %s (%d values)\n", p.Kind("enum"), p.Name("%s", ed.Name()), values.Len())
		for j := 0; j < values.Len(); j++ {
			v := values.Get(j)
			fmt.Fprintf(w, "  %s %s\n", p.Number("%4d", v.Number()), v.Name())
		}
	}
}

func fieldType(fd protoreflect.FieldDescriptor) string {
	switch {
	case fd.IsMap():
		return fmt.Sprintf("map<%s,%s>", fieldType(fd.MapKey()), fieldType(fd.MapValue()))
	case fd.IsList():
		return "repeated " + elemType(fd)
	}
	return elemType(fd)
}

func elemType(fd protoreflect.FieldDescriptor) string {
	switch {
	case fd.Message() != nil:
		return string(fd.Message().Name())
	case fd.Enum() != nil:
		return string(fd.Enum().Name())
	}
	return fd.Kind().String()
}
