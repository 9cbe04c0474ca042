package schemagen

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/signadot/protomap/hosttype"
)

// Header opens every generated document.
const Header = "syntax = \"proto3\";\n\n"

// emitter holds the dedup state of one GenerateSchema call.
type emitter struct {
	cfg     *config
	structs map[string]reflect.Type
	enums   map[string]reflect.Type

	// values maps enumerator names to their enum type
	values map[string]reflect.Type
}

// GenerateSchema returns a schema document describing roots and every type
// reachable from them. Roots are emitted in order, each followed by the
// types it introduces.
func GenerateSchema(roots []reflect.Type, opts ...Option) (string, error) {
	if len(roots) == 0 {
		return "", ErrNoRoots
	}
	e := &emitter{
		cfg:     newConfig(opts),
		structs: map[string]reflect.Type{},
		enums:   map[string]reflect.Type{},
		values:  map[string]reflect.Type{},
	}

	var sb strings.Builder
	sb.WriteString(Header)
	if e.cfg.pkg != "" {
		fmt.Fprintf(&sb, "package %s;\n\n", e.cfg.pkg)
	}
	for _, root := range roots {
		if root == nil || root.Kind() != reflect.Struct {
			return "", fmt.Errorf("root %v is not a struct type", root)
		}
		c := hosttype.Classify(root)
		if c.Kind != hosttype.KindMessage {
			return "", fmt.Errorf("root %v has no usable schema name", root)
		}
		text, err := e.visit(c)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// visit returns the definition of the type c refers to, or nothing if the
// name was already emitted.
func (e *emitter) visit(c hosttype.Class) (string, error) {
	switch c.Kind {
	case hosttype.KindMessage:
		seen, err := e.mark(e.structs, e.enums, c)
		if err != nil || seen {
			return "", err
		}
		return e.emitMessage(c.Type)
	case hosttype.KindEnum:
		seen, err := e.mark(e.enums, e.structs, c)
		if err != nil || seen {
			return "", err
		}
		return e.emitEnum(c.Type)
	}
	return "", nil
}

// mark records c as visited. It reports whether the name was already
// visited, failing if the earlier type with that name differs in structure.
// Messages, enums and enumerators share one scope, so a name held in other
// or by an enumerator is always a collision.
func (e *emitter) mark(visited, other map[string]reflect.Type, c hosttype.Class) (bool, error) {
	if prev, ok := other[c.Name]; ok {
		return true, &NameCollisionError{Name: c.Name, First: prev, Second: c.Type}
	}
	if prev, ok := e.values[c.Name]; ok {
		return true, &NameCollisionError{Name: c.Name, First: prev, Second: c.Type}
	}
	prev, ok := visited[c.Name]
	if !ok {
		visited[c.Name] = c.Type
		return false, nil
	}
	if prev != c.Type && hosttype.Signature(prev) != hosttype.Signature(c.Type) {
		return true, &NameCollisionError{Name: c.Name, First: prev, Second: c.Type}
	}
	return true, nil
}

func (e *emitter) emitMessage(t reflect.Type) (string, error) {
	s, err := hosttype.StructOf(t)
	if err != nil {
		return "", err
	}
	var body strings.Builder
	fmt.Fprintf(&body, "message %s {\n", s.Name)
	for _, f := range s.Fields {
		if !f.Supported() {
			e.cfg.log.Debug("skipping unsupported field", "message", s.Name, "field", f.Name, "type", f.Type.String(), "number", f.Number)
			continue
		}
		switch {
		case f.Shape == hosttype.ShapeMap:
			fmt.Fprintf(&body, "  map<%s,%s> %s = %d;\n", f.Key.ProtoType(), f.Elem.ProtoType(), f.Name, f.Number)
		case f.Shape.Repeated():
			fmt.Fprintf(&body, "  repeated %s %s = %d;\n", f.Elem.ProtoType(), f.Name, f.Number)
		default:
			fmt.Fprintf(&body, "  %s %s = %d;\n", f.Elem.ProtoType(), f.Name, f.Number)
		}
	}
	body.WriteString("}\n\n")

	// referenced types follow the message, map keys before values
	for _, t := range s.Referenced() {
		text, err := e.visit(hosttype.Classify(t))
		if err != nil {
			return "", err
		}
		body.WriteString(text)
	}
	return body.String(), nil
}

func (e *emitter) emitEnum(t reflect.Type) (string, error) {
	def, err := hosttype.EnumOf(t)
	if err != nil {
		return "", err
	}
	values := def.Logical()
	if len(values) == 0 || values[0].Value != 0 {
		e.cfg.log.Warn("enum does not start with a zero value", "enum", def.Name)
	}
	for _, v := range values {
		if prev, ok := e.values[v.Name]; ok && prev != t {
			return "", &EnumValueCollisionError{Value: v.Name, First: prev, Second: t}
		}
		if prev, ok := e.structs[v.Name]; ok {
			return "", &EnumValueCollisionError{Value: v.Name, First: prev, Second: t}
		}
		if prev, ok := e.enums[v.Name]; ok {
			return "", &EnumValueCollisionError{Value: v.Name, First: prev, Second: t}
		}
		e.values[v.Name] = t
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "enum %s {\n", def.Name)
	for _, v := range values {
		fmt.Fprintf(&sb, "  %s = %d;\n", v.Name, v.Value)
	}
	sb.WriteString("}\n\n")
	return sb.String(), nil
}

// WriteSchema writes a schema document to outputPath, creating parent
// directories as needed.
func WriteSchema(schema, outputPath string) error {
	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", outputPath, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "// Code generated by protomap. DO NOT EDIT.\n\n"); err != nil {
		return fmt.Errorf("failed to write comment header: %w", err)
	}
	if _, err := file.WriteString(schema); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	return file.Close()
}

// GenerateFile generates a schema for roots and writes it to outputPath.
func GenerateFile(outputPath string, roots []reflect.Type, opts ...Option) error {
	schema, err := GenerateSchema(roots, opts...)
	if err != nil {
		return err
	}
	return WriteSchema(schema, outputPath)
}
