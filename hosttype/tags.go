package hosttype

import (
	"fmt"
	"strings"
	"unicode"
)

// TagKey is the struct tag key read by this package.
const TagKey = "protomap"

// FieldTag holds the options parsed from a protomap struct tag.
type FieldTag struct {
	// Name overrides the authored field name.
	Name string

	// Label is a display label. It is never used as a wire identifier.
	Label string

	// Omit removes the field from reflection.
	Omit bool
}

// ParseFieldTag parses the value of a protomap struct tag.
func ParseFieldTag(tag string) (*FieldTag, error) {
	parsed, err := ParseStructTag(tag)
	if err != nil {
		return nil, err
	}
	ft := &FieldTag{}
	for k, v := range parsed {
		switch k {
		case "name":
			ft.Name = v
		case "label":
			ft.Label = v
		case "-", "omit":
			ft.Omit = true
		default:
			return nil, fmt.Errorf("invalid tag: unknown key %q", k)
		}
	}
	return ft, nil
}

// ParseStructTag parses a struct tag string and returns a map of key-value pairs.
// Handles comma-separated values: `protomap:"key1=value1,key2=value2,flag"`
// Supports quoted values with spaces: `protomap:"label='value with spaces'"`
func ParseStructTag(tag string) (map[string]string, error) {
	result := make(map[string]string)
	if tag == "" {
		return result, nil
	}

	var parts []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false

	flush := func() {
		part := strings.TrimSpace(current.String())
		if part != "" {
			parts = append(parts, part)
		}
		current.Reset()
	}

	for i := 0; i < len(tag); i++ {
		char := tag[i]
		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
			current.WriteByte(char)
		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
			current.WriteByte(char)
		case (char == ',' || char == ' ') && !inSingleQuote && !inDoubleQuote:
			flush()
		default:
			current.WriteByte(char)
		}
	}
	if inSingleQuote || inDoubleQuote {
		return nil, fmt.Errorf("invalid tag: unterminated quote in %q", tag)
	}
	flush()

	for _, part := range parts {
		idx := strings.Index(part, "=")
		if idx < 0 {
			// boolean flag
			result[part] = ""
			continue
		}
		key := strings.TrimSpace(part[:idx])
		if key == "" {
			return nil, fmt.Errorf("invalid tag: empty key in %q", part)
		}
		result[key] = unquoteValue(strings.TrimSpace(part[idx+1:]))
	}
	return result, nil
}

func unquoteValue(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' || first == '"') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// NormalizeName strips all whitespace from an authored name so that it can
// be used as a wire identifier.
func NormalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}

// IsIdent reports whether name is usable as a schema identifier.
func IsIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
