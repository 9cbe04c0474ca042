package protomap

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeNotFound is returned when the registry has no message for a
	// host type.
	ErrTypeNotFound = errors.New("type not found")

	// ErrParse is returned for malformed wire bytes.
	ErrParse = errors.New("malformed wire message")

	// ErrUninitialized is returned by strict marshaling when required
	// fields are unset.
	ErrUninitialized = errors.New("required fields not set")

	// ErrIndexOutOfRange is returned for reads past the end of a repeated
	// field or a fixed size array.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNestedCleared marks a nested message that was cleared because one
	// of its fields failed.
	ErrNestedCleared = errors.New("nested message cleared")
)

// MarshalError represents an error during encoding
type MarshalError struct {
	FieldPath string // Field path (e.g., "Player.Stats[hp].Value")
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, msg)
	}
	return fmt.Sprintf("marshal error: %s", msg)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// UnmarshalError represents an error during decoding
type UnmarshalError struct {
	FieldPath string // Field path (e.g., "Player.Stats[hp].Value")
	Message   string
	Err       error
}

func (e *UnmarshalError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.FieldPath != "" {
		return fmt.Sprintf("unmarshal error at %s: %s", e.FieldPath, msg)
	}
	return fmt.Sprintf("unmarshal error: %s", msg)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

// SchemaError represents an error resolving a message descriptor
type SchemaError struct {
	SchemaName string
	Message    string
	Err        error
}

func (e *SchemaError) Error() string {
	if e.SchemaName != "" {
		return fmt.Sprintf("schema error for %q: %s", e.SchemaName, e.Message)
	}
	return fmt.Sprintf("schema error: %s", e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// TypeError represents a mismatch between a host type and a wire field
type TypeError struct {
	FieldPath string
	Expected  string
	Actual    string
	Message   string
}

func (e *TypeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	if e.FieldPath != "" {
		return fmt.Sprintf("type error at %s: %s", e.FieldPath, msg)
	}
	return fmt.Sprintf("type error: %s", msg)
}

// IndexError reports an out of range index into a repeated field.
type IndexError struct {
	FieldPath string
	Index     int
	Len       int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index error at %s: index %d out of range [0, %d)", e.FieldPath, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
