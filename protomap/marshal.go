package protomap

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Marshal encodes v to wire bytes. Unless AllowPartial is given, Marshal
// fails with ErrUninitialized when a required field is unset.
func (m *Mapper) Marshal(v any, opts ...MarshalOption) ([]byte, error) {
	cfg := newMarshalConfig(opts)
	msg, err := m.Encode(v)
	if err != nil {
		return nil, err
	}
	if !cfg.AllowPartial {
		if err := proto.CheckInitialized(msg); err != nil {
			return nil, &MarshalError{
				FieldPath: string(msg.Descriptor().Name()),
				Message:   "strict marshal",
				Err:       fmt.Errorf("%w: %w", ErrUninitialized, err),
			}
		}
	}
	b, err := proto.MarshalOptions{AllowPartial: true, Deterministic: true}.Marshal(msg)
	if err != nil {
		return nil, &MarshalError{Message: "serializing message", Err: err}
	}
	return b, nil
}

// MarshalText encodes v in the protobuf text format.
func (m *Mapper) MarshalText(v any) ([]byte, error) {
	msg, err := m.Encode(v)
	if err != nil {
		return nil, err
	}
	b, err := prototext.MarshalOptions{Multiline: true, AllowPartial: true}.Marshal(msg)
	if err != nil {
		return nil, &MarshalError{Message: "formatting text", Err: err}
	}
	return b, nil
}

// MarshalJSON encodes v in the protobuf JSON mapping.
func (m *Mapper) MarshalJSON(v any) ([]byte, error) {
	msg, err := m.Encode(v)
	if err != nil {
		return nil, err
	}
	b, err := protojson.MarshalOptions{AllowPartial: true, UseProtoNames: true}.Marshal(msg)
	if err != nil {
		return nil, &MarshalError{Message: "formatting json", Err: err}
	}
	return b, nil
}

// Unmarshal parses wire bytes for the struct type v points to and decodes
// them into v. Malformed bytes fail with ErrParse before any field of v is
// touched. Unless AllowIncomplete(true) is given, a message with unset
// required fields fails with ErrUninitialized.
func (m *Mapper) Unmarshal(b []byte, v any, opts ...UnmarshalOption) error {
	return m.unmarshal(v, opts, func(msg *dynamicpb.Message) error {
		return proto.UnmarshalOptions{AllowPartial: true}.Unmarshal(b, msg)
	})
}

// UnmarshalText is like Unmarshal for the protobuf text format.
func (m *Mapper) UnmarshalText(b []byte, v any, opts ...UnmarshalOption) error {
	return m.unmarshal(v, opts, func(msg *dynamicpb.Message) error {
		return prototext.UnmarshalOptions{AllowPartial: true}.Unmarshal(b, msg)
	})
}

// UnmarshalJSON is like Unmarshal for the protobuf JSON mapping.
func (m *Mapper) UnmarshalJSON(b []byte, v any, opts ...UnmarshalOption) error {
	return m.unmarshal(v, opts, func(msg *dynamicpb.Message) error {
		return protojson.UnmarshalOptions{AllowPartial: true}.Unmarshal(b, msg)
	})
}

func (m *Mapper) unmarshal(v any, opts []UnmarshalOption, parse func(*dynamicpb.Message) error) error {
	cfg := newUnmarshalConfig(opts)
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &UnmarshalError{Message: fmt.Sprintf("expected non-nil pointer to struct, got %T", v)}
	}
	md, err := m.Descriptor(rv.Elem().Type())
	if err != nil {
		return err
	}
	msg := dynamicpb.NewMessage(md)
	if err := parse(msg); err != nil {
		return &UnmarshalError{
			FieldPath: string(md.Name()),
			Message:   "parsing message",
			Err:       fmt.Errorf("%w: %w", ErrParse, err),
		}
	}
	if !cfg.AllowIncomplete {
		if err := proto.CheckInitialized(msg); err != nil {
			return &UnmarshalError{
				FieldPath: string(md.Name()),
				Message:   "strict unmarshal",
				Err:       fmt.Errorf("%w: %w", ErrUninitialized, err),
			}
		}
	}
	return m.Decode(msg, v)
}

// Marshal encodes v to wire bytes with the default mapper.
func Marshal(v any, opts ...MarshalOption) ([]byte, error) {
	return DefaultMapper().Marshal(v, opts...)
}

// Unmarshal decodes wire bytes into v with the default mapper.
func Unmarshal(b []byte, v any, opts ...UnmarshalOption) error {
	return DefaultMapper().Unmarshal(b, v, opts...)
}

// Encode creates a message from v with the default mapper.
func Encode(v any) (*dynamicpb.Message, error) {
	return DefaultMapper().Encode(v)
}

// Decode fills v from msg with the default mapper.
func Decode(msg proto.Message, v any) error {
	return DefaultMapper().Decode(msg, v)
}
