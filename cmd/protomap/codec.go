package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

func messageFor(mainCfg *MainConfig, schema, typeName string) (protoreflect.MessageDescriptor, error) {
	if typeName == "" {
		return nil, fmt.Errorf("%w: -type is required", cli.ErrUsage)
	}
	if schema == "" {
		schema = mainCfg.Settings.ProtoFilePath()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	reg, fd, err := loadSchema(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", schema, err)
	}
	return findMessage(reg, fd, typeName)
}

func decode(cfg *DecodeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Decode.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: decode takes at most one input file", cli.ErrUsage)
	}
	md, err := messageFor(cfg.MainConfig, cfg.Schema, cfg.Type)
	if err != nil {
		return err
	}
	var file string
	if len(args) == 1 {
		file = args[0]
	}
	data, err := readInput(cc.In, file)
	if err != nil {
		return err
	}
	msg := dynamicpb.NewMessage(md)
	if err := (proto.UnmarshalOptions{AllowPartial: true}).Unmarshal(data, msg); err != nil {
		return fmt.Errorf("error decoding %s: %w", md.FullName(), err)
	}
	if !cfg.Partial {
		if err := proto.CheckInitialized(msg); err != nil {
			return err
		}
	}
	var out []byte
	if cfg.JSON {
		out, err = protojson.MarshalOptions{Multiline: true, UseProtoNames: true}.Marshal(msg)
	} else {
		out, err = prototext.MarshalOptions{Multiline: true}.Marshal(msg)
	}
	if err != nil {
		return err
	}
	if _, err := cc.Out.Write(out); err != nil {
		return err
	}
	fmt.Fprintln(cc.Out)
	return nil
}

func encode(cfg *EncodeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Encode.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: encode takes at most one input file", cli.ErrUsage)
	}
	md, err := messageFor(cfg.MainConfig, cfg.Schema, cfg.Type)
	if err != nil {
		return err
	}
	var file string
	if len(args) == 1 {
		file = args[0]
	}
	data, err := readInput(cc.In, file)
	if err != nil {
		return err
	}
	msg := dynamicpb.NewMessage(md)
	if cfg.Text {
		err = prototext.UnmarshalOptions{AllowPartial: true}.Unmarshal(data, msg)
	} else {
		err = protojson.UnmarshalOptions{AllowPartial: true}.Unmarshal(data, msg)
	}
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", md.FullName(), err)
	}
	out, err := proto.MarshalOptions{AllowPartial: cfg.Partial || cfg.Settings.AllowPartial, Deterministic: true}.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", md.FullName(), err)
	}
	_, err = cc.Out.Write(out)
	return err
}
