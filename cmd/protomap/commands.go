package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "protomap").
		WithSynopsis("protomap [opts] command [opts]").
		WithDescription("protomap checks, runs and inspects protobuf schemas generated from Go structs.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return protomapMain(cfg, cc, args)
		}).
		WithSubs(
			CheckCommand(cfg),
			ProtocCommand(cfg),
			DecodeCommand(cfg),
			EncodeCommand(cfg),
			DriftCommand(cfg))
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [schema-files]").
		WithDescription("compile schema files and list their messages and enums").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func ProtocCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ProtocConfig{MainConfig: mainCfg, Poll: 500}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Protoc, "protoc").
		WithSynopsis("protoc [-out flag] [-poll ms] [schema-file]").
		WithDescription("run the external protoc on a schema file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runProtoc(cfg, cc, args)
		})
}

func DecodeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DecodeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Decode, "decode").
		WithAliases("d", "dec").
		WithSynopsis("decode -type <message> [-schema file] [-json] [file]").
		WithDescription("decode binary messages to text or json").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return decode(cfg, cc, args)
		})
}

func EncodeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EncodeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Encode, "encode").
		WithAliases("e", "enc").
		WithSynopsis("encode -type <message> [-schema file] [-text] [file]").
		WithDescription("encode json or text messages to binary").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return encode(cfg, cc, args)
		})
}

func DriftCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DriftConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Drift, "drift").
		WithSynopsis("drift [-diff] [-breaking] <old-schema> <new-schema>").
		WithDescription("report wire compatibility changes between two schema files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return drift(cfg, cc, args)
		})
}
