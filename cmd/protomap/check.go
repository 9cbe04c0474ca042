package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{cfg.Settings.ProtoFilePath()}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := cfg.palette(cc.Out)
	for _, file := range args {
		_, fd, err := loadSchema(ctx, file)
		if err != nil {
			return fmt.Errorf("error checking %s: %w", file, err)
		}
		theLog.Debug("schema compiled", "file", file, "package", fd.Package())
		describeFile(cc.Out, p, fd)
	}
	return nil
}
