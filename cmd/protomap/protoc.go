package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/scott-cotton/cli"

	"github.com/signadot/protomap/protoc"
)

func runProtoc(cfg *ProtocConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Protoc.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: protoc takes at most one schema file", cli.ErrUsage)
	}
	if cfg.Poll <= 0 {
		return fmt.Errorf("%w: -poll must be positive", cli.ErrUsage)
	}
	file := cfg.Settings.ProtoFilePath()
	if len(args) == 1 {
		file = args[0]
	}
	outFlag := cfg.Settings.ProtocOut
	if cfg.Out != "" {
		outFlag = cfg.Out
	}
	r := &protoc.Runner{
		Path:    cfg.Settings.ProtocPath,
		OutFlag: outFlag,
		OutDir:  cfg.Settings.GenPath,
		Log:     theLog,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	job, err := r.Start(ctx, file)
	if err != nil {
		return err
	}

	p := cfg.palette(cc.Out)
	start := time.Now()
	ticker := time.NewTicker(time.Duration(cfg.Poll) * time.Millisecond)
	defer ticker.Stop()
	for job.Running() {
		select {
		case <-ticker.C:
			fmt.Fprintf(cc.Out, "protoc running (%s)\n", time.Since(start).Round(time.Millisecond))
		case <-job.Done():
		}
	}

	res := job.Wait()
	if res.Stdout != "" {
		fmt.Fprint(cc.Out, res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprint(cc.Out, p.Warn("%s", res.Stderr))
	}
	if res.Err != nil {
		return fmt.Errorf("protoc %s: %w", file, res.Err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("protoc %s exited with code %d", file, res.ExitCode)
	}
	fmt.Fprintf(cc.Out, "%s %s\n", p.Added("ok"), file)
	return nil
}
