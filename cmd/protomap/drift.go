package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"

	"github.com/signadot/protomap/protomap/schemagen"
)

func drift(cfg *DriftConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Drift.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: drift requires 2 arguments, old and new schema files", cli.ErrUsage)
	}
	oldSchema, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	newSchema, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, err := schemagen.Drift(ctx, string(oldSchema), string(newSchema))
	if err != nil {
		return err
	}

	p := cfg.palette(cc.Out)
	if cfg.Diff {
		printDiff(cc.Out, p, schemagen.TextDiff(string(oldSchema), string(newSchema)))
	}
	printDrift(cc.Out, p, report)
	if cfg.Breaking && len(report.Breaking()) != 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func printDiff(w io.Writer, p *palette, lines []schemagen.DiffLine) {
	for _, l := range lines {
		switch l.Op {
		case schemagen.DiffInsert:
			fmt.Fprintln(w, p.Added("%s", l))
		case schemagen.DiffDelete:
			fmt.Fprintln(w, p.Removed("%s", l))
		default:
			fmt.Fprintln(w, l)
		}
	}
}

func printDrift(w io.Writer, p *palette, report *schemagen.DriftReport) {
	if len(report.Changes) == 0 {
		fmt.Fprintln(w, "no changes")
		return
	}
	for _, c := range report.Changes {
		if c.Kind.Breaking() {
			fmt.Fprintf(w, "%s %s\n", p.Warn("!"), c)
			continue
		}
		fmt.Fprintf(w, "  %s\n", c)
	}
	if n := len(report.Breaking()); n != 0 {
		fmt.Fprintf(w, "%s\n", p.Warn("%d breaking changes", n))
	}
}
