package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/protomap/config"
)

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='settings file (yaml)'"`
	Color      bool   `cli:"name=color desc='color output even when not a terminal'"`
	Gops       bool   `cli:"name=gops desc='start a gops diagnostics agent'"`

	Settings *config.Config

	Main *cli.Command
}

// loadSettings reads the settings file named by -config, or the
// defaults when none is given.
func (cfg *MainConfig) loadSettings() error {
	if cfg.ConfigFile == "" {
		cfg.Settings = config.DefaultConfig()
		return nil
	}
	s, err := config.Load(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Settings = s
	return nil
}

// palette returns the output colors for w.
func (cfg *MainConfig) palette(w io.Writer) *palette {
	if cfg.Color {
		return newPalette(true)
	}
	f, ok := w.(*os.File)
	if !ok {
		return newPalette(false)
	}
	return newPalette(isatty.IsTerminal(f.Fd()))
}

type palette struct {
	Name    func(string, ...any) string
	Kind    func(string, ...any) string
	Number  func(string, ...any) string
	Added   func(string, ...any) string
	Removed func(string, ...any) string
	Warn    func(string, ...any) string
}

func newPalette(on bool) *palette {
	if !on {
		return &palette{
			Name:    fmt.Sprintf,
			Kind:    fmt.Sprintf,
			Number:  fmt.Sprintf,
			Added:   fmt.Sprintf,
			Removed: fmt.Sprintf,
			Warn:    fmt.Sprintf,
		}
	}
	sprintf := func(c *color.Color) func(string, ...any) string {
		c.EnableColor()
		return c.SprintfFunc()
	}
	return &palette{
		Name:    sprintf(color.RGB(128, 168, 196)),
		Kind:    sprintf(color.RGB(74, 92, 138)),
		Number:  sprintf(color.RGB(128, 216, 236)),
		Added:   sprintf(color.New(color.FgGreen)),
		Removed: sprintf(color.New(color.FgRed)),
		Warn:    sprintf(color.New(color.FgYellow, color.Bold)),
	}
}

type CheckConfig struct {
	*MainConfig
	Check *cli.Command
}

type ProtocConfig struct {
	*MainConfig
	Out  string `cli:"name=out desc='protoc output flag, e.g. go_out (default from settings)'"`
	Poll int    `cli:"name=poll desc='milliseconds between progress reports'"`

	Protoc *cli.Command
}

type DecodeConfig struct {
	*MainConfig
	Schema  string `cli:"name=schema desc='schema file (default from settings)'"`
	Type    string `cli:"name=type desc='message name'"`
	JSON    bool   `cli:"name=json desc='output json instead of text format'"`
	Partial bool   `cli:"name=partial desc='accept messages with unset required fields'"`

	Decode *cli.Command
}

type EncodeConfig struct {
	*MainConfig
	Schema  string `cli:"name=schema desc='schema file (default from settings)'"`
	Type    string `cli:"name=type desc='message name'"`
	Text    bool   `cli:"name=text desc='input is text format instead of json'"`
	Partial bool   `cli:"name=partial desc='allow unset required fields (also set by allowPartial in the settings file)'"`

	Encode *cli.Command
}

type DriftConfig struct {
	*MainConfig
	Diff     bool `cli:"name=diff desc='also print a line diff'"`
	Breaking bool `cli:"name=breaking desc='exit non-zero on breaking changes'"`

	Drift *cli.Command
}
