// Package config holds the settings file read by the protomap command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/signadot/protomap/hosttype"
)

// Config represents the protomap settings file.
type Config struct {
	// ProtoFileName is the name of the generated schema file.
	ProtoFileName string `yaml:"protoFileName"`

	// GenPath is the directory the schema file is written to.
	GenPath string `yaml:"genPath"`

	// Package is the schema package, empty for none.
	Package string `yaml:"package"`

	// ProtocPath names the external protoc executable.
	ProtocPath string `yaml:"protocPath"`

	// ProtocOut is the protoc output flag, for example "go_out" or
	// "cpp_out". Empty runs protoc as a check only.
	ProtocOut string `yaml:"protocOut"`

	// AllowPartial disables the required-field check when marshaling.
	AllowPartial bool `yaml:"allowPartial"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures the command's logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// Load loads a configuration file in YAML format. Unset fields keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ProtoFileName: "protomap.proto",
		GenPath:       "proto",
		ProtocPath:    "protoc",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.ProtoFileName == "" {
		errs = append(errs, errors.New("protoFileName is empty"))
	} else if filepath.Ext(c.ProtoFileName) != ".proto" {
		errs = append(errs, fmt.Errorf("protoFileName %q must end in .proto", c.ProtoFileName))
	} else if filepath.Base(c.ProtoFileName) != c.ProtoFileName {
		errs = append(errs, fmt.Errorf("protoFileName %q must not contain a directory", c.ProtoFileName))
	}
	if c.Package != "" {
		for _, part := range strings.Split(c.Package, ".") {
			if !hosttype.IsIdent(part) {
				errs = append(errs, fmt.Errorf("package %q is not a dotted identifier", c.Package))
				break
			}
		}
	}
	if c.ProtocPath == "" {
		errs = append(errs, errors.New("protocPath is empty"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ProtoFilePath returns the path of the generated schema file.
func (c *Config) ProtoFilePath() string {
	return filepath.Join(c.GenPath, c.ProtoFileName)
}

// Logger builds the logger described by the log section, writing to w.
// A non-empty DEBUG environment variable forces the debug level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
