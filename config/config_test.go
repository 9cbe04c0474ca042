package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "protomap.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
protoFileName: game.proto
genPath: gen/proto
package: game.v1
protocOut: go_out
allowPartial: true
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		ProtoFileName: "game.proto",
		GenPath:       "gen/proto",
		Package:       "game.v1",
		ProtocPath:    "protoc",
		ProtocOut:     "go_out",
		AllowPartial:  true,
		Log:           LogConfig{Level: "debug", Format: "json"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.ProtoFilePath(); got != filepath.Join("gen", "proto", "game.proto") {
		t.Errorf("expected gen/proto/game.proto, got %s", got)
	}
}

func TestLoadEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected read error, got %v", err)
	}
	if _, err := Load(writeConfig(t, "protoFileName: [1, 2\n")); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
	if _, err := Load(writeConfig(t, "protoFileName: game.txt\n")); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no proto file", func(c *Config) { c.ProtoFileName = "" }, "protoFileName is empty"},
		{"bad extension", func(c *Config) { c.ProtoFileName = "game.pb" }, "must end in .proto"},
		{"directory", func(c *Config) { c.ProtoFileName = "a/game.proto" }, "must not contain a directory"},
		{"package", func(c *Config) { c.Package = "game.v1" }, ""},
		{"bad package", func(c *Config) { c.Package = "game..v1" }, "not a dotted identifier"},
		{"no protoc", func(c *Config) { c.ProtocPath = "" }, "protocPath is empty"},
		{"level", func(c *Config) { c.Log.Level = "WARN" }, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "unknown log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Setenv("DEBUG", "")

	var buf bytes.Buffer
	cfg := DefaultConfig()
	log := cfg.Logger(&buf)
	log.Debug("hidden")
	log.Info("shown", "n", 1)
	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("expected debug to be filtered, got %q", got)
	}
	if strings.Contains(got, "time=") {
		t.Errorf("expected no time attribute, got %q", got)
	}
	if !strings.Contains(got, "msg=shown n=1") {
		t.Errorf("expected text record, got %q", got)
	}

	buf.Reset()
	cfg.Log.Format = "json"
	cfg.Logger(&buf).Warn("careful")
	if !strings.Contains(buf.String(), `"msg":"careful"`) {
		t.Errorf("expected json record, got %q", buf.String())
	}

	buf.Reset()
	t.Setenv("DEBUG", "1")
	cfg.Log.Format = "text"
	cfg.Logger(&buf).Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("expected DEBUG to enable debug records, got %q", buf.String())
	}
}
