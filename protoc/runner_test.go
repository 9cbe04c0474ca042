package protoc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func fakeProtoc(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a unix shell")
	}
	path := filepath.Join(t.TempDir(), "protoc")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunnerArgs(t *testing.T) {
	r := &Runner{OutFlag: "cpp_out", OutDir: "gen"}
	got := strings.Join(r.Args("schemas/game.proto"), " ")
	want := "--proto_path=schemas --cpp_out=gen schemas/game.proto"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	r = &Runner{ProtoPath: "/inc"}
	got = strings.Join(r.Args("game.proto"), " ")
	if got != "--proto_path=/inc game.proto" {
		t.Errorf("unexpected args %q", got)
	}
}

func TestRunnerNotFound(t *testing.T) {
	r := &Runner{Path: filepath.Join(t.TempDir(), "no-such-protoc")}
	job, err := r.Start(context.Background(), "game.proto")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if job != nil {
		t.Error("expected no job")
	}
}

func TestRunnerSuccess(t *testing.T) {
	r := &Runner{Path: fakeProtoc(t, "echo \"$@\"\nexit 0\n"), OutFlag: "go_out", OutDir: "out"}
	job, err := r.Start(context.Background(), "game.proto")
	if err != nil {
		t.Fatal(err)
	}
	res := job.Wait()
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
	if job.Running() {
		t.Error("expected job to be finished")
	}
	if !strings.Contains(res.Stdout, "--go_out=out game.proto") {
		t.Errorf("unexpected stdout %q", res.Stdout)
	}
}

func TestRunnerFailure(t *testing.T) {
	r := &Runner{Path: fakeProtoc(t, "echo 'game.proto:1:1: bad' >&2\nexit 3\n")}
	job, err := r.Start(context.Background(), "game.proto")
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for protoc")
	}
	res := job.Wait()
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "bad") {
		t.Errorf("expected stderr to be captured, got %q", res.Stderr)
	}
}

func TestRunnerRunning(t *testing.T) {
	r := &Runner{Path: fakeProtoc(t, "exec sleep 5\n")}
	ctx, cancel := context.WithCancel(context.Background())
	job, err := r.Start(ctx, "game.proto")
	if err != nil {
		t.Fatal(err)
	}
	if !job.Running() {
		t.Error("expected job to be running")
	}
	cancel()
	res := job.Wait()
	if res.OK() {
		t.Error("expected cancelled job to fail")
	}
	if job.Running() {
		t.Error("expected job to be finished after cancel")
	}
}
