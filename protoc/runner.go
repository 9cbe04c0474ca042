package protoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sync/atomic"
)

// ErrNotFound is returned by Start when the protoc executable cannot be
// located.
var ErrNotFound = errors.New("protoc executable not found")

// Runner runs an external protoc off the caller's goroutine.
type Runner struct {
	// Path is the protoc executable. Defaults to "protoc" on PATH.
	Path string

	// ProtoPath is passed as --proto_path. Defaults to the directory of
	// the compiled file.
	ProtoPath string

	// OutFlag names the generator output flag without dashes, e.g.
	// "go_out" or "cpp_out". When empty protoc only checks the file.
	OutFlag string

	// OutDir is the argument to OutFlag.
	OutDir string

	Log *slog.Logger
}

// Result is the outcome of one protoc run.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// OK reports whether protoc ran and exited zero.
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Job is a running or finished protoc invocation.
type Job struct {
	Args    []string
	running atomic.Bool
	done    chan struct{}
	result  Result
}

// Running reports whether the process has not yet finished.
func (j *Job) Running() bool {
	return j.running.Load()
}

// Done is closed when the process finishes.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the process finishes and returns its result.
func (j *Job) Wait() Result {
	<-j.done
	return j.result
}

// Args returns the protoc command line used for protoFile.
func (r *Runner) Args(protoFile string) []string {
	protoPath := r.ProtoPath
	if protoPath == "" {
		protoPath = filepath.Dir(protoFile)
	}
	args := []string{"--proto_path=" + protoPath}
	if r.OutFlag != "" {
		outDir := r.OutDir
		if outDir == "" {
			outDir = "."
		}
		args = append(args, fmt.Sprintf("--%s=%s", r.OutFlag, outDir))
	}
	return append(args, protoFile)
}

// Start launches protoc for protoFile. It returns ErrNotFound without
// starting anything if the executable does not exist. Cancelling ctx kills
// the process.
func (r *Runner) Start(ctx context.Context, protoFile string) (*Job, error) {
	path := r.Path
	if path == "" {
		path = "protoc"
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrNotFound, path, err)
	}
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	job := &Job{
		Args: r.Args(protoFile),
		done: make(chan struct{}),
	}
	cmd := exec.CommandContext(ctx, bin, job.Args...)
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", bin, err)
	}
	job.running.Store(true)
	log.Debug("protoc started", "bin", bin, "args", job.Args, "pid", cmd.Process.Pid)

	go func() {
		err := cmd.Wait()
		res := Result{
			ExitCode: -1,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
		if cmd.ProcessState != nil {
			res.ExitCode = cmd.ProcessState.ExitCode()
		}
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			res.Err = err
		}
		if res.OK() {
			log.Info("protoc finished", "file", protoFile)
		} else {
			log.Error("protoc failed", "file", protoFile, "exit", res.ExitCode, "stderr", res.Stderr, "error", res.Err)
		}
		job.result = res
		job.running.Store(false)
		close(job.done)
	}()
	return job, nil
}
