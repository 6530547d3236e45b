package index

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome reports one indexer invocation. Stdout and Stderr are preserved
// verbatim for diagnostics regardless of success.
type Outcome struct {
	OK       bool
	Stdout   string
	Stderr   string
	ExitCode int
	ExecPath string
}

// ExecNotFoundError reports that an indexer executable could not be located.
// Path is the location that was attempted.
type ExecNotFoundError struct {
	Tool string
	Path string
}

func (e *ExecNotFoundError) Error() string {
	return fmt.Sprintf("%s executable not found at %q; set its directory in the tools config or put it on PATH", e.Tool, e.Path)
}

// Invoker runs one external indexing tool as a scoped child process and
// checks that the expected index artifact came out of it.
type Invoker struct {
	tool        string
	execDir     string
	fallbackDir string
	indexExt    string
	sanity      SanityCheck
	buildArgs   func(sourcePath, indexPath string, extra []string) []string
	logger      *zap.Logger
}

func (v *Invoker) Tool() string        { return v.tool }
func (v *Invoker) IndexExt() string    { return v.indexExt }
func (v *Invoker) Sanity() SanityCheck { return v.sanity }

// ResolveExecutable locates the tool binary: configured directory first, then
// PATH, then the fallback directory.
func (v *Invoker) ResolveExecutable() (string, error) {
	if v.execDir != "" {
		p := filepath.Join(v.execDir, v.tool)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
		return "", &ExecNotFoundError{Tool: v.tool, Path: p}
	}
	if p, err := exec.LookPath(v.tool); err == nil {
		return p, nil
	}
	if v.fallbackDir != "" {
		p := filepath.Join(v.fallbackDir, v.tool)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
		return "", &ExecNotFoundError{Tool: v.tool, Path: filepath.Join(v.fallbackDir, v.tool)}
	}
	return "", &ExecNotFoundError{Tool: v.tool, Path: v.tool}
}

// Run indexes sourcePath into indexPath. The tool writes to a temporary
// sibling which is renamed into place only after the exit status and the
// structural sanity check both pass, so a concurrent or failed run never
// leaves a half-written artifact at the final path.
func (v *Invoker) Run(ctx context.Context, sourcePath, indexPath string, extraArgs []string) (Outcome, error) {
	execPath, err := v.ResolveExecutable()
	if err != nil {
		var notFound *ExecNotFoundError
		if errors.As(err, &notFound) {
			return Outcome{ExecPath: notFound.Path}, err
		}
		return Outcome{}, err
	}

	tmpPath := indexPath + ".tmp-" + uuid.NewString()
	defer os.Remove(tmpPath)

	args := v.buildArgs(sourcePath, tmpPath, extraArgs)
	v.logger.Info("running indexer",
		zap.String("tool", v.tool),
		zap.String("exec", execPath),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, execPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	out := Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
		ExecPath: execPath,
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	if runErr != nil {
		return out, fmt.Errorf("%s failed with exit code %d: %w", v.tool, out.ExitCode, runErr)
	}

	if v.sanity != nil {
		if err := v.sanity(tmpPath); err != nil {
			return out, fmt.Errorf("%s exited cleanly but produced an invalid index: %w", v.tool, err)
		}
	}
	if err := os.Rename(tmpPath, indexPath); err != nil {
		return out, fmt.Errorf("failed to move index into place: %w", err)
	}

	out.OK = true
	v.logger.Info("index created",
		zap.String("tool", v.tool),
		zap.String("index", indexPath))
	return out, nil
}
