// Package compiler stages a workspace source under its class name and compiles it.
package compiler

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/slok/jeval/internal/conventions"
	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/model"
	"github.com/slok/jeval/internal/toolchain"
	"github.com/slok/jeval/internal/utils/file"
)

// InvokerConfig is the configuration for the compiler invoker.
type InvokerConfig struct {
	Toolchain toolchain.Toolchain
	// Stdout and Stderr receive the compiler output as is.
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

func (c *InvokerConfig) defaults() error {
	if c.Toolchain == nil {
		return fmt.Errorf("toolchain is required")
	}
	if c.Stdout == nil {
		c.Stdout = io.Discard
	}
	if c.Stderr == nil {
		c.Stderr = io.Discard
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "compiler.Invoker"})
	return nil
}

// Invoker renames staged sources and runs the compiler on them.
type Invoker struct {
	toolchain toolchain.Toolchain
	stdout    io.Writer
	stderr    io.Writer
	logger    log.Logger
}

// NewInvoker creates a new compiler invoker.
func NewInvoker(cfg InvokerConfig) (*Invoker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Invoker{
		toolchain: cfg.Toolchain,
		stdout:    cfg.Stdout,
		stderr:    cfg.Stderr,
		logger:    cfg.Logger,
	}, nil
}

// Stage renames the staged source to `<className>.java` inside the workspace, the
// compiler requires a public class to live in a file with its name. The class name
// is used as is, but the source can't leave the workspace.
func (i *Invoker) Stage(ws *model.Workspace, className, stagedPath string) (string, error) {
	sourcePath := conventions.SourceFilePath(ws.Dir, className)
	if filepath.Dir(sourcePath) != filepath.Clean(ws.Dir) {
		return "", fmt.Errorf("class %q source would be outside of the workspace: %w", className, model.ErrEnvironment)
	}
	if err := file.Move(stagedPath, sourcePath); err != nil {
		return "", fmt.Errorf("could not rename staged file: %w: %w", model.ErrEnvironment, err)
	}

	i.logger.Debugf("Staged source renamed to %s", sourcePath)

	return sourcePath, nil
}

// Compile compiles the source. It blocks until the compiler finishes, a compiler that
// runs and fails is reported with the exit code, not with an error.
func (i *Invoker) Compile(ctx context.Context, sourcePath string) (*model.CompileResult, error) {
	absPath, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute source path: %w: %w", model.ErrEnvironment, err)
	}

	res, err := i.toolchain.Compile(ctx, absPath, model.CompileOpts{
		Stdout: i.stdout,
		Stderr: i.stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("could not compile %s: %w", absPath, err)
	}

	i.logger.Debugf("Compiler exited with code %d", res.ExitCode)

	return res, nil
}
