// Package local runs the compiler and the launcher installed on the host.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/slok/jeval/internal/conventions"
	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/model"
	"github.com/slok/jeval/internal/utils/env"
)

// ToolchainConfig is the configuration for the local toolchain.
type ToolchainConfig struct {
	// JavaHome is the JDK installation directory. If empty `JAVA_HOME` is used, and
	// if that is empty too the binaries are looked up in `PATH`.
	JavaHome string
	Logger   log.Logger
}

func (c *ToolchainConfig) defaults() error {
	if c.JavaHome == "" {
		c.JavaHome = os.Getenv("JAVA_HOME")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "toolchain.Local"})
	return nil
}

// Toolchain is the host implementation of the toolchain.Toolchain interface.
type Toolchain struct {
	javaHome string
	logger   log.Logger
}

// NewToolchain creates a new local toolchain.
func NewToolchain(cfg ToolchainConfig) (*Toolchain, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Toolchain{
		javaHome: cfg.JavaHome,
		logger:   cfg.Logger,
	}, nil
}

func (t *Toolchain) binPath(name string) (string, error) {
	if t.javaHome != "" {
		p := filepath.Join(t.javaHome, "bin", name)
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s not found in java home %q: %w", name, t.javaHome, err)
		}
		return p, nil
	}

	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	return p, nil
}

// Check verifies the compiler and launcher are available and report their version.
func (t *Toolchain) Check(ctx context.Context) []model.CheckResult {
	results := []model.CheckResult{}
	for _, bin := range []string{conventions.CompilerBin, conventions.LauncherBin} {
		id := bin + "_available"
		p, err := t.binPath(bin)
		if err != nil {
			results = append(results, model.CheckResult{ID: id, Status: model.CheckStatusError, Message: err.Error()})
			continue
		}

		// Both print the version on stdout or stderr depending on the JDK release.
		var out bytes.Buffer
		cmd := exec.CommandContext(ctx, p, "-version")
		cmd.Stdout = &out
		cmd.Stderr = &out
		if err := cmd.Run(); err != nil {
			results = append(results, model.CheckResult{ID: id, Status: model.CheckStatusWarning, Message: fmt.Sprintf("%s found but version check failed: %s", p, err)})
			continue
		}

		version := strings.TrimSpace(strings.SplitN(out.String(), "\n", 2)[0])
		results = append(results, model.CheckResult{ID: id, Status: model.CheckStatusOK, Message: fmt.Sprintf("%s (%s)", p, version)})
	}

	return results
}

// Compile runs the compiler on the source, the classes are written next to it.
func (t *Toolchain) Compile(ctx context.Context, sourcePath string, opts model.CompileOpts) (*model.CompileResult, error) {
	javac, err := t.binPath(conventions.CompilerBin)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, javac, sourcePath)
	cmd.Dir = filepath.Dir(sourcePath)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	t.logger.Debugf("Running %s %s", javac, sourcePath)
	exitCode, err := run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("could not run compiler: %w", err)
	}

	return &model.CompileResult{ExitCode: exitCode}, nil
}

// Launch runs the class main method with the class path as the only user class root.
func (t *Toolchain) Launch(ctx context.Context, classPath string, className string, opts model.LaunchOpts) (*model.LaunchResult, error) {
	java, err := t.binPath(conventions.LauncherBin)
	if err != nil {
		return nil, err
	}

	// `-cp` replaces any CLASSPATH from the environment.
	cmd := exec.CommandContext(ctx, java, "-cp", classPath, className)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), env.ToList(opts.Env)...)
	}

	t.logger.Debugf("Running %s -cp %s %s", java, classPath, className)
	exitCode, err := run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("could not run launcher: %w", err)
	}

	return &model.LaunchResult{ExitCode: exitCode}, nil
}

// run runs the command and returns its exit code, only failing to start (or being
// cancelled) is an error.
func run(ctx context.Context, cmd *exec.Cmd) (int, error) {
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, fmt.Errorf("%w: %w", ctxErr, err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}

	return 0, err
}
