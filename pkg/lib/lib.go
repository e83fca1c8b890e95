package lib

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/slok/jeval/internal/app/eval"
	"github.com/slok/jeval/internal/compiler"
	"github.com/slok/jeval/internal/conventions"
	"github.com/slok/jeval/internal/loader"
	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/toolchain"
	"github.com/slok/jeval/internal/toolchain/docker"
	"github.com/slok/jeval/internal/toolchain/fake"
	"github.com/slok/jeval/internal/toolchain/local"
	"github.com/slok/jeval/internal/workspace"
)

// Config configures the SDK client.
//
// All fields are optional, an empty Config{} uses the local JDK and ./eval/ as
// the workspaces directory.
type Config struct {
	// BaseDir is the directory where run workspaces are created.
	// Default: ./eval/.
	BaseDir string

	// Toolchain selects how sources are compiled and run.
	// Default: [ToolchainLocal].
	Toolchain ToolchainType

	// JavaHome is the JDK directory for [ToolchainLocal].
	// Default: JAVA_HOME, then PATH.
	JavaHome string

	// DockerImage is the JDK image for [ToolchainDocker].
	// Default: eclipse-temurin:21-jdk.
	DockerImage string

	// Timeout bounds the compilation and the execution separately, 0 disables it.
	Timeout time.Duration

	// Env are extra environment variables for the evaluated programs.
	Env map[string]string

	// Stdin, Stdout and Stderr are the streams of the compiler and the program.
	// Default: discarded (stdin is empty).
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.BaseDir == "" {
		c.BaseDir = conventions.DefaultBaseDir
	}

	if c.Toolchain == "" {
		c.Toolchain = ToolchainLocal
	}

	if c.DockerImage == "" {
		c.DockerImage = conventions.DefaultDockerImage
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative: %w", ErrInvalidArgs)
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

	return nil
}

// Client is the main SDK entry point.
type Client struct {
	toolchain toolchain.Toolchain
	svc       *eval.Service
}

// New creates a new SDK client.
func New(cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tc, err := newToolchain(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create toolchain: %w", err)
	}

	wm, err := workspace.NewManager(workspace.ManagerConfig{
		BaseDir: cfg.BaseDir,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create workspace manager: %w", err)
	}

	comp, err := compiler.NewInvoker(compiler.InvokerConfig{
		Toolchain: tc,
		Stdout:    cfg.Stdout,
		Stderr:    cfg.Stderr,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create compiler: %w", err)
	}

	ldr, err := loader.NewLoader(loader.LoaderConfig{
		Toolchain: tc,
		Stdin:     cfg.Stdin,
		Stdout:    cfg.Stdout,
		Stderr:    cfg.Stderr,
		Env:       cfg.Env,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create loader: %w", err)
	}

	svc, err := eval.NewService(eval.ServiceConfig{
		Workspaces: wm,
		Compiler:   comp,
		Loader:     ldr,
		Timeout:    cfg.Timeout,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	return &Client{
		toolchain: tc,
		svc:       svc,
	}, nil
}

func newToolchain(cfg Config) (toolchain.Toolchain, error) {
	switch cfg.Toolchain {
	case ToolchainLocal:
		return local.NewToolchain(local.ToolchainConfig{
			JavaHome: cfg.JavaHome,
			Logger:   cfg.Logger,
		})
	case ToolchainDocker:
		return docker.NewToolchain(docker.ToolchainConfig{
			Image:  cfg.DockerImage,
			Logger: cfg.Logger,
		})
	case ToolchainFake:
		return fake.NewToolchain(fake.ToolchainConfig{
			Logger: cfg.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported toolchain type: %s: %w", cfg.Toolchain, ErrInvalidArgs)
	}
}

// Eval moves the source file into a fresh workspace, compiles it and runs the
// main method of its public class.
//
// The returned result is never nil, on failure it tells the stage the run
// failed at. Returned errors can be inspected with [errors.Is] against the
// package sentinels.
func (c *Client) Eval(ctx context.Context, sourcePath string) (*EvalResult, error) {
	res, err := c.svc.Run(ctx, eval.Request{Args: []string{sourcePath}})
	return fromInternalResult(res), err
}

// Check runs the preflight checks of the configured toolchain.
func (c *Client) Check(ctx context.Context) []CheckResult {
	return fromInternalCheckResults(c.toolchain.Check(ctx))
}
