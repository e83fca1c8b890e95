package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/jeval/internal/app/eval"
	"github.com/slok/jeval/internal/compiler"
	"github.com/slok/jeval/internal/conventions"
	"github.com/slok/jeval/internal/loader"
	"github.com/slok/jeval/internal/model"
	"github.com/slok/jeval/internal/utils/env"
	"github.com/slok/jeval/internal/workspace"
)

// EvalCommand compiles and runs a single source file.
type EvalCommand struct {
	rootCmd *RootCommand

	args      []string
	baseDir   string
	timeout   time.Duration
	check     bool
	envSpecs  []string
	toolchain toolchainOpts
}

// NewEvalCommand returns the eval command. It's registered on the application itself,
// there are no subcommands.
func NewEvalCommand(rootCmd *RootCommand, app *kingpin.Application) *EvalCommand {
	c := &EvalCommand{rootCmd: rootCmd}

	app.Arg("source", "Path to the source file to compile and run, it's moved into the workspace.").StringsVar(&c.args)
	app.Flag("base-dir", "Directory where run workspaces are created.").Default(conventions.DefaultBaseDir).StringVar(&c.baseDir)
	app.Flag("timeout", "Timeout for the compilation and for the execution, 0 disables it.").Default("0s").DurationVar(&c.timeout)
	app.Flag("env", "Environment variable for the program as KEY=VALUE, a bare KEY is taken from the current env (repeatable).").Short('e').StringsVar(&c.envSpecs)
	app.Flag("check", "Run the toolchain preflight checks and exit.").BoolVar(&c.check)
	app.Flag("toolchain", "Toolchain used to compile and run.").Default(ToolchainLocal).EnumVar(&c.toolchain.kind, ToolchainLocal, ToolchainDocker, ToolchainFake)
	app.Flag("java-home", "JDK directory for the local toolchain (defaults to JAVA_HOME, then PATH).").StringVar(&c.toolchain.javaHome)
	app.Flag("docker-image", "JDK image for the docker toolchain.").Default(conventions.DefaultDockerImage).StringVar(&c.toolchain.dockerImage)
	app.Flag("docker-skip-pull", "Don't pull the docker toolchain image.").BoolVar(&c.toolchain.skipPull)

	return c
}

func (c EvalCommand) Name() string { return "eval" }

func (c EvalCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	tc, err := newToolchain(c.toolchain, logger)
	if err != nil {
		return fmt.Errorf("could not create toolchain: %w", err)
	}

	if c.check {
		return printChecks(c.rootCmd.Stdout, c.toolchain.kind, tc.Check(ctx))
	}

	programEnv, err := env.ParseSpecs(c.envSpecs)
	if err != nil {
		return fmt.Errorf("invalid env: %w: %w", model.ErrInvalidArgs, err)
	}

	wm, err := workspace.NewManager(workspace.ManagerConfig{
		BaseDir: c.baseDir,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create workspace manager: %w", err)
	}

	comp, err := compiler.NewInvoker(compiler.InvokerConfig{
		Toolchain: tc,
		Stdout:    c.rootCmd.Stdout,
		Stderr:    c.rootCmd.Stderr,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("could not create compiler: %w", err)
	}

	ldr, err := loader.NewLoader(loader.LoaderConfig{
		Toolchain: tc,
		Stdin:     c.rootCmd.Stdin,
		Stdout:    c.rootCmd.Stdout,
		Stderr:    c.rootCmd.Stderr,
		Env:       programEnv,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("could not create loader: %w", err)
	}

	svc, err := eval.NewService(eval.ServiceConfig{
		Workspaces: wm,
		Compiler:   comp,
		Loader:     ldr,
		Timeout:    c.timeout,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	_, err = svc.Run(ctx, eval.Request{Args: c.args})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	return nil
}
