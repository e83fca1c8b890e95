package eval

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/jeval/internal/entrypoint"
	"github.com/slok/jeval/internal/loader"
	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/model"
)

// WorkspaceManager provisions and removes run workspaces.
type WorkspaceManager interface {
	Provision(ctx context.Context) (*model.Workspace, error)
	PlaceInput(ws *model.Workspace, sourcePath string) (string, error)
	Teardown(ws *model.Workspace) error
}

// Compiler stages and compiles workspace sources.
type Compiler interface {
	Stage(ws *model.Workspace, className, stagedPath string) (string, error)
	Compile(ctx context.Context, sourcePath string) (*model.CompileResult, error)
}

// Loader creates loading contexts scoped to a workspace.
type Loader interface {
	NewContext(ws *model.Workspace) (*loader.Context, error)
}

// ServiceConfig is the configuration for the eval service.
type ServiceConfig struct {
	Workspaces WorkspaceManager
	Compiler   Compiler
	Loader     Loader
	// Timeout bounds the compilation and the invocation separately, 0 means no timeout.
	Timeout time.Duration
	Logger  log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Workspaces == nil {
		return fmt.Errorf("workspace manager is required")
	}
	if c.Compiler == nil {
		return fmt.Errorf("compiler is required")
	}
	if c.Loader == nil {
		return fmt.Errorf("loader is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Eval"})
	return nil
}

// Service evaluates a single source file: it compiles it in a fresh workspace, runs
// its entry point and removes the workspace.
type Service struct {
	workspaces WorkspaceManager
	compiler   Compiler
	loader     Loader
	timeout    time.Duration
	logger     log.Logger
}

// NewService creates a new eval service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		workspaces: cfg.Workspaces,
		compiler:   cfg.Compiler,
		loader:     cfg.Loader,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}, nil
}

// Request contains the parameters for an evaluation.
type Request struct {
	// Args are the positional command line arguments, exactly one source path is accepted.
	Args []string
}

// Run evaluates the source. The returned result is always set, on failure it's
// returned together with the error. The workspace is removed on every exit path
// once provisioned.
func (s *Service) Run(ctx context.Context, req Request) (res *model.ExecutionResult, err error) {
	runID := ulid.Make().String()
	logger := s.logger.WithValues(log.Kv{"run": runID})
	res = &model.ExecutionResult{RunID: runID, Stage: model.StageStart}

	var ws *model.Workspace
	defer func() {
		if err != nil {
			res.FailedAt = res.Stage
			res.Stage = model.StageFailed
			res.Err = err
			logger.WithValues(log.Kv{"stage": res.FailedAt}).Errorf("Evaluation failed: %s", err)
		}

		if ws == nil {
			return
		}
		if terr := s.workspaces.Teardown(ws); terr != nil {
			logger.Errorf("Could not clean workspace: %s", terr)
			return
		}
		res.WorkspaceRemoved = true
		if err == nil {
			res.Stage = model.StageCleanedUp
		}
	}()

	logger.Infof("--- jeval")

	// 1. Validate args.
	if len(req.Args) != 1 {
		return res, fmt.Errorf("expected 1 source file argument, got %d: %w", len(req.Args), model.ErrInvalidArgs)
	}
	sourcePath := req.Args[0]
	res.Stage = model.StageArgsValidated

	// 2. Validate file.
	info, err := os.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, fmt.Errorf("%q: %w", sourcePath, model.ErrFileNotFound)
		}
		return res, fmt.Errorf("could not stat %q: %w: %w", sourcePath, model.ErrEnvironment, err)
	}
	if info.IsDir() {
		return res, fmt.Errorf("%q is a directory: %w", sourcePath, model.ErrFileNotFound)
	}
	res.Stage = model.StageFileValidated

	// 3. Prepare workspace.
	logger.Infof("Preparing workspace...")
	ws, err = s.workspaces.Provision(ctx)
	if err != nil {
		return res, fmt.Errorf("could not provision workspace: %w", err)
	}
	res.Workspace = ws
	logger = logger.WithValues(log.Kv{"workspace": ws.ID})

	stagedPath, err := s.workspaces.PlaceInput(ws, sourcePath)
	if err != nil {
		return res, err
	}
	res.Stage = model.StageWorkspaceReady

	// 4. Extract entry point.
	logger.Infof("Processing file...")
	content, err := os.ReadFile(stagedPath)
	if err != nil {
		return res, fmt.Errorf("could not read staged file: %w: %w", model.ErrEnvironment, err)
	}
	source := model.SourceUnit{Path: sourcePath, Content: string(content)}
	className, err := entrypoint.Extract(source.Content)
	if err != nil {
		return res, fmt.Errorf("could not extract entry point from %q: %w", source.Path, err)
	}
	res.ClassName = className
	res.Stage = model.StageExtracted

	// 5. Stage source under the class name.
	compilePath, err := s.compiler.Stage(ws, className, stagedPath)
	if err != nil {
		return res, err
	}
	res.Stage = model.StageStaged

	// 6. Compile.
	logger.Infof("Compiling classes...")
	cres, err := s.compile(ctx, compilePath)
	if err != nil {
		return res, err
	}
	// The class can't be resolved without a successful compilation, fail here with the compiler result.
	if cres.ExitCode != 0 {
		return res, fmt.Errorf("class %s was not produced, compiler exited with code %d: %w", className, cres.ExitCode, model.ErrResolution)
	}
	res.Stage = model.StageCompiled

	// 7. Load.
	logger.Infof("Loading classes...")
	lctx, err := s.loader.NewContext(ws)
	if err != nil {
		return res, fmt.Errorf("could not create loading context: %w", err)
	}
	entryPoint, err := lctx.Resolve(className)
	if err != nil {
		return res, err
	}
	res.Stage = model.StageLoaded

	// 8. Invoke.
	logger.Infof("Executing main method of class %s...", className)
	if err := s.invoke(ctx, entryPoint); err != nil {
		return res, err
	}
	res.Stage = model.StageInvoked

	logger.Infof("Execution finished")

	return res, nil
}

func (s *Service) stepCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) compile(ctx context.Context, path string) (*model.CompileResult, error) {
	ctx, cancel := s.stepCtx(ctx)
	defer cancel()
	return s.compiler.Compile(ctx, path)
}

func (s *Service) invoke(ctx context.Context, ep *loader.EntryPoint) error {
	ctx, cancel := s.stepCtx(ctx)
	defer cancel()
	return ep.Invoke(ctx)
}
