// Package loader resolves a compiled class inside a single workspace and invokes its
// entry point.
//
// A loading context only searches the workspace directory it was created for. The
// runtime own classes (the JDK) are the only fallback, user classes from other
// workspaces, the host CLASSPATH or parent directories are never visible. Contexts
// are single use: one resolution and one invocation, then they are discarded.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/slok/jeval/internal/classfile"
	"github.com/slok/jeval/internal/conventions"
	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/model"
	"github.com/slok/jeval/internal/toolchain"
)

// LoaderConfig is the configuration for the loader.
type LoaderConfig struct {
	Toolchain toolchain.Toolchain
	// Stdin, Stdout and Stderr are passed to the invoked program untouched.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env are extra environment variables for the invoked program.
	Env    map[string]string
	Logger log.Logger
}

func (c *LoaderConfig) defaults() error {
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "loader.Loader"})
	return nil
}

// Loader creates loading contexts scoped to workspaces.
type Loader struct {
	toolchain toolchain.Toolchain
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	env       map[string]string
	logger    log.Logger
}

// NewLoader creates a new loader.
func NewLoader(cfg LoaderConfig) (*Loader, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Loader{
		toolchain: cfg.Toolchain,
		stdin:     cfg.Stdin,
		stdout:    cfg.Stdout,
		stderr:    cfg.Stderr,
		env:       cfg.Env,
		logger:    cfg.Logger,
	}, nil
}

// NewContext returns a loading context whose only search root is the workspace directory.
func (l *Loader) NewContext(ws *model.Workspace) (*Context, error) {
	root, err := filepath.Abs(ws.Dir)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute workspace path: %w: %w", model.ErrEnvironment, err)
	}

	return &Context{
		root:   root,
		loader: l,
		logger: l.logger.WithValues(log.Kv{"workspace": ws.ID}),
	}, nil
}

// Context is a single use loading context.
type Context struct {
	root   string
	loader *Loader
	logger log.Logger

	mu       sync.Mutex
	resolved bool
}

// Root returns the only directory the context searches classes in.
func (c *Context) Root() string { return c.root }

// Resolve finds the class by name in the context root and its entry point method.
//
// It fails with model.ErrResolution when the class can't be found or is not a valid
// class with that name, and with model.ErrInvocation when the class has no public
// static `main(String[])` method.
func (c *Context) Resolve(className string) (*EntryPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolved {
		return nil, fmt.Errorf("loading context already used: %w", model.ErrNotValid)
	}
	c.resolved = true

	classPath := conventions.ClassFilePath(c.root, className)
	if filepath.Dir(classPath) != c.root {
		return nil, fmt.Errorf("class %q is outside of the loading context: %w", className, model.ErrResolution)
	}

	data, err := os.ReadFile(classPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("class %q not found: %w", className, model.ErrResolution)
		}
		return nil, fmt.Errorf("could not read class %q: %w: %w", className, model.ErrResolution, err)
	}

	class, err := classfile.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("class %q is not valid: %w: %w", className, model.ErrResolution, err)
	}

	if class.Name != className {
		return nil, fmt.Errorf("class %q has wrong name %q: %w", className, class.Name, model.ErrResolution)
	}

	if !class.IsPublic() {
		return nil, fmt.Errorf("class %q is not public: %w", className, model.ErrInvocation)
	}

	main, ok := c.findMain(class)
	if !ok {
		return nil, fmt.Errorf("class %q has no main(String[]) method: %w", className, model.ErrInvocation)
	}
	if !main.IsPublic() || !main.IsStatic() {
		return nil, fmt.Errorf("class %q main method must be public and static: %w", className, model.ErrInvocation)
	}

	c.logger.Debugf("Resolved class %s (class file version %d.%d)", class.Name, class.MajorVersion, class.MinorVersion)

	return &EntryPoint{className: className, ctx: c}, nil
}

// findMain looks for `main(String[])` in the class and then up its super classes, as
// long as they live in the context root. JDK classes are not searched.
func (c *Context) findMain(class *classfile.Class) (classfile.Method, bool) {
	seen := map[string]bool{}
	for {
		if m, ok := class.MainMethod(); ok {
			return m, true
		}

		super := class.SuperName
		if super == "" || super == "java.lang.Object" || strings.Contains(super, ".") || seen[super] {
			return classfile.Method{}, false
		}
		seen[super] = true

		data, err := os.ReadFile(conventions.ClassFilePath(c.root, super))
		if err != nil {
			return classfile.Method{}, false
		}
		superClass, err := classfile.Parse(bytes.NewReader(data))
		if err != nil || superClass.Name != super {
			return classfile.Method{}, false
		}

		c.logger.Debugf("Looking for main method of %s in super class %s", class.Name, super)
		class = superClass
	}
}

// EntryPoint is the resolved main method of a class.
type EntryPoint struct {
	className string
	ctx       *Context

	mu      sync.Mutex
	invoked bool
}

// ClassName returns the class the entry point belongs to.
func (e *EntryPoint) ClassName() string { return e.className }

// Invoke runs the entry point with no arguments and blocks until it finishes. The
// program output is surrounded by blank lines on stdout and not captured.
func (e *EntryPoint) Invoke(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.invoked {
		return fmt.Errorf("entry point already invoked: %w", model.ErrNotValid)
	}
	e.invoked = true

	l := e.ctx.loader
	fmt.Fprintln(l.stdout)
	defer fmt.Fprintln(l.stdout)

	res, err := l.toolchain.Launch(ctx, e.ctx.root, e.className, model.LaunchOpts{
		Stdin:  l.stdin,
		Stdout: l.stdout,
		Stderr: l.stderr,
		Env:    l.env,
	})
	if err != nil {
		return fmt.Errorf("could not launch %s: %w: %w", e.className, model.ErrInvocation, err)
	}

	if res.ExitCode != 0 {
		return fmt.Errorf("%s.main exited with code %d: %w", e.className, res.ExitCode, model.ErrInvocation)
	}

	return nil
}
