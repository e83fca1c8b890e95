// Package fake is an in-process toolchain that simulates the compiler and the
// launcher without a JDK. It's used by tests and by dry runs.
package fake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/slok/jeval/internal/classfile"
	"github.com/slok/jeval/internal/conventions"
	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/model"
)

var (
	classDeclRegexp = regexp.MustCompile(`public\s+class\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(?:extends\s+[\w.$]+\s*)?(?:implements\s+[\w.$,\s]+)?\{`)
	mainDeclRegexp  = regexp.MustCompile(`public\s+static\s+void\s+main\s*\(\s*String\s*(?:\[\s*\]|\.\.\.)`)
	printRegexp     = regexp.MustCompile(`print(ln)?\(\s*"((?:[^"\\]|\\.)*)"\s*\)`)
	throwRegexp     = regexp.MustCompile(`throw\s+new\s+([\w.$]+)\(\s*"((?:[^"\\]|\\.)*)"\s*\)`)
)

// ToolchainConfig is the configuration for the fake toolchain.
type ToolchainConfig struct {
	Logger log.Logger
}

func (c *ToolchainConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "toolchain.Fake"})
	return nil
}

// Toolchain is a fake implementation of the toolchain.Toolchain interface.
//
// The compiler accepts sources with balanced braces that declare a public class, and
// writes a class file (with a main method if the source declares one). The launcher
// prints the string literals passed to `print`/`println` calls in the class source and
// fails like the JVM when the source throws.
type Toolchain struct {
	mu       sync.Mutex
	compiled []string
	launched []string
	logger   log.Logger
}

// NewToolchain creates a new fake toolchain.
func NewToolchain(cfg ToolchainConfig) (*Toolchain, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Toolchain{logger: cfg.Logger}, nil
}

// Compiled returns the source paths compiled so far.
func (t *Toolchain) Compiled() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.compiled...)
}

// Launched returns the class paths and names (`<classpath>:<name>`) launched so far.
func (t *Toolchain) Launched() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.launched...)
}

// Check always succeeds.
func (t *Toolchain) Check(_ context.Context) []model.CheckResult {
	return []model.CheckResult{{ID: "fake_toolchain", Status: model.CheckStatusOK, Message: "Fake toolchain, nothing is really compiled"}}
}

// Compile simulates the compiler.
func (t *Toolchain) Compile(ctx context.Context, sourcePath string, opts model.CompileOpts) (*model.CompileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.compiled = append(t.compiled, sourcePath)
	t.mu.Unlock()

	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(stderr, "error: file not found: %s\n", sourcePath)
		return &model.CompileResult{ExitCode: 2}, nil
	}

	if strings.Count(string(src), "{") != strings.Count(string(src), "}") {
		fmt.Fprintf(stderr, "%s:1: error: reached end of file while parsing\n", filepath.Base(sourcePath))
		return &model.CompileResult{ExitCode: 1}, nil
	}

	match := classDeclRegexp.FindSubmatch(src)
	if match == nil {
		fmt.Fprintf(stderr, "%s:1: error: class, interface, enum, or record expected\n", filepath.Base(sourcePath))
		return &model.CompileResult{ExitCode: 1}, nil
	}
	className := string(match[1])

	// Like javac, a public class must live in a file with its name.
	if filepath.Base(sourcePath) != className+conventions.SourceExt {
		fmt.Fprintf(stderr, "%s:1: error: class %s is public, should be declared in a file named %s%s\n", filepath.Base(sourcePath), className, className, conventions.SourceExt)
		return &model.CompileResult{ExitCode: 1}, nil
	}

	spec := classfile.Spec{Name: className}
	if mainDeclRegexp.Match(src) {
		spec.Methods = append(spec.Methods, classfile.MainMethod())
	}

	classPath := conventions.ClassFilePath(filepath.Dir(sourcePath), className)
	if err := os.WriteFile(classPath, classfile.Build(spec), 0o644); err != nil {
		return nil, fmt.Errorf("could not write class file: %w", err)
	}

	t.logger.Debugf("Compiled %s into %s", sourcePath, classPath)

	return &model.CompileResult{ExitCode: 0}, nil
}

// Launch simulates the launcher.
func (t *Toolchain) Launch(ctx context.Context, classPath string, className string, opts model.LaunchOpts) (*model.LaunchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.launched = append(t.launched, classPath+":"+className)
	t.mu.Unlock()

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	data, err := os.ReadFile(conventions.ClassFilePath(classPath, className))
	if err != nil {
		fmt.Fprintf(stderr, "Error: Could not find or load main class %s\n", className)
		return &model.LaunchResult{ExitCode: 1}, nil
	}
	class, err := classfile.Parse(bytes.NewReader(data))
	if err != nil {
		fmt.Fprintf(stderr, "Error: Could not find or load main class %s\n", className)
		return &model.LaunchResult{ExitCode: 1}, nil
	}
	if m, ok := class.MainMethod(); !ok || !m.IsStatic() {
		fmt.Fprintf(stderr, "Error: Main method not found in class %s\n", className)
		return &model.LaunchResult{ExitCode: 1}, nil
	}

	// Without the source there is nothing to print.
	src, err := os.ReadFile(conventions.SourceFilePath(classPath, className))
	if err != nil {
		return &model.LaunchResult{ExitCode: 0}, nil
	}

	for _, m := range printRegexp.FindAllSubmatch(src, -1) {
		text := strings.ReplaceAll(string(m[2]), `\"`, `"`)
		if len(m[1]) > 0 {
			text += "\n"
		}
		fmt.Fprint(stdout, text)
	}

	if m := throwRegexp.FindSubmatch(src); m != nil {
		fmt.Fprintf(stderr, "Exception in thread \"main\" %s: %s\n\tat %s.main(%s%s)\n", m[1], m[2], className, className, conventions.SourceExt)
		return &model.LaunchResult{ExitCode: 1}, nil
	}

	return &model.LaunchResult{ExitCode: 0}, nil
}
