package model

import "io"

// SourceUnit is the source file given to evaluate. It's read once and never mutated.
type SourceUnit struct {
	// Path is the path where the source was read from.
	Path string
	// Content is the raw source text.
	Content string
}

// Workspace is the temporary directory that owns all the files of a single run.
type Workspace struct {
	// ID is the random non-negative identifier used as the directory name.
	ID int64
	// Dir is the workspace directory path.
	Dir string
}

// CompileOpts contains options for a compilation.
type CompileOpts struct {
	// Stdout receives the compiler output (optional, defaults to discard).
	Stdout io.Writer
	// Stderr receives the compiler diagnostics (optional, defaults to discard).
	Stderr io.Writer
}

// CompileResult contains the result of a compilation.
type CompileResult struct {
	// ExitCode is the exit code of the compiler.
	ExitCode int
}

// LaunchOpts contains options for launching a compiled class entry point.
type LaunchOpts struct {
	// Stdin is the input stream for the program (optional).
	Stdin io.Reader
	// Stdout is the output stream for the program (optional, defaults to discard).
	Stdout io.Writer
	// Stderr is the error stream for the program (optional, defaults to discard).
	Stderr io.Writer
	// Env are extra environment variables for the program (optional).
	Env map[string]string
}

// LaunchResult contains the result of a launched entry point.
type LaunchResult struct {
	// ExitCode is the exit code of the launched program.
	ExitCode int
}
