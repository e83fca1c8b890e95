package toolchain

import (
	"context"

	"github.com/slok/jeval/internal/model"
)

// Toolchain is the interface for the external compiler and runtime used to build
// and run a single class.
type Toolchain interface {
	// Check performs preflight checks and returns the results.
	Check(ctx context.Context) []model.CheckResult

	// Compile compiles the source file, the compiled classes are placed next to it.
	// A compiler that runs and fails is not an error, it's reported in the result exit code.
	Compile(ctx context.Context, sourcePath string, opts model.CompileOpts) (*model.CompileResult, error)

	// Launch runs the entry point of className with classPath as the only user class
	// search root and no arguments. The program exit code is reported in the result.
	Launch(ctx context.Context, classPath string, className string, opts model.LaunchOpts) (*model.LaunchResult, error)
}
