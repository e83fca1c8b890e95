package jeval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/jeval/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary    string
	Toolchain string
}

func (c *Config) defaults() error {
	// go test changes the CWD to the test package directory, relative paths would break.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("JEVAL_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("jeval binary not found at %q: %w", c.Binary, err)
	}

	if c.Toolchain == "" {
		c.Toolchain = "local"
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "JEVAL_INTEGRATION"
		envBinary     = "JEVAL_INTEGRATION_BINARY"
		envToolchain  = "JEVAL_INTEGRATION_TOOLCHAIN"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary:    os.Getenv(envBinary),
		Toolchain: os.Getenv(envToolchain),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunEval evaluates a source file using baseDir for the workspaces.
func RunEval(ctx context.Context, config Config, baseDir, sourcePath string) (stdout, stderr []byte, err error) {
	args := []string{"--toolchain", config.Toolchain, "--base-dir", baseDir, sourcePath}
	return testutils.RunJeval(ctx, nil, config.Binary, args, true)
}

// RunCheck runs the toolchain preflight checks.
func RunCheck(ctx context.Context, config Config) (stdout, stderr []byte, err error) {
	return testutils.RunJeval(ctx, nil, config.Binary, []string{"--toolchain", config.Toolchain, "--check"}, true)
}
