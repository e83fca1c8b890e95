package commands

import (
	"fmt"

	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/toolchain"
	"github.com/slok/jeval/internal/toolchain/docker"
	"github.com/slok/jeval/internal/toolchain/fake"
	"github.com/slok/jeval/internal/toolchain/local"
)

const (
	// ToolchainLocal uses the JDK installed on the host.
	ToolchainLocal = "local"
	// ToolchainDocker uses a JDK container image.
	ToolchainDocker = "docker"
	// ToolchainFake simulates the JDK, nothing is really compiled.
	ToolchainFake = "fake"
)

type toolchainOpts struct {
	kind        string
	javaHome    string
	dockerImage string
	skipPull    bool
}

func newToolchain(opts toolchainOpts, logger log.Logger) (toolchain.Toolchain, error) {
	switch opts.kind {
	case ToolchainLocal:
		return local.NewToolchain(local.ToolchainConfig{
			JavaHome: opts.javaHome,
			Logger:   logger,
		})
	case ToolchainDocker:
		return docker.NewToolchain(docker.ToolchainConfig{
			Image:    opts.dockerImage,
			SkipPull: opts.skipPull,
			Logger:   logger,
		})
	case ToolchainFake:
		return fake.NewToolchain(fake.ToolchainConfig{
			Logger: logger,
		})
	}

	return nil, fmt.Errorf("unknown toolchain %q", opts.kind)
}
