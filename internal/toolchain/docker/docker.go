// Package docker runs the compiler and the launcher inside a JDK container, with the
// workspace bind mounted at the same path it has on the host.
package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/slok/jeval/internal/conventions"
	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/model"
	"github.com/slok/jeval/internal/utils/env"
)

// DockerClient is the interface for Docker operations that we use.
// This allows us to mock the Docker client for testing.
type DockerClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
}

// ToolchainConfig is the configuration for the Docker toolchain.
type ToolchainConfig struct {
	Client DockerClient
	// Image is the JDK image used to compile and run.
	Image string
	// SkipPull doesn't pull the image before using it.
	SkipPull bool
	Logger   log.Logger
}

func (c *ToolchainConfig) defaults() error {
	if c.Client == nil {
		// Create a default Docker client
		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			return fmt.Errorf("could not create Docker client: %w", err)
		}
		c.Client = cli
	}
	if c.Image == "" {
		c.Image = conventions.DefaultDockerImage
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "toolchain.Docker"})
	return nil
}

// Toolchain is the Docker implementation of the toolchain.Toolchain interface.
type Toolchain struct {
	client   DockerClient
	image    string
	skipPull bool
	pullMu   sync.Mutex
	pulled   bool
	logger   log.Logger
}

// NewToolchain creates a new Docker toolchain.
func NewToolchain(cfg ToolchainConfig) (*Toolchain, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Toolchain{
		client:   cfg.Client,
		image:    cfg.Image,
		skipPull: cfg.SkipPull,
		logger:   cfg.Logger,
	}, nil
}

// Check verifies the Docker daemon is reachable.
func (t *Toolchain) Check(ctx context.Context) []model.CheckResult {
	ping, err := t.client.Ping(ctx)
	if err != nil {
		return []model.CheckResult{{ID: "docker_daemon", Status: model.CheckStatusError, Message: fmt.Sprintf("Docker daemon not reachable: %s", err)}}
	}

	return []model.CheckResult{
		{ID: "docker_daemon", Status: model.CheckStatusOK, Message: fmt.Sprintf("Docker daemon reachable (API %s)", ping.APIVersion)},
		{ID: "jdk_image", Status: model.CheckStatusOK, Message: fmt.Sprintf("Using image %s", t.image)},
	}
}

// Compile runs the compiler in a container on the source directory.
func (t *Toolchain) Compile(ctx context.Context, sourcePath string, opts model.CompileOpts) (*model.CompileResult, error) {
	absSource, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute source path: %w", err)
	}
	dir := filepath.Dir(absSource)

	exitCode, err := t.runContainer(ctx, dir, []string{conventions.CompilerBin, absSource}, nil, opts.Stdout, opts.Stderr)
	if err != nil {
		return nil, fmt.Errorf("could not run compiler: %w", err)
	}

	return &model.CompileResult{ExitCode: exitCode}, nil
}

// Launch runs the class main method in a container with the class path as the only user class root.
func (t *Toolchain) Launch(ctx context.Context, classPath string, className string, opts model.LaunchOpts) (*model.LaunchResult, error) {
	absClassPath, err := filepath.Abs(classPath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute class path: %w", err)
	}
	if opts.Stdin != nil {
		t.logger.Debugf("Standard input is not forwarded to containers")
	}

	exitCode, err := t.runContainer(ctx, absClassPath, []string{conventions.LauncherBin, "-cp", absClassPath, className}, env.ToList(opts.Env), opts.Stdout, opts.Stderr)
	if err != nil {
		return nil, fmt.Errorf("could not run launcher: %w", err)
	}

	return &model.LaunchResult{ExitCode: exitCode}, nil
}

func (t *Toolchain) ensureImage(ctx context.Context) error {
	if t.skipPull {
		return nil
	}

	t.pullMu.Lock()
	defer t.pullMu.Unlock()
	if t.pulled {
		return nil
	}

	t.logger.Infof("Pulling image: %s", t.image)
	pullResp, err := t.client.ImagePull(ctx, t.image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", t.image, err)
	}
	// Consume the pull response to ensure it completes
	_, _ = io.Copy(io.Discard, pullResp)
	pullResp.Close()
	t.pulled = true

	return nil
}

// runContainer runs a one shot container with dir mounted and returns the command exit code.
func (t *Toolchain) runContainer(ctx context.Context, dir string, cmd, envList []string, stdout, stderr io.Writer) (int, error) {
	if err := t.ensureImage(ctx); err != nil {
		return 0, err
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	containerConfig := &container.Config{
		Image:      t.image,
		Cmd:        cmd,
		Env:        envList,
		WorkingDir: dir,
		Tty:        false,
	}
	// Files written on the mount must belong to the host user so the workspace can be removed.
	if uid, gid := os.Getuid(), os.Getgid(); uid >= 0 && gid >= 0 {
		containerConfig.User = strconv.Itoa(uid) + ":" + strconv.Itoa(gid)
	}
	hostConfig := &container.HostConfig{
		Binds: []string{dir + ":" + dir},
	}

	t.logger.Debugf("Running container: %s", strings.Join(cmd, " "))
	resp, err := t.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return 0, fmt.Errorf("failed to create container: %w", err)
	}
	defer func() {
		// Use a fresh context, the run one could be cancelled.
		if err := t.client.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true}); err != nil {
			t.logger.Warningf("Could not remove container %s: %s", resp.ID, err)
		}
	}()

	waitC, waitErrC := t.client.ContainerWait(ctx, resp.ID, container.WaitConditionNextExit)

	if err := t.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return 0, fmt.Errorf("failed to start container: %w", err)
	}

	logs, err := t.client.ContainerLogs(ctx, resp.ID, container.LogsOptions{ShowStdout: true, ShowStderr: true, Follow: true})
	if err != nil {
		return 0, fmt.Errorf("failed to get container logs: %w", err)
	}
	defer logs.Close()

	if _, err := stdcopy.StdCopy(stdout, stderr, logs); err != nil {
		return 0, fmt.Errorf("failed to read container logs: %w", err)
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case err := <-waitErrC:
		return 0, fmt.Errorf("failed waiting for container: %w", err)
	case res := <-waitC:
		if res.Error != nil {
			return 0, fmt.Errorf("container wait error: %s", res.Error.Message)
		}
		return int(res.StatusCode), nil
	}
}
