// Package workspace manages the temporary directories where sources are staged,
// compiled and loaded.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/slok/jeval/internal/conventions"
	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/model"
	"github.com/slok/jeval/internal/utils/file"
)

// ManagerConfig is the configuration for the workspace manager.
type ManagerConfig struct {
	// BaseDir is the directory where workspaces are created, it's created if missing.
	BaseDir string
	// IDGenerator returns a random non-negative ID for a new workspace.
	IDGenerator func() int64
	Logger      log.Logger
}

func (c *ManagerConfig) defaults() error {
	if c.BaseDir == "" {
		c.BaseDir = conventions.DefaultBaseDir
	}
	if c.IDGenerator == nil {
		c.IDGenerator = rand.Int64
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "workspace.Manager"})
	return nil
}

// Manager provisions, fills and tears down workspaces.
type Manager struct {
	baseDir string
	genID   func() int64
	logger  log.Logger
}

// NewManager creates a new workspace manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Manager{
		baseDir: cfg.BaseDir,
		genID:   cfg.IDGenerator,
		logger:  cfg.Logger,
	}, nil
}

// Provision creates a new empty workspace under the base directory. If a workspace
// directory with the same ID already exists its contents are removed.
func (m *Manager) Provision(ctx context.Context) (*model.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create base directory %q: %w: %w", m.baseDir, model.ErrEnvironment, err)
	}

	id := m.genID() & math.MaxInt64
	dir := conventions.WorkspaceDir(m.baseDir, id)

	_, err := os.Stat(dir)
	switch {
	case err == nil:
		m.logger.Warningf("Workspace %d already exists, cleaning it", id)
		if err := file.CleanDir(dir); err != nil {
			return nil, fmt.Errorf("could not clean workspace directory: %w: %w", model.ErrEnvironment, err)
		}
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create workspace directory %q: %w: %w", dir, model.ErrEnvironment, err)
		}
	default:
		return nil, fmt.Errorf("could not stat workspace directory %q: %w: %w", dir, model.ErrEnvironment, err)
	}

	m.logger.Debugf("Workspace %d provisioned at %s", id, dir)

	return &model.Workspace{ID: id, Dir: dir}, nil
}

// PlaceInput moves the source file into the workspace under the staged placeholder name.
// The source file is moved, not copied.
func (m *Manager) PlaceInput(ws *model.Workspace, sourcePath string) (string, error) {
	staged := conventions.StagedFilePath(ws.Dir)
	if err := file.Move(sourcePath, staged); err != nil {
		return "", fmt.Errorf("could not move file to workspace: %w: %w", model.ErrEnvironment, err)
	}

	m.logger.Debugf("Staged %s as %s", sourcePath, staged)

	return staged, nil
}

// Teardown removes the workspace directory tree.
func (m *Manager) Teardown(ws *model.Workspace) error {
	if err := os.RemoveAll(ws.Dir); err != nil {
		return fmt.Errorf("could not remove workspace %q: %w: %w", ws.Dir, model.ErrEnvironment, err)
	}

	m.logger.Debugf("Workspace %d removed", ws.ID)

	return nil
}
