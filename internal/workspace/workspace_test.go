package workspace_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/jeval/internal/log"
	"github.com/slok/jeval/internal/model"
	"github.com/slok/jeval/internal/workspace"
)

func fixedID(id int64) func() int64 { return func() int64 { return id } }

func TestManagerProvision(t *testing.T) {
	tests := map[string]struct {
		prepare func(t *testing.T, baseDir string)
		id      int64
		expID   int64
		expErr  error
	}{
		"Provisioning on a missing base dir should create it": {
			id:    42,
			expID: 42,
		},

		"Provisioning over an existing workspace should clean its contents": {
			prepare: func(t *testing.T, baseDir string) {
				dir := filepath.Join(baseDir, "42")
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "old"), 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "Old.class"), []byte("x"), 0o644))
			},
			id:    42,
			expID: 42,
		},

		"Negative generated IDs should be made non-negative": {
			id:    -7,
			expID: 9223372036854775801,
		},

		"Having a file as base dir should fail with an environment error": {
			prepare: func(t *testing.T, baseDir string) {
				require.NoError(t, os.MkdirAll(filepath.Dir(baseDir), 0o755))
				require.NoError(t, os.WriteFile(baseDir, []byte("x"), 0o644))
			},
			id:     1,
			expErr: model.ErrEnvironment,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			baseDir := filepath.Join(t.TempDir(), "eval")
			if test.prepare != nil {
				test.prepare(t, baseDir)
			}

			m, err := workspace.NewManager(workspace.ManagerConfig{
				BaseDir:     baseDir,
				IDGenerator: fixedID(test.id),
				Logger:      log.Noop,
			})
			require.NoError(err)

			ws, err := m.Provision(context.Background())

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				return
			}
			require.NoError(err)

			assert.Equal(test.expID, ws.ID)
			assert.DirExists(ws.Dir)
			entries, err := os.ReadDir(ws.Dir)
			require.NoError(err)
			assert.Empty(entries)
		})
	}
}

func TestManagerPlaceInputAndTeardown(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tmp := t.TempDir()
	src := filepath.Join(tmp, "Hello.java")
	require.NoError(os.WriteFile(src, []byte("public class Hello {}"), 0o644))

	m, err := workspace.NewManager(workspace.ManagerConfig{BaseDir: filepath.Join(tmp, "eval")})
	require.NoError(err)

	ws, err := m.Provision(context.Background())
	require.NoError(err)

	staged, err := m.PlaceInput(ws, src)
	require.NoError(err)
	assert.Equal(filepath.Join(ws.Dir, "tmp"), staged)
	assert.NoFileExists(src)
	got, err := os.ReadFile(staged)
	require.NoError(err)
	assert.Equal("public class Hello {}", string(got))

	require.NoError(m.Teardown(ws))
	assert.NoDirExists(ws.Dir)

	// Tearing down twice is harmless.
	assert.NoError(m.Teardown(ws))
}

func TestManagerPlaceInputMissingFile(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tmp := t.TempDir()
	m, err := workspace.NewManager(workspace.ManagerConfig{BaseDir: filepath.Join(tmp, "eval")})
	require.NoError(err)

	ws, err := m.Provision(context.Background())
	require.NoError(err)

	_, err = m.PlaceInput(ws, filepath.Join(tmp, "missing.java"))
	assert.ErrorIs(err, model.ErrEnvironment)
}

func TestManagerIsolatedWorkspaces(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m, err := workspace.NewManager(workspace.ManagerConfig{BaseDir: filepath.Join(t.TempDir(), "eval")})
	require.NoError(err)

	ws1, err := m.Provision(context.Background())
	require.NoError(err)
	ws2, err := m.Provision(context.Background())
	require.NoError(err)

	assert.NotEqual(ws1.Dir, ws2.Dir)
	assert.GreaterOrEqual(ws1.ID, int64(0))
	assert.GreaterOrEqual(ws2.ID, int64(0))
}
