package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/jeval/internal/utils/file"
)

func TestMove(t *testing.T) {
	tests := map[string]struct {
		prepare func(t *testing.T, dir string) (src, dst string)
		expErr  bool
	}{
		"Moving an existing file should leave it only at the destination": {
			prepare: func(t *testing.T, dir string) (string, string) {
				src := filepath.Join(dir, "Hello.java")
				require.NoError(t, os.WriteFile(src, []byte("public class Hello {}"), 0o644))
				return src, filepath.Join(dir, "tmp")
			},
		},

		"Moving a missing file should fail": {
			prepare: func(t *testing.T, dir string) (string, string) {
				return filepath.Join(dir, "missing"), filepath.Join(dir, "tmp")
			},
			expErr: true,
		},

		"Moving into a missing directory should fail": {
			prepare: func(t *testing.T, dir string) (string, string) {
				src := filepath.Join(dir, "Hello.java")
				require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
				return src, filepath.Join(dir, "nope", "tmp")
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			dir := t.TempDir()
			src, dst := test.prepare(t, dir)

			err := file.Move(src, dst)

			if test.expErr {
				assert.Error(err)
				return
			}

			assert.NoError(err)
			assert.NoFileExists(src)
			assert.FileExists(dst)
		})
	}
}

func TestCleanDir(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, "a"), []byte("a"), 0o644))
	require.NoError(os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0o755))
	require.NoError(os.WriteFile(filepath.Join(dir, "sub", "deep", "b"), []byte("b"), 0o644))

	require.NoError(file.CleanDir(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(err)
	assert.Empty(entries)
	assert.DirExists(dir)
}
