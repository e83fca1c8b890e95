package lib_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/jeval/pkg/lib"
)

func TestClientEval(t *testing.T) {
	tests := map[string]struct {
		source       string
		noSource     bool
		expErr       error
		expFailedAt  string
		expClassName string
		expStdout    string
	}{
		"Evaluating a valid source should print the program output.": {
			source:       `public class Hello { public static void main(String[] args) { System.out.println("hello"); } }`,
			expClassName: "Hello",
			expStdout:    "\nhello\n\n",
		},

		"Evaluating a source without a public class should fail.": {
			source:      `class Hello {}`,
			expErr:      lib.ErrNoEntryPoint,
			expFailedAt: "workspace_ready",
		},

		"Evaluating a source with two public classes should fail.": {
			source:      "public class A {}\npublic class B {}",
			expErr:      lib.ErrAmbiguousEntryPoint,
			expFailedAt: "workspace_ready",
		},

		"Evaluating a source without main should fail.": {
			source:       `public class Hello { }`,
			expErr:       lib.ErrInvocation,
			expFailedAt:  "compiled",
			expClassName: "Hello",
		},

		"Evaluating a missing source should fail.": {
			noSource:    true,
			expErr:      lib.ErrFileNotFound,
			expFailedAt: "args_validated",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			tmp := t.TempDir()
			src := filepath.Join(tmp, "Input.java")
			if !test.noSource {
				require.NoError(os.WriteFile(src, []byte(test.source), 0o644))
			}

			var stdout bytes.Buffer
			client, err := lib.New(lib.Config{
				BaseDir:   filepath.Join(tmp, "eval"),
				Toolchain: lib.ToolchainFake,
				Stdout:    &stdout,
			})
			require.NoError(err)

			res, err := client.Eval(context.Background(), src)
			require.NotNil(res)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
				assert.Equal(test.expStdout, stdout.String())
			}
			assert.Equal(test.expFailedAt, res.FailedAt)
			assert.Equal(test.expClassName, res.ClassName)
			assert.NotEmpty(res.RunID)

			if res.WorkspaceID >= 0 {
				assert.True(res.WorkspaceRemoved)
			}
		})
	}
}

func TestClientInvalidToolchain(t *testing.T) {
	_, err := lib.New(lib.Config{Toolchain: "jython"})
	assert.ErrorIs(t, err, lib.ErrInvalidArgs)
}

func TestClientCheck(t *testing.T) {
	client, err := lib.New(lib.Config{Toolchain: lib.ToolchainFake})
	require.NoError(t, err)

	results := client.Check(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, lib.CheckStatusOK, results[0].Status)
}
