package jeval_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intjeval "github.com/slok/jeval/test/integration/jeval"
)

func TestIntegrationCheck(t *testing.T) {
	config := intjeval.NewConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	stdout, stderr, err := intjeval.RunCheck(ctx, config)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, string(stdout), "All checks passed!")
}

func TestIntegrationEval(t *testing.T) {
	tests := map[string]struct {
		source       string
		expErr       bool
		expStdout    string
		expStderrHas string
	}{
		"A hello world should print its output between blank lines.": {
			source: `public class Hello {
	public static void main(String[] args) {
		System.out.println("hi");
	}
}`,
			expStdout: "\nhi\n\n",
		},

		"A program reading its own class name should run from its class file.": {
			source: `import java.util.List;

public class Names {
	public static void main(String[] args) {
		System.out.println(Names.class.getSimpleName() + " " + List.of(1, 2).size());
	}
}`,
			expStdout: "\nNames 2\n\n",
		},

		"A program throwing should fail after its output.": {
			source: `public class Boom {
	public static void main(String[] args) {
		System.out.println("before");
		throw new IllegalStateException("boom");
	}
}`,
			expErr:       true,
			expStdout:    "\nbefore\n\n",
			expStderrHas: "boom",
		},

		"A source not compiling should fail.": {
			source:       `public class Broken { public static void main(String[] args) { int x = ; } }`,
			expErr:       true,
			expStderrHas: "Error:",
		},

		"A source without a main method should fail.": {
			source: `public class NoMain { }`,
			expErr: true,
		},

		"A source with two public classes should fail.": {
			source: "public class A {}\npublic class B {}\n",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			config := intjeval.NewConfig(t)
			assert := assert.New(t)
			require := require.New(t)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			tmp := t.TempDir()
			baseDir := filepath.Join(tmp, "eval")
			src := filepath.Join(tmp, "input.java")
			require.NoError(os.WriteFile(src, []byte(test.source), 0o644))

			stdout, stderr, err := intjeval.RunEval(ctx, config, baseDir, src)

			if test.expErr {
				assert.Error(err)
				assert.Contains(string(stderr), test.expStderrHas)
			} else {
				assert.NoError(err, "stderr: %s", stderr)
			}
			if test.expStdout != "" {
				assert.Equal(test.expStdout, string(stdout))
			}

			// The source is consumed and no workspace survives.
			assert.NoFileExists(src)
			entries, err := os.ReadDir(baseDir)
			if err == nil {
				assert.Empty(entries)
			}
		})
	}
}
