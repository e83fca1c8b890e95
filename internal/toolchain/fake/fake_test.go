package fake_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/jeval/internal/model"
	"github.com/slok/jeval/internal/toolchain/fake"
)

func TestToolchainCompileAndLaunch(t *testing.T) {
	tests := map[string]struct {
		file           string
		source         string
		expCompileCode int
		expLaunchCode  int
		expStdout      string
		expStderr      string
	}{
		"A valid program should compile and print": {
			file:      "Hello.java",
			source:    `public class Hello { public static void main(String[] a){ System.out.print("hi"); System.out.println("there"); } }`,
			expStdout: "hithere\n",
		},

		"Unbalanced braces should not compile": {
			file:           "Hello.java",
			source:         `public class Hello { public static void main(String[] a){ }`,
			expCompileCode: 1,
		},

		"A file not matching the class name should not compile": {
			file:           "Other.java",
			source:         `public class Hello {}`,
			expCompileCode: 1,
		},

		"A class without main should fail to launch": {
			file:          "Hello.java",
			source:        `public class Hello { void run() {} }`,
			expLaunchCode: 1,
			expStderr:     "Error: Main method not found in class Hello\n",
		},

		"A program throwing should fail to launch": {
			file:          "Boom.java",
			source:        `public class Boom { public static void main(String... a){ System.out.println("before"); throw new IllegalStateException("boom"); } }`,
			expLaunchCode: 1,
			expStdout:     "before\n",
			expStderr:     "Exception in thread \"main\" IllegalStateException: boom\n\tat Boom.main(Boom.java)\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			tc, err := fake.NewToolchain(fake.ToolchainConfig{})
			require.NoError(err)

			dir := t.TempDir()
			src := filepath.Join(dir, test.file)
			require.NoError(os.WriteFile(src, []byte(test.source), 0o644))

			var stdout, stderr bytes.Buffer
			cres, err := tc.Compile(context.Background(), src, model.CompileOpts{Stderr: &stderr})
			require.NoError(err)
			assert.Equal(test.expCompileCode, cres.ExitCode)
			assert.Equal([]string{src}, tc.Compiled())
			if test.expCompileCode != 0 {
				assert.NotEmpty(stderr.String())
				return
			}

			className := test.file[:len(test.file)-len(".java")]
			lres, err := tc.Launch(context.Background(), dir, className, model.LaunchOpts{Stdout: &stdout, Stderr: &stderr})
			require.NoError(err)
			assert.Equal(test.expLaunchCode, lres.ExitCode)
			assert.Equal(test.expStdout, stdout.String())
			assert.Equal(test.expStderr, stderr.String())
			assert.Equal([]string{dir + ":" + className}, tc.Launched())
		})
	}
}

func TestToolchainLaunchMissingClass(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tc, err := fake.NewToolchain(fake.ToolchainConfig{})
	require.NoError(err)

	var stderr bytes.Buffer
	res, err := tc.Launch(context.Background(), t.TempDir(), "Hello", model.LaunchOpts{Stderr: &stderr})
	require.NoError(err)
	assert.Equal(1, res.ExitCode)
	assert.Equal("Error: Could not find or load main class Hello\n", stderr.String())
}
