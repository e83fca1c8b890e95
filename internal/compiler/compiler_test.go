package compiler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/jeval/internal/compiler"
	"github.com/slok/jeval/internal/model"
	"github.com/slok/jeval/internal/toolchain/toolchainmock"
)

func TestNewInvoker(t *testing.T) {
	tests := map[string]struct {
		cfg    compiler.InvokerConfig
		expErr bool
	}{
		"Valid configuration should create the invoker": {
			cfg: compiler.InvokerConfig{Toolchain: &toolchainmock.MockToolchain{}},
		},

		"Missing toolchain should fail": {
			cfg:    compiler.InvokerConfig{},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			inv, err := compiler.NewInvoker(test.cfg)

			if test.expErr {
				assert.Error(err)
				assert.Nil(inv)
			} else {
				assert.NoError(err)
				assert.NotNil(inv)
			}
		})
	}
}

func TestInvokerStage(t *testing.T) {
	tests := map[string]struct {
		className string
		expFile   string
		expErr    error
	}{
		"Staging should rename the file to the class name": {
			className: "Hello",
			expFile:   "Hello.java",
		},

		"Names are not validated": {
			className: "Hello extends Base",
			expFile:   "Hello extends Base.java",
		},

		"A name escaping the workspace should fail without moving the source": {
			className: "../Leak",
			expErr:    model.ErrEnvironment,
		},

		"A name that is not a valid file name should fail": {
			className: "a/b",
			expErr:    model.ErrEnvironment,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			ws := &model.Workspace{ID: 1, Dir: t.TempDir()}
			staged := filepath.Join(ws.Dir, "tmp")
			require.NoError(os.WriteFile(staged, []byte("public class Hello {}"), 0o644))

			inv, err := compiler.NewInvoker(compiler.InvokerConfig{Toolchain: &toolchainmock.MockToolchain{}})
			require.NoError(err)

			got, err := inv.Stage(ws, test.className, staged)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				assert.FileExists(staged)
				assert.NoFileExists(filepath.Join(filepath.Dir(ws.Dir), "Leak.java"))
				return
			}
			require.NoError(err)
			assert.Equal(filepath.Join(ws.Dir, test.expFile), got)
			assert.FileExists(got)
			assert.NoFileExists(staged)
		})
	}
}

func TestInvokerCompile(t *testing.T) {
	tests := map[string]struct {
		mock        func(m *toolchainmock.MockToolchain)
		expExitCode int
		expErr      bool
	}{
		"A successful compilation should return exit code 0": {
			mock: func(m *toolchainmock.MockToolchain) {
				m.On("Compile", mock.Anything, "/ws/1/Hello.java", mock.Anything).Once().Return(&model.CompileResult{ExitCode: 0}, nil)
			},
		},

		"A failed compilation should not be an error": {
			mock: func(m *toolchainmock.MockToolchain) {
				m.On("Compile", mock.Anything, "/ws/1/Hello.java", mock.Anything).Once().Return(&model.CompileResult{ExitCode: 1}, nil)
			},
			expExitCode: 1,
		},

		"Not being able to run the compiler should fail": {
			mock: func(m *toolchainmock.MockToolchain) {
				m.On("Compile", mock.Anything, "/ws/1/Hello.java", mock.Anything).Once().Return(nil, errors.New("whatever"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := toolchainmock.NewMockToolchain(t)
			test.mock(m)

			inv, err := compiler.NewInvoker(compiler.InvokerConfig{Toolchain: m})
			require.NoError(err)

			res, err := inv.Compile(context.Background(), "/ws/1/Hello.java")

			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)
			assert.Equal(test.expExitCode, res.ExitCode)
		})
	}
}
