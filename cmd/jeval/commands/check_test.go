package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/jeval/internal/model"
)

func TestPrintChecks(t *testing.T) {
	tests := map[string]struct {
		results []model.CheckResult
		expOut  string
		expErr  bool
	}{
		"All ok checks should pass": {
			results: []model.CheckResult{
				{ID: "javac_available", Status: model.CheckStatusOK, Message: "/usr/bin/javac"},
			},
			expOut: "\nChecking local toolchain...\n  OK javac_available      /usr/bin/javac\n\nAll checks passed!\n",
		},

		"Warnings should be reported without failing": {
			results: []model.CheckResult{
				{ID: "java_available", Status: model.CheckStatusWarning, Message: "version check failed"},
			},
			expOut: "\nChecking local toolchain...\n  !! java_available       version check failed\n\n1 warning(s)\n",
		},

		"Errors should be reported and fail": {
			results: []model.CheckResult{
				{ID: "javac_available", Status: model.CheckStatusError, Message: "not found"},
				{ID: "java_available", Status: model.CheckStatusWarning, Message: "version check failed"},
			},
			expOut: "\nChecking local toolchain...\n  XX javac_available      not found\n  !! java_available       version check failed\n\n1 error(s), 1 warning(s)\n",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			var out bytes.Buffer
			err := printChecks(&out, "local", test.results)

			if test.expErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
			assert.Equal(test.expOut, out.String())
		})
	}
}
