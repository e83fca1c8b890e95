package lib

import (
	"github.com/slok/jeval/internal/model"
)

// ToolchainType is the kind of toolchain used to compile and run sources.
type ToolchainType string

const (
	// ToolchainLocal uses the JDK installed on the host.
	ToolchainLocal ToolchainType = "local"
	// ToolchainDocker uses a JDK container image.
	ToolchainDocker ToolchainType = "docker"
	// ToolchainFake simulates the JDK, useful for tests.
	ToolchainFake ToolchainType = "fake"
)

// Errors returned by the SDK, check them with errors.Is.
var (
	ErrInvalidArgs         = model.ErrInvalidArgs
	ErrFileNotFound        = model.ErrFileNotFound
	ErrEnvironment         = model.ErrEnvironment
	ErrNoEntryPoint        = model.ErrNoEntryPoint
	ErrAmbiguousEntryPoint = model.ErrAmbiguousEntryPoint
	ErrResolution          = model.ErrResolution
	ErrInvocation          = model.ErrInvocation
)

// EvalResult is the outcome of an evaluation.
type EvalResult struct {
	// RunID identifies the run in the logs.
	RunID string
	// ClassName is the public class found in the source, empty if none.
	ClassName string
	// WorkspaceID is the numeric ID of the run workspace, -1 if never provisioned.
	WorkspaceID int64
	// WorkspaceRemoved is true when the workspace was torn down.
	WorkspaceRemoved bool
	// FailedAt is the last stage reached before failing, empty on success.
	FailedAt string
}

// CheckStatus is the outcome of a preflight check.
type CheckStatus string

const (
	CheckStatusOK      CheckStatus = "ok"
	CheckStatusWarning CheckStatus = "warning"
	CheckStatusError   CheckStatus = "error"
)

// CheckResult represents the result of a single preflight check.
type CheckResult struct {
	ID      string
	Message string
	Status  CheckStatus
}

func fromInternalResult(r *model.ExecutionResult) *EvalResult {
	if r == nil {
		return &EvalResult{WorkspaceID: -1}
	}

	res := &EvalResult{
		RunID:            r.RunID,
		ClassName:        r.ClassName,
		WorkspaceID:      -1,
		WorkspaceRemoved: r.WorkspaceRemoved,
		FailedAt:         string(r.FailedAt),
	}
	if r.Workspace != nil {
		res.WorkspaceID = r.Workspace.ID
	}

	return res
}

func fromInternalCheckResults(rs []model.CheckResult) []CheckResult {
	results := make([]CheckResult, 0, len(rs))
	for _, r := range rs {
		results = append(results, CheckResult{
			ID:      r.ID,
			Message: r.Message,
			Status:  CheckStatus(r.Status),
		})
	}
	return results
}
