package model

// Stage is a step of the evaluation pipeline.
//
// The pipeline is linear:
//
//	start -> args_validated -> file_validated -> workspace_ready -> extracted ->
//	staged -> compiled -> loaded -> invoked -> cleaned_up
//
// Any step can go to failed, cleanup still runs if a workspace was provisioned.
type Stage string

const (
	StageStart          Stage = "start"
	StageArgsValidated  Stage = "args_validated"
	StageFileValidated  Stage = "file_validated"
	StageWorkspaceReady Stage = "workspace_ready"
	StageExtracted      Stage = "extracted"
	StageStaged         Stage = "staged"
	StageCompiled       Stage = "compiled"
	StageLoaded         Stage = "loaded"
	StageInvoked        Stage = "invoked"
	StageCleanedUp      Stage = "cleaned_up"
	StageFailed         Stage = "failed"
)

// ExecutionResult is the terminal state of an evaluation run. It's not persisted.
type ExecutionResult struct {
	// RunID identifies the run in the logs.
	RunID string
	// Stage is cleaned_up on success and failed on failure.
	Stage Stage
	// FailedAt is the last stage reached before failing, empty on success.
	FailedAt Stage
	// ClassName is the extracted entry point class name (empty if not extracted).
	ClassName string
	// Workspace is the workspace used by the run (nil if never provisioned).
	Workspace *Workspace
	// WorkspaceRemoved is true when the provisioned workspace was torn down.
	WorkspaceRemoved bool
	// Err is the failure cause, nil on success.
	Err error
}

// Succeeded returns true if the run invoked the entry point without errors.
func (r ExecutionResult) Succeeded() bool {
	return r.Err == nil && r.FailedAt == ""
}
