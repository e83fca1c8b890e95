package conventions

import (
	"path/filepath"
	"strconv"
)

const (
	// DefaultBaseDir is the default directory (relative to the working dir) where workspaces are created.
	DefaultBaseDir = "./eval/"

	// StagedFile is the placeholder filename the input source gets when moved into the workspace.
	StagedFile = "tmp"
	// SourceExt is the extension the compiler requires for source files.
	SourceExt = ".java"
	// ClassExt is the extension of compiled class files.
	ClassExt = ".class"

	// Toolchain binaries.

	// CompilerBin is the Java compiler binary name.
	CompilerBin = "javac"
	// LauncherBin is the Java launcher binary name.
	LauncherBin = "java"

	// DefaultDockerImage is the JDK image used by the docker toolchain.
	DefaultDockerImage = "eclipse-temurin:21-jdk"
)

// WorkspaceDir returns the directory for a workspace ID.
func WorkspaceDir(baseDir string, id int64) string {
	return filepath.Join(baseDir, strconv.FormatInt(id, 10))
}

// StagedFilePath returns the path of the staged (not yet renamed) source inside a workspace.
func StagedFilePath(workspaceDir string) string {
	return filepath.Join(workspaceDir, StagedFile)
}

// SourceFilePath returns the path a class source must have inside a workspace.
func SourceFilePath(workspaceDir, className string) string {
	return filepath.Join(workspaceDir, className+SourceExt)
}

// ClassFilePath returns the path of a compiled class inside a workspace.
func ClassFilePath(workspaceDir, className string) string {
	return filepath.Join(workspaceDir, className+ClassExt)
}
