// Package lib provides a Go SDK to compile and run single Java source files
// programmatically, without shelling out to the jeval CLI binary.
//
// # Quick Start
//
//	client, err := lib.New(lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := client.Eval(ctx, "/path/to/Hello.java")
//	if err != nil {
//	    log.Fatalf("run %s failed at %s: %s", res.RunID, res.FailedAt, err)
//	}
//
// The source file is moved into a fresh workspace (it doesn't exist at its
// original path afterwards), compiled, and its main method invoked. The
// workspace is removed on every exit path.
//
// # Toolchains
//
//   - [ToolchainLocal]: The JDK installed on the host (JavaHome, JAVA_HOME or PATH).
//   - [ToolchainDocker]: A JDK container image run on the local docker daemon.
//   - [ToolchainFake]: A simulated JDK for unit testing, nothing is really compiled.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrInvalidArgs]: Not exactly one source file.
//   - [ErrFileNotFound]: The source file doesn't exist.
//   - [ErrEnvironment]: Workspace or file system failures.
//   - [ErrNoEntryPoint]: No public class in the source.
//   - [ErrAmbiguousEntryPoint]: More than one public class in the source.
//   - [ErrResolution]: The compiled class could not be found or loaded.
//   - [ErrInvocation]: The main method is missing, not invocable or failed.
//
// # Thread Safety
//
// A [Client] is safe for concurrent use, every evaluation gets its own
// workspace and loading context.
package lib
