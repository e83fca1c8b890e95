package lib_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/jeval/pkg/lib"
	liblog "github.com/slok/jeval/pkg/lib/log"
)

// This example shows how to evaluate a source file using the fake toolchain.
func Example_eval() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "jeval-example-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "Main.java")
	err = os.WriteFile(src, []byte(`public class Greeter {
	public static void main(String[] args) {
		System.out.println("Hello from jeval");
	}
}`), 0o644)
	if err != nil {
		panic(err)
	}

	client, err := lib.New(lib.Config{
		BaseDir:   filepath.Join(dir, "eval"),
		Toolchain: lib.ToolchainFake,
		Stdout:    os.Stdout,
	})
	if err != nil {
		panic(err)
	}

	res, err := client.Eval(ctx, src)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Class: %s (workspace removed: %t)\n", res.ClassName, res.WorkspaceRemoved)

	// Output:
	//
	// Hello from jeval
	//
	// Class: Greeter (workspace removed: true)
}

// This example shows how to handle evaluation errors.
func Example_errors() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "jeval-example-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "Main.java")
	if err := os.WriteFile(src, []byte("public class A {}\npublic class B {}\n"), 0o644); err != nil {
		panic(err)
	}

	client, err := lib.New(lib.Config{
		BaseDir:   filepath.Join(dir, "eval"),
		Toolchain: lib.ToolchainFake,
		Logger:    liblog.Noop,
	})
	if err != nil {
		panic(err)
	}

	res, err := client.Eval(ctx, src)
	switch {
	case errors.Is(err, lib.ErrAmbiguousEntryPoint):
		fmt.Printf("Ambiguous entry point (failed at %s)\n", res.FailedAt)
	case err != nil:
		fmt.Printf("Other error: %s\n", err)
	}

	// Output:
	// Ambiguous entry point (failed at workspace_ready)
}
