package model

import "errors"

var (
	// ErrInvalidArgs is returned when the command line doesn't have exactly one source path.
	ErrInvalidArgs = errors.New("invalid args")
	// ErrFileNotFound is returned when the input source file doesn't exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrEnvironment is returned when workspace directories or files can't be
	// created, moved, renamed or removed.
	ErrEnvironment = errors.New("environment error")
	// ErrNoEntryPoint is returned when the source doesn't declare a public class.
	ErrNoEntryPoint = errors.New("could not find public class")
	// ErrAmbiguousEntryPoint is returned when the source declares more than one public class.
	ErrAmbiguousEntryPoint = errors.New("file can't contain multiple classes")
	// ErrResolution is returned when the compiled class can't be resolved by name.
	ErrResolution = errors.New("could not resolve class")
	// ErrInvocation is returned when the entry point method is missing,
	// inaccessible or fails while running.
	ErrInvocation = errors.New("could not invoke entry point")
	// ErrNotValid is returned when a configuration or request is not valid.
	ErrNotValid = errors.New("not valid")
)
