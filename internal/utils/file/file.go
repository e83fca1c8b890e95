// Package file provides file utility functions used to stage sources in workspaces.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCrossDevice is returned when a move would need to cross filesystems, this
// package never falls back to copy and delete.
var ErrCrossDevice = errors.New("cross-device move not supported")

// Move renames src to dst. It's a plain rename, if src and dst live on different
// devices it fails with ErrCrossDevice.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	if isCrossDevice(err) {
		return fmt.Errorf("could not move %q to %q: %w: %w", src, dst, ErrCrossDevice, err)
	}

	return fmt.Errorf("could not move %q to %q: %w", src, dst, err)
}

// CleanDir removes all the contents of a directory keeping the directory itself.
func CleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("could not read directory %q: %w", dir, err)
	}

	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("could not remove %q: %w", e.Name(), err)
		}
	}

	return nil
}
