//go:build !unix

package file

// isCrossDevice can't be detected on non-unix platforms, the rename error is returned as is.
func isCrossDevice(_ error) bool {
	return false
}
