//go:build !windows

package vault

import "os"

// IsPrivate reports whether the vault file is readable only by its
// owner. Used to warn when a vault has been loosened to group or world
// readable; a missing file counts as private.
func IsPrivate(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return info.Mode().Perm()&0077 == 0
}
