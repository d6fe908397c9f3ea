//go:build windows

package vault

// IsPrivate always reports true on Windows, where file access is
// governed by ACLs rather than the Unix permission bits this check
// inspects.
func IsPrivate(path string) bool {
	return true
}
