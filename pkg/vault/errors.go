package vault

import "errors"

// Errors
var (
	// ErrNotFound indicates no record carries the requested label.
	ErrNotFound = errors.New("vault: no record with that label")

	// ErrDuplicateLabel indicates an add or rename would produce two
	// records with the same label.
	ErrDuplicateLabel = errors.New("vault: a record with that label already exists")

	// ErrFormat indicates a plaintext vault file does not match the
	// expected schema.
	ErrFormat = errors.New("vault: file does not match the vault schema")

	// ErrAuthentication indicates an encrypted vault could not be
	// opened: wrong passphrase and on-disk tampering are deliberately
	// indistinguishable.
	ErrAuthentication = errors.New("vault: authentication failed: wrong passphrase or corrupted file")

	// ErrAlreadyExists indicates vault creation would overwrite an
	// existing file.
	ErrAlreadyExists = errors.New("vault: file already exists")
)
