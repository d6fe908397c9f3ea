package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forest6511/totpctl/pkg/crypto"
)

// LoadFile reads and decodes a vault file, detecting the format from the
// file extension. The passphrase is only consulted for encrypted vaults
// and may be nil for plaintext ones.
func LoadFile(path string, passphrase []byte) (*Vault, Format, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, format, fmt.Errorf("failed to read vault file: %w", err)
	}

	var v *Vault
	if format == FormatEncrypted {
		v, err = DecodeEncrypted(data, passphrase)
	} else {
		v, err = DecodePlain(data, format)
	}
	if err != nil {
		return nil, format, err
	}
	return v, format, nil
}

// SaveFile encodes the vault in the format implied by the file extension
// and writes it atomically: the bytes go to a temporary file in the same
// directory, are flushed to stable storage, and replace the target in a
// single rename. A crash mid-save leaves the previous file intact.
//
// The KDF cost params are only consulted for encrypted vaults.
func SaveFile(path string, v *Vault, passphrase []byte, params crypto.Params) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	var data []byte
	if format == FormatEncrypted {
		data, err = EncodeEncrypted(v, passphrase, params)
	} else {
		data, err = EncodePlain(v, format)
	}
	if err != nil {
		return err
	}

	return writeFileAtomic(path, data)
}

// Create writes a new vault file, refusing to overwrite an existing one.
func Create(path string, v *Vault, passphrase []byte, params crypto.Params) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat vault file: %w", err)
	}
	return SaveFile(path, v, passphrase, params)
}

// writeFileAtomic replaces path with data via a temp file in the same
// directory. The temp name starts with a dot so an interrupted save does
// not show up next to the vault.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmp.Chmod(FileMode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace vault file: %w", err)
	}
	return nil
}
