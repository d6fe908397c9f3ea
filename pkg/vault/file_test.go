package vault

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSaveAndLoadFile(t *testing.T) {
	want := populatedVault(t)

	files := []struct {
		name   string
		format Format
	}{
		{"records.json", FormatJSON},
		{"records.yaml", FormatYAML},
		{"records.yml", FormatYAML},
		{"records.totp", FormatEncrypted},
	}
	for _, f := range files {
		t.Run(f.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), f.name)

			if err := SaveFile(path, want, testPassphrase, kdfTestParams); err != nil {
				t.Fatalf("SaveFile failed: %v", err)
			}

			got, format, err := LoadFile(path, testPassphrase)
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if format != f.format {
				t.Errorf("Expected format %v, got %v", f.format, format)
			}
			requireSameRecords(t, want, got)
		})
	}
}

// Plaintext vaults load without a passphrase.
func TestLoadFilePlainIgnoresPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	if err := SaveFile(path, populatedVault(t), nil, kdfTestParams); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	if _, _, err := LoadFile(path, nil); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "records.json"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadFileUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")
	if err := os.WriteFile(path, []byte("[]"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, _, err := LoadFile(path, nil); !errors.Is(err, ErrFormat) {
		t.Errorf("Expected ErrFormat, got %v", err)
	}
	if err := SaveFile(path, New(), nil, kdfTestParams); !errors.Is(err, ErrFormat) {
		t.Errorf("Expected ErrFormat from SaveFile, got %v", err)
	}
}

func TestCreateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")

	if err := Create(path, New(), nil, kdfTestParams); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := Create(path, New(), nil, kdfTestParams); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

// Saves are atomic: the write goes through a temp file that must not
// linger, and the vault lands with owner-only permissions.
func TestSaveFileHygiene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")

	if err := SaveFile(path, populatedVault(t), nil, kdfTestParams); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	// Overwrite to exercise the replace path as well.
	if err := SaveFile(path, New(), nil, kdfTestParams); err != nil {
		t.Fatalf("SaveFile overwrite failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "records.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only the vault file, got %v", names)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if info.Mode().Perm() != FileMode {
			t.Errorf("Expected mode %04o, got %04o", FileMode, info.Mode().Perm())
		}
	}
}

// A save that fails to encode must leave the existing file untouched.
func TestSaveFileKeepsOldOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.totp")
	if err := SaveFile(path, populatedVault(t), testPassphrase, kdfTestParams); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	// Empty passphrase cannot encrypt, so this save fails before any
	// file I/O happens.
	if err := SaveFile(path, New(), nil, kdfTestParams); err == nil {
		t.Fatal("Expected SaveFile with empty passphrase to fail")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(before) != len(after) {
		t.Error("Failed save modified the existing vault file")
	}
}

func TestIsPrivate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	dir := t.TempDir()
	private := filepath.Join(dir, "private.json")
	loose := filepath.Join(dir, "loose.json")

	if err := os.WriteFile(private, []byte("[]"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(loose, []byte("[]"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if !IsPrivate(private) {
		t.Error("Expected 0600 file to be private")
	}
	if IsPrivate(loose) {
		t.Error("Expected 0644 file to be flagged")
	}
	if !IsPrivate(filepath.Join(dir, "missing.json")) {
		t.Error("Expected a missing file to count as private")
	}
}
