// Package vault stores an ordered collection of TOTP records and the
// codecs that persist it: plaintext JSON or YAML documents, or an
// authenticated encrypted container.
//
// A vault lives fully in memory between a load and a save. Saves go
// through an atomic write-temp-fsync-rename sequence so a crash never
// leaves a half-written file, and encrypted saves regenerate the KDF
// salt and AEAD nonce every time.
package vault

import (
	"fmt"

	"github.com/forest6511/totpctl/pkg/otp"
)

// File permissions for vault files: owner read/write only.
const FileMode = 0600

// Vault is an ordered collection of records keyed by label. The zero
// value is not usable; call New.
type Vault struct {
	records []otp.Record
	index   map[string]int

	// header remembers how an encrypted vault was sealed so a
	// subsequent save keeps the file's tuned KDF cost. nil for plain
	// vaults and vaults created in memory.
	header *EncryptionHeader
}

// New returns an empty vault.
func New() *Vault {
	return &Vault{index: make(map[string]int)}
}

// Len reports the number of records.
func (v *Vault) Len() int {
	return len(v.records)
}

// Add appends a record, preserving insertion order. The label must not
// already be present.
func (v *Vault) Add(r otp.Record) error {
	if _, exists := v.index[r.Label]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, r.Label)
	}
	v.index[r.Label] = len(v.records)
	v.records = append(v.records, r)
	return nil
}

// Get returns the record with the given label. The label is normalized
// the same way record construction normalizes it, so user input in a
// different Unicode form still matches.
func (v *Vault) Get(label string) (otp.Record, error) {
	i, ok := v.index[otp.NormalizeLabel(label)]
	if !ok {
		return otp.Record{}, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return v.records[i], nil
}

// Update replaces the stored record carrying r.Label. The replacement
// must already be validated (built through otp.NewRecord); its position
// in the vault order is preserved.
func (v *Vault) Update(r otp.Record) error {
	i, ok := v.index[r.Label]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, r.Label)
	}
	v.records[i] = r
	return nil
}

// Rename changes a record's label in place, keeping its vault position.
func (v *Vault) Rename(oldLabel, newLabel string) error {
	oldLabel = otp.NormalizeLabel(oldLabel)
	newLabel = otp.NormalizeLabel(newLabel)

	i, ok := v.index[oldLabel]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, oldLabel)
	}
	if newLabel == "" {
		return &otp.ValidationError{Field: "label", Reason: "must not be empty"}
	}
	if oldLabel == newLabel {
		return nil
	}
	if _, exists := v.index[newLabel]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, newLabel)
	}

	v.records[i].Label = newLabel
	delete(v.index, oldLabel)
	v.index[newLabel] = i
	return nil
}

// Remove deletes the record with the given label, preserving the order
// of the remaining records.
func (v *Vault) Remove(label string) error {
	label = otp.NormalizeLabel(label)
	i, ok := v.index[label]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, label)
	}

	v.records = append(v.records[:i], v.records[i+1:]...)
	delete(v.index, label)
	for j := i; j < len(v.records); j++ {
		v.index[v.records[j].Label] = j
	}
	return nil
}

// Records returns the records in vault order. The slice is a copy;
// mutating it does not affect the vault.
func (v *Vault) Records() []otp.Record {
	out := make([]otp.Record, len(v.records))
	copy(out, v.records)
	return out
}

// KDFParams reports the key-derivation cost the vault was loaded with,
// if it came from an encrypted file. Saves reuse it so old vaults keep
// their tuned cost until an explicit re-key.
func (v *Vault) KDFParams() (KDFParams, bool) {
	if v.header == nil {
		return KDFParams{}, false
	}
	return v.header.KDFParams, true
}
