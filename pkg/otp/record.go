// Package otp implements TOTP credential records and code generation
// following RFC 4226 (HOTP) and RFC 6238 (TOTP).
//
// A Record holds one enrolled credential: the shared secret plus the
// parameters that shape its codes (hash algorithm, digit count, time
// step). Records are validated at construction and never perform I/O;
// code generation is a pure function of a Record and a timestamp.
package otp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Algorithm identifies the HMAC hash function used to derive codes.
type Algorithm int

// Supported HMAC algorithms. SHA1 is the zero value because it is the
// Google Authenticator default and the fallback for absent input.
const (
	SHA1 Algorithm = iota
	SHA256
	SHA512
)

// Bounds and defaults for record parameters. The defaults match Google
// Authenticator enrollment behavior and are applied by input layers
// (URI parser, CLI flags, file codec) when a field is absent; record
// construction itself always receives explicit values.
const (
	MinDigits = 6
	MaxDigits = 10

	DefaultDigits = 6
	DefaultPeriod = 30
)

// String returns the canonical upper-case algorithm name.
func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "SHA1"
	case SHA256:
		return "SHA256"
	case SHA512:
		return "SHA512"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// Hash returns the hash constructor backing the HMAC computation.
func (a Algorithm) Hash() func() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New
	case SHA512:
		return sha512.New
	default:
		return sha1.New
	}
}

// ParseAlgorithm maps an algorithm name to an Algorithm.
// Matching is case-insensitive and accepts the dashed forms some
// enrollment URIs use (for example "SHA-256").
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToUpper(strings.ReplaceAll(s, "-", "")) {
	case "SHA1":
		return SHA1, nil
	case "SHA256":
		return SHA256, nil
	case "SHA512":
		return SHA512, nil
	default:
		return SHA1, &ValidationError{Field: "algorithm", Reason: fmt.Sprintf("unsupported value %q, must be SHA1, SHA256, or SHA512", s)}
	}
}

// ValidationError reports a record field that violates its constraints.
// The field name is included so callers can report actionable errors
// without inspecting the message text.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("otp: invalid %s: %s", e.Field, e.Reason)
}

// Record is one enrolled TOTP credential.
//
// Label is the unique lookup key within a vault. Secret holds the raw
// shared-secret bytes (already Base32-decoded) and must never appear in
// log or error output. A Record always denotes a time-based generator;
// counter-based (HOTP) credentials are rejected at parse time.
type Record struct {
	Label     string
	Issuer    string
	Secret    []byte
	Algorithm Algorithm
	Digits    int
	Period    int
}

// NormalizeLabel returns the canonical form of a label: NFC-normalized
// and trimmed. Record construction applies it to labels and issuers;
// vault lookups apply it to user input so both sides agree on the key.
func NormalizeLabel(label string) string {
	return strings.TrimSpace(norm.NFC.String(label))
}

// NewRecord validates all field constraints and returns the resulting
// Record. Label and Issuer are NFC-normalized and trimmed so lookups do
// not depend on the Unicode representation of the input. Violations are
// reported as *ValidationError naming the offending field.
func NewRecord(label, issuer string, secret []byte, algorithm Algorithm, digits, period int) (Record, error) {
	label = NormalizeLabel(label)
	issuer = NormalizeLabel(issuer)

	r := Record{
		Label:     label,
		Issuer:    issuer,
		Secret:    append([]byte(nil), secret...),
		Algorithm: algorithm,
		Digits:    digits,
		Period:    period,
	}
	if err := r.validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// validate checks the record invariants. It is re-run by code
// generation so hand-assembled zero values fail loudly instead of
// producing a meaningless code.
func (r Record) validate() error {
	if r.Label == "" {
		return &ValidationError{Field: "label", Reason: "must not be empty"}
	}
	if len(r.Secret) == 0 {
		return &ValidationError{Field: "secret", Reason: "must not be empty"}
	}
	switch r.Algorithm {
	case SHA1, SHA256, SHA512:
	default:
		return &ValidationError{Field: "algorithm", Reason: fmt.Sprintf("unsupported value %d, must be SHA1, SHA256, or SHA512", int(r.Algorithm))}
	}
	if r.Digits < MinDigits || r.Digits > MaxDigits {
		return &ValidationError{Field: "digits", Reason: fmt.Sprintf("got %d, must be between %d and %d", r.Digits, MinDigits, MaxDigits)}
	}
	if r.Period <= 0 {
		return &ValidationError{Field: "period", Reason: fmt.Sprintf("got %d, must be greater than 0", r.Period)}
	}
	return nil
}

// Equal reports whether two records hold the same credential and
// parameters.
func (r Record) Equal(other Record) bool {
	return r.Label == other.Label &&
		r.Issuer == other.Issuer &&
		string(r.Secret) == string(other.Secret) &&
		r.Algorithm == other.Algorithm &&
		r.Digits == other.Digits &&
		r.Period == other.Period
}
