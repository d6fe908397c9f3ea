package otp

import (
	"encoding/base32"
	"strings"
)

// secretEncoding is the RFC 4648 Base32 alphabet without padding.
// Enrollment secrets in the wild arrive upper or lower case, with or
// without trailing '=' padding, and often grouped with spaces; decoding
// normalizes all of that, encoding always emits the canonical compact
// upper-case form.
var secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// DecodeSecret decodes a Base32-encoded shared secret leniently:
// case-insensitive, padding optional, spaces ignored. A failure is
// reported as a *ValidationError for the secret field; the offending
// input is never echoed back.
func DecodeSecret(s string) ([]byte, error) {
	normalized := strings.ToUpper(strings.TrimRight(strings.TrimSpace(s), "="))
	normalized = strings.ReplaceAll(normalized, " ", "")

	data, err := secretEncoding.DecodeString(normalized)
	if err != nil {
		return nil, &ValidationError{Field: "secret", Reason: "not a valid base32 value"}
	}
	if len(data) == 0 {
		return nil, &ValidationError{Field: "secret", Reason: "must not be empty"}
	}
	return data, nil
}

// EncodeSecret returns the canonical Base32 form of a shared secret:
// upper case, no padding.
func EncodeSecret(secret []byte) string {
	return secretEncoding.EncodeToString(secret)
}
