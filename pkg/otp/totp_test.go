package otp

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// rfc6238Secret returns the RFC 6238 Appendix B shared secret for the
// given algorithm: the ASCII string "12345678901234567890" repeated to
// the hash's natural key length (20, 32, or 64 bytes).
func rfc6238Secret(a Algorithm) []byte {
	const seed = "12345678901234567890"
	var n int
	switch a {
	case SHA1:
		n = 20
	case SHA256:
		n = 32
	case SHA512:
		n = 64
	}
	return []byte(strings.Repeat(seed, (n/len(seed))+1))[:n]
}

func mustRecord(t *testing.T, a Algorithm, digits int) Record {
	t.Helper()
	r, err := NewRecord("rfc", "", rfc6238Secret(a), a, digits, 30)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	return r
}

// TestGenerateCodeRFC6238Vectors verifies code generation against the
// RFC 6238 Appendix B reference vectors for all three algorithms at
// 8 digits, and their 6-digit reductions.
func TestGenerateCodeRFC6238Vectors(t *testing.T) {
	vectors := []struct {
		unix      int64
		algorithm Algorithm
		code8     string
	}{
		{59, SHA1, "94287082"},
		{59, SHA256, "46119246"},
		{59, SHA512, "90693936"},
		{1111111109, SHA1, "07081804"},
		{1111111109, SHA256, "68084774"},
		{1111111109, SHA512, "25091201"},
		{1111111111, SHA1, "14050471"},
		{1111111111, SHA256, "67062674"},
		{1111111111, SHA512, "99943326"},
		{1234567890, SHA1, "89005924"},
		{1234567890, SHA256, "91819424"},
		{1234567890, SHA512, "93441116"},
		{2000000000, SHA1, "69279037"},
		{2000000000, SHA256, "90698825"},
		{2000000000, SHA512, "38618901"},
		{20000000000, SHA1, "65353130"},
		{20000000000, SHA256, "77737706"},
		{20000000000, SHA512, "47863826"},
	}

	for _, v := range vectors {
		at := time.Unix(v.unix, 0).UTC()

		r8 := mustRecord(t, v.algorithm, 8)
		got8, err := GenerateCode(r8, at)
		if err != nil {
			t.Fatalf("GenerateCode(%s, t=%d) error = %v", v.algorithm, v.unix, err)
		}
		if got8 != v.code8 {
			t.Errorf("GenerateCode(%s, t=%d, 8 digits) = %q, want %q", v.algorithm, v.unix, got8, v.code8)
		}

		// The 6-digit code is the 8-digit value reduced mod 10^6,
		// i.e. the last six digits of the 8-digit code.
		r6 := mustRecord(t, v.algorithm, 6)
		got6, err := GenerateCode(r6, at)
		if err != nil {
			t.Fatalf("GenerateCode(%s, t=%d) error = %v", v.algorithm, v.unix, err)
		}
		if want6 := v.code8[2:]; got6 != want6 {
			t.Errorf("GenerateCode(%s, t=%d, 6 digits) = %q, want %q", v.algorithm, v.unix, got6, want6)
		}
	}
}

// TestGenerateCodeRFC4226Counters verifies the underlying HOTP
// truncation against the RFC 4226 Appendix D vectors by requesting
// timestamps that land on counters 0 through 9.
func TestGenerateCodeRFC4226Counters(t *testing.T) {
	codes := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}

	r := mustRecord(t, SHA1, 6)
	for counter, want := range codes {
		// Any timestamp inside [counter*30, counter*30+30) selects
		// this counter; use the middle of the window.
		at := time.Unix(int64(counter)*30+15, 0)
		got, err := GenerateCode(r, at)
		if err != nil {
			t.Fatalf("GenerateCode(counter=%d) error = %v", counter, err)
		}
		if got != want {
			t.Errorf("GenerateCode(counter=%d) = %q, want %q", counter, got, want)
		}
	}
}

// TestGenerateCodeStableWithinWindow verifies the code is constant for
// every second of a period window and changes at the boundary.
func TestGenerateCodeStableWithinWindow(t *testing.T) {
	r := mustRecord(t, SHA1, 6)

	base := int64(1111111110) // window start: divisible by 30
	first, err := GenerateCode(r, time.Unix(base, 0))
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}

	for offset := int64(1); offset < 30; offset++ {
		got, err := GenerateCode(r, time.Unix(base+offset, 0))
		if err != nil {
			t.Fatalf("GenerateCode(offset=%d) error = %v", offset, err)
		}
		if got != first {
			t.Errorf("code changed inside window at offset %d: %q != %q", offset, got, first)
		}
	}

	next, err := GenerateCode(r, time.Unix(base+30, 0))
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if next == first {
		t.Error("code did not change at the period boundary")
	}
}

// TestGenerateCodeDigitsAndPadding verifies per-record digit counts and
// zero-padding up to the 10-digit maximum.
func TestGenerateCodeDigitsAndPadding(t *testing.T) {
	for digits := MinDigits; digits <= MaxDigits; digits++ {
		r := mustRecord(t, SHA1, digits)
		code, err := GenerateCode(r, time.Unix(59, 0))
		if err != nil {
			t.Fatalf("GenerateCode(digits=%d) error = %v", digits, err)
		}
		if len(code) != digits {
			t.Errorf("GenerateCode(digits=%d) produced %d characters: %q", digits, len(code), code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Errorf("GenerateCode(digits=%d) produced non-decimal output %q", digits, code)
				break
			}
		}
	}
}

// TestGenerateCodeRejectsBadInput verifies invalid records and
// pre-epoch timestamps are rejected instead of producing garbage.
func TestGenerateCodeRejectsBadInput(t *testing.T) {
	valid := mustRecord(t, SHA1, 6)

	if _, err := GenerateCode(valid, time.Unix(-1, 0)); !errors.Is(err, ErrTimestampBeforeEpoch) {
		t.Errorf("GenerateCode(t=-1) error = %v, want ErrTimestampBeforeEpoch", err)
	}

	var zero Record
	if _, err := GenerateCode(zero, time.Unix(59, 0)); err == nil {
		t.Error("GenerateCode(zero record) should fail")
	}
}

// TestSecondsRemaining verifies the distance to the next rotation for
// several positions inside a window.
func TestSecondsRemaining(t *testing.T) {
	r := mustRecord(t, SHA1, 6)

	tests := []struct {
		unix int64
		want int
	}{
		{0, 30},   // window start
		{1, 29},
		{29, 1},   // last second of the window
		{30, 30},  // next window start
		{59, 1},
		{45, 15},
	}
	for _, tt := range tests {
		if got := SecondsRemaining(r, time.Unix(tt.unix, 0)); got != tt.want {
			t.Errorf("SecondsRemaining(t=%d) = %d, want %d", tt.unix, got, tt.want)
		}
	}

	// 90-second period: remaining counts against the longer window.
	slow, err := NewRecord("slow", "", rfc6238Secret(SHA1), SHA1, 6, 90)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	if got := SecondsRemaining(slow, time.Unix(30, 0)); got != 60 {
		t.Errorf("SecondsRemaining(period=90, t=30) = %d, want 60", got)
	}
}
