package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/forest6511/totpctl/pkg/otp"
)

// testRecord builds a record around the well-known demo secret with
// the standard SHA1/6/30 parameters.
func testRecord(t *testing.T, label, issuer string) otp.Record {
	t.Helper()
	secret, err := otp.DecodeSecret("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("DecodeSecret() error = %v", err)
	}
	r, err := otp.NewRecord(label, issuer, secret, otp.SHA1, otp.DefaultDigits, otp.DefaultPeriod)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	return r
}

// TestPrintCodes verifies the code listing format and label alignment
// against the documented vector: the demo secret produces 287082 at
// Unix time 59, with one second left in the window.
func TestPrintCodes(t *testing.T) {
	records := []otp.Record{
		testRecord(t, "Example:alice@example.com", "Example"),
		testRecord(t, "work", ""),
	}

	var buf bytes.Buffer
	if err := printCodes(&buf, records, time.Unix(59, 0)); err != nil {
		t.Fatalf("printCodes() error = %v", err)
	}

	want := "Example:alice@example.com  287082  (1s left)\n" +
		"work" + strings.Repeat(" ", 21) + "  287082  (1s left)\n"
	if buf.String() != want {
		t.Errorf("printCodes() output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

// TestPrintCodesEmpty verifies an empty selection prints nothing.
func TestPrintCodesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printCodes(&buf, nil, time.Unix(59, 0)); err != nil {
		t.Fatalf("printCodes() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

// TestPrintCodesInvalidRecord verifies a malformed record surfaces an
// error instead of a bogus code.
func TestPrintCodesInvalidRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := printCodes(&buf, []otp.Record{{}}, time.Unix(59, 0)); err == nil {
		t.Error("printCodes(zero record) should fail")
	}
}
