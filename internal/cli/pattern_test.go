package cli

import (
	"testing"

	"github.com/forest6511/totpctl/pkg/otp"
)

func testRecords(t *testing.T, labels ...string) []otp.Record {
	t.Helper()
	records := make([]otp.Record, 0, len(labels))
	for _, label := range labels {
		r, err := otp.NewRecord(label, "", []byte(label+" secret material"), otp.SHA1, 6, 30)
		if err != nil {
			t.Fatalf("NewRecord(%q) failed: %v", label, err)
		}
		records = append(records, r)
	}
	return records
}

func TestSelectRecords(t *testing.T) {
	records := testRecords(t,
		"aws-access",
		"aws-root",
		"github",
		"gitlab",
		"work-vpn",
	)

	tests := []struct {
		name     string
		pattern  string
		expected []string
		wantErr  bool
	}{
		{
			name:     "empty pattern selects all",
			pattern:  "",
			expected: []string{"aws-access", "aws-root", "github", "gitlab", "work-vpn"},
		},
		{
			name:     "exact match",
			pattern:  "github",
			expected: []string{"github"},
		},
		{
			name:     "wildcard prefix",
			pattern:  "aws-*",
			expected: []string{"aws-access", "aws-root"},
		},
		{
			name:     "wildcard suffix",
			pattern:  "*lab",
			expected: []string{"gitlab"},
		},
		{
			name:     "question mark",
			pattern:  "git???",
			expected: []string{"github", "gitlab"},
		},
		{
			name:     "match all",
			pattern:  "*",
			expected: []string{"aws-access", "aws-root", "github", "gitlab", "work-vpn"},
		},
		{
			name:    "no match glob",
			pattern: "missing-*",
			wantErr: true,
		},
		{
			name:    "no match exact",
			pattern: "missing",
			wantErr: true,
		},
		{
			name:    "invalid pattern",
			pattern: "[invalid",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := SelectRecords(tc.pattern, records)

			if tc.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(result) != len(tc.expected) {
				t.Errorf("got %d results, want %d", len(result), len(tc.expected))
				return
			}

			// Matches keep vault order.
			for i, exp := range tc.expected {
				if result[i].Label != exp {
					t.Errorf("position %d: got %s, want %s", i, result[i].Label, exp)
				}
			}
		})
	}
}

// Exact lookups are normalized, so a decomposed pattern finds the
// composed label.
func TestSelectRecordsNormalizesExact(t *testing.T) {
	records := testRecords(t, "café")

	result, err := SelectRecords("café", records)
	if err != nil {
		t.Fatalf("SelectRecords failed: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("got %d results, want 1", len(result))
	}
}

func TestLabelWidth(t *testing.T) {
	if got := LabelWidth(nil); got != 0 {
		t.Errorf("LabelWidth(nil) = %d, want 0", got)
	}

	records := testRecords(t, "abc", "abcdef", "ab")
	if got := LabelWidth(records); got != 6 {
		t.Errorf("LabelWidth = %d, want 6", got)
	}
}
