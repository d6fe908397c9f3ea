// Package cli provides shared helpers for CLI commands.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/forest6511/totpctl/pkg/otp"
)

// SelectRecords filters records by a label pattern.
// An empty pattern selects everything. If the pattern contains glob
// characters (*?[), it performs glob matching with filepath.Match rules.
// Otherwise, it must equal one label exactly.
func SelectRecords(pattern string, records []otp.Record) ([]otp.Record, error) {
	if pattern == "" {
		return records, nil
	}

	pattern = otp.NormalizeLabel(pattern)

	// Validate pattern syntax
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	if !strings.ContainsAny(pattern, "*?[") {
		// Exact match - verify the label exists
		for _, r := range records {
			if r.Label == pattern {
				return []otp.Record{r}, nil
			}
		}
		return nil, fmt.Errorf("no record with label %q", pattern)
	}

	// Glob matching
	var matches []otp.Record
	for _, r := range records {
		matched, err := filepath.Match(pattern, r.Label)
		if err != nil {
			return nil, err
		}
		if matched {
			matches = append(matches, r)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no records match pattern %q", pattern)
	}

	return matches, nil
}

// LabelWidth returns the widest label in the set, for column alignment.
func LabelWidth(records []otp.Record) int {
	width := 0
	for _, r := range records {
		if n := len([]rune(r.Label)); n > width {
			width = n
		}
	}
	return width
}
