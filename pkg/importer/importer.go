// Package importer parses bulk enrollment files: otpauth URI lists and
// plaintext vault documents, merged into a vault with per-record skip
// reporting.
package importer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/forest6511/totpctl/pkg/otp"
	"github.com/forest6511/totpctl/pkg/otpauth"
	"github.com/forest6511/totpctl/pkg/vault"
)

// Source identifies the input file format.
type Source string

const (
	// SourceURI is a text file with one otpauth URI per line. Blank
	// lines and lines starting with # are ignored.
	SourceURI Source = "uri"
	// SourceJSON is a plaintext JSON vault document.
	SourceJSON Source = "json"
	// SourceYAML is a plaintext YAML vault document.
	SourceYAML Source = "yaml"
)

// ParseSource maps a format name from the command line to a Source.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uri":
		return SourceURI, nil
	case "json":
		return SourceJSON, nil
	case "yaml", "yml":
		return SourceYAML, nil
	default:
		return "", fmt.Errorf("importer: unsupported import format %q (valid: %s)",
			name, strings.Join(ValidSources(), ", "))
	}
}

// DetectSource guesses the input format from the file extension.
// Anything that is not a vault document extension is treated as a URI
// list, the common case for authenticator exports.
func DetectSource(path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceJSON
	case ".yaml", ".yml":
		return SourceYAML
	default:
		return SourceURI
	}
}

// ValidSources returns the accepted format names.
func ValidSources() []string {
	return []string{string(SourceURI), string(SourceJSON), string(SourceYAML)}
}

// SkippedItem records one entry that was not merged, with the reason.
type SkippedItem struct {
	Label  string
	Reason string
}

// Result reports the outcome of a merge.
type Result struct {
	Imported int
	Skipped  []SkippedItem
}

// Parse extracts records from an enrollment file. Parsing is strict: a
// malformed line or document rejects the whole file, so a typo cannot
// silently drop an enrollment.
func Parse(data []byte, source Source) ([]otp.Record, error) {
	switch source {
	case SourceURI:
		return parseURILines(data)
	case SourceJSON:
		return parseVaultDocument(data, vault.FormatJSON)
	case SourceYAML:
		return parseVaultDocument(data, vault.FormatYAML)
	default:
		return nil, fmt.Errorf("importer: unsupported import format %q", source)
	}
}

func parseURILines(data []byte) ([]otp.Record, error) {
	var records []otp.Record

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		r, err := otpauth.ParseURI(text)
		if err != nil {
			return nil, fmt.Errorf("importer: line %d: %w", line, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("importer: failed to read input: %w", err)
	}
	return records, nil
}

// parseVaultDocument reads records out of a plaintext vault document,
// reusing the vault codec so import and load accept exactly the same
// files.
func parseVaultDocument(data []byte, format vault.Format) ([]otp.Record, error) {
	v, err := vault.DecodePlain(data, format)
	if err != nil {
		return nil, err
	}
	return v.Records(), nil
}

// Merge adds records to the vault. A label already present is an error
// unless skipDuplicates is set, in which case the record is counted and
// reported as skipped; re-importing the same export is then idempotent.
func Merge(v *vault.Vault, records []otp.Record, skipDuplicates bool) (*Result, error) {
	result := &Result{}
	for _, r := range records {
		err := v.Add(r)
		if err == nil {
			result.Imported++
			continue
		}
		if skipDuplicates && errors.Is(err, vault.ErrDuplicateLabel) {
			result.Skipped = append(result.Skipped, SkippedItem{
				Label:  r.Label,
				Reason: "label already in vault",
			})
			continue
		}
		return nil, err
	}
	return result, nil
}
