package vault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/forest6511/totpctl/pkg/otp"
)

// Format identifies how a vault file is serialized on disk.
type Format int

const (
	// FormatJSON is a plaintext JSON array of records.
	FormatJSON Format = iota
	// FormatYAML is a plaintext YAML sequence of records.
	FormatYAML
	// FormatEncrypted is the authenticated encrypted container.
	FormatEncrypted
)

// String returns the format name used in CLI messages and flags.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatEncrypted:
		return "encrypted"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name (as accepted on the command line) to a
// Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "encrypted", "totp":
		return FormatEncrypted, nil
	default:
		return 0, fmt.Errorf("%w: unknown format %q", ErrFormat, name)
	}
}

// DetectFormat determines the vault format from the file extension:
// .json, .yaml/.yml, or .totp for the encrypted container.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".totp":
		return FormatEncrypted, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized file extension %q", ErrFormat, filepath.Ext(path))
	}
}

// recordDTO is the serialized shape of a record. Optional fields are
// pointers so a file that omits them (taking the documented defaults)
// is distinguishable from a file that explicitly stores a zero.
type recordDTO struct {
	Label     string  `json:"label" yaml:"label"`
	Issuer    string  `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	Secret    string  `json:"secret" yaml:"secret"`
	Algorithm *string `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Digits    *int    `json:"digits,omitempty" yaml:"digits,omitempty"`
	Period    *int    `json:"period,omitempty" yaml:"period,omitempty"`
}

func toDTO(r otp.Record) recordDTO {
	algorithm := r.Algorithm.String()
	digits := r.Digits
	period := r.Period
	return recordDTO{
		Label:     r.Label,
		Issuer:    r.Issuer,
		Secret:    otp.EncodeSecret(r.Secret),
		Algorithm: &algorithm,
		Digits:    &digits,
		Period:    &period,
	}
}

func (d recordDTO) toRecord() (otp.Record, error) {
	secret, err := otp.DecodeSecret(d.Secret)
	if err != nil {
		return otp.Record{}, err
	}

	algorithm := otp.SHA1
	if d.Algorithm != nil {
		algorithm, err = otp.ParseAlgorithm(*d.Algorithm)
		if err != nil {
			return otp.Record{}, err
		}
	}
	digits := otp.DefaultDigits
	if d.Digits != nil {
		digits = *d.Digits
	}
	period := otp.DefaultPeriod
	if d.Period != nil {
		period = *d.Period
	}

	return otp.NewRecord(d.Label, d.Issuer, secret, algorithm, digits, period)
}

// EncodePlain serializes the vault as a plaintext document in the given
// format. All record fields are written explicitly so the file remains
// readable without knowledge of the defaults.
func EncodePlain(v *Vault, format Format) ([]byte, error) {
	dtos := make([]recordDTO, 0, v.Len())
	for _, r := range v.records {
		dtos = append(dtos, toDTO(r))
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(dtos, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(dtos); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: cannot encode plaintext as %s", ErrFormat, format)
	}
}

// DecodePlain parses a plaintext vault document. An empty document is an
// empty vault. Records missing optional fields take the defaults;
// records failing validation or duplicating a label reject the whole
// file.
func DecodePlain(data []byte, format Format) (*Vault, error) {
	var dtos []recordDTO
	if len(bytes.TrimSpace(data)) > 0 {
		switch format {
		case FormatJSON:
			dec := json.NewDecoder(bytes.NewReader(data))
			if err := dec.Decode(&dtos); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
		case FormatYAML:
			if err := yaml.Unmarshal(data, &dtos); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
		default:
			return nil, fmt.Errorf("%w: cannot decode plaintext as %s", ErrFormat, format)
		}
	}

	v := New()
	for i, d := range dtos {
		r, err := d.toRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d (%q): %v", ErrFormat, i, d.Label, err)
		}
		if err := v.Add(r); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrFormat, i, err)
		}
	}
	return v, nil
}
