// Package otpauth converts otpauth:// enrollment URIs to and from otp
// records.
//
// The format is the de-facto standard used by authenticator apps for QR
// enrollment. It is loosely specified, so parsing is deliberately
// lenient where vendors disagree: secrets decode case-insensitively
// with optional padding, unknown query parameters are ignored, and when
// the label path and the issuer query parameter name different issuers
// the query parameter wins, matching Google Authenticator behavior.
package otpauth

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/forest6511/totpctl/pkg/otp"
)

// Sentinel errors returned by ParseURI.
var (
	// ErrInvalidURI indicates the input is not a well-formed otpauth URI.
	ErrInvalidURI = errors.New("otpauth: invalid otpauth uri")

	// ErrUnsupportedType indicates a credential type other than totp,
	// such as counter-based hotp.
	ErrUnsupportedType = errors.New("otpauth: unsupported credential type")

	// ErrInvalidSecret indicates the secret parameter is not valid Base32.
	ErrInvalidSecret = errors.New("otpauth: secret is not a valid base32 value")
)

// ParseURI parses an otpauth enrollment URI into a validated record.
//
// Only the secret parameter is mandatory; issuer, algorithm, digits,
// and period fall back to the enrollment defaults (empty, SHA1, 6, 30).
// The label keeps its full percent-decoded path form, including any
// embedded "issuer:account" prefix. "period" is the documented
// parameter name; "step", which some exporters emit instead, is
// accepted as an alias. Field values that violate record constraints
// surface the record's own *otp.ValidationError unchanged.
func ParseURI(raw string) (otp.Record, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return otp.Record{}, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if !strings.EqualFold(u.Scheme, "otpauth") {
		return otp.Record{}, fmt.Errorf("%w: scheme must be \"otpauth\"", ErrInvalidURI)
	}

	switch strings.ToLower(u.Host) {
	case "totp":
	case "":
		return otp.Record{}, fmt.Errorf("%w: missing credential type", ErrInvalidURI)
	case "hotp":
		return otp.Record{}, fmt.Errorf("%w: hotp is counter-based, only totp is supported", ErrUnsupportedType)
	default:
		return otp.Record{}, fmt.Errorf("%w: %q, only totp is supported", ErrUnsupportedType, u.Host)
	}

	// url.Parse already percent-decodes the path.
	label := strings.TrimPrefix(u.Path, "/")
	params := u.Query()

	rawSecret := params.Get("secret")
	if rawSecret == "" {
		return otp.Record{}, fmt.Errorf("%w: missing secret parameter", ErrInvalidURI)
	}
	secret, err := otp.DecodeSecret(rawSecret)
	if err != nil {
		return otp.Record{}, ErrInvalidSecret
	}

	// The label may embed "issuer:account". An explicit issuer query
	// parameter wins when both are present.
	issuer := params.Get("issuer")
	if issuer == "" {
		if before, _, found := strings.Cut(label, ":"); found {
			issuer = strings.TrimSpace(before)
		}
	}

	algorithm := otp.SHA1
	if v := params.Get("algorithm"); v != "" {
		algorithm, err = otp.ParseAlgorithm(v)
		if err != nil {
			return otp.Record{}, err
		}
	}

	digits := otp.DefaultDigits
	if v := params.Get("digits"); v != "" {
		digits, err = strconv.Atoi(v)
		if err != nil {
			return otp.Record{}, fmt.Errorf("%w: digits is not a number", ErrInvalidURI)
		}
	}

	period := otp.DefaultPeriod
	rawPeriod := params.Get("period")
	if rawPeriod == "" {
		rawPeriod = params.Get("step")
	}
	if rawPeriod != "" {
		period, err = strconv.Atoi(rawPeriod)
		if err != nil {
			return otp.Record{}, fmt.Errorf("%w: period is not a number", ErrInvalidURI)
		}
	}

	// All remaining query parameters are vendor extensions; ignore them.
	return otp.NewRecord(label, issuer, secret, algorithm, digits, period)
}

// BuildURI renders the canonical otpauth URI for a record: all
// parameters explicit, secret in compact upper-case Base32, issuer
// omitted when empty. ParseURI(BuildURI(r)) reproduces r for any record
// ParseURI can produce.
func BuildURI(r otp.Record) string {
	params := url.Values{}
	params.Set("secret", otp.EncodeSecret(r.Secret))
	if r.Issuer != "" {
		params.Set("issuer", r.Issuer)
	}
	params.Set("algorithm", r.Algorithm.String())
	params.Set("digits", strconv.Itoa(r.Digits))
	params.Set("period", strconv.Itoa(r.Period))

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + r.Label,
		RawQuery: params.Encode(),
	}
	return u.String()
}
