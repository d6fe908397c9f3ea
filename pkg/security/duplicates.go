package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"sort"

	"github.com/forest6511/totpctl/pkg/otp"
)

// DuplicateGroup lists the labels of records that share one secret.
// A reused TOTP secret means compromising one enrollment compromises
// them all.
type DuplicateGroup struct {
	Labels []string
	Count  int
}

// FindDuplicateSecrets scans records for shared secrets.
//
// Secrets are compared through HMAC-SHA256 fingerprints under a
// throwaway session key, so raw secret bytes never become map keys or
// outlive the scan. Groups come back largest first, ties broken by
// their first label; labels within a group keep record order.
func FindDuplicateSecrets(records []otp.Record) ([]DuplicateGroup, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("security: failed to generate session key: %w", err)
	}

	byFingerprint := make(map[string][]string)
	for _, r := range records {
		mac := hmac.New(sha256.New, key)
		mac.Write(r.Secret)
		fp := string(mac.Sum(nil))
		byFingerprint[fp] = append(byFingerprint[fp], r.Label)
	}

	var groups []DuplicateGroup
	for _, labels := range byFingerprint {
		if len(labels) <= 1 {
			continue
		}
		groups = append(groups, DuplicateGroup{Labels: labels, Count: len(labels)})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Labels[0] < groups[j].Labels[0]
	})
	return groups, nil
}

// SharesSecret returns the labels of records whose secret equals the
// candidate, for warning before an add or import introduces a reused
// secret. Comparison is constant time.
func SharesSecret(records []otp.Record, secret []byte) []string {
	var labels []string
	for _, r := range records {
		if subtle.ConstantTimeCompare(r.Secret, secret) == 1 {
			labels = append(labels, r.Label)
		}
	}
	return labels
}
