// Package security provides passphrase strength assessment and
// duplicate secret detection for vault hygiene warnings.
package security

import (
	"github.com/nbutton23/zxcvbn-go"
)

// Strength grades a vault passphrase.
type Strength int

const (
	// Weak passphrases fall to trivial offline search and should be
	// rejected or confirmed explicitly.
	Weak Strength = iota
	// Fair passphrases resist casual guessing but not a determined
	// offline attack.
	Fair
	// Good passphrases are acceptable for an encrypted vault.
	Good
	// Strong passphrases resist offline search even against the vault's
	// slow KDF being sidestepped.
	Strong
)

// String returns a human-readable representation of the strength level.
func (s Strength) String() string {
	switch s {
	case Weak:
		return "Weak"
	case Fair:
		return "Fair"
	case Good:
		return "Good"
	case Strong:
		return "Strong"
	default:
		return "Unknown"
	}
}

// Assessment is the result of evaluating a candidate passphrase.
type Assessment struct {
	Strength Strength

	// CrackTime is a human-readable offline crack time estimate, for
	// example "instant" or "centuries".
	CrackTime string
}

// EvaluatePassphrase grades a candidate vault passphrase using the
// zxcvbn estimator. userInputs lists strings an attacker tries first,
// such as the vault's labels and issuers; a passphrase built from them
// scores lower.
func EvaluatePassphrase(passphrase string, userInputs ...string) Assessment {
	result := zxcvbn.PasswordStrength(passphrase, userInputs)

	var strength Strength
	switch result.Score {
	case 0, 1:
		strength = Weak
	case 2:
		strength = Fair
	case 3:
		strength = Good
	default:
		strength = Strong
	}
	return Assessment{
		Strength:  strength,
		CrackTime: result.CrackTimeDisplay,
	}
}
