package main

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/otp"
	"github.com/forest6511/totpctl/pkg/otpauth"
)

// Flags for the add command
var (
	addURI         string
	addLabel       string
	addIssuer      string
	addAlgorithm   string
	addDigits      int
	addPeriod      int
	addSecretStdin bool
)

// addCmd enrolls a new TOTP credential.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Enroll a new TOTP credential",
	Long: `Enroll a new TOTP credential. Supports two modes:

1. From an otpauth URI (what QR codes carry):
   totpctl add --uri 'otpauth://totp/Example:alice?secret=...'
   totpctl add --uri -        # read the URI from stdin

2. Manual entry:
   totpctl add --label github --issuer GitHub
   # secret is prompted without echo

Manual entry defaults to SHA1, 6 digits, 30 seconds, matching what most
services issue.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Build the record from a URI or from manual flags.
		var r otp.Record
		var err error
		if addURI != "" {
			if manual := manualAddFlags(cmd); len(manual) > 0 {
				return fmt.Errorf("--uri cannot be combined with %v", manual)
			}
			r, err = recordFromURI(addURI)
		} else {
			r, err = recordFromFlags()
		}
		if err != nil {
			return err
		}

		// 2. Add it to the vault and save.
		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		warnSharedSecret(v, r.Secret, r.Label)
		if err := v.Add(r); err != nil {
			return err
		}
		if err := saveVault(v, passphrase); err != nil {
			return err
		}

		fmt.Printf("Added %q (%s, %d digits, %ds period)\n", r.Label, r.Algorithm, r.Digits, r.Period)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addURI, "uri", "", "otpauth:// URI to enroll ('-' reads it from stdin)")
	addCmd.Flags().StringVar(&addLabel, "label", "", "unique label for the credential")
	addCmd.Flags().StringVar(&addIssuer, "issuer", "", "issuing service name")
	addCmd.Flags().StringVar(&addAlgorithm, "algorithm", "SHA1", "HMAC algorithm: SHA1, SHA256, SHA512")
	addCmd.Flags().IntVar(&addDigits, "digits", otp.DefaultDigits, "code length (6-10)")
	addCmd.Flags().IntVar(&addPeriod, "period", otp.DefaultPeriod, "time step in seconds")
	addCmd.Flags().BoolVar(&addSecretStdin, "secret-stdin", false, "read the secret from stdin instead of prompting")
}

// manualAddFlags lists manual-entry flags the user set, for rejecting
// mixed --uri invocations.
func manualAddFlags(cmd *cobra.Command) []string {
	var set []string
	for _, name := range []string{"label", "issuer", "algorithm", "digits", "period", "secret-stdin"} {
		if cmd.Flags().Changed(name) {
			set = append(set, "--"+name)
		}
	}
	return set
}

// recordFromURI builds a record from an otpauth URI, reading it from
// stdin when the argument is "-".
func recordFromURI(uri string) (otp.Record, error) {
	if uri == "-" {
		line, err := readLine()
		if err != nil {
			return otp.Record{}, fmt.Errorf("failed to read URI from stdin: %w", err)
		}
		uri = line
	}
	return otpauth.ParseURI(uri)
}

// recordFromFlags builds a record from manual-entry flags, prompting
// for the secret.
func recordFromFlags() (otp.Record, error) {
	if addLabel == "" {
		return otp.Record{}, errors.New("--label is required for manual entry (or use --uri)")
	}

	algorithm, err := otp.ParseAlgorithm(addAlgorithm)
	if err != nil {
		return otp.Record{}, err
	}

	encoded, err := readSecret()
	if err != nil {
		return otp.Record{}, err
	}
	secret, err := otp.DecodeSecret(encoded)
	if err != nil {
		return otp.Record{}, err
	}
	defer crypto.SecureWipe(secret)

	return otp.NewRecord(addLabel, addIssuer, secret, algorithm, addDigits, addPeriod)
}

// readSecret reads the base32 secret, without echo on a terminal.
func readSecret() (string, error) {
	if addSecretStdin || !term.IsTerminal(int(syscall.Stdin)) {
		line, err := readLine()
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return line, nil
	}

	fmt.Fprint(os.Stderr, "Enter secret (base32): ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	defer crypto.SecureWipe(secret)
	return string(secret), nil
}
