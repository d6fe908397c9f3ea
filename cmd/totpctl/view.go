package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/otp"
	"github.com/forest6511/totpctl/pkg/otpauth"
)

// Flags for the view command
var (
	viewReveal bool
	viewURI    bool
)

// viewCmd shows a single record. The secret stays hidden unless
// explicitly requested.
var viewCmd = &cobra.Command{
	Use:   "view [label]",
	Short: "Show a record's parameters",
	Long: `Show a record's label, issuer, algorithm, digits, and period.

The secret is only printed with --reveal. --uri prints the full
otpauth:// URI, which also contains the secret.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Unlock vault
		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		// 2. Look up and display the record
		r, err := v.Get(args[0])
		if err != nil {
			return err
		}

		printRecord(os.Stdout, r, viewReveal, viewURI)
		return nil
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewReveal, "reveal", false, "print the base32 secret")
	viewCmd.Flags().BoolVar(&viewURI, "uri", false, "print the otpauth:// URI (includes the secret)")
}

// printRecord writes the record's fields, one per line.
func printRecord(w io.Writer, r otp.Record, reveal, showURI bool) {
	fmt.Fprintf(w, "    Label: %s\n", r.Label)
	if r.Issuer != "" {
		fmt.Fprintf(w, "   Issuer: %s\n", r.Issuer)
	}
	fmt.Fprintf(w, "Algorithm: %s\n", r.Algorithm)
	fmt.Fprintf(w, "   Digits: %d\n", r.Digits)
	fmt.Fprintf(w, "   Period: %ds\n", r.Period)
	if reveal {
		fmt.Fprintf(w, "   Secret: %s\n", otp.EncodeSecret(r.Secret))
	}
	if showURI {
		fmt.Fprintf(w, "      URI: %s\n", otpauth.BuildURI(r))
	}
}
