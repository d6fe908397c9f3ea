package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/otp"
)

// Flags for the edit command
var (
	editIssuer    string
	editAlgorithm string
	editDigits    int
	editPeriod    int
	editSecret    bool
)

// editCmd updates fields of an existing record.
var editCmd = &cobra.Command{
	Use:   "edit [label]",
	Short: "Update a record's parameters",
	Long: `Update fields of an existing record. Only the flags you pass change;
everything else keeps its current value. --secret prompts for the new
secret instead of taking it on the command line.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Unlock vault
		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		r, err := v.Get(args[0])
		if err != nil {
			return err
		}

		// 2. Apply the requested changes
		issuer := r.Issuer
		algorithm := r.Algorithm
		digits := r.Digits
		period := r.Period
		secret := r.Secret

		changed := false
		if cmd.Flags().Changed("issuer") {
			issuer = editIssuer
			changed = true
		}
		if cmd.Flags().Changed("algorithm") {
			algorithm, err = otp.ParseAlgorithm(editAlgorithm)
			if err != nil {
				return err
			}
			changed = true
		}
		if cmd.Flags().Changed("digits") {
			digits = editDigits
			changed = true
		}
		if cmd.Flags().Changed("period") {
			period = editPeriod
			changed = true
		}
		if editSecret {
			encoded, err := readSecret()
			if err != nil {
				return err
			}
			secret, err = otp.DecodeSecret(encoded)
			if err != nil {
				return err
			}
			defer crypto.SecureWipe(secret)
			changed = true
		}
		if !changed {
			return errors.New("no changes requested, pass at least one field flag")
		}

		updated, err := otp.NewRecord(r.Label, issuer, secret, algorithm, digits, period)
		if err != nil {
			return err
		}
		if editSecret {
			warnSharedSecret(v, updated.Secret, updated.Label)
		}
		if err := v.Update(updated); err != nil {
			return err
		}

		// 3. Save
		if err := saveVault(v, passphrase); err != nil {
			return err
		}

		fmt.Printf("Updated %q\n", updated.Label)
		printRecord(os.Stdout, updated, false, false)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editIssuer, "issuer", "", "new issuer (empty string clears it)")
	editCmd.Flags().StringVar(&editAlgorithm, "algorithm", "", "new HMAC algorithm: SHA1, SHA256, SHA512")
	editCmd.Flags().IntVar(&editDigits, "digits", 0, "new code length (6-10)")
	editCmd.Flags().IntVar(&editPeriod, "period", 0, "new time step in seconds")
	editCmd.Flags().BoolVar(&editSecret, "secret", false, "prompt for a new secret")
}
