package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/vault"
)

var convertTo string

// convertCmd re-encodes the vault in another format at a new path.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Re-encode the vault in another format",
	Long: `Write the vault to a new path, converting between the encrypted
container and plain JSON or YAML. The target format is taken from the
new path's extension. The original file is left in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Figure out the target format
		target, err := vault.DetectFormat(convertTo)
		if err != nil {
			return err
		}

		// 2. Unlock the current vault
		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		// 3. Collect a passphrase for an encrypted target
		var newPassphrase []byte
		if target == vault.FormatEncrypted {
			newPassphrase, err = readNewPassphrase()
			if err != nil {
				return err
			}
			defer crypto.SecureWipe(newPassphrase)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %q stores secrets unencrypted\n", convertTo)
		}

		// 4. Write the new file
		if err := vault.Create(convertTo, v, newPassphrase, cfg.KDFParams()); err != nil {
			return err
		}

		fmt.Printf("Converted vault to %s at %s\n", target, convertTo)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target path; extension picks the format (.totp, .json, .yaml)")
	convertCmd.MarkFlagRequired("to")
}
