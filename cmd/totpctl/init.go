package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/vault"
)

// initCmd creates a new empty vault.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new empty vault",
	Long: `Create a new empty vault at the configured path.

The file extension picks the format: .totp creates an encrypted vault
and prompts for a passphrase; .json and .yaml create plaintext vaults.
An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := vault.DetectFormat(vaultPath)
		if err != nil {
			return err
		}

		var passphrase []byte
		if format == vault.FormatEncrypted {
			passphrase, err = readNewPassphrase()
			if err != nil {
				return err
			}
			defer crypto.SecureWipe(passphrase)
		}

		if err := vault.Create(vaultPath, vault.New(), passphrase, cfg.KDFParams()); err != nil {
			return err
		}

		fmt.Printf("Created %s vault at %s\n", format, vaultPath)
		return nil
	},
}
