package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/vault"
)

// passwdCmd changes the passphrase of an encrypted vault.
var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the vault passphrase",
	Long: `Change the passphrase of an encrypted vault. The current passphrase
is verified first, then the vault is re-encrypted with a fresh salt and
the configured key derivation cost.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Only encrypted vaults carry a passphrase
		format, err := vault.DetectFormat(vaultPath)
		if err != nil {
			return err
		}
		if format != vault.FormatEncrypted {
			return fmt.Errorf("vault %q is not encrypted, use 'convert --to' to encrypt it", vaultPath)
		}

		// 2. Verify the current passphrase by unlocking
		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		// 3. Collect the new passphrase
		newPassphrase, err := readNewPassphrase()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(newPassphrase)

		// 4. Re-encrypt, re-reading KDF cost from the configuration
		if err := vault.SaveFile(vaultPath, v, newPassphrase, cfg.KDFParams()); err != nil {
			return err
		}

		fmt.Println("Passphrase changed")
		return nil
	},
}
