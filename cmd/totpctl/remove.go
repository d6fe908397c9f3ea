package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/pkg/crypto"
)

// removeCmd deletes a record from the vault.
var removeCmd = &cobra.Command{
	Use:     "remove [label]",
	Aliases: []string{"rm"},
	Short:   "Remove a record from the vault",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Unlock vault
		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		// 2. Remove and save
		if err := v.Remove(args[0]); err != nil {
			return err
		}
		if err := saveVault(v, passphrase); err != nil {
			return err
		}

		fmt.Printf("Removed %q\n", args[0])
		return nil
	},
}
