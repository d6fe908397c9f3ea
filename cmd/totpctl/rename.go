package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/pkg/crypto"
)

// renameCmd changes a record's label.
var renameCmd = &cobra.Command{
	Use:   "rename [old] [new]",
	Short: "Rename a record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Unlock vault
		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		// 2. Rename and save
		if err := v.Rename(args[0], args[1]); err != nil {
			return err
		}
		if err := saveVault(v, passphrase); err != nil {
			return err
		}

		fmt.Printf("Renamed %q to %q\n", args[0], args[1])
		return nil
	},
}
