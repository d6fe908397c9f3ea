package main

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/internal/cli"
	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/otp"
)

var listLong bool

// listCmd lists record labels. Secrets are never printed here; use
// 'view --reveal' for that.
var listCmd = &cobra.Command{
	Use:     "list [PATTERN]",
	Aliases: []string{"ls"},
	Short:   "List records in the vault",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		// 1. Unlock vault
		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		// 2. Select and display records
		if pattern == "" && v.Len() == 0 {
			fmt.Println("No records stored")
			return nil
		}
		records, err := cli.SelectRecords(pattern, v.Records())
		if err != nil {
			return err
		}

		printRecordList(os.Stdout, records, listLong)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "include issuer, algorithm, digits, and period")
}

// printRecordList writes one record per line, with metadata columns in
// long mode.
func printRecordList(w io.Writer, records []otp.Record, long bool) {
	if !long {
		for _, r := range records {
			fmt.Fprintln(w, r.Label)
		}
		return
	}

	labelWidth := cli.LabelWidth(records)
	issuerWidth := 1
	for _, r := range records {
		if n := utf8.RuneCountInString(r.Issuer); n > issuerWidth {
			issuerWidth = n
		}
	}
	for _, r := range records {
		issuer := r.Issuer
		if issuer == "" {
			issuer = "-"
		}
		fmt.Fprintf(w, "%-*s  %-*s  %-6s  %d digits  %ds\n",
			labelWidth, r.Label, issuerWidth, issuer, r.Algorithm, r.Digits, r.Period)
	}
}
