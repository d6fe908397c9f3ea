package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/importer"
	"github.com/forest6511/totpctl/pkg/security"
	"github.com/forest6511/totpctl/pkg/vault"
)

// Flags for the import command
var (
	importFormat         string
	importSkipDuplicates bool
	importDryRun         bool
)

// importCmd merges records from an external file into the vault.
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import records from a file",
	Long: `Import records from an otpauth URI list (one per line, # comments
allowed) or from a plain JSON or YAML vault document. The source format
is detected from the file extension; use --format to override.

A label collision aborts the import unless --skip-duplicates is set, in
which case existing records are left untouched and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		// 1. Detect the source format
		source := importer.DetectSource(path)
		if importFormat != "" {
			var err error
			source, err = importer.ParseSource(importFormat)
			if err != nil {
				return err
			}
		}

		// 2. Parse the input file
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}
		records, err := importer.Parse(data, source)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No records found in file")
			return nil
		}

		if importDryRun {
			for _, r := range records {
				fmt.Printf("[dry-run] Would import: %s\n", r.Label)
			}
			fmt.Printf("\nDry-run complete: %d record(s) would be imported\n", len(records))
			return nil
		}

		// 3. Merge into the vault
		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		result, err := importer.Merge(v, records, importSkipDuplicates)
		if err != nil {
			return err
		}
		if err := saveVault(v, passphrase); err != nil {
			return err
		}

		// 4. Report the outcome
		for _, item := range result.Skipped {
			fmt.Printf("Skipped (%s): %s\n", item.Reason, item.Label)
		}
		fmt.Printf("Import summary: %d imported", result.Imported)
		if len(result.Skipped) > 0 {
			fmt.Printf(", %d skipped", len(result.Skipped))
		}
		fmt.Println()

		warnDuplicateSecrets(v)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "source format: uri, json, yaml (default: detect from extension)")
	importCmd.Flags().BoolVar(&importSkipDuplicates, "skip-duplicates", false, "skip records whose label is already in the vault")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "show what would be imported without saving")
}

// warnDuplicateSecrets reports groups of records sharing one secret,
// usually the same credential imported twice under different labels.
func warnDuplicateSecrets(v *vault.Vault) {
	groups, err := security.FindDuplicateSecrets(v.Records())
	if err != nil || len(groups) == 0 {
		return
	}
	for _, g := range groups {
		fmt.Fprintf(os.Stderr, "Warning: %d records share one secret: %s\n", g.Count, strings.Join(g.Labels, ", "))
	}
}
