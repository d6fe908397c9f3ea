package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/internal/cli"
	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/otp"
)

var codeWatch bool

// codeCmd prints current codes for one or more records.
var codeCmd = &cobra.Command{
	Use:   "code [PATTERN]",
	Short: "Print current codes with seconds remaining",
	Long: `Print the current code and seconds remaining for every record whose
label matches PATTERN. PATTERN accepts shell-style globs (github*).
Without a pattern, codes for all records are printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		v, passphrase, err := openVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		records, err := cli.SelectRecords(pattern, v.Records())
		if err != nil {
			return err
		}

		if !codeWatch {
			return printCodes(os.Stdout, records, time.Now())
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			fmt.Print("\033[2J\033[H")
			if err := printCodes(os.Stdout, records, time.Now()); err != nil {
				return err
			}
			fmt.Println("\nPress Ctrl+C to stop")
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func init() {
	codeCmd.Flags().BoolVarP(&codeWatch, "watch", "w", false, "redraw codes every second")
}

// printCodes writes one line per record: label, current code, seconds
// until the code rotates.
func printCodes(w io.Writer, records []otp.Record, now time.Time) error {
	width := cli.LabelWidth(records)
	for _, r := range records {
		code, err := otp.GenerateCode(r, now)
		if err != nil {
			return fmt.Errorf("failed to generate code for %q: %w", r.Label, err)
		}
		fmt.Fprintf(w, "%-*s  %s  (%ds left)\n", width, r.Label, code, otp.SecondsRemaining(r, now))
	}
	return nil
}
