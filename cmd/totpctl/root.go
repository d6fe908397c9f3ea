// Package main provides the totpctl CLI application.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/forest6511/totpctl/internal/config"
	"github.com/forest6511/totpctl/pkg/crypto"
	"github.com/forest6511/totpctl/pkg/security"
	"github.com/forest6511/totpctl/pkg/vault"
)

// defaultVaultName is the vault file used when neither --vault nor
// TOTPCTL_VAULT names one. The .totp extension selects the encrypted
// container format.
const defaultVaultName = "records.totp"

// Global flags
var (
	vaultPath string
	verbose   bool
)

// cfg holds environment configuration, loaded before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "totpctl",
	Short: "totpctl is a local TOTP credential vault",
	Long: `A command-line vault for time-based one-time password (TOTP) credentials.

Records live in a single file whose extension picks the format:
  .totp         encrypted container (Argon2id + XChaCha20-Poly1305)
  .json .yaml   plaintext documents for inspection and versioning

Codes are generated locally per RFC 6238; nothing ever touches the
network.`,
	SilenceUsage: true,
	// PersistentPreRunE runs before every subcommand: it loads the
	// environment configuration, resolves the vault path, and wires the
	// diagnostic logger.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		// Flag beats environment beats default.
		if vaultPath == "" {
			vaultPath = cfg.VaultPath
		}
		if vaultPath == "" {
			vaultPath = defaultVaultName
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))

		slog.Debug("configured", "vault", vaultPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultPath, "vault", "f", "",
		fmt.Sprintf("vault file (default %q, or TOTPCTL_VAULT)", defaultVaultName))
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug diagnostics on stderr")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(codeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(completionCmd)
}

// readPassphrase prompts for a passphrase without echo. When stdin is
// not a terminal (piped input), it falls back to reading one line.
func readPassphrase(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		passphrase, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read passphrase: %w", err)
		}
		return passphrase, nil
	}

	line, err := readLine()
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return []byte(line), nil
}

// readNewPassphrase prompts for a new passphrase twice and grades it.
// A weak passphrase is reported but not rejected: the vault may guard
// low-value test credentials, and the estimate is advisory.
// userInputs seed the strength estimator with strings an attacker would
// try first.
func readNewPassphrase(userInputs ...string) ([]byte, error) {
	passphrase, err := readPassphrase("Enter passphrase: ")
	if err != nil {
		return nil, err
	}
	if len(passphrase) == 0 {
		crypto.SecureWipe(passphrase)
		return nil, errors.New("passphrase must not be empty")
	}

	confirm, err := readPassphrase("Confirm passphrase: ")
	if err != nil {
		crypto.SecureWipe(passphrase)
		return nil, err
	}
	defer crypto.SecureWipe(confirm)

	if string(passphrase) != string(confirm) {
		crypto.SecureWipe(passphrase)
		return nil, errors.New("passphrases do not match")
	}

	assessment := security.EvaluatePassphrase(string(passphrase), userInputs...)
	fmt.Fprintf(os.Stderr, "Passphrase strength: %s (offline crack time: %s)\n",
		assessment.Strength, assessment.CrackTime)
	if assessment.Strength <= security.Fair {
		fmt.Fprintln(os.Stderr, "Warning: consider a longer passphrase; this vault's security rests on it.")
	}

	return passphrase, nil
}

// openVault loads the configured vault, prompting for a passphrase when
// the format requires one. The returned passphrase is nil for plaintext
// vaults; callers that re-save the vault pass it back to saveVault and
// must SecureWipe it when done.
func openVault() (*vault.Vault, []byte, error) {
	format, err := vault.DetectFormat(vaultPath)
	if err != nil {
		return nil, nil, err
	}

	var passphrase []byte
	if format == vault.FormatEncrypted {
		passphrase, err = readPassphrase("Enter passphrase: ")
		if err != nil {
			return nil, nil, err
		}
	}

	v, _, err := vault.LoadFile(vaultPath, passphrase)
	if err != nil {
		crypto.SecureWipe(passphrase)
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("vault %q does not exist (create one with 'totpctl init')", vaultPath)
		}
		return nil, nil, err
	}

	if !vault.IsPrivate(vaultPath) {
		fmt.Fprintf(os.Stderr, "Warning: %s is readable by other users; consider chmod 600\n", vaultPath)
	}

	slog.Debug("vault loaded", "path", vaultPath, "format", format.String(), "records", v.Len())
	return v, passphrase, nil
}

// saveVault writes the vault back to its file, reusing the KDF cost it
// was loaded with; vaults encrypted for the first time take the
// configured cost.
func saveVault(v *vault.Vault, passphrase []byte) error {
	params := cfg.KDFParams()
	if loaded, ok := v.KDFParams(); ok {
		params = crypto.Params{
			Memory:  loaded.Memory,
			Time:    loaded.Iterations,
			Threads: loaded.Parallelism,
		}
	}
	if err := vault.SaveFile(vaultPath, v, passphrase, params); err != nil {
		return err
	}
	slog.Debug("vault saved", "path", vaultPath, "records", v.Len())
	return nil
}

// readLine reads a single line from stdin, trimming the trailing
// newline.
func readLine() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// warnSharedSecret reports existing records that already use the given
// secret. Reusing one secret across services makes them fall together.
func warnSharedSecret(v *vault.Vault, secret []byte, ownLabel string) {
	for _, label := range security.SharesSecret(v.Records(), secret) {
		if label == ownLabel {
			continue
		}
		fmt.Fprintf(os.Stderr, "Warning: secret is already used by %q\n", label)
	}
}
