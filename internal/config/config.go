// Package config loads process configuration from TOTPCTL_* environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/forest6511/totpctl/pkg/crypto"
)

// Config holds settings read from the environment. Flags take
// precedence over the environment; the environment takes precedence
// over built-in defaults.
type Config struct {
	// VaultPath overrides the default vault location when --vault is
	// not given.
	VaultPath string `env:"TOTPCTL_VAULT"`

	// KDF cost used when a vault is first encrypted. Existing encrypted
	// vaults keep the cost recorded in their header until passwd
	// re-tunes them.
	KDFMemory  uint32 `env:"TOTPCTL_KDF_MEMORY"  envDefault:"65536"`
	KDFTime    uint32 `env:"TOTPCTL_KDF_TIME"    envDefault:"3"`
	KDFThreads uint8  `env:"TOTPCTL_KDF_THREADS" envDefault:"4"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	if err := cfg.KDFParams().Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// KDFParams returns the configured Argon2id cost.
func (c Config) KDFParams() crypto.Params {
	return crypto.Params{
		Memory:  c.KDFMemory,
		Time:    c.KDFTime,
		Threads: c.KDFThreads,
	}
}
