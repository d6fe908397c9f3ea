package config

import (
	"os"
	"testing"

	"github.com/forest6511/totpctl/pkg/crypto"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TOTPCTL_VAULT", "TOTPCTL_KDF_MEMORY", "TOTPCTL_KDF_TIME", "TOTPCTL_KDF_THREADS"} {
		if _, set := os.LookupEnv(key); set {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.VaultPath != "" {
		t.Errorf("Expected no vault path override, got %q", cfg.VaultPath)
	}
	if params := cfg.KDFParams(); params != crypto.DefaultParams() {
		t.Errorf("Expected default KDF params, got %+v", params)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOTPCTL_VAULT", "/tmp/team.totp")
	t.Setenv("TOTPCTL_KDF_MEMORY", "131072")
	t.Setenv("TOTPCTL_KDF_TIME", "5")
	t.Setenv("TOTPCTL_KDF_THREADS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.VaultPath != "/tmp/team.totp" {
		t.Errorf("Expected vault path override, got %q", cfg.VaultPath)
	}
	want := crypto.Params{Memory: 131072, Time: 5, Threads: 2}
	if params := cfg.KDFParams(); params != want {
		t.Errorf("Expected %+v, got %+v", want, params)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric memory", "TOTPCTL_KDF_MEMORY", "lots"},
		{"zero iterations", "TOTPCTL_KDF_TIME", "0"},
		{"memory over cap", "TOTPCTL_KDF_MEMORY", "99999999"},
		{"threads over cap", "TOTPCTL_KDF_THREADS", "200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected Load to reject %s=%s", tt.key, tt.value)
			}
		})
	}
}
