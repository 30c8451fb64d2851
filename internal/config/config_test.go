package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `
telegram:
  token: "123:abc"
  admin_id: 42
premium:
  secret: "super-secret"
database:
  host: localhost
  port: "5432"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Core.Telegram.Token != "123:abc" {
		t.Errorf("token = %q", cfg.Core.Telegram.Token)
	}
	if cfg.Core.Telegram.RunMode != "longpoll" {
		t.Errorf("run mode = %q, want longpoll default", cfg.Core.Telegram.RunMode)
	}
	if cfg.Premium.DefaultKeyDays != 30 {
		t.Errorf("default key days = %d, want 30", cfg.Premium.DefaultKeyDays)
	}
	if cfg.Premium.MaxKeyDays != 365 {
		t.Errorf("max key days = %d, want 365", cfg.Premium.MaxKeyDays)
	}
	if cfg.Premium.MaxRedeemAttempts != 5 {
		t.Errorf("max redeem attempts = %d, want 5", cfg.Premium.MaxRedeemAttempts)
	}
	if cfg.Health.Port != 8080 {
		t.Errorf("health port = %d, want 8080", cfg.Health.Port)
	}
	if cfg.Monitor.IntervalSeconds != 300 {
		t.Errorf("monitor interval = %d, want 300", cfg.Monitor.IntervalSeconds)
	}
	if cfg.CoreConfig() != &cfg.Core {
		t.Error("CoreConfig should expose the embedded core config")
	}
}

func TestLoadRequiresPremiumSecret(t *testing.T) {
	yaml := `
telegram:
  token: "123:abc"
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected error for missing premium secret")
	}
}

func TestLoadRejectsDefaultAboveMax(t *testing.T) {
	yaml := `
telegram:
  token: "123:abc"
premium:
  secret: "s"
  default_key_days: 400
  max_key_days: 365
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected error for default_key_days > max_key_days")
	}
}
