package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnvWithoutFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_CHAT_ID", "42")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminID != 42 {
		t.Fatalf("admin id = %d", cfg.Telegram.AdminID)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Sender.Workers != 1 {
		t.Fatalf("sender workers = %d, want 1", cfg.Sender.Workers)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
telegram:
  token: from-file
  run_mode: polling
  poll_backoff_seconds: 7
rate_limit:
  interval_ms: 300
  exclude_updates: [" Callback ", ""]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %q, want env value", cfg.Telegram.Token)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("polling alias not normalized: %q", cfg.Telegram.RunMode)
	}
	if cfg.Telegram.PollBackoffSeconds != 7 {
		t.Fatalf("poll backoff = %d", cfg.Telegram.PollBackoffSeconds)
	}
	if len(cfg.RateLimit.ExcludeUpdates) != 1 || cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Fatalf("exclude updates = %v", cfg.RateLimit.ExcludeUpdates)
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := map[string]Config{
		"missing token": {},
		"bad run mode":  {Telegram: TelegramConfig{Token: "t", RunMode: "push"}},
		"webhook url":   {Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook}},
		"bad exclusion": {Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline_query"}}},
	}
	for name, cfg := range cases {
		if err := Normalize(&cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestMissingFileIsAnError(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "t")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for explicit missing file")
	}
}
