package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}

	if cfg.HTTP.Timeout != 15*time.Second {
		t.Errorf("http.timeout default = %s, want 15s", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent != "CryptoMAX Staking Bot" {
		t.Errorf("http.user_agent default = %q", cfg.HTTP.UserAgent)
	}
	if cfg.Scheduler.Interval != 15*time.Minute {
		t.Errorf("scheduler.interval default = %s, want 15m", cfg.Scheduler.Interval)
	}
	if !cfg.Scheduler.AlignToBucket {
		t.Error("scheduler.align_to_bucket should default to true")
	}
	if cfg.Snapshot.Path != "staking_rates.json" {
		t.Errorf("snapshot.path default = %q", cfg.Snapshot.Path)
	}
	if cfg.Alerting.Enabled {
		t.Error("alerting should default to disabled")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Join([]string{
		"http:",
		"  timeout: 5s",
		"scheduler:",
		"  interval: 1m",
		"providers:",
		"  disabled: [binance, nexo]",
		"snapshot:",
		"  path: out/rates.json",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("http.timeout = %s, want 5s", cfg.HTTP.Timeout)
	}
	if cfg.Scheduler.Interval != time.Minute {
		t.Errorf("scheduler.interval = %s, want 1m", cfg.Scheduler.Interval)
	}
	if len(cfg.Providers.Disabled) != 2 || cfg.Providers.Disabled[0] != "binance" {
		t.Errorf("providers.disabled = %v", cfg.Providers.Disabled)
	}
	if cfg.Snapshot.Path != "out/rates.json" {
		t.Errorf("snapshot.path = %q", cfg.Snapshot.Path)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			HTTP:      HTTPConfig{Timeout: 15 * time.Second},
			Scheduler: SchedulerConfig{Interval: 15 * time.Minute},
			Snapshot:  SnapshotConfig{Path: "staking_rates.json"},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "zero http timeout",
			mutate: func(c *Config) { c.HTTP.Timeout = 0 },
			want:   "http.timeout",
		},
		{
			name:   "zero interval",
			mutate: func(c *Config) { c.Scheduler.Interval = 0 },
			want:   "scheduler.interval",
		},
		{
			name:   "empty snapshot path",
			mutate: func(c *Config) { c.Snapshot.Path = "" },
			want:   "snapshot.path",
		},
		{
			name: "telegram without token",
			mutate: func(c *Config) {
				c.Alerting.Telegram.Enabled = true
				c.Alerting.Telegram.ChatID = "42"
			},
			want: "bot_token",
		},
		{
			name: "telegram without chat id",
			mutate: func(c *Config) {
				c.Alerting.Telegram.Enabled = true
				c.Alerting.Telegram.BotToken = "token"
			},
			want: "chat_id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate should fail")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q should mention %q", err, tc.want)
			}
		})
	}
}
