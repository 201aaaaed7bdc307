package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DraftKeyPrefix != "form_" {
		t.Errorf("DraftKeyPrefix = %q, want form_", cfg.DraftKeyPrefix)
	}
	if cfg.NotificationTTL != 5*time.Second {
		t.Errorf("NotificationTTL = %v, want 5s", cfg.NotificationTTL)
	}
	if cfg.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", cfg.Currency)
	}
	if filepath.Dir(cfg.DraftsDirectory) != cfg.DataDirectory {
		t.Errorf("drafts dir %q should sit inside data dir %q", cfg.DraftsDirectory, cfg.DataDirectory)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FINANCE_CONFIG", "")
	t.Setenv("FINANCE_DATA_DIR", dir)
	t.Setenv("FINANCE_LISTEN_ADDR", ":9999")
	t.Setenv("FINANCE_DEBUG", "1")
	t.Setenv("FINANCE_NOTIFY_TTL", "2s")
	t.Setenv("FINANCE_CURRENCY", "EUR")
	t.Setenv("FINANCE_PASSWORD", "hunter22hunter")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ListenAddr != ":9999" || !cfg.Debug {
		t.Errorf("server settings not applied: %+v", cfg)
	}
	if cfg.DraftsDirectory != filepath.Join(dir, "drafts") {
		t.Errorf("DraftsDirectory = %q", cfg.DraftsDirectory)
	}
	if cfg.NotificationTTL != 2*time.Second || cfg.Currency != "EUR" {
		t.Errorf("presentation settings not applied: %+v", cfg)
	}
	if cfg.Password != "hunter22hunter" {
		t.Error("password not read from environment")
	}
	if _, err := os.Stat(cfg.DraftsDirectory); err != nil {
		t.Errorf("drafts directory not created: %v", err)
	}
}

func TestLoadBadTTL(t *testing.T) {
	t.Setenv("FINANCE_CONFIG", "")
	t.Setenv("FINANCE_DATA_DIR", t.TempDir())
	t.Setenv("FINANCE_NOTIFY_TTL", "soon")

	if _, err := Load(zerolog.Nop()); err == nil {
		t.Error("expected error for unparseable ttl")
	}
}

func TestYAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finance.yaml")
	yamlData := "listen_addr: \":7000\"\n" +
		"data_directory: " + filepath.Join(dir, "store") + "\n" +
		"draft_key_prefix: draft_\n" +
		"notification_ttl: 10s\n"
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FINANCE_CONFIG", path)
	t.Setenv("FINANCE_DATA_DIR", "")
	t.Setenv("FINANCE_LISTEN_ADDR", ":7001")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ListenAddr != ":7001" {
		t.Errorf("env should win over file, ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.DraftKeyPrefix != "draft_" || cfg.NotificationTTL != 10*time.Second {
		t.Errorf("file settings not applied: %+v", cfg)
	}
	if cfg.DraftsDirectory != filepath.Join(dir, "store", "drafts") {
		t.Errorf("DraftsDirectory = %q, want it under the file's data dir", cfg.DraftsDirectory)
	}
}

func TestSaveFileOmitsPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Password = "secret-password"

	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	data, _ := os.ReadFile(path)
	if len(data) == 0 {
		t.Fatal("empty config file")
	}
	if strings.Contains(string(data), "secret-password") {
		t.Error("password must not be written to the config file")
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.NotificationTTL != cfg.NotificationTTL {
		t.Errorf("ttl round trip: got %v, want %v", loaded.NotificationTTL, cfg.NotificationTTL)
	}
}
