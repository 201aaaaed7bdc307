package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	Debug      bool   `yaml:"debug" json:"debug"`

	// Directories
	DataDirectory   string `yaml:"data_directory" json:"data_directory"`
	DraftsDirectory string `yaml:"drafts_directory" json:"drafts_directory"`

	// Drafts and presentation
	DraftKeyPrefix  string        `yaml:"draft_key_prefix" json:"draft_key_prefix"`
	NotificationTTL time.Duration `yaml:"notification_ttl" json:"notification_ttl"`
	Currency        string        `yaml:"currency" json:"currency"`

	// Password unlocks an encrypted data directory. Never written back to disk.
	Password string `yaml:"-" json:"-"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:      "127.0.0.1:8080",
		DataDirectory:   filepath.Join(wd, "data"),
		DraftsDirectory: filepath.Join(wd, "data", "drafts"),
		DraftKeyPrefix:  "form_",
		NotificationTTL: 5 * time.Second,
		Currency:        "USD",
	}
}

// Load builds the configuration from defaults, the YAML file named by
// FINANCE_CONFIG, and then environment variables
func Load(log zerolog.Logger) (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("FINANCE_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.ensureDirectories(log)
	return cfg, nil
}

// LoadFile overlays the fields present in a YAML file
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	dataDir := c.DataDirectory
	draftsDir := c.DraftsDirectory
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	// drafts follow a relocated data dir unless set explicitly
	if c.DataDirectory != dataDir && c.DraftsDirectory == draftsDir {
		c.DraftsDirectory = filepath.Join(c.DataDirectory, "drafts")
	}
	return nil
}

// SaveFile writes the configuration as YAML
func (c *Config) SaveFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnv() error {
	if addr := os.Getenv("FINANCE_LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if debug := os.Getenv("FINANCE_DEBUG"); debug == "true" || debug == "1" {
		c.Debug = true
	}
	if dataDir := os.Getenv("FINANCE_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
		c.DraftsDirectory = filepath.Join(dataDir, "drafts")
	}
	if prefix := os.Getenv("FINANCE_DRAFT_PREFIX"); prefix != "" {
		c.DraftKeyPrefix = prefix
	}
	if ttl := os.Getenv("FINANCE_NOTIFY_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("FINANCE_NOTIFY_TTL: %w", err)
		}
		c.NotificationTTL = d
	}
	if cur := os.Getenv("FINANCE_CURRENCY"); cur != "" {
		c.Currency = cur
	}
	if pw := os.Getenv("FINANCE_PASSWORD"); pw != "" {
		c.Password = pw
	}
	return nil
}

// ensureDirectories creates required directories if they don't exist
func (c *Config) ensureDirectories(log zerolog.Logger) {
	for _, dir := range []string{c.DataDirectory, c.DraftsDirectory} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("could not create directory")
		}
	}
}
