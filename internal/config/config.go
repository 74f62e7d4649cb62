// Package config handles reading and writing the climbpoints config file.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
)

//go:embed schema.json
var schemaJSON []byte

// Config is the top-level structure of config.yaml.
type Config struct {
	Climber string                 `yaml:"climber,omitempty"`
	Grades  map[string]grades.Spec `yaml:"grades,omitempty"`
	Store   StoreConfig            `yaml:"store"`
	LLM     LLMConfig              `yaml:"llm"`
	Notify  NotifyConfig           `yaml:"notify"`
}

// StoreConfig selects the climb table backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`        // "sqlite" | "postgres"
	DSN    string `yaml:"dsn,omitempty"` // sqlite path or postgres URL
}

// LLMConfig selects the coach provider. API keys come from the environment.
type LLMConfig struct {
	Provider       string `yaml:"provider,omitempty"`
	Model          string `yaml:"model,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the configured request timeout, or 0 for the default.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NotifyConfig holds notifier settings.
type NotifyConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig holds the Telegram chat to notify. The bot token is only
// read from CLIMBPOINTS_TELEGRAM_TOKEN.
type TelegramConfig struct {
	ChatID int64  `yaml:"chat_id,omitempty"`
	Token  string `yaml:"-"`
}

// Enabled reports whether both a token and a chat are configured.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Driver: "sqlite"},
	}
}

// Load reads the config at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the config schema and decodes it over the
// defaults.
func Parse(data []byte) (*Config, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Registry(); err != nil {
		return nil, fmt.Errorf("grades: %w", err)
	}
	return cfg, nil
}

// Write writes cfg to path, creating the parent directory.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Registry layers the configured scales over the built-in defaults.
func (c *Config) Registry() (*grades.Registry, error) {
	reg := grades.Defaults()
	if err := reg.Apply(c.Grades); err != nil {
		return nil, err
	}
	return reg, nil
}

// ApplyEnv overrides file settings with CLIMBPOINTS_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CLIMBPOINTS_CLIMBER"); v != "" {
		c.Climber = v
	}
	if v := os.Getenv("CLIMBPOINTS_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("CLIMBPOINTS_STORE_DSN"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("CLIMBPOINTS_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("CLIMBPOINTS_TELEGRAM_TOKEN"); v != "" {
		c.Notify.Telegram.Token = v
	}
	if v := os.Getenv("CLIMBPOINTS_TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Notify.Telegram.ChatID = id
		}
	}
}

// DefaultPath resolves the config file path:
// 1. CLIMBPOINTS_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/climbpoints/config.yaml
// 3. ~/.config/climbpoints/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("CLIMBPOINTS_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "climbpoints", "config.yaml"), nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse config schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://config.json", doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile("schema://config.json")
	})
	return compiledSchema, schemaErr
}

// validate checks the YAML document against the embedded JSON schema.
func validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if doc == nil {
		return nil
	}

	// Round-trip through JSON so the validator sees JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	sch, err := configSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
