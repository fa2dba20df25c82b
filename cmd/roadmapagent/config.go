package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tbxark/roadmapagent/generator"
	"github.com/tbxark/roadmapagent/provider"
)

const defaultConfigPath = "config.json"

// Config never holds the model API key. The key is only ever entered interactively.
type Config struct {
	Provider       string   `json:"provider" yaml:"provider"`
	Model          string   `json:"model" yaml:"model"`
	BaseURL        string   `json:"base_url" yaml:"base_url"`
	Mode           string   `json:"mode" yaml:"mode"`
	JSONResponse   bool     `json:"json_response" yaml:"json_response"`
	RequestTimeout string   `json:"request_timeout" yaml:"request_timeout"`
	SessionTTL     string   `json:"session_ttl" yaml:"session_ttl"`
	Addr           string   `json:"addr" yaml:"addr"`
	SessionSecret  string   `json:"session_secret" yaml:"session_secret"`
	SecureCookie   bool     `json:"secure_cookie" yaml:"secure_cookie"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
	LogLevel       string   `json:"log_level" yaml:"log_level"`
}

func defaultConfig() *Config {
	return &Config{
		Provider:   string(provider.KindGemini),
		Mode:       string(generator.ModeText),
		Addr:       ":8080",
		SessionTTL: "8h",
		LogLevel:   "info",
	}
}

func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := unmarshalConfig(path, file, conf); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath:
			slog.Debug("No config file found, using defaults", "path", path)
		default:
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	conf.applyEnv(os.Getenv)

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func unmarshalConfig(path string, data []byte, conf *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, conf)
	default:
		return json.Unmarshal(data, conf)
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set("ROADMAP_ADDR", &c.Addr)
	set("ROADMAP_PROVIDER", &c.Provider)
	set("ROADMAP_MODEL", &c.Model)
	set("ROADMAP_BASE_URL", &c.BaseURL)
	set("ROADMAP_MODE", &c.Mode)
	set("ROADMAP_LOG_LEVEL", &c.LogLevel)
	set("ROADMAP_SESSION_SECRET", &c.SessionSecret)
}

func (c *Config) validate() error {
	if _, err := provider.ParseKind(c.Provider); err != nil {
		return err
	}
	if !generator.Mode(c.Mode).Valid() {
		return fmt.Errorf("unknown mode: %q", c.Mode)
	}
	if _, err := c.timeout(); err != nil {
		return err
	}
	if _, err := c.sessionTTL(); err != nil {
		return err
	}
	if _, err := c.logLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) timeout() (time.Duration, error) {
	return parseDuration("request_timeout", c.RequestTimeout)
}

func (c *Config) sessionTTL() (time.Duration, error) {
	return parseDuration("session_ttl", c.SessionTTL)
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, value)
	}
	return d, nil
}

func (c *Config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level: %w", err)
	}
	return level, nil
}

func (c *Config) providerConfig() provider.Config {
	kind, _ := provider.ParseKind(c.Provider)
	timeout, _ := c.timeout()
	return provider.Config{
		Kind:         kind,
		Model:        c.Model,
		BaseURL:      c.BaseURL,
		Timeout:      timeout,
		JSONResponse: c.JSONResponse,
	}
}
