package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Config represents the quill configuration.
type Config struct {
	Gerrit             GerritConfig  `json:"gerrit"`
	Rater              RaterConfig   `json:"rater"`
	Review             ReviewConfig  `json:"review"`
	Format             string        `json:"format"`
	LineNumbering      string        `json:"lineNumbering"`
	MaxCommentsPerFile int           `json:"maxCommentsPerFile"`
	Workers            int           `json:"workers"`
	Include            []string      `json:"include"`
	Exclude            []string      `json:"exclude"`
	Cache              CacheConfig   `json:"cache"`
	Privacy            PrivacyConfig `json:"privacy"`
}

// GerritConfig locates and authenticates against the review server.
type GerritConfig struct {
	URL                string `json:"url"`
	User               string `json:"user,omitempty"`
	Password           string `json:"-"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty"`
	TimeoutSeconds     int    `json:"timeoutSeconds"`
}

// RaterConfig selects the service that comments on single lines.
type RaterConfig struct {
	Provider      string  `json:"provider"`
	Model         string  `json:"model,omitempty"`
	URL           string  `json:"url"`
	RatePerSecond float64 `json:"ratePerSecond,omitempty"`
	Burst         int     `json:"burst,omitempty"`
}

// ReviewConfig controls the review posted back to Gerrit.
type ReviewConfig struct {
	Message string `json:"message"`
	Tag     string `json:"tag"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls privacy/redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Gerrit: GerritConfig{
			TimeoutSeconds: 60,
		},
		Rater: RaterConfig{
			Provider: "endpoint",
			URL:      "http://localhost:8006/rate_code",
		},
		Review: ReviewConfig{
			Message: "LLM inline review",
			Tag:     "llm-review-bot",
		},
		Format:        "text",
		LineNumbering: "compat",
		Workers:       4,
		Include:       []string{"**/*"},
		Exclude:       []string{"**/vendor/**", "**/*.gen.go", "**/dist/**"},
		Cache: CacheConfig{
			Enabled:    false,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for quill.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quill"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "quill"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "quill"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "quill"), nil
	default:
		return filepath.Join(home, ".config", "quill"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile returns the defaults with the config file applied on top. A
// missing file yields the defaults.
func LoadFile() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := mergeFile(&cfg, data); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.LineNumbering {
	case "compat", "accurate":
	default:
		return fmt.Errorf("lineNumbering must be compat or accurate, got %q", c.LineNumbering)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Rater.RatePerSecond < 0 {
		return fmt.Errorf("rater.ratePerSecond must not be negative")
	}
	for _, list := range [][]string{c.Include, c.Exclude, c.Privacy.RedactPaths} {
		for _, pattern := range list {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid path pattern %q", pattern)
			}
		}
	}
	return nil
}

// mergeFile decodes a config file onto dst. Keys the file leaves out keep
// their current value, so a partial file cannot switch off a default such as
// secret redaction. Lists in the file replace the defaults.
func mergeFile(dst *Config, data []byte) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("GERRIT_URL"); v != "" {
		cfg.Gerrit.URL = v
	}
	if v := os.Getenv("GERRIT_USER"); v != "" {
		cfg.Gerrit.User = v
	}
	if v := os.Getenv("GERRIT_PASS"); v != "" {
		cfg.Gerrit.Password = v
	}
	if v := os.Getenv("QUILL_INSECURE_SKIP_VERIFY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUILL_INSECURE_SKIP_VERIFY: %w", err)
		}
		cfg.Gerrit.InsecureSkipVerify = b
	}
	if v := os.Getenv("LLM_API"); v != "" {
		cfg.Rater.URL = v
	}
	if v := os.Getenv("QUILL_PROVIDER"); v != "" {
		cfg.Rater.Provider = v
	}
	if v := os.Getenv("QUILL_MODEL"); v != "" {
		cfg.Rater.Model = v
	}
	if v := os.Getenv("QUILL_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("QUILL_LINE_NUMBERING"); v != "" {
		cfg.LineNumbering = v
	}
	if v := os.Getenv("QUILL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QUILL_WORKERS must be an integer: %w", err)
		}
		cfg.Workers = n
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "gerrit.url":
		cfg.Gerrit.URL = strings.TrimRight(value, "/")
	case "gerrit.user":
		cfg.Gerrit.User = value
	case "gerrit.insecureSkipVerify":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("gerrit.insecureSkipVerify must be a boolean: %w", err)
		}
		cfg.Gerrit.InsecureSkipVerify = b
	case "gerrit.timeoutSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("gerrit.timeoutSeconds must be an integer: %w", err)
		}
		cfg.Gerrit.TimeoutSeconds = n
	case "rater.provider", "provider":
		cfg.Rater.Provider = value
	case "rater.model", "model":
		cfg.Rater.Model = value
	case "rater.url":
		cfg.Rater.URL = value
	case "rater.ratePerSecond":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("rater.ratePerSecond must be a number: %w", err)
		}
		cfg.Rater.RatePerSecond = f
	case "rater.burst":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("rater.burst must be an integer: %w", err)
		}
		cfg.Rater.Burst = n
	case "review.message":
		cfg.Review.Message = value
	case "review.tag":
		cfg.Review.Tag = value
	case "format":
		cfg.Format = value
	case "lineNumbering":
		cfg.LineNumbering = value
	case "maxCommentsPerFile":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxCommentsPerFile must be an integer: %w", err)
		}
		cfg.MaxCommentsPerFile = n
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("workers must be an integer: %w", err)
		}
		cfg.Workers = n
	case "include":
		cfg.Include = splitList(value)
	case "exclude":
		cfg.Exclude = splitList(value)
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be a boolean: %w", err)
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttlSeconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
