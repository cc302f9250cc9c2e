package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Rater.Provider != "endpoint" {
		t.Errorf("Default provider = %q, want %q", cfg.Rater.Provider, "endpoint")
	}
	if cfg.Rater.URL != "http://localhost:8006/rate_code" {
		t.Errorf("Default rater URL = %q", cfg.Rater.URL)
	}
	if cfg.Review.Tag != "llm-review-bot" {
		t.Errorf("Default tag = %q, want %q", cfg.Review.Tag, "llm-review-bot")
	}
	if cfg.LineNumbering != "compat" {
		t.Errorf("Default lineNumbering = %q, want compat", cfg.LineNumbering)
	}
	if cfg.Workers != 4 {
		t.Errorf("Default workers = %d, want 4", cfg.Workers)
	}
	if cfg.Cache.Enabled {
		t.Error("Default cache should be disabled")
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("Default redactSecrets should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("GERRIT_URL", "https://review.example.com")
	t.Setenv("GERRIT_USER", "bot")
	t.Setenv("GERRIT_PASS", "s3cret")
	t.Setenv("LLM_API", "http://rater:9000/rate_code")
	t.Setenv("QUILL_PROVIDER", "openai")
	t.Setenv("QUILL_MODEL", "gpt-4o")
	t.Setenv("QUILL_WORKERS", "8")
	t.Setenv("QUILL_LINE_NUMBERING", "accurate")
	t.Setenv("QUILL_INSECURE_SKIP_VERIFY", "true")

	cfg := Default()
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}

	if cfg.Gerrit.URL != "https://review.example.com" {
		t.Errorf("Gerrit.URL = %q", cfg.Gerrit.URL)
	}
	if cfg.Gerrit.User != "bot" || cfg.Gerrit.Password != "s3cret" {
		t.Errorf("credentials = %q/%q", cfg.Gerrit.User, cfg.Gerrit.Password)
	}
	if !cfg.Gerrit.InsecureSkipVerify {
		t.Error("InsecureSkipVerify should be true")
	}
	if cfg.Rater.URL != "http://rater:9000/rate_code" {
		t.Errorf("Rater.URL = %q", cfg.Rater.URL)
	}
	if cfg.Rater.Provider != "openai" || cfg.Rater.Model != "gpt-4o" {
		t.Errorf("Rater = %q/%q", cfg.Rater.Provider, cfg.Rater.Model)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.LineNumbering != "accurate" {
		t.Errorf("LineNumbering = %q, want accurate", cfg.LineNumbering)
	}
}

func TestMergeEnv_InvalidWorkers(t *testing.T) {
	t.Setenv("QUILL_WORKERS", "many")
	cfg := Default()
	if err := mergeEnv(&cfg); err == nil {
		t.Error("Expected error for non-integer QUILL_WORKERS")
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	overrides := map[string]string{
		"provider":      "anthropic",
		"model":         "claude-sonnet-4-20250514",
		"format":        "json",
		"workers":       "2",
		"lineNumbering": "accurate",
		"rater.url":     "",
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}

	if cfg.Rater.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", cfg.Rater.Provider)
	}
	if cfg.Rater.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %q", cfg.Rater.Model)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.Rater.URL != Default().Rater.URL {
		t.Errorf("empty override changed Rater.URL to %q", cfg.Rater.URL)
	}
}

func TestMergeOverrides_Nil(t *testing.T) {
	cfg := Default()
	if err := mergeOverrides(&cfg, nil); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Rater.Provider != "endpoint" {
		t.Errorf("Provider changed with nil overrides")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
	}{
		{"gerrit.url", "https://review.example.com/"},
		{"gerrit.user", "bot"},
		{"gerrit.insecureSkipVerify", "true"},
		{"gerrit.timeoutSeconds", "30"},
		{"rater.provider", "ollama"},
		{"rater.model", "llama3"},
		{"rater.ratePerSecond", "2.5"},
		{"rater.burst", "3"},
		{"review.message", "bot review"},
		{"review.tag", "autogenerated:bot"},
		{"maxCommentsPerFile", "20"},
		{"include", "src/**, lib/**"},
		{"cache.enabled", "true"},
		{"privacy.redactSecrets", "false"},
	}

	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.Gerrit.URL != "https://review.example.com" {
		t.Errorf("Gerrit.URL = %q, trailing slash should be trimmed", cfg.Gerrit.URL)
	}
	if cfg.Rater.RatePerSecond != 2.5 || cfg.Rater.Burst != 3 {
		t.Errorf("rate = %v/%d", cfg.Rater.RatePerSecond, cfg.Rater.Burst)
	}
	if len(cfg.Include) != 2 || cfg.Include[1] != "lib/**" {
		t.Errorf("Include = %v", cfg.Include)
	}
	if !cfg.Cache.Enabled || cfg.Privacy.RedactSecrets {
		t.Error("boolean fields not applied")
	}
	if cfg.Review.Tag != "autogenerated:bot" {
		t.Errorf("Review.Tag = %q", cfg.Review.Tag)
	}
}

func TestSetField_UnknownKey(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "nonexistent", "value"); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestSetField_InvalidValues(t *testing.T) {
	cfg := Default()
	for _, kv := range [][2]string{
		{"workers", "notanumber"},
		{"cache.enabled", "maybe"},
		{"rater.ratePerSecond", "fast"},
	} {
		if err := SetField(&cfg, kv[0], kv[1]); err == nil {
			t.Errorf("SetField(%q, %q) expected error", kv[0], kv[1])
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LineNumbering = "exact"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown lineNumbering")
	}

	cfg = Default()
	cfg.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero workers")
	}

	cfg = Default()
	cfg.Exclude = []string{"[vendor/**"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for malformed exclude pattern")
	}
}

func TestMergeFile_PartialFileKeepsDefaults(t *testing.T) {
	dst := Default()
	if err := mergeFile(&dst, []byte(`{"gerrit":{"url":"https://review.example.com"}}`)); err != nil {
		t.Fatalf("mergeFile error: %v", err)
	}

	if dst.Gerrit.URL != "https://review.example.com" {
		t.Errorf("Gerrit.URL = %q", dst.Gerrit.URL)
	}
	if !dst.Privacy.RedactSecrets {
		t.Error("RedactSecrets should stay on when the file does not mention it")
	}
	if dst.Gerrit.TimeoutSeconds != 60 || dst.Workers != 4 || dst.LineNumbering != "compat" {
		t.Errorf("defaults lost: %+v", dst)
	}
	if len(dst.Privacy.RedactPaths) == 0 {
		t.Error("RedactPaths should keep the defaults")
	}
}

func TestMergeFile_BoolFields(t *testing.T) {
	dst := Default()
	data := `{"cache":{"enabled":true},"privacy":{"redactSecrets":false}}`
	if err := mergeFile(&dst, []byte(data)); err != nil {
		t.Fatalf("mergeFile error: %v", err)
	}

	if !dst.Cache.Enabled {
		t.Error("Cache.Enabled should follow the file")
	}
	if dst.Privacy.RedactSecrets {
		t.Error("RedactSecrets should be false when the file sets it")
	}
	if dst.Cache.TTLSeconds != 86400 {
		t.Errorf("Cache.TTLSeconds = %d, want default", dst.Cache.TTLSeconds)
	}
}

func TestMergeFile_EmptyFile(t *testing.T) {
	dst := Default()
	if err := mergeFile(&dst, []byte(`{}`)); err != nil {
		t.Fatalf("mergeFile error: %v", err)
	}
	if !dst.Privacy.RedactSecrets {
		t.Error("RedactSecrets should remain true when file is empty")
	}
	if dst.Rater.Provider != "endpoint" {
		t.Errorf("Provider = %q, want endpoint", dst.Rater.Provider)
	}
}

func TestMergeFile_InvalidJSON(t *testing.T) {
	dst := Default()
	if err := mergeFile(&dst, []byte(`{"gerrit":`)); err == nil {
		t.Error("Expected error for malformed file")
	}
}

func TestLoad_PartialFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "quill"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte(`{"gerrit":{"url":"https://review.example.com"}}`)
	if err := os.WriteFile(filepath.Join(dir, "quill", "config.json"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("a partial config file must not disable secret redaction")
	}
	if cfg.Cache.Enabled {
		t.Error("cache should stay disabled by default")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("missing file should yield valid defaults: %v", err)
	}
}

func TestLoad_FileEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GERRIT_URL", "")
	t.Setenv("GERRIT_PASS", "from-env")
	t.Setenv("QUILL_PROVIDER", "openai")

	cfg := Default()
	cfg.Gerrit.URL = "https://file.example.com"
	cfg.Gerrit.Password = "never-saved"
	cfg.Rater.Provider = "anthropic"
	cfg.Workers = 6
	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "quill", "config.json"))
	if err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if strings.Contains(string(data), "never-saved") {
		t.Error("password must not be written to the config file")
	}

	got, err := Load(map[string]string{"workers": "3"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Gerrit.URL != "https://file.example.com" {
		t.Errorf("Gerrit.URL = %q, want file value", got.Gerrit.URL)
	}
	if got.Gerrit.Password != "from-env" {
		t.Errorf("Password = %q, want env value", got.Gerrit.Password)
	}
	if got.Rater.Provider != "openai" {
		t.Errorf("Provider = %q, env should beat file", got.Rater.Provider)
	}
	if got.Workers != 3 {
		t.Errorf("Workers = %d, override should beat file", got.Workers)
	}
}

