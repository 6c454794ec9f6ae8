package config

import (
	"os"
	"path/filepath"
	"testing"
)

// missingPath points Load at a file that does not exist, so tests never
// pick up a real config from the working tree or home directory.
func missingPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.toml")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draftsmith.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// --- Default ---

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
	}
	if cfg.Validation.StrictFields {
		t.Error("StrictFields should default to false")
	}
	if !cfg.Journal.Enabled {
		t.Error("Journal.Enabled should default to true")
	}
	if cfg.Journal.Dir == "" {
		t.Error("Journal.Dir should have a default")
	}
	if cfg.Scan.MaxFiles != 5000 || cfg.Scan.MaxDepth != 8 || cfg.Scan.MaxFileKB != 256 {
		t.Errorf("scan caps = %+v", cfg.Scan)
	}
}

// --- Load ---

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load(missingPath(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "debug"

[validation]
strict_fields = true

[journal]
enabled = false

[scan]
root = "/srv/code"
max_files = 100
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.TimeFormat != "15:04:05" {
		t.Errorf("unset keys should keep defaults, TimeFormat = %s", cfg.Logging.TimeFormat)
	}
	if !cfg.Validation.StrictFields {
		t.Error("StrictFields should be true")
	}
	if cfg.Journal.Enabled {
		t.Error("Journal.Enabled should be false")
	}
	if cfg.Scan.Root != "/srv/code" {
		t.Errorf("Scan.Root = %s", cfg.Scan.Root)
	}
	if cfg.Scan.MaxFiles != 100 {
		t.Errorf("Scan.MaxFiles = %d, want 100", cfg.Scan.MaxFiles)
	}
	if cfg.Scan.MaxDepth != 8 {
		t.Errorf("unset scan caps should keep defaults, MaxDepth = %d", cfg.Scan.MaxDepth)
	}
}

func TestLoad_FirstExistingPathWins(t *testing.T) {
	first := writeConfig(t, "[logging]\nlevel = \"warn\"\n")
	second := writeConfig(t, "[logging]\nlevel = \"error\"\n")

	cfg, err := Load(missingPath(t), first, second)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %s, want warn (first existing file)", cfg.Logging.Level)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, "[logging\nlevel = ")
	if _, err := Load(path); err == nil {
		t.Fatal("Load(malformed) should fail")
	}
}

func TestLoad_InvalidLevel(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"verbose\"\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load should reject an unknown log level")
	}
}

func TestLoad_InvalidScanCaps(t *testing.T) {
	path := writeConfig(t, "[scan]\nmax_depth = 0\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load should reject max_depth below 1")
	}
}

// --- Environment overrides ---

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DRAFTSMITH_LOG_LEVEL", "error")
	t.Setenv("DRAFTSMITH_STRICT_FIELDS", "true")
	t.Setenv("DRAFTSMITH_JOURNAL_ENABLED", "false")
	t.Setenv("DRAFTSMITH_JOURNAL_DIR", "/var/lib/draftsmith")
	t.Setenv("DRAFTSMITH_SCAN_ROOT", "/srv/code")

	cfg, err := Load(missingPath(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %s, want error", cfg.Logging.Level)
	}
	if !cfg.Validation.StrictFields {
		t.Error("StrictFields should be true")
	}
	if cfg.Journal.Enabled {
		t.Error("Journal.Enabled should be false")
	}
	if cfg.Journal.Dir != "/var/lib/draftsmith" {
		t.Errorf("Journal.Dir = %s", cfg.Journal.Dir)
	}
	if cfg.Scan.Root != "/srv/code" {
		t.Errorf("Scan.Root = %s", cfg.Scan.Root)
	}
}

func TestLoad_EnvOverridesBeatFile(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"debug\"\n")
	t.Setenv("DRAFTSMITH_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %s, want warn (env beats file)", cfg.Logging.Level)
	}
}

func TestLoad_BadEnvBoolIgnored(t *testing.T) {
	t.Setenv("DRAFTSMITH_STRICT_FIELDS", "banana")

	cfg, err := Load(missingPath(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Validation.StrictFields {
		t.Error("unparseable boolean should keep the default")
	}
}
