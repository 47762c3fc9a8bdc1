package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != defaultServerURL {
		t.Fatalf("ServerURL = %q, want %q", cfg.ServerURL, defaultServerURL)
	}
	if cfg.RequestPageSize != defaultRequestPageSize {
		t.Fatalf("RequestPageSize = %d, want %d", cfg.RequestPageSize, defaultRequestPageSize)
	}
	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Fatalf("RefreshInterval = %v, want %v", cfg.RefreshInterval, defaultRefreshInterval)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.LogPath() != filepath.Join(wantLogDir, "usher.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults fail validation: %v", err)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
server_url = "  https://requests.example.com/api/v1/  "
api_key = "  secret  "
log_dir = "  ~/.usher/logs  "
log_level = "DEBUG"
request_page_size = 25
refresh_interval = 90
plex_product = "usher-test"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "https://requests.example.com/api/v1" {
		t.Fatalf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.APIKey != "secret" {
		t.Fatalf("APIKey = %q, want %q", cfg.APIKey, "secret")
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.RequestPageSize != 25 {
		t.Fatalf("RequestPageSize = %d, want 25", cfg.RequestPageSize)
	}
	if cfg.RefreshInterval != 90*time.Second {
		t.Fatalf("RefreshInterval = %v, want 90s", cfg.RefreshInterval)
	}
	if cfg.PlexProduct != "usher-test" {
		t.Fatalf("PlexProduct = %q", cfg.PlexProduct)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
server_url = "   "
log_dir = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != defaultServerURL {
		t.Fatalf("ServerURL = %q, want %q", cfg.ServerURL, defaultServerURL)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cases := map[string]string{
		"ServerURL":       `server_url = "localhost:5055"`,
		"RequestPageSize": `request_page_size = 500`,
		"RefreshInterval": `refresh_interval = 1`,
		"LogLevel":        `log_level = "chatty"`,
	}
	for field, body := range cases {
		_, err := Load(writeConfig(t, body))
		if err == nil {
			t.Fatalf("%s: Load returned nil error", field)
		}
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("%s: error %q does not name the field", field, err)
		}
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `server_url = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/usher.log")) {
		t.Fatalf("LogPath = %q, want it to end with /usher.log", got)
	}
}
