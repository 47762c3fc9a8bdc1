package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/usher/internal/logging"
)

// Config is usher's runtime configuration.
type Config struct {
	ServerURL       string        `validate:"required,http_url"`
	APIKey          string        `validate:"omitempty,printascii"`
	LogDir          string        `validate:"required"`
	LogLevel        string        `validate:"oneof=trace debug info warn warning error disabled off"`
	RequestPageSize int           `validate:"min=1,max=100"`
	RefreshInterval time.Duration `validate:"min=5s,max=1h"`
	PlexProduct     string        `validate:"required,max=64"`
}

const (
	defaultConfigPath      = "~/.config/usher/config.toml"
	defaultServerURL       = "http://localhost:5055/api/v1"
	defaultLogDir          = "~/.local/share/usher"
	defaultLogLevel        = "info"
	defaultRequestPageSize = 50
	defaultRefreshInterval = 30 * time.Second
	defaultPlexProduct     = "usher"
)

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ServerURL:       defaultServerURL,
		LogDir:          mustExpand(defaultLogDir),
		LogLevel:        defaultLogLevel,
		RequestPageSize: defaultRequestPageSize,
		RefreshInterval: defaultRefreshInterval,
		PlexProduct:     defaultPlexProduct,
	}
}

// Load locates and parses the usher config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL       string `toml:"server_url"`
		APIKey          string `toml:"api_key"`
		LogDir          string `toml:"log_dir"`
		LogLevel        string `toml:"log_level"`
		RequestPageSize int    `toml:"request_page_size"`
		RefreshInterval int    `toml:"refresh_interval"`
		PlexProduct     string `toml:"plex_product"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.ServerURL); v != "" {
		cfg.ServerURL = strings.TrimRight(v, "/")
	}
	cfg.APIKey = strings.TrimSpace(raw.APIKey)
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if raw.RequestPageSize != 0 {
		cfg.RequestPageSize = raw.RequestPageSize
	}
	if raw.RefreshInterval != 0 {
		cfg.RefreshInterval = time.Duration(raw.RefreshInterval) * time.Second
	}
	if v := strings.TrimSpace(raw.PlexProduct); v != "" {
		cfg.PlexProduct = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogPath returns the path to usher's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return filepath.Join(mustExpand(defaultLogDir), logging.FileName)
	}
	return filepath.Join(c.LogDir, logging.FileName)
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
