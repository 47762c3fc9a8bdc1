// Package prefs persists installation-scoped settings for usher: the UI
// theme and the Plex client identifier generated on first run.
// Preferences are stored in ~/.config/usher/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/usher/internal/config"
	"github.com/five82/usher/internal/logging"
)

// Prefs holds user preferences for usher.
type Prefs struct {
	Theme string `toml:"theme"`
	// ClientIdentifier names this installation to Plex. It is generated
	// once and must not change afterwards.
	ClientIdentifier string `toml:"client_identifier,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/usher/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. A missing, unreadable or malformed file
// yields defaults; preferences never block startup.
func Load(path string) (Prefs, error) {
	p := Prefs{Theme: defaultTheme}

	resolved, err := resolve(path)
	if err != nil {
		return p, nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.For(logging.App).Warn().Err(err).Str("path", resolved).Msg("read prefs failed, using defaults")
		}
		return p, nil
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		logging.For(logging.App).Warn().Err(err).Str("path", resolved).Msg("parse prefs failed, using defaults")
		return Prefs{Theme: defaultTheme}, nil
	}

	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.ClientIdentifier = strings.TrimSpace(p.ClientIdentifier)
	return p, nil
}

// Save writes p to path through a temporary file and rename, so a crash
// mid-write cannot lose the client identifier.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// EnsureClientIdentifier returns the stored client identifier, generating
// and saving a new one on first use. Other preferences in the file are kept.
func EnsureClientIdentifier(path string) (string, error) {
	p, err := Load(path)
	if err != nil {
		return "", err
	}
	if p.ClientIdentifier != "" {
		return p.ClientIdentifier, nil
	}

	p.ClientIdentifier = uuid.NewString()
	if err := Save(path, p); err != nil {
		return "", fmt.Errorf("save client identifier: %w", err)
	}
	logging.For(logging.App).Info().Str("client_id", p.ClientIdentifier).Msg("generated plex client identifier")
	return p.ClientIdentifier, nil
}

// SetTheme updates the stored theme and leaves every other field untouched.
func SetTheme(path, theme string) error {
	p, err := Load(path)
	if err != nil {
		return err
	}
	p.Theme = theme
	return Save(path, p)
}

func resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
