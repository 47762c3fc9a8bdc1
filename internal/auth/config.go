package auth

import (
	"errors"
	"strings"
	"time"
)

const (
	DefaultPlexBaseURL  = "https://plex.tv"
	DefaultPlexAuthURL  = "https://app.plex.tv/auth"
	DefaultProduct      = "usher"
	DefaultPollInterval = time.Second
	DefaultMaxAttempts  = 60
)

// Config describes this installation to the Plex identity provider and
// bounds the PIN polling loop.
type Config struct {
	// ClientIdentifier is generated once per installation and reused for
	// every PIN; Plex correlates issuance and polling by it.
	ClientIdentifier string

	Product    string
	Version    string
	Device     string
	DeviceName string
	Platform   string

	PlexBaseURL string
	PlexAuthURL string

	PollInterval time.Duration
	MaxAttempts  int
}

// Validate checks required fields.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ClientIdentifier) == "" {
		return errors.New("auth: client identifier is required")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Product) == "" {
		c.Product = DefaultProduct
	}
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Device == "" {
		c.Device = "Terminal"
	}
	if c.DeviceName == "" {
		c.DeviceName = c.Product + " client"
	}
	if c.Platform == "" {
		c.Platform = "Go"
	}
	if c.PlexBaseURL == "" {
		c.PlexBaseURL = DefaultPlexBaseURL
	}
	if c.PlexAuthURL == "" {
		c.PlexAuthURL = DefaultPlexAuthURL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}
