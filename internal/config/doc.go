// Package config loads usher's TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/usher/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - Server URL: http://localhost:5055/api/v1
//   - Log directory: ~/.local/share/usher (log file <log_dir>/usher.log)
//   - Log level: info
//   - Request page size: 50
//   - Refresh interval: 30 seconds
//   - Plex product name: usher
//
// # TOML Format
//
//	server_url = "https://overseerr.example.com/api/v1"
//	api_key = "..."
//	log_dir = "~/.local/share/usher"
//	log_level = "debug"
//	request_page_size = 25
//	refresh_interval = 60   # seconds
//	plex_product = "usher"
//
// Every field is optional. Tilde expansion is performed for log_dir.
//
// # Validation
//
// After defaults are applied the result is checked with go-playground's
// validator: the server URL must be an absolute http(s) URL, the page size
// must be within 1..100, the refresh interval within 5s..1h, and the log
// level one of the names logging.ParseLevel understands. A file that fails
// validation is an error; a missing file is not.
package config
