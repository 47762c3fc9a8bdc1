package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the log file written inside the configured log directory.
const FileName = "usher.log"

// OpenFile opens (creating if needed) the append-only log file in dir.
func OpenFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
