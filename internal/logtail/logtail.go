package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const chunkSize = 32 * 1024

// Read returns at most maxLines from the end of the file at path.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	// Walk back until the line before the first wanted one is complete.
	var tail []byte
	offset := info.Size()
	for offset > 0 && bytes.Count(tail, []byte{'\n'}) <= maxLines {
		n := min(chunkSize, offset)
		offset -= n
		buf := make([]byte, int(n)+len(tail))
		if _, err := file.ReadAt(buf[:n], offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read log: %w", err)
		}
		copy(buf[n:], tail)
		tail = buf
	}
	return lastLines(tail, maxLines), nil
}

func lastLines(data []byte, n int) []string {
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
