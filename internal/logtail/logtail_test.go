package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "negative", maxLines: -1, expected: nil},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFileIsEmpty(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestRead_SpansChunks(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "big.log")
	var content strings.Builder
	for i := 1; i <= 5000; i++ {
		fmt.Fprintf(&content, "%05d %s\r\n", i, strings.Repeat("x", 40))
	}
	content.WriteString("tail without newline")
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Read(logPath, 1500)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 1500 {
		t.Fatalf("len = %d, want 1500", len(got))
	}
	if want := "03502 " + strings.Repeat("x", 40); got[0] != want {
		t.Fatalf("first = %q, want %q", got[0], want)
	}
	if got[len(got)-1] != "tail without newline" {
		t.Fatalf("last = %q", got[len(got)-1])
	}
}

func TestRead_EmptyFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(logPath, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := Read(logPath, 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","category":"auth","pin_id":42,"error":"connection reset","time":"2025-10-08T21:01:05Z","message":"plex pin check failed"}`
	e := Parse(line)

	if e.Level != zerolog.WarnLevel {
		t.Fatalf("Level = %v, want warn", e.Level)
	}
	if e.Category != "auth" || e.Message != "plex pin check failed" || e.Error != "connection reset" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Time.IsZero() {
		t.Fatalf("Time not parsed")
	}
	if e.Fields["pin_id"] != "42" {
		t.Fatalf("Fields = %v, want pin_id=42", e.Fields)
	}
	if _, ok := e.Fields["category"]; ok {
		t.Fatalf("category leaked into Fields: %v", e.Fields)
	}
}

func TestParse_NonJSONLine(t *testing.T) {
	e := Parse("panic: something broke")
	if e.Level != zerolog.NoLevel || e.Message != "panic: something broke" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Format() != "panic: something broke" {
		t.Fatalf("Format() = %q", e.Format())
	}
}

func TestFormat(t *testing.T) {
	e := Parse(`{"level":"info","category":"network","method":"GET","url":"http://h/api/v1/request","message":"api request"}`)
	want := "INFO  [network] api request method=GET url=http://h/api/v1/request"
	if got := e.Format(); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestFilter(t *testing.T) {
	entries := ParseAll([]string{
		`{"level":"debug","category":"network","message":"a"}`,
		`{"level":"info","category":"network","message":"b"}`,
		`{"level":"error","category":"auth","message":"c"}`,
		"",
		"plain",
	})
	if len(entries) != 4 {
		t.Fatalf("ParseAll returned %d entries, want 4", len(entries))
	}

	got := Filter(entries, zerolog.InfoLevel)
	if len(got) != 3 {
		t.Fatalf("Filter(info) = %d entries, want 3", len(got))
	}

	got = Filter(entries, zerolog.DebugLevel, "auth")
	var msgs []string
	for _, e := range got {
		msgs = append(msgs, e.Message)
	}
	if !reflect.DeepEqual(msgs, []string{"c", "plain"}) {
		t.Fatalf("Filter(auth) messages = %v", msgs)
	}
}
