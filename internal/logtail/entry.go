package logtail

import (
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/five82/usher/internal/logging"
)

// Entry is one parsed JSON log line.
type Entry struct {
	Time     time.Time
	Level    zerolog.Level
	Category string
	Message  string
	Error    string
	Fields   map[string]string
	Raw      string
}

var reserved = map[string]bool{
	zerolog.TimestampFieldName: true,
	zerolog.LevelFieldName:     true,
	zerolog.MessageFieldName:   true,
	zerolog.ErrorFieldName:     true,
	logging.CategoryField:      true,
}

// Parse decodes a zerolog JSON line. Lines that are not JSON objects come
// back with only Raw and Message set and Level at NoLevel.
func Parse(line string) Entry {
	e := Entry{Raw: line, Level: zerolog.NoLevel}

	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		e.Message = line
		return e
	}

	if s, ok := obj[zerolog.TimestampFieldName].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			e.Time = t
		}
	}
	if s, ok := obj[zerolog.LevelFieldName].(string); ok {
		if lvl, err := zerolog.ParseLevel(s); err == nil {
			e.Level = lvl
		}
	}
	e.Category, _ = obj[logging.CategoryField].(string)
	e.Message, _ = obj[zerolog.MessageFieldName].(string)
	e.Error, _ = obj[zerolog.ErrorFieldName].(string)

	for k, v := range obj {
		if reserved[k] {
			continue
		}
		if e.Fields == nil {
			e.Fields = make(map[string]string)
		}
		e.Fields[k] = stringify(v)
	}
	return e
}

// Format renders e as a single plain-text line:
// "15:04:05 INFO  [auth] message key=value error=...".
func (e Entry) Format() string {
	if e.Level == zerolog.NoLevel && e.Time.IsZero() {
		return e.Raw
	}

	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	lvl := strings.ToUpper(e.Level.String())
	if e.Level == zerolog.NoLevel {
		lvl = "-"
	}
	b.WriteString(padRight(lvl, 5))
	if e.Category != "" {
		b.WriteString(" [" + e.Category + "]")
	}
	if e.Message != "" {
		b.WriteString(" " + e.Message)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" " + k + "=" + e.Fields[k])
	}
	if e.Error != "" {
		b.WriteString(" error=" + e.Error)
	}
	return b.String()
}

// Filter keeps entries at or above minLevel whose category is in
// categories. An empty categories list keeps every category. Unparsed lines
// are always kept.
func Filter(entries []Entry, minLevel zerolog.Level, categories ...string) []Entry {
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	out := entries[:0:0]
	for _, e := range entries {
		if e.Level != zerolog.NoLevel && e.Level < minLevel {
			continue
		}
		if len(allowed) > 0 && e.Level != zerolog.NoLevel && !allowed[e.Category] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ParseAll parses every line.
func ParseAll(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, Parse(l))
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
