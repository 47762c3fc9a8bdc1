// Package logtail reads the tail of usher's JSON log file and renders it
// for the log view.
//
// Read returns the last maxLines lines of a file by reading fixed-size
// chunks backwards from the end, so a long-running log is never scanned in
// full. A missing file yields no lines and no error; the log may simply not
// exist yet.
//
// Parse decodes a zerolog line into an Entry (time, level, category,
// message, error, remaining fields). Lines that are not JSON, such as a
// panic trace, are kept verbatim. Format renders an Entry as one plain line
// and Filter narrows entries by minimum level and category:
//
//	lines, _ := logtail.Read(cfg.LogPath(), 400)
//	entries := logtail.Filter(logtail.ParseAll(lines), zerolog.InfoLevel, "auth", "network")
//	for _, e := range entries {
//		fmt.Println(e.Format())
//	}
package logtail
