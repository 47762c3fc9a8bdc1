package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/usher/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/usher/config.toml)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional, defaults to ~/.config/usher/prefs.toml)")
	pollSeconds := flag.Int("poll", 0, "request refresh interval in seconds (optional, defaults to refresh_interval)")
	logConsole := flag.Bool("log-console", false, "write logs to stderr instead of the log file")
	check := flag.Bool("check", false, "verify the current session and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		LogConsole: *logConsole,
		Check:      *check,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "usher: %v\n", err)
		return 1
	}
	return 0
}
