package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/five82/usher/internal/auth"
	"github.com/five82/usher/internal/config"
	"github.com/five82/usher/internal/controller"
	"github.com/five82/usher/internal/logging"
	"github.com/five82/usher/internal/overseerr"
	"github.com/five82/usher/internal/prefs"
	"github.com/five82/usher/internal/repository"
	"github.com/five82/usher/internal/ui"
)

// Version is reported to Plex and in the User-Agent header.
const Version = "0.1.0"

// Options configure the usher application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/usher/prefs.toml
	PollEvery  int    // seconds; zero uses the config's refresh_interval
	LogConsole bool   // log to stderr instead of the log file
	Check      bool   // verify the session and exit without starting the UI
	Stdout     io.Writer
}

// Services is the wired object graph.
type Services struct {
	Config   config.Config
	Client   *overseerr.Client
	Auth     *auth.Controller
	Users    *repository.Users
	Media    *repository.Media
	Requests *repository.Requests
	Home     *controller.Home
	List     *controller.Requests
	Login    *controller.Login
}

// Build loads configuration, sets up logging and wires every component.
// The returned close func releases the log file and stops background work.
func Build(opts Options) (*Services, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	closeLog, err := initLogging(cfg, opts.LogConsole)
	if err != nil {
		return nil, nil, err
	}

	clientID, err := prefs.EnsureClientIdentifier(opts.PrefsPath)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("client identifier: %w", err)
	}

	client, err := overseerr.NewClient(cfg.ServerURL,
		overseerr.WithAPIKey(cfg.APIKey),
		overseerr.WithUserAgent("usher/"+Version),
	)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("init overseerr client: %w", err)
	}

	authCtl, err := auth.New(client, auth.Config{
		ClientIdentifier: clientID,
		Product:          cfg.PlexProduct,
		Version:          Version,
	})
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("init auth: %w", err)
	}

	svc := &Services{
		Config:   cfg,
		Client:   client,
		Auth:     authCtl,
		Users:    repository.NewUsers(client),
		Media:    repository.NewMedia(client),
		Requests: repository.NewRequests(client),
	}
	svc.Home = controller.NewHome(svc.Media, svc.Users)
	svc.List = controller.NewRequests(svc.Requests, cfg.RequestPageSize)
	svc.Login = controller.NewLogin(authCtl)

	logging.For(logging.App).Info().
		Str("server", client.BaseURL().String()).
		Bool("api_key", cfg.APIKey != "").
		Msg("usher starting")

	return svc, func() {
		authCtl.Close()
		closeLog()
	}, nil
}

// Run boots the usher TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	svc, closeAll, err := Build(opts)
	if err != nil {
		return err
	}
	defer closeAll()

	if opts.Check {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return Check(ctx, svc.Auth, out)
	}

	log := logging.For(logging.App)
	if user, err := svc.Auth.CheckAuth(ctx); err != nil {
		log.Info().Err(err).Msg("no existing session; showing login")
	} else {
		log.Info().Int("user_id", user.ID).Msg("resumed session")
	}

	interval := svc.Config.RefreshInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}
	StartRefresher(ctx, svc.List, svc.Auth, interval)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	return ui.Run(ui.Options{
		Context:   ctx,
		Auth:      svc.Auth,
		Home:      svc.Home,
		Requests:  svc.List,
		Login:     svc.Login,
		ServerURL: svc.Client.BaseURL().String(),
		LogPath:   svc.Config.LogPath(),
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
	})
}

// SessionChecker is the part of auth.Controller Check needs.
type SessionChecker interface {
	CheckAuth(ctx context.Context) (*overseerr.User, error)
}

// Check verifies the current session and prints who is signed in.
func Check(ctx context.Context, a SessionChecker, out io.Writer) error {
	user, err := a.CheckAuth(ctx)
	if err != nil {
		if overseerr.IsAuthFailure(err) {
			return fmt.Errorf("not signed in: %w", err)
		}
		return fmt.Errorf("check session: %w", err)
	}
	role := "user"
	switch {
	case user.IsOwner():
		role = "owner"
	case user.IsAdmin():
		role = "admin"
	}
	_, err = fmt.Fprintf(out, "signed in as %s (id %d, %s)\n", user.DisplayName(), user.ID, role)
	return err
}

func initLogging(cfg config.Config, console bool) (func(), error) {
	if console {
		logging.Init(logging.Config{Level: cfg.LogLevel, Console: true, Output: os.Stderr})
		return func() {}, nil
	}
	f, err := logging.OpenFile(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Output: f})
	return func() {
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			fmt.Fprintf(os.Stderr, "usher: close log: %v\n", err)
		}
	}, nil
}
