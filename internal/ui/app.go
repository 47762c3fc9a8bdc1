package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/usher/internal/auth"
	"github.com/five82/usher/internal/controller"
	"github.com/five82/usher/internal/logging"
	"github.com/five82/usher/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewHome
	ViewRequests
	ViewLogs
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "Sign in"
	case ViewHome:
		return "Home"
	case ViewRequests:
		return "Requests"
	case ViewLogs:
		return "Logs"
	default:
		return "?"
	}
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Auth      *auth.Controller
	Home      *controller.Home
	Requests  *controller.Requests
	Login     *controller.Login
	ServerURL string
	LogPath   string
	ThemeName string
	PrefsPath string
	LogTick   time.Duration
}

// source identifies which store changed.
type source int

const (
	srcAuth source = iota
	srcHome
	srcRequests
	srcLogin
)

type watcher struct {
	src source
	ch  <-chan struct{}
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	auth      *auth.Controller
	home      *controller.Home
	requests  *controller.Requests
	login     *controller.Login
	serverURL string
	logPath   string
	prefsPath string
	logTick   time.Duration
	keys      keyMap
	watchers  []watcher

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	signedIn    bool

	// Login form
	inputs [2]textinput.Model
	focus  int // -1 when no input has focus

	// Requests state
	selected int

	// Log state
	logViewport viewport.Model
	logLines    []string
	follow      bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logTick := opts.LogTick
	if logTick <= 0 {
		logTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Prompt = "Email    "
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Prompt = "Password "

	m := Model{
		ctx:         ctx,
		auth:        opts.Auth,
		home:        opts.Home,
		requests:    opts.Requests,
		login:       opts.Login,
		serverURL:   opts.ServerURL,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		logTick:     logTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewLogin,
		inputs:      [2]textinput.Model{email, password},
		follow:      true,
	}
	m.inputs[0].Focus()

	if m.auth != nil {
		m.signedIn = m.auth.Session().Authenticated
		if m.signedIn {
			m.currentView = ViewHome
			m.focus = -1
			m.inputs[0].Blur()
		}
	}
	m.watch()
	return m
}

// watch subscribes to every controller store. Subscriptions live for the
// program's lifetime.
func (m *Model) watch() {
	add := func(src source, sub func() (<-chan struct{}, func())) {
		ch, _ := sub()
		m.watchers = append(m.watchers, watcher{src: src, ch: ch})
	}
	if m.auth != nil {
		add(srcAuth, m.auth.Subscribe)
	}
	if m.home != nil {
		add(srcHome, m.home.Subscribe)
	}
	if m.requests != nil {
		add(srcRequests, m.requests.Subscribe)
	}
	if m.login != nil {
		add(srcLogin, m.login.Subscribe)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, logTickCmd(m.logTick)}
	for _, w := range m.watchers {
		cmds = append(cmds, waitCmd(w))
	}
	if m.signedIn {
		cmds = append(cmds, m.loadAll())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logViewport = viewport.New(msg.Width, m.contentHeight())
		}
		m.ready = true
		m.logViewport.Width = msg.Width
		m.logViewport.Height = m.contentHeight()
		m.updateLogViewport()
		return m, nil

	case changedMsg:
		return m.handleChange(msg)

	case actionDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, controller.ErrSuperseded) && !errors.Is(msg.err, controller.ErrMissingCredentials) {
			logging.For(logging.UI).Debug().Err(msg.err).Str("action", msg.action).Msg("action finished with error")
		}
		return m, nil

	case logTickMsg:
		cmds := []tea.Cmd{logTickCmd(m.logTick)}
		if m.currentView == ViewLogs && m.follow {
			cmds = append(cmds, readLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case logLinesMsg:
		m.logLines = msg.lines
		m.updateLogViewport()
		return m, nil
	}

	return m, m.updateFocusedInput(msg)
}

func (m Model) handleChange(msg changedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitCmd(msg.watcher)}

	switch msg.watcher.src {
	case srcAuth:
		authenticated := m.auth.Session().Authenticated
		switch {
		case authenticated && !m.signedIn:
			m.signedIn = true
			m.currentView = ViewHome
			m.blurInputs()
			m.inputs[1].SetValue("")
			cmds = append(cmds, m.loadAll())
		case !authenticated && m.signedIn:
			m.signedIn = false
			m.currentView = ViewLogin
			m.home.Cancel()
			m.requests.Cancel()
			m.selected = 0
			cmds = append(cmds, m.focusInput(0))
		}
	case srcRequests:
		m.clampSelection()
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.renderLogin()
	case ViewHome:
		return m.renderHome()
	case ViewRequests:
		return m.renderRequests()
	case ViewLogs:
		return m.logViewport.View()
	default:
		return ""
	}
}

// contentHeight is the space left under the two header lines.
func (m Model) contentHeight() int {
	return max(m.height-2, 1)
}

// views returns the views reachable with tab in the current session state.
func (m Model) views() []View {
	if m.signedIn {
		return []View{ViewHome, ViewRequests, ViewLogs}
	}
	return []View{ViewLogin, ViewLogs}
}

func (m *Model) cycleView() tea.Cmd {
	views := m.views()
	next := views[0]
	for i, v := range views {
		if v == m.currentView {
			next = views[(i+1)%len(views)]
			break
		}
	}
	m.currentView = next
	m.blurInputs()
	if next == ViewLogs {
		return readLogsCmd(m.logPath)
	}
	return nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if err := prefs.SetTheme(m.prefsPath, m.theme.Name); err != nil {
		logging.For(logging.UI).Warn().Err(err).Msg("save theme preference failed")
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.currentView == ViewLogin && m.focus >= 0 {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m, m.cycleView()
	case key.Matches(msg, m.keys.Logout) && m.signedIn:
		return m, m.run("logout", m.auth.Logout)
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}

	switch m.currentView {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewRequests:
		return m.handleRequestsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) reload() tea.Cmd {
	switch m.currentView {
	case ViewHome:
		return m.run("load home", m.home.Load)
	case ViewRequests:
		return m.run("load requests", m.requests.Load)
	case ViewLogs:
		return readLogsCmd(m.logPath)
	}
	return nil
}

func (m Model) loadAll() tea.Cmd {
	return tea.Batch(
		m.run("load home", m.home.Load),
		m.run("load requests", m.requests.Load),
	)
}

// run executes fn off the UI goroutine. Results reach the view through the
// controller stores; the returned message only carries the error for logging.
func (m Model) run(action string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
}

// Messages

type changedMsg struct{ watcher watcher }

type actionDoneMsg struct {
	action string
	err    error
}

type logTickMsg time.Time

// Commands

func waitCmd(w watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.ch; !ok {
			return nil
		}
		return changedMsg{watcher: w}
	}
}

func logTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
