package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyscope/internal/config"
	"github.com/dshills/keyscope/internal/event"
	"github.com/dshills/keyscope/internal/hotkey"
	"github.com/dshills/keyscope/internal/hotkey/key"
	"github.com/dshills/keyscope/internal/hotkey/scope"
	"github.com/dshills/keyscope/internal/ipc"
	"github.com/dshills/keyscope/internal/script"
	"github.com/dshills/keyscope/internal/source"
)

// Options configures the application. Zero values defer to the
// configuration file.
type Options struct {
	// ConfigPath is the configuration file path. Empty selects the
	// default lookup (KEYSCOPE_CONFIG, then the XDG config dir).
	ConfigPath string

	// Scope overrides the configured initial scope.
	Scope string

	// SourceType overrides the configured event source.
	SourceType string

	// LogLevel overrides the configured log level.
	LogLevel string

	// IsTTY reports whether stdin is a terminal. It gates the terminal
	// source and the status view.
	IsTTY bool
}

// boundBinding pairs a live binding handle with its action string.
type boundBinding struct {
	handle *hotkey.Binding
	action string
}

// Application is the daemon: it wires the config, the dispatcher, the
// event source, the action registry, the script engine, the control
// socket, and the optional status view, and runs them until shutdown.
type Application struct {
	mu sync.RWMutex

	opts    Options
	cfg     *config.Config
	cfgPath string
	logger  *Logger
	logFile *os.File

	bus        *event.Bus
	dispatcher *hotkey.Dispatcher
	actions    *ActionRegistry
	script     *script.Engine
	server     *ipc.Server
	watcher    *config.Watcher

	terminal *source.Terminal
	evdev    *source.Evdev
	replay   *source.Replay

	view        *StatusView
	screen      tcell.Screen
	screenOwned bool
	uiEnabled   bool

	bindings []boundBinding

	started  time.Time
	running  atomic.Bool
	quit     chan struct{}
	quitOnce sync.Once
}

var _ script.Host = (*Application)(nil)

// New loads the configuration, builds every component, and arms the
// configured bindings. The returned application is idle until Run.
func New(opts Options) (*Application, error) {
	a := &Application{
		opts: opts,
		quit: make(chan struct{}),
	}

	ok := false
	defer func() {
		if !ok {
			a.teardown()
		}
	}()

	// 1. Config
	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.Scope != "" {
		cfg.Engine.InitialScope = opts.Scope
	}
	if opts.SourceType != "" {
		cfg.Source.Type = opts.SourceType
	}
	if opts.LogLevel != "" {
		cfg.Daemon.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a.cfg = cfg
	a.cfgPath = path
	a.uiEnabled = cfg.Daemon.UI && opts.IsTTY

	if cfg.Source.Type == config.SourceTerminal && !opts.IsTTY {
		return nil, &OperationError{
			Op:  "source",
			Err: errors.New("terminal source requires a TTY; use -source evdev or replay"),
		}
	}

	// 2. Logger
	a.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Daemon.LogLevel),
		Output: a.logOutput(),
		Prefix: "keyscope",
	})
	SetLogger(a.logger)

	// 3. Event bus
	a.bus = event.NewBus(event.WithPanicHandler(func(e event.Event, r any) {
		a.logger.Error("handler panic on %s: %v", e.Topic, r)
	}))

	// 4. Event source
	src, err := a.buildSource()
	if err != nil {
		return nil, err
	}

	// 5. Dispatcher
	a.dispatcher = hotkey.New(hotkey.Config{
		IdleTimeout:  cfg.IdleTimeout(),
		InitialScope: cfg.Engine.InitialScope,
		Source:       src,
		OnCallbackPanic: func(r any) {
			a.logger.Error("callback panic: %v", r)
		},
	})

	// 6. Actions and scripting
	a.actions = NewActionRegistry()
	a.registerActions()
	a.script = script.New(a)

	// 7. Bindings
	handles, err := a.registerBindings(cfg.Bindings, cfg.IdleTimeout())
	if err != nil {
		return nil, err
	}
	a.bindings = handles

	// 8. Control socket
	socket := cfg.Daemon.Socket
	if socket == "" {
		socket = config.DefaultSocketPath()
	}
	a.server = ipc.NewServer(ipc.DefaultServerConfig(socket), ipc.HandlerFunc(a.handleIPC))

	ok = true
	return a, nil
}

// buildSource creates the configured event source. The terminal and
// replay sources are remembered separately: the terminal shares its
// screen with the status view, the replay source is the inject path.
func (a *Application) buildSource() (hotkey.Source, error) {
	switch a.cfg.Source.Type {
	case config.SourceTerminal:
		t, err := source.NewTerminal()
		if err != nil {
			return nil, &OperationError{Op: "source", Target: "terminal", Err: err}
		}
		a.terminal = t
		return t, nil

	case config.SourceEvdev:
		e := source.NewEvdev(a.cfg.Source.Device)
		a.evdev = e
		return e, nil

	case config.SourceReplay:
		r := source.NewReplay()
		a.replay = r
		return r, nil

	case config.SourceNone, "":
		return nil, nil
	}
	return nil, &OperationError{Op: "source", Target: a.cfg.Source.Type, Err: errors.New("unknown type")}
}

// logOutput picks where the log goes. When a tcell screen will own the
// terminal, stderr would garble it, so the log moves to a file under
// the state dir.
func (a *Application) logOutput() io.Writer {
	usesScreen := a.cfg.Source.Type == config.SourceTerminal || a.uiEnabled
	if !usesScreen {
		return os.Stderr
	}

	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return io.Discard
		}
		dir = filepath.Join(home, ".local", "state")
	}
	path := filepath.Join(dir, "keyscope", "keyscope.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return io.Discard
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return io.Discard
	}
	a.logFile = f
	return f
}

// matchCallback builds the dispatcher callback for one binding.
func (a *Application) matchCallback(b config.BindingConfig) hotkey.Callback {
	scopeName := b.Scope
	if scopeName == "" {
		scopeName = scope.DefaultScope
	}
	pattern, action := b.Pattern, b.Action

	return func(ev key.Event) {
		a.logger.Debug("match %q in %s", pattern, scopeName)
		a.bus.Publish(event.TopicMatchFired, event.MatchFired{
			Scope:   scopeName,
			Pattern: pattern,
			Key:     ev.Token(),
		})
		if err := a.actions.Execute(context.Background(), action); err != nil {
			a.logger.Error("action %q: %v", action, err)
		}
	}
}

// registerBindings arms one binding per config entry, unwinding on
// failure so a bad entry leaves nothing half-registered.
func (a *Application) registerBindings(bindings []config.BindingConfig, timeout time.Duration) ([]boundBinding, error) {
	handles := make([]boundBinding, 0, len(bindings))

	unwind := func() {
		for _, b := range handles {
			_ = b.handle.Unbind()
		}
	}

	for i, b := range bindings {
		if err := a.actions.Check(b.Action); err != nil {
			unwind()
			return nil, fmt.Errorf("binding %d (%s): %w", i, b.Pattern, err)
		}
		h, err := a.dispatcher.Register(b.Pattern, b.Scope, a.matchCallback(b), hotkey.WithIdleTimeout(timeout))
		if err != nil {
			unwind()
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		handles = append(handles, boundBinding{handle: h, action: b.Action})
	}
	return handles, nil
}

// Run starts the control socket, the config watcher, and the optional
// status view, then blocks until the context is canceled or a quit is
// requested. Run tears the application down on return and may only be
// called once.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)
	a.started = time.Now()

	if err := a.server.Start(); err != nil {
		return &OperationError{Op: "start", Target: "control socket", Err: err}
	}
	a.logger.Info("control socket %s", a.server.SocketPath())

	if w, err := config.NewWatcher(a.cfgPath, a.onConfigChange); err != nil {
		a.logger.Warn("config watcher: %v (live reload disabled)", err)
	} else {
		a.watcher = w
	}

	a.startUI()
	a.subscribe()

	a.logger.Info("up: scope %s, %d bindings, source %s",
		a.dispatcher.ActiveScope(), a.dispatcher.BindingCount(), a.cfg.Source.Type)

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down: %v", ctx.Err())
	case <-a.quit:
		a.logger.Info("shutting down: quit requested")
	}

	a.teardown()
	return nil
}

// startUI builds the status view. With a terminal source the screen is
// shared; otherwise the view owns a screen and its input.
func (a *Application) startUI() {
	if !a.uiEnabled {
		return
	}

	if a.terminal != nil {
		if err := a.terminal.InitScreen(); err != nil {
			a.logger.Warn("status view: %v", err)
			return
		}
		a.view = NewStatusView(a.terminal.Screen(), a.uiState)
		a.terminal.OnResize(func(_, _ int) { a.view.Redraw() })
	} else {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.logger.Warn("status view: %v", err)
			return
		}
		if err := screen.Init(); err != nil {
			a.logger.Warn("status view: %v", err)
			return
		}
		a.screen = screen
		a.screenOwned = true
		a.view = NewStatusView(screen, a.uiState, WithOwnInput(a.Quit))
	}

	// Every key event repaints the held-keys cell.
	view := a.view
	a.dispatcher.AddHook(hotkey.HookFunc(func(key.Event) bool {
		view.Redraw()
		return false
	}), hotkey.HookPriorityLow)

	view.SetBindings(a.BindingRows())
	view.Start()
}

// uiState snapshots dispatcher state for the status view.
func (a *Application) uiState() UIState {
	return UIState{
		Scope:   a.dispatcher.ActiveScope(),
		Held:    a.dispatcher.HeldKeys(),
		Pending: a.dispatcher.Pending(),
		Metrics: a.dispatcher.Metrics(),
	}
}

// subscribe wires bus topics to the log and the status view.
func (a *Application) subscribe() {
	view := a.view

	_, _ = a.bus.Subscribe(event.TopicMatchFired, func(e event.Event) {
		if m, ok := e.Data.(event.MatchFired); ok && view != nil {
			view.SetLastMatch(m.Scope, m.Pattern)
		}
	})
	_, _ = a.bus.Subscribe(event.TopicUserEmit, func(e event.Event) {
		if u, ok := e.Data.(event.UserEmit); ok {
			a.logger.Info("emit: %s", u.Text)
			if view != nil {
				view.SetLastEmit(u.Text)
			}
		}
	})
	_, _ = a.bus.Subscribe(event.TopicScopeChanged, func(event.Event) {
		if view != nil {
			view.Redraw()
		}
	})
	_, _ = a.bus.Subscribe(event.TopicConfigReloaded, func(event.Event) {
		if view != nil {
			view.SetBindings(a.BindingRows())
		}
	})
}

// onConfigChange handles a config file change on disk. Reload reports
// its own failures to the log.
func (a *Application) onConfigChange() {
	a.logger.Info("config changed on disk")
	_ = a.Reload()
}

// Reload re-reads the config file and swaps the binding set. The old
// bindings come down first and are re-armed if the new set fails, so a
// broken edit never leaves the daemon without its shortcuts. Failures
// are logged as well as returned.
func (a *Application) Reload() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, err := config.LoadStrict(a.cfgPath)
	if err != nil {
		a.logger.Error("reload: %v", err)
		return err
	}
	if a.opts.LogLevel != "" {
		cfg.Daemon.LogLevel = a.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		a.logger.Error("reload: %v", err)
		return err
	}
	if cfg.Source.Type != a.cfg.Source.Type {
		a.logger.Warn("source type change (%s -> %s) requires a restart",
			a.cfg.Source.Type, cfg.Source.Type)
		cfg.Source = a.cfg.Source
	}

	old := a.bindings
	for _, b := range old {
		_ = b.handle.Unbind()
	}

	handles, err := a.registerBindings(cfg.Bindings, cfg.IdleTimeout())
	if err != nil {
		for _, b := range old {
			if bindErr := b.handle.Bind(); bindErr != nil {
				a.logger.Error("restore binding %q: %v", b.handle.Pattern(), bindErr)
			}
		}
		a.logger.Error("reload: %v", err)
		return err
	}

	a.bindings = handles
	a.cfg = cfg
	a.logger.SetLevel(ParseLogLevel(cfg.Daemon.LogLevel))
	a.logger.Info("config reloaded: %d bindings", len(handles))

	a.bus.Publish(event.TopicConfigReloaded, event.ConfigReloaded{
		Path:     a.cfgPath,
		Bindings: len(handles),
	})
	return nil
}

// BindingRows lists the live bindings for the UI and IPC.
func (a *Application) BindingRows() []BindingRow {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows := make([]BindingRow, 0, len(a.bindings))
	for _, b := range a.bindings {
		rows = append(rows, BindingRow{
			Pattern: b.handle.Pattern(),
			Scope:   b.handle.Scope(),
			Action:  b.action,
		})
	}
	return rows
}

// SetScope switches the active scope and announces the change.
// Implements script.Host.
func (a *Application) SetScope(name string) {
	from := a.dispatcher.ActiveScope()
	if from == name {
		return
	}
	a.dispatcher.SetActiveScope(name)
	a.logger.Info("scope %s -> %s", from, name)
	a.bus.Publish(event.TopicScopeChanged, event.ScopeChanged{From: from, To: name})
}

// ActiveScope returns the active scope name. Implements script.Host.
func (a *Application) ActiveScope() string {
	return a.dispatcher.ActiveScope()
}

// Log writes a script message to the daemon log. Implements script.Host.
func (a *Application) Log(msg string) {
	a.logger.Info("lua: %s", msg)
}

// Emit publishes user text on the bus. Implements script.Host.
func (a *Application) Emit(text string) {
	a.bus.Publish(event.TopicUserEmit, event.UserEmit{Text: text})
}

// Inject parses a key spec like "ctrl+k d" and feeds the synthetic
// press/release transitions through the event path. Returns the number
// of events delivered.
func (a *Application) Inject(spec string) int {
	events := injectEvents(spec)
	for _, ev := range events {
		a.deliverEvent(ev)
	}
	return len(events)
}

// injectEvents expands a key spec into transitions: each step's tokens
// go down in order and up in reverse, so chords overlap the way real
// hands produce them.
func injectEvents(spec string) []key.Event {
	var events []key.Event
	for _, step := range strings.Fields(spec) {
		var tokens []string
		for _, raw := range strings.Split(step, "+") {
			if tok := key.Normalize(raw); tok != "" {
				tokens = append(tokens, tok)
			}
		}
		for _, tok := range tokens {
			events = append(events, key.Down(tok))
		}
		for i := len(tokens) - 1; i >= 0; i-- {
			events = append(events, key.Up(tokens[i]))
		}
	}
	return events
}

// deliverEvent hands one synthetic event to the replay source when it
// is the configured source, otherwise straight to the dispatcher.
func (a *Application) deliverEvent(ev key.Event) {
	if a.replay != nil {
		a.replay.Deliver(ev)
		return
	}
	a.dispatcher.HandleEvent(ev)
}

// Quit requests shutdown. Safe to call from any goroutine, repeatedly.
func (a *Application) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// IsRunning reports whether Run is active.
func (a *Application) IsRunning() bool {
	return a.running.Load()
}

// Dispatcher returns the matching engine.
func (a *Application) Dispatcher() *hotkey.Dispatcher {
	return a.dispatcher
}

// Bus returns the event bus.
func (a *Application) Bus() *event.Bus {
	return a.bus
}

// SocketPath returns the control socket path.
func (a *Application) SocketPath() string {
	return a.server.SocketPath()
}

// teardown releases components in reverse construction order. It
// tolerates partially built applications, so New can call it on any
// failure path.
func (a *Application) teardown() {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	if a.server != nil {
		if err := a.server.Stop(); err != nil {
			a.logger.Warn("stop control socket: %v", err)
		}
		a.server = nil
	}
	if a.view != nil {
		a.view.Close()
		a.view = nil
	}
	if a.dispatcher != nil {
		if err := a.dispatcher.Close(); err != nil {
			a.logger.Warn("close dispatcher: %v", err)
		}
	}
	if a.script != nil {
		a.script.Close()
		a.script = nil
	}
	if a.terminal != nil {
		_ = a.terminal.Close()
		a.terminal = nil
	}
	if a.evdev != nil {
		_ = a.evdev.Close()
		a.evdev = nil
	}
	if a.screenOwned && a.screen != nil {
		a.screen.Fini()
		a.screen = nil
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}
