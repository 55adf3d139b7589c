package source

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyscope/internal/hotkey/key"
)

// Terminal reads key events from the controlling terminal using tcell.
//
// Terminals report complete keystrokes, not press/release transitions.
// Each keystroke is therefore expanded into a synthetic sequence: the
// modifiers go down, the key goes down and up, the modifiers go up in
// reverse. A chord pattern like "ctrl+a" matches at the synthetic
// key-down of "a" while "control" is still held.
//
// The poll loop runs for the lifetime of the source. Attach and Detach
// only swap the handler, so the dispatcher can detach and reattach
// without tearing down the terminal.
type Terminal struct {
	mu       sync.Mutex
	screen   tcell.Screen
	own      bool
	inited   bool
	running  bool
	closed   bool
	handler  func(key.Event)
	resizeFn func(width, height int)

	wg sync.WaitGroup
}

// TerminalOption configures a Terminal source.
type TerminalOption func(*Terminal)

// WithScreen uses an existing tcell screen instead of creating one.
// The caller keeps ownership; Close will not finalize it.
func WithScreen(screen tcell.Screen) TerminalOption {
	return func(t *Terminal) {
		t.screen = screen
		t.own = false
	}
}

// NewTerminal creates a terminal source. Without WithScreen a new
// tcell screen is allocated and owned by the source.
func NewTerminal(opts ...TerminalOption) (*Terminal, error) {
	t := &Terminal{own: true}
	for _, opt := range opts {
		opt(t)
	}

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("create screen: %w", err)
		}
		t.screen = screen
	}

	return t, nil
}

// Screen returns the underlying tcell screen so a status view can
// draw on it.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// OnResize registers a callback invoked from the poll loop when the
// terminal is resized.
func (t *Terminal) OnResize(fn func(width, height int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resizeFn = fn
}

// InitScreen initializes the screen ahead of Attach so a status view
// can draw before the first binding arms the source.
func (t *Terminal) InitScreen() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrSourceClosed
	}
	return t.initScreenLocked()
}

func (t *Terminal) initScreenLocked() error {
	if t.inited {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	t.inited = true
	return nil
}

// Attach initializes the screen on first use and starts delivering
// key events to handler.
func (t *Terminal) Attach(handler func(key.Event)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrSourceClosed
	}
	if t.handler != nil {
		return ErrAlreadyAttached
	}

	if err := t.initScreenLocked(); err != nil {
		return err
	}

	t.handler = handler

	if !t.running {
		t.running = true
		t.wg.Add(1)
		go t.pollLoop()
	}

	return nil
}

// Detach stops delivering events. The poll loop keeps draining the
// terminal so keystrokes do not leak to the shell.
func (t *Terminal) Detach() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = nil
	return nil
}

// Close stops the poll loop and finalizes the screen if owned.
func (t *Terminal) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.handler = nil
	wasRunning := t.running
	t.running = false
	t.mu.Unlock()

	if wasRunning {
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
		t.wg.Wait()
	}
	if t.inited && t.own {
		t.screen.Fini()
	}
	return nil
}

// pollLoop consumes tcell events until the source is closed.
func (t *Terminal) pollLoop() {
	defer t.wg.Done()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			t.emitKey(e)

		case *tcell.EventResize:
			width, height := e.Size()
			t.mu.Lock()
			fn := t.resizeFn
			t.mu.Unlock()
			if fn != nil {
				fn(width, height)
			}
			t.screen.Sync()

		case *tcell.EventInterrupt:
			t.mu.Lock()
			closed := t.closed
			t.mu.Unlock()
			if closed {
				return
			}
		}
	}
}

// emitKey expands one terminal keystroke into synthetic transitions.
func (t *Terminal) emitKey(e *tcell.EventKey) {
	t.mu.Lock()
	handler := t.handler
	t.mu.Unlock()
	if handler == nil {
		return
	}

	name, mods, ok := translateKey(e)
	if !ok {
		return
	}

	for _, mod := range mods {
		handler(key.Down(mod))
	}
	handler(key.Down(name))
	handler(key.Up(name))
	for i := len(mods) - 1; i >= 0; i-- {
		handler(key.Up(mods[i]))
	}
}

// specialKeyNames maps tcell named keys to canonical key names.
// Tab, Enter, Escape, and Backspace alias control codes in tcell and
// must stay out of the ctrl-letter range handling below.
var specialKeyNames = map[tcell.Key]string{
	tcell.KeyEscape:     "escape",
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "tab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyInsert:     "insert",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pageup",
	tcell.KeyPgDn:       "pagedown",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyF1:         "f1",
	tcell.KeyF2:         "f2",
	tcell.KeyF3:         "f3",
	tcell.KeyF4:         "f4",
	tcell.KeyF5:         "f5",
	tcell.KeyF6:         "f6",
	tcell.KeyF7:         "f7",
	tcell.KeyF8:         "f8",
	tcell.KeyF9:         "f9",
	tcell.KeyF10:        "f10",
	tcell.KeyF11:        "f11",
	tcell.KeyF12:        "f12",
}

// translateKey converts a tcell key event to a canonical key name
// plus the modifier names held around it.
func translateKey(e *tcell.EventKey) (string, []string, bool) {
	var name string
	forceCtrl := false

	switch k := e.Key(); {
	case k == tcell.KeyRune:
		r := e.Rune()
		if r == ' ' {
			name = "space"
		} else {
			name = string(r)
		}

	case specialKeyNames[k] != "":
		name = specialKeyNames[k]

	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		// Control letters arrive as dedicated key codes. Tab, Enter,
		// and Backspace were already taken by the cases above.
		name = string(rune('a' + (k - tcell.KeyCtrlA)))
		forceCtrl = true

	case k == tcell.KeyCtrlSpace:
		name = "space"
		forceCtrl = true

	default:
		return "", nil, false
	}

	var mods []string
	m := e.Modifiers()
	if m&tcell.ModCtrl != 0 || forceCtrl {
		mods = append(mods, "control")
	}
	if m&tcell.ModAlt != 0 {
		mods = append(mods, "alt")
	}
	if m&tcell.ModMeta != 0 {
		mods = append(mods, "meta")
	}
	if m&tcell.ModShift != 0 {
		mods = append(mods, "shift")
	}

	return name, mods, true
}
