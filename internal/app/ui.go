package app

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/dshills/keyscope/internal/hotkey"
)

// UIState is the live dispatcher state pulled for each redraw.
type UIState struct {
	Scope   string
	Held    string
	Pending bool
	Metrics hotkey.MetricsSnapshot
}

// StateFunc supplies the state for a redraw. It runs on the view's
// draw goroutine.
type StateFunc func() UIState

// BindingRow is one line of the bindings listing.
type BindingRow struct {
	Pattern string
	Scope   string
	Action  string
}

// StatusView renders daemon state on a tcell screen: the scope badge,
// held keys, the last match and emit, counters, and the binding table.
// The screen is usually shared with the terminal source; the view only
// draws, it never initializes or finalizes the screen.
type StatusView struct {
	screen tcell.Screen
	state  StateFunc

	mu        sync.Mutex
	lastMatch string
	lastEmit  string
	rows      []BindingRow
	started   bool
	closed    bool

	ownInput bool
	quitFn   func()

	redraw chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

// StatusViewOption configures a StatusView.
type StatusViewOption func(*StatusView)

// WithOwnInput makes the view poll its own tcell events. Use this when
// no terminal source shares the screen; the view then handles resizes
// itself and treats Ctrl+C, q, and Escape as a quit request.
func WithOwnInput(quitFn func()) StatusViewOption {
	return func(v *StatusView) {
		v.ownInput = true
		v.quitFn = quitFn
	}
}

// NewStatusView creates a view drawing on an already initialized
// screen. Nothing is drawn until Start.
func NewStatusView(screen tcell.Screen, state StateFunc, opts ...StatusViewOption) *StatusView {
	v := &StatusView{
		screen: screen,
		state:  state,
		redraw: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Start begins the draw loop and, for own-input views, the event loop.
func (v *StatusView) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.started || v.closed {
		return
	}
	v.started = true

	v.wg.Add(1)
	go v.drawLoop()

	if v.ownInput {
		v.wg.Add(1)
		go v.eventLoop()
	}
	v.Redraw()
}

// Redraw schedules a repaint. Calls are coalesced, so it is cheap to
// invoke on every key event.
func (v *StatusView) Redraw() {
	select {
	case v.redraw <- struct{}{}:
	default:
	}
}

// SetLastMatch records the most recent completed pattern for display.
func (v *StatusView) SetLastMatch(scope, pattern string) {
	v.mu.Lock()
	v.lastMatch = pattern
	if scope != "" {
		v.lastMatch = scope + ": " + pattern
	}
	v.mu.Unlock()
	v.Redraw()
}

// SetLastEmit records the most recent emit: action text for display.
func (v *StatusView) SetLastEmit(text string) {
	v.mu.Lock()
	v.lastEmit = text
	v.mu.Unlock()
	v.Redraw()
}

// SetBindings replaces the bindings listing.
func (v *StatusView) SetBindings(rows []BindingRow) {
	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
	v.Redraw()
}

// Close stops the loops. The screen itself is left to its owner.
func (v *StatusView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	started := v.started
	ownInput := v.ownInput
	v.mu.Unlock()

	if !started {
		return
	}
	close(v.done)
	if ownInput {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
	v.wg.Wait()
}

// drawLoop repaints on demand and once a second to keep the uptime
// and counters current.
func (v *StatusView) drawLoop() {
	defer v.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-v.done:
			return
		case <-v.redraw:
			v.draw()
		case <-ticker.C:
			v.draw()
		}
	}
}

// eventLoop drains tcell events for views that own the screen's input.
func (v *StatusView) eventLoop() {
	defer v.wg.Done()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			if isQuitKey(e) && v.quitFn != nil {
				v.quitFn()
			}

		case *tcell.EventResize:
			v.screen.Sync()
			v.Redraw()

		case *tcell.EventInterrupt:
			select {
			case <-v.done:
				return
			default:
			}
		}
	}
}

// isQuitKey reports keys that close an own-input view. The screen is
// in raw mode, so Ctrl+C arrives as a key event rather than a signal.
func isQuitKey(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyRune:
		return e.Rune() == 'q'
	}
	return false
}

const uiLabelWidth = 9

func (v *StatusView) draw() {
	st := v.state()

	v.mu.Lock()
	lastMatch := v.lastMatch
	lastEmit := v.lastEmit
	rows := v.rows
	v.mu.Unlock()

	s := v.screen
	width, height := s.Size()
	s.Clear()

	base := tcell.StyleDefault
	title := base.Bold(true)
	dim := base.Foreground(tcell.ColorGray)
	badge := base.
		Background(scopeColor(st.Scope)).
		Foreground(tcell.ColorBlack).
		Bold(true)

	drawText(s, 1, 0, title, "keyscope")
	uptime := "up " + formatUptime(st.Metrics.Uptime)
	drawText(s, width-uniseg.StringWidth(uptime)-1, 0, dim, uptime)

	x := drawText(s, 1, 2, dim, padTo("scope", uiLabelWidth))
	drawText(s, x, 2, badge, " "+st.Scope+" ")

	held := st.Held
	if held == "" {
		held = "-"
	}
	x = drawText(s, 1, 3, dim, padTo("held", uiLabelWidth))
	x = drawText(s, x, 3, base, held)
	if st.Pending {
		drawText(s, x+1, 3, dim, "(pending)")
	}

	if lastMatch == "" {
		lastMatch = "-"
	}
	x = drawText(s, 1, 4, dim, padTo("match", uiLabelWidth))
	drawText(s, x, 4, base, lastMatch)

	if lastEmit == "" {
		lastEmit = "-"
	}
	x = drawText(s, 1, 5, dim, padTo("emit", uiLabelWidth))
	drawText(s, x, 5, base, lastEmit)

	counters := fmt.Sprintf("keys %d  matches %d  partial %d  resets %d",
		st.Metrics.KeyDowns, st.Metrics.Matches, st.Metrics.Partials, st.Metrics.IdleResets)
	drawText(s, 1, 6, dim, counters)

	drawText(s, 1, 8, title, fmt.Sprintf("bindings (%d)", len(rows)))
	y := 9
	for _, row := range rows {
		if y >= height {
			break
		}
		x = drawText(s, 3, y, base, padTo(row.Pattern, 20))
		x = drawText(s, x, y, dim, padTo(row.Scope, 14))
		drawText(s, x, y, base, row.Action)
		y++
	}

	s.Show()
}

// drawText writes text starting at x,y and returns the column after
// the last cell. Wide graphemes occupy their full cell count.
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		s.SetContent(x, y, runes[0], comb, style)
		x += g.Width()
	}
	return x
}

// padTo pads text with spaces to an exact cell width, truncating
// grapheme-wise on overflow.
func padTo(text string, width int) string {
	if w := uniseg.StringWidth(text); w <= width {
		return text + strings.Repeat(" ", width-w)
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		gw := g.Width()
		if used+gw > width {
			break
		}
		b.WriteString(g.Str())
		used += gw
	}
	return b.String() + strings.Repeat(" ", width-used)
}

// scopeColor derives a stable badge color from the scope name, so a
// scope keeps its color across restarts and machines.
func scopeColor(name string) tcell.Color {
	h := fnv.New32a()
	h.Write([]byte(name))
	hue := float64(h.Sum32() % 360)
	r, g, b := colorful.Hsv(hue, 0.5, 0.85).RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func formatUptime(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	return d.Truncate(time.Second).String()
}
