package app

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyscope/internal/hotkey"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s
}

func screenText(s tcell.SimulationScreen) string {
	cells, w, h := s.GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				b.WriteString(string(c.Runes))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func fixedState(scope, held string) StateFunc {
	return func() UIState {
		return UIState{
			Scope:   scope,
			Held:    held,
			Pending: held != "",
			Metrics: hotkey.MetricsSnapshot{
				KeyDowns: 12,
				Matches:  3,
				Uptime:   90 * time.Second,
			},
		}
	}
}

func TestStatusView_Draw(t *testing.T) {
	s := newSimScreen(t)
	v := NewStatusView(s, fixedState("editor", "control+k"))
	v.SetLastMatch("editor", "ctrl+k d")
	v.SetLastEmit("build done")
	v.SetBindings([]BindingRow{
		{Pattern: "ctrl+k d", Scope: "editor", Action: "run:make"},
		{Pattern: "g g", Scope: "global", Action: "scope:global"},
	})

	v.draw()

	text := screenText(s)
	for _, want := range []string{
		"keyscope",
		"editor",
		"control+k",
		"(pending)",
		"ctrl+k d",
		"build done",
		"bindings (2)",
		"run:make",
		"up 1m30s",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q\n%s", want, text)
		}
	}
}

func TestStatusView_DrawEmptyState(t *testing.T) {
	s := newSimScreen(t)
	v := NewStatusView(s, fixedState("global", ""))

	v.draw()

	text := screenText(s)
	if !strings.Contains(text, "global") {
		t.Errorf("screen missing scope badge\n%s", text)
	}
	if strings.Contains(text, "(pending)") {
		t.Errorf("idle view shows pending marker\n%s", text)
	}
}

func TestStatusView_OwnInputQuitKey(t *testing.T) {
	s := newSimScreen(t)

	quit := make(chan struct{})
	v := NewStatusView(s, fixedState("global", ""), WithOwnInput(func() {
		close(quit)
	}))
	v.Start()
	defer v.Close()

	s.InjectKey(tcell.KeyCtrlC, rune(3), tcell.ModCtrl)

	select {
	case <-quit:
	case <-time.After(3 * time.Second):
		t.Fatal("quit callback never invoked")
	}
}

func TestStatusView_CloseIdempotent(t *testing.T) {
	s := newSimScreen(t)
	v := NewStatusView(s, fixedState("global", ""))
	v.Start()

	v.Close()
	v.Close()
}

func TestIsQuitKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want bool
	}{
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, rune(3), tcell.ModCtrl), true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true},
		{"plain letter", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), false},
		{"function key", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isQuitKey(tt.ev); got != tt.want {
				t.Errorf("isQuitKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPadTo(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"pads short", "ab", 4, "ab  "},
		{"exact", "abcd", 4, "abcd"},
		{"truncates long", "abcdef", 4, "abcd"},
		{"empty", "", 3, "   "},
		{"wide runes kept whole", "日本語", 5, "日本 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padTo(tt.text, tt.width); got != tt.want {
				t.Errorf("padTo(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestDrawText_WideRuneAdvance(t *testing.T) {
	s := newSimScreen(t)

	end := drawText(s, 0, 0, tcell.StyleDefault, "日a")
	if end != 3 {
		t.Errorf("drawText advance = %d, want 3", end)
	}
}

func TestScopeColor_Deterministic(t *testing.T) {
	if scopeColor("editor") != scopeColor("editor") {
		t.Error("same scope name produced different colors")
	}
	if scopeColor("editor") == scopeColor("terminal") {
		t.Error("distinct scope names produced identical colors")
	}
}
