package source

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyscope/internal/hotkey/key"
)

func newTestTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen, <-chan key.Event) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	src, err := NewTerminal(WithScreen(sim))
	if err != nil {
		t.Fatalf("NewTerminal() error = %v", err)
	}

	ch := make(chan key.Event, 64)
	if err := src.Attach(func(ev key.Event) { ch <- ev }); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	return src, sim, ch
}

func collect(t *testing.T, ch <-chan key.Event, n int) []key.Event {
	t.Helper()

	events := make([]key.Event, 0, n)
	timeout := time.After(3 * time.Second)
	for len(events) < n {
		select {
		case ev := <-ch:
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out with %d of %d events", len(events), n)
		}
	}
	return events
}

func checkSequence(t *testing.T, events []key.Event, want []string) {
	t.Helper()

	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		got := events[i].Token() + " " + events[i].Kind.String()
		if got != w {
			t.Errorf("events[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestTerminal_RuneKey(t *testing.T) {
	_, sim, ch := newTestTerminal(t)

	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)

	events := collect(t, ch, 2)
	checkSequence(t, events, []string{"a down", "a up"})
}

func TestTerminal_CtrlChord(t *testing.T) {
	_, sim, ch := newTestTerminal(t)

	sim.InjectKey(tcell.KeyCtrlK, rune(11), tcell.ModCtrl)

	events := collect(t, ch, 4)
	checkSequence(t, events, []string{
		"control down",
		"k down",
		"k up",
		"control up",
	})
}

func TestTerminal_AltModifier(t *testing.T) {
	_, sim, ch := newTestTerminal(t)

	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModAlt)

	events := collect(t, ch, 4)
	checkSequence(t, events, []string{
		"alt down",
		"x down",
		"x up",
		"alt up",
	})
}

func TestTerminal_SpecialKey(t *testing.T) {
	_, sim, ch := newTestTerminal(t)

	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	events := collect(t, ch, 2)
	checkSequence(t, events, []string{"escape down", "escape up"})
}

func TestTerminal_DetachStopsDelivery(t *testing.T) {
	src, sim, ch := newTestTerminal(t)

	if err := src.Detach(); err != nil {
		t.Fatalf("Detach() error = %v", err)
	}

	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)

	select {
	case ev := <-ch:
		t.Errorf("detached source delivered %v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestTerminal_AttachTwice(t *testing.T) {
	src, _, _ := newTestTerminal(t)

	if err := src.Attach(func(key.Event) {}); err != ErrAlreadyAttached {
		t.Errorf("second Attach() error = %v, want ErrAlreadyAttached", err)
	}
}

func TestTerminal_AttachAfterClose(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	src, err := NewTerminal(WithScreen(sim))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := src.Attach(func(key.Event) {}); err != ErrSourceClosed {
		t.Errorf("Attach() after Close error = %v, want ErrSourceClosed", err)
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name     string
		event    *tcell.EventKey
		wantName string
		wantMods []string
		wantOK   bool
	}{
		{
			name:     "plain rune",
			event:    tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone),
			wantName: "a",
			wantOK:   true,
		},
		{
			name:     "space rune",
			event:    tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone),
			wantName: "space",
			wantOK:   true,
		},
		{
			name:     "enter",
			event:    tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
			wantName: "enter",
			wantOK:   true,
		},
		{
			name:     "tab stays tab not ctrl-i",
			event:    tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone),
			wantName: "tab",
			wantOK:   true,
		},
		{
			name:     "ctrl letter",
			event:    tcell.NewEventKey(tcell.KeyCtrlA, rune(1), tcell.ModCtrl),
			wantName: "a",
			wantMods: []string{"control"},
			wantOK:   true,
		},
		{
			name:     "ctrl letter without mod flag",
			event:    tcell.NewEventKey(tcell.KeyCtrlZ, rune(26), tcell.ModNone),
			wantName: "z",
			wantMods: []string{"control"},
			wantOK:   true,
		},
		{
			name:     "function key",
			event:    tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone),
			wantName: "f5",
			wantOK:   true,
		},
		{
			name:     "page up",
			event:    tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone),
			wantName: "pageup",
			wantOK:   true,
		},
		{
			name:     "alt shift rune",
			event:    tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt|tcell.ModShift),
			wantName: "x",
			wantMods: []string{"alt", "shift"},
			wantOK:   true,
		},
		{
			name:   "unmapped key",
			event:  tcell.NewEventKey(tcell.KeyHelp, 0, tcell.ModNone),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, mods, ok := translateKey(tt.event)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if len(mods) != len(tt.wantMods) {
				t.Fatalf("mods = %v, want %v", mods, tt.wantMods)
			}
			for i := range mods {
				if mods[i] != tt.wantMods[i] {
					t.Errorf("mods[%d] = %q, want %q", i, mods[i], tt.wantMods[i])
				}
			}
		})
	}
}
