package source

import (
	"testing"

	"github.com/dshills/keyscope/internal/hotkey/key"
)

func recordEvents() (func(key.Event), *[]key.Event) {
	events := &[]key.Event{}
	return func(ev key.Event) {
		*events = append(*events, ev)
	}, events
}

func TestReplay_PressRelease(t *testing.T) {
	r := NewReplay()
	handler, events := recordEvents()

	if err := r.Attach(handler); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	r.Press("a")
	r.Release("a")

	if len(*events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(*events))
	}
	if (*events)[0].Kind != key.KeyDown || (*events)[0].Token() != "a" {
		t.Errorf("events[0] = %v, want a down", (*events)[0])
	}
	if (*events)[1].Kind != key.KeyUp || (*events)[1].Token() != "a" {
		t.Errorf("events[1] = %v, want a up", (*events)[1])
	}
}

func TestReplay_AttachTwice(t *testing.T) {
	r := NewReplay()
	handler, _ := recordEvents()

	if err := r.Attach(handler); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if err := r.Attach(handler); err != ErrAlreadyAttached {
		t.Errorf("second Attach() error = %v, want ErrAlreadyAttached", err)
	}
}

func TestReplay_DetachDropsEvents(t *testing.T) {
	r := NewReplay()
	handler, events := recordEvents()

	if err := r.Attach(handler); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if err := r.Detach(); err != nil {
		t.Fatalf("Detach() error = %v", err)
	}

	r.Tap("a")
	if len(*events) != 0 {
		t.Errorf("detached source delivered %d events", len(*events))
	}
	if r.Attached() {
		t.Error("Attached() = true after Detach")
	}
}

func TestReplay_Tap(t *testing.T) {
	r := NewReplay()
	handler, events := recordEvents()
	if err := r.Attach(handler); err != nil {
		t.Fatal(err)
	}

	r.Tap("g", "g")

	want := []struct {
		token string
		kind  key.EventKind
	}{
		{"g", key.KeyDown},
		{"g", key.KeyUp},
		{"g", key.KeyDown},
		{"g", key.KeyUp},
	}
	if len(*events) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(*events), len(want))
	}
	for i, w := range want {
		ev := (*events)[i]
		if ev.Token() != w.token || ev.Kind != w.kind {
			t.Errorf("events[%d] = %v, want %s %v", i, ev, w.token, w.kind)
		}
	}
}

func TestReplay_Chord(t *testing.T) {
	r := NewReplay()
	handler, events := recordEvents()
	if err := r.Attach(handler); err != nil {
		t.Fatal(err)
	}

	r.Chord("ctrl", "shift", "p")

	want := []struct {
		token string
		kind  key.EventKind
	}{
		{"control", key.KeyDown},
		{"shift", key.KeyDown},
		{"p", key.KeyDown},
		{"p", key.KeyUp},
		{"shift", key.KeyUp},
		{"control", key.KeyUp},
	}
	if len(*events) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(*events), len(want))
	}
	for i, w := range want {
		ev := (*events)[i]
		if ev.Token() != w.token || ev.Kind != w.kind {
			t.Errorf("events[%d] = %v, want %s %v", i, ev, w.token, w.kind)
		}
	}
}

func TestReplay_Hold(t *testing.T) {
	r := NewReplay()
	handler, events := recordEvents()
	if err := r.Attach(handler); err != nil {
		t.Fatal(err)
	}

	r.Press("a")
	r.Hold("a")

	if len(*events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(*events))
	}
	if (*events)[0].Repeat {
		t.Error("initial press marked as repeat")
	}
	if !(*events)[1].Repeat {
		t.Error("hold not marked as repeat")
	}
}
