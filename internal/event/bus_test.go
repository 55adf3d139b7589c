package event

import (
	"testing"
)

func TestPublishSubscribe(t *testing.T) {
	b := NewBus()

	var got []Event
	sub, err := b.Subscribe(TopicMatchFired, func(e Event) { got = append(got, e) })
	if err != nil {
		t.Fatalf("Subscribe error = %v", err)
	}

	b.Publish(TopicMatchFired, MatchFired{Scope: "global", Pattern: "a b"})
	b.Publish(TopicScopeChanged, ScopeChanged{From: "global", To: "modal"})

	if len(got) != 1 {
		t.Fatalf("delivered = %d events, want 1", len(got))
	}
	data, ok := got[0].Data.(MatchFired)
	if !ok {
		t.Fatalf("Data type = %T, want MatchFired", got[0].Data)
	}
	if data.Pattern != "a b" {
		t.Errorf("Pattern = %q, want %q", data.Pattern, "a b")
	}
	if got[0].ID == "" {
		t.Error("event ID is empty")
	}
	if got[0].Time.IsZero() {
		t.Error("event Time is zero")
	}

	b.Unsubscribe(sub)
	b.Publish(TopicMatchFired, MatchFired{})
	if len(got) != 1 {
		t.Errorf("delivered = %d events after Unsubscribe, want 1", len(got))
	}
}

func TestSubscribeValidation(t *testing.T) {
	b := NewBus()

	if _, err := b.Subscribe(TopicMatchFired, nil); err != ErrNilHandler {
		t.Errorf("Subscribe(nil) error = %v, want ErrNilHandler", err)
	}
	if _, err := b.Subscribe("", func(Event) {}); err != ErrInvalidTopic {
		t.Errorf("Subscribe(\"\") error = %v, want ErrInvalidTopic", err)
	}
}

func TestHandlerPanicIsolated(t *testing.T) {
	var recovered any
	b := NewBus(WithPanicHandler(func(_ Event, r any) { recovered = r }))

	if _, err := b.Subscribe(TopicUserEmit, func(Event) { panic("bad handler") }); err != nil {
		t.Fatalf("Subscribe error = %v", err)
	}
	var calls int
	if _, err := b.Subscribe(TopicUserEmit, func(Event) { calls++ }); err != nil {
		t.Fatalf("Subscribe error = %v", err)
	}

	b.Publish(TopicUserEmit, UserEmit{Text: "hello"})

	if recovered != "bad handler" {
		t.Errorf("recovered = %v, want %q", recovered, "bad handler")
	}
	if calls != 1 {
		t.Errorf("second handler calls = %d, want 1", calls)
	}

	stats := b.Stats()
	if stats.HandlerPanics != 1 {
		t.Errorf("HandlerPanics = %d, want 1", stats.HandlerPanics)
	}
	if stats.Delivered != 1 {
		t.Errorf("Delivered = %d, want 1", stats.Delivered)
	}
}

func TestStatsCounters(t *testing.T) {
	b := NewBus()

	if _, err := b.Subscribe(TopicConfigReloaded, func(Event) {}); err != nil {
		t.Fatalf("Subscribe error = %v", err)
	}

	b.Publish(TopicConfigReloaded, ConfigReloaded{Path: "a.toml", Bindings: 3})
	b.Publish(TopicConfigReloaded, ConfigReloaded{Path: "a.toml", Bindings: 4})
	b.Publish(TopicUserEmit, UserEmit{}) // no subscribers

	stats := b.Stats()
	if stats.Published != 3 {
		t.Errorf("Published = %d, want 3", stats.Published)
	}
	if stats.Delivered != 2 {
		t.Errorf("Delivered = %d, want 2", stats.Delivered)
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateID()
		if len(id) != 32 {
			t.Fatalf("id length = %d, want 32", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
