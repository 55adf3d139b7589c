package app

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		wantVerb string
		wantArg  string
		wantErr  error
	}{
		{name: "scope switch", action: "scope:editor", wantVerb: "scope", wantArg: "editor"},
		{name: "bare verb", action: "quit", wantVerb: "quit", wantArg: ""},
		{name: "arg with spaces", action: "run:notify-send hi", wantVerb: "run", wantArg: "notify-send hi"},
		{name: "arg with colon", action: "lua:deploy.lua:on_press", wantVerb: "lua", wantArg: "deploy.lua:on_press"},
		{name: "surrounding whitespace", action: "  emit:x  ", wantVerb: "emit", wantArg: "x"},
		{name: "empty", action: "", wantErr: ErrEmptyAction},
		{name: "blank", action: "   ", wantErr: ErrEmptyAction},
		{name: "no verb", action: ":editor", wantErr: ErrEmptyAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verb, arg, err := ParseAction(tt.action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAction(%q) error = %v", tt.action, err)
			}
			if verb != tt.wantVerb || arg != tt.wantArg {
				t.Errorf("ParseAction(%q) = (%q, %q), want (%q, %q)",
					tt.action, verb, arg, tt.wantVerb, tt.wantArg)
			}
		})
	}
}

func TestActionRegistry_Execute(t *testing.T) {
	r := NewActionRegistry()

	var got string
	r.Register("greet", func(_ context.Context, arg string) error {
		got = arg
		return nil
	})

	if err := r.Execute(context.Background(), "greet:world"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "world" {
		t.Errorf("arg = %q, want %q", got, "world")
	}
}

func TestActionRegistry_ExecuteUnknownVerb(t *testing.T) {
	r := NewActionRegistry()

	err := r.Execute(context.Background(), "bogus:x")
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Execute() error = %v, want ErrUnknownAction", err)
	}
}

func TestActionRegistry_ExecutePropagatesError(t *testing.T) {
	r := NewActionRegistry()

	want := errors.New("boom")
	r.Register("fail", func(context.Context, string) error { return want })

	if err := r.Execute(context.Background(), "fail"); !errors.Is(err, want) {
		t.Errorf("Execute() error = %v, want %v", err, want)
	}
}

func TestActionRegistry_Check(t *testing.T) {
	r := NewActionRegistry()
	r.Register("scope", func(context.Context, string) error { return nil })

	if err := r.Check("scope:editor"); err != nil {
		t.Errorf("Check(known) error = %v", err)
	}
	if err := r.Check("bogus:x"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Check(unknown) error = %v, want ErrUnknownAction", err)
	}
	if err := r.Check(""); !errors.Is(err, ErrEmptyAction) {
		t.Errorf("Check(empty) error = %v, want ErrEmptyAction", err)
	}
}

func TestActionRegistry_Verbs(t *testing.T) {
	r := NewActionRegistry()
	noop := func(context.Context, string) error { return nil }
	r.Register("run", noop)
	r.Register("emit", noop)
	r.Register("scope", noop)

	want := []string{"emit", "run", "scope"}
	if got := r.Verbs(); !reflect.DeepEqual(got, want) {
		t.Errorf("Verbs() = %v, want %v", got, want)
	}
}

func TestActionRegistry_Unregister(t *testing.T) {
	r := NewActionRegistry()
	r.Register("emit", func(context.Context, string) error { return nil })
	r.Unregister("emit")

	if r.Has("emit") {
		t.Error("Has() = true after Unregister")
	}
}
