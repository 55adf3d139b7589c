package scope

import (
	"reflect"
	"testing"
)

func TestRegistryLazyCreation(t *testing.T) {
	r := NewRegistry("")

	if _, ok := r.Lookup("global"); ok {
		t.Error("scope exists before first Get")
	}

	s := r.Get("global")
	if s == nil {
		t.Fatal("Get returned nil")
	}
	if again := r.Get("global"); again != s {
		t.Error("Get created a second scope for the same name")
	}
	if s.Name() != "global" {
		t.Errorf("Name() = %q, want %q", s.Name(), "global")
	}
}

func TestRegistryActiveScope(t *testing.T) {
	r := NewRegistry("")

	if r.Active() != DefaultScope {
		t.Errorf("Active() = %q, want %q", r.Active(), DefaultScope)
	}

	// Active scope that was never bound: no scope, no matches.
	if _, ok := r.ActiveScope(); ok {
		t.Error("ActiveScope() found a scope that was never created")
	}

	r.SetActive("modal")
	if r.Active() != "modal" {
		t.Errorf("Active() = %q, want %q", r.Active(), "modal")
	}

	r.Get("modal")
	s, ok := r.ActiveScope()
	if !ok {
		t.Fatal("ActiveScope() missing after Get")
	}
	if s.Name() != "modal" {
		t.Errorf("ActiveScope().Name() = %q, want %q", s.Name(), "modal")
	}
}

func TestRegistryInitialName(t *testing.T) {
	r := NewRegistry("app")
	if r.Active() != "app" {
		t.Errorf("Active() = %q, want %q", r.Active(), "app")
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry("")
	r.Get("modal")
	r.Get("global")
	r.Get("editor")

	want := []string{"editor", "global", "modal"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
