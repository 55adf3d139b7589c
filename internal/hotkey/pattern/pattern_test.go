package pattern

import (
	"errors"
	"reflect"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want Pattern
	}{
		{"single key", "a", Pattern{"a"}},
		{"sequence", "a b", Pattern{"a", "b"}},
		{"combination sorted", "c+a", Pattern{"a+c"}},
		{"repeated combination", "a+b a+b", Pattern{"a+b", "a+b"}},
		{"aliases normalized", "Ctrl+S", Pattern{"control+s"}},
		{"esc alias", "ESC q", Pattern{"escape", "q"}},
		{"duplicate tokens collapse", "ctrl+ctrl+a", Pattern{"a+control"}},
		{"alias duplicates collapse", "ctrl+control+x", Pattern{"control+x"}},
		{"extra whitespace", "  a   b  ", Pattern{"a", "b"}},
		{"mixed sequence and combo", "ctrl+k d", Pattern{"control+k", "d"}},
		{"three token chord", "shift+ctrl+p", Pattern{"control+p+shift"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.spec)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.spec, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compile(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestCompileInvalid(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want error
	}{
		{"empty", "", ErrEmptyPattern},
		{"whitespace only", "   ", ErrEmptyPattern},
		{"double separator", "a++b", ErrEmptyStep},
		{"bare separator", "+", ErrEmptyStep},
		{"leading separator", "+a", ErrEmptyStep},
		{"trailing separator", "ctrl+", ErrEmptyStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.spec)
			if err == nil {
				t.Fatalf("Compile(%q) = %v, want error", tt.spec, got)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Compile(%q) error = %v, want %v", tt.spec, err, tt.want)
			}
			if !errors.Is(err, ErrInvalidPattern) {
				t.Errorf("Compile(%q) error = %v, does not unwrap to ErrInvalidPattern", tt.spec, err)
			}
		})
	}
}

func TestStepKeyIgnoresTokenOrder(t *testing.T) {
	orders := [][]string{
		{"a", "c", "b"},
		{"c", "a", "b"},
		{"b", "c", "a"},
	}

	want := "a+b+c"
	for _, tokens := range orders {
		if got := StepKey(tokens); got != want {
			t.Errorf("StepKey(%v) = %q, want %q", tokens, got, want)
		}
	}
}

func TestStepKey(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"empty", nil, ""},
		{"single", []string{"a"}, "a"},
		{"duplicates", []string{"a", "a", "b"}, "a+b"},
		{"already sorted", []string{"control", "s"}, "control+s"},
		{"reverse order", []string{"s", "control"}, "control+s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepKey(tt.tokens); got != tt.want {
				t.Errorf("StepKey(%v) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestPatternString(t *testing.T) {
	p, err := Compile("ctrl+s x")
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if got := p.String(); got != "control+s x" {
		t.Errorf("String() = %q, want %q", got, "control+s x")
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile(\"\") did not panic")
		}
	}()
	MustCompile("")
}
