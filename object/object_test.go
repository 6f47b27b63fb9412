package object

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		obj      Object
		expected string
	}{
		{&Integer{Value: 25}, "25"},
		{&Integer{Value: -3}, "-3"},
		{&Real{Value: 2}, "2.0"},
		{&Real{Value: 5.14}, "5.14"},
		{&Real{Value: 1e21}, "1e+21"},
	}

	for _, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestEnvironment(t *testing.T) {
	env := NewEnvironment()

	if err := env.Define("b", &Integer{Value: 1}); err != nil {
		t.Fatal(err)
	}
	if err := env.Define("a", &Integer{Value: 2}); err != nil {
		t.Fatal(err)
	}
	if err := env.Define("b", &Integer{Value: 3}); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("expected ErrAlreadyBound, got %v", err)
	}

	env.Set("b", &Real{Value: 4.5})
	env.Set("c", &Integer{Value: 5})

	if diff := deep.Equal(env.Names(), []string{"b", "a", "c"}); diff != nil {
		t.Error(diff)
	}

	b, ok := env.Resolve("b")
	if !ok {
		t.Fatal("b not bound")
	}
	if diff := deep.Equal(b, Object(&Real{Value: 4.5})); diff != nil {
		t.Error(diff)
	}

	if _, ok := env.Resolve("missing"); ok {
		t.Error("unexpected binding")
	}
	if env.Len() != 3 {
		t.Errorf("expected 3 bindings, got %d", env.Len())
	}
}
