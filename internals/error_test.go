package internals

import (
	"errors"
	"testing"
)

func TestErrorCollector(t *testing.T) {
	ec := NewErrorCollector()
	if !ec.Empty() || ec.Err() != nil {
		t.Fatal("new collector should be empty")
	}

	first := errors.New("first")
	second := errors.New("second")
	ec.Add(first)
	ec.Add(second)

	if ec.Empty() {
		t.Fatal("collector should not be empty")
	}
	if len(ec.Errors) != 2 || ec.Errors[0] != first || ec.Errors[1] != second {
		t.Errorf("errors not kept in order: %v", ec.Errors)
	}
	if err := ec.Err(); !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("joined error lost an entry: %v", err)
	}
}
