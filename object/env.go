package object

import (
	"errors"
	"fmt"
)

var ErrAlreadyBound = errors.New("name already bound")

// Environment is the flat global store of the interpreter. Bindings keep
// the order in which names were first bound.
type Environment struct {
	order []string
	store map[string]Object
}

func NewEnvironment() *Environment {
	return &Environment{
		store: make(map[string]Object),
	}
}

func (e *Environment) Resolve(name string) (Object, bool) {
	obj, ok := e.store[name]
	return obj, ok
}

// Define binds name only if there's no value already bound to it.
func (e *Environment) Define(name string, val Object) error {
	if _, ok := e.store[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyBound, name)
	}
	e.order = append(e.order, name)
	e.store[name] = val
	return nil
}

// Set binds name, replacing any previous value while keeping its position.
func (e *Environment) Set(name string, val Object) {
	if _, ok := e.store[name]; !ok {
		e.order = append(e.order, name)
	}
	e.store[name] = val
}

// Names returns the bound names in binding order.
func (e *Environment) Names() []string {
	return append([]string(nil), e.order...)
}

func (e *Environment) Len() int { return len(e.order) }
