package internals

import "errors"

// This file handles an error collector obj, used by passes that keep going
// after recording an error instead of stopping at the first one.

type ErrorCollector struct {
	Errors []error
}

func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		Errors: make([]error, 0),
	}
}

func (ec *ErrorCollector) Add(err error) {
	ec.Errors = append(ec.Errors, err)
}

func (ec *ErrorCollector) Empty() bool {
	return len(ec.Errors) == 0
}

// Err joins every collected error, nil when nothing was collected.
func (ec *ErrorCollector) Err() error {
	return errors.Join(ec.Errors...)
}
