package object

import (
	"fmt"
	"strconv"
	"strings"
)

type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	REAL_OBJ    = "REAL"
)

// Object is a runtime value, one of *Integer and *Real.
type Object interface {
	Type() ObjectType
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

type Real struct {
	Value float64
}

func (r *Real) Type() ObjectType { return REAL_OBJ }
func (r *Real) Inspect() string {
	s := strconv.FormatFloat(r.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Float returns the value of a numeric object as float64.
func Float(obj Object) (float64, bool) {
	switch o := obj.(type) {
	case *Integer:
		return float64(o.Value), true
	case *Real:
		return o.Value, true
	}
	return 0, false
}
