package lisp

import (
	"errors"
	"fmt"
)

var (
	ErrParse   = errors.New("parse error")
	ErrUnbound = errors.New("unbound symbol")
	ErrArity   = errors.New("wrong number of arguments")
	ErrType    = errors.New("wrong type")
	ErrIO      = errors.New("io error")
)

func parseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

func arityErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrArity, fmt.Sprintf(format, args...))
}

func typeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrType, fmt.Sprintf(format, args...))
}
