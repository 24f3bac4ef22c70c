package lisp

import (
	"fmt"
	"strconv"
)

type Symbol = string

// MaxSymbol bounds the length of a bound symbol.
const MaxSymbol = 30

// ResultKind tells atoms from procedures.
type ResultKind uint8

const (
	AtomKind ResultKind = iota
	ProcedureKind
)

func (k ResultKind) String() string {
	if k == ProcedureKind {
		return "procedure"
	}
	return "atom"
}

// Value is the result of evaluation: Text, Number or *Closure.
type Value interface {
	Kind() ResultKind
	String() string
}

// Text is an atom as written: literals, quoted strings, #t and #f.
type Text string

func (t Text) Kind() ResultKind { return AtomKind }
func (t Text) String() string   { return string(t) }

// Number is an atom produced by arithmetic.
type Number float64

func (n Number) Kind() ResultKind { return AtomKind }
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

var (
	True  = Text("#t")
	False = Text("#f")
	empty = Text("")
)

func boolean(b bool) Text {
	if b {
		return True
	}
	return False
}

func isTruthy(v Value) bool {
	t, ok := v.(Text)
	return !ok || t != False
}

// isNum reports whether s is a signed decimal: an optional leading '-',
// at most one '.', and at least one digit.
func isNum(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			dots++
			if dots > 1 {
				return false
			}
		case c >= '0' && c <= '9':
			digits++
		default:
			return false
		}
	}
	return digits > 0
}

func isQuoted(s string) bool {
	return len(s) > 0 && (s[0] == '\'' || s[0] == '"')
}

func unquote(s string) string {
	if s[0] == '"' {
		s = s[1:]
		if len(s) > 0 && s[len(s)-1] == '"' {
			s = s[:len(s)-1]
		}
		return s
	}
	return s[1:]
}

// number reads an atom as a float, if it is one.
func number(v Value) (float64, bool) {
	switch x := v.(type) {
	case Number:
		return float64(x), true
	case Text:
		if !isNum(string(x)) {
			return 0, false
		}
		f, err := strconv.ParseFloat(string(x), 64)
		return f, err == nil
	}
	return 0, false
}

func mustNumber(name string, v Value) (float64, error) {
	f, ok := number(v)
	if !ok {
		return 0, typeErrorf("%s: not a number: %s", name, v)
	}
	return f, nil
}

// Closure pairs parameters and a body with the frame it was created in.
// A primitive has no body; its name identifies it and fn implements it.
type Closure struct {
	id     uint64
	env    *Env
	params *Expr
	body   *Expr
	name   string
	fn     primitiveFunc
	// number of live bindings pointing at this closure
	refs int
	// applications still using the closure
	pins      int
	reclaimed bool
}

func (c *Closure) Kind() ResultKind { return ProcedureKind }

func (c *Closure) String() string {
	switch {
	case c.reclaimed:
		return fmt.Sprintf("#<procedure %d reclaimed>", c.id)
	case c.isPrimitive():
		return fmt.Sprintf("#<primitive %s>", c.name)
	}
	return fmt.Sprintf("#<procedure %d %s %s>", c.id, c.params, c.body)
}

func (c *Closure) isPrimitive() bool {
	return c.fn != nil
}

// Refs is the number of bindings currently holding the closure.
func (c *Closure) Refs() int {
	return c.refs
}

func (c *Closure) Reclaimed() bool {
	return c.reclaimed
}
