package lisp

import (
	"fmt"
	"math"
	"sort"
)

type primitiveFunc func(ev *evaluator, args []Value) (Value, error)

var builtins = map[string]primitiveFunc{
	"+":          add,
	"-":          sub,
	"*":          mul,
	"/":          div,
	"=":          eq,
	">":          compare(">", func(a, b float64) bool { return a > b }),
	"<":          compare("<", func(a, b float64) bool { return a < b }),
	">=":         compare(">=", func(a, b float64) bool { return a >= b }),
	"<=":         compare("<=", func(a, b float64) bool { return a <= b }),
	"mod":        mod,
	"not":        not,
	"number?":    isnumber,
	"procedure?": isprocedure,
	"begin":      begin,
	"display":    display,
	"newline":    newline,
}

// loadGlobals binds every primitive, resolved once here, plus #t and #f.
func (h *heap) loadGlobals() {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		h.global.Add(name, h.newPrimitive(name, builtins[name]))
	}
	h.global.Add("#t", True)
	h.global.Add("#f", False)
}

func exactly(name string, args []Value, n int) error {
	if len(args) != n {
		return arityErrorf("%s expects %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func atLeast(name string, args []Value, n int) error {
	if len(args) < n {
		return arityErrorf("%s expects at least %d arguments, got %d", name, n, len(args))
	}
	return nil
}

// fold combines all arguments left to right starting from seed.
func fold(name string, seed float64, args []Value, f func(acc, x float64) float64) (Value, error) {
	acc := seed
	for _, a := range args {
		x, err := mustNumber(name, a)
		if err != nil {
			return nil, err
		}
		acc = f(acc, x)
	}
	return Number(acc), nil
}

func add(ev *evaluator, args []Value) (Value, error) {
	return fold("+", 0, args, func(acc, x float64) float64 { return acc + x })
}

func mul(ev *evaluator, args []Value) (Value, error) {
	return fold("*", 1, args, func(acc, x float64) float64 { return acc * x })
}

func sub(ev *evaluator, args []Value) (Value, error) {
	if err := atLeast("-", args, 1); err != nil {
		return nil, err
	}
	first, err := mustNumber("-", args[0])
	if err != nil {
		return nil, err
	}
	return fold("-", first, args[1:], func(acc, x float64) float64 { return acc - x })
}

func div(ev *evaluator, args []Value) (Value, error) {
	if err := atLeast("/", args, 1); err != nil {
		return nil, err
	}
	first, err := mustNumber("/", args[0])
	if err != nil {
		return nil, err
	}
	return fold("/", first, args[1:], func(acc, x float64) float64 { return acc / x })
}

func mod(ev *evaluator, args []Value) (Value, error) {
	if err := exactly("mod", args, 2); err != nil {
		return nil, err
	}
	a, err := mustNumber("mod", args[0])
	if err != nil {
		return nil, err
	}
	b, err := mustNumber("mod", args[1])
	if err != nil {
		return nil, err
	}
	return Number(math.Mod(a, b)), nil
}

// equal compares procedures by identity, numbers by value
// and any other atoms as text.
func equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if pa, ok := a.(*Closure); ok {
		return pa == b.(*Closure)
	}
	fa, oka := number(a)
	fb, okb := number(b)
	if oka && okb {
		return fa == fb
	}
	return a.String() == b.String()
}

func eq(ev *evaluator, args []Value) (Value, error) {
	if err := atLeast("=", args, 1); err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		if !equal(args[0], a) {
			return False, nil
		}
	}
	return True, nil
}

// compare checks every argument against the first.
func compare(name string, holds func(a, b float64) bool) primitiveFunc {
	return func(ev *evaluator, args []Value) (Value, error) {
		if err := atLeast(name, args, 1); err != nil {
			return nil, err
		}
		first, err := mustNumber(name, args[0])
		if err != nil {
			return nil, err
		}
		for _, a := range args[1:] {
			x, err := mustNumber(name, a)
			if err != nil {
				return nil, err
			}
			if !holds(first, x) {
				return False, nil
			}
		}
		return True, nil
	}
}

func not(ev *evaluator, args []Value) (Value, error) {
	if err := exactly("not", args, 1); err != nil {
		return nil, err
	}
	return boolean(!isTruthy(args[0])), nil
}

func isnumber(ev *evaluator, args []Value) (Value, error) {
	if err := exactly("number?", args, 1); err != nil {
		return nil, err
	}
	_, ok := number(args[0])
	return boolean(ok), nil
}

func isprocedure(ev *evaluator, args []Value) (Value, error) {
	if err := exactly("procedure?", args, 1); err != nil {
		return nil, err
	}
	return boolean(args[0].Kind() == ProcedureKind), nil
}

func begin(ev *evaluator, args []Value) (Value, error) {
	if err := atLeast("begin", args, 1); err != nil {
		return nil, err
	}
	return args[len(args)-1], nil
}

func display(ev *evaluator, args []Value) (Value, error) {
	if err := exactly("display", args, 1); err != nil {
		return nil, err
	}
	if _, err := fmt.Fprint(ev.out, args[0].String()); err != nil {
		return nil, fmt.Errorf("%w: display: %v", ErrIO, err)
	}
	return empty, nil
}

func newline(ev *evaluator, args []Value) (Value, error) {
	if err := exactly("newline", args, 0); err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(ev.out); err != nil {
		return nil, fmt.Errorf("%w: newline: %v", ErrIO, err)
	}
	return empty, nil
}
