package lisp

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
)

type evaluator struct {
	heap   *heap
	parser Parser
	out    io.Writer
	fs     billy.Filesystem
	cfg    Config
}

// special forms and the lengths of the lists they accept, keyword included;
// max < 0 means no upper bound
var specialForms = map[string]struct{ min, max int }{
	"define":  {3, 3},
	"lambda":  {3, 3},
	"if":      {3, 4},
	"cond":    {2, -1},
	"begin":   {2, -1},
	"display": {2, 2},
	"load":    {2, 2},
}

func (ev *evaluator) evalEnv(env *Env, e *Expr) (Value, error) {
	if e == nil {
		return nil, arityErrorf("missing expression")
	}
	if e.IsWord() {
		return ev.evalWord(env, e.Word())
	}
	if e.IsEmptyList() {
		return nil, arityErrorf("cannot evaluate empty application ()")
	}
	ex, expanded, err := expandMacro(env, e)
	if err != nil {
		return nil, err
	}
	if expanded {
		return ev.evalEnv(env, ex)
	}
	head := e.Child(0)
	if head.IsWord() {
		s := head.Word()
		if form, ok := specialForms[s]; ok {
			n := e.Len()
			if n >= form.min && (form.max < 0 || n <= form.max) {
				switch s {
				case "define":
					return ev.evalDefine(env, e)
				case "lambda":
					return ev.evalLambda(env, e)
				case "if":
					return ev.evalIf(env, e)
				case "cond":
					return ev.evalCond(env, e)
				case "begin":
					return ev.evalBegin(env, e)
				case "display":
					return ev.evalDisplay(env, e)
				case "load":
					return ev.evalLoad(env, e)
				}
			}
			// a keyword bound as a procedure, like begin or display,
			// is still callable with other argument counts
			if _, bound := env.find(s); !bound {
				return nil, arityErrorf("malformed %s: %s", s, e)
			}
		}
	}
	return ev.evalApplication(env, e)
}

func (ev *evaluator) evalWord(env *Env, s string) (Value, error) {
	switch {
	case isNum(s):
		return Text(s), nil
	case isQuoted(s):
		return Text(unquote(s)), nil
	}
	v, ok := env.lookup(s)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnbound, s)
	}
	return v, nil
}

func checkSymbol(form string, e *Expr) error {
	switch {
	case !e.IsWord():
		return typeErrorf("%s: expected a symbol, got %s", form, e)
	case isNum(e.Word()), isQuoted(e.Word()):
		return typeErrorf("%s: cannot bind literal %s", form, e.Word())
	case utf8.RuneCountInString(e.Word()) > MaxSymbol:
		return typeErrorf("%s: symbol longer than %d characters: %s", form, MaxSymbol, e.Word())
	}
	return nil
}

func (ev *evaluator) evalDefine(env *Env, e *Expr) (Value, error) {
	sym := e.Child(1)
	if err := checkSymbol("define", sym); err != nil {
		return nil, err
	}
	v, err := ev.evalEnv(env, e.Child(2))
	if err != nil {
		return nil, err
	}
	env.Add(sym.Word(), v)
	return v, nil
}

func (ev *evaluator) evalLambda(env *Env, e *Expr) (Value, error) {
	params := e.Child(1)
	if !params.IsList() {
		return nil, typeErrorf("lambda: parameters must be a list, got %s", params)
	}
	for _, p := range params.Children() {
		if err := checkSymbol("lambda", p); err != nil {
			return nil, err
		}
	}
	return ev.heap.newClosure(env, params, e.Child(2)), nil
}

// test evaluates a predicate and lets go of its value.
func (ev *evaluator) test(env *Env, e *Expr) (bool, error) {
	v, err := ev.evalEnv(env, e)
	if err != nil {
		return false, err
	}
	truth := isTruthy(v)
	ev.heap.release(v)
	return truth, nil
}

func (ev *evaluator) evalIf(env *Env, e *Expr) (Value, error) {
	truth, err := ev.test(env, e.Child(1))
	if err != nil {
		return nil, err
	}
	if truth {
		return ev.evalEnv(env, e.Child(2))
	}
	if e.Len() == 3 {
		return empty, nil
	}
	return ev.evalEnv(env, e.Child(3))
}

func (ev *evaluator) evalCond(env *Env, e *Expr) (Value, error) {
	clauses := e.Children()[1:]
	for i, clause := range clauses {
		if clause.Len() != 2 {
			return nil, arityErrorf("cond: clause needs a test and one expression: %s", clause)
		}
		pred := clause.Child(0)
		if pred.IsWord() && pred.Word() == "else" {
			if i != len(clauses)-1 {
				return nil, arityErrorf("cond: misplaced else clause")
			}
			return ev.evalEnv(env, clause.Child(1))
		}
		truth, err := ev.test(env, pred)
		if err != nil {
			return nil, err
		}
		if truth {
			return ev.evalEnv(env, clause.Child(1))
		}
	}
	// no clause matched
	return empty, nil
}

func (ev *evaluator) evalBegin(env *Env, e *Expr) (Value, error) {
	var last Value
	for _, sub := range e.Children()[1:] {
		if last != nil {
			ev.heap.release(last)
		}
		v, err := ev.evalEnv(env, sub)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (ev *evaluator) evalDisplay(env *Env, e *Expr) (Value, error) {
	v, err := ev.evalEnv(env, e.Child(1))
	if err != nil {
		return nil, err
	}
	_, err = fmt.Fprint(ev.out, v.String())
	ev.heap.release(v)
	if err != nil {
		return nil, fmt.Errorf("%w: display: %v", ErrIO, err)
	}
	return empty, nil
}

// evalApplication evaluates operator and operands left to right and applies.
// Everything it evaluated is released afterwards, except the result.
func (ev *evaluator) evalApplication(env *Env, e *Expr) (Value, error) {
	op, err := ev.evalEnv(env, e.Child(0))
	if err != nil {
		return nil, err
	}
	proc, ok := op.(*Closure)
	if !ok {
		return nil, typeErrorf("attempt to apply non-procedure %s", op)
	}
	used := make([]Value, 1, e.Len())
	used[0] = proc
	ev.heap.pin(proc)
	for _, operand := range e.Children()[1:] {
		v, err := ev.evalEnv(env, operand)
		if err != nil {
			ev.releaseAll(nil, used)
			return nil, err
		}
		ev.heap.pin(v)
		used = append(used, v)
	}
	result, err := ev.apply(proc, used[1:])
	ev.releaseAll(result, used)
	return result, err
}

func (ev *evaluator) releaseAll(keep Value, vs []Value) {
	for _, v := range vs {
		ev.heap.unpin(v)
	}
	for _, v := range vs {
		if keep != nil && v == keep {
			continue
		}
		ev.heap.release(v)
	}
}

func (ev *evaluator) apply(proc *Closure, args []Value) (Value, error) {
	if proc.reclaimed {
		return nil, typeErrorf("procedure %d has been reclaimed", proc.id)
	}
	if proc.isPrimitive() {
		return proc.fn(ev, args)
	}
	params := proc.params.Children()
	if len(params) != len(args) {
		return nil, arityErrorf("%s expects %d arguments, got %d", proc, len(params), len(args))
	}
	frame := ev.heap.extend(proc.env)
	for i, p := range params {
		frame.Add(p.Word(), args[i])
	}
	return ev.evalEnv(frame, proc.body)
}
