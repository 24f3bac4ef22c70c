package lisp

// Derived forms are rewritten into core forms before evaluation.
// A binding of the same name shadows the rewrite.
var macros = map[string]transformer{
	"let": transformerLet,
	"and": transformerAnd,
}

type transformer = func(*Expr) (*Expr, error)

func expandMacro(env *Env, e *Expr) (*Expr, bool, error) {
	head := e.Child(0)
	if !head.IsWord() {
		return e, false, nil
	}
	tf, ok := macros[head.Word()]
	if !ok {
		return e, false, nil
	}
	if _, bound := env.find(head.Word()); bound {
		return e, false, nil
	}
	ex, err := tf(e)
	if err != nil {
		return nil, false, err
	}
	return ex, true, nil
}

// (let ((var exp) ...) body) => ((lambda (var ...) body) exp ...)
func transformerLet(e *Expr) (*Expr, error) {
	if e.Len() != 3 {
		return nil, arityErrorf("malformed let: %s", e)
	}
	bindings := e.Child(1)
	if !bindings.IsList() {
		return nil, typeErrorf("let: bindings must be a list, got %s", bindings)
	}
	vars := newList()
	call := newList(nil)
	for _, b := range bindings.Children() {
		if b.Len() != 2 {
			return nil, typeErrorf("let: binding must be (var exp), got %s", b)
		}
		vars.add(b.Child(0))
		call.add(b.Child(1))
	}
	call.children[0] = newList(newWord("lambda"), vars, e.Child(2))
	return call, nil
}

// (and) => #t, (and e) => e, (and e1 e2 ...) => (if e1 (and e2 ...) #f)
func transformerAnd(e *Expr) (*Expr, error) {
	args := e.Children()[1:]
	switch len(args) {
	case 0:
		return newWord(string(True)), nil
	case 1:
		return args[0], nil
	}
	rest := newList(append([]*Expr{newWord("and")}, args[1:]...)...)
	return newList(newWord("if"), args[0], rest, newWord(string(False))), nil
}
