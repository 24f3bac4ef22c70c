package lisp

import "strings"

// Expr is a node of a parsed expression tree.
// A word has text and no children, a list has children and no text.
// A list without children is the empty list ().
type Expr struct {
	word     string
	isWord   bool
	children []*Expr
}

func newWord(s string) *Expr {
	return &Expr{word: s, isWord: true}
}

func newList(children ...*Expr) *Expr {
	return &Expr{children: children}
}

func (e *Expr) IsWord() bool {
	return e != nil && e.isWord
}

func (e *Expr) IsList() bool {
	return e != nil && !e.isWord
}

func (e *Expr) IsEmptyList() bool {
	return e.IsList() && len(e.children) == 0
}

// Word returns the text of a word, or the empty string for a list.
func (e *Expr) Word() string {
	if !e.IsWord() {
		return ""
	}
	return e.word
}

// Len is the number of sub-expressions of a list, -1 for a word.
func (e *Expr) Len() int {
	if !e.IsList() {
		return -1
	}
	return len(e.children)
}

func (e *Expr) Child(i int) *Expr {
	if !e.IsList() || i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

func (e *Expr) Children() []*Expr {
	if !e.IsList() {
		return nil
	}
	return e.children
}

func (e *Expr) add(child *Expr) {
	e.children = append(e.children, child)
}

// Copy duplicates the whole tree. Closures keep copies of their
// parameters and body so they outlive the line they were parsed from.
func (e *Expr) Copy() *Expr {
	if e == nil {
		return nil
	}
	if e.isWord {
		return newWord(e.word)
	}
	c := &Expr{children: make([]*Expr, len(e.children))}
	for i, child := range e.children {
		c.children[i] = child.Copy()
	}
	return c
}

func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	if e.isWord {
		b.WriteString(e.word)
		return
	}
	b.WriteByte('(')
	for i, child := range e.children {
		if i > 0 {
			b.WriteByte(' ')
		}
		child.write(b)
	}
	b.WriteByte(')')
}
