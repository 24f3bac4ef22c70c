package lisp

import (
	"fmt"
	"unicode"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// DefaultMaxWord bounds the length of a single token, in runes.
const DefaultMaxWord = 30

type parseState uint8

const (
	stateBegin parseState = iota
	stateOpenParen
	stateCloseParen
	stateProcName
	stateArg
	stateError
)

// Parser turns one line of source into an expression tree.
type Parser struct {
	MaxWord int
}

// Parse uses a Parser with the default word limit.
func Parse(program string) (*Expr, error) {
	return Parser{MaxWord: DefaultMaxWord}.Parse(program)
}

func mustParse(program string) *Expr {
	e, err := Parse(program)
	if err != nil {
		panic(err)
	}
	return e
}

// Parse reads a single expression. Input without any parens is a bare word:
// the first whitespace delimited token. On error no tree is returned.
func (p Parser) Parse(program string) (*Expr, error) {
	maxWord := p.MaxWord
	if maxWord <= 0 {
		maxWord = DefaultMaxWord
	}
	ps := &parser{maxWord: maxWord, branch: arraystack.New()}
	for i, r := range program {
		if err := ps.step(r); err != nil {
			ps.state = stateError
			return nil, fmt.Errorf("%w (offset %d)", err, i)
		}
	}
	return ps.finish()
}

type parser struct {
	maxWord int
	state   parseState
	layer   int
	root    *Expr
	// lists still open, innermost on top
	branch *arraystack.Stack
	buf    []rune
	// bare word input has seen its first token
	bare bool
	// top-level list has been closed
	closed bool
}

func (p *parser) step(r rune) error {
	space := unicode.IsSpace(r)
	if p.closed {
		switch {
		case space:
			return nil
		case r == ')':
			return parseErrorf("excess close paren")
		}
		return parseErrorf("unexpected %q after expression", r)
	}
	switch p.state {
	case stateBegin:
		switch {
		case r == '(':
			if len(p.buf) > 0 {
				return parseErrorf("unexpected '(' after %q", string(p.buf))
			}
			p.root = newList()
			p.branch.Push(p.root)
			p.layer++
			p.state = stateOpenParen
		case r == ')':
			return parseErrorf("premature close paren")
		case space:
			p.bare = len(p.buf) > 0
		case !p.bare:
			return p.appendRune(r)
		}
	case stateOpenParen, stateCloseParen:
		switch {
		case r == '(':
			p.branchUp()
		case r == ')':
			return p.branchDown()
		case space:
		default:
			if p.state == stateOpenParen {
				p.state = stateProcName
			} else {
				p.state = stateArg
			}
			return p.appendRune(r)
		}
	case stateProcName, stateArg:
		if !space && r != '(' && r != ')' {
			return p.appendRune(r)
		}
		p.flush()
		switch r {
		case '(':
			p.branchUp()
		case ')':
			return p.branchDown()
		default:
			p.state = stateArg
		}
	}
	return nil
}

func (p *parser) current() *Expr {
	top, _ := p.branch.Peek()
	return top.(*Expr)
}

func (p *parser) branchUp() {
	list := newList()
	p.current().add(list)
	p.branch.Push(list)
	p.layer++
	p.state = stateOpenParen
}

func (p *parser) branchDown() error {
	p.layer--
	if p.layer < 0 {
		return parseErrorf("premature close paren")
	}
	p.branch.Pop()
	if p.layer == 0 {
		p.closed = true
	}
	p.state = stateCloseParen
	return nil
}

func (p *parser) appendRune(r rune) error {
	if len(p.buf) >= p.maxWord {
		return parseErrorf("word longer than %d characters", p.maxWord)
	}
	p.buf = append(p.buf, r)
	return nil
}

func (p *parser) flush() {
	if len(p.buf) == 0 {
		return
	}
	p.current().add(newWord(string(p.buf)))
	p.buf = p.buf[:0]
}

func (p *parser) finish() (*Expr, error) {
	switch {
	case p.layer > 0:
		return nil, parseErrorf("missing close paren")
	case p.root != nil:
		return p.root, nil
	case len(p.buf) > 0:
		return newWord(string(p.buf)), nil
	}
	return nil, parseErrorf("empty input")
}
