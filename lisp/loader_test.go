package lisp

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

func testFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, data := range files {
		if err := util.WriteFile(fs, name, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestLoader(t *testing.T) {
	l := New()
	if err := l.Load("(define r 10)"); err != nil {
		t.Fatal(err)
	}

	for i, tt := range []struct {
		input string
		want  string
	}{
		{
			input: "(* r r)",
			want:  "100",
		},
	} {
		got, err := l.Step(tt.input)
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
		}
		if got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestLoadForm(t *testing.T) {
	fs := testFS(t, map[string]string{
		"square.scm":  "(define square\n  (lambda (x)\n    (* x x)))\n",
		"lib/two.scm": "(begin (define one 1)\n       (define two (+ one 1)))",
		"both.scm":    "(define a 1)\n(define b 2)\n",
	})
	l := New(WithFilesystem(fs))
	for i, tt := range []struct {
		input string
		want  string
	}{
		{input: `(load "square.scm")`, want: "'done"},
		{input: "(square 5)", want: "25"},
		{input: "(load 'lib/two.scm)", want: "'done"},
		{input: "two", want: "2"},
	} {
		got, err := l.Step(tt.input)
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
	// two expressions are only allowed line by line
	if _, err := l.Step(`(load "both.scm")`); !errors.Is(err, ErrParse) {
		t.Errorf("got %v want a parse error", err)
	}
}

func TestLoadLines(t *testing.T) {
	fs := testFS(t, map[string]string{
		"prog.scm": "; counters\n(define a 1)\n\n(define b (+ a 1))\n(define inc (lambda (x) (+ x 1)))\n",
		"bad.scm":  "(define c 1)\n(nope)\n",
	})
	cfg := DefaultConfig()
	cfg.LoadMode = LoadLines
	l := New(WithFilesystem(fs), WithConfig(cfg))
	if err := l.LoadFile("prog.scm"); err != nil {
		t.Fatal(err)
	}
	if got, err := l.Step("(inc b)"); err != nil || got != "3" {
		t.Errorf("got %q, %v want 3", got, err)
	}
	err := l.LoadFile("bad.scm")
	if !errors.Is(err, ErrUnbound) {
		t.Errorf("got %v want an unbound symbol error", err)
	}
	// lines before the failing one stay evaluated
	if got, err := l.Step("c"); err != nil || got != "1" {
		t.Errorf("got %q, %v want 1", got, err)
	}
}

func TestLoadErrors(t *testing.T) {
	fs := testFS(t, map[string]string{
		"big.scm": "(define big 'aaaaaaaaaaaaaaaaaaaaaaaaa)",
	})
	cfg := DefaultConfig()
	cfg.MaxFile = 16
	l := New(WithFilesystem(fs), WithConfig(cfg))
	for i, tt := range []struct {
		input string
		want  error
	}{
		{input: `(load "missing.scm")`, want: ErrIO},
		{input: `(load "big.scm")`, want: ErrIO},
		{input: "(load +)", want: ErrType},
		{input: "(load nope)", want: ErrUnbound},
	} {
		_, err := l.Step(tt.input)
		if !errors.Is(err, tt.want) {
			t.Errorf("%d) %s: got %v want %v", i, tt.input, err, tt.want)
		}
	}
}

func TestLoadLinesLineLimit(t *testing.T) {
	fs := testFS(t, map[string]string{
		"long.scm": "(define a 1)\n(define b (+ 1 1 1 1 1 1 1 1))\n",
	})
	cfg := DefaultConfig()
	cfg.LoadMode = LoadLines
	cfg.MaxLine = 20
	l := New(WithFilesystem(fs), WithConfig(cfg))
	err := l.LoadFile("long.scm")
	if !errors.Is(err, ErrParse) || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("got %v want a parse error on line 2", err)
	}
	if got, err := l.Step("a"); err != nil || got != "1" {
		t.Errorf("got %q, %v want 1", got, err)
	}
}
