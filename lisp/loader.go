package lisp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5/util"
)

// (load filename) evaluates a file in the current frame and returns 'done.
func (ev *evaluator) evalLoad(env *Env, e *Expr) (Value, error) {
	v, err := ev.evalEnv(env, e.Child(1))
	if err != nil {
		return nil, err
	}
	if v.Kind() != AtomKind {
		ev.heap.release(v)
		return nil, typeErrorf("load: file name must be an atom, got %s", v)
	}
	src, err := ev.readFile(v.String())
	if err != nil {
		return nil, err
	}
	if err := ev.loadSource(env, src); err != nil {
		return nil, err
	}
	return Text("'done"), nil
}

func (ev *evaluator) readFile(name string) (string, error) {
	if ev.fs == nil {
		return "", fmt.Errorf("%w: load: no filesystem", ErrIO)
	}
	fi, err := ev.fs.Stat(name)
	if err != nil {
		return "", fmt.Errorf("%w: load: %v", ErrIO, err)
	}
	if fi.Size() > ev.cfg.MaxFile {
		return "", fmt.Errorf("%w: load: %s is %d bytes, limit is %d", ErrIO, name, fi.Size(), ev.cfg.MaxFile)
	}
	b, err := util.ReadFile(ev.fs, name)
	if err != nil {
		return "", fmt.Errorf("%w: load: %v", ErrIO, err)
	}
	return string(b), nil
}

// loadSource evaluates source text according to the load mode,
// releasing every result.
func (ev *evaluator) loadSource(env *Env, src string) error {
	if ev.cfg.LoadMode != LoadLines {
		return ev.evalSource(env, src)
	}
	for i, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if err := ev.checkLine(line); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := ev.evalSource(env, line); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

func (ev *evaluator) evalSource(env *Env, src string) error {
	e, err := ev.parser.Parse(src)
	if err != nil {
		return err
	}
	v, err := ev.evalEnv(env, e)
	if err != nil {
		return err
	}
	ev.heap.release(v)
	return nil
}

// checkLine bounds a single line of input, typed or loaded line by line.
func (ev *evaluator) checkLine(line string) error {
	if n := utf8.RuneCountInString(line); n > ev.cfg.MaxLine {
		return parseErrorf("line is %d characters, limit is %d", n, ev.cfg.MaxLine)
	}
	return nil
}
