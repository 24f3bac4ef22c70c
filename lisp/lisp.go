package lisp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// Lisp is an interpreter with its global frame.
type Lisp struct {
	Env *Env
	ev  *evaluator
	tr  tracing.Trace
}

type Option func(*Lisp)

// WithConfig replaces DefaultConfig. The config is not validated here.
func WithConfig(cfg Config) Option {
	return func(l *Lisp) { l.ev.cfg = cfg }
}

// WithOutput sets where display and newline write. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(l *Lisp) { l.ev.out = w }
}

// WithFilesystem sets where load reads files from.
// Defaults to the working directory.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(l *Lisp) { l.ev.fs = fs }
}

// WithTracer receives reclamation traces. New sets its level from
// Config.Trace: debug when tracing, errors only otherwise.
func WithTracer(tr tracing.Trace) Option {
	return func(l *Lisp) { l.tr = tr }
}

func New(opts ...Option) *Lisp {
	l := &Lisp{
		ev: &evaluator{out: os.Stdout, cfg: DefaultConfig()},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.ev.fs == nil {
		l.ev.fs = osfs.New(".")
	}
	if l.tr == nil {
		l.tr = gologadapter.New()
		l.tr.SetOutput(io.Discard)
	}
	if l.ev.cfg.Trace {
		l.tr.SetTraceLevel(tracing.LevelDebug)
	} else {
		l.tr.SetTraceLevel(tracing.LevelError)
	}
	l.ev.parser = Parser{MaxWord: l.ev.cfg.MaxWord}
	l.ev.heap = newHeap(l.tr)
	l.ev.heap.loadGlobals()
	l.Env = l.ev.heap.global
	return l
}

// Eval parses and evaluates one expression in the global frame.
// The caller owns the result and must Release it before the next Sweep.
func (l *Lisp) Eval(input string) (Value, error) {
	e, err := l.ev.parser.Parse(input)
	if err != nil {
		return nil, err
	}
	return l.EvalExpr(e)
}

func (l *Lisp) EvalExpr(e *Expr) (Value, error) {
	return l.ev.evalEnv(l.Env, e)
}

// Release drops a result nobody bound, reclaiming it if it is
// an unbound procedure.
func (l *Lisp) Release(v Value) {
	if v != nil {
		l.ev.heap.release(v)
	}
}

// Sweep frees call frames no bound procedure depends on anymore
// and returns how many it freed.
func (l *Lisp) Sweep() int {
	return l.ev.heap.sweep()
}

// Step is one read-eval-print iteration: it evaluates a line, renders
// the result, releases it and sweeps. Frames are swept on error too.
func (l *Lisp) Step(line string) (string, error) {
	if err := l.ev.checkLine(line); err != nil {
		return "", err
	}
	defer l.Sweep()
	v, err := l.Eval(line)
	if err != nil {
		return "", err
	}
	out := v.String()
	l.Release(v)
	return out, nil
}

// Load evaluates source text the way the load form evaluates a file.
func (l *Lisp) Load(data string) error {
	defer l.Sweep()
	return l.ev.loadSource(l.Env, data)
}

// LoadFile is (load "name") without going through the parser.
func (l *Lisp) LoadFile(name string) error {
	defer l.Sweep()
	src, err := l.ev.readFile(name)
	if err != nil {
		return err
	}
	if err := l.ev.loadSource(l.Env, src); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Lookup finds a global binding. Procedures are shared, not copied.
func (l *Lisp) Lookup(s Symbol) (Value, bool) {
	return l.Env.lookup(s)
}

func (l *Lisp) Stats() Stats {
	return l.ev.heap.stats
}

// Frames is the number of call frames still alive.
func (l *Lisp) Frames() int {
	return len(l.ev.heap.frames)
}

// Dump writes every frame and its bindings, global frame first.
func (l *Lisp) Dump(w io.Writer) {
	frames := append([]*Env{l.Env}, l.ev.heap.frames...)
	for _, f := range frames {
		fmt.Fprintf(w, "frame %d (anchors %d)\n", f.id, f.anchored)
		syms := f.Symbols()
		if len(syms) == 0 {
			fmt.Fprintln(w, "  [empty]")
		}
		for _, s := range syms {
			v, _ := f.bindings.Get(s)
			fmt.Fprintf(w, "  %s -> %s\n", s, strings.TrimSpace(v.(Value).String()))
		}
	}
}

// Close frees every frame and closure. The interpreter is unusable afterwards.
func (l *Lisp) Close() {
	l.ev.heap.close()
}
