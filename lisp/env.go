package lisp

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Env is one frame of bindings. outer is the frame the running procedure
// was defined in, not the one it was called from.
type Env struct {
	id       uint64
	bindings *linkedhashmap.Map
	outer    *Env
	heap     *heap
	// bound closures whose defining frame is this one
	anchored int
	freed    bool
}

func (e *Env) find(s Symbol) (*Env, bool) {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.bindings.Get(s); ok {
			return env, true
		}
	}
	return nil, false
}

func (e *Env) lookup(s Symbol) (Value, bool) {
	env, ok := e.find(s)
	if !ok {
		return nil, false
	}
	v, _ := env.bindings.Get(s)
	return v.(Value), true
}

// Add binds s in this frame only, replacing and releasing any earlier
// binding of s here. Outer frames are shadowed, not touched.
func (e *Env) Add(s Symbol, v Value) {
	// bind before unbinding so (define f f) never drops f to zero
	e.heap.bind(v)
	old, ok := e.bindings.Get(s)
	if ok {
		e.bindings.Remove(s)
	}
	e.bindings.Put(s, v)
	if ok {
		e.heap.unbind(old.(Value))
	}
}

// Symbols lists the bindings of this frame in the order they were made.
func (e *Env) Symbols() []Symbol {
	keys := e.bindings.Keys()
	syms := make([]Symbol, len(keys))
	for i, k := range keys {
		syms[i] = k.(Symbol)
	}
	return syms
}

// Anchored is the number of bound closures defined in this frame.
func (e *Env) Anchored() int {
	return e.anchored
}

func (e *Env) isGlobal() bool {
	return e.outer == nil
}

func (e *Env) clear() {
	values := e.bindings.Values()
	e.bindings.Clear()
	for _, v := range values {
		e.heap.unbind(v.(Value))
	}
}
