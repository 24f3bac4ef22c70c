package lisp

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/schuko/tracing"
)

// Stats counts every closure and frame the interpreter created and freed.
type Stats struct {
	ClosuresAllocated int
	ClosuresFreed     int
	FramesAllocated   int
	FramesFreed       int
}

func (s Stats) LiveClosures() int {
	return s.ClosuresAllocated - s.ClosuresFreed
}

func (s Stats) LiveFrames() int {
	return s.FramesAllocated - s.FramesFreed
}

// heap owns closure and frame lifetimes.
//
// A closure points at its defining frame, and a frame reaches closures only
// through its bindings. Frames are kept alive by the anchor count of bound
// closures defined in them, never by the closures they happen to hold, so
// there are no reference cycles to break.
type heap struct {
	global *Env
	// every frame but the global one, oldest first
	frames []*Env
	nextID uint64
	stats  Stats
	// reclamation is traced at debug level
	tr tracing.Trace
}

func newHeap(tr tracing.Trace) *heap {
	h := &heap{tr: tr}
	h.global = h.newFrame(nil)
	return h
}

func (h *heap) newFrame(outer *Env) *Env {
	h.nextID++
	h.stats.FramesAllocated++
	return &Env{id: h.nextID, bindings: linkedhashmap.New(), outer: outer, heap: h}
}

// extend opens the frame for one procedure call.
func (h *heap) extend(outer *Env) *Env {
	f := h.newFrame(outer)
	h.frames = append(h.frames, f)
	return f
}

func (h *heap) newClosure(env *Env, params, body *Expr) *Closure {
	h.nextID++
	h.stats.ClosuresAllocated++
	return &Closure{id: h.nextID, env: env, params: params.Copy(), body: body.Copy()}
}

func (h *heap) newPrimitive(name string, fn primitiveFunc) *Closure {
	h.nextID++
	h.stats.ClosuresAllocated++
	return &Closure{id: h.nextID, env: h.global, name: name, fn: fn}
}

func (h *heap) bind(v Value) {
	c, ok := v.(*Closure)
	if !ok {
		return
	}
	c.refs++
	c.env.anchored++
}

func (h *heap) unbind(v Value) {
	c, ok := v.(*Closure)
	if !ok {
		return
	}
	c.refs--
	c.env.anchored--
	if c.refs < 0 || c.env.anchored < 0 {
		panic("lisp: closure unbound more often than bound")
	}
	h.release(c)
}

// pin keeps a closure alive while an application still needs it,
// without counting as a binding.
func (h *heap) pin(v Value) {
	if c, ok := v.(*Closure); ok {
		c.pins++
	}
}

func (h *heap) unpin(v Value) {
	if c, ok := v.(*Closure); ok {
		c.pins--
	}
}

// release reclaims v if nothing binds or pins it anymore.
// Atoms need no work.
func (h *heap) release(v Value) {
	c, ok := v.(*Closure)
	if !ok || c.refs > 0 || c.pins > 0 || c.reclaimed {
		return
	}
	c.reclaimed = true
	c.params, c.body = nil, nil
	h.stats.ClosuresFreed++
	h.tr.Debugf("reclaimed procedure %d", c.id)
}

// sweep frees every frame that anchors no bound closure and is not on the
// lexical chain of one that does. Freeing a frame releases its bindings,
// which can lower anchor counts elsewhere, so it runs until nothing changes.
// Only call it between top-level evaluations: frames of running calls
// anchor nothing and would be freed.
func (h *heap) sweep() int {
	total := 0
	for {
		keep := map[*Env]bool{}
		for _, f := range h.frames {
			if f.anchored == 0 {
				continue
			}
			for e := f; e != nil && !e.isGlobal() && !keep[e]; e = e.outer {
				keep[e] = true
			}
		}
		var live, dead []*Env
		for _, f := range h.frames {
			if keep[f] {
				live = append(live, f)
				continue
			}
			dead = append(dead, f)
		}
		if len(dead) == 0 {
			break
		}
		h.frames = live
		for _, f := range dead {
			h.free(f)
		}
		total += len(dead)
	}
	if total > 0 {
		h.tr.Debugf("swept %d frames, %d left", total, len(h.frames))
	}
	return total
}

func (h *heap) free(f *Env) {
	if f.freed {
		return
	}
	f.freed = true
	f.clear()
	h.stats.FramesFreed++
}

// close frees everything, the global frame included.
func (h *heap) close() {
	for i := len(h.frames) - 1; i >= 0; i-- {
		h.free(h.frames[i])
	}
	h.frames = nil
	h.free(h.global)
}
