// Package promise drives the asynchronous side of tinta's evaluation
// model: scheduling the computation a Promise wraps and awaiting its
// settlement, per spec.md §4.7 and §5. The Promise value itself
// (state, Then/Catch) lives in core/value so the value model stays
// self-contained; this package supplies the executor that actually
// runs a scheduled computation exactly once and the Await primitive
// used by `espera` expressions.
//
// Per REDESIGN FLAGS (spec.md §9), a Promise is a future that is
// polled (awaited) once and caches its result — modeled here as a
// goroutine that computes the result exactly once and publishes it
// through the Promise's own monotonic Resolve/Reject transition.
package promise

import (
	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/value"
)

// Executor schedules asynchronous computations for `asinc` function
// calls and native async library calls (timers, file/network I/O).
// It carries no state of its own; every scheduled computation runs on
// its own goroutine, so computations may run concurrently with each
// other and with the caller, and no cooperative single-threaded
// ordering is imposed between them.
type Executor struct{}

// New returns an Executor.
func New() *Executor { return &Executor{} }

// Spawn runs fn on its own goroutine and returns a Promise that
// settles with its outcome. The returned Promise transitions
// Unresolved -> Resolved at most once, the instant fn returns.
func (e *Executor) Spawn(fn func() (value.Value, *cerr.Throw)) *value.Promise {
	p := value.NewPromise()
	go func() {
		v, err := fn()
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	}()
	return p
}

// Resolved returns an already-settled Promise wrapping v, used when a
// native function's result must look asynchronous (e.g. it returns a
// Promise per its library contract) but the value is available
// immediately.
func Resolved(v value.Value) *value.Promise {
	p := value.NewPromise()
	p.Resolve(v)
	return p
}

// Rejected returns an already-settled, rejected Promise.
func Rejected(err *cerr.Throw) *value.Promise {
	p := value.NewPromise()
	p.Reject(err)
	return p
}

// Await blocks the calling goroutine until p settles, returning its
// value or error. It is the implementation of `espera <promise>`: it
// attaches both a Then and a Catch continuation (FIFO per spec.md §5's
// ordering guarantee) and waits on a channel they both close.
func Await(p *value.Promise) (value.Value, *cerr.Throw) {
	done := make(chan struct{})
	var (
		resVal value.Value
		resErr *cerr.Throw
	)
	p.Then(func(v value.Value) (value.Value, *cerr.Throw) {
		resVal = v
		close(done)
		return v, nil
	})
	p.Catch(func(t *cerr.Throw) (value.Value, *cerr.Throw) {
		resErr = t
		close(done)
		return nil, t
	})
	<-done
	return resVal, resErr
}
