package value

import "github.com/tinta-lang/tinta/core/cerr"

// Promise is either Unresolved (a scheduled asynchronous computation
// not yet run) or Resolved (carrying an Ok value or an Err throw). The
// transition Unresolved -> Resolved happens exactly once; runtime/promise
// owns actually driving that transition via an executor, this type only
// holds the terminal state and dispatches `then`/`catch` callbacks.
type Promise struct {
	baseValue
	resolved bool
	result   Value
	err      *cerr.Throw
	onSettle []func(Value, *cerr.Throw)
}

func NewPromise() *Promise {
	return &Promise{baseValue: baseValue{"promesa"}}
}

// Settled reports whether Resolve/Reject has already been called.
func (p *Promise) Settled() bool { return p.resolved }

// Resolve transitions the promise to Resolved with a success value.
// A second call is a no-op, matching the monotonic state transition in
// spec.md §4.7.
func (p *Promise) Resolve(v Value) {
	if p.resolved {
		return
	}
	p.resolved = true
	p.result = v
	for _, cb := range p.onSettle {
		cb(v, nil)
	}
	p.onSettle = nil
}

// Reject transitions the promise to Resolved with a failure.
func (p *Promise) Reject(err *cerr.Throw) {
	if p.resolved {
		return
	}
	p.resolved = true
	p.err = err
	for _, cb := range p.onSettle {
		cb(nil, err)
	}
	p.onSettle = nil
}

// onSettled registers cb to run once the promise settles, immediately
// if it already has.
func (p *Promise) onSettled(cb func(Value, *cerr.Throw)) {
	if p.resolved {
		cb(p.result, p.err)
		return
	}
	p.onSettle = append(p.onSettle, cb)
}

func (p *Promise) ToAgalConsole() string {
	if !p.resolved {
		return "Promesa { <pendiente> }"
	}
	if p.err != nil {
		return "Promesa { <rechazada>: " + p.err.Message + " }"
	}
	return "Promesa { " + p.result.ToAgalConsole() + " }"
}

func (p *Promise) ToAgalBoolean() bool { return true }

// Then schedules cb to run once the promise resolves successfully,
// returning a new Promise settling with cb's outcome. If the promise
// is already Rejected, the rejection passes through unchanged.
func (p *Promise) Then(cb func(Value) (Value, *cerr.Throw)) *Promise {
	next := NewPromise()
	p.onSettled(func(v Value, err *cerr.Throw) {
		if err != nil {
			next.Reject(err)
			return
		}
		result, cbErr := cb(v)
		if cbErr != nil {
			next.Reject(cbErr)
			return
		}
		next.Resolve(result)
	})
	return next
}

// Catch schedules cb to run once the promise rejects, returning a new
// Promise settling with cb's outcome. If the promise resolves
// successfully, that value passes through unchanged.
func (p *Promise) Catch(cb func(*cerr.Throw) (Value, *cerr.Throw)) *Promise {
	next := NewPromise()
	p.onSettled(func(v Value, err *cerr.Throw) {
		if err == nil {
			next.Resolve(v)
			return
		}
		result, cbErr := cb(err)
		if cbErr != nil {
			next.Reject(cbErr)
			return
		}
		next.Resolve(result)
	})
	return next
}

func (p *Promise) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	switch key {
	case "luego":
		return NewFunction("luego", func(this Value, args []Value) (Value, *cerr.Throw) {
			if len(args) == 0 {
				return nil, cerr.NewTypeError("luego requiere una función")
			}
			cbFn := args[0]
			return p.Then(func(v Value) (Value, *cerr.Throw) { return cbFn.Call(p, []Value{v}) }), nil
		}), nil
	case "atrapa":
		return NewFunction("atrapa", func(this Value, args []Value) (Value, *cerr.Throw) {
			if len(args) == 0 {
				return nil, cerr.NewTypeError("atrapa requiere una función")
			}
			cbFn := args[0]
			return p.Catch(func(t *cerr.Throw) (Value, *cerr.Throw) {
				return cbFn.Call(p, []Value{NewThrowValue(t)})
			}), nil
		}), nil
	}
	return instanceFallback(p, "promesa", key)
}
