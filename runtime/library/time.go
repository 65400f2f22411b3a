package library

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/value"
	"github.com/tinta-lang/tinta/runtime/promise"
)

// durationUnits gives the suffix→multiplier table "dormir" accepts, in
// the descending order a literal like "1h30m" must be written in.
// parseSleepDuration takes the longest suffix that matches, so "ms" wins
// over "m" regardless of table order.
var durationUnits = []struct {
	suffix string
	scale  time.Duration
}{
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"us", time.Microsecond},
	{"ns", time.Nanosecond},
}

// parseSleepDuration parses a "1h30m45s"-style literal into a
// time.Duration: one or more digit runs each followed by a unit
// suffix, units appearing at most once and in descending order.
// Grounded on the teacher's own duration grammar (core/types/duration.go
// in the retrieval pack), trimmed here to just what `dormir` needs —
// no Add/Sub/Compare/normalize surface, since nothing in tinta stores
// or arithmetic-combines a duration value.
func parseSleepDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("duración vacía")
	}
	var total time.Duration
	lastUnit := -1
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return 0, fmt.Errorf("se esperaba un número en la posición %d de %q", i, s)
		}
		n, err := strconv.ParseInt(s[start:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("número fuera de rango en %q: %w", s, err)
		}

		matched, matchedLen := -1, 0
		for idx, u := range durationUnits {
			if len(u.suffix) > matchedLen && i+len(u.suffix) <= len(s) && s[i:i+len(u.suffix)] == u.suffix {
				matched, matchedLen = idx, len(u.suffix)
			}
		}
		if matched == -1 {
			return 0, fmt.Errorf("unidad desconocida en la posición %d de %q", i, s)
		}
		if matched <= lastUnit {
			return 0, fmt.Errorf("las unidades de %q deben ir en orden descendente", s)
		}
		lastUnit = matched
		total += time.Duration(n) * durationUnits[matched].scale
		i += matchedLen
	}
	return total, nil
}

// timeModule builds the `:time` library object, grounded on
// original_source/src/libraries/time.rs's "esperar" (await N seconds,
// returns a Promise per spec.md §4.7). Supplemented with "dormir",
// which accepts a human-readable duration literal ("1h30m") instead of
// a raw float, and "ahora", a synchronous wall-clock read.
func timeModule(*Registry) value.Value {
	obj := value.NewObject()
	exec := promise.New()

	obj.SetObjectProperty("esperar", value.NewFunction("tmp::esperar", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		secs := 0.0
		if len(args) > 0 {
			n, err := args[0].ToAgalNumber()
			if err != nil {
				return nil, err
			}
			f, parseErr := strconv.ParseFloat(n.String(), 64)
			if parseErr != nil {
				return nil, cerr.NewTypeError("tmp::esperar: se esperaba un número real")
			}
			secs = f
		}
		p := exec.Spawn(func() (value.Value, *cerr.Throw) {
			time.Sleep(time.Duration(secs * float64(time.Second)))
			return value.NewNever(), nil
		})
		return p, nil
	}))

	obj.SetObjectProperty("dormir", value.NewFunction("tmp::dormir", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) == 0 {
			return nil, cerr.NewTypeError("tmp::dormir: se esperaba una duración (ej. \"1h30m\")")
		}
		s, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		d, parseErr := parseSleepDuration(s)
		if parseErr != nil {
			return nil, cerr.NewTypeError("tmp::dormir: duración inválida %q: %v", s, parseErr)
		}
		p := exec.Spawn(func() (value.Value, *cerr.Throw) {
			time.Sleep(d)
			return value.NewNever(), nil
		})
		return p, nil
	}))

	obj.SetObjectProperty("ahora", value.NewFunction("tmp::ahora", func(_ value.Value, _ []value.Value) (value.Value, *cerr.Throw) {
		return value.NewNumberFromInt64(time.Now().UnixMilli()), nil
	}))

	return obj
}
