package library

import (
	"github.com/tinta-lang/tinta/core/bignum"
	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/value"
)

// mathModule builds the `:math` library object ("mate" in the
// original, kept as the import path rather than the bound name since
// tinta's module names are the `:`-prefixed path), grounded on
// original_source/src/libraries/math.rs's suelo/min/max, supplemented
// with techo/redondea/trunca/abs using the bignum tower's existing
// Ceil/Round/Trunc/Neg and a pi constant, since a "thin" math surface
// per spec.md §1 still wants the rounding family spec.md §4.1 defines.
func mathModule(*Registry) value.Value {
	obj := value.NewObject()

	unary := func(name string, op func(bignum.Number) bignum.Number) {
		obj.SetObjectProperty(name, value.NewFunction("mate::"+name, func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
			n, err := requireNumber(name, args, 0)
			if err != nil {
				return nil, err
			}
			return value.NewNumber(op(n)), nil
		}))
	}
	unary("suelo", bignum.Number.Floor)
	unary("techo", bignum.Number.Ceil)
	unary("redondea", bignum.Number.Round)
	unary("trunca", bignum.Number.Trunc)

	obj.SetObjectProperty("abs", value.NewFunction("mate::abs", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		n, err := requireNumber("abs", args, 0)
		if err != nil {
			return nil, err
		}
		if n.Less(bignum.FromInt64(0)) {
			return value.NewNumber(n.Neg()), nil
		}
		return value.NewNumber(n), nil
	}))

	obj.SetObjectProperty("min", value.NewFunction("mate::min", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		return extremeOf(args, func(a, b bignum.Number) bool { return a.Less(b) })
	}))
	obj.SetObjectProperty("max", value.NewFunction("mate::max", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		return extremeOf(args, func(a, b bignum.Number) bool { return b.Less(a) })
	}))

	pi, _ := bignum.ParseNumber("3.14159265358979323846")
	obj.SetObjectProperty("pi", value.NewNumber(pi))

	return obj
}

func requireNumber(fn string, args []value.Value, i int) (bignum.Number, *cerr.Throw) {
	if i >= len(args) {
		return bignum.Number{}, cerr.NewTypeError("mate::%s: se esperaba un número", fn)
	}
	return args[i].ToAgalNumber()
}

// extremeOf returns the earliest argument that no later argument beats
// under better (ties keep the earlier one), i.e. the min/max per
// spec.md §4.1's Number.Less ordering. NaN orders above every number,
// so max returns NaN whenever any argument is NaN, and min returns NaN
// only when every argument is NaN.
func extremeOf(args []value.Value, better func(a, b bignum.Number) bool) (value.Value, *cerr.Throw) {
	if len(args) == 0 {
		return nil, cerr.NewTypeError("se esperaba al menos un argumento")
	}
	best, err := args[0].ToAgalNumber()
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		n, err := a.ToAgalNumber()
		if err != nil {
			return nil, err
		}
		if better(n, best) {
			best = n
		}
	}
	return value.NewNumber(best), nil
}
