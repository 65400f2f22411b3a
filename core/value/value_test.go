package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinta-lang/tinta/core/cerr"
)

func TestNumberArithmetic(t *testing.T) {
	five := NewNumberFromInt64(5)
	three := NewNumberFromInt64(3)

	sum, err := five.BinaryOperation("+", three)
	require.Nil(t, err)
	assert.Equal(t, "8", sum.ToAgalConsole())

	diff, err := five.BinaryOperation("-", three)
	require.Nil(t, err)
	assert.Equal(t, "2", diff.ToAgalConsole())
}

func TestNumberDivisionByZero(t *testing.T) {
	five := NewNumberFromInt64(5)
	zero := NewNumberFromInt64(0)
	_, err := five.BinaryOperation("/", zero)
	require.NotNil(t, err)
	assert.Equal(t, "MathError", string(err.Kind))
}

func TestStringConcatenation(t *testing.T) {
	a := NewString("hola ")
	b := NewString("mundo")
	result, err := a.BinaryOperation("+", b)
	require.Nil(t, err)
	assert.Equal(t, "hola mundo", result.(*AgalString).Value)
}

func TestStringLengthOrderingLimitation(t *testing.T) {
	// Documented non-standard behavior: string '<' compares length, not
	// lexicographic order.
	short := NewString("zzz")
	long := NewString("aaaaa")
	less, err := short.BinaryOperation("<", long)
	require.Nil(t, err)
	assert.Equal(t, true, less.ToAgalBoolean(), "shorter string should be 'less' by length even though 'z' > 'a'")
}

func TestStringRepeat(t *testing.T) {
	s := NewString("ab")
	n := NewNumberFromInt64(3)
	result, err := s.BinaryOperation("*", n)
	require.Nil(t, err)
	str, ok := result.(*AgalString)
	require.True(t, ok)
	assert.Equal(t, "ababab", str.Value)
}

func TestBooleanShortCircuitOperators(t *testing.T) {
	t_, f := NewBoolean(true), NewBoolean(false)
	and, err := t_.BinaryOperation("&&", f)
	require.Nil(t, err)
	assert.False(t, and.ToAgalBoolean())

	or, err := f.BinaryOperation("||", t_)
	require.Nil(t, err)
	assert.True(t, or.ToAgalBoolean())
}

func TestTruthiness(t *testing.T) {
	assert.False(t, NewNumberFromInt64(0).ToAgalBoolean())
	assert.True(t, NewNumberFromInt64(1).ToAgalBoolean())
	assert.False(t, NewString("").ToAgalBoolean())
	assert.True(t, NewString("x").ToAgalBoolean())
	assert.False(t, NewNull().ToAgalBoolean())
	assert.False(t, NewNever().ToAgalBoolean())
}

func TestArrayConcatenation(t *testing.T) {
	a := NewArray([]Value{NewNumberFromInt64(1), NewNumberFromInt64(2)})
	b := NewArray([]Value{NewNumberFromInt64(3)})
	result, err := a.BinaryOperation("+", b)
	require.Nil(t, err)
	arr, ok := result.(*Array)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)
}

func TestObjectPropertyAccess(t *testing.T) {
	obj := NewObject()
	_, err := obj.SetObjectProperty("nombre", NewString("tinta"))
	require.Nil(t, err)
	v, err := obj.GetObjectProperty("nombre")
	require.Nil(t, err)
	assert.Equal(t, "tinta", v.(*AgalString).Value)
}

func TestImmutableRejectsMutation(t *testing.T) {
	obj := NewObject()
	obj.SetObjectProperty("x", NewNumberFromInt64(1))
	frozen := NewImmutable(obj)
	_, err := frozen.SetObjectProperty("x", NewNumberFromInt64(2))
	require.NotNil(t, err)
}

func TestLazyEvaluatesOnce(t *testing.T) {
	calls := 0
	lazy := NewLazy(func() (Value, *cerr.Throw) {
		calls++
		return NewNumberFromInt64(7), nil
	})
	v1, err := lazy.Force()
	require.Nil(t, err)
	v2, err := lazy.Force()
	require.Nil(t, err)
	assert.Equal(t, 1, calls, "thunk should only run once")
	assert.Equal(t, v1, v2)
}

func TestClassInstantiationRunsConstructor(t *testing.T) {
	cls := NewClass("Punto", nil)
	called := false
	cls.Instance.Properties["constructor"] = Property{
		Value: NewFunction("constructor", func(this Value, args []Value) (Value, *cerr.Throw) {
			called = true
			this.SetObjectProperty("x", args[0])
			return NewNever(), nil
		}),
		Public: true,
	}
	instance, err := cls.Call(nil, []Value{NewNumberFromInt64(9)})
	require.Nil(t, err)
	assert.True(t, called)
	x, err := instance.GetObjectProperty("x")
	require.Nil(t, err)
	assert.Equal(t, "9", x.ToAgalConsole())
}

func TestPromiseResolvesOnce(t *testing.T) {
	p := NewPromise()
	var seen []Value
	next := p.Then(func(v Value) (Value, *cerr.Throw) {
		seen = append(seen, v)
		return v, nil
	})
	p.Resolve(NewNumberFromInt64(42))
	p.Resolve(NewNumberFromInt64(99)) // second resolve is a no-op
	require.Len(t, seen, 1)
	assert.Equal(t, "42", seen[0].ToAgalConsole())
	assert.True(t, next.Settled())
}
