package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinta-lang/tinta/core/value"
)

func TestDeclareAndGet(t *testing.T) {
	e := New()
	require.Nil(t, e.Declare("x", value.NewNumberFromInt64(5), false))
	v, err := e.Get("x")
	require.Nil(t, err)
	assert.Equal(t, "5", v.ToAgalConsole())
}

func TestDeclareDuplicateInSameScopeFails(t *testing.T) {
	e := New()
	require.Nil(t, e.Declare("x", value.NewNumberFromInt64(1), false))
	err := e.Declare("x", value.NewNumberFromInt64(2), false)
	require.NotNil(t, err)
}

func TestConstantCannotBeReassigned(t *testing.T) {
	e := New()
	require.Nil(t, e.Declare("pi", value.NewNumberFromInt64(3), true))
	err := e.Assign("pi", value.NewNumberFromInt64(4))
	require.NotNil(t, err)
}

func TestKeywordCannotBeDeclaredOrAssigned(t *testing.T) {
	e := New()
	err := e.Declare("def", value.NewNumberFromInt64(1), false)
	require.NotNil(t, err)
	err = e.Assign("fn", value.NewNumberFromInt64(1))
	require.NotNil(t, err)
}

func TestChildScopeShadowsParent(t *testing.T) {
	parent := New()
	require.Nil(t, parent.Declare("x", value.NewNumberFromInt64(1), false))
	child := parent.Child()
	require.Nil(t, child.Declare("x", value.NewNumberFromInt64(2), false))

	v, err := child.Get("x")
	require.Nil(t, err)
	assert.Equal(t, "2", v.ToAgalConsole())

	v, err = parent.Get("x")
	require.Nil(t, err)
	assert.Equal(t, "1", v.ToAgalConsole())
}

func TestAssignWalksToParentScope(t *testing.T) {
	parent := New()
	require.Nil(t, parent.Declare("x", value.NewNumberFromInt64(1), false))
	child := parent.Child()
	require.Nil(t, child.Assign("x", value.NewNumberFromInt64(9)))

	v, err := parent.Get("x")
	require.Nil(t, err)
	assert.Equal(t, "9", v.ToAgalConsole())
}

func TestUndeclaredLookupFails(t *testing.T) {
	e := New()
	_, err := e.Get("nope")
	require.NotNil(t, err)
	assert.Equal(t, "EnvironmentError", string(err.Kind))
}

func TestUndeclaredLookupSuggestsCloseName(t *testing.T) {
	e := New()
	require.Nil(t, e.Declare("nombre", value.NewString("ada"), false))
	_, err := e.Get("nombr")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "nombre")
}

func TestClassChildGrantsInClassAccess(t *testing.T) {
	e := New()
	assert.False(t, e.InClass())
	child := e.NewClassChild()
	assert.True(t, child.InClass())
}

func TestStackFramesInnermostFirst(t *testing.T) {
	s := NewStack()
	s = s.Push(Frame{NodeKind: "Program", File: "main.ti"})
	s = s.Push(Frame{NodeKind: "Call", File: "main.ti", Line: 3})
	s = s.Push(Frame{NodeKind: "Block", File: "main.ti", Line: 4})

	frames := s.Frames()
	require.Len(t, frames, 3)
	assert.Equal(t, "Block", frames[0].NodeKind)
	assert.Equal(t, "Call", frames[1].NodeKind)
	assert.Equal(t, "Program", frames[2].NodeKind)
}
