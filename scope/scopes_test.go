package scope

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiremani/nfc/ast"
)

func TestAddDoesNotMutateParent(t *testing.T) {
	x := ast.NewIdent("x")
	parent := New[int]().Add(x, 1)
	child := parent.Add(x, 2)

	got, ok := child.Lookup(x)
	require.True(t, ok)
	assert.Equal(t, 2, got, "re-adding a name shadows it")

	got, ok = parent.Lookup(x)
	require.True(t, ok)
	assert.Equal(t, 1, got, "parent scope must be unaffected by the child")
	assert.Equal(t, 1, child.Len())
}

func TestLookupUnbound(t *testing.T) {
	env := New[string]().Add(ast.NewIdent("a"), "A")
	_, ok := env.Lookup(ast.NewIdent("b"))
	assert.False(t, ok)

	var empty Env[string]
	_, ok = empty.Lookup(ast.NewIdent("a"))
	assert.False(t, ok)
}

func TestManyBindingsStayReachable(t *testing.T) {
	envs := []Env[int]{New[int]()}
	for i := 0; i < 200; i++ {
		envs = append(envs, envs[len(envs)-1].Add(ast.NewIdent(fmt.Sprintf("v%03d", i)), i))
	}

	last := envs[len(envs)-1]
	require.Equal(t, 200, last.Len())
	for i := 0; i < 200; i++ {
		got, ok := last.Lookup(ast.NewIdent(fmt.Sprintf("v%03d", i)))
		require.True(t, ok, "v%03d", i)
		assert.Equal(t, i, got)
	}

	// Every intermediate version still sees exactly its own prefix.
	mid := envs[100]
	assert.Equal(t, 100, mid.Len())
	_, ok := mid.Lookup(ast.NewIdent("v150"))
	assert.False(t, ok)
	got, ok := mid.Lookup(ast.NewIdent("v099"))
	require.True(t, ok)
	assert.Equal(t, 99, got)
}

func TestHeightStaysLogarithmic(t *testing.T) {
	env := New[struct{}]()
	for i := 0; i < 1024; i++ {
		env = env.Add(ast.NewIdent(fmt.Sprintf("n%05d", i)), struct{}{})
	}
	assert.LessOrEqual(t, height(env.root), 15)
}
