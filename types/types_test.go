package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{IntType, "int"},
		{VoidType, "void"},
		{Pointer{Elem: CharType}, "*char"},
		{Array{Elem: BoolType, Len: 4}, "bool[4]"},
		{Tuple{Elems: []Type{IntType, CharType}}, "(int, char)"},
		{Func{Params: []Type{IntType, BoolType}, Ret: IntType}, "(int, bool) -> int"},
		{Func{Ret: VoidType}, "() -> void"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}

func TestTypeEqual(t *testing.T) {
	fn := func(ret Type, params ...Type) Type { return Func{Params: params, Ret: ret} }
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"scalars", IntType, Int{}, true},
		{"different scalars", IntType, CharType, false},
		{"arrays", Array{Elem: IntType, Len: 2}, Array{Elem: IntType, Len: 2}, true},
		{"array length", Array{Elem: IntType, Len: 2}, Array{Elem: IntType, Len: 3}, false},
		{"pointers", Pointer{Elem: IntType}, Pointer{Elem: IntType}, true},
		{"pointer vs elem", Pointer{Elem: IntType}, IntType, false},
		{"funcs", fn(IntType, BoolType), fn(IntType, BoolType), true},
		{"func arity", fn(IntType, BoolType), fn(IntType), false},
		{"func ret", fn(IntType), fn(BoolType), false},
		{"tuples", Tuple{Elems: []Type{IntType}}, Tuple{Elems: []Type{IntType}}, true},
		{"tuple arity", Tuple{Elems: []Type{IntType}}, Tuple{}, false},
		{"nil", nil, nil, true},
		{"nil vs int", nil, IntType, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, TypeEqual(tt.b, tt.a))
		})
	}
}

func TestIsAggregate(t *testing.T) {
	assert.True(t, IsAggregate(Array{Elem: IntType}))
	assert.True(t, IsAggregate(Tuple{}))
	assert.False(t, IsAggregate(Pointer{Elem: Array{Elem: IntType}}))
	assert.False(t, IsAggregate(Func{Ret: IntType}))
	assert.False(t, IsAggregate(IntType))
}

func TestScalarByName(t *testing.T) {
	for _, name := range ScalarTypeNames() {
		typ, ok := ScalarByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, typ.String())
	}
	_, ok := ScalarByName("float")
	assert.False(t, ok)
}
