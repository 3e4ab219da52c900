package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thiremani/nfc/types"
)

const sampleNF = `{
  "funcs": [
    {
      "name": "first",
      "params": [{"name": "p", "type": {"tuple": ["int", "char"]}}],
      "ret": "int",
      "body": {"load": {"tuple_at": {"base": {"var": "p"}, "index": 0}}}
    }
  ],
  "body": {
    "let": {
      "name": "a",
      "type": {"array": {"elem": "int", "len": 2}},
      "init": {"const": {"array": {"elems": [{"const": {"int": 1}}, {"const": {"int": -2}}], "elem_type": "int"}}},
      "body": {
        "if": {
          "cond": {"binop": {"op": "/=", "lhs": {"const": {"bool": true}}, "rhs": {"const": {"bool": false}}}},
          "then": {"print_num": {"load": {"array_at": {"base": {"var": "a"}, "index": {"const": {"int": 1}}}}}},
          "else": {"assign": {"addr": {"array_at": {"base": {"var": "a"}, "index": {"const": {"int": 0}}}}, "value": {"call": {
            "callee": {"const": {"external_func": {"name": "getchar", "type": {"func": {"params": [], "ret": "int"}}}}},
            "args": []
          }}}}
        }
      }
    }
  }
}`

func TestDecodeSample(t *testing.T) {
	var nf Nf
	require.NoError(t, json.Unmarshal([]byte(sampleNF), &nf))

	require.Len(t, nf.Funcs, 1)
	f := nf.Funcs[0]
	assert.Equal(t, "first", f.Name.Name())
	assert.Equal(t, "(int, char)", f.Params[0].Type.String())
	assert.Equal(t, types.IntType, f.RetType)
	assert.Equal(t, "*p.0", f.Body.String())

	let, ok := nf.Body.(*Let)
	require.True(t, ok)
	assert.Equal(t, "a", let.Name.Name())
	assert.Equal(t, "int[2]", let.Type.String())

	cond := let.Body.(*If).Cond.(*BinOp)
	assert.Equal(t, Neq, cond.Op)
	assert.Equal(t, "(true) /= (false)", cond.String())
}

func TestRoundTrip(t *testing.T) {
	var nf Nf
	require.NoError(t, json.Unmarshal([]byte(sampleNF), &nf))

	data, err := json.Marshal(&nf)
	require.NoError(t, err)

	var again Nf
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, nf.String(), again.String())
}

func TestDecodeTypes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"void"`, "void"},
		{`"char"`, "char"},
		{`{"pointer": "int"}`, "*int"},
		{`{"func": {"params": ["int", "bool"], "ret": "int"}}`, "(int, bool) -> int"},
		{`{"array": {"elem": {"tuple": ["int", "int"]}, "len": 3}}`, "(int, int)[3]"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := DecodeType(json.RawMessage(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"unknown expression", `{"body": {"lambda": {}}}`, `unknown expression tag "lambda"`},
		{"unknown literal", `{"body": {"const": {"float": 1.5}}}`, `unknown literal tag "float"`},
		{"unknown type", `{"body": {"let": {"name": "x", "type": "i64", "init": {"const": {"int": 1}}, "body": {"var": "x"}}}}`, "scalar types are void, bool, char, int"},
		{"unknown operator", `{"body": {"binop": {"op": "%", "lhs": {"const": {"int": 1}}, "rhs": {"const": {"int": 1}}}}}`, `unknown operator "%"`},
		{"two tags", `{"body": {"var": "x", "load": {"var": "x"}}}`, "exactly one variant tag"},
		{"long char", `{"body": {"const": {"char": "ab"}}}`, "exactly one character"},
		{"int overflow", `{"body": {"const": {"int": 4294967296}}}`, "int32"},
		{"extern without func type", `{"body": {"const": {"external_func": {"name": "f", "type": "int"}}}}`, "must have a function type"},
		{"missing body", `{}`, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nf Nf
			err := json.Unmarshal([]byte(tt.in), &nf)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestIdent(t *testing.T) {
	a, b := NewIdent("x"), NewIdent("x")
	assert.Equal(t, a, b)
	assert.True(t, a == b)
	assert.NotEqual(t, a, NewIdent("y"))
	assert.True(t, a.Less(NewIdent("y")))
	assert.Equal(t, "", Ident{}.Name())
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		expr Expression
		want string
	}{
		{IntConst(-3), "-3"},
		{CharConst('a'), "'a'"},
		{NewCall(NewVar("f"), IntConst(1), BoolConst(false)), "f(1, false)"},
		{&ArrayAt{Base: NewVar("a"), Index: IntConst(2)}, "a[2]"},
		{&Assign{Addr: NewVar("p"), Value: IntConst(1)}, "p := 1"},
		{Deref(NewVar("p")), "*p"},
		{&PrintNum{Value: IntConst(1)}, "printnum 1"},
		{NewLet("x", types.IntType, IntConst(1), NewVar("x")), "let x: int = 1 in x"},
		{&If{Cond: BoolConst(true), Then: IntConst(1), Else: IntConst(2)}, "if true then 1 else 2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.expr.String())
	}
}
