package compiler

import (
	"github.com/thiremani/nfc/types"
	"tinygo.org/x/go-llvm"
)

// mapToLLVMType lowers an NF type in value position. Functions and pointers
// are both plain `ptr`; a function value is its code address.
func (c *Compiler) mapToLLVMType(t types.Type) llvm.Type {
	switch t.Kind() {
	case types.VoidKind:
		return c.Context.VoidType()
	case types.BoolKind:
		return c.Context.Int1Type()
	case types.CharKind:
		return c.Context.Int8Type()
	case types.IntKind:
		return c.Context.Int32Type()
	case types.FuncKind, types.PointerKind:
		return llvm.PointerType(c.Context.Int8Type(), 0)
	case types.ArrayKind:
		arr := t.(types.Array)
		return llvm.ArrayType(c.mapToLLVMType(arr.Elem), arr.Len)
	case types.TupleKind:
		return c.tupleType(t.(types.Tuple))
	default:
		panic("unknown type " + t.String())
	}
}

func (c *Compiler) mapToLLVMTypes(ts []types.Type) []llvm.Type {
	out := make([]llvm.Type, len(ts))
	for i, t := range ts {
		out[i] = c.mapToLLVMType(t)
	}
	return out
}

// funcType is the LLVM signature of an NF function type.
func (c *Compiler) funcType(fn types.Func) llvm.Type {
	return llvm.FunctionType(c.mapToLLVMType(fn.Ret), c.mapToLLVMTypes(fn.Params), false)
}

// tupleType returns the named struct for t. Structurally equal tuples share
// one %tuple.N, numbered in order of first use.
func (c *Compiler) tupleType(t types.Tuple) llvm.Type {
	key := t.String()
	if st, ok := c.tupleTypes[key]; ok {
		return st
	}
	st := c.Context.StructCreateNamed(c.nextTupleName())
	c.tupleTypes[key] = st
	st.StructSetBody(c.mapToLLVMTypes(t.Elems), false)
	return st
}

// storable reports whether t can be held in a register or slot. Void cannot,
// nor can aggregates that contain it.
func storable(t types.Type) bool {
	switch t := t.(type) {
	case types.Void:
		return false
	case types.Array:
		return storable(t.Elem)
	case types.Tuple:
		for _, e := range t.Elems {
			if !storable(e) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func checkSignature(fn types.Func) error {
	for _, p := range fn.Params {
		if !storable(p) {
			return internalErr("parameter of type %s in %s", p, fn)
		}
	}
	if fn.Ret.Kind() != types.VoidKind && !storable(fn.Ret) {
		return internalErr("return type %s in %s", fn.Ret, fn)
	}
	return nil
}
