package compiler

import (
	"github.com/thiremani/nfc/ast"
	"github.com/thiremani/nfc/types"
	"tinygo.org/x/go-llvm"
)

func (l *funcLowerer) lowerLiteral(lit ast.Literal, env SymbolTable) (Operand, error) {
	switch lit := lit.(type) {
	case *ast.BoolLiteral:
		var v uint64
		if lit.Value {
			v = 1
		}
		return Operand{Val: llvm.ConstInt(l.Context.Int1Type(), v, false), Type: types.BoolType}, nil
	case *ast.CharLiteral:
		// Chars are bytes; wider runes are truncated.
		v := llvm.ConstInt(l.Context.Int8Type(), uint64(uint8(lit.Value)), false)
		return Operand{Val: v, Type: types.CharType}, nil
	case *ast.IntLiteral:
		return Operand{Val: l.constI32(int64(lit.Value)), Type: types.IntType}, nil
	case *ast.ArrayLiteral:
		return l.lowerArrayLiteral(lit, env)
	case *ast.TupleLiteral:
		return l.lowerTupleLiteral(lit, env)
	case *ast.ExternalFunc:
		if err := checkSignature(lit.Type); err != nil {
			return Operand{}, err
		}
		fn, err := l.declareFunc(lit.Name, l.funcType(lit.Type))
		if err != nil {
			return Operand{}, err
		}
		return Operand{Val: fn, Type: lit.Type, Kind: FuncKind}, nil
	default:
		return Operand{}, internalErr("unhandled literal %s", lit)
	}
}

func (l *funcLowerer) lowerElems(elems []ast.Expression, env SymbolTable) ([]Operand, error) {
	ops := make([]Operand, len(elems))
	for i, elem := range elems {
		op, err := l.lower(elem, env)
		if err != nil {
			return nil, err
		}
		ops[i] = op
	}
	return ops, nil
}

// constValues returns the constants of ops, or false if any is not constant.
func constValues(ops []Operand) ([]llvm.Value, bool) {
	vals := make([]llvm.Value, len(ops))
	for i, op := range ops {
		v, ok := constValue(op)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

// lowerArrayLiteral yields the array's address. Constant arrays live in a
// private global; others are assembled in an entry-block temporary.
func (l *funcLowerer) lowerArrayLiteral(lit *ast.ArrayLiteral, env SymbolTable) (Operand, error) {
	ops, err := l.lowerElems(lit.Elems, env)
	if err != nil {
		return Operand{}, err
	}
	arrType := types.Array{Elem: lit.ElemType, Len: len(ops)}
	if !storable(arrType) {
		return Operand{}, internalErr("array of %s", lit.ElemType)
	}
	llvmArr := l.mapToLLVMType(arrType)

	if vals, ok := constValues(ops); ok {
		initVal := llvm.ConstArray(l.mapToLLVMType(lit.ElemType), vals)
		global := l.makeGlobalConst(llvmArr, l.nextArrayName(), initVal, llvm.PrivateLinkage)
		return Operand{Val: global, Type: arrType, Kind: MemKind}, nil
	}

	tmp := l.createEntryBlockAlloca(llvmArr, "array_tmp")
	for i, op := range ops {
		elem := l.builder.CreateInBoundsGEP(llvmArr, tmp,
			[]llvm.Value{l.constI32(0), l.constI32(int64(i))}, "array_elem")
		l.storeInto(elem, op)
	}
	return Operand{Val: tmp, Type: arrType, Kind: MemKind}, nil
}

// lowerTupleLiteral yields a constant struct value when every element is
// constant, and the address of a filled temporary otherwise.
func (l *funcLowerer) lowerTupleLiteral(lit *ast.TupleLiteral, env SymbolTable) (Operand, error) {
	ops, err := l.lowerElems(lit.Elems, env)
	if err != nil {
		return Operand{}, err
	}
	elemTypes := make([]types.Type, len(ops))
	for i, op := range ops {
		elemTypes[i] = op.NfType()
	}
	tupType := types.Tuple{Elems: elemTypes}
	if !storable(tupType) {
		return Operand{}, internalErr("tuple %s has a void element", tupType)
	}
	st := l.mapToLLVMType(tupType)

	if vals, ok := constValues(ops); ok {
		return Operand{Val: llvm.ConstNamedStruct(st, vals), Type: tupType}, nil
	}

	tmp := l.createEntryBlockAlloca(st, "tuple_tmp")
	for i, op := range ops {
		field := l.builder.CreateInBoundsGEP(st, tmp,
			[]llvm.Value{l.constI32(0), l.constI32(int64(i))}, "tuple_elem")
		l.storeInto(field, op)
	}
	return Operand{Val: tmp, Type: tupType, Kind: MemKind}, nil
}
