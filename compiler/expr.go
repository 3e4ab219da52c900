package compiler

import (
	"github.com/thiremani/nfc/ast"
	"github.com/thiremani/nfc/types"
	"tinygo.org/x/go-llvm"
)

// funcLowerer lowers expressions into one function body. The builder's
// insertion block is the cursor: every method leaves it at the block where
// control continues.
type funcLowerer struct {
	*Compiler
	fn llvm.Value
}

func (l *funcLowerer) lower(e ast.Expression, env SymbolTable) (Operand, error) {
	switch e := e.(type) {
	case *ast.Const:
		return l.lowerLiteral(e.Value, env)
	case *ast.Let:
		return l.lowerLet(e, env)
	case *ast.Var:
		op, ok := env.Lookup(e.Name)
		if !ok {
			return Operand{}, internalErr("unbound variable %s", e.Name)
		}
		return op, nil
	case *ast.Load:
		addr, err := l.lower(e.Addr, env)
		if err != nil {
			return Operand{}, err
		}
		return l.deref(addr)
	case *ast.Assign:
		return l.lowerAssign(e, env)
	case *ast.Call:
		return l.lowerCall(e, env)
	case *ast.If:
		return l.lowerIf(e, env)
	case *ast.BinOp:
		return l.lowerBinOp(e, env)
	case *ast.ArrayAt:
		return l.lowerArrayAt(e, env)
	case *ast.TupleAt:
		return l.lowerTupleAt(e, env)
	case *ast.PrintNum:
		v, err := l.lower(e.Value, env)
		if err != nil {
			return Operand{}, err
		}
		if v.isVoid() {
			return Operand{}, internalErr("printnum of void %s", e.Value)
		}
		l.printNum(l.rvalue(v))
		return voidOperand(), nil
	default:
		return Operand{}, internalErr("unhandled expression %s", e)
	}
}

// lowerLet stores the initializer into a fresh slot and binds the name for
// the body. Void initializers are evaluated for effect only.
func (l *funcLowerer) lowerLet(e *ast.Let, env SymbolTable) (Operand, error) {
	initOp, err := l.lower(e.Init, env)
	if err != nil {
		return Operand{}, err
	}
	if e.Type.Kind() == types.VoidKind {
		return l.lower(e.Body, env)
	}

	if !storable(e.Type) {
		return Operand{}, internalErr("let %s of type %s", e.Name, e.Type)
	}
	slot := l.createEntryBlockAlloca(l.mapToLLVMType(e.Type), e.Name.Name())
	l.storeInto(slot, initOp)

	kind := SlotKind
	if types.IsAggregate(e.Type) {
		kind = MemKind
	}
	return l.lower(e.Body, env.Add(e.Name, Operand{Val: slot, Type: e.Type, Kind: kind}))
}

func (l *funcLowerer) lowerAssign(e *ast.Assign, env SymbolTable) (Operand, error) {
	addr, err := l.lower(e.Addr, env)
	if err != nil {
		return Operand{}, err
	}
	if addr.Kind != SlotKind {
		return Operand{}, internalErr("assign to non-slot %s", e.Addr)
	}
	val, err := l.lower(e.Value, env)
	if err != nil {
		return Operand{}, err
	}
	l.storeInto(addr.Val, val)
	return voidOperand(), nil
}

func (l *funcLowerer) lowerCall(e *ast.Call, env SymbolTable) (Operand, error) {
	callee, err := l.lower(e.Callee, env)
	if err != nil {
		return Operand{}, err
	}
	fnType, ok := callee.Type.(types.Func)
	if !ok || (callee.Kind != FuncKind && callee.Kind != SlotKind) {
		return Operand{}, internalErr("call of non-function %s", e.Callee)
	}

	if err := checkSignature(fnType); err != nil {
		return Operand{}, err
	}
	fn := callee.Val
	if callee.Kind == SlotKind {
		// Slot holding a function pointer: call indirectly.
		fn = l.createLoad(callee.Val, fnType, "fn_ptr")
	}

	args := make([]llvm.Value, len(e.Args))
	for i, argExpr := range e.Args {
		arg, err := l.lower(argExpr, env)
		if err != nil {
			return Operand{}, err
		}
		args[i] = l.rvalue(arg)
	}

	name := "call"
	if fnType.Ret.Kind() == types.VoidKind {
		name = ""
	}
	ret := l.builder.CreateCall(l.funcType(fnType), fn, args, name)
	if fnType.Ret.Kind() == types.VoidKind {
		return voidOperand(), nil
	}
	return fromValue(ret, fnType.Ret), nil
}

// lowerIf emits then/else/merge blocks right after the current block and
// joins the branch results with a phi typed by the then value.
func (l *funcLowerer) lowerIf(e *ast.If, env SymbolTable) (Operand, error) {
	cond, err := l.lower(e.Cond, env)
	if err != nil {
		return Operand{}, err
	}

	current := l.builder.GetInsertBlock()
	thenBlock := l.Context.AddBasicBlock(l.fn, "then")
	elseBlock := l.Context.AddBasicBlock(l.fn, "else")
	mergeBlock := l.Context.AddBasicBlock(l.fn, "merge")
	thenBlock.MoveAfter(current)
	elseBlock.MoveAfter(thenBlock)
	mergeBlock.MoveAfter(elseBlock)
	l.builder.CreateCondBr(l.rvalue(cond), thenBlock, elseBlock)

	l.builder.SetInsertPointAtEnd(thenBlock)
	thenOp, err := l.lower(e.Then, env)
	if err != nil {
		return Operand{}, err
	}
	thenEnd := l.builder.GetInsertBlock()
	l.builder.CreateBr(mergeBlock)

	l.builder.SetInsertPointAtEnd(elseBlock)
	elseOp, err := l.lower(e.Else, env)
	if err != nil {
		return Operand{}, err
	}
	elseVal, err := l.coerce(elseOp, thenOp)
	if err != nil {
		return Operand{}, err
	}
	elseEnd := l.builder.GetInsertBlock()
	l.builder.CreateBr(mergeBlock)

	l.builder.SetInsertPointAtEnd(mergeBlock)
	if thenOp.isVoid() {
		return voidOperand(), nil
	}
	// Aggregates in memory are merged as addresses.
	phi := l.builder.CreatePHI(thenOp.Val.Type(), "if_result")
	phi.AddIncoming([]llvm.Value{thenOp.Val, elseVal}, []llvm.BasicBlock{thenEnd, elseEnd})
	return Operand{Val: phi, Type: thenOp.Type, Kind: thenOp.Kind}, nil
}

// coerce brings an else operand into the representation of the then operand
// so that both feed the same phi.
func (l *funcLowerer) coerce(o, like Operand) (llvm.Value, error) {
	if like.isVoid() || o.Kind == like.Kind {
		return o.Val, nil
	}
	switch {
	case like.Kind == ValueKind && o.Kind == MemKind:
		return l.rvalue(o), nil
	case like.Kind == MemKind && o.Kind == ValueKind:
		return l.address(o), nil
	case like.Kind == FuncKind && o.Kind == SlotKind:
		return l.createLoad(o.Val, o.Type, "fn_ptr"), nil
	case like.Kind == SlotKind && o.Kind == FuncKind:
		tmp := l.createEntryBlockAlloca(l.mapToLLVMType(o.Type), "fn_slot")
		l.builder.CreateStore(o.Val, tmp)
		return tmp, nil
	default:
		return llvm.Value{}, internalErr("if branches lower to incompatible operands of type %s", like.Type)
	}
}

func (l *funcLowerer) lowerBinOp(e *ast.BinOp, env SymbolTable) (Operand, error) {
	lhs, err := l.lower(e.Lhs, env)
	if err != nil {
		return Operand{}, err
	}
	rhs, err := l.lower(e.Rhs, env)
	if err != nil {
		return Operand{}, err
	}
	op, ok := defaultOps[e.Op]
	if !ok {
		return Operand{}, internalErr("unknown operator %s", e.Op)
	}
	return op(l.Compiler, l.rvalue(lhs), l.rvalue(rhs)), nil
}

func (l *funcLowerer) lowerArrayAt(e *ast.ArrayAt, env SymbolTable) (Operand, error) {
	base, err := l.lower(e.Base, env)
	if err != nil {
		return Operand{}, err
	}
	idx, err := l.lower(e.Index, env)
	if err != nil {
		return Operand{}, err
	}
	arr, ok := base.Type.(types.Array)
	if !ok || base.Kind == SlotKind || base.Kind == FuncKind {
		return Operand{}, internalErr("indexing non-array %s", e.Base)
	}

	addr := l.address(l.writable(base))
	elem := l.builder.CreateInBoundsGEP(l.mapToLLVMType(arr), addr,
		[]llvm.Value{l.constI32(0), l.rvalue(idx)}, "elem")
	return Operand{Val: elem, Type: arr.Elem, Kind: SlotKind}, nil
}

// writable copies an aggregate held in a read-only global into an
// entry-block temporary, so slots derived from it can be stored through.
func (l *funcLowerer) writable(o Operand) Operand {
	if o.Kind != MemKind {
		return o
	}
	global := o.Val.IsAGlobalVariable()
	if global.IsNil() || !global.IsGlobalConstant() {
		return o
	}
	t := l.mapToLLVMType(o.Type)
	tmp := l.createEntryBlockAlloca(t, "const_copy")
	l.copyBlock(tmp, o.Val, t)
	return Operand{Val: tmp, Type: o.Type, Kind: MemKind}
}

func (l *funcLowerer) lowerTupleAt(e *ast.TupleAt, env SymbolTable) (Operand, error) {
	base, err := l.lower(e.Base, env)
	if err != nil {
		return Operand{}, err
	}
	tup, ok := base.Type.(types.Tuple)
	if !ok || base.Kind == SlotKind || base.Kind == FuncKind {
		return Operand{}, internalErr("field access on non-tuple %s", e.Base)
	}
	if e.Index < 0 || e.Index >= len(tup.Elems) {
		return Operand{}, internalErr("tuple index %d out of range for %s", e.Index, tup)
	}

	addr := l.address(base)
	field := l.builder.CreateInBoundsGEP(l.mapToLLVMType(tup), addr,
		[]llvm.Value{l.constI32(0), l.constI32(int64(e.Index))}, "field")
	return Operand{Val: field, Type: tup.Elems[e.Index], Kind: SlotKind}, nil
}
