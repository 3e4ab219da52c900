// Package typecheck implements admission control for NF programs: a program
// that fails Check must never reach code generation.
package typecheck

import (
	"github.com/thiremani/nfc/ast"
	"github.com/thiremani/nfc/scope"
	"github.com/thiremani/nfc/types"
)

type Env = scope.Env[types.Type]

// Check infers the type of nf.Body. Every function name is bound to its
// Func type before any body is checked, so functions may refer to each other
// regardless of declaration order. Var then reads a function as
// Pointer(Func), the same as any other non-aggregate binding.
func Check(nf *ast.Nf) (types.Type, error) {
	env := scope.New[types.Type]()
	for _, f := range nf.Funcs {
		env = env.Add(f.Name, f.Type())
	}

	for _, f := range nf.Funcs {
		if err := checkFunc(f, env); err != nil {
			return nil, err
		}
	}
	return checkExpr(nf.Body, env)
}

func checkFunc(f *ast.Func, env Env) error {
	for _, p := range f.Params {
		env = env.Add(p.Name, p.Type)
	}
	bodyType, err := checkExpr(f.Body, env)
	if err != nil {
		return err
	}
	if !types.TypeEqual(bodyType, f.RetType) {
		return &Error{
			Kind:     UnmatchReturnType,
			Name:     f.Name,
			Expr:     f.Body,
			Expected: []types.Type{f.RetType},
			Actual:   []types.Type{bodyType},
		}
	}
	return nil
}

func checkExpr(e ast.Expression, env Env) (types.Type, error) {
	switch e := e.(type) {
	case *ast.Const:
		return checkLiteral(e.Value, env)
	case *ast.Let:
		return checkLet(e, env)
	case *ast.Var:
		t, ok := env.Lookup(e.Name)
		if !ok {
			return nil, &Error{Kind: UnboundVariable, Name: e.Name}
		}
		// Aggregates are addressed directly; every other binding reads as
		// the address of its slot.
		if types.IsAggregate(t) {
			return t, nil
		}
		return types.Pointer{Elem: t}, nil
	case *ast.Load:
		t, err := checkExpr(e.Addr, env)
		if err != nil {
			return nil, err
		}
		ptr, ok := t.(types.Pointer)
		if !ok {
			return nil, &Error{Kind: DereferenceNonpointer, Expr: e.Addr, Actual: []types.Type{t}}
		}
		return ptr.Elem, nil
	case *ast.Assign:
		return checkAssign(e, env)
	case *ast.Call:
		return checkCall(e, env)
	case *ast.If:
		return checkIf(e, env)
	case *ast.BinOp:
		return checkBinOp(e, env)
	case *ast.ArrayAt:
		return checkArrayAt(e, env)
	case *ast.TupleAt:
		return checkTupleAt(e, env)
	case *ast.PrintNum:
		if _, err := checkExpr(e.Value, env); err != nil {
			return nil, err
		}
		return types.VoidType, nil
	default:
		panic("typecheck: unhandled expression " + e.String())
	}
}

func checkLet(e *ast.Let, env Env) (types.Type, error) {
	initType, err := checkExpr(e.Init, env)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(e.Type, initType) {
		return nil, &Error{
			Kind:     UnmatchLet,
			Expr:     e.Init,
			Expected: []types.Type{e.Type},
			Actual:   []types.Type{initType},
		}
	}
	return checkExpr(e.Body, env.Add(e.Name, e.Type))
}

// checkAssign types Assign like a store: the target must be Pointer(T), the
// value must be T, and the expression itself is Void.
func checkAssign(e *ast.Assign, env Env) (types.Type, error) {
	addrType, err := checkExpr(e.Addr, env)
	if err != nil {
		return nil, err
	}
	ptr, ok := addrType.(types.Pointer)
	if !ok {
		return nil, &Error{Kind: AssignToNonpointer, Expr: e.Addr, Actual: []types.Type{addrType}}
	}
	valType, err := checkExpr(e.Value, env)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(ptr.Elem, valType) {
		return nil, &Error{
			Kind:     UnmatchAssign,
			Expr:     e.Value,
			Expected: []types.Type{ptr.Elem},
			Actual:   []types.Type{valType},
		}
	}
	return types.VoidType, nil
}

func checkCall(e *ast.Call, env Env) (types.Type, error) {
	calleeType, err := checkExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}
	ptr, ok := calleeType.(types.Pointer)
	var fn types.Func
	if ok {
		fn, ok = ptr.Elem.(types.Func)
	}
	if !ok {
		return nil, &Error{Kind: ApplyNonFunc, Expr: e.Callee, Actual: []types.Type{calleeType}}
	}

	args := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		if args[i], err = checkExpr(arg, env); err != nil {
			return nil, err
		}
	}
	if !types.EqualTypes(fn.Params, args) {
		return nil, &Error{Kind: UnmatchParamsAndArgs, Expr: e.Callee, Expected: fn.Params, Actual: args}
	}
	return fn.Ret, nil
}

func checkIf(e *ast.If, env Env) (types.Type, error) {
	condType, err := checkExpr(e.Cond, env)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(condType, types.BoolType) {
		return nil, &Error{Kind: UnmatchIfCond, Expr: e.Cond, Actual: []types.Type{condType}}
	}
	thenType, err := checkExpr(e.Then, env)
	if err != nil {
		return nil, err
	}
	elseType, err := checkExpr(e.Else, env)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(thenType, elseType) {
		return nil, &Error{Kind: UnmatchIfBranches, Expr: e, Actual: []types.Type{thenType, elseType}}
	}
	return thenType, nil
}

// binOpResult is the operator table: arithmetic takes (int, int) to int,
// comparisons take (int, int) to bool, and == and /= also take (bool, bool).
func binOpResult(op ast.Operator, lhs, rhs types.Type) (types.Type, bool) {
	lk, rk := lhs.Kind(), rhs.Kind()
	switch {
	case lk == types.IntKind && rk == types.IntKind:
		if op.IsComparison() {
			return types.BoolType, true
		}
		return types.IntType, true
	case lk == types.BoolKind && rk == types.BoolKind && (op == ast.Eq || op == ast.Neq):
		return types.BoolType, true
	default:
		return nil, false
	}
}

func checkBinOp(e *ast.BinOp, env Env) (types.Type, error) {
	lhs, err := checkExpr(e.Lhs, env)
	if err != nil {
		return nil, err
	}
	rhs, err := checkExpr(e.Rhs, env)
	if err != nil {
		return nil, err
	}
	t, ok := binOpResult(e.Op, lhs, rhs)
	if !ok {
		return nil, &Error{Kind: InvalidBinOp, Op: e.Op, Expr: e.Lhs, Rhs: e.Rhs, Actual: []types.Type{lhs, rhs}}
	}
	return t, nil
}

func checkArrayAt(e *ast.ArrayAt, env Env) (types.Type, error) {
	baseType, err := checkExpr(e.Base, env)
	if err != nil {
		return nil, err
	}
	idxType, err := checkExpr(e.Index, env)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(idxType, types.IntType) {
		return nil, &Error{Kind: IndexingWithNonInteger, Expr: e.Index, Actual: []types.Type{idxType}}
	}
	arr, ok := baseType.(types.Array)
	if !ok {
		return nil, &Error{Kind: IndexingForNonArray, Expr: e.Base, Actual: []types.Type{baseType}}
	}
	return types.Pointer{Elem: arr.Elem}, nil
}

func checkTupleAt(e *ast.TupleAt, env Env) (types.Type, error) {
	baseType, err := checkExpr(e.Base, env)
	if err != nil {
		return nil, err
	}
	tup, ok := baseType.(types.Tuple)
	if !ok {
		return nil, &Error{Kind: IndexingForNonTuple, Expr: e.Base, Actual: []types.Type{baseType}}
	}
	if e.Index < 0 || e.Index >= len(tup.Elems) {
		return nil, &Error{Kind: InvalidTupleAccess, Expr: e.Base, Index: e.Index}
	}
	return types.Pointer{Elem: tup.Elems[e.Index]}, nil
}

func checkLiteral(lit ast.Literal, env Env) (types.Type, error) {
	switch l := lit.(type) {
	case *ast.BoolLiteral:
		return types.BoolType, nil
	case *ast.CharLiteral:
		return types.CharType, nil
	case *ast.IntLiteral:
		return types.IntType, nil
	case *ast.ArrayLiteral:
		for _, elem := range l.Elems {
			t, err := checkExpr(elem, env)
			if err != nil {
				return nil, err
			}
			if !types.TypeEqual(l.ElemType, t) {
				return nil, &Error{
					Kind:     UnmatchArrayElem,
					Expr:     elem,
					Expected: []types.Type{l.ElemType},
					Actual:   []types.Type{t},
				}
			}
		}
		return types.Array{Elem: l.ElemType, Len: len(l.Elems)}, nil
	case *ast.TupleLiteral:
		elems := make([]types.Type, len(l.Elems))
		for i, elem := range l.Elems {
			t, err := checkExpr(elem, env)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return types.Tuple{Elems: elems}, nil
	case *ast.ExternalFunc:
		// Same shape as a declared function, so Call needs no special case.
		return types.Pointer{Elem: l.Type}, nil
	default:
		panic("typecheck: unhandled literal " + lit.String())
	}
}
