package ast

import "github.com/thiremani/nfc/types"

// Shorthand constructors for building NF trees in code.

func IntConst(v int32) *Const     { return &Const{Value: &IntLiteral{Value: v}} }
func BoolConst(v bool) *Const     { return &Const{Value: &BoolLiteral{Value: v}} }
func CharConst(v rune) *Const     { return &Const{Value: &CharLiteral{Value: v}} }
func NewVar(name string) *Var     { return &Var{Name: NewIdent(name)} }
func Deref(addr Expression) *Load { return &Load{Addr: addr} }

func ArrayConst(elemType types.Type, elems ...Expression) *Const {
	return &Const{Value: &ArrayLiteral{Elems: elems, ElemType: elemType}}
}

func TupleConst(elems ...Expression) *Const {
	return &Const{Value: &TupleLiteral{Elems: elems}}
}

func ExternConst(name string, t types.Func) *Const {
	return &Const{Value: &ExternalFunc{Name: name, Type: t}}
}

func NewLet(name string, t types.Type, init, body Expression) *Let {
	return &Let{Name: NewIdent(name), Type: t, Init: init, Body: body}
}

func NewCall(callee Expression, args ...Expression) *Call {
	return &Call{Callee: callee, Args: args}
}

func NewBinOp(op Operator, lhs, rhs Expression) *BinOp {
	return &BinOp{Op: op, Lhs: lhs, Rhs: rhs}
}
