package compiler

import (
	"github.com/thiremani/nfc/ast"
	"github.com/thiremani/nfc/types"
	"tinygo.org/x/go-llvm"
)

// opFunc emits one binary operator over two SSA values.
type opFunc func(c *Compiler, left, right llvm.Value) Operand

func arith(emit func(b llvm.Builder, l, r llvm.Value, name string) llvm.Value, name string) opFunc {
	return func(c *Compiler, left, right llvm.Value) Operand {
		return Operand{Val: emit(c.builder, left, right, name), Type: types.IntType}
	}
}

func icmp(pred llvm.IntPredicate, name string) opFunc {
	return func(c *Compiler, left, right llvm.Value) Operand {
		return Operand{Val: c.builder.CreateICmp(pred, left, right, name), Type: types.BoolType}
	}
}

// defaultOps maps each operator to its instruction. Division is signed and
// comparisons are signed; == and /= also apply to i1.
var defaultOps = map[ast.Operator]opFunc{
	ast.Add:  arith(llvm.Builder.CreateAdd, "add_tmp"),
	ast.Sub:  arith(llvm.Builder.CreateSub, "sub_tmp"),
	ast.Mult: arith(llvm.Builder.CreateMul, "mul_tmp"),
	ast.Div:  arith(llvm.Builder.CreateSDiv, "div_tmp"),

	ast.Eq:  icmp(llvm.IntEQ, "eq_tmp"),
	ast.Neq: icmp(llvm.IntNE, "ne_tmp"),
	ast.Lt:  icmp(llvm.IntSLT, "lt_tmp"),
	ast.Gt:  icmp(llvm.IntSGT, "gt_tmp"),
	ast.Leq: icmp(llvm.IntSLE, "le_tmp"),
	ast.Geq: icmp(llvm.IntSGE, "ge_tmp"),
}
