package compiler

import (
	"github.com/thiremani/nfc/scope"
	"github.com/thiremani/nfc/types"
	"tinygo.org/x/go-llvm"
)

type OperandKind int

const (
	// ValueKind: Val is an SSA value of Type.
	ValueKind OperandKind = iota
	// SlotKind: Val is the address of a stored Type. Reads as Pointer(Type).
	SlotKind
	// MemKind: Val is the address of an aggregate that is used by value, e.g.
	// a let-bound array. Reads as Type.
	MemKind
	// FuncKind: Val is the address of function code with signature Type.
	FuncKind
)

// Operand is the result of lowering an expression.
type Operand struct {
	Val  llvm.Value
	Type types.Type
	Kind OperandKind
}

// SymbolTable maps names to operands. Function handles are added once during
// declaration and never change afterwards.
type SymbolTable = scope.Env[Operand]

func voidOperand() Operand { return Operand{Type: types.VoidType} }

// NfType is the checker's view of the operand.
func (o Operand) NfType() types.Type {
	switch o.Kind {
	case SlotKind, FuncKind:
		return types.Pointer{Elem: o.Type}
	default:
		return o.Type
	}
}

func (o Operand) isVoid() bool { return o.Type.Kind() == types.VoidKind }

// fromValue wraps an SSA value of NF type t, turning pointers back into the
// slot or function handle they denote.
func fromValue(v llvm.Value, t types.Type) Operand {
	ptr, ok := t.(types.Pointer)
	if !ok {
		return Operand{Val: v, Type: t, Kind: ValueKind}
	}
	if fn, ok := ptr.Elem.(types.Func); ok {
		return Operand{Val: v, Type: fn, Kind: FuncKind}
	}
	return Operand{Val: v, Type: ptr.Elem, Kind: SlotKind}
}

// rvalue returns the operand as an SSA value of its NfType.
func (c *Compiler) rvalue(o Operand) llvm.Value {
	if o.Kind == MemKind {
		return c.createLoad(o.Val, o.Type, "agg")
	}
	return o.Val
}

// address returns a pointer to the operand's storage, spilling an SSA
// aggregate to a fresh entry-block slot if needed.
func (c *Compiler) address(o Operand) llvm.Value {
	if o.Kind != ValueKind {
		return o.Val
	}
	tmp := c.createEntryBlockAlloca(c.mapToLLVMType(o.Type), "spill")
	c.builder.CreateStore(o.Val, tmp)
	return tmp
}

// deref implements Load.
func (c *Compiler) deref(o Operand) (Operand, error) {
	switch o.Kind {
	case FuncKind:
		return Operand{Val: o.Val, Type: o.Type, Kind: ValueKind}, nil
	case SlotKind:
		if types.IsAggregate(o.Type) {
			return Operand{Val: o.Val, Type: o.Type, Kind: MemKind}, nil
		}
		return fromValue(c.createLoad(o.Val, o.Type, "load"), o.Type), nil
	default:
		return Operand{}, internalErr("load through non-address of type %s", o.NfType())
	}
}

// storeInto writes o to dst. Aggregates held in memory are block-copied.
func (c *Compiler) storeInto(dst llvm.Value, o Operand) {
	if o.Kind == MemKind {
		c.copyBlock(dst, o.Val, c.mapToLLVMType(o.Type))
		return
	}
	c.builder.CreateStore(o.Val, dst)
}

func (c *Compiler) createLoad(ptr llvm.Value, t types.Type, name string) llvm.Value {
	return c.builder.CreateLoad(c.mapToLLVMType(t), ptr, name)
}

// constValue returns o as an LLVM constant if it is one. Aggregates in
// constant globals yield their initializer.
func constValue(o Operand) (llvm.Value, bool) {
	if o.Kind == MemKind {
		g := o.Val.IsAGlobalVariable()
		if g.IsNil() || !g.IsGlobalConstant() {
			return llvm.Value{}, false
		}
		return g.Initializer(), true
	}
	if o.Val.IsNil() || !o.Val.IsConstant() {
		return llvm.Value{}, false
	}
	return o.Val, true
}
