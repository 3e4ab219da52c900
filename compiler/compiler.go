// Package compiler lowers a checked NF program to an LLVM IR module.
package compiler

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

// Compiler is the emission context for one module. The llvm.Context is
// owned by the caller and must outlive the Compiler.
type Compiler struct {
	Context    llvm.Context
	Module     llvm.Module
	builder    llvm.Builder
	tupleTypes map[string]llvm.Type

	arrayCounter int
	tupleCounter int
}

func NewCompiler(ctx llvm.Context, moduleName string) *Compiler {
	module := ctx.NewModule(moduleName)
	builder := ctx.NewBuilder()

	c := &Compiler{
		Context:    ctx,
		Module:     module,
		builder:    builder,
		tupleTypes: make(map[string]llvm.Type),
	}
	c.addBuiltins()
	return c
}

// Dispose releases the builder and then the module. The context is left to
// the caller, who must dispose it last.
func (c *Compiler) Dispose() {
	c.builder.Dispose()
	c.Module.Dispose()
}

func (c *Compiler) GenerateIR() string {
	return c.Module.String()
}

// Verify runs the LLVM verifier over the whole module.
func (c *Compiler) Verify() error {
	if err := llvm.VerifyModule(c.Module, llvm.ReturnStatusAction); err != nil {
		return &Error{Kind: Validation, Msg: "module failed verification", Err: err}
	}
	return nil
}

func (c *Compiler) makeGlobalConst(llvmType llvm.Type, name string, val llvm.Value, linkage llvm.Linkage) llvm.Value {
	global := llvm.AddGlobal(c.Module, llvmType, name)
	global.SetInitializer(val)
	global.SetLinkage(linkage)
	global.SetUnnamedAddr(true)
	global.SetGlobalConstant(true)
	return global
}

// createEntryBlockAlloca places the alloca at the top of the current
// function's entry block, then restores the insertion point.
func (c *Compiler) createEntryBlockAlloca(ty llvm.Type, name string) llvm.Value {
	current := c.builder.GetInsertBlock()
	fn := current.Parent()
	entry := fn.EntryBasicBlock()
	first := entry.FirstInstruction()

	if first.IsNil() {
		c.builder.SetInsertPointAtEnd(entry)
	} else {
		c.builder.SetInsertPointBefore(first)
	}

	alloca := c.builder.CreateAlloca(ty, name)
	c.builder.SetInsertPointAtEnd(current)
	return alloca
}

func (c *Compiler) constI32(v int64) llvm.Value {
	return llvm.ConstInt(c.Context.Int32Type(), uint64(v), true)
}

func (c *Compiler) nextArrayName() string {
	name := fmt.Sprintf("const_array.%d", c.arrayCounter)
	c.arrayCounter++
	return name
}

func (c *Compiler) nextTupleName() string {
	name := fmt.Sprintf("tuple.%d", c.tupleCounter)
	c.tupleCounter++
	return name
}
