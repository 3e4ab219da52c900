package compiler

import "tinygo.org/x/go-llvm"

const (
	PRINTF = "printf"
	MEMCPY = "memcpy"

	// Format used by PrintNum: "%d\n".
	FORMAT_NUM = ".builtin.format.num"
)

// GetFnType returns the LLVM FunctionType for a C runtime helper.
func (c *Compiler) GetFnType(name string) llvm.Type {
	charPtr := llvm.PointerType(c.Context.Int8Type(), 0)
	switch name {
	case PRINTF:
		return llvm.FunctionType(c.Context.Int32Type(), []llvm.Type{charPtr}, true)
	case MEMCPY:
		return llvm.FunctionType(charPtr, []llvm.Type{charPtr, charPtr, c.Context.Int64Type()}, false)
	default:
		panic("Unknown function name " + name)
	}
}

// GetCFunc returns a runtime helper. The helpers are declared by
// addBuiltins, and declareFunc refuses to redeclare them with another type.
func (c *Compiler) GetCFunc(name string) (llvm.Type, llvm.Value) {
	fnType := c.GetFnType(name)
	fn := c.Module.NamedFunction(name)
	if fn.IsNil() {
		fn = llvm.AddFunction(c.Module, name, fnType)
	}
	return fnType, fn
}

// declareFunc returns the module's function called name, adding a
// declaration with fnType if there is none yet. An existing function of a
// different type is an error.
func (c *Compiler) declareFunc(name string, fnType llvm.Type) (llvm.Value, error) {
	fn := c.Module.NamedFunction(name)
	if fn.IsNil() {
		return llvm.AddFunction(c.Module, name, fnType), nil
	}
	if fn.GlobalValueType() != fnType {
		return llvm.Value{}, internalErr("function %s is already declared with a different signature", name)
	}
	return fn, nil
}

func (c *Compiler) addBuiltins() {
	c.createGlobalString(FORMAT_NUM, "%d\n", llvm.PrivateLinkage)
	c.GetCFunc(PRINTF)
	c.GetCFunc(MEMCPY)
}

// createGlobalString creates a NUL-terminated global string constant.
func (c *Compiler) createGlobalString(name, value string, linkage llvm.Linkage) llvm.Value {
	i8 := c.Context.Int8Type()
	chars := make([]llvm.Value, 0, len(value)+1)
	for i := 0; i < len(value); i++ {
		chars = append(chars, llvm.ConstInt(i8, uint64(value[i]), false))
	}
	chars = append(chars, llvm.ConstInt(i8, 0, false))

	arrType := llvm.ArrayType(i8, len(chars))
	return c.makeGlobalConst(arrType, name, llvm.ConstArray(i8, chars), linkage)
}

// printNum emits printf("%d\n", v). Values narrower than i32 are
// zero-extended first.
func (c *Compiler) printNum(v llvm.Value) {
	i32 := c.Context.Int32Type()
	if v.Type().TypeKind() == llvm.IntegerTypeKind && v.Type().IntTypeWidth() < 32 {
		v = c.builder.CreateZExt(v, i32, "print_ext")
	}
	fnType, fn := c.GetCFunc(PRINTF)
	format := c.Module.NamedGlobal(FORMAT_NUM)
	c.builder.CreateCall(fnType, fn, []llvm.Value{format, v}, "")
}

// copyBlock emits memcpy(dst, src, sizeof(t)).
func (c *Compiler) copyBlock(dst, src llvm.Value, t llvm.Type) {
	fnType, fn := c.GetCFunc(MEMCPY)
	c.builder.CreateCall(fnType, fn, []llvm.Value{dst, src, llvm.SizeOf(t)}, "")
}
