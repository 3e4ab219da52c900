package compiler

import (
	"github.com/thiremani/nfc/ast"
	"github.com/thiremani/nfc/scope"
	"github.com/thiremani/nfc/types"
	"tinygo.org/x/go-llvm"
)

const MAIN = "main"

// Generate lowers nf into the module. It runs in two phases: every function
// is declared first, so bodies may call any function regardless of order.
// The program body becomes `i32 main()`.
func (c *Compiler) Generate(nf *ast.Nf) error {
	symbols, err := c.declareFuncs(nf.Funcs)
	if err != nil {
		return err
	}
	for _, f := range nf.Funcs {
		if err := c.defineFunc(f, symbols); err != nil {
			return err
		}
	}
	return c.defineMain(nf.Body, symbols)
}

func (c *Compiler) declareFuncs(funcs []*ast.Func) (SymbolTable, error) {
	symbols := scope.New[Operand]()
	for _, f := range funcs {
		ft := f.Type()
		if err := checkSignature(ft); err != nil {
			return symbols, err
		}
		fn, err := c.declareFunc(f.Name.Name(), c.funcType(ft))
		if err != nil {
			return symbols, err
		}
		symbols = symbols.Add(f.Name, Operand{Val: fn, Type: ft, Kind: FuncKind})
	}
	return symbols, nil
}

func (c *Compiler) defineFunc(f *ast.Func, symbols SymbolTable) error {
	op, _ := symbols.Lookup(f.Name)
	fn := op.Val
	if fn.BasicBlocksCount() > 0 {
		return internalErr("function %s defined twice", f.Name)
	}
	l := c.newFuncLowerer(fn)

	// Params are spilled to slots up front so they are addressable.
	env := symbols
	for i, p := range f.Params {
		slot := l.createEntryBlockAlloca(c.mapToLLVMType(p.Type), p.Name.Name())
		c.builder.CreateStore(fn.Param(i), slot)
		kind := SlotKind
		if types.IsAggregate(p.Type) {
			kind = MemKind
		}
		env = env.Add(p.Name, Operand{Val: slot, Type: p.Type, Kind: kind})
	}

	ret, err := l.lower(f.Body, env)
	if err != nil {
		return err
	}
	if f.RetType.Kind() == types.VoidKind {
		c.builder.CreateRetVoid()
		return nil
	}
	c.builder.CreateRet(c.rvalue(ret))
	return nil
}

// defineMain returns an int body as the exit status; any other body is
// evaluated for effect and main returns 0.
func (c *Compiler) defineMain(body ast.Expression, symbols SymbolTable) error {
	if !c.Module.NamedFunction(MAIN).IsNil() {
		return internalErr("function name %s is reserved for the program body", MAIN)
	}
	fnType := llvm.FunctionType(c.Context.Int32Type(), nil, false)
	fn := llvm.AddFunction(c.Module, MAIN, fnType)
	l := c.newFuncLowerer(fn)

	ret, err := l.lower(body, symbols)
	if err != nil {
		return err
	}
	if ret.Kind == ValueKind && ret.Type.Kind() == types.IntKind {
		c.builder.CreateRet(ret.Val)
		return nil
	}
	c.builder.CreateRet(c.constI32(0))
	return nil
}

func (c *Compiler) newFuncLowerer(fn llvm.Value) *funcLowerer {
	entry := c.Context.AddBasicBlock(fn, "entry")
	c.builder.SetInsertPointAtEnd(entry)
	return &funcLowerer{Compiler: c, fn: fn}
}
