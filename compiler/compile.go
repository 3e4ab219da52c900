package compiler

import (
	"io"

	"github.com/thiremani/nfc/ast"
	"github.com/thiremani/nfc/typecheck"
	"tinygo.org/x/go-llvm"
)

// Compile checks nf, lowers it into a fresh module and writes the verified
// IR text to w. Nothing is written unless every stage succeeds.
func Compile(w io.Writer, nf *ast.Nf, moduleName string) error {
	if _, err := typecheck.Check(nf); err != nil {
		return err
	}

	ctx := llvm.NewContext()
	defer ctx.Dispose()
	c := NewCompiler(ctx, moduleName)
	defer c.Dispose()

	if err := c.Generate(nf); err != nil {
		return err
	}
	if err := c.Verify(); err != nil {
		return err
	}
	if _, err := io.WriteString(w, c.GenerateIR()); err != nil {
		return &Error{Kind: Io, Msg: "writing module " + moduleName, Err: err}
	}
	return nil
}
