package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/thiremani/nfc/types"
)

// The base Node interface
type Node interface {
	String() string
}

// All expression nodes implement this
type Expression interface {
	Node
	expressionNode()
}

// All literal nodes implement this
type Literal interface {
	Node
	literalNode()
}

// Nf is a whole compilation unit. Body is the program entry point.
type Nf struct {
	Funcs []*Func
	Body  Expression
}

func (nf *Nf) String() string {
	var out bytes.Buffer
	for _, f := range nf.Funcs {
		out.WriteString(f.String())
		out.WriteString("\n")
	}
	out.WriteString(nf.Body.String())
	return out.String()
}

type Param struct {
	Name Ident
	Type types.Type
}

type Func struct {
	Name    Ident
	Params  []Param
	RetType types.Type
	Body    Expression
}

// ParamTypes returns the declared parameter types in order.
func (f *Func) ParamTypes() []types.Type {
	ts := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		ts[i] = p.Type
	}
	return ts
}

// Type is the function's signature as a Func type.
func (f *Func) Type() types.Func {
	return types.Func{Params: f.ParamTypes(), Ret: f.RetType}
}

func (f *Func) String() string {
	params := []string{}
	for _, p := range f.Params {
		params = append(params, p.Name.String()+": "+p.Type.String())
	}
	return "fn " + f.Name.String() + "(" + strings.Join(params, ", ") + ") -> " +
		f.RetType.String() + " = " + f.Body.String()
}

type Operator int

const (
	Add Operator = iota
	Sub
	Mult
	Div
	Eq
	Neq
	Lt
	Gt
	Leq
	Geq
)

var operatorSymbols = [...]string{
	Add:  "+",
	Sub:  "-",
	Mult: "*",
	Div:  "/",
	Eq:   "==",
	Neq:  "/=",
	Lt:   "<",
	Gt:   ">",
	Leq:  "<=",
	Geq:  ">=",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorSymbols) {
		return "Operator(" + strconv.Itoa(int(op)) + ")"
	}
	return operatorSymbols[op]
}

// IsComparison reports whether op yields a bool.
func (op Operator) IsComparison() bool { return op >= Eq }

// Expressions

type Const struct {
	Value Literal
}

func (c *Const) expressionNode() {}
func (c *Const) String() string  { return c.Value.String() }

// Let binds Name for the extent of Body only.
type Let struct {
	Name Ident
	Type types.Type
	Init Expression
	Body Expression
}

func (l *Let) expressionNode() {}
func (l *Let) String() string {
	return "let " + l.Name.String() + ": " + l.Type.String() + " = " + l.Init.String() +
		" in " + l.Body.String()
}

type Var struct {
	Name Ident
}

func (v *Var) expressionNode() {}
func (v *Var) String() string  { return v.Name.String() }

type Load struct {
	Addr Expression
}

func (l *Load) expressionNode() {}
func (l *Load) String() string  { return "*" + l.Addr.String() }

type Assign struct {
	Addr  Expression
	Value Expression
}

func (a *Assign) expressionNode() {}
func (a *Assign) String() string  { return a.Addr.String() + " := " + a.Value.String() }

type Call struct {
	Callee Expression
	Args   []Expression
}

func (c *Call) expressionNode() {}
func (c *Call) String() string {
	return c.Callee.String() + "(" + joinExprs(c.Args) + ")"
}

type If struct {
	Cond Expression
	Then Expression
	Else Expression
}

func (i *If) expressionNode() {}
func (i *If) String() string {
	return "if " + i.Cond.String() + " then " + i.Then.String() + " else " + i.Else.String()
}

type BinOp struct {
	Op  Operator
	Lhs Expression
	Rhs Expression
}

func (b *BinOp) expressionNode() {}
func (b *BinOp) String() string {
	return "(" + b.Lhs.String() + ") " + b.Op.String() + " (" + b.Rhs.String() + ")"
}

type ArrayAt struct {
	Base  Expression
	Index Expression
}

func (a *ArrayAt) expressionNode() {}
func (a *ArrayAt) String() string  { return a.Base.String() + "[" + a.Index.String() + "]" }

type TupleAt struct {
	Base  Expression
	Index int
}

func (t *TupleAt) expressionNode() {}
func (t *TupleAt) String() string  { return t.Base.String() + "." + strconv.Itoa(t.Index) }

type PrintNum struct {
	Value Expression
}

func (p *PrintNum) expressionNode() {}
func (p *PrintNum) String() string  { return "printnum " + p.Value.String() }

// Literals

type BoolLiteral struct {
	Value bool
}

func (b *BoolLiteral) literalNode()   {}
func (b *BoolLiteral) String() string { return strconv.FormatBool(b.Value) }

type CharLiteral struct {
	Value rune
}

func (c *CharLiteral) literalNode()   {}
func (c *CharLiteral) String() string { return strconv.QuoteRune(c.Value) }

type IntLiteral struct {
	Value int32
}

func (i *IntLiteral) literalNode()   {}
func (i *IntLiteral) String() string { return strconv.FormatInt(int64(i.Value), 10) }

type ArrayLiteral struct {
	Elems    []Expression
	ElemType types.Type
}

func (a *ArrayLiteral) literalNode()   {}
func (a *ArrayLiteral) String() string { return "{" + joinExprs(a.Elems) + "}: " + a.ElemType.String() }

type TupleLiteral struct {
	Elems []Expression
}

func (t *TupleLiteral) literalNode()   {}
func (t *TupleLiteral) String() string { return "(" + joinExprs(t.Elems) + ")" }

// ExternalFunc names a function defined outside the compilation unit.
type ExternalFunc struct {
	Name string
	Type types.Func
}

func (e *ExternalFunc) literalNode()   {}
func (e *ExternalFunc) String() string { return "extern " + e.Name + ": " + e.Type.String() }

func joinExprs(exprs []Expression) string {
	strs := make([]string, len(exprs))
	for i, e := range exprs {
		strs[i] = e.String()
	}
	return strings.Join(strs, ", ")
}
