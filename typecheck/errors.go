package typecheck

import (
	"fmt"
	"strings"

	"github.com/thiremani/nfc/ast"
	"github.com/thiremani/nfc/types"
)

type ErrorKind int

const (
	UnboundVariable ErrorKind = iota + 1
	UnmatchLet
	UnmatchParamsAndArgs
	ApplyNonFunc
	UnmatchIfBranches
	UnmatchIfCond
	DereferenceNonpointer
	AssignToNonpointer
	UnmatchAssign
	InvalidBinOp
	IndexingForNonArray
	IndexingWithNonInteger
	UnmatchArrayElem
	InvalidTupleAccess
	IndexingForNonTuple
	UnmatchReturnType
)

var errorKindNames = map[ErrorKind]string{
	UnboundVariable:        "UnboundVariable",
	UnmatchLet:             "UnmatchLet",
	UnmatchParamsAndArgs:   "UnmatchParamsAndArgs",
	ApplyNonFunc:           "ApplyNonFunc",
	UnmatchIfBranches:      "UnmatchIfBranches",
	UnmatchIfCond:          "UnmatchIfCond",
	DereferenceNonpointer:  "DereferenceNonpointer",
	AssignToNonpointer:     "AssignToNonpointer",
	UnmatchAssign:          "UnmatchAssign",
	InvalidBinOp:           "InvalidBinOp",
	IndexingForNonArray:    "IndexingForNonArray",
	IndexingWithNonInteger: "IndexingWithNonInteger",
	UnmatchArrayElem:       "UnmatchArrayElem",
	InvalidTupleAccess:     "InvalidTupleAccess",
	IndexingForNonTuple:    "IndexingForNonTuple",
	UnmatchReturnType:      "UnmatchReturnType",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a type error. Only the fields relevant to Kind are set:
//
//   - Name for UnboundVariable and UnmatchReturnType
//   - Expr for every kind except UnboundVariable
//   - Expected/Actual for mismatches (Expected holds the parameter types of
//     UnmatchParamsAndArgs and Actual the argument types)
//   - Op and Rhs for InvalidBinOp, Index for InvalidTupleAccess
type Error struct {
	Kind     ErrorKind
	Name     ast.Ident
	Expr     ast.Expression
	Rhs      ast.Expression
	Op       ast.Operator
	Index    int
	Expected []types.Type
	Actual   []types.Type
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnboundVariable:
		return fmt.Sprintf("unbound variable: %s", e.Name)
	case UnmatchLet:
		return fmt.Sprintf("%s is expected to have type %s", e.Expr, typeAt(e.Expected, 0))
	case UnmatchParamsAndArgs:
		return fmt.Sprintf("in %s, params are expected in %s, but given in %s",
			e.Expr, joinTypes(e.Expected), joinTypes(e.Actual))
	case ApplyNonFunc:
		return fmt.Sprintf("%s must have function type, but have %s", e.Expr, typeAt(e.Actual, 0))
	case UnmatchIfBranches:
		return fmt.Sprintf("in %s, branches have different type, %s vs %s",
			e.Expr, typeAt(e.Actual, 0), typeAt(e.Actual, 1))
	case UnmatchIfCond:
		return fmt.Sprintf("cond in if-expr, %s, must have bool type, but have %s", e.Expr, typeAt(e.Actual, 0))
	case DereferenceNonpointer:
		return fmt.Sprintf("dereferenced expression, `%s`, does not have pointer type", e.Expr)
	case AssignToNonpointer:
		return fmt.Sprintf("assign to non-pointer %s", e.Expr)
	case UnmatchAssign:
		return fmt.Sprintf("%s was expected to be %s, but actually %s",
			e.Expr, typeAt(e.Expected, 0), typeAt(e.Actual, 0))
	case InvalidBinOp:
		return fmt.Sprintf("invalid operation application, %s for %s and %s", e.Op, e.Expr, e.Rhs)
	case IndexingForNonArray:
		return fmt.Sprintf("indexed expr %s must have array type, but have %s", e.Expr, typeAt(e.Actual, 0))
	case IndexingWithNonInteger:
		return fmt.Sprintf("indexing expr %s must have integer type, but have %s", e.Expr, typeAt(e.Actual, 0))
	case UnmatchArrayElem:
		return fmt.Sprintf("elem %s in array must have %s", e.Expr, typeAt(e.Expected, 0))
	case InvalidTupleAccess:
		return fmt.Sprintf("invalid access of expr %s, with %d", e.Expr, e.Index)
	case IndexingForNonTuple:
		return fmt.Sprintf("%s is not tuple expr", e.Expr)
	case UnmatchReturnType:
		return fmt.Sprintf("body of %s is expected to have type %s, but have %s",
			e.Name, typeAt(e.Expected, 0), typeAt(e.Actual, 0))
	default:
		return e.Kind.String()
	}
}

func typeAt(ts []types.Type, i int) string {
	if i >= len(ts) || ts[i] == nil {
		return "?"
	}
	return ts[i].String()
}

func joinTypes(ts []types.Type) string {
	strs := make([]string, len(ts))
	for i, t := range ts {
		strs[i] = t.String()
	}
	return strings.Join(strs, ", ")
}
