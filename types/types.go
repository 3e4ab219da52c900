package types

import (
	"fmt"
	"strings"
)

type Kind int

const (
	VoidKind Kind = iota
	BoolKind
	CharKind
	IntKind
	FuncKind
	ArrayKind
	PointerKind
	TupleKind
)

// Type is the interface for all NF types.
type Type interface {
	String() string
	Kind() Kind
}

// Scalar singletons. They carry no data, so comparing them with == is safe.
var (
	VoidType Type = Void{}
	BoolType Type = Bool{}
	CharType Type = Char{}
	IntType  Type = Int{}
)

type Void struct{}

func (Void) Kind() Kind     { return VoidKind }
func (Void) String() string { return "void" }

type Bool struct{}

func (Bool) Kind() Kind     { return BoolKind }
func (Bool) String() string { return "bool" }

type Char struct{}

func (Char) Kind() Kind     { return CharKind }
func (Char) String() string { return "char" }

// Int is a signed 32-bit integer. The language has no unsigned integers.
type Int struct{}

func (Int) Kind() Kind     { return IntKind }
func (Int) String() string { return "int" }

type Func struct {
	Params []Type
	Ret    Type
}

func (f Func) Kind() Kind { return FuncKind }
func (f Func) String() string {
	return fmt.Sprintf("(%s) -> %s", typesStr(f.Params), f.Ret.String())
}

// Array is a fixed-length, contiguous sequence of Elem.
type Array struct {
	Elem Type
	Len  int
}

func (a Array) Kind() Kind     { return ArrayKind }
func (a Array) String() string { return fmt.Sprintf("%s[%d]", a.Elem.String(), a.Len) }

// Pointer is the address of a value of Elem. It is only ever synthesized by
// the checker; no literal spells it.
type Pointer struct {
	Elem Type
}

func (p Pointer) Kind() Kind     { return PointerKind }
func (p Pointer) String() string { return "*" + p.Elem.String() }

type Tuple struct {
	Elems []Type
}

func (t Tuple) Kind() Kind     { return TupleKind }
func (t Tuple) String() string { return "(" + typesStr(t.Elems) + ")" }

// IsAggregate reports whether values of t live in memory as a contiguous
// object (arrays and tuples) rather than in a single register.
func IsAggregate(t Type) bool {
	k := t.Kind()
	return k == ArrayKind || k == TupleKind
}

func typesStr(types []Type) string {
	var sb strings.Builder
	for i, t := range types {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}

// EqualTypes checks two type lists pointwise and in count.
func EqualTypes(left, right []Type) bool {
	if len(left) != len(right) {
		return false
	}
	for i, l := range left {
		if !TypeEqual(l, right[i]) {
			return false
		}
	}
	return true
}

// TypeEqual performs structural equality on types with a dispatcher by Kind.
func TypeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	return typeComparer(a.Kind())(a, b)
}

func typeComparer(k Kind) func(a, b Type) bool {
	switch k {
	case VoidKind, BoolKind, CharKind, IntKind:
		return eqScalar
	case FuncKind:
		return eqFunc
	case ArrayKind:
		return eqArray
	case PointerKind:
		return eqPointer
	case TupleKind:
		return eqTuple
	default:
		return func(a, b Type) bool { panic(fmt.Sprintf("TypeEqual: unhandled kind %v", k)) }
	}
}

func eqScalar(a, b Type) bool { return true }

func eqFunc(a, b Type) bool {
	af := a.(Func)
	bf := b.(Func)
	return EqualTypes(af.Params, bf.Params) && TypeEqual(af.Ret, bf.Ret)
}

func eqArray(a, b Type) bool {
	aa := a.(Array)
	ba := b.(Array)
	return aa.Len == ba.Len && TypeEqual(aa.Elem, ba.Elem)
}

func eqPointer(a, b Type) bool {
	return TypeEqual(a.(Pointer).Elem, b.(Pointer).Elem)
}

func eqTuple(a, b Type) bool {
	return EqualTypes(a.(Tuple).Elems, b.(Tuple).Elems)
}
