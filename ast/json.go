package ast

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thiremani/nfc/types"
)

// NF values are serialized as one-key objects naming the variant:
//
//	{"let": {"name": "x", "type": "int", "init": {"const": {"int": 1}}, "body": ...}}
//
// Scalar types are bare strings ("int"); composite types are one-key objects
// ({"array": {"elem": "int", "len": 2}}).

type nfJSON struct {
	Funcs []funcJSON      `json:"funcs,omitempty"`
	Body  json.RawMessage `json:"body"`
}

type funcJSON struct {
	Name   string          `json:"name"`
	Params []paramJSON     `json:"params,omitempty"`
	Ret    json.RawMessage `json:"ret"`
	Body   json.RawMessage `json:"body"`
}

type paramJSON struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

func (nf *Nf) UnmarshalJSON(data []byte) error {
	var raw nfJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := Nf{}
	for _, rf := range raw.Funcs {
		f, err := decodeFunc(rf)
		if err != nil {
			return fmt.Errorf("func %q: %w", rf.Name, err)
		}
		decoded.Funcs = append(decoded.Funcs, f)
	}
	body, err := DecodeExpression(raw.Body)
	if err != nil {
		return fmt.Errorf("body: %w", err)
	}
	decoded.Body = body
	*nf = decoded
	return nil
}

func (nf *Nf) MarshalJSON() ([]byte, error) {
	funcs := make([]any, len(nf.Funcs))
	for i, f := range nf.Funcs {
		params := make([]any, len(f.Params))
		for j, p := range f.Params {
			params[j] = map[string]any{"name": p.Name.Name(), "type": encodeType(p.Type)}
		}
		funcs[i] = map[string]any{
			"name":   f.Name.Name(),
			"params": params,
			"ret":    encodeType(f.RetType),
			"body":   encodeExpr(f.Body),
		}
	}
	return json.Marshal(map[string]any{"funcs": funcs, "body": encodeExpr(nf.Body)})
}

func decodeFunc(rf funcJSON) (*Func, error) {
	f := &Func{Name: NewIdent(rf.Name)}
	for _, rp := range rf.Params {
		t, err := DecodeType(rp.Type)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", rp.Name, err)
		}
		f.Params = append(f.Params, Param{Name: NewIdent(rp.Name), Type: t})
	}
	ret, err := DecodeType(rf.Ret)
	if err != nil {
		return nil, fmt.Errorf("ret: %w", err)
	}
	f.RetType = ret
	if f.Body, err = DecodeExpression(rf.Body); err != nil {
		return nil, err
	}
	return f, nil
}

// variant splits a one-key object into its tag and payload.
func variant(data json.RawMessage) (string, json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, err
	}
	if len(obj) != 1 {
		return "", nil, fmt.Errorf("expected exactly one variant tag, got %d", len(obj))
	}
	for tag, payload := range obj {
		return tag, payload, nil
	}
	panic("unreachable")
}

// DecodeType decodes a serialized NF type.
func DecodeType(data json.RawMessage) (types.Type, error) {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		t, ok := types.ScalarByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown type %q, scalar types are %s", name, strings.Join(types.ScalarTypeNames(), ", "))
		}
		return t, nil
	}

	tag, payload, err := variant(data)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "func":
		var raw struct {
			Params []json.RawMessage `json:"params"`
			Ret    json.RawMessage   `json:"ret"`
		}
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, err
		}
		return decodeFuncType(raw.Params, raw.Ret)
	case "array":
		var raw struct {
			Elem json.RawMessage `json:"elem"`
			Len  int             `json:"len"`
		}
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, err
		}
		if raw.Len < 0 {
			return nil, fmt.Errorf("negative array length %d", raw.Len)
		}
		elem, err := DecodeType(raw.Elem)
		if err != nil {
			return nil, err
		}
		return types.Array{Elem: elem, Len: raw.Len}, nil
	case "pointer":
		elem, err := DecodeType(payload)
		if err != nil {
			return nil, err
		}
		return types.Pointer{Elem: elem}, nil
	case "tuple":
		var raw []json.RawMessage
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, err
		}
		elems, err := decodeTypes(raw)
		if err != nil {
			return nil, err
		}
		return types.Tuple{Elems: elems}, nil
	default:
		return nil, fmt.Errorf("unknown type tag %q", tag)
	}
}

func decodeTypes(raw []json.RawMessage) ([]types.Type, error) {
	ts := make([]types.Type, len(raw))
	for i, r := range raw {
		t, err := DecodeType(r)
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}
	return ts, nil
}

func decodeFuncType(rawParams []json.RawMessage, rawRet json.RawMessage) (types.Func, error) {
	params, err := decodeTypes(rawParams)
	if err != nil {
		return types.Func{}, err
	}
	ret, err := DecodeType(rawRet)
	if err != nil {
		return types.Func{}, err
	}
	return types.Func{Params: params, Ret: ret}, nil
}

// DecodeExpression decodes a serialized NF expression.
func DecodeExpression(data json.RawMessage) (Expression, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("missing expression")
	}
	tag, payload, err := variant(data)
	if err != nil {
		return nil, err
	}

	// fields collects the sub-expressions named in a payload object.
	fields := func(names ...string) ([]Expression, map[string]json.RawMessage, error) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(payload, &obj); err != nil {
			return nil, nil, err
		}
		exprs := make([]Expression, len(names))
		for i, n := range names {
			e, err := DecodeExpression(obj[n])
			if err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", tag, n, err)
			}
			exprs[i] = e
		}
		return exprs, obj, nil
	}

	switch tag {
	case "const":
		lit, err := decodeLiteral(payload)
		if err != nil {
			return nil, err
		}
		return &Const{Value: lit}, nil
	case "let":
		es, obj, err := fields("init", "body")
		if err != nil {
			return nil, err
		}
		var name string
		if err := json.Unmarshal(obj["name"], &name); err != nil {
			return nil, fmt.Errorf("let.name: %w", err)
		}
		t, err := DecodeType(obj["type"])
		if err != nil {
			return nil, fmt.Errorf("let.type: %w", err)
		}
		return &Let{Name: NewIdent(name), Type: t, Init: es[0], Body: es[1]}, nil
	case "var":
		var name string
		if err := json.Unmarshal(payload, &name); err != nil {
			return nil, err
		}
		return &Var{Name: NewIdent(name)}, nil
	case "load":
		e, err := DecodeExpression(payload)
		if err != nil {
			return nil, err
		}
		return &Load{Addr: e}, nil
	case "assign":
		es, _, err := fields("addr", "value")
		if err != nil {
			return nil, err
		}
		return &Assign{Addr: es[0], Value: es[1]}, nil
	case "call":
		es, obj, err := fields("callee")
		if err != nil {
			return nil, err
		}
		var rawArgs []json.RawMessage
		if args, ok := obj["args"]; ok {
			if err := json.Unmarshal(args, &rawArgs); err != nil {
				return nil, err
			}
		}
		args, err := decodeExprs(rawArgs)
		if err != nil {
			return nil, err
		}
		return &Call{Callee: es[0], Args: args}, nil
	case "if":
		es, _, err := fields("cond", "then", "else")
		if err != nil {
			return nil, err
		}
		return &If{Cond: es[0], Then: es[1], Else: es[2]}, nil
	case "binop":
		es, obj, err := fields("lhs", "rhs")
		if err != nil {
			return nil, err
		}
		var sym string
		if err := json.Unmarshal(obj["op"], &sym); err != nil {
			return nil, fmt.Errorf("binop.op: %w", err)
		}
		op, ok := operatorBySymbol(sym)
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", sym)
		}
		return &BinOp{Op: op, Lhs: es[0], Rhs: es[1]}, nil
	case "array_at":
		es, _, err := fields("base", "index")
		if err != nil {
			return nil, err
		}
		return &ArrayAt{Base: es[0], Index: es[1]}, nil
	case "tuple_at":
		es, obj, err := fields("base")
		if err != nil {
			return nil, err
		}
		var idx int
		if err := json.Unmarshal(obj["index"], &idx); err != nil {
			return nil, fmt.Errorf("tuple_at.index: %w", err)
		}
		return &TupleAt{Base: es[0], Index: idx}, nil
	case "print_num":
		e, err := DecodeExpression(payload)
		if err != nil {
			return nil, err
		}
		return &PrintNum{Value: e}, nil
	default:
		return nil, fmt.Errorf("unknown expression tag %q", tag)
	}
}

func decodeExprs(raw []json.RawMessage) ([]Expression, error) {
	exprs := make([]Expression, len(raw))
	for i, r := range raw {
		e, err := DecodeExpression(r)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

func decodeLiteral(data json.RawMessage) (Literal, error) {
	tag, payload, err := variant(data)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "bool":
		var b bool
		if err := json.Unmarshal(payload, &b); err != nil {
			return nil, err
		}
		return &BoolLiteral{Value: b}, nil
	case "char":
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, err
		}
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) {
			return nil, fmt.Errorf("char literal must hold exactly one character, got %q", s)
		}
		return &CharLiteral{Value: r}, nil
	case "int":
		var n int32
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, err
		}
		return &IntLiteral{Value: n}, nil
	case "array":
		var raw struct {
			Elems    []json.RawMessage `json:"elems"`
			ElemType json.RawMessage   `json:"elem_type"`
		}
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, err
		}
		elems, err := decodeExprs(raw.Elems)
		if err != nil {
			return nil, err
		}
		t, err := DecodeType(raw.ElemType)
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{Elems: elems, ElemType: t}, nil
	case "tuple":
		var raw []json.RawMessage
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, err
		}
		elems, err := decodeExprs(raw)
		if err != nil {
			return nil, err
		}
		return &TupleLiteral{Elems: elems}, nil
	case "external_func":
		var raw struct {
			Name string          `json:"name"`
			Type json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, err
		}
		t, err := DecodeType(raw.Type)
		if err != nil {
			return nil, err
		}
		ft, ok := t.(types.Func)
		if !ok {
			return nil, fmt.Errorf("external func %q must have a function type, got %s", raw.Name, t)
		}
		return &ExternalFunc{Name: raw.Name, Type: ft}, nil
	default:
		return nil, fmt.Errorf("unknown literal tag %q", tag)
	}
}

func operatorBySymbol(sym string) (Operator, bool) {
	for op, s := range operatorSymbols {
		if s == sym {
			return Operator(op), true
		}
	}
	return 0, false
}

func encodeType(t types.Type) any {
	switch t := t.(type) {
	case types.Func:
		return map[string]any{"func": map[string]any{"params": encodeTypes(t.Params), "ret": encodeType(t.Ret)}}
	case types.Array:
		return map[string]any{"array": map[string]any{"elem": encodeType(t.Elem), "len": t.Len}}
	case types.Pointer:
		return map[string]any{"pointer": encodeType(t.Elem)}
	case types.Tuple:
		return map[string]any{"tuple": encodeTypes(t.Elems)}
	default:
		return t.String()
	}
}

func encodeTypes(ts []types.Type) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = encodeType(t)
	}
	return out
}

func encodeExprs(es []Expression) []any {
	out := make([]any, len(es))
	for i, e := range es {
		out[i] = encodeExpr(e)
	}
	return out
}

func encodeExpr(e Expression) any {
	switch e := e.(type) {
	case *Const:
		return map[string]any{"const": encodeLiteral(e.Value)}
	case *Let:
		return map[string]any{"let": map[string]any{
			"name": e.Name.Name(), "type": encodeType(e.Type),
			"init": encodeExpr(e.Init), "body": encodeExpr(e.Body),
		}}
	case *Var:
		return map[string]any{"var": e.Name.Name()}
	case *Load:
		return map[string]any{"load": encodeExpr(e.Addr)}
	case *Assign:
		return map[string]any{"assign": map[string]any{"addr": encodeExpr(e.Addr), "value": encodeExpr(e.Value)}}
	case *Call:
		return map[string]any{"call": map[string]any{"callee": encodeExpr(e.Callee), "args": encodeExprs(e.Args)}}
	case *If:
		return map[string]any{"if": map[string]any{
			"cond": encodeExpr(e.Cond), "then": encodeExpr(e.Then), "else": encodeExpr(e.Else),
		}}
	case *BinOp:
		return map[string]any{"binop": map[string]any{
			"op": e.Op.String(), "lhs": encodeExpr(e.Lhs), "rhs": encodeExpr(e.Rhs),
		}}
	case *ArrayAt:
		return map[string]any{"array_at": map[string]any{"base": encodeExpr(e.Base), "index": encodeExpr(e.Index)}}
	case *TupleAt:
		return map[string]any{"tuple_at": map[string]any{"base": encodeExpr(e.Base), "index": e.Index}}
	case *PrintNum:
		return map[string]any{"print_num": encodeExpr(e.Value)}
	default:
		panic(fmt.Sprintf("encodeExpr: unhandled expression %T", e))
	}
}

func encodeLiteral(lit Literal) any {
	switch l := lit.(type) {
	case *BoolLiteral:
		return map[string]any{"bool": l.Value}
	case *CharLiteral:
		return map[string]any{"char": string(l.Value)}
	case *IntLiteral:
		return map[string]any{"int": l.Value}
	case *ArrayLiteral:
		return map[string]any{"array": map[string]any{"elems": encodeExprs(l.Elems), "elem_type": encodeType(l.ElemType)}}
	case *TupleLiteral:
		return map[string]any{"tuple": encodeExprs(l.Elems)}
	case *ExternalFunc:
		return map[string]any{"external_func": map[string]any{"name": l.Name, "type": encodeType(l.Type)}}
	default:
		panic(fmt.Sprintf("encodeLiteral: unhandled literal %T", l))
	}
}
