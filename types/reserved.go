package types

var scalarTypeNames = []string{
	"void",
	"bool",
	"char",
	"int",
}

var scalarTypes = map[string]Type{
	"void": VoidType,
	"bool": BoolType,
	"char": CharType,
	"int":  IntType,
}

// ScalarTypeNames returns a copy of the names that denote scalar types in
// serialized NF.
func ScalarTypeNames() []string {
	return append([]string(nil), scalarTypeNames...)
}

// ScalarByName returns the scalar type spelled name, if any.
func ScalarByName(name string) (Type, bool) {
	t, ok := scalarTypes[name]
	return t, ok
}
