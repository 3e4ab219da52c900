package ast

import "unique"

// Ident is an interned name. Two Idents are equal exactly when their names
// are equal, so they can be compared with == and used as map keys.
type Ident struct {
	h unique.Handle[string]
}

func NewIdent(name string) Ident {
	return Ident{h: unique.Make(name)}
}

func (i Ident) Name() string {
	var zero unique.Handle[string]
	if i.h == zero {
		return ""
	}
	return i.h.Value()
}

func (i Ident) String() string { return i.Name() }

// Less orders identifiers by name.
func (i Ident) Less(j Ident) bool { return i.Name() < j.Name() }
