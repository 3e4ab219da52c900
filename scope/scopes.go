// Package scope provides the persistent environment shared by the type
// checker and the code generator.
//
// An Env is never mutated. Add returns a new Env that shares all untouched
// structure with its parent, so entering a scope is Add and leaving it is
// simply going back to the parent value, which is unaffected.
package scope

import "github.com/thiremani/nfc/ast"

type node[T any] struct {
	name        ast.Ident
	elem        T
	left, right *node[T]
	height      int
}

// Env is a persistent map from names to T. The zero value is an empty Env.
type Env[T any] struct {
	root *node[T]
	size int
}

func New[T any]() Env[T] {
	return Env[T]{}
}

// Add binds name to elem, shadowing any previous binding of name.
func (e Env[T]) Add(name ast.Ident, elem T) Env[T] {
	root, added := insert(e.root, name, elem)
	size := e.size
	if added {
		size++
	}
	return Env[T]{root: root, size: size}
}

// Lookup returns the most recent binding of name.
func (e Env[T]) Lookup(name ast.Ident) (T, bool) {
	n := e.root
	for n != nil {
		switch {
		case name == n.name:
			return n.elem, true
		case name.Less(n.name):
			n = n.left
		default:
			n = n.right
		}
	}
	var zero T
	return zero, false
}

// Len reports the number of distinct names bound.
func (e Env[T]) Len() int { return e.size }

func height[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.height
}

// withChildren returns a fresh copy of n carrying the given children.
func withChildren[T any](n *node[T], left, right *node[T]) *node[T] {
	return &node[T]{
		name:   n.name,
		elem:   n.elem,
		left:   left,
		right:  right,
		height: 1 + max(height(left), height(right)),
	}
}

func insert[T any](n *node[T], name ast.Ident, elem T) (*node[T], bool) {
	if n == nil {
		return &node[T]{name: name, elem: elem, height: 1}, true
	}
	switch {
	case name == n.name:
		c := withChildren(n, n.left, n.right)
		c.elem = elem
		return c, false
	case name.Less(n.name):
		left, added := insert(n.left, name, elem)
		return balance(withChildren(n, left, n.right)), added
	default:
		right, added := insert(n.right, name, elem)
		return balance(withChildren(n, n.left, right)), added
	}
}

// balance restores the AVL height invariant at n. Rotations always build new
// nodes, so subtrees shared with older Envs are never written.
func balance[T any](n *node[T]) *node[T] {
	diff := height(n.left) - height(n.right)
	switch {
	case diff > 1:
		l := n.left
		if height(l.left) < height(l.right) {
			l = rotateLeft(l)
		}
		return rotateRight(withChildren(n, l, n.right))
	case diff < -1:
		r := n.right
		if height(r.right) < height(r.left) {
			r = rotateRight(r)
		}
		return rotateLeft(withChildren(n, n.left, r))
	default:
		return n
	}
}

func rotateRight[T any](n *node[T]) *node[T] {
	l := n.left
	return withChildren(l, l.left, withChildren(n, l.right, n.right))
}

func rotateLeft[T any](n *node[T]) *node[T] {
	r := n.right
	return withChildren(r, withChildren(n, n.left, r.left), r.right)
}
