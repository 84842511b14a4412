package lambdacalc

import "golang.org/x/exp/slices"

// Children returns the immediate subexpressions of e in order. A binder's
// variable is not among its children.
func Children(e Expr) []Expr {
	switch e := e.(type) {
	case *Binder:
		return []Expr{e.body}
	case *Binary:
		return []Expr{e.left, e.right}
	case *Unary:
		return []Expr{e.x}
	case *NAry:
		return slices.Clone(e.elems)
	default:
		return nil
	}
}

// rebuild returns a node like e with the given children. It returns e itself
// if no child changed.
func rebuild(e Expr, kids []Expr) Expr {
	switch e := e.(type) {
	case *Binder:
		if kids[0] == e.body {
			return e
		}
		return &Binder{op: e.op, v: e.v, body: kids[0]}
	case *Binary:
		if kids[0] == e.left && kids[1] == e.right {
			return e
		}
		return &Binary{op: e.op, left: kids[0], right: kids[1]}
	case *Unary:
		if kids[0] == e.x {
			return e
		}
		return &Unary{op: e.op, x: kids[0]}
	case *NAry:
		if slices.Equal(kids, e.elems) {
			return e
		}
		return &NAry{op: e.op, elems: kids}
	default:
		return e
	}
}

// Walk calls fn on e and its subexpressions in pre-order. If fn returns false,
// Walk does not descend into that node's children.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Walk(c, fn)
	}
}

// replace rebuilds e by calling fn on each node in pre-order. If fn reports
// that it replaced a node, replace does not descend into the replacement.
func replace(e Expr, fn func(Expr) (Expr, bool, error)) (Expr, error) {
	r, done, err := fn(e)
	if err != nil {
		return nil, err
	}
	if done {
		return r, nil
	}
	kids := Children(e)
	for i, c := range kids {
		kids[i], err = replace(c, fn)
		if err != nil {
			return nil, err
		}
	}
	return rebuild(e, kids), nil
}
