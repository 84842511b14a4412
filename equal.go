package lambdacalc

// Equal reports whether a and b are the same expression, ignoring brackets.
func Equal(a, b Expr) bool {
	return newEquiv(false, false).eq(a, b)
}

// AlphaEquivalent reports whether a and b are the same expression up to
// consistent renaming of bound variables.
func AlphaEquivalent(a, b Expr) bool {
	return newEquiv(true, false).eq(a, b)
}

// OperatorEquivalent reports whether a and b have the same structure of
// operators, treating any two identifiers as equal. It is meant for
// diagnosing mistakes, not for checking answers.
func OperatorEquivalent(a, b Expr) bool {
	return newEquiv(true, true).eq(a, b)
}

// equiv compares expressions. With collapseBound, bound variables compare by
// the binder pair that binds them. Each binder pair gets a marker from next,
// which is pushed on a stack for the variable on each side.
type equiv struct {
	collapseBound bool
	collapseAll   bool
	next          int
	left, right   map[varKey][]int
}

func newEquiv(collapseBound, collapseAll bool) *equiv {
	return &equiv{
		collapseBound: collapseBound,
		collapseAll:   collapseAll,
		left:          make(map[varKey][]int),
		right:         make(map[varKey][]int),
	}
}

func top(m map[varKey][]int, k varKey) (int, bool) {
	s := m[k]
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// bind runs f with a and b bound to the same fresh marker.
func (q *equiv) bind(a, b *Ident, f func() bool) bool {
	if !q.collapseBound {
		return sameIdent(a, b) && f()
	}
	if !q.collapseAll && (a.constant != b.constant || !a.typ.Equal(b.typ)) {
		return false
	}
	q.next++
	ka, kb := a.key(), b.key()
	q.left[ka] = append(q.left[ka], q.next)
	q.right[kb] = append(q.right[kb], q.next)
	r := f()
	q.left[ka] = q.left[ka][:len(q.left[ka])-1]
	q.right[kb] = q.right[kb][:len(q.right[kb])-1]
	return r
}

func (q *equiv) ident(a, b *Ident) bool {
	if q.collapseAll {
		return true
	}
	if !q.collapseBound {
		return sameIdent(a, b)
	}
	ma, la := top(q.left, a.key())
	mb, lb := top(q.right, b.key())
	if la || lb {
		return la && lb && ma == mb
	}
	return sameIdent(a, b)
}

func (q *equiv) eq(a, b Expr) bool {
	a, b = unparen(a), unparen(b)
	switch a := a.(type) {
	case *Ident:
		o, ok := b.(*Ident)
		return ok && q.ident(a, o)
	case *Binder:
		o, ok := b.(*Binder)
		if !ok || a.op != o.op {
			return false
		}
		return q.bind(a.v, o.v, func() bool { return q.eq(a.body, o.body) })
	case *Binary:
		o, ok := b.(*Binary)
		if !ok || a.op != o.op {
			return false
		}
		va, ba := binding(a)
		vb, bb := binding(o)
		if ba && bb {
			// {x | P(x)}
			return q.bind(va, vb, func() bool { return q.eq(a.left, o.left) && q.eq(a.right, o.right) })
		}
		return q.eq(a.left, o.left) && q.eq(a.right, o.right)
	case *Unary:
		o, ok := b.(*Unary)
		return ok && a.op == o.op && q.eq(a.x, o.x)
	case *NAry:
		o, ok := b.(*NAry)
		if !ok || a.op != o.op || len(a.elems) != len(o.elems) {
			return false
		}
		for i := range a.elems {
			if !q.eq(a.elems[i], o.elems[i]) {
				return false
			}
		}
		return true
	case *GApp:
		o, ok := b.(*GApp)
		return ok && a.index == o.index && a.typ.Equal(o.typ)
	case *MeaningBracket:
		o, ok := b.(*MeaningBracket)
		return ok && a.node == o.node && a.g.Equal(o.g)
	default:
		panic("lambdacalc: unknown expression")
	}
}
