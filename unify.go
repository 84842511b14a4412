package lambdacalc

// MatchPair records how two types unify. Left maps the unification variables
// of the first type and Right maps those of the second. A value is either a
// type made concrete by the other side or a *TypeVar of the other side.
type MatchPair struct {
	Left  map[rune]Type
	Right map[rune]Type
}

// rightVarBase offsets the symbols of the second type's variables so that
// variables with the same name on different sides stay distinct.
const rightVarBase = 0xF0000

// Matches unifies a and b. If they do not unify directly, the unification is
// retried with the roles of the two types swapped. The result is nil if the
// types do not unify.
func Matches(a, b Type) *MatchPair {
	if m := match(a, b); m != nil {
		return m
	}
	m := match(b, a)
	if m == nil {
		return nil
	}
	m.Left, m.Right = m.Right, m.Left
	return m
}

func match(a, b Type) *MatchPair {
	u := unifier{subst: make(map[rune]Type)}
	rb := renameVars(b, rightVarBase)
	if !u.unify(a, rb) {
		return nil
	}
	m := &MatchPair{Left: make(map[rune]Type), Right: make(map[rune]Type)}
	for _, v := range typeVars(a) {
		m.Left[v] = unrenameVars(u.resolve(NewTypeVar(v)))
	}
	for _, v := range typeVars(b) {
		m.Right[v] = unrenameVars(u.resolve(NewTypeVar(v + rightVarBase)))
	}
	return m
}

// ResolveLeft replaces the first type's variables in t by their mappings.
func (m *MatchPair) ResolveLeft(t Type) Type {
	return substTypeVars(t, m.Left)
}

// ResolveRight replaces the second type's variables in t by their mappings.
func (m *MatchPair) ResolveRight(t Type) Type {
	return substTypeVars(t, m.Right)
}

type unifier struct {
	subst map[rune]Type
}

// walk follows variable bindings until reaching an unbound variable or a
// non-variable type.
func (u *unifier) walk(t Type) Type {
	for {
		v, ok := t.(*TypeVar)
		if !ok {
			return t
		}
		b, ok := u.subst[v.sym]
		if !ok {
			return t
		}
		t = b
	}
}

func (u *unifier) unify(a, b Type) bool {
	a, b = u.walk(a), u.walk(b)
	if av, ok := a.(*TypeVar); ok {
		if bv, ok := b.(*TypeVar); ok && bv.sym == av.sym {
			return true
		}
		if u.occurs(av.sym, b) {
			return false
		}
		u.subst[av.sym] = b
		return true
	}
	if _, ok := b.(*TypeVar); ok {
		return u.unify(b, a)
	}
	switch a := a.(type) {
	case *Atomic:
		return a.Equal(b)
	case *Composite:
		o, ok := b.(*Composite)
		return ok && u.unify(a.left, o.left) && u.unify(a.right, o.right)
	case *Product:
		o, ok := b.(*Product)
		if !ok || len(o.subs) != len(a.subs) {
			return false
		}
		for i := range a.subs {
			if !u.unify(a.subs[i], o.subs[i]) {
				return false
			}
		}
		return true
	default:
		panic("lambdacalc: unknown type " + a.String())
	}
}

func (u *unifier) occurs(v rune, t Type) bool {
	switch t := u.walk(t).(type) {
	case *TypeVar:
		return t.sym == v
	case *Composite:
		return u.occurs(v, t.left) || u.occurs(v, t.right)
	case *Product:
		for _, s := range t.subs {
			if u.occurs(v, s) {
				return true
			}
		}
	}
	return false
}

// resolve applies the substitution to t completely.
func (u *unifier) resolve(t Type) Type {
	switch t := u.walk(t).(type) {
	case *Composite:
		return NewComposite(u.resolve(t.left), u.resolve(t.right))
	case *Product:
		subs := make([]Type, len(t.subs))
		for i, s := range t.subs {
			subs[i] = u.resolve(s)
		}
		return &Product{subs: subs}
	default:
		return t
	}
}

// typeVars lists the distinct variable symbols of t in order of appearance.
func typeVars(t Type) []rune {
	var vs []rune
	var walk func(Type)
	walk = func(t Type) {
		switch t := t.(type) {
		case *TypeVar:
			for _, v := range vs {
				if v == t.sym {
					return
				}
			}
			vs = append(vs, t.sym)
		case *Composite:
			walk(t.left)
			walk(t.right)
		case *Product:
			for _, s := range t.subs {
				walk(s)
			}
		}
	}
	walk(t)
	return vs
}

// renameVars shifts every variable symbol in t by d.
func renameVars(t Type, d rune) Type {
	switch t := t.(type) {
	case *TypeVar:
		return NewTypeVar(t.sym + d)
	case *Composite:
		return NewComposite(renameVars(t.left, d), renameVars(t.right, d))
	case *Product:
		subs := make([]Type, len(t.subs))
		for i, s := range t.subs {
			subs[i] = renameVars(s, d)
		}
		return &Product{subs: subs}
	default:
		return t
	}
}

// unrenameVars undoes renameVars for the second type's variables.
func unrenameVars(t Type) Type {
	m := make(map[rune]Type)
	for _, v := range typeVars(t) {
		if v >= rightVarBase {
			m[v] = NewTypeVar(v - rightVarBase)
		}
	}
	return substTypeVars(t, m)
}

func substTypeVars(t Type, m map[rune]Type) Type {
	switch t := t.(type) {
	case *TypeVar:
		if r, ok := m[t.sym]; ok {
			return r
		}
		return t
	case *Composite:
		return NewComposite(substTypeVars(t.left, m), substTypeVars(t.right, m))
	case *Product:
		subs := make([]Type, len(t.subs))
		for i, s := range t.subs {
			subs[i] = substTypeVars(s, m)
		}
		return &Product{subs: subs}
	default:
		return t
	}
}
