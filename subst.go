package lambdacalc

import (
	"github.com/hashicorp/go-set/v2"
)

// substitution replaces free occurrences of a variable with an expression.
type substitution struct {
	v   varKey
	arg Expr
	// unbound holds the names of the free variables of arg.
	unbound *set.Set[string]
	// accidental collects the binding nodes that would capture a free
	// variable of arg.
	accidental *set.Set[Expr]
}

// walk substitutes in e. potential holds the enclosing binding nodes whose
// variables are free in arg; they capture only if an occurrence of v is
// found beneath them.
func (s *substitution) walk(e Expr, potential []Expr) Expr {
	if x, ok := e.(*Ident); ok {
		if !x.constant && x.key() == s.v {
			for _, b := range potential {
				s.accidental.Insert(b)
			}
			return s.arg
		}
		return x
	}
	if bv, ok := binding(e); ok {
		if bv.key() == s.v {
			// No free occurrences below.
			return e
		}
		if s.unbound.Contains(bv.name) {
			potential = append(potential[:len(potential):len(potential)], e)
		}
	}
	kids := Children(e)
	for i, c := range kids {
		kids[i] = s.walk(c, potential)
	}
	return rebuild(e, kids)
}

// Substitute replaces the free occurrences of v in e with arg. If arg has a
// free variable that a binder in e would capture, those binders are first
// renamed to fresh variables avoiding the names in inUse and in e and arg.
// inUse may be nil.
func Substitute(e Expr, v *Ident, arg Expr, inUse *set.Set[string]) Expr {
	unbound := set.New[string](0)
	for _, u := range FreeVariables(arg) {
		unbound.Insert(u.name)
	}
	for {
		s := substitution{v: v.key(), arg: arg, unbound: unbound, accidental: set.New[Expr](0)}
		r := s.walk(e, nil)
		if s.accidental.Size() == 0 {
			return r
		}
		used := VariablesInUse(arg)
		if inUse != nil {
			used.InsertSet(inUse)
		}
		e = CreateAlphabeticalVariant(e, s.accidental.Slice(), used)
	}
}

// captures returns the binding nodes in e that would capture a free variable
// of arg if arg were substituted for v.
func captures(e Expr, v *Ident, arg Expr) []Expr {
	unbound := set.New[string](0)
	for _, u := range FreeVariables(arg) {
		unbound.Insert(u.name)
	}
	s := substitution{v: v.key(), arg: arg, unbound: unbound, accidental: set.New[Expr](0)}
	s.walk(e, nil)
	return s.accidental.Slice()
}

// CreateAlphabeticalVariant renames the variables of the given binding nodes
// in e, which are binders or set builders, to fresh variables. A fresh
// variable is the old name plus primes, avoiding inUse and every name in e.
// inUse may be nil.
func CreateAlphabeticalVariant(e Expr, binders []Expr, inUse *set.Set[string]) Expr {
	used := VariablesInUse(e)
	if inUse != nil {
		used.InsertSet(inUse)
	}
	return alphaVary(e, set.From(binders), used)
}

func alphaVary(e Expr, targets *set.Set[Expr], used *set.Set[string]) Expr {
	kids := Children(e)
	for i, c := range kids {
		kids[i] = alphaVary(c, targets, used)
	}
	r := rebuild(e, kids)
	if !targets.Contains(e) {
		return r
	}
	v, ok := binding(e)
	if !ok {
		panic("lambdacalc: alphabetical variant of non-binding node")
	}
	fresh := FreshVariable(v, used)
	used.Insert(fresh.name)
	switch r := r.(type) {
	case *Binder:
		return &Binder{op: r.op, v: fresh, body: rename(r.body, v, fresh)}
	case *Binary:
		return &Binary{op: r.op, left: rename(r.left, v, fresh), right: rename(r.right, v, fresh)}
	default:
		panic("lambdacalc: alphabetical variant of non-binding node")
	}
}

// rename replaces free occurrences of v with fresh, which must not occur in
// e.
func rename(e Expr, v, fresh *Ident) Expr {
	s := substitution{v: v.key(), arg: fresh, unbound: set.New[string](0), accidental: set.New[Expr](0)}
	return s.walk(e, nil)
}
