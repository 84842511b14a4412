package lambdacalc

import (
	"strings"

	"github.com/hashicorp/go-set/v2"
	"golang.org/x/exp/slices"
)

// binding returns the variable e binds and the subexpressions in its scope.
// Binders bind their variable in their body. A set builder whose template is
// a variable binds it in the condition. Other nodes bind nothing.
func binding(e Expr) (*Ident, bool) {
	switch e := e.(type) {
	case *Binder:
		return e.v, true
	case *Binary:
		if e.op != SetWithGenerator {
			return nil, false
		}
		if v, ok := unparen(e.left).(*Ident); ok && !v.constant {
			return v, true
		}
	}
	return nil, false
}

// FreeVariables returns the variables with free occurrences in e, sorted by
// name and then by type.
func FreeVariables(e Expr) []*Ident {
	found := make(map[varKey]*Ident)
	freeVars(e, make(map[varKey]int), found)
	r := make([]*Ident, 0, len(found))
	for _, v := range found {
		r = append(r, v)
	}
	slices.SortFunc(r, func(a, b *Ident) int {
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		return strings.Compare(a.typ.String(), b.typ.String())
	})
	return r
}

func freeVars(e Expr, bound map[varKey]int, found map[varKey]*Ident) {
	switch x := e.(type) {
	case *Ident:
		if x.constant {
			return
		}
		k := x.key()
		if bound[k] == 0 {
			if _, ok := found[k]; !ok {
				found[k] = x
			}
		}
		return
	}
	if v, ok := binding(e); ok {
		k := v.key()
		bound[k]++
		defer func() { bound[k]-- }()
	}
	for _, c := range Children(e) {
		freeVars(c, bound, found)
	}
}

// freeVarKeys returns the set of free variables in e.
func freeVarKeys(e Expr) *set.Set[varKey] {
	vs := FreeVariables(e)
	s := set.New[varKey](len(vs))
	for _, v := range vs {
		s.Insert(v.key())
	}
	return s
}

// VariablesInUse returns the names of all identifiers in e, bound, free, or
// constant.
func VariablesInUse(e Expr) *set.Set[string] {
	s := set.New[string](0)
	Walk(e, func(e Expr) bool {
		switch x := e.(type) {
		case *Ident:
			s.Insert(x.name)
		case *Binder:
			s.Insert(x.v.name)
		case *MeaningBracket:
			for _, v := range x.g.Vars() {
				s.Insert(v.name)
			}
		}
		return true
	})
	return s
}

// FreshVariable returns a variable named like v, with as many primes added
// as needed to avoid every name in inUse.
func FreshVariable(v *Ident, inUse *set.Set[string]) *Ident {
	name := v.name + "'"
	for inUse.Contains(name) {
		name += "'"
	}
	r := *v
	r.name = name
	return &r
}
