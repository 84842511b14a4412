package lambdacalc

import (
	"fmt"

	"github.com/hashicorp/go-set/v2"
)

// GApp is g(i), the variable an assignment function gives index i. It stands
// for a trace or pronoun until the assignment is known.
type GApp struct {
	index int
	typ   Type
}

// NewGApp returns g(index) with the given type.
func NewGApp(index int, t Type) *GApp {
	return &GApp{index: index, typ: t}
}

// Index returns the assignment index.
func (x *GApp) Index() int { return x.index }

func (x *GApp) Type() (Type, error) { return x.typ, nil }
func (x *GApp) Precedence() int     { return 1 }

// Denotable is a node of a logical form whose meaning can be computed.
type Denotable interface {
	fmt.Stringer
	// Denote computes the fully simplified meaning of the node under g.
	Denote(g Assignment) (Expr, error)
	// DenotationType computes the type of the node's meaning under g.
	DenotationType(g Assignment) (Type, error)
}

// MeaningBracket is ⟦node⟧^g, the meaning of a logical form node under an
// assignment, not yet computed. It lets a composition rule build an
// expression over the meanings of a node's children before they are reduced.
type MeaningBracket struct {
	node Denotable
	g    Assignment
}

// NewMeaningBracket returns ⟦node⟧^g.
func NewMeaningBracket(node Denotable, g Assignment) *MeaningBracket {
	return &MeaningBracket{node: node, g: g}
}

// Node returns the bracketed node.
func (x *MeaningBracket) Node() Denotable { return x.node }

// Assignment returns the assignment the node is evaluated under.
func (x *MeaningBracket) Assignment() Assignment { return x.g }

func (x *MeaningBracket) Type() (Type, error) { return x.node.DenotationType(x.g) }
func (x *MeaningBracket) Precedence() int     { return 0 }

// ResolveGApps replaces each g(i) in e by the variable g assigns to i. Indices
// g does not map are left alone. A binder in e that would capture one of those
// variables is first renamed to a fresh variable.
func ResolveGApps(e Expr, g Assignment) Expr {
	if g.Len() == 0 {
		return e
	}
	used := set.New[string](g.Len())
	for _, v := range g.Vars() {
		used.Insert(v.name)
	}
	for {
		found := set.New[Expr](0)
		gappCaptures(e, g, nil, found)
		if found.Size() == 0 {
			break
		}
		e = CreateAlphabeticalVariant(e, found.Slice(), used)
	}
	r, _ := replace(e, func(e Expr) (Expr, bool, error) {
		x, ok := e.(*GApp)
		if !ok {
			return e, false, nil
		}
		if v, ok := g.Lookup(x.index); ok {
			return v, true, nil
		}
		return e, true, nil
	})
	return r
}

// gappCaptures collects into found the binding nodes of e that bind the name of
// a variable g assigns to some g(i) beneath them.
func gappCaptures(e Expr, g Assignment, enclosing []Expr, found *set.Set[Expr]) {
	if x, ok := e.(*GApp); ok {
		v, ok := g.Lookup(x.index)
		if !ok {
			return
		}
		for _, b := range enclosing {
			if bv, _ := binding(b); bv.name == v.name {
				found.Insert(b)
			}
		}
		return
	}
	if _, ok := binding(e); ok {
		enclosing = append(enclosing[:len(enclosing):len(enclosing)], e)
	}
	for _, c := range Children(e) {
		gappCaptures(c, g, enclosing, found)
	}
}

// ReplaceAllMeaningBrackets replaces every meaning bracket in e by the meaning
// of its node under its own assignment.
func ReplaceAllMeaningBrackets(e Expr) (Expr, error) {
	return replace(e, func(e Expr) (Expr, bool, error) {
		x, ok := e.(*MeaningBracket)
		if !ok {
			return e, false, nil
		}
		m, err := x.node.Denote(x.g)
		if err != nil {
			return nil, false, err
		}
		m, err = ReplaceAllMeaningBrackets(m)
		if err != nil {
			return nil, false, err
		}
		return m, true, nil
	})
}

// HasMeaningBrackets reports whether e contains a meaning bracket.
func HasMeaningBrackets(e Expr) bool {
	found := false
	Walk(e, func(e Expr) bool {
		if _, ok := e.(*MeaningBracket); ok {
			found = true
		}
		return !found
	})
	return found
}
