package lambdacalc

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Assignment is an assignment function g, a finite map from indices to
// variables. Assignments are values: With returns a new assignment and never
// changes the receiver. The zero value is the empty assignment.
type Assignment struct {
	m map[int]*Ident
}

// With returns an assignment like g except that index i maps to v.
func (g Assignment) With(i int, v *Ident) Assignment {
	m := make(map[int]*Ident, len(g.m)+1)
	for k, x := range g.m {
		m[k] = x
	}
	m[i] = v
	return Assignment{m: m}
}

// Lookup returns the variable at index i.
func (g Assignment) Lookup(i int) (*Ident, bool) {
	v, ok := g.m[i]
	return v, ok
}

// Len returns the number of indices g maps.
func (g Assignment) Len() int {
	return len(g.m)
}

// Indices returns the indices g maps in increasing order.
func (g Assignment) Indices() []int {
	r := make([]int, 0, len(g.m))
	for k := range g.m {
		r = append(r, k)
	}
	slices.Sort(r)
	return r
}

// Vars returns the variables g maps to, in order of their indices.
func (g Assignment) Vars() []*Ident {
	idx := g.Indices()
	r := make([]*Ident, len(idx))
	for i, k := range idx {
		r[i] = g.m[k]
	}
	return r
}

// Equal reports whether g and h map the same indices to the same variables.
func (g Assignment) Equal(h Assignment) bool {
	if len(g.m) != len(h.m) {
		return false
	}
	for k, v := range g.m {
		u, ok := h.m[k]
		if !ok || !sameIdent(u, v) {
			return false
		}
	}
	return true
}

// String renders g as g or g[1→x, 2→y].
func (g Assignment) String() string {
	return g.format(false)
}

func (g Assignment) format(ascii bool) string {
	if len(g.m) == 0 {
		return "g"
	}
	arrow := "→"
	if ascii {
		arrow = "->"
	}
	var b strings.Builder
	b.WriteString("g[")
	for i, k := range g.Indices() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(k))
		b.WriteString(arrow)
		b.WriteString(g.m[k].name)
	}
	b.WriteByte(']')
	return b.String()
}
