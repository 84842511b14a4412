package lambdacalc

import (
	"unicode/utf8"

	"golang.org/x/exp/slices"
)

// IdentifierTyper decides whether an identifier is a variable or a constant
// and what its type is. It holds a ranked list of rules; when more than one
// rule matches a name, the one added last wins. The parser clones its typer
// and adds rules as it reads explicit type annotations, so a binder's typed
// variable governs the binder's scope.
type IdentifierTyper struct {
	rules []typingRule
}

type typingRule struct {
	// lo and hi are the half-open range of first runes the rule covers. An
	// exact-name rule has hi == 0.
	lo, hi rune
	name   string
	isVar  bool
	typ    Type
}

func (r *typingRule) matches(name string) bool {
	if r.hi == 0 {
		return name == r.name
	}
	c, _ := utf8.DecodeRuneInString(name)
	return r.lo <= c && c < r.hi
}

// NewIdentifierTyper returns a typer with no rules.
func NewIdentifierTyper() *IdentifierTyper {
	return &IdentifierTyper{}
}

// DefaultConventions returns the usual typing conventions: lower case letters
// are constants of type e except u through z, which are variables of type e;
// p and q are constants of type t; w is a variable of type s; upper case
// letters are constants of type <e,t> except R and S of type <e×e,t>; X
// through Z are variables of type <e,t>.
func DefaultConventions() *IdentifierTyper {
	c := NewIdentifierTyper()
	c.AddRange('a', 'z'+1, false, E)
	c.AddRange('u', 'v'+1, true, E)
	c.AddRange('x', 'z'+1, true, E)
	c.AddRange('p', 'q'+1, false, T)
	c.AddRange('w', 'w'+1, true, S)
	c.AddRange('A', 'Z'+1, false, ET)
	c.AddRange('R', 'S'+1, false, NewComposite(NewProduct(E, E), T))
	c.AddRange('X', 'Z'+1, true, ET)
	return c
}

// AddRange adds a rule typing identifiers whose first rune is in [lo, hi).
func (c *IdentifierTyper) AddRange(lo, hi rune, isVar bool, t Type) {
	if hi <= lo {
		panic("lambdacalc: empty identifier range")
	}
	c.rules = append(c.rules, typingRule{lo: lo, hi: hi, isVar: isVar, typ: t})
}

// AddName adds a rule typing exactly the identifier name.
func (c *IdentifierTyper) AddName(name string, isVar bool, t Type) {
	c.rules = append(c.rules, typingRule{name: name, isVar: isVar, typ: t})
}

// AddExplicitTypes adopts a set of explicit type annotations, such as those
// gathered by CollectExplicitTypes, as rules. Whether each name is a variable
// follows the rules already present.
func (c *IdentifierTyper) AddExplicitTypes(types map[string]Type) {
	names := make([]string, 0, len(types))
	for k := range types {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		isVar, _, _ := c.Lookup(k)
		c.AddName(k, isVar, types[k])
	}
}

// Lookup finds the rule for name. ok is false if no rule matches.
func (c *IdentifierTyper) Lookup(name string) (isVar bool, t Type, ok bool) {
	for i := len(c.rules) - 1; i >= 0; i-- {
		r := &c.rules[i]
		if r.matches(name) {
			return r.isVar, r.typ, true
		}
	}
	return false, nil, false
}

// VariableFor returns the name of the most recently added range rule that
// makes variables of type t, or the empty string if there is none. The name is
// the first rune of the range.
func (c *IdentifierTyper) VariableFor(t Type) string {
	for i := len(c.rules) - 1; i >= 0; i-- {
		r := &c.rules[i]
		if r.isVar && r.hi != 0 && r.typ.Equal(t) {
			name := string(r.lo)
			// The name must not be shadowed by a later rule.
			if v, u, _ := c.Lookup(name); v && u.Equal(t) {
				return name
			}
		}
	}
	return ""
}

// Clone returns a copy of c which can be modified independently.
func (c *IdentifierTyper) Clone() *IdentifierTyper {
	return &IdentifierTyper{rules: slices.Clone(c.rules)}
}

// Len returns the number of rules.
func (c *IdentifierTyper) Len() int {
	return len(c.rules)
}

// truncate removes rules added after the typer had n rules.
func (c *IdentifierTyper) truncate(n int) {
	c.rules = c.rules[:n]
}
