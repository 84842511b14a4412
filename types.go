package lambdacalc

import (
	"strings"

	"github.com/unixpickle/serializer"
)

// Type is the semantic type of an expression. The variants are *Atomic,
// *Composite, *Product, and *TypeVar. Types are immutable and compare
// structurally with Equal.
type Type interface {
	// String renders the type in its bracketed form, e.g. <e,<e,t>>.
	String() string
	// ShortString renders the type without brackets and commas between
	// atomic types, e.g. <e,et>.
	ShortString() string
	// Equal reports whether two types are structurally equal.
	Equal(Type) bool

	serializer.Serializer
	fmtShort(b *strings.Builder, top bool)
}

// Atomic is a basic type named by a single symbol, such as e or t.
type Atomic struct {
	sym rune
}

// Composite is the type <Domain,Range> of functions.
type Composite struct {
	left, right Type
}

// Product is the type of a tuple, e.g. e×e.
type Product struct {
	subs []Type
}

// TypeVar is a unification variable, written as an upper-case letter.
type TypeVar struct {
	sym rune
}

// The atomic types used by the default typing conventions.
var (
	// E is the type of entities.
	E = NewAtomic('e')
	// T is the type of truth values.
	T = NewAtomic('t')
	// S is the type of possible worlds.
	S = NewAtomic('s')
	// N is the type of numbers, as produced by cardinality.
	N = NewAtomic('n')
	// ET is the type <e,t> of one-place predicates.
	ET = NewComposite(E, T)
)

// NewAtomic returns the atomic type named by sym.
func NewAtomic(sym rune) *Atomic {
	return &Atomic{sym: sym}
}

// NewComposite returns the function type <domain,rng>.
func NewComposite(domain, rng Type) *Composite {
	if domain == nil || rng == nil {
		panic("lambdacalc: composite type with nil component")
	}
	return &Composite{left: domain, right: rng}
}

// NewProduct returns the product of two or more types.
func NewProduct(subs ...Type) *Product {
	if len(subs) < 2 {
		panic("lambdacalc: product type needs at least two subtypes")
	}
	return &Product{subs: append([]Type(nil), subs...)}
}

// NewTypeVar returns the unification variable named by sym.
func NewTypeVar(sym rune) *TypeVar {
	return &TypeVar{sym: sym}
}

// Symbol returns the type's name.
func (t *Atomic) Symbol() rune { return t.sym }

// Symbol returns the variable's name.
func (t *TypeVar) Symbol() rune { return t.sym }

// Domain returns the type of the function's argument.
func (t *Composite) Domain() Type { return t.left }

// Range returns the type of the function's result.
func (t *Composite) Range() Type { return t.right }

// Arity returns the number of subtypes.
func (t *Product) Arity() int { return len(t.subs) }

// Subtypes returns a copy of the product's components.
func (t *Product) Subtypes() []Type { return append([]Type(nil), t.subs...) }

func (t *Atomic) String() string  { return string(t.sym) }
func (t *TypeVar) String() string { return string(t.sym) }

func (t *Composite) String() string {
	return "<" + t.left.String() + "," + t.right.String() + ">"
}

func (t *Product) String() string {
	var b strings.Builder
	for i, s := range t.subs {
		if i > 0 {
			b.WriteRune('×')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

func (t *Atomic) ShortString() string    { return t.String() }
func (t *TypeVar) ShortString() string   { return t.String() }
func (t *Composite) ShortString() string { return shortString(t) }
func (t *Product) ShortString() string   { return shortString(t) }

func shortString(t Type) string {
	var b strings.Builder
	t.fmtShort(&b, true)
	return b.String()
}

func (t *Atomic) fmtShort(b *strings.Builder, top bool)  { b.WriteRune(t.sym) }
func (t *TypeVar) fmtShort(b *strings.Builder, top bool) { b.WriteRune(t.sym) }

func (t *Composite) fmtShort(b *strings.Builder, top bool) {
	if simpleType(t.left) && simpleType(t.right) {
		t.left.fmtShort(b, false)
		t.right.fmtShort(b, false)
		return
	}
	b.WriteByte('<')
	t.left.fmtShort(b, false)
	b.WriteByte(',')
	t.right.fmtShort(b, false)
	b.WriteByte('>')
}

func (t *Product) fmtShort(b *strings.Builder, top bool) {
	for i, s := range t.subs {
		if i > 0 {
			b.WriteRune('×')
		}
		// Short composites next to a product sign would read ambiguously.
		if c, ok := s.(*Composite); ok {
			b.WriteString(c.String())
			continue
		}
		s.fmtShort(b, false)
	}
}

// simpleType reports whether t is written as a single symbol.
func simpleType(t Type) bool {
	switch t.(type) {
	case *Atomic, *TypeVar:
		return true
	}
	return false
}

func (t *Atomic) Equal(u Type) bool {
	o, ok := u.(*Atomic)
	return ok && o.sym == t.sym
}

func (t *TypeVar) Equal(u Type) bool {
	o, ok := u.(*TypeVar)
	return ok && o.sym == t.sym
}

func (t *Composite) Equal(u Type) bool {
	o, ok := u.(*Composite)
	return ok && t.left.Equal(o.left) && t.right.Equal(o.right)
}

func (t *Product) Equal(u Type) bool {
	o, ok := u.(*Product)
	if !ok || len(o.subs) != len(t.subs) {
		return false
	}
	for i, s := range t.subs {
		if !s.Equal(o.subs[i]) {
			return false
		}
	}
	return true
}

// hasTypeVars reports whether t mentions any unification variable.
func hasTypeVars(t Type) bool {
	switch t := t.(type) {
	case *TypeVar:
		return true
	case *Composite:
		return hasTypeVars(t.left) || hasTypeVars(t.right)
	case *Product:
		for _, s := range t.subs {
			if hasTypeVars(s) {
				return true
			}
		}
	}
	return false
}

var (
	_ Type = (*Atomic)(nil)
	_ Type = (*Composite)(nil)
	_ Type = (*Product)(nil)
	_ Type = (*TypeVar)(nil)
)
