package lambdacalc

import (
	"strings"

	"github.com/unixpickle/serializer"
	"golang.org/x/exp/slices"
)

// Expr is a node of an immutable typed lambda calculus expression. The
// variants are *Ident, *Binder, *Binary, *Unary, *NAry, *GApp, and
// *MeaningBracket. Operations on expressions always build new trees.
type Expr interface {
	// Type evaluates the type of the expression. The result is an error
	// matching ErrType if the expression is ill-typed.
	Type() (Type, error)
	// Precedence is used to decide when a subexpression needs brackets.
	// Lower values bind more tightly.
	Precedence() int
	// String renders the expression with unicode symbols and explicit type
	// annotations. The result parses back to an equivalent expression.
	String() string
	// ASCIIString is like String but uses the ASCII spellings of binders and
	// connectives.
	ASCIIString() string
	// DisplayString renders the expression for reading, without explicit
	// type annotations.
	DisplayString() string

	serializer.Serializer
	format(b *strings.Builder, f formatter)
}

// Ident is a variable or constant with a type.
type Ident struct {
	name     string
	typ      Type
	constant bool
	explicit bool
}

// BinderOp identifies the kind of a Binder.
type BinderOp int8

const (
	binderNone BinderOp = iota
	Lambda
	ForAll
	Exists
	Iota
	Gamma
)

// Binder binds a variable in a body: λ, ∀, ∃, ι, or γ. Its identifier may be
// a constant, which is an error reported by Type.
type Binder struct {
	op   BinderOp
	v    *Ident
	body Expr
}

// BinaryOp identifies the kind of a Binary.
type BinaryOp int8

const (
	binaryNone BinaryOp = iota
	// FunApp applies the left expression to the right.
	FunApp
	And
	Or
	If
	Iff
	Equality
	Multiplication
	// SetWithGenerator is {left | right}, the set of left such that right.
	SetWithGenerator
)

// Binary is a node with two children.
type Binary struct {
	op          BinaryOp
	left, right Expr
}

// UnaryOp identifies the kind of a Unary.
type UnaryOp int8

const (
	unaryNone UnaryOp = iota
	Not
	// Parens records brackets written in the source.
	Parens
	Cardinality
)

// Unary is a node with one child.
type Unary struct {
	op UnaryOp
	x  Expr
}

// NAryOp identifies the kind of an NAry.
type NAryOp int8

const (
	naryNone NAryOp = iota
	// ArgList is the tuple of arguments in P(a,b).
	ArgList
	// SetWithElements is a set literal {a,b}.
	SetWithElements
)

// NAry is a node with a sequence of children.
type NAry struct {
	op    NAryOp
	elems []Expr
}

// NewVar returns a variable.
func NewVar(name string, t Type) *Ident {
	return &Ident{name: name, typ: t}
}

// NewConst returns a constant.
func NewConst(name string, t Type) *Ident {
	return &Ident{name: name, typ: t, constant: true}
}

// WithExplicitType returns a copy of the identifier marked as annotated with
// its type in the source text.
func (id *Ident) WithExplicitType() *Ident {
	c := *id
	c.explicit = true
	return &c
}

// Name returns the identifier's name.
func (id *Ident) Name() string { return id.name }

// DeclaredType returns the identifier's type.
func (id *Ident) DeclaredType() Type { return id.typ }

// IsVar reports whether the identifier is a variable.
func (id *Ident) IsVar() bool { return !id.constant }

// ExplicitType reports whether the identifier was written with a type.
func (id *Ident) ExplicitType() bool { return id.explicit }

func (id *Ident) Type() (Type, error) { return id.typ, nil }
func (id *Ident) Precedence() int     { return 1 }

// varKey identifies a variable: two identifiers are the same variable when
// they have the same name and type.
type varKey struct {
	name, typ string
}

func (id *Ident) key() varKey {
	return varKey{name: id.name, typ: id.typ.String()}
}

// sameIdent reports plain equality of identifiers, ignoring explicitness.
func sameIdent(a, b *Ident) bool {
	return a.name == b.name && a.constant == b.constant && a.typ.Equal(b.typ)
}

// NewBinder returns a binder expression.
func NewBinder(op BinderOp, v *Ident, body Expr) *Binder {
	if op <= binderNone || op > Gamma {
		panic("lambdacalc: invalid binder op")
	}
	return &Binder{op: op, v: v, body: body}
}

// NewLambda returns λv.body.
func NewLambda(v *Ident, body Expr) *Binder { return NewBinder(Lambda, v, body) }

// NewForAll returns ∀v.body.
func NewForAll(v *Ident, body Expr) *Binder { return NewBinder(ForAll, v, body) }

// NewExists returns ∃v.body.
func NewExists(v *Ident, body Expr) *Binder { return NewBinder(Exists, v, body) }

// NewIota returns ιv.body, the unique v such that body.
func NewIota(v *Ident, body Expr) *Binder { return NewBinder(Iota, v, body) }

// Op returns the binder's kind.
func (b *Binder) Op() BinderOp { return b.op }

// Var returns the bound identifier.
func (b *Binder) Var() *Ident { return b.v }

// Body returns the binder's scope.
func (b *Binder) Body() Expr { return b.body }

func (b *Binder) Precedence() int { return 4 }

func (b *Binder) Type() (Type, error) {
	if b.v.constant {
		return nil, &TypeError{Expr: b, Msg: "binder over constant " + b.v.name}
	}
	bt, err := b.body.Type()
	if err != nil {
		return nil, err
	}
	switch b.op {
	case Lambda, Gamma:
		return NewComposite(b.v.typ, bt), nil
	case ForAll, Exists:
		if !bt.Equal(T) {
			return nil, &TypeMismatchError{Expr: b.body, What: "scope of " + b.op.String(), Want: T, Got: bt}
		}
		return T, nil
	case Iota:
		if !bt.Equal(T) {
			return nil, &TypeMismatchError{Expr: b.body, What: "scope of ι", Want: T, Got: bt}
		}
		return b.v.typ, nil
	default:
		panic("lambdacalc: invalid binder op")
	}
}

// NewBinary returns a binary expression.
func NewBinary(op BinaryOp, left, right Expr) *Binary {
	if op <= binaryNone || op > SetWithGenerator {
		panic("lambdacalc: invalid binary op")
	}
	return &Binary{op: op, left: left, right: right}
}

// NewFunApp returns the application of f to arg.
func NewFunApp(f, arg Expr) *Binary { return NewBinary(FunApp, f, arg) }

// NewAnd returns l ∧ r.
func NewAnd(l, r Expr) *Binary { return NewBinary(And, l, r) }

// NewOr returns l ∨ r.
func NewOr(l, r Expr) *Binary { return NewBinary(Or, l, r) }

// NewIf returns l → r.
func NewIf(l, r Expr) *Binary { return NewBinary(If, l, r) }

// NewIff returns l ↔ r.
func NewIff(l, r Expr) *Binary { return NewBinary(Iff, l, r) }

// NewEquality returns l = r.
func NewEquality(l, r Expr) *Binary { return NewBinary(Equality, l, r) }

// Op returns the node's kind.
func (b *Binary) Op() BinaryOp { return b.op }

// Left returns the left child, which is the function of a FunApp.
func (b *Binary) Left() Expr { return b.left }

// Right returns the right child, which is the argument of a FunApp.
func (b *Binary) Right() Expr { return b.right }

func (b *Binary) Precedence() int {
	switch b.op {
	case FunApp:
		if bl, ok := unparen(b.left).(*Binder); ok && bl.op == Lambda {
			return 8
		}
		if fl, ok := b.left.(*Binary); ok && fl.op == FunApp && fl.Precedence() >= 7 {
			return 7
		}
		return 2
	case And, Or, Multiplication:
		return 5
	case If, Iff, Equality:
		return 6
	case SetWithGenerator:
		return 0
	default:
		panic("lambdacalc: invalid binary op")
	}
}

func (b *Binary) Type() (Type, error) {
	lt, err := b.left.Type()
	if err != nil {
		return nil, err
	}
	rt, err := b.right.Type()
	if err != nil {
		return nil, err
	}
	switch b.op {
	case FunApp:
		f, ok := lt.(*Composite)
		if !ok {
			return nil, &TypeMismatchError{Expr: b.left, What: "function", Got: lt}
		}
		if f.left.Equal(rt) {
			return f.right, nil
		}
		if hasTypeVars(f.left) || hasTypeVars(rt) {
			if m := Matches(f.left, rt); m != nil {
				return m.ResolveLeft(f.right), nil
			}
		}
		return nil, &TypeMismatchError{Expr: b.right, What: "argument of " + b.left.String(), Want: f.left, Got: rt}
	case And, Or, If, Iff:
		if !lt.Equal(T) {
			return nil, &TypeMismatchError{Expr: b.left, What: "operand of " + b.op.String(), Want: T, Got: lt}
		}
		if !rt.Equal(T) {
			return nil, &TypeMismatchError{Expr: b.right, What: "operand of " + b.op.String(), Want: T, Got: rt}
		}
		return T, nil
	case Equality:
		if !lt.Equal(rt) {
			return nil, &TypeMismatchError{Expr: b.right, What: "right side of =", Want: lt, Got: rt}
		}
		return T, nil
	case Multiplication:
		if !lt.Equal(N) {
			return nil, &TypeMismatchError{Expr: b.left, What: "factor", Want: N, Got: lt}
		}
		if !rt.Equal(N) {
			return nil, &TypeMismatchError{Expr: b.right, What: "factor", Want: N, Got: rt}
		}
		return N, nil
	case SetWithGenerator:
		if !rt.Equal(T) {
			return nil, &TypeMismatchError{Expr: b.right, What: "set condition", Want: T, Got: rt}
		}
		return NewComposite(lt, T), nil
	default:
		panic("lambdacalc: invalid binary op")
	}
}

// NewUnary returns a unary expression.
func NewUnary(op UnaryOp, x Expr) *Unary {
	if op <= unaryNone || op > Cardinality {
		panic("lambdacalc: invalid unary op")
	}
	return &Unary{op: op, x: x}
}

// NewNot returns ¬x.
func NewNot(x Expr) *Unary { return NewUnary(Not, x) }

// NewParens returns [x].
func NewParens(x Expr) *Unary { return NewUnary(Parens, x) }

// Op returns the node's kind.
func (u *Unary) Op() UnaryOp { return u.op }

// Operand returns the child.
func (u *Unary) Operand() Expr { return u.x }

func (u *Unary) Precedence() int {
	switch u.op {
	case Not:
		if b, ok := u.x.(*Binary); ok && b.op == Equality {
			// Written as an inequality.
			return 6
		}
		return 3
	case Parens, Cardinality:
		return 0
	default:
		panic("lambdacalc: invalid unary op")
	}
}

func (u *Unary) Type() (Type, error) {
	t, err := u.x.Type()
	if err != nil {
		return nil, err
	}
	switch u.op {
	case Not:
		if !t.Equal(T) {
			return nil, &TypeMismatchError{Expr: u.x, What: "operand of ¬", Want: T, Got: t}
		}
		return T, nil
	case Parens:
		return t, nil
	case Cardinality:
		c, ok := t.(*Composite)
		if !ok || !c.right.Equal(T) {
			return nil, &TypeMismatchError{Expr: u.x, What: "operand of cardinality", Got: t}
		}
		return N, nil
	default:
		panic("lambdacalc: invalid unary op")
	}
}

// NewNAry returns an n-ary expression. An ArgList needs at least two
// elements; a single argument is written without one.
func NewNAry(op NAryOp, elems ...Expr) *NAry {
	switch op {
	case ArgList:
		if len(elems) < 2 {
			panic("lambdacalc: argument list needs at least two elements")
		}
	case SetWithElements:
	default:
		panic("lambdacalc: invalid n-ary op")
	}
	return &NAry{op: op, elems: slices.Clone(elems)}
}

// NewArgList returns the argument tuple (elems...).
func NewArgList(elems ...Expr) *NAry { return NewNAry(ArgList, elems...) }

// NewSet returns the set literal {elems...}.
func NewSet(elems ...Expr) *NAry { return NewNAry(SetWithElements, elems...) }

// Op returns the node's kind.
func (n *NAry) Op() NAryOp { return n.op }

// Elements returns a copy of the children.
func (n *NAry) Elements() []Expr { return slices.Clone(n.elems) }

func (n *NAry) Precedence() int { return 0 }

func (n *NAry) Type() (Type, error) {
	ts := make([]Type, len(n.elems))
	for i, e := range n.elems {
		t, err := e.Type()
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}
	switch n.op {
	case ArgList:
		return NewProduct(ts...), nil
	case SetWithElements:
		if len(ts) == 0 {
			return nil, &TypeError{Expr: n, Msg: "empty set has no type"}
		}
		for i, t := range ts[1:] {
			if !t.Equal(ts[0]) {
				return nil, &TypeMismatchError{Expr: n.elems[i+1], What: "set element", Want: ts[0], Got: t}
			}
		}
		return NewComposite(ts[0], T), nil
	default:
		panic("lambdacalc: invalid n-ary op")
	}
}

// unparen strips any Parens around e.
func unparen(e Expr) Expr {
	for {
		u, ok := e.(*Unary)
		if !ok || u.op != Parens {
			return e
		}
		e = u.x
	}
}

// AsLambda returns the lambda that e is, possibly inside brackets, or nil.
func AsLambda(e Expr) *Binder {
	if b, ok := unparen(e).(*Binder); ok && b.op == Lambda {
		return b
	}
	return nil
}

func (op BinderOp) String() string {
	if op <= binderNone || int(op) >= len(binderGlyphs) {
		return "BinderOp(?)"
	}
	return string(binderGlyphs[op])
}

func (op BinaryOp) String() string {
	switch op {
	case FunApp:
		return "application"
	case SetWithGenerator:
		return "set"
	case And, Or, If, Iff, Equality, Multiplication:
		return binaryGlyphs[op].uni
	default:
		return "BinaryOp(?)"
	}
}

var (
	_ Expr = (*Ident)(nil)
	_ Expr = (*Binder)(nil)
	_ Expr = (*Binary)(nil)
	_ Expr = (*Unary)(nil)
	_ Expr = (*NAry)(nil)
	_ Expr = (*GApp)(nil)
	_ Expr = (*MeaningBracket)(nil)
)
