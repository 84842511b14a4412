package lambdacalc

import (
	"strconv"
	"strings"
)

// formatter controls rendering of expressions.
type formatter struct {
	// ascii selects the ASCII spellings of binders and connectives.
	ascii bool
	// types writes the types of explicitly typed identifiers.
	types bool
}

var (
	stringFmt  = formatter{types: true}
	asciiFmt   = formatter{ascii: true, types: true}
	displayFmt = formatter{}
)

var binderGlyphs = [...]rune{binderNone: '?', Lambda: 'λ', ForAll: '∀', Exists: '∃', Iota: 'ι', Gamma: 'γ'}

var binaryGlyphs = [...]struct{ uni, ascii string }{
	And:            {"∧", "&"},
	Or:             {"∨", "|"},
	If:             {"→", "->"},
	Iff:            {"↔", "<->"},
	Equality:       {"=", "="},
	Multiplication: {"×", "*"},
}

func render(e Expr, f formatter) string {
	var b strings.Builder
	e.format(&b, f)
	return b.String()
}

// bracketIf writes e, wrapped in square brackets if need is true.
func bracketIf(b *strings.Builder, f formatter, e Expr, need bool) {
	if need {
		b.WriteByte('[')
	}
	e.format(b, f)
	if need {
		b.WriteByte(']')
	}
}

// loose reports whether e must be bracketed as an operand of a connective.
func loose(e Expr) bool {
	switch e.Precedence() {
	case 4, 5, 6:
		return true
	}
	return endsInBinder(e)
}

// endsInBinder reports whether the text of e ends with an unbracketed binder
// scope, which would swallow a following connective.
func endsInBinder(e Expr) bool {
	switch e := e.(type) {
	case *Binder:
		return true
	case *Unary:
		if e.op != Not {
			return false
		}
		if b, ok := e.x.(*Binary); ok && b.op == Equality {
			return false
		}
		return endsInBinder(e.x)
	}
	return false
}

func (id *Ident) format(b *strings.Builder, f formatter) {
	b.WriteString(id.name)
	if f.types && id.explicit {
		b.WriteByte(':')
		s := id.typ.String()
		if f.ascii {
			s = strings.ReplaceAll(s, "×", "*")
		}
		b.WriteString(s)
	}
}

func (x *Binder) format(b *strings.Builder, f formatter) {
	if f.ascii && x.op != Gamma {
		b.WriteByte(ASCIIBinders[x.op-1])
	} else {
		b.WriteRune(binderGlyphs[x.op])
	}
	x.v.format(b, f)
	b.WriteByte('.')
	switch x.body.Precedence() {
	case 5, 6:
		bracketIf(b, f, x.body, true)
	default:
		x.body.format(b, f)
	}
}

func (x *Binary) format(b *strings.Builder, f formatter) {
	switch x.op {
	case FunApp:
		switch x.left.Precedence() {
		case 3, 4, 5, 6:
			bracketIf(b, f, x.left, true)
		default:
			x.left.format(b, f)
		}
		if a, ok := x.right.(*NAry); ok && a.op == ArgList {
			a.format(b, f)
			return
		}
		b.WriteByte('(')
		x.right.format(b, f)
		b.WriteByte(')')
	case SetWithGenerator:
		b.WriteByte('{')
		bracketIf(b, f, x.left, loose(x.left))
		b.WriteString(" | ")
		x.right.format(b, f)
		b.WriteByte('}')
	default:
		x.formatInfix(b, f, x.glyph(f))
	}
}

func (x *Binary) glyph(f formatter) string {
	if f.ascii {
		return binaryGlyphs[x.op].ascii
	}
	return binaryGlyphs[x.op].uni
}

func (x *Binary) formatInfix(b *strings.Builder, f formatter, glyph string) {
	lb := loose(x.left)
	if l, ok := x.left.(*Binary); ok && l.op == x.op {
		switch x.op {
		case And, Or, Multiplication:
			lb = false
		}
	}
	bracketIf(b, f, x.left, lb)
	b.WriteByte(' ')
	b.WriteString(glyph)
	b.WriteByte(' ')
	bracketIf(b, f, x.right, loose(x.right))
}

func (x *Unary) format(b *strings.Builder, f formatter) {
	switch x.op {
	case Not:
		if eq, ok := x.x.(*Binary); ok && eq.op == Equality {
			g := "≠"
			if f.ascii {
				g = "!="
			}
			eq.formatInfix(b, f, g)
			return
		}
		if f.ascii {
			b.WriteByte('~')
		} else {
			b.WriteRune('¬')
		}
		switch x.x.Precedence() {
		case 5, 6:
			bracketIf(b, f, x.x, true)
		default:
			x.x.format(b, f)
		}
	case Parens:
		bracketIf(b, f, x.x, true)
	case Cardinality:
		b.WriteByte('|')
		switch x.x.Precedence() {
		case 5, 6:
			bracketIf(b, f, x.x, true)
		default:
			x.x.format(b, f)
		}
		b.WriteByte('|')
	default:
		panic("lambdacalc: invalid unary op")
	}
}

func (x *NAry) format(b *strings.Builder, f formatter) {
	open, end := byte('('), byte(')')
	if x.op == SetWithElements {
		open, end = '{', '}'
	}
	b.WriteByte(open)
	for i, e := range x.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		e.format(b, f)
	}
	b.WriteByte(end)
}

func (x *GApp) format(b *strings.Builder, f formatter) {
	b.WriteString("g(")
	b.WriteString(strconv.Itoa(x.index))
	b.WriteByte(')')
}

func (x *MeaningBracket) format(b *strings.Builder, f formatter) {
	if f.ascii {
		b.WriteString("[[")
	} else {
		b.WriteRune('⟦')
	}
	b.WriteString(x.node.String())
	if f.ascii {
		b.WriteString("]]")
	} else {
		b.WriteRune('⟧')
	}
	b.WriteByte('^')
	b.WriteString(x.g.format(f.ascii))
}

func (id *Ident) String() string        { return render(id, stringFmt) }
func (id *Ident) ASCIIString() string   { return render(id, asciiFmt) }
func (id *Ident) DisplayString() string { return render(id, displayFmt) }

func (x *Binder) String() string        { return render(x, stringFmt) }
func (x *Binder) ASCIIString() string   { return render(x, asciiFmt) }
func (x *Binder) DisplayString() string { return render(x, displayFmt) }

func (x *Binary) String() string        { return render(x, stringFmt) }
func (x *Binary) ASCIIString() string   { return render(x, asciiFmt) }
func (x *Binary) DisplayString() string { return render(x, displayFmt) }

func (x *Unary) String() string        { return render(x, stringFmt) }
func (x *Unary) ASCIIString() string   { return render(x, asciiFmt) }
func (x *Unary) DisplayString() string { return render(x, displayFmt) }

func (x *NAry) String() string        { return render(x, stringFmt) }
func (x *NAry) ASCIIString() string   { return render(x, asciiFmt) }
func (x *NAry) DisplayString() string { return render(x, displayFmt) }

func (x *GApp) String() string        { return render(x, stringFmt) }
func (x *GApp) ASCIIString() string   { return render(x, asciiFmt) }
func (x *GApp) DisplayString() string { return render(x, displayFmt) }

func (x *MeaningBracket) String() string        { return render(x, stringFmt) }
func (x *MeaningBracket) ASCIIString() string   { return render(x, asciiFmt) }
func (x *MeaningBracket) DisplayString() string { return render(x, displayFmt) }
