package lambdacalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Expr = Prefix { Connective Prefix }
// Connective = '∧' | '∨' | '→' | '↔' | '=' | '≠' | '×'
// Prefix = Ident | Binder | Not | Bracket | Set | Card
// Ident = name [':' type] { Args } | numeral
// Binder = ('λ' | '∀' | '∃' | 'ι' | 'γ') name [':' type] ['.'] Prefix
// Not = '¬' Prefix
// Bracket = '(' Expr { ',' Expr } ')' { Args } | '[' Expr ']' { Args }
// Set = '{' '}' | '{' Expr { ',' Expr } '}' | '{' Expr '|' Expr '}'
// Card = '|' Expr '|'
// Args = '(' Expr { ',' Expr } ')'
//
// In single-letter mode, Ident also accepts adjacent names as arguments, so
// Rab is R(a, b).

// Parse parses an expression. The given options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (Expr, error) {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.typer == nil {
		p.typer = DefaultConventions()
	} else {
		p.typer = p.typer.Clone()
	}
	p.preset = false
	scan := lex(src)
	scan.single = p.single
	scan.ascii = p.ascii
	e, err := parseinfix(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	return e, nil
}

// ParseString parses an expression from a string.
func ParseString(src string, opts ...ParseOption) (Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// MustParse is like ParseString but panics on error.
func MustParse(src string, opts ...ParseOption) Expr {
	e, err := ParseString(src, opts...)
	if err != nil {
		panic("lambdacalc: " + err.Error())
	}
	return e
}

// parseinfix parses a prefix term followed by any connectives that bind more
// tightly than until. If there is no error, then parseinfix pushes the last
// token it scans, including EOF.
func parseinfix(scan *lexer, p *parsectx, until operator) (Expr, error) {
	lhs, err := parseprefix(scan, p)
	if err != nil {
		return nil, err
	}
	var last operator
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			if tok.text == "|" && p.stopBar {
				scan.push(tok)
				return lhs, nil
			}
			prec := binop(tok.text)
			if prec.op == binaryNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return lhs, nil
			}
			if last.op != binaryNone && last.prec == prec.prec {
				if !prec.assoc || last != prec {
					return nil, &AmbiguityError{Col: tok.pos, Msg: ambiguity(last, prec)}
				}
			}
			rhs, err := parseinfix(scan, p, prec)
			if err != nil {
				return nil, err
			}
			lhs = prec.build(lhs, rhs)
			last = prec
		case tokenClose, tokenSep, tokenDot, tokenEOF:
			// End of expression.
			scan.push(tok)
			return lhs, nil
		default:
			return nil, &SyntaxError{Col: tok.pos, Msg: "expected connective before " + strconv.Quote(tok.text)}
		}
	}
}

// parseprefix parses a single term: an identifier with its arguments, a
// binder, a negation, or a bracketed form.
func parseprefix(scan *lexer, p *parsectx) (Expr, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenIdent:
		return parseident(scan, p, tok)
	case tokenBinder:
		return parsebinder(scan, p, tok)
	case tokenOp:
		switch tok.text {
		case "¬":
			x, err := parseprefix(scan, p)
			if err != nil {
				return nil, err
			}
			return NewNot(x), nil
		case "|":
			return parsecard(scan, p, tok)
		}
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
	case tokenOpen:
		if tok.text == "{" {
			return parseset(scan, p, tok)
		}
		return parsebracket(scan, p, tok)
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenSep, tokenDot:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenType:
		return nil, &SyntaxError{Col: tok.pos, Msg: "type annotation with no identifier"}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("lambdacalc: unknown token: " + tok.String())
	}
}

// parseident parses an identifier or numeral and any arguments applied to it.
func parseident(scan *lexer, p *parsectx, tok lexToken) (Expr, error) {
	if isNumeral(tok.text) {
		return NewConst(tok.text, N), nil
	}
	id, err := parseatom(scan, p, tok)
	if err != nil {
		return nil, err
	}
	var x Expr = id
	if p.single {
		// Pab -> P(a, b)
		var args []Expr
		for {
			next, err := scan.next()
			if err != nil {
				return nil, err
			}
			if next.kind != tokenIdent || next.space || isNumeral(next.text) {
				scan.push(next)
				break
			}
			a, err := parseatom(scan, p, next)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		switch len(args) {
		case 0:
		case 1:
			x = NewFunApp(x, args[0])
		default:
			x = NewFunApp(x, NewArgList(args...))
		}
	}
	return parsepostfix(scan, p, x)
}

// parseatom parses an identifier with an optional type annotation.
func parseatom(scan *lexer, p *parsectx, tok lexToken) (*Ident, error) {
	t, err := parseannotation(scan)
	if err != nil {
		return nil, err
	}
	id, err := p.ident(tok.text, t, tok.pos, false)
	if err != nil {
		return nil, err
	}
	if t != nil {
		p.record(id)
	}
	return id, nil
}

// parseannotation parses the type annotation following an identifier, if
// there is one. The result is nil if there is none.
func parseannotation(scan *lexer) (Type, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenType || tok.space {
		scan.push(tok)
		return nil, nil
	}
	t, err := ParseType(tok.text)
	if err != nil {
		var te *TypeSyntaxError
		if errors.As(err, &te) {
			return nil, &TypeSyntaxError{Col: tok.pos + te.Col, Msg: te.Msg}
		}
		return nil, err
	}
	return t, nil
}

// ident types an identifier. If explicit is not nil, it is the identifier's
// type. binding is whether the identifier is a binder's variable, in which
// case it is a variable when no rule applies.
func (p *parsectx) ident(name string, explicit Type, pos int, binding bool) (*Ident, error) {
	isVar, t, ok := p.typer.Lookup(name)
	if !ok {
		if explicit == nil {
			return nil, &SyntaxError{Col: pos, Msg: "no typing convention for identifier " + strconv.Quote(name)}
		}
		isVar = binding
	}
	if explicit != nil {
		t = explicit
	}
	id := &Ident{name: name, typ: t, constant: !isVar, explicit: explicit != nil}
	return id, nil
}

// record adds an explicitly typed identifier to the typing rules for the rest
// of the parse and to the collected annotations.
func (p *parsectx) record(id *Ident) {
	p.typer.AddName(id.name, !id.constant, id.typ)
	if p.explicit != nil {
		p.explicit[id.name] = id.typ
	}
}

// parsepostfix parses argument lists applied to f.
func parsepostfix(scan *lexer, p *parsectx, f Expr) (Expr, error) {
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOpen || tok.text != "(" {
			scan.push(tok)
			return f, nil
		}
		elems, err := parselist(scan, p, tok)
		if err != nil {
			return nil, err
		}
		if len(elems) == 1 {
			f = NewFunApp(f, elems[0])
		} else {
			f = NewFunApp(f, NewArgList(elems...))
		}
	}
}

// parselist parses comma-separated expressions up to the bracket closing
// open, which it consumes.
func parselist(scan *lexer, p *parsectx, open lexToken) ([]Expr, error) {
	match := rightbracket(open.text)
	old := p.stopBar
	p.stopBar = false
	defer func() { p.stopBar = old }()
	var elems []Expr
	for {
		e, err := parseinfix(scan, p, exprprec)
		if err != nil {
			// As a special case, reporting mismatched brackets is more helpful
			// than empty expression at the end of the input.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: open.text}
			}
			return nil, err
		}
		elems = append(elems, e)
		end := scan.must()
		switch {
		case end.kind == tokenSep:
			// Continue with the next element.
		case end.kind == tokenClose && end.text == closebrackets[match]:
			return elems, nil
		default:
			return nil, itShouldNotHaveEndedThisWay(end, match)
		}
	}
}

// parsebracket parses a bracketed expression or tuple following open.
func parsebracket(scan *lexer, p *parsectx, open lexToken) (Expr, error) {
	elems, err := parselist(scan, p, open)
	if err != nil {
		return nil, err
	}
	var x Expr
	switch {
	case len(elems) == 1:
		x = NewParens(elems[0])
	case open.text == "(":
		x = NewArgList(elems...)
	default:
		return nil, &SeparatorError{Col: open.pos, Sep: ","}
	}
	return parsepostfix(scan, p, x)
}

// parseset parses a set literal or set builder following open.
func parseset(scan *lexer, p *parsectx, open lexToken) (Expr, error) {
	tok, err := scan.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose && tok.text == "}" {
		scan.must()
		return parsepostfix(scan, p, NewSet())
	}
	old := p.stopBar
	defer func() { p.stopBar = old }()
	p.stopBar = true
	first, err := parseinfix(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	p.stopBar = false
	end := scan.must()
	var x Expr
	switch {
	case end.kind == tokenOp && end.text == "|":
		// {x | P(x)}
		cond, err := parseinfix(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end = scan.must()
		if end.kind != tokenClose || end.text != "}" {
			return nil, itShouldNotHaveEndedThisWay(end, rightbracket("{"))
		}
		x = NewBinary(SetWithGenerator, first, cond)
	case end.kind == tokenSep:
		rest, err := parselist(scan, p, open)
		if err != nil {
			return nil, err
		}
		x = NewSet(append([]Expr{first}, rest...)...)
	case end.kind == tokenClose && end.text == "}":
		x = NewSet(first)
	default:
		return nil, itShouldNotHaveEndedThisWay(end, rightbracket("{"))
	}
	p.stopBar = old
	return parsepostfix(scan, p, x)
}

// parsecard parses a cardinality expression following the bar open.
func parsecard(scan *lexer, p *parsectx, open lexToken) (Expr, error) {
	old := p.stopBar
	defer func() { p.stopBar = old }()
	p.stopBar = true
	x, err := parseinfix(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	end := scan.must()
	if end.kind != tokenOp || end.text != "|" {
		if end.kind == tokenEOF || end.kind == tokenClose {
			return nil, &BracketError{Col: end.pos, Left: open.text, Right: end.text}
		}
		return nil, itShouldNotHaveEndedThisWay(end, -1)
	}
	return NewUnary(Cardinality, x), nil
}

// parsebinder parses a binder following its symbol.
func parsebinder(scan *lexer, p *parsectx, tok lexToken) (Expr, error) {
	op := binderop(tok.text)
	v, err := scan.next()
	if err != nil {
		return nil, err
	}
	if v.kind != tokenIdent || isNumeral(v.text) {
		return nil, &SyntaxError{Col: v.pos, Msg: "binder " + tok.text + " must be followed by a variable"}
	}
	t, err := parseannotation(scan)
	if err != nil {
		return nil, err
	}
	id, err := p.ident(v.text, t, v.pos, true)
	if err != nil {
		return nil, err
	}
	// The variable's explicit type governs the binder's scope only.
	mark := p.typer.Len()
	if t != nil {
		p.record(id)
	}
	dot, err := scan.next()
	if err != nil {
		return nil, err
	}
	if dot.kind != tokenDot {
		scan.push(dot)
	}
	body, err := parseprefix(scan, p)
	if err != nil {
		return nil, err
	}
	p.typer.truncate(mark)
	next, err := scan.peek()
	if err != nil {
		return nil, err
	}
	// A bracketed body closes the scope, so a connective after it is outside.
	if unparen(body) == body && next.kind == tokenOp && !(next.text == "|" && p.stopBar) && binop(next.text).op != binaryNone {
		return nil, &AmbiguityError{Col: next.pos, Msg: "scope of " + tok.text + v.text + " must be bracketed before " + next.text}
	}
	return NewBinder(op, id, body), nil
}

func binderop(text string) BinderOp {
	for i, r := range Binders {
		if text == string(r) {
			return BinderOp(utf8.RuneCountInString(Binders[:i]) + 1)
		}
	}
	if k := strings.Index(ASCIIBinders, text); k >= 0 && len(text) == 1 {
		return BinderOp(k + 1)
	}
	panic("lambdacalc: invalid binder " + strconv.Quote(text))
}

func isNumeral(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("lambdacalc: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return openbrackets[right]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket rune index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	case tokenSep, tokenDot:
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenOp:
		return &OperatorError{Col: tok.pos, Operator: tok.text}
	default:
		panic("lambdacalc: it really should not have ended this way: " + tok.String())
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// assoc indicates the operator may repeat without brackets.
	assoc bool
	// op is the node kind to use when this operator is selected.
	op BinaryOp
	// neg indicates the node is negated, as for ≠.
	neg bool
}

func (p operator) moreBinding(than operator) bool {
	return p.prec > than.prec
}

func (p operator) build(l, r Expr) Expr {
	b := NewBinary(p.op, l, r)
	if p.neg {
		return NewNot(b)
	}
	return b
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of binaryNone.
func binop(text string) operator {
	switch text {
	case "∧":
		return operator{1, true, And, false}
	case "∨", "|":
		return operator{1, true, Or, false}
	case "→":
		return operator{2, false, If, false}
	case "↔":
		return operator{2, false, Iff, false}
	case "=":
		return operator{3, false, Equality, false}
	case "≠":
		return operator{3, false, Equality, true}
	case "×":
		return operator{4, true, Multiplication, false}
	default:
		return operator{}
	}
}

func ambiguity(a, b operator) string {
	switch a.prec {
	case 1:
		return "mixed conjunction and disjunction need brackets"
	case 2:
		return "adjacent conditionals need brackets"
	case 3:
		return "adjacent equalities need brackets"
	default:
		return "adjacent operators need brackets"
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, binaryNone, false}
