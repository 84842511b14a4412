package semantics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dylnb/lambdacalc"
)

// ParseTree parses a logical form in bracketed-tree syntax. A nonterminal is
//
//	[.LABEL =RULE; CHILD CHILD...]
//
// where the rule is optional and is one of the codes RuleByCode accepts. A
// terminal is
//
//	LABEL<TYPE>_INDEX=MEANING;
//
// where each of the type, the index, and the meaning is optional. A meaning
// that is empty, as in "is=;", marks the terminal as vacuous. A terminal whose
// label is a numeral and which has no explicit index is indexed by it, so that
// "1" is a bare index. Meanings are parsed with the given options.
func ParseTree(src string, opts ...lambdacalc.ParseOption) (Node, error) {
	p := treeParser{src: []rune(src), opts: opts}
	p.space()
	n, err := p.node()
	if err != nil {
		return nil, err
	}
	p.space()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after tree", string(p.peek()))
	}
	return n, nil
}

// MustParseTree is like ParseTree but panics on error.
func MustParseTree(src string, opts ...lambdacalc.ParseOption) Node {
	n, err := ParseTree(src, opts...)
	if err != nil {
		panic("semantics: " + err.Error())
	}
	return n
}

type treeParser struct {
	src  []rune
	i    int
	opts []lambdacalc.ParseOption
}

func (p *treeParser) eof() bool { return p.i >= len(p.src) }

func (p *treeParser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.i]
}

func (p *treeParser) space() {
	for !p.eof() && unicode.IsSpace(p.src[p.i]) {
		p.i++
	}
}

// errorf returns a syntax error at the current position.
func (p *treeParser) errorf(format string, args ...any) error {
	return &TreeSyntaxError{Col: p.i + 1, Msg: fmt.Sprintf(format, args...)}
}

func isLabelRune(r rune) bool {
	switch r {
	case '[', ']', '=', '<', '_', ';':
		return false
	}
	return !unicode.IsSpace(r)
}

func (p *treeParser) label() string {
	start := p.i
	for !p.eof() && isLabelRune(p.src[p.i]) {
		p.i++
	}
	return string(p.src[start:p.i])
}

func (p *treeParser) node() (Node, error) {
	if p.eof() {
		return nil, p.errorf("expected a node at end of input")
	}
	if p.peek() == '[' {
		return p.nonterminal()
	}
	return p.terminal()
}

func (p *treeParser) nonterminal() (Node, error) {
	open := p.i
	p.i++ // [
	p.space()
	if p.peek() != '.' {
		return nil, p.errorf("expected . and a label after [")
	}
	p.i++
	n := &Nonterminal{Label: p.label()}
	if n.Label == "" {
		return nil, p.errorf("nonterminal with no label")
	}
	p.space()
	if p.peek() == '=' {
		p.i++
		start := p.i
		code, ok := p.until(';')
		if !ok {
			return nil, &TreeSyntaxError{Col: start, Msg: "rule with no closing ;"}
		}
		code = strings.TrimSpace(code)
		if n.Rule = RuleByCode(code); n.Rule == nil {
			return nil, &TreeSyntaxError{Col: start + 1, Msg: "unknown composition rule " + strconv.Quote(code)}
		}
		p.space()
	}
	for {
		p.space()
		switch {
		case p.eof():
			return nil, &TreeSyntaxError{Col: open + 1, Msg: "[ with no matching ]"}
		case p.peek() == ']':
			if len(n.Children) == 0 {
				return nil, p.errorf("nonterminal with no children")
			}
			p.i++
			return n, nil
		}
		c, err := p.node()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
}

// until consumes input through the next occurrence of r and returns the text
// before it.
func (p *treeParser) until(r rune) (string, bool) {
	start := p.i
	for !p.eof() && p.src[p.i] != r {
		p.i++
	}
	if p.eof() {
		return "", false
	}
	s := string(p.src[start:p.i])
	p.i++
	return s, true
}

func (p *treeParser) terminal() (Node, error) {
	t := NewTerminal(p.label())
	if t.Label == "" {
		return nil, p.errorf("unexpected %q", string(p.peek()))
	}
	if p.peek() == '<' {
		typ, err := p.typ()
		if err != nil {
			return nil, err
		}
		t.Type = typ
	}
	if p.peek() == '_' {
		p.i++
		start := p.i
		for !p.eof() && '0' <= p.src[p.i] && p.src[p.i] <= '9' {
			p.i++
		}
		if start == p.i {
			return nil, p.errorf("expected an index after _")
		}
		k, err := strconv.Atoi(string(p.src[start:p.i]))
		if err != nil {
			return nil, &TreeSyntaxError{Col: start + 1, Msg: "bad index", Err: err}
		}
		t.Index = k
	} else if k, err := strconv.Atoi(t.Label); err == nil && k >= 0 {
		t.Index = k
	}
	if p.peek() == '=' {
		p.i++
		start := p.i
		text, ok := p.until(';')
		if !ok {
			return nil, &TreeSyntaxError{Col: start, Msg: "meaning with no closing ;"}
		}
		if strings.TrimSpace(text) == "" {
			t.Vacuous = true
			return t, nil
		}
		m, err := lambdacalc.ParseString(text, p.opts...)
		if err != nil {
			return nil, &TreeSyntaxError{Col: start + errCol(err), Msg: "bad meaning for " + t.Label, Err: err}
		}
		t.Meaning = m
	}
	return t, nil
}

// typ parses a type in angle brackets. The brackets are part of the type if it
// is a function type, as in "<e,t>", and delimit it otherwise, as in "<e>".
func (p *treeParser) typ() (lambdacalc.Type, error) {
	start := p.i
	depth := 0
	for !p.eof() {
		switch p.src[p.i] {
		case '<':
			depth++
		case '>':
			depth--
		}
		p.i++
		if depth == 0 {
			break
		}
	}
	if depth != 0 {
		return nil, &TreeSyntaxError{Col: start + 1, Msg: "< with no matching >"}
	}
	text := string(p.src[start:p.i])
	inner := text[1 : len(text)-1]
	if t, err := lambdacalc.ParseType(inner); err == nil {
		return t, nil
	}
	t, err := lambdacalc.ParseType(text)
	if err != nil {
		return nil, &TreeSyntaxError{Col: start + errCol(err), Msg: "bad type", Err: err}
	}
	return t, nil
}

// errCol returns the position of err within the text that produced it, or 1
// if it has none.
func errCol(err error) int {
	var ie lambdacalc.InputError
	if errors.As(err, &ie) && ie.Pos() > 0 {
		return ie.Pos()
	}
	return 1
}
