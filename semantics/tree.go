package semantics

import (
	"strconv"
	"strings"

	"github.com/dylnb/lambdacalc"
)

// Node is a node of a logical form: a *Nonterminal or a *Terminal.
type Node interface {
	// Name is the short name of the node, as written inside meaning
	// brackets: the label, with the index of an indexed terminal.
	Name() string
	// String renders the subtree in bracketed-tree syntax. The result parses
	// back with ParseTree.
	String() string

	node()
}

// Nonterminal is a node with children. Its meaning is computed from theirs by
// its composition rule.
type Nonterminal struct {
	Label    string
	Children []Node
	// Rule combines the children's meanings. It is nil until assigned.
	Rule CompositionRule
}

// NoIndex is the Index of a terminal without one.
const NoIndex = -1

// Terminal is a leaf of a logical form.
type Terminal struct {
	Label string
	// Meaning is the lexical meaning. It is nil until assigned.
	Meaning lambdacalc.Expr
	// Index is the index of a trace, pronoun, or binder index, or NoIndex.
	Index int
	// Type is the declared type of the terminal, or nil. It gives the type of
	// a trace or of the variable a binder index binds, and the type of a
	// terminal whose meaning is not yet known.
	Type lambdacalc.Type
	// Vacuous marks a terminal that contributes nothing to the meaning.
	Vacuous bool
}

// NewTerminal returns a terminal with no meaning and no index.
func NewTerminal(label string) *Terminal {
	return &Terminal{Label: label, Index: NoIndex}
}

// NewNonterminal returns a nonterminal with no rule.
func NewNonterminal(label string, children ...Node) *Nonterminal {
	return &Nonterminal{Label: label, Children: children}
}

func (*Nonterminal) node() {}
func (*Terminal) node()    {}

func (n *Nonterminal) Name() string {
	return n.Label
}

func (t *Terminal) Name() string {
	if t.Index == NoIndex || t.numeral() {
		return t.Label
	}
	return t.Label + "_" + strconv.Itoa(t.Index)
}

// numeral reports whether t is labeled by its own index.
func (t *Terminal) numeral() bool {
	return t.Label == strconv.Itoa(t.Index)
}

// traceLabels are the labels of terminals that stand for g(index).
var traceLabels = map[string]bool{
	"t":     true,
	"trace": true,
	"pro":   true,
	"PRO":   true,
	"he":    true,
	"she":   true,
	"it":    true,
	"him":   true,
	"her":   true,
	"they":  true,
	"them":  true,
}

// IsTrace reports whether t is an indexed trace or pronoun with no lexical
// meaning. Its meaning under an assignment g is g(index).
func (t *Terminal) IsTrace() bool {
	return t.Index != NoIndex && t.Meaning == nil && !t.Vacuous && traceLabels[t.Label]
}

// IsBareIndex reports whether t is a binder index: an indexed terminal with
// no meaning that is not a trace.
func (t *Terminal) IsBareIndex() bool {
	return t.Index != NoIndex && t.Meaning == nil && !t.Vacuous && !traceLabels[t.Label]
}

// varType returns the type of the variable t stands for or binds.
func (t *Terminal) varType() lambdacalc.Type {
	if t.Type != nil {
		return t.Type
	}
	return lambdacalc.E
}

func (n *Nonterminal) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (t *Terminal) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (n *Nonterminal) write(b *strings.Builder) {
	b.WriteString("[.")
	b.WriteString(n.Label)
	if code := ruleCode(n.Rule); code != "" {
		b.WriteString(" =")
		b.WriteString(code)
		b.WriteByte(';')
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		switch c := c.(type) {
		case *Nonterminal:
			c.write(b)
		case *Terminal:
			c.write(b)
		}
	}
	b.WriteByte(']')
}

func (t *Terminal) write(b *strings.Builder) {
	b.WriteString(t.Label)
	if t.Type != nil {
		if _, ok := t.Type.(*lambdacalc.Composite); ok {
			b.WriteString(t.Type.String())
		} else {
			b.WriteByte('<')
			b.WriteString(t.Type.String())
			b.WriteByte('>')
		}
	}
	if t.Index != NoIndex && !t.numeral() {
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(t.Index))
	}
	switch {
	case t.Vacuous:
		b.WriteString("=;")
	case t.Meaning != nil:
		b.WriteByte('=')
		b.WriteString(t.Meaning.String())
		b.WriteByte(';')
	}
}

// Walk calls fn on n and its descendants in pre-order. If fn returns false,
// Walk does not descend into that node's children.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	if nt, ok := n.(*Nonterminal); ok {
		for _, c := range nt.Children {
			Walk(c, fn)
		}
	}
}

// contentful returns the children of n that are not vacuous.
func contentful(n *Nonterminal) []Node {
	r := make([]Node, 0, len(n.Children))
	for _, c := range n.Children {
		if t, ok := c.(*Terminal); ok && t.Vacuous {
			continue
		}
		r = append(r, c)
	}
	return r
}
