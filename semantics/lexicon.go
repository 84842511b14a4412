package semantics

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/dylnb/lambdacalc"
)

// Lexicon maps terminal labels to their candidate meanings.
type Lexicon struct {
	entries map[string][]lambdacalc.Expr
}

// NewLexicon returns an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{entries: make(map[string][]lambdacalc.Expr)}
}

// Add adds meanings for a label. Meanings equal to ones already listed are
// skipped.
func (l *Lexicon) Add(label string, meanings ...lambdacalc.Expr) {
	for _, m := range meanings {
		dup := slices.IndexFunc(l.entries[label], func(x lambdacalc.Expr) bool { return lambdacalc.Equal(x, m) })
		if dup < 0 {
			l.entries[label] = append(l.entries[label], m)
		}
	}
}

// Lookup returns the meanings listed for a label.
func (l *Lexicon) Lookup(label string) []lambdacalc.Expr {
	return slices.Clone(l.entries[label])
}

// Labels returns the labels in the lexicon in sorted order.
func (l *Lexicon) Labels() []string {
	r := make([]string, 0, len(l.entries))
	for k := range l.entries {
		r = append(r, k)
	}
	slices.Sort(r)
	return r
}

// Apply assigns meanings to the terminals in tree that have none and whose
// labels have exactly one entry. Indexed and vacuous terminals are left
// alone. The result lists the terminals left without a meaning because their
// labels have more than one entry.
func (l *Lexicon) Apply(tree Node) []*Terminal {
	var ambiguous []*Terminal
	Walk(tree, func(n Node) bool {
		t, ok := n.(*Terminal)
		if !ok || t.Meaning != nil || t.Vacuous || t.Index != NoIndex {
			return true
		}
		switch ms := l.entries[t.Label]; len(ms) {
		case 0:
		case 1:
			t.Meaning = ms[0]
		default:
			ambiguous = append(ambiguous, t)
		}
		return true
	})
	return ambiguous
}

// ParseLexicon reads a lexicon with one entry per line in the form
// "label = meaning". Blank lines and lines starting with # are ignored.
// Meanings are parsed with the given options. Syntax errors are
// *TreeSyntaxError values with the line number set.
func ParseLexicon(r io.Reader, opts ...lambdacalc.ParseOption) (*Lexicon, error) {
	l := NewLexicon()
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		s := sc.Text()
		if t := strings.TrimSpace(s); t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		label, text, ok := strings.Cut(s, "=")
		if !ok {
			return nil, lexiconError(line, &TreeSyntaxError{Col: 1, Msg: "expected label = meaning"})
		}
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, lexiconError(line, &TreeSyntaxError{Col: 1, Msg: "entry with no label"})
		}
		m, err := lambdacalc.ParseString(text, opts...)
		if err != nil {
			col := len([]rune(s)) - len([]rune(text)) + errCol(err)
			return nil, lexiconError(line, &TreeSyntaxError{Col: col, Msg: "bad meaning for " + label, Err: err})
		}
		l.Add(label, m)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

func lexiconError(line int, err *TreeSyntaxError) error {
	err.Line = line
	return err
}
