package semantics

import (
	"errors"
	"strconv"

	"github.com/dylnb/lambdacalc"
)

// ErrMeaning is matched by errors.Is for every error from computing the
// meaning of a node.
var ErrMeaning = errors.New("meaning error")

// NoMeaningError is an error indicating a terminal with no meaning, such as a
// word missing from the lexicon or a bare index used as an argument.
type NoMeaningError struct {
	Node *Terminal
}

func (err *NoMeaningError) Error() string {
	switch {
	case err.Node.Vacuous:
		return err.Node.Name() + " is semantically vacuous"
	case err.Node.IsBareIndex():
		return err.Node.Name() + " is a bare index and has no meaning of its own"
	}
	return "no meaning assigned to " + err.Node.Name()
}

func (err *NoMeaningError) Is(target error) bool { return target == ErrMeaning }

// NoRuleError is an error indicating a nonterminal with no composition rule.
type NoRuleError struct {
	Node *Nonterminal
}

func (err *NoRuleError) Error() string {
	return "no composition rule assigned to " + err.Node.Name()
}

func (err *NoRuleError) Is(target error) bool { return target == ErrMeaning }

// RuleNotApplicableError is an error indicating a composition rule applied to
// a node whose children it cannot combine.
type RuleNotApplicableError struct {
	Rule CompositionRule
	Node *Nonterminal
	// Msg says what the rule needed.
	Msg string
}

func (err *RuleNotApplicableError) Error() string {
	return err.Rule.Name() + " does not apply to " + err.Node.Name() + ": " + err.Msg
}

func (err *RuleNotApplicableError) Is(target error) bool { return target == ErrMeaning }

// TreeSyntaxError is an error in the text of a bracketed tree. It implements
// lambdacalc.InputError. If the error is in the text of a meaning or a type,
// Err is the error from parsing it.
type TreeSyntaxError struct {
	// Line is the line of the error in a lexicon, or 0 in a tree.
	Line int
	// Col is the position of the error.
	Col int
	// Msg describes the error.
	Msg string
	// Err is the underlying expression or type error, if any.
	Err error
}

func (err *TreeSyntaxError) Error() string {
	s := strconv.Itoa(err.Col) + ": " + err.Msg
	if err.Line > 0 {
		s = strconv.Itoa(err.Line) + ":" + s
	}
	if err.Err != nil {
		s += ": " + err.Err.Error()
	}
	return s
}

func (err *TreeSyntaxError) Pos() int {
	return err.Col
}

func (err *TreeSyntaxError) Is(target error) bool { return target == lambdacalc.ErrSyntax }

func (err *TreeSyntaxError) Unwrap() error { return err.Err }

var _ lambdacalc.InputError = (*TreeSyntaxError)(nil)
