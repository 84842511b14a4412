package lambdacalc

import (
	"errors"
	"strconv"
)

// ErrSyntax is matched by errors.Is for every error resulting from invalid
// expression or type text.
var ErrSyntax = errors.New("syntax error")

// OperatorError is an error indicating an operator token that cannot appear
// where it was found. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a prefix operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "infix"
	if err.Unary {
		s = "prefix"
	}
	return errpos(err.Col, "unexpected "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the bracket.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating an illegal use of a comma or a dot.
// It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// AmbiguityError is an error indicating input that could be read more than
// one way, such as two conditionals without brackets or a binder whose scope
// is not delimited.
type AmbiguityError struct {
	// Col is the position of the token that made the input ambiguous.
	Col int
	// Msg describes the ambiguity.
	Msg string
}

func (err *AmbiguityError) Error() string {
	return errpos(err.Col, "ambiguous input: "+err.Msg)
}

func (err *AmbiguityError) Pos() int {
	return err.Col
}

// SyntaxError is any other error in expression text.
type SyntaxError struct {
	// Col is the position of the error.
	Col int
	// Msg describes the error.
	Msg string
}

func (err *SyntaxError) Error() string {
	return errpos(err.Col, err.Msg)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// TypeSyntaxError is an error in the text of a type.
type TypeSyntaxError struct {
	// Col is the position of the error within the type text.
	Col int
	// Msg describes the error.
	Msg string
}

func (err *TypeSyntaxError) Error() string {
	return errpos(err.Col, "bad type: "+err.Msg)
}

func (err *TypeSyntaxError) Pos() int {
	return err.Col
}

func (err *OperatorError) Is(target error) bool        { return target == ErrSyntax }
func (err *BracketError) Is(target error) bool         { return target == ErrSyntax }
func (err *SeparatorError) Is(target error) bool       { return target == ErrSyntax }
func (err *EmptyExpressionError) Is(target error) bool { return target == ErrSyntax }
func (err *AmbiguityError) Is(target error) bool       { return target == ErrSyntax }
func (err *SyntaxError) Is(target error) bool          { return target == ErrSyntax }
func (err *TypeSyntaxError) Is(target error) bool      { return target == ErrSyntax }
func (err *LexError) Is(target error) bool             { return target == ErrSyntax }

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*AmbiguityError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*TypeSyntaxError)(nil)
	_ InputError = (*LexError)(nil)
)
