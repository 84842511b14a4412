package lambdacalc

import (
	"errors"
	"strconv"
)

// ErrType is matched by errors.Is for every error from type evaluation.
var ErrType = errors.New("type error")

// TypeError is an error from evaluating the type of an expression that is
// not a mismatch between two types, e.g. a binder over a constant.
type TypeError struct {
	// Expr is the offending subexpression.
	Expr Expr
	// Msg describes the problem.
	Msg string
}

func (err *TypeError) Error() string {
	return err.Msg + " in " + err.Expr.String()
}

func (err *TypeError) Is(target error) bool {
	return target == ErrType
}

// TypeMismatchError is a type error where a subexpression has a type other
// than the one its context requires.
type TypeMismatchError struct {
	// Expr is the offending subexpression.
	Expr Expr
	// What names the position whose type is wrong, e.g. "argument".
	What string
	// Want is the type the context requires. It is nil when the context
	// requires any function type or set type.
	Want Type
	// Got is the type found.
	Got Type
}

func (err *TypeMismatchError) Error() string {
	want := "a function type"
	if err.Want != nil {
		want = err.Want.String()
	}
	return "type mismatch in " + err.Expr.String() + ": " + err.What + " should have type " + want + " but has type " + err.Got.String()
}

func (err *TypeMismatchError) Is(target error) bool {
	return target == ErrType
}

// FormatVersionError is an error from decoding a persisted expression or type
// written by an incompatible version.
type FormatVersionError struct {
	// Type is the serialized variant name.
	Type string
	// Version is the version marker found in the data.
	Version uint16
}

func (err *FormatVersionError) Error() string {
	return "unsupported format version " + strconv.Itoa(int(err.Version)) + " for " + err.Type
}

// ErrNotSerializable is returned when persisting an expression that contains
// a meaning bracket.
var ErrNotSerializable = errors.New("meaning brackets cannot be serialized")

// ErrNoNormalForm is returned by Normalize when reduction does not reach a
// normal form within its step limit.
var ErrNoNormalForm = errors.New("no normal form within step limit")
