package lambdacalc

import (
	"strconv"
)

// DefaultMaxSteps is the step limit Normalize uses when given a limit that is
// not positive.
const DefaultMaxSteps = 1000

// Step identifies the kind of a single simplification step.
type Step int8

const (
	// NoStep means the expression is already simplified.
	NoStep Step = iota
	// ReplaceMeaningBrackets replaces meaning brackets by the meanings they
	// stand for.
	ReplaceMeaningBrackets
	// AlphabeticalVariant renames binders in a redex to avoid capture.
	AlphabeticalVariant
	// LambdaConversion reduces a redex.
	LambdaConversion
)

func (s Step) String() string {
	switch s {
	case NoStep:
		return "none"
	case ReplaceMeaningBrackets:
		return "replace meaning brackets"
	case AlphabeticalVariant:
		return "alphabetical variant"
	case LambdaConversion:
		return "lambda conversion"
	default:
		return "Step(" + strconv.Itoa(int(s)) + ")"
	}
}

// rewriteFirstRedex finds the first redex in e and replaces it by the result
// of f. Within a node, the function side is searched before the argument side,
// and both before the node itself, so inner redexes are found first.
func rewriteFirstRedex(e Expr, f func(app *Binary, lam *Binder) Expr) (Expr, bool) {
	kids := Children(e)
	for i, c := range kids {
		if r, ok := rewriteFirstRedex(c, f); ok {
			kids[i] = r
			return rebuild(e, kids), true
		}
	}
	if b, ok := e.(*Binary); ok && b.op == FunApp {
		if lam := AsLambda(b.left); lam != nil {
			return f(b, lam), true
		}
	}
	return e, false
}

// firstRedex returns the redex rewriteFirstRedex would rewrite.
func firstRedex(e Expr) (app *Binary, lam *Binder) {
	rewriteFirstRedex(e, func(b *Binary, l *Binder) Expr {
		app, lam = b, l
		return b
	})
	return app, lam
}

// PerformLambdaConversion reduces the first redex in e, creating an
// alphabetical variant first if needed. The result is e itself and false if
// there is no redex.
func PerformLambdaConversion(e Expr) (Expr, bool) {
	inUse := VariablesInUse(e)
	return rewriteFirstRedex(e, func(app *Binary, lam *Binder) Expr {
		return Substitute(lam.body, lam.v, app.right, inUse)
	})
}

// CanSimplify reports whether e has a redex or a meaning bracket.
func CanSimplify(e Expr) bool {
	if HasMeaningBrackets(e) {
		return true
	}
	app, _ := firstRedex(e)
	return app != nil
}

// NeedsAlphabeticalVariant reports whether reducing the first redex in e
// would capture a variable.
func NeedsAlphabeticalVariant(e Expr) bool {
	app, lam := firstRedex(e)
	if app == nil {
		return false
	}
	return len(captures(lam.body, lam.v, app.right)) > 0
}

// CreateAlphabeticalVariantForRedex renames the binders in the first redex of
// e that would capture a variable of its argument.
func CreateAlphabeticalVariantForRedex(e Expr) Expr {
	inUse := VariablesInUse(e)
	r, _ := rewriteFirstRedex(e, func(app *Binary, lam *Binder) Expr {
		c := captures(lam.body, lam.v, app.right)
		if len(c) == 0 {
			return app
		}
		body := CreateAlphabeticalVariant(lam.body, c, inUse)
		var f Expr = &Binder{op: lam.op, v: lam.v, body: body}
		if _, ok := app.left.(*Unary); ok {
			f = NewParens(f)
		}
		return &Binary{op: FunApp, left: f, right: app.right}
	})
	return r
}

// Simplify performs one step of simplification: replacing meaning brackets,
// creating an alphabetical variant, or lambda conversion, in that order of
// priority. The step is NoStep if e is already simplified.
func Simplify(e Expr) (Expr, Step, error) {
	if HasMeaningBrackets(e) {
		r, err := ReplaceAllMeaningBrackets(e)
		if err != nil {
			return nil, NoStep, err
		}
		return r, ReplaceMeaningBrackets, nil
	}
	if NeedsAlphabeticalVariant(e) {
		return CreateAlphabeticalVariantForRedex(e), AlphabeticalVariant, nil
	}
	if r, ok := PerformLambdaConversion(e); ok {
		return r, LambdaConversion, nil
	}
	return e, NoStep, nil
}

// Normalize simplifies e until no step applies. If that takes more than
// maxSteps steps, the result is the expression reached so far and
// ErrNoNormalForm.
func Normalize(e Expr, maxSteps int) (Expr, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	for i := 0; i < maxSteps; i++ {
		r, step, err := Simplify(e)
		if err != nil {
			return e, err
		}
		if step == NoStep {
			return e, nil
		}
		e = r
	}
	if CanSimplify(e) {
		return e, ErrNoNormalForm
	}
	return e, nil
}
