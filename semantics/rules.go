package semantics

import (
	"strings"

	"github.com/dylnb/lambdacalc"
)

// CompositionRule computes the meaning of a nonterminal from the meanings of
// its children. Vacuous children are ignored.
type CompositionRule interface {
	// Name is the name of the rule, such as "function application".
	Name() string
	// IsApplicableTo reports whether the rule can combine the children of n.
	IsApplicableTo(e *Engine, n *Nonterminal) bool
	// ApplyTo builds the meaning of n under g over meaning brackets of its
	// children. If the rule does not apply and onlyIfApplicable is true, the
	// error is a *RuleNotApplicableError. Otherwise the rule may make a best
	// guess, which need not be well typed.
	ApplyTo(e *Engine, n *Nonterminal, g lambdacalc.Assignment, onlyIfApplicable bool) (lambdacalc.Expr, error)
}

// The built-in composition rules.
var (
	// FunctionApplication applies whichever child is a function to the
	// other: ⟦f⟧(⟦a⟧) when f has type <X,Y> and a has type X.
	FunctionApplication CompositionRule = functionApplication{}
	// PredicateModification conjoins two predicates of type <e,t>:
	// λx.[⟦L⟧(x) ∧ ⟦R⟧(x)].
	PredicateModification CompositionRule = predicateModification{}
	// LambdaAbstraction abstracts over the index of a bare index child:
	// λv.⟦other⟧^g[i→v] for a fresh variable v.
	LambdaAbstraction CompositionRule = lambdaAbstraction{}
	// FunctionComposition composes two functions whose types unify as <A,B>
	// and <C,A>: λy.⟦f⟧(⟦h⟧(y)).
	FunctionComposition CompositionRule = functionComposition{}
	// NonBranching passes up the meaning of the only contentful child.
	NonBranching CompositionRule = nonBranching{}
	// IntensionalFunctionApplication applies a function on intensions
	// <<s,X>,Y> to the intension of an argument of type X: ⟦f⟧(λw.⟦a⟧).
	IntensionalFunctionApplication CompositionRule = intensionalFunctionApplication{}
)

// builtinRules is the order in which GuessRule tries rules.
var builtinRules = []CompositionRule{
	NonBranching,
	LambdaAbstraction,
	FunctionApplication,
	IntensionalFunctionApplication,
	PredicateModification,
	FunctionComposition,
}

var ruleCodes = []struct {
	code string
	rule CompositionRule
}{
	{"fa", FunctionApplication},
	{"pm", PredicateModification},
	{"la", LambdaAbstraction},
	{"fc", FunctionComposition},
	{"nn", NonBranching},
	{"ifa", IntensionalFunctionApplication},
}

// RuleByCode returns the built-in rule with the given abbreviation, one of
// fa, pm, la, fc, nn, or ifa, ignoring case. The result is nil if there is no
// such rule.
func RuleByCode(code string) CompositionRule {
	code = strings.ToLower(code)
	for _, r := range ruleCodes {
		if r.code == code {
			return r.rule
		}
	}
	return nil
}

func ruleCode(rule CompositionRule) string {
	if rule == nil {
		return ""
	}
	for _, r := range ruleCodes {
		if r.rule == rule {
			return r.code
		}
	}
	return ""
}

// pair returns the two contentful children of n and the types of their
// meanings under g.
func (e *Engine) pair(rule CompositionRule, n *Nonterminal, g lambdacalc.Assignment) (l, r Node, lt, rt lambdacalc.Type, err error) {
	kids := contentful(n)
	if len(kids) != 2 {
		return nil, nil, nil, nil, &RuleNotApplicableError{Rule: rule, Node: n, Msg: "needs exactly two children"}
	}
	l, r = kids[0], kids[1]
	if lt, err = e.meaningType(l, g); err != nil {
		return nil, nil, nil, nil, err
	}
	if rt, err = e.meaningType(r, g); err != nil {
		return nil, nil, nil, nil, err
	}
	return l, r, lt, rt, nil
}

// applies reports whether a function of type f can apply to an argument of
// type a.
func applies(f, a lambdacalc.Type) bool {
	c, ok := f.(*lambdacalc.Composite)
	return ok && lambdacalc.Matches(c.Domain(), a) != nil
}

type functionApplication struct{}

func (functionApplication) Name() string { return "function application" }

func (functionApplication) IsApplicableTo(e *Engine, n *Nonterminal) bool {
	_, _, lt, rt, err := e.pair(FunctionApplication, n, lambdacalc.Assignment{})
	return err == nil && (applies(lt, rt) || applies(rt, lt))
}

func (functionApplication) ApplyTo(e *Engine, n *Nonterminal, g lambdacalc.Assignment, onlyIfApplicable bool) (lambdacalc.Expr, error) {
	l, r, lt, rt, err := e.pair(FunctionApplication, n, g)
	if err != nil {
		return nil, err
	}
	switch {
	case applies(lt, rt):
	case applies(rt, lt):
		l, r = r, l
	case onlyIfApplicable:
		return nil, &RuleNotApplicableError{Rule: FunctionApplication, Node: n, Msg: "neither child is a function on the type of the other"}
	case !e.faLeft:
		l, r = r, l
	}
	return lambdacalc.NewFunApp(e.Bracket(l, g), e.Bracket(r, g)), nil
}

type predicateModification struct{}

func (predicateModification) Name() string { return "predicate modification" }

func (predicateModification) IsApplicableTo(e *Engine, n *Nonterminal) bool {
	_, _, lt, rt, err := e.pair(PredicateModification, n, lambdacalc.Assignment{})
	return err == nil && lt.Equal(lambdacalc.ET) && rt.Equal(lambdacalc.ET)
}

func (predicateModification) ApplyTo(e *Engine, n *Nonterminal, g lambdacalc.Assignment, onlyIfApplicable bool) (lambdacalc.Expr, error) {
	l, r, lt, rt, err := e.pair(PredicateModification, n, g)
	if err != nil {
		return nil, err
	}
	if onlyIfApplicable && !(lt.Equal(lambdacalc.ET) && rt.Equal(lambdacalc.ET)) {
		return nil, &RuleNotApplicableError{Rule: PredicateModification, Node: n, Msg: "both children must have type <e,t>"}
	}
	x := e.variable(lambdacalc.E, "x", e.inUse(g, l, r))
	body := lambdacalc.NewAnd(
		lambdacalc.NewFunApp(e.Bracket(l, g), x),
		lambdacalc.NewFunApp(e.Bracket(r, g), x),
	)
	return lambdacalc.NewLambda(x, body), nil
}

type lambdaAbstraction struct{}

func (lambdaAbstraction) Name() string { return "lambda abstraction" }

// split returns the bare index child of n and the other child.
func (lambdaAbstraction) split(n *Nonterminal) (*Terminal, Node, bool) {
	kids := contentful(n)
	if len(kids) != 2 {
		return nil, nil, false
	}
	l, lok := kids[0].(*Terminal)
	r, rok := kids[1].(*Terminal)
	lok = lok && l.IsBareIndex()
	rok = rok && r.IsBareIndex()
	switch {
	case lok && !rok:
		return l, kids[1], true
	case rok && !lok:
		return r, kids[0], true
	}
	return nil, nil, false
}

func (rule lambdaAbstraction) IsApplicableTo(e *Engine, n *Nonterminal) bool {
	_, other, ok := rule.split(n)
	if !ok {
		return false
	}
	_, err := e.meaningType(other, lambdacalc.Assignment{})
	return err == nil
}

func (rule lambdaAbstraction) ApplyTo(e *Engine, n *Nonterminal, g lambdacalc.Assignment, onlyIfApplicable bool) (lambdacalc.Expr, error) {
	idx, other, ok := rule.split(n)
	if !ok {
		return nil, &RuleNotApplicableError{Rule: LambdaAbstraction, Node: n, Msg: "needs exactly one bare index and one other child"}
	}
	v := e.variable(idx.varType(), "x", e.namesInUse(g, other))
	return lambdacalc.NewLambda(v, e.Bracket(other, g.With(idx.Index, v))), nil
}

type functionComposition struct{}

func (functionComposition) Name() string { return "function composition" }

// compose finds which of f and h can be composed as f∘h. It returns the type
// of the composed function's variable.
func compose(f, h lambdacalc.Type) (lambdacalc.Type, bool) {
	fc, ok := f.(*lambdacalc.Composite)
	if !ok {
		return nil, false
	}
	hc, ok := h.(*lambdacalc.Composite)
	if !ok {
		return nil, false
	}
	m := lambdacalc.Matches(fc.Domain(), hc.Range())
	if m == nil {
		return nil, false
	}
	return m.ResolveRight(hc.Domain()), true
}

func (functionComposition) IsApplicableTo(e *Engine, n *Nonterminal) bool {
	_, _, lt, rt, err := e.pair(FunctionComposition, n, lambdacalc.Assignment{})
	if err != nil {
		return false
	}
	if _, ok := compose(lt, rt); ok {
		return true
	}
	_, ok := compose(rt, lt)
	return ok
}

func (functionComposition) ApplyTo(e *Engine, n *Nonterminal, g lambdacalc.Assignment, onlyIfApplicable bool) (lambdacalc.Expr, error) {
	l, r, lt, rt, err := e.pair(FunctionComposition, n, g)
	if err != nil {
		return nil, err
	}
	yt, ok := compose(lt, rt)
	if !ok {
		if yt, ok = compose(rt, lt); ok {
			l, r = r, l
		}
	}
	if !ok {
		if onlyIfApplicable {
			return nil, &RuleNotApplicableError{Rule: FunctionComposition, Node: n, Msg: "the children's types do not compose"}
		}
		yt = lambdacalc.E
		if c, ok := rt.(*lambdacalc.Composite); ok {
			yt = c.Domain()
		}
	}
	y := e.variable(yt, "y", e.inUse(g, l, r))
	inner := lambdacalc.NewFunApp(e.Bracket(r, g), y)
	return lambdacalc.NewLambda(y, lambdacalc.NewFunApp(e.Bracket(l, g), inner)), nil
}

type nonBranching struct{}

func (nonBranching) Name() string { return "non-branching" }

func (nonBranching) IsApplicableTo(e *Engine, n *Nonterminal) bool {
	return len(contentful(n)) == 1
}

func (nonBranching) ApplyTo(e *Engine, n *Nonterminal, g lambdacalc.Assignment, onlyIfApplicable bool) (lambdacalc.Expr, error) {
	kids := contentful(n)
	if len(kids) != 1 {
		return nil, &RuleNotApplicableError{Rule: NonBranching, Node: n, Msg: "needs exactly one child"}
	}
	return e.Bracket(kids[0], g), nil
}

type intensionalFunctionApplication struct{}

func (intensionalFunctionApplication) Name() string { return "intensional function application" }

// intensionally reports whether a function of type f can apply to the
// intension of an argument of type a.
func intensionally(f, a lambdacalc.Type) bool {
	c, ok := f.(*lambdacalc.Composite)
	if !ok {
		return false
	}
	d, ok := c.Domain().(*lambdacalc.Composite)
	return ok && d.Domain().Equal(lambdacalc.S) && lambdacalc.Matches(d.Range(), a) != nil
}

func (intensionalFunctionApplication) IsApplicableTo(e *Engine, n *Nonterminal) bool {
	_, _, lt, rt, err := e.pair(IntensionalFunctionApplication, n, lambdacalc.Assignment{})
	return err == nil && (intensionally(lt, rt) || intensionally(rt, lt))
}

func (intensionalFunctionApplication) ApplyTo(e *Engine, n *Nonterminal, g lambdacalc.Assignment, onlyIfApplicable bool) (lambdacalc.Expr, error) {
	l, r, lt, rt, err := e.pair(IntensionalFunctionApplication, n, g)
	if err != nil {
		return nil, err
	}
	switch {
	case intensionally(lt, rt):
	case intensionally(rt, lt):
		l, r = r, l
	case onlyIfApplicable:
		return nil, &RuleNotApplicableError{Rule: IntensionalFunctionApplication, Node: n, Msg: "neither child is a function on the intension of the other"}
	case !e.faLeft:
		l, r = r, l
	}
	w := e.variable(lambdacalc.S, "w", e.inUse(g, r))
	return lambdacalc.NewFunApp(e.Bracket(l, g), lambdacalc.NewLambda(w, e.Bracket(r, g))), nil
}
