package semantics

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v2"

	"github.com/dylnb/lambdacalc"
)

// Engine computes the meanings of logical forms. An Engine is not safe for
// concurrent use: it memoizes meanings while it evaluates a tree, and the
// memo is cleared at the start of each exported method, since the tree may
// have been changed between calls.
type Engine struct {
	typer    *lambdacalc.IdentifierTyper
	faLeft   bool
	maxSteps int

	meanings map[memoKey]lambdacalc.Expr
	types    map[memoKey]lambdacalc.Type
}

type memoKey struct {
	n Node
	g string
}

// EngineOption is an option for NewEngine.
type EngineOption interface {
	engineOption(*Engine)
}

type conventionsOpt struct{ c *lambdacalc.IdentifierTyper }

// Conventions sets the typing conventions used to name the variables that
// composition rules introduce. The default is lambdacalc.DefaultConventions.
func Conventions(c *lambdacalc.IdentifierTyper) EngineOption {
	return conventionsOpt{c: c}
}

func (o conventionsOpt) engineOption(e *Engine) {
	e.typer = o.c.Clone()
}

type faLeftOpt bool

// DefaultFunctionOnLeft sets which side function application takes as the
// function when the types of neither side fit and the rule is applied anyway.
// The default is true. The resulting expression is not well typed either way;
// it exists to show why the rule does not work.
func DefaultFunctionOnLeft(on bool) EngineOption {
	return faLeftOpt(on)
}

func (o faLeftOpt) engineOption(e *Engine) {
	e.faLeft = bool(o)
}

type maxStepsOpt int

// MaxSteps sets the number of simplification steps allowed for the meaning of
// each node. The default is lambdacalc.DefaultMaxSteps.
func MaxSteps(n int) EngineOption {
	return maxStepsOpt(n)
}

func (o maxStepsOpt) engineOption(e *Engine) {
	e.maxSteps = int(o)
}

// NewEngine creates an engine with the given options applied in order.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		typer:    lambdacalc.DefaultConventions(),
		faLeft:   true,
		maxSteps: lambdacalc.DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt.engineOption(e)
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.meanings = make(map[memoKey]lambdacalc.Expr)
	e.types = make(map[memoKey]lambdacalc.Type)
}

// Evaluate returns the meaning of n under the empty assignment.
func (e *Engine) Evaluate(n Node) (lambdacalc.Expr, error) {
	return e.Meaning(n, lambdacalc.Assignment{})
}

// Meaning returns the fully simplified meaning of n under g.
func (e *Engine) Meaning(n Node, g lambdacalc.Assignment) (lambdacalc.Expr, error) {
	e.reset()
	return e.meaning(n, g)
}

// MeaningType returns the type of the meaning of n under g. It does not
// simplify anything, and the terminals under n need only declared types.
func (e *Engine) MeaningType(n Node, g lambdacalc.Assignment) (lambdacalc.Type, error) {
	e.reset()
	return e.meaningType(n, g)
}

// Bracket returns ⟦n⟧^g, the meaning of n under g as a meaning bracket to be
// replaced when the expression containing it is simplified.
func (e *Engine) Bracket(n Node, g lambdacalc.Assignment) *lambdacalc.MeaningBracket {
	return lambdacalc.NewMeaningBracket(denotable{e: e, n: n}, g)
}

// denotable binds a node to the engine that evaluates it.
type denotable struct {
	e *Engine
	n Node
}

func (d denotable) String() string { return d.n.Name() }

func (d denotable) Denote(g lambdacalc.Assignment) (lambdacalc.Expr, error) {
	return d.e.meaning(d.n, g)
}

func (d denotable) DenotationType(g lambdacalc.Assignment) (lambdacalc.Type, error) {
	return d.e.meaningType(d.n, g)
}

func (e *Engine) meaning(n Node, g lambdacalc.Assignment) (lambdacalc.Expr, error) {
	k := memoKey{n: n, g: assignmentKey(g)}
	if m, ok := e.meanings[k]; ok {
		return m, nil
	}
	var m lambdacalc.Expr
	switch n := n.(type) {
	case *Terminal:
		switch {
		case n.Vacuous:
			return nil, &NoMeaningError{Node: n}
		case n.Meaning != nil:
			m = lambdacalc.ResolveGApps(n.Meaning, g)
		case n.IsTrace():
			m = trace(n, g)
		default:
			return nil, &NoMeaningError{Node: n}
		}
	case *Nonterminal:
		if n.Rule == nil {
			return nil, &NoRuleError{Node: n}
		}
		x, err := n.Rule.ApplyTo(e, n, g, true)
		if err != nil {
			return nil, err
		}
		m = x
	default:
		panic("semantics: unknown node")
	}
	r, err := lambdacalc.Normalize(m, e.maxSteps)
	if err != nil {
		return nil, err
	}
	e.meanings[k] = r
	return r, nil
}

func (e *Engine) meaningType(n Node, g lambdacalc.Assignment) (lambdacalc.Type, error) {
	k := memoKey{n: n, g: assignmentKey(g)}
	if t, ok := e.types[k]; ok {
		return t, nil
	}
	var t lambdacalc.Type
	switch n := n.(type) {
	case *Terminal:
		switch {
		case n.Vacuous:
			return nil, &NoMeaningError{Node: n}
		case n.Meaning != nil:
			x, err := n.Meaning.Type()
			if err != nil {
				return nil, err
			}
			t = x
		case n.IsTrace():
			t = n.varType()
		case n.Type != nil && !n.IsBareIndex():
			t = n.Type
		default:
			return nil, &NoMeaningError{Node: n}
		}
	case *Nonterminal:
		if n.Rule == nil {
			return nil, &NoRuleError{Node: n}
		}
		x, err := n.Rule.ApplyTo(e, n, g, true)
		if err != nil {
			return nil, err
		}
		t, err = x.Type()
		if err != nil {
			return nil, err
		}
	default:
		panic("semantics: unknown node")
	}
	e.types[k] = t
	return t, nil
}

// trace returns the meaning of a trace under g.
func trace(t *Terminal, g lambdacalc.Assignment) lambdacalc.Expr {
	if v, ok := g.Lookup(t.Index); ok {
		return v
	}
	return lambdacalc.NewGApp(t.Index, t.varType())
}

// assignmentKey renders g including the types of its variables.
func assignmentKey(g lambdacalc.Assignment) string {
	var b strings.Builder
	for _, i := range g.Indices() {
		v, _ := g.Lookup(i)
		b.WriteString(strconv.Itoa(i))
		b.WriteByte('=')
		b.WriteString(v.Name())
		b.WriteByte(':')
		b.WriteString(v.DeclaredType().String())
		b.WriteByte(';')
	}
	return b.String()
}

// inUse returns the names a rule must avoid when it introduces a variable
// over the meanings of ns under g: the variables g assigns and the free
// variables of those meanings.
func (e *Engine) inUse(g lambdacalc.Assignment, ns ...Node) *set.Set[string] {
	s := set.New[string](g.Len())
	for _, v := range g.Vars() {
		s.Insert(v.Name())
	}
	for _, n := range ns {
		m, err := e.meaning(n, g)
		if err != nil {
			continue
		}
		for _, v := range lambdacalc.FreeVariables(m) {
			s.Insert(v.Name())
		}
	}
	return s
}

// namesInUse is like inUse but also includes the variables bound in the
// meanings of ns. A variable that an assignment will give to a trace below
// must avoid them.
func (e *Engine) namesInUse(g lambdacalc.Assignment, ns ...Node) *set.Set[string] {
	s := e.inUse(g, ns...)
	for _, n := range ns {
		if m, err := e.meaning(n, g); err == nil {
			s.InsertSet(lambdacalc.VariablesInUse(m))
		}
	}
	return s
}

// variable returns a variable of type t named by the engine's conventions,
// or by fallback if they have no variables of that type. The name gets primes
// as needed to avoid inUse.
func (e *Engine) variable(t lambdacalc.Type, fallback string, inUse *set.Set[string]) *lambdacalc.Ident {
	name := e.typer.VariableFor(t)
	if name == "" {
		name = fallback
	}
	v := lambdacalc.NewVar(name, t)
	if inUse.Contains(name) {
		v = lambdacalc.FreshVariable(v, inUse)
	}
	if isVar, u, ok := e.typer.Lookup(v.Name()); !ok || !isVar || !u.Equal(t) {
		v = v.WithExplicitType()
	}
	return v
}

// Step is one line of a derivation.
type Step struct {
	// Rule is the rule applied at the root, for the line that applies it.
	Rule CompositionRule
	// Kind is the simplification step that produced Expr. It is
	// lambdacalc.NoStep for the first line and for the line applying Rule.
	Kind lambdacalc.Step
	Expr lambdacalc.Expr
}

// Derive returns the derivation of the meaning of n under the empty
// assignment, one step per line: first ⟦n⟧, then the application of n's rule
// to its children, then each simplification step to the final meaning.
func (e *Engine) Derive(n Node) ([]Step, error) {
	e.reset()
	var g lambdacalc.Assignment
	x := lambdacalc.Expr(e.Bracket(n, g))
	steps := []Step{{Expr: x}}
	if nt, ok := n.(*Nonterminal); ok {
		if nt.Rule == nil {
			return steps, &NoRuleError{Node: nt}
		}
		r, err := nt.Rule.ApplyTo(e, nt, g, true)
		if err != nil {
			return steps, err
		}
		x = r
		steps = append(steps, Step{Rule: nt.Rule, Expr: x})
	}
	for i := 0; i < e.maxSteps; i++ {
		r, kind, err := lambdacalc.Simplify(x)
		if err != nil {
			return steps, err
		}
		if kind == lambdacalc.NoStep {
			return steps, nil
		}
		x = r
		steps = append(steps, Step{Kind: kind, Expr: x})
	}
	if lambdacalc.CanSimplify(x) {
		return steps, lambdacalc.ErrNoNormalForm
	}
	return steps, nil
}

// GuessRule returns the first built-in rule that applies to n, trying
// non-branching, lambda abstraction, function application, intensional
// function application, predicate modification, and function composition in
// that order. The result is nil if none applies.
func (e *Engine) GuessRule(n *Nonterminal) CompositionRule {
	e.reset()
	for _, r := range builtinRules {
		if r.IsApplicableTo(e, n) {
			return r
		}
	}
	return nil
}

// AssignRules guesses a rule for each nonterminal in the tree that has none,
// children before parents. Nodes for which no rule applies are left without
// one, and the error is a *NoRuleError for the first such node.
func (e *Engine) AssignRules(tree Node) error {
	var first error
	var visit func(Node)
	visit = func(n Node) {
		nt, ok := n.(*Nonterminal)
		if !ok {
			return
		}
		for _, c := range nt.Children {
			visit(c)
		}
		if nt.Rule != nil {
			return
		}
		nt.Rule = e.GuessRule(nt)
		if nt.Rule == nil && first == nil {
			first = &NoRuleError{Node: nt}
		}
	}
	visit(tree)
	e.reset()
	return first
}
