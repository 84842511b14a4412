package semantics_test

import (
	"fmt"
	"strings"

	"github.com/dylnb/lambdacalc"
	"github.com/dylnb/lambdacalc/semantics"
)

func ExampleEngine_Evaluate() {
	tree := semantics.MustParseTree("[.CP who_1 [.S John=j; [.VP likes=λx.λy.R(y, x); t_1]]]")
	e := semantics.NewEngine()
	if err := e.AssignRules(tree); err != nil {
		panic(err)
	}
	fmt.Println(tree)
	m, err := e.Evaluate(tree)
	if err != nil {
		panic(err)
	}
	t, _ := m.Type()
	fmt.Println(m, t)
	// Output:
	// [.CP =la; who_1 [.S =fa; John=j; [.VP =fa; likes=λx.λy.R(y, x); t_1]]]
	// λx.R(j, x) <e,t>
}

func ExampleEngine_Derive() {
	tree := semantics.MustParseTree("[.S =fa; [.DP =nn; John=j;] [.VP =nn; walks=λx.Walk(x);]]")
	steps, err := semantics.NewEngine().Derive(tree)
	if err != nil {
		panic(err)
	}
	for _, s := range steps {
		switch {
		case s.Rule != nil:
			fmt.Printf("%s\t(%s)\n", s.Expr, s.Rule.Name())
		case s.Kind != lambdacalc.NoStep:
			fmt.Printf("%s\t(%s)\n", s.Expr, s.Kind)
		default:
			fmt.Println(s.Expr)
		}
	}
	// Output:
	// ⟦S⟧^g
	// ⟦VP⟧^g(⟦DP⟧^g)	(function application)
	// [λx.Walk(x)](j)	(replace meaning brackets)
	// Walk(j)	(lambda conversion)
}

func ExampleParseLexicon() {
	lex, err := semantics.ParseLexicon(strings.NewReader("cat = λx.C(x)\ngray = λx.G(x)\n"))
	if err != nil {
		panic(err)
	}
	tree := semantics.MustParseTree("[.NP gray cat]")
	lex.Apply(tree)
	e := semantics.NewEngine()
	if err := e.AssignRules(tree); err != nil {
		panic(err)
	}
	m, err := e.Evaluate(tree)
	if err != nil {
		panic(err)
	}
	fmt.Println(tree)
	fmt.Println(m)
	// Output:
	// [.NP =pm; gray=λx.G(x); cat=λx.C(x);]
	// λx.[G(x) ∧ C(x)]
}
