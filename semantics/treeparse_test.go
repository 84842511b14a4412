package semantics

import (
	"errors"
	"testing"

	"github.com/dylnb/lambdacalc"
)

func TestParseTreeShape(t *testing.T) {
	tree := MustParseTree("[.CP =la; who_1 [.S t<e>_1 [.VP =nn; is=; happy<<e,t>>=λx.H(x);]]]")
	cp, ok := tree.(*Nonterminal)
	if !ok || cp.Label != "CP" || cp.Rule != LambdaAbstraction || len(cp.Children) != 2 {
		t.Fatalf("wrong root %#v", tree)
	}
	who := cp.Children[0].(*Terminal)
	if who.Label != "who" || who.Index != 1 || !who.IsBareIndex() || who.IsTrace() {
		t.Errorf("wrong binder index %#v", who)
	}
	s := cp.Children[1].(*Nonterminal)
	if s.Rule != nil || len(s.Children) != 2 {
		t.Fatalf("wrong S %#v", s)
	}
	tr := s.Children[0].(*Terminal)
	if !tr.IsTrace() || tr.Index != 1 || !tr.Type.Equal(lambdacalc.E) {
		t.Errorf("wrong trace %#v", tr)
	}
	vp := s.Children[1].(*Nonterminal)
	if vp.Rule != NonBranching || len(vp.Children) != 2 {
		t.Fatalf("wrong VP %#v", vp)
	}
	if is := vp.Children[0].(*Terminal); !is.Vacuous || is.Meaning != nil {
		t.Errorf("wrong vacuous terminal %#v", is)
	}
	happy := vp.Children[1].(*Terminal)
	if !happy.Type.Equal(lambdacalc.ET) || !lambdacalc.Equal(happy.Meaning, lambdacalc.MustParse("λx.H(x)")) {
		t.Errorf("wrong terminal %#v", happy)
	}
}

func TestParseTreeRoundTrip(t *testing.T) {
	srcs := []string{
		"John=j;",
		"t_1",
		"1",
		"t<e>_2",
		"walks<e,t>",
		"[.S John=j; walks=λx.Walk(x);]",
		"[.S =fa; [.DP =nn; John=j;] [.VP walks=λx.Walk(x);]]",
		"[.CP =la; who_1 [.S =fa; t_1 [.VP =ifa; is=; happy=λx.H(x);]]]",
		"[.X =fc; a=f:<t,t>; b=[λx.P(x)](c);]",
		"[.X =pm; a=λx.[P(x) ∧ Q(x)]; b=λx.P(x);]",
	}
	for _, src := range srcs {
		tree, err := ParseTree(src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", src, err)
			continue
		}
		if got := tree.String(); got != src {
			t.Errorf("%q renders as %q", src, got)
		}
	}
}

func TestParseTreeSpacing(t *testing.T) {
	tree, err := ParseTree("  [ .S\n\t=FA;\n  John=j;\n  walks=λx.Walk(x);\n]  ")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tree.String(), "[.S =fa; John=j; walks=λx.Walk(x);]"; got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestParseTreeASCII(t *testing.T) {
	tree, err := ParseTree("[.VP likes=Lx.Ly.R(y, x);]", lambdacalc.ASCII(true))
	if err != nil {
		t.Fatal(err)
	}
	m := tree.(*Nonterminal).Children[0].(*Terminal).Meaning
	if want := lambdacalc.MustParse("λx.λy.R(y, x)"); !lambdacalc.Equal(m, want) {
		t.Errorf("want %v, got %v", want, m)
	}
}

func TestParseTreeErrors(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		col   int
		inner bool
	}{
		{"empty", "", 1, false},
		{"unclosed", "[.S", 1, false},
		{"nodot", "[S a]", 2, false},
		{"nolabel", "[. a]", 3, false},
		{"nochildren", "[.S ]", 5, false},
		{"rule", "[.S =zz; a]", 6, false},
		{"ruleunclosed", "[.S =fa a]", 5, false},
		{"trailing", "a b", 3, false},
		{"close", "]", 1, false},
		{"type", "t<e_1", 2, false},
		{"badtype", "t<e,,t>", 2, true},
		{"index", "a_", 3, false},
		{"meaning", "[.S a=P(; b]", 7, true},
		{"meaningunclosed", "a=P(a)", 2, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree, err := ParseTree(c.src)
			if err == nil {
				t.Fatalf("parsed to %v", tree)
			}
			var te *TreeSyntaxError
			if !errors.As(err, &te) {
				t.Fatalf("wrong error type %T", err)
			}
			if !errors.Is(err, lambdacalc.ErrSyntax) {
				t.Errorf("%v is not a syntax error", err)
			}
			if (te.Err != nil) != c.inner {
				t.Errorf("wrong inner error %v", te.Err)
			}
			if !c.inner && te.Col != c.col {
				t.Errorf("wrong position: want %d, got %d (%v)", c.col, te.Col, err)
			}
			if c.inner && te.Col < c.col {
				t.Errorf("position %d is before the bad text at %d (%v)", te.Col, c.col, err)
			}
		})
	}
}

func TestMustParseTreePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseTree did not panic on bad input")
		}
	}()
	MustParseTree("[.S")
}

func TestRuleByCode(t *testing.T) {
	for _, r := range ruleCodes {
		if RuleByCode(r.code) != r.rule {
			t.Errorf("wrong rule for %s", r.code)
		}
		if ruleCode(r.rule) != r.code {
			t.Errorf("wrong code for %s", r.rule.Name())
		}
	}
	if RuleByCode("PM") != PredicateModification {
		t.Error("codes are case sensitive")
	}
	if RuleByCode("xx") != nil || ruleCode(nil) != "" {
		t.Error("unknown codes and rules are found")
	}
}
