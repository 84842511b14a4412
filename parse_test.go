package lambdacalc

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func TestOpPrecsExist(t *testing.T) {
	for r, s := range singleOps {
		if s == "¬" {
			continue
		}
		if b := binop(s); b.op == binaryNone {
			t.Errorf("no operator for %c", r)
		}
	}
	for _, s := range []string{"→", "↔", "≠"} {
		if b := binop(s); b.op == binaryNone {
			t.Errorf("no operator for %s", s)
		}
	}
}

func TestConnectivePrecedence(t *testing.T) {
	// Equality binds tighter than conditionals, which bind tighter than
	// conjunction and disjunction.
	and, cond, eq, mul := binop("∧"), binop("→"), binop("="), binop("×")
	if !cond.moreBinding(and) {
		t.Errorf("→ (%d) should bind tighter than ∧ (%d)", cond.prec, and.prec)
	}
	if !eq.moreBinding(cond) {
		t.Errorf("= (%d) should bind tighter than → (%d)", eq.prec, cond.prec)
	}
	if !mul.moreBinding(eq) {
		t.Errorf("× (%d) should bind tighter than = (%d)", mul.prec, eq.prec)
	}
	if binop("∨").prec != and.prec {
		t.Errorf("∨ and ∧ have different precedences")
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		opts []ParseOption
	}{
		{"dot", "λx P(x)", "λx.P(x)", nil},
		{"bracketscope", "λx.[P(x)]", "λx.P(x)", nil},
		{"args", "R(a,b)", "R(a, b)", nil},
		{"and3", "p ∧ q ∧ r", "[p ∧ q] ∧ r", nil},
		{"andif", "p ∧ q → r", "p ∧ [q → r]", nil},
		{"ifeq", "p → a = b", "p → [a = b]", nil},
		{"neq", "a ≠ b", "¬[a = b]", nil},
		{"asciiconn", "P(a) & Q(b) & p", "[P(a) ∧ Q(b)] ∧ p", nil},
		{"bar", "p | q", "p ∨ q", nil},
		{"caret", "p ^ q", "p ∧ q", nil},
		{"curried", "f:<e,et>(a)(b)", "[f:<e,<e,t>>(a)](b)", nil},
		{"mul", "2 × 3 × 4", "[2 × 3] × 4", nil},
		{"setbar", "{x|P(x)}", "{x | P(x)}", nil},
		{"nested", "∀x∃y.R(x, y)", "∀x.∃y.R(x, y)", nil},
		{"notbinder", "¬∃x P(x)", "¬[∃x.P(x)]", nil},

		{"single-pred", "Pa", "P(a)", []ParseOption{SingleLetterIdentifiers(true)}},
		{"single-rel", "Rab", "R(a, b)", []ParseOption{SingleLetterIdentifiers(true)}},
		{"single-binder", "λxPx", "λx.P(x)", []ParseOption{SingleLetterIdentifiers(true)}},
		{"single-nested", "∀x∃yRxy", "∀x.∃y.R(x, y)", []ParseOption{SingleLetterIdentifiers(true)}},
		{"single-and", "Pa ∧ Qb", "P(a) ∧ Q(b)", []ParseOption{SingleLetterIdentifiers(true)}},

		{"ascii-lambda", "Lx.P(x)", "λx.P(x)", []ParseOption{ASCII(true)}},
		{"ascii-quant", "Ax.Ey.R(x,y)", "∀x.∃y.R(x, y)", []ParseOption{ASCII(true)}},
		{"ascii-iota", "Ix.P(x)", "ιx.P(x)", []ParseOption{ASCII(true)}},
		{"ascii-if", "~p -> q", "¬p → q", []ParseOption{ASCII(true)}},
		{"ascii-iff", "p <-> q", "p ↔ q", []ParseOption{ASCII(true)}},
		{"ascii-neq", "a != b", "a ≠ b", []ParseOption{ASCII(true)}},
		{"ascii-const", "A(x)", "A(x)", []ParseOption{ASCII(true)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a, c.opts...)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b, c.opts...)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			if !Equal(a, b) {
				t.Errorf("mismatched trees:\n\t%q parses to %v\n\t%q parses to %v", c.a, a, c.b, b)
			}
		})
	}
}

func TestParseString(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		want  string
		ascii string
		opts  []ParseOption
	}{
		{"lambda", "λx.P(x)", "λx.P(x)", "Lx.P(x)", nil},
		{"nodot", "λx P(x)", "λx.P(x)", "Lx.P(x)", nil},
		{"rel", "R(a,b)", "R(a, b)", "R(a, b)", nil},
		{"andif", "p ∧ q → r", "p ∧ [q → r]", "p & [q -> r]", nil},
		{"and3", "p ∧ q ∧ r", "p ∧ q ∧ r", "p & q & r", nil},
		{"neq", "a ≠ b", "a ≠ b", "a != b", nil},
		{"notparen", "¬(a = b)", "¬[a = b]", "~[a = b]", nil},
		{"gen", "{x|P(x)}", "{x | P(x)}", "{x | P(x)}", nil},
		{"card", "|{a, b}|", "|{a, b}|", "|{a, b}|", nil},
		{"empty", "{}", "{}", "{}", nil},
		{"curried", "f:<e,et>(a)(b)", "f:<e,<e,t>>(a)(b)", "f:<e,<e,t>>(a)(b)", nil},
		{"product", "R:<e*e,t>(a, b)", "R:<e×e,t>(a, b)", "R:<e*e,t>(a, b)", nil},
		{"boundtype", "λx:<e,t>.x(a)", "λx:<e,t>.x(a)", "Lx:<e,t>.x(a)", nil},
		{"redex", "[λx.P(x)](a)", "[λx.P(x)](a)", "[Lx.P(x)](a)", nil},
		{"curry", "λx.λy.R(x, y)", "λx.λy.R(x, y)", "Lx.Ly.R(x, y)", nil},
		{"notall", "¬∀x.P(x)", "¬∀x.P(x)", "~Ax.P(x)", nil},
		{"bracketall", "[∀x.P(x)] ∧ Q(a)", "[∀x.P(x)] ∧ Q(a)", "[Ax.P(x)] & Q(a)", nil},
		{"closedscope", "∀x.[P(x)] ∧ Q(a)", "[∀x.[P(x)]] ∧ Q(a)", "[Ax.[P(x)]] & Q(a)", nil},
		{"closedor", "∃x.[P(x)] ∨ p", "[∃x.[P(x)]] ∨ p", "[Ex.[P(x)]] | p", nil},
		{"scope", "∃x.[P(x) ∧ Q(x)]", "∃x.[P(x) ∧ Q(x)]", "Ex.[P(x) & Q(x)]", nil},
		{"mul", "2 × 3", "2 × 3", "2 * 3", nil},
		{"gamma", "γx.P(x)", "γx.P(x)", "γx.P(x)", nil},
		{"single", "Rab ∧ Pa", "R(a, b) ∧ P(a)", "R(a, b) & P(a)", []ParseOption{SingleLetterIdentifiers(true)}},
		{"asciiwords", "Likes(j) & Every(m)", "Likes(j) ∧ Every(m)", "Likes(j) & Every(m)", []ParseOption{ASCII(true)}},
		{"asciiwordscope", "Lx.In(x)", "λx.In(x)", "Lx.In(x)", []ParseOption{ASCII(true)}},
		{"ascii", "Lx.[P(x) & Q(x)]", "λx.[P(x) ∧ Q(x)]", "Lx.[P(x) & Q(x)]", []ParseOption{ASCII(true)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, c.opts...)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if got := a.String(); got != c.want {
				t.Errorf("wrong string for %q: want %q, got %q", c.src, c.want, got)
			}
			if got := a.ASCIIString(); got != c.ascii {
				t.Errorf("wrong ASCII string for %q: want %q, got %q", c.src, c.ascii, got)
			}
		})
	}
}

func TestDisplayString(t *testing.T) {
	a := MustParse("f:<e,et>(a)(b) ∧ ∃v:s.p")
	want := "f(a)(b) ∧ [∃v.p]"
	if got := a.DisplayString(); got != want {
		t.Errorf("wrong display string: want %q, got %q", want, got)
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"ident", "x"},
		{"lambda", "λx.P(x)"},
		{"quant", "∀x.∃y.R(x, y)"},
		{"and", "P(a) ∧ Q(b)"},
		{"andif", "p ∧ q → r"},
		{"iff", "[p → q] ↔ r"},
		{"neq", "a ≠ b"},
		{"notneq", "¬[a ≠ b]"},
		{"notall", "¬∀x.P(x)"},
		{"set", "{a, b, c}"},
		{"gen", "{x | P(x) ∨ Q(x)}"},
		{"card", "|{x | P(x)}| = 2"},
		{"redex", "[λx.λy.R(x, y)](a)(b)"},
		{"nestedredex", "[λX.X(a)]([λx.P(x)])"},
		{"explicit", "f:<e,et>(a)(b) ∧ f(b)(a)"},
		{"boundtype", "[λx:<e,t>.x(a)](P) ∧ x = a"},
		{"iota", "P(ιx.Q(x))"},
		{"tvar", "f:<X,X>(a) = a"},

		// Cases isolated with fuzzing.
		{"binderand", "p ∧ λx.P(x)"},
		{"notbinderand", "[¬∃x.P(x)] ∧ p"},
		{"prime", "λx'.P(x')"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			b, err := ParseString(s)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			if !Equal(a, b) {
				t.Errorf("mismatched trees:\n\t%q parses to %v\n\t%q parses to %v", c.src, a, s, b)
			}
			s = a.ASCIIString()
			b, err = ParseString(s, ASCII(true))
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			if !Equal(a, b) {
				t.Errorf("mismatched trees:\n\t%q parses to %v\n\t%q parses to %v", c.src, a, s, b)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		res  []string
	}{
		{"empty", "", new(EmptyExpressionError), []string{`(?i)\bno\b.*\bexpression\b`}},
		{"emptyparen", "()", new(EmptyExpressionError), []string{`(?i)\bno\b.*\bexpression\b`, `\)`}},
		{"emptyargs", "P()", new(EmptyExpressionError), []string{`(?i)\bno\b.*\bexpression\b`, `\)`}},
		{"emptyoperand", "p ∧", new(EmptyExpressionError), []string{`(?i)\bend\b`}},
		{"emptycond", "{a | }", new(EmptyExpressionError), []string{`\}`}},
		{"left", "P(a", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}},
		{"right", "a)", new(BracketError), []string{`(?i)\bbracket\b`, `\)`}},
		{"mismatch", "P(a]", new(BracketError), []string{`(?i)\bbracket\b`, `\(`, `]`}},
		{"card", "|a", new(BracketError), []string{`\|`}},
		{"prefixop", "∧ p", new(OperatorError), []string{`(?i)\bprefix\b`, `∧`}},
		{"sep", "a, b", new(SeparatorError), []string{`","`}},
		{"sepsquare", "[a, b]", new(SeparatorError), []string{`","`}},
		{"dot", "a. b", new(SeparatorError), []string{`"\."`}},
		{"andor", "p ∧ q ∨ r", new(AmbiguityError), []string{`(?i)\bambiguous\b`, `(?i)\bconjunction\b`}},
		{"ifif", "p → q → r", new(AmbiguityError), []string{`(?i)\bconditionals\b`}},
		{"ififf", "p → q ↔ r", new(AmbiguityError), []string{`(?i)\bconditionals\b`}},
		{"eqeq", "a = b = c", new(AmbiguityError), []string{`(?i)\bequalities\b`}},
		{"eqneq", "a = b ≠ c", new(AmbiguityError), []string{`(?i)\bequalities\b`}},
		{"scope", "∀x.P(x) ∧ Q(x)", new(AmbiguityError), []string{`(?i)\bscope\b`, `∀x`}},
		{"scopeconst", "∀x.P(x) ∧ Q(a)", new(AmbiguityError), []string{`(?i)\bscope\b`, `∀x`}},
		{"asciiscope", "Ax.P(x) & Q(x)", new(AmbiguityError), []string{`(?i)\bscope\b`}},
		{"novar", "λ.P(x)", new(SyntaxError), []string{`(?i)\bvariable\b`}},
		{"numvar", "λ2.p", new(SyntaxError), []string{`(?i)\bvariable\b`}},
		{"adjacent", "a b", new(SyntaxError), []string{`(?i)\bconnective\b`, `"b"`}},
		{"untyped", "Ω", new(SyntaxError), []string{`(?i)\bconvention\b`, `Ω`}},
		{"baretype", ":e", new(SyntaxError), []string{`(?i)\bannotation\b`}},
		{"badtype", "x:<e,e,t>", new(TypeSyntaxError), []string{`(?i)\bcommas\b`}},
		{"ambigtype", "x:eee", new(TypeSyntaxError), []string{`(?i)\bambiguous\b`}},
		{"opentype", "x:<e,t", new(LexError), []string{`(?i)\btype\b`}},
		{"lexer", "P(a, $)", new(LexError), []string{`\$`}},
		{"arrow", "p - q", new(LexError), []string{`(?i)\boperator\b`}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opts := []ParseOption(nil)
			if strings.HasPrefix(c.name, "ascii") {
				opts = append(opts, ASCII(true))
			}
			a, err := ParseString(c.src, opts...)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error from %q does not match ErrSyntax: %v", c.src, err)
			}
			var ie InputError
			if !errors.As(err, &ie) || ie.Pos() < 1 {
				t.Errorf("error from %q has no position: %v", c.src, err)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestErrorPositions(t *testing.T) {
	cases := []struct {
		src string
		pos int
	}{
		{"p ∧ q ∨ r", 7},
		{"∀x.P(x) ∧ Q(x)", 9},
		{"a b", 3},
		{"P(a]", 4},
		{"x:<e,e,t>", 7},
	}
	for _, c := range cases {
		_, err := ParseString(c.src)
		var ie InputError
		if !errors.As(err, &ie) {
			t.Errorf("%q: wanted an InputError, got %v", c.src, err)
			continue
		}
		if ie.Pos() != c.pos {
			t.Errorf("%q: wrong position: want %d, got %d (%v)", c.src, c.pos, ie.Pos(), err)
		}
	}
}

func TestParseTypes(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"a", "e"},
		{"x", "e"},
		{"p", "t"},
		{"w", "s"},
		{"P", "<e,t>"},
		{"R", "<e×e,t>"},
		{"X", "<e,t>"},
		{"2", "n"},
		{"λx.P(x)", "<e,t>"},
		{"λx.λy.R(x, y)", "<e,<e,t>>"},
		{"λX.X(a)", "<<e,t>,t>"},
		{"γx.P(x)", "<e,t>"},
		{"∀x.P(x)", "t"},
		{"ιx.P(x)", "e"},
		{"R(a, b)", "t"},
		{"P(a) ∧ ¬Q(b)", "t"},
		{"a = b", "t"},
		{"a ≠ b", "t"},
		{"{a, b}", "<e,t>"},
		{"{x | P(x)}", "<e,t>"},
		{"|{x | P(x)}|", "n"},
		{"2 × 3", "n"},
		{"f:<X,X>(a)", "e"},
		{"f:<X,<Y,X>>(a)(p)", "e"},
		{"[λx:<e,t>.x(a)](P)", "t"},
		{"[λx:<e,t>.x(a)](P) ∧ x = a", "t"},
	}
	for _, c := range cases {
		a, err := ParseString(c.src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", c.src, err)
			continue
		}
		typ, err := a.Type()
		if err != nil {
			t.Errorf("%q failed to type: %v", c.src, err)
			continue
		}
		if got := typ.String(); got != c.want {
			t.Errorf("wrong type for %q: want %s, got %s", c.src, c.want, got)
		}
	}
}

func TestTypeErrors(t *testing.T) {
	cases := []struct {
		src      string
		mismatch bool
	}{
		{"P(a, b)", true},
		{"p ∧ a", true},
		{"a(b)", true},
		{"∀x.x", true},
		{"{a, p}", true},
		{"|a|", true},
		{"a = p", true},
		{"¬a", true},
		{"λa.P(a)", false},
		{"{}", false},
	}
	for _, c := range cases {
		a, err := ParseString(c.src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", c.src, err)
			continue
		}
		typ, err := a.Type()
		if err == nil {
			t.Errorf("%q has type %v but should be ill-typed", c.src, typ)
			continue
		}
		if !errors.Is(err, ErrType) {
			t.Errorf("%q: error does not match ErrType: %v", c.src, err)
		}
		var tm *TypeMismatchError
		if errors.As(err, &tm) != c.mismatch {
			t.Errorf("%q: wrong error kind: %#v", c.src, err)
		}
	}
}

func TestCollectExplicitTypes(t *testing.T) {
	m := make(map[string]Type)
	if _, err := ParseString("f:<e,et>(a)(b) ∧ [λv:s.p](w)", CollectExplicitTypes(m)); err != nil {
		t.Fatal(err)
	}
	if len(m) != 2 {
		t.Fatalf("wrong collected types: %v", m)
	}
	if !m["f"].Equal(MustParseType("<e,et>")) || !m["v"].Equal(S) {
		t.Errorf("wrong collected types: %v", m)
	}
	typer := DefaultConventions()
	typer.AddExplicitTypes(m)
	isVar, typ, ok := typer.Lookup("f")
	if !ok || isVar || !typ.Equal(MustParseType("<e,et>")) {
		t.Errorf("wrong rule for f: %t %v %t", isVar, typ, ok)
	}
	isVar, typ, ok = typer.Lookup("v")
	if !ok || !isVar || !typ.Equal(S) {
		t.Errorf("wrong rule for v: %t %v %t", isVar, typ, ok)
	}
	a, err := ParseString("f(a)(b)", WithTyper(typer))
	if err != nil {
		t.Fatal(err)
	}
	if typ, err := a.Type(); err != nil || !typ.Equal(T) {
		t.Errorf("wrong type with adopted conventions: %v, %v", typ, err)
	}
	if got := a.String(); got != "f(a)(b)" {
		t.Errorf("adopted type should not be explicit, got %q", got)
	}
}

func TestWithTyperUnchanged(t *testing.T) {
	typer := DefaultConventions()
	n := typer.Len()
	if _, err := ParseString("f:et(a) ∧ [λx:<e,t>.x(a)](P)", WithTyper(typer)); err != nil {
		t.Fatal(err)
	}
	if typer.Len() != n {
		t.Errorf("parsing changed typer from %d to %d rules", n, typer.Len())
	}
}

func TestParsingPreset(t *testing.T) {
	preset := ParsingPreset(ASCII(true), SingleLetterIdentifiers(true))
	a, err := ParseString("Lx.Px", preset)
	if err != nil {
		t.Fatal(err)
	}
	if got := a.String(); got != "λx.P(x)" {
		t.Errorf("wrong parse with preset: %q", got)
	}
	// Options after the preset are fine.
	if _, err := ParseString("Lx.Px", preset, ASCII(false)); err == nil {
		t.Errorf("ASCII(false) after preset should disable letter binders")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("applying a preset after other options should panic")
		}
	}()
	ParseString("Lx.Px", ASCII(true), preset)
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"lambda", "λx.P(x)"},
		{"quant", "∀x.∃y.[R(x, y) → ¬[x = y]]"},
		{"redex", "[λX.λx.[X(x) ∧ P(x)]]([λy.Q(y)])"},
		{"typed", "f:<e,<e,t>>(a)(b) ∧ [λv:s.p] = [λv:s.q]"},
		{"set", "|{x | P(x) ∨ Q(x)}| = 2"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src)
			}
		})
	}
}
