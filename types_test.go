package lambdacalc

import (
	"errors"
	"testing"
)

func TestParseType(t *testing.T) {
	cases := []struct {
		src   string
		str   string
		short string
	}{
		{"e", "e", "e"},
		{"t", "t", "t"},
		{"X", "X", "X"},
		{"<e,t>", "<e,t>", "et"},
		{"et", "<e,t>", "et"},
		{"<et>", "<e,t>", "et"},
		{"<e,et>", "<e,<e,t>>", "<e,et>"},
		{"<e,<e,t>>", "<e,<e,t>>", "<e,et>"},
		{"<<e,t>,t>", "<<e,t>,t>", "<et,t>"},
		{"<et,<et,t>>", "<<e,t>,<<e,t>,t>>", "<et,<et,t>>"},
		{"<e*e,t>", "<e×e,t>", "<e×e,t>"},
		{"<e×e×e,t>", "<e×e×e,t>", "<e×e×e,t>"},
		{"e×e", "e×e", "e×e"},
		{"< e , t >", "<e,t>", "et"},
		{"<X,<Y,X>>", "<X,<Y,X>>", "<X,YX>"},
		{"<s,<e,t>>", "<s,<e,t>>", "<s,et>"},
	}
	for _, c := range cases {
		typ, err := ParseType(c.src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", c.src, err)
			continue
		}
		if got := typ.String(); got != c.str {
			t.Errorf("wrong string for %q: want %q, got %q", c.src, c.str, got)
		}
		if got := typ.ShortString(); got != c.short {
			t.Errorf("wrong short string for %q: want %q, got %q", c.src, c.short, got)
		}
		again, err := ParseType(typ.ShortString())
		if err != nil {
			t.Errorf("short string %q of %q failed to parse: %v", typ.ShortString(), c.src, err)
			continue
		}
		if !again.Equal(typ) {
			t.Errorf("short string %q of %q parses to %v", typ.ShortString(), c.src, again)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	cases := []struct {
		src string
		col int
	}{
		{"", 1},
		{"<e,t", 1},
		{"e,t", 2},
		{"<e,e,t>", 5},
		{"<>", 2},
		{"<e>", 3},
		{"<e,>", 4},
		{"<,t>", 2},
		{"e>", 2},
		{"eee", 1},
		{"e*", 2},
		{"*e", 1},
		{"e**e", 3},
		{"<e,t><e,t>", 1},
		{"e+t", 2},
	}
	for _, c := range cases {
		typ, err := ParseType(c.src)
		if err == nil {
			t.Errorf("%q parsed to %v but should have failed", c.src, typ)
			continue
		}
		var te *TypeSyntaxError
		if !errors.As(err, &te) {
			t.Errorf("%q: wrong error type %T", c.src, err)
			continue
		}
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: error does not match ErrSyntax", c.src)
		}
		if te.Col != c.col {
			t.Errorf("%q: wrong error position: want %d, got %d (%v)", c.src, c.col, te.Col, err)
		}
	}
}

func TestMustParseTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseType did not panic on bad input")
		}
	}()
	MustParseType("<e,")
}

func TestTypeEqual(t *testing.T) {
	cases := []struct {
		a, b string
		eq   bool
	}{
		{"e", "e", true},
		{"e", "t", false},
		{"X", "X", true},
		{"X", "e", false},
		{"et", "<e,t>", true},
		{"<e,et>", "<et,t>", false},
		{"e×e", "e×e", true},
		{"e×e", "e×e×e", false},
		{"e×t", "t×e", false},
	}
	for _, c := range cases {
		a, b := MustParseType(c.a), MustParseType(c.b)
		if a.Equal(b) != c.eq || b.Equal(a) != c.eq {
			t.Errorf("%v = %v should be %t", a, b, c.eq)
		}
	}
}

func TestTypeAccessors(t *testing.T) {
	c, ok := MustParseType("<e×e,t>").(*Composite)
	if !ok {
		t.Fatal("not a composite type")
	}
	if !c.Range().Equal(T) {
		t.Errorf("wrong range %v", c.Range())
	}
	p, ok := c.Domain().(*Product)
	if !ok || p.Arity() != 2 {
		t.Fatalf("wrong domain %v", c.Domain())
	}
	subs := p.Subtypes()
	subs[0] = T
	if !p.Subtypes()[0].Equal(E) {
		t.Errorf("Subtypes exposes internal storage")
	}
	if v := NewTypeVar('X'); v.Symbol() != 'X' {
		t.Errorf("wrong symbol %c", v.Symbol())
	}
}

func TestMatches(t *testing.T) {
	cases := []struct {
		a, b  string
		ok    bool
		left  map[rune]string
		right map[rune]string
	}{
		{"e", "e", true, map[rune]string{}, map[rune]string{}},
		{"e", "t", false, nil, nil},
		{"X", "e", true, map[rune]string{'X': "e"}, map[rune]string{}},
		{"e", "X", true, map[rune]string{}, map[rune]string{'X': "e"}},
		{"<X,t>", "<e,Y>", true, map[rune]string{'X': "e"}, map[rune]string{'Y': "t"}},
		{"<X,X>", "<e,e>", true, map[rune]string{'X': "e"}, map[rune]string{}},
		{"<X,X>", "<e,t>", false, nil, nil},
		{"<X,t>", "<<e,t>,t>", true, map[rune]string{'X': "<e,t>"}, map[rune]string{}},
		// Variables with the same name on each side are distinct.
		{"<X,e>", "<t,X>", true, map[rune]string{'X': "t"}, map[rune]string{'X': "e"}},
		{"X×e", "t×Y", true, map[rune]string{'X': "t"}, map[rune]string{'Y': "e"}},
		{"X×e", "<t,e>", false, nil, nil},
	}
	for _, c := range cases {
		a, b := MustParseType(c.a), MustParseType(c.b)
		m := Matches(a, b)
		if (m != nil) != c.ok {
			t.Errorf("Matches(%v, %v) = %v, want ok=%t", a, b, m, c.ok)
			continue
		}
		if m == nil {
			continue
		}
		for v, want := range c.left {
			if got := m.Left[v]; got == nil || got.String() != want {
				t.Errorf("Matches(%v, %v): left %c = %v, want %s", a, b, v, got, want)
			}
		}
		for v, want := range c.right {
			if got := m.Right[v]; got == nil || got.String() != want {
				t.Errorf("Matches(%v, %v): right %c = %v, want %s", a, b, v, got, want)
			}
		}
	}
}

func TestMatchesResolve(t *testing.T) {
	f := MustParseType("<X,<Y,X>>")
	m := Matches(f.(*Composite).Domain(), E)
	if m == nil {
		t.Fatal("no match")
	}
	got := m.ResolveLeft(f.(*Composite).Range())
	if want := MustParseType("<Y,e>"); !got.Equal(want) {
		t.Errorf("wrong resolution: want %v, got %v", want, got)
	}
	m = Matches(E, MustParseType("X"))
	if got := m.ResolveRight(MustParseType("<X,X>")); !got.Equal(MustParseType("<e,e>")) {
		t.Errorf("wrong right resolution: %v", got)
	}
}
