package lambdacalc

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/unixpickle/serializer"
)

func TestMarshalExpr(t *testing.T) {
	srcs := []string{
		"a",
		"x:<e,t>",
		"λx.P(x)",
		"[λx.λy.R(x, y)](a)(b)",
		"[∀x.∃y:e.R(x, y)] → p",
		"ιx.P(x)",
		"¬[a = b]",
		"a ≠ b",
		"|{x | P(x)}| = |{a, b}|",
		"{a}",
		"f:<X,X>(a)",
		"R:<e*e,t>(a, b)",
		"P(a) ∧ Q(b) ∧ p",
	}
	for _, src := range srcs {
		e := MustParse(src)
		d, err := MarshalExpr(e)
		if err != nil {
			t.Errorf("marshaling %v: %v", e, err)
			continue
		}
		r, err := UnmarshalExpr(d)
		if err != nil {
			t.Errorf("unmarshaling %v: %v", e, err)
			continue
		}
		if !Equal(r, e) {
			t.Errorf("%v came back as %v", e, r)
		}
		if r.String() != e.String() {
			t.Errorf("%v came back with a different rendering %v", e, r)
		}
	}
}

func TestMarshalGApp(t *testing.T) {
	e := NewFunApp(MustParse("P"), NewGApp(3, E))
	d, err := MarshalExpr(e)
	if err != nil {
		t.Fatal(err)
	}
	r, err := UnmarshalExpr(d)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(r, e) {
		t.Errorf("%v came back as %v", e, r)
	}
}

func TestMarshalType(t *testing.T) {
	for _, src := range []string{"e", "X", "<e,t>", "<e×e,t>", "<<e,t>,<s×e×X,t>>"} {
		typ := MustParseType(src)
		d, err := MarshalType(typ)
		if err != nil {
			t.Errorf("marshaling %v: %v", typ, err)
			continue
		}
		r, err := UnmarshalType(d)
		if err != nil {
			t.Errorf("unmarshaling %v: %v", typ, err)
			continue
		}
		if !r.Equal(typ) {
			t.Errorf("%v came back as %v", typ, r)
		}
	}
}

func TestFormatVersion(t *testing.T) {
	d, err := serializer.SerializeAny(&record{version: 99, fields: []string{"e"}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = deserializeAtomic(d)
	var fe *FormatVersionError
	if !errors.As(err, &fe) {
		t.Fatalf("wrong error %v", err)
	}
	if fe.Type != "Atomic" || fe.Version != 99 {
		t.Errorf("wrong error contents %+v", fe)
	}
}

func TestMalformedRecords(t *testing.T) {
	if _, err := deserializeRecord([]byte{1}); !errors.Is(err, errShortRecord) {
		t.Errorf("short header: %v", err)
	}
	if _, err := deserializeRecord([]byte{1, 0, 1, 0, 0, 0, 5, 0, 0, 0, 'a'}); !errors.Is(err, errShortRecord) {
		t.Errorf("short field: %v", err)
	}
	d, err := serializer.SerializeAny(header("e", "t"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := deserializeAtomic(d); err == nil {
		t.Error("two fields decoded as an atomic type")
	}
	d, err = serializer.SerializeAny(header("x", "q"), E)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := deserializeIdent(d); err == nil {
		t.Error("bad flags decoded as an identifier")
	}
}

func TestMarshalMeaningBracket(t *testing.T) {
	e := NewMeaningBracket(&leaf{label: "John", meaning: MustParse("j")}, Assignment{})
	if _, err := MarshalExpr(NewNot(NewFunApp(MustParse("P"), e))); !errors.Is(err, ErrNotSerializable) {
		t.Errorf("wrong error %v", err)
	}
	if _, err := e.Serialize(); !errors.Is(err, ErrNotSerializable) {
		t.Errorf("wrong error from Serialize: %v", err)
	}
}

func TestSaveExprs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs")
	es := []Expr{MustParse("λx.P(x)"), MustParse("R(a, b) ∧ p"), NewGApp(1, E)}
	if err := SaveExprs(path, es); err != nil {
		t.Fatal(err)
	}
	r, err := LoadExprs(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != len(es) {
		t.Fatalf("want %d expressions, got %d", len(es), len(r))
	}
	for i := range es {
		if !Equal(es[i], r[i]) {
			t.Errorf("%d: want %v, got %v", i, es[i], r[i])
		}
	}
	if err := SaveExprs(path, nil); err != nil {
		t.Fatal(err)
	}
	if r, err := LoadExprs(path); err != nil || len(r) != 0 {
		t.Errorf("empty list loaded as %v, %v", r, err)
	}
}
