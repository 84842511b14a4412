package lambdacalc

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	singleopt  bool
	asciiopt   bool
	typeropt   struct{ c *IdentifierTyper }
	explicitop map[string]Type
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// typer types identifiers. Parse clones it before adding rules.
	typer *IdentifierTyper
	// explicit receives every explicit type annotation.
	explicit map[string]Type
	// single is whether identifiers are single letters.
	single bool
	// ascii is whether letter binders are recognized.
	ascii bool
	// stopBar indicates that a bar closes the current subexpression, as in
	// cardinality and set builder templates.
	stopBar bool
	// preset indicates the context came from ParsingPreset.
	preset bool
}

// SingleLetterIdentifiers sets whether identifiers are one letter long, plus
// any digits, underscores, and primes. In single-letter mode, identifiers
// written next to each other without spaces are predication: Pa means P(a),
// and Rab means R(a, b).
func SingleLetterIdentifiers(on bool) ParseOption {
	return singleopt(on)
}

func (o singleopt) parseOption(p parsectx) parsectx {
	p.single = bool(o)
	return p
}

// ASCII sets whether the letters L, A, E, and I immediately followed by a
// variable are the binders λ, ∀, ∃, and ι. Unless identifiers are single
// letters, the variable must also be followed by a dot, a bracket, or a type
// annotation, so that words like Likes remain identifiers. The ASCII
// connectives ~ & ^ | -> <-> != and * are always recognized.
func ASCII(on bool) ParseOption {
	return asciiopt(on)
}

func (o asciiopt) parseOption(p parsectx) parsectx {
	p.ascii = bool(o)
	return p
}

// WithTyper sets the typing conventions for identifiers. The default is
// DefaultConventions. The parser does not modify c.
func WithTyper(c *IdentifierTyper) ParseOption {
	return &typeropt{c}
}

func (o *typeropt) parseOption(p parsectx) parsectx {
	p.typer = o.c
	return p
}

// CollectExplicitTypes tells the parser to record each explicit type
// annotation, as in x:<e,t>, into m. The recorded types can be adopted as
// local conventions with IdentifierTyper.AddExplicitTypes.
func CollectExplicitTypes(m map[string]Type) ParseOption {
	return explicitop(m)
}

func (o explicitop) parseOption(p parsectx) parsectx {
	p.explicit = o
	return p
}

// ParsingPreset creates a parsing preset for using the same non-default
// parsing options for many calls to Parse. A preset panics when it would
// change any option from the default, but it is safe to apply other options
// after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	p.preset = true
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.typer != nil || p.explicit != nil || p.single || p.ascii || p.preset {
		panic("lambdacalc: preset applied to non-default parse config")
	}
	return *o
}
