package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/unixpickle/essentials"

	"github.com/dylnb/lambdacalc"
	"github.com/dylnb/lambdacalc/semantics"
)

func main() {
	log.SetFlags(0)
	var (
		inname, treename, lexname  string
		savename, loadname         string
		ascii, single, steps, echo bool
		interactive, faRight       bool
		maxSteps                   int
	)
	types := make(map[string]lambdacalc.Type)
	addtypes := func(s string) error {
		for _, d := range strings.Split(s, ",") {
			name, src, ok := strings.Cut(d, ":")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				return fmt.Errorf(`type declarations must be "name:type", not %q`, d)
			}
			t, err := lambdacalc.ParseType(src)
			if err != nil {
				return essentials.AddCtx("type of "+name, err)
			}
			types[name] = t
		}
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file, one expression per line (default stdin if no args given)")
	flag.StringVar(&treename, "tree", "", "evaluate the logical form in `file` instead of expressions")
	flag.StringVar(&lexname, "lexicon", "", "fill in terminal meanings from the lexicon in `file`")
	flag.StringVar(&savename, "save", "", "write the normalized expressions to `file`")
	flag.StringVar(&loadname, "load", "", "read expressions saved with -save from `file` before other input")
	flag.Func("types", "name:type,... identifier types (any number of times)", addtypes)
	flag.BoolVar(&ascii, "ascii", false, "read and write ASCII binders and connectives")
	flag.BoolVar(&single, "single", false, "identifiers are single letters, so Pa means P(a)")
	flag.BoolVar(&steps, "steps", false, "print each simplification step")
	flag.BoolVar(&echo, "echo", false, "print parsed input before results")
	flag.BoolVar(&interactive, "i", false, "read expressions interactively")
	flag.BoolVar(&faRight, "faright", false, "put the function on the right when function application cannot tell")
	flag.IntVar(&maxSteps, "max", lambdacalc.DefaultMaxSteps, "maximum simplification steps per expression")
	flag.Parse()
	if maxSteps <= 0 {
		log.Fatalf("step limit (%d) must be positive", maxSteps)
	}

	typer := lambdacalc.DefaultConventions()
	typer.AddExplicitTypes(types)
	opts := []lambdacalc.ParseOption{
		lambdacalc.WithTyper(typer),
		lambdacalc.ASCII(ascii),
		lambdacalc.SingleLetterIdentifiers(single),
	}
	p := &printer{w: os.Stdout, ascii: ascii, steps: steps, echo: echo, max: maxSteps}

	if treename != "" {
		eng := semantics.NewEngine(
			semantics.Conventions(typer),
			semantics.MaxSteps(maxSteps),
			semantics.DefaultFunctionOnLeft(!faRight),
		)
		if err := runTree(p, eng, treename, lexname, opts); err != nil {
			log.Fatal(err)
		}
		return
	}

	var results []lambdacalc.Expr
	if loadname != "" {
		es, err := lambdacalc.LoadExprs(loadname)
		if err != nil {
			essentials.Die("loading", loadname+":", err)
		}
		for _, e := range es {
			results = append(results, p.eval(e))
		}
	}
	if interactive {
		results = append(results, repl(p, opts)...)
	} else {
		in, err := infile(inname, flag.NArg() == 0 && loadname == "")
		if err != nil {
			log.Fatal(err)
		}
		var srcs []string
		if in != nil {
			for in.Scan() {
				if s := strings.TrimSpace(in.Text()); s != "" {
					srcs = append(srcs, s)
				}
			}
			if err := in.Err(); err != nil {
				log.Fatal(err)
			}
		}
		srcs = append(srcs, flag.Args()...)
		for _, src := range srcs {
			e, err := lambdacalc.ParseString(src, opts...)
			if err != nil {
				log.Fatal(essentials.AddCtx(src, err))
			}
			results = append(results, p.eval(e))
		}
	}

	if savename != "" {
		var keep []lambdacalc.Expr
		for _, r := range results {
			if r != nil {
				keep = append(keep, r)
			}
		}
		if err := lambdacalc.SaveExprs(savename, keep); err != nil {
			essentials.Die("saving", savename+":", err)
		}
	}
}

// printer writes results.
type printer struct {
	w     io.Writer
	ascii bool
	steps bool
	echo  bool
	max   int
}

func (p *printer) show(e lambdacalc.Expr) string {
	if p.ascii {
		return e.ASCIIString()
	}
	return e.String()
}

// eval normalizes e and prints the result with its type. The result is nil if
// e has no normal form or is ill-typed.
func (p *printer) eval(e lambdacalc.Expr) lambdacalc.Expr {
	if p.echo {
		fmt.Fprintf(p.w, "%s : ", p.show(e))
	}
	r, err := p.normalize(e)
	if err != nil {
		if r != nil {
			fmt.Fprintf(p.w, "%s ", p.show(r))
		}
		fmt.Fprintln(p.w, err)
		return nil
	}
	t, err := r.Type()
	if err != nil {
		fmt.Fprintf(p.w, "%s %v\n", p.show(r), err)
		return nil
	}
	fmt.Fprintf(p.w, "%s\t%v\n", p.show(r), t)
	return r
}

func (p *printer) normalize(e lambdacalc.Expr) (lambdacalc.Expr, error) {
	if !p.steps {
		return lambdacalc.Normalize(e, p.max)
	}
	fmt.Fprintln(p.w, p.show(e))
	for i := 0; i < p.max; i++ {
		r, kind, err := lambdacalc.Simplify(e)
		if err != nil {
			return e, err
		}
		if kind == lambdacalc.NoStep {
			return e, nil
		}
		e = r
		fmt.Fprintf(p.w, "  = %s\t(%v)\n", p.show(e), kind)
	}
	if lambdacalc.CanSimplify(e) {
		return e, lambdacalc.ErrNoNormalForm
	}
	return e, nil
}

// runTree evaluates the logical form in a file.
func runTree(p *printer, eng *semantics.Engine, treename, lexname string, opts []lambdacalc.ParseOption) error {
	src, err := os.ReadFile(treename)
	if err != nil {
		return err
	}
	tree, err := semantics.ParseTree(string(src), opts...)
	if err != nil {
		return essentials.AddCtx(treename, err)
	}
	if lexname != "" {
		f, err := os.Open(lexname)
		if err != nil {
			return err
		}
		lex, err := semantics.ParseLexicon(f, opts...)
		f.Close()
		if err != nil {
			return essentials.AddCtx(lexname, err)
		}
		for _, t := range lex.Apply(tree) {
			log.Printf("%s is ambiguous: %d meanings in %s", t.Label, len(lex.Lookup(t.Label)), lexname)
		}
	}
	if err := eng.AssignRules(tree); err != nil {
		return err
	}
	if p.echo {
		fmt.Fprintln(p.w, tree)
	}
	if p.steps {
		steps, err := eng.Derive(tree)
		for _, s := range steps {
			switch {
			case s.Rule != nil:
				fmt.Fprintf(p.w, "  = %s\t(%s)\n", p.show(s.Expr), s.Rule.Name())
			case s.Kind != lambdacalc.NoStep:
				fmt.Fprintf(p.w, "  = %s\t(%v)\n", p.show(s.Expr), s.Kind)
			default:
				fmt.Fprintln(p.w, p.show(s.Expr))
			}
		}
		if err != nil {
			return err
		}
	}
	m, err := eng.Evaluate(tree)
	if err != nil {
		return err
	}
	t, err := eng.MeaningType(tree, lambdacalc.Assignment{})
	if err != nil {
		return err
	}
	fmt.Fprintf(p.w, "%s\t%v\n", p.show(m), t)
	return nil
}

func infile(inname string, std bool) (*bufio.Scanner, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewScanner(f), nil
}
