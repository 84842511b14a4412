package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/dylnb/lambdacalc"
)

const (
	prompt      = "λ> "
	historyFile = ".lambdacalc_history"
)

const replHelp = `:steps    toggle printing each simplification step
:ascii    toggle ASCII output
:type X   print the type of X without simplifying
:quit     exit`

// repl reads expressions from the terminal until EOF or :quit and returns the
// normalized results.
func repl(p *printer, opts []lambdacalc.ParseOption) []lambdacalc.Expr {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	var results []lambdacalc.Expr
	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(os.Stderr, err)
			}
			fmt.Fprintln(p.w)
			return results
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if strings.HasPrefix(line, ":") {
			cmd, arg, _ := strings.Cut(line, " ")
			switch cmd {
			case ":q", ":quit":
				return results
			case ":steps":
				p.steps = !p.steps
				fmt.Fprintln(p.w, "steps:", p.steps)
			case ":ascii":
				p.ascii = !p.ascii
				fmt.Fprintln(p.w, "ascii:", p.ascii)
			case ":type":
				e, err := lambdacalc.ParseString(arg, opts...)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					continue
				}
				t, err := e.Type()
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					continue
				}
				fmt.Fprintln(p.w, t)
			default:
				fmt.Fprintln(p.w, replHelp)
			}
			continue
		}
		e, err := lambdacalc.ParseString(line, opts...)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if r := p.eval(e); r != nil {
			results = append(results, r)
		}
	}
}
