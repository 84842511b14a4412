// Package semantics computes the meanings of logical forms by composition.
//
// A logical form is a tree of *Nonterminal and *Terminal nodes, usually
// written in bracketed-tree syntax and read with ParseTree:
//
//	[.S [.DP John=j;] [.VP walks=λx.Walk(x);]]
//
// Terminals get their meanings from the text of the tree or from a Lexicon.
// Each nonterminal has a CompositionRule that builds its meaning from its
// children's. The rules build over meaning brackets ⟦child⟧^g rather than the
// children's meanings themselves, so that a derivation can show the rule
// being applied before anything is simplified; Engine.Derive returns such a
// derivation line by line.
//
// Indexed terminals labeled t, pro, he, and so on are traces, which mean
// g(index) under the assignment g. Other indexed terminals with no meaning
// are bare indices, which lambda abstraction consumes by binding a fresh
// variable at their index.
package semantics
