// Package lambdacalc implements typed lambda calculus expressions of the sort
// used in formal semantics: parsing, type checking, rendering, and reduction.
//
// The syntax is close to what you'd write on a handout. "λx.[P(x) ∧ Q(x)]" is
// a lambda whose body is a conjunction. "Pab" is P(a, b) when identifiers are
// single letters. ASCII spellings are accepted for everything:
// "Lx.[P(x) & Q(x)]" is the same expression. Identifiers get their types and their status as
// variables or constants from an IdentifierTyper, which holds naming
// conventions like "x through z are variables of type e". An identifier can
// override its convention with an annotation, as in "f:<e,<e,t>>".
//
// Expressions are immutable. Reduction works step by step: Simplify performs
// one step and reports which kind of step it was, so that derivations can be
// shown to a reader. Normalize applies steps until none remain.
//
// Meaning brackets and assignment functions let a composition engine build
// expressions over the meanings of parts of a logical form before those
// meanings are known. See package semantics.
package lambdacalc
