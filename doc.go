// Package grammex defines context-free grammars programmatically and
// parses character input against them into a concrete parse tree.
//
// A grammar is built from a small operator set — sequence, choice,
// repetition, references to named productions — composed down to
// regular-expression terminals that consume raw characters directly.
// There is no separate tokenization phase, so different productions
// may invoke different character patterns at the same input position.
//
// Overlook of methods
//
// Grammars are assembled once with BuildGrammar and then parsed
// repeatedly with Grammar.Parse:
//     g, err := grammex.BuildGrammar(productions, "start")
//     tree, err := g.Parse(input)
//
// Overlook of operators
//
// Terminals are built with StringTerminal and PatternTerminal.
// Productions are combined with Sequence, AnyOf (first match), BestOf
// (longest match), ZeroOrMore, OneOrMore, and Possibly. Forward and
// cyclic references between named productions go through Ref. Cached
// wraps a production so repeated attempts at the same offset are
// memoized (packrat); Uncached forces the opposite.
//
// Left recursion
//
// Grammars are top-down, recursive-descent parsers: a left-recursive
// production would never terminate. BuildGrammar detects this
// statically, before any input is parsed, and fails with a descriptive
// error rather than looping or overflowing the call stack.
package grammex // import "github.com/hadriel/grammex"
