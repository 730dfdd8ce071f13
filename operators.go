package grammex

import "fmt"

// Production is anything that can be coerced into a grammar node: a
// string (StringTerminal), a slice of Production (Sequence), an
// already-built node, or a nullary callable returning a Production
// (deferred — supports forward and cyclic references the same way a
// BuildGrammar production-map entry does).
type Production interface{}

// toProduction normalizes p into a *node. It is called wherever a
// Production is accepted, matching spec.md §4.B's "polymorphic over a
// Production input" requirement.
func toProduction(p Production) (*node, error) {
	switch v := p.(type) {
	case *node:
		return v, nil
	case string:
		return StringTerminal(v).(*node), nil
	case []Production:
		return Sequence(v...).(*node), nil
	case func() Production:
		return toProduction(v())
	default:
		return nil, fmt.Errorf("grammex: unsupported production value of type %T", p)
	}
}

func mustProduction(p Production) *node {
	n, err := toProduction(p)
	if err != nil {
		return &node{kind: kindSequence, uniqueID: unassignedID, constructionErr: err}
	}
	return n
}

// StringTerminal matches the given text literally. An empty string is
// a build-time error (spec.md §3, §7), reported once BuildGrammar
// visits the node.
func StringTerminal(content string) Production {
	n := newNode(kindStringTerminal)
	n.content = content
	if content == "" {
		n.constructionErr = fmt.Errorf("grammex: %w", ErrEmptyStringTerminal)
	}
	return n
}

// PatternTerminal compiles expr into a regular expression anchored at
// the parser's current offset. The compiled pattern additionally
// answers whether it can match the empty string (used by the
// optionality analyzer) and exposes numbered/named capture spans
// (used to synthesize parse-tree children).
func PatternTerminal(expr string) Production {
	n := newNode(kindPatternTerminal)
	pat, err := compilePattern(expr)
	if err != nil {
		n.constructionErr = err
		return n
	}
	n.pat = pat
	n.optional = pat.nullable
	return n
}

// Sequence matches members in order, left to right. An optional
// member that fails to match is skipped rather than failing the whole
// sequence (spec.md §4.F).
func Sequence(members ...Production) Production {
	n := newNode(kindSequence)
	n.members = make([]*node, len(members))
	for i, m := range members {
		n.members[i] = mustProduction(m)
	}
	return n
}

// ZeroOrMore matches p as many times as possible, including zero.
func ZeroOrMore(p Production) Production {
	n := newRepetition(p, false)
	n.optional = true
	return n
}

// OneOrMore matches p as many times as possible, at least once.
func OneOrMore(p Production) Production {
	return newRepetition(p, true)
}

func newRepetition(p Production, atLeastOne bool) *node {
	n := newNode(kindRepetition)
	n.body = mustProduction(p)
	n.atLeastOne = atLeastOne
	return n
}

// AnyOf tries members in order and returns the first match
// (non-exhaustive choice). Zero members is a build-time error.
func AnyOf(members ...Production) Production {
	return newChoice(members, false)
}

// BestOf tries every member and returns the longest match, breaking
// ties in declaration order (exhaustive choice). Zero members is a
// build-time error.
func BestOf(members ...Production) Production {
	return newChoice(members, true)
}

func newChoice(members []Production, exhaustive bool) *node {
	n := newNode(kindChoice)
	n.exhaustive = exhaustive
	if len(members) == 0 {
		n.constructionErr = fmt.Errorf("grammex: %w", ErrEmptyChoice)
		return n
	}
	n.members = make([]*node, len(members))
	for i, m := range members {
		n.members[i] = mustProduction(m)
	}
	return n
}

// Possibly returns a shallow clone of p with optional forced true. For
// a Ref, this marks the reference site so the grammar assembler
// selects the optional twin of the referenced production.
func Possibly(p Production) Production {
	n := mustProduction(p)
	clone := n.shallowClone()
	clone.optional = true
	return clone
}

// Cached returns a shallow clone of p with packrat memoization
// enabled: repeated attempts to match p at the same offset reuse the
// first result instead of re-running the interpreter.
func Cached(p Production) Production {
	n := mustProduction(p)
	clone := n.shallowClone()
	t := true
	clone.cached = &t
	return clone
}

// Uncached returns a shallow clone of p with packrat memoization
// explicitly disabled, overriding an earlier Cached.
func Uncached(p Production) Production {
	n := mustProduction(p)
	clone := n.shallowClone()
	f := false
	clone.cached = &f
	return clone
}

// Ref is an unresolved reference to a named production. It is
// replaced by the grammar assembler with the target Nonterminal (or
// its optional twin, if the reference appears inside Possibly) and
// never survives into a built Grammar.
func Ref(name string) Production {
	n := newNode(kindNonterminalRef)
	n.refName = name
	return n
}
