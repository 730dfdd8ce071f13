package grammex

import (
	"sort"

	"github.com/rs/zerolog"
)

// Grammar is the immutable result of BuildGrammar: a resolved graph of
// grammar nodes, ready to be parsed any number of times, concurrently,
// without further preparation.
type Grammar struct {
	root         *node
	byName       map[string]*node // production name -> required Nonterminal
	maxElementID int
	logger       zerolog.Logger
}

// BuildGrammarOption configures BuildGrammar.
type BuildGrammarOption func(*buildConfig)

type buildConfig struct {
	logger zerolog.Logger
}

// WithLogger wires a zerolog.Logger into grammar assembly and parsing
// diagnostics (spec.md §4.I). Omitting it leaves logging a no-op.
func WithLogger(logger zerolog.Logger) BuildGrammarOption {
	return func(c *buildConfig) { c.logger = logger }
}

// BuildGrammar normalizes productions into a directed graph of
// grammar nodes, resolves every reference, assigns unique IDs, and
// runs static analysis (optionality, then left-recursion detection)
// per spec.md §4.C.
func BuildGrammar(productions map[string]Production, start string, opts ...BuildGrammarOption) (*Grammar, error) {
	cfg := buildConfig{logger: noopLogger}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, ok := productions[start]; !ok {
		return nil, errMissingStart(start)
	}

	names := make([]string, 0, len(productions))
	for name := range productions {
		names = append(names, name)
	}
	sort.Strings(names)

	// Step 1: inventory. Invoke callables, normalize each raw
	// production, wrap it in a Nonterminal named by its key.
	required := make(map[string]*node, len(names))
	for _, name := range names {
		raw, err := inventoryEntry(productions[name])
		if err != nil {
			return nil, err
		}
		n := newNode(kindNonterminal)
		n.name = name
		n.body = raw
		required[name] = n
	}
	cfg.logger.Debug().Int("productions", len(required)).Msg("grammex: inventory complete")

	// Step 2: twin optional variant. Required and optional twins
	// share the same content reference.
	optional := make(map[string]*node, len(names))
	for _, name := range names {
		twin := required[name].shallowClone()
		twin.optional = true
		optional[name] = twin
	}

	// Step 3: reference resolution + ID assignment.
	b := &builder{required: required, optional: optional, visited: map[*node]bool{}}
	for _, name := range names {
		if _, err := b.resolveNamed(required[name], ""); err != nil {
			return nil, err
		}
		if _, err := b.resolveNamed(optional[name], ""); err != nil {
			return nil, err
		}
	}
	cfg.logger.Debug().Int("nodes", b.counter).Msg("grammex: reference resolution complete")

	// Step 4: analysis.
	all := collectAll(required, optional)
	analyzeOptionality(all)
	cfg.logger.Debug().Int("nodes", len(all)).Msg("grammex: optionality analysis complete")

	if err := detectLeftRecursion(required); err != nil {
		return nil, err
	}
	cfg.logger.Debug().Msg("grammex: left-recursion scan complete")

	return &Grammar{
		root:         required[start],
		byName:       required,
		maxElementID: b.counter,
		logger:       cfg.logger,
	}, nil
}

func inventoryEntry(entry Production) (*node, error) {
	if fn, ok := entry.(func() Production); ok {
		entry = fn()
	}
	return toProduction(entry)
}

// builder threads the required/optional twin tables and the visited
// set through reference resolution.
type builder struct {
	required map[string]*node
	optional map[string]*node
	visited  map[*node]bool
	counter  int
}

func (b *builder) assignID(n *node) {
	if n.uniqueID == unassignedID {
		n.uniqueID = b.counter
		b.counter++
	}
}

// resolveNamed walks n, replacing any NonterminalReference with its
// resolved target, assigning unique IDs, and cloning PatternTerminal
// nodes so each usage site gets its own identity (spec.md §4.C step
// 3). asName is the enclosing Nonterminal's name, threaded down one
// level so a pattern that is directly a production's body inherits
// that name; nested pattern terminals get an empty name.
func (b *builder) resolveNamed(n *node, asName string) (*node, error) {
	if n.constructionErr != nil {
		return nil, n.constructionErr
	}

	switch n.kind {
	case kindStringTerminal:
		b.assignID(n)
		return n, nil

	case kindPatternTerminal:
		clone := n.shallowClone()
		clone.name = asName
		b.assignID(clone)
		return clone, nil

	case kindNonterminal:
		if b.visited[n] {
			return n, nil
		}
		b.visited[n] = true
		b.assignID(n)
		child, err := b.resolveNamed(n.body, n.name)
		if err != nil {
			return nil, err
		}
		n.body = child
		return n, nil

	case kindRepetition:
		if b.visited[n] {
			return n, nil
		}
		b.visited[n] = true
		b.assignID(n)
		child, err := b.resolveNamed(n.body, "")
		if err != nil {
			return nil, err
		}
		n.body = child
		return n, nil

	case kindSequence, kindChoice:
		if b.visited[n] {
			return n, nil
		}
		b.visited[n] = true
		b.assignID(n)
		for i, m := range n.members {
			resolved, err := b.resolveNamed(m, "")
			if err != nil {
				return nil, err
			}
			n.members[i] = resolved
		}
		return n, nil

	case kindNonterminalRef:
		table := b.required
		if n.optional {
			table = b.optional
		}
		target, ok := table[n.refName]
		if !ok {
			return nil, errUnresolvedRef(n.refName)
		}
		return b.resolveNamed(target, asName)

	default:
		panic("grammex: unreachable node kind in resolveNamed")
	}
}

// collectAll gathers every node reachable from either twin table,
// deduplicated by pointer identity, for the optionality analyzer.
func collectAll(tables ...map[string]*node) []*node {
	seen := map[*node]bool{}
	var out []*node
	var visit func(n *node)
	visit = func(n *node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
		switch n.kind {
		case kindNonterminal, kindRepetition:
			visit(n.body)
		case kindSequence, kindChoice:
			for _, m := range n.members {
				visit(m)
			}
		}
	}
	for _, table := range tables {
		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			visit(table[name])
		}
	}
	return out
}
