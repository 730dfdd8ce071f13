package grammex

import "sort"

// detectLeftRecursion walks the grammar along leftmost-reachable
// edges, carrying the set of Nonterminals currently on the descent
// path (spec.md §4.E). Reference resolution (§4.C) replaces every
// NonterminalReference with a shared twin Nonterminal node, so the
// only back-edges this graph can have run through a Nonterminal being
// re-entered while still on the path — Sequence, Choice, and
// Repetition nodes can only reach themselves again through a
// Nonterminal and so can never by themselves close a cycle.
func detectLeftRecursion(required map[string]*node) error {
	names := sortedKeys(required)
	for _, name := range names {
		if err := walkLeftmost(required[name], map[*node]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func walkLeftmost(n *node, onPath map[*node]bool) error {
	switch n.kind {
	case kindNonterminal:
		if onPath[n] {
			return errLeftRecursion(n.name)
		}
		onPath[n] = true
		err := walkLeftmost(n.body, onPath)
		delete(onPath, n)
		return err

	case kindRepetition:
		return walkLeftmost(n.body, onPath)

	case kindSequence:
		for _, m := range n.members {
			if err := walkLeftmost(m, onPath); err != nil {
				return err
			}
			if !m.optional {
				// Subsequent members can only be reached after m
				// consumes input, so they are not leftmost-reachable
				// from this sequence's starting offset.
				break
			}
		}
		return nil

	case kindChoice:
		for _, m := range n.members {
			if err := walkLeftmost(m, onPath); err != nil {
				return err
			}
		}
		return nil

	default: // terminals: no descent
		return nil
	}
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
