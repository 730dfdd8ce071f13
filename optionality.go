package grammex

// analyzeOptionality computes, for every node in nodes, whether it can
// succeed while consuming zero characters (spec.md §4.D).
//
// StringTerminal and PatternTerminal are already final when this runs:
// a terminal's optional flag was fixed at construction (possibly's
// clone, or the pattern's own nullability) and never depends on any
// other node. A structural node (Nonterminal, Repetition, Sequence,
// Choice) whose header flag is already true is likewise final. Only
// the false-by-default structural nodes need a value computed from
// their content/members.
//
// The graph is cyclic, so a single pass cannot settle every node: a
// node stuck on a still-unresolved dependency is retried on the next
// round. This is a monotone fixed point (a false dependency only ever
// forces false, a true dependency only ever gets dropped from the
// wait set) so repeated full passes converge in O(edges) rounds.
// Anything left unresolved once no round makes progress belongs only
// to a cluster that is mutually cyclic with otherwise-optional
// dependencies, and is resolved true by construction (spec.md §4.D
// step 4).
func analyzeOptionality(nodes []*node) {
	resolved := make(map[*node]bool, len(nodes))
	pending := make([]*node, 0, len(nodes))
	for _, n := range nodes {
		if !isStructural(n) || n.optional {
			resolved[n] = true
			continue
		}
		pending = append(pending, n)
	}

	for {
		progressed := false
		next := pending[:0]
		for _, n := range pending {
			if ok, value := tryResolveOptional(n, resolved); ok {
				n.optional = value
				resolved[n] = true
				progressed = true
				continue
			}
			next = append(next, n)
		}
		pending = next
		if len(pending) == 0 || !progressed {
			break
		}
	}

	for _, n := range pending {
		n.optional = true
	}
}

func isStructural(n *node) bool {
	switch n.kind {
	case kindNonterminal, kindRepetition, kindSequence, kindChoice:
		return true
	default:
		return false
	}
}

// tryResolveOptional attempts to compute n's optionality from its
// dependencies' current state. ok is false when at least one
// dependency is still unresolved.
func tryResolveOptional(n *node, resolved map[*node]bool) (ok bool, value bool) {
	switch n.kind {
	case kindNonterminal, kindRepetition:
		return dependencyState(n.body, resolved)

	case kindSequence:
		// All members must be skippable for the sequence to match
		// empty.
		return allOptional(n.members, resolved)

	case kindChoice:
		// Matches the source's semantics exactly: a Choice is
		// treated identically to a Sequence here (all members
		// optional), not "any member optional" — see DESIGN.md.
		return allOptional(n.members, resolved)

	default:
		return true, n.optional
	}
}

func dependencyState(dep *node, resolved map[*node]bool) (known bool, value bool) {
	if resolved[dep] {
		return true, dep.optional
	}
	return false, false
}

func allOptional(members []*node, resolved map[*node]bool) (ok bool, value bool) {
	if len(members) == 0 {
		return true, true
	}
	for _, m := range members {
		known, v := dependencyState(m, resolved)
		if !known {
			return false, false
		}
		if !v {
			return true, false
		}
	}
	return true, true
}
