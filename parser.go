package grammex

import "github.com/rs/zerolog"

// parseResult is the internal result of matching a node at an offset
// (spec.md §3). nodes is nil when the match produced no tree
// contribution: bare string terminals, patterns without captures,
// sequences with no capturing members.
type parseResult struct {
	endOffset int
	nodes     []*ParseTreeNode
}

// cacheSlot memoizes the result of matching one node at one offset.
// ok distinguishes a cached failure (ok=false, result=nil) from "not
// computed yet" (absent from the map entirely).
type cacheSlot struct {
	result *parseResult
	ok     bool
}

// parserState is the per-invocation working state described by
// spec.md §4.F and §5: a packrat cache and a best-failed-match record,
// both created fresh for each Parse call and safe to run concurrently
// against the same immutable Grammar.
type parserState struct {
	input  string
	logger zerolog.Logger

	cache map[int]map[*node]cacheSlot

	bestFailedOffset    int
	bestFailedTerminals []string
}

func newParserState(input string, logger zerolog.Logger) *parserState {
	return &parserState{
		input:            input,
		logger:           logger,
		cache:            map[int]map[*node]cacheSlot{},
		bestFailedOffset: -1,
	}
}

// Parse runs g against input. Success requires the grammar to consume
// the entire input (spec.md §4.F's final check); otherwise it reports
// the best-failed-match diagnostic (spec.md §4.G).
func (g *Grammar) Parse(input string) ([]*ParseTreeNode, error) {
	st := newParserState(input, g.logger)
	result := st.tryParse(g.root, 0)

	if result != nil && result.endOffset == len(input) {
		return result.nodes[0].Children, nil
	}

	// A successful-but-partial parse (e.g. a non-exhaustive anyOf that
	// short-circuits on an alternative shorter than the input) can
	// leave bestFailedOffset at its initial -1, since no terminal ever
	// failed on the path that was actually taken. In that case report
	// the length actually reached instead of the unset failure offset.
	offset := st.bestFailedOffset
	if len(st.bestFailedTerminals) == 0 {
		offset = 0
		if result != nil {
			offset = result.endOffset
		}
	}

	calc := &positionCalculator{text: input}
	return nil, newParseError(offset, calc.calculate(offset), st.bestFailedTerminals, len(input))
}

// tryParse dispatches to the interpreter for n, consulting the
// packrat cache first when n.cached is explicitly true.
func (st *parserState) tryParse(n *node, offset int) *parseResult {
	if !n.isCacheEnabled() {
		return st.interpret(n, offset)
	}

	slot := st.cache[offset]
	if slot != nil {
		if entry, found := slot[n]; found {
			if entry.ok {
				return entry.result
			}
			return nil
		}
	}

	result := st.interpret(n, offset)
	if st.cache[offset] == nil {
		st.cache[offset] = map[*node]cacheSlot{}
	}
	st.cache[offset][n] = cacheSlot{result: result, ok: result != nil}
	return result
}

func (st *parserState) interpret(n *node, offset int) *parseResult {
	switch n.kind {
	case kindStringTerminal:
		return st.matchStringTerminal(n, offset)
	case kindPatternTerminal:
		return st.matchPatternTerminal(n, offset)
	case kindNonterminal:
		return st.matchNonterminal(n, offset)
	case kindSequence:
		return st.matchSequence(n, offset)
	case kindRepetition:
		return st.matchRepetition(n, offset)
	case kindChoice:
		return st.matchChoice(n, offset)
	default:
		panic("grammex: unreachable node kind in interpret")
	}
}

func (st *parserState) matchStringTerminal(n *node, offset int) *parseResult {
	end := offset + len(n.content)
	if end > len(st.input) || st.input[offset:end] != n.content {
		st.recordFailure(offset, "'"+n.content+"'")
		return nil
	}
	return &parseResult{endOffset: end}
}

func (st *parserState) matchPatternTerminal(n *node, offset int) *parseResult {
	end, captures, ok := n.pat.find(st.input, offset)
	if !ok {
		label := n.name
		if label == "" {
			label = n.pat.source
		}
		st.recordFailure(offset, label)
		return nil
	}

	if len(captures) == 0 {
		return &parseResult{endOffset: end}
	}

	children := make([]*ParseTreeNode, len(captures))
	for i, c := range captures {
		children[i] = &ParseTreeNode{
			Name:        c.name,
			StartOffset: c.start,
			EndOffset:   c.end,
			SourceText:  st.input[c.start:c.end],
		}
	}
	ptn := &ParseTreeNode{
		Name:        n.name,
		StartOffset: offset,
		EndOffset:   end,
		SourceText:  st.input[offset:end],
		Children:    children,
	}
	return &parseResult{endOffset: end, nodes: []*ParseTreeNode{ptn}}
}

func (st *parserState) matchNonterminal(n *node, offset int) *parseResult {
	sub := st.tryParse(n.body, offset)
	if sub == nil {
		return nil
	}
	ptn := &ParseTreeNode{
		Name:        n.name,
		StartOffset: offset,
		EndOffset:   sub.endOffset,
		SourceText:  st.input[offset:sub.endOffset],
		Children:    sub.nodes,
	}
	return &parseResult{endOffset: sub.endOffset, nodes: []*ParseTreeNode{ptn}}
}

func (st *parserState) matchSequence(n *node, offset int) *parseResult {
	cursor := offset
	var collected []*ParseTreeNode
	for _, member := range n.members {
		sub := st.tryParse(member, cursor)
		if sub == nil {
			if member.optional {
				continue
			}
			return nil
		}
		cursor = sub.endOffset
		collected = append(collected, sub.nodes...)
	}
	return &parseResult{endOffset: cursor, nodes: collected}
}

func (st *parserState) matchRepetition(n *node, offset int) *parseResult {
	cursor := offset
	var collected []*ParseTreeNode
	for {
		sub := st.tryParse(n.body, cursor)
		if sub == nil || sub.endOffset == cursor {
			break
		}
		cursor = sub.endOffset
		collected = append(collected, sub.nodes...)
	}
	if n.atLeastOne && cursor == offset {
		return nil
	}
	return &parseResult{endOffset: cursor, nodes: collected}
}

func (st *parserState) matchChoice(n *node, offset int) *parseResult {
	if !n.exhaustive {
		for _, member := range n.members {
			if sub := st.tryParse(member, offset); sub != nil {
				return sub
			}
		}
		return nil
	}

	var best *parseResult
	for _, member := range n.members {
		sub := st.tryParse(member, offset)
		if sub == nil {
			continue
		}
		if best == nil || sub.endOffset > best.endOffset {
			best = sub
		}
	}
	return best
}

// recordFailure updates the best-failed-match record (spec.md §3):
// monotonic in offset, resetting the terminal set on a strict
// increase and appending on a tie.
func (st *parserState) recordFailure(offset int, terminal string) {
	switch {
	case offset > st.bestFailedOffset:
		st.bestFailedOffset = offset
		st.bestFailedTerminals = []string{terminal}
	case offset == st.bestFailedOffset:
		st.bestFailedTerminals = append(st.bestFailedTerminals, terminal)
	}
	if st.logger.GetLevel() <= zerolog.TraceLevel {
		st.logger.Trace().Int("offset", offset).Str("terminal", terminal).Msg("grammex: terminal failed")
	}
}
