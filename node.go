package grammex

// unassignedID marks a node that has not yet been visited by the
// grammar assembler's ID-assignment pass.
const unassignedID = -1

type nodeKind int

const (
	kindStringTerminal nodeKind = iota
	kindPatternTerminal
	kindNonterminal
	kindSequence
	kindRepetition
	kindChoice
	kindNonterminalRef // transient, replaced during preparation
)

// node is the tagged union of spec.md's seven grammar-node variants.
// Polymorphism is by kind, not subclassing: a single struct carries
// the union of fields any variant might need, and the parser and
// analyzers switch on kind.
type node struct {
	kind     nodeKind
	optional bool
	uniqueID int

	// cached is the three-valued caching signal: nil means unset
	// (uncached by default), and the pointed-to bool is the explicit
	// value set by Cached/Uncached.
	cached *bool

	// constructionErr is set by a builder operator that detects an
	// error synchronously at construction time (empty string
	// terminal, empty choice, bad pattern). It is surfaced the first
	// time the grammar assembler visits the node.
	constructionErr error

	// StringTerminal
	content string

	// PatternTerminal
	name string
	pat  *compiledPattern

	// Nonterminal (content in body, name above) and Repetition
	// (content in body, atLeastOne below).
	body *node

	// Sequence and Choice
	members    []*node
	exhaustive bool // Choice only: true for bestOf, false for anyOf

	// Repetition
	atLeastOne bool

	// NonterminalReference (transient)
	refName string
}

func newNode(kind nodeKind) *node {
	return &node{kind: kind, uniqueID: unassignedID}
}

// shallowClone copies the header and payload fields of n into a fresh
// node, used by Possibly/Cached/Uncached so the original production
// value is never mutated.
func (n *node) shallowClone() *node {
	clone := *n
	clone.uniqueID = unassignedID
	return &clone
}

func (n *node) isCacheEnabled() bool {
	return n.cached != nil && *n.cached
}
