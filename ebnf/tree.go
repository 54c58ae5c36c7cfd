// Package ebnf defines the tagged tree of EBNF operators produced by
// parsing a production's right-hand side, and read by the grammar
// analyzer and the parser emitter.
package ebnf

import "strings"

// Kind tags the shape of a Node. Nodes are a fixed variant set rather
// than a class per kind: SEQUENCE and OR own an ordered list of
// children, OPTIONAL/REPEAT/GROUP own exactly one child, and
// TERMINAL/NONTERMINAL are leaves carrying a symbol name in Value.
type Kind int

const (
	Sequence Kind = iota
	Terminal
	NonTerminal
	Or
	Repeat
	Optional
	Group
)

func (k Kind) String() string {
	switch k {
	case Sequence:
		return "SEQUENCE"
	case Terminal:
		return "TERMINAL"
	case NonTerminal:
		return "NONTERMINAL"
	case Or:
		return "OR"
	case Repeat:
		return "REPEAT"
	case Optional:
		return "OPTIONAL"
	case Group:
		return "GROUP"
	default:
		return "UNKNOWN"
	}
}

// Node is a single EBNF tree node. Leaves (Terminal, NonTerminal) carry
// a symbol name in Value and no Children; SEQUENCE and OR carry one
// child per element in Children; OPTIONAL, REPEAT and GROUP carry
// exactly one child. A Node owns its Children; the tree is built once
// while parsing a production's right-hand side and is read-only after
// that.
type Node struct {
	Kind     Kind
	Value    string
	Children []*Node
}

// NewLeaf builds a TERMINAL or NONTERMINAL leaf node.
func NewLeaf(kind Kind, value string) *Node {
	return &Node{Kind: kind, Value: value}
}

// NewSequence builds a SEQUENCE node wrapping the given children in order.
func NewSequence(children ...*Node) *Node {
	return &Node{Kind: Sequence, Children: children}
}

// NewOr builds an OR node over the given alternatives.
func NewOr(alternatives ...*Node) *Node {
	return &Node{Kind: Or, Children: alternatives}
}

// NewOptional, NewRepeat and NewGroup each wrap a single child.
func NewOptional(child *Node) *Node { return &Node{Kind: Optional, Children: []*Node{child}} }
func NewRepeat(child *Node) *Node   { return &Node{Kind: Repeat, Children: []*Node{child}} }
func NewGroup(child *Node) *Node    { return &Node{Kind: Group, Children: []*Node{child}} }

// Child returns the single child of an OPTIONAL/REPEAT/GROUP node, or
// nil if this node has no children.
func (n *Node) Child() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// String pretty-prints the tree back into the production-text surface
// syntax: SEQUENCE elements are joined with single spaces (a nested OR
// element is parenthesized), OR alternatives are joined with `|`,
// OPTIONAL is wrapped in `[ ]`, REPEAT in `{ }`, GROUP in `( )`.
//
// Per the RHS construction rules, a single-alternative OR is elided at
// parse time, so String never needs to special-case that here — it
// only ever sees the tree shape the parser actually produced.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case Terminal, NonTerminal:
		return n.Value
	case Sequence:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = wrapIfOr(c)
		}
		return strings.Join(parts, " ")
	case Or:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = c.String()
		}
		return strings.Join(parts, " | ")
	case Optional:
		return "[ " + n.Child().String() + " ]"
	case Repeat:
		return "{ " + n.Child().String() + " }"
	case Group:
		return "( " + n.Child().String() + " )"
	default:
		return "?"
	}
}

// wrapIfOr parenthesizes a nested OR when printing it as an element of
// a SEQUENCE, so the printed text round-trips through the parser.
func wrapIfOr(n *Node) string {
	if n.Kind == Or {
		return "( " + n.String() + " )"
	}
	return n.String()
}

// Walk calls visit on n and recursively on every descendant, in child
// order, depth-first pre-order.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// Leaves returns every TERMINAL/NONTERMINAL leaf reachable from n, in
// left-to-right order.
func Leaves(n *Node) []*Node {
	var out []*Node
	Walk(n, func(c *Node) {
		if c.Kind == Terminal || c.Kind == NonTerminal {
			out = append(out, c)
		}
	})
	return out
}
