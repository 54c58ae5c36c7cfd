package grammar

import "github.com/shadowCow/parsegen/ebnf"

// computeFirstSets is the Set Engine's First half. It initializes
// First(t) = {t} for every terminal and First(A) = ∅ for every
// nonterminal, then iterates a fix-point loop — for each production
// A ::= RHS, First(A) grows by F(RHS) — until a full pass adds
// nothing.
func (g *Grammar) computeFirstSets() {
	for t := range g.terminals {
		g.firstSets[t] = newSymbolSet(t)
	}
	for nt := range g.nonterminals {
		g.firstSets[nt] = newSymbolSet()
	}

	changed := true
	for changed {
		changed = false
		for nt, tree := range g.productions {
			produced := g.firstOf(tree)
			if g.firstSets[nt].addAll(produced) {
				changed = true
			}
		}
	}
}

// firstOf computes F(node) over an arbitrary EBNF subtree. It is also
// used live (against whatever First sets have been computed so far) by
// the Follow-set driver and the LL(1) conflict checker, since
// alternatives inside an OR may be arbitrary EBNF expressions rather
// than bare nonterminals.
func (g *Grammar) firstOf(node *ebnf.Node) symbolSet {
	if node == nil {
		return newSymbolSet()
	}

	switch node.Kind {
	case ebnf.Terminal:
		return newSymbolSet(Symbol(node.Value))

	case ebnf.NonTerminal:
		return g.firstOfSymbol(Symbol(node.Value)).clone()

	case ebnf.Sequence:
		result := newSymbolSet()
		allNullable := true
		for _, child := range node.Children {
			fc := g.firstOf(child)
			result.addAll(fc.withoutEpsilon())
			if !fc.has(Epsilon) {
				allNullable = false
				break
			}
		}
		if allNullable {
			result.add(Epsilon)
		}
		return result

	case ebnf.Or:
		result := newSymbolSet()
		for _, alt := range node.Children {
			result.addAll(g.firstOf(alt))
		}
		return result

	case ebnf.Optional, ebnf.Repeat:
		result := g.firstOf(node.Child())
		result.add(Epsilon)
		return result

	case ebnf.Group:
		return g.firstOf(node.Child())

	default:
		return newSymbolSet()
	}
}

// FirstOfNode computes First of an arbitrary EBNF subtree (not just a
// whole production's nonterminal), for callers outside the package
// that need it live against the current Set Engine state — the
// conflict checker and the parser emitter both need First of an OR
// alternative, which need not itself be a bare nonterminal.
func (g *Grammar) FirstOfNode(node *ebnf.Node) map[Symbol]struct{} {
	return map[Symbol]struct{}(g.firstOf(node).clone())
}

// nullable reports whether epsilon is a member of set.
func nullable(set symbolSet) bool {
	return set.has(Epsilon)
}
