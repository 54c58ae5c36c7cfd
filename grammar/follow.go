package grammar

import "github.com/shadowCow/parsegen/ebnf"

// trailerSet is "a collection of sets": a sequence of candidate
// follow-contexts, needed because alternation branches each contribute
// their own trailer that must be inherited independently. union-into-
// target only happens when a NONTERMINAL leaf is reached.
type trailerSet []symbolSet

func (ts trailerSet) clone() trailerSet {
	out := make(trailerSet, len(ts))
	for i, s := range ts {
		out[i] = s.clone()
	}
	return out
}

// computeFollowSets is the Set Engine's Follow half. First sets must
// already be populated. The fix-point loop re-walks
// every production's RHS right-to-left, threading a trailerSet, until
// a full pass changes no Follow set.
func (g *Grammar) computeFollowSets() {
	for nt := range g.nonterminals {
		g.followSets[nt] = newSymbolSet()
	}
	g.followSets[g.startSymbol].add(EOF)

	changed := true
	for changed {
		changed = false
		for nt, tree := range g.productions {
			initial := trailerSet{g.followOfSymbol(nt).clone()}
			_, didChange := g.walkFollow(tree, initial)
			if didChange {
				changed = true
			}
		}
	}
}

// walkFollow recurses into node right-to-left, threading trailers, and
// returns the trailer collection seen by whatever is immediately to
// node's left plus whether any Follow set was modified along the way.
func (g *Grammar) walkFollow(node *ebnf.Node, trailers trailerSet) (trailerSet, bool) {
	if node == nil {
		return trailers, false
	}

	switch node.Kind {
	case ebnf.Terminal:
		if node.Value == string(Epsilon) {
			// Produces no token; nullable, so it doesn't narrow the trailer.
			return trailers, false
		}
		return trailerSet{newSymbolSet(Symbol(node.Value))}, false

	case ebnf.NonTerminal:
		sym := Symbol(node.Value)
		changed := false
		for _, t := range trailers {
			if g.followSets[sym].addAll(t) {
				changed = true
			}
		}

		first := g.firstOfSymbol(sym)
		if nullable(first) {
			rest := first.withoutEpsilon()
			next := trailers.clone()
			for _, t := range next {
				t.addAll(rest)
			}
			return next, changed
		}
		return trailerSet{first.clone()}, changed

	case ebnf.Sequence:
		cur := trailers
		changed := false
		for i := len(node.Children) - 1; i >= 0; i-- {
			var didChange bool
			cur, didChange = g.walkFollow(node.Children[i], cur)
			changed = changed || didChange
		}
		return cur, changed

	case ebnf.Or:
		var out trailerSet
		changed := false
		for _, alt := range node.Children {
			result, didChange := g.walkFollow(alt, trailers.clone())
			changed = changed || didChange
			out = append(out, result...)
		}
		return out, changed

	case ebnf.Optional:
		_, didChange := g.walkFollow(node.Child(), trailers.clone())
		childFirst := g.firstOf(node.Child()).withoutEpsilon()
		out := append(trailerSet{childFirst}, trailers.clone()...)
		return out, didChange

	case ebnf.Repeat:
		// A repeated child can be immediately followed either by another
		// iteration of itself (First(child)) or by whatever follows the
		// repetition as a whole, so both must reach the child's own
		// nonterminals as candidate trailers.
		childFirst := g.firstOf(node.Child()).withoutEpsilon()
		innerTrailers := append(trailerSet{childFirst.clone()}, trailers.clone()...)
		_, didChange := g.walkFollow(node.Child(), innerTrailers)
		out := append(trailerSet{childFirst}, trailers.clone()...)
		return out, didChange

	case ebnf.Group:
		var descend trailerSet
		groupFirst := g.firstOf(node)
		if nullable(groupFirst) {
			descend = trailers.clone()
		} else {
			descend = trailerSet{newSymbolSet()}
		}
		return g.walkFollow(node.Child(), descend)

	default:
		return trailers, false
	}
}
