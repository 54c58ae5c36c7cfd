// Package conflict implements the LL(1) Conflict Checker: given a
// finalized grammar.Grammar, it reports every First/First conflict
// between sibling OR alternatives and every First/Follow conflict of a
// nullable nonterminal, so the emitter can refuse to
// generate a parser for an ambiguous grammar.
package conflict

import (
	"fmt"
	"sort"

	"github.com/shadowCow/parsegen/ebnf"
	"github.com/shadowCow/parsegen/grammar"
)

// Kind distinguishes the two LL(1) conflict classes.
type Kind int

const (
	FirstFirst Kind = iota
	FirstFollow
)

func (k Kind) String() string {
	if k == FirstFirst {
		return "First/First"
	}
	return "First/Follow"
}

// Conflict describes one LL(1) violation in Nonterminal's production.
// For FirstFirst, AltA and AltB are two alternatives of one OR whose
// First sets share Symbol. For FirstFollow, AltA is the whole
// production and AltB is "<follow>": Symbol is in both First and
// Follow of the nullable Nonterminal.
type Conflict struct {
	Kind        Kind
	Nonterminal grammar.Symbol
	Symbol      grammar.Symbol
	AltA, AltB  string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict in %s on %q between %q and %q",
		c.Kind, c.Nonterminal, c.Symbol, c.AltA, c.AltB)
}

// Check walks every production of g (which must already be finalized)
// and returns every conflict found, in a deterministic order: by
// nonterminal; within one, the First/First conflicts of each OR node in
// pre-order (sorted by symbol within an OR), then its First/Follow
// conflicts. A nil/empty result means no conflict of either kind was found.
func Check(g *grammar.Grammar) ([]Conflict, error) {
	if !g.IsFinal() {
		return nil, fmt.Errorf("conflict.Check requires a finalized grammar")
	}

	var out []Conflict
	for _, nt := range g.Nonterminals() {
		tree := g.Production(nt)
		out = append(out, checkNode(g, nt, tree)...)
		out = append(out, checkNullable(g, nt, tree)...)
	}
	return out, nil
}

// checkNode recurses through the production's tree, running the
// First/First check at every OR node encountered
// (an EBNF grammar can nest OR inside SEQUENCE/GROUP/OPTIONAL/REPEAT,
// and each nested OR is its own independent predictive decision point).
func checkNode(g *grammar.Grammar, nt grammar.Symbol, node *ebnf.Node) []Conflict {
	if node == nil {
		return nil
	}

	var out []Conflict
	if node.Kind == ebnf.Or {
		out = append(out, checkOr(g, nt, node)...)
	}
	for _, child := range node.Children {
		out = append(out, checkNode(g, nt, child)...)
	}
	return out
}

// checkOr checks a single OR node for pairwise First/First overlap
// between its alternatives. Epsilon is excluded from the intersection
// here, so two alternatives that can both derive the empty string are
// not reported as a First/First conflict; checkNullable compares only
// First(nt) with Follow(nt) and does not report that case either.
func checkOr(g *grammar.Grammar, nt grammar.Symbol, or *ebnf.Node) []Conflict {
	alts := or.Children
	firsts := make([]map[grammar.Symbol]struct{}, len(alts))
	for i, alt := range alts {
		firsts[i] = g.FirstOfNode(alt)
	}

	var out []Conflict
	for i := 0; i < len(alts); i++ {
		for j := i + 1; j < len(alts); j++ {
			for _, sym := range intersect(firsts[i], firsts[j]) {
				out = append(out, Conflict{
					Kind:        FirstFirst,
					Nonterminal: nt,
					Symbol:      sym,
					AltA:        alts[i].String(),
					AltB:        alts[j].String(),
				})
			}
		}
	}

	sort.Slice(out, func(a, b int) bool { return out[a].Symbol < out[b].Symbol })
	return out
}

// checkNullable implements the whole-nonterminal First/Follow check:
// for every nonterminal A with epsilon in First(A), First(A) minus
// epsilon must not intersect Follow(A) — a token that predicts an
// empty derivation of A must not also be able to start a non-empty
// one. This runs once per nonterminal against its already-computed
// First/Follow sets, independent of whether A's nullability comes from
// an OR alternative, an OPTIONAL, or a REPEAT.
func checkNullable(g *grammar.Grammar, nt grammar.Symbol, tree *ebnf.Node) []Conflict {
	first := g.FirstSet(nt)
	if _, ok := first[grammar.Epsilon]; !ok {
		return nil
	}

	follow := g.FollowSet(nt)
	var out []Conflict
	for _, sym := range intersect(first, follow) {
		out = append(out, Conflict{
			Kind:        FirstFollow,
			Nonterminal: nt,
			Symbol:      sym,
			AltA:        tree.String(),
			AltB:        "<follow>",
		})
	}
	return out
}

func intersect(a, b map[grammar.Symbol]struct{}) []grammar.Symbol {
	var out []grammar.Symbol
	for sym := range a {
		if sym == grammar.Epsilon {
			continue
		}
		if _, ok := b[sym]; ok {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
