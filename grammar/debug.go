package grammar

import (
	"fmt"
	"io"
)

// Dump writes a human-readable report of g's declared symbols,
// productions, and (once finalized) First/Follow sets to w — a
// supplemental debugging aid for grammar authors diagnosing an
// unexpected parser shape.
func Dump(g *Grammar, w io.Writer) {
	fmt.Fprintf(w, "start symbol: %s\n\n", g.StartSymbol())

	fmt.Fprintln(w, "terminals:")
	for _, t := range g.Terminals() {
		fmt.Fprintf(w, "  %s\n", t)
	}

	fmt.Fprintln(w, "\nnonterminals:")
	for _, nt := range g.Nonterminals() {
		fmt.Fprintf(w, "  %s\n", nt)
	}

	fmt.Fprintln(w, "\nproductions:")
	for _, nt := range g.Nonterminals() {
		if tree := g.Production(nt); tree != nil {
			fmt.Fprintf(w, "  %s ::= %s\n", nt, tree.String())
		}
	}

	if !g.IsFinal() {
		return
	}

	fmt.Fprintln(w, "\nfirst sets:")
	for _, nt := range g.Nonterminals() {
		fmt.Fprintf(w, "  First(%s) = %s\n", nt, formatSet(g.FirstSet(nt)))
	}

	fmt.Fprintln(w, "\nfollow sets:")
	for _, nt := range g.Nonterminals() {
		fmt.Fprintf(w, "  Follow(%s) = %s\n", nt, formatSet(g.FollowSet(nt)))
	}
}

func formatSet(set map[Symbol]struct{}) string {
	s := symbolSet(set)
	syms := s.sorted()
	out := "{ "
	for i, sym := range syms {
		if i > 0 {
			out += ", "
		}
		out += string(sym)
	}
	return out + " }"
}
