package grammar

import "github.com/shadowCow/parsegen/ebnf"

// Small constructors shared by the package's table-driven tests, to
// keep hand-built ebnf.Node trees readable.
func ebnfT(value string) *ebnf.Node  { return ebnf.NewLeaf(ebnf.Terminal, value) }
func ebnfNT(value string) *ebnf.Node { return ebnf.NewLeaf(ebnf.NonTerminal, value) }
func ebnfSeq(children ...*ebnf.Node) *ebnf.Node { return ebnf.NewSequence(children...) }
func ebnfOr(alts ...*ebnf.Node) *ebnf.Node      { return ebnf.NewOr(alts...) }
func ebnfGroup(child *ebnf.Node) *ebnf.Node     { return ebnf.NewGroup(child) }
