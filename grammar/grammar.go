// Package grammar holds the Grammar Store (terminals, nonterminals,
// productions, start symbol) and the Set Engine that computes First and
// Follow sets over the EBNF trees attached to each production.
package grammar

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shadowCow/parsegen/ebnf"
	"github.com/shadowCow/parsegen/internal/applog"
)

// Grammar is the ownership root for a declared grammar: its terminal
// and nonterminal symbol sets, its productions (one EBNF tree per
// nonterminal), its start symbol, and — once Finalize has run — its
// First and Follow sets.
//
// A Grammar grows monotonically through AddTerminal/AddNonterminal/
// AddProduction/SetStartSymbol until Finalize is called, at which point
// it is immutable: further mutation attempts fail.
type Grammar struct {
	terminals    symbolSet
	nonterminals symbolSet
	productions  map[Symbol]*ebnf.Node
	startSymbol  Symbol
	startIsSet   bool

	firstSets  map[Symbol]symbolSet
	followSets map[Symbol]symbolSet
	isFinal    bool

	log *applog.Logger
}

// New returns an empty Grammar with the three predefined terminals
// already declared.
func New(log *applog.Logger) *Grammar {
	if log == nil {
		log = applog.Discard()
	}
	g := &Grammar{
		terminals:    newSymbolSet(Identifier, NumericConstant, StringLiteral),
		nonterminals: newSymbolSet(),
		productions:  make(map[Symbol]*ebnf.Node),
		firstSets:    make(map[Symbol]symbolSet),
		followSets:   make(map[Symbol]symbolSet),
		log:          log,
	}
	return g
}

// IsFinal reports whether Finalize has run.
func (g *Grammar) IsFinal() bool { return g.isFinal }

func (g *Grammar) checkMutable() error {
	if g.isFinal {
		return errors.New("grammar is finalized and can no longer be mutated")
	}
	return nil
}

// AddTerminal declares a terminal symbol. It fails if s is the reserved
// symbol "eof" or already declared as a nonterminal. Redeclaring an
// existing terminal is a no-op warning, not an error.
func (g *Grammar) AddTerminal(s Symbol) error {
	if err := g.checkMutable(); err != nil {
		return err
	}
	if s == EOF {
		return errors.New(`"eof" is reserved and may not be declared`)
	}
	if g.nonterminals.has(s) {
		return errors.Errorf("symbol %q is already declared as a nonterminal", s)
	}
	if g.terminals.has(s) {
		g.log.Warnf("duplicate terminal declaration %q ignored", s)
		return nil
	}
	g.terminals.add(s)
	return nil
}

// AddNonterminal declares a nonterminal symbol, with the same
// reservation and duplicate-warning rules as AddTerminal.
func (g *Grammar) AddNonterminal(s Symbol) error {
	if err := g.checkMutable(); err != nil {
		return err
	}
	if s == EOF {
		return errors.New(`"eof" is reserved and may not be declared`)
	}
	if g.terminals.has(s) {
		return errors.Errorf("symbol %q is already declared as a terminal", s)
	}
	if g.nonterminals.has(s) {
		g.log.Warnf("duplicate nonterminal declaration %q ignored", s)
		return nil
	}
	g.nonterminals.add(s)
	return nil
}

// SetStartSymbol fails if s has not been declared as a nonterminal.
func (g *Grammar) SetStartSymbol(s Symbol) error {
	if err := g.checkMutable(); err != nil {
		return err
	}
	if !g.nonterminals.has(s) {
		return errors.Errorf("cannot set start symbol: %q is not a declared nonterminal", s)
	}
	g.startSymbol = s
	g.startIsSet = true
	return nil
}

// AddProduction attaches tree as the right-hand side of nt. It fails if
// nt is not a declared nonterminal, or if tree references a symbol that
// was never declared as a terminal or nonterminal. If nt already has a
// production, the existing one wins and tree is discarded with a
// warning (first-wins). If no start symbol has been set yet, nt
// becomes the start symbol.
func (g *Grammar) AddProduction(nt Symbol, tree *ebnf.Node) error {
	if err := g.checkMutable(); err != nil {
		return err
	}
	if !g.nonterminals.has(nt) {
		return errors.Errorf("cannot add production: %q is not a declared nonterminal", nt)
	}
	if err := g.validateLeaves(tree); err != nil {
		return err
	}
	if !g.startIsSet {
		g.startSymbol = nt
		g.startIsSet = true
	}
	if _, exists := g.productions[nt]; exists {
		g.log.Warnf("duplicate production for %q ignored, keeping the first one", nt)
		return nil
	}
	g.productions[nt] = tree
	return nil
}

// validateLeaves checks that every TERMINAL and NONTERMINAL leaf in
// tree names a symbol declared in the matching set (or, for TERMINAL,
// is the epsilon pseudo-terminal).
func (g *Grammar) validateLeaves(tree *ebnf.Node) error {
	var firstErr error
	ebnf.Walk(tree, func(n *ebnf.Node) {
		if firstErr != nil {
			return
		}
		switch n.Kind {
		case ebnf.Terminal:
			sym := Symbol(n.Value)
			if sym != Epsilon && !g.terminals.has(sym) {
				firstErr = errors.Errorf("undeclared terminal %q referenced in production", n.Value)
			}
		case ebnf.NonTerminal:
			sym := Symbol(n.Value)
			if !g.nonterminals.has(sym) {
				firstErr = errors.Errorf("undeclared nonterminal %q referenced in production", n.Value)
			}
		}
	})
	return firstErr
}

// IsTerminal and IsNonterminal are constant-time membership checks.
func (g *Grammar) IsTerminal(s Symbol) bool    { return g.terminals.has(s) }
func (g *Grammar) IsNonterminal(s Symbol) bool { return g.nonterminals.has(s) }

// StartSymbol returns the grammar's start symbol, valid once at least
// one production or an explicit SetStartSymbol call has run.
func (g *Grammar) StartSymbol() Symbol { return g.startSymbol }

// Terminals and Nonterminals return their declared symbols in sorted order.
func (g *Grammar) Terminals() []Symbol    { return g.terminals.sorted() }
func (g *Grammar) Nonterminals() []Symbol { return g.nonterminals.sorted() }

// Production returns the RHS tree for nt, or nil if nt has no production.
func (g *Grammar) Production(nt Symbol) *ebnf.Node { return g.productions[nt] }

// Productions returns the full production map. Callers must not mutate it.
func (g *Grammar) Productions() map[Symbol]*ebnf.Node { return g.productions }

// Finalize computes First then Follow sets and latches IsFinal to true.
// It is idempotent: a second call is a no-op. It fails if any declared
// nonterminal has no production, or if no start symbol has been set.
func (g *Grammar) Finalize() error {
	if g.isFinal {
		return nil
	}
	if !g.startIsSet {
		return errors.New("grammar has no start symbol")
	}
	for _, nt := range g.Nonterminals() {
		if _, ok := g.productions[nt]; !ok {
			return errors.Errorf("nonterminal %q has no production", nt)
		}
	}
	g.computeFirstSets()
	g.computeFollowSets()
	g.isFinal = true
	return nil
}

// FirstSet returns a copy of First(s). Only meaningful after Finalize.
func (g *Grammar) FirstSet(s Symbol) map[Symbol]struct{} {
	return map[Symbol]struct{}(g.firstSets[s].clone())
}

// FollowSet returns a copy of Follow(s). Only meaningful after Finalize,
// and only defined for nonterminals.
func (g *Grammar) FollowSet(s Symbol) map[Symbol]struct{} {
	return map[Symbol]struct{}(g.followSets[s].clone())
}

// firstOfSymbol is the raw (uncopied) First set used internally by the
// fix-point drivers; nonterminals not yet visited return an empty set.
func (g *Grammar) firstOfSymbol(s Symbol) symbolSet {
	if set, ok := g.firstSets[s]; ok {
		return set
	}
	return newSymbolSet()
}

func (g *Grammar) followOfSymbol(s Symbol) symbolSet {
	if set, ok := g.followSets[s]; ok {
		return set
	}
	return newSymbolSet()
}

// String satisfies fmt.Stringer for debug printing of the grammar header.
func (g *Grammar) String() string {
	return fmt.Sprintf("Grammar{start=%s, terminals=%d, nonterminals=%d}",
		g.startSymbol, len(g.terminals), len(g.nonterminals))
}
