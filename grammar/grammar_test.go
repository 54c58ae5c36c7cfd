package grammar

import (
	"testing"

	"github.com/shadowCow/parsegen/ebnf"
	"github.com/stretchr/testify/assert"
)

func Test_AddTerminal_RejectsEOF(t *testing.T) {
	assert := assert.New(t)

	g := New(nil)
	err := g.AddTerminal(EOF)

	assert.Error(err)
}

func Test_AddTerminal_DuplicateIsWarningNotError(t *testing.T) {
	assert := assert.New(t)

	g := New(nil)
	assert.NoError(g.AddTerminal("plus"))
	assert.NoError(g.AddTerminal("plus"))
	assert.True(g.IsTerminal("plus"))
}

func Test_AddTerminal_RejectsCrossKindRedeclaration(t *testing.T) {
	assert := assert.New(t)

	g := New(nil)
	assert.NoError(g.AddNonterminal("expr"))

	err := g.AddTerminal("expr")

	assert.Error(err)
}

func Test_SetStartSymbol_RequiresDeclaredNonterminal(t *testing.T) {
	assert := assert.New(t)

	g := New(nil)
	err := g.SetStartSymbol("expr")

	assert.Error(err)
}

func Test_AddProduction_InfersStartSymbolFromFirstProduction(t *testing.T) {
	assert := assert.New(t)

	g := New(nil)
	assert.NoError(g.AddNonterminal("expr"))
	assert.NoError(g.AddTerminal("num"))

	tree := ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "num"))
	assert.NoError(g.AddProduction("expr", tree))
	assert.Equal(Symbol("expr"), g.StartSymbol())
}

func Test_AddProduction_RejectsUndeclaredLeaf(t *testing.T) {
	assert := assert.New(t)

	g := New(nil)
	assert.NoError(g.AddNonterminal("expr"))

	tree := ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "num"))
	err := g.AddProduction("expr", tree)

	assert.Error(err)
}

func Test_AddProduction_DuplicateKeepsFirst(t *testing.T) {
	assert := assert.New(t)

	g := New(nil)
	assert.NoError(g.AddNonterminal("expr"))
	assert.NoError(g.AddTerminal("a"))
	assert.NoError(g.AddTerminal("b"))

	first := ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "a"))
	second := ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "b"))

	assert.NoError(g.AddProduction("expr", first))
	assert.NoError(g.AddProduction("expr", second))
	assert.Equal(first, g.Production("expr"))
}

func Test_Finalize_FailsWhenNonterminalHasNoProduction(t *testing.T) {
	assert := assert.New(t)

	g := New(nil)
	assert.NoError(g.AddNonterminal("expr"))
	assert.NoError(g.AddNonterminal("term"))
	assert.NoError(g.AddTerminal("a"))
	assert.NoError(g.AddProduction("expr", ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "a"))))

	err := g.Finalize()

	assert.Error(err)
}

func Test_Finalize_IsIdempotent(t *testing.T) {
	assert := assert.New(t)

	g := buildArithmeticGrammar(t)
	assert.NoError(g.Finalize())
	assert.NoError(g.Finalize())
	assert.True(g.IsFinal())
}

func Test_Mutation_FailsAfterFinalize(t *testing.T) {
	assert := assert.New(t)

	g := buildArithmeticGrammar(t)
	assert.NoError(g.Finalize())

	assert.Error(g.AddTerminal("new_terminal"))
	assert.Error(g.AddNonterminal("new_nonterminal"))
	assert.Error(g.SetStartSymbol(g.StartSymbol()))
}

// buildArithmeticGrammar constructs the simple left-recursion-free
// arithmetic grammar used across the package's test scenarios:
//
//	expr  ::= term { ( plus | minus ) term }
//	term  ::= factor { ( star | slash ) factor }
//	factor ::= numeric_constant | lparen expr rparen
func buildArithmeticGrammar(t *testing.T) *Grammar {
	t.Helper()

	g := New(nil)
	mustAdd := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected setup error: %v", err)
		}
	}

	mustAdd(g.AddTerminal("plus"))
	mustAdd(g.AddTerminal("minus"))
	mustAdd(g.AddTerminal("star"))
	mustAdd(g.AddTerminal("slash"))
	mustAdd(g.AddTerminal("lparen"))
	mustAdd(g.AddTerminal("rparen"))

	mustAdd(g.AddNonterminal("expr"))
	mustAdd(g.AddNonterminal("term"))
	mustAdd(g.AddNonterminal("factor"))

	mustAdd(g.AddProduction("expr", ebnf.NewSequence(
		ebnf.NewLeaf(ebnf.NonTerminal, "term"),
		ebnf.NewRepeat(ebnf.NewSequence(
			ebnf.NewOr(
				ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "plus")),
				ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "minus")),
			),
			ebnf.NewLeaf(ebnf.NonTerminal, "term"),
		)),
	)))

	mustAdd(g.AddProduction("term", ebnf.NewSequence(
		ebnf.NewLeaf(ebnf.NonTerminal, "factor"),
		ebnf.NewRepeat(ebnf.NewSequence(
			ebnf.NewOr(
				ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "star")),
				ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "slash")),
			),
			ebnf.NewLeaf(ebnf.NonTerminal, "factor"),
		)),
	)))

	mustAdd(g.AddProduction("factor", ebnf.NewOr(
		ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, string(NumericConstant))),
		ebnf.NewSequence(
			ebnf.NewLeaf(ebnf.Terminal, "lparen"),
			ebnf.NewLeaf(ebnf.NonTerminal, "expr"),
			ebnf.NewLeaf(ebnf.Terminal, "rparen"),
		),
	)))

	return g
}
