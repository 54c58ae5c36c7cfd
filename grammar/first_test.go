package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FirstSets_Arithmetic(t *testing.T) {
	assert := assert.New(t)

	g := buildArithmeticGrammar(t)
	assert.NoError(g.Finalize())

	assert.Equal(
		map[Symbol]struct{}{NumericConstant: {}, "lparen": {}},
		g.FirstSet("expr"),
	)
	assert.Equal(
		map[Symbol]struct{}{NumericConstant: {}, "lparen": {}},
		g.FirstSet("term"),
	)
	assert.Equal(
		map[Symbol]struct{}{NumericConstant: {}, "lparen": {}},
		g.FirstSet("factor"),
	)
}

func Test_FirstSets_NullableChainPropagatesEpsilon(t *testing.T) {
	assert := assert.New(t)

	// s ::= A B
	// A ::= "a" | epsilon
	// B ::= "b" | epsilon
	g := New(nil)
	noErr := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	noErr(g.AddTerminal("a"))
	noErr(g.AddTerminal("b"))
	noErr(g.AddNonterminal("s"))
	noErr(g.AddNonterminal("A"))
	noErr(g.AddNonterminal("B"))
	noErr(g.AddProduction("s", ebnfSeq(ebnfNT("A"), ebnfNT("B"))))
	noErr(g.AddProduction("A", ebnfOr(ebnfT("a"), ebnfT(string(Epsilon)))))
	noErr(g.AddProduction("B", ebnfOr(ebnfT("b"), ebnfT(string(Epsilon)))))

	assert.NoError(g.Finalize())

	first := g.FirstSet("s")
	assert.Contains(first, Symbol("a"))
	assert.Contains(first, Symbol("b"))
	assert.Contains(first, Epsilon)
}
