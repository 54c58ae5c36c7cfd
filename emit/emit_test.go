package emit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shadowCow/parsegen/ebnf"
	"github.com/shadowCow/parsegen/grammar"
	"github.com/stretchr/testify/assert"
)

func buildLetterGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New(nil)
	noErr := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	noErr(g.AddTerminal("a"))
	noErr(g.AddTerminal("b"))
	noErr(g.AddNonterminal("s"))
	noErr(g.AddProduction("s", ebnf.NewSequence(
		ebnf.NewOr(
			ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "a")),
			ebnf.NewSequence(ebnf.NewLeaf(ebnf.Terminal, "b")),
		),
	)))
	noErr(g.Finalize())
	return g
}

func Test_Generate_RequiresFinalizedGrammar(t *testing.T) {
	assert := assert.New(t)

	g := grammar.New(nil)
	err := Generate(g, "Letter", filepath.Join(t.TempDir(), "letter"), nil)

	assert.Error(err)
}

func Test_Generate_WritesHeaderAndSourceFiles(t *testing.T) {
	assert := assert.New(t)

	g := buildLetterGrammar(t)
	stem := filepath.Join(t.TempDir(), "letter")

	err := Generate(g, "Letter", stem, nil)
	assert.NoError(err)

	header, err := os.ReadFile(stem + ".hpp")
	assert.NoError(err)
	assert.Contains(string(header), "class Letter {")
	assert.Contains(string(header), "void parse_s(ParseTreeNode* parse_tree_parent);")

	source, err := os.ReadFile(stem + ".cpp")
	assert.NoError(err)
	assert.Contains(string(source), "void Letter::parse_s(ParseTreeNode* parse_tree_parent) {")
	assert.Contains(string(source), `next_token.get_lexeme() == "a"`)
	assert.Contains(string(source), `next_token.get_lexeme() == "b"`)
	assert.Contains(string(source), "void Letter::parse_tree_gnu_plot() {")
}

func Test_Generate_RemovesPartialOutputOnFailure(t *testing.T) {
	assert := assert.New(t)

	// A nonterminal with no production makes Finalize fail, so build a
	// grammar by hand that is "final" but still broken enough to make
	// the emitter's own production walk fail: a nonterminal whose tree
	// contains a nil child is not reachable through the public API, so
	// instead we exercise the unwritable-directory failure path.
	g := buildLetterGrammar(t)
	unwritable := filepath.Join(t.TempDir(), "does", "not", "exist", "letter")

	err := Generate(g, "Letter", unwritable, nil)
	assert.Error(err)

	_, headerErr := os.Stat(unwritable + ".hpp")
	assert.True(os.IsNotExist(headerErr))
	_, sourceErr := os.Stat(unwritable + ".cpp")
	assert.True(os.IsNotExist(sourceErr))
}
