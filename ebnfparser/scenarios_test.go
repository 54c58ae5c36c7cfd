package ebnfparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shadowCow/parsegen/conflict"
	"github.com/shadowCow/parsegen/grammar"
	"github.com/stretchr/testify/assert"
)

// loadFixture reads one of the end-to-end scenario grammars checked
// into the module's top-level testdata/ directory.
func loadFixture(t *testing.T, name string) string {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("..", "testdata", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return string(src)
}

func Test_Scenario_Arithmetic(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(loadFixture(t, "arithmetic.gram"), nil)
	assert.NoError(err)
	assert.NoError(g.Finalize())

	expectFE := map[grammar.Symbol]struct{}{"(": {}, "n": {}}
	assert.Equal(expectFE, g.FirstSet("E"))
	assert.Equal(expectFE, g.FirstSet("T"))
	assert.Equal(expectFE, g.FirstSet("F"))

	assert.Equal(map[grammar.Symbol]struct{}{")": {}, grammar.EOF: {}}, g.FollowSet("E"))
	assert.Equal(map[grammar.Symbol]struct{}{")": {}, grammar.EOF: {}}, g.FollowSet("E'"))
	assert.Equal(map[grammar.Symbol]struct{}{"+": {}, ")": {}, grammar.EOF: {}}, g.FollowSet("T"))
	assert.Equal(map[grammar.Symbol]struct{}{"+": {}, ")": {}, grammar.EOF: {}}, g.FollowSet("T'"))

	conflicts, err := conflict.Check(g)
	assert.NoError(err)
	assert.Empty(conflicts)
}

func Test_Scenario_FirstFirstConflict(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(loadFixture(t, "first_first_conflict.gram"), nil)
	assert.NoError(err)
	assert.NoError(g.Finalize())

	conflicts, err := conflict.Check(g)
	assert.NoError(err)
	assert.NotEmpty(conflicts)
	assert.Equal(conflict.FirstFirst, conflicts[0].Kind)
	assert.Equal(grammar.Symbol("S"), conflicts[0].Nonterminal)
	assert.Equal(grammar.Symbol("a"), conflicts[0].Symbol)
}

func Test_Scenario_FirstFollowConflict(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(loadFixture(t, "first_follow_conflict.gram"), nil)
	assert.NoError(err)
	assert.NoError(g.Finalize())

	assert.Equal(map[grammar.Symbol]struct{}{"a": {}, grammar.Epsilon: {}}, g.FirstSet("A"))
	assert.Equal(map[grammar.Symbol]struct{}{"a": {}}, g.FollowSet("A"))

	conflicts, err := conflict.Check(g)
	assert.NoError(err)
	assert.NotEmpty(conflicts)
	assert.Equal(conflict.FirstFollow, conflicts[0].Kind)
	assert.Equal(grammar.Symbol("A"), conflicts[0].Nonterminal)
	assert.Equal(grammar.Symbol("a"), conflicts[0].Symbol)
}

func Test_Scenario_OptionalRepeat(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(loadFixture(t, "optional_repeat.gram"), nil)
	assert.NoError(err)
	assert.NoError(g.Finalize())

	assert.Equal(map[grammar.Symbol]struct{}{"id": {}, grammar.Epsilon: {}}, g.FirstSet("P"))
	assert.Equal(map[grammar.Symbol]struct{}{"id": {}, grammar.EOF: {}}, g.FollowSet("S"))

	conflicts, err := conflict.Check(g)
	assert.NoError(err)
	assert.Empty(conflicts)
}

func Test_Scenario_EscapedMeta(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(loadFixture(t, "escaped_meta.gram"), nil)
	assert.NoError(err)
	assert.True(g.IsTerminal("|"))
	assert.True(g.IsTerminal("{"))
	assert.NoError(g.Finalize())

	assert.Equal(map[grammar.Symbol]struct{}{"|": {}}, g.FirstSet("X"))
}

func Test_Scenario_UndeclaredSymbolAbortsLoad(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(loadFixture(t, "undeclared_symbol.gram"), nil)
	assert.Error(err)
}
