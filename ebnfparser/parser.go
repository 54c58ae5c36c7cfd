// Package ebnfparser implements the EBNF Text Parser: it reads a
// grammar-description file and builds a grammar.Grammar whose
// productions are grammar.Symbol -> ebnf.Node trees.
package ebnfparser

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shadowCow/parsegen/ebnf"
	"github.com/shadowCow/parsegen/grammar"
	"github.com/shadowCow/parsegen/internal/applog"
)

// metaChars are the characters that terminate a bare TERMINAL run:
// , { } [ ] ( ) \ |
const metaChars = ",{}[]()\\|"

func isMeta(b byte) bool {
	return strings.IndexByte(metaChars, b) >= 0
}

func isSpaceOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}

// SyntaxError reports a byte offset and the parsing stage that
// detected the problem.
type SyntaxError struct {
	Offset int
	Stage  string
	Msg    string
}

func (e *SyntaxError) Error() string {
	return errors.Errorf("%s at byte offset %d: %s", e.Stage, e.Offset, e.Msg).Error()
}

// parser holds the scanning state for one grammar-description file.
type parser struct {
	src    string
	pos    int
	g      *grammar.Grammar
	log    *applog.Logger
}

// Parse reads the full text of a grammar-description file and returns
// the Grammar it declares. Parsing aborts on the first error; it does
// not call Finalize — callers decide when to finalize.
func Parse(src string, log *applog.Logger) (*grammar.Grammar, error) {
	if log == nil {
		log = applog.Discard()
	}
	p := &parser{src: src, g: grammar.New(log), log: log}
	if err := p.parseFile(); err != nil {
		return nil, err
	}
	return p.g, nil
}

func (p *parser) errf(stage, format string, args ...interface{}) error {
	return &SyntaxError{Offset: p.pos, Stage: stage, Msg: errors.Errorf(format, args...).Error()}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expectLiteral(stage, lit string) error {
	if p.pos+len(lit) > len(p.src) || p.src[p.pos:p.pos+len(lit)] != lit {
		return p.errf(stage, "expected %q", lit)
	}
	p.pos += len(lit)
	return nil
}

// skipWhiteSpace consumes spaces and tabs (not newlines).
func (p *parser) skipWhiteSpace() {
	for !p.eof() && isSpaceOrTab(p.peek()) {
		p.pos++
	}
}

// endOfLine consumes an optional CR then requires a LF, except at end
// of input, where a missing LF is accepted. Both Unix and Windows line
// endings are accepted.
func (p *parser) endOfLine(stage string) error {
	if p.peek() == '\r' {
		p.pos++
	}
	if p.eof() {
		return nil // trailing final line with no terminator is tolerated
	}
	if p.peek() != '\n' {
		return p.errf(stage, "expected end of line")
	}
	p.pos++
	return nil
}

// parseFile implements FILE ::= "T:" TLIST EOL "NT:" NTLIST EOL "P:" EOL {PROD EOL}
func (p *parser) parseFile() error {
	if err := p.expectLiteral("FILE", "T:"); err != nil {
		return err
	}
	terminals, err := p.parseSymbolList("TLIST")
	if err != nil {
		return err
	}
	if len(terminals) == 0 {
		return p.errf("TLIST", "empty terminal list is rejected")
	}
	for _, t := range terminals {
		if err := p.g.AddTerminal(grammar.Symbol(t)); err != nil {
			return err
		}
	}
	if err := p.endOfLine("FILE"); err != nil {
		return err
	}

	if err := p.expectLiteral("FILE", "NT:"); err != nil {
		return err
	}
	nonterminals, err := p.parseSymbolList("NTLIST")
	if err != nil {
		return err
	}
	for _, nt := range nonterminals {
		if err := p.g.AddNonterminal(grammar.Symbol(nt)); err != nil {
			return err
		}
	}
	if err := p.endOfLine("FILE"); err != nil {
		return err
	}

	if err := p.expectLiteral("FILE", "P:"); err != nil {
		return err
	}
	if err := p.endOfLine("FILE"); err != nil {
		return err
	}

	for !p.eof() {
		lhs, rhs, err := p.parseProduction()
		if err != nil {
			return err
		}
		if err := p.g.AddProduction(grammar.Symbol(lhs), rhs); err != nil {
			return err
		}
		if err := p.endOfLine("PROD"); err != nil {
			return err
		}
	}

	return nil
}

// parseSymbolList implements TLIST/NTLIST ::= TERMINAL {"," TERMINAL}
// (the grammar names both lists the same way; they differ only in
// which Grammar Store set each item is later added to).
func (p *parser) parseSymbolList(stage string) ([]string, error) {
	var out []string
	first, err := p.parseTerminalToken(stage)
	if err != nil {
		return nil, err
	}
	out = append(out, first)
	for p.peek() == ',' {
		p.pos++
		p.skipWhiteSpace()
		next, err := p.parseTerminalToken(stage)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

// parseTerminalToken reads a maximal run of non-whitespace, non-meta
// characters, honoring backslash-escaping of meta characters.
func (p *parser) parseTerminalToken(stage string) (string, error) {
	p.skipWhiteSpace()
	var sb strings.Builder
	for !p.eof() {
		b := p.peek()
		if b == '\\' {
			p.pos++
			if p.eof() {
				return "", p.errf(stage, "dangling escape at end of input")
			}
			esc := p.peek()
			if !isMeta(esc) {
				return "", p.errf(stage, "escape of non-meta character %q", esc)
			}
			sb.WriteByte(esc)
			p.pos++
			continue
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' || isMeta(b) {
			break
		}
		sb.WriteByte(b)
		p.pos++
	}
	if sb.Len() == 0 {
		return "", p.errf(stage, "expected a terminal name")
	}
	return sb.String(), nil
}

// parseProduction implements PROD ::= TERMINAL WS "::=" RHS
func (p *parser) parseProduction() (string, *ebnf.Node, error) {
	lhs, err := p.parseTerminalToken("LHS")
	if err != nil {
		return "", nil, err
	}
	p.skipWhiteSpace()
	if err := p.expectLiteral("PROD", "::="); err != nil {
		return "", nil, err
	}
	rhs, err := p.parseRHS()
	if err != nil {
		return "", nil, err
	}
	return lhs, ebnf.NewSequence(rhs), nil
}

// parseRHS implements RHS ::= TERM {"|" TERM}. Per the RHS construction
// rules, an OR with exactly one alternative is elided in favor of that
// alternative; every alternative that does survive into an OR is
// always a SEQUENCE, even of one factor.
func (p *parser) parseRHS() (*ebnf.Node, error) {
	var alts []*ebnf.Node
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	alts = append(alts, first)

	p.skipWhiteSpace()
	for p.peek() == '|' {
		p.pos++
		p.skipWhiteSpace()
		next, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
		p.skipWhiteSpace()
	}

	if len(alts) == 1 {
		return alts[0], nil
	}
	return ebnf.NewOr(alts...), nil
}

// parseTerm implements TERM ::= FACTOR {FACTOR}, always wrapped as a
// SEQUENCE node (even for a single factor) per the RHS construction rules.
func (p *parser) parseTerm() (*ebnf.Node, error) {
	var factors []*ebnf.Node
	p.skipWhiteSpace()
	for {
		f, ok, err := p.tryParseFactor()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		factors = append(factors, f)
		p.skipWhiteSpace()
	}
	if len(factors) == 0 {
		return nil, p.errf("TERM", "expected at least one factor")
	}
	return ebnf.NewSequence(factors...), nil
}

// tryParseFactor implements FACTOR ::= "[" RHS "]" | "{" RHS "}" | "(" RHS ")" | TERMINAL
// It returns ok=false (no error) when the current position cannot
// start a factor, so callers can use it to detect the end of a TERM.
func (p *parser) tryParseFactor() (*ebnf.Node, bool, error) {
	switch p.peek() {
	case '|', 0, '\r', '\n':
		return nil, false, nil
	case '[':
		p.pos++
		inner, err := p.parseRHS()
		if err != nil {
			return nil, false, err
		}
		p.skipWhiteSpace()
		if err := p.expectLiteral("FACTOR", "]"); err != nil {
			return nil, false, err
		}
		return ebnf.NewOptional(inner), true, nil
	case '{':
		p.pos++
		inner, err := p.parseRHS()
		if err != nil {
			return nil, false, err
		}
		p.skipWhiteSpace()
		if err := p.expectLiteral("FACTOR", "}"); err != nil {
			return nil, false, err
		}
		return ebnf.NewRepeat(inner), true, nil
	case '(':
		p.pos++
		inner, err := p.parseRHS()
		if err != nil {
			return nil, false, err
		}
		p.skipWhiteSpace()
		if err := p.expectLiteral("FACTOR", ")"); err != nil {
			return nil, false, err
		}
		return ebnf.NewGroup(inner), true, nil
	case ']', '}', ')':
		return nil, false, nil
	default:
		name, err := p.parseTerminalToken("FACTOR")
		if err != nil {
			return nil, false, err
		}
		kind, err := p.classify(name)
		if err != nil {
			return nil, false, err
		}
		return ebnf.NewLeaf(kind, name), true, nil
	}
}

// classify resolves a leaf string against the declared symbol tables:
// a name matching a declared terminal becomes TERMINAL, else a
// declared nonterminal becomes NONTERMINAL, else parsing fails.
func (p *parser) classify(name string) (ebnf.Kind, error) {
	sym := grammar.Symbol(name)
	if sym == grammar.Epsilon || p.g.IsTerminal(sym) {
		return ebnf.Terminal, nil
	}
	if p.g.IsNonterminal(sym) {
		return ebnf.NonTerminal, nil
	}
	return 0, p.errf("FACTOR", "%q is neither terminal nor nonterminal", name)
}
