// Package emit is the Parser Emitter: given a finalized, LL(1)-clean
// grammar.Grammar, it writes a pair of C++ source files (<out>.hpp,
// <out>.cpp) implementing a predictive recursive-descent parser for
// that grammar, plus a debug parse-tree dumper.
//
// First/First and First/Follow conflicts are expected to have already
// been rejected by the conflict package before Generate is ever
// called, rather than detected again mid-emit.
package emit

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/shadowCow/parsegen/ebnf"
	"github.com/shadowCow/parsegen/grammar"
	"github.com/shadowCow/parsegen/internal/applog"
)

// Generate writes outStem+".hpp" and outStem+".cpp" implementing a
// parser for g, whose class is named className (typically derived
// from the output stem's base name). On any failure both files are
// removed before returning the error.
func Generate(g *grammar.Grammar, className, outStem string, log *applog.Logger) error {
	if log == nil {
		log = applog.Discard()
	}
	if !g.IsFinal() {
		return errors.New("emit.Generate requires a finalized grammar")
	}

	headerPath := outStem + ".hpp"
	sourcePath := outStem + ".cpp"

	if err := generateHeader(g, className, headerPath, log); err != nil {
		os.Remove(headerPath)
		os.Remove(sourcePath)
		return err
	}
	if err := generateSource(g, className, headerPath, sourcePath, log); err != nil {
		os.Remove(headerPath)
		os.Remove(sourcePath)
		return err
	}
	return nil
}

func generateHeader(g *grammar.Grammar, className, path string, log *applog.Logger) error {
	log.Infof("writing header file to %s", path)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not open %s for writing", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	guard := "__" + className + "_HEADER__"
	fmt.Fprintf(w, "#ifndef %s\n#define %s\n\n", guard, guard)
	fmt.Fprint(w, "#include <fstream>\n#include <stdexcept>\n#include <string>\n#include <vector>\n\n")
	fmt.Fprint(w, "namespace GeneratedParser {\n\n")

	fmt.Fprintf(w, "%s\n\n", headerLexerTokenClass)
	fmt.Fprintf(w, "%s\n\n", headerVirtualLexerClass)
	fmt.Fprintf(w, "%s\n\n", headerInvalidTokenExceptionClass)
	fmt.Fprintf(w, "%s\n\n", headerInternalErrorExceptionClass)
	fmt.Fprintf(w, "%s\n\n", headerParseTreeNodeClass)

	fmt.Fprintf(w, "class %s {\n\tpublic:\n", className)
	fmt.Fprintf(w, "\t\t%s(VirtualLexer& lexer);\n", className)
	fmt.Fprintf(w, "\t\t~%s();\n\n", className)
	fmt.Fprint(w, "\t\tvoid start_parsing();\n\t\tvoid parse_tree_gnu_plot();\n\n")
	fmt.Fprint(w, "\tprivate:\n\t\tVirtualLexer& lexer;\n\t\tParseTreeNode* parse_tree_root;\n\n")
	fmt.Fprint(w, "\t\tvoid parsing_error(LexerToken& found_token, std::string expected_value);\n")

	for _, nt := range g.Nonterminals() {
		fmt.Fprintf(w, "\t\tvoid parse_%s(ParseTreeNode* parse_tree_parent);\n", nt)
	}
	fmt.Fprintln(w)

	fmt.Fprint(w, "};\n} // namespace GeneratedParser\n\n#endif\n")
	return w.Flush()
}

func generateSource(g *grammar.Grammar, className, headerPath, sourcePath string, log *applog.Logger) error {
	log.Infof("writing source file to %s", sourcePath)

	f, err := os.Create(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "could not open %s for writing", sourcePath)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprint(w, "#include <fstream>\n#include <queue>\n#include <stdexcept>\n#include <string>\n#include <vector>\n")
	fmt.Fprintf(w, "#include \"%s\"\n\n", headerPath)
	fmt.Fprint(w, "using namespace GeneratedParser;\n\n")

	fmt.Fprintf(w, "%s\n\n", sourceLexerTokenClass)
	fmt.Fprintf(w, "%s\n\n", sourceInvalidTokenExceptionClass)
	fmt.Fprintf(w, "%s\n\n", sourceInternalErrorExceptionClass)
	fmt.Fprintf(w, "%s\n\n", sourceParseTreeNodeClass)

	fmt.Fprintf(w, "%s::%s(VirtualLexer& lexer) : lexer(lexer), parse_tree_root(nullptr) {}\n", className, className)
	fmt.Fprintf(w, "%s::~%s() {}\n\n", className, className)

	fmt.Fprintf(w, "void %s::start_parsing() {\n", className)
	fmt.Fprint(w, "\tparse_tree_root = new ParseTreeNode(\"\");\n")
	fmt.Fprintf(w, "\tparse_%s(parse_tree_root);\n}\n\n", g.StartSymbol())

	fmt.Fprintf(w, "void %s::parsing_error%s\n\n", className, sourceParserErrorFunctionBody)

	for _, nt := range g.Nonterminals() {
		tree := g.Production(nt)
		fmt.Fprintf(w, "// %s ::= %s\n", nt, tree.String())
		fmt.Fprintf(w, "void %s::parse_%s(ParseTreeNode* parse_tree_parent) {\n", className, nt)
		fmt.Fprint(w, "\tLexerToken& next_token = lexer.peek_next_token();\n\n")
		fmt.Fprintf(w, "\tParseTreeNode* new_node = new ParseTreeNode(\"%s\");\n", nt)
		fmt.Fprint(w, "\tif (parse_tree_parent == nullptr) {\n\t\tdelete new_node;\n")
		fmt.Fprint(w, "\t\tthrow InternalErrorException(\"parse tree node pointer is nullptr\");\n")
		fmt.Fprint(w, "\t} else {\n\t\tparse_tree_parent->add_child(new_node);\n\t}\n\n")

		if err := generateProductionCode(g, w, tree, 1); err != nil {
			return errors.Wrapf(err, "generating code for production %q", nt)
		}
		fmt.Fprint(w, "\n}\n\n")
	}

	fmt.Fprintf(w, "void %s::parse_tree_gnu_plot() {\n", className)
	fmt.Fprint(w, "\tstd::ofstream file = std::ofstream(\"parse-tree.out\");\n")
	fmt.Fprint(w, "\tif (!file) {\n\t\treturn;\n\t}\n\n")
	fmt.Fprint(w, "\tint node_id_counter = 1;\n")
	fmt.Fprint(w, "\tstd::queue<std::pair<int, ParseTreeNode*>> node_queue;\n")
	fmt.Fprint(w, "\tnode_queue.push(std::pair<int, ParseTreeNode*>(-1, parse_tree_root));\n\n")
	fmt.Fprint(w, "\twhile (!node_queue.empty()) {\n")
	fmt.Fprint(w, "\t\tstd::pair<int, ParseTreeNode*> current_node = node_queue.front();\n\n")
	fmt.Fprint(w, "\t\tif (current_node.first == -1) {\n")
	fmt.Fprint(w, "\t\t\tfile << node_id_counter << \" NaN \" << std::endl;\n")
	fmt.Fprint(w, "\t\t} else {\n")
	fmt.Fprint(w, "\t\t\tfile << node_id_counter << \" \" << current_node.first << \" \" << current_node.second->get_token() << std::endl;\n")
	fmt.Fprint(w, "\t\t}\n\n")
	fmt.Fprint(w, "\t\tfor (ParseTreeNode* child : current_node.second->get_children()) {\n")
	fmt.Fprint(w, "\t\t\tnode_queue.push(std::pair<int, ParseTreeNode*>(node_id_counter, child));\n")
	fmt.Fprint(w, "\t\t}\n\n")
	fmt.Fprint(w, "\t\tnode_id_counter++;\n\t\tnode_queue.pop();\n\t}\n}\n")

	return w.Flush()
}

// generateProductionCode walks node and writes C++ statements
// implementing its predictive parse, one case per ebnf.Kind,
// indentLevel counted in tabs.
func generateProductionCode(g *grammar.Grammar, w *bufio.Writer, node *ebnf.Node, indentLevel int) error {
	if node == nil {
		return errors.New("nil EBNF node while generating parser code")
	}

	switch node.Kind {
	case ebnf.Sequence:
		for _, child := range node.Children {
			if err := generateProductionCode(g, w, child, indentLevel); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
		return nil

	case ebnf.Terminal:
		return generateTerminal(w, node, indentLevel)

	case ebnf.NonTerminal:
		indent(w, indentLevel)
		fmt.Fprintf(w, "parse_%s(new_node);", node.Value)
		return nil

	case ebnf.Or:
		return generateOr(g, w, node, indentLevel)

	case ebnf.Repeat:
		return generateRepeat(g, w, node, indentLevel)

	case ebnf.Optional:
		return generateOptional(g, w, node, indentLevel)

	case ebnf.Group:
		for _, child := range node.Children {
			if err := generateProductionCode(g, w, child, indentLevel); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
		return nil

	default:
		return errors.Errorf("unknown EBNF node kind %v", node.Kind)
	}
}

// generateTerminal special-cases the three always-present lexical
// terminals (each checked by token type, not by lexeme) and epsilon
// (which produces nothing and contributes a placeholder parse-tree
// leaf), falling back to a lexeme comparison for ordinary keyword/
// punctuation terminals.
func generateTerminal(w *bufio.Writer, node *ebnf.Node, indentLevel int) error {
	if node.Value == string(grammar.Epsilon) {
		fmt.Fprint(w, "// produces epsilon, so do nothing\n")
		fmt.Fprint(w, "new_node->add_child(new ParseTreeNode(\"epsilon\"));")
		return nil
	}

	indent(w, indentLevel)
	fmt.Fprint(w, "next_token = lexer.get_next_token();\n")
	indent(w, indentLevel)

	switch node.Value {
	case string(grammar.NumericConstant):
		writeTokenTypeCheck(w, indentLevel, "NUMERIC_CONSTANT", node.Value)
	case string(grammar.StringLiteral):
		writeTokenTypeCheck(w, indentLevel, "STRING_LITERAL", node.Value)
	case string(grammar.Identifier):
		writeTokenTypeCheck(w, indentLevel, "IDENTIFIER", node.Value)
	default:
		fmt.Fprintf(w, "if (next_token.get_lexeme() == \"%s\") {\n", node.Value)
		indent(w, indentLevel+1)
		fmt.Fprintf(w, "new_node->add_child(new ParseTreeNode(\"%s\"));\n", node.Value)
		indent(w, indentLevel)
		fmt.Fprint(w, "} else {\n")
		indent(w, indentLevel+1)
		fmt.Fprintf(w, "parsing_error(next_token, \"%s\");\n", node.Value)
		indent(w, indentLevel)
		fmt.Fprint(w, "}")
	}
	return nil
}

func writeTokenTypeCheck(w *bufio.Writer, indentLevel int, tokenType, value string) {
	fmt.Fprintf(w, "if (next_token.get_token_type() == \"%s\") {\n", tokenType)
	indent(w, indentLevel+1)
	fmt.Fprintf(w, "ParseTreeNode* tmp_node = new ParseTreeNode(\"%s\");\n", tokenType)
	indent(w, indentLevel+1)
	fmt.Fprint(w, "tmp_node->add_child(new ParseTreeNode(next_token.get_lexeme()));\n")
	indent(w, indentLevel+1)
	fmt.Fprint(w, "new_node->add_child(tmp_node);\n")
	indent(w, indentLevel)
	fmt.Fprint(w, "} else {\n")
	indent(w, indentLevel+1)
	fmt.Fprintf(w, "parsing_error(next_token, \"%s\");\n", value)
	indent(w, indentLevel)
	fmt.Fprint(w, "}")
}

// predictCondition renders the C++ disjunction of lexer checks used for
// OR/REPEAT/OPTIONAL lookahead conditions.
func predictCondition(w *bufio.Writer, symbols []grammar.Symbol) {
	for i, sym := range symbols {
		switch sym {
		case grammar.NumericConstant:
			fmt.Fprint(w, `next_token.get_token_type() == "NUMERIC_CONSTANT"`)
		case grammar.StringLiteral:
			fmt.Fprint(w, `next_token.get_token_type() == "STRING_LITERAL"`)
		case grammar.Identifier:
			fmt.Fprint(w, `next_token.get_token_type() == "IDENTIFIER"`)
		default:
			fmt.Fprintf(w, `next_token.get_lexeme() == "%s"`, sym)
		}
		if i != len(symbols)-1 {
			fmt.Fprint(w, " || ")
		}
	}
}

// generateOr ports the OR case: an if/else-if chain predicting each
// alternative by its First set (epsilon stripped, since it never
// appears in the input stream), falling back to a parse error unless
// the whole OR is itself nullable, in which case the fallback produces
// an epsilon leaf instead.
func generateOr(g *grammar.Grammar, w *bufio.Writer, node *ebnf.Node, indentLevel int) error {
	indent(w, indentLevel)
	fmt.Fprint(w, "next_token = lexer.peek_next_token();\n")

	wroteAny := false
	for _, alt := range node.Children {
		first := firstOfNode(g, alt)
		symbols := sortedWithoutEpsilon(first)
		if len(symbols) == 0 {
			continue
		}

		if !wroteAny {
			indent(w, indentLevel)
			fmt.Fprint(w, "if (")
			wroteAny = true
		} else {
			fmt.Fprint(w, " else if (")
		}
		predictCondition(w, symbols)
		fmt.Fprint(w, ") {\n")
		if err := generateProductionCode(g, w, alt, indentLevel+1); err != nil {
			return err
		}
		indent(w, indentLevel)
		fmt.Fprint(w, "}")
	}

	orFirst := firstOfNode(g, node)
	if _, ok := orFirst[grammar.Epsilon]; !ok {
		fmt.Fprint(w, " else {\n")
		indent(w, indentLevel+1)
		fmt.Fprintf(w, "parsing_error(next_token, \"%s\");\n", node.String())
		indent(w, indentLevel)
		fmt.Fprint(w, "}\n")
	} else {
		fmt.Fprint(w, " else {\n")
		indent(w, indentLevel+1)
		fmt.Fprint(w, "new_node->add_child(new ParseTreeNode(\"epsilon\"));\n")
		indent(w, indentLevel)
		fmt.Fprint(w, "}\n")
	}
	return nil
}

// generateRepeat ports the REPEAT case: a while loop guarded by the
// child's First set (epsilon stripped), re-peeking after each body
// execution.
func generateRepeat(g *grammar.Grammar, w *bufio.Writer, node *ebnf.Node, indentLevel int) error {
	child := node.Child()
	symbols := sortedWithoutEpsilon(firstOfNode(g, child))
	if len(symbols) == 0 {
		return nil
	}

	indent(w, indentLevel)
	fmt.Fprint(w, "next_token = lexer.peek_next_token();\n")
	indent(w, indentLevel)
	fmt.Fprint(w, "while (")
	predictCondition(w, symbols)
	fmt.Fprint(w, ") {\n")
	if err := generateProductionCode(g, w, child, indentLevel+1); err != nil {
		return err
	}
	indent(w, indentLevel+1)
	fmt.Fprint(w, "next_token = lexer.peek_next_token();\n")
	indent(w, indentLevel)
	fmt.Fprint(w, "}\n")
	return nil
}

// generateOptional ports the OPTIONAL case: a single if guarded the
// same way as REPEAT's while, with no trailing re-peek.
func generateOptional(g *grammar.Grammar, w *bufio.Writer, node *ebnf.Node, indentLevel int) error {
	child := node.Child()
	symbols := sortedWithoutEpsilon(firstOfNode(g, child))
	if len(symbols) == 0 {
		return nil
	}

	indent(w, indentLevel)
	fmt.Fprint(w, "next_token = lexer.peek_next_token();\n")
	indent(w, indentLevel)
	fmt.Fprint(w, "if (")
	predictCondition(w, symbols)
	fmt.Fprint(w, ") {\n")
	if err := generateProductionCode(g, w, child, indentLevel+1); err != nil {
		return err
	}
	indent(w, indentLevel)
	fmt.Fprint(w, "}\n")
	return nil
}

func firstOfNode(g *grammar.Grammar, node *ebnf.Node) map[grammar.Symbol]struct{} {
	return g.FirstOfNode(node)
}

// sortedWithoutEpsilon strips epsilon (it never appears in the input
// stream, so it can never gate a lookahead branch) and returns the
// remaining symbols in a fixed order, so generated code is
// deterministic across runs.
func sortedWithoutEpsilon(set map[grammar.Symbol]struct{}) []grammar.Symbol {
	out := make([]grammar.Symbol, 0, len(set))
	for sym := range set {
		if sym != grammar.Epsilon {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func indent(w *bufio.Writer, level int) {
	for i := 0; i < level; i++ {
		w.WriteByte('\t')
	}
}
