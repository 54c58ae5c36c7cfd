package emit

// Preamble class text emitted verbatim into every generated parser.
const headerLexerTokenClass = `class LexerToken {
    public:
        LexerToken(std::string token_type, std::string lexeme, int line_number, int char_position, std::string file_name);

        std::string get_token_type() const;
        std::string get_lexeme() const;
        int get_line_number() const;
        int get_char_position() const;
        std::string get_file_name() const;

    private:
        std::string token_type;
        std::string lexeme;
        int line_number;
        int char_position;
        std::string file_name;
};`

const headerVirtualLexerClass = `class VirtualLexer {
    public:
        virtual ~VirtualLexer() {}

        virtual LexerToken& get_next_token() = 0;
        virtual LexerToken& peek_next_token() = 0;
};`

const headerInvalidTokenExceptionClass = `class InvalidTokenException : public std::runtime_error {
    public:
        InvalidTokenException(std::string message) : std::runtime_error(message) {}
};`

const headerInternalErrorExceptionClass = `class InternalErrorException : public std::runtime_error {
    public:
        InternalErrorException(std::string message) : std::runtime_error(message) {}
};`

const headerParseTreeNodeClass = `class ParseTreeNode {
    public:
        ParseTreeNode(std::string token);
        ~ParseTreeNode();

        void add_child(ParseTreeNode* child);
        std::vector<ParseTreeNode*>& get_children();
        std::string get_token() const;

    private:
        std::string token;
        std::vector<ParseTreeNode*> children;
};`

const sourceLexerTokenClass = `LexerToken::LexerToken(std::string token_type, std::string lexeme, int line_number, int char_position, std::string file_name) : token_type(token_type), lexeme(lexeme), line_number(line_number), char_position(char_position), file_name(file_name) {}

std::string LexerToken::get_token_type() const { return token_type; }
std::string LexerToken::get_lexeme() const { return lexeme; }
int LexerToken::get_line_number() const { return line_number; }
int LexerToken::get_char_position() const { return char_position; }
std::string LexerToken::get_file_name() const { return file_name; }`

const sourceInvalidTokenExceptionClass = `// InvalidTokenException defined entirely in header`

const sourceInternalErrorExceptionClass = `// InternalErrorException defined entirely in header`

const sourceParseTreeNodeClass = `ParseTreeNode::ParseTreeNode(std::string token) : token(token) {}

ParseTreeNode::~ParseTreeNode() {
    for (ParseTreeNode* child : children) {
        delete child;
    }
}

void ParseTreeNode::add_child(ParseTreeNode* child) { children.push_back(child); }
std::vector<ParseTreeNode*>& ParseTreeNode::get_children() { return children; }
std::string ParseTreeNode::get_token() const { return token; }`

// sourceParserErrorFunctionBody is the body of <Class>::parsing_error,
// appended after the class-qualified signature line by the caller.
const sourceParserErrorFunctionBody = "(LexerToken& found_token, std::string expected_value) {\n" +
	"\tthrow InvalidTokenException(\"unexpected token '\" + found_token.get_lexeme() + \"', expected '\" + expected_value + \"'\");\n" +
	"}"
