package lexer

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType int

const (
	EOF TokenType = iota
	Newline

	// Brackets
	LCurly  // {
	RCurly  // }
	LSquare // [
	RSquare // ]
	LParen  // (
	RParen  // )

	// Operators
	Add       // +
	Subtract  // -
	Multiply  // *
	Divide    // /
	Caret     // ^
	Increment // ++
	Decrement // --
	Equal     // =
	FuncPoint // =>

	// Punctuation
	Comma     // ,
	Colon     // :
	Dot       // .
	Semicolon // ;
	Bang      // ! run, statement terminator carrying confidence
	Question  // ? run, debug terminator carrying verbosity

	// Comparison and logic
	LessThan     // <
	GreaterThan  // >
	LessEqual    // <=
	GreaterEqual // >=
	EqualEqual   // ==
	TripleEqual  // ===
	QuadEqual    // ====
	NotEqual     // ;=
	NotDouble    // ;==
	NotTriple    // ;===
	Pipe         // |
	Ampersand    // &

	// Literals and names
	Number
	String
	InterpolatedString
	Name
)

var tokenNames = [...]string{
	EOF:                "EOF",
	Newline:            "NEWLINE",
	LCurly:             "LCURLY",
	RCurly:             "RCURLY",
	LSquare:            "LSQUARE",
	RSquare:            "RSQUARE",
	LParen:             "LPAREN",
	RParen:             "RPAREN",
	Add:                "ADD",
	Subtract:           "SUBTRACT",
	Multiply:           "MULTIPLY",
	Divide:             "DIVIDE",
	Caret:              "CARET",
	Increment:          "INCREMENT",
	Decrement:          "DECREMENT",
	Equal:              "EQUAL",
	FuncPoint:          "FUNC_POINT",
	Comma:              "COMMA",
	Colon:              "COLON",
	Dot:                "DOT",
	Semicolon:          "SEMICOLON",
	Bang:               "BANG",
	Question:           "QUESTION",
	LessThan:           "LESS_THAN",
	GreaterThan:        "GREATER_THAN",
	LessEqual:          "LESS_EQUAL",
	GreaterEqual:       "GREATER_EQUAL",
	EqualEqual:         "EQUAL_EQUAL",
	TripleEqual:        "TRIPLE_EQUAL",
	QuadEqual:          "QUAD_EQUAL",
	NotEqual:           "NOT_EQUAL",
	NotDouble:          "NOT_DOUBLE",
	NotTriple:          "NOT_TRIPLE",
	Pipe:               "PIPE",
	Ampersand:          "AMPERSAND",
	Number:             "NUMBER",
	String:             "STRING",
	InterpolatedString: "INTERPOLATED_STRING",
	Name:               "NAME",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical unit. Space records how many spaces sat
// immediately before the token on its line; the parser uses it for
// precedence-by-spacing, so whitespace is captured rather than discarded.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
	Space int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q)", t.Type, t.Value)
}
