package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", int(tt))
}

// Token types of the Tam language
const (
	// End-of-input sentinel
	TokenEOF TokenType = iota

	// Literals
	TokenNumber
	TokenIdentifier

	// Keywords
	TokenIf
	TokenElse
	TokenFor
	TokenWhile
	TokenBegin
	TokenEnd
	TokenInt

	// Operators
	TokenAssign
	TokenEq
	TokenNe
	TokenLt
	TokenGt
	TokenLe
	TokenGe
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv

	// Punctuation
	TokenLParen
	TokenRParen
	TokenSemicolon

	// Any character no other rule recognizes
	TokenUnknown
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenNumber:     "NUMBER",
	TokenIdentifier: "ID",

	TokenIf:    "IF",
	TokenElse:  "ELSE",
	TokenFor:   "FOR",
	TokenWhile: "WHILE",
	TokenBegin: "BEGIN",
	TokenEnd:   "END",
	TokenInt:   "INT",

	TokenAssign: "ASSIGN",
	TokenEq:     "EQ",
	TokenNe:     "NEQ",
	TokenLt:     "LT",
	TokenGt:     "GT",
	TokenLe:     "LEQ",
	TokenGe:     "GEQ",
	TokenPlus:   "PLUS",
	TokenMinus:  "MINUS",
	TokenMul:    "MUL",
	TokenDiv:    "DIV",

	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenSemicolon: "SEMICOLON",

	TokenUnknown: "UNKNOWN",
}

// IsComparison reports whether tt is one of the six comparison operators.
func (tt TokenType) IsComparison() bool {
	switch tt {
	case TokenEq, TokenNe, TokenLt, TokenGt, TokenLe, TokenGe:
		return true
	}
	return false
}

// Token represents a lexical token. Line and Column are 1-based; Column
// counts runes from the start of the physical line.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Line, t.Column)
}

// Describe renders the token the way diagnostics quote it, e.g. ID(x).
func (t Token) Describe() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
}

// keywords maps surface keywords to their token types
var keywords = map[string]TokenType{
	"olurMu":      TokenIf,
	"budaMıDegil": TokenElse,
	"dönmeDolap":  TokenFor,
	"çarkıFelek":  TokenWhile,
	"basla":       TokenBegin,
	"bitir":       TokenEnd,
	"tam":         TokenInt,
}

// LookupIdent checks if identifier is keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// Keywords returns a copy of the keyword table.
func Keywords() map[string]TokenType {
	out := make(map[string]TokenType, len(keywords))
	for k, v := range keywords {
		out[k] = v
	}
	return out
}
