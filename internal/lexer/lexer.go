// Package lexer implements the Tam lexical analyzer.
//
// The lexer is line oriented: source is read one physical line at a time
// and no token ever spans a line break. Blank lines and lines whose first
// non-blank content is "//" are skipped whole.
package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// extendedLetters are accepted as letters in identifiers in addition to
// everything unicode.IsLetter accepts.
const extendedLetters = "ğüşıöçĞÜŞİÖÇ"

// Lexer represents the lexical analyzer
type Lexer struct {
	reader   *bufio.Reader
	filename string // source filename for error reporting

	current []rune // current line, surrounding whitespace trimmed
	indent  int    // runes trimmed from the left of the current line
	pos     int    // cursor within current
	line    int    // physical lines read so far
	done    bool   // reader exhausted
}

// New creates a new lexer reading from r
func New(r io.Reader) *Lexer {
	return NewWithFilename(r, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(r io.Reader, filename string) *Lexer {
	return &Lexer{
		reader:   bufio.NewReader(r),
		filename: filename,
	}
}

// Filename returns the name the lexer was created with.
func (l *Lexer) Filename() string { return l.filename }

// Line returns the number of physical lines consumed so far.
func (l *Lexer) Line() int { return l.line }

// NextToken scans the input and returns the next token. Once the source is
// exhausted it returns a TokenEOF token on every call.
func (l *Lexer) NextToken() (Token, error) {
	for {
		if l.done {
			return Token{Type: TokenEOF}, nil
		}

		if l.pos >= len(l.current) {
			if err := l.readLine(); err != nil {
				return Token{}, err
			}
			continue
		}

		l.skipWhitespace()
		if l.pos >= len(l.current) {
			continue
		}

		ch := l.current[l.pos]
		switch {
		case unicode.IsDigit(ch):
			return l.readNumber(), nil
		case isLetter(ch):
			return l.readIdentifier(), nil
		}

		return l.readOperator(ch), nil
	}
}

// readLine loads the next line that carries tokens, skipping blank and
// comment lines. It marks the lexer done at end of input.
func (l *Lexer) readLine() error {
	for {
		text, err := l.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			if l.filename != "" {
				return fmt.Errorf("read %s line %d: %w", l.filename, l.line+1, err)
			}
			return fmt.Errorf("read line %d: %w", l.line+1, err)
		}
		if err == io.EOF && text == "" {
			l.done = true
			l.current = nil
			l.pos = 0
			return nil
		}

		l.line++
		text = strings.TrimRight(text, "\r\n")
		trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
		l.indent = utf8.RuneCountInString(text) - utf8.RuneCountInString(trimmed)
		trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)

		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			if err == io.EOF {
				l.done = true
				l.current = nil
				l.pos = 0
				return nil
			}
			continue
		}

		l.current = []rune(trimmed)
		l.pos = 0
		return nil
	}
}

// skipWhitespace skips whitespace inside the current line
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.current) && unicode.IsSpace(l.current[l.pos]) {
		l.pos++
	}
}

// peekChar returns the character after the cursor, or 0 at end of line
func (l *Lexer) peekChar() rune {
	if l.pos+1 >= len(l.current) {
		return 0
	}
	return l.current[l.pos+1]
}

func (l *Lexer) readNumber() Token {
	start := l.pos
	for l.pos < len(l.current) && unicode.IsDigit(l.current[l.pos]) {
		l.pos++
	}
	return l.newToken(TokenNumber, start)
}

func (l *Lexer) readIdentifier() Token {
	start := l.pos
	for l.pos < len(l.current) && (isLetter(l.current[l.pos]) || unicode.IsDigit(l.current[l.pos])) {
		l.pos++
	}
	tok := l.newToken(TokenIdentifier, start)
	tok.Type = LookupIdent(tok.Literal)
	return tok
}

// readOperator handles operators, punctuation and anything unrecognized.
// A lone '!' is returned as TokenUnknown and consumed like any other
// unknown character.
func (l *Lexer) readOperator(ch rune) Token {
	start := l.pos
	next := l.peekChar()

	tokenType := TokenUnknown
	width := 1

	switch ch {
	case '=':
		tokenType = TokenAssign
		if next == '=' {
			tokenType, width = TokenEq, 2
		}
	case '!':
		if next == '=' {
			tokenType, width = TokenNe, 2
		}
	case '<':
		tokenType = TokenLt
		if next == '=' {
			tokenType, width = TokenLe, 2
		}
	case '>':
		tokenType = TokenGt
		if next == '=' {
			tokenType, width = TokenGe, 2
		}
	case '+':
		tokenType = TokenPlus
	case '-':
		tokenType = TokenMinus
	case '*':
		tokenType = TokenMul
	case '/':
		tokenType = TokenDiv
	case '(':
		tokenType = TokenLParen
	case ')':
		tokenType = TokenRParen
	case ';':
		tokenType = TokenSemicolon
	}

	l.pos += width
	return l.newToken(tokenType, start)
}

// newToken builds a token from current[start:pos]
func (l *Lexer) newToken(tokenType TokenType, start int) Token {
	return Token{
		Type:    tokenType,
		Literal: string(l.current[start:l.pos]),
		Line:    l.line,
		Column:  l.indent + start + 1,
	}
}

// isLetter checks if character may start or continue an identifier
func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || strings.ContainsRune(extendedLetters, ch)
}

// Tokenize drains r and returns every token except the EOF sentinel.
func Tokenize(r io.Reader) ([]Token, error) {
	l := New(r)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		if tok.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
