// Package parser implements the Tam recursive descent validator.
//
// The parser does not build a tree. It walks the grammar with one token of
// lookahead, checks that every variable is declared before it is used, and
// stops at the first error.
package parser

import (
	"io"

	"github.com/tam-lang/tam/internal/lexer"
)

// TokenSource is the pull contract the parser consumes. *lexer.Lexer
// satisfies it.
type TokenSource interface {
	NextToken() (lexer.Token, error)
}

// TraceFunc receives parser events: "consume" for every token taken from
// the stream and "statement" when a statement starts.
type TraceFunc func(event string, tok lexer.Token)

// Option configures a Parser.
type Option func(*Parser)

// WithFilename sets the filename reported in errors.
func WithFilename(name string) Option {
	return func(p *Parser) { p.filename = name }
}

// WithRegistry makes the parser record declarations into r.
func WithRegistry(r *Registry) Option {
	return func(p *Parser) { p.registry = r }
}

// WithTracer installs a trace callback.
func WithTracer(fn TraceFunc) Option {
	return func(p *Parser) { p.trace = fn }
}

// Parser represents the recursive descent parser
type Parser struct {
	source   TokenSource
	current  lexer.Token // lookahead; TokenEOF once the source is exhausted
	registry *Registry
	filename string
	trace    TraceFunc
	consumed int
}

// New creates a parser over src and reads the first lookahead token.
func New(src TokenSource, opts ...Option) (*Parser, error) {
	p := &Parser{source: src}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = NewRegistry()
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse validates the whole token stream.
func (p *Parser) Parse() error {
	return p.parseProgram()
}

// Registry returns the declaration registry.
func (p *Parser) Registry() *Registry { return p.registry }

// Declared returns the distinct declared names in declaration order.
func (p *Parser) Declared() []string { return p.registry.Names() }

// Consumed returns the number of tokens consumed so far.
func (p *Parser) Consumed() int { return p.consumed }

// nextToken advances the parser to the next token
func (p *Parser) nextToken() error {
	tok, err := p.source.NextToken()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

// currentTokenIs checks if the current token is of the given type
func (p *Parser) currentTokenIs(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

// consume advances past the lookahead if it has the expected type
func (p *Parser) consume(tokenType lexer.TokenType) error {
	if !p.currentTokenIs(tokenType) {
		return p.syntaxError(tokenType.String())
	}
	if p.trace != nil {
		p.trace("consume", p.current)
	}
	p.consumed++
	return p.nextToken()
}

func (p *Parser) syntaxError(expected string) error {
	err := &SyntaxError{File: p.filename, Expected: expected}
	if !p.currentTokenIs(lexer.TokenEOF) {
		tok := p.current
		err.Found = &tok
	}
	return err
}

// requireDeclared fails unless the lookahead identifier is declared
func (p *Parser) requireDeclared() error {
	if p.registry.IsDeclared(p.current.Literal) {
		return nil
	}
	return &UndeclaredVariableError{
		File:   p.filename,
		Name:   p.current.Literal,
		Line:   p.current.Line,
		Column: p.current.Column,
	}
}

// ====== Grammar Rules ======

// parseProgram parses statements until end of input
func (p *Parser) parseProgram() error {
	for !p.currentTokenIs(lexer.TokenEOF) {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	return nil
}

// parseStatement dispatches on the lookahead
func (p *Parser) parseStatement() error {
	if p.trace != nil {
		p.trace("statement", p.current)
	}

	switch p.current.Type {
	case lexer.TokenInt:
		return p.parseVariableDeclaration()
	case lexer.TokenIdentifier:
		return p.parseAssignment(true)
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenFor:
		return p.parseForLoop()
	case lexer.TokenWhile:
		return p.parseWhileLoop()
	default:
		return p.syntaxError("statement")
	}
}

// parseVariableDeclaration parses `tam ID ("=" expr)? ";"`
func (p *Parser) parseVariableDeclaration() error {
	if err := p.consume(lexer.TokenInt); err != nil {
		return err
	}
	if !p.currentTokenIs(lexer.TokenIdentifier) {
		return p.syntaxError(lexer.TokenIdentifier.String())
	}
	p.registry.Declare(p.current.Literal)
	if err := p.consume(lexer.TokenIdentifier); err != nil {
		return err
	}

	if p.currentTokenIs(lexer.TokenAssign) {
		if err := p.consume(lexer.TokenAssign); err != nil {
			return err
		}
		if err := p.parseExpression(); err != nil {
			return err
		}
	}

	return p.consume(lexer.TokenSemicolon)
}

// parseAssignment parses `ID "=" expr`, followed by ";" when terminated
func (p *Parser) parseAssignment(terminated bool) error {
	if !p.currentTokenIs(lexer.TokenIdentifier) {
		return p.syntaxError(lexer.TokenIdentifier.String())
	}
	if err := p.requireDeclared(); err != nil {
		return err
	}
	if err := p.consume(lexer.TokenIdentifier); err != nil {
		return err
	}
	if err := p.consume(lexer.TokenAssign); err != nil {
		return err
	}
	if err := p.parseExpression(); err != nil {
		return err
	}
	if !terminated {
		return nil
	}
	return p.consume(lexer.TokenSemicolon)
}

// parseCondition parses `"(" logic ")"`
func (p *Parser) parseCondition() error {
	if err := p.consume(lexer.TokenLParen); err != nil {
		return err
	}
	if err := p.parseLogicalExpression(); err != nil {
		return err
	}
	return p.consume(lexer.TokenRParen)
}

// parseBlock parses `basla statement* bitir`
func (p *Parser) parseBlock() error {
	if err := p.consume(lexer.TokenBegin); err != nil {
		return err
	}
	for !p.currentTokenIs(lexer.TokenEnd) && !p.currentTokenIs(lexer.TokenEOF) {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	return p.consume(lexer.TokenEnd)
}

// parseIfStatement parses a conditional with an optional else block
func (p *Parser) parseIfStatement() error {
	if err := p.consume(lexer.TokenIf); err != nil {
		return err
	}
	if err := p.parseCondition(); err != nil {
		return err
	}
	if err := p.parseBlock(); err != nil {
		return err
	}

	if !p.currentTokenIs(lexer.TokenElse) {
		return nil
	}
	if err := p.consume(lexer.TokenElse); err != nil {
		return err
	}
	return p.parseBlock()
}

// parseForLoop parses `FOR "(" assign logic ";" assignNoTerm ")" block`
func (p *Parser) parseForLoop() error {
	if err := p.consume(lexer.TokenFor); err != nil {
		return err
	}
	if err := p.consume(lexer.TokenLParen); err != nil {
		return err
	}
	if err := p.parseAssignment(true); err != nil {
		return err
	}
	if err := p.parseLogicalExpression(); err != nil {
		return err
	}
	if err := p.consume(lexer.TokenSemicolon); err != nil {
		return err
	}
	if err := p.parseAssignment(false); err != nil {
		return err
	}
	if err := p.consume(lexer.TokenRParen); err != nil {
		return err
	}
	return p.parseBlock()
}

// parseWhileLoop parses `WHILE "(" logic ")" block`
func (p *Parser) parseWhileLoop() error {
	if err := p.consume(lexer.TokenWhile); err != nil {
		return err
	}
	if err := p.parseCondition(); err != nil {
		return err
	}
	return p.parseBlock()
}

// parseExpression parses `term (("+" | "-") term)*`
func (p *Parser) parseExpression() error {
	if err := p.parseTerm(); err != nil {
		return err
	}
	for p.currentTokenIs(lexer.TokenPlus) || p.currentTokenIs(lexer.TokenMinus) {
		if err := p.consume(p.current.Type); err != nil {
			return err
		}
		if err := p.parseTerm(); err != nil {
			return err
		}
	}
	return nil
}

// parseTerm parses `factor (("*" | "/") factor)*`
func (p *Parser) parseTerm() error {
	if err := p.parseFactor(); err != nil {
		return err
	}
	for p.currentTokenIs(lexer.TokenMul) || p.currentTokenIs(lexer.TokenDiv) {
		if err := p.consume(p.current.Type); err != nil {
			return err
		}
		if err := p.parseFactor(); err != nil {
			return err
		}
	}
	return nil
}

// parseFactor parses `NUMBER | ID | "(" expr ")"`
func (p *Parser) parseFactor() error {
	switch p.current.Type {
	case lexer.TokenNumber:
		return p.consume(lexer.TokenNumber)
	case lexer.TokenIdentifier:
		if err := p.requireDeclared(); err != nil {
			return err
		}
		return p.consume(lexer.TokenIdentifier)
	case lexer.TokenLParen:
		if err := p.consume(lexer.TokenLParen); err != nil {
			return err
		}
		if err := p.parseExpression(); err != nil {
			return err
		}
		return p.consume(lexer.TokenRParen)
	default:
		return p.syntaxError("factor")
	}
}

// parseLogicalExpression parses `expr (cmp expr)?`. A bare expression is
// accepted as a condition.
func (p *Parser) parseLogicalExpression() error {
	if err := p.parseExpression(); err != nil {
		return err
	}
	if !p.current.Type.IsComparison() {
		return nil
	}
	if err := p.consume(p.current.Type); err != nil {
		return err
	}
	return p.parseExpression()
}

// Result summarizes a successful check.
type Result struct {
	Declared []string
	Tokens   int
	Lines    int
}

// Check lexes and validates r in one call.
func Check(r io.Reader, filename string, opts ...Option) (*Result, error) {
	l := lexer.NewWithFilename(r, filename)
	p, err := New(l, append([]Option{WithFilename(filename)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return &Result{Declared: p.Declared(), Tokens: p.Consumed(), Lines: l.Line()}, nil
}
