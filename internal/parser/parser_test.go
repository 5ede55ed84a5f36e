// Package parser tests - validator behaviour on whole programs
package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tam-lang/tam/internal/lexer"
)

func parse(t *testing.T, input string) (*Parser, error) {
	t.Helper()
	p, err := New(lexer.New(strings.NewReader(input)), WithFilename("test.tk"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, p.Parse()
}

// TestParserAccepts tests programs that must validate
func TestParserAccepts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		declared []string
	}{
		{
			name:     "Declaration then assignment",
			input:    "tam x ; x = 5 ;",
			declared: []string{"x"},
		},
		{
			name:     "Bare expression as condition",
			input:    "tam x = 1 ; olurMu ( x ) basla x = 1 ; bitir",
			declared: []string{"x"},
		},
		{
			name:     "For loop header",
			input:    "tam x ; dönmeDolap ( x = 0 ; x < 10 ; x = x + 1 ) basla x = x ; bitir",
			declared: []string{"x"},
		},
		{
			name:     "For loop with empty body",
			input:    "tam x ; dönmeDolap ( x = 0 ; x ; x = 1 ) basla bitir",
			declared: []string{"x"},
		},
		{
			name:     "Empty file",
			input:    "",
			declared: []string{},
		},
		{
			name:     "Only comments and blanks",
			input:    "// nothing here\n\n   \n",
			declared: []string{},
		},
		{
			name: "If with else",
			input: `tam a = 3;
tam b;
olurMu (a * 2 >= 4) basla
	b = a;
bitir budaMıDegil basla
	b = 0;
bitir`,
			declared: []string{"a", "b"},
		},
		{
			name: "Nested loops",
			input: `tam i;
tam toplam = 0;
çarkıFelek (i != 0) basla
	dönmeDolap (i = 0; i <= 10; i = i + 1) basla
		toplam = toplam + i * (i - 1) / 2;
	bitir
bitir`,
			declared: []string{"i", "toplam"},
		},
		{
			name:     "Re-declaration is idempotent",
			input:    "tam x; tam y; tam x = 2;",
			declared: []string{"x", "y"},
		},
		{
			name:     "Declaration inside block is global",
			input:    "tam c; olurMu (c == 0) basla tam d; bitir d = 1;",
			declared: []string{"c", "d"},
		},
		{
			name:     "All comparison operators",
			input:    "tam x; çarkıFelek (x == 1) basla bitir çarkıFelek (x != 1) basla bitir çarkıFelek (x < 1) basla bitir çarkıFelek (x > 1) basla bitir çarkıFelek (x <= 1) basla bitir çarkıFelek (x >= 1) basla bitir",
			declared: []string{"x"},
		},
		{
			name:     "Empty blocks",
			input:    "olurMu (1) basla bitir budaMıDegil basla bitir",
			declared: []string{},
		},
		{
			name:     "Parenthesised expression",
			input:    "tam x = ((1 + 2) * (3 - 4)) / 5;",
			declared: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parse(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := p.Declared(); !reflect.DeepEqual(got, tt.declared) {
				t.Errorf("declared = %v, want %v", got, tt.declared)
			}
		})
	}
}

// TestUndeclaredVariables tests use-before-declaration detection
func TestUndeclaredVariables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ident string
		line  int
	}{
		{"Assignment without declaration", "x = 5 ;", "x", 1},
		{"Operand without declaration", "tam x = y + 1;", "y", 1},
		{"Self reference in initializer", "tam x = x;", "", 0},
		{"Declared later", "tam a;\na = b;\ntam b;", "b", 2},
		{"Condition operand", "tam a;\n\nolurMu (a < z) basla bitir", "z", 3},
		{"For increment target", "tam i;\ndönmeDolap (i = 0; i < 3; j = i) basla bitir", "j", 2},
		{"For init target", "dönmeDolap (k = 0; 1; k = 1) basla bitir", "k", 1},
		{"Inside nested parentheses", "tam a = (1 + (2 * q));", "q", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.input)
			if tt.ident == "" {
				// A name is registered before its initializer is parsed.
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var undeclared *UndeclaredVariableError
			if !errors.As(err, &undeclared) {
				t.Fatalf("expected UndeclaredVariableError, got %v", err)
			}
			if undeclared.Name != tt.ident {
				t.Errorf("name = %q, want %q", undeclared.Name, tt.ident)
			}
			if undeclared.Line != tt.line {
				t.Errorf("line = %d, want %d", undeclared.Line, tt.line)
			}
			if undeclared.File != "test.tk" {
				t.Errorf("file = %q", undeclared.File)
			}
		})
	}
}

// TestSyntaxErrors tests structural failures
func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    string // "" means end of input
		line     int
	}{
		{"Double terminator", "tam x ;;", "statement", "SEMICOLON(;)", 1},
		{"Missing terminator", "tam x = 1\ntam y;", "SEMICOLON", "INT(tam)", 2},
		{"Missing terminator at end", "tam x = 1", "SEMICOLON", "", 0},
		{"Unmatched paren", "tam x = (1 + 2;", "RPAREN", "SEMICOLON(;)", 1},
		{"Missing block end", "tam x;\nçarkıFelek (x) basla\nx = 1;", "END", "", 0},
		{"Missing block begin", "tam x; olurMu (x) x = 1; bitir", "BEGIN", "ID(x)", 1},
		{"Missing condition paren", "tam x; olurMu x basla bitir", "LPAREN", "ID(x)", 1},
		{"Declaration needs identifier", "tam 5;", "ID", "NUMBER(5)", 1},
		{"Number cannot start statement", "5;", "statement", "NUMBER(5)", 1},
		{"Stray block end", "bitir", "statement", "END(bitir)", 1},
		{"Else without if", "budaMıDegil basla bitir", "statement", "ELSE(budaMıDegil)", 1},
		{"Bad factor", "tam x = * 3;", "factor", "MUL(*)", 1},
		{"Unknown character in expression", "tam x = 1 ! 2;", "SEMICOLON", "UNKNOWN(!)", 1},
		{"Unknown character as statement", "@", "statement", "UNKNOWN(@)", 1},
		{"Comparison in assignment", "tam x; x = 1 < 2;", "SEMICOLON", "LT(<)", 1},
		{"Double comparison", "tam x; çarkıFelek (x < 1 < 2) basla bitir", "RPAREN", "LT(<)", 1},
		{"Else if not supported", "tam x; olurMu (x) basla bitir budaMıDegil olurMu (x) basla bitir", "BEGIN", "IF(olurMu)", 1},
		{"For increment with terminator", "tam i; dönmeDolap (i = 0; i < 2; i = i + 1;) basla bitir", "RPAREN", "SEMICOLON(;)", 1},
		{"For missing condition terminator", "tam i; dönmeDolap (i = 0; i < 2 i = i + 1) basla bitir", "SEMICOLON", "ID(i)", 1},
		{"For init needs its terminator", "tam x; dönmeDolap ( x = 0 x < 10 ; x = x + 1 ) basla bitir", "SEMICOLON", "ID(x)", 1},
		{"Assignment missing operator", "tam x;\nx 5;", "ASSIGN", "NUMBER(5)", 2},
		{"Empty factor at end", "tam x =", "factor", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.input)

			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
			if syntaxErr.Expected != tt.expected {
				t.Errorf("expected = %q, want %q", syntaxErr.Expected, tt.expected)
			}
			if tt.found == "" {
				if syntaxErr.Found != nil {
					t.Errorf("found = %s, want end of input", syntaxErr.Found.Describe())
				}
				if !errors.Is(err, ErrEndOfInput) {
					t.Error("error should match ErrEndOfInput")
				}
			} else {
				if syntaxErr.Found == nil {
					t.Fatalf("found end of input, want %s", tt.found)
				}
				if got := syntaxErr.Found.Describe(); got != tt.found {
					t.Errorf("found = %s, want %s", got, tt.found)
				}
				if errors.Is(err, ErrEndOfInput) {
					t.Error("error should not match ErrEndOfInput")
				}
			}
			if syntaxErr.Line() != tt.line {
				t.Errorf("line = %d, want %d", syntaxErr.Line(), tt.line)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"tam x ;;", "test.tk: syntax error at line 1: expected statement, found SEMICOLON(;)"},
		{"tam x", "test.tk: syntax error at end of input: expected SEMICOLON, found end of input"},
		{"y = 1;", "test.tk: undeclared variable at line 1: y"},
	}
	for _, tt := range tests {
		_, err := parse(t, tt.input)
		if err == nil {
			t.Fatalf("%q: expected error", tt.input)
		}
		if err.Error() != tt.want {
			t.Errorf("%q:\n got  %s\n want %s", tt.input, err, tt.want)
		}
	}
}

// The first error wins: declarations after it are never registered.
func TestFailFast(t *testing.T) {
	p, err := parse(t, "tam a;\nb = 1;\ntam c;")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := p.Declared(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("declared = %v, want [a]", got)
	}
}

func TestTracer(t *testing.T) {
	var events []string
	p, err := New(lexer.New(strings.NewReader("tam x = 1;")), WithTracer(func(event string, tok lexer.Token) {
		events = append(events, event+" "+tok.Describe())
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"statement INT(tam)",
		"consume INT(tam)",
		"consume ID(x)",
		"consume ASSIGN(=)",
		"consume NUMBER(1)",
		"consume SEMICOLON(;)",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
	if p.Consumed() != 5 {
		t.Errorf("Consumed() = %d, want 5", p.Consumed())
	}
}

func TestSharedRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Declare("preset")
	p, err := New(lexer.New(strings.NewReader("preset = 1; tam y;")), WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if p.Registry() != reg {
		t.Error("parser should use the injected registry")
	}
	if !reg.IsDeclared("y") {
		t.Error("declaration should land in the injected registry")
	}
}

type errSource struct{ err error }

func (s errSource) NextToken() (lexer.Token, error) { return lexer.Token{}, s.err }

func TestSourceErrorOnFirstToken(t *testing.T) {
	want := errors.New("boom")
	if _, err := New(errSource{want}); !errors.Is(err, want) {
		t.Fatalf("expected source error, got %v", err)
	}
}

type sliceSource struct {
	tokens []lexer.Token
	fail   error
}

func (s *sliceSource) NextToken() (lexer.Token, error) {
	if len(s.tokens) == 0 {
		if s.fail != nil {
			return lexer.Token{}, s.fail
		}
		return lexer.Token{Type: lexer.TokenEOF}, nil
	}
	tok := s.tokens[0]
	s.tokens = s.tokens[1:]
	return tok, nil
}

func TestSourceErrorMidStream(t *testing.T) {
	want := errors.New("read failed")
	src := &sliceSource{
		tokens: []lexer.Token{{Type: lexer.TokenInt, Literal: "tam", Line: 1}},
		fail:   want,
	}
	p, err := New(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); !errors.Is(err, want) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	res, err := Check(strings.NewReader("tam a;\n// c\ntam b = a;\n"), "ok.tk")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Declared, []string{"a", "b"}) {
		t.Errorf("declared = %v", res.Declared)
	}
	if res.Tokens != 8 {
		t.Errorf("tokens = %d, want 8", res.Tokens)
	}
	if res.Lines != 3 {
		t.Errorf("lines = %d, want 3", res.Lines)
	}

	_, err = Check(strings.NewReader("a = 1;"), "bad.tk")
	var undeclared *UndeclaredVariableError
	if !errors.As(err, &undeclared) || undeclared.File != "bad.tk" {
		t.Fatalf("expected undeclared error naming bad.tk, got %v", err)
	}
}
