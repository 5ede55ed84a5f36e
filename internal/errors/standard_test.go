package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/tam-lang/tam/internal/lexer"
	"github.com/tam-lang/tam/internal/parser"
)

func TestClassify(t *testing.T) {
	tok := lexer.Token{Type: lexer.TokenSemicolon, Literal: ";", Line: 4}
	tests := []struct {
		name string
		err  error
		want ErrorCategory
		code string
		line int
	}{
		{"syntax", &parser.SyntaxError{Expected: "statement", Found: &tok}, CategorySyntax, CodeSyntax, 4},
		{"wrapped syntax", fmt.Errorf("ctx: %w", &parser.SyntaxError{Expected: "END"}), CategorySyntax, CodeSyntax, 0},
		{"undeclared", &parser.UndeclaredVariableError{Name: "x", Line: 7}, CategorySemantic, CodeUndeclared, 7},
		{"source", SourceUnavailable("a.tk", &fs.PathError{Op: "open", Path: "a.tk", Err: fs.ErrNotExist}), CategoryIO, CodeSourceUnavailable, 0},
		{"bare path error", &fs.PathError{Op: "open", Path: "a.tk", Err: fs.ErrPermission}, CategoryIO, "", 0},
		{"config", InvalidConfig("tam.toml", stderrors.New("bad")), CategoryConfig, CodeInvalidConfig, 0},
		{"other", stderrors.New("boom"), CategorySystem, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
			if got := Code(tt.err); got != tt.code {
				t.Errorf("Code() = %q, want %q", got, tt.code)
			}
			if got := Line(tt.err); got != tt.line {
				t.Errorf("Line() = %d, want %d", got, tt.line)
			}
		})
	}
}

func TestStandardErrorFormatting(t *testing.T) {
	err := IncompatibleVersion("0.1.0", ">= 1.0")
	if !strings.HasPrefix(err.Error(), "[CONFIG:INCOMPATIBLE_VERSION]") {
		t.Errorf("unexpected message: %s", err)
	}
	if !strings.Contains(err.Caller, "IncompatibleVersion") {
		t.Errorf("caller = %q", err.Caller)
	}

	cause := stderrors.New("no such file")
	wrapped := SourceUnavailable("x.tk", cause)
	if !stderrors.Is(wrapped, cause) {
		t.Error("SourceUnavailable should unwrap to its cause")
	}
	if !strings.HasSuffix(wrapped.Error(), ": no such file") {
		t.Errorf("unexpected message: %s", wrapped)
	}
}
