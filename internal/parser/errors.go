package parser

import (
	"errors"
	"fmt"

	"github.com/tam-lang/tam/internal/lexer"
)

// ErrEndOfInput matches, via errors.Is, any SyntaxError raised because the
// source ran out.
var ErrEndOfInput = errors.New("end of input")

// SyntaxError reports a token that does not fit the grammar.
type SyntaxError struct {
	File string
	// Expected is a token kind name when raised by consume, or a
	// description of the construct being parsed otherwise.
	Expected string
	// Found is the offending token; nil means end of input.
	Found *lexer.Token
}

// Line returns the line of the offending token, or 0 at end of input.
func (e *SyntaxError) Line() int {
	if e.Found == nil {
		return 0
	}
	return e.Found.Line
}

func (e *SyntaxError) Error() string {
	where := "at end of input"
	found := "end of input"
	if e.Found != nil {
		where = fmt.Sprintf("at line %d", e.Found.Line)
		found = e.Found.Describe()
	}
	msg := fmt.Sprintf("syntax error %s: expected %s, found %s", where, e.Expected, found)
	if e.File != "" {
		return e.File + ": " + msg
	}
	return msg
}

// Is reports whether target is ErrEndOfInput and the error was raised at
// end of input.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrEndOfInput && e.Found == nil
}

// UndeclaredVariableError reports a use of a name no earlier declaration
// registered.
type UndeclaredVariableError struct {
	File   string
	Name   string
	Line   int
	Column int
}

func (e *UndeclaredVariableError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: undeclared variable at line %d: %s", e.File, e.Line, e.Name)
	}
	return fmt.Sprintf("undeclared variable at line %d: %s", e.Line, e.Name)
}
