// Package errors provides standardized error messaging for the tam tools
package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"runtime"

	"github.com/tam-lang/tam/internal/parser"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategorySyntax   ErrorCategory = "SYNTAX"
	CategorySemantic ErrorCategory = "SEMANTIC"
	CategoryIO       ErrorCategory = "IO"
	CategoryConfig   ErrorCategory = "CONFIG"
	CategorySystem   ErrorCategory = "SYSTEM"
)

// Error codes attached to StandardError values
const (
	CodeSyntax              = "SYNTAX_ERROR"
	CodeUndeclared          = "UNDECLARED_VARIABLE"
	CodeSourceUnavailable   = "SOURCE_UNAVAILABLE"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeIncompatibleVersion = "INCOMPATIBLE_VERSION"
	CodeRequestTooLarge     = "REQUEST_TOO_LARGE"
	CodeListenFailed        = "LISTEN_FAILED"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
	Err      error
}

// Error implements the error interface
func (e *StandardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *StandardError) Unwrap() error { return e.Err }

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(1)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Wrap attaches cause to a new StandardError.
func Wrap(cause error, category ErrorCategory, code, message string) *StandardError {
	e := NewStandardError(category, code, message, nil)
	e.Err = cause
	return e
}

// Common error constructors
func InvalidConfig(path string, cause error) *StandardError {
	e := NewStandardError(CategoryConfig, CodeInvalidConfig,
		fmt.Sprintf("Invalid configuration in %s", path),
		map[string]interface{}{"path": path})
	e.Err = cause
	return e
}

func IncompatibleVersion(version, constraint string) *StandardError {
	return NewStandardError(CategoryConfig, CodeIncompatibleVersion,
		fmt.Sprintf("Tool version %s does not satisfy %q", version, constraint),
		map[string]interface{}{"version": version, "constraint": constraint})
}

func SourceUnavailable(path string, cause error) *StandardError {
	e := NewStandardError(CategoryIO, CodeSourceUnavailable,
		fmt.Sprintf("Cannot read source %s", path),
		map[string]interface{}{"path": path})
	e.Err = cause
	return e
}

func RequestTooLarge(limit int64) *StandardError {
	return NewStandardError(CategoryIO, CodeRequestTooLarge,
		fmt.Sprintf("Request body exceeds %d bytes", limit),
		map[string]interface{}{"limit": limit})
}

// Classify maps an error from any layer to its category.
func Classify(err error) ErrorCategory {
	var (
		std        *StandardError
		syntax     *parser.SyntaxError
		undeclared *parser.UndeclaredVariableError
		pathErr    *fs.PathError
	)
	switch {
	case stderrors.As(err, &syntax):
		return CategorySyntax
	case stderrors.As(err, &undeclared):
		return CategorySemantic
	case stderrors.As(err, &std):
		return std.Category
	case stderrors.As(err, &pathErr):
		return CategoryIO
	}
	return CategorySystem
}

// Code returns the code for err, deriving one for parser errors.
func Code(err error) string {
	var (
		std        *StandardError
		syntax     *parser.SyntaxError
		undeclared *parser.UndeclaredVariableError
	)
	switch {
	case stderrors.As(err, &syntax):
		return CodeSyntax
	case stderrors.As(err, &undeclared):
		return CodeUndeclared
	case stderrors.As(err, &std):
		return std.Code
	}
	return ""
}

// Line returns the source line an error points at, or 0 if none.
func Line(err error) int {
	var (
		syntax     *parser.SyntaxError
		undeclared *parser.UndeclaredVariableError
	)
	switch {
	case stderrors.As(err, &syntax):
		return syntax.Line()
	case stderrors.As(err, &undeclared):
		return undeclared.Line
	}
	return 0
}
