package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tam-lang/tam/internal/lexer"
	"github.com/tam-lang/tam/internal/vfs"
)

func (a *app) newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return vfs.WithSource(vfs.NewOS(), path, func(r io.Reader) error {
				return dumpTokens(a.stdout, lexer.NewWithFilename(r, path))
			})
		},
	}
}

// dumpTokens prints every token up to and including EOF.
func dumpTokens(w io.Writer, l *lexer.Lexer) error {
	fmt.Fprintln(w, strings.Repeat("=", 50))
	for {
		tok, err := l.NextToken()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Token: %-10s | Value: %-20s | Position: %d:%d\n",
			tok.Type, tok.Literal, tok.Line, tok.Column)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))
	return nil
}
