// Package cmd implements the tam command tree.
package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tam-lang/tam/internal/cli"
	"github.com/tam-lang/tam/internal/config"
	"github.com/tam-lang/tam/internal/errors"
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// failures marks a run in which at least one source did not validate.
var failures = &exitError{code: cli.ExitFailures}

type app struct {
	cfgFile string
	verbose bool
	debug   bool
	trace   bool
	format  string
	color   string

	cfg    *config.Config
	logger *cli.Logger
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, getenv: os.Getenv}

	root := &cobra.Command{
		Use:   "tam",
		Short: "Validate tam programs",
		Long: `tam checks programs written in the tam teaching language.

A program passes when it is lexically and syntactically valid and every
variable is declared with 'tam' before it is used. Validation stops at the
first problem in each file; other files are still checked.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: tam.toml or tam.yaml in the working directory)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&a.debug, "debug", false, "debug output")
	flags.BoolVar(&a.trace, "trace", false, "trace every consumed token (implies --debug)")
	flags.StringVar(&a.format, "format", "", "output format: text or json")
	flags.StringVar(&a.color, "color", "", "color mode: auto, always or never")

	root.AddCommand(
		a.newCheckCmd(),
		a.newLexCmd(),
		a.newWatchCmd(),
		a.newServeCmd(),
		a.newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return cli.ExitOK
	}

	var exit *exitError
	if stderrors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exit.err)
		}
		return exit.code
	}
	// Unknown commands, bad flags and argument count errors.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return cli.ExitUsage
}

// setup loads the configuration and applies environment and flag overrides.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.trace {
		a.debug = true
	}
	a.logger = cli.NewLoggerTo(a.stdout, a.stderr, a.verbose, a.debug)

	path := a.cfgFile
	if path == "" {
		path = config.Discover(".")
	} else if _, err := os.Stat(path); err != nil {
		return &exitError{code: cli.ExitUsage, err: errors.InvalidConfig(path, err)}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return &exitError{code: cli.ExitUsage, err: err}
	}
	cfg.ApplyEnv(a.getenv)

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = a.format
	}
	if flags.Changed("color") {
		cfg.Color = a.color
	}
	if err := cfg.Validate(); err != nil {
		return &exitError{code: cli.ExitUsage, err: err}
	}

	if cfg.Path() != "" {
		a.logger.Debug("loaded config from %s", cfg.Path())
	}
	a.cfg = cfg
	return nil
}

// inputs returns the files to operate on: args when given, otherwise the
// configured list resolved against the config file's directory.
func (a *app) inputs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	base := ""
	if a.cfg.Path() != "" {
		base = filepath.Dir(a.cfg.Path())
	}
	paths := make([]string, 0, len(a.cfg.Files))
	for _, f := range a.cfg.Files {
		if base != "" && !filepath.IsAbs(f) {
			f = filepath.Join(base, f)
		}
		paths = append(paths, f)
	}
	return paths
}
