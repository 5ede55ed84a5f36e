// Package check drives validation over a list of sources. Each source is
// acquired, validated and released on its own; one failure never stops the
// rest of the run.
package check

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tam-lang/tam/internal/cli"
	"github.com/tam-lang/tam/internal/errors"
	"github.com/tam-lang/tam/internal/lexer"
	"github.com/tam-lang/tam/internal/parser"
	"github.com/tam-lang/tam/internal/vfs"
)

// FileResult is the outcome of validating one source.
type FileResult struct {
	Path     string
	OK       bool
	Declared []string
	Tokens   int
	Lines    int
	Err      error
	Category errors.ErrorCategory
	Duration time.Duration
}

// Report collects the results of one run.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Files    []FileResult
}

// Failed returns the number of sources that did not validate.
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		if !f.OK {
			n++
		}
	}
	return n
}

// OK reports whether every source validated.
func (r *Report) OK() bool { return r.Failed() == 0 }

// Checker validates sources read from FS.
type Checker struct {
	FS     vfs.FileSystem
	Logger *cli.Logger
	// Trace logs every consumed token and statement start at debug level.
	Trace bool
}

// New creates a checker. A nil logger discards output.
func New(fsys vfs.FileSystem, logger *cli.Logger) *Checker {
	if logger == nil {
		logger = cli.Discard()
	}
	return &Checker{FS: fsys, Logger: logger}
}

// Run validates paths in order. Cancellation is honoured between sources
// only; the returned report holds every source finished before that.
func (c *Checker) Run(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Started: time.Now()}
	c.Logger.Info("run %s: checking %d file(s)", report.RunID, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			report.Finished = time.Now()
			return report, err
		}
		report.Files = append(report.Files, c.CheckFile(path))
	}

	report.Finished = time.Now()
	c.Logger.Info("run %s: %d ok, %d failed", report.RunID, len(report.Files)-report.Failed(), report.Failed())
	return report, nil
}

// CheckFile acquires path from the filesystem and validates it. The file is
// closed before CheckFile returns on every path.
func (c *Checker) CheckFile(path string) FileResult {
	start := time.Now()
	var result FileResult
	err := vfs.WithSource(c.FS, path, func(r io.Reader) error {
		result = c.CheckSource(path, r)
		return nil
	})
	if err != nil {
		result = c.fail(path, errors.SourceUnavailable(path, err))
	}
	result.Duration = time.Since(start)
	return result
}

// CheckSource validates r, reporting it under name.
func (c *Checker) CheckSource(name string, r io.Reader) FileResult {
	start := time.Now()
	c.Logger.Debug("checking %s", name)

	var opts []parser.Option
	if c.Trace {
		opts = append(opts, parser.WithTracer(func(event string, tok lexer.Token) {
			c.Logger.Debug("%s: %s %s line %d", name, event, tok.Describe(), tok.Line)
		}))
	}

	res, err := parser.Check(r, name, opts...)
	if err != nil {
		if cat := errors.Classify(err); cat != errors.CategorySyntax && cat != errors.CategorySemantic {
			err = errors.SourceUnavailable(name, err)
		}
		result := c.fail(name, err)
		result.Duration = time.Since(start)
		return result
	}

	c.Logger.Info("%s: ok, declared %v", name, res.Declared)
	return FileResult{
		Path:     name,
		OK:       true,
		Declared: res.Declared,
		Tokens:   res.Tokens,
		Lines:    res.Lines,
		Duration: time.Since(start),
	}
}

func (c *Checker) fail(path string, err error) FileResult {
	c.Logger.Debug("%s: %v", path, err)
	return FileResult{
		Path:     path,
		Err:      err,
		Category: errors.Classify(err),
	}
}
