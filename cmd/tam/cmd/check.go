package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tam-lang/tam/internal/check"
	"github.com/tam-lang/tam/internal/report"
	"github.com/tam-lang/tam/internal/vfs"
)

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Validate source files",
		Long: `Validate each file independently and report the outcome.

Without arguments the files listed in the configuration are checked
(ornek1.tk to ornek4.tk by default). The exit status is 1 when any
file fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			checker := a.checker()
			rep, err := checker.Run(cmd.Context(), a.inputs(args))
			if rep != nil {
				if rerr := a.render(a.stdout, rep); rerr != nil {
					return rerr
				}
			}
			if err != nil {
				return err
			}
			if !rep.OK() {
				return failures
			}
			return nil
		},
	}
}

func (a *app) checker() *check.Checker {
	c := check.New(vfs.NewOS(), a.logger)
	c.Trace = a.trace
	return c
}

func (a *app) render(w io.Writer, rep *check.Report) error {
	if a.cfg.Format == "json" {
		return report.JSON(w, rep)
	}
	f, _ := w.(*os.File)
	return report.Text(w, rep, report.Options{Color: report.ColorEnabled(a.cfg.Color, f)})
}
