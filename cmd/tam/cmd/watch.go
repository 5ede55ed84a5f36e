package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tam-lang/tam/internal/cli"
	"github.com/tam-lang/tam/internal/vfs"
)

func (a *app) newWatchCmd() *cobra.Command {
	var poll bool
	c := &cobra.Command{
		Use:   "watch [file...]",
		Short: "Re-validate files whenever they change",
		Long: `Validate the files once, then again each time one of them is written
or created, until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			paths := a.inputs(args)
			checker := a.checker()
			checkOne := func(path string) {
				rep, err := checker.Run(ctx, []string{path})
				if err != nil {
					return
				}
				if err := a.render(a.stdout, rep); err != nil {
					a.logger.Error("render: %v", err)
				}
			}

			rep, err := checker.Run(ctx, paths)
			if err != nil {
				return err
			}
			if err := a.render(a.stdout, rep); err != nil {
				return err
			}

			w, err := a.newWatcher(ctx, paths, poll)
			if err != nil {
				return err
			}
			defer w.Close()

			a.logger.Info("watching %d file(s)", len(paths))
			watchLoop(ctx, w, paths, checkOne, a.logger)
			return nil
		},
	}
	c.Flags().BoolVar(&poll, "poll", false, "poll modification times instead of using OS notifications")
	return c
}

// newWatcher prefers OS notifications on the parent directories, which
// survive editors that save by rename, and falls back to polling the files.
func (a *app) newWatcher(ctx context.Context, paths []string, poll bool) (vfs.Watcher, error) {
	if !poll {
		fw, err := vfs.NewFSWatcher()
		if err == nil {
			dirs := make(map[string]bool)
			for _, p := range paths {
				dir := filepath.Dir(p)
				if dirs[dir] {
					continue
				}
				dirs[dir] = true
				if err = fw.Add(dir); err != nil {
					break
				}
			}
			if err == nil {
				return fw, nil
			}
			fw.Close()
		}
		a.logger.Warn("file notifications unavailable (%v), falling back to polling", err)
	}

	pw := vfs.NewPollingWatcher(vfs.NewOS(), a.cfg.Watch.PollInterval)
	for _, p := range paths {
		if err := pw.Add(p); err != nil {
			return nil, err
		}
	}
	pw.Start(ctx)
	return pw, nil
}

// watchLoop calls onChange with the watched path for every write or create
// event that names one of paths. It returns when ctx ends or the watcher's
// event channel closes.
func watchLoop(ctx context.Context, w vfs.Watcher, paths []string, onChange func(string), logger *cli.Logger) {
	targets := make(map[string]string, len(paths))
	for _, p := range paths {
		targets[filepath.Clean(p)] = p
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			path, watched := targets[filepath.Clean(ev.Path)]
			if !watched || !ev.Op.Has(vfs.OpWrite|vfs.OpCreate) {
				continue
			}
			logger.Debug("change: %s", ev.Path)
			onChange(path)
		case err := <-w.Errors():
			logger.Warn("watch: %v", err)
		}
	}
}
