package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"footage/internal/project"
	"footage/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <project>",
		Short: "Reconcile a project whenever files under its layers change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			l, err := ctx.mediaLayout()
			if err != nil {
				return err
			}
			p, err := ctx.locate(args[0])
			if err != nil {
				return err
			}
			lock, err := project.AcquireLock(cfg.LockDir(), p.DirName())
			if err != nil {
				return err
			}
			defer lock.Release()

			engine, closeEngine, err := ctx.newEngine()
			if err != nil {
				return err
			}
			defer closeEngine()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			run := func(passCtx context.Context) error {
				result, err := engine.Run(passCtx, p)
				if err != nil {
					return err
				}
				if result.Changed() || len(result.Failures) > 0 {
					printUpdateResult(out, result)
				}
				return nil
			}

			fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", p.DirName())
			w := watch.New(project.Dirs(p.Path, l), cfg.WatchDebounce(), run, logger)
			if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
