package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scrubtool/scrub/internal/scrub"
)

func watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Scrub the given roots on an interval until interrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig()
			if err != nil {
				return err
			}
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %v", interval)
			}

			walker := scrub.New(cfg, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("starting scrub watch", "interval", interval, "roots", len(args))

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				report := walker.Run(args)
				slog.Info("scrub pass complete", "dirty", report.Dirty)

				select {
				case <-ctx.Done():
					slog.Info("received signal, shutting down")
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Hour, "time between scrub passes")
	return cmd
}
