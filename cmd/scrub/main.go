// Package main is the CLI entry point for scrub.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/scrubtool/scrub/internal/config"
	"github.com/scrubtool/scrub/internal/scrub"
)

var (
	cfgFile string
	verbose bool
	quiet   bool

	clobberExtensions []string
	clobberNames      []string
	preserveHidden    bool
	preserveSpecial   bool
	simulate          bool
)

// exitStatus is set by the run commands; a dirty run is not a command
// error, it is an exit code.
var exitStatus int

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(int(unix.EINVAL))
	}
	os.Exit(exitStatus)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scrub [path...]",
		Short: "Collapse a directory tree by deleting matched files and emptied directories",
		Long: `scrub walks each path depth-first, deletes files matched by the configured
name and extension rules, and removes every directory that becomes empty as
a result, bottom-up. The exit status reports whether any root was left
non-empty.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			cfg, err := loadRunConfig()
			if err != nil {
				return err
			}

			report := scrub.New(cfg, os.Stderr).Run(args)
			exitStatus = report.ExitCode()
			return nil
		},
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	}

	root.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default: ~/.config/scrub/config.toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.PersistentFlags().
		StringArrayVarP(&clobberExtensions, "clobber-extension", "c", nil, "delete files with this extension (no leading dot, repeatable)")
	root.PersistentFlags().
		StringArrayVarP(&clobberNames, "clobber-name", "C", nil, "delete files with this exact name (repeatable)")
	root.PersistentFlags().
		BoolVarP(&preserveHidden, "preserve-hidden", "H", false, "do not descend into or remove hidden directories")
	root.PersistentFlags().
		BoolVar(&preserveSpecial, "preserve-special", false, "do not delete special files (sockets, devices, pipes, links)")
	root.PersistentFlags().
		BoolVar(&simulate, "simulate", false, "log intended deletions without performing them")

	root.AddCommand(watchCmd())
	root.AddCommand(serviceCmd())

	return root
}

// loadRunConfig merges the config file with the command-line flags: clobber
// lists are unioned, booleans are ORed. Validation runs on the merged
// result so a bad flag value fails the same way a bad file value does.
func loadRunConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.Clobber.Extensions = append(cfg.Clobber.Extensions, clobberExtensions...)
	cfg.Clobber.Names = append(cfg.Clobber.Names, clobberNames...)
	cfg.Preserve.Hidden = cfg.Preserve.Hidden || preserveHidden
	cfg.Preserve.Special = cfg.Preserve.Special || preserveSpecial
	cfg.Simulate = cfg.Simulate || simulate
	cfg.Verbose = cfg.Verbose || verbose

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The file can request verbose logging after the flag-driven setup
	// already ran.
	if cfg.Verbose && !verbose && !quiet {
		verbose = true
		setupLogging()
	}

	return cfg, nil
}

func setupLogging() {
	setupLoggingWithWriter(os.Stderr)
}

func setupLoggingWithWriter(w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}
