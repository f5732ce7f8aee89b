package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	svc "github.com/kardianos/service"
	"github.com/spf13/cobra"
)

// Service management via kardianos/service. The installed service runs
// `scrub watch` over a fixed set of roots; per-run flags come from the
// config file so the unit definition stays stable.
const serviceName = "scrub"

// svcProgram is a no-op service.Interface. kardianos/service is used only
// for install/uninstall and OS-level start/stop; the watch loop is its own
// command.
type svcProgram struct{}

func (p *svcProgram) Start(s svc.Service) error { return nil }
func (p *svcProgram) Stop(s svc.Service) error  { return nil }

func newServiceConfig(configPath string, interval time.Duration, roots []string) *svc.Config {
	args := []string{"watch", "--interval", interval.String()}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	args = append(args, roots...)
	return &svc.Config{
		Name:        serviceName,
		DisplayName: "scrub",
		Description: "Periodic directory tree collapse",
		Arguments:   args,
		Option: svc.KeyValue{
			"UserService": true,
			"KeepAlive":   true,
			"RunAtLoad":   true,
		},
	}
}

// serviceInstalled checks whether the scrub OS service is installed.
func serviceInstalled() (svc.Service, bool) {
	s, err := svc.New(&svcProgram{}, newServiceConfig("", time.Hour, nil))
	if err != nil {
		return nil, false
	}
	_, err = s.Status()
	if errors.Is(err, svc.ErrNotInstalled) {
		return nil, false
	}
	return s, true
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"svc"},
		Short:   "Manage the scrub OS service (launchd/systemd)",
	}

	cmd.AddCommand(serviceInstallCmd())
	cmd.AddCommand(serviceUninstallCmd())
	cmd.AddCommand(serviceStatusCmd())
	return cmd
}

func serviceInstallCmd() *cobra.Command {
	var interval time.Duration
	var noStart bool
	var force bool

	cmd := &cobra.Command{
		Use:   "install <path>...",
		Short: "Install scrub as an OS service watching the given roots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Resolve everything to absolute paths so the unit definition
			// does not depend on the install-time working directory.
			roots := make([]string, 0, len(args))
			for _, root := range args {
				abs, err := filepath.Abs(root)
				if err != nil {
					return fmt.Errorf("resolving root %q: %w", root, err)
				}
				roots = append(roots, abs)
			}

			configPath := cfgFile
			if configPath != "" {
				abs, err := filepath.Abs(configPath)
				if err != nil {
					return fmt.Errorf("resolving config path: %w", err)
				}
				configPath = abs
			}

			s, err := svc.New(&svcProgram{}, newServiceConfig(configPath, interval, roots))
			if err != nil {
				return fmt.Errorf("creating service: %w", err)
			}

			if _, already := serviceInstalled(); already {
				if !force {
					fmt.Fprintln(os.Stderr, "service already installed (use --force to reinstall)")
					return nil
				}
				fmt.Fprintln(os.Stderr, "service already installed, reinstalling")
				_ = s.Stop()
				if err := s.Uninstall(); err != nil {
					return fmt.Errorf("uninstalling existing service: %w", err)
				}
			}

			if err := s.Install(); err != nil {
				return fmt.Errorf("installing service: %w", err)
			}
			fmt.Fprintln(os.Stderr, "service installed")

			if !noStart {
				if err := s.Start(); err != nil {
					return fmt.Errorf("starting service: %w", err)
				}
				fmt.Fprintln(os.Stderr, "service started")
			}

			return nil
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Hour, "time between scrub passes")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "reinstall the service if already installed")
	cmd.Flags().BoolVar(&noStart, "no-start", false, "skip starting the service after installation")
	return cmd
}

func serviceUninstallCmd() *cobra.Command {
	var noStop bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Uninstall the scrub OS service",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Make uninstall idempotent: no-op if not installed.
			s, installed := serviceInstalled()
			if !installed {
				fmt.Fprintln(os.Stderr, "service not installed, nothing to do")
				return nil
			}

			if !noStop {
				if err := s.Stop(); err != nil {
					fmt.Fprintf(os.Stderr, "failed to stop service before uninstall: %v\n", err)
				} else {
					fmt.Fprintln(os.Stderr, "service stopped")
				}
			}

			if err := s.Uninstall(); err != nil {
				return fmt.Errorf("uninstalling service: %w", err)
			}

			fmt.Fprintln(os.Stderr, "service uninstalled")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noStop, "no-stop", false, "skip stopping the service before uninstalling")
	return cmd
}

func serviceStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the scrub OS service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, installed := serviceInstalled()
			if !installed {
				fmt.Println("not installed")
				return nil
			}

			status, err := s.Status()
			if err != nil {
				return fmt.Errorf("querying service status: %w", err)
			}

			switch status {
			case svc.StatusRunning:
				fmt.Println("running")
			case svc.StatusStopped:
				fmt.Println("stopped")
			default:
				fmt.Println("unknown")
			}
			return nil
		},
	}
}
