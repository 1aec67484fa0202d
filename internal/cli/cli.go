package cli

import (
	"commitblock/internal"
	"commitblock/internal/hostsfile"
	"commitblock/internal/structures"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

// Deps holds the injectors the commands are built on.
type Deps struct {
	InitApp     func(*structures.CliFlags) (*internal.App, error)
	InitToolkit func(*structures.CliFlags) (*internal.Toolkit, error)
	Out         io.Writer
}

// Runner encapsulates CLI execution.
type Runner struct {
	Deps  Deps
	flags structures.CliFlags
}

// Execute builds the command tree, runs it with args and returns the
// process exit code.
func (r *Runner) Execute(args []string) int {
	rootCmd := r.newRootCmd()
	rootCmd.AddCommand(
		r.newRunCmd(),
		r.newHostsCmd(),
		r.newStatusCmd(),
		r.newGoalCmd(),
		r.newBackupCmd(),
		r.newCycleCmd(),
	)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(r.out())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (r *Runner) out() io.Writer {
	if r.Deps.Out == nil {
		return os.Stdout
	}
	return r.Deps.Out
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out(), format, args...)
}

// withToolkit runs fn against a freshly built toolkit and closes its logger.
func (r *Runner) withToolkit(fn func(tk *internal.Toolkit) error) error {
	if r.Deps.InitToolkit == nil {
		return errors.New("toolkit injector is not provided")
	}
	tk, err := r.Deps.InitToolkit(&r.flags)
	if err != nil {
		return err
	}
	defer tk.Logger.Close()
	return fn(tk)
}

func (r *Runner) runApp(ctx context.Context, interactive bool) error {
	if r.Deps.InitApp == nil {
		return errors.New("app injector is not provided")
	}
	app, err := r.Deps.InitApp(&r.flags)
	if err != nil {
		return err
	}
	return app.Run(ctx, interactive)
}

// Root: runs the engine with the interactive shell.
func (r *Runner) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commitblock",
		Short: "Block distracting hosts until today's contribution goal is met",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.runApp(cmd.Context(), true)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&r.flags.ConfigPath, "config", "c", "config.yaml", "Path to the application config file")
	cmd.PersistentFlags().BoolVarP(&r.flags.DebugMode, "debug", "d", false, "Enable debug logging")
	return cmd
}

func (r *Runner) newRunCmd() *cobra.Command {
	var headless bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the threshold engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.runApp(cmd.Context(), !headless)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "Run without the interactive shell")
	return cmd
}

func (r *Runner) newHostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "Manage the blocked hosts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List blocked hosts",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return r.withToolkit(func(tk *internal.Toolkit) error {
					hosts, err := tk.Hosts.Load()
					if err != nil {
						return err
					}
					mode, err := tk.Hosts.Mode()
					if err != nil {
						return err
					}
					r.printf("Hosts file: %s (%s)\n", tk.Conf.Hosts.FilePath, mode)
					for _, h := range hosts {
						r.printf("  %s\n", h)
					}
					return nil
				})
			},
			SilenceUsage:  true,
			SilenceErrors: true,
		},
		&cobra.Command{
			Use:   "set <host>...",
			Short: "Replace the blocked hosts",
			RunE: func(_ *cobra.Command, args []string) error {
				hosts := make([]string, 0, len(args))
				for _, arg := range args {
					host, err := hostsfile.NormalizeHost(arg)
					if err != nil {
						return err
					}
					hosts = append(hosts, host)
				}
				return r.withToolkit(func(tk *internal.Toolkit) error {
					if err := tk.Hosts.Replace(hosts); err != nil {
						return err
					}
					r.printf("✓ %d hosts saved\n", len(hosts))
					return nil
				})
			},
			SilenceUsage:  true,
			SilenceErrors: true,
		},
		&cobra.Command{
			Use:   "add <host>",
			Short: "Add a host to the block",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				host, err := hostsfile.NormalizeHost(args[0])
				if err != nil {
					return err
				}
				return r.withToolkit(func(tk *internal.Toolkit) error {
					hosts, err := tk.Hosts.Load()
					if err != nil {
						return err
					}
					if slices.Contains(hosts, host) {
						return fmt.Errorf("host %s is already blocked", host)
					}
					if err := tk.Hosts.Replace(append(hosts, host)); err != nil {
						return err
					}
					r.printf("✓ Added: %s\n", host)
					return nil
				})
			},
			SilenceUsage:  true,
			SilenceErrors: true,
		},
		&cobra.Command{
			Use:   "remove <host>",
			Short: "Remove a host from the block",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				host, err := hostsfile.NormalizeHost(args[0])
				if err != nil {
					return err
				}
				return r.withToolkit(func(tk *internal.Toolkit) error {
					hosts, err := tk.Hosts.Load()
					if err != nil {
						return err
					}
					i := slices.Index(hosts, host)
					if i < 0 {
						return fmt.Errorf("host %s not found", host)
					}
					if err := tk.Hosts.Replace(slices.Delete(hosts, i, i+1)); err != nil {
						return err
					}
					r.printf("✓ Removed: %s\n", host)
					return nil
				})
			},
			SilenceUsage:  true,
			SilenceErrors: true,
		},
		&cobra.Command{
			Use:   "engage",
			Short: "Block all managed hosts now",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return r.withToolkit(func(tk *internal.Toolkit) error {
					if err := tk.Hosts.Engage(); err != nil {
						return err
					}
					r.printf("✓ Block engaged\n")
					return nil
				})
			},
			SilenceUsage:  true,
			SilenceErrors: true,
		},
		&cobra.Command{
			Use:   "release",
			Short: "Unblock all managed hosts now",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return r.withToolkit(func(tk *internal.Toolkit) error {
					if err := tk.Hosts.Release(); err != nil {
						return err
					}
					r.printf("✓ Block released\n")
					return nil
				})
			},
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	)
	return cmd
}

func (r *Runner) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the goal and the persisted threshold status",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return r.withToolkit(func(tk *internal.Toolkit) error {
				goal, err := tk.Goals.Load()
				if err != nil {
					return err
				}
				mode, err := tk.Hosts.Mode()
				if err != nil {
					return err
				}
				status := tk.State.Load()

				r.printf("User: %s\n", goal.GithubUsername)
				r.printf("Goal: %d contributions\n", goal.ContributionGoal)
				r.printf("Block: %s\n", mode)
				if status.MetDate != nil && status.MetGoal != nil {
					r.printf("Last met: %s (goal %d)\n", *status.MetDate, *status.MetGoal)
				} else {
					r.printf("Last met: never\n")
				}
				return nil
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func (r *Runner) newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Show or change the daily goal",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the daily goal",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return r.withToolkit(func(tk *internal.Toolkit) error {
				goal, err := tk.Goals.Load()
				if err != nil {
					return err
				}
				r.printf("github_username = %q\ncontribution_goal = %d\n", goal.GithubUsername, goal.ContributionGoal)
				return nil
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var count uint32
	var username string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the daily goal or the GitHub username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withToolkit(func(tk *internal.Toolkit) error {
				goal, err := tk.Goals.Load()
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("goal") {
					goal.ContributionGoal = count
				}
				if cmd.Flags().Changed("user") {
					goal.GithubUsername = username
				}
				if err := tk.Goals.Save(goal); err != nil {
					return err
				}
				r.printf("✓ Goal: %d contributions for %q\n", goal.ContributionGoal, goal.GithubUsername)
				return nil
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	set.Flags().Uint32VarP(&count, "goal", "g", 1, "Daily contribution goal")
	set.Flags().StringVarP(&username, "user", "u", "", "GitHub username")

	cmd.AddCommand(show, set)
	return cmd
}

func (r *Runner) newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Inspect and restore hosts file backups",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List backups, newest first",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return r.withToolkit(func(tk *internal.Toolkit) error {
					backups, err := tk.Backups.List()
					if err != nil {
						return err
					}
					if len(backups) == 0 {
						r.printf("No backups\n")
						return nil
					}
					for _, b := range backups {
						r.printf("%s\t%d\t%s\n", b.Name, b.Size, b.Modified.Format("2006-01-02 15:04:05"))
					}
					return nil
				})
			},
			SilenceUsage:  true,
			SilenceErrors: true,
		},
		&cobra.Command{
			Use:   "restore <name>",
			Short: "Restore the hosts file from a backup",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return r.withToolkit(func(tk *internal.Toolkit) error {
					if err := tk.Hosts.Restore(args[0]); err != nil {
						return fmt.Errorf("failed to restore backup: %w", err)
					}
					r.printf("✓ Restored from backup: %s\n", args[0])
					return nil
				})
			},
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	)
	return cmd
}

func (r *Runner) newCycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Run a single threshold evaluation and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withToolkit(func(tk *internal.Toolkit) error {
				result := tk.Engine.RunCycle(cmd.Context())
				r.printf("Outcome: %s\n", result.Outcome)
				r.printf("Progress: %d%%\n", result.Progress)
				return result.Err
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
