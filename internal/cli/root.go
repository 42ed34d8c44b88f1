package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/atm/internal/update"
)

// Execute runs the atm command line.
func Execute(version string) error {
	root := NewRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func NewRootCmd() *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:   "atm",
		Short: "atm - a terminal task manager with deadlines, recurrence and reminders",
		Long: `atm keeps a per-user task list with priorities, deadlines and recurrence,
shows a month calendar of what is due, and raises desktop reminders an hour
before a deadline day ends.

Run without a subcommand to open the interactive interface.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), o)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Config file (.yaml, .yml or .toml)")
	flags.StringVar(&o.backend, "backend", "", "Storage backend: sqlite, file or memory")
	flags.StringVar(&o.dataDir, "data-dir", "", "Directory for stored data")
	flags.StringVarP(&o.user, "user", "u", "", "Username to log in as")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newAddCmd(&o))
	root.AddCommand(newListCmd(&o))
	root.AddCommand(newDoneCmd(&o))
	root.AddCommand(newExportCmd(&o))
	root.AddCommand(newUsersCmd(&o))
	return root
}

func runTUI(ctx context.Context, o options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := o.resolve()
	if err != nil {
		return err
	}
	logs, err := setupLogging(o.verbose, true, cfg.DataDir)
	if err != nil {
		return err
	}
	defer logs.Close()

	a, err := openApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if o.user != "" {
		if _, err := a.activate(ctx, o.user); err != nil {
			return err
		}
	}
	a.engine.Start()

	m := update.NewModel(a.sessions,
		update.WithEngine(a.engine),
		update.WithDeadlines(a.deadlines),
		update.WithContext(ctx),
	)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// oneShot opens storage for a non-interactive command and activates the
// --user session.
func oneShot(cmd *cobra.Command, o *options) (*app, io.Writer, error) {
	cfg, err := o.resolve()
	if err != nil {
		return nil, nil, err
	}
	if _, err := setupLogging(o.verbose, false, cfg.DataDir); err != nil {
		return nil, nil, err
	}
	a, err := openApp(cfg, false)
	if err != nil {
		return nil, nil, err
	}
	if _, err := a.activate(cmd.Context(), o.user); err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, cmd.OutOrStdout(), nil
}
