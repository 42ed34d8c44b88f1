package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/atm/internal/calendar"
	"github.com/sandeepkv93/atm/internal/commands"
	"github.com/sandeepkv93/atm/internal/model"
)

func newAddCmd(o *options) *cobra.Command {
	var priority, due, every string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.PriorityNone
			if priority != "" {
				parsed, err := model.ParsePriority(priority)
				if err != nil {
					return err
				}
				p = parsed
			}
			r, err := model.ParseRecurrence(every)
			if err != nil {
				return err
			}
			var deadline *string
			if due != "" {
				deadline = &due
			}

			a, out, err := oneShot(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.sessions.Store()
			if err != nil {
				return err
			}
			t, err := store.Add(cmd.Context(), strings.Join(args, " "), p, deadline, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Added %d. %s\n", t.Order+1, t.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "High, Medium or Low")
	cmd.Flags().StringVar(&due, "due", "", "Deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&every, "every", "", "Recurrence: daily, weekly or monthly")
	return cmd
}

func newListCmd(o *options) *cobra.Command {
	var dueOn string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, out, err := oneShot(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.sessions.Store()
			if err != nil {
				return err
			}
			tasks := store.Tasks()
			if dueOn != "" {
				tasks = store.DueOn(dueOn)
			}
			printTasks(out, tasks)
			return nil
		},
	}
	cmd.Flags().StringVar(&dueOn, "due-on", "", "Only tasks due on this date (YYYY-MM-DD)")
	return cmd
}

func printTasks(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, t := range tasks {
		check := " "
		if t.Completed {
			check = "x"
		}
		line := fmt.Sprintf("%2d. [%s] %s  (Priority: %s", t.Order+1, check, t.Title, t.Priority.Label())
		if t.HasDeadline() {
			line += ", Deadline: " + t.DeadlineString()
		}
		if t.Recurring.IsRecurring() {
			line += ", Recurring: " + string(t.Recurring)
		}
		fmt.Fprintln(w, line+")")
	}
}

func newDoneCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <n>",
		Short: "Toggle completion of the task at position n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("position %q: want a number from list", args[0])
			}
			a, out, err := oneShot(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.sessions.Store()
			if err != nil {
				return err
			}
			id, found := commands.Target{Index: n}.Resolve(store.Tasks(), 0)
			if !found {
				return fmt.Errorf("no task at position %d", n)
			}
			updated, spawned, err := a.sessions.Complete(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "reopened"
			if updated.Completed {
				state = "completed"
			}
			fmt.Fprintf(out, "%s %s\n", strings.ToUpper(state[:1])+state[1:], updated.Title)
			if spawned != nil {
				fmt.Fprintf(out, "Next occurrence due %s\n", spawned.DeadlineString())
			}
			return nil
		},
	}
}

func newExportCmd(o *options) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks with deadlines as iCalendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, out, err := oneShot(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.sessions.Store()
			if err != nil {
				return err
			}
			ics, err := calendar.ExportICS(store.Tasks(), time.Now())
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				_, err = io.WriteString(out, ics)
				return err
			}
			if err := os.WriteFile(outPath, []byte(ics), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(out, "Wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newUsersCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List usernames that have stored tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve()
			if err != nil {
				return err
			}
			if _, err := setupLogging(o.verbose, false, cfg.DataDir); err != nil {
				return err
			}
			a, err := openApp(cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			users, err := a.adapter.Users(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users.")
				return nil
			}
			for _, u := range users {
				fmt.Fprintln(out, u)
			}
			return nil
		},
	}
}
