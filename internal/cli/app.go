package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/atm/internal/config"
	"github.com/sandeepkv93/atm/internal/notify"
	"github.com/sandeepkv93/atm/internal/scheduler"
	"github.com/sandeepkv93/atm/internal/session"
	"github.com/sandeepkv93/atm/internal/storage"
	"github.com/sandeepkv93/atm/internal/task"
)

type options struct {
	configPath string
	backend    string
	dataDir    string
	user       string
	verbose    bool
}

// app is everything one invocation needs. Interactive runs get a live
// scheduler; one-shot commands do not arm reminders.
type app struct {
	cfg       config.Config
	kv        storage.KV
	adapter   *storage.Adapter
	engine    *scheduler.Engine
	deadlines *scheduler.Deadlines
	sessions  *session.Manager
}

func (o options) resolve() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	return cfg, nil
}

func openApp(cfg config.Config, interactive bool) (*app, error) {
	kv, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	log.Printf("storage backend %s in %s", cfg.Backend, cfg.DataDir)

	a := &app{cfg: cfg, kv: kv, adapter: storage.NewAdapter(kv)}
	var reminders task.Reminders
	gate := notify.NewGate(nil)
	if interactive {
		a.engine = scheduler.NewEngine(cfg.SchedulerBuffer)
		a.deadlines = scheduler.NewDeadlines(a.engine, cfg.NotifyLead)
		reminders = a.deadlines
		if cfg.DesktopNotifications {
			gate = notify.NewGate(notify.NewExecDesktop())
		}
	}
	a.sessions = session.New(a.adapter, reminders, gate)
	return a, nil
}

func (a *app) activate(ctx context.Context, user string) (*task.Store, error) {
	if user == "" {
		return nil, errors.New("a user is required, pass --user")
	}
	return a.sessions.Activate(ctx, user)
}

func (a *app) Close() error {
	a.sessions.Deactivate()
	if a.engine != nil {
		a.engine.Stop()
	}
	return a.kv.Close()
}

// setupLogging sends log output to stderr for one-shot commands when
// verbose, and to a file under the data dir for the TUI.
func setupLogging(verbose, interactive bool, dir string) (io.Closer, error) {
	log.SetPrefix("atm: ")
	log.SetFlags(log.LstdFlags)
	if !verbose {
		log.SetOutput(io.Discard)
		return nopCloser{}, nil
	}
	if !interactive {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cli: create log dir: %w", err)
	}
	f, err := tea.LogToFile(filepath.Join(dir, "atm.log"), "atm:")
	if err != nil {
		return nil, fmt.Errorf("cli: open log: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
