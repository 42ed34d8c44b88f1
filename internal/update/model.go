package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/atm/internal/model"
	"github.com/sandeepkv93/atm/internal/notify"
	"github.com/sandeepkv93/atm/internal/scheduler"
	"github.com/sandeepkv93/atm/internal/session"
	"github.com/sandeepkv93/atm/internal/storage"
)

type View string

const (
	ViewLogin    View = "Login"
	ViewTasks    View = "Tasks"
	ViewCalendar View = "Calendar"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks    string
	Calendar string
	Theme    string
	Logout   string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView   View
	Tasks         []model.Task
	Cursor        int
	CalendarMonth time.Time
	Theme         string
	Palette       CommandPaletteState
	HelpVisible   bool
	ConfirmDelete string
	ReminderLog   []notify.Notification
	Status        StatusBar
	LoginError    string
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	ctx       context.Context
	sessions  *session.Manager
	engine    *scheduler.Engine
	deadlines *scheduler.Deadlines
	now       func() time.Time

	feed     *taskFeed
	feedSeen uint64

	loginInput   textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
}

type Option func(*Model)

func WithEngine(engine *scheduler.Engine) Option {
	return func(m *Model) { m.engine = engine }
}

// WithDeadlines lets the task list mark rows that have a reminder armed.
func WithDeadlines(d *scheduler.Deadlines) Option {
	return func(m *Model) { m.deadlines = d }
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

// NotificationFailedMsg reports a desktop notification the host refused.
type NotificationFailedMsg struct {
	TaskID string
	Err    error
}

// LoginMsg activates a session without going through the login form.
type LoginMsg struct {
	Username string
}

func NewModel(sessions *session.Manager, opts ...Option) Model {
	m := Model{
		CurrentView: ViewLogin,
		Theme:       storage.ThemeLight,
		Keys: GlobalKeyMap{
			Tasks:    "1",
			Calendar: "c",
			Theme:    "T",
			Logout:   "L",
			Help:     "?",
			Quit:     "q",
		},
		ctx:      context.Background(),
		sessions: sessions,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if theme, err := sessions.Theme(m.ctx); err == nil {
		m.Theme = theme
	}
	m.CalendarMonth = firstOfMonth(m.now())
	m.initBubbleComponents()
	if store, err := sessions.Store(); err == nil {
		m.CurrentView = ViewTasks
		m.attach(store)
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.loginInput = textinput.New()
	m.loginInput.Prompt = "> "
	m.loginInput.Placeholder = "username"
	m.loginInput.CharLimit = 64
	m.loginInput.Width = 32
	m.loginInput.Focus()

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
}
